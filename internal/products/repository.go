package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Product, error)
	ListOverrides(ctx context.Context, subEventID uuid.UUID) ([]SubEventProductOverride, error)
	UpsertOverride(ctx context.Context, override *SubEventProductOverride) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *repository) ListOverrides(ctx context.Context, subEventID uuid.UUID) ([]SubEventProductOverride, error) {
	var overrides []SubEventProductOverride
	err := r.db.WithContext(ctx).
		Where("sub_event_id = ?", subEventID).
		Find(&overrides).Error
	return overrides, err
}

func (r *repository) UpsertOverride(ctx context.Context, override *SubEventProductOverride) error {
	return r.db.WithContext(ctx).
		Where("sub_event_id = ? AND product_id = ?", override.SubEventID, override.ProductID).
		Assign(map[string]interface{}{"disabled": override.Disabled}).
		FirstOrCreate(override).Error
}
