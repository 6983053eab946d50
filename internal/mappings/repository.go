package mappings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]CategoryMapping, error)
	// ReplaceForEvent swaps the event's full mapping set in one transaction.
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, mappings []CategoryMapping) error
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]CategoryMapping, error) {
	var mappings []CategoryMapping
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("layout_category ASC").
		Find(&mappings).Error
	return mappings, err
}

func (r *repository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, mappings []CategoryMapping) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&CategoryMapping{}).Error; err != nil {
			return err
		}
		if len(mappings) == 0 {
			return nil
		}
		return tx.Create(&mappings).Error
	})
}

func (r *repository) DeleteForEvent(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&CategoryMapping{}).Error
}
