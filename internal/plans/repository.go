package plans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, plan *SeatingPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*SeatingPlan, error)
	List(ctx context.Context, organizer string) ([]SeatingPlan, error)
	Update(ctx context.Context, plan *SeatingPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	EventsUsing(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, plan *SeatingPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*SeatingPlan, error) {
	var plan SeatingPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) List(ctx context.Context, organizer string) ([]SeatingPlan, error) {
	var plans []SeatingPlan
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if organizer != "" {
		q = q.Where("organizer = ?", organizer)
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *repository) Update(ctx context.Context, plan *SeatingPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&SeatingPlan{}).Error
}

// EventsUsing counts events currently attached to the plan. Queried via the
// events table directly to keep this package free of an events import.
func (r *repository) EventsUsing(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("events").
		Where("seating_plan_id = ?", id).
		Count(&count).Error
	return count, err
}
