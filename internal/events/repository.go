package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, event *Event) error

	// Transaction runs fn inside one transaction. fn receives the
	// transaction handle for collaborator writers and a repository bound to
	// the same transaction.
	Transaction(ctx context.Context, fn func(tx *gorm.DB, txRepo Repository) error) error

	CreateSubEvent(ctx context.Context, subEvent *SubEvent) error
	GetSubEvent(ctx context.Context, id uuid.UUID) (*SubEvent, error)
	ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]SubEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB, txRepo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, &repository{db: tx})
	})
}

func (r *repository) CreateSubEvent(ctx context.Context, subEvent *SubEvent) error {
	return r.db.WithContext(ctx).Create(subEvent).Error
}

func (r *repository) GetSubEvent(ctx context.Context, id uuid.UUID) (*SubEvent, error) {
	var subEvent SubEvent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subEvent).Error
	if err != nil {
		return nil, err
	}
	return &subEvent, nil
}

func (r *repository) ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]SubEvent, error) {
	var subEvents []SubEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at ASC").
		Find(&subEvents).Error
	return subEvents, err
}
