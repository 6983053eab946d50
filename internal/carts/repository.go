package carts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, position *CartPosition) error
	GetByID(ctx context.Context, id uuid.UUID) (*CartPosition, error)
	PositionsForCart(ctx context.Context, cartID string, eventID uuid.UUID, now time.Time) ([]CartPosition, error)

	// LiveHoldsByEvent returns every unexpired seat hold of the event.
	LiveHoldsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]SeatHold, error)
	// LiveHoldsForSeat returns the unexpired holds on a single seat.
	LiveHoldsForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) ([]SeatHold, error)

	// DeleteExpired removes cart positions whose hold lapsed before the
	// cutoff and returns how many rows were reclaimed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, position *CartPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*CartPosition, error) {
	var position CartPosition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *repository) PositionsForCart(ctx context.Context, cartID string, eventID uuid.UUID, now time.Time) ([]CartPosition, error) {
	var positions []CartPosition
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND event_id = ?", cartID, eventID).
		Where("expires > ?", now).
		Order("created_at ASC").
		Find(&positions).Error
	return positions, err
}

func (r *repository) LiveHoldsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]SeatHold, error) {
	return r.liveHolds(ctx, "event_id = ?", eventID, now)
}

func (r *repository) LiveHoldsForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) ([]SeatHold, error) {
	return r.liveHolds(ctx, "seat_id = ?", seatID, now)
}

func (r *repository) liveHolds(ctx context.Context, cond string, id uuid.UUID, now time.Time) ([]SeatHold, error) {
	var positions []CartPosition
	err := r.db.WithContext(ctx).
		Where(cond, id).
		Where("seat_id IS NOT NULL AND expires > ?", now).
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	holds := make([]SeatHold, 0, len(positions))
	for _, p := range positions {
		holds = append(holds, SeatHold{
			PositionID: p.ID,
			CartID:     p.CartID,
			SeatID:     *p.SeatID,
			Expires:    p.Expires,
		})
	}
	return holds, nil
}

func (r *repository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires < ?", cutoff).
		Delete(&CartPosition{})
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&CartPosition{}).Error
}
