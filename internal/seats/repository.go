package seats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateBatch(ctx context.Context, seats []Seat) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
	GetByGUID(ctx context.Context, eventID uuid.UUID, guid string) (*Seat, error)
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) error
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	SetBlocked(ctx context.Context, eventID uuid.UUID, guid string, blocked bool) error

	// Transaction runs fn against a repository bound to one transaction.
	Transaction(ctx context.Context, fn func(txRepo Repository) error) error
	// LockByGUID loads a seat with a row lock. Only meaningful inside a
	// Transaction; concurrent assignments on the same seat serialize here.
	LockByGUID(ctx context.Context, eventID uuid.UUID, guid string) (*Seat, error)

	// ClearCartSeatLinks and SetCartSeatLink write the cart side of an
	// assignment so both sides commit atomically with the seat locks held.
	ClearCartSeatLinks(ctx context.Context, positionIDs []uuid.UUID) error
	SetCartSeatLink(ctx context.Context, positionID, seatID uuid.UUID) error
	// ReleaseStaleSeatLinks unlinks cart positions whose hold lapsed (a hold
	// is live strictly while expires > now) but still point at the given
	// seats. The unique index on cart_positions.seat_id would otherwise
	// reject a fresh hold on such a seat.
	ReleaseStaleSeatLinks(ctx context.Context, seatIDs []uuid.UUID, now time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&seats, 500).Error
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("seat_guid ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetByGUID(ctx context.Context, eventID uuid.UUID, guid string) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND seat_guid = ?", eventID, guid).
		First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) DeleteByEvent(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&Seat{}).Error
}

func (r *repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *repository) SetBlocked(ctx context.Context, eventID uuid.UUID, guid string, blocked bool) error {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ? AND seat_guid = ?", eventID, guid).
		Update("blocked", blocked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Transaction(ctx context.Context, fn func(txRepo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockByGUID(ctx context.Context, eventID uuid.UUID, guid string) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND seat_guid = ?", eventID, guid).
		First(&seat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &SeatNotFoundError{GUID: guid}
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) ClearCartSeatLinks(ctx context.Context, positionIDs []uuid.UUID) error {
	if len(positionIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Table("cart_positions").
		Where("id IN ?", positionIDs).
		Update("seat_id", nil).Error
}

func (r *repository) ReleaseStaleSeatLinks(ctx context.Context, seatIDs []uuid.UUID, now time.Time) error {
	if len(seatIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Table("cart_positions").
		Where("seat_id IN ? AND expires <= ?", seatIDs, now).
		Update("seat_id", nil).Error
}

func (r *repository) SetCartSeatLink(ctx context.Context, positionID, seatID uuid.UUID) error {
	return r.db.WithContext(ctx).Table("cart_positions").
		Where("id = ?", positionID).
		Update("seat_id", seatID).Error
}
