package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByCode(ctx context.Context, code string) (*Order, error)
	FindPositionBySecret(ctx context.Context, secret string) (*OrderPosition, error)

	// SeatIDsWithActiveOrder returns seats claimed by a pending or paid
	// order position of the event.
	SeatIDsWithActiveOrder(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]struct{}, error)
	// HasActiveOrderForSeat reports whether a single seat is sold.
	HasActiveOrderForSeat(ctx context.Context, seatID uuid.UUID) (bool, error)
	// CountSeatedPositions counts positions of the event that point at a
	// seat, regardless of order status. Used as the plan-detach guard.
	CountSeatedPositions(ctx context.Context, eventID uuid.UUID) (int64, error)

	// ReplaceSeatLinks clears every seat link of the event and applies the
	// given position->seat pairs in one transaction.
	ReplaceSeatLinks(ctx context.Context, eventID uuid.UUID, links map[uuid.UUID]uuid.UUID) error
	// ClearSeatLinks removes every seat link of the event.
	ClearSeatLinks(ctx context.Context, eventID uuid.UUID) error

	ListSeatedPositions(ctx context.Context, eventID uuid.UUID) ([]SeatedPosition, error)
}

// SeatedPosition pairs a position secret with the GUID of its seat, the shape
// the bulk upload round-trips through.
type SeatedPosition struct {
	Secret   string `json:"secret"`
	SeatGUID string `json:"seat_guid"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Preload("Positions").Where("code = ?", code).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindPositionBySecret(ctx context.Context, secret string) (*OrderPosition, error) {
	var position OrderPosition
	err := r.db.WithContext(ctx).Where("secret = ?", secret).First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *repository) SeatIDsWithActiveOrder(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&OrderPosition{}).
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("orders.event_id = ?", eventID).
		Where("orders.status IN ?", []OrderStatus{OrderStatusPending, OrderStatusPaid}).
		Where("order_positions.seat_id IS NOT NULL AND order_positions.canceled = false").
		Pluck("order_positions.seat_id", &seatIDs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *repository) HasActiveOrderForSeat(ctx context.Context, seatID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderPosition{}).
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("order_positions.seat_id = ? AND order_positions.canceled = false", seatID).
		Where("orders.status IN ?", []OrderStatus{OrderStatusPending, OrderStatusPaid}).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountSeatedPositions(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderPosition{}).
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("orders.event_id = ? AND order_positions.seat_id IS NOT NULL", eventID).
		Count(&count).Error
	return count, err
}

func (r *repository) ReplaceSeatLinks(ctx context.Context, eventID uuid.UUID, links map[uuid.UUID]uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearSeatLinks(tx, eventID); err != nil {
			return err
		}
		for positionID, seatID := range links {
			err := tx.Model(&OrderPosition{}).
				Where("id = ?", positionID).
				Update("seat_id", seatID).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) ClearSeatLinks(ctx context.Context, eventID uuid.UUID) error {
	return clearSeatLinks(r.db.WithContext(ctx), eventID)
}

func clearSeatLinks(db *gorm.DB, eventID uuid.UUID) error {
	return db.Model(&OrderPosition{}).
		Where("order_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&Order{}).Select("id").Where("event_id = ?", eventID)).
		Update("seat_id", nil).Error
}

func (r *repository) ListSeatedPositions(ctx context.Context, eventID uuid.UUID) ([]SeatedPosition, error) {
	var rows []SeatedPosition
	err := r.db.WithContext(ctx).Model(&OrderPosition{}).
		Select("order_positions.secret AS secret, seats.seat_guid AS seat_guid").
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Joins("JOIN seats ON seats.id = order_positions.seat_id").
		Where("orders.event_id = ?", eventID).
		Scan(&rows).Error
	return rows, err
}
