package carts

import (
	"time"

	"github.com/google/uuid"
)

// CartPosition is one prospective ticket in an anonymous cart. A position
// with a seat link holds that seat until Expires passes; expired holds are
// inert even before the sweeper removes the row.
type CartPosition struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CartID    string     `json:"cart_id" gorm:"not null;size:64;index"`
	EventID   uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null"`
	SeatID    *uuid.UUID `json:"seat_id" gorm:"type:uuid"`

	// Admission positions are the ones that need a seat before checkout.
	Admission bool      `json:"admission" gorm:"default:true"`
	Expires   time.Time `json:"expires" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// HoldsSeat reports whether the position holds a live seat reservation.
func (p *CartPosition) HoldsSeat(now time.Time) bool {
	return p.SeatID != nil && p.Expires.After(now)
}

// SeatHold is the projection of a cart position used by availability checks.
type SeatHold struct {
	PositionID uuid.UUID
	CartID     string
	SeatID     uuid.UUID
	Expires    time.Time
}
