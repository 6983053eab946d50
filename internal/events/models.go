package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Slug string    `json:"slug" gorm:"not null;size:64;uniqueIndex"`
	Name string    `json:"name" gorm:"not null;size:255"`

	// SeatingPlanID attaches a venue layout; nil means general admission.
	SeatingPlanID *uuid.UUID `json:"seating_plan_id" gorm:"type:uuid;index"`
	// SeatingChoice lets customers pick their own seats. When disabled the
	// seatmap endpoints return an empty map.
	SeatingChoice bool `json:"seating_choice" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SubEvent is one date of an event series. Seat holds and category mappings
// can be scoped to a subevent.
type SubEvent struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"not null;size:255"`
	StartsAt time.Time `json:"starts_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateEventRequest struct {
	Slug          string `json:"slug" binding:"required,min=1,max=64"`
	Name          string `json:"name" binding:"required,min=1,max=255"`
	SeatingChoice *bool  `json:"seating_choice"`
}

type SetSeatingPlanRequest struct {
	// Nil detaches the current plan.
	SeatingPlanID *uuid.UUID `json:"seating_plan_id"`
	SeatingChoice *bool      `json:"seating_choice"`
}

type EventResponse struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	SeatingPlanID *uuid.UUID `json:"seating_plan_id"`
	SeatingChoice bool       `json:"seating_choice"`
	SeatCount     int64      `json:"seat_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
