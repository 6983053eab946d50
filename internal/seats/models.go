package seats

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Seat is one materialized seat of an event, generated from the layout of
// the event's seating plan. SeatGUID is the stable layout identity; it is
// unique within the event.
type Seat struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	SeatGUID string    `json:"seat_guid" gorm:"not null;size:255"`

	Name string  `json:"name" gorm:"size:255"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	// ProductID is a direct seat-to-product binding; it wins over the
	// category mapping when set.
	ProductID *uuid.UUID `json:"product_id" gorm:"type:uuid"`
	// Blocked seats are withheld from sale regardless of holds.
	Blocked bool `json:"blocked" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SeatDisplayStatus is what the seatmap renders for one seat.
type SeatDisplayStatus string

const (
	// StatusAvailable means the seat can be picked right now.
	StatusAvailable SeatDisplayStatus = "available"
	// StatusUnavailable covers sold, held by others, blocked and unmapped
	// seats; the renderer does not distinguish the reasons.
	StatusUnavailable SeatDisplayStatus = "unavailable"
	// StatusSelected means the requesting cart itself holds the seat.
	StatusSelected SeatDisplayStatus = "selected"
)

// SeatView is one seat as served to the seatmap renderer.
type SeatView struct {
	GUID          string            `json:"guid"`
	Name          string            `json:"name"`
	X             float64           `json:"x"`
	Y             float64           `json:"y"`
	Category      string            `json:"category,omitempty"`
	CategoryColor string            `json:"category_color"`
	ProductID     *uuid.UUID        `json:"product_id,omitempty"`
	Status        SeatDisplayStatus `json:"status"`
}

// LegendEntry is one category of the seatmap legend.
type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SeatmapResponse is the full payload of the seatmap endpoint.
type SeatmapResponse struct {
	EventID       string        `json:"event_id"`
	SubEventID    string        `json:"subevent_id,omitempty"`
	SeatingChoice bool          `json:"seating_choice"`
	Seats         []SeatView    `json:"seats"`
	Legend        []LegendEntry `json:"legend"`
	// SeatingPlan is the raw layout document for the renderer.
	SeatingPlan json.RawMessage `json:"seating_plan,omitempty"`
	// PositionsNeedingSeats lists the cart's admission positions so the
	// client knows how many seats to pick.
	PositionsNeedingSeats []PositionView `json:"positions_need_seats"`
}

// PositionView is one cart position shown next to the seatmap.
type PositionView struct {
	ID       string  `json:"id"`
	SeatGUID *string `json:"seat,omitempty"`
}

// AssignmentRequest maps cart position IDs to seat GUIDs.
type AssignmentRequest struct {
	SeatAssignments map[string]string `json:"seat_assignments" binding:"required"`
}

// AssignmentResult is returned after a committed assignment.
type AssignmentResult struct {
	Assigned int    `json:"assigned"`
	Redirect string `json:"redirect"`
}
