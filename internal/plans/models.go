package plans

import (
	"time"

	"github.com/google/uuid"
)

// SeatingPlan stores a venue layout as a JSON document. The layout is kept
// verbatim as submitted; parsing is tolerant and happens on read.
type SeatingPlan struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Organizer string    `json:"organizer" gorm:"not null;size:255;index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Layout    string    `json:"layout" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ParsedLayout parses the stored layout. Malformed layouts degrade to an
// empty layout rather than failing the caller.
func (p *SeatingPlan) ParsedLayout() Layout {
	return ParseLayout([]byte(p.Layout))
}

type CreatePlanRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Layout string `json:"layout"`
}

type UpdatePlanRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Layout *string `json:"layout"`
}

type PlanResponse struct {
	ID        string    `json:"id"`
	Organizer string    `json:"organizer"`
	Name      string    `json:"name"`
	Layout    string    `json:"layout"`
	SeatCount int       `json:"seat_count"`
	EventsIn  int64     `json:"events_using"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
