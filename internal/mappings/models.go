package mappings

import (
	"time"

	"github.com/google/uuid"
)

// CategoryMapping binds a layout category name to a sellable product. A nil
// SubEventID makes the mapping the event-wide default; a mapping scoped to a
// subevent overrides the default for that subevent only.
type CategoryMapping struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID        uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	SubEventID     *uuid.UUID `json:"subevent_id" gorm:"type:uuid"`
	LayoutCategory string     `json:"layout_category" gorm:"not null;size:255"`
	ProductID      uuid.UUID  `json:"product_id" gorm:"type:uuid;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type MappingEntry struct {
	LayoutCategory string     `json:"layout_category" binding:"required"`
	ProductID      uuid.UUID  `json:"product_id" binding:"required"`
	SubEventID     *uuid.UUID `json:"subevent_id"`
}

type ReplaceMappingsRequest struct {
	Mappings []MappingEntry `json:"mappings" binding:"required,dive"`
}
