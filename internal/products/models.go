package products

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable admission item. Seats become sellable only through a
// product, either via a category mapping or a direct seat binding.
type Product struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" gorm:"not null;size:255"`
	Price   float64   `json:"price" gorm:"not null;check:price >= 0"`
	Active  bool      `json:"active" gorm:"default:true"`

	// Optional sales window. A nil bound is open-ended.
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsAvailable reports whether the product can currently be sold.
func (p *Product) IsAvailable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.AvailableFrom != nil && now.Before(*p.AvailableFrom) {
		return false
	}
	if p.AvailableUntil != nil && now.After(*p.AvailableUntil) {
		return false
	}
	return true
}

type CreateProductRequest struct {
	Name           string     `json:"name" binding:"required,min=1,max=255"`
	Price          float64    `json:"price" binding:"min=0"`
	Active         *bool      `json:"active"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
}

// SubEventProductOverride disables or re-enables a product for a single
// subevent of an event series.
type SubEventProductOverride struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SubEventID uuid.UUID `json:"subevent_id" gorm:"type:uuid;not null;uniqueIndex:uq_subevent_product"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:uq_subevent_product"`
	Disabled   bool      `json:"disabled" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
