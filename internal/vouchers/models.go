package vouchers

import (
	"time"

	"github.com/google/uuid"
)

// Voucher optionally reserves a specific seat. A live seat-bound voucher
// blocks the seat for everyone else.
type Voucher struct {
	ID      uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	Code    string     `json:"code" gorm:"not null;size:255;uniqueIndex"`
	SeatID  *uuid.UUID `json:"seat_id" gorm:"type:uuid;index"`

	// Nil means the voucher never expires.
	ValidUntil *time.Time `json:"valid_until"`
	Redeemed   int        `json:"redeemed" gorm:"default:0;check:redeemed >= 0"`
	MaxUsages  int        `json:"max_usages" gorm:"default:1;check:max_usages >= 1"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateVoucherRequest struct {
	Code       string     `json:"code" binding:"required,min=1,max=255"`
	SeatID     *uuid.UUID `json:"seat_id"`
	ValidUntil *time.Time `json:"valid_until"`
	MaxUsages  *int       `json:"max_usages" binding:"omitempty,min=1"`
}

// IsLive reports whether the voucher still reserves its seat: not expired and
// not fully redeemed.
func (v *Voucher) IsLive(now time.Time) bool {
	if v.ValidUntil != nil && v.ValidUntil.Before(now) {
		return false
	}
	return v.Redeemed < v.MaxUsages
}
