package orders

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
	OrderStatusExpired  OrderStatus = "expired"
)

// Active reports whether the order still claims its seats. Canceled and
// expired orders release them.
func (s OrderStatus) Active() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

type Order struct {
	ID      uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID   `json:"event_id" gorm:"type:uuid;not null;index"`
	Code    string      `json:"code" gorm:"not null;size:64;uniqueIndex"`
	Status  OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Positions []OrderPosition `json:"positions,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// OrderPosition is a single ticket inside an order. Secret is the opaque
// per-ticket handle used by the bulk seat upload.
type OrderPosition struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID  uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	Secret   string     `json:"secret" gorm:"not null;size:64;uniqueIndex"`
	SeatID   *uuid.UUID `json:"seat_id" gorm:"type:uuid"`
	Canceled bool       `json:"canceled" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
