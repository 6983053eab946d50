package database

import (
	"seatmap/internal/carts"
	"seatmap/internal/events"
	"seatmap/internal/mappings"
	"seatmap/internal/orders"
	"seatmap/internal/plans"
	"seatmap/internal/products"
	"seatmap/internal/seats"
	"seatmap/internal/vouchers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&plans.SeatingPlan{},
		&events.Event{},
		&events.SubEvent{},
		&products.Product{},
		&products.SubEventProductOverride{},
		&mappings.CategoryMapping{},
		&seats.Seat{},
		&carts.CartPosition{},
		&orders.Order{},
		&orders.OrderPosition{},
		&vouchers.Voucher{},
	)
}
