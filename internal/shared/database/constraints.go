package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints that back hold exclusivity. The
// assignment transaction locks seat rows; these indexes are the storage-level
// backstop so two holds can never share a seat even if application checks
// are bypassed.
func MigrateConstraints(db *gorm.DB) error {
	// A seat can be linked to at most one cart position at a time.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_cart_positions_seat
		ON cart_positions (seat_id)
		WHERE seat_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// A seat can be sold at most once across non-canceled orders.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_order_positions_seat
		ON order_positions (seat_id)
		WHERE seat_id IS NOT NULL AND canceled = false;
	`).Error
	if err != nil {
		return err
	}

	// Seat identity is scoped to the event.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_seats_event_guid
		ON seats (event_id, seat_guid);
	`).Error
	if err != nil {
		return err
	}

	// One mapping per layout category and (event, subevent) scope. Partial
	// indexes because NULL subevent rows are the event-wide defaults.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_mappings_event_category
		ON category_mappings (event_id, layout_category)
		WHERE subevent_id IS NULL;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_mappings_event_category_subevent
		ON category_mappings (event_id, layout_category, subevent_id)
		WHERE subevent_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Hot paths: hold lookups by event and expiry sweeps.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_cart_positions_expires
		ON cart_positions (expires);
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_event
		ON seats (event_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
