package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"seatmap/internal/events"
	"seatmap/internal/mappings"
	"seatmap/internal/orders"
	"seatmap/internal/plans"
	"seatmap/internal/products"
	"seatmap/internal/seats"
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/database"
	"seatmap/internal/vouchers"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Seatmap Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"vouchers",
		"order_positions",
		"orders",
		"cart_positions",
		"seats",
		"category_mappings",
		"sub_event_product_overrides",
		"products",
		"sub_events",
		"events",
		"seating_plans",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed seating plans first (no dependencies)
	planID, layout, err := s.SeedSeatingPlan()
	if err != nil {
		return fmt.Errorf("failed to seed seating plan: %w", err)
	}

	// Seed events with the plan attached
	eventID, subEventIDs, err := s.SeedEvents(planID)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	// Materialize seats from the plan layout
	seatIDs, err := s.SeedSeats(eventID, layout)
	if err != nil {
		return fmt.Errorf("failed to seed seats: %w", err)
	}

	// Seed products and category mappings
	productIDs, err := s.SeedProducts(eventID, subEventIDs)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := s.SeedMappings(eventID, subEventIDs, productIDs); err != nil {
		return fmt.Errorf("failed to seed category mappings: %w", err)
	}

	// Seed seat holds: one paid order and one seat-bound voucher
	if err := s.SeedOrders(eventID, seatIDs); err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}
	if err := s.SeedVouchers(eventID, seatIDs); err != nil {
		return fmt.Errorf("failed to seed vouchers: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// demoLayout is a two-zone layout: Stalls on the ground floor with a category
// fallback per row, and a Balcony where seats carry their category directly.
// The Balcony category has no declared color so its legend color is derived.
const demoLayout = `{
  "name": "Grand Opera House",
  "categories": [
    {"name": "Stalls", "color": "#1E6FB8"},
    {"name": "Balcony"}
  ],
  "zones": [
    {
      "name": "Ground",
      "position": {"x": 0, "y": 0},
      "rows": [
        {
          "row_number": "1",
          "category": "Stalls",
          "position": {"x": 0, "y": 10},
          "seats": [
            {"seat_guid": "stalls-1-1", "seat_number": "1", "position": {"x": 0, "y": 0}},
            {"seat_guid": "stalls-1-2", "seat_number": "2", "position": {"x": 12, "y": 0}},
            {"seat_guid": "stalls-1-3", "seat_number": "3", "position": {"x": 24, "y": 0}},
            {"seat_guid": "stalls-1-4", "seat_number": "4", "position": {"x": 36, "y": 0}}
          ]
        },
        {
          "row_number": "2",
          "category": "Stalls",
          "position": {"x": 0, "y": 24},
          "seats": [
            {"seat_guid": "stalls-2-1", "seat_number": "1", "position": {"x": 0, "y": 0}},
            {"seat_guid": "stalls-2-2", "seat_number": "2", "position": {"x": 12, "y": 0}},
            {"seat_guid": "stalls-2-3", "seat_number": "3", "position": {"x": 24, "y": 0}},
            {"seat_guid": "stalls-2-4", "seat_number": "4", "position": {"x": 36, "y": 0}}
          ]
        }
      ]
    },
    {
      "name": "Upper",
      "position": {"x": 0, "y": 60},
      "rows": [
        {
          "row_number": "1",
          "position": {"x": 0, "y": 0},
          "seats": [
            {"seat_guid": "balcony-1-1", "seat_number": "1", "category": "Balcony", "position": {"x": 0, "y": 0}},
            {"seat_guid": "balcony-1-2", "seat_number": "2", "category": "Balcony", "position": {"x": 12, "y": 0}},
            {"seat_guid": "balcony-1-3", "seat_number": "3", "category": "Balcony", "position": {"x": 24, "y": 0}}
          ]
        }
      ]
    }
  ]
}`

// SeedSeatingPlan creates the demo venue plan
func (s *Seeder) SeedSeatingPlan() (uuid.UUID, plans.Layout, error) {
	fmt.Println("  🗺️ Seeding seating plan...")

	plan := plans.SeatingPlan{
		ID:        uuid.New(),
		Organizer: "demo-organizer",
		Name:      "Grand Opera House",
		Layout:    demoLayout,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&plan).Error; err != nil {
		return uuid.Nil, plans.Layout{}, fmt.Errorf("failed to create seating plan %s: %w", plan.Name, err)
	}

	layout := plan.ParsedLayout()
	fmt.Printf("    ✅ Created seating plan: %s (%d seats)\n", plan.Name, layout.SeatCount())

	return plan.ID, layout, nil
}

// SeedEvents creates one seated event with two subevents and one general
// admission event without a plan
func (s *Seeder) SeedEvents(planID uuid.UUID) (uuid.UUID, []uuid.UUID, error) {
	fmt.Println("  🎪 Seeding events...")

	seated := events.Event{
		ID:            uuid.New(),
		Slug:          "opera-gala",
		Name:          "Opera Gala Nights",
		SeatingPlanID: &planID,
		SeatingChoice: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&seated).Error; err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create event %s: %w", seated.Slug, err)
	}
	fmt.Printf("    ✅ Created event: %s\n", seated.Name)

	var subEventIDs []uuid.UUID
	for i, name := range []string{"Opening Night", "Closing Night"} {
		sub := events.SubEvent{
			ID:        uuid.New(),
			EventID:   seated.ID,
			Name:      name,
			StartsAt:  time.Now().AddDate(0, 0, 30+14*i),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&sub).Error; err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to create subevent %s: %w", name, err)
		}
		subEventIDs = append(subEventIDs, sub.ID)
		fmt.Printf("    ✅ Created subevent: %s\n", sub.Name)
	}

	general := events.Event{
		ID:            uuid.New(),
		Slug:          "open-air-festival",
		Name:          "Open Air Festival",
		SeatingChoice: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&general).Error; err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create event %s: %w", general.Slug, err)
	}
	fmt.Printf("    ✅ Created event: %s (general admission)\n", general.Name)

	return seated.ID, subEventIDs, nil
}

// SeedSeats materializes the layout seats for the event, returning seat IDs
// keyed by seat GUID
func (s *Seeder) SeedSeats(eventID uuid.UUID, layout plans.Layout) (map[string]uuid.UUID, error) {
	fmt.Println("  💺 Seeding seats...")

	seatIDs := make(map[string]uuid.UUID)
	for _, placed := range layout.AllSeats() {
		seat := seats.Seat{
			ID:        uuid.New(),
			EventID:   eventID,
			SeatGUID:  placed.GUID,
			Name:      placed.Name,
			X:         placed.X,
			Y:         placed.Y,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&seat).Error; err != nil {
			return nil, fmt.Errorf("failed to create seat %s: %w", placed.GUID, err)
		}
		seatIDs[placed.GUID] = seat.ID
	}
	fmt.Printf("    ✅ Created %d seats\n", len(seatIDs))

	return seatIDs, nil
}

// SeedProducts creates sellable products for the seated event and disables
// one of them on the closing night
func (s *Seeder) SeedProducts(eventID uuid.UUID, subEventIDs []uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  🎟️ Seeding products...")

	productIDs := make(map[string]uuid.UUID)

	productsData := []struct {
		key   string
		name  string
		price float64
	}{
		{"stalls", "Stalls Ticket", 1500.0},
		{"balcony", "Balcony Ticket", 800.0},
		{"balcony_premium", "Balcony Premium", 1200.0},
	}

	for _, productData := range productsData {
		product := products.Product{
			ID:        uuid.New(),
			EventID:   eventID,
			Name:      productData.name,
			Price:     productData.price,
			Active:    true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("failed to create product %s: %w", product.Name, err)
		}
		productIDs[productData.key] = product.ID
		fmt.Printf("    ✅ Created product: %s (%.0f)\n", product.Name, product.Price)
	}

	// Balcony Premium is not sold on closing night
	if len(subEventIDs) > 1 {
		override := products.SubEventProductOverride{
			ID:         uuid.New(),
			SubEventID: subEventIDs[1],
			ProductID:  productIDs["balcony_premium"],
			Disabled:   true,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&override).Error; err != nil {
			return nil, fmt.Errorf("failed to create product override: %w", err)
		}
		fmt.Println("    ✅ Disabled Balcony Premium for closing night")
	}

	return productIDs, nil
}

// SeedMappings binds layout categories to products: event-wide defaults plus
// a subevent override that upsells the balcony on opening night
func (s *Seeder) SeedMappings(eventID uuid.UUID, subEventIDs []uuid.UUID, productIDs map[string]uuid.UUID) error {
	fmt.Println("  🔗 Seeding category mappings...")

	rows := []mappings.CategoryMapping{
		{ID: uuid.New(), EventID: eventID, LayoutCategory: "Stalls", ProductID: productIDs["stalls"]},
		{ID: uuid.New(), EventID: eventID, LayoutCategory: "Balcony", ProductID: productIDs["balcony"]},
	}
	if len(subEventIDs) > 0 {
		rows = append(rows, mappings.CategoryMapping{
			ID:             uuid.New(),
			EventID:        eventID,
			SubEventID:     &subEventIDs[0],
			LayoutCategory: "Balcony",
			ProductID:      productIDs["balcony_premium"],
		})
	}

	for i := range rows {
		rows[i].CreatedAt = time.Now()
		rows[i].UpdatedAt = time.Now()
		if err := s.db.PostgreSQL.Create(&rows[i]).Error; err != nil {
			return fmt.Errorf("failed to create mapping for %s: %w", rows[i].LayoutCategory, err)
		}
		scope := "default"
		if rows[i].SubEventID != nil {
			scope = "subevent"
		}
		fmt.Printf("    ✅ Mapped category %s (%s)\n", rows[i].LayoutCategory, scope)
	}

	return nil
}

// SeedOrders creates one paid order holding a stalls seat
func (s *Seeder) SeedOrders(eventID uuid.UUID, seatIDs map[string]uuid.UUID) error {
	fmt.Println("  🧾 Seeding orders...")

	seatID, ok := seatIDs["stalls-1-1"]
	if !ok {
		return fmt.Errorf("seed layout is missing seat stalls-1-1")
	}

	order := orders.Order{
		ID:        uuid.New(),
		EventID:   eventID,
		Code:      "DEMO1",
		Status:    orders.OrderStatusPaid,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&order).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.Code, err)
	}

	positions := []orders.OrderPosition{
		{ID: uuid.New(), OrderID: order.ID, Secret: "pos-demo1-a", SeatID: &seatID},
		{ID: uuid.New(), OrderID: order.ID, Secret: "pos-demo1-b"},
	}
	for i := range positions {
		positions[i].CreatedAt = time.Now()
		positions[i].UpdatedAt = time.Now()
		if err := s.db.PostgreSQL.Create(&positions[i]).Error; err != nil {
			return fmt.Errorf("failed to create order position %s: %w", positions[i].Secret, err)
		}
	}
	fmt.Printf("    ✅ Created order %s with %d positions\n", order.Code, len(positions))

	return nil
}

// SeedVouchers creates one live voucher reserving a balcony seat
func (s *Seeder) SeedVouchers(eventID uuid.UUID, seatIDs map[string]uuid.UUID) error {
	fmt.Println("  🎫 Seeding vouchers...")

	seatID, ok := seatIDs["balcony-1-1"]
	if !ok {
		return fmt.Errorf("seed layout is missing seat balcony-1-1")
	}

	validUntil := time.Now().AddDate(0, 1, 0)
	voucher := vouchers.Voucher{
		ID:         uuid.New(),
		EventID:    eventID,
		Code:       "BALCONY-VIP",
		SeatID:     &seatID,
		ValidUntil: &validUntil,
		Redeemed:   0,
		MaxUsages:  1,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&voucher).Error; err != nil {
		return fmt.Errorf("failed to create voucher %s: %w", voucher.Code, err)
	}
	fmt.Printf("    ✅ Created voucher %s reserving seat %s\n", voucher.Code, "balcony-1-1")

	return nil
}
