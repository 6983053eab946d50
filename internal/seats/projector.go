package seats

import (
	"sort"

	"seatmap/internal/plans"

	"github.com/google/uuid"
)

// ProjectorConfig tunes how seats project to display statuses.
type ProjectorConfig struct {
	// HonorDirectProduct lets a seat's own product binding win over the
	// category mapping.
	HonorDirectProduct bool
	// DefaultColor is used for seats whose category has no color.
	DefaultColor string
}

func DefaultProjectorConfig() ProjectorConfig {
	return ProjectorConfig{
		HonorDirectProduct: true,
		DefaultColor:       plans.DefaultSeatColor,
	}
}

// ProjectionInput is everything the projection needs, pre-loaded; Project
// itself does no I/O.
type ProjectionInput struct {
	Seats             []Seat
	CategoryByGUID    map[string]string
	ColorByCategory   map[string]string
	ProductByCategory map[string]uuid.UUID
	ProductAvailable  map[uuid.UUID]bool
	Holds             *EventHolds
	CartID            string
}

// Project resolves every seat to exactly one display status:
//
//  1. a seat with no sellable product (unmapped, inactive or out of its
//     sales window) is unavailable,
//  2. a seat held by the requesting cart itself is selected,
//  3. a seat that is blocked, sold or held by anyone else is unavailable,
//  4. everything remaining is available.
func Project(cfg ProjectorConfig, in ProjectionInput) []SeatView {
	views := make([]SeatView, 0, len(in.Seats))
	for i := range in.Seats {
		seat := &in.Seats[i]
		category := in.CategoryByGUID[seat.SeatGUID]
		product := resolveProduct(cfg, seat, category, in.ProductByCategory)

		view := SeatView{
			GUID:          seat.SeatGUID,
			Name:          seat.Name,
			X:             seat.X,
			Y:             seat.Y,
			Category:      category,
			CategoryColor: categoryColor(cfg, category, in.ColorByCategory),
			ProductID:     product,
		}

		switch {
		case product == nil || !in.ProductAvailable[*product]:
			view.Status = StatusUnavailable
		case in.Holds.HeldByOwnCart(seat.ID, in.CartID):
			view.Status = StatusSelected
		case seat.Blocked,
			in.Holds.HasOrder(seat.ID),
			in.Holds.HeldByOtherCart(seat.ID, in.CartID),
			in.Holds.HasVoucher(seat.ID):
			view.Status = StatusUnavailable
		default:
			view.Status = StatusAvailable
		}

		views = append(views, view)
	}
	return views
}

// Legend lists every category that is mapped to a product or referenced by
// a seat, with its resolved color.
func Legend(cfg ProjectorConfig, in ProjectionInput) []LegendEntry {
	seen := make(map[string]bool)
	var entries []LegendEntry

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		entries = append(entries, LegendEntry{
			Name:  name,
			Color: categoryColor(cfg, name, in.ColorByCategory),
		})
	}

	for i := range in.Seats {
		add(in.CategoryByGUID[in.Seats[i].SeatGUID])
	}
	for name := range in.ProductByCategory {
		add(name)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func resolveProduct(cfg ProjectorConfig, seat *Seat, category string, byCategory map[string]uuid.UUID) *uuid.UUID {
	if cfg.HonorDirectProduct && seat.ProductID != nil {
		return seat.ProductID
	}
	if category == "" {
		return nil
	}
	if productID, ok := byCategory[category]; ok {
		return &productID
	}
	return nil
}

func categoryColor(cfg ProjectorConfig, category string, colors map[string]string) string {
	if category != "" {
		if color, ok := colors[category]; ok && color != "" {
			return color
		}
	}
	if cfg.DefaultColor != "" {
		return cfg.DefaultColor
	}
	return plans.DefaultSeatColor
}
