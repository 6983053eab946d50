package plans

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSeatColor is used when a layout category declares no color and no
// derived color applies.
const DefaultSeatColor = "#CCCCCC"

// Layout is the parsed form of a seating plan document. Two shapes are
// accepted: the zoned structure (zones -> rows -> seats) and a legacy flat
// seats list. Unknown fields are ignored.
type Layout struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
	Zones      []Zone     `json:"zones"`
	Seats      []Seat     `json:"seats"`
}

type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Zone struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Rows     []Row    `json:"rows"`
}

type Row struct {
	Number   string   `json:"row_number"`
	Category string   `json:"category"`
	Position Position `json:"position"`
	Seats    []Seat   `json:"seats"`
}

type Seat struct {
	GUID     string   `json:"seat_guid"`
	Number   string   `json:"seat_number"`
	Category string   `json:"category"`
	Position Position `json:"position"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacedSeat is a seat node resolved to absolute coordinates and a display
// name.
type PlacedSeat struct {
	GUID     string
	Name     string
	Category string
	X        float64
	Y        float64
}

// ParseLayout parses a layout document. It tolerates empty input,
// double-encoded JSON (a JSON string containing the document) and malformed
// documents; anything unparseable degrades to an empty layout.
func ParseLayout(raw []byte) Layout {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Layout{}
	}

	// Some clients store the document double-encoded.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return Layout{}
		}
		return ParseLayout([]byte(inner))
	}

	var layout Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		return Layout{}
	}
	return layout
}

// CategoryByGUID maps each seat GUID to its layout category. A seat's own
// category wins; seats without one inherit their row's category. Legacy flat
// layouts only use the seat's own category.
func (l Layout) CategoryByGUID() map[string]string {
	out := make(map[string]string)
	for _, zone := range l.Zones {
		for _, row := range zone.Rows {
			for _, seat := range row.Seats {
				if seat.GUID == "" {
					continue
				}
				switch {
				case seat.Category != "":
					out[seat.GUID] = seat.Category
				case row.Category != "":
					out[seat.GUID] = row.Category
				}
			}
		}
	}
	for _, seat := range l.Seats {
		if seat.GUID != "" && seat.Category != "" {
			out[seat.GUID] = seat.Category
		}
	}
	return out
}

// ColorByCategory maps category names to their declared colors. Categories
// without a color get one derived from the category name so the legend stays
// stable across renders.
func (l Layout) ColorByCategory() map[string]string {
	out := make(map[string]string, len(l.Categories))
	for _, cat := range l.Categories {
		if cat.Name == "" {
			continue
		}
		color := cat.Color
		if color == "" {
			color = DeriveColor(cat.Name)
		}
		out[cat.Name] = color
	}
	return out
}

// CategoryNames returns the declared category names in document order,
// followed by any categories only referenced by seats.
func (l Layout) CategoryNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cat := range l.Categories {
		if cat.Name != "" && !seen[cat.Name] {
			seen[cat.Name] = true
			names = append(names, cat.Name)
		}
	}
	for _, cat := range l.CategoryByGUID() {
		if !seen[cat] {
			seen[cat] = true
			names = append(names, cat)
		}
	}
	return names
}

// AllSeats flattens the layout into placed seats with absolute coordinates.
// Duplicate GUIDs keep the first occurrence.
func (l Layout) AllSeats() []PlacedSeat {
	seen := make(map[string]bool)
	var out []PlacedSeat

	add := func(s PlacedSeat) {
		if s.GUID == "" || seen[s.GUID] {
			return
		}
		seen[s.GUID] = true
		out = append(out, s)
	}

	for _, zone := range l.Zones {
		for _, row := range zone.Rows {
			for _, seat := range row.Seats {
				category := seat.Category
				if category == "" {
					category = row.Category
				}
				add(PlacedSeat{
					GUID:     seat.GUID,
					Name:     seatName(zone.Name, row.Number, seat.Number),
					Category: category,
					X:        zone.Position.X + row.Position.X + seat.Position.X,
					Y:        zone.Position.Y + row.Position.Y + seat.Position.Y,
				})
			}
		}
	}
	for _, seat := range l.Seats {
		add(PlacedSeat{
			GUID:     seat.GUID,
			Name:     seatName("", "", seat.Number),
			Category: seat.Category,
			X:        seat.Position.X,
			Y:        seat.Position.Y,
		})
	}
	return out
}

// SeatCount returns the number of distinct seat GUIDs in the layout.
func (l Layout) SeatCount() int {
	return len(l.AllSeats())
}

// DeriveColor derives a stable color from a category name.
func DeriveColor(category string) string {
	sum := sha1.Sum([]byte(category))
	return fmt.Sprintf("#%x", sum[:3])
}

func seatName(zone, row, number string) string {
	var parts []string
	if zone != "" {
		parts = append(parts, zone)
	}
	if row != "" {
		parts = append(parts, "Row "+row)
	}
	if number != "" {
		parts = append(parts, "Seat "+number)
	}
	return strings.Join(parts, " ")
}
