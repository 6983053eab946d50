package plans

import (
	"encoding/json"
	"testing"
)

const zonedLayout = `{
	"name": "Main Hall",
	"categories": [
		{"name": "Stalls", "color": "#FF0000"},
		{"name": "Balcony", "color": ""}
	],
	"zones": [
		{
			"name": "Ground",
			"position": {"x": 10, "y": 20},
			"rows": [
				{
					"row_number": "1",
					"category": "Stalls",
					"position": {"x": 0, "y": 5},
					"seats": [
						{"seat_guid": "g-1", "seat_number": "1", "position": {"x": 1, "y": 0}},
						{"seat_guid": "g-2", "seat_number": "2", "category": "Balcony", "position": {"x": 2, "y": 0}}
					]
				}
			]
		}
	]
}`

func TestParseLayoutZoned(t *testing.T) {
	layout := ParseLayout([]byte(zonedLayout))

	cats := layout.CategoryByGUID()
	if got := cats["g-1"]; got != "Stalls" {
		t.Errorf("seat without own category should inherit row category, got %q", got)
	}
	if got := cats["g-2"]; got != "Balcony" {
		t.Errorf("seat category should win over row category, got %q", got)
	}

	seats := layout.AllSeats()
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}
	if seats[0].X != 11 || seats[0].Y != 25 {
		t.Errorf("expected absolute position (11, 25), got (%v, %v)", seats[0].X, seats[0].Y)
	}
	if seats[0].Name != "Ground Row 1 Seat 1" {
		t.Errorf("unexpected seat name %q", seats[0].Name)
	}
}

func TestParseLayoutLegacyFlat(t *testing.T) {
	raw := `{"seats": [
		{"seat_guid": "f-1", "seat_number": "12", "category": "GA", "position": {"x": 3, "y": 4}},
		{"seat_guid": "", "category": "GA"}
	]}`
	layout := ParseLayout([]byte(raw))

	if got := layout.SeatCount(); got != 1 {
		t.Fatalf("seats without a GUID must be skipped, got %d seats", got)
	}
	if got := layout.CategoryByGUID()["f-1"]; got != "GA" {
		t.Errorf("expected category GA, got %q", got)
	}
}

func TestParseLayoutDoubleEncoded(t *testing.T) {
	encoded, err := json.Marshal(zonedLayout)
	if err != nil {
		t.Fatal(err)
	}
	layout := ParseLayout(encoded)
	if got := layout.SeatCount(); got != 2 {
		t.Errorf("double-encoded layout should parse, got %d seats", got)
	}
}

func TestParseLayoutDegradesToEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":        "",
		"whitespace":   "   ",
		"garbage":      "{not json",
		"wrong type":   "[1,2,3]",
		"inner broken": `"{not json either"`,
	} {
		t.Run(name, func(t *testing.T) {
			layout := ParseLayout([]byte(raw))
			if got := layout.SeatCount(); got != 0 {
				t.Errorf("expected empty layout, got %d seats", got)
			}
		})
	}
}

func TestColorByCategory(t *testing.T) {
	layout := ParseLayout([]byte(zonedLayout))
	colors := layout.ColorByCategory()

	if got := colors["Stalls"]; got != "#FF0000" {
		t.Errorf("declared color must be kept, got %q", got)
	}
	derived := colors["Balcony"]
	if derived == "" || derived == DefaultSeatColor {
		t.Errorf("missing color should be derived from name, got %q", derived)
	}
	if derived != DeriveColor("Balcony") {
		t.Errorf("derived color must be stable, got %q", derived)
	}
}

func TestDuplicateGUIDKeepsFirst(t *testing.T) {
	raw := `{"seats": [
		{"seat_guid": "dup", "category": "A", "position": {"x": 1}},
		{"seat_guid": "dup", "category": "B", "position": {"x": 2}}
	]}`
	seats := ParseLayout([]byte(raw)).AllSeats()
	if len(seats) != 1 {
		t.Fatalf("expected 1 seat, got %d", len(seats))
	}
	if seats[0].Category != "A" || seats[0].X != 1 {
		t.Errorf("first occurrence must win, got %+v", seats[0])
	}
}
