package mappings

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolveProducts(t *testing.T) {
	eventID := uuid.New()
	subA := uuid.New()
	subB := uuid.New()
	generalProduct := uuid.New()
	subAProduct := uuid.New()
	otherProduct := uuid.New()

	all := []CategoryMapping{
		{EventID: eventID, LayoutCategory: "Stalls", ProductID: generalProduct},
		{EventID: eventID, LayoutCategory: "Stalls", ProductID: subAProduct, SubEventID: &subA},
		{EventID: eventID, LayoutCategory: "Balcony", ProductID: otherProduct},
		{EventID: eventID, LayoutCategory: "Boxes", ProductID: otherProduct, SubEventID: &subB},
	}

	t.Run("no subevent uses event-wide defaults only", func(t *testing.T) {
		resolved := ResolveProducts(all, nil)
		if got := resolved["Stalls"]; got != generalProduct {
			t.Errorf("Stalls should resolve to the general product, got %v", got)
		}
		if _, ok := resolved["Boxes"]; ok {
			t.Error("subevent-scoped mappings must not apply without a subevent")
		}
	})

	t.Run("subevent mapping overrides the general one", func(t *testing.T) {
		resolved := ResolveProducts(all, &subA)
		if got := resolved["Stalls"]; got != subAProduct {
			t.Errorf("subevent mapping must win, got %v", got)
		}
		if got := resolved["Balcony"]; got != otherProduct {
			t.Errorf("general mapping must still apply for unscoped categories, got %v", got)
		}
	})

	t.Run("other subevents do not leak", func(t *testing.T) {
		resolved := ResolveProducts(all, &subA)
		if _, ok := resolved["Boxes"]; ok {
			t.Error("mapping scoped to another subevent must be ignored")
		}
	})

	t.Run("empty input resolves to empty table", func(t *testing.T) {
		if got := ResolveProducts(nil, &subA); len(got) != 0 {
			t.Errorf("expected empty table, got %v", got)
		}
	})
}
