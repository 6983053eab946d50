package mappings

import (
	"github.com/google/uuid"
)

// ResolveProducts flattens an event's mappings into a layout-category ->
// product table for one rendering scope. Event-wide defaults are applied
// first so a subevent-scoped mapping for the same category overwrites them.
// Mappings scoped to a different subevent are ignored.
func ResolveProducts(all []CategoryMapping, subEventID *uuid.UUID) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID)
	for _, m := range all {
		if m.SubEventID == nil {
			out[m.LayoutCategory] = m.ProductID
		}
	}
	if subEventID == nil {
		return out
	}
	for _, m := range all {
		if m.SubEventID != nil && *m.SubEventID == *subEventID {
			out[m.LayoutCategory] = m.ProductID
		}
	}
	return out
}
