package constants

// Redis cache key prefixes
const (
	CacheKeyLayout   = "seatmap:layout:"   // + plan id
	CacheKeyMappings = "seatmap:mappings:" // + event id [+ ":" + subevent id]
)

// BuildLayoutKey builds the cache key for a plan's parsed layout
func BuildLayoutKey(planID string) string {
	return CacheKeyLayout + planID
}

// BuildMappingsKey builds the cache key for an event's resolved mappings
func BuildMappingsKey(eventID, subeventID string) string {
	if subeventID == "" {
		return CacheKeyMappings + eventID
	}
	return CacheKeyMappings + eventID + ":" + subeventID
}
