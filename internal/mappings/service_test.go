package mappings

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"seatmap/pkg/cache"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
)

// memoryCache backs the service tests with redis-style glob deletion.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(context.Context) error { return nil }

type fakeMappingRepo struct {
	Repository

	mappings []CategoryMapping
}

func (f *fakeMappingRepo) ListForEvent(context.Context, uuid.UUID) ([]CategoryMapping, error) {
	return f.mappings, nil
}

func (f *fakeMappingRepo) ReplaceForEvent(_ context.Context, _ uuid.UUID, mappings []CategoryMapping) error {
	f.mappings = mappings
	return nil
}

func (f *fakeMappingRepo) DeleteForEvent(context.Context, uuid.UUID) error {
	f.mappings = nil
	return nil
}

func TestReplaceForEventInvalidatesAllResolveScopes(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	sub := uuid.New()
	before := uuid.New()
	after := uuid.New()

	repo := &fakeMappingRepo{mappings: []CategoryMapping{
		{EventID: eventID, LayoutCategory: "Stalls", ProductID: before},
	}}
	svc := NewService(repo, newMemoryCache(), time.Minute, logger.New())

	// Warm the general and the subevent-scoped entries.
	for _, scope := range []*uuid.UUID{nil, &sub} {
		resolved, err := svc.Resolve(ctx, eventID, scope)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if resolved["Stalls"] != before {
			t.Fatalf("expected %v before the resave, got %v", before, resolved["Stalls"])
		}
	}

	if _, err := svc.ReplaceForEvent(ctx, eventID, ReplaceMappingsRequest{
		Mappings: []MappingEntry{{LayoutCategory: "Stalls", ProductID: after}},
	}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	// Both scopes must serve the resaved mapping immediately; the
	// general-scope key has no subevent suffix and is the one a too-narrow
	// invalidation pattern misses.
	for _, scope := range []*uuid.UUID{nil, &sub} {
		resolved, err := svc.Resolve(ctx, eventID, scope)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if resolved["Stalls"] != after {
			t.Errorf("stale mapping served after resave: got %v, want %v", resolved["Stalls"], after)
		}
	}
}

func TestDeleteForEventInvalidatesResolveCache(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	product := uuid.New()

	repo := &fakeMappingRepo{mappings: []CategoryMapping{
		{EventID: eventID, LayoutCategory: "Stalls", ProductID: product},
	}}
	svc := NewService(repo, newMemoryCache(), time.Minute, logger.New())

	if resolved, err := svc.Resolve(ctx, eventID, nil); err != nil || len(resolved) != 1 {
		t.Fatalf("expected one mapping, got %v (err %v)", resolved, err)
	}
	if err := svc.DeleteForEvent(ctx, eventID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if resolved, err := svc.Resolve(ctx, eventID, nil); err != nil || len(resolved) != 0 {
		t.Errorf("mappings must be gone after delete, got %v (err %v)", resolved, err)
	}
}
