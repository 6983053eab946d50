package mappings

import (
	"context"
	"fmt"
	"time"

	"seatmap/internal/shared/constants"
	"seatmap/pkg/cache"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	// Resolve returns the layout-category -> product table for one event
	// and rendering scope, with subevent mappings taking precedence.
	Resolve(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[string]uuid.UUID, error)

	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]CategoryMapping, error)
	// ReplaceForEvent swaps the event's mappings wholesale, the way the
	// mapping form saves: the submitted set fully replaces the stored one.
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, req ReplaceMappingsRequest) ([]CategoryMapping, error)
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error

	// WithTx returns a Service whose writes run inside the given
	// transaction; cache invalidation still goes through the shared cache.
	WithTx(tx *gorm.DB) Service
}

type service struct {
	repo  Repository
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, ttl time.Duration, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, ttl: ttl, log: log}
}

func (s *service) Resolve(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[string]uuid.UUID, error) {
	sub := ""
	if subEventID != nil {
		sub = subEventID.String()
	}
	key := constants.BuildMappingsKey(eventID.String(), sub)

	var resolved map[string]uuid.UUID
	err := s.cache.GetOrSet(ctx, key, s.ttl, func() (interface{}, error) {
		all, err := s.repo.ListForEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load category mappings: %w", err)
		}
		return ResolveProducts(all, subEventID), nil
	}, &resolved)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]CategoryMapping, error) {
	return s.repo.ListForEvent(ctx, eventID)
}

func (s *service) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, req ReplaceMappingsRequest) ([]CategoryMapping, error) {
	mappings := make([]CategoryMapping, 0, len(req.Mappings))
	for _, entry := range req.Mappings {
		mappings = append(mappings, CategoryMapping{
			EventID:        eventID,
			SubEventID:     entry.SubEventID,
			LayoutCategory: entry.LayoutCategory,
			ProductID:      entry.ProductID,
		})
	}

	if err := s.repo.ReplaceForEvent(ctx, eventID, mappings); err != nil {
		return nil, fmt.Errorf("failed to replace category mappings: %w", err)
	}
	s.invalidate(ctx, eventID)
	return s.repo.ListForEvent(ctx, eventID)
}

func (s *service) DeleteForEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := s.repo.DeleteForEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete category mappings: %w", err)
	}
	s.invalidate(ctx, eventID)
	return nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	clone := *s
	clone.repo = NewRepository(tx)
	return &clone
}

func (s *service) invalidate(ctx context.Context, eventID uuid.UUID) {
	// No ":" before the wildcard: the general-scope key carries no subevent
	// suffix and must be swept together with the subevent-scoped keys.
	pattern := constants.CacheKeyMappings + eventID.String() + "*"
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.ErrorWithContext(ctx, "failed to invalidate mapping cache", err, map[string]interface{}{
			"event_id": eventID.String(),
		})
	}
}
