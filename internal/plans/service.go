package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatmap/internal/shared/constants"
	"seatmap/pkg/cache"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound = errors.New("seating plan not found")
	// ErrPlanInUse is returned when a layout change or deletion would affect
	// events still attached to the plan.
	ErrPlanInUse = errors.New("seating plan is in use by one or more events")
)

type Service interface {
	CreatePlan(ctx context.Context, organizer string, req CreatePlanRequest) (*PlanResponse, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*PlanResponse, error)
	ListPlans(ctx context.Context, organizer string) ([]PlanResponse, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
	CopyPlan(ctx context.Context, id uuid.UUID) (*PlanResponse, error)

	// GetLayout returns the parsed layout for a plan, via the layout cache.
	GetLayout(ctx context.Context, id uuid.UUID) (Layout, error)
	// RawLayout returns the stored layout document verbatim, via the same
	// cache entry. The seatmap payload ships it to the renderer unparsed.
	RawLayout(ctx context.Context, id uuid.UUID) (string, error)
}

type service struct {
	repo      Repository
	cache     cache.Service
	layoutTTL time.Duration
	log       *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, layoutTTL time.Duration, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, layoutTTL: layoutTTL, log: log}
}

func (s *service) CreatePlan(ctx context.Context, organizer string, req CreatePlanRequest) (*PlanResponse, error) {
	plan := &SeatingPlan{
		Organizer: organizer,
		Name:      req.Name,
		Layout:    req.Layout,
	}
	if len(req.Layout) > 0 && plan.ParsedLayout().SeatCount() == 0 {
		s.log.LogLayoutParseFailure(ctx, plan.Name, errors.New("layout contains no seats or failed to parse"))
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create seating plan: %w", err)
	}
	return s.toResponse(ctx, plan), nil
}

func (s *service) GetPlan(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, plan), nil
}

func (s *service) ListPlans(ctx context.Context, organizer string) ([]PlanResponse, error) {
	plans, err := s.repo.List(ctx, organizer)
	if err != nil {
		return nil, fmt.Errorf("failed to list seating plans: %w", err)
	}
	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, *s.toResponse(ctx, &plans[i]))
	}
	return responses, nil
}

func (s *service) UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Layout != nil && *req.Layout != plan.Layout {
		inUse, err := s.repo.EventsUsing(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check plan usage: %w", err)
		}
		if inUse > 0 {
			return nil, ErrPlanInUse
		}
		plan.Layout = *req.Layout
	}
	if req.Name != nil {
		plan.Name = *req.Name
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update seating plan: %w", err)
	}
	s.invalidateLayout(ctx, id)
	return s.toResponse(ctx, plan), nil
}

func (s *service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getPlan(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.EventsUsing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check plan usage: %w", err)
	}
	if inUse > 0 {
		return ErrPlanInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete seating plan: %w", err)
	}
	s.invalidateLayout(ctx, id)
	return nil
}

func (s *service) CopyPlan(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := &SeatingPlan{
		Organizer: plan.Organizer,
		Name:      plan.Name + " (Copy)",
		Layout:    plan.Layout,
	}
	if err := s.repo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("failed to copy seating plan: %w", err)
	}
	return s.toResponse(ctx, copied), nil
}

func (s *service) GetLayout(ctx context.Context, id uuid.UUID) (Layout, error) {
	raw, err := s.RawLayout(ctx, id)
	if err != nil {
		return Layout{}, err
	}
	return ParseLayout([]byte(raw)), nil
}

func (s *service) RawLayout(ctx context.Context, id uuid.UUID) (string, error) {
	var raw string
	key := constants.BuildLayoutKey(id.String())
	err := s.cache.GetOrSet(ctx, key, s.layoutTTL, func() (interface{}, error) {
		plan, err := s.getPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		return plan.Layout, nil
	}, &raw)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (s *service) getPlan(ctx context.Context, id uuid.UUID) (*SeatingPlan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load seating plan: %w", err)
	}
	return plan, nil
}

func (s *service) invalidateLayout(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildLayoutKey(id.String())); err != nil {
		s.log.ErrorWithContext(ctx, "failed to invalidate layout cache", err, map[string]interface{}{
			"plan_id": id.String(),
		})
	}
}

func (s *service) toResponse(ctx context.Context, plan *SeatingPlan) *PlanResponse {
	inUse, err := s.repo.EventsUsing(ctx, plan.ID)
	if err != nil {
		inUse = 0
	}
	return &PlanResponse{
		ID:        plan.ID.String(),
		Organizer: plan.Organizer,
		Name:      plan.Name,
		Layout:    plan.Layout,
		SeatCount: plan.ParsedLayout().SeatCount(),
		EventsIn:  inUse,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}
