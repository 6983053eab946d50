package products

import (
	"context"
	"fmt"

	"seatmap/internal/shared/clock"

	"github.com/google/uuid"
)

type Service interface {
	// AvailabilityMap returns, per product of the event, whether the product
	// can currently be sold. Subevent overrides are applied when a subevent
	// is given.
	AvailabilityMap(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[uuid.UUID]bool, error)

	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Product, error)

	CreateProduct(ctx context.Context, eventID uuid.UUID, req CreateProductRequest) (*Product, error)
	// SetOverride disables or re-enables a product for one subevent.
	SetOverride(ctx context.Context, subEventID, productID uuid.UUID, disabled bool) error
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{repo: repo, clock: clk}
}

func (s *service) AvailabilityMap(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[uuid.UUID]bool, error) {
	products, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	now := s.clock.Now()
	out := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		out[products[i].ID] = products[i].IsAvailable(now)
	}

	if subEventID != nil {
		overrides, err := s.repo.ListOverrides(ctx, *subEventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load subevent overrides: %w", err)
		}
		for _, o := range overrides {
			if _, known := out[o.ProductID]; known && o.Disabled {
				out[o.ProductID] = false
			}
		}
	}

	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Product, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) CreateProduct(ctx context.Context, eventID uuid.UUID, req CreateProductRequest) (*Product, error) {
	product := &Product{
		EventID:        eventID,
		Name:           req.Name,
		Price:          req.Price,
		Active:         true,
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *service) SetOverride(ctx context.Context, subEventID, productID uuid.UUID, disabled bool) error {
	override := &SubEventProductOverride{
		SubEventID: subEventID,
		ProductID:  productID,
		Disabled:   disabled,
	}
	if err := s.repo.UpsertOverride(ctx, override); err != nil {
		return fmt.Errorf("failed to save product override: %w", err)
	}
	return nil
}
