package carts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatmap/internal/shared/clock"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPositionNotFound = errors.New("cart position not found")

type Service interface {
	// AddPosition puts a product into the cart with a fresh hold window.
	AddPosition(ctx context.Context, cartID string, eventID, productID uuid.UUID, admission bool) (*CartPosition, error)
	RemovePosition(ctx context.Context, cartID string, positionID uuid.UUID) error
	GetCart(ctx context.Context, cartID string, eventID uuid.UUID) ([]CartPosition, error)

	// ReadyForCheckout reports whether every admission position of the cart
	// has a seat. Carts with no admission positions are ready.
	ReadyForCheckout(ctx context.Context, cartID string, eventID uuid.UUID) (bool, error)
}

type service struct {
	repo    Repository
	clock   clock.Clock
	holdTTL time.Duration
	log     *logger.Logger
}

func NewService(repo Repository, clk clock.Clock, holdTTL time.Duration, log *logger.Logger) Service {
	return &service{repo: repo, clock: clk, holdTTL: holdTTL, log: log}
}

func (s *service) AddPosition(ctx context.Context, cartID string, eventID, productID uuid.UUID, admission bool) (*CartPosition, error) {
	position := &CartPosition{
		CartID:    cartID,
		EventID:   eventID,
		ProductID: productID,
		Admission: admission,
		Expires:   s.clock.Now().Add(s.holdTTL),
	}
	if err := s.repo.Create(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to add cart position: %w", err)
	}
	return position, nil
}

func (s *service) RemovePosition(ctx context.Context, cartID string, positionID uuid.UUID) error {
	position, err := s.repo.GetByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to load cart position: %w", err)
	}
	if position.CartID != cartID {
		return ErrPositionNotFound
	}
	return s.repo.Delete(ctx, positionID)
}

func (s *service) GetCart(ctx context.Context, cartID string, eventID uuid.UUID) ([]CartPosition, error) {
	return s.repo.PositionsForCart(ctx, cartID, eventID, s.clock.Now())
}

func (s *service) ReadyForCheckout(ctx context.Context, cartID string, eventID uuid.UUID) (bool, error) {
	positions, err := s.repo.PositionsForCart(ctx, cartID, eventID, s.clock.Now())
	if err != nil {
		return false, fmt.Errorf("failed to load cart: %w", err)
	}
	for i := range positions {
		if positions[i].Admission && positions[i].SeatID == nil {
			return false, nil
		}
	}
	return true, nil
}
