package carts

import (
	"context"
	"testing"
	"time"

	"seatmap/internal/shared/clock"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
)

type fakeCartRepo struct {
	Repository

	positions []CartPosition
}

func (f *fakeCartRepo) PositionsForCart(_ context.Context, cartID string, eventID uuid.UUID, now time.Time) ([]CartPosition, error) {
	var out []CartPosition
	for _, p := range f.positions {
		if p.CartID == cartID && p.EventID == eventID && p.Expires.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestReadyForCheckout(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	seatID := uuid.New()
	future := now.Add(30 * time.Minute)

	newService := func(positions ...CartPosition) Service {
		return NewService(&fakeCartRepo{positions: positions}, clock.NewFixed(now), 30*time.Minute, logger.New())
	}

	t.Run("all admission positions seated", func(t *testing.T) {
		svc := newService(
			CartPosition{CartID: "c1", EventID: eventID, Admission: true, SeatID: &seatID, Expires: future},
			CartPosition{CartID: "c1", EventID: eventID, Admission: false, Expires: future},
		)
		ready, err := svc.ReadyForCheckout(context.Background(), "c1", eventID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ready {
			t.Error("cart with every admission position seated should be ready")
		}
	})

	t.Run("unseated admission position blocks checkout", func(t *testing.T) {
		svc := newService(
			CartPosition{CartID: "c1", EventID: eventID, Admission: true, Expires: future},
		)
		ready, err := svc.ReadyForCheckout(context.Background(), "c1", eventID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ready {
			t.Error("cart with an unseated admission position must not be ready")
		}
	})

	t.Run("expired positions are ignored", func(t *testing.T) {
		svc := newService(
			CartPosition{CartID: "c1", EventID: eventID, Admission: true, Expires: now.Add(-time.Minute)},
		)
		ready, err := svc.ReadyForCheckout(context.Background(), "c1", eventID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ready {
			t.Error("expired positions must not block checkout")
		}
	})

	t.Run("empty cart is ready", func(t *testing.T) {
		svc := newService()
		ready, err := svc.ReadyForCheckout(context.Background(), "c1", eventID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ready {
			t.Error("empty cart should be ready")
		}
	})
}

func TestHoldsSeat(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seatID := uuid.New()

	cases := []struct {
		name string
		pos  CartPosition
		want bool
	}{
		{"live hold", CartPosition{SeatID: &seatID, Expires: now.Add(time.Minute)}, true},
		{"expired hold", CartPosition{SeatID: &seatID, Expires: now.Add(-time.Minute)}, false},
		{"no seat", CartPosition{Expires: now.Add(time.Minute)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pos.HoldsSeat(now); got != tc.want {
				t.Errorf("HoldsSeat = %v, want %v", got, tc.want)
			}
		})
	}
}
