package seats

import (
	"context"
	"testing"
	"time"

	"seatmap/internal/carts"
	"seatmap/internal/shared/clock"

	"github.com/google/uuid"
)

type fakeOrderHolds struct {
	seats map[uuid.UUID]struct{}
}

func (f *fakeOrderHolds) SeatIDsWithActiveOrder(context.Context, uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return f.seats, nil
}

func (f *fakeOrderHolds) HasActiveOrderForSeat(_ context.Context, seatID uuid.UUID) (bool, error) {
	_, ok := f.seats[seatID]
	return ok, nil
}

type fakeCartHolds struct {
	holds []carts.SeatHold
}

func (f *fakeCartHolds) LiveHoldsByEvent(_ context.Context, _ uuid.UUID, now time.Time) ([]carts.SeatHold, error) {
	return f.live(now), nil
}

func (f *fakeCartHolds) LiveHoldsForSeat(_ context.Context, seatID uuid.UUID, now time.Time) ([]carts.SeatHold, error) {
	var out []carts.SeatHold
	for _, h := range f.live(now) {
		if h.SeatID == seatID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeCartHolds) live(now time.Time) []carts.SeatHold {
	var out []carts.SeatHold
	for _, h := range f.holds {
		if h.Expires.After(now) {
			out = append(out, h)
		}
	}
	return out
}

type fakeVoucherHolds struct {
	seats map[uuid.UUID]struct{}
}

func (f *fakeVoucherHolds) SeatIDsWithLiveVoucher(context.Context, uuid.UUID, time.Time) (map[uuid.UUID]struct{}, error) {
	return f.seats, nil
}

func (f *fakeVoucherHolds) HasLiveVoucherForSeat(_ context.Context, seatID uuid.UUID, _ time.Time) (bool, error) {
	_, ok := f.seats[seatID]
	return ok, nil
}

func emptyHoldSources() (*fakeOrderHolds, *fakeCartHolds, *fakeVoucherHolds) {
	return &fakeOrderHolds{seats: map[uuid.UUID]struct{}{}},
		&fakeCartHolds{},
		&fakeVoucherHolds{seats: map[uuid.UUID]struct{}{}}
}

func TestSeatTaken(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(now)
	ctx := context.Background()

	t.Run("free seat is not taken", func(t *testing.T) {
		orders, cartHolds, vouchers := emptyHoldSources()
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, err := oracle.SeatTaken(ctx, &Seat{ID: uuid.New()}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if taken {
			t.Error("free seat must not be taken")
		}
	})

	t.Run("blocked seat is taken", func(t *testing.T) {
		orders, cartHolds, vouchers := emptyHoldSources()
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, &Seat{ID: uuid.New(), Blocked: true}, nil)
		if !taken {
			t.Error("blocked seat must be taken")
		}
	})

	t.Run("seat with active order is taken", func(t *testing.T) {
		seat := &Seat{ID: uuid.New()}
		orders, cartHolds, vouchers := emptyHoldSources()
		orders.seats[seat.ID] = struct{}{}
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, seat, nil)
		if !taken {
			t.Error("sold seat must be taken")
		}
	})

	t.Run("unexpired cart hold takes the seat", func(t *testing.T) {
		seat := &Seat{ID: uuid.New()}
		orders, cartHolds, vouchers := emptyHoldSources()
		cartHolds.holds = []carts.SeatHold{
			{PositionID: uuid.New(), CartID: "other", SeatID: seat.ID, Expires: now.Add(10 * time.Minute)},
		}
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, seat, nil)
		if !taken {
			t.Error("seat with live cart hold must be taken")
		}
	})

	t.Run("expired cart hold is transparent", func(t *testing.T) {
		seat := &Seat{ID: uuid.New()}
		orders, cartHolds, vouchers := emptyHoldSources()
		cartHolds.holds = []carts.SeatHold{
			{PositionID: uuid.New(), CartID: "other", SeatID: seat.ID, Expires: now.Add(-time.Minute)},
		}
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, seat, nil)
		if taken {
			t.Error("expired cart hold must not take the seat")
		}
	})

	t.Run("own position hold is excluded", func(t *testing.T) {
		seat := &Seat{ID: uuid.New()}
		ownPosition := uuid.New()
		orders, cartHolds, vouchers := emptyHoldSources()
		cartHolds.holds = []carts.SeatHold{
			{PositionID: ownPosition, CartID: "mine", SeatID: seat.ID, Expires: now.Add(10 * time.Minute)},
		}
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, seat, &ownPosition)
		if taken {
			t.Error("a position must be able to keep its own seat")
		}

		taken, _ = oracle.SeatTaken(ctx, seat, nil)
		if !taken {
			t.Error("without exclusion the hold must count")
		}
	})

	t.Run("live voucher takes the seat", func(t *testing.T) {
		seat := &Seat{ID: uuid.New()}
		orders, cartHolds, vouchers := emptyHoldSources()
		vouchers.seats[seat.ID] = struct{}{}
		oracle := NewHoldOracle(orders, cartHolds, vouchers, clk)

		taken, _ := oracle.SeatTaken(ctx, seat, nil)
		if !taken {
			t.Error("voucher-reserved seat must be taken")
		}
	})
}

func TestEventHoldsCartOwnership(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seatID := uuid.New()
	orders, cartHolds, vouchers := emptyHoldSources()
	cartHolds.holds = []carts.SeatHold{
		{PositionID: uuid.New(), CartID: "mine", SeatID: seatID, Expires: now.Add(time.Minute)},
	}
	oracle := NewHoldOracle(orders, cartHolds, vouchers, clock.NewFixed(now))

	holds, err := oracle.LoadEventHolds(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holds.HeldByOwnCart(seatID, "mine") {
		t.Error("seat should be held by own cart")
	}
	if holds.HeldByOtherCart(seatID, "mine") {
		t.Error("seat is not held by another cart")
	}
	if !holds.HeldByOtherCart(seatID, "someone-else") {
		t.Error("seat is held by another cart from a stranger's view")
	}
}
