package seats

import (
	"context"
	"time"

	"seatmap/internal/carts"
	"seatmap/internal/shared/clock"

	"github.com/google/uuid"
)

// OrderHoldSource exposes seats claimed by pending or paid orders.
type OrderHoldSource interface {
	SeatIDsWithActiveOrder(ctx context.Context, eventID uuid.UUID) (map[uuid.UUID]struct{}, error)
	HasActiveOrderForSeat(ctx context.Context, seatID uuid.UUID) (bool, error)
}

// CartHoldSource exposes unexpired cart holds.
type CartHoldSource interface {
	LiveHoldsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]carts.SeatHold, error)
	LiveHoldsForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) ([]carts.SeatHold, error)
}

// VoucherHoldSource exposes seats reserved by live vouchers.
type VoucherHoldSource interface {
	SeatIDsWithLiveVoucher(ctx context.Context, eventID uuid.UUID, now time.Time) (map[uuid.UUID]struct{}, error)
	HasLiveVoucherForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) (bool, error)
}

// HoldOracle answers whether a seat is taken. A seat is taken when it is
// blocked, claimed by an active order, held by an unexpired cart position or
// reserved by a live voucher. Expired carts, lapsed vouchers and canceled or
// expired orders are transparent.
type HoldOracle struct {
	orders   OrderHoldSource
	carts    CartHoldSource
	vouchers VoucherHoldSource
	clock    clock.Clock
}

func NewHoldOracle(orders OrderHoldSource, cartHolds CartHoldSource, vouchers VoucherHoldSource, clk clock.Clock) *HoldOracle {
	return &HoldOracle{orders: orders, carts: cartHolds, vouchers: vouchers, clock: clk}
}

// Now returns the oracle's notion of current time.
func (o *HoldOracle) Now() time.Time {
	return o.clock.Now()
}

// SeatTaken checks a single seat. excludePositionID ignores that cart
// position's own hold, so a position can be re-assigned the seat it already
// holds.
func (o *HoldOracle) SeatTaken(ctx context.Context, seat *Seat, excludePositionID *uuid.UUID) (bool, error) {
	if seat.Blocked {
		return true, nil
	}

	sold, err := o.orders.HasActiveOrderForSeat(ctx, seat.ID)
	if err != nil {
		return false, err
	}
	if sold {
		return true, nil
	}

	now := o.clock.Now()
	holds, err := o.carts.LiveHoldsForSeat(ctx, seat.ID, now)
	if err != nil {
		return false, err
	}
	for _, hold := range holds {
		if excludePositionID != nil && hold.PositionID == *excludePositionID {
			continue
		}
		return true, nil
	}

	return o.vouchers.HasLiveVoucherForSeat(ctx, seat.ID, now)
}

// LoadEventHolds loads all holds of an event in three queries, for rendering
// whole seatmaps.
func (o *HoldOracle) LoadEventHolds(ctx context.Context, eventID uuid.UUID) (*EventHolds, error) {
	now := o.clock.Now()

	orderSeats, err := o.orders.SeatIDsWithActiveOrder(ctx, eventID)
	if err != nil {
		return nil, err
	}
	cartHolds, err := o.carts.LiveHoldsByEvent(ctx, eventID, now)
	if err != nil {
		return nil, err
	}
	voucherSeats, err := o.vouchers.SeatIDsWithLiveVoucher(ctx, eventID, now)
	if err != nil {
		return nil, err
	}

	holds := &EventHolds{
		orderSeats:   orderSeats,
		voucherSeats: voucherSeats,
		cartHolds:    make(map[uuid.UUID][]carts.SeatHold, len(cartHolds)),
	}
	for _, hold := range cartHolds {
		holds.cartHolds[hold.SeatID] = append(holds.cartHolds[hold.SeatID], hold)
	}
	return holds, nil
}

// EventHolds is a point-in-time snapshot of every hold on an event's seats.
type EventHolds struct {
	orderSeats   map[uuid.UUID]struct{}
	cartHolds    map[uuid.UUID][]carts.SeatHold
	voucherSeats map[uuid.UUID]struct{}
}

func (h *EventHolds) HasOrder(seatID uuid.UUID) bool {
	_, ok := h.orderSeats[seatID]
	return ok
}

func (h *EventHolds) HasVoucher(seatID uuid.UUID) bool {
	_, ok := h.voucherSeats[seatID]
	return ok
}

// HeldByOwnCart reports whether the given cart itself holds the seat.
func (h *EventHolds) HeldByOwnCart(seatID uuid.UUID, cartID string) bool {
	for _, hold := range h.cartHolds[seatID] {
		if hold.CartID == cartID {
			return true
		}
	}
	return false
}

// HeldByOtherCart reports whether some other cart holds the seat.
func (h *EventHolds) HeldByOtherCart(seatID uuid.UUID, cartID string) bool {
	for _, hold := range h.cartHolds[seatID] {
		if hold.CartID != cartID {
			return true
		}
	}
	return false
}
