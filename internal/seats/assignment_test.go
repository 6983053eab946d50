package seats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seatmap/internal/carts"
	"seatmap/internal/events"
	"seatmap/internal/shared/clock"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// assignStore backs the assignment fakes. txMu stands in for the row locks
// the real repository takes, serializing whole transactions; linksMu guards
// the seat-link map against reads from the hold sources.
type assignStore struct {
	txMu sync.Mutex

	seatsByGUID map[string]*Seat

	linksMu   sync.Mutex
	links     map[uuid.UUID]uuid.UUID // positionID -> seatID
	positions map[uuid.UUID]carts.CartPosition
}

func (s *assignStore) setLink(positionID, seatID uuid.UUID) {
	s.linksMu.Lock()
	defer s.linksMu.Unlock()
	s.links[positionID] = seatID
}

func (s *assignStore) clearLinks(positionIDs []uuid.UUID) {
	s.linksMu.Lock()
	defer s.linksMu.Unlock()
	for _, id := range positionIDs {
		delete(s.links, id)
	}
}

func (s *assignStore) linkOf(positionID uuid.UUID) (uuid.UUID, bool) {
	s.linksMu.Lock()
	defer s.linksMu.Unlock()
	seatID, ok := s.links[positionID]
	return seatID, ok
}

type fakeAssignRepo struct {
	Repository

	store *assignStore
}

func (f *fakeAssignRepo) Transaction(_ context.Context, fn func(txRepo Repository) error) error {
	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()
	return fn(f)
}

func (f *fakeAssignRepo) LockByGUID(_ context.Context, _ uuid.UUID, guid string) (*Seat, error) {
	if seat, ok := f.store.seatsByGUID[guid]; ok {
		return seat, nil
	}
	return nil, &SeatNotFoundError{GUID: guid}
}

func (f *fakeAssignRepo) ClearCartSeatLinks(_ context.Context, positionIDs []uuid.UUID) error {
	f.store.clearLinks(positionIDs)
	return nil
}

func (f *fakeAssignRepo) SetCartSeatLink(_ context.Context, positionID, seatID uuid.UUID) error {
	f.store.setLink(positionID, seatID)
	return nil
}

func (f *fakeAssignRepo) ReleaseStaleSeatLinks(_ context.Context, seatIDs []uuid.UUID, now time.Time) error {
	wanted := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = true
	}
	for id, p := range f.store.positions {
		if p.Expires.After(now) {
			continue
		}
		if seatID, ok := f.store.linkOf(id); ok && wanted[seatID] {
			f.store.clearLinks([]uuid.UUID{id})
		}
	}
	return nil
}

// conflictingAssignRepo simulates losing the race at the partial unique
// index on cart_positions.seat_id.
type conflictingAssignRepo struct {
	fakeAssignRepo

	conflictSeatID uuid.UUID
	conflictErr    error
}

func (f *conflictingAssignRepo) Transaction(_ context.Context, fn func(txRepo Repository) error) error {
	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()
	return fn(f)
}

func (f *conflictingAssignRepo) SetCartSeatLink(ctx context.Context, positionID, seatID uuid.UUID) error {
	if seatID == f.conflictSeatID {
		return f.conflictErr
	}
	return f.fakeAssignRepo.SetCartSeatLink(ctx, positionID, seatID)
}

type storeCartSource struct {
	store *assignStore
	now   time.Time
}

func (s *storeCartSource) GetCart(_ context.Context, cartID string, eventID uuid.UUID) ([]carts.CartPosition, error) {
	var out []carts.CartPosition
	for _, p := range s.store.positions {
		if p.CartID != cartID || p.EventID != eventID || !p.Expires.After(s.now) {
			continue
		}
		if seatID, ok := s.store.linkOf(p.ID); ok {
			p.SeatID = &seatID
		}
		out = append(out, p)
	}
	return out, nil
}

// storeCartHolds exposes the store's links as cart holds for the oracle.
type storeCartHolds struct {
	store *assignStore
}

func (s *storeCartHolds) LiveHoldsByEvent(_ context.Context, eventID uuid.UUID, now time.Time) ([]carts.SeatHold, error) {
	return s.holds(func(p carts.CartPosition) bool { return p.EventID == eventID }, now), nil
}

func (s *storeCartHolds) LiveHoldsForSeat(_ context.Context, seatID uuid.UUID, now time.Time) ([]carts.SeatHold, error) {
	all := s.holds(func(carts.CartPosition) bool { return true }, now)
	var out []carts.SeatHold
	for _, h := range all {
		if h.SeatID == seatID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *storeCartHolds) holds(match func(carts.CartPosition) bool, now time.Time) []carts.SeatHold {
	var out []carts.SeatHold
	for _, p := range s.store.positions {
		if !match(p) || !p.Expires.After(now) {
			continue
		}
		if seatID, ok := s.store.linkOf(p.ID); ok {
			out = append(out, carts.SeatHold{
				PositionID: p.ID,
				CartID:     p.CartID,
				SeatID:     seatID,
				Expires:    p.Expires,
			})
		}
	}
	return out
}

type fakeEventSource struct {
	event *events.Event
}

func (f *fakeEventSource) GetEvent(context.Context, uuid.UUID) (*events.Event, error) {
	return f.event, nil
}

type recordingAudit struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingAudit) SeatAssignmentCommitted(context.Context, uuid.UUID, string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

type assignFixture struct {
	store   *assignStore
	service Service
	audit   *recordingAudit
	eventID uuid.UUID
	now     time.Time
}

func newAssignFixture(t *testing.T, seatGUIDs ...string) *assignFixture {
	t.Helper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	planID := uuid.New()

	store := &assignStore{
		seatsByGUID: make(map[string]*Seat),
		links:       make(map[uuid.UUID]uuid.UUID),
		positions:   make(map[uuid.UUID]carts.CartPosition),
	}
	for _, guid := range seatGUIDs {
		store.seatsByGUID[guid] = &Seat{
			ID:       uuid.New(),
			EventID:  eventID,
			SeatGUID: guid,
			Name:     "Seat " + guid,
		}
	}

	clk := clock.NewFixed(now)
	oracle := NewHoldOracle(
		&fakeOrderHolds{seats: map[uuid.UUID]struct{}{}},
		&storeCartHolds{store: store},
		&fakeVoucherHolds{seats: map[uuid.UUID]struct{}{}},
		clk,
	)
	audit := &recordingAudit{}
	svc := NewService(
		&fakeAssignRepo{store: store},
		&fakeEventSource{event: &events.Event{ID: eventID, SeatingPlanID: &planID, SeatingChoice: true}},
		nil, nil, nil,
		&storeCartSource{store: store, now: now},
		oracle,
		audit,
		DefaultProjectorConfig(),
		"/checkout/start",
		logger.New(),
	)
	return &assignFixture{store: store, service: svc, audit: audit, eventID: eventID, now: now}
}

func (f *assignFixture) addPosition(cartID string) uuid.UUID {
	id := uuid.New()
	f.store.positions[id] = carts.CartPosition{
		ID:        id,
		CartID:    cartID,
		EventID:   f.eventID,
		Admission: true,
		Expires:   f.now.Add(30 * time.Minute),
	}
	return id
}

func TestAssignSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and returns the checkout redirect", func(t *testing.T) {
		f := newAssignFixture(t, "A1", "A2")
		pos1 := f.addPosition("cart-1")
		pos2 := f.addPosition("cart-1")

		result, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{
				pos1.String(): "A1",
				pos2.String(): "A2",
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Assigned != 2 || result.Redirect != "/checkout/start" {
			t.Errorf("unexpected result %+v", result)
		}
		if seatID, ok := f.store.linkOf(pos1); !ok || seatID != f.store.seatsByGUID["A1"].ID {
			t.Error("position 1 should be linked to seat A1")
		}
		if f.audit.calls != 1 {
			t.Errorf("expected 1 audit record, got %d", f.audit.calls)
		}
	})

	t.Run("rejects positions from another cart", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		other := f.addPosition("cart-2")

		_, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{other.String(): "A1"},
		})
		if !errors.Is(err, ErrPositionNotInCart) {
			t.Fatalf("expected ErrPositionNotInCart, got %v", err)
		}
	})

	t.Run("rejects non-admission positions", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		merch := uuid.New()
		f.store.positions[merch] = carts.CartPosition{
			ID:      merch,
			CartID:  "cart-1",
			EventID: f.eventID,
			Expires: f.now.Add(30 * time.Minute),
		}

		_, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{merch.String(): "A1"},
		})
		if !errors.Is(err, ErrPositionNotInCart) {
			t.Fatalf("expected ErrPositionNotInCart, got %v", err)
		}
		if _, ok := f.store.linkOf(merch); ok {
			t.Error("non-admission position must not take a seat")
		}
	})

	t.Run("rejects the same seat on two positions", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		pos1 := f.addPosition("cart-1")
		pos2 := f.addPosition("cart-1")

		_, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{
				pos1.String(): "A1",
				pos2.String(): "A1",
			},
		})
		if !errors.Is(err, ErrDuplicateSeatAssignment) {
			t.Fatalf("expected ErrDuplicateSeatAssignment, got %v", err)
		}
		if _, ok := f.store.linkOf(pos1); ok {
			t.Error("no link may be written on rejection")
		}
	})

	t.Run("unknown seat GUID is not found", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		pos := f.addPosition("cart-1")

		_, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{pos.String(): "no-such-seat"},
		})
		var notFound *SeatNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected SeatNotFoundError, got %v", err)
		}
		if notFound.GUID != "no-such-seat" {
			t.Errorf("error should carry the GUID, got %q", notFound.GUID)
		}
	})

	t.Run("seat held by another cart is unavailable and names the seat", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		theirs := f.addPosition("cart-2")
		f.store.setLink(theirs, f.store.seatsByGUID["A1"].ID)
		mine := f.addPosition("cart-1")

		_, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{mine.String(): "A1"},
		})
		var unavailable *SeatUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("expected SeatUnavailableError, got %v", err)
		}
		if unavailable.Name != "Seat A1" {
			t.Errorf("error should carry the seat name, got %q", unavailable.Name)
		}
		if _, ok := f.store.linkOf(mine); ok {
			t.Error("failed assignment must not write links")
		}
	})

	t.Run("expired hold from another cart is released and taken over", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		theirs := uuid.New()
		f.store.positions[theirs] = carts.CartPosition{
			ID:        theirs,
			CartID:    "cart-2",
			EventID:   f.eventID,
			Admission: true,
			Expires:   f.now.Add(-time.Minute),
		}
		f.store.setLink(theirs, f.store.seatsByGUID["A1"].ID)
		mine := f.addPosition("cart-1")

		result, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{mine.String(): "A1"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Assigned != 1 {
			t.Errorf("expected 1 assignment, got %d", result.Assigned)
		}
		if _, ok := f.store.linkOf(theirs); ok {
			t.Error("expired hold must be released")
		}
		if seatID, _ := f.store.linkOf(mine); seatID != f.store.seatsByGUID["A1"].ID {
			t.Error("new position should hold seat A1")
		}
	})

	t.Run("hold lapsing exactly now is released", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		theirs := uuid.New()
		f.store.positions[theirs] = carts.CartPosition{
			ID:        theirs,
			CartID:    "cart-2",
			EventID:   f.eventID,
			Admission: true,
			Expires:   f.now,
		}
		f.store.setLink(theirs, f.store.seatsByGUID["A1"].ID)
		mine := f.addPosition("cart-1")

		if _, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{mine.String(): "A1"},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := f.store.linkOf(theirs); ok {
			t.Error("hold at the expiry boundary must be released")
		}
	})

	t.Run("losing the unique seat index surfaces as unavailable", func(t *testing.T) {
		for _, conflictErr := range []error{gorm.ErrDuplicatedKey, &pgconn.PgError{Code: "23505"}} {
			f := newAssignFixture(t, "A1")
			mine := f.addPosition("cart-1")
			planID := uuid.New()
			repo := &conflictingAssignRepo{
				fakeAssignRepo: fakeAssignRepo{store: f.store},
				conflictSeatID: f.store.seatsByGUID["A1"].ID,
				conflictErr:    conflictErr,
			}
			svc := NewService(
				repo,
				&fakeEventSource{event: &events.Event{ID: f.eventID, SeatingPlanID: &planID, SeatingChoice: true}},
				nil, nil, nil,
				&storeCartSource{store: f.store, now: f.now},
				NewHoldOracle(&fakeOrderHolds{seats: map[uuid.UUID]struct{}{}}, &storeCartHolds{store: f.store}, &fakeVoucherHolds{seats: map[uuid.UUID]struct{}{}}, clock.NewFixed(f.now)),
				nil, DefaultProjectorConfig(), "/checkout/start", logger.New(),
			)

			_, err := svc.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
				SeatAssignments: map[string]string{mine.String(): "A1"},
			})
			var unavailable *SeatUnavailableError
			if !errors.As(err, &unavailable) {
				t.Fatalf("expected SeatUnavailableError for %v, got %v", conflictErr, err)
			}
			if unavailable.Name != "Seat A1" {
				t.Errorf("error should carry the seat name, got %q", unavailable.Name)
			}
			if _, ok := f.store.linkOf(mine); ok {
				t.Error("losing assignment must not keep a link")
			}
		}
	})

	t.Run("resubmitting a committed assignment succeeds", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		pos := f.addPosition("cart-1")
		req := AssignmentRequest{SeatAssignments: map[string]string{pos.String(): "A1"}}

		if _, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", req); err != nil {
			t.Fatalf("first assignment failed: %v", err)
		}
		if _, err := f.service.AssignSeats(ctx, f.eventID, "cart-1", req); err != nil {
			t.Fatalf("resubmission must succeed, got %v", err)
		}
		if seatID, _ := f.store.linkOf(pos); seatID != f.store.seatsByGUID["A1"].ID {
			t.Error("link should still point at seat A1")
		}
	})

	t.Run("seating disabled rejects assignment", func(t *testing.T) {
		f := newAssignFixture(t, "A1")
		pos := f.addPosition("cart-1")
		src := &fakeEventSource{event: &events.Event{ID: f.eventID, SeatingChoice: true}} // no plan
		svc := NewService(
			&fakeAssignRepo{store: f.store}, src, nil, nil, nil,
			&storeCartSource{store: f.store, now: f.now},
			NewHoldOracle(&fakeOrderHolds{seats: map[uuid.UUID]struct{}{}}, &storeCartHolds{store: f.store}, &fakeVoucherHolds{seats: map[uuid.UUID]struct{}{}}, clock.NewFixed(f.now)),
			nil, DefaultProjectorConfig(), "/checkout/start", logger.New(),
		)

		_, err := svc.AssignSeats(ctx, f.eventID, "cart-1", AssignmentRequest{
			SeatAssignments: map[string]string{pos.String(): "A1"},
		})
		if !errors.Is(err, ErrSeatingDisabled) {
			t.Fatalf("expected ErrSeatingDisabled, got %v", err)
		}
	})
}

func TestAssignSeatsConcurrentContention(t *testing.T) {
	f := newAssignFixture(t, "A1")
	pos1 := f.addPosition("cart-1")
	pos2 := f.addPosition("cart-2")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	requests := []struct {
		cartID string
		posID  uuid.UUID
	}{
		{"cart-1", pos1},
		{"cart-2", pos2},
	}
	for i, r := range requests {
		wg.Add(1)
		go func(i int, cartID string, posID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.service.AssignSeats(context.Background(), f.eventID, cartID, AssignmentRequest{
				SeatAssignments: map[string]string{posID.String(): "A1"},
			})
		}(i, r.cartID, r.posID)
	}
	wg.Wait()

	var successes, unavailable int
	for _, err := range errs {
		var u *SeatUnavailableError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &u):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || unavailable != 1 {
		t.Fatalf("exactly one contender may win, got %d successes and %d unavailable", successes, unavailable)
	}

	holders := 0
	for _, pos := range []uuid.UUID{pos1, pos2} {
		if _, ok := f.store.linkOf(pos); ok {
			holders++
		}
	}
	if holders != 1 {
		t.Fatalf("exactly one position may hold the seat, got %d", holders)
	}
}
