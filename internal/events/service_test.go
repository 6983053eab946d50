package events

import (
	"context"
	"errors"
	"testing"

	"seatmap/internal/plans"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	Repository

	event *Event

	inTx        bool
	txHandle    *gorm.DB
	txUpdates   int
	rootUpdates int
}

func (f *fakeEventRepo) GetByID(context.Context, uuid.UUID) (*Event, error) {
	return f.event, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *Event) error {
	if f.inTx {
		f.txUpdates++
	} else {
		f.rootUpdates++
	}
	f.event = event
	return nil
}

func (f *fakeEventRepo) Transaction(_ context.Context, fn func(tx *gorm.DB, txRepo Repository) error) error {
	f.inTx = true
	defer func() { f.inTx = false }()
	f.txHandle = &gorm.DB{}
	return fn(f.txHandle, f)
}

type fakePlanSource struct {
	plans.Service

	layout plans.Layout
}

func (f *fakePlanSource) GetLayout(context.Context, uuid.UUID) (plans.Layout, error) {
	return f.layout, nil
}

type fakeSeatWriter struct {
	repo *fakeEventRepo

	deletedInTx   bool
	generatedInTx bool
	genErr        error
	seatCount     int
}

func (f *fakeSeatWriter) DeleteForEvent(context.Context, uuid.UUID) error {
	f.deletedInTx = f.repo.inTx
	return nil
}

func (f *fakeSeatWriter) GenerateForEvent(context.Context, uuid.UUID, plans.Layout) (int, error) {
	if f.genErr != nil {
		return 0, f.genErr
	}
	f.generatedInTx = f.repo.inTx
	return f.seatCount, nil
}

func (f *fakeSeatWriter) CountForEvent(context.Context, uuid.UUID) (int64, error) {
	return int64(f.seatCount), nil
}

type fakeMappingWriter struct {
	repo *fakeEventRepo

	deletedInTx bool
	called      bool
}

func (f *fakeMappingWriter) DeleteForEvent(context.Context, uuid.UUID) error {
	f.called = true
	f.deletedInTx = f.repo.inTx
	return nil
}

type fakeOrderGuard struct {
	seated int64
}

func (f *fakeOrderGuard) CountSeatedPositions(context.Context, uuid.UUID) (int64, error) {
	return f.seated, nil
}

type planFixture struct {
	repo     *fakeEventRepo
	seats    *fakeSeatWriter
	mappings *fakeMappingWriter
	guard    *fakeOrderGuard
	service  Service
	eventID  uuid.UUID

	seatsBoundTo    *gorm.DB
	mappingsBoundTo *gorm.DB
}

func newPlanFixture(t *testing.T, currentPlan *uuid.UUID) *planFixture {
	t.Helper()
	f := &planFixture{
		eventID: uuid.New(),
		guard:   &fakeOrderGuard{},
	}
	f.repo = &fakeEventRepo{event: &Event{ID: f.eventID, SeatingPlanID: currentPlan, SeatingChoice: true}}
	f.seats = &fakeSeatWriter{repo: f.repo, seatCount: 7}
	f.mappings = &fakeMappingWriter{repo: f.repo}
	f.service = NewService(
		f.repo,
		&fakePlanSource{},
		f.seats,
		func(tx *gorm.DB) SeatWriter { f.seatsBoundTo = tx; return f.seats },
		func(tx *gorm.DB) MappingWriter { f.mappingsBoundTo = tx; return f.mappings },
		f.guard,
		nil,
		logger.New(),
	)
	return f
}

func TestSetSeatingPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("attach regenerates seats and event row in one transaction", func(t *testing.T) {
		f := newPlanFixture(t, nil)
		planID := uuid.New()

		resp, err := f.service.SetSeatingPlan(ctx, f.eventID, SetSeatingPlanRequest{SeatingPlanID: &planID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.seats.deletedInTx || !f.seats.generatedInTx {
			t.Error("seat rewrite must run inside the repository transaction")
		}
		if f.seatsBoundTo == nil || f.seatsBoundTo != f.repo.txHandle {
			t.Error("seat writer must be bound to the transaction the repository opened")
		}
		if f.repo.txUpdates != 1 || f.repo.rootUpdates != 0 {
			t.Errorf("event row must commit with the seats, got %d tx / %d root updates", f.repo.txUpdates, f.repo.rootUpdates)
		}
		if resp.SeatingPlanID == nil || *resp.SeatingPlanID != planID {
			t.Error("response must carry the new plan")
		}
	})

	t.Run("failed generation leaves the event row untouched", func(t *testing.T) {
		f := newPlanFixture(t, nil)
		f.seats.genErr = errors.New("layout exploded")
		planID := uuid.New()

		_, err := f.service.SetSeatingPlan(ctx, f.eventID, SetSeatingPlanRequest{SeatingPlanID: &planID})
		if err == nil {
			t.Fatal("expected the generation failure to propagate")
		}
		if f.repo.txUpdates != 0 || f.repo.rootUpdates != 0 {
			t.Error("no event update may happen after a failed regeneration")
		}
	})

	t.Run("detach drops seats and mappings in the same transaction", func(t *testing.T) {
		oldPlan := uuid.New()
		f := newPlanFixture(t, &oldPlan)

		resp, err := f.service.SetSeatingPlan(ctx, f.eventID, SetSeatingPlanRequest{SeatingPlanID: nil})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.seats.deletedInTx {
			t.Error("seats must be removed inside the transaction")
		}
		if !f.mappings.called || !f.mappings.deletedInTx {
			t.Error("category mappings must be removed inside the transaction")
		}
		if f.mappingsBoundTo != f.repo.txHandle {
			t.Error("mapping writer must be bound to the transaction the repository opened")
		}
		if resp.SeatingPlanID != nil {
			t.Error("response must carry the detached plan")
		}
	})

	t.Run("plan change is refused while orders reference seats", func(t *testing.T) {
		oldPlan := uuid.New()
		f := newPlanFixture(t, &oldPlan)
		f.guard.seated = 3
		planID := uuid.New()

		_, err := f.service.SetSeatingPlan(ctx, f.eventID, SetSeatingPlanRequest{SeatingPlanID: &planID})
		if !errors.Is(err, ErrSeatsInUse) {
			t.Fatalf("expected ErrSeatsInUse, got %v", err)
		}
		if f.seats.deletedInTx || f.repo.txUpdates != 0 {
			t.Error("refused plan change must not touch seats or the event row")
		}
	})

	t.Run("toggling seat choice alone skips the seat rewrite", func(t *testing.T) {
		oldPlan := uuid.New()
		f := newPlanFixture(t, &oldPlan)
		off := false

		resp, err := f.service.SetSeatingPlan(ctx, f.eventID, SetSeatingPlanRequest{SeatingPlanID: &oldPlan, SeatingChoice: &off})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.seats.deletedInTx || f.mappings.called {
			t.Error("same plan must not rewrite seats or mappings")
		}
		if f.repo.rootUpdates != 1 {
			t.Errorf("expected one plain event update, got %d", f.repo.rootUpdates)
		}
		if resp.SeatingChoice {
			t.Error("seat choice must be off")
		}
	})
}
