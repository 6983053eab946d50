package seats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"seatmap/internal/carts"
	"seatmap/internal/events"
	"seatmap/internal/plans"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// EventSource resolves events; satisfied by the events service.
type EventSource interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

// PlanSource resolves plan layouts; satisfied by the plans service.
type PlanSource interface {
	RawLayout(ctx context.Context, id uuid.UUID) (string, error)
}

// MappingSource resolves category -> product tables; satisfied by the
// mappings service.
type MappingSource interface {
	Resolve(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[string]uuid.UUID, error)
}

// ProductSource resolves product availability; satisfied by the products
// service.
type ProductSource interface {
	AvailabilityMap(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID) (map[uuid.UUID]bool, error)
}

// CartSource resolves a cart's live positions; satisfied by the carts
// service.
type CartSource interface {
	GetCart(ctx context.Context, cartID string, eventID uuid.UUID) ([]carts.CartPosition, error)
}

// AuditSink receives committed assignment records; satisfied by the audit
// publisher. Publishing happens after commit and never fails an assignment.
type AuditSink interface {
	SeatAssignmentCommitted(ctx context.Context, eventID uuid.UUID, cartID string, seatGUIDs []string)
}

type Service interface {
	// GetSeatmap renders the seatmap for one event and rendering scope.
	// Events without a plan or with seat choice disabled yield an empty map.
	GetSeatmap(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID, cartID string) (*SeatmapResponse, error)

	// AssignSeats atomically binds the cart's positions to the requested
	// seats. Either every assignment commits or none does.
	AssignSeats(ctx context.Context, eventID uuid.UUID, cartID string, req AssignmentRequest) (*AssignmentResult, error)

	// GenerateForEvent materializes seat rows from a plan layout.
	GenerateForEvent(ctx context.Context, eventID uuid.UUID, layout plans.Layout) (int, error)
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error
	CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)

	// WithTx returns a Service whose repository writes run inside the given
	// transaction; the plan lifecycle uses it to commit seat regeneration
	// together with the event row.
	WithTx(tx *gorm.DB) Service

	// SeatIDByGUID resolves a seat GUID within an event.
	SeatIDByGUID(ctx context.Context, eventID uuid.UUID, guid string) (uuid.UUID, bool, error)

	SetBlocked(ctx context.Context, eventID uuid.UUID, guid string, blocked bool) error
}

type service struct {
	repo         Repository
	eventSource  EventSource
	planSource   PlanSource
	mappings     MappingSource
	products     ProductSource
	cartSource   CartSource
	oracle       *HoldOracle
	audit        AuditSink
	cfg          ProjectorConfig
	checkoutPath string
	log          *logger.Logger
}

func NewService(
	repo Repository,
	eventSource EventSource,
	planSource PlanSource,
	mappingSource MappingSource,
	productSource ProductSource,
	cartSource CartSource,
	oracle *HoldOracle,
	auditSink AuditSink,
	cfg ProjectorConfig,
	checkoutPath string,
	log *logger.Logger,
) Service {
	return &service{
		repo:         repo,
		eventSource:  eventSource,
		planSource:   planSource,
		mappings:     mappingSource,
		products:     productSource,
		cartSource:   cartSource,
		oracle:       oracle,
		audit:        auditSink,
		cfg:          cfg,
		checkoutPath: checkoutPath,
		log:          log,
	}
}

func (s *service) GetSeatmap(ctx context.Context, eventID uuid.UUID, subEventID *uuid.UUID, cartID string) (*SeatmapResponse, error) {
	event, err := s.eventSource.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &SeatmapResponse{
		EventID:               eventID.String(),
		SeatingChoice:         event.SeatingChoice && event.SeatingPlanID != nil,
		Seats:                 []SeatView{},
		Legend:                []LegendEntry{},
		PositionsNeedingSeats: []PositionView{},
	}
	if subEventID != nil {
		resp.SubEventID = subEventID.String()
	}
	if !resp.SeatingChoice {
		return resp, nil
	}

	rawLayout, err := s.planSource.RawLayout(ctx, *event.SeatingPlanID)
	if err != nil {
		return nil, err
	}
	layout := plans.ParseLayout([]byte(rawLayout))
	if json.Valid([]byte(rawLayout)) {
		resp.SeatingPlan = json.RawMessage(rawLayout)
	}
	productByCategory, err := s.mappings.Resolve(ctx, eventID, subEventID)
	if err != nil {
		return nil, err
	}
	productAvailable, err := s.products.AvailabilityMap(ctx, eventID, subEventID)
	if err != nil {
		return nil, err
	}
	holds, err := s.oracle.LoadEventHolds(ctx, eventID)
	if err != nil {
		return nil, err
	}
	eventSeats, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	input := ProjectionInput{
		Seats:             eventSeats,
		CategoryByGUID:    layout.CategoryByGUID(),
		ColorByCategory:   layout.ColorByCategory(),
		ProductByCategory: productByCategory,
		ProductAvailable:  productAvailable,
		Holds:             holds,
		CartID:            cartID,
	}
	resp.Seats = Project(s.cfg, input)
	resp.Legend = Legend(s.cfg, input)

	positions, err := s.cartSource.GetCart(ctx, cartID, eventID)
	if err != nil {
		return nil, err
	}
	guidBySeatID := make(map[uuid.UUID]string, len(eventSeats))
	for i := range eventSeats {
		guidBySeatID[eventSeats[i].ID] = eventSeats[i].SeatGUID
	}
	for i := range positions {
		if !positions[i].Admission {
			continue
		}
		view := PositionView{ID: positions[i].ID.String()}
		if positions[i].SeatID != nil {
			if guid, ok := guidBySeatID[*positions[i].SeatID]; ok {
				view.SeatGUID = &guid
			}
		}
		resp.PositionsNeedingSeats = append(resp.PositionsNeedingSeats, view)
	}

	return resp, nil
}

func (s *service) AssignSeats(ctx context.Context, eventID uuid.UUID, cartID string, req AssignmentRequest) (*AssignmentResult, error) {
	event, err := s.eventSource.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.SeatingPlanID == nil || !event.SeatingChoice {
		return nil, ErrSeatingDisabled
	}

	positions, err := s.cartSource.GetCart(ctx, cartID, eventID)
	if err != nil {
		return nil, err
	}
	// Only admission positions take seats.
	positionByID := make(map[string]*carts.CartPosition, len(positions))
	for i := range positions {
		if !positions[i].Admission {
			continue
		}
		positionByID[positions[i].ID.String()] = &positions[i]
	}

	// Validate ownership and reject duplicate seats up front.
	seenGUIDs := make(map[string]bool, len(req.SeatAssignments))
	for posID, guid := range req.SeatAssignments {
		if _, ok := positionByID[posID]; !ok {
			s.log.LogAssignmentRejected(ctx, eventID.String(), cartID, "position not in cart")
			return nil, ErrPositionNotInCart
		}
		if seenGUIDs[guid] {
			s.log.LogAssignmentRejected(ctx, eventID.String(), cartID, "duplicate seat")
			return nil, ErrDuplicateSeatAssignment
		}
		seenGUIDs[guid] = true
	}

	// Stable lock order across concurrent requests.
	sortedGUIDs := make([]string, 0, len(seenGUIDs))
	for guid := range seenGUIDs {
		sortedGUIDs = append(sortedGUIDs, guid)
	}
	sort.Strings(sortedGUIDs)

	assignedGUIDs := make([]string, 0, len(req.SeatAssignments))
	err = s.repo.Transaction(ctx, func(txRepo Repository) error {
		lockedSeats := make(map[string]*Seat, len(sortedGUIDs))
		for _, guid := range sortedGUIDs {
			seat, err := txRepo.LockByGUID(ctx, eventID, guid)
			if err != nil {
				return err
			}
			lockedSeats[guid] = seat
		}

		positionIDs := make([]uuid.UUID, 0, len(req.SeatAssignments))
		seatIDs := make([]uuid.UUID, 0, len(lockedSeats))
		for posID, guid := range req.SeatAssignments {
			position := positionByID[posID]
			seat := lockedSeats[guid]

			taken, err := s.oracle.SeatTaken(ctx, seat, &position.ID)
			if err != nil {
				return err
			}
			if taken {
				return &SeatUnavailableError{Name: seat.Name, GUID: guid}
			}
			positionIDs = append(positionIDs, position.ID)
			seatIDs = append(seatIDs, seat.ID)
		}

		// Expired holds are transparent to the oracle but their rows may
		// still link the seat; drop them so the unique seat index accepts
		// the new links.
		if err := txRepo.ReleaseStaleSeatLinks(ctx, seatIDs, s.oracle.Now()); err != nil {
			return err
		}
		if err := txRepo.ClearCartSeatLinks(ctx, positionIDs); err != nil {
			return err
		}
		for posID, guid := range req.SeatAssignments {
			if err := txRepo.SetCartSeatLink(ctx, positionByID[posID].ID, lockedSeats[guid].ID); err != nil {
				// The partial unique index on cart_positions.seat_id is the
				// storage backstop for the row locks; losing to it means the
				// seat was claimed first.
				if isUniqueViolation(err) {
					return &SeatUnavailableError{Name: lockedSeats[guid].Name, GUID: guid}
				}
				return err
			}
			assignedGUIDs = append(assignedGUIDs, guid)
		}
		return nil
	})
	if err != nil {
		var unavailable *SeatUnavailableError
		if errors.As(err, &unavailable) {
			s.log.LogAssignmentRejected(ctx, eventID.String(), cartID, unavailable.Error())
		}
		return nil, err
	}

	s.log.LogAssignmentCommitted(ctx, eventID.String(), cartID, len(assignedGUIDs))
	if s.audit != nil {
		s.audit.SeatAssignmentCommitted(ctx, eventID, cartID, assignedGUIDs)
	}
	return &AssignmentResult{
		Assigned: len(assignedGUIDs),
		Redirect: s.checkoutPath,
	}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	clone := *s
	clone.repo = NewRepository(tx)
	return &clone
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *service) GenerateForEvent(ctx context.Context, eventID uuid.UUID, layout plans.Layout) (int, error) {
	placed := layout.AllSeats()
	rows := make([]Seat, 0, len(placed))
	for _, p := range placed {
		name := p.Name
		if name == "" {
			name = p.GUID
		}
		rows = append(rows, Seat{
			EventID:  eventID,
			SeatGUID: p.GUID,
			Name:     name,
			X:        p.X,
			Y:        p.Y,
		})
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to create seats: %w", err)
	}
	return len(rows), nil
}

func (s *service) DeleteForEvent(ctx context.Context, eventID uuid.UUID) error {
	return s.repo.DeleteByEvent(ctx, eventID)
}

func (s *service) CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	return s.repo.CountByEvent(ctx, eventID)
}

func (s *service) SeatIDByGUID(ctx context.Context, eventID uuid.UUID, guid string) (uuid.UUID, bool, error) {
	seat, err := s.repo.GetByGUID(ctx, eventID, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return seat.ID, true, nil
}

func (s *service) SetBlocked(ctx context.Context, eventID uuid.UUID, guid string, blocked bool) error {
	err := s.repo.SetBlocked(ctx, eventID, guid, blocked)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SeatNotFoundError{GUID: guid}
		}
		return err
	}
	return nil
}
