package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatmap/internal/plans"
	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
	// ErrSeatsInUse is returned when a plan change would orphan seats still
	// referenced by order positions.
	ErrSeatsInUse = errors.New("seats of this event are referenced by orders")
)

// SeatWriter is the slice of the seats package the plan lifecycle needs.
type SeatWriter interface {
	GenerateForEvent(ctx context.Context, eventID uuid.UUID, layout plans.Layout) (int, error)
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error
	CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// MappingWriter removes an event's category mappings when its plan goes away.
type MappingWriter interface {
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error
}

// SeatWriterTx and MappingWriterTx bind collaborator writers to one
// transaction so a plan change commits or rolls back as a unit.
type SeatWriterTx func(tx *gorm.DB) SeatWriter

type MappingWriterTx func(tx *gorm.DB) MappingWriter

// OrderGuard checks whether any order position of the event still points at
// a seat.
type OrderGuard interface {
	CountSeatedPositions(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// AuditSink receives plan lifecycle records; satisfied by the audit
// publisher.
type AuditSink interface {
	SeatingPlanChanged(ctx context.Context, eventID uuid.UUID, planID *uuid.UUID, seatCount int)
}

type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]EventResponse, error)

	// SetSeatingPlan attaches or detaches a seating plan. Attaching
	// regenerates the event's seats from the plan layout; detaching removes
	// seats and mappings. Both are refused while orders reference seats.
	SetSeatingPlan(ctx context.Context, eventID uuid.UUID, req SetSeatingPlanRequest) (*EventResponse, error)

	CreateSubEvent(ctx context.Context, eventID uuid.UUID, name string, startsAt string) (*SubEvent, error)
	ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]SubEvent, error)
}

type service struct {
	repo       Repository
	plans      plans.Service
	seats      SeatWriter
	seatsTx    SeatWriterTx
	mappingsTx MappingWriterTx
	orders     OrderGuard
	audit      AuditSink
	log        *logger.Logger
}

func NewService(repo Repository, planService plans.Service, seats SeatWriter, seatsTx SeatWriterTx, mappingsTx MappingWriterTx, orders OrderGuard, auditSink AuditSink, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		plans:      planService,
		seats:      seats,
		seatsTx:    seatsTx,
		mappingsTx: mappingsTx,
		orders:     orders,
		audit:      auditSink,
		log:        log,
	}
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Slug:          req.Slug,
		Name:          req.Name,
		SeatingChoice: true,
	}
	if req.SeatingChoice != nil {
		event.SeatingChoice = *req.SeatingChoice
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return s.toResponse(ctx, event), nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

func (s *service) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	event, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

func (s *service) ListEvents(ctx context.Context) ([]EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *s.toResponse(ctx, &events[i]))
	}
	return responses, nil
}

func (s *service) SetSeatingPlan(ctx context.Context, eventID uuid.UUID, req SetSeatingPlanRequest) (*EventResponse, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	planChanged := !uuidPtrEqual(event.SeatingPlanID, req.SeatingPlanID)
	seatCount := 0
	if planChanged {
		seated, err := s.orders.CountSeatedPositions(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to check seat usage: %w", err)
		}
		if seated > 0 {
			return nil, ErrSeatsInUse
		}

		var layout plans.Layout
		if req.SeatingPlanID != nil {
			layout, err = s.plans.GetLayout(ctx, *req.SeatingPlanID)
			if err != nil {
				return nil, err
			}
		}
		event.SeatingPlanID = req.SeatingPlanID
		if req.SeatingChoice != nil {
			event.SeatingChoice = *req.SeatingChoice
		}

		// Seat rewrite, mapping cleanup and the event row commit as one
		// unit; a failed regeneration must not leave the event without
		// seats.
		err = s.repo.Transaction(ctx, func(tx *gorm.DB, txRepo Repository) error {
			seatWriter := s.seatsTx(tx)
			if err := seatWriter.DeleteForEvent(ctx, eventID); err != nil {
				return fmt.Errorf("failed to remove previous seats: %w", err)
			}
			if req.SeatingPlanID != nil {
				count, err := seatWriter.GenerateForEvent(ctx, eventID, layout)
				if err != nil {
					return fmt.Errorf("failed to generate seats: %w", err)
				}
				seatCount = count
			} else {
				if err := s.mappingsTx(tx).DeleteForEvent(ctx, eventID); err != nil {
					return fmt.Errorf("failed to remove category mappings: %w", err)
				}
			}
			if err := txRepo.Update(ctx, event); err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if req.SeatingPlanID != nil {
			s.log.LogSeatsGenerated(ctx, eventID.String(), req.SeatingPlanID.String(), seatCount)
		}
	} else {
		if req.SeatingChoice != nil {
			event.SeatingChoice = *req.SeatingChoice
		}
		if err := s.repo.Update(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	}

	if planChanged && s.audit != nil {
		s.audit.SeatingPlanChanged(ctx, eventID, event.SeatingPlanID, seatCount)
	}
	return s.toResponse(ctx, event), nil
}

func (s *service) CreateSubEvent(ctx context.Context, eventID uuid.UUID, name string, startsAt string) (*SubEvent, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	subEvent := &SubEvent{
		EventID: event.ID,
		Name:    name,
	}
	if startsAt != "" {
		parsed, err := parseTime(startsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid starts_at: %w", err)
		}
		subEvent.StartsAt = parsed
	}
	if err := s.repo.CreateSubEvent(ctx, subEvent); err != nil {
		return nil, fmt.Errorf("failed to create subevent: %w", err)
	}
	return subEvent, nil
}

func (s *service) ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]SubEvent, error) {
	return s.repo.ListSubEvents(ctx, eventID)
}

func (s *service) toResponse(ctx context.Context, event *Event) *EventResponse {
	count, err := s.seats.CountForEvent(ctx, event.ID)
	if err != nil {
		count = 0
	}
	return &EventResponse{
		ID:            event.ID.String(),
		Slug:          event.Slug,
		Name:          event.Name,
		SeatingPlanID: event.SeatingPlanID,
		SeatingChoice: event.SeatingChoice,
		SeatCount:     count,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
