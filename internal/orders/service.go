package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seatmap/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// csvHeader is the required first line of a bulk seat upload.
const csvHeader = "seat_guid,orderposition_secret"

var ErrInvalidCSVHeader = errors.New("the CSV input format is invalid, check that the header line is present")

// UnmatchedRowError rejects the whole upload; no partial assignment is
// written.
type UnmatchedRowError struct {
	Line   int
	Reason string
}

func (e *UnmatchedRowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// SeatDirectory resolves seat GUIDs within an event. Implemented by the
// seats package.
type SeatDirectory interface {
	SeatIDByGUID(ctx context.Context, eventID uuid.UUID, guid string) (uuid.UUID, bool, error)
}

// AuditSink receives applied bulk uploads; satisfied by the audit publisher.
type AuditSink interface {
	BulkAssignmentApplied(ctx context.Context, eventID uuid.UUID, assigned int)
}

type Service interface {
	// BulkAssignSeats replaces the event's order seat assignments from CSV
	// data. A body with no data rows clears all assignments. Any row that
	// fails to match rejects the whole upload.
	BulkAssignSeats(ctx context.Context, eventID uuid.UUID, data string) (*BulkAssignResult, error)
	// ExportSeatAssignments dumps the current assignments in the same CSV
	// format the upload accepts.
	ExportSeatAssignments(ctx context.Context, eventID uuid.UUID) (string, error)
}

type BulkAssignResult struct {
	Assigned int  `json:"assigned"`
	Cleared  bool `json:"cleared"`
}

type service struct {
	repo  Repository
	seats SeatDirectory
	audit AuditSink
	log   *logger.Logger
}

func NewService(repo Repository, seats SeatDirectory, auditSink AuditSink, log *logger.Logger) Service {
	return &service{repo: repo, seats: seats, audit: auditSink, log: log}
}

func (s *service) BulkAssignSeats(ctx context.Context, eventID uuid.UUID, data string) (*BulkAssignResult, error) {
	rows, err := ParseAssignmentCSV(data)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		if err := s.repo.ClearSeatLinks(ctx, eventID); err != nil {
			return nil, fmt.Errorf("failed to clear seat assignments: %w", err)
		}
		return &BulkAssignResult{Cleared: true}, nil
	}

	// Resolve everything before writing anything.
	links := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, row := range rows {
		position, err := s.repo.FindPositionBySecret(ctx, row.Secret)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &UnmatchedRowError{Line: row.Line, Reason: fmt.Sprintf("unable to match order position (%s)", row.Secret)}
			}
			return nil, fmt.Errorf("failed to resolve order position: %w", err)
		}
		seatID, found, err := s.seats.SeatIDByGUID(ctx, eventID, row.SeatGUID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve seat: %w", err)
		}
		if !found {
			return nil, &UnmatchedRowError{Line: row.Line, Reason: fmt.Sprintf("unable to match seat (%s)", row.SeatGUID)}
		}
		links[position.ID] = seatID
	}

	if err := s.repo.ReplaceSeatLinks(ctx, eventID, links); err != nil {
		return nil, fmt.Errorf("failed to write seat assignments: %w", err)
	}

	s.log.InfoWithContext(ctx, "bulk seat assignment applied", map[string]interface{}{
		"event_id": eventID.String(),
		"assigned": len(links),
	})
	if s.audit != nil {
		s.audit.BulkAssignmentApplied(ctx, eventID, len(links))
	}
	return &BulkAssignResult{Assigned: len(links)}, nil
}

func (s *service) ExportSeatAssignments(ctx context.Context, eventID uuid.UUID) (string, error) {
	rows, err := s.repo.ListSeatedPositions(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("failed to list seat assignments: %w", err)
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvHeader)
	for _, row := range rows {
		lines = append(lines, row.SeatGUID+","+row.Secret)
	}
	return strings.Join(lines, "\n"), nil
}

// AssignmentRow is one parsed data row of a bulk upload.
type AssignmentRow struct {
	Line     int
	SeatGUID string
	Secret   string
}

// ParseAssignmentCSV parses the upload body. A nil row slice with a nil
// error means the body carried no data rows and all assignments should be
// cleared.
func ParseAssignmentCSV(data string) ([]AssignmentRow, error) {
	lines := strings.Split(data, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	// Drop trailing blank lines so a final newline does not count as a row.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) <= 1 {
		return nil, nil
	}
	if !strings.HasPrefix(lines[0], csvHeader) {
		return nil, ErrInvalidCSVHeader
	}

	rows := make([]AssignmentRow, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, &UnmatchedRowError{Line: i + 2, Reason: "expected two comma-separated fields"}
		}
		rows = append(rows, AssignmentRow{
			Line:     i + 2,
			SeatGUID: strings.TrimSpace(parts[0]),
			Secret:   strings.TrimSpace(parts[1]),
		})
	}
	return rows, nil
}
