package seats

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequest covers assignment bodies that do not decode.
	ErrMalformedRequest = errors.New("malformed assignment request")
	// ErrPositionNotInCart is returned when an assignment references a
	// position the requesting cart does not own.
	ErrPositionNotInCart = errors.New("cart position does not belong to this cart")
	// ErrDuplicateSeatAssignment is returned when one request assigns the
	// same seat to multiple positions.
	ErrDuplicateSeatAssignment = errors.New("the same seat was assigned to multiple tickets")
	// ErrSeatingDisabled is returned when the event has no plan or seat
	// choice is switched off.
	ErrSeatingDisabled = errors.New("seat selection is not enabled for this event")
)

// SeatNotFoundError names the GUID that did not resolve within the event.
type SeatNotFoundError struct {
	GUID string
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("seat %s not found", e.GUID)
}

// SeatUnavailableError names the seat by its human-readable name, the way
// the picker displays the failure.
type SeatUnavailableError struct {
	Name string
	GUID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s (%s) is no longer available", e.Name, e.GUID)
}
