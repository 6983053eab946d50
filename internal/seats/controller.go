package seats

import (
	"errors"
	"net/http"

	"seatmap/internal/events"
	"seatmap/internal/shared/middleware"
	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetSeatmap(c *gin.Context)
	AssignSeats(c *gin.Context)
	SetBlocked(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatmap(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var subEventID *uuid.UUID
	if raw := c.Query("subevent"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid subevent ID", nil, err.Error())
			return
		}
		subEventID = &parsed
	}

	seatmap, err := ctrl.service.GetSeatmap(c.Request.Context(), eventID, subEventID, middleware.CartIDFrom(c))
	if err != nil {
		respondSeatError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seatmap retrieved successfully", seatmap, nil)
}

func (ctrl *controller) AssignSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, ErrMalformedRequest.Error(), nil, err.Error())
		return
	}

	result, err := ctrl.service.AssignSeats(c.Request.Context(), eventID, middleware.CartIDFrom(c), req)
	if err != nil {
		respondSeatError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats assigned successfully", result, nil)
}

type setBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

func (ctrl *controller) SetBlocked(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}
	guid := c.Param("seatGuid")

	var req setBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.SetBlocked(c.Request.Context(), eventID, guid, *req.Blocked); err != nil {
		respondSeatError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat updated successfully", nil, nil)
}

func respondSeatError(c *gin.Context, err error) {
	var notFound *SeatNotFoundError
	var unavailable *SeatUnavailableError
	switch {
	case errors.As(err, &notFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, events.ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.As(err, &unavailable),
		errors.Is(err, ErrPositionNotInCart),
		errors.Is(err, ErrDuplicateSeatAssignment),
		errors.Is(err, ErrSeatingDisabled),
		errors.Is(err, ErrMalformedRequest):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "An unexpected error occurred", nil, err.Error())
	}
}
