package orders

import (
	"errors"
	"net/http"

	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	BulkAssignSeats(c *gin.Context)
	ExportSeatAssignments(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

type bulkAssignRequest struct {
	Data string `json:"data"`
}

func (ctrl *controller) BulkAssignSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.BulkAssignSeats(c.Request.Context(), eventID, req.Data)
	if err != nil {
		var unmatched *UnmatchedRowError
		switch {
		case errors.Is(err, ErrInvalidCSVHeader), errors.As(err, &unmatched):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	msg := "Seat assignments saved successfully"
	if result.Cleared {
		msg = "Removed all seat assignments"
	}
	response.RespondJSON(c, "success", http.StatusOK, msg, result, nil)
}

func (ctrl *controller) ExportSeatAssignments(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	csv, err := ctrl.service.ExportSeatAssignments(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat assignments exported successfully", gin.H{"data": csv}, nil)
}
