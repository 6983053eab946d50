package events

import (
	"errors"
	"net/http"

	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	ListEvents(c *gin.Context)
	SetSeatingPlan(c *gin.Context)
	CreateSubEvent(c *gin.Context)
	ListSubEvents(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) ListEvents(c *gin.Context) {
	events, err := ctrl.service.ListEvents(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", events, nil)
}

func (ctrl *controller) SetSeatingPlan(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req SetSeatingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.SetSeatingPlan(c.Request.Context(), eventID, req)
	if err != nil {
		respondEventError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seating plan updated successfully", event, nil)
}

type createSubEventRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	StartsAt string `json:"starts_at"`
}

func (ctrl *controller) CreateSubEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req createSubEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	subEvent, err := ctrl.service.CreateSubEvent(c.Request.Context(), eventID, req.Name, req.StartsAt)
	if err != nil {
		respondEventError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Subevent created successfully", subEvent, nil)
}

func (ctrl *controller) ListSubEvents(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	subEvents, err := ctrl.service.ListSubEvents(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Subevents retrieved successfully", subEvents, nil)
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrSeatsInUse):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
