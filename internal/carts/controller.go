package carts

import (
	"errors"
	"net/http"

	"seatmap/internal/shared/middleware"
	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetCart(c *gin.Context)
	AddPosition(c *gin.Context)
	RemovePosition(c *gin.Context)
	CheckoutReadiness(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetCart(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	positions, err := ctrl.service.GetCart(c.Request.Context(), middleware.CartIDFrom(c), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Cart retrieved successfully", positions, nil)
}

type addPositionRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Admission *bool     `json:"admission"`
}

func (ctrl *controller) AddPosition(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req addPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	admission := true
	if req.Admission != nil {
		admission = *req.Admission
	}

	position, err := ctrl.service.AddPosition(c.Request.Context(), middleware.CartIDFrom(c), eventID, req.ProductID, admission)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Position added to cart", position, nil)
}

func (ctrl *controller) RemovePosition(c *gin.Context) {
	positionID, err := uuid.Parse(c.Param("positionId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid position ID", nil, err.Error())
		return
	}

	if err := ctrl.service.RemovePosition(c.Request.Context(), middleware.CartIDFrom(c), positionID); err != nil {
		if errors.Is(err, ErrPositionNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Position removed from cart", nil, nil)
}

func (ctrl *controller) CheckoutReadiness(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	ready, err := ctrl.service.ReadyForCheckout(c.Request.Context(), middleware.CartIDFrom(c), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checkout readiness evaluated", gin.H{"ready": ready}, nil)
}
