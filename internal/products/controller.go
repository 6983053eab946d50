package products

import (
	"errors"
	"net/http"

	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller interface {
	ListProducts(c *gin.Context)
	CreateProduct(c *gin.Context)
	SetOverride(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListProducts(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	products, err := ctrl.service.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Products retrieved successfully", products, nil)
}

func (ctrl *controller) CreateProduct(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	product, err := ctrl.service.CreateProduct(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Product created successfully", product, nil)
}

type setOverrideRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

func (ctrl *controller) SetOverride(c *gin.Context) {
	subEventID, err := uuid.Parse(c.Param("subeventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid subevent ID", nil, err.Error())
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.SetOverride(c.Request.Context(), subEventID, productID, *req.Disabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Product override saved successfully", nil, nil)
}
