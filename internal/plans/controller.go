package plans

import (
	"errors"
	"net/http"

	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	CreatePlan(c *gin.Context)
	GetPlan(c *gin.Context)
	ListPlans(c *gin.Context)
	UpdatePlan(c *gin.Context)
	DeletePlan(c *gin.Context)
	CopyPlan(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
	}
}

func (ctrl *controller) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	organizer := c.Query("organizer")
	if organizer == "" {
		organizer = "default"
	}

	plan, err := ctrl.service.CreatePlan(c.Request.Context(), organizer, req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Seating plan created successfully", plan, nil)
}

func (ctrl *controller) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid plan ID", nil, err.Error())
		return
	}

	plan, err := ctrl.service.GetPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seating plan retrieved successfully", plan, nil)
}

func (ctrl *controller) ListPlans(c *gin.Context) {
	plans, err := ctrl.service.ListPlans(c.Request.Context(), c.Query("organizer"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seating plans retrieved successfully", plans, nil)
}

func (ctrl *controller) UpdatePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid plan ID", nil, err.Error())
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	plan, err := ctrl.service.UpdatePlan(c.Request.Context(), planID, req)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seating plan updated successfully", plan, nil)
}

func (ctrl *controller) DeletePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid plan ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeletePlan(c.Request.Context(), planID); err != nil {
		respondPlanError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seating plan deleted successfully", nil, nil)
}

func (ctrl *controller) CopyPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid plan ID", nil, err.Error())
		return
	}

	plan, err := ctrl.service.CopyPlan(c.Request.Context(), planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Seating plan copied successfully", plan, nil)
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrPlanInUse):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
