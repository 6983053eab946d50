package mappings

import (
	"net/http"

	"seatmap/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	ListMappings(c *gin.Context)
	ReplaceMappings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListMappings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	mappings, err := ctrl.service.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Category mappings retrieved successfully", mappings, nil)
}

func (ctrl *controller) ReplaceMappings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req ReplaceMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	mappings, err := ctrl.service.ReplaceForEvent(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Category mappings saved successfully", mappings, nil)
}
