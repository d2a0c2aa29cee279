package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type ResourceHandler struct {
	log             *logger.Logger
	resourceService services.ResourceService
}

func NewResourceHandler(log *logger.Logger, resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		log:             log.With("handler", "ResourceHandler"),
		resourceService: resourceService,
	}
}

// GET /api/scenarios/:id/resources
func (h *ResourceHandler) GetResources(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	resources, err := h.resourceService.GetByScenarioID(c.Request.Context(), scenarioID)
	if err != nil {
		h.log.Error("GetResources failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "load_resources_failed", err)
		return
	}
	RespondOK(c, gin.H{"resources": resources})
}

// PUT /api/scenarios/:id/resources
// { resources: [...] } — the full working set; omissions are deletions.
func (h *ResourceHandler) SaveResources(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var body struct {
		Resources []canonical.Resource `json:"resources"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	resources, err := h.resourceService.SaveAll(c.Request.Context(), scenarioID, body.Resources)
	if err != nil {
		h.log.Error("SaveResources failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "save_resources_failed", err)
		return
	}
	RespondOK(c, gin.H{"resources": resources})
}
