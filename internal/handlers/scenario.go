package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type ScenarioHandler struct {
	log             *logger.Logger
	scenarioService services.ScenarioService
	changeLog       services.ChangeLogService
}

func NewScenarioHandler(log *logger.Logger, scenarioService services.ScenarioService, changeLog services.ChangeLogService) *ScenarioHandler {
	return &ScenarioHandler{
		log:             log.With("handler", "ScenarioHandler"),
		scenarioService: scenarioService,
		changeLog:       changeLog,
	}
}

// GET /api/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios, err := h.scenarioService.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListScenarios failed", "error", err)
		RespondServiceError(c, "list_scenarios_failed", err)
		return
	}
	RespondOK(c, gin.H{"scenarios": scenarios})
}

// GET /api/scenarios/:id
// Full editing bundle: scenario, brief, steps, questions, resources, links.
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	bundle, err := h.scenarioService.GetBundle(c.Request.Context(), scenarioID)
	if err != nil {
		h.log.Error("GetScenario failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "load_scenario_failed", err)
		return
	}
	RespondOK(c, bundle)
}

// PUT /api/scenarios/:id
// Save the metadata header. Carries the updated_at the editor loaded; a
// stale one is rejected with 409.
func (h *ScenarioHandler) UpdateScenario(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var m canonical.Metadata
	if err := c.ShouldBindJSON(&m); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	scenario, err := h.scenarioService.UpdateMetadata(c.Request.Context(), scenarioID, &m)
	if err != nil {
		h.log.Error("UpdateScenario failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "update_scenario_failed", err)
		return
	}
	RespondOK(c, gin.H{"scenario": scenario})
}

// PUT /api/scenarios/:id/categories
// { category_ids: [...] } replaces the link set.
func (h *ScenarioHandler) SetCategories(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var body struct {
		CategoryIDs []uuid.UUID `json:"category_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	ids, err := h.scenarioService.SetCategories(c.Request.Context(), scenarioID, body.CategoryIDs)
	if err != nil {
		h.log.Error("SetCategories failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "set_categories_failed", err)
		return
	}
	RespondOK(c, gin.H{"category_ids": ids})
}

// GET /api/scenarios/:id/changes?limit=50
func (h *ScenarioHandler) GetChanges(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			limit = parsed
		}
	}
	changes, err := h.changeLog.Recent(c.Request.Context(), scenarioID, limit)
	if err != nil {
		h.log.Error("GetChanges failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "load_changes_failed", err)
		return
	}
	RespondOK(c, gin.H{"changes": changes})
}
