package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type StepHandler struct {
	log         *logger.Logger
	stepService services.StepService
}

func NewStepHandler(log *logger.Logger, stepService services.StepService) *StepHandler {
	return &StepHandler{
		log:         log.With("handler", "StepHandler"),
		stepService: stepService,
	}
}

// GET /api/scenarios/:id/steps
func (h *StepHandler) GetSteps(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	steps, err := h.stepService.GetByScenarioID(c.Request.Context(), scenarioID)
	if err != nil {
		h.log.Error("GetSteps failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "load_steps_failed", err)
		return
	}
	RespondOK(c, gin.H{"steps": steps})
}

// PUT /api/scenarios/:id/steps
// { steps: [...] } — the full working set; omissions are deletions.
func (h *StepHandler) SaveSteps(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var body struct {
		Steps []canonical.Step `json:"steps"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	steps, err := h.stepService.SaveAll(c.Request.Context(), scenarioID, body.Steps)
	if err != nil {
		h.log.Error("SaveSteps failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "save_steps_failed", err)
		return
	}
	RespondOK(c, gin.H{"steps": steps})
}
