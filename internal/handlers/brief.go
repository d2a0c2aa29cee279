package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type BriefHandler struct {
	log          *logger.Logger
	briefService services.BriefService
}

func NewBriefHandler(log *logger.Logger, briefService services.BriefService) *BriefHandler {
	return &BriefHandler{
		log:          log.With("handler", "BriefHandler"),
		briefService: briefService,
	}
}

// GET /api/scenarios/:id/brief
// The canonical brief, hydrated from whatever shape the row was stored in.
func (h *BriefHandler) GetBrief(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	brief, err := h.briefService.Get(c.Request.Context(), scenarioID)
	if err != nil {
		h.log.Error("GetBrief failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "load_brief_failed", err)
		return
	}
	RespondOK(c, gin.H{"brief": brief})
}

// PUT /api/scenarios/:id/brief
func (h *BriefHandler) SaveBrief(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var brief canonical.Brief
	if err := c.ShouldBindJSON(&brief); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	saved, err := h.briefService.Save(c.Request.Context(), scenarioID, &brief)
	if err != nil {
		h.log.Error("SaveBrief failed", "error", err, "scenario_id", scenarioID)
		RespondServiceError(c, "save_brief_failed", err)
		return
	}
	RespondOK(c, gin.H{"brief": saved})
}
