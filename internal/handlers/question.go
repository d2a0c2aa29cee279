package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medsimlab/scenariohub-backend/internal/canonical"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type QuestionHandler struct {
	log             *logger.Logger
	questionService services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:             log.With("handler", "QuestionHandler"),
		questionService: questionService,
	}
}

// POST /api/steps/:id/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	stepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_step_id", err)
		return
	}
	var q canonical.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	created, err := h.questionService.Create(c.Request.Context(), stepID, &q)
	if err != nil {
		h.log.Error("CreateQuestion failed", "error", err, "step_id", stepID)
		RespondServiceError(c, "create_question_failed", err)
		return
	}
	RespondOK(c, gin.H{"question": created})
}

// PUT /api/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_question_id", err)
		return
	}
	var q canonical.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	updated, err := h.questionService.Update(c.Request.Context(), questionID, &q)
	if err != nil {
		h.log.Error("UpdateQuestion failed", "error", err, "question_id", questionID)
		RespondServiceError(c, "update_question_failed", err)
		return
	}
	RespondOK(c, gin.H{"question": updated})
}

// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_question_id", err)
		return
	}
	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		h.log.Error("DeleteQuestion failed", "error", err, "question_id", questionID)
		RespondServiceError(c, "delete_question_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
