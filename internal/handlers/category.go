package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/services"
)

type CategoryHandler struct {
	log             *logger.Logger
	categoryService services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		log:             log.With("handler", "CategoryHandler"),
		categoryService: categoryService,
	}
}

// GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListCategories failed", "error", err)
		RespondServiceError(c, "load_categories_failed", err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}
