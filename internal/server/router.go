package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/medsimlab/scenariohub-backend/internal/handlers"
	"github.com/medsimlab/scenariohub-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins    []string
	AuthMiddleware  *middleware.AuthMiddleware
	ScenarioHandler *handlers.ScenarioHandler
	BriefHandler    *handlers.BriefHandler
	StepHandler     *handlers.StepHandler
	QuestionHandler *handlers.QuestionHandler
	ResourceHandler *handlers.ResourceHandler
	CategoryHandler *handlers.CategoryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("scenariohub-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     normalizeOrigins(origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Categories
		api.GET("/categories", cfg.CategoryHandler.ListCategories)
		// Scenario
		api.GET("/scenarios", cfg.ScenarioHandler.ListScenarios)
		api.GET("/scenarios/:id", cfg.ScenarioHandler.GetScenario)
		api.PUT("/scenarios/:id", cfg.ScenarioHandler.UpdateScenario)
		api.PUT("/scenarios/:id/categories", cfg.ScenarioHandler.SetCategories)
		api.GET("/scenarios/:id/changes", cfg.ScenarioHandler.GetChanges)
		// Brief
		api.GET("/scenarios/:id/brief", cfg.BriefHandler.GetBrief)
		api.PUT("/scenarios/:id/brief", cfg.BriefHandler.SaveBrief)
		// Steps
		api.GET("/scenarios/:id/steps", cfg.StepHandler.GetSteps)
		api.PUT("/scenarios/:id/steps", cfg.StepHandler.SaveSteps)
		// Questions
		api.POST("/steps/:id/questions", cfg.QuestionHandler.CreateQuestion)
		api.PUT("/questions/:id", cfg.QuestionHandler.UpdateQuestion)
		api.DELETE("/questions/:id", cfg.QuestionHandler.DeleteQuestion)
		// Resources
		api.GET("/scenarios/:id/resources", cfg.ResourceHandler.GetResources)
		api.PUT("/scenarios/:id/resources", cfg.ResourceHandler.SaveResources)
	}

	return router
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		out = append(out, strings.TrimRight(origin, "/"))
	}
	return out
}
