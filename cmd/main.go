package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/medsimlab/scenariohub-backend/internal/cache"
	"github.com/medsimlab/scenariohub-backend/internal/db"
	"github.com/medsimlab/scenariohub-backend/internal/handlers"
	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/middleware"
	"github.com/medsimlab/scenariohub-backend/internal/observability"
	"github.com/medsimlab/scenariohub-backend/internal/repos"
	"github.com/medsimlab/scenariohub-backend/internal/roles"
	"github.com/medsimlab/scenariohub-backend/internal/server"
	"github.com/medsimlab/scenariohub-backend/internal/services"
	"github.com/medsimlab/scenariohub-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "scenariohub-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	changeLogAttemptTimeout := utils.GetEnvAsDuration("CHANGELOG_ATTEMPT_TIMEOUT", 5*time.Second, log)
	changeLogWaitBudget := utils.GetEnvAsDuration("CHANGELOG_WAIT_BUDGET", 800*time.Millisecond, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Cache
	appCache, err := cache.New(log)
	if err != nil {
		log.Warn("Redis cache init failed, continuing without cache", "error", err)
		appCache = nil
	}
	defer appCache.Close()

	// Roles
	knownRoles := roles.KnownCodes()

	// Repos
	log.Info("Setting up Repos from main...")
	scenarioRepo := repos.NewScenarioRepo(thePG, log)
	caseBriefRepo := repos.NewCaseBriefRepo(thePG, log)
	stepRepo := repos.NewStepRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	resourceRepo := repos.NewResourceRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	changeLogRepo := repos.NewChangeLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	changeLogService := services.NewChangeLogService(thePG, log, changeLogRepo, changeLogAttemptTimeout, changeLogWaitBudget)
	scenarioService := services.NewScenarioService(thePG, log, scenarioRepo, caseBriefRepo, stepRepo, questionRepo, resourceRepo, categoryRepo, changeLogService, appCache, knownRoles)
	briefService := services.NewBriefService(thePG, log, caseBriefRepo, changeLogService, appCache, knownRoles)
	stepService := services.NewStepService(thePG, log, stepRepo, questionRepo, changeLogService, appCache)
	questionService := services.NewQuestionService(thePG, log, questionRepo, stepRepo, changeLogService, appCache)
	resourceService := services.NewResourceService(thePG, log, resourceRepo, changeLogService, appCache)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	scenarioHandler := handlers.NewScenarioHandler(log, scenarioService, changeLogService)
	briefHandler := handlers.NewBriefHandler(log, briefService)
	stepHandler := handlers.NewStepHandler(log, stepService)
	questionHandler := handlers.NewQuestionHandler(log, questionService)
	resourceHandler := handlers.NewResourceHandler(log, resourceService)
	categoryHandler := handlers.NewCategoryHandler(log, categoryService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:    allowOrigins,
		AuthMiddleware:  authMiddleware,
		ScenarioHandler: scenarioHandler,
		BriefHandler:    briefHandler,
		StepHandler:     stepHandler,
		QuestionHandler: questionHandler,
		ResourceHandler: resourceHandler,
		CategoryHandler: categoryHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
