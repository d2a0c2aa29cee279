package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medsimlab/scenariohub-backend/internal/logger"
	"github.com/medsimlab/scenariohub-backend/internal/types"
	"github.com/medsimlab/scenariohub-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "scenariohub", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Scenario{},
		&types.CaseBrief{},
		&types.Step{},
		&types.Question{},
		&types.Resource{},
		&types.Category{},
		&types.ScenarioCategory{},
		&types.ScenarioChangeLog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for name, stmt := range map[string]string{
		"fk_case_brief_scenario_id": `
			ALTER TABLE "case_brief"
			ADD CONSTRAINT "fk_case_brief_scenario_id"
			FOREIGN KEY ("scenario_id")
			REFERENCES "scenario"("id")
			ON DELETE CASCADE`,
		"fk_step_scenario_id": `
			ALTER TABLE "step"
			ADD CONSTRAINT "fk_step_scenario_id"
			FOREIGN KEY ("scenario_id")
			REFERENCES "scenario"("id")
			ON DELETE CASCADE`,
		"fk_question_step_id": `
			ALTER TABLE "question"
			ADD CONSTRAINT "fk_question_step_id"
			FOREIGN KEY ("step_id")
			REFERENCES "step"("id")
			ON DELETE CASCADE`,
		"fk_resource_scenario_id": `
			ALTER TABLE "resource"
			ADD CONSTRAINT "fk_resource_scenario_id"
			FOREIGN KEY ("scenario_id")
			REFERENCES "scenario"("id")
			ON DELETE CASCADE`,
		"fk_scenario_category_scenario_id": `
			ALTER TABLE "scenario_category"
			ADD CONSTRAINT "fk_scenario_category_scenario_id"
			FOREIGN KEY ("scenario_id")
			REFERENCES "scenario"("id")
			ON DELETE CASCADE`,
		"fk_scenario_category_category_id": `
			ALTER TABLE "scenario_category"
			ADD CONSTRAINT "fk_scenario_category_category_id"
			FOREIGN KEY ("category_id")
			REFERENCES "category"("id")
			ON DELETE CASCADE`,
		"fk_scenario_change_log_scenario_id": `
			ALTER TABLE "scenario_change_log"
			ADD CONSTRAINT "fk_scenario_change_log_scenario_id"
			FOREIGN KEY ("scenario_id")
			REFERENCES "scenario"("id")
			ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
