package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
	"github.com/snapmeal/snapmeal-backend/internal/types"
	"github.com/snapmeal/snapmeal-backend/internal/utils"
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
	postgresName := utils.GetEnv("POSTGRES_NAME", "snapmeal", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.AppUser{},
		&types.Diary{},
		&types.Meal{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "diary"
		DROP CONSTRAINT IF EXISTS "fk_diary_user_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_diary_user_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "diary"
		ADD CONSTRAINT "fk_diary_user_id"
		FOREIGN KEY ("user_id")
		REFERENCES "app_user"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_diary_user_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "meal"
		DROP CONSTRAINT IF EXISTS "fk_meal_diary_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_meal_diary_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "meal"
		ADD CONSTRAINT "fk_meal_diary_id"
		FOREIGN KEY ("diary_id")
		REFERENCES "diary"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_meal_diary_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
