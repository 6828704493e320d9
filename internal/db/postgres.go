package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
	"github.com/betwise/betwise-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "betwise", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Team{},
		&types.Match{},
		&types.MatchOdds{},
		&types.User{},
		&types.UserToken{},
		&types.UserFavorite{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		ddl  string
	}{
		// A team cannot be deleted while a match still references it.
		{
			name: "fk_match_home_team_id",
			ddl: `ALTER TABLE "match"
						ADD CONSTRAINT "fk_match_home_team_id"
						FOREIGN KEY ("home_team_id") REFERENCES "team"("id")
						ON DELETE RESTRICT`,
		},
		{
			name: "fk_match_away_team_id",
			ddl: `ALTER TABLE "match"
						ADD CONSTRAINT "fk_match_away_team_id"
						FOREIGN KEY ("away_team_id") REFERENCES "team"("id")
						ON DELETE RESTRICT`,
		},
		// Odds never outlive their match.
		{
			name: "fk_match_odds_match_id",
			ddl: `ALTER TABLE "match_odds"
						ADD CONSTRAINT "fk_match_odds_match_id"
						FOREIGN KEY ("match_id") REFERENCES "match"("id")
						ON DELETE CASCADE`,
		},
		{
			name: "fk_user_token_user_id",
			ddl: `ALTER TABLE "user_token"
						ADD CONSTRAINT "fk_user_token_user_id"
						FOREIGN KEY ("user_id") REFERENCES "user"("id")
						ON DELETE CASCADE`,
		},
		{
			name: "fk_user_favorite_user_id",
			ddl: `ALTER TABLE "user_favorite"
						ADD CONSTRAINT "fk_user_favorite_user_id"
						FOREIGN KEY ("user_id") REFERENCES "user"("id")
						ON DELETE CASCADE`,
		},
		{
			name: "fk_user_favorite_match_id",
			ddl: `ALTER TABLE "user_favorite"
						ADD CONSTRAINT "fk_user_favorite_match_id"
						FOREIGN KEY ("match_id") REFERENCES "match"("id")
						ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		if err := s.db.Exec(fmt.Sprintf(`ALTER TABLE ONLY %s DROP CONSTRAINT IF EXISTS %q`, tableOf(c.name), c.name)).Error; err != nil {
			return fmt.Errorf("failed to reset %s: %w", c.name, err)
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func tableOf(constraint string) string {
	switch constraint {
	case "fk_match_home_team_id", "fk_match_away_team_id":
		return `"match"`
	case "fk_match_odds_match_id":
		return `"match_odds"`
	case "fk_user_token_user_id":
		return `"user_token"`
	default:
		return `"user_favorite"`
	}
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
