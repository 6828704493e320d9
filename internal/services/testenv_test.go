package services

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// newTestDB opens an isolated in-memory sqlite database. The pool is pinned
// to one connection so every query sees the same in-memory schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&types.Team{},
		&types.Match{},
		&types.MatchOdds{},
		&types.User{},
		&types.UserToken{},
		&types.UserFavorite{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type catalogEnv struct {
	db          *gorm.DB
	teamRepo    repos.TeamRepo
	matchRepo   repos.MatchRepo
	oddsRepo    repos.MatchOddsRepo
	oddsService OddsService
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	db := newTestDB(t)
	log := testLogger()
	teamRepo := repos.NewTeamRepo(db, log)
	matchRepo := repos.NewMatchRepo(db, log)
	oddsRepo := repos.NewMatchOddsRepo(db, log)
	oddsService := NewOddsService(db, log, teamRepo, matchRepo, oddsRepo, nil, DefaultSeedCatalog())

	return &catalogEnv{
		db:          db,
		teamRepo:    teamRepo,
		matchRepo:   matchRepo,
		oddsRepo:    oddsRepo,
		oddsService: oddsService,
	}
}
