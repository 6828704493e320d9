package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

type MatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, matches []*types.Match) ([]*types.Match, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, matchIDs []uuid.UUID) ([]*types.Match, error)
	ListJoined(ctx context.Context, tx *gorm.DB) ([]*types.Match, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	repoLog := baseLog.With("repo", "MatchRepo")
	return &matchRepo{db: db, log: repoLog}
}

func (mr *matchRepo) Create(ctx context.Context, tx *gorm.DB, matches []*types.Match) ([]*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(matches) == 0 {
		return []*types.Match{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&matches).Error; err != nil {
		return nil, err
	}

	return matches, nil
}

func (mr *matchRepo) GetByIDs(ctx context.Context, tx *gorm.DB, matchIDs []uuid.UUID) ([]*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Match
	if len(matchIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", matchIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListJoined returns every match with both teams and the odds row attached,
// ordered by insertion so a snapshot is deterministic.
func (mr *matchRepo) ListJoined(ctx context.Context, tx *gorm.DB) ([]*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Match
	if err := transaction.WithContext(ctx).
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Odds").
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
