package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

type MatchOddsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, odds []*types.MatchOdds) ([]*types.MatchOdds, error)
	GetByMatchID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.MatchOdds, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MatchOdds, error)
	ReplaceTriple(ctx context.Context, tx *gorm.DB, oddsID uuid.UUID, p1, x, p2 float64, lastUpdated time.Time) error
}

type matchOddsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchOddsRepo(db *gorm.DB, baseLog *logger.Logger) MatchOddsRepo {
	repoLog := baseLog.With("repo", "MatchOddsRepo")
	return &matchOddsRepo{db: db, log: repoLog}
}

func (or *matchOddsRepo) Create(ctx context.Context, tx *gorm.DB, odds []*types.MatchOdds) ([]*types.MatchOdds, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if len(odds) == 0 {
		return []*types.MatchOdds{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&odds).Error; err != nil {
		return nil, err
	}

	return odds, nil
}

// GetByMatchID returns (nil, nil) when no odds row exists for the match, so
// callers can treat an unknown match as a no-op rather than a failure.
func (or *matchOddsRepo) GetByMatchID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.MatchOdds, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var result types.MatchOdds
	err := transaction.WithContext(ctx).
		Where("match_id = ?", matchID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (or *matchOddsRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MatchOdds, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.MatchOdds
	if err := transaction.WithContext(ctx).
		Order("last_updated ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceTriple writes all three legs and the timestamp in one UPDATE so a
// concurrent reader can never observe a partially refreshed triple.
func (or *matchOddsRepo) ReplaceTriple(ctx context.Context, tx *gorm.DB, oddsID uuid.UUID, p1, x, p2 float64, lastUpdated time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	return transaction.WithContext(ctx).
		Model(&types.MatchOdds{}).
		Where("id = ?", oddsID).
		Updates(map[string]interface{}{
			"p1":           p1,
			"x":            x,
			"p2":           p2,
			"last_updated": lastUpdated,
		}).Error
}
