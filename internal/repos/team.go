package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, teams []*types.Team) ([]*types.Team, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	repoLog := baseLog.With("repo", "TeamRepo")
	return &teamRepo{db: db, log: repoLog}
}

func (tr *teamRepo) Create(ctx context.Context, tx *gorm.DB, teams []*types.Team) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(teams) == 0 {
		return []*types.Team{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (tr *teamRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Team{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
