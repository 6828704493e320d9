package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

type UserFavoriteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, favorites []*types.UserFavorite) ([]*types.UserFavorite, error)
	GetByUserAndMatch(ctx context.Context, tx *gorm.DB, userID, matchID uuid.UUID) (*types.UserFavorite, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserFavorite, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, favoriteIDs []uuid.UUID) error
}

type userFavoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) UserFavoriteRepo {
	repoLog := baseLog.With("repo", "UserFavoriteRepo")
	return &userFavoriteRepo{db: db, log: repoLog}
}

func (ufr *userFavoriteRepo) Create(ctx context.Context, tx *gorm.DB, favorites []*types.UserFavorite) ([]*types.UserFavorite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ufr.db
	}

	if len(favorites) == 0 {
		return []*types.UserFavorite{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&favorites).Error; err != nil {
		return nil, err
	}

	return favorites, nil
}

func (ufr *userFavoriteRepo) GetByUserAndMatch(ctx context.Context, tx *gorm.DB, userID, matchID uuid.UUID) (*types.UserFavorite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ufr.db
	}

	var result types.UserFavorite
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND match_id = ?", userID, matchID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ufr *userFavoriteRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserFavorite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ufr.db
	}

	var results []*types.UserFavorite
	if err := transaction.WithContext(ctx).
		Preload("Match").
		Preload("Match.HomeTeam").
		Preload("Match.AwayTeam").
		Preload("Match.Odds").
		Where("user_id = ?", userID).
		Order("added_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ufr *userFavoriteRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, favoriteIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ufr.db
	}

	if len(favoriteIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", favoriteIDs).
		Delete(&types.UserFavorite{}).Error
}
