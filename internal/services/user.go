package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/normalization"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/requestdata"
	"github.com/betwise/betwise-backend/internal/types"
	"github.com/betwise/betwise-backend/internal/utils"
)

type UpdateUserInput struct {
	Username   string
	Email      string
	Password   string
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateMe(ctx context.Context, input UpdateUserInput) (*types.User, error)
	AddFavorite(ctx context.Context, matchID uuid.UUID) (*types.UserFavorite, error)
	RemoveFavorite(ctx context.Context, matchID uuid.UUID) error
	ListFavorites(ctx context.Context) ([]*types.UserFavorite, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	matchRepo     repos.MatchRepo
	favoriteRepo  repos.UserFavoriteRepo
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	matchRepo repos.MatchRepo,
	favoriteRepo repos.UserFavoriteRepo,
) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		matchRepo:    matchRepo,
		favoriteRepo: favoriteRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetWithFavorites(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateMe(ctx context.Context, input UpdateUserInput) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	username := normalization.TrimInputString(input.Username)
	email := normalization.ParseInputString(input.Email)
	if username == "" {
		return nil, fmt.Errorf("a username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("an email is required")
	}

	var updated *types.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, uErr := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if uErr != nil {
			return fmt.Errorf("failed to load user: %w", uErr)
		}
		if len(users) == 0 {
			return fmt.Errorf("user not found")
		}
		user := users[0]

		taken, tErr := us.userRepo.IdentityTaken(ctx, tx, username, email, user.ID)
		if tErr != nil {
			return fmt.Errorf("failed to check username and email: %w", tErr)
		}
		if taken {
			return fmt.Errorf("username or email is already in use")
		}

		user.Username = username
		user.Email = email
		if input.Password != "" {
			user.Password = input.Password
			if hErr := utils.HashPassword(ctx, us.log, user); hErr != nil {
				return hErr
			}
		}
		if sErr := us.userRepo.Save(ctx, tx, user); sErr != nil {
			return fmt.Errorf("failed to save user: %w", sErr)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddFavorite enforces the (userId, matchId) uniqueness itself and treats the
// matchId as a foreign key into the match catalog.
func (us *userService) AddFavorite(ctx context.Context, matchID uuid.UUID) (*types.UserFavorite, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var favorite *types.UserFavorite
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches, mErr := us.matchRepo.GetByIDs(ctx, tx, []uuid.UUID{matchID})
		if mErr != nil {
			return fmt.Errorf("failed to look up match: %w", mErr)
		}
		if len(matches) == 0 {
			return fmt.Errorf("match not found")
		}

		existing, eErr := us.favoriteRepo.GetByUserAndMatch(ctx, tx, userID, matchID)
		if eErr != nil {
			return fmt.Errorf("failed to check existing favorite: %w", eErr)
		}
		if existing != nil {
			return fmt.Errorf("match is already in favorites")
		}

		favorite = &types.UserFavorite{
			ID:        uuid.New(),
			UserID:    userID,
			MatchID:   matchID,
			AddedAt:   time.Now(),
		}
		if _, cErr := us.favoriteRepo.Create(ctx, tx, []*types.UserFavorite{favorite}); cErr != nil {
			return fmt.Errorf("failed to create favorite: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return favorite, nil
}

func (us *userService) RemoveFavorite(ctx context.Context, matchID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, eErr := us.favoriteRepo.GetByUserAndMatch(ctx, tx, userID, matchID)
		if eErr != nil {
			return fmt.Errorf("failed to look up favorite: %w", eErr)
		}
		if existing == nil {
			return fmt.Errorf("match is not in favorites")
		}
		if dErr := us.favoriteRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
			return fmt.Errorf("failed to delete favorite: %w", dErr)
		}
		return nil
	})
}

func (us *userService) ListFavorites(ctx context.Context) ([]*types.UserFavorite, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	favorites, err := us.favoriteRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no authenticated user in request context")
	}
	return rd.UserID, nil
}
