package utils

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/normalization"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/types"
)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User) error {
	if user == nil {
		return fmt.Errorf("no user given, cannot proceed with registration")
	}
	if user.Username == "" {
		return fmt.Errorf("a username is required to register")
	}
	if user.Email == "" {
		return fmt.Errorf("an email is required to register")
	}
	if user.Password == "" {
		return fmt.Errorf("a password is required to register")
	}
	taken, err := userRepo.IdentityTaken(ctx, nil, user.Username, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check username and email: %w", err)
	}
	if taken {
		return fmt.Errorf("username or email is already in use")
	}
	return nil
}

func ValidateLogin(identifier, password string) error {
	if identifier == "" {
		return fmt.Errorf("a username or email is required to login")
	}
	if password == "" {
		return fmt.Errorf("a password is required to login")
	}
	return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password")
	}
	user.Password = string(hashedPassword)
	return nil
}

func NormalizeUserFields(user *types.User) {
	user.Username = normalization.TrimInputString(user.Username)
	user.Email = normalization.ParseInputString(user.Email)
}
