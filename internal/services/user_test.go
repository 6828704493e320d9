package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/requestdata"
	"github.com/betwise/betwise-backend/internal/types"
)

type userEnv struct {
	*catalogEnv
	auth        *authEnv
	userService UserService
	matches     []*types.Match
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()

	ctx := context.Background()
	catalog := newCatalogEnv(t)
	if err := catalog.oddsService.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	matches, err := catalog.oddsService.GetMatches(ctx)
	if err != nil {
		t.Fatalf("failed to load matches: %v", err)
	}

	auth := newAuthEnv(t, catalog.db)
	log := testLogger()
	favoriteRepo := repos.NewUserFavoriteRepo(catalog.db, log)
	userService := NewUserService(catalog.db, log, auth.userRepo, catalog.matchRepo, favoriteRepo)

	return &userEnv{
		catalogEnv:  catalog,
		auth:        auth,
		userService: userService,
		matches:     matches,
	}
}

func authedContext(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func TestFavoritesLifecycle(t *testing.T) {
	env := newUserEnv(t)
	user := registerTestUser(t, env.auth, "erin", "erin@example.com", "pass1234")
	ctx := authedContext(user.ID)

	match := env.matches[0]

	favorite, err := env.userService.AddFavorite(ctx, match.ID)
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if favorite.UserID != user.ID || favorite.MatchID != match.ID {
		t.Errorf("favorite links (%s, %s), want (%s, %s)", favorite.UserID, favorite.MatchID, user.ID, match.ID)
	}

	if _, err := env.userService.AddFavorite(ctx, match.ID); err == nil {
		t.Error("expected duplicate favorite to be rejected")
	}
	if _, err := env.userService.AddFavorite(ctx, uuid.New()); err == nil {
		t.Error("expected unknown match to be rejected")
	}

	if _, err := env.userService.AddFavorite(ctx, env.matches[1].ID); err != nil {
		t.Fatalf("second AddFavorite failed: %v", err)
	}

	favorites, err := env.userService.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("got %d favorites, want 2", len(favorites))
	}
	for _, f := range favorites {
		if f.Match == nil || f.Match.HomeTeam == nil || f.Match.AwayTeam == nil {
			t.Fatalf("favorite %s missing match join", f.ID)
		}
	}

	if err := env.userService.RemoveFavorite(ctx, match.ID); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if err := env.userService.RemoveFavorite(ctx, match.ID); err == nil {
		t.Error("expected removing an absent favorite to fail")
	}

	favorites, err = env.userService.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("ListFavorites after removal failed: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("got %d favorites after removal, want 1", len(favorites))
	}
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	env := newUserEnv(t)
	first := registerTestUser(t, env.auth, "frank", "frank@example.com", "pass1234")
	second := registerTestUser(t, env.auth, "grace", "grace@example.com", "pass1234")

	match := env.matches[2]
	if _, err := env.userService.AddFavorite(authedContext(first.ID), match.ID); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	// The same match is free for another user.
	if _, err := env.userService.AddFavorite(authedContext(second.ID), match.ID); err != nil {
		t.Fatalf("AddFavorite for second user failed: %v", err)
	}

	favorites, err := env.userService.ListFavorites(authedContext(second.ID))
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].UserID != second.ID {
		t.Errorf("second user's favorites leaked or missing: %d rows", len(favorites))
	}
}

func TestGetMe(t *testing.T) {
	env := newUserEnv(t)
	user := registerTestUser(t, env.auth, "heidi", "heidi@example.com", "pass1234")
	ctx := authedContext(user.ID)

	if _, err := env.userService.AddFavorite(ctx, env.matches[0].ID); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	me, err := env.userService.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if me.Username != "heidi" {
		t.Errorf("username = %q, want %q", me.Username, "heidi")
	}
	if len(me.Favorites) != 1 {
		t.Errorf("got %d favorites on profile, want 1", len(me.Favorites))
	}

	if _, err := env.userService.GetMe(context.Background()); err == nil {
		t.Error("expected GetMe without request data to fail")
	}
}

func TestUpdateMe(t *testing.T) {
	env := newUserEnv(t)
	user := registerTestUser(t, env.auth, "ivan", "ivan@example.com", "pass1234")
	registerTestUser(t, env.auth, "judy", "judy@example.com", "pass1234")
	ctx := authedContext(user.ID)

	updated, err := env.userService.UpdateMe(ctx, UpdateUserInput{Username: "ivan2", Email: "Ivan2@Example.com"})
	if err != nil {
		t.Fatalf("UpdateMe failed: %v", err)
	}
	if updated.Username != "ivan2" || updated.Email != "ivan2@example.com" {
		t.Errorf("updated identity = (%q, %q)", updated.Username, updated.Email)
	}

	// Keeping your own identity is not a collision.
	if _, err := env.userService.UpdateMe(ctx, UpdateUserInput{Username: "ivan2", Email: "ivan2@example.com"}); err != nil {
		t.Errorf("re-saving own identity failed: %v", err)
	}

	// Taking another user's identity is.
	if _, err := env.userService.UpdateMe(ctx, UpdateUserInput{Username: "judy", Email: "ivan2@example.com"}); err == nil {
		t.Error("expected a taken username to be rejected")
	}
	if _, err := env.userService.UpdateMe(ctx, UpdateUserInput{Username: "ivan2", Email: "judy@example.com"}); err == nil {
		t.Error("expected a taken email to be rejected")
	}

	// A new password re-hashes and the old one stops working.
	if _, err := env.userService.UpdateMe(ctx, UpdateUserInput{Username: "ivan2", Email: "ivan2@example.com", Password: "newpass99"}); err != nil {
		t.Fatalf("password update failed: %v", err)
	}
	if _, _, err := env.auth.authService.LoginUser(context.Background(), "ivan2", "pass1234"); err == nil {
		t.Error("old password still accepted after update")
	}
	if _, _, err := env.auth.authService.LoginUser(context.Background(), "ivan2", "newpass99"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
