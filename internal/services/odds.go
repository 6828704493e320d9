package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/types"
)

// OddsService owns the match catalog: the seeded teams and matches plus the
// single mutable odds row per match. Odds writes always replace the whole
// (p1, x, p2) triple inside one transaction, so readers of GetMatches see a
// match either entirely before or entirely after a tick, never in between.
type OddsService interface {
	SeedIfEmpty(ctx context.Context) error
	GetMatches(ctx context.Context) ([]*types.Match, error)
	ApplyOddsDelta(ctx context.Context, matchID uuid.UUID, updater func(types.MatchOdds) types.MatchOdds) error
	SetOdds(ctx context.Context, matchID uuid.UUID, update types.OddsUpdate) error
}

type oddsService struct {
	db        *gorm.DB
	log       *logger.Logger
	teamRepo  repos.TeamRepo
	matchRepo repos.MatchRepo
	oddsRepo  repos.MatchOddsRepo
	cache     MatchCache
	seed      SeedCatalog
}

func NewOddsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	teamRepo repos.TeamRepo,
	matchRepo repos.MatchRepo,
	oddsRepo repos.MatchOddsRepo,
	cache MatchCache,
	seed SeedCatalog,
) OddsService {
	serviceLog := baseLog.With("service", "OddsService")
	return &oddsService{
		db:        db,
		log:       serviceLog,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		oddsRepo:  oddsRepo,
		cache:     cache,
		seed:      seed,
	}
}

// SeedIfEmpty inserts the starter catalog on first boot. It checks team
// emptiness first and skips entirely otherwise, so calling it on every
// process start is safe.
func (os *oddsService) SeedIfEmpty(ctx context.Context) error {
	count, err := os.teamRepo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to check catalog emptiness: %w", err)
	}
	if count > 0 {
		os.log.Debug("Catalog already seeded, skipping", "teams", count)
		return nil
	}

	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		teamsByName := make(map[string]*types.Team, len(os.seed.Teams))
		teams := make([]*types.Team, 0, len(os.seed.Teams))
		for _, st := range os.seed.Teams {
			team := &types.Team{
				ID:        uuid.New(),
				Name:      st.Name,
				Logo:      st.Logo,
				Form:      st.Form,
				CreatedAt: now,
			}
			teams = append(teams, team)
			teamsByName[st.Name] = team
		}
		if _, err := os.teamRepo.Create(ctx, tx, teams); err != nil {
			return fmt.Errorf("failed to seed teams: %w", err)
		}

		matches := make([]*types.Match, 0, len(os.seed.Matches))
		for i, sm := range os.seed.Matches {
			match := &types.Match{
				ID:         uuid.New(),
				League:     sm.League,
				Time:       sm.Time,
				HomeTeamID: teamsByName[sm.HomeTeam].ID,
				AwayTeamID: teamsByName[sm.AwayTeam].ID,
				IsLive:     sm.IsLive,
				Score:      sm.Score,
				// Stagger creation times so insertion order survives the
				// (created_at, id) snapshot ordering.
				CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			}
			match.Odds = &types.MatchOdds{
				ID:          uuid.New(),
				MatchID:     match.ID,
				P1:          sm.P1,
				X:           sm.X,
				P2:          sm.P2,
				LastUpdated: now,
			}
			matches = append(matches, match)
		}
		if _, err := os.matchRepo.Create(ctx, tx, matches); err != nil {
			return fmt.Errorf("failed to seed matches: %w", err)
		}

		os.log.Info("Seeded starter catalog", "teams", len(teams), "matches", len(matches))
		return nil
	})
}

// GetMatches returns the fully joined snapshot as of the call.
func (os *oddsService) GetMatches(ctx context.Context) ([]*types.Match, error) {
	if os.cache != nil {
		if cached, ok := os.cache.Get(ctx); ok {
			return cached, nil
		}
	}

	matches, err := os.matchRepo.ListJoined(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	if os.cache != nil {
		os.cache.Set(ctx, matches)
	}
	return matches, nil
}

// ApplyOddsDelta atomically replaces the match's odds triple with
// updater(current) and stamps last_updated. An unknown matchID is a silent
// no-op, matching the catalog's tolerant update semantics.
func (os *oddsService) ApplyOddsDelta(ctx context.Context, matchID uuid.UUID, updater func(types.MatchOdds) types.MatchOdds) error {
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := os.oddsRepo.GetByMatchID(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("failed to load odds for match: %w", err)
		}
		if current == nil {
			os.log.Debug("Odds update for unknown match, skipping", "match_id", matchID)
			return nil
		}

		next := updater(*current)
		return os.oddsRepo.ReplaceTriple(ctx, tx, current.ID, next.P1, next.X, next.P2, time.Now())
	})
	if err != nil {
		return err
	}

	if os.cache != nil {
		os.cache.Invalidate(ctx)
	}
	return nil
}

// SetOdds is the partial-update form: nil fields keep their current value.
// The write is still a whole-triple replace.
func (os *oddsService) SetOdds(ctx context.Context, matchID uuid.UUID, update types.OddsUpdate) error {
	return os.ApplyOddsDelta(ctx, matchID, func(current types.MatchOdds) types.MatchOdds {
		next := current
		if update.P1 != nil {
			next.P1 = *update.P1
		}
		if update.X != nil {
			next.X = *update.X
		}
		if update.P2 != nil {
			next.P2 = *update.P2
		}
		return next
	})
}
