package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/repos"
	"github.com/betwise/betwise-backend/internal/types"
)

// JitterFactor maps a uniform draw u in [0,1) to a multiplicative factor in
// [0.95, 1.05).
func JitterFactor(u float64) float64 {
	return 1 + (u-0.5)*0.1
}

// PerturbOdds scales all three legs of the triple by the same factor,
// preserving the relative skew between outcomes while jittering overall
// magnitude. No floor or ceiling is applied: over many ticks prices follow an
// unbounded multiplicative random walk, which is an accepted property of the
// synthetic feed.
func PerturbOdds(odds types.MatchOdds, factor float64) types.MatchOdds {
	odds.P1 *= factor
	odds.X *= factor
	odds.P2 *= factor
	return odds
}

// OddsSimulationService drives the synthetic market feed: one background
// goroutine perturbing every tracked odds triple on a fixed cadence.
type OddsSimulationService interface {
	StartWorker(ctx context.Context)
	TickOnce(ctx context.Context) error
}

type oddsSimulationService struct {
	log         *logger.Logger
	oddsService OddsService
	oddsRepo    repos.MatchOddsRepo
	interval    time.Duration
	rng         *rand.Rand
}

func NewOddsSimulationService(
	baseLog *logger.Logger,
	oddsService OddsService,
	oddsRepo repos.MatchOddsRepo,
	interval time.Duration,
) OddsSimulationService {
	serviceLog := baseLog.With("service", "OddsSimulationService")
	return &oddsSimulationService{
		log:         serviceLog,
		oddsService: oddsService,
		oddsRepo:    oddsRepo,
		interval:    interval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartWorker runs ticks until ctx is cancelled. All ticks run on this one
// goroutine, so odds updates for a given match are totally ordered. A failed
// tick is logged and the next tick proceeds on schedule.
func (oss *oddsSimulationService) StartWorker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(oss.interval)
		defer ticker.Stop()

		oss.log.Info("Odds simulation worker started", "interval", oss.interval)
		for {
			select {
			case <-ctx.Done():
				oss.log.Info("Odds simulation worker stopped")
				return
			case <-ticker.C:
				if err := oss.TickOnce(ctx); err != nil {
					oss.log.Warn("Odds tick failed", "error", err)
				}
			}
		}
	}()
}

// TickOnce applies one perturbation to every tracked match. Each match draws
// its own factor; the factor is shared by all three legs of that match.
func (oss *oddsSimulationService) TickOnce(ctx context.Context) error {
	oddsList, err := oss.oddsRepo.ListAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list odds: %w", err)
	}

	updated := 0
	for _, odds := range oddsList {
		factor := JitterFactor(oss.rng.Float64())
		if err := oss.oddsService.ApplyOddsDelta(ctx, odds.MatchID, func(current types.MatchOdds) types.MatchOdds {
			return PerturbOdds(current, factor)
		}); err != nil {
			// One failed match must not stop the rest of the tick.
			oss.log.Warn("Failed to perturb odds", "match_id", odds.MatchID, "error", err)
			continue
		}
		updated++
	}

	oss.log.Debug("Odds tick applied", "matches", updated)
	return nil
}
