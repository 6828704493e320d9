package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/betwise/betwise-backend/internal/types"
)

func TestJitterFactor(t *testing.T) {
	testCases := []struct {
		name string
		u    float64
		want float64
	}{
		{name: "lower edge", u: 0, want: 0.95},
		{name: "midpoint is identity", u: 0.5, want: 1},
		{name: "upper quarter", u: 0.75, want: 1.025},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JitterFactor(tc.u); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("JitterFactor(%v) = %v, want %v", tc.u, got, tc.want)
			}
		})
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		factor := JitterFactor(rng.Float64())
		if factor < 0.95 || factor >= 1.05 {
			t.Fatalf("JitterFactor produced %v, outside [0.95, 1.05)", factor)
		}
	}
}

func TestPerturbOddsScalesAllLegs(t *testing.T) {
	odds := types.MatchOdds{P1: 2.94, X: 3.09, P2: 2.56}

	got := PerturbOdds(odds, 1.03)

	if got.P1 != 2.94*1.03 || got.X != 3.09*1.03 || got.P2 != 2.56*1.03 {
		t.Errorf("PerturbOdds = (%v, %v, %v), want each leg scaled by 1.03", got.P1, got.X, got.P2)
	}
	// The input is passed by value and must stay untouched.
	if odds.P1 != 2.94 || odds.X != 3.09 || odds.P2 != 2.56 {
		t.Errorf("PerturbOdds mutated its input: (%v, %v, %v)", odds.P1, odds.X, odds.P2)
	}
}

func TestPerturbOddsPreservesRatios(t *testing.T) {
	odds := types.MatchOdds{P1: 1.47, X: 4.59, P2: 6.42}
	rng := rand.New(rand.NewSource(7))

	current := odds
	for i := 0; i < 50; i++ {
		current = PerturbOdds(current, JitterFactor(rng.Float64()))
	}

	if ratio, want := current.X/current.P1, odds.X/odds.P1; math.Abs(ratio-want) > 1e-9*want {
		t.Errorf("X/P1 drifted from %v to %v", want, ratio)
	}
	if ratio, want := current.P2/current.P1, odds.P2/odds.P1; math.Abs(ratio-want) > 1e-9*want {
		t.Errorf("P2/P1 drifted from %v to %v", want, ratio)
	}
}

func TestPerturbOddsCompoundsMultiplicatively(t *testing.T) {
	odds := types.MatchOdds{P1: 2, X: 3, P2: 4}
	rng := rand.New(rand.NewSource(11))

	current := odds
	product := 1.0
	for i := 0; i < 50; i++ {
		factor := JitterFactor(rng.Float64())
		current = PerturbOdds(current, factor)
		product *= factor
	}

	if want := odds.P1 * product; math.Abs(current.P1-want) > 1e-9*want {
		t.Errorf("P1 after 50 ticks = %v, want %v", current.P1, want)
	}
}

func TestTickOnce(t *testing.T) {
	ctx := context.Background()
	env := newCatalogEnv(t)
	if err := env.oddsService.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	before, err := env.oddsRepo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("failed to list odds: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("expected seeded odds")
	}
	beforeByMatch := make(map[string]*types.MatchOdds, len(before))
	for _, odds := range before {
		beforeByMatch[odds.MatchID.String()] = odds
	}

	sim := NewOddsSimulationService(testLogger(), env.oddsService, env.oddsRepo, time.Hour)
	// Allow for timestamp truncation in the sqlite column.
	start := time.Now().Add(-time.Second)
	if err := sim.TickOnce(ctx); err != nil {
		t.Fatalf("TickOnce failed: %v", err)
	}

	after, err := env.oddsRepo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("failed to list odds: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("odds row count changed from %d to %d", len(before), len(after))
	}

	for _, odds := range after {
		prev := beforeByMatch[odds.MatchID.String()]
		if prev == nil {
			t.Fatalf("odds row appeared for unknown match %s", odds.MatchID)
		}

		factor := odds.P1 / prev.P1
		if factor < 0.95 || factor >= 1.05 {
			t.Errorf("match %s jitter factor %v outside [0.95, 1.05)", odds.MatchID, factor)
		}
		// All three legs must move by the same factor in one tick.
		if got := odds.X / prev.X; math.Abs(got-factor) > 1e-9 {
			t.Errorf("match %s X moved by %v, P1 by %v", odds.MatchID, got, factor)
		}
		if got := odds.P2 / prev.P2; math.Abs(got-factor) > 1e-9 {
			t.Errorf("match %s P2 moved by %v, P1 by %v", odds.MatchID, got, factor)
		}
		if odds.LastUpdated.Before(start) {
			t.Errorf("match %s LastUpdated %v was not advanced", odds.MatchID, odds.LastUpdated)
		}
	}
}

func TestStartWorkerStopsOnCancel(t *testing.T) {
	env := newCatalogEnv(t)
	if err := env.oddsService.SeedIfEmpty(context.Background()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	snapshot := func() map[string]time.Time {
		t.Helper()
		oddsList, err := env.oddsRepo.ListAll(context.Background(), nil)
		if err != nil {
			t.Fatalf("failed to list odds: %v", err)
		}
		stamps := make(map[string]time.Time, len(oddsList))
		for _, odds := range oddsList {
			stamps[odds.MatchID.String()] = odds.LastUpdated
		}
		return stamps
	}

	before := snapshot()
	ctx, cancel := context.WithCancel(context.Background())
	sim := NewOddsSimulationService(testLogger(), env.oddsService, env.oddsRepo, 10*time.Millisecond)
	sim.StartWorker(ctx)

	// Wait until at least one tick has landed.
	ticked := false
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		current := snapshot()
		for matchID, stamp := range current {
			if stamp.After(before[matchID]) {
				ticked = true
			}
		}
		if ticked {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !ticked {
		cancel()
		t.Fatal("worker applied no tick before the deadline")
	}

	cancel()
	// Let an in-flight tick drain before freezing the reference snapshot.
	time.Sleep(100 * time.Millisecond)
	frozen := snapshot()

	// Several intervals pass; a live worker would have written again.
	time.Sleep(100 * time.Millisecond)
	after := snapshot()
	for matchID, stamp := range after {
		if !stamp.Equal(frozen[matchID]) {
			t.Errorf("match %s updated after cancellation: %s -> %s", matchID, frozen[matchID], stamp)
		}
	}
}

// brokenOddsRepo fails every call, standing in for an unreachable database.
type brokenOddsRepo struct {
	lists atomic.Int32
}

func (br *brokenOddsRepo) Create(ctx context.Context, tx *gorm.DB, odds []*types.MatchOdds) ([]*types.MatchOdds, error) {
	return nil, errors.New("storage offline")
}

func (br *brokenOddsRepo) GetByMatchID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.MatchOdds, error) {
	return nil, errors.New("storage offline")
}

func (br *brokenOddsRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MatchOdds, error) {
	br.lists.Add(1)
	return nil, errors.New("storage offline")
}

func (br *brokenOddsRepo) ReplaceTriple(ctx context.Context, tx *gorm.DB, oddsID uuid.UUID, p1, x, p2 float64, lastUpdated time.Time) error {
	return errors.New("storage offline")
}

func TestStartWorkerSurvivesFailingTicks(t *testing.T) {
	env := newCatalogEnv(t)
	repo := &brokenOddsRepo{}
	sim := NewOddsSimulationService(testLogger(), env.oddsService, repo, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sim.StartWorker(ctx)

	// The first tick fails; the loop must keep ticking anyway.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && repo.lists.Load() < 3 {
		time.Sleep(5 * time.Millisecond)
	}
	if got := repo.lists.Load(); got < 3 {
		t.Fatalf("worker attempted %d ticks against a failing store, want at least 3", got)
	}
}

func TestTickOnceReportsListFailure(t *testing.T) {
	env := newCatalogEnv(t)
	repo := &brokenOddsRepo{}
	sim := NewOddsSimulationService(testLogger(), env.oddsService, repo, time.Hour)

	if err := sim.TickOnce(context.Background()); err == nil {
		t.Fatal("expected TickOnce to fail when the odds list cannot be read")
	}
}
