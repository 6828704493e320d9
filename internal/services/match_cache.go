package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

// MatchCache is an optional redis cache for the joined match snapshot. The
// TTL is bounded by the scheduler's tick interval and the scheduler
// invalidates on every write, so a cached snapshot is never more than one
// tick behind the catalog. All methods are best effort: a cache failure is
// logged and the caller falls through to the database.
type MatchCache interface {
	Get(ctx context.Context) ([]*types.Match, bool)
	Set(ctx context.Context, matches []*types.Match)
	Invalidate(ctx context.Context)
}

type matchCache struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
	ttl time.Duration
}

func NewMatchCache(log *logger.Logger, ttl time.Duration) (MatchCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &matchCache{
		log: log.With("service", "MatchCache"),
		rdb: rdb,
		key: "betwise:matches:snapshot",
		ttl: ttl,
	}, nil
}

func (mc *matchCache) Get(ctx context.Context) ([]*types.Match, bool) {
	raw, err := mc.rdb.Get(ctx, mc.key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			mc.log.Warn("Snapshot cache read failed", "error", err)
		}
		return nil, false
	}

	matches, err := unmarshalSnapshot(raw)
	if err != nil {
		mc.log.Warn("Snapshot cache payload corrupt, dropping", "error", err)
		mc.Invalidate(ctx)
		return nil, false
	}
	return matches, true
}

func (mc *matchCache) Set(ctx context.Context, matches []*types.Match) {
	raw, err := marshalSnapshot(matches)
	if err != nil {
		mc.log.Warn("Snapshot cache marshal failed", "error", err)
		return
	}
	if err := mc.rdb.Set(ctx, mc.key, raw, mc.ttl).Err(); err != nil {
		mc.log.Warn("Snapshot cache write failed", "error", err)
	}
}

func (mc *matchCache) Invalidate(ctx context.Context) {
	if err := mc.rdb.Del(ctx, mc.key).Err(); err != nil {
		mc.log.Warn("Snapshot cache invalidate failed", "error", err)
	}
}

// The API models hide row ids and foreign keys from their JSON form, so the
// cache round-trips through its own encoding that keeps every field. Without
// this a cache-served match would come back with a zeroed Odds.MatchID.
type cachedTeam struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	Form      string    `json:"form"`
	CreatedAt time.Time `json:"createdAt"`
}

type cachedOdds struct {
	ID          uuid.UUID `json:"id"`
	MatchID     uuid.UUID `json:"matchId"`
	P1          float64   `json:"p1"`
	X           float64   `json:"x"`
	P2          float64   `json:"p2"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type cachedMatch struct {
	ID         uuid.UUID   `json:"id"`
	League     string      `json:"league"`
	Time       string      `json:"time"`
	HomeTeamID uuid.UUID   `json:"homeTeamId"`
	HomeTeam   *cachedTeam `json:"homeTeam"`
	AwayTeamID uuid.UUID   `json:"awayTeamId"`
	AwayTeam   *cachedTeam `json:"awayTeam"`
	Odds       *cachedOdds `json:"odds"`
	IsLive     bool        `json:"isLive"`
	Score      *string     `json:"score"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func toCachedTeam(t *types.Team) *cachedTeam {
	if t == nil {
		return nil
	}
	return &cachedTeam{ID: t.ID, Name: t.Name, Logo: t.Logo, Form: t.Form, CreatedAt: t.CreatedAt}
}

func fromCachedTeam(ct *cachedTeam) *types.Team {
	if ct == nil {
		return nil
	}
	return &types.Team{ID: ct.ID, Name: ct.Name, Logo: ct.Logo, Form: ct.Form, CreatedAt: ct.CreatedAt}
}

func marshalSnapshot(matches []*types.Match) ([]byte, error) {
	cached := make([]*cachedMatch, 0, len(matches))
	for _, m := range matches {
		cm := &cachedMatch{
			ID:         m.ID,
			League:     m.League,
			Time:       m.Time,
			HomeTeamID: m.HomeTeamID,
			HomeTeam:   toCachedTeam(m.HomeTeam),
			AwayTeamID: m.AwayTeamID,
			AwayTeam:   toCachedTeam(m.AwayTeam),
			IsLive:     m.IsLive,
			Score:      m.Score,
			CreatedAt:  m.CreatedAt,
		}
		if m.Odds != nil {
			cm.Odds = &cachedOdds{
				ID:          m.Odds.ID,
				MatchID:     m.Odds.MatchID,
				P1:          m.Odds.P1,
				X:           m.Odds.X,
				P2:          m.Odds.P2,
				LastUpdated: m.Odds.LastUpdated,
			}
		}
		cached = append(cached, cm)
	}
	return json.Marshal(cached)
}

func unmarshalSnapshot(raw []byte) ([]*types.Match, error) {
	var cached []*cachedMatch
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}

	matches := make([]*types.Match, 0, len(cached))
	for _, cm := range cached {
		m := &types.Match{
			ID:         cm.ID,
			League:     cm.League,
			Time:       cm.Time,
			HomeTeamID: cm.HomeTeamID,
			HomeTeam:   fromCachedTeam(cm.HomeTeam),
			AwayTeamID: cm.AwayTeamID,
			AwayTeam:   fromCachedTeam(cm.AwayTeam),
			IsLive:     cm.IsLive,
			Score:      cm.Score,
			CreatedAt:  cm.CreatedAt,
		}
		if cm.Odds != nil {
			m.Odds = &types.MatchOdds{
				ID:          cm.Odds.ID,
				MatchID:     cm.Odds.MatchID,
				P1:          cm.Odds.P1,
				X:           cm.Odds.X,
				P2:          cm.Odds.P2,
				LastUpdated: cm.Odds.LastUpdated,
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}
