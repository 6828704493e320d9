package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchOdds carries the (p1, x, p2) decimal prices for home win / draw /
// away win. The triple is not a probability partition: bookmaker margin is
// expected and the three legs normally sum to an implied probability above 1.
type MatchOdds struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"-"`
	MatchID       uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	P1            float64       `gorm:"not null;column:p1" json:"p1"`
	X             float64       `gorm:"not null;column:x" json:"x"`
	P2            float64       `gorm:"not null;column:p2" json:"p2"`
	LastUpdated   time.Time     `gorm:"column:last_updated" json:"lastUpdated"`
}

func (MatchOdds) TableName() string {
	return "match_odds"
}
