package types

import (
	"time"

	"github.com/google/uuid"
)

// Match owns exactly one MatchOdds row; both team references must point at
// distinct teams. Score is free text and only set for live or finished games.
type Match struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	League      string        `gorm:"not null;column:league" json:"league"`
	Time        string        `gorm:"not null;column:time" json:"time"`
	HomeTeamID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"-"`
	HomeTeam    *Team         `gorm:"foreignKey:HomeTeamID;references:ID" json:"homeTeam"`
	AwayTeamID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"-"`
	AwayTeam    *Team         `gorm:"foreignKey:AwayTeamID;references:ID" json:"awayTeam"`
	Odds        *MatchOdds    `gorm:"foreignKey:MatchID;references:ID" json:"odds"`
	IsLive      bool          `gorm:"column:is_live" json:"isLive"`
	Score       *string       `gorm:"column:score" json:"score"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"-"`
}

func (Match) TableName() string {
	return "match"
}
