package types

import (
	"time"

	"github.com/google/uuid"
)

// UserFavorite is unique per (UserID, MatchID); MatchID is a foreign key into
// the match catalog.
type UserFavorite struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_favorite_user_match" json:"-"`
	MatchID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_favorite_user_match" json:"matchId"`
	Match     *Match      `gorm:"foreignKey:MatchID;references:ID" json:"match,omitempty"`
	AddedAt   time.Time   `gorm:"column:added_at" json:"addedAt"`
}

func (UserFavorite) TableName() string {
	return "user_favorite"
}
