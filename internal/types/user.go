package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string            `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email       string            `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string            `gorm:"not null;column:password" json:"-"`
	Role        string            `gorm:"not null;column:role" json:"role"`
	AvatarURL   string            `gorm:"column:avatar_url" json:"avatarUrl"`
	LastLogin   *time.Time        `gorm:"column:last_login" json:"lastLogin"`
	Favorites   []*UserFavorite   `gorm:"foreignKey:UserID;references:ID" json:"favorites,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"not null" json:"-"`
}

func (User) TableName() string {
	return "user"
}

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)
