package types

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"not null;column:name" json:"name"`
	Logo        string        `gorm:"column:logo" json:"logo"`
	Form        string        `gorm:"column:form" json:"form"`
	CreatedAt   time.Time     `gorm:"not null" json:"-"`
}

func (Team) TableName() string {
	return "team"
}
