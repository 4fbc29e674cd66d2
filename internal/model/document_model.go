package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title          string         `gorm:"type:varchar(255);not null"`
	Content        datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Variables      datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	Status         string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	CurrentVersion int            `gorm:"not null;default:0"`
	LockedAt       *time.Time
	SentAt         *time.Time
	ExpiresAt      *time.Time
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
