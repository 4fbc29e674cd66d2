package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DocumentVersion struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_document_version"`
	VersionNumber     int            `gorm:"not null;uniqueIndex:idx_document_version"`
	Title             string         `gorm:"type:varchar(255);not null"`
	Content           datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Variables         datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	ChangeType        string         `gorm:"type:varchar(20);not null"`
	ChangeDescription string         `gorm:"type:text"`
	CreatedBy         uuid.UUID      `gorm:"type:uuid;not null"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}
