package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters documents by owner
type OwnedBy struct {
	UserId uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByStatus filters documents by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ExpiredBefore matches sent or viewed documents whose expiry has passed
type ExpiredBefore struct {
	Now time.Time
}

func (s ExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at IS NOT NULL AND expires_at < ?", s.Now).
		Where("status IN ?", []string{"sent", "viewed"})
}

// ByDocumentId filters versions by parent document
type ByDocumentId struct {
	DocumentId uuid.UUID
}

func (s ByDocumentId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId)
}

// ByVersionNumber filters versions by their number within a document
type ByVersionNumber struct {
	VersionNumber int
}

func (s ByVersionNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("version_number = ?", s.VersionNumber)
}
