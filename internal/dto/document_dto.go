package dto

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

type CreateDocumentRequest struct {
	Title   string         `json:"title" validate:"required"`
	Content []blocks.Block `json:"content"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDocumentResponse struct {
	Id             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Content        []blocks.Block    `json:"content"`
	Variables      map[string]string `json:"variables"`
	Status         string            `json:"status"`
	CurrentVersion int               `json:"current_version"`
	IsLocked       bool              `json:"is_locked"`
	SentAt         *time.Time        `json:"sent_at"`
	ExpiresAt      *time.Time        `json:"expires_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      *time.Time        `json:"updated_at"`
}

type DocumentListItem struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	CurrentVersion int        `json:"current_version"`
	IsLocked       bool       `json:"is_locked"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Documents []DocumentListItem `json:"documents"`
	Total     int64              `json:"total"`
}

type UpdateTitleRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}

type UpdateContentRequest struct {
	Id      uuid.UUID
	Content []blocks.Block `json:"content" validate:"required"`
}

type UpdateVariablesRequest struct {
	Id        uuid.UUID
	Variables map[string]string `json:"variables" validate:"required"`
}

type SendDocumentRequest struct {
	Id        uuid.UUID
	ExpiresAt *time.Time `json:"expires_at"`
}

type SignDocumentRequest struct {
	Id          uuid.UUID
	SignerEmail string `json:"signer_email" validate:"required,email"`
	SignerName  string `json:"signer_name" validate:"required"`
}

type PartyPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

type PreviewDocumentRequest struct {
	Id         uuid.UUID
	Recipient  PartyPayload `json:"recipient"`
	Sender     PartyPayload `json:"sender"`
	EditorView bool         `json:"editor_view"`
}

type PreviewDocumentResponse struct {
	Title  string         `json:"title"`
	Blocks []blocks.Block `json:"blocks"`
}
