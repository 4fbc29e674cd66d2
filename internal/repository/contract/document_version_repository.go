package contract

import (
	"context"

	"github.com/google/uuid"

	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/repository/specification"
)

type DocumentVersionRepository interface {
	Create(ctx context.Context, version *entity.DocumentVersion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentVersion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	MaxVersionNumber(ctx context.Context, documentId uuid.UUID) (int, error)
}
