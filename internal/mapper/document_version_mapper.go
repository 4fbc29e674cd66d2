package mapper

import (
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/model"
)

type DocumentVersionMapper struct{}

func NewDocumentVersionMapper() *DocumentVersionMapper {
	return &DocumentVersionMapper{}
}

func (m *DocumentVersionMapper) ToEntity(v *model.DocumentVersion) (*entity.DocumentVersion, error) {
	if v == nil {
		return nil, nil
	}

	content, err := decodeBlocks(v.Content)
	if err != nil {
		return nil, err
	}
	variables, err := decodeVariables(v.Variables)
	if err != nil {
		return nil, err
	}

	return &entity.DocumentVersion{
		Id:                v.Id,
		DocumentId:        v.DocumentId,
		VersionNumber:     v.VersionNumber,
		Title:             v.Title,
		Content:           content,
		Variables:         variables,
		ChangeType:        v.ChangeType,
		ChangeDescription: v.ChangeDescription,
		CreatedBy:         v.CreatedBy,
		CreatedAt:         v.CreatedAt,
	}, nil
}

func (m *DocumentVersionMapper) ToModel(v *entity.DocumentVersion) (*model.DocumentVersion, error) {
	if v == nil {
		return nil, nil
	}

	content, err := encodeBlocks(v.Content)
	if err != nil {
		return nil, err
	}
	variables, err := encodeVariables(v.Variables)
	if err != nil {
		return nil, err
	}

	return &model.DocumentVersion{
		Id:                v.Id,
		DocumentId:        v.DocumentId,
		VersionNumber:     v.VersionNumber,
		Title:             v.Title,
		Content:           content,
		Variables:         variables,
		ChangeType:        v.ChangeType,
		ChangeDescription: v.ChangeDescription,
		CreatedBy:         v.CreatedBy,
		CreatedAt:         v.CreatedAt,
	}, nil
}

func (m *DocumentVersionMapper) ToEntities(versions []*model.DocumentVersion) ([]*entity.DocumentVersion, error) {
	entities := make([]*entity.DocumentVersion, len(versions))
	for i, v := range versions {
		e, err := m.ToEntity(v)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}
