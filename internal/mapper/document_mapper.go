package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/model"
	"docbuilder-be/pkg/blocks"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) (*entity.Document, error) {
	if d == nil {
		return nil, nil
	}

	content, err := decodeBlocks(d.Content)
	if err != nil {
		return nil, err
	}
	variables, err := decodeVariables(d.Variables)
	if err != nil {
		return nil, err
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:             d.Id,
		UserId:         d.UserId,
		Title:          d.Title,
		Content:        content,
		Variables:      variables,
		Status:         entity.DocumentStatus(d.Status),
		CurrentVersion: d.CurrentVersion,
		LockedAt:       d.LockedAt,
		SentAt:         d.SentAt,
		ExpiresAt:      d.ExpiresAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func (m *DocumentMapper) ToModel(d *entity.Document) (*model.Document, error) {
	if d == nil {
		return nil, nil
	}

	content, err := encodeBlocks(d.Content)
	if err != nil {
		return nil, err
	}
	variables, err := encodeVariables(d.Variables)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:             d.Id,
		UserId:         d.UserId,
		Title:          d.Title,
		Content:        content,
		Variables:      variables,
		Status:         string(d.Status),
		CurrentVersion: d.CurrentVersion,
		LockedAt:       d.LockedAt,
		SentAt:         d.SentAt,
		ExpiresAt:      d.ExpiresAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) ([]*entity.Document, error) {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		e, err := m.ToEntity(d)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func encodeBlocks(content []blocks.Block) (datatypes.JSON, error) {
	if content == nil {
		content = []blocks.Block{}
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeBlocks(raw datatypes.JSON) ([]blocks.Block, error) {
	if len(raw) == 0 {
		return []blocks.Block{}, nil
	}
	var content []blocks.Block
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, err
	}
	return content, nil
}

func encodeVariables(variables map[string]string) (datatypes.JSON, error) {
	if variables == nil {
		variables = map[string]string{}
	}
	raw, err := json.Marshal(variables)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeVariables(raw datatypes.JSON) (map[string]string, error) {
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	var variables map[string]string
	if err := json.Unmarshal(raw, &variables); err != nil {
		return nil, err
	}
	return variables, nil
}
