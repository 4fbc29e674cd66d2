package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/model"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/condition"
)

func TestDocumentMapperRoundTrip(t *testing.T) {
	m := NewDocumentMapper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	heading := blocks.CreateDefault(blocks.TypeHeading)
	heading.Content = "Proposal"
	text := blocks.CreateDefault(blocks.TypeText)
	text.Content = "Hello {{recipient.name}}"
	text.Visibility = &condition.Visibility{
		Condition: &condition.Group{
			Logic: condition.LogicAnd,
			Rules: []condition.Node{condition.RuleNode("plan", condition.OpEqual, "pro")},
		},
		ShowInEditor: true,
	}

	doc := &entity.Document{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		Title:          "Q1 Proposal",
		Content:        []blocks.Block{heading, text},
		Variables:      map[string]string{"plan": "pro"},
		Status:         entity.StatusDraft,
		CurrentVersion: 3,
		CreatedAt:      now,
	}

	row, err := m.ToModel(doc)
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	back, err := m.ToEntity(row)
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}

	if back.Id != doc.Id || back.Title != doc.Title || back.Status != doc.Status {
		t.Errorf("scalar fields lost in round trip: %+v", back)
	}
	if back.CurrentVersion != 3 {
		t.Errorf("CurrentVersion = %d, want 3", back.CurrentVersion)
	}
	if len(back.Content) != 2 {
		t.Fatalf("Content length = %d, want 2", len(back.Content))
	}
	if back.Content[1].Visibility == nil || back.Content[1].Visibility.Condition == nil {
		t.Fatal("visibility condition lost in round trip")
	}
	if got := back.Content[1].Visibility.Condition.Rules[0].Rule.Field; got != "plan" {
		t.Errorf("condition field = %q, want plan", got)
	}
	if back.Variables["plan"] != "pro" {
		t.Errorf("Variables = %v, want plan=pro", back.Variables)
	}
}

func TestDocumentMapperEmptyColumns(t *testing.T) {
	m := NewDocumentMapper()
	doc, err := m.ToEntity(&model.Document{Id: uuid.New()})
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}
	if doc.Content == nil || len(doc.Content) != 0 {
		t.Errorf("empty content column must decode to empty slice, got %v", doc.Content)
	}
	if doc.Variables == nil || len(doc.Variables) != 0 {
		t.Errorf("empty variables column must decode to empty map, got %v", doc.Variables)
	}
}
