package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/model"
	"docbuilder-be/internal/pkg/logger"
	"docbuilder-be/internal/repository/memory"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/internal/service"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/database"
)

func setupDB(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	require.NoError(t, gormDB.AutoMigrate(&model.Document{}, &model.DocumentVersion{}))

	return unitofwork.NewRepositoryFactory(gormDB)
}

func TestDocumentLifecycleFlow(t *testing.T) {
	uowFactory := setupDB(t)
	testLogger := logger.NewZapLogger("integration_test.log", false)

	documentService := service.NewDocumentService(uowFactory, nil, testLogger)
	versionService := service.NewVersionService(uowFactory, nil, testLogger)
	builderService := service.NewBuilderService(
		uowFactory,
		memory.NewBuilderSessionRepository(time.Hour),
		versionService,
		testLogger,
	)

	ctx := context.Background()
	userId := uuid.New()

	// Create
	created, err := documentService.Create(ctx, userId, &dto.CreateDocumentRequest{
		Title: "Integration Proposal",
	})
	require.NoError(t, err)
	documentId := created.Id

	// Edit through a builder session
	_, err = builderService.OpenSession(ctx, userId, documentId)
	require.NoError(t, err)

	state, err := builderService.Dispatch(ctx, userId, &dto.DispatchActionRequest{
		DocumentId: documentId,
		Type:       "ADD_BLOCK",
		BlockType:  "text",
	})
	require.NoError(t, err)
	require.Len(t, state.Blocks, 1)
	assert.True(t, state.IsDirty)
	assert.True(t, state.CanUndo)

	saved, err := builderService.Save(ctx, userId, &dto.SaveSessionRequest{
		DocumentId:        documentId,
		ChangeDescription: "first draft",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.CurrentVersion)

	// Version history: current pseudo-version first, then the saved row
	history, err := versionService.History(ctx, userId, documentId)
	require.NoError(t, err)
	require.Len(t, history.Versions, 2)
	assert.Equal(t, entity.ChangeTypeCurrent, history.Versions[0].ChangeType)
	assert.Equal(t, 1, history.Versions[1].VersionNumber)

	// Lifecycle: send → view → sign. Signing must lock content.
	require.NoError(t, documentService.Send(ctx, userId, &dto.SendDocumentRequest{Id: documentId}))
	require.NoError(t, documentService.MarkViewed(ctx, documentId))
	require.NoError(t, documentService.Sign(ctx, &dto.SignDocumentRequest{
		Id:          documentId,
		SignerEmail: "client@example.com",
		SignerName:  "Client",
	}))

	shown, err := documentService.Show(ctx, userId, documentId)
	require.NoError(t, err)
	assert.Equal(t, "signed", shown.Status)
	assert.True(t, shown.IsLocked)

	// Content mutation on a locked document is refused
	err = documentService.UpdateContent(ctx, userId, &dto.UpdateContentRequest{
		Id:      documentId,
		Content: []blocks.Block{blocks.CreateDefault(blocks.TypeText)},
	})
	assert.Error(t, err)

	// Title edits remain allowed on locked documents
	assert.NoError(t, documentService.UpdateTitle(ctx, userId, &dto.UpdateTitleRequest{
		Id:    documentId,
		Title: "Integration Proposal (signed)",
	}))

	// Cleanup
	assert.NoError(t, documentService.Delete(ctx, userId, documentId))
}

func TestVersionCompareFlow(t *testing.T) {
	uowFactory := setupDB(t)
	testLogger := logger.NewZapLogger("integration_test.log", false)

	documentService := service.NewDocumentService(uowFactory, nil, testLogger)
	versionService := service.NewVersionService(uowFactory, nil, testLogger)

	ctx := context.Background()
	userId := uuid.New()

	textBlock := blocks.CreateDefault(blocks.TypeText)
	textBlock.Content = "Original text"

	created, err := documentService.Create(ctx, userId, &dto.CreateDocumentRequest{
		Title:   "Diff Target",
		Content: []blocks.Block{textBlock},
	})
	require.NoError(t, err)
	documentId := created.Id

	_, err = versionService.Capture(ctx, userId, documentId, entity.ChangeTypeCreate, "initial")
	require.NoError(t, err)

	modified := textBlock
	modified.Content = "Edited text"
	require.NoError(t, documentService.UpdateContent(ctx, userId, &dto.UpdateContentRequest{
		Id:      documentId,
		Content: []blocks.Block{modified},
	}))

	// Compare stored version 1 against the live content (0)
	cmp, err := versionService.Compare(ctx, userId, documentId, 1, 0)
	require.NoError(t, err)
	require.Len(t, cmp.Changes, 1)
	assert.Equal(t, "modified", string(cmp.Changes[0].Type))
	assert.Equal(t, textBlock.Id, cmp.Changes[0].BlockId)

	assert.NoError(t, documentService.Delete(ctx, userId, documentId))
}
