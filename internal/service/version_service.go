package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/pkg/logger"
	"docbuilder-be/internal/repository/specification"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/builder"
	"docbuilder-be/pkg/diff"
	"docbuilder-be/pkg/events"
)

type IVersionService interface {
	History(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.VersionHistoryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, versionNumber int) (*dto.ShowVersionResponse, error)
	Compare(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, from, to int) (*dto.CompareVersionsResponse, error)
	Capture(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, changeType, changeDescription string) (int, error)
	Restore(ctx context.Context, userId uuid.UUID, req *dto.RestoreVersionRequest) (*dto.RestoreVersionResponse, error)
}

type versionService struct {
	uowFactory unitofwork.RepositoryFactory
	eventBus   *events.Bus
	log        logger.ILogger
}

func NewVersionService(
	uowFactory unitofwork.RepositoryFactory,
	eventBus *events.Bus,
	log logger.ILogger,
) IVersionService {
	return &versionService{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		log:        log,
	}
}

// History lists the stored versions plus a synthesized "current"
// pseudo-version for the live content, newest first. The pseudo-version is
// never persisted.
func (s *versionService) History(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.VersionHistoryResponse, error) {
	doc, err := s.ownedDocument(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	versions, err := uow.DocumentVersionRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: documentId},
		specification.OrderBy{Field: "version_number", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	// The pseudo-version carries the document's current version number.
	// It is appended first, so the stable sort keeps it ahead of the
	// stored row sharing that number.
	summaries := make([]dto.VersionSummary, 0, len(versions)+1)
	summaries = append(summaries, dto.VersionSummary{
		Id:            doc.Id,
		VersionNumber: doc.CurrentVersion,
		Title:         doc.Title,
		ChangeType:    entity.ChangeTypeCurrent,
		BlockCount:    len(doc.Content),
		CreatedBy:     doc.UserId,
		CreatedAt:     time.Now(),
	})
	for _, v := range versions {
		summaries = append(summaries, dto.VersionSummary{
			Id:                v.Id,
			VersionNumber:     v.VersionNumber,
			Title:             v.Title,
			ChangeType:        v.ChangeType,
			ChangeDescription: v.ChangeDescription,
			BlockCount:        len(v.Content),
			CreatedBy:         v.CreatedBy,
			CreatedAt:         v.CreatedAt,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].VersionNumber > summaries[j].VersionNumber
	})

	return &dto.VersionHistoryResponse{
		DocumentId: documentId,
		Versions:   summaries,
	}, nil
}

func (s *versionService) Show(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, versionNumber int) (*dto.ShowVersionResponse, error) {
	if _, err := s.ownedDocument(ctx, userId, documentId); err != nil {
		return nil, err
	}

	version, err := s.findVersion(ctx, documentId, versionNumber)
	if err != nil {
		return nil, err
	}

	return &dto.ShowVersionResponse{
		Id:            version.Id,
		DocumentId:    version.DocumentId,
		VersionNumber: version.VersionNumber,
		Title:         version.Title,
		Content:       version.Content,
		Variables:     version.Variables,
		ChangeType:    version.ChangeType,
		CreatedAt:     version.CreatedAt,
	}, nil
}

// Compare diffs two stored snapshots. Version 0 means the live document
// content, so "current vs latest saved" comparisons do not require a
// persisted row.
func (s *versionService) Compare(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, from, to int) (*dto.CompareVersionsResponse, error) {
	doc, err := s.ownedDocument(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}

	oldTitle, oldContent, err := s.snapshot(ctx, doc, from)
	if err != nil {
		return nil, err
	}
	newTitle, newContent, err := s.snapshot(ctx, doc, to)
	if err != nil {
		return nil, err
	}

	return &dto.CompareVersionsResponse{
		DocumentId:  documentId,
		FromVersion: from,
		ToVersion:   to,
		TitleDiff:   diff.ComputeTextDiff(oldTitle, newTitle),
		Changes:     diff.ComputeBlockDiff(oldContent, newContent),
	}, nil
}

// Capture cuts an immutable version row from the document's live content
// and advances current_version. Version numbers are monotonic per document
// and allocated here, from the stored maximum.
func (s *versionService) Capture(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, changeType, changeDescription string) (int, error) {
	doc, err := s.ownedDocument(ctx, userId, documentId)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	max, err := uow.DocumentVersionRepository().MaxVersionNumber(ctx, documentId)
	if err != nil {
		return 0, err
	}

	version := entity.DocumentVersion{
		Id:                uuid.New(),
		DocumentId:        documentId,
		VersionNumber:     max + 1,
		Title:             doc.Title,
		Content:           doc.Content,
		Variables:         doc.Variables,
		ChangeType:        changeType,
		ChangeDescription: changeDescription,
		CreatedBy:         userId,
		CreatedAt:         time.Now(),
	}
	if err := uow.DocumentVersionRepository().Create(ctx, &version); err != nil {
		return 0, err
	}

	doc.CurrentVersion = version.VersionNumber
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.publish(ctx, events.VersionCreated, map[string]interface{}{
		"document_id":    documentId,
		"version_number": version.VersionNumber,
		"change_type":    changeType,
		"created_by":     userId,
	})

	return version.VersionNumber, nil
}

// Restore replaces the live content with a stored snapshot, recording the
// pre-restore content as its own version first so nothing is lost.
func (s *versionService) Restore(ctx context.Context, userId uuid.UUID, req *dto.RestoreVersionRequest) (*dto.RestoreVersionResponse, error) {
	doc, err := s.ownedDocument(ctx, userId, req.DocumentId)
	if err != nil {
		return nil, err
	}
	if doc.IsLocked() {
		return nil, builder.ErrDocumentLocked
	}

	version, err := s.findVersion(ctx, req.DocumentId, req.VersionNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.Capture(ctx, userId, req.DocumentId, entity.ChangeTypeUpdate, "before restore"); err != nil {
		return nil, err
	}

	doc, err = s.ownedDocument(ctx, userId, req.DocumentId)
	if err != nil {
		return nil, err
	}
	doc.Title = version.Title
	doc.Content = version.Content
	doc.Variables = version.Variables

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	restoredTo, err := s.Capture(ctx, userId, req.DocumentId,
		entity.ChangeTypeRestore,
		fmt.Sprintf("restored from version %d", req.VersionNumber))
	if err != nil {
		return nil, err
	}

	return &dto.RestoreVersionResponse{
		DocumentId:     req.DocumentId,
		CurrentVersion: restoredTo,
	}, nil
}

// snapshot resolves a version number to a (title, content) pair. Zero is
// the live document.
func (s *versionService) snapshot(ctx context.Context, doc *entity.Document, versionNumber int) (string, []blocks.Block, error) {
	if versionNumber == 0 {
		return doc.Title, doc.Content, nil
	}
	version, err := s.findVersion(ctx, doc.Id, versionNumber)
	if err != nil {
		return "", nil, err
	}
	return version.Title, version.Content, nil
}

func (s *versionService) findVersion(ctx context.Context, documentId uuid.UUID, versionNumber int) (*entity.DocumentVersion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.DocumentVersionRepository().FindOne(ctx,
		specification.ByDocumentId{DocumentId: documentId},
		specification.ByVersionNumber{VersionNumber: versionNumber},
	)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("%w: version %d", entity.ErrNotFound, versionNumber)
	}
	return version, nil
}

func (s *versionService) ownedDocument(ctx context.Context, userId, documentId uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, entity.ErrNotFound
	}
	return doc, nil
}

func (s *versionService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		s.log.Warn("version-service", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
