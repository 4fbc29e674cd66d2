package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/pkg/logger"
	"docbuilder-be/internal/repository/specification"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/builder"
	"docbuilder-be/pkg/condition"
	"docbuilder-be/pkg/events"
	"docbuilder-be/pkg/variables"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, status string, limit, offset int) (*dto.ListDocumentsResponse, error)
	UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateTitleRequest) error
	UpdateContent(ctx context.Context, userId uuid.UUID, req *dto.UpdateContentRequest) error
	UpdateVariables(ctx context.Context, userId uuid.UUID, req *dto.UpdateVariablesRequest) error
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Preview(ctx context.Context, userId uuid.UUID, req *dto.PreviewDocumentRequest) (*dto.PreviewDocumentResponse, error)

	Send(ctx context.Context, userId uuid.UUID, req *dto.SendDocumentRequest) error
	MarkViewed(ctx context.Context, id uuid.UUID) error
	Sign(ctx context.Context, req *dto.SignDocumentRequest) error
	Decline(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Expire(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ExpireOverdue(ctx context.Context) (int, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	eventBus   *events.Bus
	log        logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	eventBus *events.Bus,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		log:        log,
	}
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	content := req.Content
	if content == nil {
		content = []blocks.Block{}
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	doc := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   content,
		Variables: map[string]string{},
		Status:    entity.StatusDraft,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	s.publish(ctx, events.DocumentCreated, map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
		"title":       doc.Title,
	})

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	doc, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.ShowDocumentResponse{
		Id:             doc.Id,
		Title:          doc.Title,
		Content:        doc.Content,
		Variables:      doc.Variables,
		Status:         string(doc.Status),
		CurrentVersion: doc.CurrentVersion,
		IsLocked:       doc.IsLocked(),
		SentAt:         doc.SentAt,
		ExpiresAt:      doc.ExpiresAt,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID, status string, limit, offset int) (*dto.ListDocumentsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.OwnedBy{UserId: userId},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.DocumentRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentListItem, len(docs))
	for i, doc := range docs {
		items[i] = dto.DocumentListItem{
			Id:             doc.Id,
			Title:          doc.Title,
			Status:         string(doc.Status),
			CurrentVersion: doc.CurrentVersion,
			IsLocked:       doc.IsLocked(),
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		}
	}

	return &dto.ListDocumentsResponse{Documents: items, Total: total}, nil
}

// UpdateTitle is the one mutation allowed on a locked document. Correcting
// a typo in the title after signature does not alter signed content.
func (s *documentService) UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateTitleRequest) error {
	doc, err := s.findOwned(ctx, userId, req.Id)
	if err != nil {
		return err
	}

	doc.Title = req.Title
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Update(ctx, doc)
}

func (s *documentService) UpdateContent(ctx context.Context, userId uuid.UUID, req *dto.UpdateContentRequest) error {
	doc, err := s.findOwned(ctx, userId, req.Id)
	if err != nil {
		return err
	}
	if doc.IsLocked() {
		return builder.ErrDocumentLocked
	}
	if err := validateContent(req.Content); err != nil {
		return err
	}

	doc.Content = req.Content
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Update(ctx, doc)
}

func (s *documentService) UpdateVariables(ctx context.Context, userId uuid.UUID, req *dto.UpdateVariablesRequest) error {
	doc, err := s.findOwned(ctx, userId, req.Id)
	if err != nil {
		return err
	}
	if doc.IsLocked() {
		return builder.ErrDocumentLocked
	}

	seen := make(map[string]string, len(req.Variables))
	for name := range req.Variables {
		if err := variables.ValidateName(name); err != nil {
			return fmt.Errorf("%w: %v", entity.ErrInvalidVariables, err)
		}
		lower := strings.ToLower(name)
		if prev, dup := seen[lower]; dup {
			return fmt.Errorf("%w: names must be unique ignoring case (%s, %s)",
				entity.ErrInvalidVariables, prev, name)
		}
		seen[lower] = name
	}

	doc.Variables = req.Variables
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Update(ctx, doc)
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	doc, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Delete(ctx, doc.Id)
}

// Preview runs the render pipeline: visibility filtering against the
// document's custom variable values, then interpolation with the
// request-supplied party context.
func (s *documentService) Preview(ctx context.Context, userId uuid.UUID, req *dto.PreviewDocumentRequest) (*dto.PreviewDocumentResponse, error) {
	doc, err := s.findOwned(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}

	fieldValues := make(map[string]interface{}, len(doc.Variables))
	for name, value := range doc.Variables {
		fieldValues[name] = value
	}

	visible := make([]blocks.Block, 0, len(doc.Content))
	for i := range doc.Content {
		if condition.ShouldRender(doc.Content[i].Visibility, fieldValues, req.EditorView) {
			visible = append(visible, doc.Content[i])
		}
	}

	varCtx := &variables.Context{
		Recipient: variables.Party(req.Recipient),
		Sender:    variables.Party(req.Sender),
		Document: variables.DocumentMeta{
			Title:     doc.Title,
			ExpiresAt: doc.ExpiresAt,
		},
	}

	return &dto.PreviewDocumentResponse{
		Title:  variables.Interpolate(doc.Title, doc.Variables, varCtx),
		Blocks: variables.InterpolateBlocks(visible, doc.Variables, varCtx),
	}, nil
}

func (s *documentService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendDocumentRequest) error {
	doc, err := s.findOwned(ctx, userId, req.Id)
	if err != nil {
		return err
	}

	if err := doc.TransitionTo(entity.StatusSent, time.Now()); err != nil {
		return err
	}
	doc.ExpiresAt = req.ExpiresAt

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentSent, map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
		"expires_at":  doc.ExpiresAt,
	})
	return nil
}

// MarkViewed is recipient-facing; a repeat view of an already-viewed
// document is a no-op rather than a transition error.
func (s *documentService) MarkViewed(ctx context.Context, id uuid.UUID) error {
	doc, err := s.findAny(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status == entity.StatusViewed {
		return nil
	}

	if err := doc.TransitionTo(entity.StatusViewed, time.Now()); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentViewed, map[string]interface{}{
		"document_id": doc.Id,
	})
	return nil
}

// Sign transitions the document and stamps the matching signature block.
// The first signature sets locked_at; content is frozen from then on.
func (s *documentService) Sign(ctx context.Context, req *dto.SignDocumentRequest) error {
	doc, err := s.findAny(ctx, req.Id)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := doc.TransitionTo(entity.StatusSigned, now); err != nil {
		return err
	}

	for i := range doc.Content {
		b := &doc.Content[i]
		if b.Type != blocks.TypeSignature {
			continue
		}
		if b.SignerEmail != "" && !strings.EqualFold(b.SignerEmail, req.SignerEmail) {
			continue
		}
		if b.SignedAt == nil {
			b.SignedBy = req.SignerName
			t := now
			b.SignedAt = &t
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentSigned, map[string]interface{}{
		"document_id":  doc.Id,
		"signer_email": req.SignerEmail,
		"signed_at":    now,
	})
	return nil
}

func (s *documentService) Decline(ctx context.Context, id uuid.UUID) error {
	doc, err := s.findAny(ctx, id)
	if err != nil {
		return err
	}

	if err := doc.TransitionTo(entity.StatusDeclined, time.Now()); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentDeclined, map[string]interface{}{
		"document_id": doc.Id,
	})
	return nil
}

func (s *documentService) Complete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	doc, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}

	if err := doc.TransitionTo(entity.StatusCompleted, time.Now()); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentCompleted, map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
	})
	return nil
}

// Expire marks a single outstanding document expired ahead of its deadline.
func (s *documentService) Expire(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	doc, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}

	if err := doc.TransitionTo(entity.StatusExpired, time.Now()); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	s.publish(ctx, events.DocumentExpired, map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
	})
	return nil
}

// ExpireOverdue sweeps sent or viewed documents whose expiry has passed.
// Intended to run periodically from the bootstrap.
func (s *documentService) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.ExpiredBefore{Now: now})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, doc := range docs {
		if err := doc.TransitionTo(entity.StatusExpired, now); err != nil {
			s.log.Warn("document-service", "skipping expiry with invalid transition", map[string]interface{}{
				"document_id": doc.Id,
				"status":      doc.Status,
			})
			continue
		}
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			return expired, err
		}
		s.publish(ctx, events.DocumentExpired, map[string]interface{}{
			"document_id": doc.Id,
		})
		expired++
	}
	return expired, nil
}

func (s *documentService) findOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
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

func (s *documentService) findAny(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, entity.ErrNotFound
	}
	return doc, nil
}

func (s *documentService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Events are auxiliary; the request that produced them still succeeds.
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		s.log.Warn("document-service", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func validateContent(content []blocks.Block) error {
	for i := range content {
		if err := blocks.Validate(&content[i]); err != nil {
			return err
		}
	}
	return blocks.ValidateSequence(content)
}
