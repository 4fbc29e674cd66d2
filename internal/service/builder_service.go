package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/pkg/logger"
	"docbuilder-be/internal/repository/memory"
	"docbuilder-be/internal/repository/specification"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/builder"
)

type IBuilderService interface {
	OpenSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.BuilderStateResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.BuilderStateResponse, error)
	Dispatch(ctx context.Context, userId uuid.UUID, req *dto.DispatchActionRequest) (*dto.BuilderStateResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error)
	CloseSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID)
}

type builderService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       *memory.BuilderSessionRepository
	versionService IVersionService
	log            logger.ILogger
}

func NewBuilderService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.BuilderSessionRepository,
	versionService IVersionService,
	log logger.ILogger,
) IBuilderService {
	return &builderService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		versionService: versionService,
		log:            log,
	}
}

// OpenSession seeds a fresh editing state from the stored document. An
// existing session for the same (document, editor) pair is replaced, which
// also discards its undo history.
func (s *builderService) OpenSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.BuilderStateResponse, error) {
	doc, err := s.ownedDocument(ctx, userId, documentId)
	if err != nil {
		return nil, err
	}

	state := builder.NewState()
	err = state.Dispatch(builder.Action{
		Type: builder.ActionSetDocument,
		Document: &builder.DocumentPayload{
			DocumentId: doc.Id,
			Title:      doc.Title,
			Blocks:     doc.Content,
			IsLocked:   doc.IsLocked(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.sessions.Save(documentId, userId, state)
	return stateResponse(state), nil
}

func (s *builderService) GetSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.BuilderStateResponse, error) {
	state, found := s.sessions.Get(documentId, userId)
	if !found {
		return nil, fmt.Errorf("%w: no open builder session", entity.ErrNotFound)
	}
	return stateResponse(state), nil
}

// Dispatch applies one reducer action to the session. The lock flag is
// refreshed from the stored document first, so a signature landing while
// the editor is open takes effect on the next action.
func (s *builderService) Dispatch(ctx context.Context, userId uuid.UUID, req *dto.DispatchActionRequest) (*dto.BuilderStateResponse, error) {
	state, found := s.sessions.Get(req.DocumentId, userId)
	if !found {
		return nil, fmt.Errorf("%w: no open builder session", entity.ErrNotFound)
	}

	doc, err := s.ownedDocument(ctx, userId, req.DocumentId)
	if err != nil {
		return nil, err
	}
	state.IsLocked = doc.IsLocked()

	action, err := toAction(req)
	if err != nil {
		return nil, err
	}
	if err := state.Dispatch(action); err != nil {
		return nil, err
	}

	s.sessions.Save(req.DocumentId, userId, state)
	return stateResponse(state), nil
}

// Save brackets persistence with the SetSaving/SetSaved pair, writes the
// session's blocks and title back to the document, and cuts a version.
func (s *builderService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	state, found := s.sessions.Get(req.DocumentId, userId)
	if !found {
		return nil, fmt.Errorf("%w: no open builder session", entity.ErrNotFound)
	}

	doc, err := s.ownedDocument(ctx, userId, req.DocumentId)
	if err != nil {
		return nil, err
	}
	if doc.IsLocked() {
		return nil, builder.ErrDocumentLocked
	}

	if err := state.Dispatch(builder.Action{Type: builder.ActionSetSaving, Saving: true}); err != nil {
		return nil, err
	}

	doc.Title = state.Title
	doc.Content = blocks.CloneSlice(state.Blocks)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		_ = state.Dispatch(builder.Action{Type: builder.ActionSetSaving, Saving: false})
		s.sessions.Save(req.DocumentId, userId, state)
		return nil, err
	}

	changeType := entity.ChangeTypeUpdate
	if doc.CurrentVersion == 0 {
		changeType = entity.ChangeTypeCreate
	}
	versionNumber, err := s.versionService.Capture(ctx, userId, req.DocumentId, changeType, req.ChangeDescription)
	if err != nil {
		_ = state.Dispatch(builder.Action{Type: builder.ActionSetSaving, Saving: false})
		s.sessions.Save(req.DocumentId, userId, state)
		return nil, err
	}

	savedAt := time.Now()
	if err := state.Dispatch(builder.Action{Type: builder.ActionSetSaved, SavedAt: &savedAt}); err != nil {
		return nil, err
	}
	s.sessions.Save(req.DocumentId, userId, state)

	return &dto.SaveSessionResponse{
		DocumentId:     req.DocumentId,
		CurrentVersion: versionNumber,
		SavedAt:        savedAt,
	}, nil
}

func (s *builderService) CloseSession(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) {
	s.sessions.Delete(documentId, userId)
}

func (s *builderService) ownedDocument(ctx context.Context, userId, documentId uuid.UUID) (*entity.Document, error) {
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

// toAction translates the transport payload into a reducer action. An
// ADD_BLOCK without an explicit block gets a registry default for the
// requested type.
func toAction(req *dto.DispatchActionRequest) (builder.Action, error) {
	action := builder.Action{
		Type:    builder.ActionType(req.Type),
		Title:   req.Title,
		Block:   req.Block,
		AtIndex: req.AtIndex,
		BlockId: req.BlockId,
		Patch:   req.Patch,
		FromId:  req.FromId,
		ToId:    req.ToId,
	}

	switch action.Type {
	case builder.ActionSetTitle, builder.ActionAddBlock, builder.ActionRemoveBlock,
		builder.ActionUpdateBlock, builder.ActionMoveBlock, builder.ActionSelectBlock,
		builder.ActionUndo, builder.ActionRedo, builder.ActionClearHistory:
	default:
		return builder.Action{}, fmt.Errorf("%w: unsupported action type %q", entity.ErrInvalidAction, req.Type)
	}

	if action.Type == builder.ActionAddBlock && action.Block == nil {
		if req.BlockType == "" {
			return builder.Action{}, fmt.Errorf("%w: ADD_BLOCK requires a block or block_type", entity.ErrInvalidAction)
		}
		b := blocks.CreateDefault(blocks.Type(req.BlockType))
		action.Block = &b
	}

	return action, nil
}

func stateResponse(state *builder.State) *dto.BuilderStateResponse {
	return &dto.BuilderStateResponse{
		DocumentId:      state.DocumentId,
		Title:           state.Title,
		Blocks:          state.Blocks,
		SelectedBlockId: state.SelectedBlockId,
		IsDirty:         state.IsDirty,
		IsSaving:        state.IsSaving,
		IsLocked:        state.IsLocked,
		CanUndo:         state.CanUndo(),
		CanRedo:         state.CanRedo(),
		LastSavedAt:     state.LastSavedAt,
	}
}
