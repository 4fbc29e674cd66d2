package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/internal/dto"
	"docbuilder-be/internal/entity"
	"docbuilder-be/internal/repository/contract"
	"docbuilder-be/internal/repository/memory"
	"docbuilder-be/internal/repository/specification"
	"docbuilder-be/internal/repository/unitofwork"
	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/builder"
	"docbuilder-be/pkg/condition"
)

// In-memory repository fakes. Specifications are interpreted by type
// switch, mirroring what the gorm implementations translate to SQL.

type fakeStore struct {
	mu       sync.Mutex
	docs     map[uuid.UUID]*entity.Document
	versions map[uuid.UUID]*entity.DocumentVersion
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     make(map[uuid.UUID]*entity.Document),
		versions: make(map[uuid.UUID]*entity.DocumentVersion),
	}
}

func cloneDocument(d *entity.Document) *entity.Document {
	c := *d
	c.Content = blocks.CloneSlice(d.Content)
	c.Variables = make(map[string]string, len(d.Variables))
	for k, v := range d.Variables {
		c.Variables[k] = v
	}
	return &c
}

type fakeDocumentRepo struct{ store *fakeStore }

func (r *fakeDocumentRepo) matches(doc *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if doc.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if doc.UserId != s.UserId {
				return false
			}
		case specification.ByStatus:
			if string(doc.Status) != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docs[doc.Id] = cloneDocument(doc)
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docs[doc.Id] = cloneDocument(doc)
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.docs, id)
	return nil
}

func (r *fakeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, doc := range r.store.docs {
		if r.matches(doc, specs) {
			return cloneDocument(doc), nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Document
	for _, doc := range r.store.docs {
		if r.matches(doc, specs) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, _ := r.FindAll(ctx, specs...)
	return int64(len(docs)), nil
}

type fakeVersionRepo struct{ store *fakeStore }

func (r *fakeVersionRepo) matches(v *entity.DocumentVersion, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByDocumentId:
			if v.DocumentId != s.DocumentId {
				return false
			}
		case specification.ByVersionNumber:
			if v.VersionNumber != s.VersionNumber {
				return false
			}
		}
	}
	return true
}

func (r *fakeVersionRepo) Create(_ context.Context, version *entity.DocumentVersion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *version
	r.store.versions[version.Id] = &c
	return nil
}

func (r *fakeVersionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.DocumentVersion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, v := range r.store.versions {
		if r.matches(v, specs) {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeVersionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.DocumentVersion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.DocumentVersion
	for _, v := range r.store.versions {
		if r.matches(v, specs) {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber > out[j].VersionNumber
	})
	return out, nil
}

func (r *fakeVersionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	versions, _ := r.FindAll(ctx, specs...)
	return int64(len(versions)), nil
}

func (r *fakeVersionRepo) MaxVersionNumber(_ context.Context, documentId uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, v := range r.store.versions {
		if v.DocumentId == documentId && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max, nil
}

type fakeUow struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUow) Begin(context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return errors.New("no transaction to rollback")
	}
	u.inTx = false
	return nil
}

func (u *fakeUow) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{store: u.store}
}

func (u *fakeUow) DocumentVersionRepository() contract.DocumentVersionRepository {
	return &fakeVersionRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type testEnv struct {
	store    *fakeStore
	docs     IDocumentService
	versions IVersionService
	builders IBuilderService
	userId   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	factory := &fakeFactory{store: store}
	docs := NewDocumentService(factory, nil, noopLogger{})
	versions := NewVersionService(factory, nil, noopLogger{})
	builders := NewBuilderService(factory, memory.NewBuilderSessionRepository(time.Hour), versions, noopLogger{})
	return &testEnv{
		store:    store,
		docs:     docs,
		versions: versions,
		builders: builders,
		userId:   uuid.New(),
	}
}

func (e *testEnv) createDocument(t *testing.T, content ...blocks.Block) uuid.UUID {
	t.Helper()
	res, err := e.docs.Create(context.Background(), e.userId, &dto.CreateDocumentRequest{
		Title:   "Proposal",
		Content: content,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return res.Id
}

func TestCaptureAllocatesMonotonicVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	for want := 1; want <= 3; want++ {
		got, err := env.versions.Capture(ctx, env.userId, id, entity.ChangeTypeUpdate, "")
		if err != nil {
			t.Fatalf("Capture %d: %v", want, err)
		}
		if got != want {
			t.Errorf("Capture returned version %d, want %d", got, want)
		}
	}

	doc, err := env.docs.Show(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if doc.CurrentVersion != 3 {
		t.Errorf("CurrentVersion = %d, want 3", doc.CurrentVersion)
	}
}

func TestHistorySynthesizesCurrentFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	if _, err := env.versions.Capture(ctx, env.userId, id, entity.ChangeTypeCreate, "initial"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if _, err := env.versions.Capture(ctx, env.userId, id, entity.ChangeTypeUpdate, "edit"); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	history, err := env.versions.History(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history.Versions) != 3 {
		t.Fatalf("History returned %d entries, want 3", len(history.Versions))
	}
	if history.Versions[0].ChangeType != entity.ChangeTypeCurrent {
		t.Errorf("first entry changeType = %q, want current", history.Versions[0].ChangeType)
	}
	// The pseudo-version carries the document's current version number and
	// still sorts ahead of the stored row with that number.
	if history.Versions[0].VersionNumber != 2 {
		t.Errorf("pseudo-version number = %d, want 2", history.Versions[0].VersionNumber)
	}
	if history.Versions[1].VersionNumber != 2 || history.Versions[1].ChangeType != entity.ChangeTypeUpdate {
		t.Errorf("second entry = v%d %q, want stored v2 update",
			history.Versions[1].VersionNumber, history.Versions[1].ChangeType)
	}
	for i := 1; i < len(history.Versions); i++ {
		if history.Versions[i-1].VersionNumber < history.Versions[i].VersionNumber {
			t.Errorf("history not sorted descending at %d: %d then %d",
				i, history.Versions[i-1].VersionNumber, history.Versions[i].VersionNumber)
		}
	}
}

func TestUpdateVariablesRejectsBadNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	tests := []struct {
		name      string
		variables map[string]string
		wantErr   bool
	}{
		{"valid names", map[string]string{"client_name": "Acme", "fee_2024": "500"}, false},
		{"illegal character", map[string]string{"client-name": "Acme"}, true},
		{"embedded space", map[string]string{"client name": "Acme"}, true},
		{"case-insensitive duplicate", map[string]string{"Fee": "1", "fee": "2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.docs.UpdateVariables(ctx, env.userId, &dto.UpdateVariablesRequest{
				Id:        id,
				Variables: tt.variables,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateVariables error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, entity.ErrInvalidVariables) {
				t.Errorf("error should wrap ErrInvalidVariables, got %v", err)
			}
		})
	}
}

func TestLockedDocumentPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	// Walk the document to signed so the lock is set.
	if err := env.docs.Send(ctx, env.userId, &dto.SendDocumentRequest{Id: id}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := env.docs.Sign(ctx, &dto.SignDocumentRequest{
		Id: id, SignerEmail: "client@example.com", SignerName: "Client",
	}); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	err := env.docs.UpdateContent(ctx, env.userId, &dto.UpdateContentRequest{
		Id:      id,
		Content: []blocks.Block{blocks.CreateDefault(blocks.TypeText)},
	})
	if !errors.Is(err, builder.ErrDocumentLocked) {
		t.Errorf("UpdateContent on locked doc: error = %v, want ErrDocumentLocked", err)
	}

	err = env.docs.UpdateVariables(ctx, env.userId, &dto.UpdateVariablesRequest{
		Id:        id,
		Variables: map[string]string{"fee": "500"},
	})
	if !errors.Is(err, builder.ErrDocumentLocked) {
		t.Errorf("UpdateVariables on locked doc: error = %v, want ErrDocumentLocked", err)
	}

	// Title correction stays available after signing.
	if err := env.docs.UpdateTitle(ctx, env.userId, &dto.UpdateTitleRequest{
		Id: id, Title: "Corrected title",
	}); err != nil {
		t.Errorf("UpdateTitle on locked doc: %v", err)
	}
}

func TestSignStampsMatchingSignatureBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sig := blocks.CreateDefault(blocks.TypeSignature)
	sig.SignerEmail = "client@example.com"
	other := blocks.CreateDefault(blocks.TypeSignature)
	other.SignerEmail = "someone@else.com"
	id := env.createDocument(t, sig, other)

	if err := env.docs.Send(ctx, env.userId, &dto.SendDocumentRequest{Id: id}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := env.docs.Sign(ctx, &dto.SignDocumentRequest{
		Id: id, SignerEmail: "CLIENT@example.com", SignerName: "Client",
	}); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	doc, err := env.docs.Show(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if doc.Content[0].SignedAt == nil || doc.Content[0].SignedBy != "Client" {
		t.Errorf("matching signature block not stamped: %+v", doc.Content[0])
	}
	if doc.Content[1].SignedAt != nil {
		t.Errorf("non-matching signature block stamped: %+v", doc.Content[1])
	}
}

func TestBuilderSaveCutsVersionAndClearsDirty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	if _, err := env.builders.OpenSession(ctx, env.userId, id); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	state, err := env.builders.Dispatch(ctx, env.userId, &dto.DispatchActionRequest{
		DocumentId: id,
		Type:       string(builder.ActionAddBlock),
		BlockType:  string(blocks.TypeHeading),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !state.IsDirty {
		t.Error("state should be dirty after a mutation")
	}

	saved, err := env.builders.Save(ctx, env.userId, &dto.SaveSessionRequest{
		DocumentId:        id,
		ChangeDescription: "added heading",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CurrentVersion != 1 {
		t.Errorf("CurrentVersion = %d, want 1", saved.CurrentVersion)
	}

	state, err = env.builders.GetSession(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if state.IsDirty || state.IsSaving {
		t.Errorf("state after save: isDirty=%v isSaving=%v, want both false", state.IsDirty, state.IsSaving)
	}
	if state.LastSavedAt == nil {
		t.Error("LastSavedAt not set by save")
	}

	doc, err := env.docs.Show(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Type != blocks.TypeHeading {
		t.Errorf("persisted content = %+v, want the added heading", doc.Content)
	}
}

func TestBuilderDispatchRefreshesLock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	if _, err := env.builders.OpenSession(ctx, env.userId, id); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	// Document gets signed while the editor is open.
	if err := env.docs.Send(ctx, env.userId, &dto.SendDocumentRequest{Id: id}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := env.docs.Sign(ctx, &dto.SignDocumentRequest{
		Id: id, SignerEmail: "client@example.com", SignerName: "Client",
	}); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	_, err := env.builders.Dispatch(ctx, env.userId, &dto.DispatchActionRequest{
		DocumentId: id,
		Type:       string(builder.ActionAddBlock),
		BlockType:  string(blocks.TypeText),
	})
	if !errors.Is(err, builder.ErrDocumentLocked) {
		t.Errorf("Dispatch after external signature: error = %v, want ErrDocumentLocked", err)
	}
}

func TestPreviewFiltersAndInterpolates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	greeting := blocks.CreateDefault(blocks.TypeText)
	greeting.Content = "Hello {{recipient.name}}, your rate is {{hourly_rate}}."

	hidden := blocks.CreateDefault(blocks.TypeText)
	hidden.Content = "Enterprise addendum"
	hidden.Visibility = &condition.Visibility{
		Condition: &condition.Group{
			Logic: condition.LogicAnd,
			Rules: []condition.Node{condition.RuleNode("plan", condition.OpEqual, "enterprise")},
		},
	}

	id := env.createDocument(t, greeting, hidden)

	if err := env.docs.UpdateVariables(ctx, env.userId, &dto.UpdateVariablesRequest{
		Id:        id,
		Variables: map[string]string{"hourly_rate": "$150", "plan": "starter"},
	}); err != nil {
		t.Fatalf("UpdateVariables: %v", err)
	}

	res, err := env.docs.Preview(ctx, env.userId, &dto.PreviewDocumentRequest{
		Id:        id,
		Recipient: dto.PartyPayload{Name: "Ana"},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.Blocks) != 1 {
		t.Fatalf("Preview returned %d blocks, want 1 (condition hides the addendum)", len(res.Blocks))
	}
	if want := "Hello Ana, your rate is $150."; res.Blocks[0].Content != want {
		t.Errorf("interpolated content = %q, want %q", res.Blocks[0].Content, want)
	}
}

func TestLifecycleRejectsInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createDocument(t)

	// Draft documents cannot be signed directly.
	err := env.docs.Sign(ctx, &dto.SignDocumentRequest{
		Id: id, SignerEmail: "client@example.com", SignerName: "Client",
	})
	if !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("Sign on draft: error = %v, want ErrInvalidTransition", err)
	}

	// Completing requires a signature first.
	if err := env.docs.Send(ctx, env.userId, &dto.SendDocumentRequest{Id: id}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	err = env.docs.Complete(ctx, env.userId, id)
	if !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("Complete on sent: error = %v, want ErrInvalidTransition", err)
	}
}

func TestRestoreRecordsBothVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	original := blocks.CreateDefault(blocks.TypeText)
	original.Content = "v1 text"
	id := env.createDocument(t, original)

	if _, err := env.versions.Capture(ctx, env.userId, id, entity.ChangeTypeCreate, "initial"); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	edited := original
	edited.Content = "v2 text"
	if err := env.docs.UpdateContent(ctx, env.userId, &dto.UpdateContentRequest{
		Id: id, Content: []blocks.Block{edited},
	}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	res, err := env.versions.Restore(ctx, env.userId, &dto.RestoreVersionRequest{
		DocumentId:    id,
		VersionNumber: 1,
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	// v1 stored, pre-restore snapshot is v2, restore itself is v3.
	if res.CurrentVersion != 3 {
		t.Errorf("CurrentVersion after restore = %d, want 3", res.CurrentVersion)
	}

	doc, err := env.docs.Show(ctx, env.userId, id)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if doc.Content[0].Content != "v1 text" {
		t.Errorf("restored content = %q, want v1 text", doc.Content[0].Content)
	}
}
