package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"docbuilder-be/pkg/builder"
)

// BuilderSessionRepository keeps in-flight editing sessions in memory.
// A session is one user's builder state for one document; it expires when
// the editor goes idle for the configured TTL.
type BuilderSessionRepository struct {
	cache *cache.Cache
}

func NewBuilderSessionRepository(ttl time.Duration) *BuilderSessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &BuilderSessionRepository{
		cache: c,
	}
}

func sessionKey(documentId, userId uuid.UUID) string {
	return documentId.String() + ":" + userId.String()
}

func (r *BuilderSessionRepository) Save(documentId, userId uuid.UUID, state *builder.State) {
	r.cache.Set(sessionKey(documentId, userId), state, cache.DefaultExpiration)
}

func (r *BuilderSessionRepository) Get(documentId, userId uuid.UUID) (*builder.State, bool) {
	if x, found := r.cache.Get(sessionKey(documentId, userId)); found {
		return x.(*builder.State), true
	}
	return nil, false
}

func (r *BuilderSessionRepository) Delete(documentId, userId uuid.UUID) {
	r.cache.Delete(sessionKey(documentId, userId))
}
