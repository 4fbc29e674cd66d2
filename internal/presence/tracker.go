package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"docbuilder-be/internal/pkg/logger"
)

// ViewerTTL is how long a heartbeat keeps a viewer listed.
const ViewerTTL = 45 * time.Second

// Tracker records who is currently viewing a document. Each viewer
// heartbeats its own key; listing scans the document's key space, so
// expiry needs no cleanup pass. Degrades to a no-op without Redis.
type Tracker struct {
	rdb *redis.Client
	log logger.ILogger
}

func NewTracker(rdb *redis.Client, log logger.ILogger) *Tracker {
	return &Tracker{
		rdb: rdb,
		log: log,
	}
}

func viewerKey(documentId uuid.UUID, viewer string) string {
	return fmt.Sprintf("presence:%s:%s", documentId, viewer)
}

// Heartbeat marks the viewer as present on the document for ViewerTTL.
func (t *Tracker) Heartbeat(ctx context.Context, documentId uuid.UUID, viewer string) error {
	if t.rdb == nil {
		return nil
	}
	err := t.rdb.Set(ctx, viewerKey(documentId, viewer), time.Now().Unix(), ViewerTTL).Err()
	if err != nil {
		t.log.Warn("presence", "heartbeat failed", map[string]interface{}{
			"document_id": documentId,
			"viewer":      viewer,
			"error":       err.Error(),
		})
	}
	return err
}

// Viewers lists everyone with a live heartbeat on the document.
func (t *Tracker) Viewers(ctx context.Context, documentId uuid.UUID) ([]string, error) {
	if t.rdb == nil {
		return []string{}, nil
	}

	pattern := fmt.Sprintf("presence:%s:*", documentId)
	prefix := fmt.Sprintf("presence:%s:", documentId)

	viewers := []string{}
	iter := t.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		viewers = append(viewers, iter.Val()[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return viewers, nil
}

// Leave drops the viewer immediately instead of waiting for TTL expiry.
func (t *Tracker) Leave(ctx context.Context, documentId uuid.UUID, viewer string) error {
	if t.rdb == nil {
		return nil
	}
	return t.rdb.Del(ctx, viewerKey(documentId, viewer)).Err()
}
