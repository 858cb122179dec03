package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "steel:document:"
	documentIndexKey  = "steel:documents:index"
)

// RedisDocumentRepository implements DocumentRepository using Redis
type RedisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository creates a new Redis-based document registry
func NewRedisDocumentRepository(client *redis.Client) *RedisDocumentRepository {
	return &RedisDocumentRepository{
		client: client,
	}
}

// Register stores a registry record. Re-registering the same document
// overwrites the previous record; registry records carry no dedup state for
// the index itself.
func (r *RedisDocumentRepository) Register(ctx context.Context, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now()
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "failed to marshal document")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, documentKeyPrefix+doc.ID, docJSON, 0)
	pipe.SAdd(ctx, documentIndexKey, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "failed to execute transaction")
	}

	return nil
}

// Get retrieves a registry record by document ID
func (r *RedisDocumentRepository) Get(ctx context.Context, documentID string) (*Document, error) {
	docJSON, err := r.client.Get(ctx, documentKeyPrefix+documentID).Result()
	if err == redis.Nil {
		return nil, DocumentNotFoundError(documentID)
	}
	if err != nil {
		return nil, NewDocumentRepositoryError("get", documentID, err, "")
	}

	var doc Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, NewDocumentRepositoryError("get", documentID, err, "failed to unmarshal document")
	}

	return &doc, nil
}

// List retrieves all registry records, sorted by filename for stable output
func (r *RedisDocumentRepository) List(ctx context.Context) ([]*Document, error) {
	docIDs, err := r.client.SMembers(ctx, documentIndexKey).Result()
	if err != nil {
		return nil, NewDocumentRepositoryError("list", "", err, "")
	}

	docs := make([]*Document, 0, len(docIDs))
	for _, id := range docIDs {
		doc, err := r.Get(ctx, id)
		if err != nil {
			// Index entry without a record; skip rather than fail the listing.
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Filename < docs[j].Filename
	})

	return docs, nil
}

// Exists checks if a registry record is present
func (r *RedisDocumentRepository) Exists(ctx context.Context, documentID string) (bool, error) {
	n, err := r.client.Exists(ctx, documentKeyPrefix+documentID).Result()
	if err != nil {
		return false, NewDocumentRepositoryError("exists", documentID, err, "")
	}
	return n > 0, nil
}

// Clear removes every registry record
func (r *RedisDocumentRepository) Clear(ctx context.Context) error {
	docIDs, err := r.client.SMembers(ctx, documentIndexKey).Result()
	if err != nil {
		return NewDocumentRepositoryError("clear", "", err, "")
	}

	pipe := r.client.TxPipeline()
	for _, id := range docIDs {
		pipe.Del(ctx, documentKeyPrefix+id)
	}
	pipe.Del(ctx, documentIndexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return NewDocumentRepositoryError("clear", "", err, "failed to execute transaction")
	}

	return nil
}
