package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis returns a client against a local Redis, skipping when none
// is running
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use separate DB for testing
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())
	return client
}

func createTestDocument(id, filename string) *Document {
	return &Document{
		ID:         id,
		Filename:   filename,
		Pages:      12,
		ChunkCount: 40,
		Status:     "indexed",
		IngestedAt: time.Now(),
	}
}

func TestRedisDocumentRepository_RegisterAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)
	ctx := context.Background()

	doc := createTestDocument("doc-1", "ASTM_A106.pdf")
	require.NoError(t, repo.Register(ctx, doc))

	got, err := repo.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "ASTM_A106.pdf", got.Filename)
	assert.Equal(t, 12, got.Pages)
	assert.Equal(t, 40, got.ChunkCount)
	assert.Equal(t, "indexed", got.Status)
}

func TestRedisDocumentRepository_RegisterValidation(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)
	ctx := context.Background()

	err := repo.Register(ctx, &Document{Filename: "no-id.pdf"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "document ID is required")

	err = repo.Register(ctx, &Document{ID: "doc-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "filename is required")
}

func TestRedisDocumentRepository_RegisterOverwrites(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, createTestDocument("doc-1", "ASTM_A106.pdf")))

	updated := createTestDocument("doc-1", "ASTM_A106.pdf")
	updated.ChunkCount = 55
	require.NoError(t, repo.Register(ctx, updated))

	got, err := repo.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 55, got.ChunkCount)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRedisDocumentRepository_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}

func TestRedisDocumentRepository_ListSorted(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, createTestDocument("doc-2", "NACE_MR0175_ISO15156.pdf")))
	require.NoError(t, repo.Register(ctx, createTestDocument("doc-1", "ASTM_A106.pdf")))
	require.NoError(t, repo.Register(ctx, createTestDocument("doc-3", "ASTM_A53.pdf")))

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "ASTM_A106.pdf", docs[0].Filename)
	assert.Equal(t, "ASTM_A53.pdf", docs[1].Filename)
	assert.Equal(t, "NACE_MR0175_ISO15156.pdf", docs[2].Filename)
}

func TestRedisDocumentRepository_ExistsAndClear(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisDocumentRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Register(ctx, createTestDocument("doc-1", "ASTM_A106.pdf")))

	exists, err := repo.Exists(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Clear(ctx))

	exists, err = repo.Exists(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, exists)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
