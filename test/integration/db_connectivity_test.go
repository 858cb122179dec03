package integration

import (
	"context"
	"testing"
	"time"

	chroma "github.com/amikos-tech/chroma-go"
	"github.com/redis/go-redis/v9"
)

// TestChromaDBConnectivity tests basic connection to ChromaDB
// NOTE: ChromaDB Go client (v0.3.0-alpha.1) has v1/v2 API compatibility issues,
// which is why the production path talks to the REST API directly
func TestChromaDBConnectivity(t *testing.T) {
	// Skip if running in CI without ChromaDB
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := chroma.NewClient(chroma.WithBasePath("http://localhost:8000"))
	if err != nil {
		t.Fatalf("Failed to create ChromaDB client: %v", err)
	}

	// This may fail with a v1/v2 API mismatch - that's expected
	collections, err := client.ListCollections(ctx)
	if err != nil {
		t.Logf("ChromaDB client has API version issues (expected): %v", err)
		t.Skip("Skipping due to known client API compatibility issues - production uses the HTTP wrapper")
		return
	}

	t.Logf("ChromaDB connected successfully. Found %d collections", len(collections))
}

// TestRedisConnectivity tests basic connection to Redis
func TestRedisConnectivity(t *testing.T) {
	// Skip if running in CI without Redis
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	defer client.Close()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	if pong != "PONG" {
		t.Fatalf("Expected PONG, got %s", pong)
	}

	testKey := "test:connection:key"
	testValue := "test-value"

	if err := client.Set(ctx, testKey, testValue, 10*time.Second).Err(); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	val, err := client.Get(ctx, testKey).Result()
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}

	if val != testValue {
		t.Fatalf("Expected %s, got %s", testValue, val)
	}

	client.Del(ctx, testKey)

	t.Log("Redis connected successfully and basic operations work")
}

// TestRedisRegistryOperations tests the Redis operations the document
// registry is built on
func TestRedisRegistryOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	// The registry stores one JSON record per document plus a set of IDs.
	recordKey := "test:steel:document:12345"
	record := `{"document_id":"12345","filename":"ASTM_A106.pdf","pages":12,"chunk_count":40,"status":"indexed"}`

	if err := client.Set(ctx, recordKey, record, 0).Err(); err != nil {
		t.Fatalf("Failed to set record: %v", err)
	}

	got, err := client.Get(ctx, recordKey).Result()
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if got != record {
		t.Fatalf("Record round-trip mismatch: %s", got)
	}

	setKey := "test:steel:documents:index"
	if err := client.SAdd(ctx, setKey, "12345", "67890").Err(); err != nil {
		t.Fatalf("Failed to add to set: %v", err)
	}

	members, err := client.SMembers(ctx, setKey).Result()
	if err != nil {
		t.Fatalf("Failed to get set members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}

	client.Del(ctx, recordKey, setKey)

	t.Log("All Redis registry operations completed successfully")
}
