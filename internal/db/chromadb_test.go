package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientForServer points a ChromaDB client at an httptest server
func clientForServer(t *testing.T, server *httptest.Server, tenant, database string) *ChromaDBClient {
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewChromaDBClient(ChromaDBConfig{
		Host:     u.Hostname(),
		Port:     port,
		Tenant:   tenant,
		Database: database,
		Timeout:  5 * time.Second,
	})
}

func TestNewChromaDBClient_Defaults(t *testing.T) {
	client := NewChromaDBClient(ChromaDBConfig{
		Host: "localhost",
		Port: 8000,
	})

	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, "http://localhost:8000", client.hostURL)
	assert.Contains(t, client.baseURL, "tenants/default_tenant")
	assert.Contains(t, client.baseURL, "databases/default_database")
}

func TestHeartbeat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/heartbeat", r.URL.Path)
		w.Write([]byte(`{"nanosecond heartbeat": 1}`))
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")
	assert.NoError(t, client.Heartbeat(context.Background()))
}

func TestHeartbeat_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")
	err := client.Heartbeat(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCreateCollection_DefaultsToCosine(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/collections"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(Collection{ID: "col-1", Name: "steel-index"})
	}))
	defer server.Close()

	client := clientForServer(t, server, "custom_tenant", "custom_db")

	collection, err := client.CreateCollection(context.Background(), "steel-index", nil)

	require.NoError(t, err)
	assert.Equal(t, "col-1", collection.ID)

	metadata := gotPayload["metadata"].(map[string]interface{})
	assert.Equal(t, "cosine", metadata["hnsw:space"])
}

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/collections/steel-index"):
			json.NewEncoder(w).Encode(Collection{ID: "col-1", Name: "steel-index"})
		case strings.HasSuffix(r.URL.Path, "/collections/col-1/query"):
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, float64(10), payload["n_results"])

			json.NewEncoder(w).Encode(QueryResponse{
				IDs:       [][]string{{"c1", "c2"}},
				Documents: [][]string{{"passage one", "passage two"}},
				Metadatas: [][]map[string]interface{}{{{"source": "a.pdf"}, {"source": "b.pdf"}}},
				Distances: [][]float32{{0.1, 0.3}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")

	resp, err := client.Query(context.Background(), "steel-index", [][]float32{make([]float32, 768)}, 10)

	require.NoError(t, err)
	require.Len(t, resp.IDs, 1)
	assert.Equal(t, []string{"c1", "c2"}, resp.IDs[0])
	assert.Equal(t, "passage one", resp.Documents[0][0])
	assert.Equal(t, float32(0.3), resp.Distances[0][1])
}

func TestAddDocuments(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/collections/steel-index"):
			json.NewEncoder(w).Encode(Collection{ID: "col-1", Name: "steel-index"})
		case strings.HasSuffix(r.URL.Path, "/collections/col-1/add"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")

	err := client.AddDocuments(context.Background(), "steel-index",
		[]string{"c1"},
		[]string{"passage"},
		[][]float32{{0.1, 0.2}},
		[]map[string]interface{}{{"source": "a.pdf"}},
	)

	require.NoError(t, err)
	assert.Equal(t, []interface{}{"c1"}, gotPayload["ids"])
	assert.NotNil(t, gotPayload["metadatas"])
}

func TestGetCollection_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")

	_, err := client.GetCollection(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollectionNotFound))
}

func TestGetCollection_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")

	_, err := client.GetCollection(context.Background(), "steel-index")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCollectionNotFound))
}

func TestDeleteCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := clientForServer(t, server, "", "")
	assert.NoError(t, client.DeleteCollection(context.Background(), "steel-index"))
}
