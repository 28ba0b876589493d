package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingServer returns vectors derived from the input index and records
// the requests it saw.
func embeddingServer(t *testing.T, batchSizes *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*batchSizes = append(*batchSizes, len(req.Input))

		var resp embedResponse
		resp.Model = req.Model
		// answer in reverse order; the client must reassemble by index
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{Embedding: []float32{float32(i), 1, 2}, Index: i})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestEmbedBatchReassemblesByIndex(t *testing.T) {
	var batches []int
	srv := embeddingServer(t, &batches)
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "test-model"})
	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for i, v := range vecs {
		assert.Equal(t, []float32{float32(i), 1, 2}, v)
	}
}

func TestEmbedBatchSplitsLargeInput(t *testing.T) {
	var batches []int
	srv := embeddingServer(t, &batches)
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "test-model", BatchSize: 2})
	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := emb.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vecs, 5)
	assert.Equal(t, []int{2, 2, 1}, batches)
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	emb := New(Config{Endpoint: "http://unused", Model: "test-model"})
	vecs, err := emb.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data":[{"embedding":[1,2,3],"index":0}],"model":"m"}`)
	}))
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "m", APIKey: "secret"})
	_, err := emb.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "m"})
	_, err := emb.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}
