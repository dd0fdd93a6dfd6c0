package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProviderGenerate(t *testing.T) {
	var gotBody ollamaEmbeddingRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embedding: []float64{3, 4},
		})
	}))
	defer ts.Close()

	provider := NewOllamaProvider(ts.URL, "nomic-embed-text")

	res, err := provider.Generate(context.Background(), "what are your hours", "RETRIEVAL_QUERY")
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", gotBody.Model)
	assert.Equal(t, "what are your hours", gotBody.Prompt)

	// The raw (3,4) vector comes back unit length.
	require.Len(t, res.Embedding.Values, 2)
	assert.InDelta(t, 0.6, res.Embedding.Values[0], 1e-6)
	assert.InDelta(t, 0.8, res.Embedding.Values[1], 1e-6)
}

func TestOllamaProviderErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	provider := NewOllamaProvider(ts.URL, "missing-model")

	_, err := provider.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNormalizeVector(t *testing.T) {
	out := normalizeVector([]float32{1, 2, 2})

	var magnitude float64
	for _, v := range out {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)

	// Zero vectors pass through untouched.
	zero := normalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}
