package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/config"
)

func newTestOllama(baseURL string) *Ollama {
	return NewOllama(&config.OllamaConfig{
		BaseURL:     baseURL,
		Model:       "llama3.1:8b",
		Temperature: 0.7,
	})
}

func TestOllama_Generate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.1:8b", body["model"])
		assert.Equal(t, false, body["stream"])
		assert.Contains(t, body["prompt"], "carrots")

		_, _ = w.Write([]byte(`{"response": "Plant carrots in well-drained loam."}`))
	}))
	defer server.Close()

	answer, err := newTestOllama(server.URL).Generate(context.Background(), "How do I grow carrots?")
	require.NoError(t, err)
	assert.Equal(t, "Plant carrots in well-drained loam.", answer)
}

func TestOllama_GenerateUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestOllama(server.URL).Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOllama_Status(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models": [{"name": "mistral:7b"}, {"name": "llama3.1:8b"}]}`))
	}))
	defer server.Close()

	ready, err := newTestOllama(server.URL).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestOllama_StatusModelMissing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	ready, err := newTestOllama(server.URL).Status(context.Background())
	require.NoError(t, err)
	assert.False(t, ready)
}
