package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/storage/filecache"
)

const serperBody = `{
	"organic": [
		{"title": "DA price monitoring", "link": "https://www.da.gov.ph/price-monitoring/", "snippet": "Daily retail prices", "source": "da.gov.ph", "date": "Aug 30, 2026"},
		{"title": "PSA palay estimates", "link": "https://psa.gov.ph/statistics/palay", "snippet": "Quarterly estimates"}
	]
}`

func testConfig(baseURL, key string) *config.SearchConfig {
	return &config.SearchConfig{
		APIKey:          key,
		BaseURL:         baseURL,
		TimeoutSeconds:  2,
		Geolocation:     "ph",
		Language:        "en",
		CacheTTLSeconds: 1800,
	}
}

func TestSerper_Search(t *testing.T) {
	t.Parallel()

	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-API-KEY")
		assert.Equal(t, "ph", r.URL.Query().Get("gl"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		_, _ = w.Write([]byte(serperBody))
	}))
	defer server.Close()

	s := New(testConfig(server.URL, "secret"), nil)

	results := s.Search(context.Background(), "rice price Nueva Ecija", 5, false)

	assert.Equal(t, "rice price Nueva Ecija Philippines", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "rice price Nueva Ecija", results.Query)
	require.Len(t, results.Organic, 2)
	assert.Equal(t, "DA price monitoring", results.Organic[0].Title)
	assert.Equal(t, "da.gov.ph", results.Organic[0].Source)
	assert.Equal(t, "Serper Search", results.Organic[1].Source)
	require.Len(t, results.Sources, 2)
	assert.Equal(t, "https://www.da.gov.ph/price-monitoring/", results.Sources[0].URL)
}

func TestSerper_QueryAlreadyLocalized(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer server.Close()

	s := New(testConfig(server.URL, "secret"), nil)
	s.Search(context.Background(), "rice imports Philippines", 5, false)

	assert.Equal(t, "rice imports Philippines", gotQuery)
}

func TestSerper_ShortCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(serperBody))
	}))
	defer server.Close()

	s := New(testConfig(server.URL, "secret"), nil)
	ctx := context.Background()

	weather := s.Search(ctx, "bagyo forecast Benguet", 5, false)
	assert.Empty(t, weather.Organic)
	assert.Equal(t, int32(0), calls.Load())

	clock := s.Search(ctx, "anong oras na", 5, false)
	assert.Empty(t, clock.Organic)
	assert.Equal(t, int32(0), calls.Load())

	// force bypasses the short-circuit
	forced := s.Search(ctx, "PAGASA weather forecast Benguet today", 5, true)
	assert.Len(t, forced.Organic, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSerper_UpstreamFailureIsEmptyNotError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := New(testConfig(server.URL, "secret"), nil)

	results := s.Search(context.Background(), "fertilizer subsidy", 5, false)

	assert.Equal(t, "fertilizer subsidy", results.Query)
	assert.Empty(t, results.Organic)
	assert.Empty(t, results.Sources)
	assert.WithinDuration(t, time.Now(), results.Timestamp, time.Minute)
}

func TestSerper_MissingKeyDegrades(t *testing.T) {
	t.Parallel()

	s := New(testConfig("http://127.0.0.1:0", ""), nil)

	results := s.Search(context.Background(), "land preparation tips", 5, false)

	assert.Empty(t, results.Organic)
}

func TestSerper_CachesResults(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(serperBody))
	}))
	defer server.Close()

	cache, err := filecache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	s := New(testConfig(server.URL, "secret"), cache)
	ctx := context.Background()

	first := s.Search(ctx, "corn planting schedule", 5, false)
	second := s.Search(ctx, "corn planting schedule", 5, false)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first.Organic, second.Organic)
}
