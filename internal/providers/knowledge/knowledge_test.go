package knowledge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/internal/storage/sqlite"
	"github.com/sandevgo/agriaid/pkg/log"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()

	ctx, cleanup := log.NewContextWithLogger(context.Background(), false)
	t.Cleanup(cleanup)

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "agriaid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(sqlite.NewKnowledgeRepo(db))
}

func TestResolve_OfficialsSection(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(),
		"Who is the secretary of the Department of Agriculture?", "La Trinidad, Benguet")
	require.NoError(t, err)

	assert.Contains(t, resolved.Text, "=== DEPARTMENT OF AGRICULTURE LEADERSHIP ===")
	assert.Contains(t, resolved.Text, "Secretary Francisco Tiu Laurel Jr.")
	assert.Contains(t, resolved.Text, "=== CAR AGRICULTURE OFFICE ===")
	assert.Contains(t, resolved.Text, "=== BENGUET AGRICULTURE ===")
	assert.Equal(t, core.CategoryOfficial, resolved.Category)
	assert.NotEmpty(t, resolved.Records)
}

func TestResolve_CropSection(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(), "best practices for growing rice", "")
	require.NoError(t, err)

	assert.Contains(t, resolved.Text, "=== PALAY CULTIVATION GUIDE ===")
	assert.Contains(t, resolved.Text, "1. Use certified quality seeds")
	assert.Contains(t, recordURLs(resolved.Records), "https://www.philrice.gov.ph/ricelytics/")
}

func TestResolve_ProgramsSection(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(), "what loan assistance is available", "")
	require.NoError(t, err)

	assert.Contains(t, resolved.Text, "=== GOVERNMENT AGRICULTURAL PROGRAMS ===")
	assert.Contains(t, resolved.Text, "=== AGRICULTURAL FINANCING OPTIONS ===")
	assert.Contains(t, resolved.Text, "LandBank of the Philippines")
}

func TestResolve_PestSection(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(), "how to control armyworm", "")
	require.NoError(t, err)

	assert.Contains(t, resolved.Text, "=== PEST & DISEASE MANAGEMENT ===")
	assert.Contains(t, resolved.Text, "• ARMYWORM")
	assert.Contains(t, resolved.Text, "Bacillus thuringiensis")
}

func TestResolve_SeasonalSection(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(), "what to do in the wet season", "")
	require.NoError(t, err)

	assert.Contains(t, resolved.Text, "=== SEASONAL AGRICULTURAL GUIDE ===")
	assert.Contains(t, resolved.Text, "WET SEASON (June-November)")
	assert.NotContains(t, resolved.Text, "DRY SEASON")
}

func TestResolve_NoMatchIsEmptyNotError(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	resolved, err := resolver.Resolve(context.Background(), "hello there", "")
	require.NoError(t, err)

	assert.Empty(t, resolved.Text)
	assert.Empty(t, resolved.Records)
}

func TestResolve_RecordsAreDeduplicated(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)

	// rice cultivation and rice pests both cite the PhilRice portal
	resolved, err := resolver.Resolve(context.Background(), "rice pest control and cultivation", "")
	require.NoError(t, err)

	urls := recordURLs(resolved.Records)
	seen := map[string]int{}
	for _, u := range urls {
		seen[core.NormalizeURL(u)]++
	}
	for u, n := range seen {
		assert.Equal(t, 1, n, u)
	}
}

func recordURLs(records []core.SourceRecord) []string {
	urls := make([]string, 0, len(records))
	for _, r := range records {
		urls = append(urls, r.URL)
	}
	return urls
}
