// Package search resolves general web queries through the Serper API,
// restricted to Philippine results. Paid API calls are skipped for queries
// other resolvers already cover, and successful responses are cached.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/classify"
	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/log"
)

const maxOrganic = 5

// Serper implements core.Searcher. Upstream failure is never an error:
// callers always get the uniform (possibly empty) results shape.
type Serper struct {
	apiKey  string
	baseURL string
	geo     string
	lang    string
	client  *http.Client
	cache   core.Cache
}

// New builds the resolver. cache may be nil to disable result caching.
func New(cfg *config.SearchConfig, cache core.Cache) *Serper {
	return &Serper{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		geo:     cfg.Geolocation,
		lang:    cfg.Language,
		client:  &http.Client{Timeout: cfg.Timeout()},
		cache:   cache,
	}
}

// Search runs the query against Serper. Unless force is set, weather and
// time/date queries short-circuit to the empty shape without spending an API
// call, since dedicated resolvers serve those.
func (s *Serper) Search(ctx context.Context, query string, numResults int, force bool) core.SearchResults {
	logger := log.FromCtx(ctx)

	if !force {
		if classify.IsWeatherQuery(query) {
			logger.Info().Str("query", query).Msg("skipping search: weather query")
			return emptyResults(query)
		}
		if classify.IsTimeOrDateQuery(query) {
			logger.Info().Str("query", query).Msg("skipping search: time/date query")
			return emptyResults(query)
		}
	}

	if s.apiKey == "" {
		logger.Warn().Msg("search API key not configured")
		return emptyResults(query)
	}

	cacheKey := fmt.Sprintf("search %s n%d", query, numResults)

	if s.cache != nil {
		var cached core.SearchResults
		if ok, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			logger.Warn().Err(err).Msg("search cache read failed")
		} else if ok {
			logger.Debug().Str("query", query).Msg("search cache hit")
			return cached
		}
	}

	results, err := s.fetch(ctx, query, numResults)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("search failed")
		return emptyResults(query)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results); err != nil {
			logger.Warn().Err(err).Msg("search cache write failed")
		}
	}

	return results
}

func (s *Serper) fetch(ctx context.Context, query string, numResults int) (core.SearchResults, error) {
	params := url.Values{}
	params.Set("q", localizeQuery(query))
	params.Set("num", strconv.Itoa(numResults))
	params.Set("gl", s.geo)
	params.Set("hl", s.lang)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return core.SearchResults{}, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return core.SearchResults{}, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.SearchResults{}, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var payload struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Source  string `json:"source"`
			Date    string `json:"date"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return core.SearchResults{}, fmt.Errorf("decoding serper response: %w", err)
	}

	now := time.Now()
	results := core.SearchResults{Query: query, Timestamp: now}

	for i, hit := range payload.Organic {
		if i >= maxOrganic {
			break
		}

		source := hit.Source
		if source == "" {
			source = "Serper Search"
		}

		results.Organic = append(results.Organic, core.SearchHit{
			Title:   hit.Title,
			URL:     hit.Link,
			Snippet: hit.Snippet,
			Source:  source,
			Date:    hit.Date,
		})
		results.Sources = append(results.Sources, core.SourceRecord{
			Title:       hit.Title,
			URL:         hit.Link,
			Snippet:     hit.Snippet,
			Category:    core.CategoryWeb,
			RetrievedAt: now,
		})
	}

	return results, nil
}

// localizeQuery biases results toward the Philippines unless the query
// already names the country.
func localizeQuery(query string) string {
	lowered := strings.ToLower(query)
	if strings.Contains(lowered, "philippines") || strings.Contains(lowered, "pilipinas") {
		return query
	}

	return query + " Philippines"
}

func emptyResults(query string) core.SearchResults {
	return core.SearchResults{Query: query, Timestamp: time.Now()}
}
