// Package fusion is the per-query orchestrator: it classifies the question,
// fans the applicable resolvers out concurrently, and merges their
// contributions into one deterministic context block with a deduplicated
// source list.
package fusion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/agriaid/internal/classify"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/log"
)

const searchResultCount = 5

// KnowledgeResolver is the zero-network lookup over the local tables. Its
// failure is an invariant violation and aborts the fusion call.
type KnowledgeResolver interface {
	Resolve(ctx context.Context, query, location string) (*core.ResolvedContext, error)
}

// PriceResolver walks the registry fallback chain. Nil report without error
// means exhausted.
type PriceResolver interface {
	PalayData(ctx context.Context, region string) (*core.PriceReport, error)
}

// WeatherResolver always produces a report; degradation shows in the tier.
type WeatherResolver interface {
	Current(ctx context.Context, location string) *core.WeatherReport
}

type Engine struct {
	knowledge     KnowledgeResolver
	price         PriceResolver
	weather       WeatherResolver
	search        core.Searcher
	sessions      core.SessionStore
	defaultRegion string
}

func New(
	knowledge KnowledgeResolver,
	price PriceResolver,
	weather WeatherResolver,
	search core.Searcher,
	sessions core.SessionStore,
	defaultRegion string,
) *Engine {
	return &Engine{
		knowledge:     knowledge,
		price:         price,
		weather:       weather,
		search:        search,
		sessions:      sessions,
		defaultRegion: defaultRegion,
	}
}

// Fuse runs one fusion call. The knowledge lookup always runs; the other
// resolvers run per the classification, concurrently, each isolated so one
// upstream outage degrades coverage instead of aborting the answer. Merge
// order is fixed (knowledge, price, weather, search) regardless of
// completion order.
func (e *Engine) Fuse(ctx context.Context, query core.Query) (*core.FusedContext, error) {
	logger := log.FromCtx(ctx)
	intents := classify.Classify(query.Text)

	location := query.Location
	if location == "" {
		location = e.defaultRegion
	}

	var (
		kb            *core.ResolvedContext
		priceReport   *core.PriceReport
		weatherReport *core.WeatherReport
		searchResults core.SearchResults
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		kb, err = e.knowledge.Resolve(gctx, query.Text, location)
		if err != nil {
			return fmt.Errorf("knowledge lookup failed: %w", err)
		}
		return nil
	})

	if intents.NeedsPrice {
		g.Go(func() error {
			report, err := e.price.PalayData(gctx, location)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn().Err(err).Msg("price resolver contributed nothing")
				return nil
			}
			priceReport = report
			return nil
		})
	}

	if intents.NeedsWeather {
		g.Go(func() error {
			weatherReport = e.weather.Current(gctx, location)
			return nil
		})
	}

	if intents.NeedsGeneralSearch {
		g.Go(func() error {
			searchResults = e.search.Search(gctx, query.Text, searchResultCount, false)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var b strings.Builder
	var records []core.SourceRecord

	if kb != nil {
		b.WriteString(kb.Text)
		records = append(records, kb.Records...)
	}

	if priceReport != nil {
		b.WriteString(formatPrice(priceReport))
		records = append(records, core.SourceRecord{
			Title:       priceReport.SourceTitle,
			URL:         priceReport.SourceURL,
			Category:    core.CategoryPrice,
			RetrievedAt: time.Now(),
		})
	}

	if weatherReport != nil {
		b.WriteString(formatWeather(weatherReport))
		records = append(records, core.SourceRecord{
			Title:       weatherReport.SourceTitle,
			URL:         weatherReport.SourceURL,
			Category:    core.CategoryWeather,
			RetrievedAt: time.Now(),
		})
	}

	if len(searchResults.Organic) > 0 {
		b.WriteString(formatSearch(searchResults))
		records = append(records, searchResults.Sources...)
	}

	return &core.FusedContext{
		Text:       b.String(),
		Sources:    core.DedupRecords(records),
		Transcript: e.transcript(query.SessionID),
	}, nil
}

// AppendTurn records a completed exchange once the caller has the generated
// answer.
func (e *Engine) AppendTurn(sessionID, question, answer string) {
	if sessionID == "" {
		return
	}

	e.sessions.Append(sessionID, core.Turn{
		Question: question,
		Answer:   answer,
		At:       time.Now(),
	})
}

func (e *Engine) transcript(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	turns := e.sessions.History(sessionID)
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "Farmer: %s\n", t.Question)
		fmt.Fprintf(&b, "%s: %s\n", core.AppName, t.Answer)
	}

	return b.String()
}

func formatPrice(report *core.PriceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== PRICE DATA (%s, %d) ===\n", report.Region, report.Year)
	fmt.Fprintf(&b, "Average farmgate price: %.2f %s per kg\n", report.AveragePrice, report.Currency)
	if report.ProductionVolume > 0 {
		fmt.Fprintf(&b, "Production volume: %.1f %s\n", report.ProductionVolume, report.Unit)
	}
	if report.AreaHarvested > 0 {
		fmt.Fprintf(&b, "Area harvested: %.1f ha\n", report.AreaHarvested)
	}
	if report.YieldPerHectare > 0 {
		fmt.Fprintf(&b, "Yield: %.2f MT per hectare\n", report.YieldPerHectare)
	}
	fmt.Fprintf(&b, "Last updated: %s\n", report.LastUpdated)
	fmt.Fprintf(&b, "Source: %s\n", report.SourceTitle)
	if report.NationalFallback {
		b.WriteString("Note: region-specific data was unavailable; figures are the national average.\n")
	}

	return b.String()
}

func formatWeather(report *core.WeatherReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== WEATHER (%s) ===\n", report.Location)
	fmt.Fprintf(&b, "Condition: %s\n", report.Condition)
	fmt.Fprintf(&b, "Temperature: %s\n", report.Temperature)
	if report.FeelsLike != "" {
		fmt.Fprintf(&b, "Feels like: %s\n", report.FeelsLike)
	}
	fmt.Fprintf(&b, "Humidity: %s\n", report.Humidity)
	if report.WindKPH != "" {
		fmt.Fprintf(&b, "Wind: %s\n", report.WindKPH)
	}
	fmt.Fprintf(&b, "Rainfall: %s\n", report.Rainfall)
	if report.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", report.Note)
	}
	fmt.Fprintf(&b, "Source: %s\n", report.SourceTitle)

	return b.String()
}

func formatSearch(results core.SearchResults) string {
	var b strings.Builder

	b.WriteString("\n=== WEB SEARCH RESULTS ===\n")
	for _, hit := range results.Organic {
		fmt.Fprintf(&b, "\n• %s (%s)\n", hit.Title, hit.Source)
		if hit.Snippet != "" {
			fmt.Fprintf(&b, "  %s\n", hit.Snippet)
		}
		if hit.Date != "" {
			fmt.Fprintf(&b, "  Date: %s\n", hit.Date)
		}
	}

	return b.String()
}
