// Package weather resolves current conditions through a three-tier chain:
// the keyed WeatherAPI provider, a PAGASA-targeted search scrape, then a
// static default pointing at the official portal. The resolver always
// produces a report; degradation shows up in the origin tier, never as an
// error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/log"
)

const (
	weatherAPITitle = "WeatherAPI.com"
	weatherAPIURL   = "https://www.weatherapi.com/"
	pagasaPortalURL = "https://www.pagasa.dost.gov.ph"
)

// conditionRules classify a scraped snippet: first matching substring set
// wins, evaluated in order.
var conditionRules = []struct {
	terms []string
	label string
}{
	{[]string{"rain", "shower"}, "Rainy/Cloudy"},
	{[]string{"sunny", "fair"}, "Sunny/Fair"},
	{[]string{"storm", "typhoon"}, "Stormy"},
}

func classifyCondition(snippet string) string {
	lowered := strings.ToLower(snippet)
	for _, rule := range conditionRules {
		for _, term := range rule.terms {
			if strings.Contains(lowered, term) {
				return rule.label
			}
		}
	}

	return "Unknown"
}

type Resolver struct {
	apiKey       string
	baseURL      string
	forecastDays int
	client       *http.Client
	searcher     core.Searcher
}

func New(cfg *config.WeatherConfig, searcher core.Searcher) *Resolver {
	return &Resolver{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		forecastDays: cfg.ForecastDays,
		client:       &http.Client{Timeout: cfg.Timeout()},
		searcher:     searcher,
	}
}

// Current walks the tier chain for location and always returns a report.
// Without an API key the structured tier is skipped outright, not counted as
// a failure.
func (r *Resolver) Current(ctx context.Context, location string) *core.WeatherReport {
	logger := log.FromCtx(ctx)
	locationQuery := localize(location)

	if r.apiKey == "" {
		logger.Warn().Msg("weather API key not configured, skipping structured tier")
	} else {
		report, err := r.fetchCurrent(ctx, locationQuery)
		if err != nil {
			logger.Warn().Err(err).Msg("structured weather tier failed, advancing")
		} else {
			logger.Info().Str("tier", report.OriginTier.String()).Str("location", report.Location).Msg("weather resolved")
			return report
		}
	}

	if report := r.scrapeViaSearch(ctx, locationQuery); report != nil {
		logger.Info().Str("tier", report.OriginTier.String()).Msg("weather resolved from search scrape")
		return report
	}

	logger.Warn().Str("location", locationQuery).Msg("weather fell back to static default")
	return defaultReport(locationQuery)
}

func (r *Resolver) fetchCurrent(ctx context.Context, location string) (*core.WeatherReport, error) {
	params := url.Values{}
	params.Set("key", r.apiKey)
	params.Set("q", location)
	params.Set("days", "1")
	params.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/current.json?"+params.Encode(), nil)
	if err != nil {
		return nil, core.Unavailable(core.TierPrimary, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, core.Unavailable(core.TierPrimary, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.Unavailable(core.TierPrimary, fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload struct {
		Location struct {
			Name      string `json:"name"`
			Region    string `json:"region"`
			LocalTime string `json:"localtime"`
		} `json:"location"`
		Current struct {
			TempC     *float64 `json:"temp_c"`
			FeelsLike float64  `json:"feelslike_c"`
			Humidity  float64  `json:"humidity"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
			WindKPH  float64 `json:"wind_kph"`
			PrecipMM float64 `json:"precip_mm"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, core.Malformed(core.TierPrimary, fmt.Errorf("decoding payload: %w", err))
	}
	if payload.Current.TempC == nil {
		return nil, core.Malformed(core.TierPrimary, fmt.Errorf("payload missing current.temp_c"))
	}

	name := payload.Location.Name
	if name == "" {
		name = location
	}

	return &core.WeatherReport{
		Location:    name,
		Temperature: fmt.Sprintf("%.1f°C", *payload.Current.TempC),
		FeelsLike:   fmt.Sprintf("%.1f°C", payload.Current.FeelsLike),
		Humidity:    fmt.Sprintf("%.0f%%", payload.Current.Humidity),
		Condition:   payload.Current.Condition.Text,
		WindKPH:     fmt.Sprintf("%.1f kph", payload.Current.WindKPH),
		Rainfall:    fmt.Sprintf("%.1f mm", payload.Current.PrecipMM),
		SourceTitle: weatherAPITitle,
		SourceURL:   weatherAPIURL,
		LastUpdated: orNow(payload.Location.LocalTime),
		OriginTier:  core.TierPrimary,
	}, nil
}

const maxNoteSnippet = 100

// scrapeViaSearch issues a forced, targeted search and classifies the top
// snippet. The exact temperature is deliberately not extracted from
// unstructured text; the field points the reader at the source instead.
func (r *Resolver) scrapeViaSearch(ctx context.Context, location string) *core.WeatherReport {
	query := fmt.Sprintf("PAGASA weather forecast %s today", location)
	results := r.searcher.Search(ctx, query, 3, true)

	if len(results.Organic) == 0 {
		return nil
	}

	top := results.Organic[0]

	title := top.Title
	if title == "" {
		title = "PAGASA Update"
	}
	link := top.URL
	if link == "" {
		link = "https://bagong.pagasa.dost.gov.ph/"
	}
	snippet := top.Snippet
	if snippet == "" {
		snippet = "No details available."
	}

	note := snippet
	if len(note) > maxNoteSnippet {
		note = note[:maxNoteSnippet] + "..."
	}

	return &core.WeatherReport{
		Location:    location,
		Temperature: "see source",
		Humidity:    "n/a",
		Condition:   classifyCondition(snippet),
		Rainfall:    "check forecast",
		Note:        "Data retrieved via search: " + note,
		SourceTitle: "PAGASA via Search: " + title,
		SourceURL:   link,
		LastUpdated: time.Now().Format(time.RFC3339),
		OriginTier:  core.TierScrape,
	}
}

func defaultReport(location string) *core.WeatherReport {
	return &core.WeatherReport{
		Location:    location,
		Temperature: "n/a",
		Humidity:    "n/a",
		Condition:   "Data Unavailable",
		Rainfall:    "n/a",
		Note:        "Real-time weather services are currently unreachable.",
		SourceTitle: "PAGASA (Official Website)",
		SourceURL:   pagasaPortalURL,
		LastUpdated: time.Now().Format(time.RFC3339),
		OriginTier:  core.TierDefault,
	}
}

// Forecast fetches the multi-day structured forecast. There is no fallback
// chain behind it: without an API key it is an error, not a degraded report.
func (r *Resolver) Forecast(ctx context.Context, location string, days int) (*core.WeatherForecast, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("forecast unavailable: weather API key not configured")
	}
	if days <= 0 {
		days = r.forecastDays
	}

	params := url.Values{}
	params.Set("key", r.apiKey)
	params.Set("q", localize(location))
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/forecast.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast returned status %d", resp.StatusCode)
	}

	var payload struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC      float64 `json:"maxtemp_c"`
					MinTempC      float64 `json:"mintemp_c"`
					AvgTempC      float64 `json:"avgtemp_c"`
					TotalPrecipMM float64 `json:"totalprecip_mm"`
					AvgHumidity   float64 `json:"avghumidity"`
					Condition     struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
				Astro struct {
					Sunrise string `json:"sunrise"`
					Sunset  string `json:"sunset"`
				} `json:"astro"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding forecast payload: %w", err)
	}

	forecast := &core.WeatherForecast{
		Location:    payload.Location.Name,
		SourceTitle: "WeatherAPI.com Forecast",
		SourceURL:   weatherAPIURL,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	if forecast.Location == "" {
		forecast.Location = location
	}

	for _, day := range payload.Forecast.ForecastDay {
		forecast.Days = append(forecast.Days, core.ForecastDay{
			Date:        day.Date,
			MaxTempC:    day.Day.MaxTempC,
			MinTempC:    day.Day.MinTempC,
			AvgTempC:    day.Day.AvgTempC,
			Condition:   day.Day.Condition.Text,
			RainfallMM:  day.Day.TotalPrecipMM,
			AvgHumidity: day.Day.AvgHumidity,
			Sunrise:     day.Astro.Sunrise,
			Sunset:      day.Astro.Sunset,
		})
	}

	return forecast, nil
}

// localize pins ambiguous place names to the Philippines.
func localize(location string) string {
	if location == "" {
		return core.NationalRegion
	}
	if strings.Contains(location, core.NationalRegion) {
		return location
	}

	return location + ", " + core.NationalRegion
}

func orNow(s string) string {
	if s != "" {
		return s
	}

	return time.Now().Format(time.RFC3339)
}
