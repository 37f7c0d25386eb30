package core

import "time"

const (
	AppName       = "AgriAid"
	AppUserAgent  = "AgriAid-Assistant/0.1"
	AppRepository = "https://github.com/sandevgo/agriaid"

	// NationalRegion is the top-level administrative region every price
	// fallback chain terminates at.
	NationalRegion = "Philippines"
)

// Category tags a source record with the kind of upstream that produced it.
type Category string

const (
	CategoryOfficial Category = "official"
	CategoryWeb      Category = "web"
	CategoryWeather  Category = "weather"
	CategoryPrice    Category = "price"
)

// Query is a single inbound question. Immutable once received.
type Query struct {
	Text      string
	Location  string
	SessionID string
}

// SourceRecord is an attributable reference backing a piece of fused context.
// Two records are the same source when their normalized URLs are equal.
type SourceRecord struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Snippet     string    `json:"snippet,omitempty"`
	Category    Category  `json:"category"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// ResolvedContext is one resolver's contribution to a fusion call. Never
// mutated after creation; Records holds no two entries with the same
// normalized URL.
type ResolvedContext struct {
	Category   Category
	Text       string
	Records    []SourceRecord
	OriginTier Tier
}

// PriceReport is the explicit shape of a price resolution. Fields absent from
// a given provider's payload carry their zero value; NationalFallback is set
// when the report describes the national region instead of the one asked for.
type PriceReport struct {
	Region           string  `json:"region"`
	Year             int     `json:"year"`
	AveragePrice     float64 `json:"average_price"`
	ProductionVolume float64 `json:"production_volume"`
	AreaHarvested    float64 `json:"area_harvested"`
	YieldPerHectare  float64 `json:"yield_per_hectare"`
	Unit             string  `json:"unit"`
	Currency         string  `json:"currency"`
	LastUpdated      string  `json:"last_updated"`
	SourceTitle      string  `json:"source_title"`
	SourceURL        string  `json:"source_url"`
	OriginTier       Tier    `json:"origin_tier"`
	NationalFallback bool    `json:"national_fallback"`
}

// WeatherReport is the explicit shape of a weather resolution. Temperature is
// a display string: a number from the structured provider, "see source" for
// the search-scrape tier, "n/a" for the static default.
type WeatherReport struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like,omitempty"`
	Humidity    string `json:"humidity"`
	Condition   string `json:"condition"`
	WindKPH     string `json:"wind_kph,omitempty"`
	Rainfall    string `json:"rainfall"`
	Note        string `json:"note,omitempty"`
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
	LastUpdated string `json:"last_updated"`
	OriginTier  Tier   `json:"origin_tier"`
}

// ForecastDay is one day of a structured multi-day forecast.
type ForecastDay struct {
	Date        string  `json:"date"`
	MaxTempC    float64 `json:"max_temp_c"`
	MinTempC    float64 `json:"min_temp_c"`
	AvgTempC    float64 `json:"avg_temp_c"`
	Condition   string  `json:"condition"`
	RainfallMM  float64 `json:"total_rainfall_mm"`
	AvgHumidity float64 `json:"avg_humidity"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
}

// WeatherForecast is only available from the structured keyed provider; there
// is no fallback chain behind it.
type WeatherForecast struct {
	Location    string        `json:"location"`
	Days        []ForecastDay `json:"days"`
	SourceTitle string        `json:"source_title"`
	SourceURL   string        `json:"source_url"`
	LastUpdated string        `json:"last_updated"`
}

// CommodityWatch is a pointer record to the official daily price-monitoring
// page for commodities without a structured registry payload.
type CommodityWatch struct {
	Commodity   string `json:"commodity"`
	Location    string `json:"location"`
	Note        string `json:"note"`
	Excerpt     string `json:"excerpt,omitempty"`
	LastUpdated string `json:"last_updated"`
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
}

// SearchHit is one organic result from the search provider.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date,omitempty"`
}

// SearchResults is the uniform search response shape. It is always present
// and possibly empty; callers must never treat "no results" as an error.
type SearchResults struct {
	Query     string         `json:"query"`
	Organic   []SearchHit    `json:"organic_results"`
	Sources   []SourceRecord `json:"sources"`
	Timestamp time.Time      `json:"timestamp"`
}

// Turn is one completed (question, answer) exchange in a conversation.
type Turn struct {
	Question string
	Answer   string
	At       time.Time
}

// FusedContext is the bundle the fusion engine hands to the caller driving
// the generative model.
type FusedContext struct {
	Text       string
	Sources    []SourceRecord
	Transcript string
}
