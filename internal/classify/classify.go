// Package classify decides which resolver categories a raw question needs.
// Classification is pure keyword-set membership: an ordered table of
// (predicate, tag) rules, each evaluated independently, tags additive.
package classify

import "strings"

// Intents are the resolver categories a query triggers. A query may trigger
// several at once.
type Intents struct {
	NeedsPrice         bool
	NeedsWeather       bool
	NeedsPeopleLookup  bool
	NeedsGeneralSearch bool
}

type tag int

const (
	tagPrice tag = iota
	tagWeather
	tagPeople
	tagRecency
)

type rule struct {
	tag   tag
	match func(string) bool
}

// containsAny reports whether the lowercased text contains any of the terms.
func containsAny(terms ...string) func(string) bool {
	return func(text string) bool {
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}
}

// The keyword sets mirror the terms farmers actually use, English and
// Filipino both.
var rules = []rule{
	{tagPrice, containsAny(
		"price", "presyo", "cost", "magkano", "srp", "market value", "benta", "halaga",
	)},
	{tagWeather, containsAny(
		"weather", "panahon", "forecast", "ulan", "climate", "bagyo", "typhoon",
	)},
	{tagPeople, containsAny(
		"who is", "sino ang", "sino", "head of", "director of", "official",
		"secretary", "administrator", "contact", "phone", "address", "hotline",
		"website", "email",
	)},
	{tagRecency, containsAny(
		"current", "latest", "today", "now", "recent", "news", "update",
		"announcement", "alert",
	)},
}

// Classify inspects a raw question and reports the triggered categories.
// Price and people matches escalate to general search; weather does not,
// since the weather resolver fully substitutes for it.
func Classify(text string) Intents {
	normalized := strings.ToLower(strings.TrimSpace(text))

	var intents Intents
	var recent bool
	for _, r := range rules {
		if !r.match(normalized) {
			continue
		}
		switch r.tag {
		case tagPrice:
			intents.NeedsPrice = true
		case tagWeather:
			intents.NeedsWeather = true
		case tagPeople:
			intents.NeedsPeopleLookup = true
		case tagRecency:
			recent = true
		}
	}

	intents.NeedsGeneralSearch = intents.NeedsPrice || intents.NeedsPeopleLookup || recent

	return intents
}

// Weather and time/date tables below back the search resolver's credit-saving
// short-circuit: queries these match are fully served elsewhere, so a paid
// search call would be wasted.

var weatherQuery = containsAny(
	"weather", "forecast", "rain", "sun", "temperature", "typhoon",
	"storm", "climate", "humid", "dry season", "wet season", "cloudy",
	"ulan", "init", "bagyo", "panahon", "pagasa",
)

var timeOrDateQuery = containsAny(
	"time", "date", "today", "now", "current time", "what day is it",
	"araw", "oras", "petsa", "ano oras", "anong araw",
)

// IsWeatherQuery reports whether the query is primarily about weather.
func IsWeatherQuery(query string) bool {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return weatherQuery(normalized)
}

// IsTimeOrDateQuery reports whether a short query asks for the time or date.
// Longer queries that merely mention "today" are let through to search.
func IsTimeOrDateQuery(query string) bool {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return timeOrDateQuery(normalized) && len(strings.Fields(normalized)) < 7
}
