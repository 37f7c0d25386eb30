package core

import "fmt"

// Tier identifies one candidate upstream within a resolver's fallback chain.
// Tiers are attempted in ascending order.
type Tier int

const (
	TierNone Tier = iota
	TierPrimary
	TierSecondary
	TierNationalPrimary
	TierNationalSecondary
	TierScrape
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierNationalPrimary:
		return "national-primary"
	case TierNationalSecondary:
		return "national-secondary"
	case TierScrape:
		return "scrape"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}

// FetchErrorKind classifies why a tier produced no data.
type FetchErrorKind int

const (
	// FetchUnavailable covers network errors, timeouts and non-2xx statuses.
	FetchUnavailable FetchErrorKind = iota
	// FetchMalformed covers payloads missing the expected fields.
	FetchMalformed
	// FetchSkipped covers tiers not attempted, e.g. a missing API key.
	FetchSkipped
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchMalformed:
		return "malformed"
	case FetchSkipped:
		return "skipped"
	default:
		return "unavailable"
	}
}

// FetchError is the terminal state of one failed tier attempt. Tier-advance
// logic inspects it; it never crosses a resolver boundary.
type FetchError struct {
	Kind FetchErrorKind
	Tier Tier
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tier %s %s: %v", e.Tier, e.Kind, e.Err)
	}
	return fmt.Sprintf("tier %s %s", e.Tier, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func Unavailable(tier Tier, err error) *FetchError {
	return &FetchError{Kind: FetchUnavailable, Tier: tier, Err: err}
}

func Malformed(tier Tier, err error) *FetchError {
	return &FetchError{Kind: FetchMalformed, Tier: tier, Err: err}
}

func Skipped(tier Tier) *FetchError {
	return &FetchError{Kind: FetchSkipped, Tier: tier}
}
