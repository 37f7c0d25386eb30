// Package price resolves palay production and pricing figures from official
// Philippine registries. The fallback chain is an explicit tier machine: PSA
// OpenStat for the asked region, the DA portal for the same region, then both
// again at the national level with the report marked as a fallback.
package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/conv"
	"github.com/sandevgo/agriaid/pkg/log"
	"github.com/sandevgo/agriaid/pkg/retry"
)

const (
	psaSourceURL   = "https://openstat.psa.gov.ph/PXWeb/pxweb/en/DB/DB__2E__CS/0012E4EVCP0.px"
	psaSourceTitle = "PSA OpenStat - Palay Production Estimates"
	daSourceTitle  = "DA Price Monitoring"
	priceUnit      = "MT (Metric Tons)"
	priceCurrency  = "PHP"
)

type Resolver struct {
	psaBaseURL string
	daBaseURL  string
	year       int
	client     *http.Client
	retrier    *retry.Retrier
}

func New(cfg *config.PriceConfig) *Resolver {
	return &Resolver{
		psaBaseURL: cfg.PSABaseURL,
		daBaseURL:  cfg.DABaseURL,
		year:       cfg.Year,
		client:     &http.Client{Timeout: cfg.Timeout()},
		retrier:    retry.NewRetrier(retry.NewConfig(cfg.RetryCount)),
	}
}

type tier struct {
	tier  core.Tier
	fetch func(ctx context.Context, t core.Tier, region string) (*core.PriceReport, error)

	// region the tier queries; national tiers ignore the asked region.
	region   string
	national bool
}

// PalayData walks the tier chain for region. A nil report with a nil error
// means every tier exhausted without usable data, which is a valid terminal
// outcome. The only returned error is context cancellation.
func (r *Resolver) PalayData(ctx context.Context, region string) (*core.PriceReport, error) {
	logger := log.FromCtx(ctx)

	tiers := []tier{
		{tier: core.TierPrimary, fetch: r.fetchPSA, region: region},
		{tier: core.TierSecondary, fetch: r.fetchDA, region: region},
	}
	if !strings.EqualFold(region, core.NationalRegion) {
		tiers = append(tiers,
			tier{tier: core.TierNationalPrimary, fetch: r.fetchPSA, region: core.NationalRegion, national: true},
			tier{tier: core.TierNationalSecondary, fetch: r.fetchDA, region: core.NationalRegion, national: true},
		)
	}

	for _, t := range tiers {
		var report *core.PriceReport

		err := r.retrier.Do(ctx, func() error {
			var fetchErr error
			report, fetchErr = t.fetch(ctx, t.tier, t.region)

			// A malformed payload is deterministic; re-fetching it cannot
			// produce the missing field, so advance the tier instead.
			var fe *core.FetchError
			if errors.As(fetchErr, &fe) && fe.Kind == core.FetchMalformed {
				return retry.Unrecoverable(fetchErr)
			}
			return fetchErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			var fe *core.FetchError
			if errors.As(err, &fe) {
				logger.Warn().
					Str("tier", t.tier.String()).
					Str("kind", fe.Kind.String()).
					Err(fe.Err).
					Msg("price tier failed, advancing")
			} else {
				logger.Warn().Str("tier", t.tier.String()).Err(err).Msg("price tier failed, advancing")
			}
			continue
		}

		report.OriginTier = t.tier
		if t.national {
			report.NationalFallback = true
			report.Region = fmt.Sprintf("%s (National Average - %s data unavailable)", core.NationalRegion, region)
			report.SourceTitle += " (National Fallback)"
		}

		logger.Info().Str("tier", t.tier.String()).Str("region", report.Region).Msg("price resolved")
		return report, nil
	}

	logger.Warn().Str("region", region).Msg("no price data at any tier")
	return nil, nil
}

func (r *Resolver) fetchPSA(ctx context.Context, t core.Tier, region string) (*core.PriceReport, error) {
	params := url.Values{}
	params.Set("series_id", "AGRI_PALAY_PROD")
	params.Set("region", region)
	params.Set("year", strconv.Itoa(r.year))

	var payload struct {
		PricePerKG        *float64 `json:"price_per_kg"`
		TotalProductionMT float64  `json:"total_production_mt"`
		AreaHarvestedHA   float64  `json:"area_harvested_ha"`
		YieldMTPerHA      float64  `json:"yield_mt_per_ha"`
		Date              string   `json:"date"`
	}
	if err := r.getJSON(ctx, r.psaBaseURL+"/api/data/series?"+params.Encode(), t, &payload); err != nil {
		return nil, err
	}

	if payload.PricePerKG == nil {
		return nil, core.Malformed(t, errors.New("psa payload missing price_per_kg"))
	}

	return &core.PriceReport{
		Region:           region,
		Year:             r.year,
		AveragePrice:     *payload.PricePerKG,
		ProductionVolume: payload.TotalProductionMT,
		AreaHarvested:    payload.AreaHarvestedHA,
		YieldPerHectare:  payload.YieldMTPerHA,
		Unit:             priceUnit,
		Currency:         priceCurrency,
		LastUpdated:      orNow(payload.Date),
		SourceTitle:      psaSourceTitle,
		SourceURL:        psaSourceURL,
	}, nil
}

func (r *Resolver) fetchDA(ctx context.Context, t core.Tier, region string) (*core.PriceReport, error) {
	params := url.Values{}
	params.Set("crop", "rice")
	params.Set("province", region)
	params.Set("year", strconv.Itoa(r.year))

	var payload struct {
		Price      *float64 `json:"price"`
		Production float64  `json:"production"`
		Area       float64  `json:"area"`
		Yield      float64  `json:"yield"`
		Updated    string   `json:"updated"`
	}
	if err := r.getJSON(ctx, r.daBaseURL+"/api/statistics/crops?"+params.Encode(), t, &payload); err != nil {
		return nil, err
	}

	if payload.Price == nil {
		return nil, core.Malformed(t, errors.New("da payload missing price"))
	}

	return &core.PriceReport{
		Region:           region,
		Year:             r.year,
		AveragePrice:     *payload.Price,
		ProductionVolume: payload.Production,
		AreaHarvested:    payload.Area,
		YieldPerHectare:  payload.Yield,
		Unit:             priceUnit,
		Currency:         priceCurrency,
		LastUpdated:      orNow(payload.Updated),
		SourceTitle:      daSourceTitle,
		SourceURL:        r.daBaseURL + "/price-monitoring/",
	}, nil
}

func (r *Resolver) getJSON(ctx context.Context, rawURL string, t core.Tier, dest any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return core.Unavailable(t, err)
	}
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return core.Unavailable(t, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Unavailable(t, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return core.Malformed(t, fmt.Errorf("decoding payload: %w", err))
	}

	return nil
}

const maxWatchExcerpt = 600

// CommodityWatch checks the official daily price-monitoring page and returns
// a labelled pointer record with a short text excerpt. Nil without error when
// the page is unreachable.
func (r *Resolver) CommodityWatch(ctx context.Context, commodity, location string) (*core.CommodityWatch, error) {
	pageURL := r.daBaseURL + "/price-monitoring/"

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.FromCtx(ctx).Warn().Err(err).Msg("price watch page unreachable")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.FromCtx(ctx).Warn().Int("status", resp.StatusCode).Msg("price watch page unavailable")
		return nil, nil
	}

	excerpt, err := conv.HTMLToText(io.LimitReader(resp.Body, 256<<10))
	if err != nil {
		excerpt = ""
	}
	if len(excerpt) > maxWatchExcerpt {
		excerpt = excerpt[:maxWatchExcerpt]
	}

	display := location
	if display == "" {
		display = "Metro Manila / National"
	}

	return &core.CommodityWatch{
		Commodity: commodity,
		Location:  display,
		Note: fmt.Sprintf(
			"Checking latest daily price monitoring for %s. If specific %s data is unavailable, refer to the Metro Manila/National baseline in the link.",
			commodity, display),
		Excerpt:     strings.TrimSpace(excerpt),
		LastUpdated: time.Now().Format(time.RFC3339),
		SourceTitle: "DA Bantay Presyo (Price Watch)",
		SourceURL:   pageURL,
	}, nil
}

func orNow(date string) string {
	if date != "" {
		return date
	}

	return time.Now().Format(time.RFC3339)
}
