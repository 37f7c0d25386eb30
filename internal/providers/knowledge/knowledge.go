// Package knowledge is the zero-network resolver over the seeded reference
// tables. It always runs during fusion regardless of classification, since
// the local tables are the primary source of truth. A lookup error here is an
// invariant violation, not an upstream outage, so it propagates.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/core"
)

// Repo is the slice of the storage layer this resolver reads.
type Repo interface {
	Agency(ctx context.Context, key string) (*core.Agency, error)
	RegionalOfficeFor(ctx context.Context, location string) (*core.RegionalOffice, error)
	ProvincialOfficeFor(ctx context.Context, location string) (*core.ProvincialOffice, error)
	CropMatching(ctx context.Context, query string) (*core.Crop, error)
	Programs(ctx context.Context) ([]core.Program, error)
	FinancingOptions(ctx context.Context) ([]core.FinancingOption, error)
	PestsMatching(ctx context.Context, query string) ([]core.Pest, error)
	Season(ctx context.Context, name string) (*core.Season, error)
}

type Resolver struct {
	repo Repo
}

func New(repo Repo) *Resolver {
	return &Resolver{repo: repo}
}

// Section gates, matched against the lowercased question.
var (
	officialTerms = []string{"head", "director", "officer", "official", "secretary", "administrator", "personnel"}
	cropTerms     = []string{"palay", "rice", "corn", "mais", "coconut", "sugarcane", "crops", "farming", "cultivation"}
	programTerms  = []string{"program", "loan", "financing", "subsidy", "support", "assistance", "credit"}
	pestTerms     = []string{"pest", "disease", "infestation", "control", "spray", "pesticide", "aphid", "borer"}
	seasonalTerms = []string{"season", "wet", "dry", "planting", "harvest", "plant", "weather"}
)

func matchesAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Resolve assembles every knowledge section the question touches into one
// text block with attributed sources. An empty text block is a valid outcome.
func (r *Resolver) Resolve(ctx context.Context, query, location string) (*core.ResolvedContext, error) {
	lowered := strings.ToLower(query)

	var b strings.Builder
	var records []core.SourceRecord

	add := func(text string, srcs ...core.SourceRecord) {
		b.WriteString(text)
		records = append(records, srcs...)
	}

	if matchesAny(lowered, officialTerms) {
		text, srcs, err := r.officialsSection(ctx, lowered, location)
		if err != nil {
			return nil, err
		}
		add(text, srcs...)
	}

	if matchesAny(lowered, cropTerms) {
		text, srcs, err := r.cropSection(ctx, lowered)
		if err != nil {
			return nil, err
		}
		add(text, srcs...)
	}

	if matchesAny(lowered, programTerms) {
		text, srcs, err := r.programsSection(ctx)
		if err != nil {
			return nil, err
		}
		add(text, srcs...)
	}

	if matchesAny(lowered, pestTerms) {
		text, srcs, err := r.pestSection(ctx, lowered)
		if err != nil {
			return nil, err
		}
		add(text, srcs...)
	}

	if matchesAny(lowered, seasonalTerms) {
		text, srcs, err := r.seasonalSection(ctx, lowered)
		if err != nil {
			return nil, err
		}
		add(text, srcs...)
	}

	return &core.ResolvedContext{
		Category: core.CategoryOfficial,
		Text:     b.String(),
		Records:  core.DedupRecords(records),
	}, nil
}

func (r *Resolver) officialsSection(ctx context.Context, lowered, location string) (string, []core.SourceRecord, error) {
	var b strings.Builder
	var records []core.SourceRecord

	if matchesAny(lowered, []string{"secretary", "da", "department of agriculture", "national"}) {
		da, err := r.repo.Agency(ctx, "DA")
		if err != nil {
			return "", nil, err
		}
		if da != nil {
			b.WriteString("\n=== DEPARTMENT OF AGRICULTURE LEADERSHIP ===\n")
			fmt.Fprintf(&b, "Secretary: %s\n", da.Head)
			fmt.Fprintf(&b, "Hotline: %s\n", da.Hotline)
			fmt.Fprintf(&b, "Website: %s\n", da.Website)
			fmt.Fprintf(&b, "Email: %s\n", da.Email)
			records = append(records, officialRecord(da.Name, da.Website))
		}
	}

	if location != "" {
		regional, err := r.repo.RegionalOfficeFor(ctx, location)
		if err != nil {
			return "", nil, err
		}
		if regional != nil {
			fmt.Fprintf(&b, "\n=== %s AGRICULTURE OFFICE ===\n", regional.Region)
			fmt.Fprintf(&b, "Office: %s\n", regional.Office)
			fmt.Fprintf(&b, "Location: %s\n", regional.Location)
			fmt.Fprintf(&b, "Contact: %s\n", regional.Contact)
			fmt.Fprintf(&b, "Website: %s\n", orNA(regional.Website))
			if regional.Website != "" {
				records = append(records, officialRecord(regional.Office, regional.Website))
			}
		}

		provincial, err := r.repo.ProvincialOfficeFor(ctx, location)
		if err != nil {
			return "", nil, err
		}
		if provincial != nil {
			fmt.Fprintf(&b, "\n=== %s AGRICULTURE ===\n", strings.ToUpper(provincial.Province))
			fmt.Fprintf(&b, "Head: %s\n", provincial.Head)
			fmt.Fprintf(&b, "Position: %s\n", provincial.Position)
			fmt.Fprintf(&b, "Office: %s\n", provincial.Office)
			fmt.Fprintf(&b, "Address: %s\n", provincial.Address)
			fmt.Fprintf(&b, "Phone: %s\n", provincial.Phone)
			fmt.Fprintf(&b, "Website: %s\n", orNA(provincial.Website))
			if provincial.Website != "" {
				records = append(records, officialRecord(provincial.Office, provincial.Website))
			}
		}
	}

	return b.String(), records, nil
}

func (r *Resolver) cropSection(ctx context.Context, lowered string) (string, []core.SourceRecord, error) {
	crop, err := r.repo.CropMatching(ctx, lowered)
	if err != nil {
		return "", nil, err
	}
	if crop == nil {
		return "", nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n=== %s CULTIVATION GUIDE ===\n", strings.ToUpper(crop.Name))
	fmt.Fprintf(&b, "Common names: %s\n", strings.Join(crop.Aliases, ", "))
	fmt.Fprintf(&b, "Tagalog: %s\n", orNA(crop.Tagalog))
	fmt.Fprintf(&b, "Wet season: %s\n", orNA(crop.SeasonWet))
	fmt.Fprintf(&b, "Dry season: %s\n", orNA(crop.SeasonDry))
	fmt.Fprintf(&b, "Temperature: %s\n", orNA(crop.Temperature))
	fmt.Fprintf(&b, "Water requirement: %s\n", orNA(crop.Water))
	fmt.Fprintf(&b, "Soil type: %s\n", orNA(crop.SoilType))
	fmt.Fprintf(&b, "pH range: %s\n", orNA(crop.PHRange))
	fmt.Fprintf(&b, "Average yield: %s\n", orNA(crop.AverageYield))
	fmt.Fprintf(&b, "\nMajor producing regions: %s\n", crop.Regions)
	fmt.Fprintf(&b, "\nCommon pests: %s\n", crop.Pests)
	fmt.Fprintf(&b, "\nCommon diseases: %s\n", crop.Diseases)
	if len(crop.BestPractices) > 0 {
		b.WriteString("\nBest practices:\n")
		for i, practice := range crop.BestPractices {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, practice)
		}
	}

	var records []core.SourceRecord
	if crop.SourceURL != "" {
		records = append(records, officialRecord(strings.ToUpper(crop.Name)+" cultivation guide", crop.SourceURL))
	}

	return b.String(), records, nil
}

func (r *Resolver) programsSection(ctx context.Context) (string, []core.SourceRecord, error) {
	programs, err := r.repo.Programs(ctx)
	if err != nil {
		return "", nil, err
	}
	options, err := r.repo.FinancingOptions(ctx)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	var records []core.SourceRecord

	b.WriteString("\n=== GOVERNMENT AGRICULTURAL PROGRAMS ===\n")
	for _, p := range programs {
		fmt.Fprintf(&b, "\n• %s\n", p.Name)
		fmt.Fprintf(&b, "  Description: %s\n", orNA(p.Description))
		fmt.Fprintf(&b, "  Beneficiaries: %s\n", orNA(p.Beneficiaries))
		if p.SourceURL != "" {
			records = append(records, officialRecord(p.Name, p.SourceURL))
		}
	}

	b.WriteString("\n=== AGRICULTURAL FINANCING OPTIONS ===\n")
	for _, o := range options {
		fmt.Fprintf(&b, "\n• %s\n", o.Name)
		fmt.Fprintf(&b, "  Type: %s\n", orNA(o.Type))
		fmt.Fprintf(&b, "  Website: %s\n", orNA(o.Website))
		fmt.Fprintf(&b, "  Contact: %s\n", orNA(o.Phone))
		if o.Website != "" {
			records = append(records, officialRecord(o.Name, o.Website))
		}
	}

	return b.String(), records, nil
}

func (r *Resolver) pestSection(ctx context.Context, lowered string) (string, []core.SourceRecord, error) {
	pests, err := r.repo.PestsMatching(ctx, lowered)
	if err != nil {
		return "", nil, err
	}
	if len(pests) == 0 {
		return "", nil, nil
	}

	var b strings.Builder
	var records []core.SourceRecord

	b.WriteString("\n=== PEST & DISEASE MANAGEMENT ===\n")
	for _, p := range pests {
		fmt.Fprintf(&b, "\n• %s\n", strings.ToUpper(p.Name))
		fmt.Fprintf(&b, "  Crops affected: %s\n", strings.Join(p.Crops, ", "))
		fmt.Fprintf(&b, "  Damage: %s\n", orNA(p.Damage))
		fmt.Fprintf(&b, "  Identification: %s\n", orNA(p.Identification))
		b.WriteString("  Control methods:\n")
		for _, method := range p.Control {
			fmt.Fprintf(&b, "    - %s\n", method)
		}
		if p.SourceURL != "" {
			records = append(records, officialRecord(strings.ToUpper(p.Name)+" management", p.SourceURL))
		}
	}

	return b.String(), records, nil
}

func (r *Resolver) seasonalSection(ctx context.Context, lowered string) (string, []core.SourceRecord, error) {
	var b strings.Builder
	var records []core.SourceRecord
	wroteHeader := false

	header := func() {
		if !wroteHeader {
			b.WriteString("\n=== SEASONAL AGRICULTURAL GUIDE ===\n")
			wroteHeader = true
		}
	}

	if matchesAny(lowered, []string{"wet", "june", "july"}) {
		season, err := r.repo.Season(ctx, "wet")
		if err != nil {
			return "", nil, err
		}
		if season != nil {
			header()
			fmt.Fprintf(&b, "\nWET SEASON (%s)\n", season.Months)
			fmt.Fprintf(&b, "Temperature: %s\n", season.Temperature)
			fmt.Fprintf(&b, "Rainfall: %s\n", season.Rainfall)
			fmt.Fprintf(&b, "Crops: %s\n", season.Crops)
			b.WriteString("\nPlanting activities:\n")
			for _, activity := range season.Activities {
				fmt.Fprintf(&b, "  - %s\n", activity)
			}
			if season.SourceURL != "" {
				records = append(records, officialRecord("Wet season guide", season.SourceURL))
			}
		}
	}

	if matchesAny(lowered, []string{"dry", "december", "march"}) {
		season, err := r.repo.Season(ctx, "dry")
		if err != nil {
			return "", nil, err
		}
		if season != nil {
			header()
			fmt.Fprintf(&b, "\nDRY SEASON (%s)\n", season.Months)
			fmt.Fprintf(&b, "Temperature: %s\n", season.Temperature)
			fmt.Fprintf(&b, "Rainfall: %s\n", season.Rainfall)
			fmt.Fprintf(&b, "Crops: %s\n", season.Crops)
			b.WriteString("\nWater management is critical - plan irrigation schedule\n")
			if season.SourceURL != "" {
				records = append(records, officialRecord("Dry season guide", season.SourceURL))
			}
		}
	}

	return b.String(), records, nil
}

func officialRecord(title, url string) core.SourceRecord {
	return core.SourceRecord{
		Title:       title,
		URL:         url,
		Category:    core.CategoryOfficial,
		RetrievedAt: time.Now(),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
