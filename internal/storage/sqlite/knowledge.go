package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/agriaid/internal/core"
)

// KnowledgeRepo reads the seeded agricultural reference tables. The data is
// write-once via migrations; every method is a lookup.
type KnowledgeRepo struct {
	db *sql.DB
}

func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// Agency returns the national agency stored under key, e.g. "DA" or "PSA".
func (r *KnowledgeRepo) Agency(ctx context.Context, key string) (*core.Agency, error) {
	query := `
		SELECT key, name, head, position, website, hotline, phone, email, address
		FROM agencies
		WHERE key = ?`

	var a core.Agency
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&a.Key, &a.Name, &a.Head, &a.Position, &a.Website, &a.Hotline, &a.Phone, &a.Email, &a.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agency lookup failed: %w", err)
	}

	return &a, nil
}

// RegionalOfficeFor finds the regional field office whose covered provinces
// match the free-text location. Returns nil when nothing matches.
func (r *KnowledgeRepo) RegionalOfficeFor(ctx context.Context, location string) (*core.RegionalOffice, error) {
	query := `
		SELECT DISTINCT o.region, o.office, o.location, o.contact, o.website
		FROM regional_offices o
		JOIN regional_coverage c ON c.region = o.region
		WHERE instr(lower(?), lower(c.province)) > 0
		LIMIT 1`

	var o core.RegionalOffice
	err := r.db.QueryRowContext(ctx, query, location).Scan(
		&o.Region, &o.Office, &o.Location, &o.Contact, &o.Website,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("regional office lookup failed: %w", err)
	}

	return &o, nil
}

// ProvincialOfficeFor finds the provincial agriculture office named inside
// the free-text location. Returns nil when nothing matches.
func (r *KnowledgeRepo) ProvincialOfficeFor(ctx context.Context, location string) (*core.ProvincialOffice, error) {
	query := `
		SELECT province, head, position, office, address, phone, website, region
		FROM provincial_offices
		WHERE instr(lower(?), lower(province)) > 0
		LIMIT 1`

	var o core.ProvincialOffice
	err := r.db.QueryRowContext(ctx, query, location).Scan(
		&o.Province, &o.Head, &o.Position, &o.Office, &o.Address, &o.Phone, &o.Website, &o.Region,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("provincial office lookup failed: %w", err)
	}

	return &o, nil
}

// CropMatching returns the first crop whose name or alias appears in the
// lowercased query text, or nil.
func (r *KnowledgeRepo) CropMatching(ctx context.Context, query string) (*core.Crop, error) {
	q := `
		SELECT DISTINCT c.name, c.tagalog, c.season_wet, c.season_dry, c.temperature,
			c.water, c.soil_type, c.ph_range, c.regions, c.average_yield,
			c.pests, c.diseases, c.best_practices, c.varieties, c.harvest_period, c.source_url
		FROM crops c
		JOIN crop_aliases a ON a.crop = c.name
		WHERE instr(?, a.alias) > 0
		ORDER BY length(a.alias) DESC
		LIMIT 1`

	var c core.Crop
	var practices string
	err := r.db.QueryRowContext(ctx, q, strings.ToLower(query)).Scan(
		&c.Name, &c.Tagalog, &c.SeasonWet, &c.SeasonDry, &c.Temperature,
		&c.Water, &c.SoilType, &c.PHRange, &c.Regions, &c.AverageYield,
		&c.Pests, &c.Diseases, &practices, &c.Varieties, &c.HarvestPeriod, &c.SourceURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("crop lookup failed: %w", err)
	}

	c.BestPractices = splitLines(practices)

	aliases, err := r.cropAliases(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	c.Aliases = aliases

	return &c, nil
}

func (r *KnowledgeRepo) cropAliases(ctx context.Context, crop string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT alias FROM crop_aliases WHERE crop = ? ORDER BY rowid`, crop)
	if err != nil {
		return nil, fmt.Errorf("crop alias lookup failed: %w", err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, err
		}
		aliases = append(aliases, alias)
	}

	return aliases, rows.Err()
}

// Programs returns every government support program.
func (r *KnowledgeRepo) Programs(ctx context.Context) ([]core.Program, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, description, beneficiaries, source_url FROM programs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("program lookup failed: %w", err)
	}
	defer rows.Close()

	var programs []core.Program
	for rows.Next() {
		var p core.Program
		if err := rows.Scan(&p.Name, &p.Description, &p.Beneficiaries, &p.SourceURL); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

// FinancingOptions returns every agricultural financing channel.
func (r *KnowledgeRepo) FinancingOptions(ctx context.Context) ([]core.FinancingOption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type, website, phone FROM financing_options ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("financing lookup failed: %w", err)
	}
	defer rows.Close()

	var options []core.FinancingOption
	for rows.Next() {
		var o core.FinancingOption
		if err := rows.Scan(&o.Name, &o.Type, &o.Website, &o.Phone); err != nil {
			return nil, err
		}
		options = append(options, o)
	}

	return options, rows.Err()
}

// PestsMatching returns pests whose name or any affected crop appears in the
// lowercased query text.
func (r *KnowledgeRepo) PestsMatching(ctx context.Context, query string) ([]core.Pest, error) {
	q := `
		SELECT DISTINCT p.name, p.damage, p.identification, p.control, p.source_url
		FROM pests p
		LEFT JOIN pest_crops pc ON pc.pest = p.name
		WHERE instr(?, p.name) > 0 OR instr(?, pc.crop) > 0
		ORDER BY p.name`

	lowered := strings.ToLower(query)
	rows, err := r.db.QueryContext(ctx, q, lowered, lowered)
	if err != nil {
		return nil, fmt.Errorf("pest lookup failed: %w", err)
	}
	defer rows.Close()

	var pests []core.Pest
	for rows.Next() {
		var p core.Pest
		var control string
		if err := rows.Scan(&p.Name, &p.Damage, &p.Identification, &control, &p.SourceURL); err != nil {
			return nil, err
		}
		p.Control = splitLines(control)
		pests = append(pests, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pests {
		crops, err := r.pestCrops(ctx, pests[i].Name)
		if err != nil {
			return nil, err
		}
		pests[i].Crops = crops
	}

	return pests, nil
}

func (r *KnowledgeRepo) pestCrops(ctx context.Context, pest string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT crop FROM pest_crops WHERE pest = ? ORDER BY rowid`, pest)
	if err != nil {
		return nil, fmt.Errorf("pest crop lookup failed: %w", err)
	}
	defer rows.Close()

	var crops []string
	for rows.Next() {
		var crop string
		if err := rows.Scan(&crop); err != nil {
			return nil, err
		}
		crops = append(crops, crop)
	}

	return crops, rows.Err()
}

// Season returns the named planting season, "wet" or "dry", or nil.
func (r *KnowledgeRepo) Season(ctx context.Context, name string) (*core.Season, error) {
	query := `
		SELECT name, months, temperature, rainfall, crops, activities, source_url
		FROM seasons
		WHERE name = ?`

	var s core.Season
	var activities string
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&s.Name, &s.Months, &s.Temperature, &s.Rainfall, &s.Crops, &activities, &s.SourceURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("season lookup failed: %w", err)
	}

	s.Activities = splitLines(activities)

	return &s, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
