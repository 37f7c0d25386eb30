package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host", "https://WWW.DA.gov.ph/Price-Monitoring", "https://www.da.gov.ph/Price-Monitoring"},
		{"strips trailing slash", "https://www.da.gov.ph/price-monitoring/", "https://www.da.gov.ph/price-monitoring"},
		{"drops fragment", "https://psa.gov.ph/statistics#palay", "https://psa.gov.ph/statistics"},
		{"keeps query", "https://psa.gov.ph/data?year=2024", "https://psa.gov.ph/data?year=2024"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestDedupRecords(t *testing.T) {
	t.Parallel()

	now := time.Now()
	records := []SourceRecord{
		{Title: "first", URL: "https://www.da.gov.ph/price-monitoring/", Category: CategoryPrice, RetrievedAt: now},
		{Title: "no url", URL: "", Category: CategoryOfficial, RetrievedAt: now},
		{Title: "dup", URL: "https://www.da.gov.ph/price-monitoring", Category: CategoryWeb, RetrievedAt: now},
		{Title: "kept", URL: "https://psa.gov.ph/", Category: CategoryWeb, RetrievedAt: now},
	}

	out := DedupRecords(records)

	assert.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "kept", out[1].Title)
}
