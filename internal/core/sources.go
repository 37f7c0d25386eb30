package core

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a source URL for identity comparison: scheme and
// host are lowercased, fragments dropped, and a trailing slash on the path
// removed. Unparseable input is returned trimmed as-is.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// DedupRecords drops records with empty URLs and keeps the first record for
// each normalized URL, preserving order.
func DedupRecords(records []SourceRecord) []SourceRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]SourceRecord, 0, len(records))

	for _, r := range records {
		key := NormalizeURL(r.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}
