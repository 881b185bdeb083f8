package domain

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tagCaser = cases.Lower(language.Und)

// NormalizeTag lowercases (Unicode case folding) and trims a single tag.
func NormalizeTag(tag string) string {
	return tagCaser.String(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, drops empties and collapses
// duplicates while preserving first-seen order, so "Rust" and "rust"
// never coexist in storage.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// URLKey derives the dedup key for a source URL: query string and fragment
// stripped, scheme and host lowercased, trailing slash trimmed. Re-imports
// of the same post with different tracking parameters collapse to one key.
// Unparseable URLs fall back to the trimmed raw string.
func URLKey(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return strings.TrimSuffix(u.String(), "/")
}
