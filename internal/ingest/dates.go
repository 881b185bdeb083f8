package ingest

import (
	"fmt"
	"strings"
	"time"
)

// All timestamps are normalized to UTC. Zone-less layouts are interpreted
// as UTC, matching the export tools that produce them; nothing is ever
// interpreted in the local timezone.
var (
	deweyLayouts = []string{
		"03:04 PM, Jan 02, 2006", // "02:51 PM, May 01, 2024"
		"Jan 02, 2006 03:04 PM",  // "May 01, 2024 02:51 PM"
	}
	isoLayouts = []string{
		"2006-01-02T15:04:05", // bare ISO without zone
	}
	twitterNativeLayout = "Mon Jan 02 15:04:05 -0700 2006" // "Wed Oct 10 20:19:24 +0000 2018"
)

func parseDeweyDate(s string) (time.Time, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	for _, layout := range deweyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func parseISODate(s string) (time.Time, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func parseJSONDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(twitterNativeLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
