package content

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// human-readable forms seen on article pages, tried in order after ISO
var knownLayouts = []string{
	"January 2, 2006 15:04 IST",
	"2 January 2006, 03:04 PM",
	"02 Jan 2006, 03:04 PM",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
}

// ErrUnknownFormat returned when a raw timestamp matches no known form
var ErrUnknownFormat = errors.New("unknown timestamp format")

// NormalizeTimestamp parses a raw publish time found in an article. Zone-less values are
// interpreted in loc.
func NormalizeTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrUnknownFormat
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	// schedule labels are often prefixed, e.g. "first published: January 27, 2026 13:06 IST"
	if i := strings.LastIndex(raw, ": "); i >= 0 {
		raw = strings.TrimSpace(raw[i+2:])
	}
	for _, layout := range knownLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	if t, err := dateparse.ParseIn(strings.TrimSuffix(raw, " IST"), loc); err == nil {
		return t, nil
	}
	return time.Time{}, ErrUnknownFormat
}
