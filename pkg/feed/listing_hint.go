package feed

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// listing pages show coarse dates, so this chain is deliberately separate from the
// canonical timestamp normalization done during enrichment
var listingLayouts = []string{
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
}

// parseListingHint converts a listing label like "2 hours ago" or "Jan 27, 2026" to time
func parseListingHint(text string, now time.Time, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "ago") {
		n := leadingNumber(lower)
		switch {
		case strings.Contains(lower, "min"), strings.Contains(lower, "sec"), strings.Contains(lower, "just"):
			return now, true
		case strings.Contains(lower, "hour"), strings.Contains(lower, "hr"):
			return now.Add(-time.Duration(n) * time.Hour), true
		case strings.Contains(lower, "day"):
			return now.AddDate(0, 0, -n), true
		case strings.Contains(lower, "week"):
			return now.AddDate(0, 0, -7*n), true
		}
		return time.Time{}, false
	}

	text = strings.TrimSpace(strings.TrimSuffix(text, "IST"))
	for _, layout := range listingLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// leadingNumber collects all digits of s, defaulting to 1 when there are none
func leadingNumber(s string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
