package notify

import (
	"regexp"
	"strings"

	"github.com/umputun/newspulse/pkg/domain"
)

// minNameLen is the shortest company name matched as a substring, shorter ones are too noisy
const minNameLen = 4

// Matcher checks records against one watchlist entry. Symbols match on word boundaries,
// names as case-insensitive substrings. Both look at headline and full content.
type Matcher struct {
	symbols []*regexp.Regexp
	names   []string
}

// NewMatcher compiles a matcher for the watchlist entry
func NewMatcher(w domain.Watch) *Matcher {
	res := &Matcher{}
	for _, sym := range w.Symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		res.symbols = append(res.symbols, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(sym)+`\b`))
	}
	for _, name := range w.Names {
		name = strings.ToLower(strings.TrimSpace(name))
		if len([]rune(name)) < minNameLen {
			continue
		}
		res.names = append(res.names, name)
	}
	return res
}

// Match reports whether the record mentions any watched symbol or name
func (m *Matcher) Match(rec domain.NewsRecord) bool {
	text := rec.Headline + " " + rec.FullContent
	for _, re := range m.symbols {
		if re.MatchString(text) {
			return true
		}
	}
	if len(m.names) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, name := range m.names {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher has nothing to look for
func (m *Matcher) Empty() bool {
	return len(m.symbols) == 0 && len(m.names) == 0
}
