// Package sentiment rates headline polarity. Lexicon is a local word-list scorer,
// LLM asks an OpenAI-compatible chat endpoint.
package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/umputun/newspulse/pkg/domain"
)

var wordRe = regexp.MustCompile(`[a-z]+(?:-[a-z]+)?`)

var positiveWords = map[string]bool{
	"gain": true, "gains": true, "gained": true, "rise": true, "rises": true, "rose": true, "rally": true,
	"rallies": true, "jump": true, "jumps": true, "jumped": true, "surge": true, "surges": true, "surged": true,
	"soar": true, "soars": true, "soared": true, "climb": true, "climbs": true, "climbed": true, "up": true,
	"high": true, "higher": true, "record": true, "profit": true, "profits": true, "beat": true, "beats": true,
	"upgrade": true, "upgraded": true, "growth": true, "grows": true, "bullish": true, "strong": true,
	"boost": true, "boosts": true, "outperform": true, "recovery": true, "recovers": true, "rebound": true,
	"rebounds": true, "approval": true, "approves": true, "wins": true, "expands": true, "dividend": true,
	"buy": true, "optimism": true, "positive": true,
}

var negativeWords = map[string]bool{
	"fall": true, "falls": true, "fell": true, "drop": true, "drops": true, "dropped": true, "slump": true,
	"slumps": true, "plunge": true, "plunges": true, "plunged": true, "crash": true, "crashes": true,
	"decline": true, "declines": true, "declined": true, "slip": true, "slips": true, "slipped": true,
	"down": true, "low": true, "lower": true, "loss": true, "losses": true, "miss": true, "misses": true,
	"downgrade": true, "downgraded": true, "weak": true, "weaker": true, "bearish": true, "cut": true,
	"cuts": true, "sell-off": true, "selloff": true, "slowdown": true, "fraud": true, "default": true,
	"probe": true, "penalty": true, "fine": true, "layoffs": true, "sell": true, "concern": true,
	"concerns": true, "fears": true, "tumble": true, "tumbles": true, "sinks": true, "negative": true,
}

// Lexicon scores text by counting known positive and negative market words.
// The score is the share of the dominant polarity among matched words.
type Lexicon struct{}

// Score returns the label and its strength in [0,1], neutral when nothing matched or polarity is balanced
func (Lexicon) Score(_ context.Context, text string) (domain.Sentiment, float64, error) {
	var pos, neg int
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		}
	}
	if pos == neg {
		return domain.SentimentNeutral, 0, nil
	}
	score := math.Round(float64(max(pos, neg))/float64(pos+neg)*100) / 100
	if pos > neg {
		return domain.SentimentPositive, score, nil
	}
	return domain.SentimentNegative, score, nil
}
