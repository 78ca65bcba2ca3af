package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newspulse/pkg/domain"
)

const snippetLen = 280

// LogNotifier writes notifications to the log instead of delivering them
type LogNotifier struct{}

// Notify logs a digest of the records for the user
func (LogNotifier) Notify(_ context.Context, user string, records []domain.NewsRecord) error {
	lgr.Printf("[INFO] %s", Digest(user, records))
	return nil
}

// Digest renders a plain text summary of records for the user
func Digest(user string, records []domain.NewsRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "notification for %s: %d new updates on your watchlist", user, len(records))
	for _, r := range records {
		fmt.Fprintf(&sb, "\n - %s (%s, %s) %s", r.Headline, r.Timestamp, r.Sentiment, r.Link)
		if snippet := snippet(r.FullContent); snippet != "" {
			fmt.Fprintf(&sb, "\n   %s", snippet)
		}
	}
	return sb.String()
}

func snippet(content string) string {
	if content == domain.NoContent {
		return ""
	}
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen]) + "..."
}
