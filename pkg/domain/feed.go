package domain

// SourceKind defines how a category listing is parsed
type SourceKind string

// enum of supported listing kinds
const (
	SourceHTML SourceKind = "html"
	SourceRSS  SourceKind = "rss"
)

// Category represents a remote category listing scanned for article stubs
type Category struct {
	Name string
	URL  string
	Kind SourceKind
}

// Watch is a watchlist entry of a user, matched against news records for notifications
type Watch struct {
	User    string
	Symbols []string
	Names   []string
}
