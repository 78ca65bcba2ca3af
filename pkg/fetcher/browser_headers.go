package fetcher

import (
	"net/http"
	"strings"
)

const (
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptFeed = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5"
)

// setBrowserHeaders sets the fixed identity header and browser-like accept headers.
// Accept-Encoding is left to the transport, so gzip responses are decoded transparently.
func setBrowserHeaders(req *http.Request, userAgent, acceptLanguage string) {
	req.Header.Set("User-Agent", userAgent)

	accept := acceptHTML
	if looksLikeFeed(req.URL.Path) {
		accept = acceptFeed
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	// modern browsers send Sec-Fetch-* headers
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
}

func looksLikeFeed(path string) bool {
	path = strings.ToLower(path)
	for _, suffix := range []string{".xml", ".rss", ".atom", "/feed", "/rss"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
