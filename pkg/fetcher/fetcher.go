// Package fetcher issues single bounded HTTP GET requests for listing and article documents.
// It never retries, retry policy belongs to callers.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is the identity header used when none configured
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultMaxSize = 5 * 1024 * 1024

// Document is a fetched remote document with body decoded to UTF-8
type Document struct {
	URL         string // final URL after redirects
	Status      int
	ContentType string
	Body        []byte
}

// Reader returns a new reader over the document body
func (d *Document) Reader() io.Reader {
	return bytes.NewReader(d.Body)
}

// FetchError is returned for transport failures, timeouts and non-2xx responses
type FetchError struct {
	URL    string
	Status int // zero if no response received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether the fetch failed on its deadline
func (e *FetchError) IsTimeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Options for HTTPFetcher
type Options struct {
	UserAgent      string
	AcceptLanguage string
	MaxSize        int64 // max body size in bytes
}

// HTTPFetcher fetches documents over HTTP
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// NewHTTPFetcher creates a fetcher, zero options get defaults
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = "en-US,en;q=0.9"
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}
	return &HTTPFetcher{
		opts: opts,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch retrieves the document at urlStr, waiting no longer than timeout
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string, timeout time.Duration) (*Document, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("parse URL: %w", err)}
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &FetchError{URL: urlStr, Err: errors.New("invalid URL")}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("create request: %w", err)}
	}
	setBrowserHeaders(req, f.opts.UserAgent, f.opts.AcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &FetchError{URL: urlStr, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxSize))
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("read body: %w", err)}
	}

	contentType := resp.Header.Get("Content-Type")
	if decoded, cerr := charset.NewReader(bytes.NewReader(data), contentType); cerr == nil {
		if utf8Data, rerr := io.ReadAll(decoded); rerr == nil {
			data = utf8Data
		}
	}

	return &Document{
		URL:         resp.Request.URL.String(),
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}
