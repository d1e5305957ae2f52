// Package scrape implements the job-posting producers: the Greenhouse board
// crawler and the SimplifyJobs internship-list parser. Producers return zero
// or more raw jobs; deduplication and persistence happen downstream.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests. Greenhouse
// serves a reduced page to obvious bots, so this mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchError represents an error during URL fetching.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves the body of a URL. Scrapers depend on this interface so
// tests can substitute canned pages.
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) (body string, statusCode int, err error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	Timeout   time.Duration
	UserAgent string

	// UseBrowser renders pages in a headless browser instead of plain HTTP,
	// for boards that only populate their listings client-side.
	UseBrowser bool
}

// Fetch retrieves a URL. Non-200 responses are returned with the status code
// and no error; transport failures return a FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (string, int, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", 0, &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if f.UseBrowser {
		html, err := renderWithBrowser(ctx, urlStr, f.timeout())
		if err != nil {
			return "", 0, &FetchError{URL: urlStr, Message: "browser rendering failed", Cause: err}
		}
		return html, http.StatusOK, nil
	}

	client := &http.Client{Timeout: f.timeout()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", 0, &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return string(body), resp.StatusCode, nil
}

func (f *HTTPFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *HTTPFetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return DefaultUserAgent
}
