package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure HTTPFetcher implements model.ContentFetcher.
var _ model.ContentFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher downloads job posting pages over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher. The client's Timeout bounds the whole download.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch GETs url and returns the body decoded to UTF-8. Transport failures and
// non-2xx responses are reported as *model.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &model.FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &model.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	// Decode to UTF-8 using the declared or sniffed charset.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &model.FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("decode body: %w", err)}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &model.FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(data), nil
}
