package ai

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/coverletter/internal/model"
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// statusError converts a non-200 provider response into *model.HTTPError so
// the retry decorator can classify it.
func statusError(provider string, resp *http.Response, body []byte) error {
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        &providerError{provider: provider, body: string(body)},
	}
}

type providerError struct {
	provider string
	body     string
}

func (e *providerError) Error() string {
	return e.provider + " returned: " + e.body
}
