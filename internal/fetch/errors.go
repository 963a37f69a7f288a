package fetch

import "fmt"

// StatusError reports a terminal non-2xx, non-redirect response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s fetching %s", e.Status, e.URL)
}

// RedirectError reports a redirect chain longer than the configured bound.
type RedirectError struct {
	URL  string // URL the chain started from
	Hops int    // Redirects followed before giving up
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("too many redirects (%d) fetching %s", e.Hops, e.URL)
}

// MalformedRedirectError reports a 3xx response without a usable Location
// header.
type MalformedRedirectError struct {
	URL        string
	StatusCode int
}

func (e *MalformedRedirectError) Error() string {
	return fmt.Sprintf("redirect response %d from %s has no Location header", e.StatusCode, e.URL)
}

// TimeoutError reports a request that did not complete within the per-hop
// timeout budget.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NetworkError reports a connection-level failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
