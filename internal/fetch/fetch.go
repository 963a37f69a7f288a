package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"docsync/internal/domain"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 5
	userAgent           = "docsync/1.0"
)

// Result is the terminal outcome of a successful fetch, after any redirects
// have resolved to a 200 response.
type Result struct {
	Content    string // Response body decoded as UTF-8 text
	StatusCode int
	FinalURL   string // URL of the terminal response, after redirects
}

// Fetcher downloads remote documents over HTTP. Redirects are followed
// manually rather than by net/http so that every hop counts against the
// redirect bound and carries the same authentication policy.
type Fetcher struct {
	client       *http.Client
	token        string
	maxRedirects int
	timeout      time.Duration
	logger       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxRedirects overrides the redirect bound (default 5).
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) { f.maxRedirects = n }
}

// WithTimeout overrides the per-hop timeout (default 30s). Each hop gets its
// own budget; the chain as a whole has no aggregate deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// NewFetcher creates a Fetcher. The token may be empty; it is only required
// for private sources.
func NewFetcher(token string, logger *slog.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				// Redirects are handled in Fetch.
				return http.ErrUseLastResponse
			},
		},
		token:        token,
		maxRedirects: defaultMaxRedirects,
		timeout:      defaultTimeout,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a GET for url, following up to maxRedirects redirect hops,
// and returns the terminal body. A private source with no configured token
// fails with domain.ErrAuthRequired before any network I/O.
func (f *Fetcher) Fetch(ctx context.Context, url string, private bool) (*Result, error) {
	if private && f.token == "" {
		return nil, domain.ErrAuthRequired
	}

	current := url
	redirects := 0
	for {
		res, next, err := f.get(ctx, current, private)
		if err != nil {
			return nil, err
		}
		if next == "" {
			return res, nil
		}
		redirects++
		if redirects > f.maxRedirects {
			return nil, &RedirectError{URL: url, Hops: redirects}
		}
		f.logger.Debug("following redirect", "from", current, "to", next, "hop", redirects)
		current = next
	}
}

// get issues a single GET. It returns either a terminal result or, for a
// redirect response, the absolute URL of the next hop.
func (f *Fetcher) get(ctx context.Context, url string, private bool) (*Result, string, error) {
	hopCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	// Credentials are attached to private sources only, so a configured
	// token never travels to unrelated public hosts.
	if private {
		req.Header.Set("Authorization", "token "+f.token)
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", classify(url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read response body: %w", err)
		}
		return &Result{
			Content:    string(body),
			StatusCode: resp.StatusCode,
			FinalURL:   url,
		}, "", nil

	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		// Drain the hop body so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		loc := resp.Header.Get("Location")
		if loc == "" {
			return nil, "", &MalformedRedirectError{URL: url, StatusCode: resp.StatusCode}
		}
		next, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return nil, "", fmt.Errorf("malformed redirect location %q: %w", loc, err)
		}
		return nil, next.String(), nil

	default:
		io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}
}

// classify maps transport-level failures onto the fetch error taxonomy.
func classify(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: url, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Err: err}
	}
	return &NetworkError{URL: url, Err: err}
}
