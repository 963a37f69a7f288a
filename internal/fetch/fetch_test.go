package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/domain"
	"docsync/internal/log"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# Widget\n")
	}))
	defer srv.Close()

	f := NewFetcher("", log.NullLogger())
	res, err := f.Fetch(context.Background(), srv.URL, false)

	require.NoError(t, err)
	assert.Equal(t, "# Widget\n", res.Content)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, srv.URL, res.FinalURL)
}

func TestFetch_FollowsRedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/middle", http.StatusFound)
	})
	mux.HandleFunc("/middle", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "terminal body")
	})

	f := NewFetcher("", log.NullLogger())
	res, err := f.Fetch(context.Background(), srv.URL+"/start", false)

	require.NoError(t, err)
	assert.Equal(t, "terminal body", res.Content)
	assert.Equal(t, srv.URL+"/end", res.FinalURL)
}

func TestFetch_RedirectBound(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// Endless loop: every hop redirects to the next.
	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Redirect(w, r, r.URL.Path+"x", http.StatusMovedPermanently)
	})

	f := NewFetcher("", log.NullLogger(), WithMaxRedirects(3))
	_, err := f.Fetch(context.Background(), srv.URL+"/hop/", false)

	var redirectErr *RedirectError
	require.ErrorAs(t, err, &redirectErr)
	assert.Equal(t, 4, redirectErr.Hops)
	// The over-limit redirect is detected without issuing another request:
	// initial request plus one per allowed redirect.
	assert.Equal(t, int32(4), requests.Load())
}

func TestFetch_MissingLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	f := NewFetcher("", log.NullLogger())
	_, err := f.Fetch(context.Background(), srv.URL, false)

	var malformed *MalformedRedirectError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, http.StatusFound, malformed.StatusCode)
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher("", log.NullLogger())
	_, err := f.Fetch(context.Background(), srv.URL, false)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestFetch_PrivateWithoutToken(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	f := NewFetcher("", log.NullLogger())
	_, err := f.Fetch(context.Background(), srv.URL, true)

	require.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, int32(0), requests.Load(), "pre-flight failure must not touch the network")
}

func TestFetch_AuthHeaderPolicy(t *testing.T) {
	var gotAuth, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f := NewFetcher("secret", log.NullLogger())

	_, err := f.Fetch(context.Background(), srv.URL, true)
	require.NoError(t, err)
	assert.Equal(t, "token secret", gotAuth)
	assert.Equal(t, userAgent, gotAgent)

	// A configured token must not travel on public fetches.
	_, err = f.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestFetch_AuthHeaderSurvivesRedirect(t *testing.T) {
	var terminalAuth string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusPermanentRedirect)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		terminalAuth = r.Header.Get("Authorization")
	})

	f := NewFetcher("secret", log.NullLogger())
	_, err := f.Fetch(context.Background(), srv.URL+"/moved", true)

	require.NoError(t, err)
	assert.Equal(t, "token secret", terminalAuth)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFetcher("", log.NullLogger(), WithTimeout(50*time.Millisecond))
	_, err := f.Fetch(context.Background(), srv.URL, false)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestFetch_NetworkError(t *testing.T) {
	// Reserve a port, then close it so the connection is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher("", log.NullLogger())
	_, err := f.Fetch(context.Background(), url, false)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}
