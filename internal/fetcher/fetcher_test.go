// internal/fetcher/fetcher_test.go
package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

func newTestFetcher(maxAttempts int) *Fetcher {
	f := New(config.PolitenessConfig{
		MinDelay:       0,
		MaxDelay:       0,
		RequestTimeout: 5 * time.Second,
		MaxBodyBytes:   1 << 20,
		RateLimit:      1000,
		RateBurst:      10,
		RespectRobots:  false,
		UserAgents:     []string{"test-agent/1.0"},
	}, config.RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxJitter:   time.Millisecond,
	})
	// No real waiting in tests.
	f.sleep = func(time.Duration) {}
	return f
}

func TestNewClampsRetryBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	for _, attempts := range []int{0, -3} {
		atomic.StoreInt32(&calls, 0)
		f := newTestFetcher(attempts)
		if _, err := f.FetchHTML(context.Background(), server.URL); err != nil {
			t.Fatalf("MaxAttempts=%d: FetchHTML failed: %v", attempts, err)
		}
		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Errorf("MaxAttempts=%d: server saw %d requests, want 1", attempts, got)
		}
	}
}

func TestFetchHTMLRecoversFromTransientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	f := newTestFetcher(4)
	body, err := f.FetchHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchHTML failed after transient errors: %v", err)
	}
	if !strings.Contains(body, "ok") {
		t.Errorf("unexpected body %q", body)
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("server saw %d requests, want 4", got)
	}
}

func TestFetchHTMLExhaustsRetryBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := newTestFetcher(4)
	_, err := f.FetchHTML(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	var fetchErr *utils.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type %T, want *utils.FetchError", err)
	}
	if fetchErr.Retryable {
		t.Error("exhausted error must be terminal")
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", fetchErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("server saw %d requests, want exactly 4", got)
	}
}

func TestFetchHTMLDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(4)
	_, err := f.FetchHTML(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var fetchErr *utils.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type %T, want *utils.FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d requests, want 1 (no retries)", got)
	}
}

func TestFetchHTMLRetriesForbidden(t *testing.T) {
	// Intermittent 403s from the source-side WAF succeed on a later attempt.
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("<html>through</html>"))
	}))
	defer server.Close()

	f := newTestFetcher(4)
	body, err := f.FetchHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(body, "through") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestFetchParsesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 class="title">Hello</h1></body></html>`))
	}))
	defer server.Close()

	f := newTestFetcher(1)
	doc, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := doc.Find("h1.title").Text(); got != "Hello" {
		t.Errorf("selector text = %q, want %q", got, "Hello")
	}
}

func TestFetchHTMLInvalidURL(t *testing.T) {
	f := newTestFetcher(1)
	_, err := f.FetchHTML(context.Background(), "not a url")
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestFetchHTMLRespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>public</html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := newTestFetcher(1)
	f.politeness.RespectRobots = true

	if _, err := f.FetchHTML(context.Background(), server.URL+"/private/page"); err == nil {
		t.Error("expected robots.txt to block /private")
	}
	if _, err := f.FetchHTML(context.Background(), server.URL+"/open/page"); err != nil {
		t.Errorf("allowed path blocked: %v", err)
	}
}

func TestBackoffDelayGrowth(t *testing.T) {
	f := New(config.PolitenessConfig{RequestTimeout: time.Second, MaxBodyBytes: 1, RateLimit: 1, RateBurst: 1},
		config.RetryConfig{MaxAttempts: 4, BaseDelay: 500 * time.Millisecond, MaxJitter: 300 * time.Millisecond})

	for attempt := 1; attempt <= 3; attempt++ {
		base := 500 * time.Millisecond * time.Duration(1<<uint(attempt-1))
		got := f.backoffDelay(attempt)
		if got < base || got >= base+300*time.Millisecond {
			t.Errorf("attempt %d: delay %v outside [%v, %v)", attempt, got, base, base+300*time.Millisecond)
		}
	}
}
