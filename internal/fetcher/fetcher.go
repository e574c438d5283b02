// internal/fetcher/fetcher.go
// Package fetcher provides the resilient HTTP layer under every source
// scraper: randomized politeness delays, exponential backoff with jitter
// against WAF-prone hosts, rotating browser-like user agents, and optional
// robots.txt gating.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/monitoring"
	"github.com/townhub/communityscraper/internal/utils"
)

// Fetcher performs polite, fault-tolerant GETs and parses the responses.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	politeness config.PolitenessConfig
	retry      config.RetryConfig

	userAgents []string
	uaIndex    int
	uaMu       sync.Mutex

	robots   map[string]*robotstxt.RobotsData
	robotsMu sync.Mutex

	rng   *rand.Rand
	rngMu sync.Mutex

	// sleep is swappable so tests don't wait out real backoff delays.
	sleep func(time.Duration)

	metrics *monitoring.Metrics

	log utils.Logger
}

// WithMetrics attaches request metrics. A nil argument leaves the fetcher
// unobserved.
func (f *Fetcher) WithMetrics(m *monitoring.Metrics) *Fetcher {
	f.metrics = m
	return f
}

// New creates a fetcher from politeness and retry configuration. The retry
// budget is clamped to at least one attempt so an unvalidated config cannot
// produce a fetcher that never issues requests.
func New(politeness config.PolitenessConfig, retry config.RetryConfig) *Fetcher {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: politeness.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Limit(politeness.RateLimit), politeness.RateBurst),
		politeness: politeness,
		retry:      retry,
		userAgents: politeness.UserAgents,
		robots:     make(map[string]*robotstxt.RobotsData),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      time.Sleep,
		log:        utils.NewComponentLogger("fetcher"),
	}
}

// Fetch retrieves a URL and parses it into a goquery document. Per-page
// failures come back as *utils.FetchError; exhausting the retry budget
// returns a terminal FetchError wrapping the last cause.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	html, err := f.FetchHTML(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &utils.FetchError{URL: targetURL, Retryable: false, Err: fmt.Errorf("parse HTML: %w", err)}
	}
	return doc, nil
}

// FetchHTML retrieves the raw page body with retry and politeness applied.
func (f *Fetcher) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Host == "" {
		return "", &utils.FetchError{URL: targetURL, Retryable: false, Err: fmt.Errorf("invalid URL: %v", err)}
	}

	if f.politeness.RespectRobots && !f.robotsAllowed(ctx, parsed) {
		return "", &utils.FetchError{URL: targetURL, Retryable: false, Err: fmt.Errorf("disallowed by robots.txt")}
	}

	var lastErr *utils.FetchError

	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		// Politeness delay before every request, not just retries.
		f.sleep(f.politenessDelay())

		if err := f.limiter.Wait(ctx); err != nil {
			return "", &utils.FetchError{URL: targetURL, Retryable: false, Err: err}
		}

		start := time.Now()
		body, fetchErr := f.doRequest(ctx, targetURL)
		f.observeRequest(fetchErr, time.Since(start), attempt)
		if fetchErr == nil {
			return body, nil
		}

		lastErr = fetchErr
		if !fetchErr.Retryable {
			return "", fetchErr
		}

		if attempt < f.retry.MaxAttempts {
			delay := f.backoffDelay(attempt)
			f.log.Debugf("retrying %s in %v (attempt %d/%d): %v",
				targetURL, delay, attempt, f.retry.MaxAttempts, fetchErr)
			f.sleep(delay)
		}
	}

	// Budget exhausted: terminal, carrying the last cause.
	return "", &utils.FetchError{
		URL:        targetURL,
		StatusCode: lastErr.StatusCode,
		Retryable:  false,
		Err:        fmt.Errorf("retries exhausted after %d attempts: %w", f.retry.MaxAttempts, lastErr),
	}
}

func (f *Fetcher) observeRequest(fetchErr *utils.FetchError, d time.Duration, attempt int) {
	if f.metrics == nil {
		return
	}
	outcome := "ok"
	if fetchErr != nil {
		outcome = "error"
	}
	f.metrics.ObserveRequest(outcome, d)
	if attempt > 1 {
		f.metrics.RetriesTotal.Inc()
	}
}

// doRequest performs one GET attempt and classifies the outcome.
func (f *Fetcher) doRequest(ctx context.Context, targetURL string) (string, *utils.FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &utils.FetchError{URL: targetURL, Retryable: false, Err: err}
	}
	f.setHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &utils.FetchError{
			URL:       targetURL,
			Retryable: utils.IsRetryableNetError(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &utils.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
			Err:        fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.politeness.MaxBodyBytes))
	if err != nil {
		return "", &utils.FetchError{URL: targetURL, Retryable: true, Err: fmt.Errorf("read body: %w", err)}
	}

	return string(body), nil
}

// retryableStatus: 429 and 5xx are the usual transient set; 403 is included
// because the source-side WAF blocks intermittently and usually lets the
// next attempt through.
func retryableStatus(code int) bool {
	if code == http.StatusTooManyRequests || code == http.StatusForbidden {
		return true
	}
	return code >= 500 && code < 600
}

// politenessDelay draws a uniform delay from [MinDelay, MaxDelay].
func (f *Fetcher) politenessDelay() time.Duration {
	span := f.politeness.MaxDelay - f.politeness.MinDelay
	if span <= 0 {
		return f.politeness.MinDelay
	}
	return f.politeness.MinDelay + time.Duration(f.randInt64(int64(span)))
}

// backoffDelay is base * 2^(attempt-1) plus random jitter.
func (f *Fetcher) backoffDelay(attempt int) time.Duration {
	delay := f.retry.BaseDelay * time.Duration(1<<uint(attempt-1))
	if f.retry.MaxJitter > 0 {
		delay += time.Duration(f.randInt64(int64(f.retry.MaxJitter)))
	}
	return delay
}

func (f *Fetcher) randInt64(n int64) int64 {
	f.rngMu.Lock()
	defer f.rngMu.Unlock()
	return f.rng.Int63n(n)
}

// setHeaders applies a rotating user agent and browser-like defaults.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (f *Fetcher) nextUserAgent() string {
	f.uaMu.Lock()
	defer f.uaMu.Unlock()

	if len(f.userAgents) == 0 {
		return "communityscraper/1.0"
	}
	ua := f.userAgents[f.uaIndex]
	f.uaIndex = (f.uaIndex + 1) % len(f.userAgents)
	return ua
}

// robotsAllowed fetches and caches robots.txt per host. Fetch failures are
// treated as allow: a missing robots file must not stall the run.
func (f *Fetcher) robotsAllowed(ctx context.Context, target *url.URL) bool {
	f.robotsMu.Lock()
	data, cached := f.robots[target.Host]
	f.robotsMu.Unlock()

	if !cached {
		data = f.loadRobots(ctx, target)
		f.robotsMu.Lock()
		f.robots[target.Host] = data
		f.robotsMu.Unlock()
	}

	if data == nil {
		return true
	}
	return data.TestAgent(target.Path, "communityscraper")
}

func (f *Fetcher) loadRobots(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	f.setHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.log.Debugf("unparseable robots.txt for %s: %v", target.Host, err)
		return nil
	}
	return data
}
