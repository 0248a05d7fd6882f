package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/markdown"
)

// Result is the outcome of probing one URL. A valid result carries no status
// fields; an invalid one always has a status and message.
type Result struct {
	URL        string
	Valid      bool
	Status     int
	StatusText string
}

// Progress reports fan-out completion to the caller.
type Progress struct {
	Total     int
	Completed int
}

// HTTPDoer abstracts the HTTP client so tests can substitute transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker validates every absolute hyperlink in a rendered document. Probe
// failures are expected outcomes captured as Results, never errors.
type Checker struct {
	client        HTTPDoer
	cache         *Cache
	timeout       time.Duration
	userAgent     string
	maxConcurrent int
	logger        *slog.Logger
}

// Option customizes the checker.
type Option func(*Checker)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// NewChecker builds a checker from config. The cache is injected rather than
// ambient so tests can seed or reset it; pass nil for a fresh one.
func NewChecker(cfg *config.Config, cache *Cache, logger *slog.Logger, opts ...Option) *Checker {
	if cache == nil {
		cache = NewCache()
	}
	timeout := time.Duration(cfg.LinkCheck.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	checker := &Checker{
		// Timeout is enforced per request via context, not on the client,
		// so the HEAD attempt and its GET retry each get the full window.
		client:        &http.Client{},
		cache:         cache,
		timeout:       timeout,
		userAgent:     cfg.LinkCheck.UserAgent,
		maxConcurrent: cfg.LinkCheck.MaxConcurrent,
		logger:        logging.WithComponent(logger, "linkcheck"),
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker
}

// CheckDocument renders text to HTML, extracts every http-prefixed link, and
// probes them all concurrently. onProgress fires once per probe with a
// strictly increasing completed count; the final call always reports
// completed equal to the link total. The returned slice holds only invalid
// results, ordered by completion. A render failure is fatal to the whole call.
func (c *Checker) CheckDocument(ctx context.Context, text string, onProgress func(Progress)) ([]Result, error) {
	html, err := markdown.Render(text)
	if err != nil {
		return nil, err
	}
	links, err := markdown.ExtractLinks(html)
	if err != nil {
		return nil, err
	}

	total := len(links)
	c.logger.Debug("starting link validation", slog.Int("links", total))

	var (
		mu        sync.Mutex
		completed int
		invalid   []Result
		wg        sync.WaitGroup
	)

	var sem chan struct{}
	if c.maxConcurrent > 0 {
		sem = make(chan struct{}, c.maxConcurrent)
	}

	for _, link := range links {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			result := c.CheckURL(ctx, url)

			// The callback runs under the lock so updates arrive in
			// counter order and the last delivery always carries
			// completed == total. A slow callback slows the fan-in,
			// never reorders it.
			mu.Lock()
			completed++
			if !result.Valid {
				invalid = append(invalid, result)
			}
			if onProgress != nil {
				onProgress(Progress{Total: total, Completed: completed})
			}
			mu.Unlock()
		}(link)
	}
	wg.Wait()

	c.logger.Debug("link validation finished",
		slog.Int("links", total), slog.Int("invalid", len(invalid)))
	return invalid, nil
}

// CheckURL validates a single URL. HEAD first to save bandwidth; a HEAD that
// times out is retried once with GET, because some origins disallow HEAD.
func (c *Checker) CheckURL(ctx context.Context, url string) Result {
	return c.probe(ctx, url, http.MethodHead)
}

func (c *Checker) probe(ctx context.Context, url, method string) Result {
	if c.cache.Contains(url) {
		return Result{URL: url, Valid: true}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, nil)
	if err != nil {
		return Result{URL: url, Valid: false, Status: http.StatusInternalServerError, StatusText: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			if method == http.MethodHead {
				// The HEAD timeout self-cancels via context; the GET
				// retry's outcome is final. Non-timeout HEAD rejections
				// are reported as failures without retry.
				c.logger.Debug("HEAD timed out, retrying with GET", slog.String("url", url))
				return c.probe(ctx, url, http.MethodGet)
			}
			return Result{
				URL:        url,
				Valid:      false,
				Status:     http.StatusInternalServerError,
				StatusText: fmt.Sprintf("Timed out after %g seconds.", c.timeout.Seconds()),
			}
		}
		return Result{URL: url, Valid: false, Status: http.StatusInternalServerError, StatusText: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	// Anything other than 404 counts as reachable, including 3xx/401/403/500.
	// This screens for "page does not exist", not general server health.
	if resp.StatusCode != http.StatusNotFound {
		c.cache.Add(url)
		return Result{URL: url, Valid: true}
	}
	return Result{
		URL:        url,
		Valid:      false,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
