package linkcheck_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/linkcheck"
	"showrunner/internal/logging"
	"showrunner/internal/testsupport"
)

func newChecker(t *testing.T, cfg *config.Config, cache *linkcheck.Cache, opts ...linkcheck.Option) *linkcheck.Checker {
	t.Helper()
	return linkcheck.NewChecker(cfg, cache, logging.NewNop(), opts...)
}

func TestCheckURLValidatesReachablePage(t *testing.T) {
	var gotMethod, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAgent = r.UserAgent()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	checker := newChecker(t, cfg, nil)

	result := checker.CheckURL(context.Background(), server.URL)
	if !result.Valid {
		t.Fatalf("expected valid result, got %#v", result)
	}
	if gotMethod != http.MethodHead {
		t.Fatalf("expected HEAD probe, got %s", gotMethod)
	}
	if gotAgent != cfg.LinkCheck.UserAgent {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
}

func TestCheckURLOnlyNotFoundIsInvalid(t *testing.T) {
	statuses := []int{200, 301, 401, 403, 500, 503}
	for _, status := range statuses {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			checker := newChecker(t, testsupport.NewConfig(t), nil)
			if result := checker.CheckURL(context.Background(), server.URL); !result.Valid {
				t.Fatalf("expected status %d to count as reachable, got %#v", status, result)
			}
		})
	}

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := newChecker(t, testsupport.NewConfig(t), nil)
	result := checker.CheckURL(context.Background(), server.URL)
	if result.Valid {
		t.Fatal("expected 404 to be invalid")
	}
	if result.Status != http.StatusNotFound || result.StatusText != "Not Found" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestCheckURLCachesOnlySuccesses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cache := linkcheck.NewCache()
	checker := newChecker(t, testsupport.NewConfig(t), cache)

	ctx := context.Background()
	good := server.URL + "/ok"
	bad := server.URL + "/missing"

	checker.CheckURL(ctx, good)
	checker.CheckURL(ctx, good)
	if hits.Load() != 1 {
		t.Fatalf("expected the second probe to hit the cache, got %d requests", hits.Load())
	}
	if !cache.Contains(good) {
		t.Fatal("expected reachable URL cached")
	}

	checker.CheckURL(ctx, bad)
	checker.CheckURL(ctx, bad)
	if cache.Contains(bad) {
		t.Fatal("404 URL must never be cached")
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 404 to be re-probed each time, got %d requests", hits.Load())
	}
}

func TestCheckURLRetriesTimedOutHeadWithGet(t *testing.T) {
	var methods []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		if r.Method == http.MethodHead {
			time.Sleep(500 * time.Millisecond)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.LinkCheck.TimeoutMS = 100
	checker := newChecker(t, cfg, nil)

	result := checker.CheckURL(context.Background(), server.URL)
	if !result.Valid {
		t.Fatalf("expected GET retry to validate, got %#v", result)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(methods) != 2 || methods[0] != http.MethodHead || methods[1] != http.MethodGet {
		t.Fatalf("expected HEAD then GET, got %v", methods)
	}
}

func TestCheckURLReportsTimeoutAfterGetRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.LinkCheck.TimeoutMS = 100
	checker := newChecker(t, cfg, nil)

	result := checker.CheckURL(context.Background(), server.URL)
	if result.Valid {
		t.Fatal("expected timeout to be invalid")
	}
	if result.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", result.Status)
	}
	if result.StatusText != "Timed out after 0.1 seconds." {
		t.Fatalf("unexpected message: %q", result.StatusText)
	}
}

func TestCheckURLConnectionErrorIsNotRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	checker := newChecker(t, testsupport.NewConfig(t), nil)
	result := checker.CheckURL(context.Background(), url)
	if result.Valid {
		t.Fatal("expected connection failure to be invalid")
	}
	if result.Status != http.StatusInternalServerError || result.StatusText == "" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestCheckDocumentReportsProgressAndInvalidLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/gone") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notes := fmt.Sprintf(
		"# Links\n\n- [good](%s/ok)\n- [gone](%s/gone)\n- [relative](/local/page)\n",
		server.URL, server.URL,
	)

	checker := newChecker(t, testsupport.NewConfig(t), nil)

	var mu sync.Mutex
	var updates []linkcheck.Progress
	invalid, err := checker.CheckDocument(context.Background(), notes, func(p linkcheck.Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("CheckDocument failed: %v", err)
	}

	if len(invalid) != 1 {
		t.Fatalf("expected one invalid link, got %#v", invalid)
	}
	if invalid[0].URL != server.URL+"/gone" || invalid[0].Status != http.StatusNotFound {
		t.Fatalf("unexpected invalid result: %#v", invalid[0])
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 {
		t.Fatalf("expected two progress updates for two absolute links, got %d", len(updates))
	}
	for _, p := range updates {
		if p.Total != 2 {
			t.Fatalf("expected total 2 in every update, got %#v", p)
		}
	}
	last := updates[len(updates)-1]
	if last.Completed != 2 {
		t.Fatalf("expected final update completed=2, got %#v", last)
	}
}

func TestCheckDocumentProgressArrivesInCounterOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notes := fmt.Sprintf("[a](%s/a) [b](%s/b)", server.URL, server.URL)
	checker := newChecker(t, testsupport.NewConfig(t), nil)

	// A slow consumer of the first update must not let the second update
	// overtake it; delivery is serialized with the counter increment.
	var updates []linkcheck.Progress
	_, err := checker.CheckDocument(context.Background(), notes, func(p linkcheck.Progress) {
		if p.Completed == 1 {
			time.Sleep(50 * time.Millisecond)
		}
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("CheckDocument failed: %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("expected two progress updates, got %d", len(updates))
	}
	for i, p := range updates {
		if p.Completed != i+1 {
			t.Fatalf("expected strictly increasing completed counts, got %#v", updates)
		}
	}
	if final := updates[len(updates)-1]; final.Completed != final.Total {
		t.Fatalf("expected final update completed=total, got %#v", final)
	}
}

func TestCheckDocumentNoLinks(t *testing.T) {
	checker := newChecker(t, testsupport.NewConfig(t), nil)

	called := false
	invalid, err := checker.CheckDocument(context.Background(), "just prose, no links", func(linkcheck.Progress) {
		called = true
	})
	if err != nil {
		t.Fatalf("CheckDocument failed: %v", err)
	}
	if len(invalid) != 0 {
		t.Fatalf("expected no invalid results, got %#v", invalid)
	}
	if called {
		t.Fatal("expected no progress callbacks without links")
	}
}

func TestCheckDocumentHonorsConcurrencyBound(t *testing.T) {
	var current, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := current.Add(1)
		for {
			observed := peak.Load()
			if value <= observed || peak.CompareAndSwap(observed, value) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		current.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var notes strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&notes, "- [link %d](%s/page-%d)\n", i, server.URL, i)
	}

	cfg := testsupport.NewConfig(t)
	cfg.LinkCheck.MaxConcurrent = 2
	checker := newChecker(t, cfg, nil)

	if _, err := checker.CheckDocument(context.Background(), notes.String(), nil); err != nil {
		t.Fatalf("CheckDocument failed: %v", err)
	}
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 in-flight probes, saw %d", peak.Load())
	}
}

func TestSharedCacheSkipsSecondDocumentPass(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notes := fmt.Sprintf("[site](%s/page)", server.URL)
	cache := linkcheck.NewCache()

	ctx := context.Background()
	first := newChecker(t, testsupport.NewConfig(t), cache)
	if _, err := first.CheckDocument(ctx, notes, nil); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second := newChecker(t, testsupport.NewConfig(t), cache)
	if _, err := second.CheckDocument(ctx, notes, nil); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected one network probe across both passes, got %d", hits.Load())
	}
}
