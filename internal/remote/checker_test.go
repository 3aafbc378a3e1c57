package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/events"
)

func newTestChecker(t *testing.T, handler http.Handler) *Checker {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	checker := NewChecker(events.NewBus(), zerolog.Nop())
	checker.baseURL = ts.URL
	return checker
}

func TestCheckerAllPagesHealthy(t *testing.T) {
	checker := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	page, err := checker.check(context.Background())
	if err != nil {
		t.Fatalf("check: %v (page %s)", err, page)
	}
}

func TestCheckerReportsNon200(t *testing.T) {
	// A misrouted page answers, but not with 200; that still counts as
	// down.
	checker := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mremote" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	page, err := checker.check(context.Background())
	if err == nil {
		t.Fatal("404 page passed the liveness check")
	}
	if page != "/mremote" {
		t.Errorf("failing page = %q, want /mremote", page)
	}
}

func TestCheckerReportsUnreachable(t *testing.T) {
	checker := NewChecker(events.NewBus(), zerolog.Nop())
	checker.baseURL = "http://127.0.0.1:1" // nothing listens here

	if _, err := checker.check(context.Background()); err == nil {
		t.Fatal("unreachable surface passed the liveness check")
	}
}
