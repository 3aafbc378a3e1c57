package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/config"
	"github.com/friendsincode/projecton/internal/coordinator"
	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/paginate"
	"github.com/friendsincode/projecton/internal/render"
	"github.com/friendsincode/projecton/internal/settings"
	"github.com/friendsincode/projecton/internal/slides"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *coordinator.Coordinator) {
	t.Helper()
	bus := events.NewBus()
	store, err := settings.NewStore(t.TempDir(), bus)
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	renderer := render.NewHeadless(paginate.Target{Width: 1280, Height: 720, FooterHeight: 60}, zerolog.Nop())
	coord := coordinator.New(paginate.New(nil, zerolog.Nop()), renderer, store, bus, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go coord.Run(ctx)

	srv, err := New(cfg, coord, store, bus, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, coord
}

func testSong(title string, segs ...string) slides.Slide {
	s := slides.Slide{Kind: slides.KindSong, Title: title}
	for _, tag := range segs {
		s.Segments = append(s.Segments, slides.Segment{Title: tag, HTML: tag})
	}
	return s
}

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// waitFor polls until cond holds; the coordinator applies commands on its
// own goroutine.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &config.Config{})
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "ok ") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCommandSubmitGoLiveByTitle(t *testing.T) {
	srv, coord := newTestServer(t, &config.Config{})
	coord.SetService([]slides.Slide{
		testSong("Opener", "Verse 1"),
		testSong("Closer", "Verse 1", "Chorus 1"),
	}, "")
	handler := srv.Routes()

	rec := postForm(handler, "/remote", url.Values{"oos_title": {"Closer"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	waitFor(t, "item to go live", func() bool {
		row, _ := coord.Cursors()
		return row == 1
	})
}

func TestCommandSubmitGoLiveByRowNumber(t *testing.T) {
	srv, coord := newTestServer(t, &config.Config{})
	coord.SetService([]slides.Slide{
		testSong("A", "Verse 1"),
		testSong("B", "Verse 1"),
		testSong("C", "Verse 1"),
	}, "")
	handler := srv.Routes()

	rec := postForm(handler, "/remote", url.Values{"oos_title": {"2"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	waitFor(t, "row 2 to go live", func() bool {
		row, liveRow := coord.Cursors()
		return row == 2 && liveRow == 0
	})
}

func TestCommandSubmitUnknownTitle(t *testing.T) {
	srv, coord := newTestServer(t, &config.Config{})
	coord.SetService([]slides.Slide{testSong("Only", "Verse 1")}, "")
	handler := srv.Routes()

	rec := postForm(handler, "/remote", url.Values{"oos_title": {"No Such Song"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCommandSubmitActionTokens(t *testing.T) {
	srv, coord := newTestServer(t, &config.Config{})
	coord.SetService([]slides.Slide{testSong("Only", "Verse 1", "Verse 2")}, "")
	handler := srv.Routes()

	postForm(handler, "/remote", url.Values{"oos_title": {"Only"}})
	waitFor(t, "item to go live", func() bool {
		return coord.State() == coordinator.StateLyrics
	})

	postForm(handler, "/mremote", url.Values{"slide_forward": {"1"}})
	waitFor(t, "slide to advance", func() bool {
		_, liveRow := coord.Cursors()
		return liveRow == 1
	})

	postForm(handler, "/remote", url.Values{"black_screen": {"1"}})
	waitFor(t, "blackout", func() bool {
		return coord.State() == coordinator.StateBlackout
	})
}

func TestRemotePagesRender(t *testing.T) {
	srv, coord := newTestServer(t, &config.Config{})
	coord.SetService([]slides.Slide{testSong("Opener", "Verse 1")}, "")
	handler := srv.Routes()

	for _, path := range []string{"/remote", "/mremote", "/stage"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s content type = %q", path, ct)
		}
	}
}

func TestPINGate(t *testing.T) {
	cfg := &config.Config{RemotePIN: "4512", JWTSigningKey: "test-signing-key"}
	srv, _ := newTestServer(t, cfg)
	handler := srv.Routes()

	// Without a session, control pages bounce to the login prompt.
	req := httptest.NewRequest(http.MethodGet, "/remote", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("unauthenticated GET /remote = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	// A wrong PIN loops back to the prompt without a cookie.
	rec = postForm(handler, "/login", url.Values{"pin": {"0000"}})
	if rec.Header().Get("Location") != "/login" {
		t.Errorf("bad PIN redirected to %q", rec.Header().Get("Location"))
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("bad PIN issued a cookie")
	}

	// The right PIN issues a session cookie that opens the gate.
	rec = postForm(handler, "/login", url.Values{"pin": {"4512"}})
	if rec.Header().Get("Location") != "/remote" {
		t.Fatalf("good PIN redirected to %q", rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("good PIN issued no cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/remote", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated GET /remote = %d", rec.Code)
	}

	// Health stays open regardless of the PIN gate.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz behind PIN = %d", rec.Code)
	}
}

func TestShutdownAcceptsGet(t *testing.T) {
	var asked bool
	done := make(chan struct{})
	srv, _ := newTestServer(t, &config.Config{})
	srv.requestShutdown = func() {
		asked = true
		close(done)
	}
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/shutdown", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /shutdown = %d", rec.Code)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback never ran")
	}
	if !asked {
		t.Error("shutdown not requested")
	}
}

func TestLoginRouteAbsentWithoutPIN(t *testing.T) {
	// With no PIN configured the login routes are absent entirely.
	srv, _ := newTestServer(t, &config.Config{})
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /login without PIN = %d, want 404", rec.Code)
	}
}

func TestListenAddrComesFromConfig(t *testing.T) {
	srv, _ := newTestServer(t, &config.Config{HTTPBind: "127.0.0.1", HTTPPort: 15999})
	if got := srv.listenAddr(); got != "127.0.0.1:15999" {
		t.Errorf("listenAddr = %q, want 127.0.0.1:15999", got)
	}
}

func TestMetricsServedOffMainRouter(t *testing.T) {
	srv, _ := newTestServer(t, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics on remote router = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	metricsRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics on metrics bind = %d, want 200", rec.Code)
	}
}
