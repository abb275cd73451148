package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fortunecookie/fortunecookie/internal/config"
	"github.com/fortunecookie/fortunecookie/internal/fortune"
	"github.com/fortunecookie/fortunecookie/internal/metrics"
	"github.com/fortunecookie/fortunecookie/internal/middleware"
	"github.com/fortunecookie/fortunecookie/internal/service"
	"github.com/fortunecookie/fortunecookie/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	assets := t.TempDir()
	if err := os.WriteFile(filepath.Join(assets, "fortune-cookie.png"), []byte("png"), 0o600); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return &config.Config{
		AppEnv:               "test",
		AppPort:              3000,
		BaseURL:              "https://cookie.example",
		FortuneCooldownHours: 24,
		StoreBackend:         config.BackendMemory,
		RateLimitEnabled:     true,
		RateLimitRPS:         100,
		RateLimitBurst:       100,
		CORSAllowedOrigins:   "*",
		MaxRequestBodySize:   1 << 20,
		MetricsEnabled:       true,
		AssetsDir:            assets,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory(cfg.FortuneCooldown())

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheus(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	return setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		svc:      service.NewFortuneService(st, fortune.NewPicker(), recorder, logger),
		health:   st,
		limiter:  middleware.NewIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, time.Minute),
		registry: reg,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_FortuneFlow(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(t, h, http.MethodGet, "/api/fortune/status?userId=carol", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/fortune/new", `{"userId":"carol"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("new: got %d: %s", rec.Code, rec.Body.String())
	}
	var fortuneResp struct {
		Fortune   string `json:"fortune"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&fortuneResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, msg := range fortune.NewPicker().All() {
		if msg == fortuneResp.Fortune {
			found = true
		}
	}
	if !found {
		t.Errorf("fortune %q not from the message list", fortuneResp.Fortune)
	}
	if _, err := time.Parse(time.RFC3339, fortuneResp.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", fortuneResp.Timestamp, err)
	}

	rec = do(t, h, http.MethodPost, "/api/fortune/new", `{"userId":"carol"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("second new: got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/fortune/status?userId=carol", "")
	var status struct {
		CanGetFortune  bool    `json:"canGetFortune"`
		CurrentFortune *string `json:"currentFortune"`
		LastFortuneAt  *int64  `json:"lastFortuneAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.CanGetFortune || status.CurrentFortune == nil || *status.CurrentFortune != fortuneResp.Fortune || status.LastFortuneAt == nil {
		t.Errorf("unexpected status after grant: %+v", status)
	}
}

func TestRouter_FrameRequest(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(t, h, http.MethodPost, "/api/fortune/new", `{"untrustedData":{"fid":1,"buttonIndex":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("frame post: got %d", rec.Code)
	}
	var meta struct {
		Image   string `json:"image"`
		Text    string `json:"text"`
		Buttons []struct {
			Label string `json:"label"`
		} `json:"buttons"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&meta); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Image != "https://cookie.example/assets/fortune-cookie.png" {
		t.Errorf("image = %q", meta.Image)
	}
	if !strings.HasPrefix(meta.Text, "🥠 Your drunk fortune says:") {
		t.Errorf("text = %q", meta.Text)
	}
}

func TestRouter_PagesAndManifest(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "application/json", `"frames"`},
		{"/.well-known/warpcast.json", "application/json", `"external_url":"https://cookie.example"`},
		{"/warpcast.json", "application/json", `"name":"Drunk Fortune Cookie"`},
		{"/frame", "text/html", `fc:frame`},
		{"/minimal-frame", "text/html", `1.91:1`},
		{"/healthz", "application/json", `"ok"`},
		{"/readyz", "application/json", `"memory":"ok"`},
		{"/metrics", "text/plain", "fortunecookie_"},
		{"/assets/fortune-cookie.png", "", "png"},
	}

	// generate one metric sample so the fortune series are exported
	do(t, h, http.MethodPost, "/api/fortune/new", `{"userId":"dave"}`)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("got %d", rec.Code)
			}
			if tt.contentType != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("Content-Type = %q, want %s", rec.Header().Get("Content-Type"), tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestRouter_FramePagesAreEmbeddable(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	rec := do(t, h, http.MethodGet, "/frame", "")
	if got := rec.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("frame page X-Frame-Options = %q", got)
	}

	rec = do(t, h, http.MethodGet, "/api/fortune/status?userId=x", "")
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("api X-Frame-Options = %q, want DENY", got)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/fortune/new", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route: got %d", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	h := newTestRouter(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodGet, "/api/fortune/status?userId=eve", "").Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want third request limited", codes)
	}

	// health checks are not limited
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: got %d", rec.Code)
	}
}

func TestRouter_FrameRequestsNotRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	h := newTestRouter(t, cfg)

	for i := 0; i < 10; i++ {
		rec := do(t, h, http.MethodPost, "/api/fortune/new", `{"untrustedData":{"fid":1}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("frame post %d: got %d", i+1, rec.Code)
		}
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodPost, "/api/fortune/new", `{"userId":"user-`+strconv.Itoa(i)+`"}`).Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("plain posts = %v, want %v", codes, want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/fortune/new", nil)
	req.Header.Set("Origin", "https://warpcast.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"redis://:secret@localhost:6379/0", "redis://redacted@localhost:6379/0"},
		{"postgres://user:pw@db:5432/app", "postgres://user@db:5432/app"},
		{"redis://localhost:6379", "redis://localhost:6379"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	secret := "postgres://user:pw@db:5432/app"
	err := errors.New("dial " + secret + " failed; password=hunter2")

	got := sanitizeError(err, secret)
	if strings.Contains(got, ":pw@") || strings.Contains(got, "hunter2") {
		t.Errorf("secret leaked: %s", got)
	}
	if sanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := openStore(t.Context(), cfg, logger)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if _, ok := st.(*store.Memory); !ok {
		t.Errorf("expected memory store, got %T", st)
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug") != slog.LevelDebug || parseLogLevel("bogus") != slog.LevelInfo {
		t.Error("unexpected log level mapping")
	}
}
