package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"msgcore/internal/config"
	"msgcore/internal/jobs"
	"msgcore/internal/keywords"
	"msgcore/internal/metrics"
	"msgcore/internal/middleware"
	"msgcore/internal/testutil"
)

func newTestServer(t *testing.T, cfg *config.Config, auth *middleware.AuthMiddleware) *Server {
	t.Helper()

	store := keywords.NewStore(keywords.NewMemoryConfig("spam"), t.TempDir())
	source := testutil.NewStaticSource()
	registry := testutil.NewMemoryRegistry(source, 4)
	var yamlCfg *config.YAMLConfig

	metrics.Init(store)

	s := New(cfg)
	s.RegisterRoutes(Dependencies{
		Keywords:     store,
		Registry:     registry,
		Source:       source,
		Sync:         jobs.NewShortcutSync(registry, source, 4, 0),
		Inventory:    registry,
		Capabilities: yamlCfg.Capability,
		Auth:         auth,
	})
	return s
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:       "development",
		ExportDir: t.TempDir(),
	}
}

func TestRoutes_KeywordsAndHealth(t *testing.T) {
	s := newTestServer(t, testConfig(t), nil)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{"GET", "/healthz", 200, `"inventory":"ok"`},
		{"GET", "/api/keywords", 200, `"spam"`},
		{"GET", "/api/shortcuts", 200, `"data":[]`},
		{"GET", "/metrics", 200, "msgcore_blocked_keywords 1"},
		{"GET", "/nope", 404, `"status":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			resp, err := s.App.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if !strings.Contains(string(body), tt.body) {
				t.Errorf("body = %s, want it to contain %s", body, tt.body)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestRoutes_APIRequiresBearerWhenConfigured(t *testing.T) {
	auth := middleware.NewAuthMiddlewareWithVerifier(func(ctx context.Context, raw string) (string, error) {
		if raw == "valid" {
			return "ops", nil
		}
		return "", errors.New("invalid")
	})
	s := newTestServer(t, testConfig(t), auth)

	req, _ := http.NewRequest("GET", "/api/keywords", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, _ = http.NewRequest("GET", "/api/keywords", nil)
	req.Header.Set("Authorization", "Bearer valid")
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}

	// Probes stay open.
	req, _ = http.NewRequest("GET", "/healthz", nil)
	resp, _ = s.App.Test(req)
	if resp.StatusCode != 200 {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg, nil)

	var last int
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/healthz", nil)
		resp, err := s.App.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		last = resp.StatusCode
	}
	if last != 429 {
		t.Errorf("third request status = %d, want 429", last)
	}
}
