package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"msgcore/internal/config"
	"msgcore/internal/jobs"
	"msgcore/internal/keywords"
	"msgcore/internal/shortcuts"
	"msgcore/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

type testEnv struct {
	app       *fiber.App
	store     *keywords.Store
	source    *testutil.StaticSource
	registry  *shortcuts.Registry
	exportDir string
}

func setupTestApp(t *testing.T, seed ...string) *testEnv {
	t.Helper()

	exportDir := t.TempDir()
	store := keywords.NewStore(keywords.NewMemoryConfig(seed...), t.TempDir())
	source := testutil.NewStaticSource()
	registry := testutil.NewMemoryRegistry(source, 4)
	sync := jobs.NewShortcutSync(registry, source, 1, 0)

	var yamlCfg *config.YAMLConfig
	kh := NewKeywordHandler(store, exportDir)
	sh := NewShortcutHandler(registry, source, yamlCfg.Capability)
	eh := NewEventHandler(sync)

	app := fiber.New()
	app.Get("/api/keywords", kh.List)
	app.Post("/api/keywords", kh.Add)
	app.Post("/api/keywords/import", kh.Import)
	app.Get("/api/keywords/export", kh.Export)
	app.Post("/api/keywords/export-file", kh.ExportFile)
	app.Get("/api/keywords/export-path", kh.ExportPath)
	app.Delete("/api/keywords/:keyword", kh.Remove)
	app.Get("/api/shortcuts", sh.List)
	app.Delete("/api/shortcuts", sh.RemoveAll)
	app.Get("/api/shortcuts/:id", sh.Get)
	app.Put("/api/shortcuts/:id", sh.Upsert)
	app.Delete("/api/shortcuts/:id", sh.Remove)
	app.Post("/api/shortcuts/:id/usage", sh.ReportUsage)
	app.Get("/api/shortcuts/:id/presentation", sh.Presentation)
	app.Post("/api/events", eh.Submit)

	return &testEnv{app: app, store: store, source: source, registry: registry, exportDir: exportDir}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, envelope, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, r)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v (%s)", method, path, err, raw)
		}
	}
	return resp, env, raw
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}
