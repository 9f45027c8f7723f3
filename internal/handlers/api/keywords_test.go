package api

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"msgcore/internal/models"
	"msgcore/internal/validation"
)

func TestKeywordHandler_ListAddRemove(t *testing.T) {
	env := setupTestApp(t, "spam")

	resp, body, _ := env.do(t, "POST", "/api/keywords", `{"keyword":"  lottery "}`)
	if resp.StatusCode != 201 {
		t.Fatalf("add status = %d, want 201", resp.StatusCode)
	}
	var mut models.KeywordMutationResponse
	decodeData(t, body, &mut)
	if mut.Keyword != "lottery" || !mut.Changed {
		t.Errorf("add response = %+v", mut)
	}

	resp, _, _ = env.do(t, "POST", "/api/keywords", `{"keyword":"lottery"}`)
	if resp.StatusCode != 200 {
		t.Errorf("duplicate add status = %d, want 200", resp.StatusCode)
	}

	_, body, _ = env.do(t, "GET", "/api/keywords", "")
	var list models.KeywordListResponse
	decodeData(t, body, &list)
	if !reflect.DeepEqual(list.Keywords, []string{"spam", "lottery"}) || list.Count != 2 {
		t.Errorf("list = %+v", list)
	}

	resp, _, _ = env.do(t, "DELETE", "/api/keywords/spam", "")
	if resp.StatusCode != 200 {
		t.Errorf("remove status = %d, want 200", resp.StatusCode)
	}
	resp, _, _ = env.do(t, "DELETE", "/api/keywords/spam", "")
	if resp.StatusCode != 404 {
		t.Errorf("remove absent status = %d, want 404", resp.StatusCode)
	}
}

func TestKeywordHandler_AddInvalid(t *testing.T) {
	env := setupTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"keyword":`},
		{"blank keyword", `{"keyword":"   "}`},
		{"multi line", `{"keyword":"a\nb"}`},
		{"too long", `{"keyword":"` + strings.Repeat("x", validation.MaxKeywordLength+1) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body, _ := env.do(t, "POST", "/api/keywords", tt.body)
			if resp.StatusCode != 400 {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body.Status != "error" || body.Error == "" {
				t.Errorf("envelope = %+v, want error", body)
			}
		})
	}
}

func TestKeywordHandler_Import(t *testing.T) {
	env := setupTestApp(t, "spam")

	resp, body, _ := env.do(t, "POST", "/api/keywords/import", "win\nspam\n\nprize\n")
	if resp.StatusCode != 200 {
		t.Fatalf("import status = %d, want 200", resp.StatusCode)
	}
	var tr models.TransferResponse
	decodeData(t, body, &tr)
	if tr.Result != "ok" || tr.Message != "Importing successful" {
		t.Errorf("import response = %+v", tr)
	}

	got, _ := env.store.Keywords(context.Background())
	if !reflect.DeepEqual(got, []string{"spam", "win", "prize"}) {
		t.Errorf("keywords = %v", got)
	}

	resp, body, _ = env.do(t, "POST", "/api/keywords/import", "\n  \n")
	if resp.StatusCode != 422 {
		t.Errorf("empty import status = %d, want 422", resp.StatusCode)
	}
	decodeData(t, body, &tr)
	if tr.Result != "fail" || tr.Message != "No items found" {
		t.Errorf("empty import response = %+v", tr)
	}
}

func TestKeywordHandler_ImportKeepsLongKeywords(t *testing.T) {
	env := setupTestApp(t)
	long := strings.Repeat("x", validation.MaxKeywordLength+50)

	resp, _, _ := env.do(t, "POST", "/api/keywords/import", long+"\nspam\n")
	if resp.StatusCode != 200 {
		t.Fatalf("import status = %d, want 200", resp.StatusCode)
	}
	got, _ := env.store.Keywords(context.Background())
	if !reflect.DeepEqual(got, []string{long, "spam"}) {
		t.Errorf("keywords = %v, want long keyword and spam", got)
	}
}

func TestKeywordHandler_Export(t *testing.T) {
	env := setupTestApp(t, "spam", "win")

	resp, _, raw := env.do(t, "GET", "/api/keywords/export", "")
	if resp.StatusCode != 200 {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	if string(raw) != "spam\nwin\n" {
		t.Errorf("export body = %q", raw)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd == "" {
		t.Error("export missing Content-Disposition")
	}
}

func TestKeywordHandler_ExportEmpty(t *testing.T) {
	env := setupTestApp(t)

	resp, body, _ := env.do(t, "GET", "/api/keywords/export", "")
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body.Error != models.NoEntriesForExportingMessage {
		t.Errorf("error = %q, want %q", body.Error, models.NoEntriesForExportingMessage)
	}
}

func TestKeywordHandler_ExportFile(t *testing.T) {
	env := setupTestApp(t, "spam")

	resp, body, _ := env.do(t, "POST", "/api/keywords/export-file", `{"file_name":"blocked.txt"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("export-file status = %d, want 200 (%+v)", resp.StatusCode, body)
	}
	path := filepath.Join(env.exportDir, "blocked.txt")
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "spam\n" {
		t.Errorf("export file = (%q, %v)", data, err)
	}

	_, body, _ = env.do(t, "GET", "/api/keywords/export-path", "")
	var ep models.ExportPathResponse
	decodeData(t, body, &ep)
	if ep.Path != path {
		t.Errorf("export path = %q, want %q", ep.Path, path)
	}

	for _, name := range []string{"", "../escape.txt", "sub/dir.txt"} {
		resp, _, _ := env.do(t, "POST", "/api/keywords/export-file", `{"file_name":"`+name+`"}`)
		if resp.StatusCode != 400 {
			t.Errorf("export-file %q status = %d, want 400", name, resp.StatusCode)
		}
	}
}
