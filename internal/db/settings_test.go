package db

import (
	"context"
	"reflect"
	"testing"
)

func TestBlockedKeywords_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	got, err := db.BlockedKeywords(ctx)
	if err != nil {
		t.Fatalf("BlockedKeywords() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("BlockedKeywords() = %v, want empty", got)
	}

	want := []string{"spam", "lottery", "win"}
	if err := db.SetBlockedKeywords(ctx, want); err != nil {
		t.Fatalf("SetBlockedKeywords() error = %v", err)
	}
	got, err = db.BlockedKeywords(ctx)
	if err != nil {
		t.Fatalf("BlockedKeywords() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BlockedKeywords() = %v, want %v", got, want)
	}

	if err := db.SetBlockedKeywords(ctx, []string{"win"}); err != nil {
		t.Fatalf("SetBlockedKeywords() replace error = %v", err)
	}
	got, _ = db.BlockedKeywords(ctx)
	if !reflect.DeepEqual(got, []string{"win"}) {
		t.Errorf("BlockedKeywords() after replace = %v, want [win]", got)
	}

	if err := db.SetBlockedKeywords(ctx, nil); err != nil {
		t.Fatalf("SetBlockedKeywords(nil) error = %v", err)
	}
	got, _ = db.BlockedKeywords(ctx)
	if len(got) != 0 {
		t.Errorf("BlockedKeywords() after clear = %v, want empty", got)
	}
}

func TestLastBlockedKeywordExportPath(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	path, err := db.LastBlockedKeywordExportPath(ctx)
	if err != nil || path != "" {
		t.Fatalf("LastBlockedKeywordExportPath() unset = (%q, %v), want (\"\", nil)", path, err)
	}

	for _, want := range []string{"/tmp/a.txt", "/tmp/b.txt"} {
		if err := db.SetLastBlockedKeywordExportPath(ctx, want); err != nil {
			t.Fatalf("SetLastBlockedKeywordExportPath() error = %v", err)
		}
		path, err = db.LastBlockedKeywordExportPath(ctx)
		if err != nil || path != want {
			t.Errorf("LastBlockedKeywordExportPath() = (%q, %v), want (%q, nil)", path, err, want)
		}
	}
}
