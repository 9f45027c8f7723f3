package keywords

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"msgcore/internal/metrics"
	"msgcore/internal/models"
	"msgcore/internal/validation"
)

// Store is the single mutator of the persisted blocked keyword set. Every
// mutation is written through to the configuration store before it returns.
// Calls touching files or streams block and belong on a worker goroutine.
type Store struct {
	mu         sync.Mutex
	cfg        Config
	stagingDir string
}

// NewStore creates a store over cfg. Reader imports are staged in
// stagingDir, or the OS temp dir when empty.
func NewStore(cfg Config, stagingDir string) *Store {
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &Store{cfg: cfg, stagingDir: stagingDir}
}

// load reads the persisted keywords into a Set. Caller holds s.mu.
func (s *Store) load(ctx context.Context) (*Set, error) {
	keywords, err := s.cfg.BlockedKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load blocked keywords: %w", err)
	}
	return NewSet(keywords...), nil
}

func (s *Store) save(ctx context.Context, set *Set) error {
	if err := s.cfg.SetBlockedKeywords(ctx, set.List()); err != nil {
		return fmt.Errorf("save blocked keywords: %w", err)
	}
	return nil
}

// Keywords returns the stored keywords in stored order.
func (s *Store) Keywords(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return set.List(), nil
}

// Add normalizes and stores keyword. It reports false when the keyword was
// already present.
func (s *Store) Add(ctx context.Context, keyword string) (bool, error) {
	keyword = validation.NormalizeKeyword(keyword)
	if ok, msg := validation.ValidateKeyword(keyword); !ok {
		return false, fmt.Errorf("%w: %s", ErrInvalidKeyword, msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if !set.Add(keyword) {
		return false, nil
	}
	if err := s.save(ctx, set); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the exact keyword and reports whether it was present.
func (s *Store) Remove(ctx context.Context, keyword string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if !set.Remove(keyword) {
		return false, nil
	}
	if err := s.save(ctx, set); err != nil {
		return false, err
	}
	return true, nil
}

// ImportFrom merges the keywords of the file at path into the stored set.
// The result is ImportFail when the file cannot be opened or holds no
// keywords; the two cases are reported identically. A non-nil error is
// returned when reading fails part way through or persisting the merged set
// fails, and in both cases nothing was stored.
func (s *Store) ImportFrom(ctx context.Context, path string) (models.ImportResult, error) {
	result, err := s.importFrom(ctx, path)
	metrics.RecordKeywordImport(result.String())
	return result, err
}

func (s *Store) importFrom(ctx context.Context, path string) (models.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("blocked keyword import source unreadable", "path", path, "error", err)
		return models.ImportFail, nil
	}
	defer f.Close()
	return s.mergeFrom(ctx, path, f)
}

// mergeFrom decodes r and merges it into the stored set. A read fault part
// way through r fails the import before the stored set is touched.
func (s *Store) mergeFrom(ctx context.Context, source string, r io.Reader) (models.ImportResult, error) {
	decoded, err := decode(r)
	if err != nil {
		slog.Warn("blocked keyword import read failed", "path", source, "read", len(decoded), "error", err)
		return models.ImportFail, fmt.Errorf("read import: %w", err)
	}
	if len(decoded) == 0 {
		return models.ImportFail, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return models.ImportFail, err
	}

	added := 0
	for _, k := range decoded {
		if ok, _ := validation.ValidateKeyword(k); !ok {
			continue
		}
		if set.Add(k) {
			added++
		}
	}

	if added > 0 {
		if err := s.save(ctx, set); err != nil {
			return models.ImportFail, err
		}
	}

	slog.Info("imported blocked keywords", "path", source, "read", len(decoded), "added", added)
	return models.ImportOK, nil
}

// ImportFromReader stages r into a temporary file and imports it. A failure
// while staging is returned as an error alongside ImportFail.
func (s *Store) ImportFromReader(ctx context.Context, r io.Reader) (models.ImportResult, error) {
	if err := os.MkdirAll(s.stagingDir, 0o700); err != nil {
		metrics.RecordKeywordImport(models.ImportFail.String())
		return models.ImportFail, fmt.Errorf("%w: %v", ErrNoStagingDir, err)
	}

	tmpPath := filepath.Join(s.stagingDir, "blocked_keywords_"+uuid.NewString()+".txt")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		metrics.RecordKeywordImport(models.ImportFail.String())
		return models.ImportFail, fmt.Errorf("create staging file: %w", err)
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		metrics.RecordKeywordImport(models.ImportFail.String())
		return models.ImportFail, fmt.Errorf("stage import: %w", err)
	}
	if err := tmp.Close(); err != nil {
		metrics.RecordKeywordImport(models.ImportFail.String())
		return models.ImportFail, fmt.Errorf("stage import: %w", err)
	}

	return s.ImportFrom(ctx, tmpPath)
}

// snapshot returns the current keywords or ErrNothingToExport.
func (s *Store) snapshot(ctx context.Context) ([]string, error) {
	keywords, err := s.Keywords(ctx)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, ErrNothingToExport
	}
	return keywords, nil
}

// ExportTo writes every stored keyword to w. Nothing is written when the set
// is empty. The encoded output is handed to w in a single write.
func (s *Store) ExportTo(ctx context.Context, w io.Writer) (models.ExportResult, error) {
	result, err := s.exportTo(ctx, w)
	metrics.RecordKeywordExport(result.String())
	return result, err
}

func (s *Store) exportTo(ctx context.Context, w io.Writer) (models.ExportResult, error) {
	keywords, err := s.snapshot(ctx)
	if err != nil {
		return models.ExportFail, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, keywords); err != nil {
		return models.ExportFail, fmt.Errorf("encode keywords: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return models.ExportFail, fmt.Errorf("write keywords: %w", err)
	}
	return models.ExportOK, nil
}

// ExportToFile writes the keywords to path through a sibling temporary file
// that replaces path only once fully written, so a failed export leaves any
// previous file untouched. On success path becomes the export path hint.
func (s *Store) ExportToFile(ctx context.Context, path string) (models.ExportResult, error) {
	result, err := s.exportToFile(ctx, path)
	metrics.RecordKeywordExport(result.String())
	return result, err
}

func (s *Store) exportToFile(ctx context.Context, path string) (models.ExportResult, error) {
	keywords, err := s.snapshot(ctx)
	if err != nil {
		return models.ExportFail, err
	}

	tmpPath := path + ".tmp-" + uuid.NewString()
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return models.ExportFail, fmt.Errorf("create export file: %w", err)
	}

	err = Encode(tmp, keywords)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return models.ExportFail, fmt.Errorf("write export file: %w", err)
	}

	if err := s.cfg.SetLastBlockedKeywordExportPath(ctx, path); err != nil {
		slog.Error("failed to remember blocked keyword export path", "path", path, "error", err)
	}
	return models.ExportOK, nil
}

// LastExportPath returns the path of the last successful file export.
func (s *Store) LastExportPath(ctx context.Context) (string, error) {
	path, err := s.cfg.LastBlockedKeywordExportPath(ctx)
	if err != nil {
		return "", fmt.Errorf("load export path: %w", err)
	}
	return path, nil
}

// Seed stores keywords only when the persisted set is empty. It returns the
// number of keywords stored.
func (s *Store) Seed(ctx context.Context, keywords []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if set.Len() > 0 {
		return 0, nil
	}
	for _, k := range keywords {
		k = validation.NormalizeKeyword(k)
		if ok, _ := validation.ValidateKeyword(k); ok {
			set.Add(k)
		}
	}
	if set.Len() == 0 {
		return 0, nil
	}
	if err := s.save(ctx, set); err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// IsNothingToExport reports whether err means the set was empty.
func IsNothingToExport(err error) bool {
	return errors.Is(err, ErrNothingToExport)
}
