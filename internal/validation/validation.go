package validation

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxKeywordLength caps a blocked keyword submitted by a client, in
// characters. Imported and seeded keywords are not capped.
const MaxKeywordLength = 256

// NormalizeKeyword trims surrounding whitespace so the stored form survives a
// line-based export and re-import unchanged.
func NormalizeKeyword(keyword string) string {
	return strings.TrimSpace(keyword)
}

// ValidateKeyword checks a normalized keyword can be stored and exported.
// Line breaks are rejected because the export format is one keyword per line.
func ValidateKeyword(keyword string) (bool, string) {
	if keyword == "" {
		return false, "Keyword is required"
	}
	if strings.ContainsAny(keyword, "\r\n") {
		return false, "Keyword must be a single line"
	}
	if !utf8.ValidString(keyword) {
		return false, "Keyword must be valid UTF-8 text"
	}
	return true, ""
}

// ValidateKeywordInput is ValidateKeyword plus the client length cap.
func ValidateKeywordInput(keyword string) (bool, string) {
	if ok, msg := ValidateKeyword(keyword); !ok {
		return false, msg
	}
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return false, "Keyword is too long"
	}
	return true, ""
}

// ParseThreadID parses a thread identity from a path parameter.
func ParseThreadID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsWithinDir reports whether path resolves inside dir. Used to keep export
// targets from escaping the configured export directory.
func IsWithinDir(dir, path string) bool {
	if dir == "" || path == "" {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// ExportFileName checks a client supplied export file name is a bare name.
func ExportFileName(name string) (bool, string) {
	if name == "" {
		return false, "File name is required"
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return false, "File name must not contain a path"
	}
	if strings.ContainsAny(name, "\x00\r\n") {
		return false, "File name contains invalid characters"
	}
	return true, ""
}
