package validation

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{"already normal", "spam", "spam"},
		{"surrounding spaces", "  lottery ", "lottery"},
		{"tabs and newline", "\twin\n", "win"},
		{"inner space kept", "free money", "free money"},
		{"case kept", "SPAM", "SPAM"},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKeyword(tt.keyword); got != tt.want {
				t.Errorf("NormalizeKeyword(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestValidateKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		valid   bool
		wantMsg string
	}{
		{"simple", "spam", true, ""},
		{"phrase", "you have won", true, ""},
		{"unicode", "日本語", true, ""},
		{"punctuation", "$$$", true, ""},
		{"empty", "", false, "Keyword is required"},
		{"newline", "a\nb", false, "Keyword must be a single line"},
		{"carriage return", "a\rb", false, "Keyword must be a single line"},
		{"invalid utf8", "\xff\xfe", false, "Keyword must be valid UTF-8 text"},
		{"longer than client cap", strings.Repeat("a", MaxKeywordLength+1), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateKeyword(tt.keyword)
			if valid != tt.valid {
				t.Errorf("ValidateKeyword(%q) valid = %v, want %v", tt.keyword, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateKeyword(%q) msg = %q, want %q", tt.keyword, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateKeywordInput(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		valid   bool
		wantMsg string
	}{
		{"simple", "spam", true, ""},
		{"empty", "", false, "Keyword is required"},
		{"newline", "a\nb", false, "Keyword must be a single line"},
		{"max length", strings.Repeat("a", MaxKeywordLength), true, ""},
		{"max length in runes", strings.Repeat("語", MaxKeywordLength), true, ""},
		{"too long", strings.Repeat("a", MaxKeywordLength+1), false, "Keyword is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateKeywordInput(tt.keyword)
			if valid != tt.valid {
				t.Errorf("ValidateKeywordInput(%q) valid = %v, want %v", tt.keyword, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateKeywordInput(%q) msg = %q, want %q", tt.keyword, msg, tt.wantMsg)
			}
		})
	}
}

func TestParseThreadID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   int64
		wantOK bool
	}{
		{"positive", "42", 42, true},
		{"large", "9223372036854775807", 9223372036854775807, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"not a number", "abc", 0, false},
		{"empty", "", 0, false},
		{"overflow", "9223372036854775808", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseThreadID(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseThreadID(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsWithinDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "exports")

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"direct child", filepath.Join(base, "keywords.txt"), true},
		{"nested child", filepath.Join(base, "2024", "keywords.txt"), true},
		{"dir itself", base, false},
		{"parent traversal", filepath.Join(base, "..", "keywords.txt"), false},
		{"sibling prefix", base + "-other/keywords.txt", false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinDir(base, tt.path); got != tt.want {
				t.Errorf("IsWithinDir(%q, %q) = %v, want %v", base, tt.path, got, tt.want)
			}
		})
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		valid bool
	}{
		{"plain", "blocked_keywords.txt", true},
		{"empty", "", false},
		{"path", "a/b.txt", false},
		{"traversal", "../b.txt", false},
		{"dot dot", "..", false},
		{"newline", "a\nb.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if valid, _ := ExportFileName(tt.file); valid != tt.valid {
				t.Errorf("ExportFileName(%q) valid = %v, want %v", tt.file, valid, tt.valid)
			}
		})
	}
}
