package concatview

import (
	"path/filepath"
	"regexp"
	"testing"
)

func TestNewToken(t *testing.T) {
	hex := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := NewToken()
		if !hex.MatchString(tok) {
			t.Fatalf("Expected 32 hex characters, got %q", tok)
		}
		if seen[tok] {
			t.Fatalf("Duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestSyntheticPath(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		template string
		want     string
	}{
		{"default", "/work", DefaultFilenameTemplate, filepath.Join("/work", "_NotebookConcat_abc.py")},
		{"custom", "/tmp/nb", "concat-{token}.txt", filepath.Join("/tmp/nb", "concat-abc.txt")},
		{"no placeholder", "/w", "fixed.py", filepath.Join("/w", "fixed.py")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SyntheticPath(tt.dir, tt.template, "abc"); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
