package biz

import (
	"strings"
	"testing"
)

func TestGenerateStoredName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		wantExt  string
	}{
		{"simple extension", "report.pdf", ".pdf"},
		{"image", "photo.PNG", ".PNG"},
		{"no extension", "README", ""},
		{"multi-part keeps last segment", "archive.tar.gz", ".gz"},
		{"dotfile has no extension", ".bashrc", ""},
		{"trailing dot", "weird.", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateStoredName(tt.original)
			if err != nil {
				t.Fatalf("GenerateStoredName() error: %v", err)
			}
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("GenerateStoredName() = %q, want suffix %q", got, tt.wantExt)
			}
			base := strings.TrimSuffix(got, tt.wantExt)
			if len(base) != 32 {
				t.Errorf("random part length = %d, want 32 hex chars", len(base))
			}
			for _, leak := range []string{"report", "photo", "bashrc"} {
				if strings.Contains(got, leak) {
					t.Errorf("stored name %q leaks the original base name", got)
				}
			}
		})
	}
}

func TestGenerateStoredNameUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		name, err := GenerateStoredName("file.bin")
		if err != nil {
			t.Fatalf("GenerateStoredName() error: %v", err)
		}
		if seen[name] {
			t.Fatalf("duplicate stored name %q after %d generations", name, i)
		}
		seen[name] = true
	}
}
