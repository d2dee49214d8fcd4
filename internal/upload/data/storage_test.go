package data

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		stored string
		want   string
	}{
		{"with prefix", "uploads", "abc.png", "uploads/abc.png"},
		{"empty prefix", "", "abc.png", "abc.png"},
		{"slashes trimmed", "/uploads/", "abc.png", "uploads/abc.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objectKey(tt.prefix, tt.stored); got != tt.want {
				t.Errorf("objectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublicURLUsesConfiguredMirror(t *testing.T) {
	mirrors := []string{"https://cdn1.test", "https://cdn2.test/"}

	hits := make(map[string]bool)
	for i := 0; i < 200; i++ {
		url := publicURL(mirrors, "abc.png")
		if !strings.HasSuffix(url, "/abc.png") {
			t.Fatalf("publicURL() = %q, want suffix /abc.png", url)
		}
		found := false
		for _, base := range []string{"https://cdn1.test/abc.png", "https://cdn2.test/abc.png"} {
			if url == base {
				found = true
				hits[url] = true
			}
		}
		if !found {
			t.Fatalf("publicURL() = %q, not on a configured mirror", url)
		}
	}

	// Uniform random selection should hit both mirrors in 200 draws.
	if len(hits) != 2 {
		t.Errorf("mirror selection hit %d mirrors, want 2", len(hits))
	}
}

func TestNewMinioStoreValidation(t *testing.T) {
	if _, err := NewMinioStore(nil, "", []string{"https://cdn.test"}); err == nil {
		t.Error("NewMinioStore() with empty bucket expected error")
	}
	if _, err := NewMinioStore(nil, "bucket", nil); err == nil {
		t.Error("NewMinioStore() with no mirrors expected error")
	}
}
