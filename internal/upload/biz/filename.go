package biz

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// GenerateStoredName derives a randomized storage name for a file.
// The name is 16 random bytes hex-encoded plus the extension of the
// original name, so nothing of the original base name survives.
// Multi-part extensions keep only the last segment (".tar.gz" -> ".gz")
// and dotfiles count as having no extension.
func GenerateStoredName(originalName string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate stored name: %w", err)
	}

	// filepath.Ext(".bashrc") is ".bashrc"; carrying that over would
	// embed the whole original name in the stored one.
	ext := filepath.Ext(originalName)
	if ext == originalName {
		ext = ""
	}

	return hex.EncodeToString(buf[:]) + ext, nil
}
