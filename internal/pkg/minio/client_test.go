package minio

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testBucket = "filecdn-test-bucket"

// setupTestClient connects to the MinIO endpoint named by MINIO_TEST_ENDPOINT.
// Tests are skipped when the variable is unset so the suite passes without a
// running object store.
func setupTestClient(t *testing.T) *Client {
	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_TEST_ENDPOINT not set, skipping minio integration test")
	}

	cfg := &Config{
		Endpoint:        endpoint,
		AccessKeyID:     envOr("MINIO_TEST_ACCESS_KEY", "minioadmin"),
		SecretAccessKey: envOr("MINIO_TEST_SECRET_KEY", "minioadmin"),
		UseSSL:          false,
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"missing endpoint", &Config{AccessKeyID: "a", SecretAccessKey: "b"}},
		{"missing access key", &Config{Endpoint: "localhost:9000", SecretAccessKey: "b"}},
		{"missing secret key", &Config{Endpoint: "localhost:9000", AccessKeyID: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg, nil); err == nil {
				t.Error("NewClient() expected error, got nil")
			}
		})
	}
}

func TestPutObjectArgumentChecks(t *testing.T) {
	client := &Client{client: nil, config: &Config{}}

	content := bytes.NewReader([]byte("test"))

	if _, err := client.PutObject(context.Background(), "", "obj.txt", content, 4, PutObjectOptions{}); err == nil {
		t.Error("expected error for empty bucket name")
	}
	if _, err := client.PutObject(context.Background(), testBucket, "", content, 4, PutObjectOptions{}); err == nil {
		t.Error("expected error for empty object name")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	client := setupTestClient(t)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.EnsureBucket(ctx, testBucket, ""); err != nil {
		t.Fatalf("Failed to ensure bucket: %v", err)
	}
	defer func() {
		_ = client.RemoveObject(ctx, testBucket, "roundtrip.txt", RemoveObjectOptions{})
		_ = client.RemoveBucket(ctx, testBucket)
	}()

	content := []byte("Hello, MinIO!")
	info, err := client.PutObject(ctx, testBucket, "roundtrip.txt", bytes.NewReader(content), int64(len(content)), PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Failed to upload object: %v", err)
	}
	if info.Size != int64(len(content)) {
		t.Errorf("uploaded size = %d, want %d", info.Size, len(content))
	}

	obj, err := client.GetObject(ctx, testBucket, "roundtrip.txt", GetObjectOptions{})
	if err != nil {
		t.Fatalf("Failed to get object: %v", err)
	}
	defer obj.Close()

	got, err := io.ReadAll(obj)
	if err != nil {
		t.Fatalf("Failed to read object: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("downloaded content = %q, want %q", got, content)
	}

	stat, err := client.StatObject(ctx, testBucket, "roundtrip.txt")
	if err != nil {
		t.Fatalf("Failed to stat object: %v", err)
	}
	if stat.Size != int64(len(content)) {
		t.Errorf("stat size = %d, want %d", stat.Size, len(content))
	}
}

func TestClosedClient(t *testing.T) {
	client := &Client{config: &Config{}, closed: true}

	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected error from Ping on closed client")
	}
	if _, err := client.PutObject(context.Background(), testBucket, "x", bytes.NewReader(nil), 0, PutObjectOptions{}); err == nil {
		t.Error("expected error from PutObject on closed client")
	}
}
