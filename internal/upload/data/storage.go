package data

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/lk2023060901/filecdn-backend/internal/pkg/minio"
	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
)

const defaultContentType = "application/octet-stream"

// MinioStore writes upload payloads into MinIO and assigns each object
// a public URL on one of the configured mirror bases.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	mirrors []string
}

func NewMinioStore(client *minio.Client, bucket string, mirrors []string) (*MinioStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("minio store: bucket is required")
	}
	if len(mirrors) == 0 {
		return nil, fmt.Errorf("minio store: at least one mirror base URL is required")
	}
	return &MinioStore{client: client, bucket: bucket, mirrors: mirrors}, nil
}

// Upload writes data under prefix/storedName and returns its locator
// and public URL.
func (s *MinioStore) Upload(ctx context.Context, data []byte, storedName, contentType, keyPrefix string) (*biz.StoredObject, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	key := objectKey(keyPrefix, storedName)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return &biz.StoredObject{
		Bucket:    s.bucket,
		Key:       key,
		PublicURL: publicURL(s.mirrors, storedName),
	}, nil
}

func objectKey(prefix, storedName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return storedName
	}
	return prefix + "/" + storedName
}

// publicURL picks a mirror uniformly at random. All mirrors serve the
// same content, so the choice spreads read traffic without affecting
// correctness.
func publicURL(mirrors []string, storedName string) string {
	base := mirrors[rand.Intn(len(mirrors))]
	return strings.TrimRight(base, "/") + "/" + storedName
}
