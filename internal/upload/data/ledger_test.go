package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/lk2023060901/filecdn-backend/internal/pkg/database"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/logger"
	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
	"github.com/lk2023060901/filecdn-backend/internal/upload/models"
)

// setupTestLedger connects to the PostgreSQL instance named by
// PG_TEST_HOST. Tests are skipped when the variable is unset.
func setupTestLedger(t *testing.T) *LedgerRepo {
	host := os.Getenv("PG_TEST_HOST")
	if host == "" {
		t.Skip("PG_TEST_HOST not set, skipping ledger integration test")
	}

	log, err := logger.New(nil)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	cfg := database.DefaultConfig()
	cfg.Host = host
	cfg.User = envOr("PG_TEST_USER", "postgres")
	cfg.Password = envOr("PG_TEST_PASSWORD", "postgres")
	cfg.DBName = envOr("PG_TEST_DBNAME", "filecdn_test")

	db, err := database.New(cfg, log)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.UploadRecord{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM upload_records")
		db.Close()
	})

	return NewLedgerRepo(db)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testRecord(storedName string, size int64) *biz.UploadRecord {
	return &biz.UploadRecord{
		OriginalFilename: "original.png",
		StoredFilename:   storedName,
		PublicURL:        "https://cdn.test/" + storedName,
		FileSize:         size,
		MimeType:         "image/png",
		Uploader:         biz.Uploader{Type: biz.UploaderTypeChat, ID: "U1", Team: "T1"},
		Source:           &biz.SourceContext{ChannelID: "C1", MessageTS: "1.2", FileID: "F1"},
		Storage:          biz.StorageLocator{Bucket: "cdn-files", Key: "uploads/" + storedName},
	}
}

func TestLedgerAppendAssignsIdentity(t *testing.T) {
	repo := setupTestLedger(t)
	ctx := context.Background()

	rec := testRecord("aaaa1111.png", 100)
	if err := repo.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if rec.ID == "" {
		t.Error("Append() did not assign an id")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Append() did not assign a timestamp")
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	repo := setupTestLedger(t)
	ctx := context.Background()

	if err := repo.Append(ctx, testRecord("bbbb2222.png", 100)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := repo.Append(ctx, testRecord("cccc3333.pdf", 250)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListAll() returned %d records, want 2", len(records))
	}
	if records[0].Source == nil || records[0].Source.FileID != "F1" {
		t.Errorf("round trip lost source context: %+v", records[0].Source)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	total, err := repo.TotalBytes(ctx)
	if err != nil {
		t.Fatalf("TotalBytes() error: %v", err)
	}
	if total != 350 {
		t.Errorf("TotalBytes() = %d, want 350", total)
	}
}

func TestLedgerListQueries(t *testing.T) {
	repo := setupTestLedger(t)
	ctx := context.Background()

	old := testRecord("dddd4444.png", 10)
	old.Timestamp = time.Now().UTC().Add(-48 * time.Hour)
	if err := repo.Append(ctx, old); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	fresh := testRecord("eeee5555.png", 20)
	fresh.Uploader.ID = "U2"
	if err := repo.Append(ctx, fresh); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	since, err := repo.ListSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince() error: %v", err)
	}
	if len(since) != 1 {
		t.Errorf("ListSince() returned %d records, want 1", len(since))
	}

	byUploader, err := repo.ListByUploader(ctx, "U2")
	if err != nil {
		t.Fatalf("ListByUploader() error: %v", err)
	}
	if len(byUploader) != 1 || byUploader[0].Uploader.ID != "U2" {
		t.Errorf("ListByUploader() = %+v, want one U2 record", byUploader)
	}
}
