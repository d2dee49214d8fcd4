package data

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/database"
	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
	"github.com/lk2023060901/filecdn-backend/internal/upload/models"
)

// LedgerRepo persists upload records in PostgreSQL. Records are only
// ever inserted; there is no update or delete path.
type LedgerRepo struct {
	db *database.DB
}

func NewLedgerRepo(db *database.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// Append inserts one record, assigning id and timestamp when unset.
func (r *LedgerRepo) Append(ctx context.Context, rec *biz.UploadRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	po := toPO(rec)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("failed to append upload record: %w", err)
	}
	return nil
}

// ListAll returns every record ordered oldest first.
func (r *LedgerRepo) ListAll(ctx context.Context) ([]*biz.UploadRecord, error) {
	var pos []*models.UploadRecord
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy("timestamp", false)).
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upload records: %w", err)
	}
	return toDomainList(pos), nil
}

// ListByUploader returns the records of one uploader id.
func (r *LedgerRepo) ListByUploader(ctx context.Context, uploaderID string) ([]*biz.UploadRecord, error) {
	var pos []*models.UploadRecord
	err := r.db.WithContext(ctx).
		Where("uploader_id = ?", uploaderID).
		Scopes(database.OrderBy("timestamp", false)).
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upload records by uploader: %w", err)
	}
	return toDomainList(pos), nil
}

// ListSince returns the records at or after the given instant.
func (r *LedgerRepo) ListSince(ctx context.Context, since time.Time) ([]*biz.UploadRecord, error) {
	var pos []*models.UploadRecord
	err := r.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Scopes(database.OrderBy("timestamp", false)).
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upload records since: %w", err)
	}
	return toDomainList(pos), nil
}

// Count returns the total number of records.
func (r *LedgerRepo) Count(ctx context.Context) (int64, error) {
	count, err := database.Count(ctx, r.db.GetDB(), &models.UploadRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count upload records: %w", err)
	}
	return count, nil
}

// TotalBytes recomputes the byte total by aggregating over all rows.
// There is deliberately no cached counter to drift out of sync.
func (r *LedgerRepo) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.UploadRecord{}).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum upload record sizes: %w", err)
	}
	return total, nil
}

func toPO(rec *biz.UploadRecord) *models.UploadRecord {
	po := &models.UploadRecord{
		ID:               rec.ID,
		Timestamp:        rec.Timestamp,
		OriginalFilename: rec.OriginalFilename,
		StoredFilename:   rec.StoredFilename,
		PublicURL:        rec.PublicURL,
		FileSize:         rec.FileSize,
		MimeType:         rec.MimeType,
		UploaderType:     rec.Uploader.Type,
		UploaderID:       rec.Uploader.ID,
		UploaderTeam:     rec.Uploader.Team,
		UploaderEndpoint: rec.Uploader.Endpoint,
		Bucket:           rec.Storage.Bucket,
		ObjectKey:        rec.Storage.Key,
	}
	if rec.Source != nil {
		po.SourceChannelID = &rec.Source.ChannelID
		po.SourceMessageTS = &rec.Source.MessageTS
		po.SourceFileID = &rec.Source.FileID
	}
	return po
}

func toDomain(po *models.UploadRecord) *biz.UploadRecord {
	rec := &biz.UploadRecord{
		ID:               po.ID,
		Timestamp:        po.Timestamp,
		OriginalFilename: po.OriginalFilename,
		StoredFilename:   po.StoredFilename,
		PublicURL:        po.PublicURL,
		FileSize:         po.FileSize,
		MimeType:         po.MimeType,
		Uploader: biz.Uploader{
			Type:     po.UploaderType,
			ID:       po.UploaderID,
			Team:     po.UploaderTeam,
			Endpoint: po.UploaderEndpoint,
		},
		Storage: biz.StorageLocator{Bucket: po.Bucket, Key: po.ObjectKey},
	}
	if po.SourceChannelID != nil || po.SourceMessageTS != nil || po.SourceFileID != nil {
		src := &biz.SourceContext{}
		if po.SourceChannelID != nil {
			src.ChannelID = *po.SourceChannelID
		}
		if po.SourceMessageTS != nil {
			src.MessageTS = *po.SourceMessageTS
		}
		if po.SourceFileID != nil {
			src.FileID = *po.SourceFileID
		}
		rec.Source = src
	}
	return rec
}

func toDomainList(pos []*models.UploadRecord) []*biz.UploadRecord {
	out := make([]*biz.UploadRecord, 0, len(pos))
	for _, po := range pos {
		out = append(out, toDomain(po))
	}
	return out
}
