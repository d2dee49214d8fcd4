package biz

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExtensionCount pairs a file extension with its upload count.
type ExtensionCount struct {
	Extension string
	Count     int64
}

// Stats is a read-only projection over the upload ledger.
type Stats struct {
	TotalUploads  int64
	TotalBytes    int64
	UploadsToday  int64
	UploadsWeek   int64
	UploadsMonth  int64
	TopExtensions []ExtensionCount
}

// UploaderStats summarizes one uploader's ledger footprint.
type UploaderStats struct {
	UploaderID   string
	TotalUploads int64
	TotalBytes   int64
}

// Stats recomputes aggregate statistics from the full ledger. Nothing
// here is cached; the ledger is the single source of truth.
func (uc *UploadUseCase) Stats(ctx context.Context) (*Stats, error) {
	records, err := uc.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)

	stats := &Stats{TotalUploads: int64(len(records))}
	extCounts := make(map[string]int64)

	for _, rec := range records {
		stats.TotalBytes += rec.FileSize
		if !rec.Timestamp.Before(dayStart) {
			stats.UploadsToday++
		}
		if !rec.Timestamp.Before(weekStart) {
			stats.UploadsWeek++
		}
		if !rec.Timestamp.Before(monthStart) {
			stats.UploadsMonth++
		}

		ext := strings.ToLower(filepath.Ext(rec.StoredFilename))
		if ext == "" {
			ext = "(none)"
		}
		extCounts[ext]++
	}

	for ext, count := range extCounts {
		stats.TopExtensions = append(stats.TopExtensions, ExtensionCount{Extension: ext, Count: count})
	}
	sort.Slice(stats.TopExtensions, func(i, j int) bool {
		if stats.TopExtensions[i].Count != stats.TopExtensions[j].Count {
			return stats.TopExtensions[i].Count > stats.TopExtensions[j].Count
		}
		return stats.TopExtensions[i].Extension < stats.TopExtensions[j].Extension
	})
	if len(stats.TopExtensions) > 3 {
		stats.TopExtensions = stats.TopExtensions[:3]
	}

	return stats, nil
}

// StatsForUploader recomputes one uploader's totals from the ledger.
func (uc *UploadUseCase) StatsForUploader(ctx context.Context, uploaderID string) (*UploaderStats, error) {
	records, err := uc.ledger.ListByUploader(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	stats := &UploaderStats{UploaderID: uploaderID, TotalUploads: int64(len(records))}
	for _, rec := range records {
		stats.TotalBytes += rec.FileSize
	}
	return stats, nil
}
