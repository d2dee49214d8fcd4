package biz

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/lk2023060901/filecdn-backend/internal/pkg/errors"
	"go.uber.org/zap"
)

// Upload task outcome labels, also used as metric label values.
const (
	UploadStatusSuccess = "success"
	UploadStatusFailure = "failure"
)

// GroupOutcome is the aggregate result of one ingestion group.
type GroupOutcome string

const (
	OutcomeAllOK     GroupOutcome = "ALL_OK"
	OutcomePartialOK GroupOutcome = "PARTIAL_OK"
	OutcomeAllFailed GroupOutcome = "ALL_FAILED"
)

// StoredObject describes where an uploaded object landed and how the
// public can reach it.
type StoredObject struct {
	Bucket    string
	Key       string
	PublicURL string
}

// ObjectStore writes file bytes into object storage.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, storedName, contentType, keyPrefix string) (*StoredObject, error)
}

// SourceDownloader fetches file bytes from the originating platform.
type SourceDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Notifier pushes status signals back toward the file source. A
// failed marker or message delivery is an orchestration error: the
// group is aborted and reported as a whole-group failure.
type Notifier interface {
	MarkPending(ctx context.Context, src SourceContext) error
	ClearPending(ctx context.Context, src SourceContext) error
	MarkOutcome(ctx context.Context, src SourceContext, outcome GroupOutcome) error
	SendMessage(ctx context.Context, src SourceContext, text string) error
}

// LedgerRepo is the append-only upload ledger.
type LedgerRepo interface {
	Append(ctx context.Context, rec *UploadRecord) error
	ListAll(ctx context.Context) ([]*UploadRecord, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]*UploadRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]*UploadRecord, error)
	Count(ctx context.Context) (int64, error)
	TotalBytes(ctx context.Context) (int64, error)
}

// MetricsRecorder publishes pipeline observability signals.
type MetricsRecorder interface {
	ObserveUploadDuration(d time.Duration)
	IncUploads(status string)
	SetStorageBytes(total int64)
	SetHealthCheck(healthy bool, latency time.Duration)
}

// TaskPool schedules per-file work.
type TaskPool interface {
	Submit(fn func() error) error
}

// IngestFile describes one file inside a group delivery.
type IngestFile struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	DownloadURL string
}

// FileGroup is one delivery of files sharing a source message.
type FileGroup struct {
	Files        []IngestFile
	Source       SourceContext
	UploaderID   string
	UploaderTeam string
}

// FileResult is the settled outcome of one per-file task.
type FileResult struct {
	File   IngestFile
	Record *UploadRecord
	Err    error
}

// GroupResult aggregates the settled per-file results of a group.
type GroupResult struct {
	Outcome   GroupOutcome
	Admitted  int
	Skipped   int
	Succeeded int
	Failed    int
	URLs      []string
	Results   []FileResult
}

// Config tunes the upload use case.
type Config struct {
	// KeyPrefix is the object key prefix for chat-sourced files.
	KeyPrefix string

	// MaxFileSize caps a single file in bytes (0 disables the cap).
	MaxFileSize int64
}

// UploadUseCase orchestrates the ingestion pipeline: dedup gate,
// concurrent per-file fan-out, ledger appends, metrics, and status
// notifications.
type UploadUseCase struct {
	store      ObjectStore
	downloader SourceDownloader
	notifier   Notifier
	ledger     LedgerRepo
	metrics    MetricsRecorder
	gate       *DedupGate
	pool       TaskPool
	cfg        Config
	logger     *zap.Logger
}

func NewUploadUseCase(
	store ObjectStore,
	downloader SourceDownloader,
	notifier Notifier,
	ledger LedgerRepo,
	metrics MetricsRecorder,
	gate *DedupGate,
	pool TaskPool,
	cfg Config,
	logger *zap.Logger,
) *UploadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadUseCase{
		store:      store,
		downloader: downloader,
		notifier:   notifier,
		ledger:     ledger,
		metrics:    metrics,
		gate:       gate,
		pool:       pool,
		cfg:        cfg,
		logger:     logger,
	}
}

// IngestGroup runs one file group through the pipeline. Per-file
// failures are isolated; an error is returned only when orchestration
// itself breaks (task scheduling or marker-signal delivery), in which
// case no partial results are reported.
func (uc *UploadUseCase) IngestGroup(ctx context.Context, group *FileGroup) (*GroupResult, error) {
	if group == nil || len(group.Files) == 0 {
		return nil, apperrors.New(apperrors.ErrUploadNoFile, "ingestion group is empty")
	}

	start := time.Now()
	if err := uc.notifier.MarkPending(ctx, group.Source); err != nil {
		uc.abortGroup(ctx, group.Source)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "marking group pending")
	}

	admitted := make([]IngestFile, 0, len(group.Files))
	skipped := 0
	for _, f := range group.Files {
		if uc.gate.Admit(f.ID) {
			admitted = append(admitted, f)
		} else {
			skipped++
			uc.logger.Info("duplicate file delivery skipped",
				zap.String("file_id", f.ID),
				zap.String("filename", f.Name))
		}
	}

	// Every file in the group was a redelivery. Another in-flight group
	// owns these files, so withdraw silently.
	if len(admitted) == 0 {
		if err := uc.notifier.ClearPending(ctx, group.Source); err != nil {
			uc.abortGroup(ctx, group.Source)
			return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "clearing pending marker")
		}
		return &GroupResult{Skipped: skipped}, nil
	}

	results := make([]FileResult, len(admitted))
	var wg sync.WaitGroup
	var submitErr error

	for i := range admitted {
		i := i
		f := admitted[i]
		wg.Add(1)
		err := uc.pool.Submit(func() error {
			defer wg.Done()
			results[i] = uc.processFile(ctx, group, f)
			return results[i].Err
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}

	// Barrier: every scheduled task settles before aggregation.
	wg.Wait()

	if submitErr != nil {
		uc.abortGroup(ctx, group.Source)
		return nil, apperrors.Wrap(submitErr, apperrors.ErrUploadOrchestration, "submitting upload tasks")
	}

	result := uc.aggregate(results, skipped)

	if err := uc.notifier.ClearPending(ctx, group.Source); err != nil {
		uc.abortGroup(ctx, group.Source)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "clearing pending marker")
	}
	if err := uc.notifier.MarkOutcome(ctx, group.Source, result.Outcome); err != nil {
		uc.abortGroup(ctx, group.Source)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "marking group outcome")
	}
	if result.Succeeded > 0 {
		if err := uc.notifier.SendMessage(ctx, group.Source, SuccessMessage(result.URLs)); err != nil {
			uc.abortGroup(ctx, group.Source)
			return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "sending result message")
		}
	}
	if result.Failed > 0 {
		if err := uc.notifier.SendMessage(ctx, group.Source, FailureMessage(result.Failed)); err != nil {
			uc.abortGroup(ctx, group.Source)
			return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "sending result message")
		}
	}

	uc.metrics.ObserveUploadDuration(time.Since(start))
	uc.refreshStorageGauge(ctx)

	uc.logger.Info("ingestion group settled",
		zap.String("outcome", string(result.Outcome)),
		zap.Int("admitted", result.Admitted),
		zap.Int("skipped", result.Skipped),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// processFile runs the download-upload-append chain for one file. All
// failure modes are folded into the returned FileResult.
func (uc *UploadUseCase) processFile(ctx context.Context, group *FileGroup, f IngestFile) FileResult {
	res := FileResult{File: f}

	fail := func(code int, err error) FileResult {
		uc.metrics.IncUploads(UploadStatusFailure)
		res.Err = apperrors.Wrap(err, code)
		uc.logger.Error("file task failed",
			zap.String("file_id", f.ID),
			zap.String("filename", f.Name),
			zap.Error(err))
		return res
	}

	data, err := uc.downloader.Download(ctx, f.DownloadURL)
	if err != nil {
		return fail(apperrors.ErrUploadSourceDownload, err)
	}

	if uc.cfg.MaxFileSize > 0 && int64(len(data)) > uc.cfg.MaxFileSize {
		return fail(apperrors.ErrUploadFileTooLarge,
			fmt.Errorf("file %s is %d bytes, limit %d", f.Name, len(data), uc.cfg.MaxFileSize))
	}

	storedName, err := GenerateStoredName(f.Name)
	if err != nil {
		return fail(apperrors.ErrUploadOrchestration, err)
	}

	obj, err := uc.store.Upload(ctx, data, storedName, f.MimeType, uc.cfg.KeyPrefix)
	if err != nil {
		return fail(apperrors.ErrUploadStorageWrite, err)
	}

	rec := &UploadRecord{
		Timestamp:        time.Now(),
		OriginalFilename: f.Name,
		StoredFilename:   storedName,
		PublicURL:        obj.PublicURL,
		FileSize:         int64(len(data)),
		MimeType:         f.MimeType,
		Uploader: Uploader{
			Type: UploaderTypeChat,
			ID:   group.UploaderID,
			Team: group.UploaderTeam,
		},
		Source: &SourceContext{
			ChannelID: group.Source.ChannelID,
			MessageTS: group.Source.MessageTS,
			FileID:    f.ID,
		},
		Storage: StorageLocator{Bucket: obj.Bucket, Key: obj.Key},
	}

	// An append failure fails the task even though the object is
	// already in storage. The orphan object is tolerated; a record
	// without its object would be a lie, the reverse is just waste.
	if err := uc.ledger.Append(ctx, rec); err != nil {
		return fail(apperrors.ErrUploadLedgerWrite, err)
	}

	res.Record = rec
	uc.metrics.IncUploads(UploadStatusSuccess)
	return res
}

func (uc *UploadUseCase) aggregate(results []FileResult, skipped int) *GroupResult {
	result := &GroupResult{
		Admitted: len(results),
		Skipped:  skipped,
		Results:  results,
	}

	for _, r := range results {
		if r.Err == nil {
			result.Succeeded++
			result.URLs = append(result.URLs, r.Record.PublicURL)
		} else {
			result.Failed++
		}
	}

	switch {
	case result.Failed == 0:
		result.Outcome = OutcomeAllOK
	case result.Succeeded > 0:
		result.Outcome = OutcomePartialOK
	default:
		result.Outcome = OutcomeAllFailed
	}

	return result
}

// abortGroup reports a whole-group failure without partial credit.
// Notifier failures inside the abort path can only be logged; there is
// nothing left to abort into.
func (uc *UploadUseCase) abortGroup(ctx context.Context, src SourceContext) {
	if err := uc.notifier.ClearPending(ctx, src); err != nil {
		uc.logger.Warn("failed to clear pending marker", zap.Error(err))
	}
	if err := uc.notifier.MarkOutcome(ctx, src, OutcomeAllFailed); err != nil {
		uc.logger.Warn("failed to mark aborted group", zap.Error(err))
	}
	if err := uc.notifier.SendMessage(ctx, src, GroupAbortMessage); err != nil {
		uc.logger.Warn("failed to send abort message", zap.Error(err))
	}
}

// refreshStorageGauge republishes the ledger's aggregate byte total.
// The gauge is always recomputed from the ledger, never accumulated.
func (uc *UploadUseCase) refreshStorageGauge(ctx context.Context) {
	total, err := uc.ledger.TotalBytes(ctx)
	if err != nil {
		uc.logger.Warn("failed to recompute storage total", zap.Error(err))
		return
	}
	uc.metrics.SetStorageBytes(total)
}

// UploadDirect ingests a single file delivered straight to the API,
// bypassing the dedup gate. The returned record is already appended.
func (uc *UploadUseCase) UploadDirect(ctx context.Context, data []byte, originalName, contentType, endpoint, keyPrefix string) (*UploadRecord, error) {
	start := time.Now()

	if len(data) == 0 {
		return nil, apperrors.New(apperrors.ErrUploadNoFile, "empty file")
	}
	if uc.cfg.MaxFileSize > 0 && int64(len(data)) > uc.cfg.MaxFileSize {
		uc.metrics.IncUploads(UploadStatusFailure)
		return nil, apperrors.New(apperrors.ErrUploadFileTooLarge,
			fmt.Sprintf("file is %d bytes, limit %d", len(data), uc.cfg.MaxFileSize))
	}

	storedName, err := GenerateStoredName(originalName)
	if err != nil {
		uc.metrics.IncUploads(UploadStatusFailure)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadOrchestration, "generating stored name")
	}

	obj, err := uc.store.Upload(ctx, data, storedName, contentType, keyPrefix)
	if err != nil {
		uc.metrics.IncUploads(UploadStatusFailure)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadStorageWrite, "writing object")
	}

	rec := &UploadRecord{
		Timestamp:        time.Now(),
		OriginalFilename: originalName,
		StoredFilename:   storedName,
		PublicURL:        obj.PublicURL,
		FileSize:         int64(len(data)),
		MimeType:         contentType,
		Uploader:         Uploader{Type: UploaderTypeAPI, Endpoint: endpoint},
		Storage:          StorageLocator{Bucket: obj.Bucket, Key: obj.Key},
	}

	if err := uc.ledger.Append(ctx, rec); err != nil {
		uc.metrics.IncUploads(UploadStatusFailure)
		return nil, apperrors.Wrap(err, apperrors.ErrUploadLedgerWrite, "recording upload")
	}

	uc.metrics.IncUploads(UploadStatusSuccess)
	uc.metrics.ObserveUploadDuration(time.Since(start))
	uc.refreshStorageGauge(ctx)

	return rec, nil
}
