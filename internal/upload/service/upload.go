package service

import (
	"io"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/filecdn-backend/internal/pkg/errors"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/response"
	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
	"github.com/lk2023060901/filecdn-backend/internal/upload/types"
	"go.uber.org/zap"
)

// Prefixes configures the object key prefix per ingress endpoint.
type Prefixes struct {
	API   string
	Paste string
}

type UploadService struct {
	uc       *biz.UploadUseCase
	prefixes Prefixes
	logger   *zap.Logger
}

func NewUploadService(uc *biz.UploadUseCase, prefixes Prefixes, logger *zap.Logger) *UploadService {
	return &UploadService{
		uc:       uc,
		prefixes: prefixes,
		logger:   logger,
	}
}

// RegisterRoutes mounts the upload endpoints on an API group.
func (s *UploadService) RegisterRoutes(api *gin.RouterGroup, limiter gin.HandlerFunc) {
	uploads := api.Group("")
	if limiter != nil {
		uploads.Use(limiter)
	}
	uploads.POST("/upload", s.Upload)
	uploads.POST("/paste", s.Paste)
	uploads.POST("/ingest", s.Ingest)

	api.GET("/stats", s.Stats)
	api.GET("/stats/:uploader", s.StatsForUploader)
}

// Upload handles a direct multipart file upload.
func (s *UploadService) Upload(c *gin.Context) {
	s.handleMultipart(c, "/api/v1/upload", s.prefixes.API)
}

// Paste handles a paste-style upload on a separate key prefix.
func (s *UploadService) Paste(c *gin.Context) {
	s.handleMultipart(c, "/api/v1/paste", s.prefixes.Paste)
}

func (s *UploadService) handleMultipart(c *gin.Context, endpoint, keyPrefix string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrUploadNoFile)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrBadRequest, "opening uploaded file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrBadRequest, "reading uploaded file"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	rec, err := s.uc.UploadDirect(c.Request.Context(), data, fileHeader.Filename, contentType, endpoint, keyPrefix)
	if err != nil {
		s.logger.Error("direct upload failed",
			zap.String("endpoint", endpoint),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Created(c, types.UploadResponse{
		URL:      rec.PublicURL,
		Filename: rec.StoredFilename,
		Size:     rec.FileSize,
	})
}

// Ingest accepts a file group delivery and runs it through the
// pipeline synchronously.
func (s *UploadService) Ingest(c *gin.Context) {
	var req types.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group := &biz.FileGroup{
		Source: biz.SourceContext{
			ChannelID: req.ChannelID,
			MessageTS: req.MessageTS,
		},
		UploaderID:   req.UploaderID,
		UploaderTeam: req.UploaderTeam,
	}
	for _, f := range req.Files {
		group.Files = append(group.Files, biz.IngestFile{
			ID:          f.ID,
			Name:        f.Name,
			MimeType:    f.MimeType,
			Size:        f.Size,
			DownloadURL: f.DownloadURL,
		})
	}

	result, err := s.uc.IngestGroup(c.Request.Context(), group)
	if err != nil {
		s.logger.Error("ingestion group failed",
			zap.String("channel_id", req.ChannelID),
			zap.Int("files", len(req.Files)),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, types.IngestResponse{
		Outcome:   string(result.Outcome),
		Admitted:  result.Admitted,
		Skipped:   result.Skipped,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		URLs:      result.URLs,
	})
}

// Stats serves the aggregate ledger projection.
func (s *UploadService) Stats(c *gin.Context) {
	stats, err := s.uc.Stats(c.Request.Context())
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrLedgerQueryFailed))
		return
	}

	resp := types.StatsResponse{
		TotalUploads: stats.TotalUploads,
		TotalBytes:   stats.TotalBytes,
		UploadsToday: stats.UploadsToday,
		UploadsWeek:  stats.UploadsWeek,
		UploadsMonth: stats.UploadsMonth,
	}
	for _, ext := range stats.TopExtensions {
		resp.TopExtensions = append(resp.TopExtensions, types.ExtensionCount{
			Extension: ext.Extension,
			Count:     ext.Count,
		})
	}
	response.Success(c, resp)
}

// StatsForUploader serves one uploader's totals.
func (s *UploadService) StatsForUploader(c *gin.Context) {
	uploaderID := c.Param("uploader")
	if uploaderID == "" {
		response.BadRequest(c, "uploader id is required")
		return
	}

	stats, err := s.uc.StatsForUploader(c.Request.Context(), uploaderID)
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrLedgerQueryFailed))
		return
	}

	response.Success(c, types.UploaderStatsResponse{
		UploaderID:   stats.UploaderID,
		TotalUploads: stats.TotalUploads,
		TotalBytes:   stats.TotalBytes,
	})
}
