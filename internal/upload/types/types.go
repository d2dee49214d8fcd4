package types

// IngestFileRequest describes one file inside a group delivery.
type IngestFileRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url" binding:"required"`
}

// IngestRequest is a webhook-style delivery of a file group.
type IngestRequest struct {
	Files        []IngestFileRequest `json:"files" binding:"required"`
	ChannelID    string              `json:"channel_id"`
	MessageTS    string              `json:"message_ts"`
	UploaderID   string              `json:"uploader_id"`
	UploaderTeam string              `json:"uploader_team"`
}

// IngestResponse reports the settled outcome of a group.
type IngestResponse struct {
	Outcome   string   `json:"outcome"`
	Admitted  int      `json:"admitted"`
	Skipped   int      `json:"skipped"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	URLs      []string `json:"urls,omitempty"`
}

// UploadResponse reports one stored file.
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ExtensionCount pairs an extension with its upload count.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Count     int64  `json:"count"`
}

// StatsResponse is the aggregate ledger projection.
type StatsResponse struct {
	TotalUploads  int64            `json:"total_uploads"`
	TotalBytes    int64            `json:"total_bytes"`
	UploadsToday  int64            `json:"uploads_today"`
	UploadsWeek   int64            `json:"uploads_week"`
	UploadsMonth  int64            `json:"uploads_month"`
	TopExtensions []ExtensionCount `json:"top_extensions"`
}

// UploaderStatsResponse is one uploader's ledger footprint.
type UploaderStatsResponse struct {
	UploaderID   string `json:"uploader_id"`
	TotalUploads int64  `json:"total_uploads"`
	TotalBytes   int64  `json:"total_bytes"`
}

// HealthResponse reports the pipeline probe result.
type HealthResponse struct {
	Status      string  `json:"status"`
	LatencyMS   float64 `json:"latency_ms"`
	RecordCount int64   `json:"record_count"`
	TotalBytes  int64   `json:"total_bytes"`
	Error       string  `json:"error,omitempty"`
}
