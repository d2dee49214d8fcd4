package biz

import "time"

// Uploader type tags
const (
	UploaderTypeChat = "chat"
	UploaderTypeAPI  = "api"
)

// Uploader identifies who or what submitted a file.
type Uploader struct {
	Type     string // "chat" or "api"
	ID       string // chat user id
	Team     string // chat workspace id
	Endpoint string // API endpoint path for direct uploads
}

// SourceContext locates the originating chat message for a file group.
type SourceContext struct {
	ChannelID string
	MessageTS string
	FileID    string
}

// StorageLocator pins a record to its object in storage.
type StorageLocator struct {
	Bucket string
	Key    string
}

// UploadRecord is one append-only ledger entry. Records are never
// updated or deleted after Append.
type UploadRecord struct {
	ID               string
	Timestamp        time.Time
	OriginalFilename string
	StoredFilename   string
	PublicURL        string
	FileSize         int64
	MimeType         string
	Uploader         Uploader
	Source           *SourceContext
	Storage          StorageLocator
}
