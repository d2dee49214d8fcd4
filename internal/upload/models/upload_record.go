package models

import (
	"time"
)

// UploadRecord is one row of the append-only upload ledger. Rows are
// inserted exactly once and never updated or deleted.
type UploadRecord struct {
	ID               string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Timestamp        time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
	OriginalFilename string    `gorm:"column:original_filename;size:512;not null" json:"original_filename"`
	StoredFilename   string    `gorm:"column:stored_filename;size:128;not null;uniqueIndex" json:"stored_filename"`
	PublicURL        string    `gorm:"column:public_url;size:1024;not null" json:"public_url"`
	FileSize         int64     `gorm:"column:file_size;not null" json:"file_size"`
	MimeType         string    `gorm:"column:mime_type;size:255" json:"mime_type"`

	UploaderType     string `gorm:"column:uploader_type;size:16;not null;index" json:"uploader_type"`
	UploaderID       string `gorm:"column:uploader_id;size:64;index" json:"uploader_id,omitempty"`
	UploaderTeam     string `gorm:"column:uploader_team;size:64" json:"uploader_team,omitempty"`
	UploaderEndpoint string `gorm:"column:uploader_endpoint;size:128" json:"uploader_endpoint,omitempty"`

	SourceChannelID *string `gorm:"column:source_channel_id;size:64" json:"source_channel_id,omitempty"`
	SourceMessageTS *string `gorm:"column:source_message_ts;size:64" json:"source_message_ts,omitempty"`
	SourceFileID    *string `gorm:"column:source_file_id;size:64;index" json:"source_file_id,omitempty"`

	Bucket    string `gorm:"column:bucket;size:128;not null" json:"bucket"`
	ObjectKey string `gorm:"column:object_key;size:512;not null" json:"object_key"`
}

// TableName sets the table name
func (UploadRecord) TableName() string {
	return "upload_records"
}
