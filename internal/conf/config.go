package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Storage   StorageConfig
	Ingest    IngestConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// StorageConfig controls object key layout and public URL generation.
type StorageConfig struct {
	// Mirrors lists public base URLs that all serve the same bucket.
	// One is picked at random per upload.
	Mirrors []string `mapstructure:"mirrors"`

	// KeyPrefix is the object key prefix for chat-sourced uploads.
	KeyPrefix string `mapstructure:"key_prefix"`

	// APIKeyPrefix is the object key prefix for direct API uploads.
	APIKeyPrefix string `mapstructure:"api_key_prefix"`

	// PasteKeyPrefix is the object key prefix for paste uploads.
	PasteKeyPrefix string `mapstructure:"paste_key_prefix"`

	// MaxFileSize caps a single upload in bytes (0 means no cap).
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// IngestConfig controls the group ingestion pipeline.
type IngestConfig struct {
	// SourceToken authenticates downloads from the chat platform.
	SourceToken string `mapstructure:"source_token"`

	// NotifyWebhook receives status markers and result messages.
	NotifyWebhook string `mapstructure:"notify_webhook"`

	// Workers sizes the shared upload worker pool.
	Workers int `mapstructure:"workers"`

	// DedupWindowSeconds is how long a file id stays remembered.
	DedupWindowSeconds int `mapstructure:"dedup_window_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	UploadsPerMinute  int  `mapstructure:"uploads_per_minute"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "uploads"
	}
	if c.Storage.APIKeyPrefix == "" {
		c.Storage.APIKeyPrefix = "api"
	}
	if c.Storage.PasteKeyPrefix == "" {
		c.Storage.PasteKeyPrefix = "paste"
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 16
	}
	if c.Ingest.DedupWindowSeconds <= 0 {
		c.Ingest.DedupWindowSeconds = 60
	}
	if c.RateLimit.UploadsPerMinute <= 0 {
		c.RateLimit.UploadsPerMinute = 10
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Storage.Mirrors) == 0 {
		return fmt.Errorf("config: storage.mirrors must list at least one public base URL")
	}
	if c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
