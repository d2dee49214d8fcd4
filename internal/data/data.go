package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/filecdn-backend/internal/conf"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/database"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/logger"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/minio"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/redis"
	"github.com/lk2023060901/filecdn-backend/internal/upload/models"
)

// Data bundles the shared infrastructure clients.
type Data struct {
	DB          *database.DB
	RedisClient *redis.Client
	MinIOClient *minio.Client
	Logger      *logger.Logger
}

// NewData initializes PostgreSQL, Redis, and MinIO, migrates the
// ledger schema, and ensures the upload bucket exists. The returned
// cleanup closes everything in reverse order.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := initDB(config, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	redisClient, err := redis.New(&redis.Config{
		Addr:     config.Redis.Addr(),
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}, log.Logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	minioClient, err := initMinIO(config, log)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to init minio: %w", err)
	}

	d := &Data{
		DB:          db,
		RedisClient: redisClient,
		MinIOClient: minioClient,
		Logger:      log,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")

		if err := minioClient.Close(); err != nil {
			log.Warn("failed to close minio client")
		}
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client")
		}
		if err := db.Close(); err != nil {
			log.Warn("failed to close database")
		}
	}

	return d, cleanup, nil
}

func initDB(config *conf.Config, log *logger.Logger) (*database.DB, error) {
	cfg := database.DefaultConfig()
	cfg.Host = config.Database.Host
	cfg.Port = config.Database.Port
	cfg.User = config.Database.User
	cfg.Password = config.Database.Password
	cfg.DBName = config.Database.DBName
	cfg.SSLMode = config.Database.SSLMode

	db, err := database.New(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.UploadRecord{}); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initMinIO(config *conf.Config, log *logger.Logger) (*minio.Client, error) {
	client, err := minio.NewClient(&minio.Config{
		Endpoint:        config.MinIO.Endpoint,
		AccessKeyID:     config.MinIO.AccessKey,
		SecretAccessKey: config.MinIO.SecretKey,
		UseSSL:          config.MinIO.UseSSL,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.EnsureBucket(ctx, config.MinIO.Bucket, ""); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", config.MinIO.Bucket, err)
	}

	return client, nil
}
