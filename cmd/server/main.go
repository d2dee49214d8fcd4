package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk2023060901/filecdn-backend/internal/conf"
	"github.com/lk2023060901/filecdn-backend/internal/data"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/logger"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/metrics"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/filecdn-backend/internal/server"
	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
	uploaddata "github.com/lk2023060901/filecdn-backend/internal/upload/data"
	"github.com/lk2023060901/filecdn-backend/internal/upload/service"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize global logger
	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Initialize pipeline collaborators
	m := metrics.New()

	store, err := uploaddata.NewMinioStore(d.MinIOClient, config.MinIO.Bucket, config.Storage.Mirrors)
	if err != nil {
		log.Fatal("failed to initialize object store", zap.Error(err))
	}
	downloader := uploaddata.NewHTTPDownloader(config.Ingest.SourceToken, 30*time.Second)
	notifier := uploaddata.NewWebhookNotifier(config.Ingest.NotifyWebhook, 10*time.Second)
	ledgerRepo := uploaddata.NewLedgerRepo(d.DB)

	gate := biz.NewDedupGate(time.Duration(config.Ingest.DedupWindowSeconds) * time.Second)
	defer gate.Close()

	pool, err := workerpool.New(&workerpool.Config{Workers: config.Ingest.Workers}, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize worker pool", zap.Error(err))
	}
	defer pool.Release()

	// Initialize use case and service
	uploadUseCase := biz.NewUploadUseCase(
		store,
		downloader,
		notifier,
		ledgerRepo,
		m,
		gate,
		pool,
		biz.Config{
			KeyPrefix:   config.Storage.KeyPrefix,
			MaxFileSize: config.Storage.MaxFileSize,
		},
		log.Logger,
	)

	uploadService := service.NewUploadService(uploadUseCase, service.Prefixes{
		API:   config.Storage.APIKeyPrefix,
		Paste: config.Storage.PasteKeyPrefix,
	}, log.Logger)

	// Initialize server
	httpServer := server.NewHTTPServer(config, log, uploadService, m, d.RedisClient)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
