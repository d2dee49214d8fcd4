package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/filecdn-backend/internal/conf"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/logger"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/metrics"
	"github.com/lk2023060901/filecdn-backend/internal/pkg/redis"
	"github.com/lk2023060901/filecdn-backend/internal/upload/service"
	"go.uber.org/zap"
)

type HTTPServer struct {
	server *http.Server
	logger *zap.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	uploadService *service.UploadService,
	m *metrics.Metrics,
	redisClient *redis.Client,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithOptions(log, logger.MiddlewareOptions{
		SkipPaths: []string{"/metrics", "/healthz"},
	}))

	router.GET("/healthz", uploadService.Healthz)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	var limiter gin.HandlerFunc
	if config.RateLimit.Enabled && redisClient != nil {
		limiter = UploadRateLimiter(redisClient, RateLimiterConfig{
			MaxRequests:   config.RateLimit.UploadsPerMinute,
			WindowSeconds: 60,
		}, log.Logger)
	}

	api := router.Group("/api/v1")
	uploadService.RegisterRoutes(api, limiter)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: log.Logger,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
