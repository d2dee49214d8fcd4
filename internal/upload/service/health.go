package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/filecdn-backend/internal/upload/types"
)

// Healthz probes the pipeline end to end and reports the result. An
// unhealthy pipeline answers 503 so load balancers can react.
func (s *UploadService) Healthz(c *gin.Context) {
	status := s.uc.HealthCheck(c.Request.Context())

	resp := types.HealthResponse{
		LatencyMS:   float64(status.Latency.Microseconds()) / 1000.0,
		RecordCount: status.RecordCount,
		TotalBytes:  status.TotalBytes,
		Error:       status.Error,
	}

	if status.Healthy {
		resp.Status = "ok"
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Status = "unhealthy"
	c.JSON(http.StatusServiceUnavailable, resp)
}
