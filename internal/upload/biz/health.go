package biz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// healthKeyPrefix keeps probe objects out of the real upload prefixes.
const healthKeyPrefix = "healthcheck"

// HealthStatus is the result of one synthetic pipeline probe.
type HealthStatus struct {
	Healthy     bool
	Latency     time.Duration
	RecordCount int64
	TotalBytes  int64
	Error       string
}

// HealthCheck pushes a small synthetic file through the uploader and
// reads the ledger aggregates. Probe files never touch the dedup gate
// and are not appended to the ledger.
func (uc *UploadUseCase) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{}

	payload := []byte(fmt.Sprintf("healthcheck %d", start.UnixNano()))
	storedName, err := GenerateStoredName("probe.txt")
	if err == nil {
		_, err = uc.store.Upload(ctx, payload, storedName, "text/plain", healthKeyPrefix)
	}
	if err != nil {
		status.Error = err.Error()
		status.Latency = time.Since(start)
		uc.metrics.SetHealthCheck(false, status.Latency)
		uc.logger.Warn("health check failed", zap.Error(err))
		return status
	}

	count, err := uc.ledger.Count(ctx)
	if err != nil {
		status.Error = err.Error()
		status.Latency = time.Since(start)
		uc.metrics.SetHealthCheck(false, status.Latency)
		return status
	}
	total, err := uc.ledger.TotalBytes(ctx)
	if err != nil {
		status.Error = err.Error()
		status.Latency = time.Since(start)
		uc.metrics.SetHealthCheck(false, status.Latency)
		return status
	}

	status.Healthy = true
	status.RecordCount = count
	status.TotalBytes = total
	status.Latency = time.Since(start)
	uc.metrics.SetHealthCheck(true, status.Latency)
	return status
}
