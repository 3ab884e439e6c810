package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthWorker_ReportsServingWhileRunning(t *testing.T) {
	req := require.New(t)
	worker := NewHealthWorker(logs.GetLoggerFromLevel(slog.LevelDebug), "127.0.0.1:0")

	status := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := worker.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Then
	req.Eventually(func() bool {
		return status() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	// When
	cancel()

	// Then
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("Health worker should stop on cancel")
	}
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, status())
}
