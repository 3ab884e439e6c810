package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the gateway reports under in the gRPC health service.
const ServiceName = "chat.gateway"

// HealthWorker exposes the standard gRPC health service for orchestrators.
// It reports SERVING while running and NOT_SERVING once shutdown starts.
type HealthWorker struct {
	log     *slog.Logger
	address string
	health  *health.Server
}

func NewHealthWorker(log *slog.Logger, address string) *HealthWorker {
	return &HealthWorker{log: log, address: address, health: health.NewServer()}
}

func (w *HealthWorker) Name() string { return "HealthServer " + w.address }

func (w *HealthWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", w.address, err)
	}

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, w.health)
	w.setStatus(healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting gRPC health server", "address", listener.Addr().String(), "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		w.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	case <-ctx.Done():
	}

	w.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	s.GracefulStop()
	w.log.Info("gRPC health server stopped")
	return nil
}

func (w *HealthWorker) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	w.health.SetServingStatus("", status)
	w.health.SetServingStatus(ServiceName, status)
}
