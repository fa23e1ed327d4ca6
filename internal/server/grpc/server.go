// Package grpc runs the gRPC side of the server. It only exposes the
// standard grpc.health.v1.Health service, used by clients as a liveness
// probe.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// defaultProbeInterval is how often the database probe is re-run.
const defaultProbeInterval = 5 * time.Second

// Probe reports whether the server's dependencies are reachable.
type Probe func(ctx context.Context) error

type HealthServer struct {
	address       string
	logger        logging.Logger
	probe         Probe
	probeInterval time.Duration
	health        *health.Server
}

func NewHealthServer(a string, l logging.Logger, probe Probe) *HealthServer {
	return &HealthServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		probe:         probe,
		probeInterval: defaultProbeInterval,
		health:        health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled. The status starts as
// NOT_SERVING and flips to SERVING once the probe succeeds.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.setServing(false)
	s.check(ctx)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.probe == nil {
		s.setServing(true)
		return
	}
	err := s.probe(ctx)
	if err != nil {
		s.logger.Warn(ctx, "health probe failed", "err", err)
	}
	s.setServing(err == nil)
}

func (s *HealthServer) setServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}
