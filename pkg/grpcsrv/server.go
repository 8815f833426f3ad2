package grpcsrv

import (
	"context"
	"fmt"
	"net"

	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcprometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewGrpcServer builds the internal API server with the standard health service and
// reflection registered.
func NewGrpcServer() (*grpc.Server, *health.Server) {
	recovery := grpcrecovery.WithRecoveryHandler(func(p interface{}) error {
		log.Error().Msgf("grpc panic: %v", p)

		return status.Error(codes.Internal, "internal error")
	})

	srv := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			grpcrecovery.UnaryServerInterceptor(recovery),
			grpcprometheus.UnaryServerInterceptor,
		)),
		grpc.StreamInterceptor(grpcmiddleware.ChainStreamServer(
			grpcrecovery.StreamServerInterceptor(recovery),
			grpcprometheus.StreamServerInterceptor,
		)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	grpcprometheus.Register(srv)

	return srv, hs
}

type Worker struct {
	srv  *grpc.Server
	hs   *health.Server
	bind string
}

func NewGrpcServerWorker(srv *grpc.Server, hs *health.Server, bind string) *Worker {
	return &Worker{
		srv:  srv,
		hs:   hs,
		bind: bind,
	}
}

// Start serves until ctx is done, then drains the server.
func (w *Worker) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", w.bind)
	if err != nil {
		return fmt.Errorf("listen %s: %w", w.bind, err)
	}

	return w.Serve(ctx, lis)
}

func (w *Worker) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.srv.Serve(lis)
	}()

	w.hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	log.Info().Msgf("grpc server is listening on %s", lis.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		w.hs.Shutdown()
		w.srv.GracefulStop()

		return nil
	}
}
