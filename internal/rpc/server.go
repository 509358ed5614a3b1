package rpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/transcode/internal/metrics"
)

// Config configures the gRPC server.
type Config struct {
	Addr string
	// LineMode is used when a request does not set line_mode.
	LineMode bool
	Logger   *zap.Logger
}

// Server serves the Transcoder service over gRPC.
type Server struct {
	cfg    Config
	grpc   *grpc.Server
	logger *zap.Logger
}

// NewServer constructs a gRPC server with the Transcoder service registered.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("grpc address must be provided")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, logger: logger.Named("grpc")}
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.unaryLogInterceptor()))
	RegisterTranscoderServer(s.grpc, NewService(cfg.LineMode, logger))
	return s, nil
}

// Run listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The server stops gracefully when ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("grpc listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		err := s.grpc.Serve(ln)
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) unaryLogInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err).String()
		elapsed := time.Since(start)
		metrics.ObserveRPC(info.FullMethod, code, elapsed)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code),
			zap.Duration("elapsed", elapsed),
		}
		if err != nil {
			s.logger.Warn("rpc failed", append(fields, zap.Error(err))...)
			return resp, err
		}
		s.logger.Debug("rpc", fields...)
		return resp, nil
	}
}
