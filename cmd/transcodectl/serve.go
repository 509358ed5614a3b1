package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/RowanDark/transcode/internal/api"
	"github.com/RowanDark/transcode/internal/rpc"
)

func runServe(args []string, e *env) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	httpAddr := fs.String("http", e.cfg.HTTPAddr, "HTTP API listen address (empty disables)")
	grpcAddr := fs.String("grpc", e.cfg.GRPCAddr, "gRPC listen address (empty disables)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(e.stderr, "serve takes no positional arguments")
		return 2
	}
	if *httpAddr == "" && *grpcAddr == "" {
		fmt.Fprintln(e.stderr, "at least one of --http or --grpc is required")
		return 2
	}

	logger, err := e.newLogger("transcoded")
	if err != nil {
		fmt.Fprintf(e.stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, *httpAddr, *grpcAddr, e, logger.Logger); err != nil {
		logger.Error("serve failed", zap.Error(err))
		fmt.Fprintf(e.stderr, "serve: %v\n", err)
		return 1
	}
	return 0
}

// serve runs the enabled servers until ctx is cancelled or one of them fails.
// A failing server cancels the others.
func serve(ctx context.Context, httpAddr, grpcAddr string, e *env, logger *zap.Logger) error {
	type runner interface {
		Run(context.Context) error
	}
	var runners []runner

	if httpAddr != "" {
		srv, err := api.NewServer(api.Config{
			Addr:         httpAddr,
			MaxConns:     e.cfg.MaxConns,
			MaxBodyBytes: e.cfg.MaxBodyBytes,
			LineMode:     e.cfg.LineMode,
			Logger:       logger,
		})
		if err != nil {
			return fmt.Errorf("configure http api: %w", err)
		}
		runners = append(runners, srv)
	}
	if grpcAddr != "" {
		srv, err := rpc.NewServer(rpc.Config{
			Addr:     grpcAddr,
			LineMode: e.cfg.LineMode,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("configure grpc: %w", err)
		}
		runners = append(runners, srv)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(runners))
	for _, r := range runners {
		go func(r runner) {
			err := r.Run(ctx)
			if err != nil {
				cancel()
			}
			errCh <- err
		}(r)
	}

	var errs []error
	for range runners {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
