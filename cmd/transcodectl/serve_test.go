package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RowanDark/transcode/internal/config"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	e := &env{cfg: config.Default()}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, "127.0.0.1:0", "127.0.0.1:0", e, zap.NewNop())
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("servers did not shut down after context cancellation")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	e := &env{cfg: config.Default()}
	err := serve(context.Background(), "", "256.0.0.1:1", e, zap.NewNop())
	if err == nil {
		t.Fatal("expected listen error")
	}
}

func TestServeRequiresAnAddress(t *testing.T) {
	code, _, stderr := runCLI(t, "", "serve", "--http", "", "--grpc", "")
	if code != 2 || !strings.Contains(stderr, "at least one of") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}
