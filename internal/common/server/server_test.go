package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestRun_SignalRunsHooksAfterShutdown(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "info")
	srv := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler()}

	quit := make(chan os.Signal, 1)
	hookCalled := make(chan struct{}, 1)
	hooks := []ShutdownHook{
		func(ctx context.Context) error {
			hookCalled <- struct{}{}
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- run(srv, log, "test", hooks, quit) }()

	time.Sleep(50 * time.Millisecond)
	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	select {
	case <-hookCalled:
	default:
		t.Error("expected shutdown hook to run")
	}
}

func TestRun_ListenFailure(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "info")

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	srv := &http.Server{Addr: busy.Addr().String(), Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- run(srv, log, "test", nil, make(chan os.Signal)) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return on listen failure")
	}
}

func TestDefaultServerConfig_StretchesWriteTimeout(t *testing.T) {
	cfg := DefaultServerConfig("3001", 5*time.Minute)
	if cfg.Addr != ":3001" {
		t.Errorf("expected :3001, got %s", cfg.Addr)
	}
	if cfg.WriteTimeout < 5*time.Minute {
		t.Errorf("expected write timeout above ocr timeout, got %v", cfg.WriteTimeout)
	}
}
