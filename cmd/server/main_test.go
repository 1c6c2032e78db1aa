package main

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

func TestRun(t *testing.T) {
	t.Run("invalid configuration", func(t *testing.T) {
		t.Setenv("STORE", "bogus")

		err := run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("listener failure is returned", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to reserve port: %v", err)
		}
		defer taken.Close()

		dbPath := filepath.Join(t.TempDir(), "ledger.db")
		t.Setenv("LISTEN_ADDR", taken.Addr().String())
		t.Setenv("STORE", "sqlite")
		t.Setenv("DB_PATH", dbPath)

		err = run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "server failed") {
			t.Fatalf("expected server error, got %v", err)
		}

		store, err := sqlite.New(dbPath)
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		store.Close()
	})

	t.Run("cancellation shuts down cleanly", func(t *testing.T) {
		t.Setenv("LISTEN_ADDR", "127.0.0.1:0")
		t.Setenv("STORE", "memory")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("run did not return after cancellation")
		}
	})
}
