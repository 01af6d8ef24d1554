package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start runs the HTTP server until an interrupt or terminate signal arrives,
// then shuts everything down with a timeout.
func (s *Server) Start(addr string) {
	subCtx, cancelSubs := context.WithCancel(context.Background())
	defer cancelSubs()

	if err := s.StartSubscribers(subCtx); err != nil {
		slog.Error("Failed to start bus subscribers", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := s.E.Start(addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cancelSubs()
	if err := s.Bus.Close(); err != nil {
		slog.Error("Failed to close message bus", "error", err)
	}
	s.DB.Close(ctx)
	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
}
