// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/cache"
	"github.com/SuriyaDcruze/UnoBlitz/internal/config"
	"github.com/SuriyaDcruze/UnoBlitz/internal/database"
	"github.com/SuriyaDcruze/UnoBlitz/internal/rooms"
	"github.com/SuriyaDcruze/UnoBlitz/internal/ws"
)

func main() {
	cfg := config.Load()
	cfg.ApplyLogLevel()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer database.Close()

	if err := cache.Init(ctx); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	defer cache.Close()

	registry := rooms.NewRegistry(cfg.MaxRooms)
	server := ws.NewServer(registry)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown failed: %v", err)
	}
}
