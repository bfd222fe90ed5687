package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/NewBieCoderXD/chat-website/internal/app"
	"github.com/NewBieCoderXD/chat-website/internal/directory"
	httpx "github.com/NewBieCoderXD/chat-website/internal/http"
	"github.com/NewBieCoderXD/chat-website/internal/relay"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Room directory: redis-backed with TTL expiry, or in-memory for dev
	var dir directory.Directory
	switch cfg.RoomDir {
	case "memory":
		logger.Warn("directory.memory", "note", "rooms will not survive a restart")
		dir = directory.NewMemory()
	default:
		rd, err := directory.NewRedis(ctx, cfg, logger)
		if err != nil {
			logger.Error("redis connect", "err", err)
			log.Fatal(err)
		}
		defer rd.Close()
		dir = rd
	}

	// Chat core: registry, key allocator, hub
	reg := relay.NewRegistry(dir, logger)
	alloc := relay.NewAllocator(dir, logger, cfg.RoomKeyLen, cfg.RoomKeyTTL)
	hub := relay.NewHub(logger, reg, cfg.SendBuffer)

	// HTTP + WS router
	api := &httpx.RoomsAPI{Alloc: alloc, Reg: reg, Dir: dir}
	router := httpx.NewRouter(cfg, logger, hub, api)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
