/*
Package main is the entry point for the dmchat server.

It is responsible for loading configuration, initializing the global logging system,
connecting to Postgres and object storage, starting the realtime Gateway, setting up
the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dmchat/internal/app/db"
	"dmchat/internal/app/message"
	"dmchat/internal/app/presence"
	"dmchat/internal/app/realtime"
	"dmchat/internal/app/storage"
	"dmchat/internal/app/user"
	"dmchat/internal/configs"
	"dmchat/internal/handler"
	"dmchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Postgres and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	// Initialize object storage for image uploads
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Start the realtime core: presence registry, gateway, dispatcher
	registry := presence.NewRegistry()
	gateway := realtime.NewGateway(registry)
	dispatcher := realtime.NewDispatcher(gateway)

	deps := &handler.AppDeps{
		Config:         cfg,
		Gateway:        gateway,
		Dispatcher:     dispatcher,
		Users:          user.NewStore(pool),
		Messages:       message.NewStore(pool),
		StorageService: storageService,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("dmchat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	gateway.Shutdown()

	logx.Info("Server gracefully stopped.")
}
