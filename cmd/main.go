package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/workbridge/workbridge/internal/app"
	"github.com/workbridge/workbridge/internal/config"
	"github.com/workbridge/workbridge/internal/db"
	"github.com/workbridge/workbridge/internal/logger"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/services"
)

func main() {
	// A missing .env file is fine; the environment may be set directly
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	logger.Initialize()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.New(db.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSL:      cfg.DBSSL,
		LogLevel: cfg.DBLogLevel,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := notifications.NewAsyncDispatcher()
	notifications.SubscribeLogging(dispatcher)
	dispatcher.Start(ctx)

	application := app.New(database, dispatcher, cfg.InvitationTTL)

	var wg sync.WaitGroup
	wg.Add(1)
	go services.LaunchSweeper(ctx, &wg, application.Invitations, cfg.SweepInterval)

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Fiber.Listen(":" + cfg.ServerPort)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Errorf("Server stopped: %v", err)
	case sig := <-sigCh:
		logger.Infof("Received signal %s, shutting down...", sig)
	}

	cancel()
	if err := application.Fiber.Shutdown(); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	wg.Wait()
	logger.Info("Shutdown complete")
}
