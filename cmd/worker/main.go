package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/linknk/satellite-payments/internal/adapter/secondary/database"
	"github.com/linknk/satellite-payments/internal/adapter/secondary/messaging"
	"github.com/linknk/satellite-payments/internal/config"
	"github.com/linknk/satellite-payments/internal/constant/model/db"
	"github.com/linknk/satellite-payments/internal/core/service"
	"github.com/linknk/satellite-payments/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New("worker", cfg.LogLevel)

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Repositories (implement output ports)
	sessionRepo := database.NewGormSessionRepository(dbConn.DB)
	subscriptionRepo := database.NewGormSubscriptionRepository(dbConn.DB)

	// Initialize core service: Activation processor
	processor := service.NewActivationProcessor(sessionRepo, subscriptionRepo, cfg.Bundle.Validity, logger)

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClientConcrete(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming messages
	if err := msgClient.ConsumeSessionEvents(ctx, processor.ProcessEvent, service.IsTerminalError); err != nil {
		logger.Fatalf("Failed to start consuming messages: %v", err)
	}

	logger.Info("Activation worker started. Press CTRL+C to exit.")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
}
