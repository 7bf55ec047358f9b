package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/linknk/satellite-payments/internal/adapter/primary/http"
	"github.com/linknk/satellite-payments/internal/adapter/secondary/database"
	"github.com/linknk/satellite-payments/internal/adapter/secondary/messaging"
	"github.com/linknk/satellite-payments/internal/adapter/secondary/mpesa"
	"github.com/linknk/satellite-payments/internal/config"
	"github.com/linknk/satellite-payments/internal/constant/model/db"
	"github.com/linknk/satellite-payments/internal/core/service"
	"github.com/linknk/satellite-payments/internal/logging"
	"github.com/linknk/satellite-payments/internal/port/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New("api", cfg.LogLevel)

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Repository, provider client and Messaging (implement output ports)
	sessionRepo := database.NewGormSessionRepository(dbConn.DB)
	gateway := mpesa.NewClient(cfg.Mpesa.APIURL, cfg.Mpesa.Timeout)

	// Messaging is optional for the API: callbacks still finalize sessions without it
	var events output.PaymentEvents
	if msgClient, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL, logger); err != nil {
		logger.Warnf("RabbitMQ unavailable, finalized sessions will not be announced: %v", err)
	} else {
		events = msgClient
		defer msgClient.Close()
	}

	// Initialize core service (implements input port)
	paymentService := service.NewPaymentService(cfg, sessionRepo, gateway, events, logger)

	// Initialize primary adapter: HTTP handler (uses input port)
	paymentHandler := httpadapter.NewPaymentHandler(paymentService)
	e := httpadapter.NewServer(paymentHandler, logger)

	if err := cfg.Mpesa.Credentials.Validate(); err != nil {
		logger.Warnf("STK push requests will fail until configured: %v", err)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
