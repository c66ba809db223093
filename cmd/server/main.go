package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corebank/internal/config"
	"corebank/internal/db"
	"corebank/internal/events"
	"corebank/internal/handlers"
	"corebank/internal/services"
	"corebank/internal/store"
	"corebank/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	accounts := store.NewAccountStore(database)
	accountLedger := store.NewAccountLedgerStore(database)
	transfers := store.NewTransferStore(database)
	ledger := store.NewLedgerStore(database)
	riskDecisions := store.NewRiskStore(database)
	notifications := store.NewNotificationStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	var publisher services.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	accountService := services.NewAccountService(txRunner, accounts, accountLedger)
	ledgerService := services.NewLedgerService(txRunner, ledger)
	riskService := services.NewRiskService(riskDecisions, cfg.RiskSingleLimit)
	notificationService := services.NewNotificationService(notifications)
	transferService := services.NewTransferService(
		transfers, riskService, accountService, ledgerService, notificationService,
		hub, publisher, cfg.StepTimeout, cfg.StepMaxAttempts,
	)

	handler := handlers.New(cfg, accountService, transferService, ledgerService, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("corebank API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
