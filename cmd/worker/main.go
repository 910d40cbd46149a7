package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"welfare-wallet-engine/config"
	"welfare-wallet-engine/internal/adapter/events"
	pgStorage "welfare-wallet-engine/internal/adapter/storage/postgres"
	redisStorage "welfare-wallet-engine/internal/adapter/storage/redis"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/internal/service"
	"welfare-wallet-engine/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().Msg("Starting Welfare Wallet Engine worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	billRepo := pgStorage.NewBillRepo(pool)
	depositRepo := pgStorage.NewDepositRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis adapters
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	publisher := redisStorage.NewEventPublisher(rdb)

	// Initialize engines
	availSvc := service.NewAvailabilityService(ledgerRepo, logger.WithComponent(log, "availability"))
	limitSvc := service.NewLimitService(ledgerRepo, logger.WithComponent(log, "limits"))
	transferSvc := service.NewTransferService(
		walletRepo, ledgerRepo, availSvc, limitSvc,
		transactor, publisher, logger.WithComponent(log, "transfer"),
	)
	paymentSvc := service.NewPaymentService(
		walletRepo, billRepo, ledgerRepo, availSvc, limitSvc,
		transactor, publisher, logger.WithComponent(log, "payment"),
	)
	refundSvc := service.NewRefundService(
		walletRepo, billRepo, ledgerRepo,
		transactor, publisher, logger.WithComponent(log, "refund"),
	)
	depositSvc := service.NewDepositService(
		walletRepo, depositRepo, ledgerRepo, idempotencyCache,
		transactor, publisher, logger.WithComponent(log, "deposit"),
	)

	// Initialize health checkers
	healthCheckers := []ports.HealthChecker{
		pgStorage.NewHealthCheck(pool),
		redisStorage.NewHealthCheck(rdb),
	}
	go probeHealth(ctx, healthCheckers, cfg.Worker.HealthInterval, log)

	// Run both consumers until a termination signal arrives: billing events
	// drive the deposit lifecycle, operation commands drive the other engines.
	billingConsumer := events.NewConsumer(rdb, depositSvc, logger.WithComponent(log, "billing-consumer"))
	commandConsumer := events.NewCommandConsumer(
		rdb, transferSvc, paymentSvc, refundSvc, depositSvc,
		logger.WithComponent(log, "command-consumer"),
	)

	done := make(chan error, 2)
	go func() { done <- billingConsumer.Run(ctx) }()
	go func() { done <- commandConsumer.Run(ctx) }()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down worker...")
	case err := <-done:
		log.Error().Err(err).Msg("Consumer stopped unexpectedly")
		stop()
	}

	// Graceful shutdown: give in-flight event handling a bounded window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer cancel()

	remaining := 2
	for remaining > 0 {
		select {
		case <-done:
			remaining--
		case <-shutdownCtx.Done():
			log.Error().Msg("Consumers forced to shutdown")
			remaining = 0
		}
	}

	log.Info().Msg("Worker exited")
}

// probeHealth periodically pings every dependency and logs degradation.
func probeHealth(ctx context.Context, checkers []ports.HealthChecker, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range checkers {
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				if err := c.Ping(pingCtx); err != nil {
					log.Error().Err(err).Str("dependency", c.Name()).Msg("health check failed")
				}
				cancel()
			}
		}
	}
}
