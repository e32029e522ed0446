package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/cashledger/internal/adapter/http"
	"github.com/iho/cashledger/internal/adapter/http/handler"
	"github.com/iho/cashledger/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/cashledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/cashledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashledger/internal/adapter/repository/redis"
	"github.com/iho/cashledger/internal/infrastructure/config"
	"github.com/iho/cashledger/internal/infrastructure/eventpublisher"
	"github.com/iho/cashledger/internal/infrastructure/logger"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
	"github.com/iho/cashledger/internal/infrastructure/postgres"
	"github.com/iho/cashledger/internal/infrastructure/redis"
	"github.com/iho/cashledger/internal/usecase"
)

const rateLimiterIdle = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Caller: cfg.LogCaller})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// storage is the set of repositories behind one storage driver.
type storage struct {
	txManager    usecase.TransactionManager
	accountRepo  usecase.AccountRepository
	entryRepo    usecase.EntryRepository
	sequenceRepo usecase.SequenceRepository
	ledgerRepo   usecase.LedgerRepository
	outboxRepo   usecase.OutboxRepository
	ping         handler.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	log := zerolog.Ctx(ctx)

	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memoryRepo.NewStore()
		log.Warn().Msg("using in-memory storage, data is lost on restart")

		st := &storage{
			txManager:    memoryRepo.NewTxManager(store),
			accountRepo:  memoryRepo.NewAccountRepository(store),
			entryRepo:    memoryRepo.NewEntryRepository(store),
			sequenceRepo: memoryRepo.NewSequenceRepository(),
			ledgerRepo:   memoryRepo.NewLedgerRepository(store),
			close:        func() {},
		}
		if cfg.OutboxEnabled {
			st.outboxRepo = memoryRepo.NewOutboxRepository(store)
		}
		return st, nil
	}

	if cfg.DatabaseMigrateOnStart {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		LockTimeout: cfg.DatabaseLockTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	// A nil outbox makes the use cases skip event recording.
	var outboxRepo usecase.OutboxRepository
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accountRepo:  postgresRepo.NewAccountRepository(pool),
		entryRepo:    postgresRepo.NewEntryRepository(pool),
		sequenceRepo: postgresRepo.NewSequenceRepository(),
		ledgerRepo:   postgresRepo.NewLedgerRepository(pool),
		outboxRepo:   outboxRepo,
		ping:         pool,
		close:        pool.Close,
	}, nil
}

// app is the assembled service.
type app struct {
	router      http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
}

func newApp(cfg *config.Config, st *storage, redisClient *goredis.Client, log zerolog.Logger, reg *prometheus.Registry) *app {
	m := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()

	sweeper := usecase.NewCashbackSweeper(st.accountRepo, st.entryRepo, st.outboxRepo, idGen, m)
	accountUC := usecase.NewAccountUseCase(st.txManager, st.accountRepo, st.entryRepo, st.outboxRepo, sweeper, idGen, m)
	transferUC := usecase.NewTransferUseCase(st.txManager, st.accountRepo, st.entryRepo, st.outboxRepo, sweeper, idGen, m)
	paymentUC := usecase.NewPaymentUseCase(st.txManager, st.accountRepo, st.entryRepo, st.sequenceRepo, st.outboxRepo, sweeper, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(st.ledgerRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(st.ledgerRepo)

	checks := map[string]handler.Pinger{"postgres": st.ping}

	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		accountUC.WithAccountListCache(redisRepo.NewCache(redisClient), cfg.AccountListCacheTTL)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	var publisher *eventpublisher.EventPublisher
	if cfg.OutboxEnabled {
		var sink eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
		if cfg.OutboxPublisher == config.OutboxPublisherRedis && redisClient != nil {
			sink = eventpublisher.NewRedisStreamPublisher(redisClient, cfg.OutboxStream, cfg.OutboxStreamMaxLen)
		}
		publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: st.outboxRepo,
			Publisher:  sink,
			Logger:     log,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTPRateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTPRateLimitRPS, cfg.HTTPRateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		PaymentHandler:   handler.NewPaymentHandler(paymentUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, reconciliationUC),
		HealthHandler:    handler.NewHealthHandler(checks),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           log,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return &app{router: router, publisher: publisher, rateLimiter: rateLimiter}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := newApp(cfg, st, redisClient, log, reg)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if a.publisher != nil {
		go func() {
			if err := a.publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	if a.rateLimiter != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					a.rateLimiter.Cleanup(rateLimiterIdle)
				}
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
