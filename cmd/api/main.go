package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homezy_backend/internal/accounts"
	"homezy_backend/internal/adapters"
	"homezy_backend/internal/email"
	"homezy_backend/internal/events"
	apphttp "homezy_backend/internal/http"
	"homezy_backend/internal/http/router"
	"homezy_backend/internal/leads"
	"homezy_backend/internal/notification"
	"homezy_backend/internal/notification/inapp"
	"homezy_backend/internal/push"
	"homezy_backend/internal/reminders"
	"homezy_backend/internal/scheduler"
	"homezy_backend/migrations"
	"homezy_backend/platform/config"
	"homezy_backend/platform/db"
	"homezy_backend/platform/logger"
	"homezy_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting api", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, migrations.FS, "."); err != nil {
		log.Error("failed to run migrations", "error", err)
		panic("failed to run migrations: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sender := email.NewSender(cfg)
	pushClient := push.NewClient(cfg, log)

	// ========================================================================
	// Modules
	// ========================================================================

	accountsModule := accounts.NewModule(pool, val)
	accountsRepo := accountsModule.Repository()

	leadsModule := leads.NewModule(pool, adapters.NewProfessionalDirectoryAdapter(accountsRepo), eventBus, cfg, val, log)
	remindersModule := reminders.NewModule(pool, eventBus, val, log)
	remindersModule.Service().SetLeadCreator(leadsModule.Service())

	if tasks, cleanup := initTaskScheduler(cfg, log); tasks != nil {
		leadsModule.Service().SetTaskScheduler(tasks)
		defer cleanup()
	}

	notificationModule := notification.New(
		inapp.NewRepository(pool),
		accountsRepo,
		leadsModule.Repository(),
		sender,
		pushClient,
		cfg,
		cfg,
		log,
	)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			accountsModule,
			leadsModule,
			remindersModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initTaskScheduler builds the exact-time task client when redis is
// configured. Without it the cron sweeps alone pick up expirations, just with
// coarser timing.
func initTaskScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; exact-time lead tasks disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
