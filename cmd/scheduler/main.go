package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountrepo "homezy_backend/internal/accounts/repository"
	"homezy_backend/internal/adapters"
	"homezy_backend/internal/email"
	"homezy_backend/internal/events"
	"homezy_backend/internal/leads"
	"homezy_backend/internal/notification"
	"homezy_backend/internal/notification/inapp"
	"homezy_backend/internal/push"
	"homezy_backend/internal/reminders"
	reminderrepo "homezy_backend/internal/reminders/repository"
	"homezy_backend/internal/scheduler"
	"homezy_backend/platform/config"
	"homezy_backend/platform/db"
	"homezy_backend/platform/logger"
	"homezy_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sender := email.NewSender(cfg)
	pushClient := push.NewClient(cfg, log)

	// ========================================================================
	// Worker-side module wiring (no HTTP handlers required)
	// ========================================================================

	accountsRepo := accountrepo.New(pool)
	remindersRepo := reminderrepo.New(pool)

	leadsModule := leads.NewModule(pool, adapters.NewProfessionalDirectoryAdapter(accountsRepo), eventBus, cfg, val, log)
	remindersModule := reminders.NewModule(pool, eventBus, val, log)
	remindersModule.Service().SetLeadCreator(leadsModule.Service())

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
	// Cron sweeps
	// ========================================================================

	var lock *scheduler.Lock
	redisClient := newRedisClient(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
		lock = scheduler.NewLock(redisClient, cfg.GetSchedulerLockTTL(), log)
	}

	seasonalJob, err := scheduler.NewSeasonalRemindersJob(
		remindersModule.Service(), adapters.NewHomeownerDirectoryAdapter(accountsRepo), log)
	if err != nil {
		log.Error("failed to initialize seasonal reminders job", "error", err)
		panic("failed to initialize seasonal reminders job: " + err.Error())
	}

	runner := scheduler.NewRunner(lock, log)
	register := func(spec string, job scheduler.Job) {
		if err := runner.Register(spec, job); err != nil {
			log.Error("failed to register job", "job", job.Name(), "error", err)
			panic("failed to register job: " + err.Error())
		}
	}
	register(cfg.GetCronReminderNotifications(), scheduler.NewReminderNotificationsJob(remindersRepo, eventBus))
	register(cfg.GetCronPatternSync(), scheduler.NewPatternSyncJob(
		leadsModule.Repository(), remindersModule.Service(),
		adapters.NewServiceHistoryAdapter(leadsModule.Repository()), log))
	register(cfg.GetCronSeasonalReminders(), seasonalJob)
	register(cfg.GetCronDirectLeadExpiry(), scheduler.NewDirectLeadExpiryJob(leadsModule.Service()))
	register(cfg.GetCronDirectLeadReminders(), scheduler.NewDirectLeadRemindersJob(leadsModule.Service()))
	register(cfg.GetCronLicenseExpiry(), scheduler.NewLicenseExpiryJob(accountsRepo, eventBus))

	go runner.Run(ctx)

	// ========================================================================
	// Exact-time task worker
	// ========================================================================

	if cfg.GetRedisURL() != "" {
		worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), log)
		if err != nil {
			log.Error("failed to initialize task worker", "error", err)
			panic("failed to initialize task worker: " + err.Error())
		}
		worker.Run(ctx)
	} else {
		log.Warn("REDIS_URL not configured; running cron sweeps only")
		<-ctx.Done()
	}

	log.Info("shutdown signal received, draining event handlers")
	eventBus.Wait()
}

func newRedisClient(cfg config.SchedulerConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL, scheduler lock disabled", "error", err)
		return nil
	}
	if cfg.GetRedisTLSInsecure() && opt.TLSConfig != nil {
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return redis.NewClient(opt)
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
