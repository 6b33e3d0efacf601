package main

import (
	"context"
	"fmt"

	"marketplace-engine/internal/adapters/broadcaster"
	"marketplace-engine/internal/adapters/db"
	"marketplace-engine/internal/adapters/kafka"
	"marketplace-engine/internal/adapters/memory"
	"marketplace-engine/internal/adapters/payment"
	"marketplace-engine/internal/adapters/redis"
	"marketplace-engine/internal/adapters/scheduler"
	"marketplace-engine/internal/app"
	"marketplace-engine/internal/config"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// engine holds the wired services and the resources that must be released on exit
type engine struct {
	store       outbound.Store
	auctions    *app.AuctionService
	deals       *app.FlashDealService
	payments    *app.PaymentService
	users       *app.UserService
	sweeps      *app.Sweeps
	sink        outbound.NotificationSink
	broadcaster *broadcaster.RedisBroadcaster
	closers     []func() error
}

func (e *engine) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			log.Error().Err(err).Msg("Error releasing resource")
		}
	}
}

func rulesFrom(cfg *config.Config) app.Rules {
	rules := app.DefaultRules()
	rules.AutoExtendMinutes = cfg.Engine.AutoExtendMinutes
	rules.DefaultDurationHours = cfg.Engine.DefaultDurationHours
	rules.DefaultCurrency = cfg.Engine.DefaultCurrency
	rules.ScheduleThreshold = cfg.Engine.DealScheduleThreshold
	rules.DefaultDealRadiusKm = cfg.Engine.DealRadiusKm
	rules.ConflictAttempts = cfg.Engine.ConflictAttempts
	return rules
}

func buildEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	e := &engine{}
	ok := false
	defer func() {
		if !ok {
			e.close()
		}
	}()

	// Document store
	if cfg.Database.UsesPostgres() {
		dbConn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		e.closers = append(e.closers, dbConn.Close)
		e.store = db.NewRepositoryFactory(dbConn).Repositories()
		log.Info().Msg("Database connection established")
	} else {
		e.store = memory.NewStore().Repositories()
		log.Warn().Msg("Using in-memory document store; data is lost on exit")
	}

	// Redis is shared by the distributed locker and the live feed
	var redisClient *goredis.Client
	if cfg.Engine.LockDriver == config.DriverRedis || cfg.Notifications.Sink == config.SinkRedis {
		redisClient = redis.NewClient(cfg)
		if err := redis.PingRedis(ctx, redisClient); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		e.closers = append(e.closers, redisClient.Close)
		log.Info().Msg("Redis connection established")
	}

	var locker outbound.Locker
	if cfg.Engine.LockDriver == config.DriverRedis {
		locker = redis.NewLocker(redis.LockerParams{
			RedisClient: redisClient,
			TTL:         cfg.Engine.LockTTL,
			Logger:      log.Logger,
		})
	} else {
		locker = memory.NewKeyedLocker()
	}

	sink, err := buildSink(cfg, redisClient, e)
	if err != nil {
		return nil, err
	}
	e.sink = sink

	processor, err := buildProcessor(cfg, log.Logger)
	if err != nil {
		return nil, err
	}

	rules := rulesFrom(cfg)
	clock := outbound.SystemClock{}

	e.auctions = app.NewAuctionService(app.AuctionServiceParams{
		AuctionRepo:      e.store.Auctions,
		BidRepo:          e.store.Bids,
		JobRepo:          e.store.Jobs,
		UserRepo:         e.store.Users,
		NotificationRepo: e.store.Notifications,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           log.Logger,
	})
	e.deals = app.NewFlashDealService(app.FlashDealServiceParams{
		DealRepo:         e.store.Deals,
		ClaimRepo:        e.store.Claims,
		UserRepo:         e.store.Users,
		BroadcastRepo:    e.store.Broadcasts,
		NotificationRepo: e.store.Notifications,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           log.Logger,
	})
	e.payments = app.NewPaymentService(app.PaymentServiceParams{
		MethodRepo:       e.store.PaymentMethods,
		TransactionRepo:  e.store.Transactions,
		JobRepo:          e.store.Jobs,
		UserRepo:         e.store.Users,
		NotificationRepo: e.store.Notifications,
		Processor:        processor,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           log.Logger,
	})
	e.users = app.NewUserService(app.UserServiceParams{
		UserRepo:         e.store.Users,
		NotificationRepo: e.store.Notifications,
		Clock:            clock,
		Rules:            rules,
		Logger:           log.Logger,
	})
	e.sweeps = app.NewSweeps(e.auctions, e.deals)

	log.Info().Msg("Business services initialized")
	ok = true
	return e, nil
}

func buildSink(cfg *config.Config, redisClient *goredis.Client, e *engine) (outbound.NotificationSink, error) {
	switch cfg.Notifications.Sink {
	case config.SinkRedis:
		b := broadcaster.NewBroadcaster(broadcaster.RedisBroadcasterParams{
			RedisClient: redisClient,
			Logger:      log.Logger,
		})
		e.broadcaster = b
		e.closers = append(e.closers, b.Close)
		log.Info().Msg("Redis broadcaster initialized")
		return b, nil

	case config.SinkKafka:
		s := kafka.NewSink(kafka.SinkParams{
			Brokers: cfg.Notifications.KafkaBrokers,
			Topic:   cfg.Notifications.KafkaTopic,
			Logger:  log.Logger,
		})
		e.closers = append(e.closers, s.Close)
		log.Info().Strs("brokers", cfg.Notifications.KafkaBrokers).Msg("Kafka notification sink initialized")
		return s, nil

	case config.SinkLog:
		return scheduler.NewLogSink(log.Logger), nil

	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Notifications.Sink)
	}
}

func buildProcessor(cfg *config.Config, logger zerolog.Logger) (outbound.PaymentProcessor, error) {
	switch cfg.Payments.Processor {
	case config.ProcessorStripe:
		return payment.NewStripeProcessor(payment.StripeProcessorParams{
			SecretKey: cfg.Payments.StripeSecretKey,
			Logger:    logger,
		})
	case config.ProcessorStub:
		logger.Warn().Msg("Using simulated payment processor")
		return payment.NewSimulatedProcessor(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedProcessor, cfg.Payments.Processor)
	}
}

func newDispatcher(cfg *config.Config, e *engine) *scheduler.Dispatcher {
	return scheduler.NewDispatcher(scheduler.DispatcherParams{
		NotificationRepo: e.store.Notifications,
		Sink:             e.sink,
		Clock:            outbound.SystemClock{},
		Interval:         cfg.Scheduler.DispatchInterval,
		BatchSize:        cfg.Scheduler.DispatchBatch,
		Workers:          cfg.Scheduler.DispatchWorkers,
		Logger:           log.Logger,
	})
}
