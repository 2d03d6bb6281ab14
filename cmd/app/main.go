package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arenabook/internal/arena"
	"arenabook/internal/auth"
	"arenabook/internal/booking"
	"arenabook/internal/config"
	"arenabook/internal/db"
	"arenabook/internal/email"
	"arenabook/internal/logger"
	"arenabook/internal/mq"
	"arenabook/internal/notification"
	"arenabook/internal/payment"
	"arenabook/internal/server"
	"arenabook/internal/user"
	"arenabook/internal/worker"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.AppEnv)
	logger.Info("Starting ArenaBook", "env", cfg.AppEnv)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", "error", err)
	}
	initialStatus, err := booking.ParseStatus(cfg.BookingInitialStatus)
	if err != nil || !initialStatus.Active() {
		logger.Fatal("BOOKING_INITIAL_STATUS must be pending or approved", "value", cfg.BookingInitialStatus)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL, db.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBLifetime,
	})
	connectCancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Arena reads fall through to Postgres; mail waits in the queue.
		logger.Warn("Redis unavailable at startup", "addr", cfg.RedisAddr, "error", err)
	}

	sender, err := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
	})
	if err != nil {
		logger.Fatal("Failed to init SMTP sender", "error", err)
	}
	emailService := email.New(rdb, sender)
	go emailService.Start(ctx)

	var publisher notification.Publisher
	if cfg.AMQPURL != "" {
		p, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		defer p.Close()
		publisher = p
		logger.Info("Publishing booking events", "exchange", cfg.AMQPExchange)
	}

	tokens, err := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		logger.Fatal("Invalid token settings", "error", err)
	}

	userRepo := user.NewRepository(database)
	userService := user.NewService(userRepo, tokens)

	arenaRepo := arena.NewCachedRepository(arena.NewRepository(database), rdb, cfg.ArenaCacheTTL)
	arenaService := arena.NewService(arenaRepo)

	notificationRepo := notification.NewRepository(database)
	dispatcher := notification.NewDispatcher(notificationRepo, userRepo, emailService, publisher)

	bookingService := booking.NewService(
		booking.NewRepository(database, cfg.BookingLockTimeout),
		arenaService,
		booking.Options{
			InitialStatus: initialStatus,
			SlotDuration:  cfg.SlotDuration,
			Location:      loc,
		},
		dispatcher,
	)

	paymentService := payment.NewService(payment.NewRepository(database), bookingService)

	completion, err := worker.NewCompletion(bookingService, cfg.CompletionInterval, loc)
	if err != nil {
		logger.Fatal("Failed to create completion worker", "error", err)
	}
	if err := completion.Start(ctx); err != nil {
		logger.Fatal("Failed to start completion worker", "error", err)
	}

	srv := server.New(server.Handlers{
		User:         user.NewHandler(userService),
		Arena:        arena.NewHandler(arenaService),
		Booking:      booking.NewHandler(bookingService, loc),
		Payment:      payment.NewHandler(paymentService),
		Notification: notification.NewHandler(notification.NewService(notificationRepo)),
		Health: server.Health(map[string]server.Pinger{
			"postgres": database,
			"redis":    server.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		}),
	}, server.Options{
		Tokens:         tokens,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := completion.Stop(); err != nil {
		logger.Errorf("Error stopping completion worker: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}
