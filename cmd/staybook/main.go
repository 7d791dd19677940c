package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authservice "staybook/internal/app/services/auth"
	bookingservice "staybook/internal/app/services/booking"
	listingsservice "staybook/internal/app/services/listings"

	"staybook/internal/app/policies"
	domainauth "staybook/internal/domain/auth"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/clock"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
	redisstore "staybook/internal/infra/storage/redis"
	"staybook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		users    domainuser.Repository
		listings domainlistings.Repository
		bookings domainbooking.Repository
		ready    = func() error { return nil }
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		})

		userRepo := mongodb.NewUserRepository(client.DB)
		listingRepo := mongodb.NewListingRepository(client.DB)
		bookingRepo := mongodb.NewBookingRepository(client.DB)
		for _, ensure := range []func(context.Context) error{
			userRepo.EnsureIndexes, listingRepo.EnsureIndexes, bookingRepo.EnsureIndexes,
		} {
			if err := ensure(ctx); err != nil {
				return application{}, cleanup, err
			}
		}
		users, listings, bookings = userRepo, listingRepo, bookingRepo
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage backend ready", "backend", "mongo", "database", cfg.MongoDB)
	} else {
		users = memory.NewUserRepository()
		listings = memory.NewListingRepository()
		bookings = memory.NewBookingRepository()
		logger.Info("storage backend ready", "backend", "memory")
	}

	var sessions domainauth.SessionStore
	if cfg.RedisAddr != "" {
		store := redisstore.NewSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			return application{}, cleanup, err
		}
		sessions = store
		logger.Info("session backend ready", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		sessions = memory.NewSessionStore()
		logger.Info("session backend ready", "backend", "memory")
	}

	var events policies.EventPublisher = policies.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		events = producer
		logger.Info("event publisher ready", "backend", "kafka", "brokers", cfg.KafkaBrokers)
	}

	var images policies.ImageStore
	if cfg.S3Endpoint != "" {
		store, err := s3.NewClient(s3.Config{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return application{}, cleanup, err
		}
		images = store
		logger.Info("image store ready", "backend", "s3", "bucket", cfg.S3Bucket)
	}

	clk := clock.System{}

	authSvc := &authservice.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{Cost: cfg.BcryptCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	listingSvc := listingsservice.NewService(listings, bookings, users, images, clk, events, logger)
	bookingSvc := bookingservice.NewService(bookings, listings, clk, events, logger)

	authMW := ginserver.AuthMiddleware{Service: authSvc, Logger: logger}

	return application{
		handlers: ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: authSvc, SessionTTL: cfg.SessionTTL},
			Listing:        ginserver.ListingHandler{Service: listingSvc},
			HostListing:    ginserver.HostListingHandler{Service: listingSvc},
			Booking:        ginserver.BookingHandler{Service: bookingSvc},
			HostBooking:    ginserver.HostBookingHandler{Service: bookingSvc},
			AuthMiddleware: authMW.Handle,
		},
		ready: ready,
	}, cleanup, nil
}
