package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/01moynul/travelbridge/internal/billing"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/config"
	"github.com/01moynul/travelbridge/internal/database"
	"github.com/01moynul/travelbridge/internal/email"
	"github.com/01moynul/travelbridge/internal/events"
	"github.com/01moynul/travelbridge/internal/handlers"
	"github.com/01moynul/travelbridge/internal/identity"
	"github.com/01moynul/travelbridge/internal/logger"
	"github.com/01moynul/travelbridge/internal/routes"
	"github.com/01moynul/travelbridge/internal/store"
	"github.com/01moynul/travelbridge/internal/verification"
)

func main() {
	ctx := context.Background()

	// 0. --- Load Environment Variables (.env) ---
	envErr := godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		bootLog := logger.New(logger.Config{ServiceName: "travelbridge-api"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "travelbridge-api",
	})
	if envErr != nil {
		log.Warn().Msg("Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Main Database Connection ---
	db, err := database.OpenDB(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to primary database")
	}
	defer db.Close()

	// 2. --- External Gateways ---
	identityClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityServiceKey, cfg.IdentityTimeout())

	var billingGateway verification.BillingGateway
	if cfg.StripeSecretKey != "" {
		billingGateway = billing.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeTimeout())
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; supplier rejections will skip billing cleanup")
	}

	notifier := email.NewNotifier(
		email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom),
		log,
	)

	// 3. --- Coordination (Redis) ---
	var (
		locker    verification.Locker    = cache.NoopLocker{}
		refresher verification.Refresher = cache.NoopRefresher{}
	)
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		if cfg.AccountLockTTL() <= cfg.WorstCaseReview() {
			log.Warn().
				Dur("lock_ttl", cfg.AccountLockTTL()).
				Dur("worst_case", cfg.WorstCaseReview()).
				Msg("ACCOUNT_LOCK_TTL_SECONDS is shorter than the slowest review; locks may expire mid-review")
		}
		locker = cache.NewRedisLocker(redisClient, cfg.AccountLockTTL())
		refresher = cache.NewRedisRefresher(redisClient)
	} else {
		log.Warn().Msg("REDIS_URL not set; reviews rely on database row locks only")
	}

	// 4. --- Lifecycle Events (RabbitMQ) ---
	publisher := newPublisher(cfg.RabbitMQURL, log)
	defer publisher.Close()

	// --- Application Setup ---
	reviews := verification.NewService(verification.Deps{
		Store:     store.NewAccountStore(db),
		Identity:  identityClient,
		Billing:   billingGateway,
		Notifier:  notifier,
		Locker:    locker,
		Refresher: refresher,
		Events:    events.NewAccountEvents(publisher, cfg.AccountEventsExchange),
	}, verification.Options{
		AdminRoleClaim:    cfg.AdminRoleClaim,
		CreatePasswordURL: cfg.CreatePasswordURL(),
		UpdatePasswordURL: cfg.UpdatePasswordURL(),
	}, log)

	app := &handlers.Handlers{Reviews: reviews, Log: log}

	// --- Router Setup ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigin: cfg.CORSAllowedOrigin,
		JWTSecret:     []byte(cfg.JWTSecret),
		Log:           log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Starting TravelBridge API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

// newPublisher connects to RabbitMQ, or falls back to logging events when the
// broker is not configured or unreachable.
func newPublisher(url string, log zerolog.Logger) events.Publisher {
	if url == "" {
		log.Warn().Msg("RABBITMQ_URL not set; account events will only be logged")
		return &events.FallbackProducer{Log: log}
	}
	producer, err := events.NewProducer(url, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable; account events will only be logged")
		return &events.FallbackProducer{Log: log}
	}
	return producer
}
