package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicarehq/booking-api/internal/config"
	appointmentHandler "github.com/medicarehq/booking-api/internal/handler/appointment"
	authHandler "github.com/medicarehq/booking-api/internal/handler/auth"
	doctorHandler "github.com/medicarehq/booking-api/internal/handler/doctor"
	healthHandler "github.com/medicarehq/booking-api/internal/handler/health"
	"github.com/medicarehq/booking-api/internal/middleware"
	"github.com/medicarehq/booking-api/internal/repository"
	"github.com/medicarehq/booking-api/internal/repository/memory"
	"github.com/medicarehq/booking-api/internal/repository/postgres"
	"github.com/medicarehq/booking-api/internal/router"
	appointmentService "github.com/medicarehq/booking-api/internal/service/appointment"
	authService "github.com/medicarehq/booking-api/internal/service/auth"
	doctorService "github.com/medicarehq/booking-api/internal/service/doctor"
	"github.com/medicarehq/booking-api/internal/service/notification"
	"github.com/medicarehq/booking-api/pkg/logger"
	"github.com/medicarehq/booking-api/pkg/messaging"
	redisbroker "github.com/medicarehq/booking-api/pkg/messaging/redis"
	"github.com/medicarehq/booking-api/pkg/metrics"
	"github.com/medicarehq/booking-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	m := metrics.New("bookingapi")
	m.MustRegister(prometheus.DefaultRegisterer)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	// Storage backend: seeded in-memory maps by default, Postgres when
	// configured.
	var (
		userRepo        repository.UserRepository
		doctorRepo      repository.DoctorRepository
		appointmentRepo repository.AppointmentRepository
		checker         healthHandler.Checker
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		userRepo = postgres.NewUserRepository(db)
		doctorRepo = postgres.NewDoctorRepository(db)
		appointmentRepo = postgres.NewAppointmentRepository(db)
		checker = postgres.NewChecker(db)
	default:
		store := memory.NewStore()
		if cfg.Storage.Seed {
			if err := store.Seed(hasher); err != nil {
				log.Fatal().Err(err).Msg("failed to seed demo data")
			}
			log.Info().Msg("seeded demo doctors")
		}
		userRepo = memory.NewUserRepository(store)
		doctorRepo = memory.NewDoctorRepository(store)
		appointmentRepo = memory.NewAppointmentRepository(store)
		checker = store
	}

	// Domain events go to Redis when configured, nowhere otherwise.
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.Redis.URL != "" {
		broker, err := redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
		publisher = messaging.NewEventPublisher(broker, "appointments")
	}

	notifier := notification.NewNoop()
	if cfg.SMTP.Host != "" {
		notifier = notification.NewEmailService(cfg.SMTP)
	}

	doctorSvc := doctorService.NewService(doctorRepo, userRepo)
	authSvc := authService.NewService(userRepo, doctorSvc, hasher, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, notifier, publisher, m)

	r := router.NewRouter(
		router.Config{
			RateLimitRPS:   rateLimitRPS(cfg),
			RateLimitBurst: cfg.RateLimit.Burst,
			CORS:           corsConfig(cfg),
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsPath:    cfg.Metrics.Path,
		},
		m,
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		healthHandler.NewHandler(checker),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RPS
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return c
}
