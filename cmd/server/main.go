package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"rokthona/internal/audit"
	bloghandler "rokthona/internal/blog/handler"
	blogservice "rokthona/internal/blog/service"
	blogstore "rokthona/internal/blog/store"
	donationhandler "rokthona/internal/donation/handler"
	donationservice "rokthona/internal/donation/service"
	donationstore "rokthona/internal/donation/store"
	"rokthona/internal/funding/gateway"
	fundinghandler "rokthona/internal/funding/handler"
	fundingservice "rokthona/internal/funding/service"
	fundingstore "rokthona/internal/funding/store"
	geohandler "rokthona/internal/geo/handler"
	geoservice "rokthona/internal/geo/service"
	geostore "rokthona/internal/geo/store"
	"rokthona/internal/identity"
	"rokthona/internal/platform/config"
	"rokthona/internal/platform/database"
	"rokthona/internal/platform/httpserver"
	"rokthona/internal/platform/logger"
	"rokthona/internal/platform/metrics"
	"rokthona/internal/platform/middleware"
	platformredis "rokthona/internal/platform/redis"
	statshandler "rokthona/internal/stats/handler"
	statsservice "rokthona/internal/stats/service"
	httptransport "rokthona/internal/transport/http"
	userhandler "rokthona/internal/user/handler"
	userservice "rokthona/internal/user/service"
	userstore "rokthona/internal/user/store"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Claim store backing the identity provider. Redis in deployment,
	// process memory in development.
	var claims identity.ClaimStore = identity.NewMemoryClaimStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		claims = identity.NewRedisClaimStore(redisClient.Client)
	}

	var auditor audit.Publisher = audit.NewLogPublisher(log)
	if len(cfg.KafkaSeeds) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaSeeds, cfg.AuditTopic, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close(context.Background())
		auditor = kafka
	}

	m := metrics.New()
	idService := identity.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, claims)

	users := userservice.New(userstore.NewPostgres(db), idService, auditor, m)
	donations := donationservice.New(donationstore.NewPostgres(db), auditor, m)
	blogs := blogservice.New(blogstore.NewPostgres(db), auditor)
	geo := geoservice.New(geostore.NewPostgres(db), auditor)

	fundStore := fundingstore.NewPostgres(db)
	var payments gateway.PaymentGateway
	if cfg.StripeSecretKey != "" {
		payments, err = gateway.NewStripe(gateway.StripeOptions{SecretKey: cfg.StripeSecretKey})
		if err != nil {
			log.Error("failed to configure stripe", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
		payments = gateway.Disabled{}
	}
	funding := fundingservice.New(fundStore, payments, auditor)

	stats := statsservice.New(users, donations, funding)
	guards := middleware.NewGuards(idService, users, log, m)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   m,
		Guards:    guards,
		Users:     userhandler.New(users, log),
		Donations: donationhandler.New(donations, log),
		Blogs:     bloghandler.New(blogs, log),
		Geo:       geohandler.New(geo, log),
		Funding:   fundinghandler.New(funding, log),
		Stats:     statshandler.New(stats, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
