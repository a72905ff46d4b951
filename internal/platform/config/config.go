package config

import (
	"errors"
	"os"
	"strings"
	"time"

	pstrings "rokthona/pkg/platform/strings"
)

// Config captures process-level configuration. Secrets are injected through
// the environment and carry no literal defaults.
type Config struct {
	Addr string
	Env  string

	// DatabaseURL is the Postgres DSN backing the directory, donation,
	// blog, geo and funding stores.
	DatabaseURL string

	// RedisURL points at the identity provider's claim store. Empty means
	// claims are kept in process memory (development only).
	RedisURL string

	// JWTSigningKey signs and verifies bearer tokens.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// StripeSecretKey authorizes payment-intent creation. Empty disables
	// the /create-payment-intent route.
	StripeSecretKey string

	// KafkaSeeds and AuditTopic configure the audit event publisher. Empty
	// seeds fall back to log-only auditing.
	KafkaSeeds []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            getenv("ROKTHONA_ADDR", ":8080"),
		Env:             getenv("ROKTHONA_ENV", "development"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:       getenv("JWT_ISSUER", "rokthona"),
		JWTAudience:     getenv("JWT_AUDIENCE", "rokthona-api"),
		TokenTTL:        time.Hour,
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		AuditTopic:      getenv("AUDIT_TOPIC", "rokthona.audit"),
	}

	if seeds := os.Getenv("KAFKA_SEEDS"); seeds != "" {
		cfg.KafkaSeeds = pstrings.DedupeAndTrim(strings.Split(seeds, ","))
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, errors.New("TOKEN_TTL is not a valid duration")
		}
		cfg.TokenTTL = d
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSigningKey == "" {
		return Config{}, errors.New("JWT_SIGNING_KEY is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
