package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean and tests can construct configs directly.
type Server struct {
	Addr              string
	JWTSigningKey     string
	TokenTTL          time.Duration
	PolicyDatasetPath string
	RetentionMinDays  int
	Redis             Redis
}

// Redis holds the optional Redis connection settings. An empty URL means the
// in-memory response store is used instead.
type Redis struct {
	URL         string
	ResponseTTL time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("PEOPLEDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	datasetPath := os.Getenv("POLICY_DATASET_PATH")
	if datasetPath == "" {
		datasetPath = "data/hr_policies.json"
	}

	return Server{
		Addr:              addr,
		JWTSigningKey:     jwtSigningKey,
		TokenTTL:          envDuration("TOKEN_TTL", 120*time.Minute),
		PolicyDatasetPath: datasetPath,
		RetentionMinDays:  envInt("RETENTION_MIN_DAYS", 30),
		Redis: Redis{
			URL:         os.Getenv("REDIS_URL"),
			ResponseTTL: envDuration("RESPONSE_TTL", 24*time.Hour),
		},
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
