package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  string
	KafkaTopic    string
	JWTSigningKey string

	AnalyticsTimeout  time.Duration
	TransitionTimeout time.Duration
	BriefCacheTTL     time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean. A
// .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          getenv("AGORA_ADDR", ":8002"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:    getenv("KAFKA_NOTIFICATION_TOPIC", "petition.status_changed"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		AnalyticsTimeout:  getenvDuration("ANALYTICS_TIMEOUT", 15*time.Second),
		TransitionTimeout: getenvDuration("TRANSITION_TIMEOUT", 10*time.Second),
		BriefCacheTTL:     getenvDuration("BRIEF_CACHE_TTL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
