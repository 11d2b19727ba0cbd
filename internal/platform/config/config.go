package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pstrings "citeguard/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	LogFormat     string
	LogLevel      string
	JWTSigningKey string

	// RegistryPath points at an optional YAML domain registry. Empty means
	// the compiled-in defaults.
	RegistryPath string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	VerdictCacheTTL time.Duration
	LayerTimeout    time.Duration
	URLProbeEnabled bool
}

// RedisConfig holds connection and pool settings for the verdict cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the outcome publisher.
type KafkaConfig struct {
	Brokers      []string
	OutcomeTopic string
}

// Enabled reports whether Kafka publishing is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, v))
			return def
		}
		return n
	}

	cfg := Server{
		Addr:          envOr("CITEGUARD_ADDR", ":8080"),
		LogFormat:     envOr("LOG_FORMAT", "json"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		RegistryPath:  strings.TrimSpace(os.Getenv("DOMAIN_REGISTRY_PATH")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Redis: RedisConfig{
			URL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      pstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			OutcomeTopic: envOr("KAFKA_OUTCOME_TOPIC", "citeguard.verifications"),
		},
		VerdictCacheTTL: duration("VERDICT_CACHE_TTL", 10*time.Minute),
		LayerTimeout:    duration("LAYER_TIMEOUT", 3*time.Second),
		URLProbeEnabled: envOr("URL_PROBE_ENABLED", "true") == "true",
	}

	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
