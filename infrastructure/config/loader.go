package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration in layers: defaults, then the YAML file at
// path (skipped when path is empty or the file does not exist), then
// environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.path = path
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Environment = Environment(getEnv("ENVIRONMENT", string(c.Environment)))
	c.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.PublicBaseURL)

	c.Server.Address = getEnv("SERVER_ADDRESS", c.Server.Address)
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Address = ":" + port
	}
	c.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Timeout = getEnvDuration("STORE_TIMEOUT", c.Store.Timeout)
	c.Store.Bootstrap = getEnvBool("IDEAMAP_BOOTSTRAP", c.Store.Bootstrap)
	c.Store.DatabaseURL = getEnv("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)
	c.Store.Supabase.URL = getEnv("SUPABASE_URL", c.Store.Supabase.URL)
	c.Store.Supabase.Key = getEnv("SUPABASE_KEY", c.Store.Supabase.Key)
	c.Store.Supabase.IdeaMapTable = getEnv("SUPABASE_IDEA_MAP_TABLE", c.Store.Supabase.IdeaMapTable)
	c.Store.DynamoDB.Table = getEnv("DYNAMODB_TABLE", c.Store.DynamoDB.Table)
	c.Store.DynamoDB.Endpoint = getEnv("DYNAMODB_ENDPOINT", c.Store.DynamoDB.Endpoint)
	c.Store.S3.Bucket = getEnv("S3_BUCKET", c.Store.S3.Bucket)
	c.Store.S3.Key = getEnv("S3_KEY", c.Store.S3.Key)
	c.Store.S3.Endpoint = getEnv("S3_ENDPOINT", c.Store.S3.Endpoint)
	c.Store.S3.PathStyle = getEnvBool("S3_PATH_STYLE", c.Store.S3.PathStyle)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.Events.BusName = getEnv("EVENT_BUS_NAME", c.Events.BusName)

	c.Auth.Verifier = getEnv("AUTH_VERIFIER", c.Auth.Verifier)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWTIssuer = getEnv("JWT_ISSUER", c.Auth.JWTIssuer)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitList(origins)
	}

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)

	c.Features.EnableMetrics = getEnvBool("ENABLE_METRICS", c.Features.EnableMetrics)
	c.Features.EnableTracing = getEnvBool("ENABLE_TRACING", c.Features.EnableTracing)
	c.Features.EnableEvents = getEnvBool("ENABLE_EVENTS", c.Features.EnableEvents)
	c.Features.EnableRateLimit = getEnvBool("ENABLE_RATE_LIMIT", c.Features.EnableRateLimit)
	c.Features.EnableCircuitBreaker = getEnvBool("ENABLE_CIRCUIT_BREAKER", c.Features.EnableCircuitBreaker)
	c.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)

	c.Editor.MaxSessions = getEnvInt("EDITOR_MAX_SESSIONS", c.Editor.MaxSessions)
	c.Editor.IdleTimeout = getEnvDuration("EDITOR_IDLE_TIMEOUT", c.Editor.IdleTimeout)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
