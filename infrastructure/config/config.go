// Package config loads service configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"fmt"
	"time"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
	DriverS3       = "s3"
)

// Auth verifiers.
const (
	VerifierNone     = "none"
	VerifierJWT      = "jwt"
	VerifierSupabase = "supabase"
)

type Config struct {
	Environment   Environment     `yaml:"environment"`
	PublicBaseURL string          `yaml:"public_base_url"`
	Server        ServerConfig    `yaml:"server"`
	Store         StoreConfig     `yaml:"store"`
	AWS           AWSConfig       `yaml:"aws"`
	Events        EventsConfig    `yaml:"events"`
	Auth          AuthConfig      `yaml:"auth"`
	CORS          CORSConfig      `yaml:"cors"`
	Logging       LoggingConfig   `yaml:"logging"`
	Features      FeaturesConfig  `yaml:"features"`
	Tracing       TracingConfig   `yaml:"tracing"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
	Editor        EditorConfig    `yaml:"editor"`

	// path is the YAML file this config was read from, if any.
	path string
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver      string         `yaml:"driver"`
	Timeout     time.Duration  `yaml:"timeout"`
	Bootstrap   bool           `yaml:"bootstrap"`
	DatabaseURL string         `yaml:"database_url"`
	SQLitePath  string         `yaml:"sqlite_path"`
	Supabase    SupabaseConfig `yaml:"supabase"`
	DynamoDB    DynamoDBConfig `yaml:"dynamodb"`
	S3          S3Config       `yaml:"s3"`
	Breaker     BreakerConfig  `yaml:"breaker"`
}

type SupabaseConfig struct {
	URL          string `yaml:"url"`
	Key          string `yaml:"key"`
	IdeaMapTable string `yaml:"idea_map_table"`
	SnippetTable string `yaml:"snippet_table"`
	NoteTable    string `yaml:"note_table"`
}

type DynamoDBConfig struct {
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

type EventsConfig struct {
	BusName string `yaml:"bus_name"`
	Source  string `yaml:"source"`
}

type AuthConfig struct {
	Verifier  string `yaml:"verifier"`
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type FeaturesConfig struct {
	EnableMetrics        bool `yaml:"enable_metrics"`
	EnableTracing        bool `yaml:"enable_tracing"`
	EnableEvents         bool `yaml:"enable_events"`
	EnableRateLimit      bool `yaml:"enable_rate_limit"`
	EnableCircuitBreaker bool `yaml:"enable_circuit_breaker"`
}

type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type EditorConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSessions int           `yaml:"max_sessions"`
	NoticeTTL   time.Duration `yaml:"notice_ttl"`
}

// Defaults returns the configuration used before any file or variable is applied.
func Defaults() *Config {
	return &Config{
		Environment:   Development,
		PublicBaseURL: "http://localhost:3000",
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Driver:     DriverMemory,
			Timeout:    10 * time.Second,
			SQLitePath: "devdash.db",
			Supabase: SupabaseConfig{
				IdeaMapTable: "idea_maps",
				SnippetTable: "snippets",
				NoteTable:    "notes",
			},
			DynamoDB: DynamoDBConfig{Table: "devdash-idea-maps"},
			S3:       S3Config{Key: "idea-map.json"},
			Breaker: BreakerConfig{
				MaxRequests:      3,
				Interval:         60 * time.Second,
				Timeout:          30 * time.Second,
				FailureThreshold: 0.6,
				MinRequests:      5,
			},
		},
		AWS:    AWSConfig{Region: "us-west-2"},
		Events: EventsConfig{BusName: "devdash-events", Source: "devdash.backend"},
		Auth:   AuthConfig{Verifier: VerifierNone, JWTIssuer: "supabase"},
		CORS:   CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Features: FeaturesConfig{EnableMetrics: true, EnableRateLimit: true},
		Tracing:  TracingConfig{Endpoint: "localhost:4317", ServiceName: "devdash-backend", SampleRate: 1.0},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Editor: EditorConfig{
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 100,
			NoticeTTL:   3 * time.Second,
		},
	}
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverSupabase:
		if c.Store.Supabase.URL == "" || c.Store.Supabase.Key == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverDynamoDB:
		if c.Store.DynamoDB.Table == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb driver")
		}
	case DriverS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Auth.Verifier {
	case VerifierNone:
		if c.IsProduction() {
			return fmt.Errorf("an auth verifier is required in production")
		}
	case VerifierJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the jwt verifier")
		}
	case VerifierSupabase:
		if c.Store.Supabase.URL == "" || c.Store.Supabase.Key == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase verifier")
		}
	default:
		return fmt.Errorf("unknown auth verifier %q", c.Auth.Verifier)
	}

	if c.IsProduction() && c.Store.Driver == DriverMemory {
		return fmt.Errorf("the memory store driver is not allowed in production")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Environment == Development }

func (c *Config) IsProduction() bool { return c.Environment == Production }

// Path is the YAML file the config was read from, empty if none.
func (c *Config) Path() string { return c.path }
