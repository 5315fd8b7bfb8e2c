package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendDB     = "database"
)

type Config struct {
	Port    string `mapstructure:"port"`
	LogMode string `mapstructure:"log_mode"`

	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Otel     OtelConfig     `mapstructure:"otel"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type StorageConfig struct {
	// Backend is "memory" or "database".
	Backend string `mapstructure:"backend"`
	// Seed loads fixtures into an empty database on startup.
	Seed bool `mapstructure:"seed"`
}

type PostgresConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	// Addr empty means realtime events stay in process.
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	Cookie string        `mapstructure:"cookie"`
	TTL    time.Duration `mapstructure:"ttl"`
	Secure bool          `mapstructure:"secure"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// env names bound to config keys; the names predate the yaml layout and stay flat.
var envBindings = map[string]string{
	"port":                 "PORT",
	"log_mode":             "LOG_MODE",
	"storage.backend":      "STORAGE_BACKEND",
	"storage.seed":         "STORAGE_SEED",
	"postgres.driver":      "DB_DRIVER",
	"postgres.dsn":         "DB_DSN",
	"postgres.host":        "POSTGRES_HOST",
	"postgres.port":        "POSTGRES_PORT",
	"postgres.user":        "POSTGRES_USER",
	"postgres.password":    "POSTGRES_PASSWORD",
	"postgres.name":        "POSTGRES_NAME",
	"redis.addr":           "REDIS_ADDR",
	"redis.channel":        "REDIS_CHANNEL",
	"session.secret":       "SESSION_SECRET",
	"session.cookie":       "SESSION_COOKIE",
	"session.ttl":          "SESSION_TTL",
	"session.secure":       "SESSION_SECURE",
	"cors.allowed_origins": "CORS_ALLOWED_ORIGINS",
	"otel.enabled":         "OTEL_ENABLED",
	"otel.service_name":    "OTEL_SERVICE_NAME",
	"otel.environment":     "OTEL_ENVIRONMENT",
	"otel.endpoint":        "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otel.headers":         "OTEL_EXPORTER_OTLP_HEADERS",
	"otel.insecure":        "OTEL_EXPORTER_OTLP_INSECURE",
	"otel.sample_ratio":    "OTEL_SAMPLE_RATIO",
	"metrics.enabled":      "METRICS_ENABLED",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_mode", "development")
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.seed", true)
	v.SetDefault("postgres.driver", "postgres")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.name", "botanica")
	v.SetDefault("redis.channel", "botanica:realtime")
	v.SetDefault("session.secret", "botanica-dev-secret")
	v.SetDefault("session.cookie", "botanica_session")
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("otel.service_name", "botanica")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("metrics.enabled", true)
}

type loadOptions struct {
	paths   []string
	envFile string
}

type Option func(*loadOptions)

// WithConfigPaths replaces the directories searched for config.yaml.
func WithConfigPaths(paths ...string) Option {
	return func(o *loadOptions) { o.paths = paths }
}

// WithEnvFile loads the given dotenv file instead of ./.env.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// Load layers defaults, an optional config.yaml and the environment, in that order.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{paths: []string{".", "./deploy", "/etc/botanica"}, envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range o.paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendMemory, BackendDB:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("session secret required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("otel sample ratio must be within [0,1]")
	}
	return nil
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// splitList flattens comma separated entries so env values and yaml lists read the same.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
