package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds the trigger server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// RunCommand is the executable spawned for POST /run.
	RunCommand        string        `mapstructure:"run_command"`
	RunTimeout        time.Duration `mapstructure:"run_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// StoreConfig selects and configures the remote datastore
type StoreConfig struct {
	Driver      string       `mapstructure:"driver"` // rest, postgres or memory
	URL         string       `mapstructure:"url"`
	APIKey      string       `mapstructure:"api_key"`
	DatabaseURL string       `mapstructure:"database_url"`
	MaxConns    int          `mapstructure:"max_connections"`
	Tables      TablesConfig `mapstructure:"tables"`
}

// TablesConfig names the collections the ingester reads and writes
type TablesConfig struct {
	Feeds      string `mapstructure:"feeds"`
	Categories string `mapstructure:"categories"`
	Variants   string `mapstructure:"variants"`
}

// IngestConfig holds normalization defaults and run parameters
type IngestConfig struct {
	SourceFeedID      string   `mapstructure:"source_feed_id"`
	DefaultCurrency   string   `mapstructure:"default_currency"`
	GenderTokens      []string `mapstructure:"gender_tokens"`
	ItemsPath         string   `mapstructure:"items_path"`
	UpsertConcurrency int      `mapstructure:"upsert_concurrency"`
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialBackoffMs  int           `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int           `mapstructure:"max_backoff_ms"`
}

// StorageConfig holds raw feed archive configuration
type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig holds OpenTelemetry exporter configuration
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional; existing environment variables win
	_ = godotenv.Load()

	v.SetEnvPrefix("CATALOG")
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars binds the environment variables the original deployment used
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("store.url", "SUPABASE_URL")
	v.BindEnv("store.api_key", "SUPABASE_SERVICE_ROLE_KEY")
	v.BindEnv("store.database_url", "DATABASE_URL")
	v.BindEnv("store.driver", "STORE_DRIVER")

	v.BindEnv("ingest.source_feed_id", "SOURCE_FEED_ID")
	v.BindEnv("ingest.default_currency", "DEFAULT_CURRENCY")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.run_command", "RUN_COMMAND")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("storage.base_path", "STORAGE_PATH")

	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.service_name", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.environment", "ENVIRONMENT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Minute)
	v.SetDefault("server.run_command", "catalog-service")
	v.SetDefault("server.run_timeout", 10*time.Minute)
	v.SetDefault("server.requests_per_second", 5)
	v.SetDefault("server.burst", 10)

	v.SetDefault("store.driver", "rest")
	v.SetDefault("store.max_connections", 4)
	v.SetDefault("store.tables.feeds", "retailer_product_feeds")
	v.SetDefault("store.tables.categories", "raw_category_subcategory_map")
	v.SetDefault("store.tables.variants", "product_variants")

	v.SetDefault("ingest.default_currency", "NOK")
	v.SetDefault("ingest.items_path", "productFeed.product")
	v.SetDefault("ingest.upsert_concurrency", 1)

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.requests_per_second", 10)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.initial_backoff_ms", 100)
	v.SetDefault("http.max_backoff_ms", 30000)

	v.SetDefault("storage.base_path", "./data/feeds")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("telemetry.service_name", "catalog-service")
	v.SetDefault("telemetry.environment", "production")
}
