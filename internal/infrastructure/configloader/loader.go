package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"pool_monitor/internal/pkg/tracing"
)

// EnvPrefix prefixes every environment override, e.g. POOLMON_SERVER_PORT.
const EnvPrefix = "POOLMON"

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"PORT"`
	ReadTimeout  int    `yaml:"readTimeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int    `yaml:"writeTimeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idleTimeout" envconfig:"IDLE_TIMEOUT"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout int `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// Pprof exposes /debug/pprof. Keep it off on public hosts.
	Pprof bool `yaml:"pprof" envconfig:"PPROF"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json or console
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	Path    string `yaml:"path" envconfig:"PATH"`
}

// CoinGeckoConfig holds the configuration for the CoinGecko client.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL" envconfig:"BASE_URL"`
	APIKey               string `yaml:"apiKey" envconfig:"API_KEY"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis" envconfig:"REQUEST_TIMEOUT_MILLIS"`
}

// PriceServiceConfig holds configuration for the coin price cache.
type PriceServiceConfig struct {
	Enabled               *bool  `yaml:"enabled" envconfig:"ENABLED"`
	VsCurrency            string `yaml:"vsCurrency" envconfig:"VS_CURRENCY"`
	CacheTTLMinutes       int    `yaml:"cacheTTLMinutes" envconfig:"CACHE_TTL_MINUTES"`
	RefreshMinutes        int    `yaml:"refreshMinutes" envconfig:"REFRESH_MINUTES"`
	MaxIDsPerBatchRequest int    `yaml:"maxIdsPerBatchRequest" envconfig:"MAX_IDS_PER_BATCH_REQUEST"`
	MaxConcurrentRequests int    `yaml:"maxConcurrentRequests" envconfig:"MAX_CONCURRENT_REQUESTS"`
}

// PoolClientConfig configures the shared pool HTTP client.
type PoolClientConfig struct {
	TimeoutMillis     int64   `yaml:"timeoutMillis" envconfig:"TIMEOUT_MILLIS"`
	UserAgent         string  `yaml:"userAgent" envconfig:"USER_AGENT"`
	// RequestsPerSecond defaults to 5 when unset. A negative value disables limiting.
	RequestsPerSecond float64 `yaml:"requestsPerSecond" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int     `yaml:"burst" envconfig:"BURST"`
}

// PoolConfig overrides per-pool defaults.
type PoolConfig struct {
	StaleAfterMinutes int `yaml:"staleAfterMinutes"`
}

// CoordinatorConfig tunes the refresh coordinator.
type CoordinatorConfig struct {
	MaxConcurrentFetches   int `yaml:"maxConcurrentFetches" envconfig:"MAX_CONCURRENT_FETCHES"`
	StuckTimeoutMinutes    int `yaml:"stuckTimeoutMinutes" envconfig:"STUCK_TIMEOUT_MINUTES"`
	WalletTimeoutSeconds   int `yaml:"walletTimeoutSeconds" envconfig:"WALLET_TIMEOUT_SECONDS"`
	DefaultIntervalMinutes int `yaml:"defaultIntervalMinutes" envconfig:"DEFAULT_INTERVAL_MINUTES"`
}

// SettingsConfig locates the user's wallet settings file.
type SettingsConfig struct {
	Path                 string `yaml:"path" envconfig:"PATH"`
	WatchIntervalSeconds int    `yaml:"watchIntervalSeconds" envconfig:"WATCH_INTERVAL_SECONDS"`
}

// OtelConfig configures trace export.
type OtelConfig struct {
	Exporter           string  `yaml:"exporter" envconfig:"EXPORTER"` // none, stdout or otlp
	Endpoint           string  `yaml:"endpoint" envconfig:"ENDPOINT"`
	SampleRatio        float64 `yaml:"sampleRatio" envconfig:"SAMPLE_RATIO"`
	BatchTimeoutMillis int64   `yaml:"batchTimeoutMillis" envconfig:"BATCH_TIMEOUT_MILLIS"`
	MaxExportBatchSize int     `yaml:"maxExportBatchSize" envconfig:"MAX_EXPORT_BATCH_SIZE"`
	MaxQueueSize       int     `yaml:"maxQueueSize" envconfig:"MAX_QUEUE_SIZE"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server       ServerConfig          `yaml:"server"`
	Logging      LoggingConfig         `yaml:"logging"`
	Swagger      SwaggerConfig         `yaml:"swagger"`
	CoinGecko    CoinGeckoConfig       `yaml:"coingecko"`
	PriceService PriceServiceConfig    `yaml:"priceService"`
	PoolClient   PoolClientConfig      `yaml:"poolClient"`
	Pools        map[string]PoolConfig `yaml:"pools" ignored:"true"`
	Coordinator  CoordinatorConfig     `yaml:"coordinator"`
	Settings     SettingsConfig        `yaml:"settings"`
	Otel         OtelConfig            `yaml:"otel"`
}

// Load reads the YAML file, then the optional .env file, then POOLMON_* overrides, and
// finally fills defaults. A missing config file is not an error: defaults apply.
func Load(path, envFile string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Load: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("envconfig.Process: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}

	if cfg.PriceService.Enabled == nil {
		enabled := true
		cfg.PriceService.Enabled = &enabled
	}
	if cfg.PriceService.VsCurrency == "" {
		cfg.PriceService.VsCurrency = "usd"
	}
	if cfg.PriceService.CacheTTLMinutes <= 0 {
		cfg.PriceService.CacheTTLMinutes = 30
		logrus.Infof("PriceService.CacheTTLMinutes not set, defaulting to %d minutes", cfg.PriceService.CacheTTLMinutes)
	}
	if cfg.PriceService.RefreshMinutes <= 0 {
		cfg.PriceService.RefreshMinutes = 5
	}
	if cfg.PriceService.MaxIDsPerBatchRequest <= 0 {
		cfg.PriceService.MaxIDsPerBatchRequest = 50
	}
	if cfg.PriceService.MaxConcurrentRequests <= 0 {
		cfg.PriceService.MaxConcurrentRequests = 2
	}

	if cfg.PoolClient.TimeoutMillis <= 0 {
		cfg.PoolClient.TimeoutMillis = 8000
		logrus.Infof("PoolClient.TimeoutMillis not set, defaulting to %d ms", cfg.PoolClient.TimeoutMillis)
	}
	if cfg.PoolClient.UserAgent == "" {
		cfg.PoolClient.UserAgent = "pool-monitor/1.0"
	}
	switch {
	case cfg.PoolClient.RequestsPerSecond == 0:
		cfg.PoolClient.RequestsPerSecond = 5
	case cfg.PoolClient.RequestsPerSecond < 0:
		cfg.PoolClient.RequestsPerSecond = 0
		logrus.Infof("PoolClient.RequestsPerSecond is negative, per-host rate limiting disabled")
	}
	if cfg.PoolClient.Burst <= 0 {
		cfg.PoolClient.Burst = 5
	}

	if cfg.Coordinator.MaxConcurrentFetches <= 0 {
		cfg.Coordinator.MaxConcurrentFetches = 8
	}
	if cfg.Coordinator.StuckTimeoutMinutes <= 0 {
		cfg.Coordinator.StuckTimeoutMinutes = 3
	}
	if cfg.Coordinator.WalletTimeoutSeconds <= 0 {
		cfg.Coordinator.WalletTimeoutSeconds = 15
	}
	if cfg.Coordinator.DefaultIntervalMinutes <= 0 {
		cfg.Coordinator.DefaultIntervalMinutes = 5
	}

	if cfg.Settings.Path == "" {
		cfg.Settings.Path = "data/settings.yml"
		logrus.Infof("Settings.Path not set, defaulting to %s", cfg.Settings.Path)
	}
	if cfg.Settings.WatchIntervalSeconds <= 0 {
		cfg.Settings.WatchIntervalSeconds = 5
	}

	cfg.Otel.Exporter = strings.ToLower(strings.TrimSpace(cfg.Otel.Exporter))
	if cfg.Otel.Exporter == "" {
		cfg.Otel.Exporter = "none"
	}
	if cfg.Otel.SampleRatio <= 0 || cfg.Otel.SampleRatio > 1 {
		cfg.Otel.SampleRatio = 1
	}
	if cfg.Otel.BatchTimeoutMillis <= 0 {
		cfg.Otel.BatchTimeoutMillis = 5000
	}
	if cfg.Otel.MaxExportBatchSize <= 0 {
		cfg.Otel.MaxExportBatchSize = 512
	}
	if cfg.Otel.MaxQueueSize <= 0 {
		cfg.Otel.MaxQueueSize = 2048
	}
}

// Validate rejects values no default can repair.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	switch c.Otel.Exporter {
	case "none", "stdout":
	case "otlp":
		if c.Otel.Endpoint == "" {
			return errors.New("otel.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("otel.exporter must be none, stdout or otlp, got %q", c.Otel.Exporter)
	}
	for id, p := range c.Pools {
		if p.StaleAfterMinutes < 0 {
			return fmt.Errorf("pools.%s.staleAfterMinutes must not be negative", id)
		}
	}
	return nil
}

// TracingConfig converts the otel section for tracing.InitTracer.
func (c *Config) TracingConfig(serviceName string) tracing.Config {
	return tracing.Config{
		ServiceName:        serviceName,
		Exporter:           c.Otel.Exporter,
		CollectorEndpoint:  c.Otel.Endpoint,
		BatchTimeout:       time.Duration(c.Otel.BatchTimeoutMillis) * time.Millisecond,
		MaxExportBatchSize: c.Otel.MaxExportBatchSize,
		MaxQueueSize:       c.Otel.MaxQueueSize,
		SampleRatio:        c.Otel.SampleRatio,
	}
}

// PoolTimeout returns the configured pool request timeout. Clamping happens in the client.
func (c *Config) PoolTimeout() time.Duration {
	return time.Duration(c.PoolClient.TimeoutMillis) * time.Millisecond
}

// StaleAfterOverrides returns the per-pool worker staleness overrides.
func (c *Config) StaleAfterOverrides() map[string]time.Duration {
	out := make(map[string]time.Duration, len(c.Pools))
	for id, p := range c.Pools {
		if p.StaleAfterMinutes > 0 {
			out[strings.ToLower(id)] = time.Duration(p.StaleAfterMinutes) * time.Minute
		}
	}
	return out
}

// PriceServiceEnabled reports whether live prices should be fetched.
func (c *Config) PriceServiceEnabled() bool {
	return c.PriceService.Enabled == nil || *c.PriceService.Enabled
}
