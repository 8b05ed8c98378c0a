package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// RedisConfig holds redis configuration
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	BlockTimeTTL time.Duration `mapstructure:"block_time_ttl"`
}

// TemporalConfig holds Temporal configuration
type TemporalConfig struct {
	HostPort                           string  `mapstructure:"host_port"`
	Namespace                          string  `mapstructure:"namespace"`
	TaskQueue                          string  `mapstructure:"task_queue"`
	MaxConcurrentActivityExecutionSize int     `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64 `mapstructure:"worker_activities_per_second"`
}

// RetryConfig holds the retry policy applied by a provider client
type RetryConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxRetries      uint64        `mapstructure:"max_retries"`
}

// ProviderConfig holds the connection settings of one upstream data provider
type ProviderConfig struct {
	URL               string        `mapstructure:"url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retry             RetryConfig   `mapstructure:"retry"`
}

// ProvidersConfig holds all upstream provider configurations
type ProvidersConfig struct {
	Alchemy   ProviderConfig `mapstructure:"alchemy"`
	Etherscan ProviderConfig `mapstructure:"etherscan"`
	OpenSea   ProviderConfig `mapstructure:"opensea"`
	// Community metrics; a provider without an api key is skipped
	DappRadar ProviderConfig `mapstructure:"dappradar"`
	Twitter   ProviderConfig `mapstructure:"twitter"`
	Discord   ProviderConfig `mapstructure:"discord"`
}

// IngestionConfig holds ingestion unit tuning
type IngestionConfig struct {
	PageSize          int      `mapstructure:"page_size"`
	RecordBudget      int      `mapstructure:"record_budget"`
	Concurrency       int      `mapstructure:"concurrency"`
	QueueSize         int      `mapstructure:"queue_size"`
	CursorDir         string   `mapstructure:"cursor_dir"`
	PricingCurrencies []string `mapstructure:"pricing_currencies"`
	EnrichBatchSize   int      `mapstructure:"enrich_batch_size"`
}

// WorkflowsConfig holds the Temporal workflow tuning of the worker
type WorkflowsConfig struct {
	SyncActivityTimeout time.Duration `mapstructure:"sync_activity_timeout"`
	ROIActivityTimeout  time.Duration `mapstructure:"roi_activity_timeout"`
	MaxActivityAttempts int32         `mapstructure:"max_activity_attempts"`
	EnrichAfterSync     bool          `mapstructure:"enrich_after_sync"`
	// RefreshCron schedules RefreshGame per game; empty disables scheduling
	RefreshCron string `mapstructure:"refresh_cron"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// WorkerConfig holds configuration for the temporal worker
type WorkerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Temporal   TemporalConfig  `mapstructure:"temporal"`
	Providers  ProvidersConfig `mapstructure:"providers"`
	Ingestion  IngestionConfig `mapstructure:"ingestion"`
	Workflows  WorkflowsConfig `mapstructure:"workflows"`
	GamesPath  string          `mapstructure:"games_path"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	GamesPath  string         `mapstructure:"games_path"`
}

// CLIConfig holds configuration for the operator CLI
type CLIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Temporal   TemporalConfig  `mapstructure:"temporal"`
	Providers  ProvidersConfig `mapstructure:"providers"`
	Ingestion  IngestionConfig `mapstructure:"ingestion"`
	Workflows  WorkflowsConfig `mapstructure:"workflows"`
	GamesPath  string          `mapstructure:"games_path"`
}

// LoadWorkerConfig loads configuration for the worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	setDatabaseDefaults(v)
	setPipelineDefaults(v)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "roi-indexer")
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 20)
	v.SetDefault("temporal.worker_activities_per_second", 50)
	setWorkflowDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("games_path", "config/games.json")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for the operator CLI
func LoadCLIConfig(configFile string, envPath string) (*CLIConfig, error) {
	v := configureViper("roictl", configFile, envPath)

	setDatabaseDefaults(v)
	setPipelineDefaults(v)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "roi-indexer")
	setWorkflowDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.migrations_path", "db/migrations")
}

var providerNames = []string{"alchemy", "etherscan", "opensea", "dappradar", "twitter", "discord"}

func setPipelineDefaults(v *viper.Viper) {
	v.SetDefault("games_path", "config/games.json")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.block_time_ttl", "720h")

	v.SetDefault("providers.alchemy.url", "https://%s.g.alchemy.com")
	v.SetDefault("providers.alchemy.requests_per_second", 10)
	v.SetDefault("providers.etherscan.url", "https://api.etherscan.io/api")
	v.SetDefault("providers.etherscan.requests_per_second", 4)
	v.SetDefault("providers.opensea.url", "https://api.opensea.io/api/v2")
	v.SetDefault("providers.opensea.requests_per_second", 2)
	v.SetDefault("providers.dappradar.url", "https://apis.dappradar.com/v2")
	v.SetDefault("providers.dappradar.requests_per_second", 1)
	v.SetDefault("providers.twitter.url", "https://api.twitter.com/2")
	v.SetDefault("providers.twitter.requests_per_second", 1)
	v.SetDefault("providers.discord.url", "https://discord.com/api/v10")
	v.SetDefault("providers.discord.requests_per_second", 1)
	for _, p := range providerNames {
		v.SetDefault("providers."+p+".timeout", "30s")
		v.SetDefault("providers."+p+".retry.initial_interval", "2s")
		v.SetDefault("providers."+p+".retry.max_interval", "30s")
		v.SetDefault("providers."+p+".retry.max_elapsed_time", "2m")
		v.SetDefault("providers."+p+".retry.multiplier", 2.0)
		v.SetDefault("providers."+p+".retry.max_retries", 8)
	}

	v.SetDefault("ingestion.page_size", 100)
	v.SetDefault("ingestion.record_budget", 0)
	v.SetDefault("ingestion.concurrency", 8)
	v.SetDefault("ingestion.queue_size", 256)
	v.SetDefault("ingestion.cursor_dir", "data/next_page")
	v.SetDefault("ingestion.pricing_currencies", []string{"ETH", "WETH"})
	v.SetDefault("ingestion.enrich_batch_size", 50)
}

func setWorkflowDefaults(v *viper.Viper) {
	v.SetDefault("workflows.sync_activity_timeout", "2h")
	v.SetDefault("workflows.roi_activity_timeout", "10m")
	v.SetDefault("workflows.max_activity_attempts", 3)
	v.SetDefault("workflows.enrich_after_sync", true)
	v.SetDefault("workflows.refresh_cron", "0 */6 * * *")
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("ROI_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		"games_path",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.migrations_path",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.block_time_ttl",
		// Temporal
		"temporal.host_port",
		"temporal.namespace",
		"temporal.task_queue",
		"temporal.max_concurrent_activity_execution_size",
		"temporal.worker_activities_per_second",
		// Ingestion
		"ingestion.page_size",
		"ingestion.record_budget",
		"ingestion.concurrency",
		"ingestion.queue_size",
		"ingestion.cursor_dir",
		"ingestion.pricing_currencies",
		"ingestion.enrich_batch_size",
		// Workflows
		"workflows.sync_activity_timeout",
		"workflows.roi_activity_timeout",
		"workflows.max_activity_attempts",
		"workflows.enrich_after_sync",
		"workflows.refresh_cron",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allow_origins",
	}
	for _, p := range providerNames {
		keys = append(keys,
			"providers."+p+".url",
			"providers."+p+".api_key",
			"providers."+p+".requests_per_second",
			"providers."+p+".burst",
			"providers."+p+".timeout",
		)
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the database connection URL used by the migrator
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}
