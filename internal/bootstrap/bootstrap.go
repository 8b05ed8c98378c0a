// Package bootstrap builds the components shared by the worker and the operator
// CLI from their configuration.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/config"
	"github.com/playrank/nft-roi-indexer/internal/ingest"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
	"github.com/playrank/nft-roi-indexer/internal/providers/etherscan"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/providers/social"
	"github.com/playrank/nft-roi-indexer/internal/registry"
	"github.com/playrank/nft-roi-indexer/internal/roi"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

// Settings is the configuration subset the ingestion components need
type Settings struct {
	Database  config.DatabaseConfig
	Redis     config.RedisConfig
	Providers config.ProvidersConfig
	Ingestion config.IngestionConfig
	GamesPath string
}

// Components are the wired ingestion and ROI components
type Components struct {
	DB       *gorm.DB
	Store    store.Store
	Games    registry.GameRegistry
	Clients  ingest.Clients
	Pipeline *ingest.Pipeline
	Engine   *roi.Engine

	runner *ingest.Runner
	redis  adapter.RedisClient
}

// OpenDatabase connects to Postgres with the configured pool limits
func OpenDatabase(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}
	return db, nil
}

// NewHTTPClient creates the HTTP client of one provider with its rate limit and retry policy
func NewHTTPClient(cfg config.ProviderConfig) adapter.HTTPClient {
	return adapter.NewHTTPClient(cfg.Timeout,
		adapter.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		adapter.WithRetryPolicy(adapter.RetryPolicy{
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
			Multiplier:      cfg.Retry.Multiplier,
			MaxRetries:      cfg.Retry.MaxRetries,
		}),
	)
}

// NewSocialClient creates the community metrics client over the DappRadar, Twitter and Discord APIs
func NewSocialClient(p config.ProvidersConfig) social.Client {
	endpoint := func(cfg config.ProviderConfig) social.Endpoint {
		return social.Endpoint{HTTP: NewHTTPClient(cfg), URL: cfg.URL, APIKey: cfg.APIKey}
	}
	return social.NewClient(social.Endpoints{
		DappRadar: endpoint(p.DappRadar),
		Twitter:   endpoint(p.Twitter),
		Discord:   endpoint(p.Discord),
	})
}

// NewComponents wires the store, provider clients, ingestion pipeline and ROI engine
func NewComponents(ctx context.Context, settings Settings, debug bool) (*Components, error) {
	games, err := registry.LoadGames(settings.GamesPath)
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Loaded game registry",
		zap.String("path", settings.GamesPath),
		zap.Strings("games", games.IDs()))

	db, err := OpenDatabase(settings.Database, debug)
	if err != nil {
		return nil, err
	}
	dataStore := store.NewPGStore(db)

	redisClient := adapter.NewRedisClient(settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
	if err := redisClient.Ping(ctx); err != nil {
		// block times are then resolved from alchemy on every lookup
		logger.WarnCtx(ctx, "Redis unavailable, block time cache disabled",
			zap.String("addr", settings.Redis.Addr),
			zap.Error(err))
		redisClient = nil
	}

	p := settings.Providers
	alchemyClient := alchemy.NewClient(NewHTTPClient(p.Alchemy), p.Alchemy.URL, p.Alchemy.APIKey)
	clients := ingest.Clients{
		Alchemy:   alchemyClient,
		Etherscan: etherscan.NewClient(NewHTTPClient(p.Etherscan), p.Etherscan.URL, p.Etherscan.APIKey),
		OpenSea:   opensea.NewClient(NewHTTPClient(p.OpenSea), p.OpenSea.URL, p.OpenSea.APIKey),
		BlockTime: alchemy.NewBlockTimeResolver(alchemyClient, redisClient, settings.Redis.BlockTimeTTL),
	}

	in := settings.Ingestion
	deps := ingest.Deps{
		Store:     dataStore,
		FS:        adapter.NewFileSystem(),
		Clock:     adapter.NewClock(),
		CursorDir: in.CursorDir,
		PageSize:  in.PageSize,
		Budget:    in.RecordBudget,
	}
	runner := ingest.NewRunner(ingest.RunnerConfig{Concurrency: in.Concurrency, QueueSize: in.QueueSize})
	engine := roi.NewEngine(dataStore, games, clients.OpenSea, deps.Clock, upper(in.PricingCurrencies)).
		WithSocial(NewSocialClient(p))

	return &Components{
		DB:       db,
		Store:    dataStore,
		Games:    games,
		Clients:  clients,
		Pipeline: ingest.NewPipeline(deps, clients, games, runner, in.EnrichBatchSize),
		Engine:   engine,
		runner:   runner,
		redis:    redisClient,
	}, nil
}

// Close releases the worker pool and connections
func (c *Components) Close() {
	c.runner.Close()
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if sqlDB, err := c.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func upper(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(strings.TrimSpace(v)))
	}
	return out
}
