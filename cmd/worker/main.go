package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/bootstrap"
	"github.com/playrank/nft-roi-indexer/internal/config"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	temporal "github.com/playrank/nft-roi-indexer/internal/providers/temporal"
	"github.com/playrank/nft-roi-indexer/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:       cfg.Debug,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
		Service:     "worker",
		Tags:        map[string]string{"service": "worker"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ROI worker")

	// Wire store, providers, pipeline and engine
	components, err := bootstrap.NewComponents(ctx, bootstrap.Settings{
		Database:  cfg.Database,
		Redis:     cfg.Redis,
		Providers: cfg.Providers,
		Ingestion: cfg.Ingestion,
		GamesPath: cfg.GamesPath,
	}, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	executor := workflows.NewExecutor(components.Pipeline, components.Engine, components.Games)

	// Connect to Temporal
	temporalClient, err := temporal.Dial(cfg.Temporal)
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
	}
	defer temporalClient.Close()
	logger.InfoCtx(ctx, "Connected to Temporal", zap.String("namespace", cfg.Temporal.Namespace))

	// Create Temporal worker
	temporalWorker := worker.New(
		temporalClient,
		cfg.Temporal.TaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			Interceptors:                       []interceptor.WorkerInterceptor{temporal.NewSentryActivityInterceptor()},
		})
	logger.InfoCtx(ctx, "Created Temporal worker", zap.String("task_queue", cfg.Temporal.TaskQueue))

	workerCore := workflows.NewWorkerCore(executor, workflows.WorkerCoreConfig{
		SyncActivityTimeout: cfg.Workflows.SyncActivityTimeout,
		ROIActivityTimeout:  cfg.Workflows.ROIActivityTimeout,
		MaxActivityAttempts: cfg.Workflows.MaxActivityAttempts,
		EnrichAfterSync:     cfg.Workflows.EnrichAfterSync,
	})

	// Register workflows
	temporalWorker.RegisterWorkflow(workerCore.SyncGame)
	temporalWorker.RegisterWorkflow(workerCore.SyncCollection)
	temporalWorker.RegisterWorkflow(workerCore.ComputeGameROI)
	temporalWorker.RegisterWorkflow(workerCore.RefreshGame)
	logger.InfoCtx(ctx, "Registered workflows")

	// Register activities
	temporalWorker.RegisterActivity(executor.GetGame)
	temporalWorker.RegisterActivity(executor.SyncCollection)
	temporalWorker.RegisterActivity(executor.SyncRewardTransfers)
	temporalWorker.RegisterActivity(executor.EnrichCollection)
	temporalWorker.RegisterActivity(executor.ComputeCollectionROI)
	logger.InfoCtx(ctx, "Registered activities")

	if err := temporalWorker.Start(); err != nil {
		logger.Fatal("Failed to start worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Worker started and listening for tasks")

	// Keep one cron refresh per game; an already running schedule is left untouched
	if cfg.Workflows.RefreshCron != "" {
		starter := temporal.NewStarter(temporalClient, cfg.Temporal.TaskQueue)
		for _, gameID := range components.Games.IDs() {
			if _, err := starter.ScheduleRefresh(ctx, gameID, cfg.Workflows.RefreshCron); err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to schedule refresh: %w", err), zap.String("game_id", gameID))
				continue
			}
			logger.InfoCtx(ctx, "Scheduled game refresh",
				zap.String("game_id", gameID),
				zap.String("cron", cfg.Workflows.RefreshCron))
		}
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.InfoCtx(ctx, "Shutting down worker...")
	temporalWorker.Stop()
	logger.InfoCtx(ctx, "Worker stopped")
}
