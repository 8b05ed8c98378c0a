package temporal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/playrank/nft-roi-indexer/internal/config"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
)

// Workflow type names registered by the worker
const (
	WorkflowSyncGame       = "SyncGame"
	WorkflowComputeGameROI = "ComputeGameROI"
	WorkflowRefreshGame    = "RefreshGame"
)

//go:generate mockgen -source=starter.go -destination=../../mocks/temporal_orchestrator.go -package=mocks -mock_names=TemporalOrchestrator=MockTemporalOrchestrator
type TemporalOrchestrator interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Dial connects to the Temporal frontend, logging through the service logger
func Dial(cfg config.TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to temporal: %w", err)
	}
	return c, nil
}

// Starter starts the indexer workflows on the worker task queue
type Starter struct {
	orchestrator TemporalOrchestrator
	taskQueue    string
}

// NewStarter creates a workflow starter
func NewStarter(orchestrator TemporalOrchestrator, taskQueue string) *Starter {
	return &Starter{orchestrator: orchestrator, taskQueue: taskQueue}
}

// SyncGame starts a one-off sync of a game. An empty entity list syncs every feed.
func (s *Starter) SyncGame(ctx context.Context, gameID string, entities []domain.EntityType) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("sync-game-%s-%s", gameID, uuid.NewString()),
		TaskQueue: s.taskQueue,
	}
	run, err := s.orchestrator.ExecuteWorkflow(ctx, options, WorkflowSyncGame, gameID, entities)
	if err != nil {
		return nil, fmt.Errorf("failed to start sync of game %s: %w", gameID, err)
	}
	return run, nil
}

// ComputeGameROI starts a one-off ROI computation of a game
func (s *Starter) ComputeGameROI(ctx context.Context, gameID string) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("compute-roi-%s-%s", gameID, uuid.NewString()),
		TaskQueue: s.taskQueue,
	}
	run, err := s.orchestrator.ExecuteWorkflow(ctx, options, WorkflowComputeGameROI, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to start roi computation of game %s: %w", gameID, err)
	}
	return run, nil
}

// ScheduleRefresh starts the cron workflow refreshing a game. The workflow id is
// stable per game, so an already running schedule is returned as is.
func (s *Starter) ScheduleRefresh(ctx context.Context, gameID string, cron string) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:           fmt.Sprintf("refresh-game-%s", gameID),
		TaskQueue:    s.taskQueue,
		CronSchedule: cron,
	}
	run, err := s.orchestrator.ExecuteWorkflow(ctx, options, WorkflowRefreshGame, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh of game %s: %w", gameID, err)
	}
	return run, nil
}
