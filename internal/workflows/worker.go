package workflows

import (
	"slices"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/ingest"
	"github.com/playrank/nft-roi-indexer/internal/roi"
)

// WorkerCore defines the workflows that keep the ROI datasets of games fresh
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker_core.go -package=mocks -mock_names=WorkerCore=MockWorkerCore
type WorkerCore interface {
	// SyncGame ingests every collection and reward token of a game
	SyncGame(ctx workflow.Context, gameID string, entities []domain.EntityType) (*SyncReport, error)

	// SyncCollection ingests the feeds of one collection of a game
	SyncCollection(ctx workflow.Context, gameID string, slug string, entities []domain.EntityType) (*SyncReport, error)

	// ComputeGameROI appends ROI snapshots for every collection of a game
	ComputeGameROI(ctx workflow.Context, gameID string) (*ROIReport, error)

	// RefreshGame syncs a game and recomputes its ROI. It is the workflow scheduled per game.
	RefreshGame(ctx workflow.Context, gameID string) error
}

type WorkerCoreConfig struct {
	// SyncActivityTimeout bounds one collection or reward token sync
	SyncActivityTimeout time.Duration
	// ROIActivityTimeout bounds one collection ROI computation
	ROIActivityTimeout time.Duration
	// MaxActivityAttempts is the retry budget of every activity
	MaxActivityAttempts int32
	// EnrichAfterSync runs trait enrichment once the NFT feed of a collection is synced
	EnrichAfterSync bool
}

// StageFailure records a stage of a workflow that failed without stopping the others
type StageFailure struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// SyncReport summarizes a sync workflow
type SyncReport struct {
	GameID   string          `json:"game_id"`
	Units    []ingest.Result `json:"units"`
	Failures []StageFailure  `json:"failures,omitempty"`
}

// ROIReport summarizes a ROI workflow
type ROIReport struct {
	GameID      string                  `json:"game_id"`
	Collections []roi.CollectionOutcome `json:"collections"`
	Failures    []StageFailure          `json:"failures,omitempty"`
}

// workerCore is the concrete implementation of WorkerCore
type workerCore struct {
	config   WorkerCoreConfig
	executor Executor
}

// NewWorkerCore creates a new worker core instance
func NewWorkerCore(executor Executor, config WorkerCoreConfig) WorkerCore {
	if config.SyncActivityTimeout <= 0 {
		config.SyncActivityTimeout = 2 * time.Hour
	}
	if config.ROIActivityTimeout <= 0 {
		config.ROIActivityTimeout = 10 * time.Minute
	}
	if config.MaxActivityAttempts <= 0 {
		config.MaxActivityAttempts = 3
	}
	return &workerCore{
		executor: executor,
		config:   config,
	}
}

// wants reports whether an entity filter selects the entity; an empty filter selects all
func wants(entities []domain.EntityType, entity domain.EntityType) bool {
	return len(entities) == 0 || slices.Contains(entities, entity)
}

// collectionEntities drops the game level entities from a filter. ok is false
// when the filter selects no collection level entity at all.
func collectionEntities(entities []domain.EntityType) (filtered []domain.EntityType, ok bool) {
	if len(entities) == 0 {
		return nil, true
	}
	for _, e := range entities {
		if e != domain.EntityERC20Transfer {
			filtered = append(filtered, e)
		}
	}
	return filtered, len(filtered) > 0
}
