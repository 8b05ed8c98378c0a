package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/ingest"
	"github.com/playrank/nft-roi-indexer/internal/registry"
	"github.com/playrank/nft-roi-indexer/internal/roi"
)

// Executor defines the interface for executing activities
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor.go -package=mocks -mock_names=Executor=MockExecutor
type Executor interface {
	// GetGame returns the registry entry of a game
	GetGame(ctx context.Context, gameID string) (*domain.Game, error)

	// SyncCollection ingests the feeds of one collection of a game
	SyncCollection(ctx context.Context, gameID string, slug string, entities []domain.EntityType) ([]ingest.Result, error)

	// SyncRewardTransfers ingests the reward token transfers of a game
	SyncRewardTransfers(ctx context.Context, gameID string) ([]ingest.Result, error)

	// EnrichCollection fetches traits for the NFTs of a collection still waiting for them
	EnrichCollection(ctx context.Context, slug string) (*ingest.Result, error)

	// ComputeCollectionROI appends ROI snapshots for one collection of a game
	ComputeCollectionROI(ctx context.Context, gameID string, slug string) (*roi.CollectionOutcome, error)
}

// executor is the concrete implementation of Executor
type executor struct {
	pipeline *ingest.Pipeline
	engine   *roi.Engine
	games    registry.GameRegistry
}

// NewExecutor creates a new executor instance
func NewExecutor(pipeline *ingest.Pipeline, engine *roi.Engine, games registry.GameRegistry) Executor {
	return &executor{
		pipeline: pipeline,
		engine:   engine,
		games:    games,
	}
}

// GetGame returns the registry entry of a game. An unknown game is not retried.
func (e *executor) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := e.games.Get(gameID)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unknown game: %s", gameID), "UnknownGame", err)
	}
	return &game, nil
}

// SyncCollection ingests the feeds of one collection of a game. The reward token
// entity is ignored here since it belongs to the game.
func (e *executor) SyncCollection(ctx context.Context, gameID string, slug string, entities []domain.EntityType) ([]ingest.Result, error) {
	game, err := e.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	results, err := e.pipeline.SyncCollection(ctx, slug, game, entities)
	if err != nil {
		return results, fmt.Errorf("failed to sync collection %s: %w", slug, err)
	}
	return results, nil
}

// SyncRewardTransfers ingests the reward token transfers of a game
func (e *executor) SyncRewardTransfers(ctx context.Context, gameID string) ([]ingest.Result, error) {
	results, err := e.pipeline.SyncRewards(ctx, gameID)
	if err != nil {
		return results, fmt.Errorf("failed to sync reward transfers of %s: %w", gameID, err)
	}
	return results, nil
}

// EnrichCollection fetches traits for the NFTs of a collection still waiting for them
func (e *executor) EnrichCollection(ctx context.Context, slug string) (*ingest.Result, error) {
	result, err := e.pipeline.Enrich(ctx, slug)
	if err != nil {
		return &result, fmt.Errorf("failed to enrich collection %s: %w", slug, err)
	}
	return &result, nil
}

// ComputeCollectionROI appends ROI snapshots for one collection of a game
func (e *executor) ComputeCollectionROI(ctx context.Context, gameID string, slug string) (*roi.CollectionOutcome, error) {
	game, err := e.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	outcome, err := e.engine.ComputeCollection(ctx, slug, *game)
	if err != nil {
		return nil, fmt.Errorf("failed to compute roi of %s: %w", slug, err)
	}
	return &outcome, nil
}
