package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/ingest"
	"github.com/playrank/nft-roi-indexer/internal/logger"
)

// SyncGame ingests every collection of a game through one child workflow per
// collection, then the reward token transfers of the game. A failing collection
// is reported and does not stop the others.
func (w *workerCore) SyncGame(ctx workflow.Context, gameID string, entities []domain.EntityType) (*SyncReport, error) {
	logger.InfoWf(ctx, "Starting game sync",
		zap.String("gameID", gameID),
		zap.Any("entities", entities),
	)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: w.config.SyncActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.MaxActivityAttempts,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var game *domain.Game
	err := workflow.ExecuteActivity(ctx, w.executor.GetGame, gameID).Get(ctx, &game)
	if err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to get game"),
			zap.Error(err),
			zap.String("gameID", gameID),
		)
		return nil, err
	}

	report := &SyncReport{GameID: game.ID}

	if filtered, ok := collectionEntities(entities); ok {
		futures := make([]workflow.ChildWorkflowFuture, 0, len(game.Collections))
		for _, slug := range game.Collections {
			childWorkflowOptions := workflow.ChildWorkflowOptions{
				WorkflowID:               fmt.Sprintf("sync-collection-%s-%s", game.ID, slug),
				WorkflowExecutionTimeout: 6 * time.Hour,
				WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
				ParentClosePolicy:        enums.PARENT_CLOSE_POLICY_REQUEST_CANCEL,
			}
			childCtx := workflow.WithChildOptions(ctx, childWorkflowOptions)
			futures = append(futures, workflow.ExecuteChildWorkflow(childCtx, w.SyncCollection, game.ID, slug, filtered))
		}

		for i, future := range futures {
			slug := game.Collections[i]
			var child *SyncReport
			if err := future.Get(ctx, &child); err != nil {
				logger.ErrorWf(ctx,
					fmt.Errorf("failed to sync collection"),
					zap.Error(err),
					zap.String("slug", slug),
				)
				report.Failures = append(report.Failures, StageFailure{Stage: "collection:" + slug, Error: err.Error()})
				continue
			}
			if child != nil {
				report.Units = append(report.Units, child.Units...)
				report.Failures = append(report.Failures, child.Failures...)
			}
		}
	}

	if wants(entities, domain.EntityERC20Transfer) && len(game.RewardTokens) > 0 {
		var results []ingest.Result
		err := workflow.ExecuteActivity(ctx, w.executor.SyncRewardTransfers, game.ID).Get(ctx, &results)
		if err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to sync reward transfers"),
				zap.Error(err),
				zap.String("gameID", game.ID),
			)
			report.Failures = append(report.Failures, StageFailure{Stage: "rewards:" + game.ID, Error: err.Error()})
		} else {
			report.Units = append(report.Units, results...)
		}
	}

	logger.InfoWf(ctx, "Game sync completed",
		zap.String("gameID", game.ID),
		zap.Int("units", len(report.Units)),
		zap.Int("failures", len(report.Failures)),
	)

	return report, nil
}

// SyncCollection ingests the feeds of one collection, then enriches the traits
// of its new NFTs when enabled. An enrichment failure is reported without
// failing the workflow.
func (w *workerCore) SyncCollection(ctx workflow.Context, gameID string, slug string, entities []domain.EntityType) (*SyncReport, error) {
	logger.InfoWf(ctx, "Starting collection sync",
		zap.String("gameID", gameID),
		zap.String("slug", slug),
	)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: w.config.SyncActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.MaxActivityAttempts,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	report := &SyncReport{GameID: gameID}

	var results []ingest.Result
	err := workflow.ExecuteActivity(ctx, w.executor.SyncCollection, gameID, slug, entities).Get(ctx, &results)
	if err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to sync collection feeds"),
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, err
	}
	report.Units = append(report.Units, results...)

	if w.config.EnrichAfterSync && wants(entities, domain.EntityNFT) {
		var result *ingest.Result
		err := workflow.ExecuteActivity(ctx, w.executor.EnrichCollection, slug).Get(ctx, &result)
		if err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to enrich collection"),
				zap.Error(err),
				zap.String("slug", slug),
			)
			report.Failures = append(report.Failures, StageFailure{Stage: "enrich:" + slug, Error: err.Error()})
		} else if result != nil {
			report.Units = append(report.Units, *result)
		}
	}

	logger.InfoWf(ctx, "Collection sync completed",
		zap.String("slug", slug),
		zap.Int("units", len(report.Units)),
	)

	return report, nil
}

// RefreshGame syncs a game and then recomputes its ROI from what was persisted
func (w *workerCore) RefreshGame(ctx workflow.Context, gameID string) error {
	logger.InfoWf(ctx, "Starting game refresh", zap.String("gameID", gameID))

	childWorkflowOptions := workflow.ChildWorkflowOptions{
		WorkflowID:               fmt.Sprintf("sync-game-%s", gameID),
		WorkflowExecutionTimeout: 12 * time.Hour,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		ParentClosePolicy:        enums.PARENT_CLOSE_POLICY_REQUEST_CANCEL,
	}
	var sync *SyncReport
	err := workflow.ExecuteChildWorkflow(workflow.WithChildOptions(ctx, childWorkflowOptions), w.SyncGame, gameID, []domain.EntityType(nil)).Get(ctx, &sync)
	if err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to sync game"),
			zap.Error(err),
			zap.String("gameID", gameID),
		)
		return err
	}

	// ROI is computed over whatever was persisted, even after partial sync failures
	childWorkflowOptions.WorkflowID = fmt.Sprintf("compute-roi-%s", gameID)
	childWorkflowOptions.WorkflowExecutionTimeout = time.Hour
	var report *ROIReport
	err = workflow.ExecuteChildWorkflow(workflow.WithChildOptions(ctx, childWorkflowOptions), w.ComputeGameROI, gameID).Get(ctx, &report)
	if err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to compute game roi"),
			zap.Error(err),
			zap.String("gameID", gameID),
		)
		return err
	}

	logger.InfoWf(ctx, "Game refresh completed",
		zap.String("gameID", gameID),
		zap.Int("syncFailures", len(sync.Failures)),
		zap.Int("roiFailures", len(report.Failures)),
	)

	return nil
}
