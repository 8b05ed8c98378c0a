package workflows

import (
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/roi"
)

// ComputeGameROI appends ROI snapshots for every collection of a game. The
// collections are computed in parallel and a failing one is reported without
// stopping the others.
func (w *workerCore) ComputeGameROI(ctx workflow.Context, gameID string) (*ROIReport, error) {
	logger.InfoWf(ctx, "Starting game ROI computation", zap.String("gameID", gameID))

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: w.config.ROIActivityTimeout,
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

	futures := make([]workflow.Future, 0, len(game.Collections))
	for _, slug := range game.Collections {
		futures = append(futures, workflow.ExecuteActivity(ctx, w.executor.ComputeCollectionROI, game.ID, slug))
	}

	report := &ROIReport{GameID: game.ID}
	for i, future := range futures {
		slug := game.Collections[i]
		var outcome *roi.CollectionOutcome
		if err := future.Get(ctx, &outcome); err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to compute collection roi"),
				zap.Error(err),
				zap.String("slug", slug),
			)
			report.Failures = append(report.Failures, StageFailure{Stage: "roi:" + slug, Error: err.Error()})
			continue
		}
		if outcome != nil {
			report.Collections = append(report.Collections, *outcome)
		}
	}

	logger.InfoWf(ctx, "Game ROI computation completed",
		zap.String("gameID", game.ID),
		zap.Int("collections", len(report.Collections)),
		zap.Int("failures", len(report.Failures)),
	)

	return report, nil
}
