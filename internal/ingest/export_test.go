package ingest

import (
	"context"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

func (p *Pipeline) PlanCollection(ctx context.Context, slug string, game *domain.Game, entities []domain.EntityType) ([]Unit, error) {
	return p.planCollection(ctx, slug, game, entities)
}

func (p *Pipeline) RewardUnits(ctx context.Context, game domain.Game) []Unit {
	return p.rewardUnits(ctx, game)
}

func (u *RewardTransferUnit) Token() domain.RewardToken {
	return u.token
}

func (u *RewardTransferUnit) SetResultWindow(window int) {
	u.window = window
}
