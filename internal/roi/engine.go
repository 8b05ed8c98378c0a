package roi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/normalizer"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/providers/social"
	"github.com/playrank/nft-roi-indexer/internal/registry"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

// Status is the outcome of one collection computation
type Status string

const (
	// StatusComputed means snapshots were appended
	StatusComputed Status = "computed"
	// StatusNoData means no asset had a qualifying ownership interval; nothing was written
	StatusNoData Status = "no_data"
)

// CollectionOutcome reports one collection computation
type CollectionOutcome struct {
	Slug     string                    `json:"slug"`
	Status   Status                    `json:"status"`
	Assets   int                       `json:"assets"`
	Snapshot *domain.CollectionDynamic `json:"snapshot,omitempty"`
}

// GameOutcome reports the computation of every collection of a game
type GameOutcome struct {
	GameID      string              `json:"game_id"`
	Collections []CollectionOutcome `json:"collections"`
}

// Engine computes ROI snapshots from persisted ownership and reward history
type Engine struct {
	store      store.Store
	games      registry.GameRegistry
	market     opensea.Client
	social     social.Client
	clock      adapter.Clock
	currencies []string
}

// NewEngine creates an engine. market may be nil, in which case collection
// snapshots carry no marketplace statistics.
func NewEngine(s store.Store, games registry.GameRegistry, market opensea.Client, clock adapter.Clock, pricingCurrencies []string) *Engine {
	if clock == nil {
		clock = adapter.NewClock()
	}
	return &Engine{store: s, games: games, market: market, clock: clock, currencies: pricingCurrencies}
}

// WithSocial makes collection snapshots carry community metrics
func (e *Engine) WithSocial(client social.Client) *Engine {
	e.social = client
	return e
}

// ComputeGame computes every collection of a game. A failing collection does
// not stop the others.
func (e *Engine) ComputeGame(ctx context.Context, gameID string) (GameOutcome, error) {
	game, err := e.games.Get(gameID)
	if err != nil {
		return GameOutcome{}, err
	}

	outcome := GameOutcome{GameID: game.ID}
	var errs []error
	for _, slug := range game.Collections {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		c, err := e.ComputeCollection(ctx, slug, game)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("game_id", game.ID), zap.String("slug", slug))
			errs = append(errs, err)
			continue
		}
		outcome.Collections = append(outcome.Collections, c)
	}
	return outcome, errors.Join(errs...)
}

// ComputeCollection appends per-asset snapshots and one collection snapshot.
// When no asset qualifies it writes nothing and reports StatusNoData.
func (e *Engine) ComputeCollection(ctx context.Context, slug string, game domain.Game) (CollectionOutcome, error) {
	now := e.clock.Now()
	outcome := CollectionOutcome{Slug: slug, Status: StatusNoData}

	intervals, err := e.store.ListOwnershipIntervals(ctx, slug)
	if err != nil {
		return outcome, fmt.Errorf("failed to list ownership intervals of %s: %w", slug, err)
	}
	if len(intervals) == 0 || len(game.RewardTokens) == 0 {
		logger.InfoCtx(ctx, "No ROI computed", zap.String("slug", slug), zap.Int("intervals", len(intervals)))
		return outcome, nil
	}

	transfers, err := e.store.ListRewardTransfers(ctx, store.RewardTransferFilter{
		Contracts:  game.RewardContracts(),
		Recipients: buyers(intervals),
		From:       earliestBuy(intervals),
		To:         now,
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to list reward transfers of %s: %w", slug, err)
	}

	dynamics := AssetROI(game, intervals, transfers, now)
	if len(dynamics) == 0 {
		logger.InfoCtx(ctx, "No ROI computed", zap.String("slug", slug), zap.String("reason", "no interval with a positive holding period"))
		return outcome, nil
	}

	if _, err := e.store.AppendNFTDynamics(ctx, dynamics); err != nil {
		return outcome, err
	}

	means, assets := CollectionROI(dynamics)
	snapshot := domain.CollectionDynamic{
		CollectionSlug: slug,
		GameID:         game.ID,
		Timestamp:      now,
		ROI:            means,
		AssetsMeasured: assets,
	}

	sales, err := e.store.GetSaleStats(ctx, slug, e.currencies)
	if err != nil {
		return outcome, fmt.Errorf("failed to get sale stats of %s: %w", slug, err)
	}
	snapshot.Sales = sales

	if stats := e.marketStats(ctx, slug); stats != nil {
		snapshot.FloorPrice = stats.FloorPrice
		snapshot.FloorPriceSymbol = stats.FloorPriceSymbol
		snapshot.NumOwners = stats.NumOwners
		snapshot.MarketCap = stats.MarketCap
	}
	snapshot.Social = e.socialMetrics(ctx, slug, game)

	if err := e.store.AppendCollectionDynamic(ctx, snapshot); err != nil {
		return outcome, err
	}

	logger.InfoCtx(ctx, "ROI computed",
		zap.String("slug", slug),
		zap.Int("assets", assets),
		zap.Any("roi", means))

	outcome.Status = StatusComputed
	outcome.Assets = assets
	outcome.Snapshot = &snapshot
	return outcome, nil
}

// marketStats fetches marketplace statistics; a failure only drops them from the snapshot
func (e *Engine) marketStats(ctx context.Context, slug string) *domain.MarketStats {
	if e.market == nil {
		return nil
	}
	raw, err := e.market.GetCollectionStats(ctx, slug)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get collection stats", zap.String("slug", slug), zap.Error(err))
		return nil
	}
	stats := normalizer.OpenSeaStats(*raw)
	return &stats
}

// socialMetrics collects the community metrics of a collection and its game.
// Each metric is looked up on its own; a failed or unconfigured lookup leaves it nil.
func (e *Engine) socialMetrics(ctx context.Context, slug string, game domain.Game) domain.SocialMetrics {
	var metrics domain.SocialMetrics
	if e.social == nil {
		return metrics
	}
	log := logger.FromContext(ctx).With(zap.String("slug", slug))

	lookup := func(metric string, fetch func() (int64, error)) *int64 {
		v, err := fetch()
		if err != nil {
			if !errors.Is(err, social.ErrNoAPIKey) {
				log.Warn("Failed to get social metric", zap.String("metric", metric), zap.Error(err))
			}
			return nil
		}
		return &v
	}

	if game.DappRadarID != "" {
		metrics.DailyUAW = lookup("daily_uaw", func() (int64, error) {
			return e.social.GetActiveWallets(ctx, game.DappRadarID, social.WindowDay)
		})
		metrics.MonthlyUAW = lookup("monthly_uaw", func() (int64, error) {
			return e.social.GetActiveWallets(ctx, game.DappRadarID, social.WindowMonth)
		})
	}

	collection, err := e.store.GetCollection(ctx, slug)
	if err != nil {
		log.Warn("Failed to get collection for social metrics", zap.Error(err))
		return metrics
	}
	if collection == nil {
		return metrics
	}
	if collection.TwitterUsername != "" {
		metrics.TwitterFollowers = lookup("twitter_followers", func() (int64, error) {
			return e.social.GetTwitterFollowers(ctx, collection.TwitterUsername)
		})
	}
	if collection.DiscordURL != "" {
		metrics.DiscordMembers = lookup("discord_members", func() (int64, error) {
			return e.social.GetDiscordMembers(ctx, collection.DiscordURL)
		})
	}
	return metrics
}

func buyers(intervals []domain.OwnershipInterval) []string {
	seen := make(map[string]bool, len(intervals))
	out := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		if !seen[iv.Buyer] {
			seen[iv.Buyer] = true
			out = append(out, iv.Buyer)
		}
	}
	return out
}

func earliestBuy(intervals []domain.OwnershipInterval) time.Time {
	var earliest time.Time
	for i, iv := range intervals {
		if i == 0 || iv.BuyTime.Before(earliest) {
			earliest = iv.BuyTime
		}
	}
	return earliest
}
