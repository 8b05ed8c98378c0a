package ingest

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/normalizer"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
	"github.com/playrank/nft-roi-indexer/internal/providers/etherscan"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/registry"
)

// DefaultEntities are the feeds a sync runs when no entity filter is given
var DefaultEntities = []domain.EntityType{
	domain.EntityCollection,
	domain.EntityNFT,
	domain.EntitySale,
	domain.EntityTransfer,
	domain.EntityListing,
	domain.EntityERC20Transfer,
}

// Clients bundles the provider clients the pipeline plans units for
type Clients struct {
	Alchemy   alchemy.Client
	Etherscan etherscan.Client
	OpenSea   opensea.Client
	BlockTime *alchemy.BlockTimeResolver
}

// Pipeline plans ingestion units for games and collections and runs them
type Pipeline struct {
	deps            Deps
	clients         Clients
	games           registry.GameRegistry
	runner          *Runner
	enrichBatchSize int
}

// NewPipeline creates a pipeline
func NewPipeline(deps Deps, clients Clients, games registry.GameRegistry, runner *Runner, enrichBatchSize int) *Pipeline {
	return &Pipeline{
		deps:            deps,
		clients:         clients,
		games:           games,
		runner:          runner,
		enrichBatchSize: enrichBatchSize,
	}
}

// SyncGame ingests every collection and reward token of a game. Collection metadata
// runs first since the contract list drives the chain feeds. An empty entity
// list selects DefaultEntities.
func (p *Pipeline) SyncGame(ctx context.Context, gameID string, entities []domain.EntityType) ([]Result, error) {
	game, err := p.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		entities = DefaultEntities
	}

	var results []Result
	var errs []error

	if slices.Contains(entities, domain.EntityCollection) {
		units := make([]Unit, 0, len(game.Collections))
		for _, slug := range game.Collections {
			units = append(units, NewCollectionUnit(p.deps, p.clients.OpenSea, slug, &game))
		}
		r, err := p.runner.Run(ctx, units)
		results = append(results, r...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	var units []Unit
	for _, slug := range game.Collections {
		planned, err := p.planCollection(ctx, slug, &game, entities)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		units = append(units, planned...)
	}
	if slices.Contains(entities, domain.EntityERC20Transfer) {
		units = append(units, p.rewardUnits(ctx, game)...)
	}

	r, err := p.runner.Run(ctx, units)
	results = append(results, r...)
	if err != nil {
		errs = append(errs, err)
	}

	logger.InfoCtx(ctx, "Game sync finished",
		zap.String("game_id", game.ID),
		zap.Int("units", len(results)),
		zap.Int("failed", len(errs)))
	return results, errors.Join(errs...)
}

// SyncRewards ingests the reward token transfers of a game
func (p *Pipeline) SyncRewards(ctx context.Context, gameID string) ([]Result, error) {
	game, err := p.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	return p.runner.Run(ctx, p.rewardUnits(ctx, game))
}

// SyncCollection ingests the feeds of one collection. A nil game is resolved
// from the slug; collections of no known game are ingested without a game id.
// Reward token feeds belong to the game and are not planned here.
func (p *Pipeline) SyncCollection(ctx context.Context, slug string, game *domain.Game, entities []domain.EntityType) ([]Result, error) {
	if len(entities) == 0 {
		entities = DefaultEntities
	}

	if game == nil {
		if g, ok := p.games.ResolveSlug(slug); ok {
			game = &g
		}
	}

	var results []Result
	if slices.Contains(entities, domain.EntityCollection) {
		r, err := p.runner.Run(ctx, []Unit{NewCollectionUnit(p.deps, p.clients.OpenSea, slug, game)})
		results = append(results, r...)
		if err != nil {
			return results, err
		}
	}

	units, err := p.planCollection(ctx, slug, game, entities)
	if err != nil {
		return results, err
	}
	r, err := p.runner.Run(ctx, units)
	return append(results, r...), err
}

// Enrich runs trait enrichment for one collection
func (p *Pipeline) Enrich(ctx context.Context, slug string) (Result, error) {
	chains, err := p.contractChains(ctx, slug)
	if err != nil {
		return Result{}, err
	}
	results, err := p.runner.Run(ctx, []Unit{NewEnrichmentUnit(p.deps, p.clients.OpenSea, slug, chains, p.enrichBatchSize)})
	if len(results) == 0 {
		return Result{}, err
	}
	return results[0], err
}

func (p *Pipeline) planCollection(ctx context.Context, slug string, game *domain.Game, entities []domain.EntityType) ([]Unit, error) {
	contracts, err := p.deps.Store.ListContracts(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts of %s: %w", slug, err)
	}

	gameID := ""
	if game != nil {
		gameID = game.ID
	}

	var units []Unit
	defaultChain := domain.ChainEthereum
	if len(contracts) > 0 {
		defaultChain = contracts[0].Chain
	}
	base := normalizer.Context{CollectionSlug: slug, GameID: gameID, Chain: defaultChain}

	if slices.Contains(entities, domain.EntityNFT) {
		units = append(units, NewNFTUnit(p.deps, p.clients.OpenSea, base))
	}
	if slices.Contains(entities, domain.EntityListing) {
		units = append(units, NewListingUnit(p.deps, p.clients.OpenSea, base))
	}

	for _, c := range contracts {
		if !domain.IsValidChain(c.Chain) {
			logger.WarnCtx(ctx, "Skipping contract on unsupported chain",
				zap.String("slug", slug),
				zap.String("contract", c.Address),
				zap.String("chain", string(c.Chain)))
			continue
		}
		nctx := normalizer.Context{CollectionSlug: slug, GameID: gameID, Chain: c.Chain}
		if slices.Contains(entities, domain.EntitySale) {
			units = append(units, NewSalesUnit(p.deps, p.clients.Alchemy, p.clients.BlockTime, c.Address, nctx))
		}
		if slices.Contains(entities, domain.EntityTransfer) {
			units = append(units, NewTransferUnit(p.deps, p.clients.Alchemy, c.Address, nctx))
		}
	}

	if len(contracts) == 0 && (slices.Contains(entities, domain.EntitySale) || slices.Contains(entities, domain.EntityTransfer)) {
		logger.WarnCtx(ctx, "Collection has no stored contracts; chain feeds not planned", zap.String("slug", slug))
	}
	return units, nil
}

func (p *Pipeline) rewardUnits(ctx context.Context, game domain.Game) []Unit {
	units := make([]Unit, 0, len(game.RewardTokens))
	for _, token := range game.RewardTokens {
		// etherscan only serves the ethereum mainnet
		if token.Chain != "" && token.Chain != domain.ChainEthereum {
			logger.WarnCtx(ctx, "Skipping reward token on unsupported chain",
				zap.String("game_id", game.ID),
				zap.String("symbol", token.Symbol),
				zap.String("chain", string(token.Chain)))
			continue
		}
		token.ContractAddress = domain.NormalizeAddress(token.ContractAddress)
		if token.Chain == "" {
			token.Chain = domain.ChainEthereum
		}
		units = append(units, NewRewardTransferUnit(p.deps, p.clients.Etherscan, token, game.ID))
	}
	return units
}

func (p *Pipeline) contractChains(ctx context.Context, slug string) (map[string]domain.Chain, error) {
	contracts, err := p.deps.Store.ListContracts(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts of %s: %w", slug, err)
	}
	chains := make(map[string]domain.Chain, len(contracts))
	for _, c := range contracts {
		chains[c.Address] = c.Chain
	}
	return chains, nil
}
