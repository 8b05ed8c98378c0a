package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/normalizer"
	"github.com/playrank/nft-roi-indexer/internal/pagination"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
	"github.com/playrank/nft-roi-indexer/internal/providers/etherscan"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

// =============================================================================
// Collection metadata
// =============================================================================

// CollectionUnit refreshes the descriptive metadata of one collection
type CollectionUnit struct {
	deps   Deps
	client opensea.Client
	slug   string
	game   *domain.Game
}

// NewCollectionUnit creates a collection metadata unit. game may be nil.
func NewCollectionUnit(deps Deps, client opensea.Client, slug string, game *domain.Game) *CollectionUnit {
	return &CollectionUnit{deps: deps, client: client, slug: slug, game: game}
}

func (u *CollectionUnit) Name() string {
	return fmt.Sprintf("collection:%s", u.slug)
}

func (u *CollectionUnit) Run(ctx context.Context) (Result, error) {
	now := u.deps.now()
	result := Result{Unit: u.Name(), RunID: newRunID(now)}

	raw, err := u.client.GetCollection(ctx, u.slug)
	if err != nil {
		return result, fmt.Errorf("failed to get collection %s: %w", u.slug, err)
	}
	result.Pages, result.Fetched = 1, 1

	bundle, err := normalizer.OpenSeaCollection(*raw, u.game)
	if err != nil {
		logSkipped(ctx, u.Name(), []error{err})
		result.Skipped = 1
		return result, nil
	}

	upsert, err := u.deps.Store.UpsertCollections(ctx, []domain.CollectionBundle{bundle})
	if err != nil {
		return result, err
	}
	result.Written, result.Duplicates = upsert.Written, upsert.Skipped

	key := store.WatermarkKey{Entity: domain.EntityCollection, Source: domain.SourceOpenSea, Key: u.slug}
	if err := u.deps.Store.AdvanceWatermark(ctx, key, store.TimestampWatermark(now)); err != nil {
		return result, &domain.PersistenceError{Entity: domain.EntityCollection, Err: err}
	}

	logger.InfoCtx(ctx, "Collection refreshed",
		zap.String("slug", u.slug),
		zap.Int("contracts", len(bundle.Contracts)),
		zap.Int("fees", len(bundle.Fees)))
	return result, nil
}

// =============================================================================
// NFT metadata
// =============================================================================

// NFTUnit pulls the NFT list of a collection. The listing has no time order,
// so the page cursor itself is the watermark and an exhausted listing starts over.
type NFTUnit struct {
	deps   Deps
	client opensea.Client
	nctx   normalizer.Context
}

// NewNFTUnit creates an NFT metadata unit
func NewNFTUnit(deps Deps, client opensea.Client, nctx normalizer.Context) *NFTUnit {
	return &NFTUnit{deps: deps, client: client, nctx: nctx}
}

func (u *NFTUnit) Name() string {
	return fmt.Sprintf("nfts:%s", u.nctx.CollectionSlug)
}

func (u *NFTUnit) Run(ctx context.Context) (Result, error) {
	key := store.WatermarkKey{Entity: domain.EntityNFT, Source: domain.SourceOpenSea, Key: u.nctx.CollectionSlug}
	cf := u.deps.cursorFile(u.nctx.CollectionSlug, domain.EntityNFT)

	start, err := resumeCursor(ctx, u.deps.Store, key, cf)
	if err != nil {
		return Result{Unit: u.Name()}, err
	}

	fetch := func(ctx context.Context, cursor string) ([]opensea.NFTMetadata, string, error) {
		page, err := u.client.ListNFTs(ctx, u.nctx.CollectionSlug, u.deps.PageSize, cursor)
		if err != nil {
			return nil, "", err
		}
		return page.NFTs, deref(page.Next), nil
	}

	f := &feed[opensea.NFTMetadata]{
		name:        u.Name(),
		key:         key,
		watermarks:  u.deps.Store,
		cursorFile:  cf,
		fetcher:     pagination.NewFetcher(fetch, pagination.WithBudget[opensea.NFTMetadata](u.deps.Budget)),
		cursorMarks: true,
		persist: func(ctx context.Context, page pagination.Page[opensea.NFTMetadata]) (pageOutcome, error) {
			nfts, errs := normalizer.Page(page.Items, func(n opensea.NFTMetadata) (domain.NFT, error) {
				return normalizer.OpenSeaNFT(n, u.nctx)
			})
			logSkipped(ctx, u.Name(), errs)

			upsert, err := u.deps.Store.UpsertNFTs(ctx, nfts, store.Overwrite)
			if err != nil {
				return pageOutcome{}, err
			}
			return pageOutcome{skipped: len(errs), upsert: upsert}, nil
		},
	}
	return f.run(ctx, newRunID(u.deps.now()), start)
}

// =============================================================================
// Sales
// =============================================================================

// SalesUnit pulls the sales of one contract in ascending block order
type SalesUnit struct {
	deps     Deps
	client   alchemy.Client
	resolver *alchemy.BlockTimeResolver
	contract string
	nctx     normalizer.Context
}

// NewSalesUnit creates a sales unit for a contract
func NewSalesUnit(deps Deps, client alchemy.Client, resolver *alchemy.BlockTimeResolver, contract string, nctx normalizer.Context) *SalesUnit {
	return &SalesUnit{deps: deps, client: client, resolver: resolver, contract: contract, nctx: nctx}
}

func (u *SalesUnit) Name() string {
	return fmt.Sprintf("sales:%s:%s", u.nctx.CollectionSlug, u.contract)
}

func (u *SalesUnit) Run(ctx context.Context) (Result, error) {
	key := store.WatermarkKey{Entity: domain.EntitySale, Source: domain.SourceAlchemy, Key: u.contract}
	from, err := startBlock(ctx, u.deps.Store, key)
	if err != nil {
		return Result{Unit: u.Name()}, err
	}

	fetch := func(ctx context.Context, cursor string) ([]alchemy.NFTSale, string, error) {
		page, err := u.client.GetNFTSales(ctx, u.nctx.Chain, alchemy.SalesParams{
			ContractAddress: u.contract,
			FromBlock:       from,
			Limit:           u.deps.PageSize,
			PageKey:         cursor,
		})
		if err != nil {
			return nil, "", err
		}
		return page.Sales, deref(page.PageKey), nil
	}

	f := &feed[alchemy.NFTSale]{
		name:       u.Name(),
		key:        key,
		watermarks: u.deps.Store,
		cursorFile: u.deps.cursorFile(u.nctx.CollectionSlug, domain.EntitySale),
		fetcher:    pagination.NewFetcher(fetch, pagination.WithBudget[alchemy.NFTSale](u.deps.Budget)),
		persist:    u.persist,
	}
	return f.run(ctx, newRunID(u.deps.now()), "")
}

func (u *SalesUnit) persist(ctx context.Context, page pagination.Page[alchemy.NFTSale]) (pageOutcome, error) {
	blocks := make([]uint64, 0, len(page.Items))
	var highest uint64
	for _, s := range page.Items {
		blocks = append(blocks, s.BlockNumber)
		highest = max(highest, s.BlockNumber)
	}

	blockTimes, err := u.resolver.Resolve(ctx, u.nctx.Chain, blocks)
	if err != nil {
		return pageOutcome{}, err
	}

	events, errs := normalizer.Page(page.Items, func(s alchemy.NFTSale) (domain.NFTEvent, error) {
		return normalizer.AlchemySale(s, u.nctx, blockTimes)
	})
	logSkipped(ctx, u.Name(), errs)

	upsert, err := u.deps.Store.InsertNFTEvents(ctx, events)
	if err != nil {
		return pageOutcome{}, err
	}

	mark := store.BlockWatermark(highest)
	return pageOutcome{skipped: len(errs), upsert: upsert, mark: &mark}, nil
}

// =============================================================================
// Transfers
// =============================================================================

// TransferUnit pulls the NFT transfers of one contract in ascending block order
// and derives ownership intervals from them
type TransferUnit struct {
	deps     Deps
	client   alchemy.Client
	contract string
	nctx     normalizer.Context
}

// NewTransferUnit creates a transfer unit for a contract
func NewTransferUnit(deps Deps, client alchemy.Client, contract string, nctx normalizer.Context) *TransferUnit {
	return &TransferUnit{deps: deps, client: client, contract: contract, nctx: nctx}
}

func (u *TransferUnit) Name() string {
	return fmt.Sprintf("transfers:%s:%s", u.nctx.CollectionSlug, u.contract)
}

func (u *TransferUnit) Run(ctx context.Context) (Result, error) {
	key := store.WatermarkKey{Entity: domain.EntityTransfer, Source: domain.SourceAlchemy, Key: u.contract}
	from, err := startBlock(ctx, u.deps.Store, key)
	if err != nil {
		return Result{Unit: u.Name()}, err
	}

	fetch := func(ctx context.Context, cursor string) ([]alchemy.AssetTransfer, string, error) {
		page, err := u.client.GetNFTTransfers(ctx, u.nctx.Chain, alchemy.TransfersParams{
			ContractAddress: u.contract,
			FromBlock:       from,
			Categories:      domain.NFTTransferCategories,
			MaxCount:        u.deps.PageSize,
			PageKey:         cursor,
		})
		if err != nil {
			return nil, "", err
		}
		return page.Transfers, deref(page.PageKey), nil
	}

	f := &feed[alchemy.AssetTransfer]{
		name:       u.Name(),
		key:        key,
		watermarks: u.deps.Store,
		cursorFile: u.deps.cursorFile(u.nctx.CollectionSlug, domain.EntityTransfer),
		fetcher:    pagination.NewFetcher(fetch, pagination.WithBudget[alchemy.AssetTransfer](u.deps.Budget)),
		persist:    u.persist,
	}
	return f.run(ctx, newRunID(u.deps.now()), "")
}

func (u *TransferUnit) persist(ctx context.Context, page pagination.Page[alchemy.AssetTransfer]) (pageOutcome, error) {
	transfers, errs := normalizer.FanOutPage(page.Items, func(t alchemy.AssetTransfer) ([]domain.TransferEvent, error) {
		return normalizer.AlchemyTransfer(t, u.nctx)
	})
	logSkipped(ctx, u.Name(), errs)

	events := make([]domain.NFTEvent, 0, len(transfers))
	for _, t := range transfers {
		events = append(events, t)
	}
	upsert, err := u.deps.Store.InsertNFTEvents(ctx, events)
	if err != nil {
		return pageOutcome{}, err
	}
	if err := u.deps.Store.ApplyOwnershipTransfers(ctx, transfers); err != nil {
		return pageOutcome{}, err
	}

	var highest uint64
	for _, t := range page.Items {
		if block, err := domain.DecodeHexUint64(t.BlockNum); err == nil {
			highest = max(highest, block)
		}
	}

	outcome := pageOutcome{skipped: len(errs), upsert: upsert}
	if highest > 0 {
		mark := store.BlockWatermark(highest)
		outcome.mark = &mark
	}
	return outcome, nil
}

// =============================================================================
// Listings
// =============================================================================

// ListingUnit pulls the listing events of a collection. Events arrive newest
// first, so the timestamp watermark only moves once the feed is exhausted.
type ListingUnit struct {
	deps   Deps
	client opensea.Client
	nctx   normalizer.Context
}

// NewListingUnit creates a listing unit for a collection
func NewListingUnit(deps Deps, client opensea.Client, nctx normalizer.Context) *ListingUnit {
	return &ListingUnit{deps: deps, client: client, nctx: nctx}
}

func (u *ListingUnit) Name() string {
	return fmt.Sprintf("listings:%s", u.nctx.CollectionSlug)
}

func (u *ListingUnit) Run(ctx context.Context) (Result, error) {
	key := store.WatermarkKey{Entity: domain.EntityListing, Source: domain.SourceOpenSea, Key: u.nctx.CollectionSlug}
	mark, err := u.deps.Store.GetWatermark(ctx, key)
	if err != nil {
		return Result{Unit: u.Name()}, err
	}
	var after time.Time
	if mark != nil {
		after = mark.Timestamp
	}

	fetch := func(ctx context.Context, cursor string) ([]opensea.AssetEvent, string, error) {
		page, err := u.client.ListEvents(ctx, u.nctx.CollectionSlug, opensea.EventParams{
			EventType: "listing",
			After:     after,
			Limit:     u.deps.PageSize,
			Next:      cursor,
		})
		if err != nil {
			return nil, "", err
		}
		return page.AssetEvents, deref(page.Next), nil
	}

	var newest time.Time
	f := &feed[opensea.AssetEvent]{
		name:       u.Name(),
		key:        key,
		watermarks: u.deps.Store,
		cursorFile: u.deps.cursorFile(u.nctx.CollectionSlug, domain.EntityListing),
		fetcher:    pagination.NewFetcher(fetch, pagination.WithBudget[opensea.AssetEvent](u.deps.Budget)),
		persist: func(ctx context.Context, page pagination.Page[opensea.AssetEvent]) (pageOutcome, error) {
			listings, errs := normalizer.Page(page.Items, func(e opensea.AssetEvent) (domain.NFTEvent, error) {
				return normalizer.OpenSeaListing(e, u.nctx)
			})
			logSkipped(ctx, u.Name(), errs)

			upsert, err := u.deps.Store.InsertNFTEvents(ctx, listings)
			if err != nil {
				return pageOutcome{}, err
			}
			for _, l := range listings {
				if ts := l.Base().Timestamp; ts.After(newest) {
					newest = ts
				}
			}
			return pageOutcome{skipped: len(errs), upsert: upsert}, nil
		},
	}

	result, err := f.run(ctx, newRunID(u.deps.now()), "")
	if err != nil {
		return result, err
	}
	if result.Exhausted && !newest.IsZero() {
		if err := u.deps.Store.AdvanceWatermark(ctx, key, store.TimestampWatermark(newest)); err != nil {
			return result, &domain.PersistenceError{Entity: domain.EntityListing, Err: err}
		}
	}
	return result, nil
}

// =============================================================================
// Reward token transfers
// =============================================================================

// RewardTransferUnit pulls the ERC20 transfers of one reward token contract.
// The feed resumes from the newest persisted transfer timestamp, translated to a
// start block by the explorer.
type RewardTransferUnit struct {
	deps   Deps
	client etherscan.Client
	token  domain.RewardToken
	nctx   normalizer.Context
	// window caps page*offset of one query; past it the query restarts at a later block
	window int
}

// NewRewardTransferUnit creates a reward token transfer unit
func NewRewardTransferUnit(deps Deps, client etherscan.Client, token domain.RewardToken, gameID string) *RewardTransferUnit {
	return &RewardTransferUnit{
		deps:   deps,
		client: client,
		token:  token,
		nctx:   normalizer.Context{GameID: gameID, Chain: token.Chain},
		window: etherscan.MaxResultWindow,
	}
}

func (u *RewardTransferUnit) Name() string {
	return fmt.Sprintf("rewards:%s:%s", u.nctx.GameID, u.token.Symbol)
}

func (u *RewardTransferUnit) Run(ctx context.Context) (Result, error) {
	key := store.WatermarkKey{Entity: domain.EntityERC20Transfer, Source: domain.SourceEtherscan, Key: u.token.ContractAddress}
	from, err := u.startBlock(ctx, key)
	if err != nil {
		return Result{Unit: u.Name()}, err
	}

	f := &feed[etherscan.TokenTransfer]{
		name:       u.Name(),
		key:        key,
		watermarks: u.deps.Store,
		cursorFile: u.deps.cursorFile(u.nctx.GameID, domain.EntityERC20Transfer),
		fetcher:    pagination.NewFetcher(u.fetch, pagination.WithBudget[etherscan.TokenTransfer](u.deps.Budget)),
		persist: func(ctx context.Context, page pagination.Page[etherscan.TokenTransfer]) (pageOutcome, error) {
			transfers, errs := normalizer.Page(page.Items, func(t etherscan.TokenTransfer) (domain.ERC20Transfer, error) {
				return normalizer.EtherscanTokenTransfer(t, u.nctx)
			})
			logSkipped(ctx, u.Name(), errs)

			upsert, err := u.deps.Store.InsertERC20Transfers(ctx, transfers)
			if err != nil {
				return pageOutcome{}, err
			}

			outcome := pageOutcome{skipped: len(errs), upsert: upsert}
			var newest time.Time
			for _, t := range transfers {
				if t.Timestamp.After(newest) {
					newest = t.Timestamp
				}
			}
			if !newest.IsZero() {
				mark := store.TimestampWatermark(newest)
				outcome.mark = &mark
			}
			return outcome, nil
		},
	}
	return f.run(ctx, newRunID(u.deps.now()), rewardCursor(from, 1))
}

// startBlock resolves the stored timestamp watermark to the first block mined at
// or after it. The block of the newest transfer is replayed; duplicates are absorbed.
func (u *RewardTransferUnit) startBlock(ctx context.Context, key store.WatermarkKey) (uint64, error) {
	mark, err := u.deps.Store.GetWatermark(ctx, key)
	if err != nil {
		return 0, err
	}
	if mark == nil || mark.Timestamp.IsZero() {
		return 0, nil
	}
	block, err := u.client.GetBlockNumberByTime(ctx, mark.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve start block of %s: %w", u.token.Symbol, err)
	}
	return block, nil
}

// fetch reads one tokentx page. The cursor is "<start block>:<page>"; once the
// next page would leave the result window the query restarts at page 1 from the
// highest block seen so far.
func (u *RewardTransferUnit) fetch(ctx context.Context, cursor string) ([]etherscan.TokenTransfer, string, error) {
	from, page, err := parseRewardCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	result, err := u.client.GetTokenTransfers(ctx, etherscan.TokenTransferParams{
		ContractAddress: u.token.ContractAddress,
		StartBlock:      from,
		Page:            page,
		Offset:          u.deps.PageSize,
	})
	if err != nil {
		return nil, "", err
	}
	if result.NextPage == 0 {
		return result.Transfers, "", nil
	}
	if result.NextPage*u.deps.PageSize <= u.window {
		return result.Transfers, rewardCursor(from, result.NextPage), nil
	}

	var highest uint64
	for _, t := range result.Transfers {
		if block, err := strconv.ParseUint(t.BlockNumber, 10, 64); err == nil {
			highest = max(highest, block)
		}
	}
	if highest <= from {
		// a single block holds the whole window; nothing later is reachable
		logger.WarnCtx(ctx, "Result window exhausted within one block",
			zap.String("unit", u.Name()),
			zap.Uint64("block", from))
		return result.Transfers, "", nil
	}
	return result.Transfers, rewardCursor(highest, 1), nil
}

func rewardCursor(block uint64, page int) string {
	return fmt.Sprintf("%d:%d", block, page)
}

func parseRewardCursor(cursor string) (uint64, int, error) {
	blockPart, pagePart, ok := strings.Cut(cursor, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid reward cursor %q", cursor)
	}
	block, err := strconv.ParseUint(blockPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reward cursor %q: %w", cursor, err)
	}
	page, err := strconv.Atoi(pagePart)
	if err != nil || page < 1 {
		return 0, 0, fmt.Errorf("invalid reward cursor %q", cursor)
	}
	return block, page, nil
}

// =============================================================================
// Trait enrichment
// =============================================================================

// EnrichmentUnit fetches traits of NFTs that arrived without them.
// Each NFT moves new|failed -> in-progress -> completed|no-traits|failed.
type EnrichmentUnit struct {
	deps      Deps
	client    opensea.Client
	slug      string
	chains    map[string]domain.Chain
	batchSize int
}

// NewEnrichmentUnit creates a trait enrichment unit. chains maps contract addresses to their chain.
func NewEnrichmentUnit(deps Deps, client opensea.Client, slug string, chains map[string]domain.Chain, batchSize int) *EnrichmentUnit {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &EnrichmentUnit{deps: deps, client: client, slug: slug, chains: chains, batchSize: batchSize}
}

func (u *EnrichmentUnit) Name() string {
	return fmt.Sprintf("enrich:%s", u.slug)
}

func (u *EnrichmentUnit) Run(ctx context.Context) (Result, error) {
	result := Result{Unit: u.Name(), RunID: newRunID(u.deps.now())}

	// new NFTs are drained batch by batch; failed ones get a single retry batch per run
	for _, statuses := range [][]domain.NFTStatus{{domain.NFTStatusNew}, {domain.NFTStatusFailed}} {
		for {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			nfts, err := u.deps.Store.ListNFTsByStatus(ctx, u.slug, statuses, u.batchSize)
			if err != nil {
				return result, err
			}
			if len(nfts) == 0 {
				break
			}
			result.Pages++

			for _, nft := range nfts {
				if err := u.enrich(ctx, nft, &result); err != nil {
					return result, err
				}
			}

			if statuses[0] == domain.NFTStatusFailed || len(nfts) < u.batchSize {
				break
			}
			if u.deps.Budget > 0 && result.Fetched >= u.deps.Budget {
				return result, nil
			}
		}
	}

	logger.InfoCtx(ctx, "Enrichment finished",
		zap.String("slug", u.slug),
		zap.Int("fetched", result.Fetched),
		zap.Int64("enriched", result.Written),
		zap.Int("failed", result.Skipped))
	return result, nil
}

func (u *EnrichmentUnit) enrich(ctx context.Context, nft domain.NFT, result *Result) error {
	key := nft.Key()
	if err := u.deps.Store.UpdateNFTStatus(ctx, key, nft.Status, domain.NFTStatusInProgress, nil); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// claimed by a concurrent run
			return nil
		}
		return err
	}
	result.Fetched++

	chain, ok := u.chains[key.ContractAddress]
	if !ok {
		chain = domain.ChainEthereum
	}

	meta, err := u.client.GetNFT(ctx, chain, key.ContractAddress, key.TokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch traits", zap.String("nft", key.String()), zap.Error(err))
		result.Skipped++
		return u.deps.Store.UpdateNFTStatus(ctx, key, domain.NFTStatusInProgress, domain.NFTStatusFailed, nil)
	}

	traits := normalizer.OpenSeaTraits(meta.Traits)
	next := domain.NFTStatusCompleted
	if len(traits) == 0 {
		next = domain.NFTStatusNoTraits
	}
	if err := u.deps.Store.UpdateNFTStatus(ctx, key, domain.NFTStatusInProgress, next, traits); err != nil {
		return err
	}
	result.Written++
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
