package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/store/schema"
)

type pgStore struct {
	WatermarkStore
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		WatermarkStore: NewWatermarkStore(db),
		db:             db,
	}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// UpsertCollections writes collections with their contracts and fees, overwriting descriptive metadata
func (s *pgStore) UpsertCollections(ctx context.Context, bundles []domain.CollectionBundle) (UpsertResult, error) {
	if len(bundles) == 0 {
		return UpsertResult{}, nil
	}

	collections := make([]schema.Collection, 0, len(bundles))
	var contracts []schema.Contract
	var fees []schema.Fee
	for _, b := range bundles {
		collections = append(collections, collectionRow(b.Collection))
		for _, c := range b.Contracts {
			contracts = append(contracts, schema.Contract{
				Address:        c.Address,
				Chain:          c.Chain,
				CollectionSlug: b.Collection.Slug,
			})
		}
		for _, f := range b.Fees {
			fees = append(fees, schema.Fee{
				CollectionSlug: b.Collection.Slug,
				Recipient:      f.Recipient,
				Fee:            f.Fee,
				Required:       f.Required,
			})
		}
	}

	var result UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = UpsertBatch(ctx, tx, domain.EntityCollection, collections, Overwrite)
		if err != nil {
			return err
		}
		if _, err := UpsertBatch(ctx, tx, domain.EntityCollection, contracts, Overwrite); err != nil {
			return err
		}
		if _, err := UpsertBatch(ctx, tx, domain.EntityCollection, fees, Overwrite); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return result, nil
}

// UpsertNFTs writes NFT metadata; enrichment status and traits of existing rows are never touched
func (s *pgStore) UpsertNFTs(ctx context.Context, nfts []domain.NFT, policy ConflictPolicy) (UpsertResult, error) {
	rows := make([]schema.NFT, 0, len(nfts))
	for _, n := range nfts {
		row, err := nftRow(n)
		if err != nil {
			return UpsertResult{}, &domain.PersistenceError{Entity: domain.EntityNFT, Err: err}
		}
		rows = append(rows, row)
	}
	return UpsertBatch(ctx, s.db, domain.EntityNFT, rows, policy)
}

// InsertNFTEvents appends events, silently absorbing duplicates
func (s *pgStore) InsertNFTEvents(ctx context.Context, events []domain.NFTEvent) (UpsertResult, error) {
	if len(events) == 0 {
		return UpsertResult{}, nil
	}
	rows := make([]schema.NFTEvent, 0, len(events))
	for _, e := range events {
		row, err := eventRow(e)
		if err != nil {
			return UpsertResult{}, &domain.PersistenceError{Entity: entityOf(e.Type()), Err: err}
		}
		rows = append(rows, row)
	}
	return UpsertBatch(ctx, s.db, entityOf(events[0].Type()), rows, KeepExisting)
}

func entityOf(t domain.EventType) domain.EntityType {
	switch t {
	case domain.EventTypeSale:
		return domain.EntitySale
	case domain.EventTypeListing:
		return domain.EntityListing
	default:
		return domain.EntityTransfer
	}
}

// InsertERC20Transfers appends reward token transfers, silently absorbing duplicates
func (s *pgStore) InsertERC20Transfers(ctx context.Context, transfers []domain.ERC20Transfer) (UpsertResult, error) {
	rows := make([]schema.ERC20Transfer, 0, len(transfers))
	for _, t := range transfers {
		rows = append(rows, erc20Row(t))
	}
	return UpsertBatch(ctx, s.db, domain.EntityERC20Transfer, rows, KeepExisting)
}

// AppendNFTDynamics appends per-asset ROI snapshots
func (s *pgStore) AppendNFTDynamics(ctx context.Context, dynamics []domain.NFTDynamic) (UpsertResult, error) {
	rows := make([]schema.NFTDynamic, 0, len(dynamics))
	for _, d := range dynamics {
		rows = append(rows, nftDynamicRow(d))
	}
	return UpsertBatch(ctx, s.db, domain.EntityNFTDynamic, rows, KeepExisting)
}

// AppendCollectionDynamic appends one collection snapshot
func (s *pgStore) AppendCollectionDynamic(ctx context.Context, dynamic domain.CollectionDynamic) error {
	_, err := UpsertBatch(ctx, s.db, domain.EntityCollectionStat,
		[]schema.CollectionDynamic{collectionDynamicRow(dynamic)}, KeepExisting)
	return err
}

// GetCollection returns a collection by slug, or nil when missing
func (s *pgStore) GetCollection(ctx context.Context, slug string) (*domain.Collection, error) {
	var row schema.Collection
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	c := collectionFromRow(row)
	return &c, nil
}

// ListCollectionsByGame returns the collections of a game
func (s *pgStore) ListCollectionsByGame(ctx context.Context, gameID string) ([]domain.Collection, error) {
	var rows []schema.Collection
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections by game: %w", err)
	}

	collections := make([]domain.Collection, 0, len(rows))
	for _, r := range rows {
		collections = append(collections, collectionFromRow(r))
	}
	return collections, nil
}

// ListContracts returns the contracts of a collection
func (s *pgStore) ListContracts(ctx context.Context, collectionSlug string) ([]domain.Contract, error) {
	var rows []schema.Contract
	err := s.db.WithContext(ctx).
		Where("collection_slug = ?", collectionSlug).
		Order("chain ASC, address ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	contracts := make([]domain.Contract, 0, len(rows))
	for _, r := range rows {
		contracts = append(contracts, domain.Contract{Address: r.Address, Chain: r.Chain, CollectionSlug: r.CollectionSlug})
	}
	return contracts, nil
}

// GetNFT returns an NFT by key, or nil when missing
func (s *pgStore) GetNFT(ctx context.Context, key domain.AssetKey) (*domain.NFT, error) {
	var row schema.NFT
	err := s.db.WithContext(ctx).
		Where("contract_address = ? AND token_id = ?", key.ContractAddress, key.TokenID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}

	nft, err := nftFromRow(row)
	if err != nil {
		return nil, err
	}
	return &nft, nil
}

// ListNFTsByStatus returns NFTs of a collection in one of the statuses
func (s *pgStore) ListNFTsByStatus(ctx context.Context, collectionSlug string, statuses []domain.NFTStatus, limit int) ([]domain.NFT, error) {
	if len(statuses) == 0 {
		return []domain.NFT{}, nil
	}

	query := s.db.WithContext(ctx).
		Where("collection_slug = ? AND status IN ?", collectionSlug, statuses).
		Order("contract_address ASC, token_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []schema.NFT
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list nfts by status: %w", err)
	}

	nfts := make([]domain.NFT, 0, len(rows))
	for _, r := range rows {
		n, err := nftFromRow(r)
		if err != nil {
			return nil, err
		}
		nfts = append(nfts, n)
	}
	return nfts, nil
}

// UpdateNFTStatus moves an NFT from one status to another, storing traits when given
func (s *pgStore) UpdateNFTStatus(ctx context.Context, key domain.AssetKey, from, to domain.NFTStatus, traits []domain.Trait) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("invalid nft status transition %s -> %s", from, to)
	}

	updates := map[string]interface{}{"status": to}
	if len(traits) > 0 {
		b, err := traitsJSON(traits)
		if err != nil {
			return err
		}
		updates["traits"] = b
	}

	result := s.db.WithContext(ctx).
		Model(&schema.NFT{}).
		Where("contract_address = ? AND token_id = ? AND status = ?", key.ContractAddress, key.TokenID, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update nft status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("nft %s in status %s: %w", key, from, domain.ErrNotFound)
	}
	return nil
}

// GetNFTEvents returns the event history of an NFT, newest first
func (s *pgStore) GetNFTEvents(ctx context.Context, key domain.AssetKey, filter EventFilter) ([]domain.NFTEvent, error) {
	query := s.db.WithContext(ctx).
		Where("contract_address = ? AND token_id = ?", key.ContractAddress, key.TokenID)
	if len(filter.Types) > 0 {
		query = query.Where("event_type IN ?", filter.Types)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []schema.NFTEvent
	if err := query.Order("event_timestamp DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get nft events: %w", err)
	}

	events := make([]domain.NFTEvent, 0, len(rows))
	for _, r := range rows {
		e, err := eventFromRow(r)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// ListOwnershipIntervals returns every ownership interval of a collection
func (s *pgStore) ListOwnershipIntervals(ctx context.Context, collectionSlug string) ([]domain.OwnershipInterval, error) {
	var rows []schema.NFTOwnership
	err := s.db.WithContext(ctx).
		Where("collection_slug = ?", collectionSlug).
		Order("contract_address ASC, token_id ASC, buy_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ownership intervals: %w", err)
	}

	intervals := make([]domain.OwnershipInterval, 0, len(rows))
	for _, r := range rows {
		intervals = append(intervals, ownershipFromRow(r))
	}
	return intervals, nil
}

// ListRewardTransfers returns reward token transfers in ascending time order.
// Recipients are queried in chunks that keep each statement under the bind parameter limit.
func (s *pgStore) ListRewardTransfers(ctx context.Context, filter RewardTransferFilter) ([]domain.ERC20Transfer, error) {
	if len(filter.Contracts) == 0 || len(filter.Recipients) == 0 {
		return []domain.ERC20Transfer{}, nil
	}

	recipients := slices.Clone(filter.Recipients)
	slices.Sort(recipients)
	recipients = slices.Compact(recipients)

	// contracts and the time window share the headroom reserved per statement
	chunkSize := calculateSafeBatchSize(len(recipients), 1)

	var rows []schema.ERC20Transfer
	for chunk := range slices.Chunk(recipients, chunkSize) {
		query := s.db.WithContext(ctx).
			Where("contract_address IN ? AND to_address IN ?", filter.Contracts, chunk)
		if !filter.From.IsZero() {
			query = query.Where("event_timestamp >= ?", filter.From)
		}
		if !filter.To.IsZero() {
			query = query.Where("event_timestamp <= ?", filter.To)
		}

		var part []schema.ERC20Transfer
		if err := query.Order("event_timestamp ASC").Find(&part).Error; err != nil {
			return nil, fmt.Errorf("failed to list reward transfers: %w", err)
		}
		rows = append(rows, part...)
	}

	slices.SortStableFunc(rows, func(a, b schema.ERC20Transfer) int {
		return a.EventTimestamp.Compare(b.EventTimestamp)
	})

	transfers := make([]domain.ERC20Transfer, 0, len(rows))
	for _, r := range rows {
		transfers = append(transfers, erc20FromRow(r))
	}
	return transfers, nil
}

// GetSaleStats aggregates stored sales of a collection priced in one of the currencies.
// Amounts are converted from raw integers with their decimals before summing.
func (s *pgStore) GetSaleStats(ctx context.Context, collectionSlug string, currencies []string) (domain.SaleStats, error) {
	stats := domain.SaleStats{}
	if len(currencies) > 0 {
		stats.Currency = currencies[0]
	}

	var agg struct {
		Count   int64
		Volume  float64
		Average float64
	}
	query := s.db.WithContext(ctx).
		Model(&schema.NFTEvent{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(price_amount / power(10::numeric, price_decimals)), 0)::float8 AS volume,
			COALESCE(AVG(price_amount / power(10::numeric, price_decimals)), 0)::float8 AS average`).
		Where("collection_slug = ? AND event_type = ? AND price_amount IS NOT NULL AND price_decimals IS NOT NULL",
			collectionSlug, domain.EventTypeSale)
	if len(currencies) > 0 {
		query = query.Where("price_currency IN ?", currencies)
	}
	if err := query.Scan(&agg).Error; err != nil {
		return domain.SaleStats{}, fmt.Errorf("failed to get sale stats: %w", err)
	}

	stats.Count = agg.Count
	stats.Volume = agg.Volume
	stats.AveragePrice = agg.Average
	return stats, nil
}

// GetLatestNFTDynamics returns the latest ROI snapshot of an NFT per reward symbol
func (s *pgStore) GetLatestNFTDynamics(ctx context.Context, key domain.AssetKey) ([]domain.NFTDynamic, error) {
	var rows []schema.NFTDynamic
	err := s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (symbol) * FROM nft_dynamics
			WHERE contract_address = ? AND token_id = ?
			ORDER BY symbol ASC, event_timestamp DESC`, key.ContractAddress, key.TokenID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get latest nft dynamics: %w", err)
	}
	return dynamicsFromRows(rows), nil
}

// ListLatestNFTDynamics returns the latest ROI snapshot per (asset, symbol) of a collection
func (s *pgStore) ListLatestNFTDynamics(ctx context.Context, collectionSlug string) ([]domain.NFTDynamic, error) {
	var rows []schema.NFTDynamic
	err := s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (contract_address, token_id, symbol) * FROM nft_dynamics
			WHERE collection_slug = ?
			ORDER BY contract_address ASC, token_id ASC, symbol ASC, event_timestamp DESC`, collectionSlug).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest nft dynamics: %w", err)
	}
	return dynamicsFromRows(rows), nil
}

func dynamicsFromRows(rows []schema.NFTDynamic) []domain.NFTDynamic {
	dynamics := make([]domain.NFTDynamic, 0, len(rows))
	for _, r := range rows {
		dynamics = append(dynamics, nftDynamicFromRow(r))
	}
	return dynamics
}

// GetLatestCollectionDynamic returns the latest snapshot of a collection, or nil when none exists
func (s *pgStore) GetLatestCollectionDynamic(ctx context.Context, collectionSlug string) (*domain.CollectionDynamic, error) {
	var row schema.CollectionDynamic
	err := s.db.WithContext(ctx).
		Where("collection_slug = ?", collectionSlug).
		Order("event_timestamp DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest collection dynamic: %w", err)
	}
	d := collectionDynamicFromRow(row)
	return &d, nil
}

// ListCollectionDynamics returns snapshots of a collection, newest first
func (s *pgStore) ListCollectionDynamics(ctx context.Context, collectionSlug string, limit int) ([]domain.CollectionDynamic, error) {
	query := s.db.WithContext(ctx).
		Where("collection_slug = ?", collectionSlug).
		Order("event_timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []schema.CollectionDynamic
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list collection dynamics: %w", err)
	}

	dynamics := make([]domain.CollectionDynamic, 0, len(rows))
	for _, r := range rows {
		dynamics = append(dynamics, collectionDynamicFromRow(r))
	}
	return dynamics, nil
}

