package store

import (
	"context"
	"time"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// EventFilter restricts an event history query
type EventFilter struct {
	Types  []domain.EventType
	Limit  int
	Offset int
}

// RewardTransferFilter selects reward token transfers received by a set of addresses
type RewardTransferFilter struct {
	Contracts  []string
	Recipients []string
	From       time.Time
	// To is inclusive; zero means no upper bound
	To time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	WatermarkStore

	// UpsertCollections writes collections with their contracts and fees, overwriting descriptive metadata
	UpsertCollections(ctx context.Context, bundles []domain.CollectionBundle) (UpsertResult, error)
	// UpsertNFTs writes NFT metadata; enrichment status and traits of existing rows are never touched
	UpsertNFTs(ctx context.Context, nfts []domain.NFT, policy ConflictPolicy) (UpsertResult, error)
	// InsertNFTEvents appends events, silently absorbing duplicates
	InsertNFTEvents(ctx context.Context, events []domain.NFTEvent) (UpsertResult, error)
	// InsertERC20Transfers appends reward token transfers, silently absorbing duplicates
	InsertERC20Transfers(ctx context.Context, transfers []domain.ERC20Transfer) (UpsertResult, error)
	// ApplyOwnershipTransfers derives ownership intervals from transfers in ascending time order
	ApplyOwnershipTransfers(ctx context.Context, transfers []domain.TransferEvent) error
	// AppendNFTDynamics appends per-asset ROI snapshots
	AppendNFTDynamics(ctx context.Context, dynamics []domain.NFTDynamic) (UpsertResult, error)
	// AppendCollectionDynamic appends one collection snapshot
	AppendCollectionDynamic(ctx context.Context, dynamic domain.CollectionDynamic) error

	// GetCollection returns a collection by slug, or nil when missing
	GetCollection(ctx context.Context, slug string) (*domain.Collection, error)
	// ListCollectionsByGame returns the collections of a game
	ListCollectionsByGame(ctx context.Context, gameID string) ([]domain.Collection, error)
	// ListContracts returns the contracts of a collection
	ListContracts(ctx context.Context, collectionSlug string) ([]domain.Contract, error)
	// GetNFT returns an NFT by key, or nil when missing
	GetNFT(ctx context.Context, key domain.AssetKey) (*domain.NFT, error)
	// ListNFTsByStatus returns NFTs of a collection in one of the statuses
	ListNFTsByStatus(ctx context.Context, collectionSlug string, statuses []domain.NFTStatus, limit int) ([]domain.NFT, error)
	// UpdateNFTStatus moves an NFT from one status to another, storing traits when given.
	// It returns domain.ErrNotFound when the NFT is not in the expected status.
	UpdateNFTStatus(ctx context.Context, key domain.AssetKey, from, to domain.NFTStatus, traits []domain.Trait) error
	// GetNFTEvents returns the event history of an NFT, newest first
	GetNFTEvents(ctx context.Context, key domain.AssetKey, filter EventFilter) ([]domain.NFTEvent, error)
	// ListOwnershipIntervals returns every ownership interval of a collection
	ListOwnershipIntervals(ctx context.Context, collectionSlug string) ([]domain.OwnershipInterval, error)
	// ListRewardTransfers returns reward token transfers in ascending time order
	ListRewardTransfers(ctx context.Context, filter RewardTransferFilter) ([]domain.ERC20Transfer, error)
	// GetSaleStats aggregates stored sales of a collection priced in one of the currencies
	GetSaleStats(ctx context.Context, collectionSlug string, currencies []string) (domain.SaleStats, error)
	// GetLatestNFTDynamics returns the latest ROI snapshot of an NFT per reward symbol
	GetLatestNFTDynamics(ctx context.Context, key domain.AssetKey) ([]domain.NFTDynamic, error)
	// ListLatestNFTDynamics returns the latest ROI snapshot per (asset, symbol) of a collection
	ListLatestNFTDynamics(ctx context.Context, collectionSlug string) ([]domain.NFTDynamic, error)
	// GetLatestCollectionDynamic returns the latest snapshot of a collection, or nil when none exists
	GetLatestCollectionDynamic(ctx context.Context, collectionSlug string) (*domain.CollectionDynamic, error)
	// ListCollectionDynamics returns snapshots of a collection, newest first
	ListCollectionDynamics(ctx context.Context, collectionSlug string, limit int) ([]domain.CollectionDynamic, error)
}
