package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

const (
	testContract = "0x5b1085136a811e55b2bb2ca1ea456ba82126a376"
	testSlug     = "test-collection"
	testGame     = "test-game"
	rewardToken  = "0x4d224452801aced8b2f0aebe155379bb5d594381"
	holderA      = "0x1111111111111111111111111111111111111111"
	holderB      = "0x2222222222222222222222222222222222222222"
	holderC      = "0x3333333333333333333333333333333333333333"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestNFT(tokenID, name string) domain.NFT {
	return domain.NFT{
		ContractAddress: testContract,
		TokenID:         tokenID,
		CollectionSlug:  testSlug,
		GameID:          testGame,
		Name:            name,
		TokenStandard:   domain.StandardERC721,
	}
}

func buildTestBase(tokenID string, ts time.Time, txHash string) domain.EventBase {
	return domain.EventBase{
		Asset:           domain.AssetKey{ContractAddress: testContract, TokenID: tokenID},
		CollectionSlug:  testSlug,
		GameID:          testGame,
		Chain:           domain.ChainEthereum,
		Source:          domain.SourceAlchemy,
		Timestamp:       ts,
		TransactionHash: txHash,
	}
}

func buildTestSale(tokenID string, ts time.Time, txHash, amount, currency string) domain.SaleEvent {
	return domain.SaleEvent{
		EventBase:   buildTestBase(tokenID, ts, txHash),
		Buyer:       holderB,
		Seller:      holderA,
		Price:       domain.Price{Amount: amount, Currency: currency, Decimals: 18},
		Quantity:    "1",
		Marketplace: "seaport",
	}
}

func buildTestTransfer(tokenID string, ts time.Time, txHash, from, to string) domain.TransferEvent {
	return domain.TransferEvent{
		EventBase: buildTestBase(tokenID, ts, txHash),
		From:      from,
		To:        to,
		Quantity:  "1",
		Standard:  domain.StandardERC721,
	}
}

// =============================================================================
// Collections
// =============================================================================

func TestUpsertCollections(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	fee := 5.0
	bundle := domain.CollectionBundle{
		Collection: domain.Collection{
			Slug:     testSlug,
			Name:     "Test Collection",
			GameID:   testGame,
			Tags:     []string{"rpg", "p2e"},
			EntryFee: &fee,
		},
		Contracts: []domain.Contract{{Address: testContract, Chain: domain.ChainEthereum}},
		Fees:      []domain.Fee{{Recipient: holderA, Fee: 2.5, Required: true}},
	}

	result, err := s.UpsertCollections(ctx, []domain.CollectionBundle{bundle})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Written)

	bundle.Collection.Name = "Renamed"
	_, err = s.UpsertCollections(ctx, []domain.CollectionBundle{bundle})
	require.NoError(t, err)

	got, err := s.GetCollection(ctx, testSlug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []string{"rpg", "p2e"}, got.Tags)
	require.NotNil(t, got.EntryFee)
	assert.InDelta(t, 5.0, *got.EntryFee, 1e-9)

	byGame, err := s.ListCollectionsByGame(ctx, testGame)
	require.NoError(t, err)
	require.Len(t, byGame, 1)

	contracts, err := s.ListContracts(ctx, testSlug)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, testContract, contracts[0].Address)
	assert.Equal(t, testSlug, contracts[0].CollectionSlug)

	missing, err := s.GetCollection(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// NFTs
// =============================================================================

func TestUpsertNFTs_KeepExistingIsIdempotent(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	batch := []domain.NFT{buildTestNFT("1", "first"), buildTestNFT("2", "second")}
	result, err := s.UpsertNFTs(ctx, batch, KeepExisting)
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Written: 2, Skipped: 0}, result)

	batch[0].Name = "changed"
	result, err = s.UpsertNFTs(ctx, batch, KeepExisting)
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Written: 0, Skipped: 2}, result)

	got, err := s.GetNFT(ctx, domain.AssetKey{ContractAddress: testContract, TokenID: "1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, domain.NFTStatusNew, got.Status)
}

func TestUpsertNFTs_OverwriteRetriesDuplicateKeys(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	batch := []domain.NFT{
		buildTestNFT("7", "stale"),
		buildTestNFT("8", "other"),
		buildTestNFT("7", "fresh"),
	}
	result, err := s.UpsertNFTs(ctx, batch, Overwrite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Written)
	assert.Equal(t, int64(1), result.Skipped)

	got, err := s.GetNFT(ctx, domain.AssetKey{ContractAddress: testContract, TokenID: "7"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Name)
}

func TestUpsertNFTs_OverwriteKeepsEnrichment(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()
	key := domain.AssetKey{ContractAddress: testContract, TokenID: "3"}

	_, err := s.UpsertNFTs(ctx, []domain.NFT{buildTestNFT("3", "before")}, KeepExisting)
	require.NoError(t, err)

	traits := []domain.Trait{{TraitType: "Class", Value: "Warrior"}}
	require.NoError(t, s.UpdateNFTStatus(ctx, key, domain.NFTStatusNew, domain.NFTStatusInProgress, nil))
	require.NoError(t, s.UpdateNFTStatus(ctx, key, domain.NFTStatusInProgress, domain.NFTStatusCompleted, traits))

	_, err = s.UpsertNFTs(ctx, []domain.NFT{buildTestNFT("3", "after")}, Overwrite)
	require.NoError(t, err)

	got, err := s.GetNFT(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, domain.NFTStatusCompleted, got.Status)
	require.Len(t, got.Traits, 1)
	assert.Equal(t, "Class", got.Traits[0].TraitType)
	assert.Equal(t, "Warrior", got.Traits[0].Value)
}

func TestUpdateNFTStatus(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()
	key := domain.AssetKey{ContractAddress: testContract, TokenID: "4"}

	_, err := s.UpsertNFTs(ctx, []domain.NFT{buildTestNFT("4", "nft")}, KeepExisting)
	require.NoError(t, err)

	t.Run("invalid transition", func(t *testing.T) {
		err := s.UpdateNFTStatus(ctx, key, domain.NFTStatusNew, domain.NFTStatusCompleted, nil)
		require.Error(t, err)
	})

	t.Run("wrong current status", func(t *testing.T) {
		err := s.UpdateNFTStatus(ctx, key, domain.NFTStatusFailed, domain.NFTStatusInProgress, nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list by status", func(t *testing.T) {
		require.NoError(t, s.UpdateNFTStatus(ctx, key, domain.NFTStatusNew, domain.NFTStatusInProgress, nil))

		pending, err := s.ListNFTsByStatus(ctx, testSlug, []domain.NFTStatus{domain.NFTStatusNew}, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)

		inProgress, err := s.ListNFTsByStatus(ctx, testSlug, []domain.NFTStatus{domain.NFTStatusInProgress}, 10)
		require.NoError(t, err)
		require.Len(t, inProgress, 1)
		assert.Equal(t, "4", inProgress[0].TokenID)
	})
}

// =============================================================================
// Events
// =============================================================================

func TestInsertNFTEvents(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()
	key := domain.AssetKey{ContractAddress: testContract, TokenID: "1"}

	block := uint64(18574074)
	transfer := buildTestTransfer("1", baseTime, "0xaaa", ZeroAddress, holderA)
	transfer.BlockNumber = &block
	sale := buildTestSale("1", baseTime.Add(time.Hour), "0xbbb", "1000000000000000000", "WETH")
	listing := domain.ListingEvent{
		EventBase:   buildTestBase("1", baseTime.Add(2*time.Hour), ""),
		OrderHash:   "0xorder",
		Maker:       holderB,
		Price:       domain.Price{Amount: "2000000000000000000", Currency: "ETH", Decimals: 18},
		Quantity:    "1",
		Marketplace: "opensea",
	}
	listing.Source = domain.SourceOpenSea

	result, err := s.InsertNFTEvents(ctx, []domain.NFTEvent{transfer, sale, listing})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Written)

	// replaying a page is absorbed by the natural key
	result, err = s.InsertNFTEvents(ctx, []domain.NFTEvent{transfer, sale})
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Written: 0, Skipped: 2}, result)

	events, err := s.GetNFTEvents(ctx, key, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventTypeListing, events[0].Type())
	assert.Equal(t, domain.EventTypeSale, events[1].Type())
	assert.Equal(t, domain.EventTypeTransfer, events[2].Type())

	gotSale, ok := events[1].(domain.SaleEvent)
	require.True(t, ok)
	assert.Equal(t, "1000000000000000000", gotSale.Price.Amount)
	assert.True(t, gotSale.Timestamp.Equal(sale.Timestamp))

	gotTransfer, ok := events[2].(domain.TransferEvent)
	require.True(t, ok)
	require.NotNil(t, gotTransfer.BlockNumber)
	assert.Equal(t, block, *gotTransfer.BlockNumber)

	sales, err := s.GetNFTEvents(ctx, key, EventFilter{Types: []domain.EventType{domain.EventTypeSale}})
	require.NoError(t, err)
	require.Len(t, sales, 1)

	paged, err := s.GetNFTEvents(ctx, key, EventFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, domain.EventTypeSale, paged[0].Type())
}

func TestInsertNFTEvents_SameTransactionDifferentType(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	// a sale and its settlement transfer share the tx hash and timestamp
	sale := buildTestSale("5", baseTime, "0xccc", "1", "ETH")
	transfer := buildTestTransfer("5", baseTime, "0xccc", holderA, holderB)

	result, err := s.InsertNFTEvents(ctx, []domain.NFTEvent{sale, transfer})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Written)
}

func TestGetSaleStats(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	events := []domain.NFTEvent{
		buildTestSale("1", baseTime, "0x01", "1000000000000000000", "WETH"),
		buildTestSale("2", baseTime.Add(time.Minute), "0x02", "2000000000000000000", "WETH"),
		buildTestSale("3", baseTime.Add(2*time.Minute), "0x03", "500000000", "USDC"),
	}
	_, err := s.InsertNFTEvents(ctx, events)
	require.NoError(t, err)

	stats, err := s.GetSaleStats(ctx, testSlug, []string{"WETH", "ETH"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 3.0, stats.Volume, 1e-9)
	assert.InDelta(t, 1.5, stats.AveragePrice, 1e-9)
	assert.Equal(t, "WETH", stats.Currency)

	empty, err := s.GetSaleStats(ctx, "other-collection", []string{"WETH"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
	assert.Zero(t, empty.Volume)
}

func TestGetSaleStats_IgnoresSalesWithoutDecimals(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	events := []domain.NFTEvent{
		buildTestSale("1", baseTime, "0x01", "1000000000000000000", "WETH"),
		buildTestSale("2", baseTime.Add(time.Minute), "0x02", "3000000000000000000", "WETH"),
	}
	_, err := s.InsertNFTEvents(ctx, events)
	require.NoError(t, err)
	require.NoError(t, s.(*pgStore).db.
		Exec("UPDATE nft_events SET price_decimals = NULL WHERE external_id = ?", "0x02").Error)

	stats, err := s.GetSaleStats(ctx, testSlug, []string{"WETH"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count, "count agrees with the priced rows")
	assert.InDelta(t, 1.0, stats.Volume, 1e-9)
	assert.InDelta(t, 1.0, stats.AveragePrice, 1e-9)
}

func TestRewardTransfers(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	transfers := []domain.ERC20Transfer{
		{
			TransactionHash: "0xr1",
			Timestamp:       baseTime,
			BlockNumber:     100,
			ContractAddress: rewardToken,
			From:            holderC,
			To:              holderA,
			Amount:          domain.Price{Amount: "5000000000000000000", Currency: "RWD", Decimals: 18},
			GameID:          testGame,
		},
		{
			TransactionHash: "0xr2",
			Timestamp:       baseTime.Add(24 * time.Hour),
			BlockNumber:     200,
			ContractAddress: rewardToken,
			From:            holderC,
			To:              holderB,
			Amount:          domain.Price{Amount: "1", Currency: "RWD", Decimals: 18},
			GameID:          testGame,
		},
	}
	result, err := s.InsertERC20Transfers(ctx, transfers)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Written)

	result, err = s.InsertERC20Transfers(ctx, transfers[:1])
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Written)

	got, err := s.ListRewardTransfers(ctx, RewardTransferFilter{
		Contracts:  []string{rewardToken},
		Recipients: []string{holderA},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "5000000000000000000", got[0].Amount.Amount)
	assert.Equal(t, uint64(100), got[0].BlockNumber)

	windowed, err := s.ListRewardTransfers(ctx, RewardTransferFilter{
		Contracts:  []string{rewardToken},
		Recipients: []string{holderA, holderB},
		From:       baseTime.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, holderB, windowed[0].To)

	none, err := s.ListRewardTransfers(ctx, RewardTransferFilter{Contracts: []string{rewardToken}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRewardTransfers_ManyRecipients(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	transfers := []domain.ERC20Transfer{
		{TransactionHash: "0xr1", Timestamp: baseTime.Add(time.Hour), BlockNumber: 101, ContractAddress: rewardToken,
			From: holderC, To: holderA, Amount: domain.Price{Amount: "1", Currency: "RWD", Decimals: 18}, GameID: testGame},
		{TransactionHash: "0xr2", Timestamp: baseTime, BlockNumber: 100, ContractAddress: rewardToken,
			From: holderC, To: holderB, Amount: domain.Price{Amount: "2", Currency: "RWD", Decimals: 18}, GameID: testGame},
	}
	_, err := s.InsertERC20Transfers(ctx, transfers)
	require.NoError(t, err)

	// more recipients than one statement can bind; the fillers sort between the two
	// holders so they land in different chunks
	recipients := []string{holderA}
	for i := range 70000 {
		recipients = append(recipients, fmt.Sprintf("0x15%038x", i))
	}
	recipients = append(recipients, holderB, holderA)

	got, err := s.ListRewardTransfers(ctx, RewardTransferFilter{
		Contracts:  []string{rewardToken},
		Recipients: recipients,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, holderB, got[0].To, "merged chunks stay in time order")
	assert.Equal(t, holderA, got[1].To)
}

// =============================================================================
// Ownership
// =============================================================================

func TestApplyOwnershipTransfers(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	t1 := baseTime
	t2 := baseTime.Add(48 * time.Hour)
	t3 := baseTime.Add(96 * time.Hour)
	transfers := []domain.TransferEvent{
		// deliberately out of order
		buildTestTransfer("9", t3, "0xt3", holderB, holderC),
		buildTestTransfer("9", t1, "0xt1", ZeroAddress, holderA),
		buildTestTransfer("9", t2, "0xt2", holderA, holderB),
	}

	require.NoError(t, s.ApplyOwnershipTransfers(ctx, transfers))
	// replay
	require.NoError(t, s.ApplyOwnershipTransfers(ctx, transfers))

	intervals, err := s.ListOwnershipIntervals(ctx, testSlug)
	require.NoError(t, err)
	require.Len(t, intervals, 3)

	byBuyer := map[string]domain.OwnershipInterval{}
	for _, i := range intervals {
		byBuyer[i.Buyer] = i
	}

	require.Contains(t, byBuyer, holderA)
	require.NotNil(t, byBuyer[holderA].SellTime)
	assert.True(t, byBuyer[holderA].BuyTime.Equal(t1))
	assert.True(t, byBuyer[holderA].SellTime.Equal(t2))
	assert.InDelta(t, 2.0, byBuyer[holderA].DaysHeld(time.Now()), 1e-9)

	require.Contains(t, byBuyer, holderB)
	require.NotNil(t, byBuyer[holderB].SellTime)
	assert.True(t, byBuyer[holderB].SellTime.Equal(t3))

	require.Contains(t, byBuyer, holderC)
	assert.Nil(t, byBuyer[holderC].SellTime)
}

func TestApplyOwnershipTransfers_Burn(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	transfers := []domain.TransferEvent{
		buildTestTransfer("10", baseTime, "0xm", ZeroAddress, holderA),
		buildTestTransfer("10", baseTime.Add(time.Hour), "0xb", holderA, ZeroAddress),
	}
	require.NoError(t, s.ApplyOwnershipTransfers(ctx, transfers))

	intervals, err := s.ListOwnershipIntervals(ctx, testSlug)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	require.NotNil(t, intervals[0].SellTime)
	assert.Equal(t, holderA, intervals[0].Buyer)
}

// =============================================================================
// Dynamics
// =============================================================================

func TestNFTDynamics_Latest(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()
	key := domain.AssetKey{ContractAddress: testContract, TokenID: "1"}

	dynamics := []domain.NFTDynamic{
		{Asset: key, CollectionSlug: testSlug, GameID: testGame, Symbol: "RWD", Earnings: 10, DaysHeld: 10, ROI: 1, Timestamp: baseTime},
		{Asset: key, CollectionSlug: testSlug, GameID: testGame, Symbol: "RWD", Earnings: 30, DaysHeld: 15, ROI: 2, Timestamp: baseTime.Add(time.Hour)},
		{Asset: key, CollectionSlug: testSlug, GameID: testGame, Symbol: "GEM", Earnings: 5, DaysHeld: 10, ROI: 0.5, Timestamp: baseTime},
	}
	result, err := s.AppendNFTDynamics(ctx, dynamics)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Written)

	latest, err := s.GetLatestNFTDynamics(ctx, key)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "GEM", latest[0].Symbol)
	assert.Equal(t, "RWD", latest[1].Symbol)
	assert.InDelta(t, 2.0, latest[1].ROI, 1e-9)

	all, err := s.ListLatestNFTDynamics(ctx, testSlug)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCollectionDynamics(t *testing.T) {
	s := initPGTestDB(t)
	ctx := context.Background()

	none, err := s.GetLatestCollectionDynamic(ctx, testSlug)
	require.NoError(t, err)
	assert.Nil(t, none)

	floor := 0.25
	followers := int64(18200)
	for i, roi := range []float64{1.5, 2.5} {
		err := s.AppendCollectionDynamic(ctx, domain.CollectionDynamic{
			CollectionSlug:   testSlug,
			GameID:           testGame,
			Timestamp:        baseTime.Add(time.Duration(i) * time.Hour),
			ROI:              map[string]float64{"RWD": roi},
			AssetsMeasured:   2,
			Sales:            domain.SaleStats{Count: 3, Volume: 4.5, AveragePrice: 1.5, Currency: "WETH"},
			FloorPrice:       &floor,
			FloorPriceSymbol: "ETH",
			NumOwners:        42,
			Social:           domain.SocialMetrics{TwitterFollowers: &followers},
		})
		require.NoError(t, err)
	}

	latest, err := s.GetLatestCollectionDynamic(ctx, testSlug)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.InDelta(t, 2.5, latest.ROI["RWD"], 1e-9)
	assert.Equal(t, int64(3), latest.Sales.Count)
	require.NotNil(t, latest.FloorPrice)
	assert.InDelta(t, 0.25, *latest.FloorPrice, 1e-9)
	require.NotNil(t, latest.Social.TwitterFollowers)
	assert.Equal(t, int64(18200), *latest.Social.TwitterFollowers)
	assert.Nil(t, latest.Social.DailyUAW, "unavailable metrics stay null")

	history, err := s.ListCollectionDynamics(ctx, testSlug, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))
}
