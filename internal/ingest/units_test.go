package ingest_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/ingest"
	"github.com/playrank/nft-roi-indexer/internal/mocks"
	"github.com/playrank/nft-roi-indexer/internal/normalizer"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
	"github.com/playrank/nft-roi-indexer/internal/providers/etherscan"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

const (
	testContract = "0x0e3a2a1f2146d86a604adc220b4967a898d7fe07"
	testSlug     = "pixel-heroes"
	testGameID   = "pixel"
	cursorDir    = "next_page"
)

var (
	testNow  = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testNctx = normalizer.Context{CollectionSlug: testSlug, GameID: testGameID, Chain: domain.ChainEthereum}
)

func strPtr(s string) *string { return &s }

func testDeps(s store.Store, fs adapter.FileSystem) ingest.Deps {
	return ingest.Deps{
		Store:     s,
		FS:        fs,
		Clock:     adapter.FixedClock{At: testNow},
		CursorDir: cursorDir,
		PageSize:  2,
	}
}

func sale(block uint64, tx, tokenID string) alchemy.NFTSale {
	return alchemy.NFTSale{
		Marketplace:     "seaport",
		ContractAddress: testContract,
		TokenID:         tokenID,
		Quantity:        "1",
		BuyerAddress:    "0xb0b0000000000000000000000000000000000001",
		SellerAddress:   "0xa11ce00000000000000000000000000000000002",
		SellerFee:       alchemy.Fee{Amount: "1000000000000000000", Symbol: "ETH", Decimals: 18},
		BlockNumber:     block,
		TransactionHash: tx,
	}
}

func TestSalesUnit_ResumesAndAdvancesPerPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockAlchemy := mocks.NewMockAlchemyClient(ctrl)
	fs := adapter.NewMemFileSystem()
	ctx := context.Background()
	key := store.WatermarkKey{Entity: domain.EntitySale, Source: domain.SourceAlchemy, Key: testContract}

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(&store.Watermark{Block: 100}, nil)
	mockAlchemy.EXPECT().GetBlockTimestamp(gomock.Any(), domain.ChainEthereum, gomock.Any()).
		Return(testNow.Add(-time.Hour), nil).AnyTimes()

	gomock.InOrder(
		mockAlchemy.EXPECT().GetNFTSales(gomock.Any(), domain.ChainEthereum, alchemy.SalesParams{
			ContractAddress: testContract, FromBlock: 100, Limit: 2,
		}).Return(&alchemy.SalesPage{
			Sales:   []alchemy.NFTSale{sale(101, "0x01", "1"), sale(105, "0x02", "2")},
			PageKey: strPtr("k1"),
		}, nil),
		mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Len(2)).Return(store.UpsertResult{Written: 2}, nil),
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.BlockWatermark(105)).Return(nil),

		mockAlchemy.EXPECT().GetNFTSales(gomock.Any(), domain.ChainEthereum, alchemy.SalesParams{
			ContractAddress: testContract, FromBlock: 100, Limit: 2, PageKey: "k1",
		}).Return(&alchemy.SalesPage{
			Sales: []alchemy.NFTSale{sale(110, "0x03", "3"), sale(110, "", "4")},
		}, nil),
		mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Len(1)).Return(store.UpsertResult{Written: 0, Skipped: 1}, nil),
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.BlockWatermark(110)).Return(nil),
	)

	resolver := alchemy.NewBlockTimeResolver(mockAlchemy, nil, 0)
	unit := ingest.NewSalesUnit(testDeps(mockStore, fs), mockAlchemy, resolver, testContract, testNctx)

	result, err := unit.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 1, result.Skipped, "sale without a transaction hash")
	assert.Equal(t, int64(2), result.Written)
	assert.Equal(t, int64(1), result.Duplicates)
	assert.Empty(t, result.Cursor)
	assert.NotEmpty(t, result.RunID)

	last, err := store.NewCursorFile(fs, cursorDir, testSlug, domain.EntitySale).Last()
	require.NoError(t, err)
	assert.Equal(t, "k1", last)
}

func TestSalesUnit_PersistFailureKeepsWatermark(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockAlchemy := mocks.NewMockAlchemyClient(ctrl)

	mockStore.EXPECT().GetWatermark(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockAlchemy.EXPECT().GetBlockTimestamp(gomock.Any(), gomock.Any(), gomock.Any()).Return(testNow, nil).AnyTimes()
	mockAlchemy.EXPECT().GetNFTSales(gomock.Any(), gomock.Any(), gomock.Any()).Return(&alchemy.SalesPage{
		Sales:   []alchemy.NFTSale{sale(7, "0x01", "1")},
		PageKey: strPtr("k1"),
	}, nil).Times(1)

	boom := &domain.PersistenceError{Entity: domain.EntitySale, Err: errors.New("connection reset")}
	mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Any()).Return(store.UpsertResult{}, boom)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	resolver := alchemy.NewBlockTimeResolver(mockAlchemy, nil, 0)
	unit := ingest.NewSalesUnit(testDeps(mockStore, nil), mockAlchemy, resolver, testContract, testNctx)

	result, err := unit.Run(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsPersistenceError(err))
	assert.Zero(t, result.Pages)
}

func TestSalesUnit_BlockTimeFailureAbortsUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockAlchemy := mocks.NewMockAlchemyClient(ctrl)

	mockStore.EXPECT().GetWatermark(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockAlchemy.EXPECT().GetNFTSales(gomock.Any(), gomock.Any(), gomock.Any()).Return(&alchemy.SalesPage{
		Sales: []alchemy.NFTSale{sale(7, "0x01", "1")},
	}, nil)
	mockAlchemy.EXPECT().GetBlockTimestamp(gomock.Any(), gomock.Any(), uint64(7)).Return(time.Time{}, errors.New("timeout"))

	resolver := alchemy.NewBlockTimeResolver(mockAlchemy, nil, 0)
	unit := ingest.NewSalesUnit(testDeps(mockStore, nil), mockAlchemy, resolver, testContract, testNctx)

	_, err := unit.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestTransferUnit_FansOutAndDerivesOwnership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockAlchemy := mocks.NewMockAlchemyClient(ctrl)
	key := store.WatermarkKey{Entity: domain.EntityTransfer, Source: domain.SourceAlchemy, Key: testContract}

	batch := alchemy.AssetTransfer{
		Category:    "erc1155",
		BlockNum:    "0x11b6afa",
		Hash:        "0xHASH",
		From:        "0x0000000000000000000000000000000000000000",
		To:          "0xB0B0000000000000000000000000000000000001",
		RawContract: alchemy.RawContract{Address: testContract},
		Metadata:    &alchemy.TransferMetadata{BlockTimestamp: "2023-11-14T22:13:20.000Z"},
		ERC1155Metadata: []alchemy.ERC1155Metadata{
			{TokenID: "0x01", Value: "0x05"},
			{TokenID: "0x02", Value: "0x01"},
		},
	}
	unknown := batch
	unknown.Category = "erc20"

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(nil, nil)
	mockAlchemy.EXPECT().GetNFTTransfers(gomock.Any(), domain.ChainEthereum, alchemy.TransfersParams{
		ContractAddress: testContract,
		Categories:      domain.NFTTransferCategories,
		MaxCount:        2,
	}).Return(&alchemy.TransfersPage{Transfers: []alchemy.AssetTransfer{batch, unknown}}, nil)

	mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, events []domain.NFTEvent) (store.UpsertResult, error) {
			require.Len(t, events, 2)
			for _, e := range events {
				assert.Equal(t, domain.EventTypeTransfer, e.Type())
			}
			return store.UpsertResult{Written: 2}, nil
		})
	mockStore.EXPECT().ApplyOwnershipTransfers(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, transfers []domain.TransferEvent) error {
			require.Len(t, transfers, 2)
			assert.Equal(t, "5", transfers[0].Quantity)
			assert.Equal(t, "1", transfers[1].Quantity)
			return nil
		})
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.BlockWatermark(18574074)).Return(nil)

	unit := ingest.NewTransferUnit(testDeps(mockStore, nil), mockAlchemy, testContract, testNctx)
	result, err := unit.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped, "unknown category is skipped")
	assert.Equal(t, int64(2), result.Written)
}

func listingEvent(order string, ts int64) opensea.AssetEvent {
	return opensea.AssetEvent{
		EventType:      "order",
		OrderType:      "listing",
		OrderHash:      order,
		Maker:          "0xa11ce00000000000000000000000000000000002",
		Asset:          &opensea.EventAsset{Identifier: "9", Collection: testSlug, Contract: testContract},
		Payment:        &opensea.Payment{Quantity: "10000000000000000", Symbol: "ETH", Decimals: 18},
		Quantity:       1,
		EventTimestamp: ts,
	}
}

func TestListingUnit_AdvancesWhenExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	key := store.WatermarkKey{Entity: domain.EntityListing, Source: domain.SourceOpenSea, Key: testSlug}
	after := time.Unix(1_700_000_000, 0).UTC()

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(&store.Watermark{Timestamp: after}, nil)
	gomock.InOrder(
		mockOpenSea.EXPECT().ListEvents(gomock.Any(), testSlug, opensea.EventParams{EventType: "listing", After: after, Limit: 2}).
			Return(&opensea.EventPage{
				AssetEvents: []opensea.AssetEvent{listingEvent("0xc", 1_700_000_300), listingEvent("0xb", 1_700_000_200)},
				Next:        strPtr("n1"),
			}, nil),
		mockOpenSea.EXPECT().ListEvents(gomock.Any(), testSlug, opensea.EventParams{EventType: "listing", After: after, Limit: 2, Next: "n1"}).
			Return(&opensea.EventPage{AssetEvents: []opensea.AssetEvent{listingEvent("0xa", 1_700_000_100)}}, nil),
	)
	mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Any()).Return(store.UpsertResult{Written: 1}, nil).Times(2)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.TimestampWatermark(time.Unix(1_700_000_300, 0))).Return(nil).Times(1)

	unit := ingest.NewListingUnit(testDeps(mockStore, nil), mockOpenSea, testNctx)
	result, err := unit.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
}

func TestListingUnit_BudgetKeepsWatermark(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)

	mockStore.EXPECT().GetWatermark(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockOpenSea.EXPECT().ListEvents(gomock.Any(), testSlug, gomock.Any()).Return(&opensea.EventPage{
		AssetEvents: []opensea.AssetEvent{listingEvent("0xc", 1_700_000_300), listingEvent("0xb", 1_700_000_200)},
		Next:        strPtr("n1"),
	}, nil).Times(1)
	mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Any()).Return(store.UpsertResult{Written: 2}, nil)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	deps := testDeps(mockStore, nil)
	deps.Budget = 2
	result, err := ingest.NewListingUnit(deps, mockOpenSea, testNctx).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n1", result.Cursor, "older listings remain to be pulled")
}

var rewardToken = domain.RewardToken{ContractAddress: "0xcccc000000000000000000000000000000000003", Symbol: "PIX", Decimals: 18, Chain: domain.ChainEthereum}

func rewardTransfer(block uint64, hash string, ts int64) etherscan.TokenTransfer {
	return etherscan.TokenTransfer{
		BlockNumber:     strconv.FormatUint(block, 10),
		TimeStamp:       strconv.FormatInt(ts, 10),
		Hash:            hash,
		From:            "0xa11ce00000000000000000000000000000000002",
		To:              "0xb0b0000000000000000000000000000000000001",
		ContractAddress: rewardToken.ContractAddress,
		Value:           "5000000000000000000",
		TokenSymbol:     "PIX",
		TokenDecimal:    "18",
	}
}

func TestRewardTransferUnit_ResumesFromTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockEtherscan := mocks.NewMockEtherscanClient(ctrl)
	key := store.WatermarkKey{Entity: domain.EntityERC20Transfer, Source: domain.SourceEtherscan, Key: rewardToken.ContractAddress}
	resumeAt := time.Unix(1_700_000_000, 0).UTC()

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(&store.Watermark{Timestamp: resumeAt}, nil)
	mockEtherscan.EXPECT().GetBlockNumberByTime(gomock.Any(), resumeAt).Return(uint64(500), nil)
	gomock.InOrder(
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), etherscan.TokenTransferParams{
			ContractAddress: rewardToken.ContractAddress, StartBlock: 500, Page: 1, Offset: 2,
		}).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(500, "0x01", 1_700_000_000), rewardTransfer(501, "0x02", 1_700_000_012)},
			NextPage:  2,
		}, nil),
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), etherscan.TokenTransferParams{
			ContractAddress: rewardToken.ContractAddress, StartBlock: 500, Page: 2, Offset: 2,
		}).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(502, "0x03", 1_700_000_024)},
		}, nil),
	)

	var inserted []domain.ERC20Transfer
	mockStore.EXPECT().InsertERC20Transfers(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, transfers []domain.ERC20Transfer) (store.UpsertResult, error) {
			inserted = append(inserted, transfers...)
			return store.UpsertResult{Written: int64(len(transfers))}, nil
		}).Times(2)
	gomock.InOrder(
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.TimestampWatermark(time.Unix(1_700_000_012, 0))).Return(nil),
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.TimestampWatermark(time.Unix(1_700_000_024, 0))).Return(nil),
	)

	unit := ingest.NewRewardTransferUnit(testDeps(mockStore, nil), mockEtherscan, rewardToken, testGameID)
	assert.Equal(t, "rewards:pixel:PIX", unit.Name())

	result, err := unit.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Written)
	assert.True(t, result.Exhausted)
	require.Len(t, inserted, 3)
	assert.Equal(t, testGameID, inserted[0].GameID)
}

func TestRewardTransferUnit_StartBlockLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockEtherscan := mocks.NewMockEtherscanClient(ctrl)

	mockStore.EXPECT().GetWatermark(gomock.Any(), gomock.Any()).Return(&store.Watermark{Timestamp: testNow}, nil)
	mockEtherscan.EXPECT().GetBlockNumberByTime(gomock.Any(), testNow).Return(uint64(0), errors.New("rate limited"))
	mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), gomock.Any()).Times(0)

	_, err := ingest.NewRewardTransferUnit(testDeps(mockStore, nil), mockEtherscan, rewardToken, testGameID).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestRewardTransferUnit_RestartsPastResultWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockEtherscan := mocks.NewMockEtherscanClient(ctrl)
	params := func(startBlock uint64, page int) etherscan.TokenTransferParams {
		return etherscan.TokenTransferParams{ContractAddress: rewardToken.ContractAddress, StartBlock: startBlock, Page: page, Offset: 2}
	}

	mockStore.EXPECT().GetWatermark(gomock.Any(), gomock.Any()).Return(nil, nil)
	gomock.InOrder(
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), params(0, 1)).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(10, "0x01", 100), rewardTransfer(11, "0x02", 110)},
			NextPage:  2,
		}, nil),
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), params(0, 2)).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(12, "0x03", 120), rewardTransfer(13, "0x04", 130)},
			NextPage:  3,
		}, nil),
		// page 3 would cover records 5..6 of a 4 record window
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), params(13, 1)).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(13, "0x04", 130), rewardTransfer(14, "0x05", 140)},
			NextPage:  2,
		}, nil),
		mockEtherscan.EXPECT().GetTokenTransfers(gomock.Any(), params(13, 2)).Return(&etherscan.TokenTransferPage{
			Transfers: []etherscan.TokenTransfer{rewardTransfer(15, "0x06", 150)},
		}, nil),
	)
	mockStore.EXPECT().InsertERC20Transfers(gomock.Any(), gomock.Any()).Return(store.UpsertResult{Written: 2}, nil).Times(4)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)

	unit := ingest.NewRewardTransferUnit(testDeps(mockStore, nil), mockEtherscan, rewardToken, testGameID)
	unit.SetResultWindow(4)

	result, err := unit.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Pages)
	assert.True(t, result.Exhausted)
}

func TestNFTUnit_ResumesFromCursorFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	fs := adapter.NewMemFileSystem()
	require.NoError(t, store.NewCursorFile(fs, cursorDir, testSlug, domain.EntityNFT).Append("n1"))
	key := store.WatermarkKey{Entity: domain.EntityNFT, Source: domain.SourceOpenSea, Key: testSlug}

	nft := func(id string) opensea.NFTMetadata {
		return opensea.NFTMetadata{Identifier: id, Collection: testSlug, Contract: testContract, TokenStandard: "erc721"}
	}

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(nil, nil)
	gomock.InOrder(
		mockOpenSea.EXPECT().ListNFTs(gomock.Any(), testSlug, 2, "n1").
			Return(&opensea.NFTPage{NFTs: []opensea.NFTMetadata{nft("1"), nft("2")}, Next: strPtr("n2")}, nil),
		mockStore.EXPECT().UpsertNFTs(gomock.Any(), gomock.Len(2), store.Overwrite).Return(store.UpsertResult{Written: 2}, nil),
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.CursorWatermark("n2")).Return(nil),

		mockOpenSea.EXPECT().ListNFTs(gomock.Any(), testSlug, 2, "n2").
			Return(&opensea.NFTPage{NFTs: []opensea.NFTMetadata{nft("3"), nft("bad")}}, nil),
		mockStore.EXPECT().UpsertNFTs(gomock.Any(), gomock.Len(1), store.Overwrite).Return(store.UpsertResult{Written: 1}, nil),
		mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.CursorWatermark("")).Return(nil),
	)

	result, err := ingest.NewNFTUnit(testDeps(mockStore, fs), mockOpenSea, testNctx).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, result.Skipped)
}

func TestCollectionUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	game := &domain.Game{ID: testGameID, Tags: []string{"rpg"}}

	mockOpenSea.EXPECT().GetCollection(gomock.Any(), testSlug).Return(&opensea.Collection{
		Collection: testSlug,
		Name:       "Pixel Heroes",
		Contracts:  []opensea.CollectionContract{{Address: testContract, Chain: "ethereum"}},
	}, nil)
	mockStore.EXPECT().UpsertCollections(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, bundles []domain.CollectionBundle) (store.UpsertResult, error) {
			require.Len(t, bundles, 1)
			assert.Equal(t, testSlug, bundles[0].Collection.Slug)
			assert.Equal(t, testGameID, bundles[0].Collection.GameID)
			return store.UpsertResult{Written: 1}, nil
		})
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(),
		store.WatermarkKey{Entity: domain.EntityCollection, Source: domain.SourceOpenSea, Key: testSlug},
		store.TimestampWatermark(testNow)).Return(nil)

	result, err := ingest.NewCollectionUnit(testDeps(mockStore, nil), mockOpenSea, testSlug, game).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Written)
}

func TestCollectionUnit_ProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	mockOpenSea.EXPECT().GetCollection(gomock.Any(), testSlug).Return(nil, errors.New("404"))

	_, err := ingest.NewCollectionUnit(testDeps(mocks.NewMockStore(ctrl), nil), mockOpenSea, testSlug, nil).Run(context.Background())
	require.Error(t, err)
}

func TestEnrichmentUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)

	withTraits := domain.NFT{ContractAddress: testContract, TokenID: "1", Status: domain.NFTStatusNew}
	bare := domain.NFT{ContractAddress: testContract, TokenID: "2", Status: domain.NFTStatusNew}
	claimed := domain.NFT{ContractAddress: testContract, TokenID: "3", Status: domain.NFTStatusNew}
	broken := domain.NFT{ContractAddress: testContract, TokenID: "4", Status: domain.NFTStatusFailed}

	mockStore.EXPECT().ListNFTsByStatus(gomock.Any(), testSlug, []domain.NFTStatus{domain.NFTStatusNew}, 10).
		Return([]domain.NFT{withTraits, bare, claimed}, nil)
	mockStore.EXPECT().ListNFTsByStatus(gomock.Any(), testSlug, []domain.NFTStatus{domain.NFTStatusFailed}, 10).
		Return([]domain.NFT{broken}, nil)

	for _, n := range []domain.NFT{withTraits, bare, broken} {
		mockStore.EXPECT().UpdateNFTStatus(gomock.Any(), n.Key(), n.Status, domain.NFTStatusInProgress, nil).Return(nil)
	}
	mockStore.EXPECT().UpdateNFTStatus(gomock.Any(), claimed.Key(), domain.NFTStatusNew, domain.NFTStatusInProgress, nil).
		Return(domain.ErrNotFound)

	mockOpenSea.EXPECT().GetNFT(gomock.Any(), domain.ChainPolygon, testContract, "1").Return(&opensea.NFTMetadata{
		Identifier: "1",
		Traits:     []opensea.Trait{{TraitType: "Rarity", Value: "Epic"}},
	}, nil)
	mockOpenSea.EXPECT().GetNFT(gomock.Any(), domain.ChainPolygon, testContract, "2").Return(&opensea.NFTMetadata{Identifier: "2"}, nil)
	mockOpenSea.EXPECT().GetNFT(gomock.Any(), domain.ChainPolygon, testContract, "4").Return(nil, errors.New("503"))

	mockStore.EXPECT().UpdateNFTStatus(gomock.Any(), withTraits.Key(), domain.NFTStatusInProgress, domain.NFTStatusCompleted, gomock.Len(1)).Return(nil)
	mockStore.EXPECT().UpdateNFTStatus(gomock.Any(), bare.Key(), domain.NFTStatusInProgress, domain.NFTStatusNoTraits, gomock.Len(0)).Return(nil)
	mockStore.EXPECT().UpdateNFTStatus(gomock.Any(), broken.Key(), domain.NFTStatusInProgress, domain.NFTStatusFailed, nil).Return(nil)

	chains := map[string]domain.Chain{testContract: domain.ChainPolygon}
	result, err := ingest.NewEnrichmentUnit(testDeps(mockStore, nil), mockOpenSea, testSlug, chains, 10).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, int64(2), result.Written)
	assert.Equal(t, 1, result.Skipped)
}

func TestNFTUnit_EmptyPageWithCursorClearsWatermark(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	key := store.WatermarkKey{Entity: domain.EntityNFT, Source: domain.SourceOpenSea, Key: testSlug}

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(&store.Watermark{Cursor: "n2"}, nil)
	mockOpenSea.EXPECT().ListNFTs(gomock.Any(), testSlug, 2, "n2").
		Return(&opensea.NFTPage{NFTs: nil, Next: strPtr("n3")}, nil)
	mockStore.EXPECT().UpsertNFTs(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.CursorWatermark("")).Return(nil)

	result, err := ingest.NewNFTUnit(testDeps(mockStore, nil), mockOpenSea, testNctx).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Empty(t, result.Cursor)
	assert.Zero(t, result.Pages)
}

func TestListingUnit_AdvancesOnEmptyPageWithCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	key := store.WatermarkKey{Entity: domain.EntityListing, Source: domain.SourceOpenSea, Key: testSlug}

	mockStore.EXPECT().GetWatermark(gomock.Any(), key).Return(nil, nil)
	gomock.InOrder(
		mockOpenSea.EXPECT().ListEvents(gomock.Any(), testSlug, opensea.EventParams{EventType: "listing", Limit: 2}).
			Return(&opensea.EventPage{
				AssetEvents: []opensea.AssetEvent{listingEvent("0xc", 1_700_000_300), listingEvent("0xb", 1_700_000_200)},
				Next:        strPtr("n1"),
			}, nil),
		mockOpenSea.EXPECT().ListEvents(gomock.Any(), testSlug, opensea.EventParams{EventType: "listing", Limit: 2, Next: "n1"}).
			Return(&opensea.EventPage{Next: strPtr("n2")}, nil),
	)
	mockStore.EXPECT().InsertNFTEvents(gomock.Any(), gomock.Any()).Return(store.UpsertResult{Written: 2}, nil).Times(1)
	mockStore.EXPECT().AdvanceWatermark(gomock.Any(), key, store.TimestampWatermark(time.Unix(1_700_000_300, 0))).Return(nil).Times(1)

	result, err := ingest.NewListingUnit(testDeps(mockStore, nil), mockOpenSea, testNctx).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, 1, result.Pages)
}
