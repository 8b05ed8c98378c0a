package roi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/mocks"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
	"github.com/playrank/nft-roi-indexer/internal/providers/social"
	"github.com/playrank/nft-roi-indexer/internal/roi"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

func TestEngine_ComputeCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	now := day0.AddDate(0, 0, 10)
	ctx := context.Background()

	intervals := []domain.OwnershipInterval{
		interval("1", holder, day0, nil),
		interval("2", other, day0, nil),
	}
	mockStore.EXPECT().ListOwnershipIntervals(ctx, slug).Return(intervals, nil)
	mockStore.EXPECT().ListRewardTransfers(ctx, store.RewardTransferFilter{
		Contracts:  []string{pixToken},
		Recipients: []string{holder, other},
		From:       day0,
		To:         now,
	}).Return([]domain.ERC20Transfer{
		reward(pixToken, holder, day0.AddDate(0, 0, 1), 100),
		reward(pixToken, other, day0.AddDate(0, 0, 1), 200),
	}, nil)
	mockStore.EXPECT().AppendNFTDynamics(ctx, gomock.Len(2)).Return(store.UpsertResult{Written: 2}, nil)
	mockStore.EXPECT().GetSaleStats(ctx, slug, []string{"ETH", "WETH"}).
		Return(domain.SaleStats{Count: 2, Volume: 3, AveragePrice: 1.5, Currency: "ETH"}, nil)

	floor := 0.25
	mockOpenSea.EXPECT().GetCollectionStats(ctx, slug).Return(&opensea.CollectionStats{Total: opensea.StatsTotal{
		FloorPrice: &floor, FloorPriceSymbol: "ETH", NumOwners: 2, MarketCap: 10,
	}}, nil)

	var appended domain.CollectionDynamic
	mockStore.EXPECT().AppendCollectionDynamic(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, d domain.CollectionDynamic) error {
			appended = d
			return nil
		})

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), mockOpenSea, adapter.FixedClock{At: now}, []string{"ETH", "WETH"})
	outcome, err := engine.ComputeCollection(ctx, slug, game)
	require.NoError(t, err)

	assert.Equal(t, roi.StatusComputed, outcome.Status)
	assert.Equal(t, 2, outcome.Assets)
	assert.InDelta(t, 15.0, appended.ROI["PIX"], 1e-9, "mean of 10 and 20")
	assert.Equal(t, int64(2), appended.Sales.Count)
	require.NotNil(t, appended.FloorPrice)
	assert.Equal(t, 0.25, *appended.FloorPrice)
	assert.Equal(t, now, appended.Timestamp)
	assert.Equal(t, "pixel", appended.GameID)
}

func TestEngine_NoIntervalsIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).Return(nil, nil)
	mockStore.EXPECT().AppendNFTDynamics(gomock.Any(), gomock.Any()).Times(0)
	mockStore.EXPECT().AppendCollectionDynamic(gomock.Any(), gomock.Any()).Times(0)

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), nil, adapter.FixedClock{At: day0}, nil)
	outcome, err := engine.ComputeCollection(context.Background(), slug, game)
	require.NoError(t, err)
	assert.Equal(t, roi.StatusNoData, outcome.Status)
	assert.Nil(t, outcome.Snapshot)
}

func TestEngine_ZeroDayIntervalsWriteNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	same := day0
	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).
		Return([]domain.OwnershipInterval{interval("1", holder, day0, &same)}, nil)
	mockStore.EXPECT().ListRewardTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), nil, adapter.FixedClock{At: day0.AddDate(0, 0, 1)}, nil)
	outcome, err := engine.ComputeCollection(context.Background(), slug, game)
	require.NoError(t, err)
	assert.Equal(t, roi.StatusNoData, outcome.Status)
}

func TestEngine_MarketStatsFailureIsTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockOpenSea := mocks.NewMockOpenSeaClient(ctrl)
	now := day0.AddDate(0, 0, 2)

	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).
		Return([]domain.OwnershipInterval{interval("1", holder, day0, nil)}, nil)
	mockStore.EXPECT().ListRewardTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockStore.EXPECT().AppendNFTDynamics(gomock.Any(), gomock.Len(1)).Return(store.UpsertResult{Written: 1}, nil)
	mockStore.EXPECT().GetSaleStats(gomock.Any(), slug, gomock.Any()).Return(domain.SaleStats{}, nil)
	mockOpenSea.EXPECT().GetCollectionStats(gomock.Any(), slug).Return(nil, errors.New("rate limited"))
	mockStore.EXPECT().AppendCollectionDynamic(gomock.Any(), gomock.Any()).Return(nil)

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), mockOpenSea, adapter.FixedClock{At: now}, nil)
	outcome, err := engine.ComputeCollection(context.Background(), slug, game)
	require.NoError(t, err)
	require.NotNil(t, outcome.Snapshot)
	assert.Nil(t, outcome.Snapshot.FloorPrice)
	assert.Zero(t, outcome.Snapshot.ROI["PIX"])
}

func TestEngine_ComputeGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockGames := mocks.NewMockGameRegistry(ctrl)

	twoCollections := game
	twoCollections.Collections = []string{"broken", slug}
	mockGames.EXPECT().Get("pixel").Return(twoCollections, nil)

	boom := errors.New("connection refused")
	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), "broken").Return(nil, boom)
	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).Return(nil, nil)

	engine := roi.NewEngine(mockStore, mockGames, nil, adapter.FixedClock{At: day0}, nil)
	outcome, err := engine.ComputeGame(context.Background(), "pixel")
	require.ErrorIs(t, err, boom)
	require.Len(t, outcome.Collections, 1)
	assert.Equal(t, slug, outcome.Collections[0].Slug)
	assert.Equal(t, roi.StatusNoData, outcome.Collections[0].Status)
}

func TestEngine_UnknownGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGames := mocks.NewMockGameRegistry(ctrl)
	mockGames.EXPECT().Get("nope").Return(domain.Game{}, domain.ErrUnknownGame)

	_, err := roi.NewEngine(mocks.NewMockStore(ctrl), mockGames, nil, nil, nil).ComputeGame(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrUnknownGame)
}

func TestEngine_SocialMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockSocial := mocks.NewMockSocialClient(ctrl)
	now := day0.AddDate(0, 0, 2)

	tracked := game
	tracked.DappRadarID = "9495"

	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).
		Return([]domain.OwnershipInterval{interval("1", holder, day0, nil)}, nil)
	mockStore.EXPECT().ListRewardTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockStore.EXPECT().AppendNFTDynamics(gomock.Any(), gomock.Len(1)).Return(store.UpsertResult{Written: 1}, nil)
	mockStore.EXPECT().GetSaleStats(gomock.Any(), slug, gomock.Any()).Return(domain.SaleStats{}, nil)
	mockStore.EXPECT().GetCollection(gomock.Any(), slug).Return(&domain.Collection{
		Slug:            slug,
		TwitterUsername: "pixelheroes",
		DiscordURL:      "https://discord.gg/pixel",
	}, nil)

	mockSocial.EXPECT().GetActiveWallets(gomock.Any(), "9495", social.WindowDay).Return(int64(310), nil)
	mockSocial.EXPECT().GetActiveWallets(gomock.Any(), "9495", social.WindowMonth).Return(int64(4200), nil)
	mockSocial.EXPECT().GetTwitterFollowers(gomock.Any(), "pixelheroes").Return(int64(0), errors.New("too many requests"))
	mockSocial.EXPECT().GetDiscordMembers(gomock.Any(), "https://discord.gg/pixel").Return(int64(40211), nil)

	var appended domain.CollectionDynamic
	mockStore.EXPECT().AppendCollectionDynamic(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d domain.CollectionDynamic) error {
			appended = d
			return nil
		})

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), nil, adapter.FixedClock{At: now}, nil).
		WithSocial(mockSocial)
	outcome, err := engine.ComputeCollection(context.Background(), slug, tracked)
	require.NoError(t, err)
	assert.Equal(t, roi.StatusComputed, outcome.Status)

	require.NotNil(t, appended.Social.DailyUAW)
	assert.Equal(t, int64(310), *appended.Social.DailyUAW)
	require.NotNil(t, appended.Social.MonthlyUAW)
	assert.Equal(t, int64(4200), *appended.Social.MonthlyUAW)
	assert.Nil(t, appended.Social.TwitterFollowers, "a failed lookup leaves the metric empty")
	require.NotNil(t, appended.Social.DiscordMembers)
	assert.Equal(t, int64(40211), *appended.Social.DiscordMembers)
}

func TestEngine_SocialMetricsWithoutKeysStayEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockSocial := mocks.NewMockSocialClient(ctrl)

	mockStore.EXPECT().ListOwnershipIntervals(gomock.Any(), slug).
		Return([]domain.OwnershipInterval{interval("1", holder, day0, nil)}, nil)
	mockStore.EXPECT().ListRewardTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockStore.EXPECT().AppendNFTDynamics(gomock.Any(), gomock.Any()).Return(store.UpsertResult{Written: 1}, nil)
	mockStore.EXPECT().GetSaleStats(gomock.Any(), slug, gomock.Any()).Return(domain.SaleStats{}, nil)
	mockStore.EXPECT().GetCollection(gomock.Any(), slug).Return(&domain.Collection{Slug: slug, TwitterUsername: "pixelheroes"}, nil)
	mockSocial.EXPECT().GetTwitterFollowers(gomock.Any(), "pixelheroes").Return(int64(0), social.ErrNoAPIKey)
	mockStore.EXPECT().AppendCollectionDynamic(gomock.Any(), gomock.Any()).Return(nil)

	engine := roi.NewEngine(mockStore, mocks.NewMockGameRegistry(ctrl), nil, adapter.FixedClock{At: day0.AddDate(0, 0, 1)}, nil).
		WithSocial(mockSocial)
	outcome, err := engine.ComputeCollection(context.Background(), slug, game)
	require.NoError(t, err)
	require.NotNil(t, outcome.Snapshot)
	assert.Equal(t, domain.SocialMetrics{}, outcome.Snapshot.Social)
}
