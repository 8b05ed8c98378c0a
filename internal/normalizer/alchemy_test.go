package normalizer

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
)

var testCtx = Context{CollectionSlug: "gods-unchained", GameID: "gods-unchained", Chain: domain.ChainEthereum}

func strPtr(s string) *string { return &s }

func TestAlchemySale(t *testing.T) {
	blockTime := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	sale := alchemy.NFTSale{
		Marketplace:        "seaport",
		MarketplaceAddress: "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC",
		ContractAddress:    "0x0E3A2A1f2146d86A604adc220b4967A898D7Fe07",
		TokenID:            "42",
		Quantity:           "1",
		BuyerAddress:       "0xB0B0000000000000000000000000000000000001",
		SellerAddress:      "0xA11CE00000000000000000000000000000000002",
		SellerFee:          alchemy.Fee{Amount: "900000000000000000", Symbol: "ETH", Decimals: 18},
		ProtocolFee:        &alchemy.Fee{Amount: "25000000000000000", Symbol: "ETH", Decimals: 18},
		RoyaltyFee:         &alchemy.Fee{Amount: "75000000000000000", Symbol: "ETH", Decimals: 18},
		BlockNumber:        18573050,
		TransactionHash:    "0xABCDEF",
	}

	t.Run("fees in the same currency are summed", func(t *testing.T) {
		event, err := AlchemySale(sale, testCtx, map[uint64]time.Time{18573050: blockTime})
		require.NoError(t, err)

		assert.Equal(t, domain.EventTypeSale, event.Type())
		assert.Equal(t, "0xabcdef", event.ExternalID())
		assert.Equal(t, "0x0e3a2a1f2146d86a604adc220b4967a898d7fe07", event.Asset.ContractAddress)
		assert.Equal(t, "42", event.Asset.TokenID)
		assert.Equal(t, "0xb0b0000000000000000000000000000000000001", event.Buyer)
		assert.Equal(t, "1000000000000000000", event.Price.Amount)
		assert.Equal(t, "ETH", event.Price.Currency)
		assert.Equal(t, blockTime, event.Timestamp)
		require.NotNil(t, event.BlockNumber)
		assert.Equal(t, uint64(18573050), *event.BlockNumber)

		v, err := event.Price.Value()
		require.NoError(t, err)
		assert.Equal(t, "1", v.String())
	})

	t.Run("fees in another currency are ignored", func(t *testing.T) {
		s := sale
		s.RoyaltyFee = &alchemy.Fee{Amount: "5", Symbol: "USDC", Decimals: 6}
		event, err := AlchemySale(s, testCtx, map[uint64]time.Time{18573050: blockTime})
		require.NoError(t, err)
		assert.Equal(t, "925000000000000000", event.Price.Amount)
	})

	t.Run("hex token id is decoded", func(t *testing.T) {
		s := sale
		s.TokenID = "0x000000000000000000000000000000000000000000000000000000000000002a"
		event, err := AlchemySale(s, testCtx, map[uint64]time.Time{18573050: blockTime})
		require.NoError(t, err)
		assert.Equal(t, "42", event.Asset.TokenID)
	})

	t.Run("unresolved block timestamp is rejected", func(t *testing.T) {
		_, err := AlchemySale(sale, testCtx, map[uint64]time.Time{})
		require.Error(t, err)
		assert.True(t, domain.IsNormalizationError(err))
	})

	t.Run("missing transaction hash is rejected", func(t *testing.T) {
		s := sale
		s.TransactionHash = ""
		_, err := AlchemySale(s, testCtx, map[uint64]time.Time{18573050: blockTime})
		assert.True(t, domain.IsNormalizationError(err))
	})

	t.Run("taker is used when buyer is absent", func(t *testing.T) {
		s := sale
		s.BuyerAddress = ""
		s.Taker = "0xC0C0000000000000000000000000000000000003"
		event, err := AlchemySale(s, testCtx, map[uint64]time.Time{18573050: blockTime})
		require.NoError(t, err)
		assert.Equal(t, "0xc0c0000000000000000000000000000000000003", event.Buyer)
	})
}

func TestAlchemyTransfer(t *testing.T) {
	base := alchemy.AssetTransfer{
		BlockNum:    "0x11b6afa",
		Hash:        "0xHASH",
		From:        "0x0000000000000000000000000000000000000000",
		To:          "0xB0B0000000000000000000000000000000000001",
		RawContract: alchemy.RawContract{Address: "0x0E3A2A1f2146d86A604adc220b4967A898D7Fe07"},
		Metadata:    &alchemy.TransferMetadata{BlockTimestamp: "2023-11-14T22:13:20.000Z"},
	}

	t.Run("erc721", func(t *testing.T) {
		tr := base
		tr.Category = "erc721"
		tr.ERC721TokenID = strPtr("0x0000000000000000000000000000000000000000000000000000000000000007")

		events, err := AlchemyTransfer(tr, testCtx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "7", events[0].Asset.TokenID)
		assert.Equal(t, "1", events[0].Quantity)
		assert.Equal(t, domain.StandardERC721, events[0].Standard)
		assert.Equal(t, uint64(18574074), *events[0].BlockNumber)
		assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), events[0].Timestamp)
		assert.Equal(t, "0xhash", events[0].ExternalID())
	})

	t.Run("specialnft falls back to token id", func(t *testing.T) {
		tr := base
		tr.Category = "specialnft"
		tr.TokenID = strPtr("0x10")

		events, err := AlchemyTransfer(tr, testCtx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "16", events[0].Asset.TokenID)
	})

	t.Run("erc1155 batch fans out", func(t *testing.T) {
		tr := base
		tr.Category = "erc1155"
		tr.ERC1155Metadata = []alchemy.ERC1155Metadata{
			{TokenID: "0x01", Value: "0x05"},
			{TokenID: "0x02", Value: "0x01"},
		}

		events, err := AlchemyTransfer(tr, testCtx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "1", events[0].Asset.TokenID)
		assert.Equal(t, "5", events[0].Quantity)
		assert.Equal(t, "2", events[1].Asset.TokenID)
		assert.Equal(t, domain.StandardERC1155, events[1].Standard)
	})

	t.Run("unknown category", func(t *testing.T) {
		tr := base
		tr.Category = "erc20"

		_, err := AlchemyTransfer(tr, testCtx)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedCategory)
		assert.True(t, domain.IsNormalizationError(err))
	})

	t.Run("missing metadata timestamp", func(t *testing.T) {
		tr := base
		tr.Category = "erc721"
		tr.ERC721TokenID = strPtr("0x1")
		tr.Metadata = nil

		_, err := AlchemyTransfer(tr, testCtx)
		assert.True(t, domain.IsNormalizationError(err))
	})
}

func TestAlchemyTransfer_FanOutProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	transfer := func(ids []uint16) alchemy.AssetTransfer {
		meta := make([]alchemy.ERC1155Metadata, 0, len(ids))
		for _, id := range ids {
			meta = append(meta, alchemy.ERC1155Metadata{TokenID: fmt.Sprintf("0x%x", id), Value: "0x1"})
		}
		return alchemy.AssetTransfer{
			Category:        "erc1155",
			BlockNum:        "0x10",
			Hash:            "0xabc",
			From:            "0x0000000000000000000000000000000000000001",
			To:              "0x0000000000000000000000000000000000000002",
			ERC1155Metadata: meta,
			RawContract:     alchemy.RawContract{Address: "0x0000000000000000000000000000000000000003"},
			Metadata:        &alchemy.TransferMetadata{BlockTimestamp: "2024-01-01T00:00:00Z"},
		}
	}

	properties.Property("one event per token entry", prop.ForAll(
		func(ids []uint16) bool {
			events, err := AlchemyTransfer(transfer(ids), testCtx)
			return err == nil && len(events) == len(ids)
		},
		gen.SliceOf(gen.UInt16()).SuchThat(func(v []uint16) bool { return len(v) > 0 }),
	))

	properties.Property("fan-out preserves order and shares the transaction", prop.ForAll(
		func(ids []uint16) bool {
			events, err := AlchemyTransfer(transfer(ids), testCtx)
			if err != nil {
				return false
			}
			for i, e := range events {
				if e.Asset.TokenID != fmt.Sprintf("%d", ids[i]) || e.TransactionHash != "0xabc" {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt16()).SuchThat(func(v []uint16) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}

func TestFanOutPage_CollectsErrors(t *testing.T) {
	good := alchemy.AssetTransfer{
		Category:      "erc721",
		BlockNum:      "0x1",
		Hash:          "0x1",
		ERC721TokenID: strPtr("0x1"),
		RawContract:   alchemy.RawContract{Address: "0x0000000000000000000000000000000000000003"},
		Metadata:      &alchemy.TransferMetadata{BlockTimestamp: "2024-01-01T00:00:00Z"},
	}
	bad := good
	bad.Category = "unknown"

	events, errs := FanOutPage([]alchemy.AssetTransfer{good, bad, good}, func(tr alchemy.AssetTransfer) ([]domain.TransferEvent, error) {
		return AlchemyTransfer(tr, testCtx)
	})
	assert.Len(t, events, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrUnsupportedCategory)
}
