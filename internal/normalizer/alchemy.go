package normalizer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/providers/alchemy"
)

var (
	errEmpty      = errors.New("empty value")
	errNotInteger = errors.New("not an integer")
)

// AlchemySale maps a getNFTSales record into a sale event.
// blockTimes resolves the sale block into its timestamp; sales are rejected when it is missing.
func AlchemySale(sale alchemy.NFTSale, nctx Context, blockTimes map[uint64]time.Time) (domain.SaleEvent, error) {
	if sale.TransactionHash == "" {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "missing transaction hash", nil)
	}
	if sale.ContractAddress == "" {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "missing contract address", nil)
	}

	id, err := tokenID(sale.TokenID)
	if err != nil {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "invalid token id", err)
	}

	qty, err := quantity(sale.Quantity)
	if err != nil {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "invalid quantity", err)
	}

	ts, ok := blockTimes[sale.BlockNumber]
	if !ok {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy,
			fmt.Sprintf("unresolved timestamp for block %d", sale.BlockNumber), nil)
	}

	price, err := salePrice(sale)
	if err != nil {
		return domain.SaleEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "invalid price", err)
	}

	block := sale.BlockNumber
	buyer := sale.BuyerAddress
	if buyer == "" {
		buyer = sale.Taker
	}

	return domain.SaleEvent{
		EventBase: domain.EventBase{
			Asset: domain.AssetKey{
				ContractAddress: domain.NormalizeAddress(sale.ContractAddress),
				TokenID:         id,
			},
			CollectionSlug:  nctx.CollectionSlug,
			GameID:          nctx.GameID,
			Chain:           nctx.Chain,
			Source:          domain.SourceAlchemy,
			Timestamp:       ts.UTC(),
			BlockNumber:     &block,
			TransactionHash: strings.ToLower(sale.TransactionHash),
		},
		Buyer:              domain.NormalizeAddress(buyer),
		Seller:             domain.NormalizeAddress(sale.SellerAddress),
		Price:              price,
		Quantity:           qty,
		Marketplace:        sale.Marketplace,
		MarketplaceAddress: domain.NormalizeAddress(sale.MarketplaceAddress),
	}, nil
}

// salePrice is the amount paid by the buyer: the seller proceeds plus every
// protocol and royalty leg paid in the same currency.
func salePrice(sale alchemy.NFTSale) (domain.Price, error) {
	total, ok := new(big.Int).SetString(orZero(sale.SellerFee.Amount), 10)
	if !ok {
		return domain.Price{}, fmt.Errorf("seller fee amount %q: %w", sale.SellerFee.Amount, errNotInteger)
	}

	for _, fee := range []*alchemy.Fee{sale.ProtocolFee, sale.RoyaltyFee} {
		if fee == nil || fee.Amount == "" {
			continue
		}
		if !sameCurrency(sale.SellerFee, *fee) {
			continue
		}
		amount, ok := new(big.Int).SetString(fee.Amount, 10)
		if !ok {
			return domain.Price{}, fmt.Errorf("fee amount %q: %w", fee.Amount, errNotInteger)
		}
		total.Add(total, amount)
	}

	return domain.Price{
		Amount:   total.String(),
		Currency: sale.SellerFee.Symbol,
		Decimals: sale.SellerFee.Decimals,
	}, nil
}

func sameCurrency(a, b alchemy.Fee) bool {
	if a.TokenAddress != "" && b.TokenAddress != "" {
		return strings.EqualFold(a.TokenAddress, b.TokenAddress)
	}
	return strings.EqualFold(a.Symbol, b.Symbol) && a.Decimals == b.Decimals
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// AlchemyTransfer maps an asset transfer into transfer events.
// ERC-1155 batch transfers fan out into one event per token id.
func AlchemyTransfer(t alchemy.AssetTransfer, nctx Context) ([]domain.TransferEvent, error) {
	if t.Hash == "" {
		return nil, domain.NewNormalizationError(domain.SourceAlchemy, "missing transaction hash", nil)
	}
	if t.RawContract.Address == "" {
		return nil, domain.NewNormalizationError(domain.SourceAlchemy, "missing contract address", nil)
	}

	block, err := domain.DecodeHexUint64(t.BlockNum)
	if err != nil {
		return nil, domain.NewNormalizationError(domain.SourceAlchemy, "invalid block number", err)
	}

	if t.Metadata == nil || t.Metadata.BlockTimestamp == "" {
		return nil, domain.NewNormalizationError(domain.SourceAlchemy, "missing block timestamp", nil)
	}
	ts, err := time.Parse(time.RFC3339, t.Metadata.BlockTimestamp)
	if err != nil {
		return nil, domain.NewNormalizationError(domain.SourceAlchemy, "invalid block timestamp", err)
	}

	base := domain.EventBase{
		CollectionSlug:  nctx.CollectionSlug,
		GameID:          nctx.GameID,
		Chain:           nctx.Chain,
		Source:          domain.SourceAlchemy,
		Timestamp:       ts.UTC(),
		BlockNumber:     &block,
		TransactionHash: strings.ToLower(t.Hash),
	}
	contract := domain.NormalizeAddress(t.RawContract.Address)

	event := func(rawID, rawQty string, standard domain.TokenStandard) (domain.TransferEvent, error) {
		id, err := tokenID(rawID)
		if err != nil {
			return domain.TransferEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "invalid token id", err)
		}
		qty, err := quantity(rawQty)
		if err != nil {
			return domain.TransferEvent{}, domain.NewNormalizationError(domain.SourceAlchemy, "invalid quantity", err)
		}
		b := base
		b.Asset = domain.AssetKey{ContractAddress: contract, TokenID: id}
		return domain.TransferEvent{
			EventBase: b,
			From:      domain.NormalizeAddress(t.From),
			To:        domain.NormalizeAddress(t.To),
			Quantity:  qty,
			Standard:  standard,
		}, nil
	}

	switch domain.TransferCategory(t.Category) {
	case domain.CategoryERC721, domain.CategorySpecialNFT:
		raw := deref(t.ERC721TokenID)
		if raw == "" {
			raw = deref(t.TokenID)
		}
		e, err := event(raw, "", domain.StandardERC721)
		if err != nil {
			return nil, err
		}
		return []domain.TransferEvent{e}, nil

	case domain.CategoryERC1155:
		if len(t.ERC1155Metadata) == 0 {
			return nil, domain.NewNormalizationError(domain.SourceAlchemy, "erc1155 transfer without token metadata", nil)
		}
		events := make([]domain.TransferEvent, 0, len(t.ERC1155Metadata))
		for _, m := range t.ERC1155Metadata {
			e, err := event(m.TokenID, m.Value, domain.StandardERC1155)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}
		return events, nil

	default:
		return nil, domain.NewNormalizationError(domain.SourceAlchemy,
			fmt.Sprintf("category %q", t.Category), domain.ErrUnsupportedCategory)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
