package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/store/schema"
)

func collectionRow(c domain.Collection) schema.Collection {
	return schema.Collection{
		Slug:              c.Slug,
		Name:              c.Name,
		Description:       c.Description,
		Owner:             c.Owner,
		Category:          c.Category,
		GameID:            c.GameID,
		GameName:          c.GameName,
		Tags:              c.Tags,
		IsNSFW:            c.IsNSFW,
		EntryFee:          c.EntryFee,
		EntryFeeCurrency:  c.EntryFeeCurrency,
		OpenSeaURL:        c.OpenSeaURL,
		ProjectURL:        c.ProjectURL,
		WikiURL:           c.WikiURL,
		DiscordURL:        c.DiscordURL,
		TelegramURL:       c.TelegramURL,
		TwitterUsername:   c.TwitterUsername,
		InstagramUsername: c.InstagramUsername,
		CreatedDate:       c.CreatedDate,
	}
}

func collectionFromRow(r schema.Collection) domain.Collection {
	return domain.Collection{
		Slug:              r.Slug,
		Name:              r.Name,
		Description:       r.Description,
		Owner:             r.Owner,
		Category:          r.Category,
		GameID:            r.GameID,
		GameName:          r.GameName,
		Tags:              r.Tags,
		IsNSFW:            r.IsNSFW,
		EntryFee:          r.EntryFee,
		EntryFeeCurrency:  r.EntryFeeCurrency,
		OpenSeaURL:        r.OpenSeaURL,
		ProjectURL:        r.ProjectURL,
		WikiURL:           r.WikiURL,
		DiscordURL:        r.DiscordURL,
		TelegramURL:       r.TelegramURL,
		TwitterUsername:   r.TwitterUsername,
		InstagramUsername: r.InstagramUsername,
		CreatedDate:       r.CreatedDate,
	}
}

func nftRow(n domain.NFT) (schema.NFT, error) {
	traits, err := traitsJSON(n.Traits)
	if err != nil {
		return schema.NFT{}, err
	}
	status := n.Status
	if status == "" {
		status = domain.NFTStatusNew
	}
	return schema.NFT{
		ContractAddress: n.ContractAddress,
		TokenID:         n.TokenID,
		CollectionSlug:  n.CollectionSlug,
		GameID:          n.GameID,
		Name:            n.Name,
		Description:     n.Description,
		ImageURL:        n.ImageURL,
		MetadataURL:     n.MetadataURL,
		OpenSeaURL:      n.OpenSeaURL,
		TokenStandard:   n.TokenStandard,
		IsNSFW:          n.IsNSFW,
		IsDisabled:      n.IsDisabled,
		Traits:          traits,
		Status:          status,
		UpdatedAt:       n.UpdatedAt,
	}, nil
}

func traitsJSON(traits []domain.Trait) (datatypes.JSON, error) {
	if len(traits) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(traits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal traits: %w", err)
	}
	return datatypes.JSON(b), nil
}

func nftFromRow(r schema.NFT) (domain.NFT, error) {
	n := domain.NFT{
		ContractAddress: r.ContractAddress,
		TokenID:         r.TokenID,
		CollectionSlug:  r.CollectionSlug,
		GameID:          r.GameID,
		Name:            r.Name,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		MetadataURL:     r.MetadataURL,
		OpenSeaURL:      r.OpenSeaURL,
		TokenStandard:   r.TokenStandard,
		IsNSFW:          r.IsNSFW,
		IsDisabled:      r.IsDisabled,
		Status:          r.Status,
		UpdatedAt:       r.UpdatedAt,
	}
	if len(r.Traits) > 0 {
		if err := json.Unmarshal(r.Traits, &n.Traits); err != nil {
			return domain.NFT{}, fmt.Errorf("failed to unmarshal traits: %w", err)
		}
	}
	return n, nil
}

// eventRow flattens an event variant into a row; the full variant is kept in the payload
func eventRow(e domain.NFTEvent) (schema.NFTEvent, error) {
	base := e.Base()
	payload, err := json.Marshal(e)
	if err != nil {
		return schema.NFTEvent{}, fmt.Errorf("failed to marshal %s event: %w", e.Type(), err)
	}

	row := schema.NFTEvent{
		ContractAddress: base.Asset.ContractAddress,
		TokenID:         base.Asset.TokenID,
		EventTimestamp:  base.Timestamp.UTC(),
		EventType:       e.Type(),
		ExternalID:      e.ExternalID(),
		CollectionSlug:  base.CollectionSlug,
		GameID:          base.GameID,
		Chain:           base.Chain,
		Source:          base.Source,
		BlockNumber:     base.BlockNumber,
		Payload:         datatypes.JSON(payload),
	}

	setPrice := func(p domain.Price) {
		if p.Amount == "" {
			return
		}
		amount, decimals := p.Amount, p.Decimals
		row.PriceAmount = &amount
		row.PriceCurrency = p.Currency
		row.PriceDecimals = &decimals
	}

	switch v := e.(type) {
	case domain.SaleEvent:
		row.FromAddress = v.Seller
		row.ToAddress = v.Buyer
		row.Quantity = v.Quantity
		row.Marketplace = v.Marketplace
		setPrice(v.Price)
	case domain.TransferEvent:
		row.FromAddress = v.From
		row.ToAddress = v.To
		row.Quantity = v.Quantity
	case domain.ListingEvent:
		row.FromAddress = v.Maker
		row.Quantity = v.Quantity
		row.Marketplace = v.Marketplace
		setPrice(v.Price)
	default:
		return schema.NFTEvent{}, fmt.Errorf("unknown event variant %T", e)
	}
	if row.Quantity == "" {
		row.Quantity = "1"
	}
	return row, nil
}

func eventFromRow(r schema.NFTEvent) (domain.NFTEvent, error) {
	switch r.EventType {
	case domain.EventTypeSale:
		var e domain.SaleEvent
		if err := json.Unmarshal(r.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sale event %d: %w", r.ID, err)
		}
		return e, nil
	case domain.EventTypeTransfer:
		var e domain.TransferEvent
		if err := json.Unmarshal(r.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transfer event %d: %w", r.ID, err)
		}
		return e, nil
	case domain.EventTypeListing:
		var e domain.ListingEvent
		if err := json.Unmarshal(r.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing event %d: %w", r.ID, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", r.EventType)
	}
}

func erc20Row(t domain.ERC20Transfer) schema.ERC20Transfer {
	return schema.ERC20Transfer{
		TransactionHash: t.TransactionHash,
		EventTimestamp:  t.Timestamp.UTC(),
		BlockNumber:     t.BlockNumber,
		ContractAddress: t.ContractAddress,
		FromAddress:     t.From,
		ToAddress:       t.To,
		Amount:          t.Amount.Amount,
		Symbol:          t.Amount.Currency,
		Decimals:        t.Amount.Decimals,
		CollectionSlug:  t.CollectionSlug,
		GameID:          t.GameID,
	}
}

func erc20FromRow(r schema.ERC20Transfer) domain.ERC20Transfer {
	return domain.ERC20Transfer{
		TransactionHash: r.TransactionHash,
		Timestamp:       r.EventTimestamp.UTC(),
		BlockNumber:     r.BlockNumber,
		ContractAddress: r.ContractAddress,
		From:            r.FromAddress,
		To:              r.ToAddress,
		Amount:          domain.Price{Amount: r.Amount, Currency: r.Symbol, Decimals: r.Decimals},
		CollectionSlug:  r.CollectionSlug,
		GameID:          r.GameID,
	}
}

func ownershipFromRow(r schema.NFTOwnership) domain.OwnershipInterval {
	interval := domain.OwnershipInterval{
		Asset:           domain.AssetKey{ContractAddress: r.ContractAddress, TokenID: r.TokenID},
		CollectionSlug:  r.CollectionSlug,
		GameID:          r.GameID,
		Buyer:           r.Buyer,
		Seller:          r.Seller,
		Quantity:        r.Quantity,
		TransactionHash: r.TransactionHash,
		BuyTime:         r.BuyTime.UTC(),
	}
	if r.SellTime != nil {
		sell := r.SellTime.UTC()
		interval.SellTime = &sell
	}
	return interval
}

func nftDynamicRow(d domain.NFTDynamic) schema.NFTDynamic {
	return schema.NFTDynamic{
		ContractAddress: d.Asset.ContractAddress,
		TokenID:         d.Asset.TokenID,
		Symbol:          d.Symbol,
		EventTimestamp:  d.Timestamp.UTC(),
		CollectionSlug:  d.CollectionSlug,
		GameID:          d.GameID,
		Earnings:        d.Earnings,
		DaysHeld:        d.DaysHeld,
		ROI:             d.ROI,
	}
}

func nftDynamicFromRow(r schema.NFTDynamic) domain.NFTDynamic {
	return domain.NFTDynamic{
		Asset:          domain.AssetKey{ContractAddress: r.ContractAddress, TokenID: r.TokenID},
		CollectionSlug: r.CollectionSlug,
		GameID:         r.GameID,
		Symbol:         r.Symbol,
		Earnings:       r.Earnings,
		DaysHeld:       r.DaysHeld,
		ROI:            r.ROI,
		Timestamp:      r.EventTimestamp.UTC(),
	}
}

func collectionDynamicRow(d domain.CollectionDynamic) schema.CollectionDynamic {
	roi := make(datatypes.JSONMap, len(d.ROI))
	for symbol, v := range d.ROI {
		roi[symbol] = v
	}
	return schema.CollectionDynamic{
		CollectionSlug:   d.CollectionSlug,
		EventTimestamp:   d.Timestamp.UTC(),
		GameID:           d.GameID,
		ROI:              roi,
		AssetsMeasured:   d.AssetsMeasured,
		SalesCount:       d.Sales.Count,
		SalesVolume:      d.Sales.Volume,
		AveragePrice:     d.Sales.AveragePrice,
		PricingCurrency:  d.Sales.Currency,
		FloorPrice:       d.FloorPrice,
		FloorPriceSymbol: d.FloorPriceSymbol,
		NumOwners:        d.NumOwners,
		MarketCap:        d.MarketCap,
		DailyUAW:         d.Social.DailyUAW,
		MonthlyUAW:       d.Social.MonthlyUAW,
		TwitterFollowers: d.Social.TwitterFollowers,
		DiscordUsers:     d.Social.DiscordMembers,
	}
}

func collectionDynamicFromRow(r schema.CollectionDynamic) domain.CollectionDynamic {
	roi := make(map[string]float64, len(r.ROI))
	for symbol, v := range r.ROI {
		if f, ok := v.(float64); ok {
			roi[symbol] = f
		}
	}
	return domain.CollectionDynamic{
		CollectionSlug: r.CollectionSlug,
		GameID:         r.GameID,
		Timestamp:      r.EventTimestamp.UTC(),
		ROI:            roi,
		AssetsMeasured: r.AssetsMeasured,
		Sales: domain.SaleStats{
			Count:        r.SalesCount,
			Volume:       r.SalesVolume,
			AveragePrice: r.AveragePrice,
			Currency:     r.PricingCurrency,
		},
		FloorPrice:       r.FloorPrice,
		FloorPriceSymbol: r.FloorPriceSymbol,
		NumOwners:        r.NumOwners,
		MarketCap:        r.MarketCap,
		Social: domain.SocialMetrics{
			DailyUAW:         r.DailyUAW,
			MonthlyUAW:       r.MonthlyUAW,
			TwitterFollowers: r.TwitterFollowers,
			DiscordMembers:   r.DiscordUsers,
		},
	}
}
