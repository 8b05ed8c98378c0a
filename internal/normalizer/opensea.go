package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/providers/opensea"
)

const (
	openSeaMarketplace = "opensea"
	dateLayout         = "2006-01-02"
)

// OpenSeaCollection maps a collection payload and its contract and fee lists.
// game is the registry entry the collection belongs to, nil when unknown.
func OpenSeaCollection(c opensea.Collection, game *domain.Game) (domain.CollectionBundle, error) {
	if c.Collection == "" {
		return domain.CollectionBundle{}, domain.NewNormalizationError(domain.SourceOpenSea, "missing collection slug", nil)
	}

	collection := domain.Collection{
		Slug:              c.Collection,
		Name:              c.Name,
		Description:       c.Description,
		Owner:             domain.NormalizeAddress(c.Owner),
		Category:          c.Category,
		IsNSFW:            c.IsNSFW,
		OpenSeaURL:        c.OpenSeaURL,
		ProjectURL:        c.ProjectURL,
		WikiURL:           c.WikiURL,
		DiscordURL:        c.DiscordURL,
		TelegramURL:       c.TelegramURL,
		TwitterUsername:   c.TwitterUsername,
		InstagramUsername: c.InstagramUsername,
	}
	if game != nil {
		collection.GameID = game.ID
		collection.GameName = game.Name
		collection.Tags = game.Tags
		collection.EntryFee = game.EntryFee
		collection.EntryFeeCurrency = game.EntryFeeCurrency
	}

	if c.CreatedDate != "" {
		created, err := parseDate(c.CreatedDate)
		if err != nil {
			return domain.CollectionBundle{}, domain.NewNormalizationError(domain.SourceOpenSea, "invalid created date", err)
		}
		collection.CreatedDate = &created
	}

	contracts := make([]domain.Contract, 0, len(c.Contracts))
	seen := make(map[string]bool, len(c.Contracts))
	for _, ct := range c.Contracts {
		if ct.Address == "" {
			continue
		}
		contract := domain.Contract{
			Address:        domain.NormalizeAddress(ct.Address),
			Chain:          domain.Chain(strings.ToLower(ct.Chain)),
			CollectionSlug: c.Collection,
		}
		key := contract.Address + "/" + string(contract.Chain)
		if seen[key] {
			continue
		}
		seen[key] = true
		contracts = append(contracts, contract)
	}

	fees := make([]domain.Fee, 0, len(c.Fees))
	for _, f := range c.Fees {
		fees = append(fees, domain.Fee{
			CollectionSlug: c.Collection,
			Recipient:      domain.NormalizeAddress(f.Recipient),
			Fee:            f.Fee,
			Required:       f.Required,
		})
	}

	return domain.CollectionBundle{Collection: collection, Contracts: contracts, Fees: fees}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	// OpenSea also reports naive timestamps without a zone
	t, err := time.Parse("2006-01-02T15:04:05.999999", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t.UTC(), nil
}

// OpenSeaNFT maps an NFT payload. NFTs that arrive with traits are already
// enriched; the rest start in the new status.
func OpenSeaNFT(n opensea.NFTMetadata, nctx Context) (domain.NFT, error) {
	if n.Contract == "" {
		return domain.NFT{}, domain.NewNormalizationError(domain.SourceOpenSea, "missing contract address", nil)
	}
	id, err := tokenID(n.Identifier)
	if err != nil {
		return domain.NFT{}, domain.NewNormalizationError(domain.SourceOpenSea, "invalid identifier", err)
	}

	slug := n.Collection
	if slug == "" {
		slug = nctx.CollectionSlug
	}

	nft := domain.NFT{
		ContractAddress: domain.NormalizeAddress(n.Contract),
		TokenID:         id,
		CollectionSlug:  slug,
		GameID:          nctx.GameID,
		Name:            deref(n.Name),
		Description:     deref(n.Description),
		ImageURL:        deref(n.ImageURL),
		MetadataURL:     deref(n.MetadataURL),
		OpenSeaURL:      deref(n.OpenSeaURL),
		TokenStandard:   domain.TokenStandard(strings.ToLower(n.TokenStandard)),
		IsNSFW:          n.IsNSFW,
		IsDisabled:      n.IsDisabled,
		Traits:          OpenSeaTraits(n.Traits),
		Status:          domain.NFTStatusNew,
	}
	if len(nft.Traits) > 0 {
		nft.Status = domain.NFTStatusCompleted
	}
	if n.UpdatedAt != "" {
		if updated, err := parseDate(n.UpdatedAt); err == nil {
			nft.UpdatedAt = &updated
		}
	}
	return nft, nil
}

// OpenSeaTraits maps the trait list of an NFT
func OpenSeaTraits(traits []opensea.Trait) []domain.Trait {
	out := make([]domain.Trait, 0, len(traits))
	for _, t := range traits {
		out = append(out, domain.Trait{
			TraitType:   t.TraitType,
			DisplayType: t.DisplayType,
			MaxValue:    t.MaxValue,
			Value:       t.Value,
		})
	}
	return out
}

// OpenSeaListing maps an order event into a listing event
func OpenSeaListing(e opensea.AssetEvent, nctx Context) (domain.ListingEvent, error) {
	if e.EventType != "order" && e.EventType != "listing" {
		return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea,
			fmt.Sprintf("event type %q is not a listing", e.EventType), nil)
	}
	if e.OrderHash == "" {
		return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea, "missing order hash", nil)
	}
	if e.Asset == nil || e.Asset.Contract == "" {
		return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea, "missing asset", nil)
	}
	if e.EventTimestamp <= 0 {
		return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea, "missing event timestamp", nil)
	}

	id, err := tokenID(e.Asset.Identifier)
	if err != nil {
		return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea, "invalid identifier", err)
	}

	var price domain.Price
	if e.Payment != nil {
		amount, err := tokenID(orZero(e.Payment.Quantity))
		if err != nil {
			return domain.ListingEvent{}, domain.NewNormalizationError(domain.SourceOpenSea, "invalid payment quantity", err)
		}
		price = domain.Price{Amount: amount, Currency: e.Payment.Symbol, Decimals: e.Payment.Decimals}
	}

	chain := nctx.Chain
	if e.Chain != "" {
		chain = domain.Chain(strings.ToLower(e.Chain))
	}

	qty := e.Quantity
	if qty <= 0 {
		qty = 1
	}

	return domain.ListingEvent{
		EventBase: domain.EventBase{
			Asset: domain.AssetKey{
				ContractAddress: domain.NormalizeAddress(e.Asset.Contract),
				TokenID:         id,
			},
			CollectionSlug: nctx.CollectionSlug,
			GameID:         nctx.GameID,
			Chain:          chain,
			Source:         domain.SourceOpenSea,
			Timestamp:      time.Unix(e.EventTimestamp, 0).UTC(),
		},
		OrderHash:      strings.ToLower(e.OrderHash),
		Maker:          domain.NormalizeAddress(e.Maker),
		Price:          price,
		Quantity:       strconv.FormatInt(qty, 10),
		Marketplace:    openSeaMarketplace,
		StartDate:      unixPtr(e.StartDate),
		ExpirationDate: unixPtr(e.ExpirationDate),
	}, nil
}

func unixPtr(v *int64) *time.Time {
	if v == nil || *v <= 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

// OpenSeaStats maps the all-time statistics of a collection
func OpenSeaStats(s opensea.CollectionStats) domain.MarketStats {
	return domain.MarketStats{
		FloorPrice:       s.Total.FloorPrice,
		FloorPriceSymbol: s.Total.FloorPriceSymbol,
		NumOwners:        s.Total.NumOwners,
		MarketCap:        s.Total.MarketCap,
		TotalVolume:      s.Total.Volume,
		TotalSales:       s.Total.Sales,
	}
}
