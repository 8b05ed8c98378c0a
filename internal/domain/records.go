package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is a token amount kept as the raw integer string reported on chain
// together with its currency and decimals. It is never pre-divided.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Decimals int32  `json:"decimals"`
}

// Value converts the raw amount into a real quantity
func (p Price) Value() (decimal.Decimal, error) {
	return TokenAmount(p.Amount, p.Decimals)
}

// IsZero reports whether the price carries no amount
func (p Price) IsZero() bool {
	return p.Amount == "" || p.Amount == "0"
}

// Collection is a marketplace collection, keyed by its slug
type Collection struct {
	Slug              string     `json:"slug"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Owner             string     `json:"owner"`
	Category          string     `json:"category"`
	GameID            string     `json:"game_id"`
	GameName          string     `json:"game_name"`
	Tags              []string   `json:"tags"`
	IsNSFW            bool       `json:"is_nsfw"`
	EntryFee          *float64   `json:"entry_fee,omitempty"`
	EntryFeeCurrency  string     `json:"entry_fee_currency,omitempty"`
	OpenSeaURL        string     `json:"opensea_url"`
	ProjectURL        string     `json:"project_url"`
	WikiURL           string     `json:"wiki_url"`
	DiscordURL        string     `json:"discord_url"`
	TelegramURL       string     `json:"telegram_url"`
	TwitterUsername   string     `json:"twitter_username"`
	InstagramUsername string     `json:"instagram_username"`
	CreatedDate       *time.Time `json:"created_date,omitempty"`
}

// Contract is an on-chain contract belonging to a collection, keyed by (address, chain)
type Contract struct {
	Address        string `json:"address"`
	Chain          Chain  `json:"chain"`
	CollectionSlug string `json:"collection_slug"`
}

// Fee is a creator or marketplace fee attached to a collection
type Fee struct {
	CollectionSlug string  `json:"collection_slug"`
	Recipient      string  `json:"recipient"`
	Fee            float64 `json:"fee"`
	Required       bool    `json:"required"`
}

// CollectionBundle is the full result of normalizing one collection payload
type CollectionBundle struct {
	Collection Collection
	Contracts  []Contract
	Fees       []Fee
}

// Trait is a single NFT attribute
type Trait struct {
	TraitType   string      `json:"trait_type"`
	DisplayType *string     `json:"display_type,omitempty"`
	MaxValue    interface{} `json:"max_value,omitempty"`
	Value       interface{} `json:"value"`
}

// NFT is a single token, keyed by (contract address, token id)
type NFT struct {
	ContractAddress string        `json:"contract_address"`
	TokenID         string        `json:"token_id"`
	CollectionSlug  string        `json:"collection_slug"`
	GameID          string        `json:"game_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	ImageURL        string        `json:"image_url"`
	MetadataURL     string        `json:"metadata_url"`
	OpenSeaURL      string        `json:"opensea_url"`
	TokenStandard   TokenStandard `json:"token_standard"`
	IsNSFW          bool          `json:"is_nsfw"`
	IsDisabled      bool          `json:"is_disabled"`
	Traits          []Trait       `json:"traits"`
	Status          NFTStatus     `json:"status"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// Key returns the asset key of the NFT
func (n NFT) Key() AssetKey {
	return AssetKey{ContractAddress: n.ContractAddress, TokenID: n.TokenID}
}

// EventBase holds the fields shared by every NFT event variant
type EventBase struct {
	Asset          AssetKey  `json:"asset"`
	CollectionSlug string    `json:"collection_slug"`
	GameID         string    `json:"game_id"`
	Chain          Chain     `json:"chain"`
	Source         Source    `json:"source"`
	Timestamp      time.Time `json:"event_timestamp"`
	BlockNumber    *uint64   `json:"block_number,omitempty"`
	// TransactionHash identifies on-chain events; empty for off-chain listings
	TransactionHash string `json:"transaction_hash,omitempty"`
}

// NFTEvent is a sale, transfer or listing. The concrete variant is one of
// SaleEvent, TransferEvent or ListingEvent.
type NFTEvent interface {
	Type() EventType
	Base() EventBase
	// ExternalID is the natural identifier from the source: tx hash or order hash
	ExternalID() string
}

// SaleEvent is a completed marketplace sale
type SaleEvent struct {
	EventBase
	Buyer              string `json:"buyer"`
	Seller             string `json:"seller"`
	Price              Price  `json:"price"`
	Quantity           string `json:"quantity"`
	Marketplace        string `json:"marketplace"`
	MarketplaceAddress string `json:"marketplace_address"`
}

func (e SaleEvent) Type() EventType    { return EventTypeSale }
func (e SaleEvent) Base() EventBase    { return e.EventBase }
func (e SaleEvent) ExternalID() string { return e.TransactionHash }

// TransferEvent is an on-chain ownership transfer of one token id
type TransferEvent struct {
	EventBase
	From     string        `json:"from"`
	To       string        `json:"to"`
	Quantity string        `json:"quantity"`
	Standard TokenStandard `json:"standard"`
}

func (e TransferEvent) Type() EventType    { return EventTypeTransfer }
func (e TransferEvent) Base() EventBase    { return e.EventBase }
func (e TransferEvent) ExternalID() string { return e.TransactionHash }

// ListingEvent is an open marketplace order
type ListingEvent struct {
	EventBase
	OrderHash      string     `json:"order_hash"`
	Maker          string     `json:"maker"`
	Price          Price      `json:"price"`
	Quantity       string     `json:"quantity"`
	Marketplace    string     `json:"marketplace"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (e ListingEvent) Type() EventType    { return EventTypeListing }
func (e ListingEvent) Base() EventBase    { return e.EventBase }
func (e ListingEvent) ExternalID() string { return e.OrderHash }

// ERC20Transfer is a fungible token movement, keyed by (transaction hash, timestamp)
type ERC20Transfer struct {
	TransactionHash string    `json:"transaction_hash"`
	Timestamp       time.Time `json:"event_timestamp"`
	BlockNumber     uint64    `json:"block_number"`
	ContractAddress string    `json:"contract_address"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Amount          Price     `json:"amount"`
	CollectionSlug  string    `json:"collection_slug"`
	GameID          string    `json:"game_id"`
}

// OwnershipInterval is the period during which a buyer held an asset
type OwnershipInterval struct {
	Asset           AssetKey   `json:"asset"`
	CollectionSlug  string     `json:"collection_slug"`
	GameID          string     `json:"game_id"`
	Buyer           string     `json:"buyer"`
	Seller          string     `json:"seller"`
	Quantity        string     `json:"quantity"`
	TransactionHash string     `json:"transaction_hash"`
	BuyTime         time.Time  `json:"buy_time"`
	SellTime        *time.Time `json:"sell_time,omitempty"`
}

// End returns the sell time, or now while the asset is still held
func (o OwnershipInterval) End(now time.Time) time.Time {
	if o.SellTime != nil {
		return *o.SellTime
	}
	return now
}

// DaysHeld returns the holding duration in fractional days
func (o OwnershipInterval) DaysHeld(now time.Time) float64 {
	return o.End(now).Sub(o.BuyTime).Hours() / 24
}

// NFTDynamic is a point-in-time ROI snapshot of one asset for one reward token
type NFTDynamic struct {
	Asset          AssetKey  `json:"asset"`
	CollectionSlug string    `json:"collection_slug"`
	GameID         string    `json:"game_id"`
	Symbol         string    `json:"symbol"`
	Earnings       float64   `json:"earnings"`
	DaysHeld       float64   `json:"days_held"`
	ROI            float64   `json:"roi"`
	Timestamp      time.Time `json:"event_timestamp"`
}

// MarketStats are collection level statistics reported by the marketplace
type MarketStats struct {
	FloorPrice       *float64 `json:"floor_price,omitempty"`
	FloorPriceSymbol string   `json:"floor_price_symbol,omitempty"`
	NumOwners        int64    `json:"num_owners"`
	MarketCap        float64  `json:"market_cap"`
	TotalVolume      float64  `json:"total_volume"`
	TotalSales       int64    `json:"total_sales"`
}

// SaleStats are aggregates over the stored sale events of a collection
type SaleStats struct {
	Count        int64   `json:"count"`
	Volume       float64 `json:"volume"`
	AveragePrice float64 `json:"average_price"`
	Currency     string  `json:"currency"`
}

// CollectionDynamic is a point-in-time aggregate snapshot of a collection
type CollectionDynamic struct {
	CollectionSlug   string             `json:"collection_slug"`
	GameID           string             `json:"game_id"`
	Timestamp        time.Time          `json:"event_timestamp"`
	ROI              map[string]float64 `json:"roi"`
	AssetsMeasured   int                `json:"assets_measured"`
	Sales            SaleStats          `json:"sales"`
	FloorPrice       *float64           `json:"floor_price,omitempty"`
	FloorPriceSymbol string             `json:"floor_price_symbol,omitempty"`
	NumOwners        int64              `json:"num_owners"`
	MarketCap        float64            `json:"market_cap"`
	Social           SocialMetrics      `json:"social"`
}

// SocialMetrics are community and activity counters of a game or collection.
// A nil field was not available when the snapshot was taken.
type SocialMetrics struct {
	DailyUAW         *int64 `json:"daily_uaw,omitempty"`
	MonthlyUAW       *int64 `json:"monthly_uaw,omitempty"`
	TwitterFollowers *int64 `json:"twitter_followers,omitempty"`
	DiscordMembers   *int64 `json:"discord_members,omitempty"`
}

// RewardToken is a fungible token a game pays out to NFT holders
type RewardToken struct {
	ContractAddress string `json:"contract_address"`
	Symbol          string `json:"symbol"`
	Decimals        int32  `json:"decimals"`
	Chain           Chain  `json:"chain"`
}

// Game groups collections sharing a set of reward tokens
type Game struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Tags             []string      `json:"tags"`
	EntryFee         *float64      `json:"entry_fee,omitempty"`
	EntryFeeCurrency string        `json:"entry_fee_currency,omitempty"`
	Collections      []string      `json:"collections"`
	RewardTokens     []RewardToken `json:"reward_tokens"`
	// DappRadarID identifies the game on DappRadar for active wallet counts
	DappRadarID string `json:"dappradar_id,omitempty"`
}

// RewardContracts returns the normalized reward token contract addresses
func (g Game) RewardContracts() []string {
	contracts := make([]string, 0, len(g.RewardTokens))
	for _, t := range g.RewardTokens {
		contracts = append(contracts, NormalizeAddress(t.ContractAddress))
	}
	return contracts
}
