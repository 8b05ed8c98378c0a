package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// NFTEvent represents the nft_events table - append-only sales, transfers and listings.
// Natural key is (contract_address, token_id, event_timestamp, event_type, external_id).
type NFTEvent struct {
	// ID is the internal database primary key
	ID              uint64           `gorm:"column:id;primaryKey;autoIncrement"`
	ContractAddress string           `gorm:"column:contract_address;not null;type:text;uniqueIndex:idx_nft_events_natural_key,priority:1"`
	TokenID         string           `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_nft_events_natural_key,priority:2"`
	EventTimestamp  time.Time        `gorm:"column:event_timestamp;not null;type:timestamptz;uniqueIndex:idx_nft_events_natural_key,priority:3"`
	EventType       domain.EventType `gorm:"column:event_type;not null;type:text;uniqueIndex:idx_nft_events_natural_key,priority:4"`
	// ExternalID is the transaction hash for on-chain events, the order hash for listings
	ExternalID     string        `gorm:"column:external_id;not null;type:text;uniqueIndex:idx_nft_events_natural_key,priority:5"`
	CollectionSlug string        `gorm:"column:collection_slug;not null;type:text;index:idx_nft_events_collection_type"`
	GameID         string        `gorm:"column:game_id;type:text"`
	Chain          domain.Chain  `gorm:"column:chain;not null;type:text"`
	Source         domain.Source `gorm:"column:source;not null;type:text"`
	BlockNumber    *uint64       `gorm:"column:block_number;type:bigint"`
	// FromAddress is the seller, sender or maker
	FromAddress string `gorm:"column:from_address;type:text"`
	// ToAddress is the buyer or recipient; empty for listings
	ToAddress string `gorm:"column:to_address;type:text"`
	// PriceAmount is the raw integer amount, never divided by decimals
	PriceAmount   *string `gorm:"column:price_amount;type:numeric(78,0)"`
	PriceCurrency string  `gorm:"column:price_currency;type:text"`
	PriceDecimals *int32  `gorm:"column:price_decimals;type:integer"`
	Quantity      string  `gorm:"column:quantity;not null;default:'1';type:numeric(78,0)"`
	Marketplace   string  `gorm:"column:marketplace;type:text"`
	// Payload holds the variant specific fields as JSON
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NFTEvent model
func (NFTEvent) TableName() string {
	return "nft_events"
}

func (NFTEvent) ConflictColumns() []string {
	return []string{"contract_address", "token_id", "event_timestamp", "event_type", "external_id"}
}

// UpdateColumns is empty: events are immutable
func (NFTEvent) UpdateColumns() []string {
	return nil
}

func (e NFTEvent) NaturalKey() (string, bool) {
	if e.EventTimestamp.IsZero() {
		return "", false
	}
	return joinKey(e.ContractAddress, e.TokenID, e.EventTimestamp.UTC().Format(time.RFC3339Nano), string(e.EventType), e.ExternalID)
}

// ERC20Transfer represents the erc20_transfers table - keyed by (transaction_hash, event_timestamp)
type ERC20Transfer struct {
	TransactionHash string    `gorm:"column:transaction_hash;primaryKey;type:text"`
	EventTimestamp  time.Time `gorm:"column:event_timestamp;primaryKey;type:timestamptz"`
	BlockNumber     uint64    `gorm:"column:block_number;not null;type:bigint"`
	ContractAddress string    `gorm:"column:contract_address;not null;type:text;index:idx_erc20_transfers_contract_to,priority:1"`
	FromAddress     string    `gorm:"column:from_address;not null;type:text"`
	ToAddress       string    `gorm:"column:to_address;not null;type:text;index:idx_erc20_transfers_contract_to,priority:2"`
	// Amount is the raw integer amount, never divided by decimals
	Amount         string    `gorm:"column:amount;not null;type:numeric(78,0)"`
	Symbol         string    `gorm:"column:symbol;type:text"`
	Decimals       int32     `gorm:"column:decimals;not null;type:integer"`
	CollectionSlug string    `gorm:"column:collection_slug;type:text"`
	GameID         string    `gorm:"column:game_id;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

func (ERC20Transfer) TableName() string {
	return "erc20_transfers"
}

func (ERC20Transfer) ConflictColumns() []string {
	return []string{"transaction_hash", "event_timestamp"}
}

func (ERC20Transfer) UpdateColumns() []string {
	return nil
}

func (t ERC20Transfer) NaturalKey() (string, bool) {
	if t.EventTimestamp.IsZero() {
		return "", false
	}
	return joinKey(t.TransactionHash, t.EventTimestamp.UTC().Format(time.RFC3339Nano))
}
