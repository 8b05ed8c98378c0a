package schema

import "time"

// NFTOwnership represents the nft_ownerships table - the periods during which an address held an NFT
type NFTOwnership struct {
	// ID is the internal database primary key
	ID              uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ContractAddress string `gorm:"column:contract_address;not null;type:text;uniqueIndex:idx_nft_ownerships_interval,priority:1"`
	TokenID         string `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_nft_ownerships_interval,priority:2"`
	// Buyer is the address that acquired the token
	Buyer string `gorm:"column:buyer;not null;type:text;uniqueIndex:idx_nft_ownerships_interval,priority:3"`
	// Seller is the address the token was acquired from (zero address for mints)
	Seller          string `gorm:"column:seller;type:text"`
	Quantity        string `gorm:"column:quantity;not null;default:'1';type:numeric(78,0)"`
	TransactionHash string `gorm:"column:transaction_hash;type:text"`
	CollectionSlug  string `gorm:"column:collection_slug;not null;type:text;index:idx_nft_ownerships_collection"`
	GameID          string `gorm:"column:game_id;type:text"`
	// BuyTime is the timestamp of the transfer in
	BuyTime time.Time `gorm:"column:buy_time;not null;type:timestamptz;uniqueIndex:idx_nft_ownerships_interval,priority:4"`
	// SellTime is the timestamp of the transfer out
	// NULL means the address still holds the token
	SellTime  *time.Time `gorm:"column:sell_time;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NFTOwnership model
func (NFTOwnership) TableName() string {
	return "nft_ownerships"
}
