package schema

import (
	"time"

	"gorm.io/datatypes"
)

// NFTDynamic represents the nft_dynamics table - append-only ROI snapshots per (asset, symbol)
type NFTDynamic struct {
	ContractAddress string    `gorm:"column:contract_address;primaryKey;type:text"`
	TokenID         string    `gorm:"column:token_id;primaryKey;type:text"`
	Symbol          string    `gorm:"column:symbol;primaryKey;type:text"`
	EventTimestamp  time.Time `gorm:"column:event_timestamp;primaryKey;type:timestamptz"`
	CollectionSlug  string    `gorm:"column:collection_slug;not null;type:text;index:idx_nft_dynamics_collection"`
	GameID          string    `gorm:"column:game_id;type:text"`
	Earnings        float64   `gorm:"column:earnings;not null;type:double precision"`
	DaysHeld        float64   `gorm:"column:days_held;not null;type:double precision"`
	ROI             float64   `gorm:"column:roi;not null;type:double precision"`
}

func (NFTDynamic) TableName() string {
	return "nft_dynamics"
}

func (NFTDynamic) ConflictColumns() []string {
	return []string{"contract_address", "token_id", "symbol", "event_timestamp"}
}

func (NFTDynamic) UpdateColumns() []string {
	return nil
}

func (d NFTDynamic) NaturalKey() (string, bool) {
	if d.EventTimestamp.IsZero() {
		return "", false
	}
	return joinKey(d.ContractAddress, d.TokenID, d.Symbol, d.EventTimestamp.UTC().Format(time.RFC3339Nano))
}

// CollectionDynamic represents the collection_dynamics table - append-only aggregate snapshots
type CollectionDynamic struct {
	CollectionSlug string    `gorm:"column:collection_slug;primaryKey;type:text"`
	EventTimestamp time.Time `gorm:"column:event_timestamp;primaryKey;type:timestamptz"`
	GameID         string    `gorm:"column:game_id;type:text"`
	// ROI maps reward token symbol to the mean per-asset ROI
	ROI              datatypes.JSONMap `gorm:"column:roi;type:jsonb"`
	AssetsMeasured   int               `gorm:"column:assets_measured;not null;default:0"`
	SalesCount       int64             `gorm:"column:sales_count;not null;default:0"`
	SalesVolume      float64           `gorm:"column:sales_volume;not null;default:0;type:double precision"`
	AveragePrice     float64           `gorm:"column:average_price;not null;default:0;type:double precision"`
	PricingCurrency  string            `gorm:"column:pricing_currency;type:text"`
	FloorPrice       *float64          `gorm:"column:floor_price;type:double precision"`
	FloorPriceSymbol string            `gorm:"column:floor_price_symbol;type:text"`
	NumOwners        int64             `gorm:"column:num_owners;not null;default:0"`
	MarketCap        float64           `gorm:"column:market_cap;not null;default:0;type:double precision"`
	DailyUAW         *int64            `gorm:"column:daily_uaw;type:bigint"`
	MonthlyUAW       *int64            `gorm:"column:monthly_uaw;type:bigint"`
	TwitterFollowers *int64            `gorm:"column:twitter_followers;type:bigint"`
	DiscordUsers     *int64            `gorm:"column:discord_users;type:bigint"`
}

func (CollectionDynamic) TableName() string {
	return "collection_dynamics"
}

func (CollectionDynamic) ConflictColumns() []string {
	return []string{"collection_slug", "event_timestamp"}
}

func (CollectionDynamic) UpdateColumns() []string {
	return nil
}

func (d CollectionDynamic) NaturalKey() (string, bool) {
	if d.EventTimestamp.IsZero() {
		return "", false
	}
	return joinKey(d.CollectionSlug, d.EventTimestamp.UTC().Format(time.RFC3339Nano))
}
