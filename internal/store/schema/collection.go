package schema

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// Collection represents the collections table - keyed by marketplace slug
type Collection struct {
	Slug              string         `gorm:"column:slug;primaryKey;type:text"`
	Name              string         `gorm:"column:name;not null;type:text"`
	Description       string         `gorm:"column:description;type:text"`
	Owner             string         `gorm:"column:owner;type:text"`
	Category          string         `gorm:"column:category;type:text"`
	GameID            string         `gorm:"column:game_id;type:text;index:idx_collections_game_id"`
	GameName          string         `gorm:"column:game_name;type:text"`
	Tags              pq.StringArray `gorm:"column:tags;type:text[]"`
	IsNSFW            bool           `gorm:"column:is_nsfw;not null;default:false"`
	EntryFee          *float64       `gorm:"column:entry_fee;type:double precision"`
	EntryFeeCurrency  string         `gorm:"column:entry_fee_currency;type:text"`
	OpenSeaURL        string         `gorm:"column:opensea_url;type:text"`
	ProjectURL        string         `gorm:"column:project_url;type:text"`
	WikiURL           string         `gorm:"column:wiki_url;type:text"`
	DiscordURL        string         `gorm:"column:discord_url;type:text"`
	TelegramURL       string         `gorm:"column:telegram_url;type:text"`
	TwitterUsername   string         `gorm:"column:twitter_username;type:text"`
	InstagramUsername string         `gorm:"column:instagram_username;type:text"`
	// CreatedDate is the marketplace reported creation time
	CreatedDate *time.Time `gorm:"column:created_date;type:timestamptz"`
	// UpdatedAt is the timestamp when descriptive metadata was last refreshed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (Collection) TableName() string {
	return "collections"
}

func (Collection) ConflictColumns() []string {
	return []string{"slug"}
}

func (Collection) UpdateColumns() []string {
	return []string{"name", "description", "owner", "category", "game_id", "game_name", "tags", "is_nsfw",
		"entry_fee", "entry_fee_currency", "opensea_url", "project_url", "wiki_url", "discord_url",
		"telegram_url", "twitter_username", "instagram_username", "created_date", "updated_at"}
}

func (c Collection) NaturalKey() (string, bool) {
	return joinKey(c.Slug)
}

// Contract represents the contracts table - many per collection
type Contract struct {
	Address        string       `gorm:"column:address;primaryKey;type:text"`
	Chain          domain.Chain `gorm:"column:chain;primaryKey;type:text"`
	CollectionSlug string       `gorm:"column:collection_slug;not null;type:text;index:idx_contracts_collection_slug"`
}

func (Contract) TableName() string {
	return "contracts"
}

func (Contract) ConflictColumns() []string {
	return []string{"address", "chain"}
}

func (Contract) UpdateColumns() []string {
	return []string{"collection_slug"}
}

func (c Contract) NaturalKey() (string, bool) {
	return joinKey(c.Address, string(c.Chain))
}

// Fee represents the fees table - creator and marketplace fees of a collection
type Fee struct {
	CollectionSlug string  `gorm:"column:collection_slug;primaryKey;type:text"`
	Recipient      string  `gorm:"column:recipient;primaryKey;type:text"`
	Fee            float64 `gorm:"column:fee;not null;type:double precision"`
	Required       bool    `gorm:"column:required;not null;default:false"`
}

func (Fee) TableName() string {
	return "fees"
}

func (Fee) ConflictColumns() []string {
	return []string{"collection_slug", "recipient"}
}

func (Fee) UpdateColumns() []string {
	return []string{"fee", "required"}
}

func (f Fee) NaturalKey() (string, bool) {
	return joinKey(f.CollectionSlug, f.Recipient)
}

// joinKey builds a natural key string; ok is false when any part is empty
func joinKey(parts ...string) (string, bool) {
	for _, p := range parts {
		if p == "" {
			return "", false
		}
	}
	return strings.Join(parts, "|"), true
}
