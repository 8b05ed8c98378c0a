package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// NFT represents the nfts table - one row per token, keyed by (contract_address, token_id)
type NFT struct {
	// ContractAddress is the lowercase address of the token contract
	ContractAddress string `gorm:"column:contract_address;primaryKey;type:text"`
	// TokenID is the token id within the contract (string to support uint256 values)
	TokenID string `gorm:"column:token_id;primaryKey;type:text"`
	// CollectionSlug references the collection the token belongs to
	CollectionSlug string `gorm:"column:collection_slug;not null;type:text;index:idx_nfts_collection_status,priority:1"`
	GameID         string `gorm:"column:game_id;type:text"`
	Name           string `gorm:"column:name;type:text"`
	Description    string `gorm:"column:description;type:text"`
	ImageURL       string `gorm:"column:image_url;type:text"`
	MetadataURL    string `gorm:"column:metadata_url;type:text"`
	OpenSeaURL     string `gorm:"column:opensea_url;type:text"`
	// TokenStandard is erc721 or erc1155
	TokenStandard domain.TokenStandard `gorm:"column:token_standard;type:text"`
	IsNSFW        bool                 `gorm:"column:is_nsfw;not null;default:false"`
	IsDisabled    bool                 `gorm:"column:is_disabled;not null;default:false"`
	// Traits holds the trait list as reported by the marketplace
	Traits datatypes.JSON `gorm:"column:traits;type:jsonb"`
	// Status is the trait enrichment status; transitions are the only mutation after creation
	Status domain.NFTStatus `gorm:"column:status;not null;default:'new';type:text;index:idx_nfts_collection_status,priority:2"`
	// UpdatedAt is the marketplace reported update time
	UpdatedAt *time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime:false"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}

func (NFT) ConflictColumns() []string {
	return []string{"contract_address", "token_id"}
}

// UpdateColumns excludes traits and status, which only enrichment writes
func (NFT) UpdateColumns() []string {
	return []string{"collection_slug", "game_id", "name", "description", "image_url", "metadata_url",
		"opensea_url", "token_standard", "is_nsfw", "is_disabled", "updated_at"}
}

func (n NFT) NaturalKey() (string, bool) {
	return joinKey(n.ContractAddress, n.TokenID)
}
