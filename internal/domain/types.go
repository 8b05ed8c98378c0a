package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the marketplace chain name used by collection contracts
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainArbitrum Chain = "arbitrum"
)

var alchemyNetworks = map[Chain]string{
	ChainEthereum: "eth-mainnet",
	ChainPolygon:  "polygon-mainnet",
	ChainArbitrum: "arb-mainnet",
}

// IsValidChain checks if a chain is supported
func IsValidChain(chain Chain) bool {
	_, ok := alchemyNetworks[chain]
	return ok
}

// AlchemyNetwork returns the alchemy network subdomain for the chain
func (c Chain) AlchemyNetwork() (string, error) {
	network, ok := alchemyNetworks[c]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, c)
	}
	return network, nil
}

// TokenStandard represents the NFT token standard
type TokenStandard string

const (
	StandardERC721  TokenStandard = "erc721"
	StandardERC1155 TokenStandard = "erc1155"
)

// TransferCategory represents the asset transfer category reported by the provider
type TransferCategory string

const (
	CategoryERC721     TransferCategory = "erc721"
	CategoryERC1155    TransferCategory = "erc1155"
	CategorySpecialNFT TransferCategory = "specialnft"
)

// NFTTransferCategories are the categories requested for NFT transfer feeds
var NFTTransferCategories = []TransferCategory{CategoryERC721, CategoryERC1155, CategorySpecialNFT}

// EventType represents the type of NFT event
type EventType string

const (
	EventTypeSale     EventType = "sale"
	EventTypeTransfer EventType = "transfer"
	EventTypeListing  EventType = "listing"
)

// NFTStatus represents the trait enrichment status of an NFT
type NFTStatus string

const (
	NFTStatusNew        NFTStatus = "new"
	NFTStatusInProgress NFTStatus = "in-progress"
	NFTStatusCompleted  NFTStatus = "completed"
	NFTStatusNoTraits   NFTStatus = "no-traits"
	NFTStatusFailed     NFTStatus = "failed"
)

// CanTransition reports whether the status may move to next.
// Enrichment starts from new or failed and ends in a terminal state.
func (s NFTStatus) CanTransition(next NFTStatus) bool {
	switch s {
	case NFTStatusNew, NFTStatusFailed:
		return next == NFTStatusInProgress
	case NFTStatusInProgress:
		return next == NFTStatusCompleted || next == NFTStatusNoTraits || next == NFTStatusFailed
	default:
		return false
	}
}

// Source identifies an upstream data provider
type Source string

const (
	SourceAlchemy   Source = "alchemy"
	SourceEtherscan Source = "etherscan"
	SourceOpenSea   Source = "opensea"
)

// EntityType identifies a persisted entity kind, used for watermarks and cursor files
type EntityType string

const (
	EntityCollection     EntityType = "collection"
	EntityNFT            EntityType = "nft"
	EntitySale           EntityType = "sale"
	EntityTransfer       EntityType = "transfer"
	EntityListing        EntityType = "listing"
	EntityERC20Transfer  EntityType = "erc20_transfer"
	EntityNFTDynamic     EntityType = "nft_dynamic"
	EntityCollectionStat EntityType = "collection_dynamic"
)

// NormalizeAddress returns the lowercase hex form of an EVM address.
// Addresses that are not valid hex are returned lowercased unchanged.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

// AssetKey identifies a single NFT
type AssetKey struct {
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
}

func (k AssetKey) String() string {
	return fmt.Sprintf("%s:%s", k.ContractAddress, k.TokenID)
}
