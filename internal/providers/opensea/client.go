package opensea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
)

const ProviderName = "opensea"

var ErrNoAPIKey = errors.New("no API key provided")

// CollectionContract is a contract reference of a collection
type CollectionContract struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// CollectionFee is a fee reference of a collection
type CollectionFee struct {
	Fee       float64 `json:"fee"`
	Recipient string  `json:"recipient"`
	Required  bool    `json:"required"`
}

// Collection represents the response of the get collection endpoint
type Collection struct {
	Collection        string               `json:"collection"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	ImageURL          string               `json:"image_url"`
	Owner             string               `json:"owner"`
	Category          string               `json:"category"`
	IsDisabled        bool                 `json:"is_disabled"`
	IsNSFW            bool                 `json:"is_nsfw"`
	OpenSeaURL        string               `json:"opensea_url"`
	ProjectURL        string               `json:"project_url"`
	WikiURL           string               `json:"wiki_url"`
	DiscordURL        string               `json:"discord_url"`
	TelegramURL       string               `json:"telegram_url"`
	TwitterUsername   string               `json:"twitter_username"`
	InstagramUsername string               `json:"instagram_username"`
	Contracts         []CollectionContract `json:"contracts"`
	Fees              []CollectionFee      `json:"fees"`
	CreatedDate       string               `json:"created_date"`
}

// StatsTotal holds the all-time statistics of a collection
type StatsTotal struct {
	Volume           float64  `json:"volume"`
	Sales            int64    `json:"sales"`
	AveragePrice     float64  `json:"average_price"`
	NumOwners        int64    `json:"num_owners"`
	MarketCap        float64  `json:"market_cap"`
	FloorPrice       *float64 `json:"floor_price"`
	FloorPriceSymbol string   `json:"floor_price_symbol"`
}

// CollectionStats represents the response of the collection stats endpoint
type CollectionStats struct {
	Total StatsTotal `json:"total"`
}

// Trait represents a trait/attribute of an NFT
type Trait struct {
	TraitType   string      `json:"trait_type"`
	DisplayType *string     `json:"display_type"`
	MaxValue    interface{} `json:"max_value"`
	Value       interface{} `json:"value"`
}

// NFTMetadata represents an NFT from the OpenSea API
type NFTMetadata struct {
	Identifier    string  `json:"identifier"`
	Collection    string  `json:"collection"`
	Contract      string  `json:"contract"`
	TokenStandard string  `json:"token_standard"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	ImageURL      *string `json:"image_url"`
	MetadataURL   *string `json:"metadata_url"`
	OpenSeaURL    *string `json:"opensea_url"`
	UpdatedAt     string  `json:"updated_at"`
	IsDisabled    bool    `json:"is_disabled"`
	IsNSFW        bool    `json:"is_nsfw"`
	Traits        []Trait `json:"traits"`
}

// NFTResponse represents the response from OpenSea Get NFT endpoint
type NFTResponse struct {
	NFT    NFTMetadata `json:"nft"`
	Errors []string    `json:"errors,omitempty"`
}

// NFTPage is one page of the list NFTs by collection endpoint
type NFTPage struct {
	NFTs []NFTMetadata `json:"nfts"`
	Next *string       `json:"next"`
}

// EventAsset is the NFT referenced by an order event
type EventAsset struct {
	Identifier string `json:"identifier"`
	Collection string `json:"collection"`
	Contract   string `json:"contract"`
}

// Payment is the price of an order or sale event
type Payment struct {
	Quantity     string `json:"quantity"`
	TokenAddress string `json:"token_address"`
	Decimals     int32  `json:"decimals"`
	Symbol       string `json:"symbol"`
}

// AssetEvent represents an event from the collection events endpoint
type AssetEvent struct {
	EventType       string      `json:"event_type"`
	OrderType       string      `json:"order_type"`
	OrderHash       string      `json:"order_hash"`
	Chain           string      `json:"chain"`
	ProtocolAddress string      `json:"protocol_address"`
	Maker           string      `json:"maker"`
	Asset           *EventAsset `json:"asset"`
	Payment         *Payment    `json:"payment"`
	Quantity        int64       `json:"quantity"`
	StartDate       *int64      `json:"start_date"`
	ExpirationDate  *int64      `json:"expiration_date"`
	EventTimestamp  int64       `json:"event_timestamp"`
}

// EventPage is one page of the collection events endpoint
type EventPage struct {
	AssetEvents []AssetEvent `json:"asset_events"`
	Next        *string      `json:"next"`
}

// EventParams holds the query of an events page request
type EventParams struct {
	EventType string
	After     time.Time
	Limit     int
	Next      string
}

// Client defines the interface for OpenSea client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/opensea_client.go -package=mocks -mock_names=Client=MockOpenSeaClient
type Client interface {
	// GetCollection fetches collection metadata by slug
	GetCollection(ctx context.Context, slug string) (*Collection, error)

	// GetCollectionStats fetches marketplace statistics of a collection
	GetCollectionStats(ctx context.Context, slug string) (*CollectionStats, error)

	// ListNFTs fetches one page of NFTs of a collection
	ListNFTs(ctx context.Context, slug string, limit int, next string) (*NFTPage, error)

	// GetNFT fetches a single NFT including its traits
	GetNFT(ctx context.Context, chain domain.Chain, contractAddress, tokenID string) (*NFTMetadata, error)

	// ListEvents fetches one page of events of a collection
	ListEvents(ctx context.Context, slug string, params EventParams) (*EventPage, error)
}

// OpenSeaClient implements OpenSea client
type OpenSeaClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	apiKey     string
}

// NewClient creates a new OpenSea client
func NewClient(httpClient adapter.HTTPClient, apiURL string, apiKey string) Client {
	return &OpenSeaClient{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *OpenSeaClient) get(ctx context.Context, path string, q url.Values, result interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	reqURL := c.apiURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	respBody, err := c.httpClient.GetBytes(ctx, reqURL, map[string]string{"X-API-KEY": c.apiKey})
	if err != nil {
		return fmt.Errorf("failed to call OpenSea API: %w", err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal OpenSea response: %w", err)
	}
	return nil
}

// GetCollection fetches collection metadata by slug
func (c *OpenSeaClient) GetCollection(ctx context.Context, slug string) (*Collection, error) {
	var collection Collection
	if err := c.get(ctx, "/collections/"+url.PathEscape(slug), nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetCollectionStats fetches marketplace statistics of a collection
func (c *OpenSeaClient) GetCollectionStats(ctx context.Context, slug string) (*CollectionStats, error) {
	var stats CollectionStats
	if err := c.get(ctx, "/collections/"+url.PathEscape(slug)+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListNFTs fetches one page of NFTs of a collection
func (c *OpenSeaClient) ListNFTs(ctx context.Context, slug string, limit int, next string) (*NFTPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if next != "" {
		q.Set("next", next)
	}

	var page NFTPage
	if err := c.get(ctx, "/collection/"+url.PathEscape(slug)+"/nfts", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNFT fetches a single NFT including its traits
func (c *OpenSeaClient) GetNFT(ctx context.Context, chain domain.Chain, contractAddress, tokenID string) (*NFTMetadata, error) {
	path := fmt.Sprintf("/chain/%s/contract/%s/nfts/%s", chain, strings.ToLower(contractAddress), tokenID)

	var response NFTResponse
	if err := c.get(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("OpenSea API errors: %v", response.Errors)
	}
	return &response.NFT, nil
}

// ListEvents fetches one page of events of a collection
func (c *OpenSeaClient) ListEvents(ctx context.Context, slug string, params EventParams) (*EventPage, error) {
	q := url.Values{}
	if params.EventType != "" {
		q.Set("event_type", params.EventType)
	}
	if !params.After.IsZero() {
		q.Set("after", strconv.FormatInt(params.After.Unix(), 10))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Next != "" {
		q.Set("next", params.Next)
	}

	var page EventPage
	if err := c.get(ctx, "/events/collection/"+url.PathEscape(slug), q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
