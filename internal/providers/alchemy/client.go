package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
)

const ProviderName = "alchemy"

var ErrNoAPIKey = errors.New("no API key provided")

// Fee is a payment leg of an NFT sale
type Fee struct {
	Amount       string `json:"amount"`
	TokenAddress string `json:"tokenAddress"`
	Symbol       string `json:"symbol"`
	Decimals     int32  `json:"decimals"`
}

// NFTSale represents a sale from the getNFTSales endpoint
type NFTSale struct {
	Marketplace        string `json:"marketplace"`
	MarketplaceAddress string `json:"marketplaceAddress"`
	ContractAddress    string `json:"contractAddress"`
	TokenID            string `json:"tokenId"`
	Quantity           string `json:"quantity"`
	BuyerAddress       string `json:"buyerAddress"`
	SellerAddress      string `json:"sellerAddress"`
	Taker              string `json:"taker"`
	SellerFee          Fee    `json:"sellerFee"`
	ProtocolFee        *Fee   `json:"protocolFee,omitempty"`
	RoyaltyFee         *Fee   `json:"royaltyFee,omitempty"`
	BlockNumber        uint64 `json:"blockNumber"`
	LogIndex           int    `json:"logIndex"`
	BundleIndex        int    `json:"bundleIndex"`
	TransactionHash    string `json:"transactionHash"`
}

// SalesPage is one page of getNFTSales results
type SalesPage struct {
	Sales   []NFTSale `json:"nftSales"`
	PageKey *string   `json:"pageKey"`
}

// ERC1155Metadata is one token entry of a semi-fungible batch transfer
type ERC1155Metadata struct {
	TokenID string `json:"tokenId"`
	Value   string `json:"value"`
}

// RawContract holds the raw contract fields of a transfer
type RawContract struct {
	Value   *string `json:"value"`
	Address string  `json:"address"`
	Decimal *string `json:"decimal"`
}

// TransferMetadata holds the optional metadata of a transfer
type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

// AssetTransfer represents a transfer from alchemy_getAssetTransfers
type AssetTransfer struct {
	UniqueID        string            `json:"uniqueId"`
	Category        string            `json:"category"`
	BlockNum        string            `json:"blockNum"`
	Hash            string            `json:"hash"`
	From            string            `json:"from"`
	To              string            `json:"to"`
	ERC721TokenID   *string           `json:"erc721TokenId"`
	ERC1155Metadata []ERC1155Metadata `json:"erc1155Metadata"`
	TokenID         *string           `json:"tokenId"`
	Asset           *string           `json:"asset"`
	RawContract     RawContract       `json:"rawContract"`
	Metadata        *TransferMetadata `json:"metadata"`
}

// TransfersPage is one page of alchemy_getAssetTransfers results
type TransfersPage struct {
	Transfers []AssetTransfer `json:"transfers"`
	PageKey   *string         `json:"pageKey"`
}

// SalesParams holds the query of a sales page request
type SalesParams struct {
	ContractAddress string
	FromBlock       uint64
	Limit           int
	PageKey         string
}

// TransfersParams holds the query of a transfers page request
type TransfersParams struct {
	ContractAddress string
	FromBlock       uint64
	Categories      []domain.TransferCategory
	MaxCount        int
	PageKey         string
}

// Client defines the interface for Alchemy client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/alchemy_client.go -package=mocks -mock_names=Client=MockAlchemyClient
type Client interface {
	// GetNFTSales fetches one page of sales of a contract in ascending block order
	GetNFTSales(ctx context.Context, chain domain.Chain, params SalesParams) (*SalesPage, error)

	// GetNFTTransfers fetches one page of NFT transfers of a contract in ascending block order
	GetNFTTransfers(ctx context.Context, chain domain.Chain, params TransfersParams) (*TransfersPage, error)

	// GetBlockTimestamp returns the timestamp of a block
	GetBlockTimestamp(ctx context.Context, chain domain.Chain, blockNumber uint64) (time.Time, error)
}

// AlchemyClient implements the Alchemy client
type AlchemyClient struct {
	httpClient adapter.HTTPClient
	// baseURL is a format string taking the network, e.g. https://%s.g.alchemy.com
	baseURL string
	apiKey  string
}

// NewClient creates a new Alchemy client
func NewClient(httpClient adapter.HTTPClient, baseURL string, apiKey string) Client {
	return &AlchemyClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *AlchemyClient) networkURL(chain domain.Chain) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	network, err := chain.AlchemyNetwork()
	if err != nil {
		return "", err
	}
	if strings.Contains(c.baseURL, "%s") {
		return fmt.Sprintf(c.baseURL, network), nil
	}
	return c.baseURL, nil
}

// GetNFTSales fetches one page of sales of a contract in ascending block order
func (c *AlchemyClient) GetNFTSales(ctx context.Context, chain domain.Chain, params SalesParams) (*SalesPage, error) {
	base, err := c.networkURL(chain)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("contractAddress", params.ContractAddress)
	q.Set("fromBlock", strconv.FormatUint(params.FromBlock, 10))
	q.Set("toBlock", "latest")
	q.Set("order", "asc")
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.PageKey != "" {
		q.Set("pageKey", params.PageKey)
	}

	reqURL := fmt.Sprintf("%s/nft/v3/%s/getNFTSales?%s", base, c.apiKey, q.Encode())
	respBody, err := c.httpClient.GetBytes(ctx, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call Alchemy getNFTSales: %w", err)
	}

	var page SalesPage
	if err := json.Unmarshal(respBody, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Alchemy sales response: %w", err)
	}

	return &page, nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *AlchemyClient) call(ctx context.Context, chain domain.Chain, method string, params []interface{}, result interface{}) error {
	base, err := c.networkURL(chain)
	if err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	respBody, err := c.httpClient.PostBytes(ctx, fmt.Sprintf("%s/v2/%s", base, c.apiKey), nil, body)
	if err != nil {
		return fmt.Errorf("failed to call Alchemy %s: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("failed to unmarshal Alchemy %s response: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("alchemy %s error %d: %s", method, resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return fmt.Errorf("alchemy %s: %w", method, domain.ErrNotFound)
	}

	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("failed to unmarshal Alchemy %s result: %w", method, err)
	}
	return nil
}

// GetNFTTransfers fetches one page of NFT transfers of a contract in ascending block order
func (c *AlchemyClient) GetNFTTransfers(ctx context.Context, chain domain.Chain, params TransfersParams) (*TransfersPage, error) {
	categories := params.Categories
	if len(categories) == 0 {
		categories = domain.NFTTransferCategories
	}

	filter := map[string]interface{}{
		"fromBlock":         hexutil.EncodeUint64(params.FromBlock),
		"toBlock":           "latest",
		"contractAddresses": []string{params.ContractAddress},
		"category":          categories,
		"withMetadata":      true,
		"excludeZeroValue":  false,
		"order":             "asc",
	}
	if params.MaxCount > 0 {
		filter["maxCount"] = hexutil.EncodeUint64(uint64(params.MaxCount))
	}
	if params.PageKey != "" {
		filter["pageKey"] = params.PageKey
	}

	var page TransfersPage
	if err := c.call(ctx, chain, "alchemy_getAssetTransfers", []interface{}{filter}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type blockHeader struct {
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}

// GetBlockTimestamp returns the timestamp of a block
func (c *AlchemyClient) GetBlockTimestamp(ctx context.Context, chain domain.Chain, blockNumber uint64) (time.Time, error) {
	var header blockHeader
	params := []interface{}{hexutil.EncodeUint64(blockNumber), false}
	if err := c.call(ctx, chain, "eth_getBlockByNumber", params, &header); err != nil {
		return time.Time{}, err
	}

	ts, err := domain.DecodeHexUint64(header.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode block timestamp: %w", err)
	}
	return time.Unix(int64(ts), 0).UTC(), nil //nolint:gosec,G115
}
