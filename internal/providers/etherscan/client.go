package etherscan

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
)

const ProviderName = "etherscan"

// MaxResultWindow is the largest page*offset a paginated query accepts
const MaxResultWindow = 10000

var ErrNoAPIKey = errors.New("no API key provided")

// TokenTransfer represents an ERC20 transfer from the tokentx action
type TokenTransfer struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	Value           string `json:"value"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}

// TokenTransferParams holds the query of a tokentx page request
type TokenTransferParams struct {
	ContractAddress string
	// Address optionally restricts transfers to one holder
	Address    string
	StartBlock uint64
	Page       int
	Offset     int
}

// TokenTransferPage is one page of tokentx results.
// NextPage is zero when the result set is exhausted.
type TokenTransferPage struct {
	Transfers []TokenTransfer
	NextPage  int
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Client defines the interface for Etherscan client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/etherscan_client.go -package=mocks -mock_names=Client=MockEtherscanClient
type Client interface {
	// GetBlockNumberByTime returns the first block mined at or after ts
	GetBlockNumberByTime(ctx context.Context, ts time.Time) (uint64, error)

	// GetTokenTransfers fetches one page of ERC20 transfers of a token contract in ascending order
	GetTokenTransfers(ctx context.Context, params TokenTransferParams) (*TokenTransferPage, error)
}

// EtherscanClient implements the Etherscan client
type EtherscanClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	apiKey     string
}

// NewClient creates a new Etherscan client
func NewClient(httpClient adapter.HTTPClient, apiURL string, apiKey string) Client {
	return &EtherscanClient{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *EtherscanClient) get(ctx context.Context, q url.Values) (*envelope, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	q.Set("apikey", c.apiKey)

	respBody, err := c.httpClient.GetBytes(ctx, fmt.Sprintf("%s?%s", c.apiURL, q.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call Etherscan API: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Etherscan response: %w", err)
	}
	return &env, nil
}

// GetBlockNumberByTime returns the first block mined at or after ts
func (c *EtherscanClient) GetBlockNumberByTime(ctx context.Context, ts time.Time) (uint64, error) {
	q := url.Values{}
	q.Set("module", "block")
	q.Set("action", "getblocknobytime")
	q.Set("timestamp", strconv.FormatInt(ts.Unix(), 10))
	q.Set("closest", "after")

	env, err := c.get(ctx, q)
	if err != nil {
		return 0, err
	}
	if env.Status != "1" {
		return 0, fmt.Errorf("etherscan getblocknobytime failed: %s", env.Message)
	}

	var result string
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return 0, fmt.Errorf("failed to unmarshal block number: %w", err)
	}
	block, err := strconv.ParseUint(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block number %q: %w", result, err)
	}
	return block, nil
}

// GetTokenTransfers fetches one page of ERC20 transfers of a token contract in ascending order
func (c *EtherscanClient) GetTokenTransfers(ctx context.Context, params TokenTransferParams) (*TokenTransferPage, error) {
	page := max(params.Page, 1)
	offset := params.Offset
	if offset <= 0 {
		offset = 100
	}

	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "tokentx")
	q.Set("contractaddress", params.ContractAddress)
	if params.Address != "" {
		q.Set("address", params.Address)
	}
	q.Set("startblock", strconv.FormatUint(params.StartBlock, 10))
	q.Set("endblock", "latest")
	q.Set("page", strconv.Itoa(page))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("sort", "asc")

	env, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	if env.Status != "1" {
		// "No transactions found" is reported as a failed status with an empty result
		if strings.HasPrefix(env.Message, "No transactions found") {
			return &TokenTransferPage{}, nil
		}
		var detail string
		_ = json.Unmarshal(env.Result, &detail)
		return nil, fmt.Errorf("etherscan tokentx failed: %s %s", env.Message, detail)
	}

	var transfers []TokenTransfer
	if err := json.Unmarshal(env.Result, &transfers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token transfers: %w", err)
	}

	result := &TokenTransferPage{Transfers: transfers}
	if len(transfers) == offset {
		result.NextPage = page + 1
	}
	return result, nil
}
