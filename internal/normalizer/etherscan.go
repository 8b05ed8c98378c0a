package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/providers/etherscan"
)

// EtherscanTokenTransfer maps a tokentx record into a reward token transfer.
// The amount keeps its raw integer form together with the token decimals.
func EtherscanTokenTransfer(t etherscan.TokenTransfer, nctx Context) (domain.ERC20Transfer, error) {
	if t.Hash == "" {
		return domain.ERC20Transfer{}, domain.NewNormalizationError(domain.SourceEtherscan, "missing transaction hash", nil)
	}

	unix, err := strconv.ParseInt(t.TimeStamp, 10, 64)
	if err != nil {
		return domain.ERC20Transfer{}, domain.NewNormalizationError(domain.SourceEtherscan, "invalid timestamp", err)
	}

	block, err := strconv.ParseUint(t.BlockNumber, 10, 64)
	if err != nil {
		return domain.ERC20Transfer{}, domain.NewNormalizationError(domain.SourceEtherscan, "invalid block number", err)
	}

	var decimals int64
	if t.TokenDecimal != "" {
		decimals, err = strconv.ParseInt(t.TokenDecimal, 10, 32)
		if err != nil || decimals < 0 {
			return domain.ERC20Transfer{}, domain.NewNormalizationError(domain.SourceEtherscan,
				fmt.Sprintf("invalid token decimals %q", t.TokenDecimal), err)
		}
	}

	amount, err := tokenID(t.Value)
	if err != nil {
		return domain.ERC20Transfer{}, domain.NewNormalizationError(domain.SourceEtherscan, "invalid value", err)
	}

	return domain.ERC20Transfer{
		TransactionHash: strings.ToLower(t.Hash),
		Timestamp:       time.Unix(unix, 0).UTC(),
		BlockNumber:     block,
		ContractAddress: domain.NormalizeAddress(t.ContractAddress),
		From:            domain.NormalizeAddress(t.From),
		To:              domain.NormalizeAddress(t.To),
		Amount: domain.Price{
			Amount:   amount,
			Currency: t.TokenSymbol,
			Decimals: int32(decimals),
		},
		CollectionSlug: nctx.CollectionSlug,
		GameID:         nctx.GameID,
	}, nil
}
