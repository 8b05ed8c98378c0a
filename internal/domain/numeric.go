package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// canonicalHex strips leading zero digits so hexutil accepts zero-padded provider values
func canonicalHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("missing 0x prefix: %q", s)
	}
	digits := strings.TrimLeft(s[2:], "0")
	if digits == "" {
		digits = "0"
	}
	return "0x" + digits, nil
}

// DecodeHexUint64 decodes a 0x-prefixed hex quantity such as a block number
func DecodeHexUint64(s string) (uint64, error) {
	h, err := canonicalHex(s)
	if err != nil {
		return 0, err
	}
	return hexutil.DecodeUint64(h)
}

// DecodeHexInteger decodes a 0x-prefixed hex quantity into its base-10 string form.
// Values up to 256 bits are accepted, which covers token ids and raw amounts.
func DecodeHexInteger(s string) (string, error) {
	h, err := canonicalHex(s)
	if err != nil {
		return "", err
	}
	v, err := hexutil.DecodeBig(h)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// TokenAmount converts a raw base-10 integer amount with the given decimals into a real quantity
func TokenAmount(raw string, decimals int32) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	if decimals < 0 {
		return decimal.Zero, fmt.Errorf("negative decimals: %d", decimals)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return v.Shift(-decimals), nil
}
