// Package normalizer maps provider payloads into canonical records.
// Every function in this package is pure: no I/O, no clocks, no globals.
package normalizer

import (
	"strings"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// Context carries the ingestion unit scope a page is normalized under
type Context struct {
	CollectionSlug string
	GameID         string
	Chain          domain.Chain
}

// Page maps every record of a page, collecting per-record errors instead of aborting
func Page[R any, T any](records []R, fn func(R) (T, error)) ([]T, []error) {
	out := make([]T, 0, len(records))
	var errs []error
	for _, r := range records {
		v, err := fn(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, v)
	}
	return out, errs
}

// FanOutPage is Page for mappings that produce zero or more records per input
func FanOutPage[R any, T any](records []R, fn func(R) ([]T, error)) ([]T, []error) {
	out := make([]T, 0, len(records))
	var errs []error
	for _, r := range records {
		vs, err := fn(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, vs...)
	}
	return out, errs
}

// tokenID accepts both base-10 and 0x-prefixed token ids and returns base-10
func tokenID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		return domain.DecodeHexInteger(raw)
	}
	if raw == "" {
		return "", errEmpty
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", errNotInteger
		}
	}
	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" {
		return "0", nil
	}
	return trimmed, nil
}

// quantity decodes a hex or base-10 quantity, defaulting to 1 when absent
func quantity(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "1", nil
	}
	return tokenID(raw)
}
