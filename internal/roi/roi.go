// Package roi derives per-asset and per-collection reward rates from stored
// ownership intervals and reward token transfers.
package roi

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// holding accumulates the qualifying intervals of one asset
type holding struct {
	asset    domain.AssetKey
	slug     string
	days     float64
	earnings map[string]decimal.Decimal
}

// AssetROI computes one snapshot per (asset, reward symbol) from the ownership
// intervals of a collection. Earnings are the reward transfers received by the
// interval buyer within [buy_time, sell_time or now]; the rate is the earnings
// divided by the days held. Intervals of an asset are summed. Intervals with no
// positive duration are ignored, and an asset without any remaining interval
// yields no snapshot.
func AssetROI(game domain.Game, intervals []domain.OwnershipInterval, transfers []domain.ERC20Transfer, now time.Time) []domain.NFTDynamic {
	symbols := rewardSymbols(game)
	if len(symbols) == 0 {
		return nil
	}

	received := make(map[string][]domain.ERC20Transfer)
	for _, t := range transfers {
		if _, ok := symbols[t.ContractAddress]; !ok {
			continue
		}
		received[t.To] = append(received[t.To], t)
	}

	holdings := make(map[domain.AssetKey]*holding)
	var order []domain.AssetKey
	for _, iv := range intervals {
		days := iv.DaysHeld(now)
		if days <= 0 {
			continue
		}

		h, ok := holdings[iv.Asset]
		if !ok {
			h = &holding{asset: iv.Asset, slug: iv.CollectionSlug, earnings: make(map[string]decimal.Decimal)}
			holdings[iv.Asset] = h
			order = append(order, iv.Asset)
		}
		h.days += days

		end := iv.End(now)
		for _, t := range received[iv.Buyer] {
			if t.Timestamp.Before(iv.BuyTime) || t.Timestamp.After(end) {
				continue
			}
			amount, err := domain.TokenAmount(t.Amount.Amount, t.Amount.Decimals)
			if err != nil {
				continue
			}
			symbol := symbols[t.ContractAddress]
			h.earnings[symbol] = h.earnings[symbol].Add(amount)
		}
	}

	sortedSymbols := make([]string, 0, len(symbols))
	seen := make(map[string]bool)
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			sortedSymbols = append(sortedSymbols, s)
		}
	}
	sort.Strings(sortedSymbols)

	dynamics := make([]domain.NFTDynamic, 0, len(order)*len(sortedSymbols))
	for _, key := range order {
		h := holdings[key]
		for _, symbol := range sortedSymbols {
			earned := h.earnings[symbol].InexactFloat64()
			dynamics = append(dynamics, domain.NFTDynamic{
				Asset:          h.asset,
				CollectionSlug: h.slug,
				GameID:         game.ID,
				Symbol:         symbol,
				Earnings:       earned,
				DaysHeld:       h.days,
				ROI:            earned / h.days,
				Timestamp:      now,
			})
		}
	}
	return dynamics
}

// CollectionROI averages the per-asset rates per reward symbol. Symbols are never
// mixed. It also returns the number of distinct assets measured.
func CollectionROI(dynamics []domain.NFTDynamic) (map[string]float64, int) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	assets := make(map[domain.AssetKey]bool)
	for _, d := range dynamics {
		sums[d.Symbol] += d.ROI
		counts[d.Symbol]++
		assets[d.Asset] = true
	}

	means := make(map[string]float64, len(sums))
	for symbol, sum := range sums {
		means[symbol] = sum / float64(counts[symbol])
	}
	return means, len(assets)
}

// rewardSymbols maps normalized reward contract addresses to their symbol
func rewardSymbols(game domain.Game) map[string]string {
	symbols := make(map[string]string, len(game.RewardTokens))
	for _, t := range game.RewardTokens {
		symbols[domain.NormalizeAddress(t.ContractAddress)] = t.Symbol
	}
	return symbols
}
