package alchemy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
)

// BlockTimeResolver resolves block numbers to timestamps, caching results in redis.
// Block timestamps never change, so cache entries only expire to bound memory.
type BlockTimeResolver struct {
	client Client
	cache  adapter.RedisClient
	ttl    time.Duration
}

// NewBlockTimeResolver creates a resolver. A nil cache disables caching.
func NewBlockTimeResolver(client Client, cache adapter.RedisClient, ttl time.Duration) *BlockTimeResolver {
	return &BlockTimeResolver{client: client, cache: cache, ttl: ttl}
}

func blockTimeKey(chain domain.Chain, blockNumber uint64) string {
	return fmt.Sprintf("blocktime:%s:%d", chain, blockNumber)
}

// Resolve returns the timestamp of every requested block
func (r *BlockTimeResolver) Resolve(ctx context.Context, chain domain.Chain, blocks []uint64) (map[uint64]time.Time, error) {
	result := make(map[uint64]time.Time, len(blocks))
	for _, block := range blocks {
		if _, ok := result[block]; ok {
			continue
		}

		if ts, ok := r.cached(ctx, chain, block); ok {
			result[block] = ts
			continue
		}

		ts, err := r.client.GetBlockTimestamp(ctx, chain, block)
		if err != nil {
			return nil, fmt.Errorf("failed to get timestamp of block %d: %w", block, err)
		}
		result[block] = ts
		r.store(ctx, chain, block, ts)
	}
	return result, nil
}

func (r *BlockTimeResolver) cached(ctx context.Context, chain domain.Chain, block uint64) (time.Time, bool) {
	if r.cache == nil {
		return time.Time{}, false
	}

	v, err := r.cache.Get(ctx, blockTimeKey(chain, block))
	if err != nil {
		if !errors.Is(err, adapter.ErrCacheMiss) {
			logger.WarnCtx(ctx, "block time cache read failed", zap.Error(err), zap.Uint64("block", block))
		}
		return time.Time{}, false
	}

	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

func (r *BlockTimeResolver) store(ctx context.Context, chain domain.Chain, block uint64, ts time.Time) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, blockTimeKey(chain, block), strconv.FormatInt(ts.Unix(), 10), r.ttl); err != nil {
		logger.WarnCtx(ctx, "block time cache write failed", zap.Error(err), zap.Uint64("block", block))
	}
}
