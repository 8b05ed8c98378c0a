package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/store/schema"
)

func TestWatermark_Missing(t *testing.T) {
	s := NewWatermarkStore(beginTestTx(t))

	mark, err := s.GetWatermark(context.Background(), WatermarkKey{
		Entity: domain.EntityTransfer, Source: domain.SourceAlchemy, Key: testContract,
	})
	require.NoError(t, err)
	assert.Nil(t, mark)
}

func TestWatermark_BlockNeverMovesBackwards(t *testing.T) {
	s := NewWatermarkStore(beginTestTx(t))
	ctx := context.Background()
	key := WatermarkKey{Entity: domain.EntityTransfer, Source: domain.SourceAlchemy, Key: testContract}

	require.NoError(t, s.AdvanceWatermark(ctx, key, BlockWatermark(100)))
	require.NoError(t, s.AdvanceWatermark(ctx, key, BlockWatermark(50)))

	mark, err := s.GetWatermark(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, mark)
	assert.Equal(t, schema.WatermarkKindBlock, mark.Kind)
	assert.Equal(t, uint64(100), mark.Block)

	require.NoError(t, s.AdvanceWatermark(ctx, key, BlockWatermark(18574074)))
	mark, err = s.GetWatermark(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint64(18574074), mark.Block)
}

func TestWatermark_Timestamp(t *testing.T) {
	s := NewWatermarkStore(beginTestTx(t))
	ctx := context.Background()
	key := WatermarkKey{Entity: domain.EntityERC20Transfer, Source: domain.SourceEtherscan, Key: rewardToken}

	later := time.Date(2024, 5, 2, 10, 30, 15, 999, time.UTC)
	require.NoError(t, s.AdvanceWatermark(ctx, key, TimestampWatermark(later)))
	require.NoError(t, s.AdvanceWatermark(ctx, key, TimestampWatermark(later.Add(-time.Hour))))

	mark, err := s.GetWatermark(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, mark)
	assert.True(t, mark.Timestamp.Equal(later.Truncate(time.Second)))
}

func TestWatermark_CursorIsReplaced(t *testing.T) {
	s := NewWatermarkStore(beginTestTx(t))
	ctx := context.Background()
	key := WatermarkKey{Entity: domain.EntityListing, Source: domain.SourceOpenSea, Key: testSlug}

	require.NoError(t, s.AdvanceWatermark(ctx, key, CursorWatermark("b")))
	require.NoError(t, s.AdvanceWatermark(ctx, key, CursorWatermark("a")))

	mark, err := s.GetWatermark(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, mark)
	assert.Equal(t, schema.WatermarkKindCursor, mark.Kind)
	assert.Equal(t, "a", mark.Cursor)
}

func TestWatermark_UnknownKind(t *testing.T) {
	s := NewWatermarkStore(beginTestTx(t))
	err := s.AdvanceWatermark(context.Background(), WatermarkKey{Entity: domain.EntitySale, Key: "x"}, Watermark{Kind: "height"})
	require.Error(t, err)
}

func TestWatermark_MonotonicProperty(t *testing.T) {
	tx := beginTestTx(t)
	s := NewWatermarkStore(tx)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	run := 0
	properties.Property("stored block is the maximum advanced", prop.ForAll(
		func(blocks []uint32) bool {
			run++
			key := WatermarkKey{Entity: domain.EntitySale, Source: domain.SourceAlchemy, Key: fmt.Sprintf("feed-%d", run)}
			var highest uint64
			for _, b := range blocks {
				if err := s.AdvanceWatermark(ctx, key, BlockWatermark(uint64(b))); err != nil {
					return false
				}
				highest = max(highest, uint64(b))
			}
			mark, err := s.GetWatermark(ctx, key)
			if err != nil || mark == nil {
				return false
			}
			return mark.Block == highest
		},
		gen.SliceOf(gen.UInt32()).SuchThat(func(v []uint32) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}
