package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/store/schema"
)

// WatermarkKey identifies one ingestion feed: (entity, source, key).
// Key is usually a contract address or a collection slug.
type WatermarkKey struct {
	Entity domain.EntityType
	Source domain.Source
	Key    string
}

func (k WatermarkKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Entity, k.Source, k.Key)
}

// Watermark is the high-water mark of a feed. Only the field matching Kind is meaningful.
type Watermark struct {
	Kind      schema.WatermarkKind
	Block     uint64
	Timestamp time.Time
	Cursor    string
}

// BlockWatermark returns a block number watermark
func BlockWatermark(block uint64) Watermark {
	return Watermark{Kind: schema.WatermarkKindBlock, Block: block}
}

// TimestampWatermark returns a timestamp watermark with second precision
func TimestampWatermark(ts time.Time) Watermark {
	return Watermark{Kind: schema.WatermarkKindTimestamp, Timestamp: ts.UTC().Truncate(time.Second)}
}

// CursorWatermark returns an opaque page cursor watermark
func CursorWatermark(cursor string) Watermark {
	return Watermark{Kind: schema.WatermarkKindCursor, Cursor: cursor}
}

// WatermarkStore defines the interface for storing and retrieving feed watermarks
type WatermarkStore interface {
	// GetWatermark returns the watermark of a feed, or nil when the feed was never advanced
	GetWatermark(ctx context.Context, key WatermarkKey) (*Watermark, error)
	// AdvanceWatermark moves the watermark of a feed forward.
	// Block and timestamp watermarks never move backwards; cursor watermarks are replaced.
	AdvanceWatermark(ctx context.Context, key WatermarkKey, mark Watermark) error
}

type watermarkStore struct {
	db *gorm.DB
}

// NewWatermarkStore creates a new watermark store
func NewWatermarkStore(db *gorm.DB) WatermarkStore {
	return &watermarkStore{db: db}
}

// GetWatermark returns the watermark of a feed, or nil when the feed was never advanced
func (s *watermarkStore) GetWatermark(ctx context.Context, key WatermarkKey) (*Watermark, error) {
	var row schema.Watermark
	err := s.db.WithContext(ctx).
		Where("entity = ? AND source = ? AND key = ?", string(key.Entity), string(key.Source), key.Key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watermark %s: %w", key, err)
	}

	mark := Watermark{Kind: row.Kind, Cursor: row.Cursor}
	switch row.Kind {
	case schema.WatermarkKindBlock:
		mark.Block = uint64(row.Position) //nolint:gosec,G115
	case schema.WatermarkKindTimestamp:
		mark.Timestamp = time.Unix(row.Position, 0).UTC()
	}
	return &mark, nil
}

// AdvanceWatermark moves the watermark of a feed forward.
// Block and timestamp watermarks never move backwards; cursor watermarks are replaced.
func (s *watermarkStore) AdvanceWatermark(ctx context.Context, key WatermarkKey, mark Watermark) error {
	row := schema.Watermark{
		Entity: string(key.Entity),
		Source: string(key.Source),
		Key:    key.Key,
		Kind:   mark.Kind,
	}

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "entity"}, {Name: "source"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"kind":       gorm.Expr("excluded.kind"),
			"position":   gorm.Expr("excluded.position"),
			"cursor":     gorm.Expr("excluded.cursor"),
			"updated_at": gorm.Expr("now()"),
		}),
	}

	switch mark.Kind {
	case schema.WatermarkKindBlock:
		row.Position = int64(mark.Block) //nolint:gosec,G115
	case schema.WatermarkKindTimestamp:
		row.Position = mark.Timestamp.Unix()
	case schema.WatermarkKindCursor:
		row.Cursor = mark.Cursor
	default:
		return fmt.Errorf("unknown watermark kind %q", mark.Kind)
	}

	if mark.Kind != schema.WatermarkKindCursor {
		// a stale or replayed batch must never rewind the feed
		onConflict.Where = clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "watermarks.kind <> excluded.kind OR watermarks.position < excluded.position"},
		}}
	}

	if err := s.db.WithContext(ctx).Clauses(onConflict).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to advance watermark %s: %w", key, err)
	}
	return nil
}
