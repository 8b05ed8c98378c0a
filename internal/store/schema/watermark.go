package schema

import "time"

// WatermarkKind is the unit a watermark position is expressed in
type WatermarkKind string

const (
	WatermarkKindBlock     WatermarkKind = "block"
	WatermarkKindTimestamp WatermarkKind = "timestamp"
	WatermarkKindCursor    WatermarkKind = "cursor"
)

// Watermark stores the high-water mark of one ingestion feed.
// Position holds the block number or unix seconds; Cursor holds an opaque page token.
type Watermark struct {
	Entity    string        `gorm:"column:entity;primaryKey;type:text"`
	Source    string        `gorm:"column:source;primaryKey;type:text"`
	Key       string        `gorm:"column:key;primaryKey;type:text"`
	Kind      WatermarkKind `gorm:"column:kind;not null;type:text"`
	Position  int64         `gorm:"column:position;not null;default:0;type:bigint"`
	Cursor    string        `gorm:"column:cursor;type:text"`
	UpdatedAt time.Time     `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (Watermark) TableName() string {
	return "watermarks"
}
