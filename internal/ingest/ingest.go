// Package ingest runs ingestion units: sequential pull loops that fetch provider
// pages, normalize them, persist the records and advance the feed watermark.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
	"github.com/playrank/nft-roi-indexer/internal/pagination"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

// Result summarizes one unit run
type Result struct {
	Unit    string `json:"unit"`
	RunID   string `json:"run_id"`
	Pages   int    `json:"pages"`
	Fetched int    `json:"fetched"`
	// Skipped counts provider records that failed normalization
	Skipped int   `json:"skipped"`
	Written int64 `json:"written"`
	// Duplicates counts normalized records absorbed by an existing natural key
	Duplicates int64  `json:"duplicates"`
	Cursor     string `json:"cursor,omitempty"`
	// Exhausted is set when the provider had nothing left; a budget stop leaves it unset
	Exhausted bool   `json:"exhausted"`
	Error     string `json:"error,omitempty"`
}

func (r *Result) add(fetched, skipped int, upsert store.UpsertResult) {
	r.Pages++
	r.Fetched += fetched
	r.Skipped += skipped
	r.Written += upsert.Written
	r.Duplicates += upsert.Skipped
}

// Unit is one independent (collection, contract, entity) ingestion loop
type Unit interface {
	// Name identifies the unit in logs and results
	Name() string
	// Run pulls the feed until it is exhausted or the record budget is spent
	Run(ctx context.Context) (Result, error)
}

// Deps holds what every unit needs besides its provider client
type Deps struct {
	Store     store.Store
	FS        adapter.FileSystem
	Clock     adapter.Clock
	CursorDir string
	PageSize  int
	// Budget caps the records pulled per run; zero means unlimited
	Budget int
}

func (d Deps) cursorFile(slug string, entity domain.EntityType) *store.CursorFile {
	if d.FS == nil || d.CursorDir == "" {
		return nil
	}
	return store.NewCursorFile(d.FS, d.CursorDir, slug, entity)
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock.Now()
}

func newRunID(now time.Time) string {
	return ulid.MustNewDefault(now).String()
}

// pageOutcome is what a unit reports after persisting one page
type pageOutcome struct {
	skipped int
	upsert  store.UpsertResult
	// mark is advanced after the page is durably persisted; nil keeps the watermark
	mark *store.Watermark
}

// feed is the pull loop shared by every paginated unit
type feed[R any] struct {
	name       string
	key        store.WatermarkKey
	watermarks store.WatermarkStore
	cursorFile *store.CursorFile
	fetcher    *pagination.Fetcher[R]
	persist    func(ctx context.Context, page pagination.Page[R]) (pageOutcome, error)
	// cursorMarks stores each next cursor as the watermark, for feeds without block or time order
	cursorMarks bool
}

// run pulls pages from start until the fetcher stops. A persistence failure aborts
// the loop before the watermark moves past the failed page.
func (f *feed[R]) run(ctx context.Context, runID, start string) (Result, error) {
	result := Result{Unit: f.name, RunID: runID, Cursor: start}
	log := logger.FromContext(ctx).With(
		zap.String("unit", f.name),
		zap.String("run_id", runID),
	)

	for page, err := range f.fetcher.Pages(ctx, start) {
		if err != nil {
			return result, fmt.Errorf("unit %s: %w", f.name, err)
		}

		next := page.Next
		if page.Last {
			next = ""
		}

		// terminal empty page: nothing to persist, only the exhaustion to record
		if len(page.Items) == 0 {
			if f.cursorMarks {
				if err := f.watermarks.AdvanceWatermark(ctx, f.key, store.CursorWatermark("")); err != nil {
					return result, &domain.PersistenceError{Entity: f.key.Entity, Err: err}
				}
			}
			result.Cursor = ""
			result.Exhausted = true
			log.Debug("Feed exhausted on empty page", zap.String("cursor", page.Cursor))
			continue
		}

		outcome, err := f.persist(ctx, page)
		if err != nil {
			return result, fmt.Errorf("unit %s: %w", f.name, err)
		}

		mark := outcome.mark
		if f.cursorMarks {
			m := store.CursorWatermark(next)
			mark = &m
		}
		if mark != nil {
			if err := f.watermarks.AdvanceWatermark(ctx, f.key, *mark); err != nil {
				return result, &domain.PersistenceError{Entity: f.key.Entity, Err: err}
			}
		}

		if f.cursorFile != nil && next != "" {
			if err := f.cursorFile.Append(next); err != nil {
				// the file is only a hint; the watermark already moved
				log.Warn("Failed to append cursor file", zap.String("path", f.cursorFile.Path()), zap.Error(err))
			}
		}

		result.add(len(page.Items), outcome.skipped, outcome.upsert)
		result.Cursor = next
		result.Exhausted = page.Last
		log.Debug("Persisted page",
			zap.Int("records", len(page.Items)),
			zap.Int("skipped", outcome.skipped),
			zap.Int64("written", outcome.upsert.Written),
			zap.String("cursor", next))
	}

	log.Info("Unit finished",
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("skipped", result.Skipped),
		zap.Int64("written", result.Written),
		zap.Int64("duplicates", result.Duplicates),
		zap.Bool("exhausted", result.Exhausted))
	return result, nil
}

// resumeCursor returns the cursor a cursor-ordered feed resumes from: the stored
// watermark, or the cursor file when the database has never seen the feed
func resumeCursor(ctx context.Context, watermarks store.WatermarkStore, key store.WatermarkKey, cf *store.CursorFile) (string, error) {
	mark, err := watermarks.GetWatermark(ctx, key)
	if err != nil {
		return "", err
	}
	if mark != nil {
		return mark.Cursor, nil
	}
	if cf == nil {
		return "", nil
	}
	hint, err := cf.Last()
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read cursor file", zap.String("path", cf.Path()), zap.Error(err))
		return "", nil
	}
	return hint, nil
}

// startBlock returns the block a block-ordered feed resumes from
func startBlock(ctx context.Context, watermarks store.WatermarkStore, key store.WatermarkKey) (uint64, error) {
	mark, err := watermarks.GetWatermark(ctx, key)
	if err != nil {
		return 0, err
	}
	if mark == nil {
		return 0, nil
	}
	// the last block may be partially ingested; duplicates are absorbed on replay
	return mark.Block, nil
}

// logSkipped reports normalization errors of a page; the page continues without them
func logSkipped(ctx context.Context, unit string, errs []error) {
	for _, err := range errs {
		logger.WarnCtx(ctx, "Skipped record", zap.String("unit", unit), zap.Error(err))
	}
}
