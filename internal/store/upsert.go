package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/logger"
)

// ConflictPolicy decides what happens to rows whose natural key already exists
type ConflictPolicy int

const (
	// KeepExisting leaves existing rows untouched
	KeepExisting ConflictPolicy = iota
	// Overwrite replaces the non-key columns of existing rows
	Overwrite
)

func (p ConflictPolicy) String() string {
	if p == Overwrite {
		return "overwrite"
	}
	return "keep-existing"
}

// Record is a persisted row identified by a natural key
type Record interface {
	TableName() string
	// ConflictColumns are the natural key columns
	ConflictColumns() []string
	// UpdateColumns are the columns replaced under the Overwrite policy
	UpdateColumns() []string
	// NaturalKey returns the key as a string; ok is false when a key field is missing
	NaturalKey() (key string, ok bool)
}

// UpsertResult reports the outcome of a batch upsert
type UpsertResult struct {
	Written int64
	Skipped int64
}

// PostgreSQL: ON CONFLICT DO UPDATE command cannot affect row a second time
const sqlStateCardinalityViolation = "21000"

// IsDuplicateKeyBatchError reports whether err was caused by a natural key appearing twice in one statement.
// A unique violation is not one: it comes from a constraint other than the conflict target.
func IsDuplicateKeyBatchError(err error) bool {
	if errors.Is(err, domain.ErrDuplicateKeyBatch) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateCardinalityViolation
	}
	return false
}

// UpsertBatch writes records in a single atomic transaction keyed by their natural key.
// When the batch holds the same key twice the transaction is rolled back, the batch is
// deduplicated and retried once. Any other failure, or a second failure, is returned as
// a *domain.PersistenceError.
func UpsertBatch[T Record](ctx context.Context, db *gorm.DB, entity domain.EntityType, records []T, policy ConflictPolicy) (UpsertResult, error) {
	if len(records) == 0 {
		return UpsertResult{}, nil
	}

	written, err := insertBatch(ctx, db, records, policy)
	if err == nil {
		return UpsertResult{Written: written, Skipped: int64(len(records)) - written}, nil
	}
	if !IsDuplicateKeyBatchError(err) {
		return UpsertResult{}, &domain.PersistenceError{Entity: entity, Err: err}
	}

	deduped := Dedupe(records, policy)
	logger.WarnCtx(ctx, "Duplicate keys in batch, retrying with deduplicated rows",
		zap.String("entity", string(entity)),
		zap.Int("records", len(records)),
		zap.Int("deduped", len(deduped)),
		zap.Error(err))

	written, err = insertBatch(ctx, db, deduped, policy)
	if err != nil {
		return UpsertResult{}, &domain.PersistenceError{
			Entity: entity,
			Err:    fmt.Errorf("%w: retry after dedupe failed: %w", domain.ErrDuplicateKeyBatch, err),
		}
	}
	return UpsertResult{Written: written, Skipped: int64(len(records)) - written}, nil
}

// Dedupe keeps one row per natural key and drops rows with missing key fields.
// KeepExisting keeps the first occurrence, Overwrite the last one; the position
// of the first occurrence is preserved.
func Dedupe[T Record](records []T, policy ConflictPolicy) []T {
	index := make(map[string]int, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		key, ok := r.NaturalKey()
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			if policy == Overwrite {
				out[i] = r
			}
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}

func insertBatch[T Record](ctx context.Context, db *gorm.DB, records []T, policy ConflictPolicy) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var zero T
	conflictColumns := make([]clause.Column, 0, len(zero.ConflictColumns()))
	for _, c := range zero.ConflictColumns() {
		conflictColumns = append(conflictColumns, clause.Column{Name: c})
	}

	onConflict := clause.OnConflict{Columns: conflictColumns}
	if policy == Overwrite && len(zero.UpdateColumns()) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(zero.UpdateColumns())
	} else {
		onConflict.DoNothing = true
	}

	batchSize := calculateSafeBatchSize(len(records), fieldsPerRecord(db, &zero))

	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(onConflict).CreateInBatches(records, batchSize)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %s: %w", zero.TableName(), err)
	}
	return affected, nil
}

// fieldsPerRecord returns the number of columns gorm binds per row
func fieldsPerRecord(db *gorm.DB, model interface{}) int {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil || stmt.Schema == nil || len(stmt.Schema.DBNames) == 0 {
		return 32
	}
	return len(stmt.Schema.DBNames)
}

// calculateSafeBatchSize computes the batch size for bulk inserts that keeps a
// statement under PostgreSQL's limit of 65535 bind parameters.
//
// A total headroom is reserved for batch-level overhead such as ON CONFLICT
// parameters, which does not scale per record.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/max(fieldsPerRecord, 1), 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}
