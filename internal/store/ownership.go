package store

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/store/schema"
)

// ZeroAddress is the sender of mints and the recipient of burns
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// ApplyOwnershipTransfers derives ownership intervals from transfers.
// Each transfer closes the sender's open interval on the asset and opens one for the
// recipient. Replaying a transfer is a no-op, so batches may be applied more than once.
func (s *pgStore) ApplyOwnershipTransfers(ctx context.Context, transfers []domain.TransferEvent) error {
	if len(transfers) == 0 {
		return nil
	}

	ordered := make([]domain.TransferEvent, len(transfers))
	copy(ordered, transfers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range ordered {
			if err := applyTransfer(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &domain.PersistenceError{Entity: domain.EntityTransfer, Err: err}
	}
	return nil
}

func applyTransfer(ctx context.Context, tx *gorm.DB, t domain.TransferEvent) error {
	ts := t.Timestamp.UTC()

	// Mints have no previous holder to release
	if t.From != "" && t.From != ZeroAddress {
		result := tx.WithContext(ctx).
			Model(&schema.NFTOwnership{}).
			Where("contract_address = ? AND token_id = ? AND buyer = ? AND sell_time IS NULL AND buy_time <= ?",
				t.Asset.ContractAddress, t.Asset.TokenID, t.From, ts).
			Updates(map[string]interface{}{"sell_time": ts, "updated_at": gorm.Expr("now()")})
		if result.Error != nil {
			return fmt.Errorf("failed to close ownership interval for from address: %w", result.Error)
		}
	}

	// Burns leave no holder
	if t.To == "" || t.To == ZeroAddress {
		return nil
	}

	quantity := t.Quantity
	if quantity == "" {
		quantity = "1"
	}
	interval := &schema.NFTOwnership{
		ContractAddress: t.Asset.ContractAddress,
		TokenID:         t.Asset.TokenID,
		Buyer:           t.To,
		Seller:          t.From,
		Quantity:        quantity,
		TransactionHash: t.TransactionHash,
		CollectionSlug:  t.CollectionSlug,
		GameID:          t.GameID,
		BuyTime:         ts,
	}

	// The unique (asset, buyer, buy_time) index absorbs replays
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(interval).Error; err != nil {
		return fmt.Errorf("failed to create ownership interval for to address: %w", err)
	}
	return nil
}
