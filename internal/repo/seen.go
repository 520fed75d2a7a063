// Package repo – seen-order store
//
// This file provides the durable record of previously reported order IDs.
// It follows the "thin repository" approach: idempotent set membership over
// a single table, no business logic.
//
// Error semantics:
//   - Membership checks never fail on unknown IDs; they simply report false.
//   - Any underlying database error is wrapped with a "seen-order store"
//     prefix and must be treated as fatal by callers, since new-only
//     filtering cannot be trusted without the store.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/shipstation-cli/internal/domain"
)

// SeenStore is the persistence handle for the seen-order set. The zero
// value is not usable; construct it with a DB from OpenSQLite (or an
// in-memory database in tests).
type SeenStore struct {
	DB *gorm.DB
}

// HasSeen reports whether orderID was recorded by a previous run.
func (s *SeenStore) HasSeen(ctx context.Context, orderID int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&domain.SeenOrder{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("seen-order store: %w", err)
	}
	return n > 0, nil
}

// SeenIDs returns the set of order IDs among the given orders that are
// already recorded. Used to annotate output without one query per order.
func (s *SeenStore) SeenIDs(ctx context.Context, orders []domain.Order) (map[int64]bool, error) {
	if len(orders) == 0 {
		return map[int64]bool{}, nil
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	var rows []int64
	err := s.DB.WithContext(ctx).
		Model(&domain.SeenOrder{}).
		Where("order_id IN ?", ids).
		Pluck("order_id", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("seen-order store: %w", err)
	}
	seen := make(map[int64]bool, len(rows))
	for _, id := range rows {
		seen[id] = true
	}
	return seen, nil
}

// MarkSeen records the given orders as seen at now. The insert is
// idempotent: IDs that are already recorded are skipped, and their
// original first_seen_at is preserved.
func (s *SeenStore) MarkSeen(ctx context.Context, orders []domain.Order, now time.Time) error {
	if len(orders) == 0 {
		return nil
	}
	rows := make([]domain.SeenOrder, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, domain.SeenOrder{
			OrderID:      o.OrderID,
			OrderNumber:  o.OrderNumber,
			FirstSeenAt:  now.UTC(),
			OrderDate:    o.OrderDate,
			StoreID:      o.StoreID(),
			CustomerName: o.ShipTo.Name,
			OrderTotal:   o.OrderTotal,
		})
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seen-order store: %w", err)
	}
	return nil
}

// FilterNew returns the orders not yet recorded, preserving the input
// order. It does not mark anything seen; callers record orders only after
// they have actually been reported.
func (s *SeenStore) FilterNew(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	seen, err := s.SeenIDs(ctx, orders)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !seen[o.OrderID] {
			out = append(out, o)
		}
	}
	return out, nil
}
