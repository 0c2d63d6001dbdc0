// Package book implements the full-depth, per-side price-to-quantity
// aggregation that backs a tracked top-N cache.
package book

import (
	"github.com/tidwall/btree"

	"github.com/saiputravu/tickbook/internal/common"
)

// levels is the ordered map backing a Side, keyed by price.
type levels = btree.BTreeG[common.PriceLevel]

// Side is one side (bid or ask) of an order book: a full-depth, ordered
// map from price to aggregated resting quantity. It performs no top-N
// bookkeeping of its own; see internal/track for the coherence layer that
// keeps a bounded cache in sync with a Side.
type Side struct {
	isBid bool
	tree  *levels
}

// New constructs an empty Side. Bids are ordered with the highest price
// first; asks are ordered with the lowest price first.
func New(isBid bool) *Side {
	var less func(a, b common.PriceLevel) bool
	if isBid {
		less = func(a, b common.PriceLevel) bool { return a.Price > b.Price }
	} else {
		less = func(a, b common.PriceLevel) bool { return a.Price < b.Price }
	}
	return &Side{
		isBid: isBid,
		tree:  btree.NewBTreeG(less),
	}
}

// IsBid reports whether this side is ordered as a bid side.
func (s *Side) IsBid() bool { return s.isBid }

// Len returns the number of distinct price levels currently resting.
func (s *Side) Len() int { return s.tree.Len() }

// GetLevel returns the aggregated level at price, if any resting quantity
// exists there.
func (s *Side) GetLevel(price common.Price) (common.PriceLevel, bool) {
	return s.tree.Get(common.PriceLevel{Price: price})
}

// AddQty adds qty to the level at price, creating it if necessary. It
// reports whether the level already existed, and the resulting level.
func (s *Side) AddQty(price common.Price, qty common.Qty) (common.LevelKind, common.PriceLevel) {
	existing, ok := s.tree.Get(common.PriceLevel{Price: price})
	if !ok {
		level := common.PriceLevel{Price: price, Qty: qty}
		s.tree.Set(level)
		return common.NewLevel, level
	}
	existing.Qty += qty
	s.tree.Set(existing)
	return common.ExistingLevel, existing
}

// DeleteQty removes qty from the level at price. If the level's remaining
// quantity reaches zero the level is removed entirely; returns which
// happened along with the resulting level (for Deleted, the level as it was
// immediately before removal).
func (s *Side) DeleteQty(price common.Price, qty common.Qty) (common.DeleteKind, common.PriceLevel, error) {
	existing, ok := s.tree.Get(common.PriceLevel{Price: price})
	if !ok {
		return 0, common.PriceLevel{}, common.ErrLevelNotFound
	}
	if qty > existing.Qty {
		return 0, common.PriceLevel{}, common.ErrQtyExceedsAvailable
	}
	remaining := existing.Qty - qty
	if remaining == 0 {
		s.tree.Delete(existing)
		return common.Deleted, existing, nil
	}
	updated := common.PriceLevel{Price: price, Qty: remaining}
	s.tree.Set(updated)
	return common.QuantityDecreased, updated, nil
}

// SetLevel overwrites the level at price with an absolute quantity,
// creating or deleting it as needed. A qty of zero deletes the level.
func (s *Side) SetLevel(price common.Price, qty common.Qty) {
	if qty == 0 {
		s.tree.Delete(common.PriceLevel{Price: price})
		return
	}
	s.tree.Set(common.PriceLevel{Price: price, Qty: qty})
}

// NthBest walks the side from the best price and returns the k-th best
// level (0-indexed), if one exists. This is an O(k) ordered walk, not a
// full rescan, since the underlying map is already price-ordered.
func (s *Side) NthBest(k int) (common.PriceLevel, bool) {
	if k < 0 {
		return common.PriceLevel{}, false
	}
	var (
		i     int
		found common.PriceLevel
		ok    bool
	)
	s.tree.Scan(func(item common.PriceLevel) bool {
		if i == k {
			found, ok = item, true
			return false
		}
		i++
		return true
	})
	return found, ok
}

// Best returns the best (first) level on this side.
func (s *Side) Best() (common.PriceLevel, bool) {
	return s.NthBest(0)
}
