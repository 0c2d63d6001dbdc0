// Package cache implements a fixed-capacity, always-sorted cache of the
// best N price levels on one side of a book.
package cache

import (
	"fmt"

	"github.com/saiputravu/tickbook/internal/common"
)

// NLevels is a capacity-bounded, best-to-worst sorted list of price levels.
// Go has no const-generic array length, so capacity is a runtime field
// (slots) rather than a type parameter; this is the statically-bounded
// small-vector shape, preallocated once and never reallocated in steady
// state.
type NLevels struct {
	slots []common.PriceLevel
	count int
}

// New returns an NLevels with room for n levels. n must fall within
// common.MinLevels..common.MaxLevels (spec.md §6's recommended bounded set).
func New(n int) (*NLevels, error) {
	if n < common.MinLevels || n > common.MaxLevels {
		return nil, common.ErrUnsupportedLevelCount
	}
	return &NLevels{slots: make([]common.PriceLevel, n)}, nil
}

// Cap returns the configured capacity N.
func (nl *NLevels) Cap() int { return len(nl.slots) }

// Len returns the number of currently occupied slots (<= Cap()).
func (nl *NLevels) Len() int { return nl.count }

// Full reports whether the cache holds Cap() levels.
func (nl *NLevels) Full() bool { return nl.count == len(nl.slots) }

// Levels returns the occupied prefix, best first. The returned slice aliases
// internal storage and must not be retained across mutating calls.
func (nl *NLevels) Levels() []common.PriceLevel {
	return nl.slots[:nl.count]
}

// BestLevel returns the best (index 0) level, if any.
func (nl *NLevels) BestLevel() (common.PriceLevel, bool) {
	if nl.count == 0 {
		return common.PriceLevel{}, false
	}
	return nl.slots[0], true
}

// BestPrice returns the best tracked price, if any.
func (nl *NLevels) BestPrice() (common.Price, bool) {
	level, ok := nl.BestLevel()
	return level.Price, ok
}

// BestPriceQty returns the qty at the best tracked price, if any.
func (nl *NLevels) BestPriceQty() (common.Qty, bool) {
	level, ok := nl.BestLevel()
	return level.Qty, ok
}

// WorstPrice returns the price of the worst currently tracked level, if the
// cache holds any levels at all.
func (nl *NLevels) WorstPrice() (common.Price, bool) {
	if nl.count == 0 {
		return 0, false
	}
	return nl.slots[nl.count-1].Price, true
}

// TryInsertSort inserts newLevel into a bid-ordered (descending) cache,
// skipping it if it is worse than the current worst tracked price and the
// cache is already full.
func (nl *NLevels) TryInsertSort(newLevel common.PriceLevel) {
	if nl.Full() {
		if worst, ok := nl.WorstPrice(); ok && worst > newLevel.Price {
			return
		}
	}
	nl.InsertSort(newLevel)
}

// InsertSort inserts newLevel into a descending-sorted cache, unconditionally
// (no worst-price check), dropping the previous worst entry if the cache was
// already full.
func (nl *NLevels) InsertSort(newLevel common.PriceLevel) {
	nl.insert(newLevel, func(a, b common.Price) bool { return a > b })
}

// TryInsertSortReversed inserts newLevel into an ask-ordered (ascending)
// cache, skipping it if it is worse than the current worst tracked price and
// the cache is already full.
func (nl *NLevels) TryInsertSortReversed(newLevel common.PriceLevel) {
	if nl.Full() {
		if worst, ok := nl.WorstPrice(); ok && worst < newLevel.Price {
			return
		}
	}
	nl.InsertSortReversed(newLevel)
}

// InsertSortReversed inserts newLevel into an ascending-sorted cache,
// unconditionally, dropping the previous worst entry if the cache was
// already full.
func (nl *NLevels) InsertSortReversed(newLevel common.PriceLevel) {
	nl.insert(newLevel, func(a, b common.Price) bool { return a < b })
}

// insert places newLevel into the occupied prefix, keeping it ordered by
// betterThan (a "comes before" b). It grows count by one, unless the cache
// was already full, in which case the previous worst entry is displaced.
func (nl *NLevels) insert(newLevel common.PriceLevel, betterThan func(a, b common.Price) bool) {
	insertAt := nl.count
	for i := 0; i < nl.count; i++ {
		if betterThan(newLevel.Price, nl.slots[i].Price) {
			insertAt = i
			break
		}
	}
	last := nl.count
	if last == len(nl.slots) {
		last = len(nl.slots) - 1
	} else {
		nl.count++
	}
	if insertAt > last {
		insertAt = last
	}
	for i := last; i > insertAt; i-- {
		nl.slots[i] = nl.slots[i-1]
	}
	nl.slots[insertAt] = newLevel
}

// ReplaceSort removes the tracked level at priceToReplace and, if
// replacement is non-nil, inserts it at the back of the occupied prefix
// (the caller is responsible for passing the correct next-best untracked
// level, e.g. from Side.NthBest(Cap()-1) once the removed level is gone
// from the side); otherwise the occupied prefix
// shrinks by one. If priceToReplace is not tracked, this is a no-op.
func (nl *NLevels) ReplaceSort(priceToReplace common.Price, replacement *common.PriceLevel) {
	idx := -1
	for i := 0; i < nl.count; i++ {
		if nl.slots[i].Price == priceToReplace {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	for i := idx; i < nl.count-1; i++ {
		nl.slots[i] = nl.slots[i+1]
	}
	if replacement != nil {
		nl.slots[nl.count-1] = *replacement
	} else {
		nl.slots[nl.count-1] = common.PriceLevel{}
		nl.count--
	}
}

// UpdateQty overwrites the qty of the tracked level at price, leaving its
// position unchanged (a qty change never reorders a level relative to its
// neighbours, since price is the sort key). A no-op if price is not tracked.
func (nl *NLevels) UpdateQty(price common.Price, newQty common.Qty) {
	for i := 0; i < nl.count; i++ {
		if nl.slots[i].Price == price {
			nl.slots[i].Qty = newQty
			return
		}
	}
}

// PriceOutsideWindow reports whether price could not possibly improve on
// the worst currently tracked level, for the side selected by isBid
// (bid => descending, ask => ascending). A cache that is not yet full
// has no outside-window prices.
func (nl *NLevels) PriceOutsideWindow(price common.Price, isBid bool) bool {
	if !nl.Full() {
		return false
	}
	worst, ok := nl.WorstPrice()
	if !ok {
		return false
	}
	if isBid {
		return price < worst
	}
	return price > worst
}

// WorseThanWorst reports whether worst_price is set and price is strictly
// worse than it (lower for a bid cache, higher for an ask cache). Unlike
// PriceOutsideWindow this does not require the cache to be full: per the
// cross-structure invariant, a cache holding fewer than Cap() levels tracks
// every price the owning side has, so this can only be true for prices that
// are worse than an already-full cache's tail; see internal/track for how
// the two checks are used in the add and delete coherence paths.
func (nl *NLevels) WorseThanWorst(price common.Price, isBid bool) bool {
	worst, ok := nl.WorstPrice()
	if !ok {
		return false
	}
	if isBid {
		return price < worst
	}
	return price > worst
}

func (nl *NLevels) String() string {
	return fmt.Sprintf("NLevels{levels: %v, count: %d/%d}", nl.Levels(), nl.count, len(nl.slots))
}
