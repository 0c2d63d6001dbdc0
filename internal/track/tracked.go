// Package track implements the coherence protocol that keeps a bounded
// top-N cache (internal/cache) in sync with a full-depth book side
// (internal/book) as quantity is added, deleted, and moved.
package track

import (
	"github.com/saiputravu/tickbook/internal/book"
	"github.com/saiputravu/tickbook/internal/cache"
	"github.com/saiputravu/tickbook/internal/common"
)

// TrackedBookSide owns one book.Side and one cache.NLevels and keeps the
// latter a faithful top-N view of the former.
type TrackedBookSide struct {
	isBid bool
	side  *book.Side
	top   *cache.NLevels
}

// New constructs an empty TrackedBookSide tracking the best n levels.
func New(isBid bool, n int) (*TrackedBookSide, error) {
	top, err := cache.New(n)
	if err != nil {
		return nil, err
	}
	return &TrackedBookSide{
		isBid: isBid,
		side:  book.New(isBid),
		top:   top,
	}, nil
}

// NewSingleLevel constructs a TrackedBookSide tracking only the single best
// level — the degenerate N=1 case, expressed as New(isBid, 1) rather than a
// hand-duplicated type.
func NewSingleLevel(isBid bool) (*TrackedBookSide, error) {
	return New(isBid, 1)
}

// IsBid reports whether this is the bid side.
func (t *TrackedBookSide) IsBid() bool { return t.isBid }

// Levels returns the tracked top-N levels, best first.
func (t *TrackedBookSide) Levels() []common.PriceLevel { return t.top.Levels() }

// BestLevel returns the best tracked level, if any.
func (t *TrackedBookSide) BestLevel() (common.PriceLevel, bool) { return t.top.BestLevel() }

// GetLevel returns the full-depth aggregated level at price, tracked or not.
func (t *TrackedBookSide) GetLevel(price common.Price) (common.PriceLevel, bool) {
	return t.side.GetLevel(price)
}

// AddQty adds qty at price and keeps the cache coherent. Mirrors
// book.Side.AddQty's "must not fail" contract.
func (t *TrackedBookSide) AddQty(price common.Price, qty common.Qty) {
	kind, level := t.side.AddQty(price, qty)

	if t.top.Full() && t.top.PriceOutsideWindow(level.Price, t.isBid) {
		return
	}
	if kind == common.ExistingLevel {
		t.top.UpdateQty(level.Price, level.Qty)
		return
	}
	if t.isBid {
		t.top.InsertSort(level)
	} else {
		t.top.InsertSortReversed(level)
	}
}

// DeleteQty removes qty at price and keeps the cache coherent, promoting
// the next-best untracked level into the cache if a tracked level is fully
// removed.
func (t *TrackedBookSide) DeleteQty(price common.Price, qty common.Qty) error {
	kind, level, err := t.side.DeleteQty(price, qty)
	if err != nil {
		return err
	}

	if t.top.WorseThanWorst(level.Price, t.isBid) {
		return nil
	}
	if kind == common.QuantityDecreased {
		t.top.UpdateQty(level.Price, level.Qty)
		return nil
	}

	promoted, ok := t.side.NthBest(t.top.Cap() - 1)
	if ok {
		t.top.ReplaceSort(level.Price, &promoted)
	} else {
		t.top.ReplaceSort(level.Price, nil)
	}
	return nil
}

// ModifyQty cancels the previous resting quantity and adds the new one.
// If the delete fails, the add is never attempted.
func (t *TrackedBookSide) ModifyQty(price common.Price, qty common.Qty, prevPrice common.Price, prevQty common.Qty) error {
	if err := t.DeleteQty(prevPrice, prevQty); err != nil {
		return err
	}
	t.AddQty(price, qty)
	return nil
}
