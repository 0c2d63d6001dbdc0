// Package apply implements the UpdateApplier described in spec.md §4.5: it
// interprets the three input event shapes and routes each to the correct
// internal/twoside.Book operation.
package apply

import (
	"github.com/saiputravu/tickbook/internal/common"
	"github.com/saiputravu/tickbook/internal/twoside"
)

// PriceUpdate replaces the absolute resting quantity at a price.
type PriceUpdate struct {
	IsBid        bool
	Price        common.Price
	NewAggregate common.Qty
}

// PriceMutation applies a signed delta to the quantity resting at a price.
type PriceMutation struct {
	IsBid bool
	Price common.Price
	Delta common.Qty
}

// PriceMutationWithModify is a cancel/replace: it removes PrevQty resting at
// PrevPrice and adds Qty at Price. When HasPrev is false there is nothing to
// cancel and the event degrades to a plain add_qty.
type PriceMutationWithModify struct {
	IsBid     bool
	Price     common.Price
	Qty       common.Qty
	HasPrev   bool
	PrevPrice common.Price
	PrevQty   common.Qty
}

// Applier drives a twoside.Book from the three event shapes.
type Applier struct {
	book *twoside.Book
}

// New returns an Applier driving book.
func New(book *twoside.Book) *Applier {
	return &Applier{book: book}
}

// ApplyPriceUpdate computes the delta between the requested absolute
// quantity and whatever currently rests at the price on the full-depth side
// (zero if nothing rests there) and routes it to add_qty or delete_qty. A request that matches
// the current aggregate is a no-op (spec.md §4.5).
func (a *Applier) ApplyPriceUpdate(u PriceUpdate) error {
	current := common.Qty(0)
	if level, ok := a.book.GetLevel(u.IsBid, u.Price); ok {
		current = level.Qty
	}
	delta := u.NewAggregate - current
	switch {
	case delta > 0:
		a.book.AddQty(u.IsBid, u.Price, delta)
		return nil
	case delta < 0:
		return a.book.DeleteQty(u.IsBid, u.Price, -delta)
	default:
		return nil
	}
}

// ApplyPriceMutation routes a positive delta to add_qty and a negative delta
// to delete_qty with the absolute magnitude. A zero delta is a no-op.
func (a *Applier) ApplyPriceMutation(m PriceMutation) error {
	switch {
	case m.Delta > 0:
		a.book.AddQty(m.IsBid, m.Price, m.Delta)
		return nil
	case m.Delta < 0:
		return a.book.DeleteQty(m.IsBid, m.Price, -m.Delta)
	default:
		return nil
	}
}

// ApplyPriceMutationWithModify routes to modify_qty when a previous
// price/qty is present, otherwise to add_qty.
func (a *Applier) ApplyPriceMutationWithModify(m PriceMutationWithModify) error {
	if !m.HasPrev {
		a.book.AddQty(m.IsBid, m.Price, m.Qty)
		return nil
	}
	return a.book.ModifyQty(m.IsBid, m.Price, m.Qty, m.PrevPrice, m.PrevQty)
}
