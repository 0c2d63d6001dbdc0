// Package twoside pairs a bid and an ask internal/track.TrackedBookSide into
// a single two-sided book, routing events by their is_bid flag.
package twoside

import (
	"github.com/saiputravu/tickbook/internal/common"
	"github.com/saiputravu/tickbook/internal/track"
)

// Book holds the bid and ask tracked sides of one instrument's book. It does
// not enforce bid/ask non-crossing (spec.md §4.4: not a goal).
type Book struct {
	bid *track.TrackedBookSide
	ask *track.TrackedBookSide
}

// New constructs an empty two-sided book tracking the best n levels on each
// side.
func New(n int) (*Book, error) {
	bid, err := track.New(true, n)
	if err != nil {
		return nil, err
	}
	ask, err := track.New(false, n)
	if err != nil {
		return nil, err
	}
	return &Book{bid: bid, ask: ask}, nil
}

// NewSingleLevel constructs a two-sided book tracking only the best level on
// each side, the degenerate N=1 case.
func NewSingleLevel() (*Book, error) {
	return New(1)
}

// Side returns the tracked side for isBid (true = bid, false = ask).
func (b *Book) Side(isBid bool) *track.TrackedBookSide {
	if isBid {
		return b.bid
	}
	return b.ask
}

// BidLevels returns the tracked top-N bid levels, best (highest price) first.
func (b *Book) BidLevels() []common.PriceLevel { return b.bid.Levels() }

// AskLevels returns the tracked top-N ask levels, best (lowest price) first.
func (b *Book) AskLevels() []common.PriceLevel { return b.ask.Levels() }

// BestBid returns the best resting bid level, if any.
func (b *Book) BestBid() (common.PriceLevel, bool) { return b.bid.BestLevel() }

// BestAsk returns the best resting ask level, if any.
func (b *Book) BestAsk() (common.PriceLevel, bool) { return b.ask.BestLevel() }

// AddQty adds qty at price on the side indicated by isBid.
func (b *Book) AddQty(isBid bool, price common.Price, qty common.Qty) {
	b.Side(isBid).AddQty(price, qty)
}

// DeleteQty removes qty at price on the side indicated by isBid.
func (b *Book) DeleteQty(isBid bool, price common.Price, qty common.Qty) error {
	return b.Side(isBid).DeleteQty(price, qty)
}

// ModifyQty cancels prevPrice/prevQty and adds price/qty on the side
// indicated by isBid.
func (b *Book) ModifyQty(isBid bool, price common.Price, qty common.Qty, prevPrice common.Price, prevQty common.Qty) error {
	return b.Side(isBid).ModifyQty(price, qty, prevPrice, prevQty)
}

// GetLevel returns the full-depth aggregated level at price on the side
// indicated by isBid, tracked or not.
func (b *Book) GetLevel(isBid bool, price common.Price) (common.PriceLevel, bool) {
	return b.Side(isBid).GetLevel(price)
}
