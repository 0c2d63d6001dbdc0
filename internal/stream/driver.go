// Package stream is the columnar front-end that drives an
// internal/twoside.Book from tabular input and materialises the top-N
// snapshot after each applied row (spec.md §6's "StreamDriver / Builders").
// It is an external collaborator of the core tracked-book engine, not part
// of it: the engine itself performs no I/O (spec.md §5).
package stream

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saiputravu/tickbook/internal/apply"
	"github.com/saiputravu/tickbook/internal/common"
	"github.com/saiputravu/tickbook/internal/twoside"
)

// Mode disambiguates the two three-column event shapes that share an
// identical wire signature (spec.md §6): PriceUpdate carries an absolute
// aggregate quantity, PriceMutation carries a signed delta.
type Mode int

const (
	ModeAbsolute Mode = iota
	ModeDelta
)

// Columns is the nullable, columnar input described in spec.md §6. Each
// slice has the same length (the row count); a nil entry at index i means
// that cell is absent for row i. PrevPrice/PrevQty are only consulted when
// both are non-nil for the row, in which case the row is treated as
// PriceMutationWithModify regardless of Mode.
type Columns struct {
	IsBid     []*bool
	Price     []*int64
	Qty       []*int64
	PrevPrice []*int64
	PrevQty   []*int64
}

// Len returns the row count, derived from IsBid.
func (c Columns) Len() int { return len(c.IsBid) }

// ScalarSnapshot is the N=1 output shape of spec.md §6: four scalar fields,
// each absent (nil) if that side of the book is empty.
type ScalarSnapshot struct {
	BidPrice *int64
	BidQty   *int64
	AskPrice *int64
	AskQty   *int64
}

// ArraySnapshot is the N>1 output shape of spec.md §6: four fixed-length-N
// arrays, index 0 best, unused trailing positions nil.
type ArraySnapshot struct {
	BidPrice []*int64
	BidQty   []*int64
	AskPrice []*int64
	AskQty   []*int64
}

// Result is the outcome of driving one batch: the per-row scalar or array
// snapshots (whichever matches the book's N), plus bookkeeping on rejected
// rows.
type Result struct {
	RunID           uuid.UUID
	ScalarSnapshots []ScalarSnapshot
	ArraySnapshots  []ArraySnapshot
	RowsProcessed   int
	RowsRejected    int
	AbortedAt       int // row index the run stopped at, or Columns.Len() if it ran to completion
}

// Driver unpacks a Columns batch, applies each row to a book in order, and
// builds a snapshot after each applied row.
type Driver struct {
	book    *twoside.Book
	applier *apply.Applier
	mode    Mode
	n       int
	// AbortOnError stops the run at the first rejected or failed row
	// (spec.md §7: "the driver chooses whether to abort the stream or
	// skip the offending row"). When false, rejected rows are skipped
	// and the run continues.
	AbortOnError bool
}

// New returns a Driver over book, tracking n levels per side and
// disambiguating plain 3-column rows per mode.
func New(book *twoside.Book, n int, mode Mode) *Driver {
	return &Driver{book: book, applier: apply.New(book), mode: mode, n: n}
}

// Run applies cols in row order, building a snapshot after every
// successfully applied row. On an unrecoverable row error, if AbortOnError
// is set the run stops and every snapshot already produced is returned
// unchanged (spec.md §7); otherwise the row is counted as rejected and
// iteration continues.
func (d *Driver) Run(cols Columns) (Result, error) {
	runID := uuid.New()
	res := Result{RunID: runID}
	rowCount := cols.Len()

	log.Info().
		Str("runID", runID.String()).
		Int("rows", rowCount).
		Int("levels", d.n).
		Msg("stream run starting")

	for i := 0; i < rowCount; i++ {
		if err := d.applyRow(cols, i); err != nil {
			log.Error().
				Str("runID", runID.String()).
				Int("row", i).
				Err(err).
				Msg("row rejected")
			res.RowsRejected++
			if d.AbortOnError {
				res.AbortedAt = i
				log.Error().
					Str("runID", runID.String()).
					Int("row", i).
					Msg("aborting run on row error")
				return res, err
			}
			continue
		}
		res.RowsProcessed++
		if d.n == 1 {
			res.ScalarSnapshots = append(res.ScalarSnapshots, d.buildScalarSnapshot())
		} else {
			res.ArraySnapshots = append(res.ArraySnapshots, d.buildArraySnapshot())
		}
	}
	res.AbortedAt = rowCount

	log.Info().
		Str("runID", runID.String()).
		Int("processed", res.RowsProcessed).
		Int("rejected", res.RowsRejected).
		Msg("stream run finished")

	return res, nil
}

// applyRow unpacks row i according to the configured mode (or promotes it to
// a modify if PrevPrice/PrevQty are present) and dispatches it to the
// applier.
func (d *Driver) applyRow(cols Columns, i int) error {
	isBid, err := requireBool(cols.IsBid, i)
	if err != nil {
		return err
	}
	price, err := requireInt(cols.Price, i)
	if err != nil {
		return err
	}
	qty, err := requireInt(cols.Qty, i)
	if err != nil {
		return err
	}

	hasPrev := i < len(cols.PrevPrice) && cols.PrevPrice[i] != nil &&
		i < len(cols.PrevQty) && cols.PrevQty[i] != nil

	if hasPrev {
		prevPrice, err := requireInt(cols.PrevPrice, i)
		if err != nil {
			return err
		}
		prevQty, err := requireInt(cols.PrevQty, i)
		if err != nil {
			return err
		}
		return d.applier.ApplyPriceMutationWithModify(apply.PriceMutationWithModify{
			IsBid:     isBid,
			Price:     common.Price(price),
			Qty:       common.Qty(qty),
			HasPrev:   true,
			PrevPrice: common.Price(prevPrice),
			PrevQty:   common.Qty(prevQty),
		})
	}

	if d.mode == ModeAbsolute {
		return d.applier.ApplyPriceUpdate(apply.PriceUpdate{
			IsBid:        isBid,
			Price:        common.Price(price),
			NewAggregate: common.Qty(qty),
		})
	}
	return d.applier.ApplyPriceMutation(apply.PriceMutation{
		IsBid: isBid,
		Price: common.Price(price),
		Delta: common.Qty(qty),
	})
}

func requireBool(col []*bool, i int) (bool, error) {
	if i >= len(col) || col[i] == nil {
		return false, common.ErrUpdateMissingValue
	}
	return *col[i], nil
}

func requireInt(col []*int64, i int) (int64, error) {
	if i >= len(col) || col[i] == nil {
		return 0, common.ErrUpdateMissingValue
	}
	return *col[i], nil
}

// buildScalarSnapshot implements the N=1 output shape of spec.md §6.
func (d *Driver) buildScalarSnapshot() ScalarSnapshot {
	var snap ScalarSnapshot
	if level, ok := d.book.BestBid(); ok {
		snap.BidPrice = ptrInt64(int64(level.Price))
		snap.BidQty = ptrInt64(int64(level.Qty))
	}
	if level, ok := d.book.BestAsk(); ok {
		snap.AskPrice = ptrInt64(int64(level.Price))
		snap.AskQty = ptrInt64(int64(level.Qty))
	}
	return snap
}

// buildArraySnapshot implements the N>1 output shape of spec.md §6: four
// fixed-length-N arrays, index 0 best, unused trailing positions nil.
func (d *Driver) buildArraySnapshot() ArraySnapshot {
	return ArraySnapshot{
		BidPrice: levelColumn(d.book.BidLevels(), d.n, levelPrice),
		BidQty:   levelColumn(d.book.BidLevels(), d.n, levelQty),
		AskPrice: levelColumn(d.book.AskLevels(), d.n, levelPrice),
		AskQty:   levelColumn(d.book.AskLevels(), d.n, levelQty),
	}
}

func levelPrice(l common.PriceLevel) int64 { return int64(l.Price) }
func levelQty(l common.PriceLevel) int64   { return int64(l.Qty) }

func levelColumn(levels []common.PriceLevel, n int, field func(common.PriceLevel) int64) []*int64 {
	col := make([]*int64, n)
	for i := 0; i < len(levels) && i < n; i++ {
		col[i] = ptrInt64(field(levels[i]))
	}
	return col
}

func ptrInt64(v int64) *int64 { return &v }
