package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/tickbook/internal/cache"
	"github.com/saiputravu/tickbook/internal/common"
)

func lvl(price, qty int64) common.PriceLevel {
	return common.PriceLevel{Price: common.Price(price), Qty: common.Qty(qty)}
}

func pricesOf(levels []common.PriceLevel) []common.Price {
	out := make([]common.Price, len(levels))
	for i, l := range levels {
		out[i] = l.Price
	}
	return out
}

func TestNew_RejectsOutOfRange(t *testing.T) {
	_, err := cache.New(0)
	assert.ErrorIs(t, err, common.ErrUnsupportedLevelCount)

	_, err = cache.New(common.MaxLevels + 1)
	assert.ErrorIs(t, err, common.ErrUnsupportedLevelCount)
}

func fullBidCache(t *testing.T) *cache.NLevels {
	t.Helper()
	nl, err := cache.New(5)
	require.NoError(t, err)
	for i := int64(1); i <= 5; i++ {
		nl.TryInsertSort(lvl(i*2, 1))
	}
	require.Equal(t, []common.Price{10, 8, 6, 4, 2}, pricesOf(nl.Levels()))
	return nl
}

func TestTryInsertSort_NotFull(t *testing.T) {
	nl, err := cache.New(2)
	require.NoError(t, err)

	nl.TryInsertSort(lvl(1, 1))
	worst, ok := nl.WorstPrice()
	assert.True(t, ok)
	assert.Equal(t, common.Price(1), worst)
	assert.Equal(t, []common.Price{1}, pricesOf(nl.Levels()))

	nl.TryInsertSort(lvl(2, 1))
	worst, ok = nl.WorstPrice()
	require.True(t, ok)
	assert.Equal(t, common.Price(1), worst)
	assert.Equal(t, []common.Price{2, 1}, pricesOf(nl.Levels()))
}

func TestTryInsertSort_Full(t *testing.T) {
	nl := fullBidCache(t)
	nl.TryInsertSort(lvl(12, 1))
	assert.Equal(t, []common.Price{12, 10, 8, 6, 4}, pricesOf(nl.Levels()))
	worst, _ := nl.WorstPrice()
	assert.Equal(t, common.Price(4), worst)

	nl = fullBidCache(t)
	nl.TryInsertSort(lvl(5, 1))
	assert.Equal(t, []common.Price{10, 8, 6, 5, 4}, pricesOf(nl.Levels()))

	nl = fullBidCache(t)
	nl.TryInsertSort(lvl(1, 1))
	// Below worst tracked price: no-op.
	assert.Equal(t, []common.Price{10, 8, 6, 4, 2}, pricesOf(nl.Levels()))
}

func TestInsertSort_IgnoresWorstGuard(t *testing.T) {
	nl := fullBidCache(t)
	nl.InsertSort(lvl(1, 1))
	assert.Equal(t, []common.Price{10, 8, 6, 4, 1}, pricesOf(nl.Levels()))
}

func TestReplaceSort(t *testing.T) {
	nl := fullBidCache(t)
	replacement := lvl(1, 1)
	nl.ReplaceSort(6, &replacement)
	assert.Equal(t, []common.Price{10, 8, 4, 2, 1}, pricesOf(nl.Levels()))
	worst, _ := nl.WorstPrice()
	assert.Equal(t, common.Price(1), worst)
}

func TestReplaceSort_ToEmpty(t *testing.T) {
	nl, err := cache.New(2)
	require.NoError(t, err)
	nl.TryInsertSort(lvl(100, 10))
	nl.ReplaceSort(100, nil)
	assert.Equal(t, 0, nl.Len())
	_, ok := nl.WorstPrice()
	assert.False(t, ok)
}

func TestUpdateQty_PreservesOrder(t *testing.T) {
	nl := fullBidCache(t)
	nl.UpdateQty(6, 99)
	levels := nl.Levels()
	assert.Equal(t, common.Qty(99), levels[2].Qty)
	assert.Equal(t, []common.Price{10, 8, 6, 4, 2}, pricesOf(levels))
}

func TestAskOrdering(t *testing.T) {
	nl, err := cache.New(5)
	require.NoError(t, err)
	for i := int64(1); i <= 5; i++ {
		nl.TryInsertSortReversed(lvl(i*2, 1))
	}
	assert.Equal(t, []common.Price{2, 4, 6, 8, 10}, pricesOf(nl.Levels()))

	nl.TryInsertSortReversed(lvl(1, 1))
	assert.Equal(t, []common.Price{1, 2, 4, 6, 8}, pricesOf(nl.Levels()))
}
