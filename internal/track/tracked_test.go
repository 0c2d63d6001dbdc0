package track_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/tickbook/internal/common"
	"github.com/saiputravu/tickbook/internal/track"
)

func pricesOf(t *testing.T, levels []common.PriceLevel) []common.Price {
	t.Helper()
	out := make([]common.Price, len(levels))
	for i, l := range levels {
		out[i] = l.Price
	}
	return out
}

func TestAddDelete_BestBecomesEmpty(t *testing.T) {
	ts, err := track.New(true, 1)
	require.NoError(t, err)

	ts.AddQty(100, 10)
	level, ok := ts.BestLevel()
	require.True(t, ok)
	assert.Equal(t, common.PriceLevel{Price: 100, Qty: 10}, level)

	require.NoError(t, ts.DeleteQty(100, 10))
	_, ok = ts.BestLevel()
	assert.False(t, ok)
}

func TestDeletePartial_StaysAtSamePrice(t *testing.T) {
	ts, err := track.New(true, 1)
	require.NoError(t, err)

	ts.AddQty(100, 10)
	ts.AddQty(100, 20)
	level, _ := ts.BestLevel()
	assert.Equal(t, common.Qty(30), level.Qty)

	require.NoError(t, ts.DeleteQty(100, 15))
	level, _ = ts.BestLevel()
	assert.Equal(t, common.PriceLevel{Price: 100, Qty: 15}, level)

	require.NoError(t, ts.DeleteQty(100, 15))
	_, ok := ts.BestLevel()
	assert.False(t, ok)
}

func TestPromotionOnTopDelete(t *testing.T) {
	ts, err := track.New(true, 2)
	require.NoError(t, err)

	for _, e := range []struct {
		price common.Price
		qty   common.Qty
	}{
		{400, 19}, {100, 6}, {200, 20}, {300, 30}, {400, 21}, {100, 4},
	} {
		ts.AddQty(e.price, e.qty)
	}

	assert.Equal(t, []common.Price{400, 300}, pricesOf(t, ts.Levels()))
	level, ok := ts.GetLevel(400)
	require.True(t, ok)
	assert.Equal(t, common.Qty(40), level.Qty)

	require.NoError(t, ts.DeleteQty(400, 40))
	// 300 stays top, 200 gets promoted into the vacated second slot.
	assert.Equal(t, []common.Price{300, 200}, pricesOf(t, ts.Levels()))
}

func TestAskOrdering(t *testing.T) {
	ts, err := track.New(false, 2)
	require.NoError(t, err)

	for _, e := range []struct {
		price common.Price
		qty   common.Qty
	}{
		{400, 19}, {100, 6}, {200, 20}, {300, 30}, {400, 21}, {100, 4},
	} {
		ts.AddQty(e.price, e.qty)
	}

	assert.Equal(t, []common.Price{100, 200}, pricesOf(t, ts.Levels()))
}

func TestAskPromotionOnTopDelete(t *testing.T) {
	ts, err := track.New(false, 2)
	require.NoError(t, err)

	for _, e := range []struct {
		price common.Price
		qty   common.Qty
	}{
		{400, 19}, {100, 6}, {200, 20}, {300, 30}, {400, 21}, {100, 4},
	} {
		ts.AddQty(e.price, e.qty)
	}

	assert.Equal(t, []common.Price{100, 200}, pricesOf(t, ts.Levels()))
	level, ok := ts.GetLevel(100)
	require.True(t, ok)
	assert.Equal(t, common.Qty(10), level.Qty)

	require.NoError(t, ts.DeleteQty(100, 10))
	// 200 stays top, 300 gets promoted into the vacated second slot.
	assert.Equal(t, []common.Price{200, 300}, pricesOf(t, ts.Levels()))
}

func TestDeleteBelowWorst_CacheUnaffected(t *testing.T) {
	ts, err := track.New(true, 2)
	require.NoError(t, err)

	ts.AddQty(300, 1)
	ts.AddQty(200, 1)
	ts.AddQty(100, 1)
	assert.Equal(t, []common.Price{300, 200}, pricesOf(t, ts.Levels()))

	require.NoError(t, ts.DeleteQty(100, 1))
	assert.Equal(t, []common.Price{300, 200}, pricesOf(t, ts.Levels()))

	level, ok := ts.GetLevel(300)
	require.True(t, ok)
	assert.Equal(t, common.Qty(1), level.Qty)
	level, ok = ts.GetLevel(200)
	require.True(t, ok)
	assert.Equal(t, common.Qty(1), level.Qty)
}

func TestModifyQty_CyclicPriceChange(t *testing.T) {
	ts, err := track.New(true, 3)
	require.NoError(t, err)

	ts.AddQty(100, 10)
	require.NoError(t, ts.DeleteQty(100, 10))
	ts.AddQty(101, 11)
	require.NoError(t, ts.DeleteQty(101, 11))
	ts.AddQty(100, 12)
	require.NoError(t, ts.DeleteQty(100, 12))
	ts.AddQty(102, 13)

	assert.Equal(t, []common.Price{102}, pricesOf(t, ts.Levels()))
}

func TestModifyQty_IdempotentToSelf(t *testing.T) {
	ts, err := track.New(true, 1)
	require.NoError(t, err)

	ts.AddQty(100, 10)
	require.NoError(t, ts.ModifyQty(100, 10, 100, 10))

	level, ok := ts.BestLevel()
	require.True(t, ok)
	assert.Equal(t, common.PriceLevel{Price: 100, Qty: 10}, level)
}

func TestDeleteQty_PropagatesFailure(t *testing.T) {
	ts, err := track.New(true, 1)
	require.NoError(t, err)

	err = ts.DeleteQty(100, 1)
	assert.ErrorIs(t, err, common.ErrLevelNotFound)

	ts.AddQty(100, 5)
	err = ts.DeleteQty(100, 10)
	assert.ErrorIs(t, err, common.ErrQtyExceedsAvailable)

	// Cache untouched by the failed delete.
	level, ok := ts.BestLevel()
	require.True(t, ok)
	assert.Equal(t, common.Qty(5), level.Qty)
}

func TestNewSingleLevel(t *testing.T) {
	ts, err := track.NewSingleLevel(true)
	require.NoError(t, err)
	ts.AddQty(100, 1)
	ts.AddQty(200, 1)
	level, ok := ts.BestLevel()
	require.True(t, ok)
	assert.Equal(t, common.Price(200), level.Price)
}
