package stockfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource_Stock(t *testing.T) {
	src := newTestSource()

	inst, err := src.Stock("AAPL")
	require.NoError(t, err)
	assert.True(t, inst.Equal(apple))

	_, err = src.Stock("ZZZ")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestMemorySource_Price(t *testing.T) {
	src := NewMemorySource()
	src.Declare(apple)
	src.SetPrice("AAPL", NewDate(2025, time.March, 1), USD(100))
	src.SetPrice("AAPL", NewDate(2025, time.March, 10), USD(110))

	t.Run("exact quote", func(t *testing.T) {
		price, err := src.Price("AAPL", NewDate(2025, time.March, 10), false)
		require.NoError(t, err)
		assert.True(t, price.Equal(USD(110)))
	})
	t.Run("nearest past", func(t *testing.T) {
		price, err := src.Price("AAPL", NewDate(2025, time.March, 5), false)
		require.NoError(t, err)
		assert.True(t, price.Equal(USD(100)))
	})
	t.Run("nearest future", func(t *testing.T) {
		price, err := src.Price("AAPL", NewDate(2025, time.March, 5), true)
		require.NoError(t, err)
		assert.True(t, price.Equal(USD(110)))
	})
	t.Run("exact quote wins over future preference", func(t *testing.T) {
		price, err := src.Price("AAPL", NewDate(2025, time.March, 1), true)
		require.NoError(t, err)
		assert.True(t, price.Equal(USD(100)))
	})
	t.Run("no past quote", func(t *testing.T) {
		_, err := src.Price("AAPL", NewDate(2025, time.February, 1), false)
		assert.ErrorIs(t, err, ErrPriceSource)
	})
	t.Run("no future quote", func(t *testing.T) {
		_, err := src.Price("AAPL", NewDate(2025, time.April, 1), true)
		assert.ErrorIs(t, err, ErrPriceSource)
	})
	t.Run("unknown symbol", func(t *testing.T) {
		_, err := src.Price("ZZZ", NewDate(2025, time.March, 1), false)
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	})
}

func TestMemorySource_SetPriceReplaces(t *testing.T) {
	src := NewMemorySource()
	src.Declare(apple)
	on := NewDate(2025, time.March, 1)
	src.SetPrice("AAPL", on, USD(100))
	src.SetPrice("AAPL", on, USD(105))

	price, err := src.Price("AAPL", on, false)
	require.NoError(t, err)
	assert.True(t, price.Equal(USD(105)))
}

func TestMemorySource_IPOAndDelisting(t *testing.T) {
	src := NewMemorySource()
	src.Declare(apple)
	src.SetPrice("AAPL", NewDate(2025, time.March, 1), USD(100))
	src.SetPrice("AAPL", NewDate(2025, time.April, 1), USD(110))

	ipo, err := src.IPODate("AAPL")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.March, 1), ipo)

	// Still listed: the delisting date is zero.
	delisting, err := src.DelistingDate("AAPL")
	require.NoError(t, err)
	assert.True(t, delisting.IsZero())

	src.SetDelisting("AAPL", NewDate(2025, time.April, 1))
	delisting, err = src.DelistingDate("AAPL")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.April, 1), delisting)
}
