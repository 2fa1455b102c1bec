package pricing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want string
	}{
		{6, "6"},
		{7, "42"},
		{8, "168"},
		{9, "504"},
		{10, "1260"},
		{11, "2772"},
		{12, "5544"},
		{13, "10296"},
		{14, "18018"},
		{15, "30030"},
		{16, "48048"},
		{17, "74256"},
		{18, "111384"},
		{19, "162792"},
		{20, "232560"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("size_%d", tt.size), func(t *testing.T) {
			t.Parallel()

			got, err := PriceFor(tt.size)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "size %d: got %s", tt.size, got)
		})
	}
}

func TestPriceFor_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, size := range []int{-1, 0, 5, 21, 60} {
		_, err := PriceFor(size)
		assert.ErrorIs(t, err, ErrSizeOutOfRange)

		_, err = WinProbabilityFor(size)
		assert.ErrorIs(t, err, ErrSizeOutOfRange)
	}
}

func TestBinomial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(50063860), Binomial(60, 6))
	assert.Equal(t, int64(1), Binomial(6, 6))
	assert.Equal(t, int64(7), Binomial(7, 6))
	assert.Equal(t, int64(38760), Binomial(20, 6))
	assert.Equal(t, int64(0), Binomial(5, 6))
	assert.Equal(t, int64(1), Binomial(10, 0))
}

func TestWinProbabilityFor(t *testing.T) {
	t.Parallel()

	six, err := WinProbabilityFor(6)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/50063860.0, six, 1e-15)

	fifteen, err := WinProbabilityFor(15)
	require.NoError(t, err)
	assert.InDelta(t, 5005.0/50063860.0*100, fifteen, 1e-12)

	previous := 0.0
	for size := MinTicketSize; size <= MaxTicketSize; size++ {
		p, err := WinProbabilityFor(size)
		require.NoError(t, err)
		assert.Greater(t, p, previous, "probability must grow with size %d", size)
		previous = p
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	rows := Table()
	require.Len(t, rows, 15)
	assert.Equal(t, 6, rows[0].Size)
	assert.Equal(t, 20, rows[len(rows)-1].Size)
	assert.Equal(t, int64(28), rows[2].Combination)

	for _, row := range rows {
		price, err := PriceFor(row.Size)
		require.NoError(t, err)
		assert.True(t, price.Equal(row.Price))
	}
}
