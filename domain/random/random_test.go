package random

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestCryptoSource_Intn(t *testing.T) {
	t.Parallel()

	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v, err := src.Intn(60)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 60)
	}
}

func TestCryptoSource_ReaderFailure(t *testing.T) {
	t.Parallel()

	src := NewCryptoSourceFromReader(failingReader{})
	_, err := src.Intn(60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy unavailable")
}

func TestSources_InvalidBound(t *testing.T) {
	t.Parallel()

	_, err := NewCryptoSource().Intn(0)
	assert.ErrorIs(t, err, ErrInvalidBound)

	_, err = NewSeeded(1).Intn(-3)
	assert.ErrorIs(t, err, ErrInvalidBound)
}

func TestSeededSource_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		x, err := a.Intn(1000)
		require.NoError(t, err)
		y, err := b.Intn(1000)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}
