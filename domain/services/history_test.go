package services

import (
	"testing"

	"lottosim/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_KeepsMostRecent(t *testing.T) {
	t.Parallel()

	h := NewHistory(3)
	assert.Empty(t, h.Recent(0))

	for i := int64(1); i <= 5; i++ {
		h.Add(entities.TrialRecord{Index: i})
	}

	require.Equal(t, 3, h.Len())
	all := h.Recent(0)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Index)
	assert.Equal(t, int64(5), all[2].Index)

	last2 := h.Recent(2)
	assert.Equal(t, []int64{4, 5}, []int64{last2[0].Index, last2[1].Index})

	assert.Len(t, h.Recent(10), 3)
}

func TestHistory_Reset(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryLimit, h.Cap())

	h.Add(entities.TrialRecord{Index: 1})
	h.Reset()
	assert.Equal(t, 0, h.Len())

	h.Add(entities.TrialRecord{Index: 7})
	assert.Equal(t, int64(7), h.Recent(1)[0].Index)
}
