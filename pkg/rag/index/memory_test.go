package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SearchRanksByCosineSimilarity(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Add("east", []float32{1, 0}))
	require.NoError(t, m.Add("north", []float32{0, 1}))
	require.NoError(t, m.Add("northeast", []float32{0.7071, 0.7071}))

	results := m.Search([]float32{1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "east", results[0].Text)
	assert.Equal(t, "northeast", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemory_SearchCapsAtStoredCount(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Add("only", []float32{1, 0}))

	results := m.Search([]float32{1, 0}, 5)
	assert.Len(t, results, 1)
}

func TestMemory_SearchEmptyIndex(t *testing.T) {
	m := NewMemory()
	assert.Empty(t, m.Search([]float32{1, 0}, 5))
}

func TestMemory_AddRejectsDimensionMismatch(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Add("a", []float32{1, 0}))
	assert.Error(t, m.Add("b", []float32{1, 0, 0}))
	assert.Error(t, m.Add("c", nil))
	assert.Equal(t, 1, m.Len())
}

func TestMemory_DefaultTopK(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 8; i++ {
		require.NoError(t, m.Add("chunk", []float32{1, float32(i)}))
	}
	results := m.Search([]float32{1, 0}, 0)
	assert.Len(t, results, 5)
}
