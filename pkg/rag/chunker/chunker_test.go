package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("short", 500, 50)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitText_Empty(t *testing.T) {
	assert.Nil(t, SplitText("", 500, 50))
}

func TestSplitText_OverlapAndReconstruction(t *testing.T) {
	text := strings.Repeat("abcdefghij", 120) // 1200 chars
	chunks := SplitText(text, 500, 50)
	require.True(t, len(chunks) > 1)

	// Consecutive chunks share exactly the overlap window.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		overlap := 50
		if len(curr) < overlap {
			overlap = len(curr)
		}
		assert.Equal(t, string(prev[len(prev)-50:len(prev)-50+overlap]), string(curr[:overlap]))
	}

	// Dropping each chunk's leading overlap reconstructs the original.
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		curr := []rune(chunks[i])
		if len(curr) > 50 {
			sb.WriteString(string(curr[50:]))
		}
	}
	assert.Equal(t, text, sb.String())
}

func TestSplitText_RuneSafe(t *testing.T) {
	text := strings.Repeat("日本語テキストです。", 100)
	chunks := SplitText(text, 500, 50)
	for _, c := range chunks {
		assert.True(t, len([]rune(c)) <= 500)
	}
	// No chunk may start or end mid-rune.
	for _, c := range chunks {
		assert.True(t, strings.ContainsRune("日本語テキストです。", []rune(c)[0]))
	}
}

func TestSplitText_OverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 30)
	chunks := SplitText(text, 10, 20)
	// Falls back to non-overlapping stepping instead of looping forever.
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 10)}, chunks)
}

func TestSplit_UsesDefaultWindow(t *testing.T) {
	text := strings.Repeat("a", 1000)
	chunks := Split(text)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Len(t, chunks[2], 100)
}
