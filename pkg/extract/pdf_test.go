package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTextOperators_Tj(t *testing.T) {
	content := []byte(`BT /F1 12 Tf (Hello) Tj (World) Tj ET`)
	assert.Equal(t, "Hello World", decodeTextOperators(content))
}

func TestDecodeTextOperators_TJArray(t *testing.T) {
	// Kerning numbers inside a TJ array must not split the word.
	content := []byte(`BT [(Hel) -20 (lo)] TJ ET`)
	assert.Equal(t, "Hello", decodeTextOperators(content))
}

func TestDecodeTextOperators_EscapesAndOctal(t *testing.T) {
	content := []byte(`BT (a\(b\)c) Tj (\101) Tj ET`)
	assert.Equal(t, "a(b)c A", decodeTextOperators(content))
}

func TestDecodeTextOperators_HexString(t *testing.T) {
	content := []byte(`BT <48656C6C6F> Tj ET`)
	assert.Equal(t, "Hello", decodeTextOperators(content))
}

func TestDecodeTextOperators_NestedParens(t *testing.T) {
	content := []byte(`BT (outer (inner) tail) Tj ET`)
	assert.Equal(t, "outer (inner) tail", decodeTextOperators(content))
}

func TestDecodeTextOperators_IgnoresNonTextStrings(t *testing.T) {
	// A string operand never shown by a text operator is dropped at the
	// next BT.
	content := []byte(`(orphan) BT (shown) Tj ET`)
	assert.Equal(t, "shown", decodeTextOperators(content))
}

func TestExtractText_EmptyPayload(t *testing.T) {
	e := NewPDFTextExtractor()
	_, err := e.ExtractText(nil)
	assert.Error(t, err)
}

func TestExtractText_Garbage(t *testing.T) {
	e := NewPDFTextExtractor()
	_, err := e.ExtractText([]byte("not a pdf at all"))
	assert.Error(t, err)
}
