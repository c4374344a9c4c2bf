package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFTextExtractor pulls the plain text out of a PDF's page content
// streams. Layout is not preserved; pages are joined with newlines.
type PDFTextExtractor struct{}

func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText decodes every page content stream and collects the
// arguments of the Tj and TJ show-text operators.
func (e *PDFTextExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf payload")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", fmt.Errorf("invalid pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return "", fmt.Errorf("failed to resolve page count: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("failed to extract content of page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read content of page %d: %w", pageNr, err)
		}
		if text := decodeTextOperators(content); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// decodeTextOperators scans a decoded content stream and concatenates
// the string operands of Tj, TJ and the quote operators. Strings in a
// single TJ array are joined directly; separate show operations are
// separated by a space so words do not run together.
func decodeTextOperators(content []byte) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(strings.Join(pending, ""))
		pending = nil
	}

	i := 0
	for i < len(content) {
		switch c := content[i]; {
		case c == '(':
			s, next := readLiteralString(content, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(content) && content[i+1] != '<':
			s, next := readHexString(content, i)
			pending = append(pending, s)
			i = next
		case c == 'T' && i+1 < len(content) && (content[i+1] == 'j' || content[i+1] == 'J'):
			flush()
			i += 2
		case c == '\'' || c == '"':
			flush()
			i++
		case c == 'B' && i+1 < len(content) && content[i+1] == 'T':
			pending = nil
			i += 2
		default:
			i++
		}
	}
	flush()

	return strings.TrimSpace(out.String())
}

// readLiteralString consumes a parenthesized PDF string starting at
// content[start] == '(' and returns the decoded text plus the index
// just past the closing parenthesis.
func readLiteralString(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 1
	i := start + 1
	for i < len(content) && depth > 0 {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				i++
				continue
			}
			esc := content[i+1]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
				i += 2
			case 'r':
				sb.WriteByte('\r')
				i += 2
			case 't':
				sb.WriteByte('\t')
				i += 2
			case '(', ')', '\\':
				sb.WriteByte(esc)
				i += 2
			case '\n':
				// Line continuation
				i += 2
			default:
				if esc >= '0' && esc <= '7' {
					val, n := readOctal(content, i+1)
					sb.WriteByte(val)
					i += 1 + n
				} else {
					sb.WriteByte(esc)
					i += 2
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
			i++
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

func readOctal(content []byte, start int) (byte, int) {
	val := 0
	n := 0
	for n < 3 && start+n < len(content) {
		c := content[start+n]
		if c < '0' || c > '7' {
			break
		}
		val = val*8 + int(c-'0')
		n++
	}
	return byte(val), n
}

// readHexString consumes a <...> hex string and returns the decoded
// bytes plus the index just past the closing bracket.
func readHexString(content []byte, start int) (string, int) {
	var digits []byte
	i := start + 1
	for i < len(content) && content[i] != '>' {
		c := content[i]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		i++
	}
	if i < len(content) {
		i++ // skip '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var sb strings.Builder
	for j := 0; j+1 < len(digits); j += 2 {
		sb.WriteByte(hexVal(digits[j])<<4 | hexVal(digits[j+1]))
	}
	return sb.String(), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
