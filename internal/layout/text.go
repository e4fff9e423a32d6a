package layout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// The wrap width in characters is derived from the box width in points and
// an average glyph width of 0.55em for the Helvetica metrics in use.
const glyphWidthFactor = 0.55

// wrapText breaks s into lines fitting maxWidth points at the given font
// size. Lines break at whitespace only; a word longer than the limit gets a
// line of its own rather than being cut mid-word. Empty input yields no
// lines, so absent fields take up no vertical space.
func wrapText(s string, maxWidth, fontSize float64) []string {
	limit := int(maxWidth / (fontSize * glyphWidthFactor))
	if limit < 1 {
		limit = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(paragraph, limit)...)
	}
	return lines
}

func wrapLine(s string, limit int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= limit {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// formatUSD renders an amount like "$1,234.56".
func formatUSD(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
