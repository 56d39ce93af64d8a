package storefront

import (
	"math"
	"strconv"
	"strings"
)

// FormatEUR renders an amount the way it-IT currency formatting does:
// "8,00 €", "1250,00 €", "12.500,00 €", with a non-breaking space before
// the symbol. Grouping starts at five digits.
func FormatEUR(amount float64) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	if len(whole) > 4 {
		var b strings.Builder
		lead := len(whole) % 3
		if lead > 0 {
			b.WriteString(whole[:lead])
		}
		for i := lead; i < len(whole); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(whole[i : i+3])
		}
		whole = b.String()
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(whole)
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	b.WriteString("\u00a0€")
	return b.String()
}
