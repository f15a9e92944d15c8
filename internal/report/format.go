package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TimeLayout is how trade timestamps are displayed.
const TimeLayout = "2006-01-02 15:04"

// FormatMoney formats an amount in dollars with thousands separators and
// two decimals, sign first: -$1,234.56. Halves round to even (0.125 ->
// $0.12). Amounts that round to zero are rendered unsigned.
func FormatMoney(amount decimal.Decimal) string {
	rounded := amount.RoundBank(2)
	negative := rounded.IsNegative()
	str := rounded.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(str, ".")
	result := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a fraction as a percentage with two decimals: 0.6667 -> "66.67%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

// FormatNullDecimal renders a decimal, or an empty string when absent.
func FormatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
