package brain

import (
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// displayDigits is the number of significant digits shown for an operand.
const displayDigits = 6

var displayContext = apd.BaseContext.WithPrecision(displayDigits)

// FormatOperand renders v with at most six significant digits and a '.'
// decimal separator regardless of locale. Trailing zeros are dropped and
// very large or small magnitudes use exponent notation.
func FormatOperand(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v == 0:
		return "0"
	}

	var d apd.Decimal
	if _, err := d.SetFloat64(v); err != nil {
		return strconv.FormatFloat(v, 'g', displayDigits, 64)
	}
	var rounded, reduced apd.Decimal
	if _, err := displayContext.Round(&rounded, &d); err != nil {
		return strconv.FormatFloat(v, 'g', displayDigits, 64)
	}
	reduced.Reduce(&rounded)

	adjusted := int64(reduced.Exponent) + reduced.NumDigits() - 1
	if adjusted < -6 || adjusted >= 15 {
		return reduced.Text('e')
	}
	return reduced.Text('f')
}
