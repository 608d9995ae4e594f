package money

import (
	"fmt"
	"math"
	"strings"
)

// Cents is a monetary amount in integer cents. All arithmetic in the
// service works on cents so decimal rounding never enters the hot path.
type Cents int64

func (c Cents) Whole() int64 { return int64(c) / 100 }

func (c Cents) Fraction() int64 {
	f := int64(c) % 100
	if f < 0 {
		f = -f
	}
	return f
}

// Format renders an amount such as 8958000 cents as "UGX 89,580.00".
func Format(currency string, c Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
	}

	return fmt.Sprintf("%s %s%s.%02d", currency, sign, groupThousands(abs(c).Whole()), c.Fraction())
}

// FormatUGX is the storefront's display currency.
func FormatUGX(c Cents) string {
	return Format("UGX", c)
}

func abs(c Cents) Cents {
	if c < 0 {
		return -c
	}
	return c
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// DiscountPercent reports the rounded percentage saved when a product's
// sale price undercuts its compare-at price. A missing or non-positive
// original yields 0.
func DiscountPercent(original, price Cents) int {
	if original <= 0 || price >= original {
		return 0
	}
	return int(math.Round(float64(original-price) / float64(original) * 100))
}
