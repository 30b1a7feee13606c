// Package format renders statistics and holder values for display.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// NoData is shown in place of any value that could not be resolved.
const NoData = "No Data"

// Number renders large counts and currency amounts: 1.5M, 2.3K, 42.
func Number(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Price renders a unit price. Sub-0.001 prices use exponential notation
// with a JS-style exponent (2.340e-5).
func Price(v float64) string {
	switch {
	case v < 0.001:
		return exponential(v, 3)
	case v < 0.01:
		return strconv.FormatFloat(v, 'f', 6, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// Percent renders a share of supply.
func Percent(v float64) string {
	if v < 0.01 {
		return "<0.01%"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Change renders a signed 24h change: +1.23%, -4.50%.
func Change(v float64) string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, v)
}

// Address shortens an address to its first and last four characters.
func Address(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// Balance renders a holder balance.
func Balance(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// USD renders a holder valuation.
func USD(v float64) string {
	switch {
	case v >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	case v >= 1:
		return fmt.Sprintf("$%.2f", v)
	default:
		return fmt.Sprintf("$%.4f", v)
	}
}

// Accounts renders "1 account" / "3 accounts".
func Accounts(n int) string {
	if n == 1 {
		return "1 account"
	}
	return fmt.Sprintf("%d accounts", n)
}

// Count renders a holder count, keeping the lower-bound marker.
func Count(c *types.HolderCount) string {
	if c == nil {
		return NoData
	}
	if c.LowerBound {
		return c.String()
	}
	return Number(float64(c.Value))
}

// OptionalNumber renders v with Number or NoData when v is nil.
func OptionalNumber(v *float64) string {
	if v == nil {
		return NoData
	}
	return Number(*v)
}

// OptionalPrice renders v with Price or NoData when v is nil.
func OptionalPrice(v *float64) string {
	if v == nil {
		return NoData
	}
	return Price(*v)
}

// OptionalChange renders v with Change or NoData when v is nil.
func OptionalChange(v *float64) string {
	if v == nil {
		return NoData
	}
	return Change(*v)
}

// HolderValue renders a valuation, or NoData when the price was unknown.
func HolderValue(h types.HolderSummary) string {
	if !h.PriceKnown {
		return NoData
	}
	return USD(h.ValueUSD)
}

func exponential(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'e', digits, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digitsPart := strings.TrimLeft(exp[1:], "0")
	if digitsPart == "" {
		digitsPart = "0"
	}
	if sign == "-" {
		return mantissa + "e-" + digitsPart
	}
	return mantissa + "e+" + digitsPart
}
