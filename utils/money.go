package utils

import (
	"math"
	"strconv"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatAmount renders a money value with exactly two decimals, e.g. "500.00".
func FormatAmount(x float64) string {
	return strconv.FormatFloat(Round2(x), 'f', 2, 64)
}

// FormatCurrency renders a display amount like "USD 500.00".
func FormatCurrency(amount float64, currency string) string {
	return currency + " " + FormatAmount(amount)
}
