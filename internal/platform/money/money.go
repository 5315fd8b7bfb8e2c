// Package money parses and formats the decimal strings used for prices and funding.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse accepts a decimal string; an empty string parses as zero.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// Normalize rewrites s with exactly two fractional digits ("49.9" -> "49.90").
func Normalize(s string) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	return d.StringFixed(2), nil
}

// NormalizeRating rewrites s with one fractional digit.
func NormalizeRating(s string) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	return d.StringFixed(1), nil
}

// MustNormalize is Normalize for values already validated; unparsable input is returned as-is.
func MustNormalize(s string) string {
	out, err := Normalize(s)
	if err != nil {
		return s
	}
	return out
}

func Format(d decimal.Decimal) string { return d.StringFixed(2) }
