// Package core provides the billing read model's entities and money handling.
//
// This file contains the conversions between stored minor units (cents) and
// their display and edit-form representations.
package core

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "$"

var (
	ErrInvalidAmount = errors.New("invalid amount")

	printer = message.NewPrinter(language.AmericanEnglish)
)

// FormatCurrency renders minor units as an en-US dollar string with exactly
// two fraction digits and thousands grouping.
//
// Examples:
//
//	FormatCurrency(0)      -> "$0.00"
//	FormatCurrency(150)    -> "$1.50"
//	FormatCurrency(-150)   -> "-$1.50"
//	FormatCurrency(123456) -> "$1,234.56"
func FormatCurrency(minor int64) string {
	sign := ""
	abs := uint64(minor)
	if minor < 0 {
		sign = "-"
		abs = uint64(^minor) + 1
	}
	whole := printer.Sprintf("%d", abs/100)
	frac := abs % 100

	var b strings.Builder
	b.Grow(len(sign) + len(currencySymbol) + len(whole) + 3)
	b.WriteString(sign)
	b.WriteString(currencySymbol)
	b.WriteString(whole)
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(frac, 10))
	return b.String()
}

// ParseCurrency is the inverse of FormatCurrency. It accepts an optional
// leading minus, the dollar symbol, comma grouping and at most two fraction
// digits.
func ParseCurrency(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, currencySymbol)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(fracPart) == 0 || len(fracPart) > 2) {
		return 0, ErrInvalidAmount
	}
	intPart = strings.ReplaceAll(intPart, ",", "")
	if intPart == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var cents uint64
	if hasFrac {
		if len(fracPart) == 1 {
			fracPart += "0"
		}
		cents, _ = strconv.ParseUint(fracPart, 10, 64)
	}

	// Prevent overflow when scaling to minor units; MinInt64 is the only
	// magnitude that does not fit a positive int64.
	const limit = uint64(1 << 63)
	if whole > (limit-cents)/100 {
		return 0, ErrInvalidAmount
	}
	total := whole*100 + cents
	if neg {
		if total == limit {
			return -1 << 63, nil
		}
		return -int64(total), nil
	}
	if total == limit {
		return 0, ErrInvalidAmount
	}
	return int64(total), nil
}

// MajorUnits converts minor units to a fractional major-unit value for
// edit forms. Use minor units for any arithmetic.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100.0
}
