// Package core holds the domain model shared by the session and ledger units.
//
// This file contains amount parsing. Ledger amounts arrive from storage as
// decimal strings or JSON numbers; they are kept as cents to avoid
// floating-point drift in totals.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a decimal string to cents with half-up rounding
// on the third decimal place. Both dot and comma separators are accepted.
// Zero is a valid magnitude; any sign prefix is not, since direction is
// carried by the transaction type.
//
// Examples:
//
//	ParseAmountToCents("12.34") -> 1234, nil
//	ParseAmountToCents("12,34") -> 1234, nil
//	ParseAmountToCents("12.346") -> 1235, nil (rounds up)
//	ParseAmountToCents("-1") -> 0, ErrInvalidAmount
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Float returns the amount in major units for display formatting.
// Use cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}
