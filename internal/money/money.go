package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ErrAmbiguousAmount is returned for values like "1,234" or "1.234" where the
// separator could be either a decimal mark or a thousands separator.
var ErrAmbiguousAmount = errors.New("ambiguous separator")

// ToCents converts a decimal amount to minor units, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents converts minor units back to a two-place decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseAmount parses a spreadsheet amount cell. Blank cells are zero.
//
// The rightmost of ',' and '.' is the decimal mark and the other one may only
// group thousands, so "1.234,50" and "1,234.50" both read as 1234.50. A single
// separator followed by exactly three digits ("1,234") is rejected as
// ambiguous unless the integer part cannot be a thousands group.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	sign := ""
	body := s
	switch body[0] {
	case '-':
		sign, body = "-", body[1:]
	case '+':
		body = body[1:]
	}

	intPart, fracPart, err := splitAmount(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	normalized := sign + intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// splitAmount returns the integer digits (grouping removed) and the fraction.
func splitAmount(body string) (string, string, error) {
	comma := strings.LastIndexByte(body, ',')
	dot := strings.LastIndexByte(body, '.')

	switch {
	case comma < 0 && dot < 0:
		if !allDigits(body) {
			return "", "", fmt.Errorf("invalid digits %q", body)
		}
		return body, "", nil

	case comma >= 0 && dot >= 0:
		mark, group := byte('.'), byte(',')
		if comma > dot {
			mark, group = ',', '.'
		}
		i := strings.LastIndexByte(body, mark)
		if strings.IndexByte(body, mark) != i {
			return "", "", fmt.Errorf("repeated decimal mark %q", mark)
		}
		intPart, ok := ungroup(body[:i], group)
		if !ok {
			return "", "", fmt.Errorf("invalid thousands grouping in %q", body[:i])
		}
		frac := body[i+1:]
		if frac == "" || !allDigits(frac) {
			return "", "", fmt.Errorf("invalid fraction %q", frac)
		}
		return intPart, frac, nil
	}

	sep := byte(',')
	if dot >= 0 {
		sep = '.'
	}
	if strings.Count(body, string(sep)) > 1 {
		// Only grouping can repeat.
		intPart, ok := ungroup(body, sep)
		if !ok {
			return "", "", fmt.Errorf("invalid thousands grouping in %q", body)
		}
		return intPart, "", nil
	}

	i := strings.IndexByte(body, sep)
	intPart, frac := body[:i], body[i+1:]
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || frac == "" || !allDigits(frac) {
		return "", "", fmt.Errorf("invalid digits %q", body)
	}
	if len(frac) == 3 && canLeadGroup(intPart) {
		return "", "", ErrAmbiguousAmount
	}
	return intPart, frac, nil
}

// ungroup strips thousands separators, requiring a 1-3 digit lead group and
// 3-digit groups after it.
func ungroup(s string, sep byte) (string, bool) {
	groups := strings.Split(s, string(sep))
	if !allDigits(groups[0]) {
		return "", false
	}
	if len(groups) > 1 && !canLeadGroup(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func canLeadGroup(s string) bool {
	return len(s) >= 1 && len(s) <= 3 && s[0] != '0'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format renders cents as "1234.50".
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
