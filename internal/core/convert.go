package core

// convert.go turns source text into typed values.
//
// Source exports are messy in predictable ways:
//   - Dates arrive as M/D/YYYY, ISO, or with a time component
//   - Prices carry currency symbols and thousands separators ("$1,234.50")
//   - Accounting exports wrap negatives in parentheses ("(12.00)")
//
// Unlike a lenient importer, every function here returns an error for
// anything it cannot read. A reporting pipeline must not turn bad input into
// NULL or zero.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyRegex validates a price after symbols and separators are removed.
var currencyRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// numericRegex validates plain numeric cells such as exchange rates.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years after the reference date
// are moved to the previous century.
var TwoDigitYearPivot = 20

// currencyStrip lists the formatting characters removed before a price is parsed.
var currencyStrip = strings.NewReplacer(
	"$", "",
	"\u20ac", "", // Euro
	"\u00a3", "", // Pound
	"\u00a0", "", // Non-breaking space from spreadsheet exports
	",", "",
	" ", "",
)

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	timestampLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
	}
)

// ParseDate converts text to a calendar date at UTC midnight.
// Timestamps are truncated to their date. Empty input is an error.
// 2-digit years resolve against the current clock; see [ParseDateAt].
func ParseDate(s string) (time.Time, error) {
	return ParseDateAt(s, time.Now())
}

// ParseDateAt is [ParseDate] with 2-digit years resolved against ref.
func ParseDateAt(s string, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", ErrUnparseable)
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), nil
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), nil
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := ref.Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return dateOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("date %q: %w", s, ErrUnparseable)
}

// dateOf drops the clock and zone, keeping the calendar date as written.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseCurrency converts currency-formatted text ("$1,234.50") to a decimal.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative). Anything left over is a *FormatError.
func ParseCurrency(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = s[1 : len(s)-1]
	}

	s = currencyStrip.Replace(s)

	if isNegative {
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return decimal.Zero, &FormatError{Value: raw, Cleaned: s}
		}
		s = "-" + s
	}

	if !currencyRegex.MatchString(s) {
		return decimal.Zero, &FormatError{Value: raw, Cleaned: s}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FormatError{Value: raw, Cleaned: s}
	}
	return d, nil
}

// ParseDecimal converts a plain numeric cell (no currency formatting) to a decimal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("number %q: %w", s, ErrUnparseable)
	}
	return decimal.NewFromString(s)
}

// ParseInt converts an integer cell. Thousands separators are tolerated
// because spreadsheet exports add them to large keys.
func ParseInt(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty integer: %w", ErrUnparseable)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("integer %q: %w", s, ErrUnparseable)
	}
	return n, nil
}
