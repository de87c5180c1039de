package core

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how money fields are rounded to cents.
type RoundingMode string

const (
	// RoundHalfEven rounds ties to the even cent (banker's rounding).
	RoundHalfEven RoundingMode = "half_even"
	// RoundHalfUp rounds ties away from zero.
	RoundHalfUp RoundingMode = "half_up"
)

// MoneyPlaces is the number of decimal places kept on money fields.
const MoneyPlaces = 2

// ParseRoundingMode accepts the config spelling of a rounding mode.
// An empty string selects RoundHalfEven.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoundHalfEven:
		return RoundHalfEven, nil
	case RoundHalfUp:
		return RoundHalfUp, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q (want %s or %s)", s, RoundHalfEven, RoundHalfUp)
	}
}

// Round rounds d to MoneyPlaces using the mode.
func (m RoundingMode) Round(d decimal.Decimal) decimal.Decimal {
	if m == RoundHalfUp {
		return d.Round(MoneyPlaces)
	}
	return d.RoundBank(MoneyPlaces)
}

// ProjectOptions controls output formatting.
type ProjectOptions struct {
	Rounding RoundingMode
}

// Project maps derived rows to the published schema. Composite location
// fields are null when any component is null.
func Project(rows []Derived, opts ProjectOptions) []OutputRecord {
	mode := opts.Rounding
	if mode == "" {
		mode = RoundHalfEven
	}

	out := make([]OutputRecord, len(rows))
	for i, d := range rows {
		rec := OutputRecord{
			SalesID:       d.OrderNumber,
			CustomerID:    d.CustomerKey,
			ProductID:     d.ProductKey,
			ProductName:   d.ProductName,
			Category:      d.Category,
			Subcategory:   d.Subcategory,
			QuantitySold:  d.Quantity,
			UnitCostUSD:   mode.Round(d.UnitCost),
			UnitPriceUSD:  mode.Round(d.UnitPrice),
			Revenue:       mode.Round(d.Revenue),
			StoreID:       d.StoreKey,
			StoreLocation: joinNullable(d.StoreState, d.StoreCountry),
			SaleDate:      d.OrderDate.Format(SaleDateLayout),
			Currency:      d.CurrencyCode,
			ExchangeRate:  d.Exchange,
			Gender:        d.Gender,
			Age:           d.Age,
			Location:      joinNullable(d.City, d.CustomerState, d.CustomerCountry),
		}
		if d.RevenueLocal.Valid {
			rec.RevenueLocal = valid(mode.Round(d.RevenueLocal.V))
		}
		out[i] = rec
	}
	return out
}

func joinNullable(parts ...sql.Null[string]) sql.Null[string] {
	vals := make([]string, len(parts))
	for i, p := range parts {
		if !p.Valid {
			return sql.Null[string]{}
		}
		vals[i] = p.V
	}
	return valid(strings.Join(vals, ", "))
}
