package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Column names used when a price fails to clean.
const (
	ColumnUnitPrice = "Unit Price USD"
	ColumnUnitCost  = "Unit Cost USD"
)

// Derive computes the business fields for every fused row. Row numbers in
// errors are 1-based positions in rows.
func Derive(rows []Fused) ([]Derived, error) {
	out := make([]Derived, len(rows))
	for i, f := range rows {
		price, err := cleanPrice(f.UnitPriceUSD, ColumnUnitPrice, i+1)
		if err != nil {
			return nil, err
		}
		cost, err := cleanPrice(f.UnitCostUSD, ColumnUnitCost, i+1)
		if err != nil {
			return nil, err
		}

		d := Derived{
			Fused:     f,
			UnitPrice: price,
			UnitCost:  cost,
			Revenue:   price.Mul(decimal.NewFromInt(int64(f.Quantity))),
		}

		if f.Birthday.Valid {
			d.Age = valid(AgeAt(f.Birthday.V, f.OrderDate))
		}

		if f.Exchange.Valid {
			local := d.Revenue.Mul(f.Exchange.V)
			d.RevenueLocal = valid(local)
			if !f.Exchange.V.IsZero() {
				d.TotalRevenueUSD = valid(local.Div(f.Exchange.V))
			}
		}

		out[i] = d
	}
	return out, nil
}

// cleanPrice parses a currency cell and stamps the column and row on a
// FormatError.
func cleanPrice(s, column string, row int) (decimal.Decimal, error) {
	v, err := ParseCurrency(s)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Column = column
			fe.Row = row
		}
		return decimal.Zero, err
	}
	return v, nil
}

// AgeAt returns the number of completed birthday anniversaries between birth
// and on. A birth on Feb 29 completes its anniversary on Mar 1 in common years.
func AgeAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}
