package core

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// AgeAt Tests
// ----------------------------------------------------------------------------

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		on    time.Time
		want  int
	}{
		{name: "day before birthday", birth: day(1990, 6, 15), on: day(2020, 6, 14), want: 29},
		{name: "on birthday", birth: day(1990, 6, 15), on: day(2020, 6, 15), want: 30},
		{name: "day after birthday", birth: day(1990, 6, 15), on: day(2020, 6, 16), want: 30},
		{name: "earlier month", birth: day(1990, 6, 15), on: day(2020, 5, 30), want: 29},
		{name: "later month earlier day", birth: day(1990, 6, 15), on: day(2020, 7, 1), want: 30},
		{name: "born same day", birth: day(2024, 1, 10), on: day(2024, 1, 10), want: 0},
		{name: "leap birthday common year", birth: day(2000, 2, 29), on: day(2021, 2, 28), want: 20},
		{name: "leap birthday after Feb", birth: day(2000, 2, 29), on: day(2021, 3, 1), want: 21},
		{name: "new year boundary", birth: day(1990, 12, 31), on: day(2024, 1, 1), want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeAt(tt.birth, tt.on); got != tt.want {
				t.Errorf("AgeAt(%s, %s) = %d, want %d",
					tt.birth.Format(SaleDateLayout), tt.on.Format(SaleDateLayout), got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Derive Tests
// ----------------------------------------------------------------------------

func fusedRow(qty int, price string, rate string) Fused {
	f := Fused{
		OrderNumber:  1,
		OrderDate:    day(2024, 1, 10),
		Quantity:     qty,
		UnitPriceUSD: price,
		UnitCostUSD:  "$1.00",
		Birthday:     sql.Null[time.Time]{V: day(1990, 1, 15), Valid: true},
	}
	if rate != "" {
		f.Exchange = sql.Null[decimal.Decimal]{V: decimal.RequireFromString(rate), Valid: true}
	}
	return f
}

func TestDerive_Revenue(t *testing.T) {
	out, err := Derive([]Fused{fusedRow(3, "$19.99", "1.5")})
	require.NoError(t, err)
	require.Len(t, out, 1)

	d := out[0]
	assert.Equal(t, "59.97", d.Revenue.String())
	require.True(t, d.RevenueLocal.Valid)
	assert.Equal(t, "89.955", d.RevenueLocal.V.String())
	require.True(t, d.TotalRevenueUSD.Valid)
	assert.True(t, d.TotalRevenueUSD.V.Equal(d.Revenue))
	assert.Equal(t, sql.Null[int]{V: 33, Valid: true}, d.Age)
}

func TestDerive_NullRate(t *testing.T) {
	out, err := Derive([]Fused{fusedRow(2, "$10.00", "")})
	require.NoError(t, err)

	d := out[0]
	assert.Equal(t, "20", d.Revenue.String())
	assert.False(t, d.RevenueLocal.Valid)
	assert.False(t, d.TotalRevenueUSD.Valid)
}

func TestDerive_ZeroRate(t *testing.T) {
	out, err := Derive([]Fused{fusedRow(2, "$10.00", "0")})
	require.NoError(t, err)

	d := out[0]
	require.True(t, d.RevenueLocal.Valid)
	assert.True(t, d.RevenueLocal.V.IsZero())
	assert.False(t, d.TotalRevenueUSD.Valid)
}

func TestDerive_RevenueIndependentOfRate(t *testing.T) {
	for _, rate := range []string{"", "0.5", "1", "150.25", "-2"} {
		out, err := Derive([]Fused{fusedRow(4, "$2.50", rate)})
		require.NoError(t, err)
		assert.Equal(t, "10", out[0].Revenue.String(), "rate %q", rate)
	}
}

func TestDerive_NullBirthday(t *testing.T) {
	f := fusedRow(1, "$1.00", "1")
	f.Birthday = sql.Null[time.Time]{}

	out, err := Derive([]Fused{f})
	require.NoError(t, err)
	assert.False(t, out[0].Age.Valid)
}

func TestDerive_FormatErrorCarriesColumnAndRow(t *testing.T) {
	good := fusedRow(1, "$1.00", "1")
	badPrice := fusedRow(1, "12A.50", "1")
	badCost := fusedRow(1, "$1.00", "1")
	badCost.UnitCostUSD = "n/a"

	tests := []struct {
		name       string
		rows       []Fused
		wantColumn string
		wantRow    int
	}{
		{name: "price", rows: []Fused{good, badPrice}, wantColumn: ColumnUnitPrice, wantRow: 2},
		{name: "cost", rows: []Fused{badCost}, wantColumn: ColumnUnitCost, wantRow: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Derive(tt.rows)
			assert.Nil(t, out)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "error = %v, want *FormatError", err)
			assert.Equal(t, tt.wantColumn, fe.Column)
			assert.Equal(t, tt.wantRow, fe.Row)
		})
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	in := []Fused{fusedRow(2, "$10.00", "0.92")}
	before := in[0]

	_, err := Derive(in)
	require.NoError(t, err)
	assert.Equal(t, before, in[0])
}
