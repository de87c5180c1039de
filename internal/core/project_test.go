package core

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Rounding Tests
// ----------------------------------------------------------------------------

func TestRoundingMode_Round(t *testing.T) {
	tests := []struct {
		input    string
		halfEven string
		halfUp   string
	}{
		{input: "2.345", halfEven: "2.34", halfUp: "2.35"},
		{input: "2.355", halfEven: "2.36", halfUp: "2.36"},
		{input: "-2.345", halfEven: "-2.34", halfUp: "-2.35"},
		{input: "0.005", halfEven: "0.00", halfUp: "0.01"},
		{input: "0.015", halfEven: "0.02", halfUp: "0.02"},
		{input: "18.4", halfEven: "18.40", halfUp: "18.40"},
		{input: "1.2349", halfEven: "1.23", halfUp: "1.23"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.halfEven, RoundHalfEven.Round(d).StringFixed(2))
			assert.Equal(t, tt.halfUp, RoundHalfUp.Round(d).StringFixed(2))
		})
	}
}

func TestRoundingMode_Idempotent(t *testing.T) {
	inputs := []string{"59.97", "18.4", "2.345", "-0.005", "1234.5678", "0"}
	for _, mode := range []RoundingMode{RoundHalfEven, RoundHalfUp} {
		for _, in := range inputs {
			once := mode.Round(decimal.RequireFromString(in))
			twice := mode.Round(once)
			assert.True(t, once.Equal(twice), "%s: round(round(%s)) = %s, want %s", mode, in, twice, once)
		}
	}
}

func TestParseRoundingMode(t *testing.T) {
	tests := []struct {
		input   string
		want    RoundingMode
		wantErr bool
	}{
		{input: "", want: RoundHalfEven},
		{input: "half_even", want: RoundHalfEven},
		{input: "HALF_UP", want: RoundHalfUp},
		{input: " half_up ", want: RoundHalfUp},
		{input: "ceiling", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoundingMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ----------------------------------------------------------------------------
// Project Tests
// ----------------------------------------------------------------------------

func str(s string) sql.Null[string] { return sql.Null[string]{V: s, Valid: true} }

func derivedRow() Derived {
	return Derived{
		Fused: Fused{
			OrderNumber: 100, OrderDate: day(2024, 1, 10),
			ProductKey: 1, CustomerKey: 5, StoreKey: 9,
			CurrencyCode: "EUR", Quantity: 3,
			ProductName: "Widget", Category: "Tools", Subcategory: "Hand",
			Gender: str("F"), City: str("Lyon"), CustomerState: str("ARA"), CustomerCountry: str("France"),
			StoreState: str("Ile-de-France"), StoreCountry: str("France"),
			Exchange: sql.Null[decimal.Decimal]{V: decimal.RequireFromString("0.923456"), Valid: true},
		},
		UnitPrice:    decimal.RequireFromString("19.99"),
		UnitCost:     decimal.RequireFromString("7.125"),
		Revenue:      decimal.RequireFromString("59.97"),
		RevenueLocal: sql.Null[decimal.Decimal]{V: decimal.RequireFromString("55.38065632"), Valid: true},
		Age:          sql.Null[int]{V: 33, Valid: true},
	}
}

func TestProject_Fields(t *testing.T) {
	out := Project([]Derived{derivedRow()}, ProjectOptions{})
	require.Len(t, out, 1)
	r := out[0]

	assert.Equal(t, 100, r.SalesID)
	assert.Equal(t, 5, r.CustomerID)
	assert.Equal(t, 1, r.ProductID)
	assert.Equal(t, "Widget", r.ProductName)
	assert.Equal(t, 3, r.QuantitySold)
	assert.Equal(t, "7.12", r.UnitCostUSD.StringFixed(2))
	assert.Equal(t, "19.99", r.UnitPriceUSD.StringFixed(2))
	assert.Equal(t, "59.97", r.Revenue.StringFixed(2))
	assert.Equal(t, "55.38", r.RevenueLocal.V.StringFixed(2))
	assert.Equal(t, 9, r.StoreID)
	assert.Equal(t, str("Ile-de-France, France"), r.StoreLocation)
	assert.Equal(t, "2024-01-10", r.SaleDate)
	assert.Equal(t, "EUR", r.Currency)
	assert.Equal(t, "0.923456", r.ExchangeRate.V.String())
	assert.Equal(t, str("F"), r.Gender)
	assert.Equal(t, 33, r.Age.V)
	assert.Equal(t, str("Lyon, ARA, France"), r.Location)
}

func TestProject_RoundingModeApplied(t *testing.T) {
	out := Project([]Derived{derivedRow()}, ProjectOptions{Rounding: RoundHalfUp})
	assert.Equal(t, "7.13", out[0].UnitCostUSD.StringFixed(2))
}

func TestProject_NullComposites(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Derived)
		wantStore    bool
		wantCustomer bool
	}{
		{name: "all present", mutate: func(*Derived) {}, wantStore: true, wantCustomer: true},
		{name: "no store", mutate: func(d *Derived) { d.StoreState, d.StoreCountry = sql.Null[string]{}, sql.Null[string]{} }, wantCustomer: true},
		{name: "store country missing", mutate: func(d *Derived) { d.StoreCountry = sql.Null[string]{} }, wantCustomer: true},
		{name: "city missing", mutate: func(d *Derived) { d.City = sql.Null[string]{} }, wantStore: true},
		{name: "customer state missing", mutate: func(d *Derived) { d.CustomerState = sql.Null[string]{} }, wantStore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := derivedRow()
			tt.mutate(&d)
			r := Project([]Derived{d}, ProjectOptions{})[0]
			assert.Equal(t, tt.wantStore, r.StoreLocation.Valid)
			assert.Equal(t, tt.wantCustomer, r.Location.Valid)
		})
	}
}

func TestProject_NullRevenueLocalStaysNull(t *testing.T) {
	d := derivedRow()
	d.Exchange = sql.Null[decimal.Decimal]{}
	d.RevenueLocal = sql.Null[decimal.Decimal]{}

	r := Project([]Derived{d}, ProjectOptions{})[0]
	assert.False(t, r.RevenueLocal.Valid)
	assert.False(t, r.ExchangeRate.Valid)
	assert.Equal(t, "59.97", r.Revenue.StringFixed(2))
}

func TestOutputColumns(t *testing.T) {
	require.Len(t, OutputColumns, 19)
	assert.Equal(t, "Sales ID", OutputColumns[0])
	assert.Equal(t, "Location (city, state, country)", OutputColumns[18])
}
