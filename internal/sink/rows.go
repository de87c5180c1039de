package sink

import (
	"database/sql"
	"strconv"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/shopspring/decimal"
)

// Columns are the table column names, in core.OutputColumns order.
var Columns = []string{
	"sales_id",
	"customer_id",
	"product_id",
	"product_name",
	"category",
	"subcategory",
	"quantity_sold",
	"unit_cost_usd",
	"unit_price_usd",
	"revenue",
	"revenue_in_local_currency",
	"store_id",
	"store_location",
	"sale_date",
	"currency",
	"exchange_rate",
	"gender",
	"age",
	"location",
}

// FormatRecord renders a record as file cells. Nulls become empty cells and
// money is written with exactly two decimals.
func FormatRecord(rec core.OutputRecord) []string {
	return []string{
		strconv.Itoa(rec.SalesID),
		strconv.Itoa(rec.CustomerID),
		strconv.Itoa(rec.ProductID),
		rec.ProductName,
		rec.Category,
		rec.Subcategory,
		strconv.Itoa(rec.QuantitySold),
		money(rec.UnitCostUSD),
		money(rec.UnitPriceUSD),
		money(rec.Revenue),
		nullMoney(rec.RevenueLocal),
		strconv.Itoa(rec.StoreID),
		nullString(rec.StoreLocation),
		rec.SaleDate,
		rec.Currency,
		nullDecimal(rec.ExchangeRate),
		nullString(rec.Gender),
		nullInt(rec.Age),
		nullString(rec.Location),
	}
}

// recordArgs renders a record as database/sql driver values. Decimals are
// passed as text so the DECIMAL columns receive them exactly.
func recordArgs(rec core.OutputRecord) []any {
	return []any{
		rec.SalesID,
		rec.CustomerID,
		rec.ProductID,
		rec.ProductName,
		rec.Category,
		rec.Subcategory,
		rec.QuantitySold,
		money(rec.UnitCostUSD),
		money(rec.UnitPriceUSD),
		money(rec.Revenue),
		moneyArg(rec.RevenueLocal),
		rec.StoreID,
		nullArg(rec.StoreLocation),
		rec.SaleDate,
		rec.Currency,
		decimalArg(rec.ExchangeRate),
		nullArg(rec.Gender),
		nullArg(rec.Age),
		nullArg(rec.Location),
	}
}

func money(d decimal.Decimal) string { return d.StringFixed(core.MoneyPlaces) }

func nullMoney(n sql.Null[decimal.Decimal]) string {
	if !n.Valid {
		return ""
	}
	return money(n.V)
}

func nullDecimal(n sql.Null[decimal.Decimal]) string {
	if !n.Valid {
		return ""
	}
	return n.V.String()
}

func nullString(n sql.Null[string]) string {
	if !n.Valid {
		return ""
	}
	return n.V
}

func nullInt(n sql.Null[int]) string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.V)
}

// nullArg converts a nullable value to a driver argument, nil when null.
func nullArg[T any](n sql.Null[T]) any {
	if !n.Valid {
		return nil
	}
	return n.V
}

func moneyArg(n sql.Null[decimal.Decimal]) any {
	if !n.Valid {
		return nil
	}
	return money(n.V)
}

func decimalArg(n sql.Null[decimal.Decimal]) any {
	if !n.Valid {
		return nil
	}
	return n.V.String()
}
