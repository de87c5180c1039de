package core

import "database/sql"

// ColumnRename maps a source column that collides after the joins to its
// published name.
type ColumnRename struct {
	Table  string
	Column string
	As     string
}

// ColumnRenames is the declared collision resolution applied by Reconcile.
// Customers and stores both carry State and Country.
var ColumnRenames = []ColumnRename{
	{Table: TableCustomers, Column: "State", As: "Customer State"},
	{Table: TableCustomers, Column: "Country", As: "Customer Country"},
	{Table: TableStores, Column: "State", As: "Store State"},
	{Table: TableStores, Column: "Country", As: "Store Country"},
}

// DroppedColumns lists join columns discarded by Reconcile. The rate date
// always equals the transaction's OrderDate on a match.
var DroppedColumns = []ColumnRename{
	{Table: TableExchangeRates, Column: "Date"},
	{Table: TableExchangeRates, Column: "Currency"},
}

// Reconcile flattens joined rows into Fused rows. It only moves values;
// nothing is converted. Unmatched left-join parts become null fields.
func Reconcile(rows []Joined) []Fused {
	out := make([]Fused, len(rows))
	for i, j := range rows {
		t := j.Transaction
		f := Fused{
			OrderNumber:  t.OrderNumber,
			OrderDate:    t.OrderDate,
			ProductKey:   t.ProductKey,
			CustomerKey:  t.CustomerKey,
			StoreKey:     t.StoreKey,
			CurrencyCode: t.CurrencyCode,
			Quantity:     t.Quantity,
			UnitPriceUSD: t.UnitPriceUSD,
			UnitCostUSD:  t.UnitCostUSD,
			ProductName:  j.Product.ProductName,
			Category:     j.Product.Category,
			Subcategory:  j.Product.Subcategory,
		}
		if c := j.Customer; c != nil {
			f.Birthday = valid(c.Birthday)
			f.Gender = valid(c.Gender)
			f.City = valid(c.City)
			f.CustomerState = valid(c.State)
			f.CustomerCountry = valid(c.Country)
		}
		if s := j.Store; s != nil {
			f.StoreState = valid(s.State)
			f.StoreCountry = valid(s.Country)
		}
		if r := j.Rate; r != nil {
			f.Exchange = valid(r.Exchange)
		}
		out[i] = f
	}
	return out
}

func valid[T any](v T) sql.Null[T] {
	return sql.Null[T]{V: v, Valid: true}
}
