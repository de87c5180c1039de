package core

import "time"

// Source table names used in error reports.
const (
	TableTransactions  = "transactions"
	TableProducts      = "products"
	TableCustomers     = "customers"
	TableStores        = "stores"
	TableExchangeRates = "exchange_rates"
)

// NormalizeOptions controls date normalization.
type NormalizeOptions struct {
	// Today is the reference date for 2-digit years. Zero reads the clock.
	Today time.Time
}

// NormalizeTables converts the date columns of the transaction, customer and
// exchange-rate tables to calendar dates. The first unreadable value fails the
// whole conversion; no partially converted table is returned.
func NormalizeTables(raw RawTables, opts NormalizeOptions) (Tables, error) {
	ref := opts.Today
	if ref.IsZero() {
		ref = time.Now()
	}

	txns, err := NormalizeTransactions(raw.Transactions, ref)
	if err != nil {
		return Tables{}, err
	}
	customers, err := NormalizeCustomers(raw.Customers, ref)
	if err != nil {
		return Tables{}, err
	}
	rates, err := NormalizeExchangeRates(raw.ExchangeRates, ref)
	if err != nil {
		return Tables{}, err
	}

	return Tables{
		Transactions:  txns,
		Products:      append([]Product(nil), raw.Products...),
		Customers:     customers,
		Stores:        append([]Store(nil), raw.Stores...),
		ExchangeRates: rates,
	}, nil
}

// NormalizeTransactions parses OrderDate on every row. 2-digit years
// resolve against ref.
func NormalizeTransactions(rows []RawTransaction, ref time.Time) ([]Transaction, error) {
	out := make([]Transaction, len(rows))
	for i, r := range rows {
		d, err := ParseDateAt(r.OrderDate, ref)
		if err != nil {
			return nil, &ParseError{Table: TableTransactions, Column: "Order Date", Row: i + 1, Value: r.OrderDate, Err: err}
		}
		out[i] = Transaction{
			OrderNumber:  r.OrderNumber,
			OrderDate:    d,
			ProductKey:   r.ProductKey,
			CustomerKey:  r.CustomerKey,
			StoreKey:     r.StoreKey,
			CurrencyCode: r.CurrencyCode,
			Quantity:     r.Quantity,
			UnitPriceUSD: r.UnitPriceUSD,
			UnitCostUSD:  r.UnitCostUSD,
		}
	}
	return out, nil
}

// NormalizeCustomers parses Birthday on every row.
func NormalizeCustomers(rows []RawCustomer, ref time.Time) ([]Customer, error) {
	out := make([]Customer, len(rows))
	for i, r := range rows {
		d, err := ParseDateAt(r.Birthday, ref)
		if err != nil {
			return nil, &ParseError{Table: TableCustomers, Column: "Birthday", Row: i + 1, Value: r.Birthday, Err: err}
		}
		out[i] = Customer{
			CustomerKey: r.CustomerKey,
			Birthday:    d,
			Gender:      r.Gender,
			City:        r.City,
			State:       r.State,
			Country:     r.Country,
		}
	}
	return out, nil
}

// NormalizeExchangeRates parses Date on every row.
func NormalizeExchangeRates(rows []RawExchangeRate, ref time.Time) ([]ExchangeRate, error) {
	out := make([]ExchangeRate, len(rows))
	for i, r := range rows {
		d, err := ParseDateAt(r.Date, ref)
		if err != nil {
			return nil, &ParseError{Table: TableExchangeRates, Column: "Date", Row: i + 1, Value: r.Date, Err: err}
		}
		out[i] = ExchangeRate{Date: d, Currency: r.Currency, Exchange: r.Exchange}
	}
	return out, nil
}
