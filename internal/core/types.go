package core

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one sale line as read from the transactions file.
// OrderDate and the price columns are still text. The csv tags name the
// source headers.
type RawTransaction struct {
	OrderNumber  int    `csv:"Order Number"`
	OrderDate    string `csv:"Order Date" validate:"required"`
	ProductKey   int    `csv:"ProductKey"`
	CustomerKey  int    `csv:"CustomerKey"`
	StoreKey     int    `csv:"StoreKey"`
	CurrencyCode string `csv:"Currency Code" validate:"required,len=3"`
	Quantity     int    `csv:"Quantity"`
	UnitPriceUSD string `csv:"Unit Price USD" validate:"required"`
	UnitCostUSD  string `csv:"Unit Cost USD" validate:"required"`
}

// RawCustomer is a customer row with its birthday still as text.
type RawCustomer struct {
	CustomerKey int    `csv:"CustomerKey"`
	Birthday    string `csv:"Birthday" validate:"required"`
	Gender      string `csv:"Gender"`
	City        string `csv:"City"`
	State       string `csv:"State"`
	Country     string `csv:"Country"`
}

// RawExchangeRate is an exchange-rate row with its date still as text.
type RawExchangeRate struct {
	Date     string          `csv:"Date" validate:"required"`
	Currency string          `csv:"Currency" validate:"required,len=3"`
	Exchange decimal.Decimal `csv:"Exchange"`
}

// Product needs no normalization and is used as-is by the joins.
type Product struct {
	ProductKey  int    `csv:"ProductKey"`
	ProductName string `csv:"Product Name" validate:"required"`
	Category    string `csv:"Category"`
	Subcategory string `csv:"Subcategory"`
}

// Store needs no normalization and is used as-is by the joins.
type Store struct {
	StoreKey int    `csv:"StoreKey"`
	State    string `csv:"State"`
	Country  string `csv:"Country"`
}

// RawTables holds the five source tables before date normalization.
type RawTables struct {
	Transactions  []RawTransaction
	Products      []Product
	Customers     []RawCustomer
	Stores        []Store
	ExchangeRates []RawExchangeRate
}

// Transaction is a sale line with a calendar-date OrderDate.
type Transaction struct {
	OrderNumber  int
	OrderDate    time.Time
	ProductKey   int
	CustomerKey  int
	StoreKey     int
	CurrencyCode string
	Quantity     int
	UnitPriceUSD string
	UnitCostUSD  string
}

// Customer is a customer row with a calendar-date Birthday.
type Customer struct {
	CustomerKey int
	Birthday    time.Time
	Gender      string
	City        string
	State       string
	Country     string
}

// ExchangeRate is the rate for one currency on one day, expressed as
// units of local currency per 1 USD.
type ExchangeRate struct {
	Date     time.Time
	Currency string
	Exchange decimal.Decimal
}

// Tables holds the five source tables after date normalization.
type Tables struct {
	Transactions  []Transaction
	Products      []Product
	Customers     []Customer
	Stores        []Store
	ExchangeRates []ExchangeRate
}

// Joined is one output row of the fusion joins. The left-joined parts are
// nil when no row matched.
type Joined struct {
	Transaction Transaction
	Product     Product
	Customer    *Customer
	Store       *Store
	Rate        *ExchangeRate
}

// Fused is the flattened join row with colliding columns renamed and the
// exchange-rate date dropped.
type Fused struct {
	OrderNumber  int
	OrderDate    time.Time
	ProductKey   int
	CustomerKey  int
	StoreKey     int
	CurrencyCode string
	Quantity     int
	UnitPriceUSD string
	UnitCostUSD  string

	ProductName string
	Category    string
	Subcategory string

	Birthday        sql.Null[time.Time]
	Gender          sql.Null[string]
	City            sql.Null[string]
	CustomerState   sql.Null[string]
	CustomerCountry sql.Null[string]

	StoreState   sql.Null[string]
	StoreCountry sql.Null[string]

	Exchange sql.Null[decimal.Decimal]
}

// Derived is a Fused row plus the computed business fields.
type Derived struct {
	Fused

	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal
	Age             sql.Null[int]
	RevenueLocal    sql.Null[decimal.Decimal]
	TotalRevenueUSD sql.Null[decimal.Decimal]
	Revenue         decimal.Decimal
}

// OutputRecord is the published row. Field order matches OutputColumns.
type OutputRecord struct {
	SalesID       int
	CustomerID    int
	ProductID     int
	ProductName   string
	Category      string
	Subcategory   string
	QuantitySold  int
	UnitCostUSD   decimal.Decimal
	UnitPriceUSD  decimal.Decimal
	Revenue       decimal.Decimal
	RevenueLocal  sql.Null[decimal.Decimal]
	StoreID       int
	StoreLocation sql.Null[string]
	SaleDate      string
	Currency      string
	ExchangeRate  sql.Null[decimal.Decimal]
	Gender        sql.Null[string]
	Age           sql.Null[int]
	Location      sql.Null[string]
}

// OutputColumns is the published header, in order.
var OutputColumns = []string{
	"Sales ID",
	"Customer ID",
	"Product ID",
	"Product Name",
	"Category",
	"Subcategory",
	"Quantity Sold",
	"Unit Cost USD",
	"Unit Price USD",
	"Revenue",
	"Revenue in Local Currency",
	"Store ID",
	"Store Location",
	"Sale Date",
	"Currency",
	"Exchange Rate",
	"Gender",
	"Age",
	"Location (city, state, country)",
}

// SaleDateLayout is the published Sale Date format.
const SaleDateLayout = "2006-01-02"
