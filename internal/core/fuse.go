package core

import (
	"fmt"
	"strconv"
)

// Join names used in stats and JoinIntegrityError.
const (
	JoinProduct  = "product"
	JoinCustomer = "customer"
	JoinStore    = "store"
	JoinRate     = "exchange_rate"
)

// FuseOptions controls join behavior.
type FuseOptions struct {
	// Strict rejects a join key that matches more than one right-side row
	// instead of emitting one output row per match.
	Strict bool
}

// FuseStats counts what the joins kept and what they could not match.
type FuseStats struct {
	Transactions      int
	DroppedNoProduct  int
	UnmatchedCustomer int
	UnmatchedStore    int
	UnmatchedRate     int
	Rows              int
}

type rateKey struct {
	day      string
	currency string
}

// Fuse joins the normalized tables in fixed order:
//
//  1. transactions ⨝ products on ProductKey (inner)
//  2. ⨝ customers on CustomerKey (left)
//  3. ⨝ stores on StoreKey (left)
//  4. ⨝ exchange rates on (OrderDate, CurrencyCode) = (Date, Currency) (left)
//
// Output follows transaction order, then right-table order for keys with
// several matches. Duplicate matches multiply rows unless opts.Strict is set.
func Fuse(t Tables, opts FuseOptions) ([]Joined, FuseStats, error) {
	stats := FuseStats{Transactions: len(t.Transactions)}

	products := make(map[int][]int, len(t.Products))
	for i, p := range t.Products {
		products[p.ProductKey] = append(products[p.ProductKey], i)
	}
	customers := make(map[int][]int, len(t.Customers))
	for i, c := range t.Customers {
		customers[c.CustomerKey] = append(customers[c.CustomerKey], i)
	}
	stores := make(map[int][]int, len(t.Stores))
	for i, s := range t.Stores {
		stores[s.StoreKey] = append(stores[s.StoreKey], i)
	}
	rates := make(map[rateKey][]int, len(t.ExchangeRates))
	for i, r := range t.ExchangeRates {
		k := rateKey{day: r.Date.Format(SaleDateLayout), currency: r.Currency}
		rates[k] = append(rates[k], i)
	}

	// Step 1: inner join on product
	var step []Joined
	for _, txn := range t.Transactions {
		matches := products[txn.ProductKey]
		if len(matches) == 0 {
			stats.DroppedNoProduct++
			continue
		}
		if err := checkStrict(opts, JoinProduct, strconv.Itoa(txn.ProductKey), len(matches)); err != nil {
			return nil, stats, err
		}
		for _, pi := range matches {
			step = append(step, Joined{Transaction: txn, Product: t.Products[pi]})
		}
	}

	// Step 2: left join on customer
	next := make([]Joined, 0, len(step))
	for _, row := range step {
		matches := customers[row.Transaction.CustomerKey]
		if len(matches) == 0 {
			stats.UnmatchedCustomer++
			next = append(next, row)
			continue
		}
		if err := checkStrict(opts, JoinCustomer, strconv.Itoa(row.Transaction.CustomerKey), len(matches)); err != nil {
			return nil, stats, err
		}
		for _, ci := range matches {
			joined := row
			c := t.Customers[ci]
			joined.Customer = &c
			next = append(next, joined)
		}
	}
	step = next

	// Step 3: left join on store
	next = make([]Joined, 0, len(step))
	for _, row := range step {
		matches := stores[row.Transaction.StoreKey]
		if len(matches) == 0 {
			stats.UnmatchedStore++
			next = append(next, row)
			continue
		}
		if err := checkStrict(opts, JoinStore, strconv.Itoa(row.Transaction.StoreKey), len(matches)); err != nil {
			return nil, stats, err
		}
		for _, si := range matches {
			joined := row
			st := t.Stores[si]
			joined.Store = &st
			next = append(next, joined)
		}
	}
	step = next

	// Step 4: left join on (date, currency)
	next = make([]Joined, 0, len(step))
	for _, row := range step {
		k := rateKey{day: row.Transaction.OrderDate.Format(SaleDateLayout), currency: row.Transaction.CurrencyCode}
		matches := rates[k]
		if len(matches) == 0 {
			stats.UnmatchedRate++
			next = append(next, row)
			continue
		}
		if err := checkStrict(opts, JoinRate, k.day+"/"+k.currency, len(matches)); err != nil {
			return nil, stats, err
		}
		for _, ri := range matches {
			joined := row
			r := t.ExchangeRates[ri]
			joined.Rate = &r
			next = append(next, joined)
		}
	}

	stats.Rows = len(next)
	return next, stats, nil
}

func checkStrict(opts FuseOptions, join, key string, matches int) error {
	if opts.Strict && matches > 1 {
		return &JoinIntegrityError{Join: join, Key: key, Matches: matches}
	}
	return nil
}

// String renders stats for log lines and the CLI summary.
func (s FuseStats) String() string {
	return fmt.Sprintf("transactions=%d rows=%d dropped_no_product=%d unmatched_customer=%d unmatched_store=%d unmatched_rate=%d",
		s.Transactions, s.Rows, s.DroppedNoProduct, s.UnmatchedCustomer, s.UnmatchedStore, s.UnmatchedRate)
}
