// Package source reads the five sales source tables from delimited text files
// into core raw records.
//
// Columns are matched by header name, not position. Each record type in
// package core names its columns with csv struct tags; cells are cleaned,
// converted by field type and then checked against the validate tags.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
)

// Paths locates the five source files.
type Paths struct {
	Transactions  string
	Products      string
	Customers     string
	Stores        string
	ExchangeRates string
}

// LoadAll reads all five tables fully into memory. It stops at the first
// file that fails and checks ctx between files.
func LoadAll(ctx context.Context, paths Paths, enc Encoding) (core.RawTables, error) {
	var (
		raw core.RawTables
		err error
	)

	steps := []struct {
		table string
		path  string
		read  func(io.Reader) error
	}{
		{core.TableTransactions, paths.Transactions, func(r io.Reader) (err error) {
			raw.Transactions, err = ReadTable[core.RawTransaction](r, core.TableTransactions)
			return err
		}},
		{core.TableProducts, paths.Products, func(r io.Reader) (err error) {
			raw.Products, err = ReadTable[core.Product](r, core.TableProducts)
			return err
		}},
		{core.TableCustomers, paths.Customers, func(r io.Reader) (err error) {
			raw.Customers, err = ReadTable[core.RawCustomer](r, core.TableCustomers)
			return err
		}},
		{core.TableStores, paths.Stores, func(r io.Reader) (err error) {
			raw.Stores, err = ReadTable[core.Store](r, core.TableStores)
			return err
		}},
		{core.TableExchangeRates, paths.ExchangeRates, func(r io.Reader) (err error) {
			raw.ExchangeRates, err = ReadTable[core.RawExchangeRate](r, core.TableExchangeRates)
			return err
		}},
	}

	for _, step := range steps {
		if err = ctx.Err(); err != nil {
			return core.RawTables{}, err
		}
		if err = loadFile(ctx, step.table, step.path, enc, step.read); err != nil {
			return core.RawTables{}, err
		}
	}

	return raw, nil
}

func loadFile(ctx context.Context, table, path string, enc Encoding, read func(io.Reader) error) error {
	logger := logging.WithFields(ctx, "table", table, "path", path)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s source: %w", table, err)
	}
	defer f.Close()

	r, err := NewDecodingReader(f, enc)
	if err != nil {
		return err
	}

	if err := read(r); err != nil {
		logger.Error("source read failed", "error", err)
		return err
	}

	logger.Debug("source loaded", "encoding", string(enc), "duration", time.Since(start))
	return nil
}

// Count returns the row count of every table, keyed by table name.
func Count(raw core.RawTables) map[string]int {
	return map[string]int{
		core.TableTransactions:  len(raw.Transactions),
		core.TableProducts:      len(raw.Products),
		core.TableCustomers:     len(raw.Customers),
		core.TableStores:        len(raw.Stores),
		core.TableExchangeRates: len(raw.ExchangeRates),
	}
}
