package sink

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresSink loads records into a PostgreSQL table with COPY inside a
// single transaction.
type PostgresSink struct {
	pool   *pgxpool.Pool
	target string
	opts   DBOptions
}

// OpenPostgres parses url, opens a connection pool and pings the server.
// The caller closes the sink.
func OpenPostgres(ctx context.Context, databaseURL string, opts DBOptions) (*PostgresSink, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", postgresTarget(databaseURL), err)
	}

	return NewPostgresSink(pool, postgresTarget(databaseURL), opts), nil
}

// NewPostgresSink wraps an open pool.
func NewPostgresSink(pool *pgxpool.Pool, target string, opts DBOptions) *PostgresSink {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Mode == "" {
		opts.Mode = LoadAppend
	}
	return &PostgresSink{pool: pool, target: target, opts: opts}
}

// postgresTarget describes a connection URL without its password.
func postgresTarget(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	user := ""
	if u.User != nil {
		user = u.User.Username() + "@"
	}
	return user + u.Host + "/" + strings.TrimPrefix(u.Path, "/")
}

func (s *PostgresSink) Name() string   { return string(Postgres) }
func (s *PostgresSink) Target() string { return s.target + "." + s.opts.Table }

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

// Write implements Sink.
func (s *PostgresSink) Write(ctx context.Context, records []core.OutputRecord) Report {
	start := time.Now()
	logger := logging.WithFields(ctx, "sink", s.Name(), "target", s.Target(), "mode", s.opts.Mode)

	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	rows, err := CopyRows(records)
	if err != nil {
		return report(s, len(records), 0, start, err)
	}

	if err := s.load(ctx, rows); err != nil {
		logger.Error("table load failed", "error", err)
		return report(s, len(records), 0, start, err)
	}

	logger.Info("table loaded", "rows", len(records), "duration", time.Since(start))
	return report(s, len(records), len(records), start, nil)
}

func (s *PostgresSink) load(ctx context.Context, rows [][]any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, Postgres.CreateTableSQL(s.opts.Table)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	if s.opts.Mode == LoadReplace {
		if _, err := tx.Exec(ctx, Postgres.ClearSQL(s.opts.Table)); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier(strings.Split(s.opts.Table, ".")), Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy rows: copied %d of %d", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CopyRows converts records to pgtype values in Columns order. Integers
// that do not fit the INT columns are an error, never truncated.
func CopyRows(records []core.OutputRecord) ([][]any, error) {
	rows := make([][]any, len(records))
	for i, rec := range records {
		saleDate, err := time.Parse(core.SaleDateLayout, rec.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: sale date %q: %w", i+1, rec.SaleDate, err)
		}

		revenueLocal := pgtype.Numeric{}
		if rec.RevenueLocal.Valid {
			revenueLocal = toPgNumeric(rec.RevenueLocal.V)
		}
		rate := pgtype.Numeric{}
		if rec.ExchangeRate.Valid {
			rate = toPgNumeric(rec.ExchangeRate.V)
		}

		var rangeErr error
		int4 := func(column string, v int, valid bool) pgtype.Int4 {
			if !valid {
				return pgtype.Int4{}
			}
			if v < math.MinInt32 || v > math.MaxInt32 {
				if rangeErr == nil {
					rangeErr = fmt.Errorf("row %d: %s %d out of range for INT", i+1, column, v)
				}
				return pgtype.Int4{}
			}
			return pgtype.Int4{Int32: int32(v), Valid: true}
		}

		row := []any{
			int4("sales_id", rec.SalesID, true),
			int4("customer_id", rec.CustomerID, true),
			int4("product_id", rec.ProductID, true),
			pgtype.Text{String: rec.ProductName, Valid: true},
			pgtype.Text{String: rec.Category, Valid: true},
			pgtype.Text{String: rec.Subcategory, Valid: true},
			int4("quantity_sold", rec.QuantitySold, true),
			toPgNumeric(rec.UnitCostUSD),
			toPgNumeric(rec.UnitPriceUSD),
			toPgNumeric(rec.Revenue),
			revenueLocal,
			int4("store_id", rec.StoreID, true),
			pgtype.Text{String: rec.StoreLocation.V, Valid: rec.StoreLocation.Valid},
			pgtype.Date{Time: saleDate, Valid: true},
			pgtype.Text{String: rec.Currency, Valid: true},
			rate,
			pgtype.Text{String: rec.Gender.V, Valid: rec.Gender.Valid},
			int4("age", rec.Age.V, rec.Age.Valid),
			pgtype.Text{String: rec.Location.V, Valid: rec.Location.Valid},
		}
		if rangeErr != nil {
			return nil, rangeErr
		}
		rows[i] = row
	}
	return rows, nil
}

// toPgNumeric converts an exact decimal to pgtype.Numeric without going
// through float.
func toPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
