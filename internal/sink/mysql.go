package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
	"github.com/go-sql-driver/mysql"
)

// DBOptions configures a database sink.
type DBOptions struct {
	Table           string
	Mode            LoadMode
	MaxConns        int
	MaxConnLifetime time.Duration
	Timeout         time.Duration
}

// MySQLSink loads records into a MySQL table with prepared inserts inside a
// single transaction.
type MySQLSink struct {
	db     *sql.DB
	target string
	opts   DBOptions
}

// OpenMySQL parses dsn, opens a connection pool and pings the server.
// The caller closes the sink.
func OpenMySQL(ctx context.Context, dsn string, opts DBOptions) (*MySQLSink, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
		db.SetMaxIdleConns(opts.MaxConns)
	}
	if opts.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(opts.MaxConnLifetime)
	}

	pingCtx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql %s: %w", mysqlTarget(cfg), err)
	}

	return NewMySQLSink(db, mysqlTarget(cfg), opts), nil
}

// NewMySQLSink wraps an open database handle.
func NewMySQLSink(db *sql.DB, target string, opts DBOptions) *MySQLSink {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Mode == "" {
		opts.Mode = LoadAppend
	}
	return &MySQLSink{db: db, target: target, opts: opts}
}

// mysqlTarget describes the connection without the password.
func mysqlTarget(cfg *mysql.Config) string {
	return fmt.Sprintf("%s@%s(%s)/%s", cfg.User, cfg.Net, cfg.Addr, cfg.DBName)
}

func (s *MySQLSink) Name() string   { return string(MySQL) }
func (s *MySQLSink) Target() string { return s.target + "." + s.opts.Table }

// Close closes the connection pool.
func (s *MySQLSink) Close() error { return s.db.Close() }

// Write implements Sink.
func (s *MySQLSink) Write(ctx context.Context, records []core.OutputRecord) Report {
	start := time.Now()
	logger := logging.WithFields(ctx, "sink", s.Name(), "target", s.Target(), "mode", s.opts.Mode)

	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if err := s.load(ctx, records); err != nil {
		logger.Error("table load failed", "error", err)
		return report(s, len(records), 0, start, err)
	}

	logger.Info("table loaded", "rows", len(records), "duration", time.Since(start))
	return report(s, len(records), len(records), start, nil)
}

func (s *MySQLSink) load(ctx context.Context, records []core.OutputRecord) error {
	// DDL commits implicitly in MySQL, so the table is created before the
	// load transaction begins.
	if _, err := s.db.ExecContext(ctx, MySQL.CreateTableSQL(s.opts.Table)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op after commit

	if s.opts.Mode == LoadReplace {
		if _, err := tx.ExecContext(ctx, MySQL.ClearSQL(s.opts.Table)); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, MySQL.InsertSQL(s.opts.Table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, recordArgs(rec)...); err != nil {
			return fmt.Errorf("insert row %d (sales id %d): %w", i+1, rec.SalesID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DefaultTable is the table name used when none is configured.
const DefaultTable = "sales_data"

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
