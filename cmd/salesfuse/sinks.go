package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/salesfuse/internal/config"
	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/sink"
	"github.com/JonMunkholm/salesfuse/internal/source"
)

var sourceTables = []string{
	core.TableTransactions,
	core.TableProducts,
	core.TableCustomers,
	core.TableStores,
	core.TableExchangeRates,
}

// openSinks builds the configured sinks, file first. A database that cannot
// be reached becomes an unavailable sink so the file is still written and
// the failure is reported with the others.
func openSinks(ctx context.Context, cfg *config.Config) ([]sink.Sink, func(), error) {
	var (
		sinks   []sink.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("close sink", "error", err)
			}
		}
	}

	if cfg.Output.Enabled {
		enc, err := source.ParseEncoding(cfg.Output.Encoding)
		if err != nil {
			return nil, closeAll, err
		}
		sinks = append(sinks, sink.NewFileSink(cfg.Output.Path, enc))
	}

	if !cfg.Database.DatabaseEnabled() {
		return sinks, closeAll, nil
	}

	mode, err := sink.ParseLoadMode(cfg.Database.LoadMode)
	if err != nil {
		return nil, closeAll, err
	}
	opts := sink.DBOptions{
		Table:           cfg.Database.Table,
		Mode:            mode,
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		Timeout:         cfg.Database.Timeout,
	}

	switch driver := strings.ToLower(cfg.Database.Driver); driver {
	case config.DriverMySQL:
		s, err := sink.OpenMySQL(ctx, cfg.Database.URL, opts)
		if err != nil {
			slog.Error("mysql unavailable", "error", err)
			sinks = append(sinks, sink.Unavailable(driver, opts.Table, err))
			break
		}
		sinks = append(sinks, s)
		closers = append(closers, s.Close)

	case config.DriverPostgres:
		s, err := sink.OpenPostgres(ctx, cfg.Database.URL, opts)
		if err != nil {
			slog.Error("postgres unavailable", "error", err)
			sinks = append(sinks, sink.Unavailable(driver, opts.Table, err))
			break
		}
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}

	return sinks, closeAll, nil
}
