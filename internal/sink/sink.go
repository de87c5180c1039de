// Package sink writes published sales rows to their destinations: a
// delimited file and a relational table (MySQL or PostgreSQL).
//
// Every sink writes all rows or none. A failed write is reported as a
// *core.SinkError inside the returned Report, with the number of rows
// attempted and committed, so the caller knows whether a retry is safe.
package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
)

// Sink is a destination for output records.
type Sink interface {
	// Name identifies the sink kind in logs and reports ("file", "mysql", "postgres").
	Name() string
	// Target describes where rows go, with credentials removed.
	Target() string
	// Write stores every record or none of them.
	Write(ctx context.Context, records []core.OutputRecord) Report
}

// Report is the outcome of one sink write.
type Report struct {
	Sink      string
	Target    string
	Attempted int
	Committed int
	Duration  time.Duration
	Err       error
}

// OK reports whether the write succeeded.
func (r Report) OK() bool { return r.Err == nil }

// String renders the report for the CLI summary.
func (r Report) String() string {
	status := "ok"
	if r.Err != nil {
		status = "FAILED: " + r.Err.Error()
	}
	return fmt.Sprintf("%-8s %s: %d/%d rows in %s, %s",
		r.Sink, r.Target, r.Committed, r.Attempted, r.Duration.Round(time.Millisecond), status)
}

// LoadMode controls what happens to rows already in the target table.
type LoadMode string

const (
	// LoadAppend inserts alongside existing rows; re-running a load duplicates them.
	LoadAppend LoadMode = "append"
	// LoadReplace empties the table and loads in the same transaction.
	LoadReplace LoadMode = "replace"
)

// ParseLoadMode accepts the config spelling of a load mode.
// An empty string selects LoadAppend.
func ParseLoadMode(s string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LoadAppend:
		return LoadAppend, nil
	case LoadReplace:
		return LoadReplace, nil
	default:
		return "", fmt.Errorf("unknown load mode %q (want %s or %s)", s, LoadAppend, LoadReplace)
	}
}

// report builds a Report, wrapping err in a *core.SinkError.
func report(s Sink, attempted, committed int, start time.Time, err error) Report {
	r := Report{
		Sink:      s.Name(),
		Target:    s.Target(),
		Attempted: attempted,
		Committed: committed,
		Duration:  time.Since(start),
	}
	if err != nil {
		r.Err = &core.SinkError{
			Sink:      r.Sink,
			Target:    r.Target,
			Attempted: attempted,
			Committed: committed,
			Err:       err,
		}
	}
	return r
}

// Unavailable returns a sink that could not be opened. Its Write reports err
// without touching anything, so the failure shows up alongside the other
// sinks' reports.
func Unavailable(name, target string, err error) Sink {
	return &unavailable{name: name, target: target, err: err}
}

type unavailable struct {
	name   string
	target string
	err    error
}

func (u *unavailable) Name() string   { return u.name }
func (u *unavailable) Target() string { return u.target }

func (u *unavailable) Write(_ context.Context, records []core.OutputRecord) Report {
	return report(u, len(records), 0, time.Now(), u.err)
}
