package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
	"github.com/JonMunkholm/salesfuse/internal/source"
	"golang.org/x/text/transform"
)

// FileSink writes records as a comma-delimited file with a header row.
//
// Rows go to a temporary file next to Path which is renamed over Path only
// after every row is flushed, so a failed write never leaves a partial file.
type FileSink struct {
	Path     string
	Encoding source.Encoding
}

// NewFileSink creates a file sink. An empty encoding means UTF-8.
func NewFileSink(path string, enc source.Encoding) *FileSink {
	if enc == "" {
		enc = source.UTF8
	}
	return &FileSink{Path: path, Encoding: enc}
}

func (s *FileSink) Name() string   { return "file" }
func (s *FileSink) Target() string { return s.Path }

// Write implements Sink.
func (s *FileSink) Write(ctx context.Context, records []core.OutputRecord) Report {
	start := time.Now()
	logger := logging.WithFields(ctx, "sink", s.Name(), "target", s.Path)

	if err := s.write(ctx, records); err != nil {
		logger.Error("file write failed", "error", err)
		return report(s, len(records), 0, start, err)
	}

	logger.Info("file written", "rows", len(records), "duration", time.Since(start))
	return report(s, len(records), len(records), start, nil)
}

func (s *FileSink) write(ctx context.Context, records []core.OutputRecord) (err error) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w, flush, err := s.encodingWriter(tmp)
	if err != nil {
		return err
	}

	if err := WriteCSV(ctx, w, records); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// encodingWriter wraps w with the sink's output encoding. The returned flush
// drains the encoder without closing w. UTF-8 output is written without a
// byte order mark.
func (s *FileSink) encodingWriter(w io.Writer) (io.Writer, func() error, error) {
	if s.Encoding == source.UTF8 {
		return w, func() error { return nil }, nil
	}
	codec, err := s.Encoding.Codec()
	if err != nil {
		return nil, nil, err
	}
	tw := transform.NewWriter(w, codec.NewEncoder())
	return tw, tw.Close, nil
}

// WriteCSV writes the header and records to w. ctx is checked every
// ContextCheckInterval rows.
func WriteCSV(ctx context.Context, w io.Writer, records []core.OutputRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.OutputColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cancelled at row %d: %w", i+1, err)
			}
		}
		if err := cw.Write(FormatRecord(rec)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// ContextCheckInterval is how many rows are written between cancellation checks.
const ContextCheckInterval = 1000
