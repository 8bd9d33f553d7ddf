// Package text implements the textual stream sink: CSV rows over any
// io.Writer, with optional gzip or zstd compression on owned files.
package text

import (
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// Format selects the row layout of a text sink.
type Format int

const (
	// FormatCsvTab emits a header row of column names at the start of
	// a fresh stream, then comma-separated values.
	FormatCsvTab Format = iota
	// FormatCsvRel prefixes every row with the table name and emits no
	// header, so multiple tables can share one stream.
	FormatCsvRel
)

// DefaultFormat is used when a sink URL carries no format key.
const DefaultFormat = FormatCsvRel

// String returns the URL spelling of the format.
func (f Format) String() string {
	if f == FormatCsvTab {
		return "csvtab"
	}
	return "csvrel"
}

// Compression selects the stream compression of an owned file sink.
type Compression int

const (
	// CompressNone writes plain text.
	CompressNone Compression = iota
	// CompressGzip wraps the file in a gzip stream.
	CompressGzip
	// CompressZstd wraps the file in a zstd stream.
	CompressZstd
)

// String returns the URL spelling of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressGzip:
		return "gzip"
	case CompressZstd:
		return "zstd"
	default:
		return "none"
	}
}

// Sink writes table rows as text to a byte stream. For each bound
// table a formatter is created at prolog and destroyed at epilog.
type Sink struct {
	tabular.SinkBase

	w     io.Writer
	file  *os.File
	comp  io.WriteCloser
	owner bool
	path  string

	format     Format
	formatters map[*tabular.Table]formatter

	log *zap.Logger
}

// NewStream creates a text sink over an existing stream. Close closes
// the stream only when it is owned and is an *os.File; any other stream
// is only flushed.
func NewStream(w io.Writer, owner bool, format Format) *Sink {
	s := &Sink{
		w:          w,
		owner:      owner,
		format:     format,
		formatters: make(map[*tabular.Table]formatter),
	}
	if f, ok := w.(*os.File); ok {
		s.file = f
	}
	return s
}

// logger is created on first use so that the process-global Stdout and
// Stderr sinks do not freeze the zap configuration at import time.
func (s *Sink) logger() *zap.Logger {
	if s.log == nil {
		s.log = logger.With(zap.String("sink", "text"))
	}
	return s.log
}

// NewFile creates a text sink writing to the named file.
func NewFile(path string, mode tabular.OpenMode, format Format) (*Sink, error) {
	return NewCompressedFile(path, mode, format, CompressNone)
}

// NewCompressedFile creates a text sink writing to the named file
// through the given compression algorithm. Compressed streams are not
// seekable, so FormatCsvTab emits its header unconditionally.
func NewCompressedFile(path string, mode tabular.OpenMode, format Format, algo Compression) (*Sink, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if mode == tabular.OpenAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening text output file")
	}
	s := NewStream(f, true, format)
	s.path = path
	if err := s.wrapCompression(algo); err != nil {
		f.Close()
		return nil, err
	}
	s.logger().Debug("text sink opened",
		zap.String("path", path),
		zap.String("mode", mode.String()),
		zap.String("format", format.String()),
		zap.String("compress", algo.String()))
	return s, nil
}

func (s *Sink) wrapCompression(algo Compression) error {
	switch algo {
	case CompressNone:
		return nil
	case CompressGzip:
		zw := gzip.NewWriter(s.w)
		s.comp = zw
		s.w = zw
	case CompressZstd:
		zw, err := zstd.NewWriter(s.w)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "creating zstd writer")
		}
		s.comp = zw
		s.w = zw
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown compression algorithm %d", int(algo))
	}
	return nil
}

// Stdout is the process-global text sink on standard output.
var Stdout = NewStream(os.Stdout, false, DefaultFormat)

// Stderr is the process-global text sink on standard error.
var Stderr = NewStream(os.Stderr, false, DefaultFormat)

// Path returns the file path backing this sink, if any.
func (s *Sink) Path() string { return s.path }

// Writer returns the stream rows are written to.
func (s *Sink) Writer() io.Writer { return s.w }

// Flush flushes buffered compressed data to the underlying stream.
func (s *Sink) Flush() error {
	type flusher interface{ Flush() error }
	if f, ok := s.comp.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "flushing text output")
		}
	}
	return nil
}

// Close unbinds all tables and releases the stream: the compressor is
// finalized, an owned file is closed, a borrowed stream is only
// flushed.
func (s *Sink) Close() error {
	s.UnbindAll()
	if s.comp != nil {
		if err := s.comp.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "closing compressed stream")
		}
		s.comp = nil
	}
	if s.owner && s.file != nil {
		if err := s.file.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "closing text output file")
		}
		s.file = nil
		s.w = nil
		return nil
	}
	return s.Flush()
}

// OutputProlog creates the formatter for t and lets it write any
// header. Idempotent while a session is open.
func (s *Sink) OutputProlog(t *tabular.Table) error {
	if _, open := s.formatters[t]; open {
		return nil
	}
	f := newFormatter(s, t, s.format)
	s.formatters[t] = f
	metrics.SessionsStarted.WithLabelValues(t.Name(), "text").Inc()
	return f.prolog()
}

// OutputRow writes one row of t's current column values.
func (s *Sink) OutputRow(t *tabular.Table) error {
	f, open := s.formatters[t]
	if !open {
		return errors.Newf(errors.ErrorTypeInternal,
			"no open output session for table %q", t.Name())
	}
	start := time.Now()
	if err := f.row(); err != nil {
		return err
	}
	metrics.RowsWritten.WithLabelValues(t.Name(), "text").Inc()
	metrics.RowWriteDuration.WithLabelValues("text").Observe(time.Since(start).Seconds())
	return nil
}

// OutputEpilog concludes the session for t and destroys its formatter.
func (s *Sink) OutputEpilog(t *tabular.Table) error {
	f, open := s.formatters[t]
	if !open {
		return nil
	}
	delete(s.formatters, t)
	return f.epilog()
}
