package text

import (
	"io"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// formatter lays out one bound table's rows on the sink stream. A
// formatter lives from OutputProlog to OutputEpilog.
type formatter interface {
	prolog() error
	row() error
	epilog() error
}

func newFormatter(s *Sink, t *tabular.Table, f Format) formatter {
	if f == FormatCsvTab {
		return &csvTabFormatter{sink: s, table: t}
	}
	return &csvRelFormatter{sink: s, table: t}
}

// csvTabFormatter writes a header of column leaf names at the start of
// a fresh stream, then plain comma-separated rows.
type csvTabFormatter struct {
	sink  *Sink
	table *tabular.Table
}

// prolog emits the header when the stream is known to be at its start.
// Regular files are probed through Stat (a fresh append handle reports
// offset 0 regardless of size). On non-seekable streams (pipes,
// compressed output) the header is emitted unconditionally; appending
// to such a stream that already has a header produces a duplicate.
func (f *csvTabFormatter) prolog() error {
	if file := f.sink.file; file != nil && f.sink.comp == nil {
		if fi, err := file.Stat(); err == nil && fi.Size() != 0 {
			return nil
		}
	} else if s, ok := f.sink.w.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err == nil && pos != 0 {
			return nil
		}
	}
	w := f.sink.w
	for i := 0; i < f.table.Size(); i++ {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "writing header")
			}
		}
		if _, err := io.WriteString(w, f.table.ColumnAt(i).Name()); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "writing header")
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing header")
	}
	return nil
}

func (f *csvTabFormatter) row() error {
	w := f.sink.w
	for i := 0; i < f.table.Size(); i++ {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
			}
		}
		if err := f.table.ColumnAt(i).Emit(w); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
	}
	return nil
}

func (f *csvTabFormatter) epilog() error { return nil }

// csvRelFormatter prefixes every row with the table name so that rows
// of several tables can interleave on one stream. No header.
type csvRelFormatter struct {
	sink  *Sink
	table *tabular.Table
}

func (f *csvRelFormatter) prolog() error { return nil }

func (f *csvRelFormatter) row() error {
	w := f.sink.w
	if _, err := io.WriteString(w, f.table.Name()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
	}
	for i := 0; i < f.table.Size(); i++ {
		if _, err := io.WriteString(w, ","); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
		}
		if err := f.table.ColumnAt(i).Emit(w); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing row")
	}
	return nil
}

func (f *csvRelFormatter) epilog() error { return nil }
