// Package hdf5 implements the HDF5 sink: one chunked extendible 1-D
// dataset of compound elements per bound table, named after the table,
// inside a configured group.
package hdf5

import (
	"os"
	"time"

	"go.uber.org/zap"

	h5 "github.com/ajitpratap0/tabula/internal/hdf5"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// DefaultChunk is the dataset chunk length in elements.
const DefaultChunk = 16

// Sink writes table rows into an HDF5 group. For each bound table a
// row codec is built at prolog and destroyed at epilog.
type Sink struct {
	tabular.SinkBase

	file  *h5.File
	loc   *h5.Location
	mode  tabular.OpenMode
	chunk int

	codecs map[*tabular.Table]*rowCodec

	log *zap.Logger
}

func newSink(file *h5.File, loc *h5.Location, mode tabular.OpenMode) *Sink {
	return &Sink{
		file:   file,
		loc:    loc,
		mode:   mode,
		chunk:  DefaultChunk,
		codecs: make(map[*tabular.Table]*rowCodec),
		log:    logger.With(zap.String("sink", "hdf5")),
	}
}

// Open creates an HDF5 sink on the named file, placing datasets in the
// root group. Truncate mode recreates the file; append mode opens an
// existing file read-write, creating it when absent.
func Open(path string, mode tabular.OpenMode) (*Sink, error) {
	var (
		file *h5.File
		err  error
	)
	if mode == tabular.OpenAppend {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			file, err = h5.CreateFile(path)
		} else {
			file, err = h5.OpenFileRW(path)
		}
	} else {
		file, err = h5.CreateFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening HDF5 output file")
	}
	loc, err := file.Root()
	if err != nil {
		file.Close()
		return nil, err
	}
	s := newSink(file, loc, mode)
	s.log.Debug("hdf5 sink opened",
		zap.String("path", path),
		zap.String("mode", mode.String()))
	return s, nil
}

// AtLocation creates an HDF5 sink placing datasets at an existing group
// or file identifier. The identifier's reference count is incremented
// for the lifetime of the sink.
func AtLocation(locid int64, mode tabular.OpenMode) (*Sink, error) {
	loc, err := h5.NewLocation(locid)
	if err != nil {
		return nil, err
	}
	return newSink(nil, loc, mode), nil
}

// SetChunk overrides the dataset chunk length for datasets created
// after the call.
func (s *Sink) SetChunk(chunk int) { s.chunk = chunk }

// Close unbinds all tables, releases any codecs still open, and drops
// the group reference acquired at construction.
func (s *Sink) Close() error {
	s.UnbindAll()
	var first error
	for t, rc := range s.codecs {
		if err := rc.close(); err != nil && first == nil {
			first = err
		}
		delete(s.codecs, t)
	}
	if s.loc != nil {
		if err := s.loc.Close(); err != nil && first == nil {
			first = err
		}
		s.loc = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && first == nil {
			first = err
		}
		s.file = nil
	}
	return first
}

// OutputProlog builds the row codec for t and creates or opens its
// dataset.
//
// In truncate mode an existing dataset of the same name is unlinked and
// recreated. In append mode an existing dataset is adopted after its
// element type is checked for equality with the freshly computed
// compound type; the existing chunk layout is kept as found.
func (s *Sink) OutputProlog(t *tabular.Table) error {
	rc, open := s.codecs[t]
	if !open {
		var err error
		rc, err = newRowCodec(t)
		if err != nil {
			return err
		}
		s.codecs[t] = rc
	}
	if rc.dataset != nil {
		return nil
	}

	exists, err := s.loc.Exists(t.Name())
	if err != nil {
		return err
	}

	if s.mode == tabular.OpenAppend && exists {
		ds, err := s.loc.OpenDataset(t.Name())
		if err != nil {
			return err
		}
		dt, err := ds.Datatype()
		if err != nil {
			ds.Close()
			return err
		}
		eq, err := dt.Equal(rc.ctype)
		dt.Close()
		if err != nil {
			ds.Close()
			return err
		}
		if !eq {
			ds.Close()
			return errors.Newf(errors.ErrorTypeType,
				"appending to dataset %q: existing element type does not match the table columns", t.Name())
		}
		rc.dataset = ds
	} else {
		if exists {
			if err := s.loc.Unlink(t.Name()); err != nil {
				return err
			}
		}
		ds, err := s.loc.CreateDataset(t.Name(), rc.ctype, s.chunk)
		if err != nil {
			return err
		}
		rc.dataset = ds
		s.log.Debug("dataset created",
			zap.String("table", t.Name()),
			zap.Int("row_size", rc.layout.size),
			zap.Int("chunk", s.chunk))
	}

	metrics.SessionsStarted.WithLabelValues(t.Name(), "hdf5").Inc()
	return nil
}

// OutputRow appends one packed row assembled from t's current column
// values.
func (s *Sink) OutputRow(t *tabular.Table) error {
	rc, open := s.codecs[t]
	if !open || rc.dataset == nil {
		return errors.Newf(errors.ErrorTypeInternal,
			"no open output session for table %q", t.Name())
	}
	start := time.Now()
	if err := rc.appendRow(); err != nil {
		return err
	}
	metrics.RowsWritten.WithLabelValues(t.Name(), "hdf5").Inc()
	metrics.RowWriteDuration.WithLabelValues("hdf5").Observe(time.Since(start).Seconds())
	return nil
}

// OutputEpilog destroys t's row codec, closing the dataset handle.
func (s *Sink) OutputEpilog(t *tabular.Table) error {
	rc, open := s.codecs[t]
	if !open {
		return nil
	}
	delete(s.codecs, t)
	return rc.close()
}
