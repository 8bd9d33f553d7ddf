package hdf5

import (
	h5 "github.com/ajitpratap0/tabula/internal/hdf5"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// rowCodec is the per-bound-table state of the HDF5 sink: the row
// layout, the compound element type built from it, and the dataset
// handle rows are appended to. It lives from OutputProlog to
// OutputEpilog.
type rowCodec struct {
	table   *tabular.Table
	layout  layout
	ctype   *h5.Datatype
	dataset *h5.Dataset
	buf     []byte
}

// newRowCodec computes the row layout of t's columns and builds the
// matching compound datatype.
func newRowCodec(t *tabular.Table) (*rowCodec, error) {
	cols := t.Columns()
	l := computeLayout(cols)
	ct, err := h5.NewCompound(l.size)
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		mt, owned, err := memberType(c)
		if err != nil {
			ct.Close()
			return nil, err
		}
		err = ct.Insert(c.Name(), l.colpos[i], mt)
		if owned {
			mt.Close()
		}
		if err != nil {
			ct.Close()
			return nil, err
		}
	}
	return &rowCodec{
		table:  t,
		layout: l,
		ctype:  ct,
		buf:    make([]byte, l.size),
	}, nil
}

// memberType maps a column type to its HDF5 member type. The second
// result reports whether the caller owns the returned type.
func memberType(c tabular.Column) (*h5.Datatype, bool, error) {
	switch c.TypeID() {
	case tabular.TypeBool:
		return h5.NativeUChar(), false, nil
	case tabular.TypeInt8:
		return h5.NativeInt8(), false, nil
	case tabular.TypeInt16:
		return h5.NativeInt16(), false, nil
	case tabular.TypeInt32:
		return h5.NativeInt32(), false, nil
	case tabular.TypeInt64:
		return h5.NativeInt64(), false, nil
	case tabular.TypeUint8:
		return h5.NativeUint8(), false, nil
	case tabular.TypeUint16:
		return h5.NativeUint16(), false, nil
	case tabular.TypeUint32:
		return h5.NativeUint32(), false, nil
	case tabular.TypeUint64:
		return h5.NativeUint64(), false, nil
	case tabular.TypeFloat32:
		return h5.NativeFloat(), false, nil
	case tabular.TypeFloat64:
		return h5.NativeDouble(), false, nil
	case tabular.TypeString:
		t, err := h5.NewFixedString(c.Size())
		return t, true, err
	default:
		return nil, false, errors.Newf(errors.ErrorTypeType,
			"no HDF5 mapping for column type %q", c.TypeID())
	}
}

// appendRow materializes the packed row image from the columns' current
// values and writes it as one new element at the end of the dataset.
func (rc *rowCodec) appendRow() error {
	for i := range rc.buf {
		rc.buf[i] = 0
	}
	cols := rc.table.Columns()
	for i, c := range cols {
		pos := rc.layout.colpos[i]
		c.CopyTo(rc.buf[pos : pos+c.Size()])
	}

	n, err := rc.dataset.Extent()
	if err != nil {
		return err
	}
	if err := rc.dataset.SetExtent(n + 1); err != nil {
		return err
	}
	return rc.dataset.WriteSlab(n, rc.ctype, rc.buf)
}

// close releases the dataset and element type handles.
func (rc *rowCodec) close() error {
	var first error
	if rc.dataset != nil {
		first = rc.dataset.Close()
		rc.dataset = nil
	}
	if rc.ctype != nil {
		if err := rc.ctype.Close(); err != nil && first == nil {
			first = err
		}
		rc.ctype = nil
	}
	return first
}
