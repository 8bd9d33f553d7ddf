package hdf5_test

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	h5 "github.com/ajitpratap0/tabula/internal/hdf5"
	"github.com/ajitpratap0/tabula/pkg/errors"
	hdf5sink "github.com/ajitpratap0/tabula/pkg/sinks/hdf5"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// readRows reopens the file and returns the dataset's raw rows using
// its stored element type.
func readRows(t *testing.T, path, name string, rowSize int) ([]byte, int) {
	t.Helper()
	f, err := h5.OpenFileRW(path)
	require.NoError(t, err)
	defer f.Close()
	loc, err := f.Root()
	require.NoError(t, err)
	defer loc.Close()
	ds, err := loc.OpenDataset(name)
	require.NoError(t, err)
	defer ds.Close()
	dt, err := ds.Datatype()
	require.NoError(t, err)
	defer dt.Close()
	buf, n, err := ds.ReadAll(dt, rowSize)
	require.NoError(t, err)
	return buf, n
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	tab, err := tabular.NewTableIn(tabular.NewRegistry(), "points", tabular.FlavorResults)
	require.NoError(t, err)
	a, err := tabular.NewScalar[int32](&tab.Group, "a", "%d")
	require.NoError(t, err)
	b, err := tabular.NewScalar[float64](&tab.Group, "b", "%g")
	require.NoError(t, err)

	sink, err := hdf5sink.Open(path, tabular.OpenTruncate)
	require.NoError(t, err)
	_, err = tab.Bind(sink)
	require.NoError(t, err)

	const nRows = 40 // spans several chunks
	require.NoError(t, tab.Prolog())
	for i := 0; i < nRows; i++ {
		a.SetValue(int32(i))
		b.SetValue(float64(i) / 2)
		require.NoError(t, tab.EmitRow())
	}
	require.NoError(t, tab.Epilog())
	require.NoError(t, sink.Close())

	// Row layout: a at 0, b aligned to 8, 16 bytes total.
	const rowSize = 16
	buf, n := readRows(t, path, "points", rowSize)
	require.Equal(t, nRows, n)
	for i := 0; i < nRows; i++ {
		row := buf[i*rowSize:]
		assert.Equal(t, int32(i), int32(binary.NativeEndian.Uint32(row[0:])))
		assert.Equal(t, float64(i)/2, math.Float64frombits(binary.NativeEndian.Uint64(row[8:])))
	}
}

func TestStringColumnRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	tab, err := tabular.NewTableIn(tabular.NewRegistry(), "named", tabular.FlavorResults)
	require.NoError(t, err)
	id, err := tabular.NewScalar[uint16](&tab.Group, "id", "%d")
	require.NoError(t, err)
	name, err := tabular.NewString(&tab.Group, "name", 7, "%s")
	require.NoError(t, err)

	sink, err := hdf5sink.Open(path, tabular.OpenTruncate)
	require.NoError(t, err)
	_, err = tab.Bind(sink)
	require.NoError(t, err)

	require.NoError(t, tab.Prolog())
	id.SetValue(9)
	name.SetValue("tabula")
	require.NoError(t, tab.EmitRow())
	require.NoError(t, tab.Epilog())
	require.NoError(t, sink.Close())

	// id at 0 (2 bytes), 8-byte string image right after, row size 10.
	const rowSize = 10
	buf, n := readRows(t, path, "named", rowSize)
	require.Equal(t, 1, n)
	assert.Equal(t, uint16(9), binary.NativeEndian.Uint16(buf[0:]))
	assert.Equal(t, []byte{'t', 'a', 'b', 'u', 'l', 'a', 0, 0}, buf[2:10])
}

func TestTruncateReplacesDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	write := func(rows int) {
		tab, err := tabular.NewTableIn(tabular.NewRegistry(), "tr", tabular.FlavorResults)
		require.NoError(t, err)
		x, err := tabular.NewScalar[int64](&tab.Group, "x", "%d")
		require.NoError(t, err)
		sink, err := hdf5sink.Open(path, tabular.OpenTruncate)
		require.NoError(t, err)
		_, err = tab.Bind(sink)
		require.NoError(t, err)
		require.NoError(t, tab.Prolog())
		for i := 0; i < rows; i++ {
			x.SetValue(int64(i))
			require.NoError(t, tab.EmitRow())
		}
		require.NoError(t, tab.Epilog())
		require.NoError(t, sink.Close())
	}

	write(5)
	write(2)

	_, n := readRows(t, path, "tr", 8)
	assert.Equal(t, 2, n)
}

func TestAppendExtendsDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	write := func(mode tabular.OpenMode, vals []int64) {
		tab, err := tabular.NewTableIn(tabular.NewRegistry(), "app", tabular.FlavorResults)
		require.NoError(t, err)
		x, err := tabular.NewScalar[int64](&tab.Group, "x", "%d")
		require.NoError(t, err)
		sink, err := hdf5sink.Open(path, mode)
		require.NoError(t, err)
		_, err = tab.Bind(sink)
		require.NoError(t, err)
		require.NoError(t, tab.Prolog())
		for _, v := range vals {
			x.SetValue(v)
			require.NoError(t, tab.EmitRow())
		}
		require.NoError(t, tab.Epilog())
		require.NoError(t, sink.Close())
	}

	write(tabular.OpenTruncate, []int64{1, 2})
	write(tabular.OpenAppend, []int64{3})

	buf, n := readRows(t, path, "app", 8)
	require.Equal(t, 3, n)
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, int64(binary.NativeEndian.Uint64(buf[i*8:])))
	}
}

func TestAppendTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	// First definition: {a: int32, b: float64}.
	tab, err := tabular.NewTableIn(tabular.NewRegistry(), "T", tabular.FlavorResults)
	require.NoError(t, err)
	_, err = tabular.NewScalar[int32](&tab.Group, "a", "%d")
	require.NoError(t, err)
	_, err = tabular.NewScalar[float64](&tab.Group, "b", "%g")
	require.NoError(t, err)

	sink, err := hdf5sink.Open(path, tabular.OpenTruncate)
	require.NoError(t, err)
	_, err = tab.Bind(sink)
	require.NoError(t, err)
	require.NoError(t, tab.Prolog())
	require.NoError(t, tab.EmitRow())
	require.NoError(t, tab.Epilog())
	require.NoError(t, sink.Close())

	// Redefined with b: float32; appending must fail on the type check.
	tab2, err := tabular.NewTableIn(tabular.NewRegistry(), "T", tabular.FlavorResults)
	require.NoError(t, err)
	_, err = tabular.NewScalar[int32](&tab2.Group, "a", "%d")
	require.NoError(t, err)
	_, err = tabular.NewScalar[float32](&tab2.Group, "b", "%g")
	require.NoError(t, err)

	sink2, err := hdf5sink.Open(path, tabular.OpenAppend)
	require.NoError(t, err)
	_, err = tab2.Bind(sink2)
	require.NoError(t, err)

	err = tab2.Prolog()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))
	require.NoError(t, sink2.Close())
}

func TestComputedTimeSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h5")

	n := float64(0)
	ts, err := tabular.NewTimeSeries("hdf5_ts", "%g", func() float64 {
		n++
		return n - 1
	})
	require.NoError(t, err)
	defer ts.Close()

	sink, err := hdf5sink.Open(path, tabular.OpenTruncate)
	require.NoError(t, err)
	_, err = ts.Bind(sink)
	require.NoError(t, err)

	require.NoError(t, ts.Prolog())
	for i := 0; i < 10; i++ {
		require.NoError(t, ts.EmitRow())
	}
	require.NoError(t, ts.Epilog())
	require.NoError(t, sink.Close())

	buf, rows := readRows(t, path, "hdf5_ts", 8)
	require.Equal(t, 10, rows)
	for i := 0; i < 10; i++ {
		assert.Equal(t, float64(i), math.Float64frombits(binary.NativeEndian.Uint64(buf[i*8:])))
	}
}
