package tabular_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

func emit(t *testing.T, c tabular.Column) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Emit(&buf))
	return buf.String()
}

func TestScalarColumn(t *testing.T) {
	c, err := tabular.NewScalar[int32](nil, "x", "%d")
	require.NoError(t, err)

	assert.Equal(t, tabular.TypeInt32, c.TypeID())
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, 4, c.Align())
	assert.True(t, c.Arithmetic())

	c.SetValue(-7)
	assert.Equal(t, int32(-7), c.Value())
	assert.Equal(t, "-7", emit(t, c))

	buf := make([]byte, 4)
	c.CopyTo(buf)
	assert.Equal(t, int32(-7), int32(binary.NativeEndian.Uint32(buf)))

	require.NoError(t, c.SetFloat(42.9))
	assert.Equal(t, int32(42), c.Value())

	err = c.SetString("nope")
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))
}

func TestFloatColumn(t *testing.T) {
	c, err := tabular.NewScalar[float64](nil, "z", "%.3f")
	require.NoError(t, err)

	c.SetValue(1.5)
	assert.Equal(t, "1.500", emit(t, c))

	buf := make([]byte, 8)
	c.CopyTo(buf)
	assert.Equal(t, 1.5, math.Float64frombits(binary.NativeEndian.Uint64(buf)))
}

func TestBoolColumn(t *testing.T) {
	c, err := tabular.NewBool(nil, "flag", "%v")
	require.NoError(t, err)

	assert.Equal(t, tabular.TypeBool, c.TypeID())
	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Arithmetic())

	buf := []byte{0xff}
	c.CopyTo(buf)
	assert.Equal(t, byte(0), buf[0])

	require.NoError(t, c.SetFloat(2))
	assert.True(t, c.Value())
	c.CopyTo(buf)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, "true", emit(t, c))
}

func TestStringColumn(t *testing.T) {
	c, err := tabular.NewString(nil, "name", 8, "%s")
	require.NoError(t, err)

	assert.Equal(t, tabular.TypeString, c.TypeID())
	assert.Equal(t, 9, c.Size())
	assert.Equal(t, 1, c.Align())
	assert.False(t, c.Arithmetic())

	require.NoError(t, c.SetString("short"))
	assert.Equal(t, "short", c.Value())
	assert.Equal(t, "short", emit(t, c))

	// Values are truncated to the capacity.
	require.NoError(t, c.SetString("far too long a value"))
	assert.Equal(t, "far too ", c.Value())

	// The binary image is maxLen+1 bytes, NUL terminated.
	buf := bytes.Repeat([]byte{0xaa}, 9)
	c.SetValue("ab")
	c.CopyTo(buf)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 0, 0, 0}, buf)

	err = c.SetFloat(1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))
}

func TestStringColumnCapacity(t *testing.T) {
	_, err := tabular.NewString(nil, "bad", 0, "%s")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestComputedColumn(t *testing.T) {
	n := int64(0)
	c, err := tabular.NewComputed(nil, "now", "%d", func() int64 {
		n++
		return n - 1
	})
	require.NoError(t, err)

	assert.Equal(t, tabular.TypeInt64, c.TypeID())
	assert.Equal(t, int64(0), c.Value())
	assert.Equal(t, "1", emit(t, c))

	buf := make([]byte, 8)
	c.CopyTo(buf)
	assert.Equal(t, uint64(2), binary.NativeEndian.Uint64(buf))

	// Computed columns are read-only.
	err = c.SetFloat(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))
}

func TestRefColumn(t *testing.T) {
	v := 3.25
	c, err := tabular.NewRef(nil, "trace", "%g", &v)
	require.NoError(t, err)

	assert.Equal(t, "3.25", emit(t, c))
	v = -1
	assert.Equal(t, float64(-1), c.Value())

	buf := make([]byte, 8)
	c.CopyTo(buf)
	assert.Equal(t, float64(-1), math.Float64frombits(binary.NativeEndian.Uint64(buf)))

	err = c.SetFloat(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeType))
}

func TestStringRefColumn(t *testing.T) {
	s := "alpha"
	c, err := tabular.NewStringRef(nil, "phase", 4, "%s", &s)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Size())
	assert.Equal(t, "alpha", emit(t, c))

	buf := bytes.Repeat([]byte{0xaa}, 5)
	c.CopyTo(buf)
	assert.Equal(t, []byte{'a', 'l', 'p', 'h', 0}, buf)
}

func TestTypeIDNames(t *testing.T) {
	assert.Equal(t, "bool", tabular.TypeBool.String())
	assert.Equal(t, "float64", tabular.TypeFloat64.String())
	assert.Equal(t, "string", tabular.TypeString.String())
	assert.False(t, tabular.TypeString.Arithmetic())
	assert.True(t, tabular.TypeUint16.Arithmetic())
}
