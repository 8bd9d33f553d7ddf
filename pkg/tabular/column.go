package tabular

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// TypeID identifies the scalar type of a column.
type TypeID int

// The supported column types. The binary image of each is its native
// in-memory representation; strings are fixed-capacity, NUL-terminated.
const (
	TypeBool TypeID = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString
)

var typeNames = [...]string{
	"bool", "int8", "int16", "int32", "int64",
	"uint8", "uint16", "uint32", "uint64",
	"float32", "float64", "string",
}

// String returns the Go name of the column type.
func (t TypeID) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Arithmetic reports whether the type is numeric (strings are not).
func (t TypeID) Arithmetic() bool { return t != TypeString }

// Column is a typed leaf in the table hierarchy. At any time a column
// holds a value of its type; when a row is emitted every bound sink
// reads the columns' current values.
type Column interface {
	Item

	// Format returns the printf-style format used by text sinks.
	Format() string
	// TypeID returns the column's scalar type.
	TypeID() TypeID
	// Size returns the byte size of the column's binary image.
	Size() int
	// Align returns the alignment of the column's binary image.
	Align() int
	// Arithmetic reports whether the column type is numeric.
	Arithmetic() bool

	// Emit writes the current value to w using the column format.
	Emit(w io.Writer) error
	// CopyTo writes the Size-byte binary image of the current value
	// into dst.
	CopyTo(dst []byte)

	// SetFloat coerces and stores an arithmetic value. Fails on
	// non-arithmetic and read-only columns.
	SetFloat(v float64) error
	// SetString stores a string value, truncated to the column
	// capacity. Fails on non-string columns.
	SetString(v string) error
}

// columnBase carries the metadata common to all leaf columns.
type columnBase struct {
	itemBase
	format string
	typ    TypeID
	size   int
	align  int
}

func (c *columnBase) initColumn(parent *Group, name, format string, typ TypeID, size, align int) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "column items cannot have an empty name")
	}
	c.name = name
	c.format = format
	c.typ = typ
	c.size = size
	c.align = align
	if parent != nil {
		return parent.AddItem(c.self)
	}
	return nil
}

// Format returns the printf-style format used by text sinks.
func (c *columnBase) Format() string { return c.format }

// TypeID returns the column's scalar type.
func (c *columnBase) TypeID() TypeID { return c.typ }

// Size returns the byte size of the column's binary image.
func (c *columnBase) Size() int { return c.size }

// Align returns the alignment of the column's binary image.
func (c *columnBase) Align() int { return c.align }

// Arithmetic reports whether the column type is numeric.
func (c *columnBase) Arithmetic() bool { return c.typ.Arithmetic() }

func (c *columnBase) IsColumn() bool { return true }

// SetFloat fails unless overridden by a writable arithmetic column.
func (c *columnBase) SetFloat(float64) error {
	return errors.Newf(errors.ErrorTypeType,
		"wrong column type: %q does not accept arithmetic values", c.name)
}

// SetString fails unless overridden by a writable string column.
func (c *columnBase) SetString(string) error {
	return errors.Newf(errors.ErrorTypeType,
		"wrong column type: %q does not accept string values", c.name)
}

// Number is the set of scalar types a numeric column can hold.
type Number interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// scalarInfo returns the type tag, size and alignment for T.
func scalarInfo[T Number]() (TypeID, int, int) {
	switch any(T(0)).(type) {
	case int8:
		return TypeInt8, 1, 1
	case int16:
		return TypeInt16, 2, 2
	case int32:
		return TypeInt32, 4, 4
	case int64:
		return TypeInt64, 8, 8
	case uint8:
		return TypeUint8, 1, 1
	case uint16:
		return TypeUint16, 2, 2
	case uint32:
		return TypeUint32, 4, 4
	case uint64:
		return TypeUint64, 8, 8
	case float32:
		return TypeFloat32, 4, 4
	default:
		return TypeFloat64, 8, 8
	}
}

// putScalar writes the native binary image of v into dst.
func putScalar[T Number](dst []byte, v T) {
	switch n := any(v).(type) {
	case int8:
		dst[0] = byte(n)
	case int16:
		binary.NativeEndian.PutUint16(dst, uint16(n))
	case int32:
		binary.NativeEndian.PutUint32(dst, uint32(n))
	case int64:
		binary.NativeEndian.PutUint64(dst, uint64(n))
	case uint8:
		dst[0] = n
	case uint16:
		binary.NativeEndian.PutUint16(dst, n)
	case uint32:
		binary.NativeEndian.PutUint32(dst, n)
	case uint64:
		binary.NativeEndian.PutUint64(dst, n)
	case float32:
		binary.NativeEndian.PutUint32(dst, math.Float32bits(n))
	case float64:
		binary.NativeEndian.PutUint64(dst, math.Float64bits(n))
	}
}

// Scalar is a numeric column that stores its current value inline.
type Scalar[T Number] struct {
	columnBase
	val T
}

// NewScalar creates a numeric column, optionally attached to a parent.
func NewScalar[T Number](parent *Group, name, format string) (*Scalar[T], error) {
	c := &Scalar[T]{}
	c.self = c
	typ, size, align := scalarInfo[T]()
	if err := c.initColumn(parent, name, format, typ, size, align); err != nil {
		return nil, err
	}
	return c, nil
}

// Value returns the current column value.
func (c *Scalar[T]) Value() T { return c.val }

// SetValue stores a new column value.
func (c *Scalar[T]) SetValue(v T) { c.val = v }

// Emit writes the current value to w using the column format.
func (c *Scalar[T]) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, c.val)
	return err
}

// CopyTo writes the native binary image of the current value into dst.
func (c *Scalar[T]) CopyTo(dst []byte) { putScalar(dst, c.val) }

// SetFloat coerces v to the column type and stores it.
func (c *Scalar[T]) SetFloat(v float64) error {
	c.val = T(v)
	return nil
}

// BoolColumn is a boolean column. Its binary image is a single byte,
// zero or one.
type BoolColumn struct {
	columnBase
	val bool
}

// NewBool creates a boolean column, optionally attached to a parent.
// The format should be a verb accepting a bool, such as "%v".
func NewBool(parent *Group, name, format string) (*BoolColumn, error) {
	c := &BoolColumn{}
	c.self = c
	if err := c.initColumn(parent, name, format, TypeBool, 1, 1); err != nil {
		return nil, err
	}
	return c, nil
}

// Value returns the current column value.
func (c *BoolColumn) Value() bool { return c.val }

// SetValue stores a new column value.
func (c *BoolColumn) SetValue(v bool) { c.val = v }

// Emit writes the current value to w using the column format.
func (c *BoolColumn) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, c.val)
	return err
}

// CopyTo writes a single 0/1 byte into dst.
func (c *BoolColumn) CopyTo(dst []byte) {
	if c.val {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

// SetFloat stores true for any non-zero value.
func (c *BoolColumn) SetFloat(v float64) error {
	c.val = v != 0
	return nil
}

// StringColumn is a fixed-capacity string column. Its binary image is
// maxLen+1 bytes, NUL-terminated; the final byte is always zero.
type StringColumn struct {
	columnBase
	maxLen int
	val    string
}

// NewString creates a string column with the given capacity, optionally
// attached to a parent.
func NewString(parent *Group, name string, maxLen int, format string) (*StringColumn, error) {
	if maxLen <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"string column %q needs a positive capacity", name)
	}
	c := &StringColumn{maxLen: maxLen}
	c.self = c
	if err := c.initColumn(parent, name, format, TypeString, maxLen+1, 1); err != nil {
		return nil, err
	}
	return c, nil
}

// MaxLen returns the column capacity in bytes.
func (c *StringColumn) MaxLen() int { return c.maxLen }

// Value returns the current column value.
func (c *StringColumn) Value() string { return c.val }

// SetValue stores a new value, truncated to the column capacity.
func (c *StringColumn) SetValue(v string) {
	if len(v) > c.maxLen {
		v = v[:c.maxLen]
	}
	c.val = v
}

// Emit writes the current value to w using the column format.
func (c *StringColumn) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, c.val)
	return err
}

// CopyTo writes the NUL-terminated image of the current value into dst.
func (c *StringColumn) CopyTo(dst []byte) { copyStringImage(dst, c.val, c.maxLen) }

// SetString stores a new value, truncated to the column capacity.
func (c *StringColumn) SetString(v string) error {
	c.SetValue(v)
	return nil
}

func copyStringImage(dst []byte, v string, maxLen int) {
	n := copy(dst[:maxLen], v)
	for i := n; i <= maxLen; i++ {
		dst[i] = 0
	}
}
