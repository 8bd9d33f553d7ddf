package tabular

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Computed is a numeric column whose value is produced by a nullary
// function at every read. It is the mechanism time-series tables use to
// sample clocks and counters; the column itself is read-only.
type Computed[T Number] struct {
	columnBase
	fn func() T
}

// NewComputed creates a computed column, optionally attached to a parent.
func NewComputed[T Number](parent *Group, name, format string, fn func() T) (*Computed[T], error) {
	if fn == nil {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"computed column %q needs a value function", name)
	}
	c := &Computed[T]{fn: fn}
	c.self = c
	typ, size, align := scalarInfo[T]()
	if err := c.initColumn(parent, name, format, typ, size, align); err != nil {
		return nil, err
	}
	return c, nil
}

// Value calls the column function and returns its result.
func (c *Computed[T]) Value() T { return c.fn() }

// Emit writes the current value to w using the column format.
func (c *Computed[T]) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, c.fn())
	return err
}

// CopyTo writes the native binary image of the current value into dst.
func (c *Computed[T]) CopyTo(dst []byte) { putScalar(dst, c.fn()) }

// Ref is a numeric column that borrows an external variable: reading
// the column returns the variable's current value. Like Computed it is
// read-only from the column's side, tracing live program state.
type Ref[T Number] struct {
	columnBase
	ptr *T
}

// NewRef creates a reference column over ptr, optionally attached to a
// parent.
func NewRef[T Number](parent *Group, name, format string, ptr *T) (*Ref[T], error) {
	if ptr == nil {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"reference column %q needs a variable", name)
	}
	c := &Ref[T]{ptr: ptr}
	c.self = c
	typ, size, align := scalarInfo[T]()
	if err := c.initColumn(parent, name, format, typ, size, align); err != nil {
		return nil, err
	}
	return c, nil
}

// Value returns the referenced variable's current value.
func (c *Ref[T]) Value() T { return *c.ptr }

// Emit writes the current value to w using the column format.
func (c *Ref[T]) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, *c.ptr)
	return err
}

// CopyTo writes the native binary image of the current value into dst.
func (c *Ref[T]) CopyTo(dst []byte) { putScalar(dst, *c.ptr) }

// StringRef is a fixed-capacity string column that borrows an external
// string variable.
type StringRef struct {
	columnBase
	maxLen int
	ptr    *string
}

// NewStringRef creates a string reference column over ptr with the
// given capacity, optionally attached to a parent.
func NewStringRef(parent *Group, name string, maxLen int, format string, ptr *string) (*StringRef, error) {
	if ptr == nil {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"reference column %q needs a variable", name)
	}
	if maxLen <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"string column %q needs a positive capacity", name)
	}
	c := &StringRef{maxLen: maxLen, ptr: ptr}
	c.self = c
	if err := c.initColumn(parent, name, format, TypeString, maxLen+1, 1); err != nil {
		return nil, err
	}
	return c, nil
}

// MaxLen returns the column capacity in bytes.
func (c *StringRef) MaxLen() int { return c.maxLen }

// Value returns the referenced variable's current value.
func (c *StringRef) Value() string { return *c.ptr }

// Emit writes the current value to w using the column format.
func (c *StringRef) Emit(w io.Writer) error {
	_, err := fmt.Fprintf(w, c.format, *c.ptr)
	return err
}

// CopyTo writes the NUL-terminated image of the current value into dst.
// Values longer than the capacity are truncated.
func (c *StringRef) CopyTo(dst []byte) { copyStringImage(dst, *c.ptr, c.maxLen) }
