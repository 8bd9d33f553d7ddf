package tabular

import (
	"container/list"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Flavor classifies a table's use. Sinks may specialize presentation on
// it; the lifecycle protocol is identical for both flavors.
type Flavor int

const (
	// FlavorResults marks an end-of-run summary table.
	FlavorResults Flavor = iota
	// FlavorTimeseries marks a table of data collected during a run.
	FlavorTimeseries
)

// String returns the flavor name.
func (f Flavor) String() string {
	if f == FlavorTimeseries {
		return "timeseries"
	}
	return "results"
}

// Table is a root group with a flavor, a lock state and a set of sink
// bindings. Columns are added during a preparation phase; Prolog
// freezes the schema and initializes every bound sink, EmitRow streams
// the current column values into all enabled bindings, and Epilog
// unlocks the table again.
type Table struct {
	Group

	flavor  Flavor
	enabled bool
	locked  bool

	bindings *list.List

	columns      []Column
	columnsDirty bool

	registry *Registry
}

// NewTable creates a table and registers it by name in the default
// registry. Creation fails if a table of the same name is live.
func NewTable(name string, flavor Flavor) (*Table, error) {
	return NewTableIn(DefaultRegistry, name, flavor)
}

// NewTableIn creates a table registered in reg.
func NewTableIn(reg *Registry, name string, flavor Flavor) (*Table, error) {
	t := &Table{
		flavor:   flavor,
		enabled:  true,
		bindings: list.New(),
		registry: reg,
	}
	if err := t.Group.init(nil, name); err != nil {
		return nil, err
	}
	t.Group.self = t
	t.Group.tab = t
	if err := reg.add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// NewResults creates a RESULTS table and adds the given items.
func NewResults(name string, items ...Item) (*Table, error) {
	t, err := NewTable(name, FlavorResults)
	if err != nil {
		return nil, err
	}
	if err := t.Add(items...); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Close unbinds the table from every sink and removes it from its
// registry. The table must not be used afterwards.
func (t *Table) Close() error {
	t.locked = false
	unbindAll(t.bindings)
	t.registry.remove(t)
	return nil
}

// Flavor returns the table flavor.
func (t *Table) Flavor() Flavor { return t.flavor }

// Locked reports whether the table is between Prolog and Epilog.
func (t *Table) Locked() bool { return t.locked }

// Enabled reports whether EmitRow dispatches rows.
func (t *Table) Enabled() bool { return t.enabled }

// SetEnabled sets the enabled flag. A disabled table emits no data even
// when EmitRow is called.
func (t *Table) SetEnabled(enabled bool) { t.enabled = enabled }

// refresh compacts the hierarchy and rebuilds the flat column vector in
// pre-order depth-first.
func (t *Table) refresh() {
	if t.dirty {
		t.columnsDirty = true
		t.Group.cleanup()
	}
	if t.columnsDirty {
		t.columns = t.columns[:0]
		t.Visit(func(it Item) {
			if c, ok := it.(Column); ok {
				t.columns = append(t.columns, c)
			}
		})
		t.columnsDirty = false
	}
}

// Size returns the number of leaf columns in the table.
func (t *Table) Size() int {
	t.refresh()
	return len(t.columns)
}

// ColumnAt returns the i-th column in pre-order.
func (t *Table) ColumnAt(i int) Column {
	t.refresh()
	return t.columns[i]
}

// ColumnByName resolves a "/"-separated path to a leaf column.
func (t *Table) ColumnByName(path string) (Column, error) {
	it, err := t.GetItem(path)
	if err != nil {
		return nil, err
	}
	c, ok := it.(Column)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"item %q is not a column", path)
	}
	return c, nil
}

// Columns returns the flat column vector. The returned slice is owned
// by the table and must not be mutated.
func (t *Table) Columns() []Column {
	t.refresh()
	return t.columns
}

// Bind binds the table to a sink. Binding is idempotent: an existing
// binding is returned unchanged. Fails while the table is locked.
func (t *Table) Bind(s Sink) (*Binding, error) {
	if err := t.checkUnlocked(); err != nil {
		return nil, err
	}
	if b := findBySink(t.bindings, s); b != nil {
		return b, nil
	}
	return newBinding(s, t), nil
}

// Unbind removes the binding to s, reporting whether one existed.
// Fails while the table is locked.
func (t *Table) Unbind(s Sink) (bool, error) {
	if err := t.checkUnlocked(); err != nil {
		return false, err
	}
	b := findBySink(t.bindings, s)
	if b == nil {
		return false, nil
	}
	b.destroy()
	return true, nil
}

// UnbindAll removes every binding. Fails while the table is locked.
func (t *Table) UnbindAll() error {
	if err := t.checkUnlocked(); err != nil {
		return err
	}
	unbindAll(t.bindings)
	return nil
}

// Bindings returns the table's bindings in insertion order.
func (t *Table) Bindings() []*Binding { return snapshot(t.bindings) }

// Prolog puts the table into output mode: the hierarchy is compacted,
// every bound sink is initialized (enabled or not), and the table
// locks. Must be called after all columns are added and sinks bound.
func (t *Table) Prolog() error {
	t.refresh()
	for _, b := range t.Bindings() {
		if err := b.Sink.OutputProlog(t); err != nil {
			return err
		}
	}
	t.locked = true
	return nil
}

// EmitRow streams the current column values into every enabled binding,
// in binding-insertion order. With no sinks bound, or on a disabled
// table, it returns silently. Fails if Prolog has not been called.
func (t *Table) EmitRow() error {
	if t.bindings.Len() == 0 {
		return nil
	}
	if !t.locked {
		return errors.Newf(errors.ErrorTypeLocked,
			"Prolog has not been called on table %q before EmitRow", t.Name())
	}
	if !t.enabled {
		return nil
	}
	for _, b := range t.Bindings() {
		if !b.Enabled {
			continue
		}
		if err := b.Sink.OutputRow(t); err != nil {
			return err
		}
	}
	return nil
}

// Epilog takes the table out of output mode, unlocking it and
// concluding the session on every bound sink, enabled or not.
func (t *Table) Epilog() error {
	t.locked = false
	for _, b := range t.Bindings() {
		if err := b.Sink.OutputEpilog(t); err != nil {
			return err
		}
	}
	return nil
}

// TimeSeries is a TIMESERIES table whose first column samples the
// current stream time through a computed column.
type TimeSeries[T Number] struct {
	*Table

	// Now is the leading time column.
	Now *Computed[T]
}

// NewTimeSeries creates a time-series table whose "time" column calls
// now on every emission.
func NewTimeSeries[T Number](name, nowFormat string, now func() T) (*TimeSeries[T], error) {
	t, err := NewTable(name, FlavorTimeseries)
	if err != nil {
		return nil, err
	}
	c, err := NewComputed(&t.Group, "time", nowFormat, now)
	if err != nil {
		t.Close()
		return nil, err
	}
	return &TimeSeries[T]{Table: t, Now: c}, nil
}
