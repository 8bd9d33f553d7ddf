package tabular

import "container/list"

// OpenMode selects truncate or append behavior when a sink opens its
// backing store.
type OpenMode int

const (
	// OpenTruncate discards existing data.
	OpenTruncate OpenMode = iota
	// OpenAppend extends existing data.
	OpenAppend
)

// DefaultOpenMode is used when a sink URL carries no open_mode key.
const DefaultOpenMode = OpenTruncate

// String returns the URL spelling of the mode.
func (m OpenMode) String() string {
	if m == OpenAppend {
		return "append"
	}
	return "truncate"
}

// Sink is an output endpoint receiving table lifecycle callbacks. Sinks
// may hold per-table state between prolog and epilog, and must tolerate
// being closed while bound (closing unbinds all tables).
//
// Implementations embed SinkBase, which carries the binding list.
type Sink interface {
	// OutputProlog prepares the sink for rows from t.
	OutputProlog(t *Table) error
	// OutputRow writes one row assembled from t's current column values.
	OutputRow(t *Table) error
	// OutputEpilog concludes the output session for t.
	OutputEpilog(t *Table) error

	base() *SinkBase
}

// SinkBase holds the sink side of the binding registry. Embed it in
// every Sink implementation.
type SinkBase struct {
	tables *list.List
}

func (b *SinkBase) base() *SinkBase {
	if b.tables == nil {
		b.tables = list.New()
	}
	return b
}

// Bindings returns the sink's bindings in insertion order.
func (b *SinkBase) Bindings() []*Binding { return snapshot(b.base().tables) }

// Binding returns the sink's binding to t, or nil.
func (b *SinkBase) Binding(t *Table) *Binding { return findByTable(b.base().tables, t) }

// UnbindAll detaches the sink from every bound table.
func (b *SinkBase) UnbindAll() { unbindAll(b.base().tables) }

// Bind binds a sink to a table. Binding is idempotent: an existing
// binding is returned unchanged. Fails while the table is locked.
func Bind(s Sink, t *Table) (*Binding, error) {
	return t.Bind(s)
}

// Unbind removes the binding between s and t, reporting whether one
// existed. Fails while the table is locked.
func Unbind(s Sink, t *Table) (bool, error) {
	return t.Unbind(s)
}
