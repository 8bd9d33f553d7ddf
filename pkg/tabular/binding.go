package tabular

import "container/list"

// Binding links one sink with one table. Bindings form a bipartite
// many-to-many graph; each binding holds its own element in both
// endpoint lists so that teardown removes it from both sides in O(1).
//
// A disabled binding is skipped by EmitRow but still receives prolog
// and epilog callbacks.
type Binding struct {
	Sink  Sink
	Table *Table

	// Enabled gates row dispatch through this binding.
	Enabled bool

	inSink  *list.Element
	inTable *list.Element
}

func newBinding(s Sink, t *Table) *Binding {
	b := &Binding{Sink: s, Table: t, Enabled: true}
	b.inSink = s.base().tables.PushBack(b)
	b.inTable = t.bindings.PushBack(b)
	return b
}

// destroy removes the binding from both endpoint lists.
func (b *Binding) destroy() {
	b.Sink.base().tables.Remove(b.inSink)
	b.Table.bindings.Remove(b.inTable)
}

func findBySink(l *list.List, s Sink) *Binding {
	for e := l.Front(); e != nil; e = e.Next() {
		if b := e.Value.(*Binding); b.Sink == s {
			return b
		}
	}
	return nil
}

func findByTable(l *list.List, t *Table) *Binding {
	for e := l.Front(); e != nil; e = e.Next() {
		if b := e.Value.(*Binding); b.Table == t {
			return b
		}
	}
	return nil
}

// unbindAll destroys bindings from the head until the list is empty.
// Safe because destroy re-enters both endpoints to remove itself.
func unbindAll(l *list.List) {
	for l.Len() > 0 {
		l.Front().Value.(*Binding).destroy()
	}
}

func snapshot(l *list.List) []*Binding {
	out := make([]*Binding, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Binding))
	}
	return out
}
