package tabular

import (
	"sync"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Registry tracks live tables by their process-unique names. The
// default registry backs NewTable; tests can isolate tables by creating
// their own registry and using NewTableIn.
//
// Registry access is guarded; everything else in the package is
// single-threaded by contract.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Table
	tables map[*Table]struct{}
}

// NewRegistry creates an empty table registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Table),
		tables: make(map[*Table]struct{}),
	}
}

func (r *Registry) add(t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[t.Name()]; dup {
		return errors.Newf(errors.ErrorTypeConflict,
			"a table named %q is already registered", t.Name())
	}
	r.byName[t.Name()] = t
	r.tables[t] = struct{}{}
	return nil
}

func (r *Registry) remove(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byName[t.Name()] == t {
		delete(r.byName, t.Name())
	}
	delete(r.tables, t)
}

// Get returns the table registered under name, or nil.
func (r *Registry) Get(name string) *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// All returns every live table in the registry.
func (r *Registry) All() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Table, 0, len(r.tables))
	for t := range r.tables {
		out = append(out, t)
	}
	return out
}

// DefaultRegistry is the process-wide table registry.
var DefaultRegistry = NewRegistry()

// Get returns the table registered under name in the default registry.
func Get(name string) *Table { return DefaultRegistry.Get(name) }

// All returns every live table in the default registry.
func All() []*Table { return DefaultRegistry.All() }
