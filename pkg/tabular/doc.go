// Package tabular implements a hierarchically structured table model for
// streaming rows of typed scalar columns into output sinks.
//
// # Overview
//
// A Table is a tree of named items: groups containing groups and typed
// leaf columns. Tables are bound to one or more sinks (text streams,
// HDF5 files) and stream rows into all bound sinks synchronously:
//
//	tab, _ := tabular.NewTable("results", tabular.FlavorResults)
//	x, _ := tabular.NewScalar[int32](&tab.Group, "x", "%d")
//	y, _ := tabular.NewScalar[float64](&tab.Group, "y", "%g")
//
//	tab.Bind(sink)
//	tab.Prolog()
//	for i := 0; i < n; i++ {
//		x.SetValue(int32(i))
//		y.SetValue(compute(i))
//		tab.EmitRow()
//	}
//	tab.Epilog()
//
// # Lifecycle
//
// Prolog freezes the schema (the table is "locked"), initializes every
// bound sink, and caches the flat column vector. While locked, no
// structural mutation is permitted: items cannot be added or removed and
// sinks cannot be bound or unbound. Epilog unlocks the table and closes
// the per-table sink state; the cycle may repeat.
//
// # Concurrency
//
// The core is single-threaded by contract. Only the table name registry
// is guarded; callers driving one table from several goroutines must
// serialize externally.
package tabular
