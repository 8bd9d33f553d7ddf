// Package tabula provides an in-process tabular output library for
// simulation and measurement code: hierarchically structured tables of
// typed scalar columns, bound to one or more output sinks, streaming
// rows into all bound sinks synchronously.
//
// # Architecture
//
// Tabula is organized around four pieces:
//
// 1. Column graph (pkg/tabular): groups containing groups and typed
// leaf columns, with name resolution, lazy repair of deletion
// tombstones, and pre-order visitation.
//
// 2. Lifecycle protocol (pkg/tabular): Prolog freezes a table's schema
// and initializes every bound sink, EmitRow dispatches the current
// column values, Epilog unlocks.
//
// 3. Sinks (pkg/sinks): CSV text streams with optional compression
// (pkg/sinks/text) and HDF5 compound-type datasets with chunked
// extendible storage (pkg/sinks/hdf5), instantiated directly or from
// URLs like "hdf5:out.h5?open_mode=append".
//
// 4. Row codec (pkg/sinks/hdf5): the struct-of-columns layout (field
// offsets, alignment, total size) computed from the column graph and
// materialized as a packed row image per emission.
//
// # Quick Start
//
// Stream a time series into an HDF5 file:
//
//	import (
//	    "github.com/ajitpratap0/tabula/pkg/sinks"
//	    "github.com/ajitpratap0/tabula/pkg/tabular"
//	)
//
//	ts, _ := tabular.NewTimeSeries("metrics", "%d", clock)
//	lat, _ := tabular.NewRef(&ts.Group, "latency", "%g", &latency)
//
//	sink, _ := sinks.Open("hdf5:metrics.h5")
//	ts.Bind(sink)
//
//	ts.Prolog()
//	for running() {
//	    ts.EmitRow()
//	}
//	ts.Epilog()
//	sinks.Release(sink)
//
// The library is single-threaded by contract; see pkg/tabular for the
// exact ordering and locking guarantees.
package tabula
