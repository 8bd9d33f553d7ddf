package tabular

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Schema describes a table's columns for external consumers.
type Schema struct {
	// Name is the table name.
	Name string `json:"name"`
	// Columns lists the leaf columns in pre-order.
	Columns []SchemaColumn `json:"columns"`
}

// SchemaColumn describes one leaf column.
type SchemaColumn struct {
	// Name is the slash-separated column path, excluding the table.
	Name string `json:"name"`
	// Path holds the path segments, excluding the table.
	Path []string `json:"path"`
	// Type is the Go name of the column's value type.
	Type string `json:"type"`
	// Arithmetic reports whether the column type is numeric.
	Arithmetic bool `json:"arithmetic"`
}

// Schema builds the table's schema description.
func (t *Table) Schema() *Schema {
	s := &Schema{
		Name:    t.Name(),
		Columns: make([]SchemaColumn, 0, t.Size()),
	}
	for _, c := range t.Columns() {
		var path []string
		for it := Item(c); it != t.self; it = it.Parent().item().self {
			path = append(path, it.Name())
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		s.Columns = append(s.Columns, SchemaColumn{
			Name:       c.PathName("/"),
			Path:       path,
			Type:       c.TypeID().String(),
			Arithmetic: c.Arithmetic(),
		})
	}
	return s
}

// GenerateSchema writes the table's schema as an indented JSON object.
func (t *Table) GenerateSchema(w io.Writer) error {
	buf, err := json.MarshalIndent(t.Schema(), "", "\t")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "encoding table schema")
	}
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing table schema")
	}
	return nil
}
