package tabular

import (
	"strings"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Item is a node in the hierarchy of columns: a group, a typed column,
// or a table. Items carry a name, unique among live siblings, and a
// non-owning back-reference to their parent group.
//
// The implementation set is closed; concrete items are built from the
// package's constructors.
type Item interface {
	// Name returns the item name.
	Name() string

	// Parent returns the parent group, or nil for detached items and
	// table roots.
	Parent() *Group

	// Index returns the item's position among its siblings.
	Index() int

	// Table returns the table that owns this item, or nil if the item
	// is not rooted under a table.
	Table() *Table

	// PathName joins the names of all ancestors strictly below the
	// owning table with the item's own name. For items not owned by a
	// table the root group is included.
	PathName(sep string) string

	// Visit calls fn on this item and every live descendant in
	// pre-order. Removal during visitation is not supported.
	Visit(fn func(Item))

	// IsColumn reports whether the item is a leaf column.
	IsColumn() bool
	// IsGroup reports whether the item is a group (but not a table).
	IsGroup() bool
	// IsTable reports whether the item is a table.
	IsTable() bool

	item() *itemBase
}

// itemBase carries the state common to every node. The self field holds
// the concrete item so that promoted methods observe the outer type.
type itemBase struct {
	name   string
	parent *Group
	index  int
	self   Item
}

func (b *itemBase) item() *itemBase { return b }

// Name returns the item name.
func (b *itemBase) Name() string { return b.name }

// Parent returns the parent group, or nil.
func (b *itemBase) Parent() *Group { return b.parent }

// Index returns the item's position among its siblings.
func (b *itemBase) Index() int { return b.index }

// Table returns the owning table, or nil.
func (b *itemBase) Table() *Table {
	if b.parent == nil {
		return nil
	}
	return b.parent.Table()
}

// Visit calls fn on the item itself. Groups override this to recurse.
func (b *itemBase) Visit(fn func(Item)) { fn(b.self) }

func (b *itemBase) IsColumn() bool { return false }
func (b *itemBase) IsGroup() bool  { return false }
func (b *itemBase) IsTable() bool  { return false }

// PathName joins ancestor names below the owning table with sep.
func (b *itemBase) PathName(sep string) string {
	var names []string
	it := b.self
	for {
		names = append(names, it.Name())
		p := it.item().parent
		if p == nil || p.IsTable() {
			break
		}
		it = p.self
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, sep)
}

// Path is PathName with the default "/" separator.
func (b *itemBase) Path() string { return b.PathName("/") }

// checkUnlocked fails when the item belongs to a locked table.
func (b *itemBase) checkUnlocked() error {
	if t := b.self.Table(); t != nil && t.locked {
		return errors.Newf(errors.ErrorTypeLocked,
			"cannot modify item %q owned by locked table %q", b.name, t.Name())
	}
	return nil
}
