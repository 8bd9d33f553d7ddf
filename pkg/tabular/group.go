package tabular

import (
	"strings"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Group is an ordered named container of column items. Child removal
// writes a tombstone; the sequence is compacted lazily by cleanup, so
// surviving indices stay stable across traversals that do not cross a
// cleanup point.
type Group struct {
	itemBase

	children []Item
	names    map[string]Item

	// dirty signals that tombstones exist somewhere below this group.
	// Dirtiness propagates up to the root.
	dirty bool

	// tab is non-nil only on the root group embedded in a Table.
	tab *Table
}

// NewGroup creates a group, optionally attached to a parent, and adds
// the given items to it.
func NewGroup(parent *Group, name string, items ...Item) (*Group, error) {
	g := &Group{}
	if err := g.init(parent, name); err != nil {
		return nil, err
	}
	if err := g.Add(items...); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) init(parent *Group, name string) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "column items cannot have an empty name")
	}
	g.name = name
	g.self = g
	g.names = make(map[string]Item)
	if parent != nil {
		return parent.AddItem(g)
	}
	return nil
}

// Table returns the owning table, or the table itself when this group
// is a table root.
func (g *Group) Table() *Table {
	if g.tab != nil {
		return g.tab
	}
	return g.itemBase.Table()
}

// IsGroup reports whether this is a group but not a table.
func (g *Group) IsGroup() bool { return g.tab == nil }

// IsTable reports whether this group is a table root.
func (g *Group) IsTable() bool { return g.tab != nil }

// AddItem adds a column item to this group. The item must be detached
// and its name must not collide with a live sibling. Tables cannot be
// added as children.
func (g *Group) AddItem(it Item) error {
	if it.IsTable() {
		return errors.New(errors.ErrorTypeValidation, "cannot add a table to a group")
	}
	if err := g.checkUnlocked(); err != nil {
		return err
	}
	b := it.item()
	if b.parent != nil {
		return errors.Newf(errors.ErrorTypeValidation,
			"item %q is already owned by group %q", b.name, b.parent.Name())
	}
	if _, dup := g.names[b.name]; dup {
		return errors.Newf(errors.ErrorTypeValidation,
			"an item named %q already exists in group %q", b.name, g.name)
	}
	b.parent = g
	b.index = len(g.children)
	g.children = append(g.children, it)
	g.names[b.name] = it
	g.markDirtyColumns()
	return nil
}

// RemoveItem detaches a child item, leaving a tombstone in its slot.
func (g *Group) RemoveItem(it Item) error {
	if err := g.checkUnlocked(); err != nil {
		return err
	}
	b := it.item()
	if b.parent != g {
		return errors.Newf(errors.ErrorTypeValidation,
			"item %q is not owned by group %q", b.name, g.name)
	}
	g.children[b.index] = nil
	delete(g.names, b.name)
	b.parent = nil
	g.markDirty()
	return nil
}

// Add adds several items in order, stopping at the first failure.
func (g *Group) Add(items ...Item) error {
	for _, it := range items {
		if err := g.AddItem(it); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes several items in order, stopping at the first failure.
func (g *Group) Remove(items ...Item) error {
	for _, it := range items {
		if err := g.RemoveItem(it); err != nil {
			return err
		}
	}
	return nil
}

// Detach removes this group from its parent. Detaching an already
// detached group has no effect.
func (g *Group) Detach() error {
	if g.parent == nil {
		return nil
	}
	return g.parent.RemoveItem(g)
}

// Items compacts the child sequence and returns it. The returned slice
// is owned by the group and must not be mutated.
func (g *Group) Items() []Item {
	g.cleanup()
	return g.children
}

// Visit calls fn on this group and every live descendant in pre-order.
func (g *Group) Visit(fn func(Item)) {
	fn(g.self)
	for _, c := range g.children {
		if c != nil {
			c.Visit(fn)
		}
	}
}

// GetItem resolves a "/"-separated path of names starting at this group.
func (g *Group) GetItem(path string) (Item, error) {
	cur := g
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		it, ok := cur.names[seg]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound,
				"item %q not found in group %q", seg, cur.name)
		}
		if i == len(segs)-1 {
			return it, nil
		}
		sub, ok := it.(*Group)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound,
				"path component %q is not a group", seg)
		}
		cur = sub
	}
	return cur.self, nil
}

// markDirty flags this group and all its ancestors as containing
// tombstones.
func (g *Group) markDirty() {
	if g.dirty {
		return
	}
	if g.parent != nil {
		g.parent.markDirty()
	}
	g.dirty = true
	g.markDirtyColumns()
}

// markDirtyColumns invalidates the owning table's flat column cache.
func (g *Group) markDirtyColumns() {
	if t := g.Table(); t != nil {
		t.columnsDirty = true
	}
}

// cleanup compacts the child sequence in place, preserving relative
// order and reassigning indices, then recurses into surviving groups.
// Idempotent; a no-op on clean groups.
func (g *Group) cleanup() {
	if !g.dirty {
		return
	}
	pos := 0
	for i := 0; i < len(g.children); i++ {
		// Invariants: pos <= i, [0:pos) holds the surviving prefix.
		if g.children[i] == nil {
			continue
		}
		if pos < i {
			g.children[pos] = g.children[i]
			g.children[pos].item().index = pos
		}
		if sub, ok := g.children[pos].(*Group); ok {
			sub.cleanup()
		}
		pos++
	}
	g.children = g.children[:pos]
	g.dirty = false
}
