package tabular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// mixin is a reusable group of two leaves, the shape used throughout
// the hierarchy tests.
type mixin struct {
	grp *tabular.Group
	foo *tabular.Scalar[uint64]
	bar *tabular.StringColumn
}

func newMixin(t *testing.T, name string, host *tabular.Group) *mixin {
	t.Helper()
	grp, err := tabular.NewGroup(host, name)
	require.NoError(t, err)
	foo, err := tabular.NewScalar[uint64](grp, "foo", "%d")
	require.NoError(t, err)
	bar, err := tabular.NewString(grp, "bar", 32, "%s")
	require.NoError(t, err)
	return &mixin{grp: grp, foo: foo, bar: bar}
}

func newTestTable(t *testing.T, name string) *tabular.Table {
	t.Helper()
	tab, err := tabular.NewTableIn(tabular.NewRegistry(), name, tabular.FlavorResults)
	require.NoError(t, err)
	return tab
}

func TestGroupConstructor(t *testing.T) {
	cg, err := tabular.NewGroup(nil, "foo")
	require.NoError(t, err)

	assert.Equal(t, "foo", cg.Name())
	assert.Nil(t, cg.Parent())
	assert.Nil(t, cg.Table())
	assert.Empty(t, cg.Items())
}

func TestGroupConstructorWithParent(t *testing.T) {
	par, err := tabular.NewGroup(nil, "p")
	require.NoError(t, err)
	cg, err := tabular.NewGroup(par, "foo")
	require.NoError(t, err)

	assert.Equal(t, par, cg.Parent())
	assert.Nil(t, cg.Table())
	assert.Empty(t, cg.Items())
	assert.Len(t, par.Items(), 1)
}

func TestGroupEmptyName(t *testing.T) {
	_, err := tabular.NewGroup(nil, "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestTableMembership(t *testing.T) {
	par, err := tabular.NewGroup(nil, "p")
	require.NoError(t, err)
	cg, err := tabular.NewGroup(par, "foo")
	require.NoError(t, err)

	assert.Nil(t, cg.Table())
	assert.Nil(t, par.Table())

	tab := newTestTable(t, "membership")
	require.NoError(t, tab.AddItem(par))
	assert.Equal(t, tab, cg.Table())
	assert.Equal(t, tab, par.Table())

	require.NoError(t, tab.RemoveItem(par))
	assert.Nil(t, cg.Table())
	assert.Nil(t, par.Table())
}

func TestKindPredicates(t *testing.T) {
	col, err := tabular.NewScalar[int32](nil, "foo", "%d")
	require.NoError(t, err)
	assert.True(t, col.IsColumn())
	assert.False(t, col.IsGroup())
	assert.False(t, col.IsTable())

	cols, err := tabular.NewGroup(nil, "bar")
	require.NoError(t, err)
	assert.False(t, cols.IsColumn())
	assert.True(t, cols.IsGroup())
	assert.False(t, cols.IsTable())

	tab := newTestTable(t, "kinds")
	assert.False(t, tab.IsColumn())
	assert.False(t, tab.IsGroup())
	assert.True(t, tab.IsTable())
}

func TestAddItemErrors(t *testing.T) {
	g, err := tabular.NewGroup(nil, "g")
	require.NoError(t, err)

	// Duplicate sibling name.
	_, err = tabular.NewScalar[int32](g, "x", "%d")
	require.NoError(t, err)
	_, err = tabular.NewScalar[float64](g, "x", "%g")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	// Already parented.
	other, err := tabular.NewGroup(nil, "other")
	require.NoError(t, err)
	x, err := g.GetItem("x")
	require.NoError(t, err)
	err = other.AddItem(x)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	// Tables cannot be children.
	tab := newTestTable(t, "nested")
	err = g.AddItem(tab)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestRemoveItemNotOwned(t *testing.T) {
	g, err := tabular.NewGroup(nil, "g")
	require.NoError(t, err)
	stray, err := tabular.NewScalar[int32](nil, "stray", "%d")
	require.NoError(t, err)
	err = g.RemoveItem(stray)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestVisitor(t *testing.T) {
	c1, err := tabular.NewGroup(nil, "foo")
	require.NoError(t, err)
	m := newMixin(t, "grp", c1)

	var items []tabular.Item
	collector := func(it tabular.Item) { items = append(items, it) }

	m.foo.Visit(collector)
	assert.Equal(t, []tabular.Item{m.foo}, items)

	items = nil
	m.grp.Visit(collector)
	assert.Equal(t, []tabular.Item{m.grp, m.foo, m.bar}, items)

	items = nil
	c1.Visit(collector)
	assert.Equal(t, []tabular.Item{c1, m.grp, m.foo, m.bar}, items)

	c2, err := tabular.NewGroup(c1, "bar2")
	require.NoError(t, err)
	c3, err := tabular.NewGroup(c1, "bar3")
	require.NoError(t, err)
	require.NoError(t, c1.RemoveItem(c2))

	items = nil
	c1.Visit(collector)
	assert.Equal(t, []tabular.Item{c1, m.grp, m.foo, m.bar, c3}, items)
}

// buildHierarchy assembles the reference tree used by the cleanup,
// lookup and path tests:
//
//	tab / foo / grp / {foo,bar}
//	tab / foo / bar2 / grp / {foo,bar}
//	tab / foo / bar3
func buildHierarchy(t *testing.T) (tab *tabular.Table, c1, c2, c3 *tabular.Group, grp, grp2 *mixin) {
	t.Helper()
	tab = newTestTable(t, "tab")
	var err error
	c1, err = tabular.NewGroup(&tab.Group, "foo")
	require.NoError(t, err)
	grp = newMixin(t, "grp", c1)
	c2, err = tabular.NewGroup(c1, "bar2")
	require.NoError(t, err)
	grp2 = newMixin(t, "grp", c2)
	c3, err = tabular.NewGroup(c1, "bar3")
	require.NoError(t, err)
	return tab, c1, c2, c3, grp, grp2
}

func TestHierarchicalCleanup(t *testing.T) {
	tab, c1, c2, _, _, _ := buildHierarchy(t)

	assert.Equal(t, 4, tab.Size())

	require.NoError(t, c1.RemoveItem(c2))
	assert.Equal(t, 2, tab.Size())
}

func TestCleanupCompaction(t *testing.T) {
	tab, c1, c2, c3, _, _ := buildHierarchy(t)

	require.NoError(t, c1.RemoveItem(c2))

	// Items compacts: no tombstones, indices dense, order preserved.
	for pass := 0; pass < 2; pass++ {
		items := c1.Items()
		require.Len(t, items, 3)
		for i, it := range items {
			require.NotNil(t, it)
			assert.Equal(t, i, it.Index())
		}
		assert.Equal(t, c3, items[2])
	}
	assert.Equal(t, 2, tab.Size())
}

func TestGetItem(t *testing.T) {
	tab, c1, _, c3, grp, grp2 := buildHierarchy(t)

	cases := []struct {
		path string
		want tabular.Item
	}{
		{"foo", c1},
		{"foo/grp", grp.grp},
		{"foo/grp/foo", grp.foo},
		{"foo/grp/bar", grp.bar},
		{"foo/bar2/grp", grp2.grp},
		{"foo/bar2/grp/foo", grp2.foo},
		{"foo/bar2/grp/bar", grp2.bar},
		{"foo/bar3", c3},
	}
	for _, tc := range cases {
		got, err := tab.GetItem(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}

	_, err := tab.GetItem("foo/nope")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	_, err = tab.GetItem("foo/grp/foo/deeper")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestPathName(t *testing.T) {
	_, c1, _, c3, grp, grp2 := buildHierarchy(t)

	assert.Equal(t, "foo", c1.PathName("/"))
	assert.Equal(t, "foo/grp", grp.grp.PathName("/"))
	assert.Equal(t, "foo/grp/foo", grp.foo.PathName("/"))
	assert.Equal(t, "foo/grp/bar", grp.bar.PathName("/"))
	assert.Equal(t, "foo/bar2/grp", grp2.grp.PathName("/"))
	assert.Equal(t, "foo/bar2/grp/foo", grp2.foo.PathName("/"))
	assert.Equal(t, "foo/bar2/grp/bar", grp2.bar.PathName("/"))
	assert.Equal(t, "foo/bar3", c3.PathName("/"))

	assert.Equal(t, "foo::bar2::grp::foo", grp2.foo.PathName("::"))
}

func TestPathRoundTrip(t *testing.T) {
	tab, _, _, _, _, _ := buildHierarchy(t)

	tab.Visit(func(it tabular.Item) {
		if it.IsTable() {
			return
		}
		got, err := tab.GetItem(it.PathName("/"))
		require.NoError(t, err)
		assert.Equal(t, it, got)
	})
}

func TestDetach(t *testing.T) {
	par, err := tabular.NewGroup(nil, "p")
	require.NoError(t, err)
	cg, err := tabular.NewGroup(par, "c")
	require.NoError(t, err)

	require.NoError(t, cg.Detach())
	assert.Nil(t, cg.Parent())
	assert.Empty(t, par.Items())

	// Idempotent.
	require.NoError(t, cg.Detach())
}
