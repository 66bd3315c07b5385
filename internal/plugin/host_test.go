package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostRegistrationsAreOwned(t *testing.T) {
	f := newFixture(t)
	var captured Host
	p := &goPlugin{info: Info{Name: "Owner"}, log: &callLog{}, onLoad: func(h Host) error {
		captured = h
		h.RegisterMenuItem(MenuItem{Path: "File/Import/Mesh"})
		h.RegisterImporter(&fakeImporter{name: "obj", exts: []string{".obj"}})
		h.RegisterPanel(&fakePanel{title: "Mesh Preview"})
		h.Logger().Info("owner ready")
		return nil
	}}
	require.NoError(t, f.mgr.LoadPlugin(f.add("owner.plg", &fakeLibrary{factory: goFactory(p)})))

	items := f.mgr.MenuItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Owner", items[0].Plugin)
	assert.Len(t, f.mgr.Importers(), 1)
	assert.Len(t, f.mgr.Panels(), 1)

	entries := f.logs.FilterMessage("owner ready").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Owner", entries[0].ContextMap()["plugin"])

	require.NoError(t, f.mgr.UnloadPlugin("Owner"))

	captured.RegisterMenuItem(MenuItem{Path: "File/Late"})
	captured.RegisterPanel(&fakePanel{title: "Late"})
	assert.Empty(t, f.mgr.MenuItems())
	assert.Empty(t, f.mgr.Panels())
	assert.Equal(t, 2, f.logs.FilterMessage("registration after unload ignored").Len())
}
