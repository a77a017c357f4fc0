package wardrobe

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobe-texcache/internal/outfit"
	"wardrobe-texcache/internal/texture"
)

type material struct {
	name  string
	slots map[outfit.Slot]*texture.Texture
}

func newMaterial(name string, slots ...outfit.Slot) *material {
	m := &material{name: name, slots: make(map[outfit.Slot]*texture.Texture)}
	for _, s := range slots {
		m.slots[s] = &texture.Texture{Path: "builtin:" + name + s.Property()}
	}
	return m
}

func (m *material) Name() string { return m.name }

func (m *material) HasSlot(s outfit.Slot) bool {
	_, ok := m.slots[s]
	return ok
}

func (m *material) Texture(s outfit.Slot) *texture.Texture { return m.slots[s] }

func (m *material) SetTexture(s outfit.Slot, t *texture.Texture) { m.slots[s] = t }

// stubBackend completes requests only when the test says so.
type stubBackend struct {
	reqs  []texture.Request
	dones []func(texture.Result)
}

func (b *stubBackend) Submit(req texture.Request, done func(texture.Result)) {
	b.reqs = append(b.reqs, req)
	b.dones = append(b.dones, done)
}

func (b *stubBackend) finishAll() {
	for i, done := range b.dones {
		if done != nil {
			done(texture.Result{Texture: &texture.Texture{Path: b.reqs[i].Path, Policy: b.reqs[i].Policy}})
			b.dones[i] = nil
		}
	}
}

type fixture struct {
	root    string
	backend *stubBackend
	cache   *texture.Cache
	w       *Wardrobe
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := &stubBackend{}
	c := texture.NewCache(b, texture.WithLogger(log))
	loc := outfit.NewLocator(outfit.OSLister{}, root)
	return &fixture{root: root, backend: b, cache: c, w: New(c, loc, log)}
}

func (f *fixture) addFiles(t *testing.T, clothing, outfitName string, names ...string) string {
	t.Helper()
	dir := filepath.Join(outfit.ClothingDir(f.root, clothing), outfitName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
	return dir
}

func TestApplySetsTexturesFromCallbacks(t *testing.T) {
	f := newFixture(t)
	dir := f.addFiles(t, "Shirt", "Red", "ShirtD.png", "defaultN.png", "ShirtS.png")
	mat := newMaterial("Shirt", outfit.SlotDiffuse, outfit.SlotNormal, outfit.SlotSpecular, outfit.SlotGloss)
	origGloss := mat.slots[outfit.SlotGloss]

	n, err := f.w.Apply("Shirt", "red", []Material{mat})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, f.backend.reqs, 3)
	kinds := map[string]texture.Policy{}
	for _, r := range f.backend.reqs {
		kinds[filepath.Base(r.Path)] = r.Policy
	}
	assert.Equal(t, texture.PolicyFor(texture.Diffuse), kinds["ShirtD.png"])
	assert.Equal(t, texture.PolicyFor(texture.Normal), kinds["defaultN.png"])
	assert.Equal(t, texture.PolicyFor(texture.Specular), kinds["ShirtS.png"])

	assert.Equal(t, "builtin:Shirt_MainTex", mat.slots[outfit.SlotDiffuse].Path, "nothing changes before the load completes")

	f.backend.finishAll()
	f.cache.Update()

	assert.Equal(t, filepath.Join(dir, "ShirtD.png"), mat.slots[outfit.SlotDiffuse].Path)
	assert.Equal(t, filepath.Join(dir, "defaultN.png"), mat.slots[outfit.SlotNormal].Path)
	assert.Equal(t, filepath.Join(dir, "ShirtS.png"), mat.slots[outfit.SlotSpecular].Path)
	assert.Same(t, origGloss, mat.slots[outfit.SlotGloss])
}

func TestApplySharedFileLoadsOnce(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Dress", "Lace", "default.png")
	a := newMaterial("Body", outfit.SlotDiffuse, outfit.SlotCutout)
	b := newMaterial("Trim", outfit.SlotDiffuse, outfit.SlotCutout)

	n, err := f.w.Apply("Dress", "Lace", []Material{a, b})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.Len(t, f.backend.reqs, 1, "four slots share one file and one load")

	f.backend.finishAll()
	f.cache.Update()
	for _, m := range []*material{a, b} {
		assert.Same(t, m.slots[outfit.SlotDiffuse], m.slots[outfit.SlotCutout])
	}
}

func TestApplyRestoresOriginalWhenOutfitLacksSlot(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Shirt", "Red", "ShirtD.png")
	f.addFiles(t, "Shirt", "Plain")
	mat := newMaterial("Shirt", outfit.SlotDiffuse)
	orig := mat.slots[outfit.SlotDiffuse]

	_, err := f.w.Apply("Shirt", "Red", []Material{mat})
	require.NoError(t, err)
	f.backend.finishAll()
	f.cache.Update()
	require.NotSame(t, orig, mat.slots[outfit.SlotDiffuse])

	n, err := f.w.Apply("Shirt", "Plain", []Material{mat})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Same(t, orig, mat.slots[outfit.SlotDiffuse])
}

func TestApplyFailedLoadKeepsCurrentTexture(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Shirt", "Red", "ShirtD.png")
	mat := newMaterial("Shirt", outfit.SlotDiffuse)
	orig := mat.slots[outfit.SlotDiffuse]

	_, err := f.w.Apply("Shirt", "Red", []Material{mat})
	require.NoError(t, err)
	f.backend.dones[0](texture.Result{Err: &texture.DecodeError{Path: f.backend.reqs[0].Path, Message: "bad"}})
	f.cache.Update()

	assert.Same(t, orig, mat.slots[outfit.SlotDiffuse])
}

func TestApplyUnknownOutfit(t *testing.T) {
	f := newFixture(t)
	_, err := f.w.Apply("Shirt", "Nope", nil)
	assert.ErrorIs(t, err, outfit.ErrOutfitNotFound)
}

func TestReloadExpiresOutfitOnly(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Shirt", "Red", "ShirtD.png")
	f.addFiles(t, "Pants", "Blue", "PantsD.png")
	shirt := newMaterial("Shirt", outfit.SlotDiffuse)
	pants := newMaterial("Pants", outfit.SlotDiffuse)

	_, err := f.w.Apply("Shirt", "Red", []Material{shirt})
	require.NoError(t, err)
	_, err = f.w.Apply("Pants", "Blue", []Material{pants})
	require.NoError(t, err)
	f.backend.finishAll()
	f.cache.Update()
	require.Len(t, f.backend.reqs, 2)

	_, err = f.w.Reload("Shirt", "Red", []Material{shirt})
	require.NoError(t, err)
	require.Len(t, f.backend.reqs, 3)
	assert.Equal(t, f.backend.reqs[0].Path, f.backend.reqs[2].Path)

	_, err = f.w.Apply("Pants", "Blue", []Material{pants})
	require.NoError(t, err)
	assert.Len(t, f.backend.reqs, 3, "other outfits stay cached")
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Shirt", "Red", "ShirtD.png", "ShirtN.png")
	mat := newMaterial("Shirt", outfit.SlotDiffuse, outfit.SlotNormal)
	origD, origN := mat.slots[outfit.SlotDiffuse], mat.slots[outfit.SlotNormal]

	_, err := f.w.Apply("Shirt", "Red", []Material{mat})
	require.NoError(t, err)
	f.backend.finishAll()
	f.cache.Update()

	f.w.Restore([]Material{mat})
	assert.Same(t, origD, mat.slots[outfit.SlotDiffuse])
	assert.Same(t, origN, mat.slots[outfit.SlotNormal])
}

func TestApplySaved(t *testing.T) {
	f := newFixture(t)
	f.addFiles(t, "Shirt", "Red", "ShirtD.png")
	shirt := newMaterial("Shirt", outfit.SlotDiffuse)

	sel := NewSelections()
	sel.Set("Shirt", "Red")
	sel.Set("Hat", "Gone")

	err := f.w.ApplySaved(sel, func(clothing string) []Material {
		if clothing == "Shirt" {
			return []Material{shirt}
		}
		return nil
	})
	assert.ErrorIs(t, err, outfit.ErrOutfitNotFound)
	assert.Len(t, f.backend.reqs, 1, "one failure does not stop the rest")
}
