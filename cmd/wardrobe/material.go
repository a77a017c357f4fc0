package main

import (
	"strings"

	"wardrobe-texcache/internal/outfit"
	"wardrobe-texcache/internal/texture"
	"wardrobe-texcache/internal/wardrobe"
)

// material stands in for a host material: it has every slot and
// starts with none of them set.
type material struct {
	name  string
	slots map[outfit.Slot]*texture.Texture
}

func (m *material) Name() string { return m.name }

func (m *material) HasSlot(outfit.Slot) bool { return true }

func (m *material) Texture(s outfit.Slot) *texture.Texture { return m.slots[s] }

func (m *material) SetTexture(s outfit.Slot, t *texture.Texture) { m.slots[s] = t }

// newMaterials builds the materials named in list, or a single material
// named after the clothing item when list is empty.
func newMaterials(clothing, list string) []wardrobe.Material {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		names = []string{clothing}
	}

	mats := make([]wardrobe.Material, len(names))
	for i, n := range names {
		mats[i] = &material{name: n, slots: make(map[outfit.Slot]*texture.Texture)}
	}
	return mats
}
