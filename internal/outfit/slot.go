package outfit

import (
	"fmt"

	"wardrobe-texcache/internal/texture"
)

// Slot is a texture property of a clothing material.
type Slot int

const (
	SlotDiffuse Slot = iota
	SlotCutout
	SlotNormal
	SlotSpecular
	SlotGloss
)

// Slots lists every slot in the order outfits are applied.
var Slots = []Slot{SlotDiffuse, SlotCutout, SlotNormal, SlotSpecular, SlotGloss}

var slotProps = [...]string{
	SlotDiffuse:  "_MainTex",
	SlotCutout:   "_AlphaTex",
	SlotNormal:   "_BumpMap",
	SlotSpecular: "_SpecTex",
	SlotGloss:    "_GlossTex",
}

// Property returns the shader property name of the slot.
func (s Slot) Property() string {
	if s < 0 || int(s) >= len(slotProps) {
		panic(fmt.Sprintf("outfit: unknown slot %d", int(s)))
	}
	return slotProps[s]
}

func (s Slot) String() string {
	return s.Property()
}

// Kind returns the texture kind loaded into the slot.
func (s Slot) Kind() texture.Kind {
	switch s {
	case SlotDiffuse, SlotCutout:
		return texture.Diffuse
	case SlotNormal:
		return texture.Normal
	case SlotSpecular:
		return texture.Specular
	case SlotGloss:
		return texture.Gloss
	}
	panic(fmt.Sprintf("outfit: unknown slot %d", int(s)))
}

// Material is the part of a clothing material the naming rules need.
type Material interface {
	Name() string
	HasSlot(Slot) bool
}

// CandidateNames returns the file stems tried for a slot, best first.
// A material without the slot has no candidates.
//
// Diffuse and cutout share the bare material name when the material
// has both slots; the other slots use a one-letter suffix. Every list
// falls back to the same names with "default" in place of the
// material name.
func CandidateNames(mat Material, slot Slot) []string {
	if !mat.HasSlot(slot) {
		return nil
	}
	name := mat.Name()

	switch slot {
	case SlotDiffuse:
		shared := mat.HasSlot(SlotCutout)
		return sharedNames(name, "D", shared)
	case SlotCutout:
		shared := mat.HasSlot(SlotDiffuse)
		return sharedNames(name, "A", shared)
	case SlotNormal:
		return []string{name + "N", "defaultN"}
	case SlotSpecular:
		return []string{name + "S", "defaultS"}
	case SlotGloss:
		return []string{name + "G", "defaultG"}
	}
	panic(fmt.Sprintf("outfit: unknown slot %d", int(slot)))
}

func sharedNames(name, suffix string, shared bool) []string {
	names := []string{name + suffix}
	if shared {
		names = append(names, name)
	}
	names = append(names, "default"+suffix)
	if shared {
		names = append(names, "default")
	}
	return names
}
