package wardrobe

import (
	"errors"
	"fmt"
	"log/slog"

	"wardrobe-texcache/internal/outfit"
	"wardrobe-texcache/internal/texture"
)

// TextureCache is the part of texture.Cache the wardrobe drives.
type TextureCache interface {
	WithTexture(path string, kind texture.Kind, cb texture.Callback)
	ExpireDirectory(prefix string) int
}

// Material is a clothing material whose texture slots can be replaced.
// Implementations must be comparable; pointers are the usual choice.
type Material interface {
	outfit.Material
	Texture(outfit.Slot) *texture.Texture
	SetTexture(outfit.Slot, *texture.Texture)
}

type slotKey struct {
	mat  Material
	slot outfit.Slot
}

// Wardrobe applies outfit texture sets to clothing materials.
// Textures are only set from cache callbacks, so a failed load leaves
// the material as it was.
type Wardrobe struct {
	cache   TextureCache
	locator *outfit.Locator
	log     *slog.Logger

	originals map[slotKey]*texture.Texture
}

func New(cache TextureCache, locator *outfit.Locator, log *slog.Logger) *Wardrobe {
	if log == nil {
		log = slog.Default()
	}
	return &Wardrobe{
		cache:     cache,
		locator:   locator,
		log:       log,
		originals: make(map[slotKey]*texture.Texture),
	}
}

// Apply requests the textures of an outfit for every slot of mats and
// returns how many were requested. Slots the outfit has no file for go
// back to their original texture.
func (w *Wardrobe) Apply(clothing, outfitName string, mats []Material) (int, error) {
	dir, err := w.locator.Directory(clothing, outfitName)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, mat := range mats {
		for _, slot := range outfit.Slots {
			if w.applyTexture(dir, mat, slot) {
				n++
			}
		}
	}
	w.log.Info("outfit applied", "clothing", clothing, "outfit", outfitName, "textures", n)
	return n, nil
}

// Reload drops the outfit's cached textures and applies it again, so
// edited files are read from disk.
func (w *Wardrobe) Reload(clothing, outfitName string, mats []Material) (int, error) {
	dir, err := w.locator.Directory(clothing, outfitName)
	if err != nil {
		return 0, err
	}
	expired := w.cache.ExpireDirectory(dir)
	w.log.Info("outfit textures expired", "dir", dir, "count", expired)
	return w.Apply(clothing, outfitName, mats)
}

// Restore puts back every original texture replaced so far.
func (w *Wardrobe) Restore(mats []Material) {
	for _, mat := range mats {
		for _, slot := range outfit.Slots {
			key := slotKey{mat: mat, slot: slot}
			if orig, ok := w.originals[key]; ok {
				mat.SetTexture(slot, orig)
				delete(w.originals, key)
			}
		}
	}
}

// ApplySaved applies every saved selection. Failures are logged and
// the rest still applied; the joined errors are returned.
func (w *Wardrobe) ApplySaved(sel *Selections, materials func(clothing string) []Material) error {
	var errs []error
	for _, s := range sel.All() {
		if _, err := w.Apply(s.Clothing, s.Outfit, materials(s.Clothing)); err != nil {
			w.log.Error("could not load outfit", "clothing", s.Clothing, "outfit", s.Outfit, "err", err)
			errs = append(errs, fmt.Errorf("wardrobe: apply %s to %s: %w", s.Outfit, s.Clothing, err))
		}
	}
	return errors.Join(errs...)
}

func (w *Wardrobe) applyTexture(dir string, mat Material, slot outfit.Slot) bool {
	key := slotKey{mat: mat, slot: slot}

	file, ok := w.locator.TextureFile(dir, mat, slot)
	if !ok {
		if orig, saved := w.originals[key]; saved {
			mat.SetTexture(slot, orig)
		}
		return false
	}

	if _, saved := w.originals[key]; !saved {
		w.originals[key] = mat.Texture(slot)
	}
	w.cache.WithTexture(file, slot.Kind(), func(tex *texture.Texture) {
		mat.SetTexture(slot, tex)
	})
	return true
}
