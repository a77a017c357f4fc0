package outfit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"wardrobe-texcache/internal/texture"
)

// ErrOutfitNotFound is returned when no root has the requested outfit.
var ErrOutfitNotFound = errors.New("outfit: not found")

// Locator finds outfit directories under <root>/Textures/Wardrobe/<clothing>.
// Roots are searched in order; the scene directory usually comes first,
// then the global one.
type Locator struct {
	Roots  []string
	Lister Lister
}

// NewLocator creates a Locator over the given roots.
func NewLocator(lister Lister, roots ...string) *Locator {
	return &Locator{Roots: roots, Lister: lister}
}

// ClothingDir returns the wardrobe directory for clothing under root.
func ClothingDir(root, clothing string) string {
	return filepath.Join(root, "Textures", "Wardrobe", clothing)
}

func (l *Locator) outfitDirs(clothing string) []string {
	var dirs []string
	for _, root := range l.Roots {
		dirs = append(dirs, l.Lister.Dirs(ClothingDir(root, clothing))...)
	}
	return dirs
}

// Outfits lists the outfit names available for clothing. Names are
// unique ignoring case, in order of first appearance. "psd" folders
// hold source files and are skipped.
func (l *Locator) Outfits(clothing string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range l.outfitDirs(clothing) {
		name := filepath.Base(dir)
		key := strings.ToLower(name)
		if key == "psd" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// Directory returns the first directory holding outfit for clothing,
// matching the outfit name ignoring case.
func (l *Locator) Directory(clothing, outfit string) (string, error) {
	for _, dir := range l.outfitDirs(clothing) {
		if strings.EqualFold(filepath.Base(dir), outfit) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: %q needs textures in <vamOrScene>/Textures/Wardrobe/%s/%s",
		ErrOutfitNotFound, outfit, clothing, outfit)
}

// TextureFile returns the texture for a material slot in an outfit
// directory. Candidate names are tried in order; the first decodable
// file named <candidate>.<ext>, ignoring case, wins.
func (l *Locator) TextureFile(dir string, mat Material, slot Slot) (string, bool) {
	files := l.Lister.Files(dir)
	for _, name := range CandidateNames(mat, slot) {
		for _, f := range files {
			base := filepath.Base(f)
			ext := filepath.Ext(base)
			if ext != "" && strings.EqualFold(strings.TrimSuffix(base, ext), name) && texture.Supported(f) {
				return f, true
			}
		}
	}
	return "", false
}
