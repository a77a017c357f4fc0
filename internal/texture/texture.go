package texture

import "image"

// Texture is a decoded image after policy processing.
type Texture struct {
	Path   string
	Policy Policy

	// Levels holds the mip chain; Levels[0] is the full-size image.
	Levels []*image.NRGBA

	// Linear is false for sRGB color data.
	Linear    bool
	NormalMap bool

	// Compressed is a lossless WebP encoding of level 0, present only
	// when the policy allows compression.
	Compressed []byte
}

// Base returns the full-size level.
func (t *Texture) Base() *image.NRGBA {
	if len(t.Levels) == 0 {
		return nil
	}
	return t.Levels[0]
}

func (t *Texture) Bounds() image.Rectangle {
	if b := t.Base(); b != nil {
		return b.Bounds()
	}
	return image.Rectangle{}
}
