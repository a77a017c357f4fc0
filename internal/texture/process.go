package texture

import (
	"bytes"
	"image"

	"github.com/HugoSmits86/nativewebp"
)

// Process turns a decoded image into a Texture according to p.
func Process(path string, img image.Image, p Policy) (*Texture, error) {
	base := ToNRGBA(img)
	if base.Rect.Empty() {
		return nil, &DecodeError{Path: path, Message: "no pixels"}
	}

	if p.IsNormalMap {
		// ToNRGBA may hand back the decoder's own buffer
		if base == img {
			base = cloneNRGBA(base)
		}
		decodeNormals(base)
	}

	t := &Texture{
		Path:      path,
		Policy:    p,
		Levels:    []*image.NRGBA{base},
		Linear:    p.ColorIsLinear,
		NormalMap: p.IsNormalMap,
	}

	if p.GenerateMipMaps {
		t.Levels = mipChain(base, p.IsNormalMap)
	}

	if p.AllowCompression && !p.IsNormalMap {
		var buf bytes.Buffer
		if err := nativewebp.Encode(&buf, base, nil); err != nil {
			return nil, &DecodeError{Path: path, Message: "compress: " + err.Error(), Err: err}
		}
		t.Compressed = buf.Bytes()
	}

	return t, nil
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
