package texture

import (
	"image"
	"math"
)

// decodeNormals renormalizes tangent-space normals in place.
// RGB is read as a vector in [-1, 1]; zero-length texels become +Z.
// Alpha is forced opaque.
func decodeNormals(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		nx := float64(img.Pix[i])/127.5 - 1
		ny := float64(img.Pix[i+1])/127.5 - 1
		nz := float64(img.Pix[i+2])/127.5 - 1

		l := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if l < 1e-6 {
			nx, ny, nz = 0, 0, 1
		} else {
			nx, ny, nz = nx/l, ny/l, nz/l
		}

		img.Pix[i] = encodeUnit(nx)
		img.Pix[i+1] = encodeUnit(ny)
		img.Pix[i+2] = encodeUnit(nz)
		img.Pix[i+3] = 255
	}
}

func encodeUnit(v float64) uint8 {
	return clamp8((v + 1) * 127.5)
}
