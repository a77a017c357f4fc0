package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Container header sizes for the wrapped MU formats.
const (
	ozjHeaderSize = 24 // OZJ: header + JPEG
	oztHeaderSize = 4  // OZT: header + TGA
	ozbHeaderSize = 4  // OZB: header + BMP
)

type codec struct {
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

var (
	pngCodec  = codec{png.Decode, png.DecodeConfig}
	jpegCodec = codec{jpeg.Decode, jpeg.DecodeConfig}
	tgaCodec  = codec{tga.Decode, tga.DecodeConfig}
	bmpCodec  = codec{bmp.Decode, bmp.DecodeConfig}
	tiffCodec = codec{tiff.Decode, tiff.DecodeConfig}
)

// Codecs are picked by extension; TGA has no magic number to sniff.
var codecs = map[string]codec{
	".png":  pngCodec,
	".jpg":  jpegCodec,
	".jpeg": jpegCodec,
	".gif":  {gif.Decode, gif.DecodeConfig},
	".tga":  tgaCodec,
	".bmp":  bmpCodec,
	".tif":  tiffCodec,
	".tiff": tiffCodec,
	".webp": {webp.Decode, webp.DecodeConfig},
	".ozj":  jpegCodec,
	".ozt":  tgaCodec,
	".ozb":  bmpCodec,
}

// Limits bounds what Load accepts. Zero fields mean no limit.
type Limits struct {
	// MaxBytes is checked against the file size before reading.
	MaxBytes int64
	// MaxPixels is checked against the header's width*height before
	// the pixel data is decoded.
	MaxPixels int64
}

// Supported reports whether Load can decode the file by its extension.
func Supported(path string) bool {
	_, ok := codecs[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads a texture file and decodes it. Failures are *DecodeError.
func Load(path string, lim Limits) (image.Image, error) {
	img, err := load(path, lim)
	if err != nil {
		return nil, &DecodeError{Path: path, Message: err.Error(), Err: err}
	}
	return img, nil
}

func load(path string, lim Limits) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if lim.MaxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", pathless(err))
		}
		if info.Size() > lim.MaxBytes {
			return nil, fmt.Errorf("%w: file is %d bytes, limit %d", ErrTooLarge, info.Size(), lim.MaxBytes)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", pathless(err))
	}

	imgData := raw
	switch ext {
	case ".ozj":
		if len(raw) <= ozjHeaderSize {
			return nil, errors.New("OZJ container too short")
		}
		imgData = raw[ozjHeaderSize:]
	case ".ozt":
		if len(raw) <= oztHeaderSize {
			return nil, errors.New("OZT container too short")
		}
		imgData = raw[oztHeaderSize:]
	case ".ozb":
		if len(raw) <= ozbHeaderSize {
			return nil, errors.New("OZB container too short")
		}
		imgData = raw[ozbHeaderSize:]
	}

	if lim.MaxPixels > 0 {
		cfg, err := c.config(bytes.NewReader(imgData))
		if err != nil {
			return nil, err
		}
		if n := int64(cfg.Width) * int64(cfg.Height); n > lim.MaxPixels {
			return nil, fmt.Errorf("%w: %dx%d is %d pixels, limit %d",
				ErrTooLarge, cfg.Width, cfg.Height, n, lim.MaxPixels)
		}
	}

	return c.decode(bytes.NewReader(imgData))
}

// pathless drops the *fs.PathError wrapper; DecodeError carries the path.
func pathless(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK:
		// No alpha
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
