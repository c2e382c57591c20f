// Package texture decodes images and owns the texture arena.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// decoder pairs a format name with the magic bytes that identify it.
type decoder struct {
	name   string
	match  func(data []byte) bool
	decode func(r io.Reader) (image.Image, error)
}

// TGA has no magic and its decoder accepts any header, so it is only
// used when none of these match. image.Decode is avoided for the same
// reason: the tga package registers itself with an empty magic.
var decoders = []decoder{
	{"png", hasPrefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", hasPrefix("\xff\xd8"), jpeg.Decode},
	{"bmp", hasPrefix("BM"), bmp.Decode},
	{"webp", isWebP, webp.Decode},
}

func hasPrefix(magic string) func([]byte) bool {
	return func(data []byte) bool {
		return bytes.HasPrefix(data, []byte(magic))
	}
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Decode decodes PNG, JPEG, BMP, WebP or TGA data into NRGBA.
func Decode(data []byte) (*image.NRGBA, error) {
	format := "tga"
	decode := tga.Decode
	for _, d := range decoders {
		if d.match(data) {
			format, decode = d.name, d.decode
			break
		}
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", format, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("texture: empty %s image", format)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
