package texture

import "image"

// FlipVertical reverses the row order of a tightly packed pixel buffer
// in place. GL expects the first row at the bottom of the image.
func FlipVertical(pix []byte, width, height, channels int) {
	stride := width * channels
	if stride == 0 || len(pix) < stride*height {
		return
	}
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// SolidColor returns a 1x1 image of one color.
func SolidColor(r, g, b, a uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{r, g, b, a})
	return img
}

// FlatNormal returns a 1x1 tangent-space normal map pointing straight out
// of the surface.
func FlatNormal() *image.NRGBA {
	return SolidColor(128, 128, 255, 255)
}
