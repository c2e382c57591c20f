package ibl

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gl-playground/pkg/formats"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// EquirectUV maps a direction to panorama coordinates in [0, 1], with
// v = 1 at the zenith. It matches the projection shader.
func EquirectUV(dir math.Vec3) (u, v float32) {
	d := dir.Normalize()
	u = math32.Atan2(d.Z, d.X)/(2*math32.Pi) + 0.5
	v = math32.Asin(clampUnit(d.Y))/math32.Pi + 0.5
	return u, v
}

// ProjectFace renders one cube face of a decoded panorama on the CPU with
// nearest sampling. Rows are in cubemap memory order. img rows are in file
// order, so the zenith is row 0.
func ProjectFace(img *formats.HDRImage, face Face, size int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	if img == nil || img.Width == 0 || img.Height == 0 {
		return out
	}

	for y := 0; y < size; y++ {
		t := 2*(float32(y)+0.5)/float32(size) - 1
		for x := 0; x < size; x++ {
			s := 2*(float32(x)+0.5)/float32(size) - 1
			u, v := EquirectUV(FaceDirection(face, s, t))

			px := clampIndex(int(u*float32(img.Width)), img.Width)
			py := clampIndex(int((1-v)*float32(img.Height)), img.Height)

			src := img.Pixels[(py*img.Width+px)*4:]
			dst := out.Pix[y*out.Stride+x*4:]
			copy(dst[:4], src[:4])
		}
	}
	return out
}

// ProjectCube renders all six faces in bake order.
func ProjectCube(img *formats.HDRImage, size int) [6]*image.NRGBA {
	var faces [6]*image.NRGBA
	for _, f := range Faces {
		faces[f] = ProjectFace(img, f, size)
	}
	return faces
}

// Panorama returns the decoded panorama as an image in file row order,
// with colour channels scaled by exposure and clamped.
func Panorama(img *formats.HDRImage, exposure float32) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pixels)
	if exposure == 1 {
		return out
	}
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float32(out.Pix[i+c])*exposure + 0.5
			out.Pix[i+c] = uint8(math32.Max(0, math32.Min(v, 255)))
		}
	}
	return out
}

func clampUnit(x float32) float32 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
