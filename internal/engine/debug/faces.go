package debug

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/Faultbox/gl-playground/internal/engine/gpu"
)

// FaceSuffixes name cube faces in GL order: +X, -X, +Y, -Y, +Z, -Z.
var FaceSuffixes = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// FaceReader reads back one face of a cubemap as RGBA bytes.
type FaceReader interface {
	ReadCubeFace(cube gpu.CubemapID, face, size int) ([]byte, error)
}

// ExportFaces writes six cube faces as dir/prefix_<face><ext> and returns
// the paths in face order. Nil faces are skipped.
func ExportFaces(dir, prefix string, faces [6]*image.NRGBA, f Format) ([]string, error) {
	paths := make([]string, 0, len(faces))
	for i, img := range faces {
		if img == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, FaceSuffixes[i], f.Ext()))
		if err := WriteImage(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadFaces reads all six faces of a size x size cubemap. Face rows come
// back in cubemap memory order and are kept that way.
func ReadFaces(r FaceReader, cube gpu.CubemapID, size int) ([6]*image.NRGBA, error) {
	var faces [6]*image.NRGBA
	for i := range faces {
		pix, err := r.ReadCubeFace(cube, i, size)
		if err != nil {
			return faces, fmt.Errorf("reading face %s: %w", FaceSuffixes[i], err)
		}
		if len(pix) != size*size*4 {
			return faces, fmt.Errorf("reading face %s: got %d bytes, want %d", FaceSuffixes[i], len(pix), size*size*4)
		}
		faces[i] = &image.NRGBA{Pix: pix, Stride: size * 4, Rect: image.Rect(0, 0, size, size)}
	}
	return faces, nil
}
