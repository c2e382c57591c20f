package ibl

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gl-playground/pkg/math"
)

// Face is one side of a cubemap. The values are the GL face order.
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ

	// FaceNone marks errors raised outside any face pass.
	FaceNone Face = -1
)

// Faces lists the faces in bake order.
var Faces = [6]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	case FaceNone:
		return "none"
	}
	return fmt.Sprintf("Face(%d)", int(f))
}

// Capture projection: square, 90 degree field of view, so the six frusta
// tile the sphere exactly.
const (
	captureNear float32 = 0.1
	captureFar  float32 = 10
)

// CaptureProjection returns the projection shared by all six face passes.
func CaptureProjection() math.Mat4 {
	return math.Perspective(math32.Pi/2, 1, captureNear, captureFar)
}

// CaptureViews returns the view matrix of each face, eye at the origin.
// The up vectors follow the cubemap face layout so that rendered rows land
// where a cubemap lookup expects them; the ±Y faces use ±Z as up to avoid
// a degenerate cross product.
func CaptureViews() [6]math.Mat4 {
	var origin math.Vec3
	return [6]math.Mat4{
		math.LookAt(origin, math.V3(1, 0, 0), math.V3(0, -1, 0)),
		math.LookAt(origin, math.V3(-1, 0, 0), math.V3(0, -1, 0)),
		math.LookAt(origin, math.V3(0, 1, 0), math.V3(0, 0, 1)),
		math.LookAt(origin, math.V3(0, -1, 0), math.V3(0, 0, -1)),
		math.LookAt(origin, math.V3(0, 0, 1), math.V3(0, -1, 0)),
		math.LookAt(origin, math.V3(0, 0, -1), math.V3(0, -1, 0)),
	}
}

// FaceDirection returns the world direction (not normalized) through face
// coordinates s, t in [-1, 1]. t = -1 is the face's first row in memory.
func FaceDirection(face Face, s, t float32) math.Vec3 {
	switch face {
	case FacePosX:
		return math.V3(1, -t, -s)
	case FaceNegX:
		return math.V3(-1, -t, s)
	case FacePosY:
		return math.V3(s, 1, t)
	case FaceNegY:
		return math.V3(s, -1, -t)
	case FacePosZ:
		return math.V3(s, -t, 1)
	default:
		return math.V3(-s, -t, -1)
	}
}

// unitCube is 36 positions, two counter-clockwise triangles per side as
// seen from outside.
var unitCube = []float32{
	// back
	-1, -1, -1, 1, 1, -1, 1, -1, -1,
	1, 1, -1, -1, -1, -1, -1, 1, -1,
	// front
	-1, -1, 1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, -1, 1,
	// left
	-1, 1, 1, -1, 1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, 1, -1, 1, 1,
	// right
	1, 1, 1, 1, -1, -1, 1, 1, -1,
	1, -1, -1, 1, 1, 1, 1, -1, 1,
	// bottom
	-1, -1, -1, 1, -1, -1, 1, -1, 1,
	1, -1, 1, -1, -1, 1, -1, -1, -1,
	// top
	-1, 1, -1, 1, 1, 1, 1, 1, -1,
	1, 1, 1, -1, 1, -1, -1, 1, 1,
}

// CubeVertexCount is the number of vertices UnitCube returns.
const CubeVertexCount = 36

// UnitCube returns a copy of the cube positions, three floats per vertex.
func UnitCube() []float32 {
	return append([]float32(nil), unitCube...)
}
