package model

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gl-playground/pkg/math"
)

// uvDetEpsilon is the smallest UV-space area (as a 2x2 determinant) that
// still yields a usable tangent frame.
const uvDetEpsilon = 1e-12

// DegenerateGeometryError reports a triangle whose UV mapping has zero area,
// so no tangent frame can be solved for it.
type DegenerateGeometryError struct {
	Triangle int // 0-based triangle index
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("model: triangle %d has degenerate UVs", e.Triangle)
}

// ComputeTangents returns one tangent and bitangent per corner.
// All three corners of a triangle share the triangle's basis; no smoothing
// happens across faces. Any degenerate UV triangle fails the whole call.
func ComputeTangents(positions []math.Vec3, uvs []math.Vec2) (tangents, bitangents []math.Vec3, err error) {
	if err := checkStreams(positions, uvs); err != nil {
		return nil, nil, err
	}

	tangents = make([]math.Vec3, len(positions))
	bitangents = make([]math.Vec3, len(positions))

	for tri := 0; tri < len(positions)/3; tri++ {
		i := tri * 3
		t, b, ok := triangleBasis(positions[i:i+3], uvs[i:i+3])
		if !ok {
			return nil, nil, &DegenerateGeometryError{Triangle: tri}
		}
		fill(tangents[i:i+3], t)
		fill(bitangents[i:i+3], b)
	}
	return tangents, bitangents, nil
}

// ComputeTangentsWithFallback is ComputeTangents, except degenerate UV
// triangles get an orthonormal basis built around their geometric normal.
// fallback lists the triangles that took the normal-derived basis.
func ComputeTangentsWithFallback(positions []math.Vec3, uvs []math.Vec2) (tangents, bitangents []math.Vec3, fallback []int, err error) {
	if err := checkStreams(positions, uvs); err != nil {
		return nil, nil, nil, err
	}

	tangents = make([]math.Vec3, len(positions))
	bitangents = make([]math.Vec3, len(positions))

	for tri := 0; tri < len(positions)/3; tri++ {
		i := tri * 3
		t, b, ok := triangleBasis(positions[i:i+3], uvs[i:i+3])
		if !ok {
			t, b = normalBasis(positions[i : i+3])
			fallback = append(fallback, tri)
		}
		fill(tangents[i:i+3], t)
		fill(bitangents[i:i+3], b)
	}
	return tangents, bitangents, fallback, nil
}

func checkStreams(positions []math.Vec3, uvs []math.Vec2) error {
	if len(positions) != len(uvs) {
		return fmt.Errorf("model: %d positions but %d uvs", len(positions), len(uvs))
	}
	if len(positions)%3 != 0 {
		return fmt.Errorf("model: %d corners is not a whole number of triangles", len(positions))
	}
	return nil
}

// triangleBasis solves the tangent frame of one triangle. The vectors are
// left unnormalized; ok is false when the UV determinant is too small.
func triangleBasis(p []math.Vec3, uv []math.Vec2) (t, b math.Vec3, ok bool) {
	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	d1 := uv[1].Sub(uv[0])
	d2 := uv[2].Sub(uv[0])

	det := d1.X*d2.Y - d1.Y*d2.X
	if math32.Abs(det) < uvDetEpsilon {
		return math.Vec3{}, math.Vec3{}, false
	}
	r := 1 / det

	t = e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(r)
	b = e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(r)
	return t, b, true
}

// normalBasis builds an orthonormal tangent and bitangent perpendicular to
// the face normal. Triangles with no area use +Y as their normal.
func normalBasis(p []math.Vec3) (t, b math.Vec3) {
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.LengthSqr() < 1e-20 {
		n = math.Vec3{Y: 1}
	}
	n = n.Normalize()

	// Gram-Schmidt against the axis least aligned with n.
	axis := math.Vec3{X: 1}
	ax, ay, az := math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z)
	switch {
	case ay <= ax && ay <= az:
		axis = math.Vec3{Y: 1}
	case az <= ax && az <= ay:
		axis = math.Vec3{Z: 1}
	}

	t = axis.Sub(n.Scale(n.Dot(axis))).Normalize()
	b = n.Cross(t)
	return t, b
}

func fill(dst []math.Vec3, v math.Vec3) {
	for i := range dst {
		dst[i] = v
	}
}
