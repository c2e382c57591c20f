// Package model builds GPU-ready triangle meshes with tangent frames
// from parsed mesh data.
package model

// Vertex is one corner of a triangle, fully expanded for upload.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoord  [2]float32
	Tangent   [3]float32
	Bitangent [3]float32
}

// Mesh holds a de-indexed triangle list ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TangentPolicy selects how degenerate UV triangles are handled.
type TangentPolicy int

const (
	// TangentFallback derives a basis from the geometric normal.
	TangentFallback TangentPolicy = iota
	// TangentStrict fails the build with DegenerateGeometryError.
	TangentStrict
)

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	TangentPolicy TangentPolicy
	// Name identifies the mesh in log output.
	Name string
}
