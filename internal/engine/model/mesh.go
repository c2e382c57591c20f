package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/formats"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// BuildMesh zips parsed mesh streams and their tangent frames into vertices.
func BuildMesh(obj *formats.OBJ, opts BuildOptions) (*Mesh, error) {
	if obj == nil || obj.VertexCount == 0 {
		return nil, fmt.Errorf("model: %s has no triangles", meshName(opts))
	}
	if len(obj.Normals) != len(obj.Positions) {
		return nil, fmt.Errorf("model: %d positions but %d normals", len(obj.Positions), len(obj.Normals))
	}

	var tangents, bitangents []math.Vec3
	var err error
	switch opts.TangentPolicy {
	case TangentStrict:
		tangents, bitangents, err = ComputeTangents(obj.Positions, obj.UVs)
	default:
		var fallback []int
		tangents, bitangents, fallback, err = ComputeTangentsWithFallback(obj.Positions, obj.UVs)
		if len(fallback) > 0 {
			logger.Named("model").Warn("degenerate UVs, using normal-derived tangents",
				zap.String("mesh", meshName(opts)),
				zap.Int("triangles", len(fallback)),
				zap.Int("first", fallback[0]))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", meshName(opts), err)
	}

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	vertices := make([]Vertex, obj.VertexCount)
	for i := range vertices {
		pos := obj.Positions[i].Array()
		updateBounds(&bounds, pos)
		vertices[i] = Vertex{
			Position:  pos,
			Normal:    obj.Normals[i].Array(),
			TexCoord:  obj.UVs[i].Array(),
			Tangent:   tangents[i].Array(),
			Bitangent: bitangents[i].Array(),
		}
	}

	return &Mesh{Vertices: vertices, Bounds: bounds}, nil
}

// Streams is the mesh as one flat float32 slice per vertex attribute.
type Streams struct {
	Positions  []float32 // 3 per vertex
	Normals    []float32 // 3 per vertex
	TexCoords  []float32 // 2 per vertex
	Tangents   []float32 // 3 per vertex
	Bitangents []float32 // 3 per vertex
}

// Streams splits the vertices into separate attribute buffers.
func (m *Mesh) Streams() Streams {
	n := len(m.Vertices)
	s := Streams{
		Positions:  make([]float32, 0, n*3),
		Normals:    make([]float32, 0, n*3),
		TexCoords:  make([]float32, 0, n*2),
		Tangents:   make([]float32, 0, n*3),
		Bitangents: make([]float32, 0, n*3),
	}
	for _, v := range m.Vertices {
		s.Positions = append(s.Positions, v.Position[:]...)
		s.Normals = append(s.Normals, v.Normal[:]...)
		s.TexCoords = append(s.TexCoords, v.TexCoord[:]...)
		s.Tangents = append(s.Tangents, v.Tangent[:]...)
		s.Bitangents = append(s.Bitangents, v.Bitangent[:]...)
	}
	return s
}

// VertexCount returns the number of vertices to draw.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func updateBounds(b *Bounds, pos [3]float32) {
	for k := 0; k < 3; k++ {
		if pos[k] < b.Min[k] {
			b.Min[k] = pos[k]
		}
		if pos[k] > b.Max[k] {
			b.Max[k] = pos[k]
		}
	}
}

func meshName(opts BuildOptions) string {
	if opts.Name == "" {
		return "mesh"
	}
	return opts.Name
}
