package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gl-playground/pkg/math"
)

const quadOBJ = `# two triangles sharing an edge
o quad
v  0 0 0
v  1 0 0
v  1 1 0
v  0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
s off
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestParseOBJ_Quad(t *testing.T) {
	obj, err := ParseOBJ(quadOBJ)
	require.NoError(t, err)

	assert.Equal(t, 6, obj.VertexCount)
	assert.Equal(t, 2, obj.TriangleCount())
	assert.Len(t, obj.Positions, 6)
	assert.Len(t, obj.UVs, 6)
	assert.Len(t, obj.Normals, 6)

	// Corners are emitted in face order, shared vertices duplicated.
	wantPos := []math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	}
	assert.Equal(t, wantPos, obj.Positions)
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, obj.UVs[5])
	for i, n := range obj.Normals {
		assert.Equal(t, math.Vec3{Z: 1}, n, "normal %d", i)
	}
}

func TestParseOBJ_SingleSpaceAndCRLF(t *testing.T) {
	text := "v 0 0 0\r\nv 1 0 0\r\nv 0 1 0\r\nvt 0 0 0\r\nvn 0 0 1\r\nf 1/1/1 2/1/1 3/1/1\r\n"

	obj, err := ParseOBJ(text)
	require.NoError(t, err)
	assert.Equal(t, 3, obj.VertexCount)
	assert.Equal(t, math.Vec3{X: 1}, obj.Positions[1])
}

func TestParseOBJ_ForwardReferences(t *testing.T) {
	text := strings.Join([]string{
		"f 1/1/1 2/1/1 3/1/1",
		"v 0 0 0",
		"v 1 0 0",
		"v 0 1 0",
		"vt 0.5 0.5",
		"vn 0 0 1",
	}, "\n")

	obj, err := ParseOBJ(text)
	require.NoError(t, err)
	assert.Equal(t, 3, obj.VertexCount)
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.5}, obj.UVs[0])
}

func TestParseOBJ_Empty(t *testing.T) {
	obj, err := ParseOBJ("# nothing here\n\n")
	require.NoError(t, err)
	assert.Equal(t, 0, obj.VertexCount)
	assert.Empty(t, obj.Positions)
}

func TestParseOBJ_Errors(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\n"

	tests := []struct {
		name string
		text string
		line int
	}{
		{"quad face", header + "f 1/1/1 2/1/1 3/1/1 1/1/1\n", 6},
		{"two corners", header + "f 1/1/1 2/1/1\n", 6},
		{"missing uv index", header + "f 1//1 2//1 3//1\n", 6},
		{"position only", header + "f 1 2 3\n", 6},
		{"position out of range", header + "f 1/1/1 2/1/1 4/1/1\n", 6},
		{"zero index", header + "f 0/1/1 2/1/1 3/1/1\n", 6},
		{"normal out of range", header + "\n\nf 1/1/2 2/1/1 3/1/1\n", 8},
		{"bad index", header + "f 1/x/1 2/1/1 3/1/1\n", 6},
		{"bad float", "v 0 zero 0\n", 1},
		{"short vertex", "# c\nv 0 0\n", 2},
		{"short uv", "vt 0\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(tt.text)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0644))

	obj, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 2, obj.TriangleCount())

	_, err = LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
