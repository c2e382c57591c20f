package formats

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/gl-playground/pkg/math"
)

// OBJ is a de-indexed triangle list parsed from mesh text.
// Positions, UVs and Normals have one entry per face corner, in file order,
// so shared vertices are duplicated per corner.
type OBJ struct {
	Positions   []math.Vec3
	UVs         []math.Vec2
	Normals     []math.Vec3
	VertexCount int
}

// TriangleCount returns the number of triangles in the list.
func (o *OBJ) TriangleCount() int {
	return o.VertexCount / 3
}

// objLine is a non-empty, non-comment line with its 1-based number.
type objLine struct {
	num    int
	fields []string
}

// faceCorner is one resolved p/t/n reference, 0-based.
type faceCorner struct {
	pos, uv, normal int
}

// LoadOBJ reads and parses a mesh file.
func LoadOBJ(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseOBJ(string(data))
}

// ParseOBJ parses mesh text into a flat triangle list.
//
// Recognized statements are v (3 floats), vt (2+ floats, extra ignored),
// vn (3 floats) and f (exactly 3 corners of the form p/t/n, 1-based).
// Everything else is skipped. Pools are collected before faces are
// resolved, so a face may reference data declared after it.
func ParseOBJ(text string) (*OBJ, error) {
	lines := splitOBJLines(text)

	var positions, normals []math.Vec3
	var uvs []math.Vec2
	var faces []objLine

	// First pass: pools.
	for _, ln := range lines {
		switch ln.fields[0] {
		case "v":
			v, err := parseVec3(ln)
			if err != nil {
				return nil, err
			}
			positions = append(positions, v)
		case "vt":
			uv, err := parseVec2(ln)
			if err != nil {
				return nil, err
			}
			uvs = append(uvs, uv)
		case "vn":
			n, err := parseVec3(ln)
			if err != nil {
				return nil, err
			}
			normals = append(normals, n)
		case "f":
			faces = append(faces, ln)
		}
	}

	obj := &OBJ{
		Positions: make([]math.Vec3, 0, len(faces)*3),
		UVs:       make([]math.Vec2, 0, len(faces)*3),
		Normals:   make([]math.Vec3, 0, len(faces)*3),
	}

	// Second pass: resolve face corners against the pools.
	for _, ln := range faces {
		corners := ln.fields[1:]
		if len(corners) != 3 {
			return nil, &ParseError{
				Line: ln.num,
				Msg:  fmt.Sprintf("face has %d corners, only triangles are supported", len(corners)),
			}
		}
		for _, tok := range corners {
			c, err := parseCorner(ln.num, tok, len(positions), len(uvs), len(normals))
			if err != nil {
				return nil, err
			}
			obj.Positions = append(obj.Positions, positions[c.pos])
			obj.UVs = append(obj.UVs, uvs[c.uv])
			obj.Normals = append(obj.Normals, normals[c.normal])
		}
	}

	obj.VertexCount = len(obj.Positions)
	return obj, nil
}

func splitOBJLines(text string) []objLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	lines := make([]objLine, 0, len(raw))
	for i, s := range raw {
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, objLine{num: i + 1, fields: fields})
	}
	return lines
}

func parseFloats(ln objLine, want int) ([]float32, error) {
	args := ln.fields[1:]
	if len(args) < want {
		return nil, &ParseError{
			Line: ln.num,
			Msg:  fmt.Sprintf("%q needs %d values, got %d", ln.fields[0], want, len(args)),
		}
	}
	out := make([]float32, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, &ParseError{Line: ln.num, Msg: fmt.Sprintf("bad number %q", args[i]), Err: err}
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(ln objLine) (math.Vec3, error) {
	f, err := parseFloats(ln, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func parseVec2(ln objLine) (math.Vec2, error) {
	f, err := parseFloats(ln, 2)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: f[0], Y: f[1]}, nil
}

// parseCorner resolves "p/t/n" into 0-based pool indices.
func parseCorner(line int, tok string, nPos, nUV, nNormal int) (faceCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 3 {
		return faceCorner{}, &ParseError{
			Line: line,
			Msg:  fmt.Sprintf("corner %q must be position/uv/normal", tok),
		}
	}

	pools := [3]struct {
		name string
		size int
	}{
		{"position", nPos},
		{"uv", nUV},
		{"normal", nNormal},
	}

	var idx [3]int
	for i, p := range parts {
		if p == "" {
			return faceCorner{}, &ParseError{
				Line: line,
				Msg:  fmt.Sprintf("corner %q is missing its %s index", tok, pools[i].name),
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return faceCorner{}, &ParseError{Line: line, Msg: fmt.Sprintf("bad index %q", p), Err: err}
		}
		if n < 1 || n > pools[i].size {
			return faceCorner{}, &ParseError{
				Line: line,
				Msg:  fmt.Sprintf("%s index %d out of range [1, %d]", pools[i].name, n, pools[i].size),
			}
		}
		idx[i] = n - 1
	}

	return faceCorner{pos: idx[0], uv: idx[1], normal: idx[2]}, nil
}
