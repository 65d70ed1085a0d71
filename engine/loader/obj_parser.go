package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// ErrMalformed is returned when mesh text cannot be parsed.
var ErrMalformed = errors.New("loader: malformed mesh data")

// ErrLayoutMismatch is returned when a loaded mesh would replace a built-in
// primitive of a different vertex layout.
var ErrLayoutMismatch = errors.New("loader: mesh layout does not match built-in")

// objIgnored lists directives that carry no geometry.
var objIgnored = map[string]struct{}{
	"o": {}, "g": {}, "s": {}, "l": {}, "mtllib": {}, "usemtl": {}, "vp": {},
}

type objCorner struct {
	v, vt, vn int
}

type objParser struct {
	positions []common.Vec3
	texcoords [][2]float32
	normals   []common.Vec3
	out       []float32
	line      int
}

// ParseVertices parses Wavefront-style text (v, vt, vn and f directives) into a
// flat triangle list in mesh.LayoutNormal format. Polygons are fan-triangulated;
// faces without normals get a flat face normal.
//
// Parameters:
//   - r: the mesh text
//
// Returns:
//   - []float32: mesh.FloatsPerVertex floats per vertex
//   - int: the vertex count
//   - error: ErrMalformed wrapped with the offending line
func ParseVertices(r io.Reader) ([]float32, int, error) {
	p := &objParser{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, 0, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read mesh text: %w", err)
	}
	if len(p.out) == 0 {
		return nil, 0, fmt.Errorf("%w: no faces", ErrMalformed)
	}
	return p.out, len(p.out) / mesh.FloatsPerVertex, nil
}

// Parse parses mesh text into a named mesh.
//
// Parameters:
//   - name: the mesh identifier
//   - r: the mesh text
//
// Returns:
//   - mesh.Mesh: the parsed mesh
//   - error: ErrMalformed wrapped with the offending line
func Parse(name string, r io.Reader) (mesh.Mesh, error) {
	vertices, _, err := ParseVertices(r)
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(mesh.WithName(name), mesh.WithLayout(mesh.LayoutNormal), mesh.WithVertices(vertices))
}

func (p *objParser) fail(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, p.line, fmt.Sprintf(format, args...))
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		f, err := p.floats(fields[1:], 3, 4)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, common.Vec3{f[0], f[1], f[2]})
	case "vn":
		f, err := p.floats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, common.Vec3{f[0], f[1], f[2]}.Normalize())
	case "vt":
		f, err := p.floats(fields[1:], 1, 3)
		if err != nil {
			return err
		}
		uv := [2]float32{f[0], 0}
		if len(f) > 1 {
			uv[1] = f[1]
		}
		p.texcoords = append(p.texcoords, uv)
	case "f":
		return p.face(fields[1:])
	default:
		if _, ok := objIgnored[fields[0]]; !ok {
			return p.fail("unknown directive %q", fields[0])
		}
	}
	return nil
}

func (p *objParser) floats(fields []string, lo, hi int) ([]float32, error) {
	if len(fields) < lo || len(fields) > hi {
		return nil, p.fail("want %d to %d values, got %d", lo, hi, len(fields))
	}
	out := make([]float32, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, p.fail("bad number %q", s)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// resolve turns a 1-based (or negative, relative) index into a 0-based one.
// An empty string means the attribute is absent and yields -1.
func (p *objParser) resolve(s string, n int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.fail("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, p.fail("index %d out of range (%d defined)", i, n)
	}
}

func (p *objParser) corner(s string) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objCorner{}, p.fail("bad face corner %q", s)
	}
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	c := objCorner{}
	var err error
	if parts[0] == "" {
		return c, p.fail("face corner %q has no position", s)
	}
	if c.v, err = p.resolve(parts[0], len(p.positions)); err != nil {
		return c, err
	}
	if c.vt, err = p.resolve(parts[1], len(p.texcoords)); err != nil {
		return c, err
	}
	if c.vn, err = p.resolve(parts[2], len(p.normals)); err != nil {
		return c, err
	}
	return c, nil
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return p.fail("face needs at least 3 corners, got %d", len(fields))
	}
	corners := make([]objCorner, len(fields))
	for i, f := range fields {
		c, err := p.corner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		p.triangle(corners[0], corners[i], corners[i+1])
	}
	return nil
}

func (p *objParser) triangle(a, b, c objCorner) {
	pa, pb, pc := p.positions[a.v], p.positions[b.v], p.positions[c.v]
	flat := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
	for _, k := range [...]objCorner{a, b, c} {
		pos := p.positions[k.v]
		n := flat
		if k.vn >= 0 {
			n = p.normals[k.vn]
		}
		var uv [2]float32
		if k.vt >= 0 {
			uv = p.texcoords[k.vt]
		}
		p.out = append(p.out,
			pos[0], pos[1], pos[2], 1,
			n[0], n[1], n[2], 0,
			uv[0], uv[1],
		)
	}
}
