package scenegraph

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is indexed triangle geometry in the owning node's local space.
type Mesh struct {
	Positions []mgl32.Vec3
	Indices   []uint32

	min, max mgl32.Vec3
}

// NewMesh copies nothing; the slices are owned by the mesh afterwards.
// A nil index slice means the positions are a plain triangle list.
func NewMesh(positions []mgl32.Vec3, indices []uint32) (*Mesh, error) {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("mesh index %d out of range (%d positions)", idx, len(positions))
		}
	}

	m := &Mesh{Positions: positions, Indices: indices}
	m.computeBounds()
	return m, nil
}

// Append merges another primitive into the mesh.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
	m.computeBounds()
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Positions[m.Indices[3*i]], m.Positions[m.Indices[3*i+1]], m.Positions[m.Indices[3*i+2]]
}

// Bounds returns the local-space AABB. An empty mesh has min > max.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	return m.min, m.max
}

func (m *Mesh) computeBounds() {
	inf := float32(math.Inf(1))
	m.min = mgl32.Vec3{inf, inf, inf}
	m.max = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range m.Positions {
		for k := 0; k < 3; k++ {
			m.min[k] = min(m.min[k], p[k])
			m.max[k] = max(m.max[k], p[k])
		}
	}
}

// Box builds an axis aligned box mesh centered on the origin.
func Box(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2
	positions := []mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	m, _ := NewMesh(positions, indices)
	return m
}

// Plane builds a horizontal quad in the XZ plane facing +Y.
func Plane(width, depth float32) *Mesh {
	hx, hz := width/2, depth/2
	positions := []mgl32.Vec3{
		{-hx, 0, -hz}, {hx, 0, -hz}, {hx, 0, hz}, {-hx, 0, hz},
	}
	m, _ := NewMesh(positions, []uint32{0, 2, 1, 0, 3, 2})
	return m
}
