package scenegraph

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene owns the root of the node tree that rays are cast against.
type Scene struct {
	Root       *Node
	Background mgl32.Vec3
}

func NewScene() *Scene {
	return &Scene{Root: NewNode("scene")}
}

func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// Empty reports whether any geometry has been added.
func (s *Scene) Empty() bool {
	empty := true
	s.Root.Walk(func(n *Node) bool {
		if n.Mesh != nil {
			empty = false
			return false
		}
		return true
	})
	return empty
}

// Intersection is one ray hit. Distance is measured in world units from the ray origin.
type Intersection struct {
	Distance float32
	Point    mgl32.Vec3
	Node     *Node
	Face     int
}

// Filter decides whether a mesh node takes part in a raycast.
type Filter func(*Node) bool

// WithoutTags rejects nodes carrying any of the given tags.
func WithoutTags(tags Tag) Filter {
	return func(n *Node) bool {
		return n.Tags&tags == 0
	}
}

// Raycast returns every hit against visible meshes, nearest first. There is no spatial
// index: each call walks the whole tree.
func (s *Scene) Raycast(ray Ray, filter Filter) []Intersection {
	if s == nil || s.Root == nil {
		return nil
	}
	var hits []Intersection

	var visit func(n *Node, parentWorld mgl32.Mat4)
	visit = func(n *Node, parentWorld mgl32.Mat4) {
		if !n.Visible {
			return
		}
		world := parentWorld.Mul4(n.Transform.Matrix())
		if n.Mesh != nil && (filter == nil || filter(n)) {
			hits = intersectMesh(ray, n, world, hits)
		}
		for _, c := range n.children {
			visit(c, world)
		}
	}
	visit(s.Root, mgl32.Ident4())

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// intersectMesh moves the ray into object space without renormalizing the direction,
// so the triangle parameter is still the world-space distance.
func intersectMesh(ray Ray, n *Node, world mgl32.Mat4, hits []Intersection) []Intersection {
	if mgl32.Abs(world.Det()) < 1e-12 {
		return hits
	}
	w2o := world.Inv()
	local := Ray{
		Origin:    mgl32.TransformCoordinate(ray.Origin, w2o),
		Direction: w2o.Mul4x1(ray.Direction.Vec4(0)).Vec3(),
	}

	bmin, bmax := n.Mesh.Bounds()
	if bmin.X() > bmax.X() {
		return hits
	}
	if _, ok := local.IntersectAABB(bmin, bmax); !ok {
		return hits
	}

	for f := 0; f < n.Mesh.TriangleCount(); f++ {
		a, b, c := n.Mesh.Triangle(f)
		t, ok := local.IntersectTriangle(a, b, c)
		if !ok {
			continue
		}
		hits = append(hits, Intersection{
			Distance: t * ray.Direction.Len(),
			Point:    ray.At(t),
			Node:     n,
			Face:     f,
		})
	}
	return hits
}
