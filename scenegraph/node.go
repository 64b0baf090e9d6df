package scenegraph

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of the scene tree. Meshes live in the node's local space.
type Node struct {
	Name      string
	Tags      Tag
	Transform Transform
	Mesh      *Mesh
	Visible   bool

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: IdentityTransform(),
		Visible:   true,
	}
}

func NewMeshNode(name string, mesh *Mesh, tags Tag) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Tags = tags
	return n
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches children, detaching them from any previous parent first.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Remove(child *Node) {
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
}

// Walk visits the subtree depth first, parents before children. Returning false from
// fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

func (n *Node) FindTagged(tag Tag) []*Node {
	var res []*Node
	n.Walk(func(c *Node) bool {
		if c.Tags.Has(tag) {
			res = append(res, c)
		}
		return true
	})
	return res
}

// WorldMatrix composes the transforms from the root down to this node.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldBounds is the world AABB of every mesh in the subtree. ok is false when the
// subtree has no geometry.
func (n *Node) WorldBounds() (bmin, bmax mgl32.Vec3, ok bool) {
	inf := float32(math.Inf(1))
	bmin = mgl32.Vec3{inf, inf, inf}
	bmax = mgl32.Vec3{-inf, -inf, -inf}

	var visit func(node *Node, parentWorld mgl32.Mat4)
	visit = func(node *Node, parentWorld mgl32.Mat4) {
		world := parentWorld.Mul4(node.Transform.Matrix())
		if node.Mesh != nil && len(node.Mesh.Positions) > 0 {
			lmin, lmax := node.Mesh.Bounds()
			for _, corner := range boxCorners(lmin, lmax) {
				w := mgl32.TransformCoordinate(corner, world)
				for k := 0; k < 3; k++ {
					bmin[k] = min(bmin[k], w[k])
					bmax[k] = max(bmax[k], w[k])
				}
			}
			ok = true
		}
		for _, c := range node.children {
			visit(c, world)
		}
	}

	parentWorld := mgl32.Ident4()
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	}
	visit(n, parentWorld)
	return bmin, bmax, ok
}

func boxCorners(bmin, bmax mgl32.Vec3) [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{bmin[0], bmin[1], bmin[2]},
		{bmax[0], bmin[1], bmin[2]},
		{bmin[0], bmax[1], bmin[2]},
		{bmax[0], bmax[1], bmin[2]},
		{bmin[0], bmin[1], bmax[2]},
		{bmax[0], bmin[1], bmax[2]},
		{bmin[0], bmax[1], bmax[2]},
		{bmax[0], bmax[1], bmax[2]},
	}
}
