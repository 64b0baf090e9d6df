package gltfload

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gekko3d/gallery/scenegraph"
)

var (
	ErrNoScene   = errors.New("gltf document has no scene")
	ErrNodeCycle = errors.New("gltf node hierarchy contains a cycle")
)

// Load opens a .glb or .gltf file and converts its default scene.
func Load(path string, rules Rules) (*scenegraph.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	root, err := Convert(doc, rules)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return root, nil
}

// Convert builds a node tree for the document's default scene (or the first scene).
func Convert(doc *gltf.Document, rules Rules) (*scenegraph.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIdx := 0
	if i, ok := deref(doc.Scene); ok {
		sceneIdx = i
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: default scene %d out of range", ErrNoScene, sceneIdx)
	}

	gs := doc.Scenes[sceneIdx]
	root := scenegraph.NewNode(gs.Name)
	if root.Name == "" {
		root.Name = "gltf-scene"
	}

	c := converter{doc: doc, rules: rules, meshes: make(map[int]*scenegraph.Mesh), visiting: make(map[int]bool)}
	for _, ni := range gs.Nodes {
		n, err := c.node(index(ni))
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

type converter struct {
	doc      *gltf.Document
	rules    Rules
	meshes   map[int]*scenegraph.Mesh
	visiting map[int]bool
}

func (c *converter) node(idx int) (*scenegraph.Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, fmt.Errorf("%w at node %d", ErrNodeCycle, idx)
	}
	c.visiting[idx] = true
	defer delete(c.visiting, idx)

	gn := c.doc.Nodes[idx]
	n := scenegraph.NewNode(gn.Name)
	n.Transform = nodeTransform(gn)
	n.Tags = c.rules.Classify(gn.Name, gn.Extras)

	if mi, ok := deref(gn.Mesh); ok {
		mesh, err := c.mesh(mi)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", gn.Name, err)
		}
		n.Mesh = mesh
	}

	for _, ci := range gn.Children {
		child, err := c.node(index(ci))
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// mesh merges every triangle primitive of a glTF mesh. Meshes shared between nodes
// are converted once.
func (c *converter) mesh(idx int) (*scenegraph.Mesh, error) {
	if m, ok := c.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}

	var merged *scenegraph.Mesh
	for pi, prim := range c.doc.Meshes[idx].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		posAcc, err := c.accessor(index(posIdx))
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d positions: %w", idx, pi, err)
		}
		positions, err := modeler.ReadPosition(c.doc, posAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d positions: %w", idx, pi, err)
		}

		var indices []uint32
		if ii, ok := deref(prim.Indices); ok {
			idxAcc, err := c.accessor(ii)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d indices: %w", idx, pi, err)
			}
			indices, err = modeler.ReadIndices(c.doc, idxAcc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d indices: %w", idx, pi, err)
			}
		}

		verts := make([]mgl32.Vec3, len(positions))
		for i, p := range positions {
			verts[i] = mgl32.Vec3(p)
		}
		part, err := scenegraph.NewMesh(verts, indices)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", idx, pi, err)
		}

		if merged == nil {
			merged = part
		} else {
			merged.Append(part)
		}
	}

	c.meshes[idx] = merged
	return merged, nil
}

func (c *converter) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return c.doc.Accessors[i], nil
}

func nodeTransform(gn *gltf.Node) scenegraph.Transform {
	if m := matrix(gn.Matrix); m != mgl32.Ident4() && m != (mgl32.Mat4{}) {
		return scenegraph.DecomposeMatrix(m)
	}

	t := scenegraph.IdentityTransform()
	t.Position = vec3(gn.Translation)

	if rot := gn.Rotation; nonZero(rot) {
		// glTF stores quaternions as x, y, z, w.
		t.Rotation = mgl32.Quat{
			W: float32(rot[3]),
			V: mgl32.Vec3{float32(rot[0]), float32(rot[1]), float32(rot[2])},
		}.Normalize()
	}

	if s := vec3(gn.Scale); s != (mgl32.Vec3{}) {
		t.Scale = s
	}
	return t
}

type float interface {
	~float32 | ~float64
}

type integer interface {
	~int | ~int32 | ~uint32
}

func vec3[T float](a [3]T) mgl32.Vec3 {
	return mgl32.Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

func matrix[T float](a [16]T) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range a {
		m[i] = float32(a[i])
	}
	return m
}

func nonZero[T comparable](v T) bool {
	var zero T
	return v != zero
}

func index[T integer](v T) int {
	return int(v)
}

func deref[T integer](p *T) (int, bool) {
	if p == nil {
		return 0, false
	}
	return int(*p), true
}
