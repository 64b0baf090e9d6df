package gallery

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gallery/scenegraph"
)

type PickOutcome int

const (
	// PickEmpty means the ray hit nothing relevant.
	PickEmpty PickOutcome = iota
	PickFloor
	// PickOccluded means the first relevant hit was not floor.
	PickOccluded
)

func (o PickOutcome) String() string {
	switch o {
	case PickFloor:
		return "floor"
	case PickOccluded:
		return "occluded"
	}
	return "empty"
}

// PickResult is a floor point or none. Callers that only care about movement use Ok;
// the outcome keeps the two kinds of none apart for diagnostics.
type PickResult struct {
	Outcome  PickOutcome
	Point    mgl32.Vec3
	Distance float32
	// Node is the first relevant node hit, floor or occluder.
	Node *scenegraph.Node
}

func (r PickResult) Ok() bool {
	return r.Outcome == PickFloor
}

// FloorPicker turns a screen point into a walkable floor point.
type FloorPicker struct {
	scene *scenegraph.Scene
}

func NewFloorPicker(scene *scenegraph.Scene) *FloorPicker {
	return &FloorPicker{scene: scene}
}

// Pick casts a ray through the given normalized device coordinates. Ignored meshes
// (volume lights) are skipped. The first remaining hit decides the result.
func (p *FloorPicker) Pick(ndcX, ndcY float32, rig *CameraRig) PickResult {
	return p.PickRay(rig.ScreenRay(ndcX, ndcY))
}

func (p *FloorPicker) PickRay(ray scenegraph.Ray) PickResult {
	for _, hit := range p.scene.Raycast(ray, nil) {
		if hit.Node.Tags.Has(scenegraph.TagIgnore) {
			continue
		}
		if hit.Node.Tags.Has(scenegraph.TagFloor) {
			return PickResult{Outcome: PickFloor, Point: hit.Point, Distance: hit.Distance, Node: hit.Node}
		}
		return PickResult{Outcome: PickOccluded, Distance: hit.Distance, Node: hit.Node}
	}
	return PickResult{Outcome: PickEmpty}
}
