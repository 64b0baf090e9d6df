package gallery

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/gallery/scenegraph"
)

// occlusionBias keeps surfaces the anchor sits on from hiding it.
const occlusionBias = 1e-3

type HotspotComponent struct {
	ID     uuid.UUID
	Name   string
	Anchor mgl32.Vec3
	// Visible is recomputed every frame from distance and occlusion.
	Visible  bool
	Distance float32
	// Screen is the anchor in normalized device coordinates. OnScreen is false when
	// the anchor is behind the camera or outside the view.
	Screen   mgl32.Vec2
	OnScreen bool
	Payload  OverlayContent

	node *scenegraph.Node
}

// Catalog looks up authored overlay content by anchor name.
type Catalog func(name string) (OverlayContent, bool)

// IsHotspotVisible reports whether an anchor can be seen from eye: it must lie within
// cutoff and no scene geometry may be strictly closer along the line of sight.
// Decoration and other anchors never occlude.
func IsHotspotVisible(scene *scenegraph.Scene, eye, anchor mgl32.Vec3, cutoff float32) (bool, float32) {
	dist := anchor.Sub(eye).Len()
	if dist > cutoff {
		return false, dist
	}
	if dist < 1e-6 {
		return true, dist
	}
	ray := scenegraph.RayTowards(eye, anchor)
	hits := scene.Raycast(ray, scenegraph.WithoutTags(scenegraph.TagIgnore|scenegraph.TagHotspot))
	if len(hits) > 0 && hits[0].Distance < dist-occlusionBias {
		return false, dist
	}
	return true, dist
}

// HotspotRegistry owns the hotspots of the loaded gallery and keeps their visibility
// current.
type HotspotRegistry struct {
	scene *scenegraph.Scene
	rig   *CameraRig
	log   Logger

	Cutoff       float32
	MarkerRadius float32

	catalog  Catalog
	hotspots []*HotspotComponent
}

func NewHotspotRegistry(scene *scenegraph.Scene, rig *CameraRig, cutoff, markerRadius float32, log Logger) *HotspotRegistry {
	if log == nil {
		log = NewNopLogger()
	}
	return &HotspotRegistry{
		scene:        scene,
		rig:          rig,
		log:          log,
		Cutoff:       cutoff,
		MarkerRadius: markerRadius,
	}
}

func (r *HotspotRegistry) Hotspots() []*HotspotComponent {
	return r.hotspots
}

// SetCatalog replaces the payload source and refreshes every payload.
func (r *HotspotRegistry) SetCatalog(catalog Catalog) {
	r.catalog = catalog
	for _, h := range r.hotspots {
		h.Payload = r.payload(h.Name)
	}
}

// Populate adds one hotspot per anchor node under root. Nodes already registered
// are skipped. It returns the new hotspots.
func (r *HotspotRegistry) Populate(root *scenegraph.Node) []*HotspotComponent {
	if root == nil {
		return nil
	}
	var added []*HotspotComponent
	for _, n := range root.FindTagged(scenegraph.TagHotspot) {
		if r.registered(n) {
			continue
		}
		h := &HotspotComponent{
			ID:      uuid.New(),
			Name:    n.Name,
			Anchor:  n.WorldPosition(),
			Payload: r.payload(n.Name),
			node:    n,
		}
		r.hotspots = append(r.hotspots, h)
		added = append(added, h)
		r.log.Debugf("hotspot %q at %v", h.Name, h.Anchor)
	}
	return added
}

// PopulateAux adds the anchors of an auxiliary marker asset. The asset is not part of
// the occlusion scene.
func (r *HotspotRegistry) PopulateAux(root *scenegraph.Node) []*HotspotComponent {
	return r.Populate(root)
}

func (r *HotspotRegistry) registered(n *scenegraph.Node) bool {
	for _, h := range r.hotspots {
		if h.node == n {
			return true
		}
	}
	return false
}

func (r *HotspotRegistry) payload(name string) OverlayContent {
	if r.catalog != nil {
		if c, ok := r.catalog(name); ok {
			return c
		}
	}
	return OverlayContent{Kind: ContentText, Title: name, Body: fmt.Sprintf("Point of interest %s", name)}
}

func (r *HotspotRegistry) Update(dt float32) {
	eye := r.rig.Position()
	for _, h := range r.hotspots {
		h.Visible, h.Distance = IsHotspotVisible(r.scene, eye, h.Anchor, r.Cutoff)
		ndc, ok := r.rig.Project(h.Anchor)
		h.Screen = mgl32.Vec2{ndc.X(), ndc.Y()}
		h.OnScreen = ok
	}
}

// HitTest returns the nearest visible hotspot whose marker covers the given point.
// The marker radius is in normalized device units of screen height.
func (r *HotspotRegistry) HitTest(ndcX, ndcY float32) (*HotspotComponent, bool) {
	aspect := r.rig.Projection().Aspect
	if aspect <= 0 {
		aspect = 1
	}
	var best *HotspotComponent
	for _, h := range r.hotspots {
		if !h.Visible || !h.OnScreen {
			continue
		}
		dx := (h.Screen.X() - ndcX) * aspect
		dy := h.Screen.Y() - ndcY
		if dx*dx+dy*dy > r.MarkerRadius*r.MarkerRadius {
			continue
		}
		if best == nil || h.Distance < best.Distance {
			best = h
		}
	}
	return best, best != nil
}
