package scenegraph

import "strings"

// Tag classifies a node for runtime queries. Tags are attached once, when an asset is
// processed, and the runtime never looks at node names again.
type Tag uint8

const (
	// TagFloor marks walkable geometry.
	TagFloor Tag = 1 << iota
	// TagIgnore marks decoration that rays pass through (volumetric light meshes).
	TagIgnore
	// TagHotspot marks a point of interest anchor.
	TagHotspot
)

func (t Tag) Has(other Tag) bool {
	return t&other == other && other != 0
}

func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	if t.Has(TagFloor) {
		parts = append(parts, "floor")
	}
	if t.Has(TagIgnore) {
		parts = append(parts, "ignore")
	}
	if t.Has(TagHotspot) {
		parts = append(parts, "hotspot")
	}
	return strings.Join(parts, "|")
}

// ParseTag maps an authored tag name to a Tag. Unknown names yield 0.
func ParseTag(name string) Tag {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "floor":
		return TagFloor
	case "ignore":
		return TagIgnore
	case "hotspot":
		return TagHotspot
	}
	return 0
}
