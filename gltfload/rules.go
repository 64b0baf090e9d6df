// Package gltfload turns glTF/GLB scene bundles into scenegraph trees.
//
// Content authors mark up the gallery through node names: the walkable mesh is called
// "floor", volumetric light cones keep the exporter's numbered material names and
// hotspot anchors start with "Point". Rules converts those conventions into typed
// scenegraph tags once, at load time. An explicit `"gallery": "<tag>"` entry in a
// node's extras overrides the name conventions.
package gltfload

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gekko3d/gallery/scenegraph"
)

const extrasTagKey = "gallery"

// DefaultIgnorePattern matches the numbered material meshes exported for volume lights.
const DefaultIgnorePattern = `^Material(\.|_)?\d+`

type Rules struct {
	FloorNames    []string
	IgnorePattern *regexp.Regexp
	// HotspotMarker is matched anywhere in a node name, so "Light_Point_2" is an
	// anchor as well as "Point001".
	HotspotMarker string
}

func DefaultRules() Rules {
	return Rules{
		FloorNames:    []string{"floor"},
		IgnorePattern: regexp.MustCompile(DefaultIgnorePattern),
		HotspotMarker: "Point",
	}
}

// NewRules compiles the ignore pattern. An empty pattern disables ignoring.
func NewRules(floorNames []string, ignorePattern, hotspotMarker string) (Rules, error) {
	r := Rules{
		FloorNames:    floorNames,
		HotspotMarker: hotspotMarker,
	}
	if ignorePattern != "" {
		re, err := regexp.Compile(ignorePattern)
		if err != nil {
			return Rules{}, fmt.Errorf("invalid ignore pattern %q: %w", ignorePattern, err)
		}
		r.IgnorePattern = re
	}
	return r, nil
}

// Classify returns the tags for a node. The hotspot rule is a substring match, the
// floor rule an exact (case-insensitive) name match.
func (r Rules) Classify(name string, extras any) scenegraph.Tag {
	if tag, ok := tagFromExtras(extras); ok {
		return tag
	}

	var tag scenegraph.Tag
	for _, floor := range r.FloorNames {
		if strings.EqualFold(name, floor) {
			tag |= scenegraph.TagFloor
			break
		}
	}
	if r.IgnorePattern != nil && r.IgnorePattern.MatchString(name) {
		tag |= scenegraph.TagIgnore
	}
	if r.HotspotMarker != "" && strings.Contains(name, r.HotspotMarker) {
		tag |= scenegraph.TagHotspot
	}
	return tag
}

func tagFromExtras(extras any) (scenegraph.Tag, bool) {
	m, ok := extras.(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := m[extrasTagKey]
	if !ok {
		return 0, false
	}

	switch val := v.(type) {
	case string:
		return scenegraph.ParseTag(val), true
	case []any:
		var tag scenegraph.Tag
		for _, item := range val {
			if s, ok := item.(string); ok {
				tag |= scenegraph.ParseTag(s)
			}
		}
		return tag, true
	}
	return 0, false
}
