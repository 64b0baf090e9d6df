package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Waypoint is an authored camera pose of the tour. Orientation is a quaternion in
// x, y, z, w order. LookAt, when set, overrides it.
type Waypoint struct {
	Name        string      `toml:"name"`
	Position    [3]float32  `toml:"position"`
	Orientation [4]float32  `toml:"orientation"`
	LookAt      *[3]float32 `toml:"look_at,omitempty"`
}

type HotspotEntry struct {
	Kind  string `toml:"kind"`
	Title string `toml:"title"`
	Body  string `toml:"body,omitempty"`
	URL   string `toml:"url,omitempty"`
	// Image is a local image file used to size image panels.
	Image string `toml:"image,omitempty"`
}

// Exhibit is the authored content that goes with a gallery model: tour waypoints and
// overlay content keyed by anchor name.
type Exhibit struct {
	Waypoints []Waypoint              `toml:"waypoint"`
	Hotspots  map[string]HotspotEntry `toml:"hotspot"`

	baseDir string
}

func LoadExhibit(path string) (*Exhibit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading exhibit: %w", err)
	}
	ex, err := ParseExhibit(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ex.baseDir = filepath.Dir(path)
	return ex, nil
}

func ParseExhibit(data []byte) (*Exhibit, error) {
	var ex Exhibit
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ex); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("error decoding exhibit: %s", strict.String())
		}
		return nil, fmt.Errorf("error decoding exhibit: %w", err)
	}
	for name, entry := range ex.Hotspots {
		if _, err := ParseContentKind(entry.Kind); err != nil {
			return nil, fmt.Errorf("hotspot %s: %w", name, err)
		}
	}
	return &ex, nil
}

func (w Waypoint) Pose() CameraPose {
	pos := mgl32.Vec3(w.Position)
	if w.LookAt != nil {
		return LookAtPose(pos, mgl32.Vec3(*w.LookAt))
	}
	o := w.Orientation
	return NewCameraPose(pos, mgl32.Quat{W: o[3], V: mgl32.Vec3{o[0], o[1], o[2]}})
}

func WaypointFromPose(name string, pose CameraPose) Waypoint {
	q := pose.Orientation
	return Waypoint{
		Name:        name,
		Position:    [3]float32(pose.Position),
		Orientation: [4]float32{q.V.X(), q.V.Y(), q.V.Z(), q.W},
	}
}

// MarshalWaypoint renders a waypoint as a TOML array table entry ready to paste into
// an exhibit file.
func MarshalWaypoint(w Waypoint) (string, error) {
	out, err := toml.Marshal(struct {
		Waypoint []Waypoint `toml:"waypoint"`
	}{Waypoint: []Waypoint{w}})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Catalog resolves every hotspot entry once. Image sizes are read from local files;
// a missing or unreadable image is logged and leaves the size unknown.
func (ex *Exhibit) Catalog(log Logger) Catalog {
	if log == nil {
		log = NewNopLogger()
	}
	contents := make(map[string]OverlayContent, len(ex.Hotspots))
	for name, entry := range ex.Hotspots {
		kind, _ := ParseContentKind(entry.Kind)
		c := OverlayContent{
			Kind:  kind,
			Title: entry.Title,
			Body:  entry.Body,
			URL:   entry.URL,
		}
		if entry.Image != "" {
			path := entry.Image
			if !filepath.IsAbs(path) && ex.baseDir != "" {
				path = filepath.Join(ex.baseDir, path)
			}
			info, err := DescribeImageFile(path)
			if err != nil {
				log.Warnf("hotspot %s: %v", name, err)
			}
			c.Image = info
			if c.URL == "" {
				c.URL = entry.Image
			}
		}
		contents[name] = c
	}
	return func(name string) (OverlayContent, bool) {
		c, ok := contents[name]
		return c, ok
	}
}
