package gallery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "assets/richard_art_gallery.glb", cfg.Assets.Gallery)
	assert.Equal(t, float32(35), cfg.Camera.FovY)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.Equal(t, float32(10000), cfg.Camera.Far)
	assert.Equal(t, "drag", cfg.Navigation.Mode)
	assert.Equal(t, 300*time.Millisecond, cfg.Navigation.DoubleClick)
	assert.Equal(t, []string{"floor"}, cfg.Picking.FloorNames)
	assert.Equal(t, "Point", cfg.Picking.HotspotMarker)
	assert.Equal(t, 250*time.Millisecond, cfg.Overlay.Fade)
	assert.Equal(t, 2*time.Second, cfg.Transition.TourDuration)
	assert.Equal(t, BlendExponential, cfg.BlendMode())

	p := cfg.Projection()
	assert.InDelta(t, 1280.0/720.0, p.Aspect, 1e-6)

	pose := cfg.StartPose()
	assert.Equal(t, mgl32.Vec3{0, 1.6, 5}, pose.Position)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, pose.Forward(), 1e-5)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	yaml := `
assets:
  gallery: rooms/east_wing.glb
  exhibit: rooms/east_wing.toml
camera:
  position: [1, 1.7, 2]
navigation:
  mode: pointerlock
  doubleClick: 450ms
transition:
  mode: framedelta
  rate: 1
picking:
  floorNames: [floor, Floor_Main]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "rooms/east_wing.glb", cfg.Assets.Gallery)
	assert.Equal(t, "rooms/east_wing.toml", cfg.Assets.Exhibit)
	assert.Equal(t, []float32{1, 1.7, 2}, cfg.Camera.Position)
	assert.Equal(t, "pointerlock", cfg.Navigation.Mode)
	assert.Equal(t, 450*time.Millisecond, cfg.Navigation.DoubleClick)
	assert.Equal(t, BlendFrameDelta, cfg.BlendMode())
	assert.Equal(t, []string{"floor", "Floor_Main"}, cfg.Picking.FloorNames)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep their defaults")
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GALLERY_NAVIGATION_MODE", "pointerlock")
	t.Setenv("GALLERY_HOTSPOTS_CUTOFF", "12.5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "pointerlock", cfg.Navigation.Mode)
	assert.Equal(t, float32(12.5), cfg.Hotspots.Cutoff)
}

func TestDefaultConfig_IgnoresEnv(t *testing.T) {
	t.Setenv("GALLERY_NAVIGATION_MODE", "orbit")
	t.Setenv("GALLERY_HOTSPOTS_CUTOFF", "12.5")

	var cfg *Config
	require.NotPanics(t, func() { cfg = DefaultConfig() })
	assert.Equal(t, "drag", cfg.Navigation.Mode)
	assert.Equal(t, float32(8), cfg.Hotspots.Cutoff)
	assert.Equal(t, "Point", cfg.Picking.HotspotMarker)

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrInvalidConfig, "LoadConfig still reads the environment")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.json")
	json := `{
		"navigation": {"mode": "orbit", "minPolarAngle": 120, "maxPolarAngle": 60},
		"camera": {"near": 0},
		"picking": {"ignorePattern": "("}
	}`
	require.NoError(t, os.WriteFile(path, []byte(json), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, part := range []string{"navigation.mode", "polar angle", "near/far", "ignore"} {
		assert.Contains(t, err.Error(), part)
	}
}
