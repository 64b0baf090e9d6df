package gallery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"

	"github.com/gekko3d/gallery/gltfload"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Window     WindowConfig     `mapstructure:"window"`
	Assets     AssetsConfig     `mapstructure:"assets"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Picking    PickingConfig    `mapstructure:"picking"`
	Hotspots   HotspotsConfig   `mapstructure:"hotspots"`
	Transition TransitionConfig `mapstructure:"transition"`
	Overlay    OverlayConfig    `mapstructure:"overlay"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Prefix string `mapstructure:"prefix"`
}

type WindowConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Title     string `mapstructure:"title"`
	TargetFPS int    `mapstructure:"targetFps"`
}

type AssetsConfig struct {
	Gallery      string `mapstructure:"gallery"`
	HotspotAux   string `mapstructure:"hotspotAux"`
	Exhibit      string `mapstructure:"exhibit"`
	WatchExhibit bool   `mapstructure:"watchExhibit"`
}

type CameraConfig struct {
	FovY     float32   `mapstructure:"fovY"`
	Near     float32   `mapstructure:"near"`
	Far      float32   `mapstructure:"far"`
	Position []float32 `mapstructure:"position"`
	LookAt   []float32 `mapstructure:"lookAt"`
}

type NavigationConfig struct {
	// Mode is "drag" (drag to look, double click to move) or "pointerlock".
	Mode            string        `mapstructure:"mode"`
	MoveSpeed       float32       `mapstructure:"moveSpeed"`
	LookSensitivity float32       `mapstructure:"lookSensitivity"`
	MinPolarAngle   float32       `mapstructure:"minPolarAngle"`
	MaxPolarAngle   float32       `mapstructure:"maxPolarAngle"`
	DoubleClick     time.Duration `mapstructure:"doubleClick"`
	DoubleClickSlop float64       `mapstructure:"doubleClickSlop"`
}

type PickingConfig struct {
	FloorNames    []string `mapstructure:"floorNames"`
	IgnorePattern string   `mapstructure:"ignorePattern"`
	// HotspotMarker is a substring, not a prefix, of anchor node names.
	HotspotMarker string   `mapstructure:"hotspotMarker"`
}

type HotspotsConfig struct {
	Cutoff       float32 `mapstructure:"cutoff"`
	MarkerRadius float32 `mapstructure:"markerRadius"`
}

type TransitionConfig struct {
	// Mode is "exponential" or "framedelta".
	Mode         string        `mapstructure:"mode"`
	Rate         float32       `mapstructure:"rate"`
	TourDuration time.Duration `mapstructure:"tourDuration"`
}

type OverlayConfig struct {
	Fade time.Duration `mapstructure:"fade"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.prefix", "gallery")

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Gallery")
	v.SetDefault("window.targetFps", 60)

	v.SetDefault("assets.gallery", "assets/richard_art_gallery.glb")
	v.SetDefault("assets.hotspotAux", "")
	v.SetDefault("assets.exhibit", "")
	v.SetDefault("assets.watchExhibit", false)

	v.SetDefault("camera.fovY", 35)
	v.SetDefault("camera.near", 0.1)
	v.SetDefault("camera.far", 10000)
	v.SetDefault("camera.position", []float32{0, 1.6, 5})
	v.SetDefault("camera.lookAt", []float32{0, 1.6, 0})

	v.SetDefault("navigation.mode", "drag")
	v.SetDefault("navigation.moveSpeed", 3)
	v.SetDefault("navigation.lookSensitivity", 0.003)
	v.SetDefault("navigation.minPolarAngle", 45)
	v.SetDefault("navigation.maxPolarAngle", 135)
	v.SetDefault("navigation.doubleClick", "300ms")
	v.SetDefault("navigation.doubleClickSlop", 5)

	v.SetDefault("picking.floorNames", []string{"floor"})
	v.SetDefault("picking.ignorePattern", gltfload.DefaultIgnorePattern)
	v.SetDefault("picking.hotspotMarker", "Point")

	v.SetDefault("hotspots.cutoff", 8)
	v.SetDefault("hotspots.markerRadius", 0.05)

	v.SetDefault("transition.mode", "exponential")
	v.SetDefault("transition.rate", 4)
	v.SetDefault("transition.tourDuration", "2s")

	v.SetDefault("overlay.fade", "250ms")
}

// DefaultConfig returns the built-in configuration. The environment is not consulted.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decodeConfig(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads defaults, then the optional file at path (format by extension),
// then GALLERY_* environment overrides such as GALLERY_NAVIGATION_MODE.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decodeConfig(v)
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Assets.Gallery != "", "assets.gallery is empty")
	check(c.Camera.FovY > 0 && c.Camera.FovY < 180, "camera.fovY %v", c.Camera.FovY)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far %v/%v", c.Camera.Near, c.Camera.Far)
	check(len(c.Camera.Position) == 3, "camera.position needs 3 components")
	check(len(c.Camera.LookAt) == 3, "camera.lookAt needs 3 components")
	check(c.Navigation.Mode == "drag" || c.Navigation.Mode == "pointerlock", "navigation.mode %q", c.Navigation.Mode)
	check(c.Navigation.MinPolarAngle >= 0 && c.Navigation.MaxPolarAngle <= 180 &&
		c.Navigation.MinPolarAngle < c.Navigation.MaxPolarAngle,
		"polar angle range [%v, %v]", c.Navigation.MinPolarAngle, c.Navigation.MaxPolarAngle)
	check(c.Hotspots.Cutoff > 0, "hotspots.cutoff %v", c.Hotspots.Cutoff)
	check(c.Transition.Mode == "exponential" || c.Transition.Mode == "framedelta", "transition.mode %q", c.Transition.Mode)
	check(c.Transition.Rate > 0, "transition.rate %v", c.Transition.Rate)
	if _, err := c.Rules(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}

// Rules builds the asset classification rules from the picking section.
func (c *Config) Rules() (gltfload.Rules, error) {
	return gltfload.NewRules(c.Picking.FloorNames, c.Picking.IgnorePattern, c.Picking.HotspotMarker)
}

// StartPose is the pose the camera rig is constructed with.
func (c *Config) StartPose() CameraPose {
	pos := mgl32.Vec3{c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2]}
	target := mgl32.Vec3{c.Camera.LookAt[0], c.Camera.LookAt[1], c.Camera.LookAt[2]}
	return LookAtPose(pos, target)
}

func (c *Config) BlendMode() BlendMode {
	if c.Transition.Mode == "framedelta" {
		return BlendFrameDelta
	}
	return BlendExponential
}

func (c *Config) Projection() Projection {
	return Projection{
		FovY:   c.Camera.FovY,
		Aspect: float32(c.Window.Width) / float32(c.Window.Height),
		Near:   c.Camera.Near,
		Far:    c.Camera.Far,
	}
}
