package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gallery/gltfload"
	"github.com/gekko3d/gallery/scenegraph"
)

type galleryHarness struct {
	app      *App
	source   *scriptedInput
	renderer *countingRenderer
	sink     *recordingSink
	w        *Walkthrough
}

func newGalleryHarness(t *testing.T, cfg *Config, loader SceneLoader) *galleryHarness {
	t.Helper()
	if loader == nil {
		loader = func(path string, rules gltfload.Rules) (*scenegraph.Node, error) {
			return galleryRoot(), nil
		}
	}
	h := &galleryHarness{
		source:   newScriptedInput(800, 600),
		renderer: &countingRenderer{},
		sink:     &recordingSink{},
	}
	h.app = NewAppBuilder().
		UseStates(StateLoading, StateShutdown).
		UseModule(
			LoggingModule{Logger: NewNopLogger()},
			TimeModule{FixedStep: 16 * time.Millisecond},
			InputModule{Source: h.source, DoubleClick: cfg.Navigation.DoubleClick},
			AssetServerModule{Loader: loader},
			GalleryModule{Config: cfg, Sink: h.sink, RenderHook: h.renderer},
		).
		Build()
	w, ok := Resource[Walkthrough](h.app)
	require.True(t, ok)
	h.w = w
	return h
}

func (h *galleryHarness) waitReady(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		h.app.Step()
		return h.app.State() == StateWalkthrough
	}, 5*time.Second, time.Millisecond)
}

func (h *galleryHarness) steps(n int) {
	for i := 0; i < n; i++ {
		h.app.Step()
	}
}

func TestGalleryModule_LoadsAndRenders(t *testing.T) {
	h := newGalleryHarness(t, DefaultConfig(), nil)
	assert.Equal(t, StateLoading, h.app.State())
	h.waitReady(t)
	assert.Zero(t, h.renderer.frames, "nothing is rendered while loading")

	h.steps(3)
	assert.Equal(t, 3, h.renderer.frames)
	assert.Equal(t, 1, MakeQuery1[HotspotComponent](h.app.Commands()).Count())

	hs := h.w.Hotspots.Hotspots()
	require.Len(t, hs, 1)
	assert.Equal(t, "Point_Monet", hs[0].Name)
	assert.False(t, hs[0].Visible, "the anchor is beyond the cutoff from the start pose")
	assert.Equal(t, float32(800)/600, h.w.Rig.Projection().Aspect)
}

func TestGalleryModule_DoubleClickMovesAcrossFloor(t *testing.T) {
	h := newGalleryHarness(t, DefaultConfig(), nil)
	h.waitReady(t)
	start := h.w.Rig.Position()

	for i := 0; i < 2; i++ {
		h.source.next.MouseX, h.source.next.MouseY = 400, 500
		h.source.next.Keys[MouseButtonLeft] = true
		h.steps(1)
		h.source.next.Keys[MouseButtonLeft] = false
		h.steps(1)
	}
	target, ok := h.w.Animator.Target()
	require.True(t, ok)
	assert.InDelta(t, start.Y(), target.Y(), 1e-5, "eye height is kept")
	assert.Less(t, target.Z(), start.Z())

	h.steps(120)
	pos := h.w.Rig.Position()
	assert.InDelta(t, target.Z(), pos.Z(), 0.05)
	assert.InDelta(t, start.Y(), pos.Y(), 1e-5)
}

func TestGalleryModule_Exhibit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assets.Exhibit = writeExhibit(t, t.TempDir(), sampleExhibit)
	h := newGalleryHarness(t, cfg, nil)
	h.waitReady(t)

	assert.Len(t, h.w.Tour.Waypoints(), 2)
	hs := h.w.Hotspots.Hotspots()
	require.Len(t, hs, 1)
	assert.Equal(t, "Water Lilies", hs[0].Payload.Title)

	h.source.next.Keys[TourAdvanceKey] = true
	h.steps(1)
	h.source.next.Keys[TourAdvanceKey] = false
	assert.Equal(t, 0, h.w.Tour.Index())
	assert.True(t, h.w.Animator.Active())
}

func TestGalleryModule_LoadErrorAborts(t *testing.T) {
	errMissing := errors.New("no such file")
	h := newGalleryHarness(t, DefaultConfig(), func(path string, rules gltfload.Rules) (*scenegraph.Node, error) {
		return nil, errMissing
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := h.app.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.NotEqual(t, StateWalkthrough, h.app.State())
	assert.Zero(t, h.renderer.frames)
}

func TestGalleryModule_CloseRequestQuits(t *testing.T) {
	h := newGalleryHarness(t, DefaultConfig(), nil)
	h.waitReady(t)

	h.source.next.CloseRequested = true
	assert.False(t, h.app.Step())
	assert.Equal(t, StateShutdown, h.app.State())
	assert.False(t, h.app.Step())
}

func TestGalleryModule_RequiresInput(t *testing.T) {
	assert.PanicsWithValue(t, "GalleryModule requires InputModule", func() {
		NewAppBuilder().UseStates(StateLoading, StateShutdown).UseModule(GalleryModule{}).Build()
	})
}

func markerLoader(auxErr error) SceneLoader {
	return func(path string, rules gltfload.Rules) (*scenegraph.Node, error) {
		if path != "markers.glb" {
			return galleryRoot(), nil
		}
		if auxErr != nil {
			return nil, auxErr
		}
		root := scenegraph.NewNode("markers")
		marker := scenegraph.NewNode("Point_Sculpture")
		marker.Tags = scenegraph.TagHotspot
		marker.Transform.Position = mgl32.Vec3{2, 1, 1}
		root.Add(marker)
		return root, nil
	}
}

func TestGalleryModule_AuxHotspotAsset(t *testing.T) {
	t.Run("adds markers", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Assets.HotspotAux = "markers.glb"
		h := newGalleryHarness(t, cfg, markerLoader(nil))
		h.waitReady(t)
		h.steps(1)

		var names []string
		for _, hs := range h.w.Hotspots.Hotspots() {
			names = append(names, hs.Name)
		}
		assert.ElementsMatch(t, []string{"Point_Monet", "Point_Sculpture"}, names)
		assert.Equal(t, 2, MakeQuery1[HotspotComponent](h.app.Commands()).Count())
		assert.Nil(t, h.w.Scene.Root.Find("markers"), "marker asset stays out of the occlusion scene")
	})

	t.Run("failure aborts", func(t *testing.T) {
		errMarkers := errors.New("markers missing")
		cfg := DefaultConfig()
		cfg.Assets.HotspotAux = "markers.glb"
		h := newGalleryHarness(t, cfg, markerLoader(errMarkers))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := h.app.Run(ctx)
		assert.ErrorIs(t, err, errMarkers)
		assert.Contains(t, err.Error(), "markers.glb")
		assert.Equal(t, StateLoading, h.app.State())
		assert.Zero(t, h.renderer.frames)
	})
}

func TestGalleryModule_ExhibitHotReload(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Assets.Exhibit = writeExhibit(t, dir, sampleExhibit)
	cfg.Assets.WatchExhibit = true
	h := newGalleryHarness(t, cfg, nil)
	h.waitReady(t)
	require.Len(t, h.w.Tour.Waypoints(), 2)
	require.NotNil(t, h.w.watcher)

	updated := `
[[waypoint]]
name = "bench"
position = [1.0, 1.6, 1.0]
orientation = [0.0, 0.0, 0.0, 1.0]

[hotspot.Point_Monet]
title = "Nympheas"
`
	writeExhibit(t, dir, updated)

	assert.Eventually(t, func() bool {
		h.app.Step()
		wps := h.w.Tour.Waypoints()
		return len(wps) == 1 && wps[0].Name == "bench" &&
			h.w.Hotspots.Hotspots()[0].Payload.Title == "Nympheas"
	}, 5*time.Second, 10*time.Millisecond)

	h.source.next.CloseRequested = true
	h.steps(1)
	assert.Nil(t, h.w.watcher, "the watcher is closed when the walkthrough ends")
}
