package gallery

import (
	"github.com/gekko3d/gallery/gltfload"
	"github.com/gekko3d/gallery/scenegraph"
)

// Walkthrough holds every component of the running gallery. Components reference
// each other through constructor arguments only.
type Walkthrough struct {
	Config     *Config
	Scene      *scenegraph.Scene
	Rig        *CameraRig
	Picker     *FloorPicker
	Animator   *TransitionAnimator
	Hotspots   *HotspotRegistry
	Overlay    *OverlayPresenter
	Tour       *TourController
	Navigation Updatable
	Driver     *FrameDriver

	rules   gltfload.Rules
	gallery *Future[*scenegraph.Node]
	aux     *Future[*scenegraph.Node]
	watcher *ExhibitWatcher
}

// hotspotState tracks per entity visibility so changes can be reported.
type hotspotState struct {
	wasVisible bool
}

// GalleryModule wires the walkthrough into an app built with
// UseStates(StateLoading, StateShutdown). InputModule, TimeModule and
// AssetServerModule must be installed before it.
type GalleryModule struct {
	Config     *Config
	Sink       PanelSink
	RenderHook RenderHook
	Surfaces   []Surface
}

func (m GalleryModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	input, ok := Resource[Input](app)
	if !ok {
		panic("GalleryModule requires InputModule")
	}
	rules, err := cfg.Rules()
	if err != nil {
		panic(err)
	}
	log := app.Logger()

	w := newWalkthrough(cfg, input, m.Sink, log)
	w.rules = rules
	w.Driver.SetRenderHook(m.RenderHook)
	for _, s := range m.Surfaces {
		w.Rig.AddSurface(s)
	}
	cmd.AddResources(w)

	app.UseSystem(
		System(windowCloseSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(viewportSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(startLoadingSystem).
			InStage(PreUpdate).
			InState(OnEnter(StateLoading)),
	)
	app.UseSystem(
		System(awaitAssetsSystem).
			InStage(PreUpdate).
			InState(OnExecute(StateLoading)),
	)
	app.UseSystem(
		System(exhibitReloadSystem).
			InStage(PreUpdate).
			InState(OnExecute(StateWalkthrough)),
	)
	app.UseSystem(
		System(walkthroughFrameSystem).
			InStage(Update).
			InState(OnExecute(StateWalkthrough)),
	)
	app.UseSystem(
		System(hotspotVisibilitySystem).
			InStage(PostUpdate).
			InState(OnExecute(StateWalkthrough)),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render).
			InState(OnExecute(StateWalkthrough)),
	)
	app.UseSystem(
		System(stopWatchingSystem).
			InStage(Finale).
			InState(OnExit(StateWalkthrough)),
	)
}

func newWalkthrough(cfg *Config, input *Input, sink PanelSink, log Logger) *Walkthrough {
	scene := scenegraph.NewScene()
	rig := NewCameraRig(cfg.StartPose(), cfg.Projection())
	animator := NewTransitionAnimator(rig, cfg.BlendMode(), cfg.Transition.Rate)
	picker := NewFloorPicker(scene)
	hotspots := NewHotspotRegistry(scene, rig, cfg.Hotspots.Cutoff, cfg.Hotspots.MarkerRadius, log)
	overlay := NewOverlayPresenter(sink, cfg.Overlay.Fade, log)
	tour := NewTourController(rig, input, animator, log)
	if cfg.Transition.TourDuration > 0 {
		tour.Duration = cfg.Transition.TourDuration
	}

	limits := PolarLimitsDegrees(cfg.Navigation.MinPolarAngle, cfg.Navigation.MaxPolarAngle)
	var nav Updatable
	if cfg.Navigation.Mode == "pointerlock" {
		c := NewPointerLockController(rig, input, animator, log)
		c.Speed = cfg.Navigation.MoveSpeed
		c.Sensitivity = cfg.Navigation.LookSensitivity
		c.Limits = limits
		nav = c
	} else {
		c := NewDragLookController(rig, input, picker, animator, hotspots, overlay, log)
		c.Sensitivity = cfg.Navigation.LookSensitivity
		c.Limits = limits
		nav = c
	}

	driver := NewFrameDriver(scene, rig)
	driver.Register(PhaseNavigation, nav)
	driver.Register(PhaseNavigation, tour)
	driver.Register(PhaseTransition, animator)
	driver.Register(PhaseTransition, rig)
	driver.Register(PhaseVisibility, hotspots)
	driver.Register(PhasePresentation, overlay)

	return &Walkthrough{
		Config:     cfg,
		Scene:      scene,
		Rig:        rig,
		Picker:     picker,
		Animator:   animator,
		Hotspots:   hotspots,
		Overlay:    overlay,
		Tour:       tour,
		Navigation: nav,
		Driver:     driver,
	}
}

func windowCloseSystem(input *Input, cmd *Commands) {
	if input.CloseRequested {
		cmd.Logger().Infof("window close requested")
		cmd.Quit()
	}
}

func viewportSystem(input *Input, w *Walkthrough, cmd *Commands) {
	if !input.Resized {
		return
	}
	w.Rig.SetViewport(input.WindowWidth, input.WindowHeight)
	cmd.Logger().Debugf("viewport %dx%d", input.WindowWidth, input.WindowHeight)
}

func startLoadingSystem(w *Walkthrough, assets *AssetServer, cmd *Commands) {
	log := cmd.Logger()
	cfg := w.Config
	log.Infof("loading gallery %s", cfg.Assets.Gallery)
	_, w.gallery = assets.LoadSceneAsync(cfg.Assets.Gallery, w.rules)
	if cfg.Assets.HotspotAux != "" {
		log.Infof("loading hotspot markers %s", cfg.Assets.HotspotAux)
		_, w.aux = assets.LoadSceneAsync(cfg.Assets.HotspotAux, w.rules)
	}
}

func awaitAssetsSystem(w *Walkthrough, cmd *Commands) {
	if w.gallery == nil || !w.gallery.Ready() {
		return
	}
	if w.aux != nil && !w.aux.Ready() {
		return
	}
	log := cmd.Logger()

	root, err := w.gallery.Result()
	if err != nil {
		cmd.Abort(err)
		return
	}
	w.Scene.Add(root)
	w.Hotspots.Populate(root)

	if w.aux != nil {
		auxRoot, err := w.aux.Result()
		if err != nil {
			cmd.Abort(err)
			return
		}
		w.Hotspots.PopulateAux(auxRoot)
	}

	if path := w.Config.Assets.Exhibit; path != "" {
		ex, err := LoadExhibit(path)
		if err != nil {
			cmd.Abort(err)
			return
		}
		w.applyExhibit(ex, log)
		if w.Config.Assets.WatchExhibit {
			watcher, err := WatchExhibit(path, log)
			if err != nil {
				log.Warnf("exhibit hot reload disabled: %v", err)
			} else {
				w.watcher = watcher
			}
		}
	}

	for _, h := range w.Hotspots.Hotspots() {
		cmd.AddEntity(h, &hotspotState{})
	}
	log.Infof("gallery ready: %d hotspots, %d waypoints", len(w.Hotspots.Hotspots()), len(w.Tour.Waypoints()))
	cmd.ChangeState(StateWalkthrough)
}

func (w *Walkthrough) applyExhibit(ex *Exhibit, log Logger) {
	w.Hotspots.SetCatalog(ex.Catalog(log))
	w.Tour.SetWaypoints(ex.Waypoints)
}

func exhibitReloadSystem(w *Walkthrough, cmd *Commands) {
	if w.watcher == nil {
		return
	}
	if ex, ok := w.watcher.Poll(); ok {
		w.applyExhibit(ex, cmd.Logger())
		cmd.Logger().Infof("exhibit reloaded: %d hotspot entries, %d waypoints", len(ex.Hotspots), len(ex.Waypoints))
	}
}

func walkthroughFrameSystem(t *Time, w *Walkthrough) {
	w.Driver.Tick(t.DeltaSeconds())
}

func hotspotVisibilitySystem(cmd *Commands) {
	log := cmd.Logger()
	MakeQuery2[HotspotComponent, hotspotState](cmd).Map(func(eid EntityId, h *HotspotComponent, s *hotspotState) bool {
		if h.Visible != s.wasVisible {
			s.wasVisible = h.Visible
			log.Debugf("hotspot %q visible=%t distance=%.2f", h.Name, h.Visible, h.Distance)
		}
		return true
	})
}

func renderSystem(w *Walkthrough) {
	w.Driver.Render()
}

func stopWatchingSystem(w *Walkthrough, cmd *Commands) {
	if w.watcher == nil {
		return
	}
	if err := w.watcher.Close(); err != nil {
		cmd.Logger().Warnf("error closing exhibit watcher: %v", err)
	}
	w.watcher = nil
}
