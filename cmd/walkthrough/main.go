package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gekko3d/gallery"
	"github.com/gekko3d/gallery/platform/glfwwindow"
	"github.com/gekko3d/gallery/scenegraph"
)

func main() {
	flags := pflag.NewFlagSet("walkthrough", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "config file (yaml, json or toml)")
	debug := flags.Bool("debug", false, "enable debug logging")
	_ = flags.Parse(os.Args[1:])

	cfg, err := gallery.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := gallery.NewDefaultLogger(cfg.Log.Prefix, *debug || gallery.ParseLogLevel(cfg.Log.Level))

	win, err := glfwwindow.Open(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := gallery.NewAppBuilder().
		UseStates(gallery.StateLoading, gallery.StateShutdown).
		UseModule(
			gallery.LoggingModule{Logger: log},
			gallery.TimeModule{TargetFPS: cfg.Window.TargetFPS},
			gallery.InputModule{
				Source:      win,
				DoubleClick: cfg.Navigation.DoubleClick,
				ClickSlop:   cfg.Navigation.DoubleClickSlop,
			},
			gallery.AssetServerModule{},
			gallery.GalleryModule{
				Config:     cfg,
				Sink:       panelLog{log: log},
				RenderHook: &titleHook{win: win, base: cfg.Window.Title},
			},
		).
		Build()

	err = app.Run(ctx)
	win.Close()
	if err != nil {
		os.Exit(1)
	}
}

// panelLog stands in for an overlay view and reports panels in the log.
type panelLog struct {
	log gallery.Logger
}

func (p panelLog) Mount(panel *gallery.OverlayPanel) {
	c := panel.Content
	p.log.Infof("[%s] %s: %s %s", c.Kind, c.Title, c.Body, c.URL)
}

func (p panelLog) Unmount(panel *gallery.OverlayPanel) {
	p.log.Debugf("panel %s closed", panel.ID)
}

// titleHook shows the camera position in the window title.
type titleHook struct {
	win  *glfwwindow.Window
	base string
	last string
}

func (h *titleHook) Render(scene *scenegraph.Scene, rig *gallery.CameraRig) {
	p := rig.Position()
	title := fmt.Sprintf("%s (%.1f, %.1f, %.1f)", h.base, p.X(), p.Y(), p.Z())
	if title != h.last {
		h.win.SetTitle(title)
		h.last = title
	}
}
