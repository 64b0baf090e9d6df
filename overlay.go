package gallery

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ContentKind int

const (
	ContentText ContentKind = iota
	ContentImage
	ContentVideo
	ContentIFrame
)

func (k ContentKind) String() string {
	switch k {
	case ContentImage:
		return "image"
	case ContentVideo:
		return "video"
	case ContentIFrame:
		return "iframe"
	}
	return "text"
}

func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return ContentText, nil
	case "image":
		return ContentImage, nil
	case "video":
		return ContentVideo, nil
	case "iframe":
		return ContentIFrame, nil
	}
	return ContentText, fmt.Errorf("unknown content kind %q", s)
}

// ImageInfo describes an image panel's source. Zero when unknown.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// OverlayContent is what a panel shows. The URL is embedded as is for every kind.
type OverlayContent struct {
	Kind  ContentKind
	Title string
	Body  string
	URL   string
	Image ImageInfo
}

// DescribeImage reads only the image header.
func DescribeImage(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("error decoding image header: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func DescribeImageFile(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()
	info, err := DescribeImage(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

type PanelPhase int

const (
	PanelFadingIn PanelPhase = iota
	PanelOpen
	PanelFadingOut
	PanelClosed
)

func (p PanelPhase) String() string {
	switch p {
	case PanelFadingIn:
		return "fading-in"
	case PanelOpen:
		return "open"
	case PanelFadingOut:
		return "fading-out"
	}
	return "closed"
}

// panelSlide is how far, in pixels, a panel travels while fading.
const panelSlide = 20

type OverlayPanel struct {
	ID      uuid.UUID
	Content OverlayContent
	Phase   PanelPhase
	Opacity float32
	// Offset is the vertical slide in pixels, panelSlide when hidden and 0 when open.
	Offset float32
}

func (p *OverlayPanel) IsOpen() bool {
	return p != nil && (p.Phase == PanelFadingIn || p.Phase == PanelOpen)
}

// PanelSink is the view that displays panels.
type PanelSink interface {
	Mount(panel *OverlayPanel)
	Unmount(panel *OverlayPanel)
}

// OverlayPresenter keeps at most one panel alive.
type OverlayPresenter struct {
	sink  PanelSink
	fade  float32
	panel *OverlayPanel
	log   Logger
}

func NewOverlayPresenter(sink PanelSink, fade time.Duration, log Logger) *OverlayPresenter {
	if log == nil {
		log = NewNopLogger()
	}
	return &OverlayPresenter{sink: sink, fade: float32(fade.Seconds()), log: log}
}

// Panel returns the live panel, or nil.
func (o *OverlayPresenter) Panel() *OverlayPanel {
	return o.panel
}

func (o *OverlayPresenter) IsOpen() bool {
	return o.panel.IsOpen()
}

// Show mounts a new panel. A live panel is unmounted first without fading.
func (o *OverlayPresenter) Show(content OverlayContent) *OverlayPanel {
	if o.panel != nil {
		o.unmount()
	}
	o.panel = &OverlayPanel{
		ID:      uuid.New(),
		Content: content,
		Phase:   PanelFadingIn,
		Offset:  panelSlide,
	}
	if o.sink != nil {
		o.sink.Mount(o.panel)
	}
	o.log.Debugf("overlay %s shows %s %q", o.panel.ID, content.Kind, content.Title)
	if o.fade <= 0 {
		o.settle()
	}
	return o.panel
}

// Close starts fading the live panel out. It is a no-op without an open panel.
func (o *OverlayPresenter) Close() {
	if !o.panel.IsOpen() {
		return
	}
	o.panel.Phase = PanelFadingOut
	if o.fade <= 0 {
		o.unmount()
	}
}

func (o *OverlayPresenter) Update(dt float32) {
	p := o.panel
	if p == nil {
		return
	}
	step := float32(1)
	if o.fade > 0 {
		step = dt / o.fade
	}

	switch p.Phase {
	case PanelFadingIn:
		p.Opacity += step
		if p.Opacity >= 1 {
			o.settle()
			return
		}
	case PanelFadingOut:
		p.Opacity -= step
		if p.Opacity <= 0 {
			o.unmount()
			return
		}
	default:
		return
	}
	p.Offset = (1 - p.Opacity) * panelSlide
}

func (o *OverlayPresenter) settle() {
	o.panel.Phase = PanelOpen
	o.panel.Opacity = 1
	o.panel.Offset = 0
}

func (o *OverlayPresenter) unmount() {
	p := o.panel
	p.Phase = PanelClosed
	p.Opacity = 0
	p.Offset = panelSlide
	if o.sink != nil {
		o.sink.Unmount(p)
	}
	o.panel = nil
}
