package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
)

var errEmptySelection = errors.New("capture: empty selection")

// ScreenGrabber grabs frames from the primary screen. A selected screen
// region stands in for the griddle camera.
type ScreenGrabber struct{}

// Grab captures sel clipped to the screen, or the whole screen when sel is nil.
func (ScreenGrabber) Grab(sel *image.Rectangle) (*image.RGBA, error) {
	if sel == nil {
		img, err := screenshot.CaptureScreen()
		if err != nil {
			return nil, fmt.Errorf("capture: screen: %w", err)
		}
		return img, nil
	}
	if sel.Empty() {
		return nil, errEmptySelection
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("capture: screen rect: %w", err)
	}
	r := sel.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: selection out of bounds sel=%v screen=%v", *sel, screen)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture: rect %v: %w", r, err)
	}
	return img, nil
}

// StillGrabber replays a fixed image as if it were a live camera. Each grab
// returns a fresh copy so consumers may keep frames.
type StillGrabber struct {
	mu  sync.RWMutex
	img *image.RGBA
}

// NewStillSource returns a grabber serving img.
func NewStillSource(img image.Image) *StillGrabber {
	g := &StillGrabber{}
	g.Set(img)
	return g
}

// LoadStillSource decodes the image at path and serves it.
func LoadStillSource(path string) (*StillGrabber, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("capture: open still %s: %w", path, err)
	}
	return NewStillSource(img), nil
}

// Set replaces the served image. A nil image makes Grab fail until set again.
func (g *StillGrabber) Set(img image.Image) {
	var rgba *image.RGBA
	if img != nil {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	g.mu.Lock()
	g.img = rgba
	g.mu.Unlock()
}

// Grab returns a copy of the still image, cropped to sel when given.
func (g *StillGrabber) Grab(sel *image.Rectangle) (*image.RGBA, error) {
	g.mu.RLock()
	src := g.img
	g.mu.RUnlock()
	if src == nil {
		return nil, errors.New("capture: no still image")
	}
	r := src.Bounds()
	if sel != nil {
		if sel.Empty() {
			return nil, errEmptySelection
		}
		r = sel.Intersect(r)
		if r.Empty() {
			return nil, fmt.Errorf("capture: selection out of bounds sel=%v image=%v", *sel, src.Bounds())
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), src, r.Min, draw.Src)
	return out, nil
}
