package presenter

import "log/slog"

// Screen identifies a sidebar destination.
type Screen int

const (
	ScreenMainMenu Screen = iota
	ScreenCameraViews
	ScreenGriddleView
	ScreenCalibration
	ScreenSettings
)

// Screens lists the sidebar entries in display order.
var Screens = []Screen{ScreenMainMenu, ScreenCameraViews, ScreenGriddleView, ScreenCalibration, ScreenSettings}

func (s Screen) String() string {
	switch s {
	case ScreenMainMenu:
		return "Main Menu"
	case ScreenCameraViews:
		return "Camera Views"
	case ScreenGriddleView:
		return "Griddle View"
	case ScreenCalibration:
		return "Calibration"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// NavigationView switches the visible screen.
type NavigationView interface {
	ShowScreen(s Screen)
}

// CameraOwner acquires and releases the camera.
type CameraOwner interface {
	Acquire() error
	Release()
}

// Resetter drops per-camera state.
type Resetter interface{ Reset() }

// NavigationPresenter switches screens and ties camera ownership to the
// Camera Views screen: entering acquires it, leaving releases it.
type NavigationPresenter struct {
	view    NavigationView
	camera  CameraOwner
	detect  Resetter
	logger  *slog.Logger
	current Screen
}

func NewNavigationPresenter(view NavigationView, camera CameraOwner, detect Resetter, logger *slog.Logger) *NavigationPresenter {
	return &NavigationPresenter{view: view, camera: camera, detect: detect, logger: logger, current: ScreenMainMenu}
}

// Current returns the visible screen.
func (p *NavigationPresenter) Current() Screen {
	if p == nil {
		return ScreenMainMenu
	}
	return p.current
}

// Show switches to s. Selecting the visible screen again is a no-op.
func (p *NavigationPresenter) Show(s Screen) {
	if p == nil || s == p.current {
		return
	}
	prev := p.current
	p.current = s
	if prev == ScreenCameraViews {
		if p.camera != nil {
			p.camera.Release()
		}
		if p.detect != nil {
			p.detect.Reset()
		}
	}
	if s == ScreenCameraViews && p.camera != nil {
		if err := p.camera.Acquire(); err != nil && p.logger != nil {
			p.logger.Warn("camera views without camera", "error", err)
		}
	}
	if p.logger != nil {
		p.logger.Debug("navigate", "from", prev.String(), "to", s.String())
	}
	if p.view != nil {
		p.view.ShowScreen(s)
	}
}

// Close releases resources tied to the current screen.
func (p *NavigationPresenter) Close() {
	if p == nil {
		return
	}
	if p.current == ScreenCameraViews && p.camera != nil {
		p.camera.Release()
	}
}
