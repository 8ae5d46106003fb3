package app

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/domain/griddle"
	"github.com/soocke/griddle-bot-go/ui/model"
	"github.com/soocke/griddle-bot-go/ui/presenter"
	"github.com/soocke/griddle-bot-go/ui/view"
)

// referenceCacheSize holds a few generations of the three reference images.
const referenceCacheSize = 16

// AppContainer assembles domain services, models, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Tracker    *griddle.Tracker
	Classifier *cooking.Classifier
	CaptureSvc capture.CaptureService
	LockPath   string

	Camera  *model.CameraModel
	Regions *model.RegionsModel
	Shift   *model.ShiftModel

	RootView *view.RootView

	GriddlePresenter        *presenter.GriddlePresenter
	ShiftPresenter          *presenter.ShiftPresenter
	CameraPresenter         *presenter.CameraPresenter
	DetectionPresenter      *presenter.DetectionPresenter
	ClassificationPresenter *presenter.ClassificationPresenter
	NavigationPresenter     *presenter.NavigationPresenter
	Loop                    *presenter.Loop
	Watcher                 *presenter.ReferenceWatcher
}

// BuildContainer constructs all components. grabber supplies camera frames;
// nil selects the screen grabber. No windows are created and the camera is
// not opened.
func BuildContainer(cfg *config.Config, cfgPath string, grabber capture.Grabber, logger *slog.Logger) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if grabber == nil {
		grabber = capture.ScreenGrabber{}
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}

	c.Tracker = griddle.NewTracker(cfg, logger)
	c.Classifier = cooking.NewClassifier(cfg, cooking.NewReferenceLoader(referenceCacheSize), logger)
	c.CaptureSvc = capture.NewCaptureService(logger, grabber, 0)
	if path, err := capture.DefaultLockPath(); err == nil {
		c.LockPath = path
	} else {
		c.LockPath = filepath.Join(os.TempDir(), "griddle-bot-camera.lock")
		if logger != nil {
			logger.Warn("camera lock path fallback", "path", c.LockPath, "error", err)
		}
	}

	c.Camera = &model.CameraModel{}
	c.Regions = model.NewRegionsModel()
	c.Shift = model.NewShiftModel()

	c.RootView = view.NewRootView(cfg, cfgPath, logger)

	c.GriddlePresenter = presenter.NewGriddlePresenter(c.Tracker, c.RootView, c.RootView, c.Shift, logger)
	c.Tracker.OnExpired(c.GriddlePresenter.OnExpired)
	c.ShiftPresenter = presenter.NewShiftPresenter(c.Shift, c.RootView)
	c.CameraPresenter = presenter.NewCameraPresenter(c.Camera, c.openCamera, c.RootView, logger)
	c.ClassificationPresenter = presenter.NewClassificationPresenter(c.Classifier, cfg.ReferencePaths, c.RootView)
	c.DetectionPresenter = presenter.NewDetectionPresenter(c.CameraPresenter, c.Classifier, c.ClassificationPresenter.Results, c.RootView, cfg, c.Regions, logger)
	c.NavigationPresenter = presenter.NewNavigationPresenter(c.RootView, c.CameraPresenter, c.DetectionPresenter, logger)
	c.Loop = presenter.NewLoop(c.GriddlePresenter, c.ShiftPresenter, c.DetectionPresenter)
	c.Loop.Refs = c.ClassificationPresenter
	return c
}

// openCamera acquires the exclusive camera handle. The interface conversion
// happens only on success so a failed open never yields a typed nil.
func (c *AppContainer) openCamera() (presenter.CameraHandle, error) {
	h, err := capture.OpenCamera(c.LockPath, c.CaptureSvc)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// SetSelection constrains capture to r; nil captures the full screen.
func (c *AppContainer) SetSelection(r func() *image.Rectangle) {
	c.CaptureSvc.SetSelectionProvider(r)
}

// WatchReferences re-classifies whenever a reference image changes on disk.
func (c *AppContainer) WatchReferences() {
	paths := c.Config.ReferencePaths()
	w, err := presenter.NewReferenceWatcher(paths[:], c.ClassificationPresenter.MarkStale, c.Logger)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("reference watcher disabled", "error", err)
		}
		return
	}
	c.Watcher = w
}

// ApplyConfig pushes edited settings into live components.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	c.Tracker.SetThreshold(cfg.AlarmThresholdSeconds)
	c.Tracker.SetDefaultDuration(cfg.DefaultDurationSeconds)
	c.GriddlePresenter.Refresh()
	c.ClassificationPresenter.MarkStale()
}

// Close releases the camera, the watcher and the capture loop.
func (c *AppContainer) Close() {
	c.Loop.Stop()
	c.NavigationPresenter.Close()
	c.CameraPresenter.Release()
	if c.Watcher != nil {
		_ = c.Watcher.Close()
	}
	c.CaptureSvc.Stop()
}
