package app

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/ui/presenter"
	"github.com/soocke/griddle-bot-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

type app struct {
	c         *AppContainer
	scheduler *view.TkScheduler
	width     int
	height    int
	closed    bool
}

// NewApp builds the container and sizes the main window. grabber may be nil
// to capture from the screen.
func NewApp(width, height int, cfg *config.Config, cfgPath string, grabber capture.Grabber, logger *slog.Logger) *app {
	a := &app{
		c:         BuildContainer(cfg, cfgPath, grabber, logger),
		scheduler: view.NewTkScheduler(logger),
		width:     width,
		height:    height,
	}
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the UI, starts the update loop and blocks until the main
// window closes.
func (a *app) Start() {
	c := a.c
	c.RootView.Build(view.Handlers{
		Navigate:         c.NavigationPresenter.Show,
		AddPatty:         func(x, y, d string) { c.GriddlePresenter.Add(x, y, d) },
		ToggleCamera:     c.CameraPresenter.Toggle,
		RefreshRefs:      c.ClassificationPresenter.Refresh,
		ConfigApplied:    c.ApplyConfig,
		SelectionChanged: func(*image.Rectangle) { c.DetectionPresenter.Reset() },
		Exit:             a.exitHandler,
	})
	c.SetSelection(c.RootView.Selection.ActiveRect)
	c.ClassificationPresenter.Refresh()
	c.GriddlePresenter.Refresh()
	c.ShiftPresenter.Refresh()
	c.WatchReferences()
	c.Loop.Start(a.scheduler, presenter.CadenceFromConfig(c.Config))
	if c.Logger != nil {
		c.Logger.Info("griddle bot started", "secondary_display", c.Config.SecondaryDisplay, "config", c.ConfigPath)
	}
	App.Wait()
}

func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	a.scheduler.CancelAll()
	a.c.Close()
	a.c.RootView.Close()
	Destroy(App)
}
