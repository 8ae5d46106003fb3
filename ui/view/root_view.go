package view

import (
	"image"
	"log/slog"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/domain/griddle"
	"github.com/soocke/griddle-bot-go/ui/model"
	"github.com/soocke/griddle-bot-go/ui/presenter"
	"github.com/soocke/griddle-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions the root view forwards to presenters.
type Handlers struct {
	Navigate         func(presenter.Screen)
	AddPatty         func(x, y, duration string)
	ToggleCamera     func()
	RefreshRefs      func()
	ConfigApplied    func(*config.Config)
	SelectionChanged func(*image.Rectangle)
	Exit             func()
}

// RootView composes the sidebar, the per-screen content frame and the status
// bar. Screens are rebuilt from scratch on every switch; subviews keep their
// state across rebuilds.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	Controls  *ControlPanel
	Griddle   *GriddleDisplay
	Camera    *CameraPreview
	Classes   *ClassificationPanel
	Config    *ConfigPanel
	Selection SelectionOverlay
	Shift     ShiftStats

	handlers Handlers
	sidebar  *FrameWidget
	content  *FrameWidget
	screen   presenter.Screen
	built    bool
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the window layout and shows the main menu.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	rv.handlers = h
	theme.InitStyles()
	p := theme.Current()
	App.WmTitle("Griddle Bot")
	GridRowConfigure(App, 0, Weight(1))
	GridColumnConfigure(App, 1, Weight(1))

	rv.Controls = NewControlPanel(h.AddPatty)
	rv.Griddle = NewGriddleDisplay(rv.cfg)
	rv.Camera = NewCameraPreview(h.ToggleCamera)
	rv.Classes = NewClassificationPanel(h.RefreshRefs)
	rv.Config = NewConfigPanel(rv.cfg, rv.cfgPath, h.ConfigApplied, rv.logger)
	rv.Selection = NewSelectionOverlay(rv.cfg, rv.cfgPath, h.SelectionChanged, rv.logger)

	rv.sidebar = Frame(Background(p.Sidebar), Borderwidth(0))
	Grid(rv.sidebar, Row(0), Column(0), Sticky("ns"))
	for i, s := range presenter.Screens {
		b := rv.sidebar.TButton(Txt(s.String()), Style(theme.StyleNavButton), Command(func() {
			if h.Navigate != nil {
				h.Navigate(s)
			}
		}))
		Grid(b, Row(i), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	}
	exit := rv.sidebar.TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(func() {
		if h.Exit != nil {
			h.Exit()
		}
	}))
	Grid(exit, Row(len(presenter.Screens)+1), Column(0), Sticky("we"), Padx("0.4m"), Pady("1m"))

	status := Frame(Borderwidth(1), Relief("sunken"))
	Grid(status, Row(1), Column(0), Columnspan(2), Sticky("we"))
	rv.Shift = NewShiftStats(status, 0, 0)

	rv.built = true
	rv.screen = presenter.ScreenMainMenu
	rv.rebuild()
}

// ShowScreen replaces the content frame with screen s.
func (rv *RootView) ShowScreen(s presenter.Screen) {
	if rv == nil || !rv.built {
		return
	}
	rv.screen = s
	rv.rebuild()
}

func (rv *RootView) rebuild() {
	rv.Controls.Detach()
	rv.Camera.Detach()
	rv.Classes.Detach()
	rv.Config.Detach()
	if rv.Griddle.Embedded() {
		rv.Griddle.Detach()
	}
	if rv.content != nil {
		Destroy(rv.content)
	}
	p := theme.Current()
	rv.content = Frame(Background(p.AppBg))
	Grid(rv.content, Row(0), Column(1), Sticky("nsew"), Padx("1m"), Pady("1m"))
	GridColumnConfigure(rv.content.Window, 1, Weight(1))
	parent := rv.content.Window
	heading := parent.TLabel(Txt(rv.screen.String()), Style(theme.StyleHeading))
	Grid(heading, Row(0), Column(0), Columnspan(2), Sticky("w"))

	switch rv.screen {
	case presenter.ScreenMainMenu:
		rv.Controls.Build(parent, 1)
	case presenter.ScreenCameraViews:
		rv.Camera.Build(parent, 1)
	case presenter.ScreenGriddleView:
		row := rv.Controls.Build(parent, 1)
		if rv.Griddle.Embedded() {
			board := parent.Frame(Background(p.GriddleBg))
			Grid(board, Row(row), Column(0), Columnspan(2), Sticky("nsew"))
			GridRowConfigure(parent, row, Weight(1))
			rv.Griddle.Attach(board.Window)
		} else {
			note := parent.Label(Txt("Griddle shown on the secondary display"), Anchor("w"), Background(p.AppBg), Foreground(p.TextMuted))
			Grid(note, Row(row), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
		}
	case presenter.ScreenCalibration:
		row := rv.Classes.Build(parent, 1)
		region := parent.TButton(Txt("Set Camera Region"), Style(theme.StylePrimaryButton), Command(rv.Selection.OpenOrFocus))
		Grid(region, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
		clear := parent.TButton(Txt("Full Screen"), Command(rv.Selection.Clear))
		Grid(clear, Row(row), Column(1), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	case presenter.ScreenSettings:
		row := rv.Config.Build(parent, 1)
		toggle := parent.TButton(Txt("Toggle Dark Mode"), Command(rv.toggleTheme))
		Grid(toggle, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	}
}

func (rv *RootView) toggleTheme() {
	theme.SetDark(!theme.IsDark())
	rv.sidebar.Configure(Background(theme.Current().Sidebar))
	rv.rebuild()
}

// Close tears down windows owned by the view.
func (rv *RootView) Close() {
	if rv == nil {
		return
	}
	rv.Griddle.Close()
}

func (rv *RootView) SetDiagnostic(msg string) {
	if rv.Controls != nil {
		rv.Controls.SetDiagnostic(msg)
	}
}

func (rv *RootView) RenderGriddle(entries []griddle.RenderEntry) { rv.Griddle.RenderGriddle(entries) }

func (rv *RootView) PreviewReset() {
	if rv.Camera != nil {
		rv.Camera.PreviewReset()
	}
}

func (rv *RootView) SetCameraStatus(status string) {
	if rv.Camera != nil {
		rv.Camera.SetCameraStatus(status)
	}
}

func (rv *RootView) UpdateCapture(img image.Image) {
	if rv.Camera != nil {
		rv.Camera.UpdateCapture(img)
	}
}

func (rv *RootView) SetRegions(regions []model.Region) {
	if rv.Camera != nil {
		rv.Camera.SetRegions(regions)
	}
}

func (rv *RootView) ShowClassification(results []cooking.Classification) {
	if rv.Classes != nil {
		rv.Classes.ShowClassification(results)
	}
}

func (rv *RootView) ShowClassificationError(msg string) {
	if rv.Classes != nil {
		rv.Classes.ShowClassificationError(msg)
	}
}

func (rv *RootView) SetShift(stats model.ShiftStats) {
	if rv.Shift != nil {
		rv.Shift.SetShift(stats)
	}
}
