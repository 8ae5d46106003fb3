package view

import (
	"fmt"
	"image"
	"strconv"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/griddle"
	"github.com/soocke/griddle-bot-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// GriddleDisplay renders patty markers as a photo. It lives either in its own
// window on the secondary display or embedded in the Griddle View screen.
type GriddleDisplay struct {
	cfg     *config.Config
	win     *ToplevelWidget
	label   *LabelWidget
	photo   *Img
	entries []griddle.RenderEntry
}

// NewGriddleDisplay opens the secondary window when cfg asks for one.
// Otherwise the display stays detached until Attach is called.
func NewGriddleDisplay(cfg *config.Config) *GriddleDisplay {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &GriddleDisplay{cfg: cfg}
	if cfg.SecondaryDisplay {
		d.openWindow()
	}
	return d
}

// Embedded reports whether the griddle is drawn inside the main window.
func (d *GriddleDisplay) Embedded() bool { return d != nil && d.win == nil }

func (d *GriddleDisplay) openWindow() {
	c := d.cfg
	win := App.Toplevel(Background("black"))
	win.WmTitle("Griddle")
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", c.GriddleWidth, c.GriddleHeight, c.SecondaryX, c.SecondaryY))
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	d.win = win
	d.Attach(win.Window)
	WmProtocol(win.Window, "WM_DELETE_WINDOW", func() {
		// Closing the griddle window falls back to the embedded view.
		d.Detach()
		Destroy(win)
		d.win = nil
	})
}

// Attach creates the photo label inside parent and draws the last entries.
func (d *GriddleDisplay) Attach(parent *Window) {
	if d == nil || parent == nil {
		return
	}
	d.label = parent.Label(Background("black"), Borderwidth(0))
	Grid(d.label, Row(0), Column(0), Sticky("nsew"))
	d.draw()
}

// Detach forgets the label. The caller destroys the widget with its parent.
func (d *GriddleDisplay) Detach() {
	if d == nil {
		return
	}
	d.label = nil
	if d.photo != nil {
		d.photo.Delete()
		d.photo = nil
	}
}

// RenderGriddle redraws every marker from entries.
func (d *GriddleDisplay) RenderGriddle(entries []griddle.RenderEntry) {
	if d == nil {
		return
	}
	d.entries = entries
	d.draw()
}

func (d *GriddleDisplay) draw() {
	if d.label == nil {
		return
	}
	img := images.RenderDiscs(d.cfg.GriddleWidth, d.cfg.GriddleHeight, d.cfg.PattyRadius, Discs(d.entries))
	if d.photo != nil {
		d.photo.Delete()
	}
	d.photo = NewPhoto(Data(images.EncodePNG(img)))
	d.label.Configure(Image(d.photo))
}

// Close destroys the secondary window if open.
func (d *GriddleDisplay) Close() {
	if d == nil {
		return
	}
	d.Detach()
	if d.win != nil {
		Destroy(d.win)
		d.win = nil
	}
}

// Discs maps tracker entries to drawable discs. The numeral takes the
// contrast color of the urgency, the disc itself the current fill.
func Discs(entries []griddle.RenderEntry) []images.Disc {
	out := make([]images.Disc, 0, len(entries))
	for _, e := range entries {
		out = append(out, images.Disc{
			Center: image.Pt(e.Position.X, e.Position.Y),
			Fill:   e.Fill().RGBA(),
			Text:   e.Urgency.TextColor(),
			Label:  strconv.Itoa(e.Remaining),
		})
	}
	return out
}
