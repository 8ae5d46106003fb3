package presenter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/soocke/griddle-bot-go/domain/griddle"
	"github.com/soocke/griddle-bot-go/ui/model"
)

// InvalidInputMessage is shown on the input surface when an add request is
// rejected.
const InvalidInputMessage = "Invalid input!"

// Tracker is the patty tracker surface the presenter drives.
type Tracker interface {
	AddInput(x, y, duration string) (griddle.PattyID, error)
	Tick() ([]griddle.RenderEntry, error)
	BlinkAll() []griddle.BlinkEntry
	Snapshot() []griddle.RenderEntry
	Len() int
}

// GriddleView draws the patty markers.
type GriddleView interface {
	RenderGriddle(entries []griddle.RenderEntry)
}

// InputView is the add-patty input surface.
type InputView interface {
	SetDiagnostic(msg string)
}

// GriddlePresenter routes input to the tracker and tracker output to the
// griddle view. All methods must be called on the UI thread.
type GriddlePresenter struct {
	tracker Tracker
	griddle GriddleView
	input   InputView
	shift   *model.ShiftModel
	logger  *slog.Logger
}

func NewGriddlePresenter(tracker Tracker, griddleView GriddleView, input InputView, shift *model.ShiftModel, logger *slog.Logger) *GriddlePresenter {
	return &GriddlePresenter{tracker: tracker, griddle: griddleView, input: input, shift: shift, logger: logger}
}

// Add submits raw input text. Rejected input shows a diagnostic and leaves the
// griddle untouched.
func (p *GriddlePresenter) Add(x, y, duration string) bool {
	if p == nil || p.tracker == nil {
		return false
	}
	id, err := p.tracker.AddInput(x, y, duration)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("add patty rejected", "x", x, "y", y, "duration", duration, "error", err)
		}
		if p.input != nil && errors.Is(err, griddle.ErrInvalidInput) {
			p.input.SetDiagnostic(InvalidInputMessage)
		}
		return false
	}
	if p.logger != nil {
		p.logger.Debug("add patty", "id", id)
	}
	p.shift.PattyAdded()
	if p.input != nil {
		p.input.SetDiagnostic("")
	}
	p.render(p.tracker.Snapshot())
	return true
}

// Tick advances the countdown by one second.
func (p *GriddlePresenter) Tick(now time.Time) {
	if p == nil || p.tracker == nil {
		return
	}
	entries, err := p.tracker.Tick()
	if err != nil {
		if p.logger != nil {
			p.logger.Error("griddle tick", "error", err)
		}
		entries = p.tracker.Snapshot()
	}
	p.shift.OnTick(p.tracker.Len(), now)
	p.render(entries)
}

// Blink runs one blink sub-tick and redraws when any alarm is active.
func (p *GriddlePresenter) Blink() {
	if p == nil || p.tracker == nil {
		return
	}
	if len(p.tracker.BlinkAll()) == 0 {
		return
	}
	p.render(p.tracker.Snapshot())
}

// Refresh redraws the current state without advancing time.
func (p *GriddlePresenter) Refresh() {
	if p == nil || p.tracker == nil {
		return
	}
	p.render(p.tracker.Snapshot())
}

// OnExpired counts a patty leaving the griddle.
func (p *GriddlePresenter) OnExpired(griddle.Patty) {
	if p == nil {
		return
	}
	p.shift.PattyExpired()
}

func (p *GriddlePresenter) render(entries []griddle.RenderEntry) {
	if p.griddle != nil {
		p.griddle.RenderGriddle(entries)
	}
}
