package presenter

import (
	"github.com/soocke/griddle-bot-go/ui/model"
)

// ShiftView displays shift counters and busy durations.
type ShiftView interface {
	SetShift(stats model.ShiftStats)
}

// ShiftPresenter pushes shift statistics from the model to the view.
type ShiftPresenter struct {
	shift *model.ShiftModel
	view  ShiftView
}

// NewShiftPresenter returns a new ShiftPresenter.
func NewShiftPresenter(shift *model.ShiftModel, view ShiftView) *ShiftPresenter {
	return &ShiftPresenter{shift: shift, view: view}
}

// Refresh pushes the current values to the view.
func (p *ShiftPresenter) Refresh() {
	if p == nil || p.shift == nil || p.view == nil {
		return
	}
	p.view.SetShift(p.shift.Stats())
}
