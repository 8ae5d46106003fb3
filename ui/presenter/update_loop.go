package presenter

import (
	"sync/atomic"
	"time"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/schedule"
)

// Cadence holds the loop periods.
type Cadence struct {
	Tick  time.Duration
	Blink time.Duration
	Poll  time.Duration
}

// CadenceFromConfig reads the periods from cfg.
func CadenceFromConfig(cfg *config.Config) Cadence {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Cadence{
		Tick:  time.Duration(cfg.TickIntervalMs) * time.Millisecond,
		Blink: time.Duration(cfg.BlinkIntervalMs) * time.Millisecond,
		Poll:  time.Duration(cfg.FramePollIntervalMs) * time.Millisecond,
	}
}

// Loop aggregates feature presenters and drives them from one scheduler:
// the countdown tick, the blink sub-tick and the frame poll. It replaces
// per-patty timers. The zero value is usable (methods are nil-safe).
type Loop struct {
	Griddle *GriddlePresenter
	Shift   *ShiftPresenter
	Detect  *DetectionPresenter
	Refs    *ClassificationPresenter
	Now     func() time.Time

	stopped atomic.Bool
}

func NewLoop(griddle *GriddlePresenter, shift *ShiftPresenter, detect *DetectionPresenter) *Loop {
	return &Loop{Griddle: griddle, Shift: shift, Detect: detect, Now: time.Now}
}

// Start registers the cadences on s. Each callback re-arms itself until Stop.
func (l *Loop) Start(s schedule.Scheduler, c Cadence) {
	if l == nil || s == nil {
		return
	}
	l.stopped.Store(false)
	schedule.Every(s, c.Tick, func() bool {
		if l.stopped.Load() {
			return false
		}
		l.Tick()
		return true
	})
	schedule.Every(s, c.Blink, func() bool {
		if l.stopped.Load() {
			return false
		}
		l.Griddle.Blink()
		return true
	})
	if l.Detect != nil {
		schedule.Every(s, c.Poll, func() bool {
			if l.stopped.Load() {
				return false
			}
			l.Detect.ProcessFrame()
			return true
		})
	}
}

// Stop ends every cadence at its next firing.
func (l *Loop) Stop() {
	if l == nil {
		return
	}
	l.stopped.Store(true)
}

// Tick runs one countdown second.
func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	l.Griddle.Tick(now)
	l.Shift.Refresh()
	l.Refs.RefreshIfStale()
}
