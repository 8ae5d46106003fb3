// Package headless runs the griddle tracker and the cooking classifier
// without a display, for the command line.
package headless

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/griddle"
	"github.com/soocke/griddle-bot-go/domain/schedule"
	"github.com/soocke/griddle-bot-go/ui/model"
)

// ErrPattyFormat reports a malformed --patty argument.
var ErrPattyFormat = errors.New("headless: patty must be x,y[,seconds][@second]")

// PattyRequest is one patty placed on the griddle at simulated second At.
type PattyRequest struct {
	X, Y, Duration string
	At             int
}

// ParsePatty parses "x,y[,seconds][@second]". Number validation is left to
// the tracker so the simulation rejects exactly what the input surface does.
func ParsePatty(s string) (PattyRequest, error) {
	var req PattyRequest
	body, at, timed := strings.Cut(strings.TrimSpace(s), "@")
	if timed {
		n, err := strconv.Atoi(strings.TrimSpace(at))
		if err != nil || n < 0 {
			return req, fmt.Errorf("%w: bad start second in %q", ErrPattyFormat, s)
		}
		req.At = n
	}
	parts := strings.Split(body, ",")
	switch len(parts) {
	case 3:
		req.Duration = parts[2]
		fallthrough
	case 2:
		req.X, req.Y = parts[0], parts[1]
	default:
		return req, fmt.Errorf("%w: got %q", ErrPattyFormat, s)
	}
	return req, nil
}

// Options control a simulation run.
type Options struct {
	Patties  []PattyRequest
	Tick     time.Duration // wall-clock length of one simulated second
	Blink    time.Duration
	MaxTicks int // 0 runs until the griddle is empty
}

// Frame is the griddle after one simulated second.
type Frame struct {
	Second  int
	Entries []griddle.RenderEntry
	Blinks  int // blink sub-ticks delivered since the previous frame
}

// Summary describes a finished run.
type Summary struct {
	Ticks int
	Shift model.ShiftStats
}

// Simulate drives a tracker on a cooperative loop with the same tick and
// blink cadences the GUI uses. onFrame runs on the loop after every tick.
func Simulate(ctx context.Context, cfg *config.Config, opts Options, onFrame func(Frame), logger *slog.Logger) (Summary, error) {
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.Blink <= 0 {
		opts.Blink = opts.Tick * 2 / 5
	}
	tracker := griddle.NewTracker(cfg, logger)
	shift := model.NewShiftModel()
	tracker.OnExpired(func(griddle.Patty) { shift.PattyExpired() })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop := schedule.NewLoop(logger)

	var (
		runErr  error
		second  int
		blinks  int
		pending = len(opts.Patties)
		origin  = time.Now()
	)
	addDue := func() bool {
		for _, r := range opts.Patties {
			if r.At != second {
				continue
			}
			if _, err := tracker.AddInput(r.X, r.Y, r.Duration); err != nil {
				runErr = fmt.Errorf("headless: patty at second %d: %w", second, err)
				return false
			}
			shift.PattyAdded()
			pending--
		}
		return true
	}
	finish := func() bool {
		cancel()
		return false
	}

	loop.Post(func() {
		if !addDue() {
			cancel()
		}
	})
	schedule.Every(loop, opts.Tick, func() bool {
		if ctx.Err() != nil {
			return false
		}
		second++
		if _, err := tracker.Tick(); err != nil {
			runErr = err
			return finish()
		}
		if !addDue() {
			return finish()
		}
		shift.OnTick(tracker.Len(), origin.Add(time.Duration(second)*time.Second))
		if onFrame != nil {
			onFrame(Frame{Second: second, Entries: tracker.Snapshot(), Blinks: blinks})
		}
		blinks = 0
		if tracker.Len() == 0 && pending == 0 {
			return finish()
		}
		if opts.MaxTicks > 0 && second >= opts.MaxTicks {
			return finish()
		}
		return true
	})
	schedule.Every(loop, opts.Blink, func() bool {
		if ctx.Err() != nil {
			return false
		}
		blinks += len(tracker.BlinkAll())
		return true
	})

	err := loop.Run(ctx)
	if runErr != nil {
		return Summary{Ticks: second, Shift: shift.Stats()}, runErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return Summary{Ticks: second, Shift: shift.Stats()}, err
	}
	if logger != nil {
		logger.Debug("simulation finished", "ticks", second, "added", shift.Stats().Added)
	}
	return Summary{Ticks: second, Shift: shift.Stats()}, nil
}
