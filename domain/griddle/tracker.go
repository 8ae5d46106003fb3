package griddle

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/griddle-bot-go/config"
)

// Tracker owns the set of in-flight patties and derives their visual state
// from remaining time. Not safe for concurrent use; Add, Tick and BlinkTick
// must run on the same event loop.
type Tracker struct {
	logger          *slog.Logger
	defaultDuration int
	threshold       int
	now             func() time.Time

	order   []PattyID
	patties map[PattyID]*Patty

	listeners []ExpiredListener
}

// NewTracker returns an empty tracker configured from cfg. If cfg is nil the
// default configuration is used.
func NewTracker(cfg *config.Config, logger *slog.Logger) *Tracker {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Tracker{
		logger:          logger,
		defaultDuration: cfg.DefaultDurationSeconds,
		threshold:       cfg.AlarmThresholdSeconds,
		now:             time.Now,
		patties:         make(map[PattyID]*Patty),
	}
}

// SetThreshold changes the alarm threshold for subsequent ticks. Patties whose
// alarm already fired keep blinking.
func (t *Tracker) SetThreshold(seconds int) {
	if seconds < 0 {
		return
	}
	t.threshold = seconds
}

// Threshold reports the alarm threshold in seconds.
func (t *Tracker) Threshold() int { return t.threshold }

// SetDefaultDuration changes the duration used when an add request omits it.
func (t *Tracker) SetDefaultDuration(seconds int) {
	if seconds < 0 {
		return
	}
	t.defaultDuration = seconds
}

// OnExpired registers a listener invoked after a tick commits a removal.
func (t *Tracker) OnExpired(l ExpiredListener) {
	if l != nil {
		t.listeners = append(t.listeners, l)
	}
}

// Add inserts a new patty at pos with the given countdown.
func (t *Tracker) Add(pos Position, durationSeconds int) (PattyID, error) {
	if durationSeconds < 0 {
		return uuid.Nil, fmt.Errorf("%w: negative duration %d", ErrInvalidInput, durationSeconds)
	}
	id := uuid.New()
	t.patties[id] = &Patty{
		ID:        id,
		Position:  pos,
		Remaining: durationSeconds,
		AddedAt:   t.now(),
	}
	t.order = append(t.order, id)
	if t.logger != nil {
		t.logger.Debug("patty added", "id", id, "x", pos.X, "y", pos.Y, "seconds", durationSeconds)
	}
	return id, nil
}

// AddInput parses raw text from the input surface and adds a patty. x and y
// must be integers; an empty duration falls back to the default duration.
func (t *Tracker) AddInput(x, y, duration string) (PattyID, error) {
	px, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: x position %q is not an integer", ErrInvalidInput, x)
	}
	py, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: y position %q is not an integer", ErrInvalidInput, y)
	}
	seconds := t.defaultDuration
	if d := strings.TrimSpace(duration); d != "" {
		seconds, err = strconv.Atoi(d)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: timer %q is not an integer", ErrInvalidInput, duration)
		}
	}
	return t.Add(Position{X: px, Y: py}, seconds)
}

// Tick advances every patty by one second and returns the resulting render
// snapshot. A patty whose countdown was already 0 is removed instead of
// decremented. Mutations are staged and committed together; on an invariant
// violation nothing is committed and ErrCorrupted is returned.
func (t *Tracker) Tick() ([]RenderEntry, error) {
	next := make([]Patty, 0, len(t.order))
	var expired []Patty
	seen := make(map[PattyID]struct{}, len(t.order))
	for _, id := range t.order {
		p, ok := t.patties[id]
		if !ok {
			return nil, fmt.Errorf("%w: ordered id %s missing from set", ErrCorrupted, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrCorrupted, id)
		}
		seen[id] = struct{}{}
		if p.Remaining < 0 {
			return nil, fmt.Errorf("%w: patty %s has negative time %d", ErrCorrupted, id, p.Remaining)
		}
		if p.Remaining == 0 {
			expired = append(expired, *p)
			continue
		}
		n := *p
		n.Remaining--
		if !n.AlarmActive && n.Remaining <= t.threshold {
			n.AlarmActive = true
			n.BlinkPhase = true
			if t.logger != nil {
				t.logger.Info("patty alarm", "id", id, "remaining", n.Remaining)
			}
		}
		next = append(next, n)
	}
	if len(seen) != len(t.patties) {
		return nil, fmt.Errorf("%w: %d tracked patties but %d ordered", ErrCorrupted, len(t.patties), len(seen))
	}

	patties := make(map[PattyID]*Patty, len(next))
	order := make([]PattyID, 0, len(next))
	for i := range next {
		patties[next[i].ID] = &next[i]
		order = append(order, next[i].ID)
	}
	t.patties, t.order = patties, order

	for _, p := range expired {
		if t.logger != nil {
			t.logger.Info("patty expired", "id", p.ID, "x", p.Position.X, "y", p.Position.Y)
		}
		for _, l := range t.listeners {
			l(p)
		}
	}
	return t.Snapshot(), nil
}

// BlinkTick toggles the blink phase of an alarmed patty and returns the color
// to apply for this sub-tick. It returns false once the patty no longer exists
// (or never alarmed), signalling the caller to stop its blink cadence.
func (t *Tracker) BlinkTick(id PattyID) (Color, bool) {
	p, ok := t.patties[id]
	if !ok || !p.AlarmActive {
		return Black, false
	}
	p.BlinkPhase = !p.BlinkPhase
	return blinkColor(p.BlinkPhase), true
}

// BlinkAll runs BlinkTick for every alarmed patty in tracking order.
func (t *Tracker) BlinkAll() []BlinkEntry {
	var out []BlinkEntry
	for _, id := range t.order {
		if c, ok := t.BlinkTick(id); ok {
			out = append(out, BlinkEntry{ID: id, Color: c})
		}
	}
	return out
}

// Snapshot returns the current render model without advancing time.
func (t *Tracker) Snapshot() []RenderEntry {
	out := make([]RenderEntry, 0, len(t.order))
	for _, id := range t.order {
		p := t.patties[id]
		e := RenderEntry{
			ID:        p.ID,
			Position:  p.Position,
			Remaining: p.Remaining,
			Urgency:   UrgencyColor(p.Remaining),
		}
		if p.AlarmActive {
			e.Blinking = true
			e.Blink = blinkColor(p.BlinkPhase)
		}
		out = append(out, e)
	}
	return out
}

// Get returns a copy of the patty with the given id.
func (t *Tracker) Get(id PattyID) (Patty, bool) {
	p, ok := t.patties[id]
	if !ok {
		return Patty{}, false
	}
	return *p, true
}

// Len reports the number of tracked patties.
func (t *Tracker) Len() int { return len(t.order) }

func blinkColor(phase bool) Color {
	if phase {
		return Red
	}
	return Black
}
