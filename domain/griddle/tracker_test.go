package griddle

import (
	"errors"
	"image/color"
	"log/slog"
	"testing"

	"github.com/soocke/griddle-bot-go/config"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestTracker(threshold int) *Tracker {
	cfg := config.DefaultConfig()
	cfg.AlarmThresholdSeconds = threshold
	return NewTracker(cfg, discardLogger)
}

// mustTick fails the test when Tick reports an error.
func mustTick(t *testing.T, tr *Tracker) []RenderEntry {
	t.Helper()
	snap, err := tr.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	return snap
}

func TestUrgencyColor_Bands(t *testing.T) {
	for r := 0; r <= 40; r++ {
		got := UrgencyColor(r)
		var want Color
		switch {
		case r > 10:
			want = Green
		case r >= 5:
			want = Orange
		default:
			want = Red
		}
		if got != want {
			t.Fatalf("remaining %d: expected %v, got %v", r, want, got)
		}
	}
}

func TestTracker_RemovedAfterFourTicksForDurationThree(t *testing.T) {
	tr := newTestTracker(5)
	id, err := tr.Add(Position{10, 20}, 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := []int{2, 1, 0}
	for i, w := range want {
		snap := mustTick(t, tr)
		if len(snap) != 1 || snap[0].Remaining != w {
			t.Fatalf("tick %d: expected remaining %d, got %+v", i+1, w, snap)
		}
	}
	snap := mustTick(t, tr)
	if len(snap) != 0 {
		t.Fatalf("expected removal on 4th tick, got %+v", snap)
	}
	if _, ok := tr.Get(id); ok {
		t.Fatalf("patty still retrievable after removal")
	}
}

func TestTracker_EndToEndDurationTwo(t *testing.T) {
	tr := newTestTracker(5)
	if _, err := tr.Add(Position{100, 100}, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap := mustTick(t, tr)
	if len(snap) != 1 || snap[0].Remaining != 1 || snap[0].Urgency != Red || snap[0].Fill() != Red {
		t.Fatalf("unexpected first snapshot %+v", snap)
	}
	if snap[0].Position != (Position{100, 100}) {
		t.Fatalf("position changed: %+v", snap[0].Position)
	}
	mustTick(t, tr)
	snap = mustTick(t, tr)
	if len(snap) != 0 {
		t.Fatalf("expected patty absent, got %+v", snap)
	}
}

func TestTracker_NeverRendersNegativeTime(t *testing.T) {
	tr := newTestTracker(4)
	for d := 0; d < 6; d++ {
		if _, err := tr.Add(Position{d, d}, d); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		for _, e := range mustTick(t, tr) {
			if e.Remaining < 0 {
				t.Fatalf("negative remaining rendered: %+v", e)
			}
		}
	}
	if tr.Len() != 0 {
		t.Fatalf("expected all patties expired, %d left", tr.Len())
	}
}

func TestTracker_AlarmActivatesOnceAndStays(t *testing.T) {
	tr := newTestTracker(4)
	id, _ := tr.Add(Position{0, 0}, 8)
	activations := 0
	prev := false
	for i := 0; i < 9; i++ {
		mustTick(t, tr)
		p, ok := tr.Get(id)
		if !ok {
			break
		}
		if p.AlarmActive && !prev {
			activations++
			if p.Remaining != 4 {
				t.Fatalf("alarm fired at %d, expected 4", p.Remaining)
			}
		}
		if prev && !p.AlarmActive {
			t.Fatalf("alarm deactivated before removal")
		}
		prev = p.AlarmActive
		tr.BlinkAll()
	}
	if activations != 1 {
		t.Fatalf("expected exactly one activation, got %d", activations)
	}
}

func TestTracker_ShortDurationAlarmsOnFirstTick(t *testing.T) {
	tr := newTestTracker(5)
	id, _ := tr.Add(Position{0, 0}, 3)
	mustTick(t, tr)
	p, _ := tr.Get(id)
	if !p.AlarmActive {
		t.Fatalf("expected alarm once remaining is under the threshold")
	}
}

func TestTracker_BlinkAlternatesAndStops(t *testing.T) {
	tr := newTestTracker(5)
	id, _ := tr.Add(Position{0, 0}, 6)
	if _, ok := tr.BlinkTick(id); ok {
		t.Fatalf("blink before alarm should signal stop")
	}
	mustTick(t, tr) // 5 -> alarm
	snap := tr.Snapshot()
	if !snap[0].Blinking || snap[0].Fill() != Red {
		t.Fatalf("expected red blink override, got %+v", snap[0])
	}
	var seq []Color
	for i := 0; i < 4; i++ {
		c, ok := tr.BlinkTick(id)
		if !ok {
			t.Fatalf("blink stopped early")
		}
		seq = append(seq, c)
	}
	want := []Color{Black, Red, Black, Red}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("blink sequence %v, want %v", seq, want)
		}
	}
	for tr.Len() > 0 {
		mustTick(t, tr)
	}
	if _, ok := tr.BlinkTick(id); ok {
		t.Fatalf("blink should stop after removal")
	}
}

func TestTracker_BlinkOverridesUrgency(t *testing.T) {
	tr := newTestTracker(12)
	tr.Add(Position{0, 0}, 20)
	var snap []RenderEntry
	for i := 0; i < 8; i++ { // 12 remaining
		snap = mustTick(t, tr)
	}
	if snap[0].Urgency != Green || !snap[0].Blinking {
		t.Fatalf("expected green urgency with active blink, got %+v", snap[0])
	}
	tr.BlinkAll()
	if tr.Snapshot()[0].Fill() != Black {
		t.Fatalf("expected blink override to win over urgency color")
	}
}

func TestTracker_AddInputValidation(t *testing.T) {
	tr := newTestTracker(5)
	cases := []struct{ x, y, d string }{
		{"", "10", "5"},
		{"a", "10", "5"},
		{"10", "1.5", "5"},
		{"10", "10", "soon"},
		{"10", "10", "-3"},
	}
	for _, c := range cases {
		if _, err := tr.AddInput(c.x, c.y, c.d); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", c, err)
		}
	}
	if tr.Len() != 0 {
		t.Fatalf("rejected input mutated state: %d patties", tr.Len())
	}
	id, err := tr.AddInput(" 40 ", "50", "")
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	p, _ := tr.Get(id)
	if p.Remaining != 30 || p.Position != (Position{40, 50}) {
		t.Fatalf("unexpected patty %+v", p)
	}
}

func TestTracker_SharedPositionDistinctIDs(t *testing.T) {
	tr := newTestTracker(5)
	a, _ := tr.Add(Position{5, 5}, 1)
	b, _ := tr.Add(Position{5, 5}, 10)
	if a == b {
		t.Fatalf("ids collide for shared position")
	}
	mustTick(t, tr)
	mustTick(t, tr)
	if _, ok := tr.Get(a); ok {
		t.Fatalf("short patty should be gone")
	}
	if _, ok := tr.Get(b); !ok {
		t.Fatalf("long patty removed with its neighbour")
	}
}

func TestTracker_ExpiredListener(t *testing.T) {
	tr := newTestTracker(5)
	var got []Patty
	tr.OnExpired(func(p Patty) { got = append(got, p) })
	id, _ := tr.Add(Position{1, 2}, 0)
	mustTick(t, tr)
	if len(got) != 1 || got[0].ID != id || got[0].Remaining != 0 {
		t.Fatalf("unexpected expirations %+v", got)
	}
}

func TestTracker_CorruptionLeavesStateUntouched(t *testing.T) {
	tr := newTestTracker(5)
	good, _ := tr.Add(Position{0, 0}, 9)
	bad, _ := tr.Add(Position{1, 1}, 9)
	tr.patties[bad].Remaining = -2
	if _, err := tr.Tick(); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
	p, _ := tr.Get(good)
	if p.Remaining != 9 {
		t.Fatalf("partial tick committed: remaining=%d", p.Remaining)
	}
}

func TestColor_TextContrast(t *testing.T) {
	if Orange.TextColor() != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("orange should use black text")
	}
	for _, c := range []Color{Green, Red, Black} {
		if c.TextColor() != (color.RGBA{255, 255, 255, 255}) {
			t.Fatalf("%s should use white text", c)
		}
	}
	if Red.RGBA() != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("unexpected red %+v", Red.RGBA())
	}
}
