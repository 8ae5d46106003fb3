package view

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/griddle-bot-go/ui/model"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ShiftStats shows patty counters and griddle busy time in the status bar.
type ShiftStats interface {
	SetShift(s model.ShiftStats)
}

type shiftStats struct {
	countsLbl *LabelWidget
	busyLbl   *LabelWidget
}

// NewShiftStats creates the counter and busy-time labels inside parent at
// (row, startCol) and (row, startCol+1).
func NewShiftStats(parent *FrameWidget, row, startCol int) ShiftStats {
	s := &shiftStats{countsLbl: parent.Label(Width(28), Anchor("w")), busyLbl: parent.Label(Width(28), Anchor("w"))}
	Grid(s.countsLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	Grid(s.busyLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	s.SetShift(model.ShiftStats{})
	return s
}

func (s *shiftStats) SetShift(st model.ShiftStats) {
	if s == nil || s.countsLbl == nil || s.busyLbl == nil {
		return
	}
	s.countsLbl.Configure(Txt(fmt.Sprintf("Cooking: %d  Added: %s  Done: %s",
		st.Cooking, humanize.Comma(int64(st.Added)), humanize.Comma(int64(st.Expired)))))
	s.busyLbl.Configure(Txt(fmt.Sprintf("Busy: %s  Total: %s", clock(st.Session), clock(st.Total))))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
