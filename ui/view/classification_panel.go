package view

import (
	"fmt"

	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ClassificationPanel lists the reference images with their hue swatch.
type ClassificationPanel struct {
	onRefresh func()

	parent   *Window
	startRow int
	rows     []*FrameWidget
	errLbl   *TLabelWidget

	results []cooking.Classification
	errMsg  string
}

func NewClassificationPanel(onRefresh func()) *ClassificationPanel {
	return &ClassificationPanel{onRefresh: onRefresh}
}

// Build lays the panel out in parent starting at startRow. The result rows
// occupy startRow+1 .. startRow+3.
func (v *ClassificationPanel) Build(parent *Window, startRow int) int {
	v.parent, v.startRow = parent, startRow
	refresh := parent.TButton(Txt("Re-classify References"), Style(theme.StylePrimaryButton), Command(func() {
		if v.onRefresh != nil {
			v.onRefresh()
		}
	}))
	Grid(refresh, Row(startRow), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	v.errLbl = parent.TLabel(Txt(v.errMsg), Style(theme.StyleDiagnostic))
	Grid(v.errLbl, Row(startRow), Column(1), Sticky("w"), Padx("0.4m"))
	v.fill()
	return startRow + 1 + len(cooking.Labels)
}

// Detach forgets widgets destroyed with their screen.
func (v *ClassificationPanel) Detach() {
	v.parent, v.rows, v.errLbl = nil, nil, nil
}

func (v *ClassificationPanel) ShowClassification(results []cooking.Classification) {
	v.results, v.errMsg = results, ""
	v.fill()
}

func (v *ClassificationPanel) ShowClassificationError(msg string) {
	v.results, v.errMsg = nil, msg
	v.fill()
}

func (v *ClassificationPanel) fill() {
	if v.parent == nil {
		return
	}
	for _, r := range v.rows {
		Destroy(r)
	}
	v.rows = v.rows[:0]
	v.errLbl.Configure(Txt(v.errMsg))
	p := theme.Current()
	for i, res := range v.results {
		row := v.parent.Frame(Background(p.Surface), Borderwidth(1), Relief("groove"))
		Grid(row, Row(v.startRow+1+i), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		swatch := row.Frame(Width(48), Height(24), Background(res.SwatchHex()))
		Grid(swatch, Row(0), Column(0), Padx("0.4m"), Pady("0.2m"))
		lbl := row.Label(Txt(fmt.Sprintf("%-20s hue %5.1f  %s", res.Label, res.Hue, res.SwatchHex())), Anchor("w"), Background(p.Surface), Foreground(p.Text))
		Grid(lbl, Row(0), Column(1), Sticky("w"), Padx("0.4m"))
		v.rows = append(v.rows, row)
	}
}
