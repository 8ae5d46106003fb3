package view

import (
	"strings"

	"github.com/soocke/griddle-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ControlPanel is the add-patty input surface: X, Y and Timer fields, the
// Add Patty button and a diagnostic line.
type ControlPanel struct {
	onAdd func(x, y, duration string)

	xField, yField, timerField *TextWidget
	diagLbl                    *TLabelWidget
	diag                       string
}

func NewControlPanel(onAdd func(x, y, duration string)) *ControlPanel {
	return &ControlPanel{onAdd: onAdd}
}

// Build lays the panel out in parent starting at startRow and returns the
// next free row.
func (c *ControlPanel) Build(parent *Window, startRow int) int {
	p := theme.Current()
	row := startRow
	field := func(label string) *TextWidget {
		lbl := parent.Label(Txt(label), Anchor("w"), Background(p.AppBg), Foreground(p.Text))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := parent.Text(Height(1), Width(12))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		Bind(w, "<Return>", Command(c.submit))
		row++
		return w
	}
	c.xField = field("X Position")
	c.yField = field("Y Position")
	c.timerField = field("Timer (seconds)")
	add := parent.TButton(Txt("Add Patty"), Style(theme.StylePrimaryButton), Command(c.submit))
	Grid(add, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	c.diagLbl = parent.TLabel(Txt(c.diag), Style(theme.StyleDiagnostic))
	Grid(c.diagLbl, Row(row), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
	row++
	return row
}

// Detach forgets widgets destroyed with their screen.
func (c *ControlPanel) Detach() {
	c.xField, c.yField, c.timerField, c.diagLbl = nil, nil, nil, nil
}

// SetDiagnostic shows msg under the button; empty clears it.
func (c *ControlPanel) SetDiagnostic(msg string) {
	c.diag = msg
	if c.diagLbl != nil {
		c.diagLbl.Configure(Txt(msg))
	}
}

func (c *ControlPanel) submit() {
	if c.onAdd == nil || c.xField == nil {
		return
	}
	c.onAdd(fieldText(c.xField), fieldText(c.yField), fieldText(c.timerField))
}

func fieldText(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func setFieldText(w *TextWidget, s string) {
	if w == nil {
		return
	}
	w.Delete("1.0", END)
	w.Insert("1.0", s)
}
