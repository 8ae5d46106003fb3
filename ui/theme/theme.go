package theme

// Palette and ttk styles for the griddle UI. InitStyles activates the base
// theme and configures the semantic styles below.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot defines the semantic colors used across widgets.
type PaletteSnapshot struct {
	AppBg      string
	Sidebar    string
	Surface    string
	Primary    string
	Danger     string
	Text       string
	TextMuted  string
	GriddleBg  string
	Diagnostic string
}

var (
	light = PaletteSnapshot{
		AppBg:      "#f7f9fb",
		Sidebar:    "#e2e8f0",
		Surface:    "#ffffff",
		Primary:    "#2563eb",
		Danger:     "#dc2626",
		Text:       "#1e293b",
		TextMuted:  "#64748b",
		GriddleBg:  "black",
		Diagnostic: "#b91c1c",
	}
	dark = PaletteSnapshot{
		AppBg:      "#0f172a",
		Sidebar:    "#1e293b",
		Surface:    "#1e293b",
		Primary:    "#3b82f6",
		Danger:     "#ef4444",
		Text:       "#f1f5f9",
		TextMuted:  "#94a3b8",
		GriddleBg:  "black",
		Diagnostic: "#fca5a5",
	}
)

// Style names used with Style("...") on ttk widgets.
const (
	StyleNavButton     = "nav.TButton"
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleDiagnostic    = "diag.TLabel"
	StyleHeading       = "heading.TLabel"
)

var darkMode bool

// Current returns the palette for the active mode.
func Current() PaletteSnapshot {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(Current()) }

// SetDark switches mode and reapplies styles.
func SetDark(on bool) {
	darkMode = on
	applyStyles(Current())
}

// IsDark reports the current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StyleNavButton,
		Background(p.Sidebar),
		Foreground(p.Text),
		Padding("6p 4p"),
		Borderwidth(0),
	)
	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDiagnostic,
		Foreground(p.Diagnostic),
		Background(p.AppBg),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleHeading,
		Foreground(p.Text),
		Background(p.AppBg),
		Padding("2p 4p"),
	)
}
