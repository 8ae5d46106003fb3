package view

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the Settings form. ApplyChanges writes the parsed values back
// into *config.Config, persists them and hands the result to onApplied.
type ConfigPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)

	applyBtn *TButtonWidget
	status   *TLabelWidget
	widgets  map[string]*TextWidget
}

func NewConfigPanel(cfg *config.Config, cfgPath string, onApplied func(*config.Config), logger *slog.Logger) *ConfigPanel {
	return &ConfigPanel{cfg: cfg, cfgPath: cfgPath, onApplied: onApplied, logger: logger}
}

type intField struct {
	id, label string
	ptr       func(*config.Config) *int
}

var configFields = []intField{
	{"defaultDuration", "Default Timer (s)", func(c *config.Config) *int { return &c.DefaultDurationSeconds }},
	{"alarmThreshold", "Alarm Threshold (s)", func(c *config.Config) *int { return &c.AlarmThresholdSeconds }},
	{"blinkInterval", "Blink Interval (ms)", func(c *config.Config) *int { return &c.BlinkIntervalMs }},
	{"pattyRadius", "Patty Radius (px)", func(c *config.Config) *int { return &c.PattyRadius }},
	{"hueFloor", "Hue Floor (0-179)", func(c *config.Config) *int { return &c.HueFloor }},
	{"bandLowerH", "Band Lower H", func(c *config.Config) *int { return &c.BandLowerH }},
	{"bandLowerS", "Band Lower S", func(c *config.Config) *int { return &c.BandLowerS }},
	{"bandLowerV", "Band Lower V", func(c *config.Config) *int { return &c.BandLowerV }},
	{"bandUpperH", "Band Upper H", func(c *config.Config) *int { return &c.BandUpperH }},
	{"bandUpperS", "Band Upper S", func(c *config.Config) *int { return &c.BandUpperS }},
	{"bandUpperV", "Band Upper V", func(c *config.Config) *int { return &c.BandUpperV }},
	{"minRegionArea", "Min Region Area (px)", func(c *config.Config) *int { return &c.MinRegionArea }},
}

// Build lays the form out in parent starting at startRow and returns the next
// free row.
func (v *ConfigPanel) Build(parent *Window, startRow int) (row int) {
	p := theme.Current()
	v.widgets = make(map[string]*TextWidget, len(configFields))
	row = startRow
	for _, f := range configFields {
		lbl := parent.Label(Txt(f.label), Anchor("w"), Background(p.AppBg), Foreground(p.Text))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := parent.Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		if v.cfg != nil {
			setFieldText(w, strconv.Itoa(*f.ptr(v.cfg)))
		}
		v.widgets[f.id] = w
		row++
	}
	v.applyBtn = parent.TButton(Txt("Apply Changes"), Style(theme.StylePrimaryButton), Command(v.ApplyChanges))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	v.status = parent.TLabel(Txt(""), Style(theme.StyleDiagnostic))
	Grid(v.status, Row(row), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
	row++
	return row
}

// Detach forgets widgets destroyed with their screen.
func (v *ConfigPanel) Detach() {
	v.widgets, v.applyBtn, v.status = nil, nil, nil
}

// ApplyChanges parses the form. Fields that do not parse keep their old value.
func (v *ConfigPanel) ApplyChanges() {
	if v.cfg == nil || v.widgets == nil {
		return
	}
	cfg := *v.cfg
	var rejected []string
	for _, f := range configFields {
		raw := fieldText(v.widgets[f.id])
		i, ok := parseIntField(raw)
		if !ok {
			rejected = append(rejected, f.label)
			continue
		}
		*f.ptr(&cfg) = i
	}
	if err := cfg.Validate(); err != nil {
		v.setStatus(err.Error())
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		v.setStatus("Save failed: " + err.Error())
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
		v.setStatus("Saved")
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
	if len(rejected) > 0 {
		v.setStatus("Ignored: " + strings.Join(rejected, ", "))
	}
	for _, f := range configFields {
		setFieldText(v.widgets[f.id], strconv.Itoa(*f.ptr(v.cfg)))
	}
}

func (v *ConfigPanel) setStatus(msg string) {
	if v.status != nil {
		v.status.Configure(Txt(msg))
	}
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
