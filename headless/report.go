package headless

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/ui/images"
)

// Region is a browned area found in a still frame.
type Region struct {
	Rect  image.Rectangle
	Area  int
	Hue   float64
	Label string
}

// Huer measures the dominant hue of a region crop.
type Huer interface {
	RegionHue(img image.Image) float64
}

// DetectImage finds browned regions in img with the configured band and labels
// each by the nearest reference hue. refs may be empty.
func DetectImage(img image.Image, cfg *config.Config, huer Huer, refs []cooking.Classification) []Region {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	blobs := cooking.BandFromConfig(cfg).DetectBlobs(img, cfg.MinRegionArea)
	out := make([]Region, 0, len(blobs))
	for _, b := range blobs {
		r := Region{Rect: b.Box, Area: b.Area}
		if huer != nil {
			if crop, _, err := images.ExtractRegion(img, b.Box, 0); err == nil {
				r.Hue = huer.RegionHue(crop)
			}
		}
		if c, ok := cooking.Nearest(r.Hue, refs); ok {
			r.Label = c.Label
		}
		out = append(out, r)
	}
	return out
}

var regionColor = color.RGBA{0x00, 0xFF, 0x00, 0xFF}

// SaveAnnotated writes img with an outlined, labelled box around every region.
// The format follows the file extension.
func SaveAnnotated(path string, img image.Image, regions []Region) error {
	boxes := make([]images.Box, len(regions))
	for i, r := range regions {
		boxes[i] = images.Box{Rect: r.Rect, Color: regionColor, Label: r.Label}
	}
	if err := imaging.Save(images.DrawBoxes(img, boxes), path); err != nil {
		return fmt.Errorf("headless: save %s: %w", path, err)
	}
	return nil
}

// ClassificationReport tabulates reference classifications.
func ClassificationReport(results []cooking.Classification) Report {
	r := Report{Columns: []Column{{Header: "Reference"}, {Header: "Hue", Numeric: true}, {Header: "Swatch"}}}
	for _, c := range results {
		r.Rows = append(r.Rows, table.Row{c.Label, strconv.FormatFloat(c.Hue, 'f', 1, 64), c.SwatchHex()})
	}
	return r
}

// RegionReport tabulates detected regions. Area is the enclosed pixel count
// compared against min_region_area.
func RegionReport(regions []Region) Report {
	r := Report{Columns: []Column{
		{Header: "#", Numeric: true},
		{Header: "Position"},
		{Header: "Size"},
		{Header: "Area", Numeric: true},
		{Header: "Hue", Numeric: true},
		{Header: "Label"},
	}}
	for i, reg := range regions {
		label := reg.Label
		if label == "" {
			label = "-"
		}
		r.Rows = append(r.Rows, table.Row{
			i + 1,
			fmt.Sprintf("%d,%d", reg.Rect.Min.X, reg.Rect.Min.Y),
			fmt.Sprintf("%dx%d", reg.Rect.Dx(), reg.Rect.Dy()),
			humanize.Comma(int64(reg.Area)),
			strconv.FormatFloat(reg.Hue, 'f', 1, 64),
			label,
		})
	}
	return r
}

// FormatFrame renders one simulated second as a single line.
func FormatFrame(f Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%3ds", f.Second)
	if len(f.Entries) == 0 {
		b.WriteString("  griddle empty")
	}
	for _, e := range f.Entries {
		mark := ""
		if e.Blinking {
			mark = "!"
		}
		fmt.Fprintf(&b, "  (%d,%d) %2d %s%s", e.Position.X, e.Position.Y, e.Remaining, e.Fill(), mark)
	}
	return b.String()
}

// SummaryReport tabulates a finished simulation.
func SummaryReport(s Summary) Report {
	return Report{
		Columns: []Column{{Header: "Shift"}, {Header: "Value", Numeric: true}},
		Rows: []table.Row{
			{"Seconds simulated", humanize.Comma(int64(s.Ticks))},
			{"Patties added", humanize.Comma(int64(s.Shift.Added))},
			{"Patties done", humanize.Comma(int64(s.Shift.Expired))},
			{"Still cooking", humanize.Comma(int64(s.Shift.Cooking))},
			{"Griddle busy", s.Shift.Total.String()},
		},
	}
}
