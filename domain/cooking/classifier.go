package cooking

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/soocke/griddle-bot-go/config"
)

var (
	// ErrMissingAsset reports a reference image that is absent or unreadable.
	ErrMissingAsset = errors.New("cooking: missing reference image")
	// ErrReferenceCount reports a classify call without exactly three references.
	ErrReferenceCount = errors.New("cooking: exactly three reference images required")
)

// DefaultHueFloor is the hue at or below which samples are treated as
// shadow or background.
const DefaultHueFloor = 10

// Labels pairs positionally with the reference images passed to Classify.
var Labels = [3]string{"Raw (10%)", "Half-Cooked (60%)", "Fully Cooked (100%)"}

// Classification is one classified reference: its label, dominant hue and
// representative swatch color.
type Classification struct {
	Label  string
	Hue    float64
	Swatch color.RGBA
}

// SwatchHex returns the swatch as #rrggbb.
func (c Classification) SwatchHex() string { return HexColor(c.Swatch) }

// DominantHue returns the median hue of the central region of img using the
// default hue floor.
func DominantHue(img image.Image) float64 { return DominantHueWith(img, DefaultHueFloor) }

// DominantHueWith crops img to its central 50%x50% region, drops hue samples
// at or below floor and returns the median of the rest. An empty image or a
// region with no usable samples yields 0.
func DominantHueWith(img image.Image, floor int) float64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0
	}
	w, h := b.Dx()/2, b.Dy()/2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	roi := imaging.CropCenter(img, w, h)
	hues := make([]int, 0, w*h)
	forEachHSV(roi, func(_, _ int, p HSV) {
		if int(p.H) > floor {
			hues = append(hues, int(p.H))
		}
	})
	return median(hues)
}

func median(v []int) float64 {
	if len(v) == 0 {
		return 0
	}
	sort.Ints(v)
	mid := len(v) / 2
	if len(v)%2 == 1 {
		return float64(v[mid])
	}
	return float64(v[mid-1]+v[mid]) / 2
}

// Classify computes the dominant hue of each reference image and pairs the
// results positionally with Labels. Images after the first are resized to the
// first image's dimensions before analysis.
func Classify(refs []image.Image) ([]Classification, error) {
	return classify(refs, DefaultHueFloor)
}

func classify(refs []image.Image, floor int) ([]Classification, error) {
	if len(refs) != len(Labels) {
		return nil, fmt.Errorf("%w: got %d", ErrReferenceCount, len(refs))
	}
	for i, img := range refs {
		if img == nil || img.Bounds().Empty() {
			return nil, fmt.Errorf("%w: reference %d (%s) is empty", ErrMissingAsset, i, Labels[i])
		}
	}
	size := refs[0].Bounds().Size()
	out := make([]Classification, 0, len(refs))
	for i, img := range refs {
		if img.Bounds().Size() != size {
			img = imaging.Resize(img, size.X, size.Y, imaging.Linear)
		}
		hue := DominantHueWith(img, floor)
		out = append(out, Classification{Label: Labels[i], Hue: hue, Swatch: HueToRGB(hue)})
	}
	return out, nil
}

// Nearest returns the classification whose hue is closest to hue.
func Nearest(hue float64, results []Classification) (Classification, bool) {
	if len(results) == 0 {
		return Classification{}, false
	}
	best := results[0]
	bestD := math.Abs(hue - best.Hue)
	for _, r := range results[1:] {
		if d := math.Abs(hue - r.Hue); d < bestD {
			best, bestD = r, d
		}
	}
	return best, true
}

// Classifier loads reference images from disk and classifies them. It never
// fails outward: missing or corrupt assets are logged and yield an empty
// result, with the cause available from LastError.
type Classifier struct {
	loader   *ReferenceLoader
	logger   *slog.Logger
	hueFloor int
	lastErr  error
}

// NewClassifier returns a Classifier configured from cfg. If cfg is nil the
// default configuration is used.
func NewClassifier(cfg *config.Config, loader *ReferenceLoader, logger *slog.Logger) *Classifier {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if loader == nil {
		loader = NewReferenceLoader(0)
	}
	return &Classifier{loader: loader, logger: logger, hueFloor: cfg.HueFloor}
}

// HueFloor reports the configured hue floor.
func (c *Classifier) HueFloor() int { return c.hueFloor }

// ClassifyFiles loads the three reference images at paths (raw, half-cooked,
// fully cooked) and classifies them.
func (c *Classifier) ClassifyFiles(paths [3]string) []Classification {
	c.lastErr = nil
	refs := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := c.loader.Load(p)
		if err != nil {
			c.fail(err)
			return nil
		}
		refs = append(refs, img)
	}
	res, err := classify(refs, c.hueFloor)
	if err != nil {
		c.fail(err)
		return nil
	}
	if c.logger != nil {
		for _, r := range res {
			c.logger.Debug("reference classified", "label", r.Label, "hue", r.Hue, "swatch", r.SwatchHex())
		}
	}
	return res
}

// RegionHue returns the dominant hue of a live region using the classifier's floor.
func (c *Classifier) RegionHue(img image.Image) float64 { return DominantHueWith(img, c.hueFloor) }

// LastError returns the diagnostic from the most recent ClassifyFiles call.
func (c *Classifier) LastError() error { return c.lastErr }

func (c *Classifier) fail(err error) {
	c.lastErr = err
	if c.logger != nil {
		c.logger.Error("classification unavailable", "error", err)
	}
}
