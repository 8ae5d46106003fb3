package cooking

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/griddle-bot-go/config"
)

var (
	orange = color.RGBA{255, 128, 0, 255} // hue 15
	green  = color.RGBA{0, 255, 0, 255}   // hue 60
	blue   = color.RGBA{0, 0, 255, 255}   // hue 120
	red    = color.RGBA{255, 0, 0, 255}   // hue 0
)

// synthImage creates a w x h RGBA image filled by fill(x, y).
func synthImage(w, h int, fill func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}
	return img
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	return synthImage(w, h, func(int, int) color.RGBA { return c })
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestToHSV_Scale(t *testing.T) {
	if p := ToHSV(orange); p.H != 15 || p.S != 255 || p.V != 255 {
		t.Fatalf("orange: %+v", p)
	}
	if p := ToHSV(blue); p.H != 120 {
		t.Fatalf("blue hue %d", p.H)
	}
	if p := ToHSV(color.RGBA{}); p != (HSV{}) {
		t.Fatalf("transparent should map to zero, got %+v", p)
	}
}

func TestDominantHue_AllBlackIsZero(t *testing.T) {
	if h := DominantHue(solid(32, 32, color.RGBA{0, 0, 0, 255})); h != 0 {
		t.Fatalf("expected sentinel 0, got %v", h)
	}
	if h := DominantHue(image.NewRGBA(image.Rect(0, 0, 0, 0))); h != 0 {
		t.Fatalf("empty image should yield 0, got %v", h)
	}
	if h := DominantHue(nil); h != 0 {
		t.Fatalf("nil image should yield 0, got %v", h)
	}
}

func TestDominantHue_IgnoresTransparentPixels(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	cutout := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			empty.SetNRGBA(x, y, color.NRGBA{0, 255, 0, 0})
			if x < 20 {
				cutout.SetNRGBA(x, y, color.NRGBA{0, 255, 0, 0})
			} else {
				cutout.SetNRGBA(x, y, color.NRGBA{255, 128, 0, 255})
			}
		}
	}
	if h := DominantHue(empty); h != 0 {
		t.Fatalf("fully transparent image should yield 0, got %v", h)
	}
	if h := DominantHue(cutout); h != 15 {
		t.Fatalf("transparent background leaked into hue: got %v", h)
	}
}

func TestDominantHue_UsesCentralRegion(t *testing.T) {
	img := synthImage(40, 40, func(x, y int) color.RGBA {
		if x >= 10 && x < 30 && y >= 10 && y < 30 {
			return orange
		}
		return blue
	})
	if h := DominantHue(img); h != 15 {
		t.Fatalf("expected central orange hue 15, got %v", h)
	}
}

func TestDominantHue_DropsSamplesAtOrBelowFloor(t *testing.T) {
	img := synthImage(40, 40, func(x, y int) color.RGBA {
		if x < 22 {
			return red
		}
		return orange
	})
	if h := DominantHue(img); h != 15 {
		t.Fatalf("red samples should be excluded, got %v", h)
	}
}

func TestDominantHue_EvenCountMedianAverages(t *testing.T) {
	img := synthImage(40, 40, func(x, y int) color.RGBA {
		if y < 20 {
			return green
		}
		return blue
	})
	if h := DominantHue(img); h != 90 {
		t.Fatalf("expected 90, got %v", h)
	}
}

func TestHueToRGB(t *testing.T) {
	if c := HueToRGB(0); c != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("hue 0: %+v", c)
	}
	if c := HueToRGB(60); c != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("hue 60: %+v", c)
	}
	if c := HueToRGB(180); c != HueToRGB(0) {
		t.Fatalf("hue 180 should wrap to 0: %+v", c)
	}
}

func TestClassify_IdenticalReferences(t *testing.T) {
	img := solid(30, 30, orange)
	res, err := Classify([]image.Image{img, img, img})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}
	for i, r := range res {
		if r.Label != Labels[i] {
			t.Fatalf("label %d: %q", i, r.Label)
		}
		if r.Hue != res[0].Hue || r.Swatch != res[0].Swatch {
			t.Fatalf("result %d differs: %+v vs %+v", i, r, res[0])
		}
	}
}

func TestClassify_ResizesToFirstImage(t *testing.T) {
	res, err := Classify([]image.Image{solid(30, 30, orange), solid(64, 10, blue), solid(7, 90, green)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res[0].Hue != 15 || res[1].Hue != 120 || res[2].Hue != 60 {
		t.Fatalf("unexpected hues %v %v %v", res[0].Hue, res[1].Hue, res[2].Hue)
	}
	if res[1].SwatchHex() != "#0000ff" {
		t.Fatalf("unexpected swatch %s", res[1].SwatchHex())
	}
}

func TestClassify_InputErrors(t *testing.T) {
	img := solid(4, 4, orange)
	if _, err := Classify([]image.Image{img, img}); !errors.Is(err, ErrReferenceCount) {
		t.Fatalf("expected ErrReferenceCount, got %v", err)
	}
	if _, err := Classify([]image.Image{img, nil, img}); !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
}

func TestClassifier_MissingFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "raw.png"), solid(10, 10, orange))
	c := NewClassifier(nil, nil, nil)
	res := c.ClassifyFiles([3]string{filepath.Join(dir, "raw.png"), filepath.Join(dir, "half.png"), filepath.Join(dir, "done.png")})
	if len(res) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if !errors.Is(c.LastError(), ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset diagnostic, got %v", c.LastError())
	}
}

func TestClassifier_CorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewClassifier(nil, nil, nil)
	if res := c.ClassifyFiles([3]string{bad, bad, bad}); len(res) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if !errors.Is(c.LastError(), ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", c.LastError())
	}
}

func TestClassifier_ClassifyFilesAndCache(t *testing.T) {
	dir := t.TempDir()
	paths := [3]string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.png")}
	writePNG(t, paths[0], solid(20, 20, red))
	writePNG(t, paths[1], solid(20, 20, orange))
	writePNG(t, paths[2], solid(20, 20, green))
	loader := NewReferenceLoader(4)
	c := NewClassifier(config.DefaultConfig(), loader, nil)
	res := c.ClassifyFiles(paths)
	if len(res) != 3 || c.LastError() != nil {
		t.Fatalf("classification failed: %v", c.LastError())
	}
	// pure red sits on the hue floor and degrades to the sentinel
	if res[0].Hue != 0 || res[1].Hue != 15 || res[2].Hue != 60 {
		t.Fatalf("unexpected hues %+v", res)
	}
	c.ClassifyFiles(paths)
	if loader.Len() != 3 {
		t.Fatalf("expected 3 cached images, got %d", loader.Len())
	}
	if got, ok := Nearest(58, res); !ok || got.Label != Labels[2] {
		t.Fatalf("nearest label mismatch: %+v", got)
	}
}
