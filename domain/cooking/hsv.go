package cooking

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HueRange is the size of the hue scale used throughout the package. Hue
// values live in [0, HueRange); saturation and value in [0, 255].
const HueRange = 180

// HSV is a pixel in hue/saturation/value space on the 0-179 / 0-255 / 0-255 scale.
type HSV struct {
	H, S, V uint8
}

// InBand reports whether p lies inside the inclusive band [lo, hi] on every channel.
func (p HSV) InBand(lo, hi HSV) bool {
	return p.H >= lo.H && p.H <= hi.H &&
		p.S >= lo.S && p.S <= hi.S &&
		p.V >= lo.V && p.V <= hi.V
}

// ToHSV converts any color to the package HSV scale. Fully transparent
// colors convert to black.
func ToHSV(c color.Color) HSV {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return HSV{}
	}
	return fromColorful(col)
}

func rgbToHSV(r, g, b uint8) HSV {
	return fromColorful(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
}

func fromColorful(col colorful.Color) HSV {
	h, s, v := col.Hsv()
	hh := math.Round(h / 2)
	if hh >= HueRange {
		hh -= HueRange
	}
	return HSV{H: uint8(hh), S: uint8(math.Round(s * 255)), V: uint8(math.Round(v * 255))}
}

// HueToRGB maps a hue on the 0-179 scale to a fully saturated, full value
// swatch color.
func HueToRGB(hue float64) color.RGBA {
	hue = math.Mod(hue, HueRange)
	if hue < 0 {
		hue += HueRange
	}
	r, g, b := colorful.Hsv(hue/HueRange*360, 1, 1).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// HexColor formats c as #rrggbb.
func HexColor(c color.Color) string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

// forEachHSV calls fn for every pixel of img in row-major order with
// coordinates relative to the image origin. *image.RGBA and *image.NRGBA are
// read directly from their pixel buffers. Transparent pixels read as black.
func forEachHSV(img image.Image, fn func(x, y int, p HSV)) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			for x := 0; x < w; x++ {
				i := x * 4
				switch a := row[i+3]; a {
				case 0:
					fn(x, y, HSV{})
				case 0xFF:
					fn(x, y, rgbToHSV(row[i], row[i+1], row[i+2]))
				default:
					fn(x, y, ToHSV(color.NRGBA{row[i], row[i+1], row[i+2], a}))
				}
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			for x := 0; x < w; x++ {
				i := x * 4
				a := row[i+3]
				if a == 0 {
					fn(x, y, HSV{})
					continue
				}
				if a == 0xFF {
					fn(x, y, rgbToHSV(row[i], row[i+1], row[i+2]))
					continue
				}
				fn(x, y, ToHSV(color.RGBA{row[i], row[i+1], row[i+2], a}))
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				fn(x, y, ToHSV(img.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	}
}
