package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Disc is a filled circle with a centred caption.
type Disc struct {
	Center image.Point
	Fill   color.RGBA
	Text   color.RGBA
	Label  string
}

// Box is an outlined rectangle with a caption above it.
type Box struct {
	Rect  image.Rectangle
	Color color.RGBA
	Label string
}

// RenderDiscs draws discs of the given radius onto a black w x h canvas in
// order, later discs on top. Captions scale with the radius.
func RenderDiscs(w, h, radius int, discs []Disc) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{A: 0xFF}), image.Point{}, draw.Src)
	scale := max(radius/20, 1)
	for _, d := range discs {
		fillCircle(canvas, d.Center, radius, d.Fill)
		if d.Label != "" {
			drawLabel(canvas, d.Center, d.Label, d.Text, scale)
		}
	}
	return canvas
}

// DrawBoxes returns a copy of frame with each box outlined and captioned.
func DrawBoxes(frame image.Image, boxes []Box) *image.RGBA {
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), frame, b.Min, draw.Src)
	for _, box := range boxes {
		r := box.Rect.Sub(b.Min)
		strokeRect(out, r, 2, box.Color)
		if box.Label != "" {
			sprite := textSprite(box.Label, 1)
			at := image.Pt(r.Min.X, r.Min.Y-sprite.Bounds().Dy()-1)
			if at.Y < 0 {
				at.Y = r.Min.Y + 2
			}
			draw.DrawMask(out, sprite.Bounds().Add(at), image.NewUniform(box.Color), image.Point{}, sprite, sprite.Bounds().Min, draw.Over)
		}
	}
	return out
}

func fillCircle(dst *image.RGBA, c image.Point, r int, col color.RGBA) {
	area := image.Rect(c.X-r, c.Y-r, c.X+r+1, c.Y+r+1).Intersect(dst.Bounds())
	rr := r * r
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := y - c.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := x - c.X
			if dx*dx+dy*dy <= rr {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

func strokeRect(dst *image.RGBA, r image.Rectangle, width int, col color.RGBA) {
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst *image.RGBA, center image.Point, s string, col color.RGBA, scale int) {
	sprite := textSprite(s, scale)
	sb := sprite.Bounds()
	at := center.Sub(image.Pt(sb.Dx()/2, sb.Dy()/2))
	draw.DrawMask(dst, sb.Add(at), image.NewUniform(col), image.Point{}, sprite, sb.Min, draw.Over)
}

// textSprite rasterises s with the 7x13 bitmap face into a mask, enlarged by
// an integer factor without smoothing.
func textSprite(s string, scale int) image.Image {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	w := d.MeasureString(s).Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, max(w, 1), face.Height))
	d.Dst = mask
	d.Src = image.Opaque
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(s)
	if scale <= 1 {
		return mask
	}
	return imaging.Resize(mask, mask.Bounds().Dx()*scale, mask.Bounds().Dy()*scale, imaging.NearestNeighbor)
}
