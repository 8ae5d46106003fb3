package images

import (
	"errors"
	"image"
	"image/draw"
)

// ExtractRegion crops r grown by pad on every side out of frame. r is in the
// frame's coordinate space and is clamped to its bounds. The returned image
// is a copy with origin (0,0); the clamped rectangle is returned alongside.
func ExtractRegion(frame image.Image, r image.Rectangle, pad int) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("images: nil frame")
	}
	if pad < 0 {
		pad = 0
	}
	roi := r.Inset(-pad).Intersect(frame.Bounds())
	if roi.Empty() {
		return nil, image.Rectangle{}, errors.New("images: region outside frame")
	}
	out := image.NewRGBA(image.Rect(0, 0, roi.Dx(), roi.Dy()))
	draw.Draw(out, out.Bounds(), frame, roi.Min, draw.Src)
	return out, roi, nil
}

// CenteredRect returns the size x size square centred at (cx, cy), shifted
// and clamped to stay inside bounds. The result is at least 1x1 when bounds
// is not empty.
func CenteredRect(bounds image.Rectangle, cx, cy, size int) image.Rectangle {
	if size < 1 {
		size = 1
	}
	x0 := max(cx-size/2, bounds.Min.X)
	y0 := max(cy-size/2, bounds.Min.Y)
	r := image.Rect(x0, y0, x0+size, y0+size).Intersect(bounds)
	if r.Empty() && !bounds.Empty() {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Min.Y+1)
	}
	return r
}
