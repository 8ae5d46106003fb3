package cooking

import (
	"image"

	"github.com/soocke/griddle-bot-go/config"
)

// Band is an inclusive HSV range describing a target coloring.
type Band struct {
	Lower, Upper HSV
}

// BandFromConfig returns the browned-region band configured in cfg.
func BandFromConfig(cfg *config.Config) Band {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Band{
		Lower: HSV{H: uint8(cfg.BandLowerH), S: uint8(cfg.BandLowerS), V: uint8(cfg.BandLowerV)},
		Upper: HSV{H: uint8(cfg.BandUpperH), S: uint8(cfg.BandUpperS), V: uint8(cfg.BandUpperV)},
	}
}

// Detect runs DetectRegions with the band's bounds.
func (b Band) Detect(frame image.Image, minArea int) []image.Rectangle {
	return DetectRegions(frame, b.Lower, b.Upper, minArea)
}

// DetectBlobs runs DetectBlobs with the band's bounds.
func (b Band) DetectBlobs(frame image.Image, minArea int) []Blob {
	return DetectBlobs(frame, b.Lower, b.Upper, minArea)
}

// Blob is one detected region: its bounding box in frame coordinates and the
// number of pixels inside its outer contour, holes included.
type Blob struct {
	Box  image.Rectangle
	Area int
}

// DetectRegions thresholds frame into a mask of pixels inside [lower, upper],
// groups the mask into 8-connected regions and returns the bounding box of
// every region enclosing at least minArea pixels. Boxes are in frame
// coordinates, ordered by the first pixel of each region in row-major order.
// The call is stateless; a nil or empty frame yields no boxes.
func DetectRegions(frame image.Image, lower, upper HSV, minArea int) []image.Rectangle {
	blobs := DetectBlobs(frame, lower, upper, minArea)
	if len(blobs) == 0 {
		return nil
	}
	out := make([]image.Rectangle, len(blobs))
	for i, b := range blobs {
		out[i] = b.Box
	}
	return out
}

// DetectBlobs is DetectRegions keeping the enclosed area of each region.
func DetectBlobs(frame image.Image, lower, upper HSV, minArea int) []Blob {
	if frame == nil || frame.Bounds().Empty() {
		return nil
	}
	var out []Blob
	for _, b := range findBlobs(frame, lower, upper) {
		if b.Area >= minArea {
			out = append(out, b)
		}
	}
	return out
}
