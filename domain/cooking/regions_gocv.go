//go:build gocv

package cooking

import (
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// findBlobs thresholds frame in OpenCV HSV space and measures the external
// contours of the mask. OpenCV's 8-bit HSV uses the same 0-179 hue scale as
// HSV.
func findBlobs(frame image.Image, lower, upper HSV) []Blob {
	b := frame.Bounds()
	rgb, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC3, packRGB(frame))
	if err != nil {
		return nil
	}
	defer rgb.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(rgb, &hsv, gocv.ColorRGBToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(float64(lower.H), float64(lower.S), float64(lower.V), 0),
		gocv.NewScalar(float64(upper.H), float64(upper.S), float64(upper.V), 0),
		&mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	type keyed struct {
		blob Blob
		top  image.Point
	}
	found := make([]keyed, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		found = append(found, keyed{
			blob: Blob{
				Box:  gocv.BoundingRect(contour).Add(b.Min),
				Area: contourPixels(contour),
			},
			top: topLeft(contour.ToPoints()),
		})
	}
	// contours come back in scan order of their last border pixel; report
	// them by first pixel like the default backend
	sort.Slice(found, func(i, j int) bool {
		if found[i].top.Y != found[j].top.Y {
			return found[i].top.Y < found[j].top.Y
		}
		return found[i].top.X < found[j].top.X
	})
	out := make([]Blob, len(found))
	for i, k := range found {
		out[i] = k.blob
	}
	return out
}

// contourPixels counts the lattice pixels inside and on an unapproximated
// contour (Pick's theorem: A + B/2 + 1).
func contourPixels(contour gocv.PointVector) int {
	return int(math.Round(gocv.ContourArea(contour))) + contour.Size()/2 + 1
}

func topLeft(pts []image.Point) image.Point {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}

// packRGB returns the frame as tightly packed RGB bytes. Fully transparent
// pixels become black.
func packRGB(frame image.Image) []byte {
	src := imaging.Clone(frame)
	out := make([]byte, 0, len(src.Pix)/4*3)
	for i := 0; i < len(src.Pix); i += 4 {
		if src.Pix[i+3] == 0 {
			out = append(out, 0, 0, 0)
			continue
		}
		out = append(out, src.Pix[i], src.Pix[i+1], src.Pix[i+2])
	}
	return out
}
