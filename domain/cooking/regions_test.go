package cooking

import (
	"image"
	"image/color"
	"testing"
)

var (
	testLower = HSV{H: 10, S: 100, V: 100}
	testUpper = HSV{H: 20, S: 255, V: 255}
	black     = color.RGBA{0, 0, 0, 255}
)

// frameWithRects returns a black w x h frame with each rect filled orange.
func frameWithRects(w, h int, rects ...image.Rectangle) *image.RGBA {
	return synthImage(w, h, func(x, y int) color.RGBA {
		p := image.Pt(x, y)
		for _, r := range rects {
			if p.In(r) {
				return orange
			}
		}
		return black
	})
}

func TestDetectRegions_MinAreaFilter(t *testing.T) {
	block := image.Rect(10, 20, 50, 45) // 40x25 = 1000 px
	frame := frameWithRects(100, 100, block)
	boxes := DetectRegions(frame, testLower, testUpper, 500)
	if len(boxes) != 1 || boxes[0] != block {
		t.Fatalf("expected one box %v, got %v", block, boxes)
	}
	if boxes := DetectRegions(frame, testLower, testUpper, 2000); len(boxes) != 0 {
		t.Fatalf("expected no boxes with min area 2000, got %v", boxes)
	}
}

func TestDetectRegions_SeparateAndDiagonalRegions(t *testing.T) {
	a := image.Rect(0, 0, 10, 10)
	b := image.Rect(10, 10, 20, 20) // touches a only diagonally
	c := image.Rect(60, 60, 70, 70)
	boxes := DetectRegions(frameWithRects(80, 80, a, b, c), testLower, testUpper, 1)
	if len(boxes) != 2 {
		t.Fatalf("expected 2 regions, got %v", boxes)
	}
	if boxes[0] != image.Rect(0, 0, 20, 20) || boxes[1] != c {
		t.Fatalf("unexpected boxes %v", boxes)
	}
}

func TestDetectRegions_HollowRegionCountsEnclosedArea(t *testing.T) {
	outer := image.Rect(10, 10, 50, 50)
	frame := synthImage(60, 60, func(x, y int) color.RGBA {
		p := image.Pt(x, y)
		if p.In(outer) && !p.In(outer.Inset(2)) {
			return orange
		}
		return black
	})
	// ring has 304 pixels but encloses 1600
	boxes := DetectRegions(frame, testLower, testUpper, 1000)
	if len(boxes) != 1 || boxes[0] != outer {
		t.Fatalf("expected enclosed ring detected as %v, got %v", outer, boxes)
	}
}

func TestDetectRegions_EmptyFrame(t *testing.T) {
	if boxes := DetectRegions(image.NewRGBA(image.Rect(0, 0, 0, 0)), testLower, testUpper, 0); len(boxes) != 0 {
		t.Fatalf("expected no boxes, got %v", boxes)
	}
	if boxes := DetectRegions(nil, testLower, testUpper, 0); len(boxes) != 0 {
		t.Fatalf("expected no boxes for nil frame, got %v", boxes)
	}
}

func TestDetectRegions_SubImageKeepsFrameCoordinates(t *testing.T) {
	frame := frameWithRects(100, 100, image.Rect(60, 60, 80, 80))
	sub := frame.SubImage(image.Rect(50, 50, 100, 100))
	boxes := DetectRegions(sub, testLower, testUpper, 10)
	if len(boxes) != 1 || boxes[0] != image.Rect(60, 60, 80, 80) {
		t.Fatalf("unexpected boxes %v", boxes)
	}
}

func TestDetectRegions_Stateless(t *testing.T) {
	frame := frameWithRects(50, 50, image.Rect(5, 5, 25, 25))
	first := DetectRegions(frame, testLower, testUpper, 1)
	second := DetectRegions(frame, testLower, testUpper, 1)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("repeated detection differs: %v vs %v", first, second)
	}
}

func TestDetectBlobs_ReportsEnclosedArea(t *testing.T) {
	solid := image.Rect(5, 5, 45, 30) // 40x25
	outer := image.Rect(60, 10, 100, 50)
	frame := synthImage(120, 60, func(x, y int) color.RGBA {
		p := image.Pt(x, y)
		if p.In(solid) || (p.In(outer) && !p.In(outer.Inset(2))) {
			return orange
		}
		return black
	})
	blobs := DetectBlobs(frame, testLower, testUpper, 1)
	if len(blobs) != 2 {
		t.Fatalf("expected 2 blobs, got %v", blobs)
	}
	if blobs[0].Box != solid || blobs[0].Area != 1000 {
		t.Fatalf("solid blob: %+v", blobs[0])
	}
	if blobs[1].Box != outer || blobs[1].Area != 1600 {
		t.Fatalf("ring blob: %+v", blobs[1])
	}
}

func TestDetectBlobs_SinglePixelAndLine(t *testing.T) {
	frame := frameWithRects(20, 20, image.Rect(2, 2, 3, 3), image.Rect(10, 5, 15, 6))
	blobs := DetectBlobs(frame, testLower, testUpper, 1)
	if len(blobs) != 2 || blobs[0].Area != 1 || blobs[1].Area != 5 {
		t.Fatalf("unexpected blobs %+v", blobs)
	}
}

func TestDetectRegions_TransparentPixelsAreBackground(t *testing.T) {
	frame := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			a := uint8(0)
			if x >= 10 && x < 20 && y >= 10 && y < 20 {
				a = 255
			}
			frame.SetNRGBA(x, y, color.NRGBA{255, 128, 0, a})
		}
	}
	boxes := DetectRegions(frame, testLower, testUpper, 1)
	if len(boxes) != 1 || boxes[0] != image.Rect(10, 10, 20, 20) {
		t.Fatalf("expected only the opaque square, got %v", boxes)
	}
}
