package capture

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func waitFrame(t *testing.T, src FrameSource) FrameSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := src.LatestFrame(); snap.Image != nil {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no frame captured")
	return FrameSnapshot{}
}

func TestStillGrabber_CopiesAndCrops(t *testing.T) {
	g := NewStillSource(testImage(20, 10))
	full, err := g.Grab(nil)
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if full.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Fatalf("unexpected bounds %v", full.Bounds())
	}
	full.SetRGBA(0, 0, color.RGBA{9, 9, 9, 255})
	again, _ := g.Grab(nil)
	if again.RGBAAt(0, 0) == (color.RGBA{9, 9, 9, 255}) {
		t.Fatalf("grab returned shared pixels")
	}
	sel := image.Rect(5, 2, 15, 8)
	crop, err := g.Grab(&sel)
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if crop.Bounds().Dx() != 10 || crop.Bounds().Dy() != 6 {
		t.Fatalf("unexpected crop bounds %v", crop.Bounds())
	}
	if c := crop.RGBAAt(0, 0); c.R != 5 || c.G != 2 {
		t.Fatalf("crop origin mismatch %+v", c)
	}
	empty := image.Rectangle{}
	if _, err := g.Grab(&empty); err == nil {
		t.Fatalf("expected error for empty selection")
	}
	outside := image.Rect(100, 100, 120, 120)
	if _, err := g.Grab(&outside); err == nil {
		t.Fatalf("expected error for out of bounds selection")
	}
	g.Set(nil)
	if _, err := g.Grab(nil); err == nil {
		t.Fatalf("expected error without image")
	}
}

func TestCaptureService_PublishesFrames(t *testing.T) {
	svc := NewCaptureService(nil, NewStillSource(testImage(8, 8)), time.Millisecond)
	sel := image.Rect(2, 2, 6, 6)
	svc.SetSelectionProvider(func() *image.Rectangle { return &sel })
	svc.Start()
	defer svc.Stop()
	if !svc.Running() {
		t.Fatalf("service not running")
	}
	snap := waitFrame(t, svc)
	if snap.Image.Bounds().Dx() != 4 || snap.Sequence == 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	svc.Stop()
	if svc.Running() {
		t.Fatalf("service still running after stop")
	}
	stats := svc.Stats()
	if stats.Captures == 0 || stats.Sequence != svc.LatestFrame().Sequence {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCaptureService_CountsSkippedGrabs(t *testing.T) {
	g := NewStillSource(nil)
	svc := NewCaptureService(nil, g, time.Millisecond)
	svc.Start()
	deadline := time.Now().Add(2 * time.Second)
	for svc.Stats().Skipped == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	svc.Stop()
	if svc.Stats().Skipped == 0 || svc.LatestFrame().Image != nil {
		t.Fatalf("expected skipped grabs and no frame, got %+v", svc.Stats())
	}
}

func TestOpenCamera_Exclusive(t *testing.T) {
	lock := filepath.Join(t.TempDir(), "camera.lock")
	h, err := OpenCamera(lock, NewCaptureService(nil, NewStillSource(testImage(4, 4)), time.Millisecond))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitFrame(t, h.Frames())

	second := NewCaptureService(nil, NewStillSource(testImage(4, 4)), time.Millisecond)
	if _, err := OpenCamera(lock, second); !errors.Is(err, ErrCameraBusy) {
		t.Fatalf("expected ErrCameraBusy, got %v", err)
	}
	if second.Running() {
		t.Fatalf("busy open must not start capture")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.Frames().Running() {
		t.Fatalf("capture still running after close")
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	h2, err := OpenCamera(lock, second)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = h2.Close()
}
