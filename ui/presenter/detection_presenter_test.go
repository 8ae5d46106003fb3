package presenter

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/ui/model"
)

type staticSource struct {
	frame   *image.RGBA
	seq     uint64
	running bool
}

func (s *staticSource) Running() bool { return s.running }
func (s *staticSource) LatestFrame() capture.FrameSnapshot {
	return capture.FrameSnapshot{Image: s.frame, Sequence: s.seq, CapturedAt: time.Now()}
}

type mockDetectionView struct {
	captures int
	regions  []model.Region
	updates  int
}

func (v *mockDetectionView) UpdateCapture(image.Image)         { v.captures++ }
func (v *mockDetectionView) SetRegions(regions []model.Region) { v.regions = regions; v.updates++ }

// brownFrame draws a 40x40 browned block at (20,30) on black.
func brownFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 120, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 120; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 20 && x < 60 && y >= 30 && y < 70 {
				c = color.RGBA{200, 100, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func waitRegions(t *testing.T, p *DetectionPresenter, v *mockDetectionView, updates int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for v.updates < updates && time.Now().Before(deadline) {
		p.ProcessFrame()
		time.Sleep(time.Millisecond)
	}
	if v.updates < updates {
		t.Fatalf("no detection result within deadline")
	}
}

func TestDetectionPresenter_LabelsRegions(t *testing.T) {
	src := &staticSource{frame: brownFrame(), seq: 1, running: true}
	refs := []cooking.Classification{
		{Label: cooking.Labels[0], Hue: 40},
		{Label: cooking.Labels[1], Hue: 16},
		{Label: cooking.Labels[2], Hue: 100},
	}
	view := &mockDetectionView{}
	m := model.NewRegionsModel()
	p := NewDetectionPresenter(src, cooking.NewClassifier(nil, nil, nil), func() []cooking.Classification { return refs }, view, nil, m, nil)

	waitRegions(t, p, view, 1)
	if len(view.regions) != 1 {
		t.Fatalf("expected one region, got %+v", view.regions)
	}
	r := view.regions[0]
	if r.Rect != image.Rect(20, 30, 60, 70) || r.Hue != 15 || r.Label != cooking.Labels[1] {
		t.Fatalf("unexpected region %+v", r)
	}
	if view.captures == 0 || m.Sequence() != 1 {
		t.Fatalf("overlay or model not updated: captures=%d seq=%d", view.captures, m.Sequence())
	}

	src.seq = 2
	waitRegions(t, p, view, 2)
	if view.regions[0].TrackID != r.TrackID {
		t.Fatalf("track identity changed between frames")
	}

	p.Reset()
	if len(m.Regions()) != 0 {
		t.Fatalf("reset should clear regions")
	}
}

func TestDetectionPresenter_IdleWhenSourceStopped(t *testing.T) {
	src := &staticSource{frame: brownFrame(), seq: 1}
	view := &mockDetectionView{}
	p := NewDetectionPresenter(src, nil, nil, view, nil, nil, nil)
	for i := 0; i < 20; i++ {
		p.ProcessFrame()
		time.Sleep(time.Millisecond)
	}
	if view.updates != 0 || view.captures != 0 {
		t.Fatalf("stopped source should not produce updates")
	}
}

func TestDetectionPresenter_UnlabeledWithoutReferences(t *testing.T) {
	src := &staticSource{frame: brownFrame(), seq: 5, running: true}
	view := &mockDetectionView{}
	p := NewDetectionPresenter(src, nil, nil, view, nil, nil, nil)
	waitRegions(t, p, view, 1)
	if len(view.regions) != 1 || view.regions[0].Label != "" {
		t.Fatalf("expected unlabeled region, got %+v", view.regions)
	}
}

func TestDetectionPresenter_ResetDropsPendingResult(t *testing.T) {
	src := &staticSource{frame: brownFrame(), seq: 7, running: true}
	view := &mockDetectionView{}
	m := model.NewRegionsModel()
	p := NewDetectionPresenter(src, nil, nil, view, nil, m, nil)

	p.ProcessFrame()
	deadline := time.Now().Add(2 * time.Second)
	for len(p.resultCh) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if len(p.resultCh) == 0 {
		t.Fatalf("worker produced no result")
	}

	src.running = false
	p.Reset()
	p.ProcessFrame()
	if view.updates != 0 || view.captures != 0 {
		t.Fatalf("released camera repainted: updates=%d captures=%d", view.updates, view.captures)
	}
	if len(m.Regions()) != 0 || len(p.Matcher.Tracks()) != 0 {
		t.Fatalf("stale result repopulated state: model=%d tracks=%d", len(m.Regions()), len(p.Matcher.Tracks()))
	}
}

func TestDetectionPresenter_IgnoresResultFromEarlierGeneration(t *testing.T) {
	src := &staticSource{frame: brownFrame(), seq: 3, running: true}
	view := &mockDetectionView{}
	m := model.NewRegionsModel()
	p := NewDetectionPresenter(src, nil, nil, view, nil, m, nil)

	task := detectionTask{generation: p.generation, snapshot: src.LatestFrame(), band: cooking.BandFromConfig(p.Config), minArea: p.Config.MinRegionArea}
	res := p.execute(task)
	if len(res.regions) != 1 {
		t.Fatalf("expected one detected region, got %d", len(res.regions))
	}
	p.Reset()
	p.handleResult(res)
	if view.updates != 0 || len(m.Regions()) != 0 || len(p.Matcher.Tracks()) != 0 {
		t.Fatalf("result from before reset was applied")
	}

	res.generation = p.generation
	p.handleResult(res)
	if view.updates != 1 || len(m.Regions()) != 1 {
		t.Fatalf("current result not applied: updates=%d model=%d", view.updates, len(m.Regions()))
	}
}
