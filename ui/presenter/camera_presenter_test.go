package presenter

import (
	"errors"
	"image"
	"testing"

	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/ui/model"
)

type mockFrames struct{ seq uint64 }

func (f *mockFrames) Running() bool { return true }
func (f *mockFrames) LatestFrame() capture.FrameSnapshot {
	return capture.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Sequence: f.seq}
}

type mockHandle struct {
	frames *mockFrames
	closed int
}

func (h *mockHandle) Frames() capture.FrameSource { return h.frames }
func (h *mockHandle) Close() error                { h.closed++; return nil }

type mockCameraView struct {
	reset  int
	status string
}

func (v *mockCameraView) PreviewReset()            { v.reset++ }
func (v *mockCameraView) SetCameraStatus(s string) { v.status = s }

func TestCameraPresenter_AcquireRelease_Idempotent(t *testing.T) {
	m := &model.CameraModel{}
	h := &mockHandle{frames: &mockFrames{seq: 7}}
	opens := 0
	view := &mockCameraView{}
	p := NewCameraPresenter(m, func() (CameraHandle, error) { opens++; return h, nil }, view, nil)

	if err := p.Acquire(); err != nil || !m.Held() || opens != 1 {
		t.Fatalf("acquire failed: err=%v held=%v opens=%d", err, m.Held(), opens)
	}
	_ = p.Acquire()
	if opens != 1 {
		t.Fatalf("acquire not idempotent: opens=%d", opens)
	}
	if !p.Running() || p.LatestFrame().Sequence != 7 {
		t.Fatalf("frames not exposed while held")
	}

	p.Release()
	if m.Held() || h.closed != 1 || view.reset != 1 {
		t.Fatalf("release failed: held=%v closed=%d reset=%d", m.Held(), h.closed, view.reset)
	}
	p.Release()
	if h.closed != 1 || view.reset != 1 {
		t.Fatalf("release not idempotent")
	}
	if p.Running() || p.LatestFrame().Image != nil {
		t.Fatalf("frames exposed after release")
	}
}

func TestCameraPresenter_BusyCamera(t *testing.T) {
	m := &model.CameraModel{}
	view := &mockCameraView{}
	p := NewCameraPresenter(m, func() (CameraHandle, error) { return nil, capture.ErrCameraBusy }, view, nil)
	if err := p.Acquire(); !errors.Is(err, capture.ErrCameraBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if m.Held() || view.status != "Camera busy" {
		t.Fatalf("busy camera should stay released, held=%v status=%q", m.Held(), view.status)
	}
}

func TestCameraPresenter_Toggle(t *testing.T) {
	m := &model.CameraModel{}
	h := &mockHandle{frames: &mockFrames{}}
	p := NewCameraPresenter(m, func() (CameraHandle, error) { return h, nil }, nil, nil)
	p.Toggle()
	if !m.Held() {
		t.Fatalf("toggle acquire failed")
	}
	p.Toggle()
	if m.Held() || h.closed != 1 {
		t.Fatalf("toggle release failed")
	}
}
