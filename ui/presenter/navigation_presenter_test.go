package presenter

import (
	"errors"
	"testing"
)

type mockNavView struct{ shown []Screen }

func (v *mockNavView) ShowScreen(s Screen) { v.shown = append(v.shown, s) }

type mockOwner struct {
	acquired, released int
	err                error
}

func (o *mockOwner) Acquire() error { o.acquired++; return o.err }
func (o *mockOwner) Release()       { o.released++ }

type mockResetter struct{ n int }

func (r *mockResetter) Reset() { r.n++ }

func TestNavigationPresenter_CameraFollowsScreen(t *testing.T) {
	view := &mockNavView{}
	cam := &mockOwner{}
	det := &mockResetter{}
	p := NewNavigationPresenter(view, cam, det, nil)

	p.Show(ScreenGriddleView)
	if cam.acquired != 0 || cam.released != 0 {
		t.Fatalf("camera touched outside camera views")
	}
	p.Show(ScreenCameraViews)
	if cam.acquired != 1 || p.Current() != ScreenCameraViews {
		t.Fatalf("entering camera views should acquire")
	}
	p.Show(ScreenCameraViews)
	if cam.acquired != 1 || len(view.shown) != 2 {
		t.Fatalf("reselecting a screen should be a no-op")
	}
	p.Show(ScreenSettings)
	if cam.released != 1 || det.n != 1 {
		t.Fatalf("leaving camera views should release and reset, released=%d reset=%d", cam.released, det.n)
	}
	if view.shown[len(view.shown)-1] != ScreenSettings {
		t.Fatalf("view not switched")
	}
}

func TestNavigationPresenter_BusyCameraStillShowsScreen(t *testing.T) {
	view := &mockNavView{}
	p := NewNavigationPresenter(view, &mockOwner{err: errors.New("busy")}, nil, nil)
	p.Show(ScreenCameraViews)
	if len(view.shown) != 1 || view.shown[0] != ScreenCameraViews {
		t.Fatalf("screen should switch even without camera")
	}
}

func TestNavigationPresenter_CloseReleasesCamera(t *testing.T) {
	cam := &mockOwner{}
	p := NewNavigationPresenter(nil, cam, nil, nil)
	p.Close()
	if cam.released != 0 {
		t.Fatalf("close outside camera views should not release")
	}
	p.Show(ScreenCameraViews)
	p.Close()
	if cam.released != 1 {
		t.Fatalf("close should release the camera")
	}
}

func TestScreen_Names(t *testing.T) {
	want := []string{"Main Menu", "Camera Views", "Griddle View", "Calibration", "Settings"}
	for i, s := range Screens {
		if s.String() != want[i] {
			t.Fatalf("screen %d: %q", i, s.String())
		}
	}
}
