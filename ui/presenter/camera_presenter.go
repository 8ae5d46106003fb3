package presenter

import (
	"errors"
	"log/slog"

	"github.com/soocke/griddle-bot-go/domain/capture"
)

// CameraModel provides held state access.
type CameraModel interface {
	Held() bool
	SetHeld(bool) bool
}

// CameraHandle is an open, exclusively owned camera.
type CameraHandle interface {
	Frames() capture.FrameSource
	Close() error
}

// CameraView updates UI elements affected by camera ownership.
type CameraView interface {
	PreviewReset()
	SetCameraStatus(status string)
}

// CameraPresenter owns acquiring and releasing the camera for the Camera
// Views screen.
type CameraPresenter struct {
	model  CameraModel
	open   func() (CameraHandle, error)
	view   CameraView
	logger *slog.Logger

	handle CameraHandle
}

func NewCameraPresenter(model CameraModel, open func() (CameraHandle, error), view CameraView, logger *slog.Logger) *CameraPresenter {
	return &CameraPresenter{model: model, open: open, view: view, logger: logger}
}

// Acquire opens the camera. A busy camera leaves the presenter released and
// reports the condition on the view. Idempotent.
func (c *CameraPresenter) Acquire() error {
	if c == nil || c.model == nil || c.open == nil {
		return nil
	}
	if c.model.Held() {
		return nil
	}
	h, err := c.open()
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("camera acquire", "error", err)
		}
		if c.view != nil {
			if errors.Is(err, capture.ErrCameraBusy) {
				c.view.SetCameraStatus("Camera busy")
			} else {
				c.view.SetCameraStatus("Camera unavailable")
			}
		}
		return err
	}
	c.handle = h
	c.model.SetHeld(true)
	if c.view != nil {
		c.view.SetCameraStatus("Camera live")
	}
	return nil
}

// Release closes the camera and resets the preview. Idempotent.
func (c *CameraPresenter) Release() {
	if c == nil || c.model == nil {
		return
	}
	if !c.model.Held() {
		return
	}
	if c.handle != nil {
		if err := c.handle.Close(); err != nil && c.logger != nil {
			c.logger.Error("camera release", "error", err)
		}
		c.handle = nil
	}
	c.model.SetHeld(false)
	if c.view != nil {
		c.view.PreviewReset()
		c.view.SetCameraStatus("Camera released")
	}
}

// Toggle flips ownership delegating to Acquire/Release.
func (c *CameraPresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Held() {
		c.Release()
		return
	}
	_ = c.Acquire()
}

// Running reports whether frames are flowing.
func (c *CameraPresenter) Running() bool {
	if src := c.source(); src != nil {
		return src.Running()
	}
	return false
}

// LatestFrame returns the newest frame of the held camera.
func (c *CameraPresenter) LatestFrame() capture.FrameSnapshot {
	if src := c.source(); src != nil {
		return src.LatestFrame()
	}
	return capture.FrameSnapshot{}
}

func (c *CameraPresenter) source() capture.FrameSource {
	if c == nil || c.handle == nil {
		return nil
	}
	return c.handle.Frames()
}
