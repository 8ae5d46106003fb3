package model

import (
	"sync/atomic"
)

// CameraModel tracks whether the camera is held by this window. The zero
// value is released and usable. Concurrency-safe via atomic Bool because UI
// callbacks and presenter ticks may race.
type CameraModel struct{ held atomic.Bool }

// Held reports whether the camera handle is currently open.
func (m *CameraModel) Held() bool {
	if m == nil {
		return false
	}
	return m.held.Load()
}

// SetHeld stores the held flag and reports whether it changed.
func (m *CameraModel) SetHeld(b bool) bool {
	if m == nil {
		return false
	}
	return m.held.CompareAndSwap(!b, b)
}
