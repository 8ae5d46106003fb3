package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// ErrCameraBusy is returned when the camera is already held by this process
// or by another one.
var ErrCameraBusy = errors.New("capture: camera busy")

var (
	slotsMu sync.Mutex
	slots   = map[string]bool{}
)

// DefaultLockPath returns the camera lock file under the XDG runtime dir.
func DefaultLockPath() (string, error) {
	p, err := xdg.RuntimeFile(filepath.Join("griddle-bot", "camera.lock"))
	if err != nil {
		return "", fmt.Errorf("capture: lock path: %w", err)
	}
	return p, nil
}

// CameraHandle is exclusive ownership of the camera. While a handle is open
// its capture service runs; Close stops it and releases the camera.
type CameraHandle struct {
	path string
	lock *flock.Flock
	svc  CaptureService

	once sync.Once
}

// OpenCamera acquires the camera identified by lockPath and starts svc.
// Ownership is enforced within the process and, through a file lock, across
// processes.
func OpenCamera(lockPath string, svc CaptureService) (*CameraHandle, error) {
	if svc == nil {
		return nil, errors.New("capture: nil capture service")
	}
	key := filepath.Clean(lockPath)
	slotsMu.Lock()
	if slots[key] {
		slotsMu.Unlock()
		return nil, ErrCameraBusy
	}
	slots[key] = true
	slotsMu.Unlock()

	lk := flock.New(key)
	ok, err := lk.TryLock()
	if err != nil || !ok {
		releaseSlot(key)
		if err != nil {
			return nil, fmt.Errorf("capture: lock %s: %w", key, err)
		}
		return nil, ErrCameraBusy
	}
	svc.Start()
	return &CameraHandle{path: key, lock: lk, svc: svc}, nil
}

func releaseSlot(key string) {
	slotsMu.Lock()
	delete(slots, key)
	slotsMu.Unlock()
}

// Frames exposes the running capture service.
func (h *CameraHandle) Frames() FrameSource {
	if h == nil {
		return nil
	}
	return h.svc
}

// Close stops capture and releases the camera. It is safe to call more than
// once.
func (h *CameraHandle) Close() error {
	if h == nil {
		return nil
	}
	var err error
	h.once.Do(func() {
		h.svc.Stop()
		err = h.lock.Unlock()
		releaseSlot(h.path)
	})
	return err
}
