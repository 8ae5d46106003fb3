package cooking

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultReferenceCacheSize = 16

type referenceKey struct {
	path    string
	modTime time.Time
	size    int64
}

// ReferenceLoader decodes reference images from disk and caches them keyed by
// path, modification time and size, so an edited file is decoded again.
type ReferenceLoader struct {
	cache *lru.Cache[referenceKey, image.Image]
}

// NewReferenceLoader returns a loader caching up to size decoded images.
// A non-positive size selects the default.
func NewReferenceLoader(size int) *ReferenceLoader {
	if size <= 0 {
		size = defaultReferenceCacheSize
	}
	c, err := lru.New[referenceKey, image.Image](size)
	if err != nil {
		// only reachable with a non-positive size
		c, _ = lru.New[referenceKey, image.Image](defaultReferenceCacheSize)
	}
	return &ReferenceLoader{cache: c}
}

// Load returns the decoded image at path. Absent, unreadable and corrupt files
// are reported as ErrMissingAsset.
func (l *ReferenceLoader) Load(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingAsset, path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMissingAsset, path)
	}
	key := referenceKey{path: path, modTime: fi.ModTime(), size: fi.Size()}
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingAsset, path, err)
	}
	l.cache.Add(key, img)
	return img, nil
}

// Purge drops every cached image.
func (l *ReferenceLoader) Purge() { l.cache.Purge() }

// Len reports the number of cached images.
func (l *ReferenceLoader) Len() int { return l.cache.Len() }
