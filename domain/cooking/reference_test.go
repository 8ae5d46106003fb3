package cooking

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReferenceLoader_CachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ref.png")
	writePNG(t, p, solid(8, 8, orange))

	l := NewReferenceLoader(2)
	a, err := l.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := l.Load(p)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if a != b || l.Len() != 1 {
		t.Fatalf("expected cached image, len=%d", l.Len())
	}

	writePNG(t, p, solid(12, 12, green))
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}
	c, err := l.Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c.Bounds().Dx() != 12 {
		t.Fatalf("expected fresh decode, got %v", c.Bounds())
	}

	l.Purge()
	if l.Len() != 0 {
		t.Fatalf("purge left %d entries", l.Len())
	}
}

func TestReferenceLoader_Errors(t *testing.T) {
	l := NewReferenceLoader(0)
	if _, err := l.Load(filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
	if _, err := l.Load(t.TempDir()); !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("directory should be ErrMissingAsset, got %v", err)
	}
}
