package cooking

import (
	"image"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Track is a detected region followed across frames.
type Track struct {
	ID        uuid.UUID
	Box       image.Rectangle
	FirstSeen time.Time
	LastSeen  time.Time
	Hits      int
	Misses    int
}

// Center returns the centre of the track's latest box.
func (t Track) Center() image.Point {
	return image.Pt((t.Box.Min.X+t.Box.Max.X)/2, (t.Box.Min.Y+t.Box.Max.Y)/2)
}

// RegionMatcher assigns stable identities to per-frame detections by
// nearest-centre matching. It sits on top of DetectRegions, which stays
// stateless. Not safe for concurrent use.
type RegionMatcher struct {
	maxDist   float64
	maxMisses int
	tracks    []*Track
}

// NewRegionMatcher returns a matcher accepting matches up to maxDist pixels
// apart and dropping tracks unmatched for more than maxMisses frames.
func NewRegionMatcher(maxDist float64, maxMisses int) *RegionMatcher {
	if maxDist <= 0 {
		maxDist = 80
	}
	if maxMisses < 0 {
		maxMisses = 0
	}
	return &RegionMatcher{maxDist: maxDist, maxMisses: maxMisses}
}

type candidate struct {
	track, box int
	dist       float64
}

// Update matches boxes against the current tracks and returns the tracks
// observed in this frame, ordered as boxes.
func (m *RegionMatcher) Update(boxes []image.Rectangle, now time.Time) []Track {
	var cands []candidate
	for ti, t := range m.tracks {
		c := t.Center()
		for bi, b := range boxes {
			bc := image.Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
			d := math.Hypot(float64(bc.X-c.X), float64(bc.Y-c.Y))
			if d <= m.maxDist {
				cands = append(cands, candidate{track: ti, box: bi, dist: d})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	trackUsed := make([]bool, len(m.tracks))
	boxTrack := make([]*Track, len(boxes))
	for _, c := range cands {
		if trackUsed[c.track] || boxTrack[c.box] != nil {
			continue
		}
		trackUsed[c.track] = true
		t := m.tracks[c.track]
		t.Box = boxes[c.box]
		t.LastSeen = now
		t.Hits++
		t.Misses = 0
		boxTrack[c.box] = t
	}

	kept := m.tracks[:0]
	for i, t := range m.tracks {
		if !trackUsed[i] {
			t.Misses++
			if t.Misses > m.maxMisses {
				continue
			}
		}
		kept = append(kept, t)
	}
	m.tracks = kept

	out := make([]Track, 0, len(boxes))
	for bi, b := range boxes {
		t := boxTrack[bi]
		if t == nil {
			t = &Track{ID: uuid.New(), Box: b, FirstSeen: now, LastSeen: now, Hits: 1}
			m.tracks = append(m.tracks, t)
		}
		out = append(out, *t)
	}
	return out
}

// Tracks returns a copy of every live track, including ones missed recently.
func (m *RegionMatcher) Tracks() []Track {
	out := make([]Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		out = append(out, *t)
	}
	return out
}

// Reset forgets all tracks.
func (m *RegionMatcher) Reset() { m.tracks = nil }
