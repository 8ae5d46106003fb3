package model

import (
	"image"
)

// Region is a detected cooking region with its classification.
type Region struct {
	TrackID string
	Rect    image.Rectangle
	Hue     float64
	Label   string
}

// RegionsModel holds the regions found in the latest processed frame. The
// zero value is empty and usable. No synchronization needed: updates occur on
// the UI thread tick.
type RegionsModel struct {
	regions  []Region
	sequence uint64
}

func NewRegionsModel() *RegionsModel { return &RegionsModel{} }

// Set replaces the regions for frame seq. Stale sequences are ignored.
func (m *RegionsModel) Set(seq uint64, regions []Region) bool {
	if m == nil || (seq != 0 && seq < m.sequence) {
		return false
	}
	m.sequence = seq
	m.regions = append(m.regions[:0], regions...)
	return true
}

// Regions returns a copy of the current regions.
func (m *RegionsModel) Regions() []Region {
	if m == nil {
		return nil
	}
	out := make([]Region, len(m.regions))
	copy(out, m.regions)
	return out
}

// Sequence returns the frame sequence the regions belong to.
func (m *RegionsModel) Sequence() uint64 {
	if m == nil {
		return 0
	}
	return m.sequence
}

// Clear drops all regions.
func (m *RegionsModel) Clear() {
	if m == nil {
		return
	}
	m.regions = m.regions[:0]
	m.sequence = 0
}
