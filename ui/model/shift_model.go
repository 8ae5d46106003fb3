package model

import (
	"time"
)

// ShiftStats is a point-in-time summary of the shift.
type ShiftStats struct {
	Added   int
	Expired int
	Cooking int
	Session time.Duration // current (or last) busy stretch
	Total   time.Duration // accumulated busy time including the current stretch
}

// ShiftModel counts patties and tracks how long the griddle has been busy.
// The griddle is busy while at least one patty is cooking. Presenters poll
// Stats and update views. The zero value is ready to use.
type ShiftModel struct {
	added   int
	expired int
	cooking int

	active              bool
	busyStart           time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration
}

// NewShiftModel returns a pointer to a ready-to-use ShiftModel.
func NewShiftModel() *ShiftModel { return &ShiftModel{} }

// PattyAdded records a new patty.
func (m *ShiftModel) PattyAdded() {
	if m == nil {
		return
	}
	m.added++
}

// PattyExpired records a patty leaving the griddle.
func (m *ShiftModel) PattyExpired() {
	if m == nil {
		return
	}
	m.expired++
}

// OnTick updates busy time from the number of patties cooking at now.
func (m *ShiftModel) OnTick(cooking int, now time.Time) {
	if m == nil {
		return
	}
	m.cooking = cooking
	if cooking > 0 {
		if !m.active {
			m.active = true
			m.busyStart = now
			m.lastSessionDuration = 0
		}
		m.lastSessionDuration = now.Sub(m.busyStart)
	} else if m.active {
		m.lastSessionDuration = now.Sub(m.busyStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Stats returns the current counters and durations.
func (m *ShiftModel) Stats() ShiftStats {
	if m == nil {
		return ShiftStats{}
	}
	s := ShiftStats{
		Added:   m.added,
		Expired: m.expired,
		Cooking: m.cooking,
		Session: m.lastSessionDuration,
		Total:   m.accumulated,
	}
	if m.active {
		s.Total += s.Session
	}
	return s
}
