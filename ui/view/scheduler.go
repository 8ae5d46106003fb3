package view

import (
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// TkScheduler runs callbacks on the Tk event loop through TclAfter. It must
// only be used from the Tk thread.
type TkScheduler struct {
	logger  *slog.Logger
	pending map[string]struct{}
}

func NewTkScheduler(logger *slog.Logger) *TkScheduler {
	return &TkScheduler{logger: logger, pending: make(map[string]struct{})}
}

// After schedules fn on the Tk event loop once d has elapsed.
func (s *TkScheduler) After(d time.Duration, fn func()) {
	if s == nil || fn == nil {
		return
	}
	var id string
	id = TclAfter(d, func() {
		delete(s.pending, id)
		defer func() {
			if r := recover(); r != nil && s.logger != nil {
				s.logger.Error("tk callback panic", "panic", r)
			}
		}()
		fn()
	})
	s.pending[id] = struct{}{}
}

// CancelAll drops every callback that has not fired yet.
func (s *TkScheduler) CancelAll() {
	if s == nil {
		return
	}
	for id := range s.pending {
		TclAfterCancel(id)
		delete(s.pending, id)
	}
}
