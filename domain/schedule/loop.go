package schedule

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs fn once after d has elapsed. Implementations run every
// callback on a single goroutine, one at a time.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Every runs fn on s every d until fn returns false. The first call happens
// after d.
func Every(s Scheduler, d time.Duration, fn func() bool) {
	if s == nil || fn == nil {
		return
	}
	var step func()
	step = func() {
		if fn() {
			s.After(d, step)
		}
	}
	s.After(d, step)
}

type job struct {
	due time.Time
	seq uint64
	fn  func()
}

type jobQueue []job

func (q jobQueue) Len() int { return len(q) }
func (q jobQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}
func (q jobQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *jobQueue) Push(x any)   { *q = append(*q, x.(job)) }
func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = job{}
	*q = old[:n-1]
	return it
}

// Loop is a cooperative single-goroutine scheduler. After may be called from
// any goroutine, including from callbacks; callbacks only ever run inside Run
// in due order, ties broken by submission order.
type Loop struct {
	logger *slog.Logger

	mu   sync.Mutex
	q    jobQueue
	seq  uint64
	wake chan struct{}
}

// NewLoop returns an idle loop. Call Run to start executing callbacks.
func NewLoop(logger *slog.Logger) *Loop {
	return &Loop{logger: logger, wake: make(chan struct{}, 1)}
}

// After queues fn to run once d has elapsed. A non-positive d queues fn to run
// as soon as the loop is free.
func (l *Loop) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.seq++
	heap.Push(&l.q, job{due: time.Now().Add(d), seq: l.seq, fn: fn})
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Post queues fn to run on the loop goroutine as soon as possible.
func (l *Loop) Post(fn func()) { l.After(0, fn) }

// Pending reports the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.q)
}

// Run executes callbacks until ctx is done. Queued callbacks that are not yet
// due when ctx ends are dropped.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		fn, wait := l.next(time.Now())
		if fn != nil {
			l.invoke(fn)
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timer.C:
		}
	}
}

// next pops the earliest due callback or returns how long to wait for it.
func (l *Loop) next(now time.Time) (func(), time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.q) == 0 {
		return nil, time.Hour
	}
	if head := l.q[0]; head.due.After(now) {
		return nil, head.due.Sub(now)
	}
	return heap.Pop(&l.q).(job).fn, 0
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.logger != nil {
			l.logger.Error("schedule: callback panic", "panic", r)
		}
	}()
	fn()
}
