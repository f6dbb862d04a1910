/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ninja

import (
	"context"
	"time"
)

// FrameRate is the default number of frames per second.
const FrameRate = 60

// Loop is the frame scheduler. Frames and posted functions run one at a time
// on the goroutine that called Run, so the frame callback may touch its
// simulation without locking. Ticks that fall behind are skipped, never
// replayed.
type Loop struct {
	interval time.Duration
	frame    func() bool

	inbox  chan func()
	ticker *time.Ticker
	tick   <-chan time.Time
	done   chan struct{}
}

// NewLoop returns a paused loop calling frame fps times a second once
// resumed. The loop pauses itself when frame returns false.
func NewLoop(fps int, frame func() bool) *Loop {
	if fps <= 0 {
		fps = FrameRate
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		frame:    frame,
		inbox:    make(chan func(), 256),
		done:     make(chan struct{}),
	}
}

// Run processes posted functions and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.Pause()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.inbox:
			fn()
		case <-l.tick:
			l.Step()
		}
	}
}

// Do queues fn to run on the loop goroutine. It reports false once the loop
// has exited.
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.inbox <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Step runs a single frame and pauses the loop if it reports false.
func (l *Loop) Step() {
	if !l.frame() {
		l.Pause()
	}
}

// Resume schedules frames. Call it from the loop goroutine.
func (l *Loop) Resume() {
	if l.ticker != nil {
		return
	}
	l.ticker = time.NewTicker(l.interval)
	l.tick = l.ticker.C
}

// Pause cancels the pending frame. Call it from the loop goroutine.
func (l *Loop) Pause() {
	if l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
	l.tick = nil
}

// Ticking reports whether frames are scheduled.
func (l *Loop) Ticking() bool {
	return l.ticker != nil
}
