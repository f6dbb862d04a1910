/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"context"
	"sync"
	"time"

	"github.com/Seednode/slicebox/audio"
	"github.com/Seednode/slicebox/protocol"
)

// Host owns the canonical room state. Every event the relay delivers,
// including the host's own broadcasts, goes through HostReduce.
type Host struct {
	// SyncInterval re-broadcasts the snapshot periodically when positive.
	SyncInterval time.Duration

	t     Transport
	audio audio.Player
	logf  func(format string, args ...any)

	mu       sync.Mutex
	state    protocol.GameState
	onChange func(protocol.GameState)
}

// NewHost returns a host for an empty lobby. player and logf may be nil.
func NewHost(t Transport, pin string, player audio.Player, logf func(format string, args ...any)) *Host {
	if player == nil {
		player = audio.Nop{}
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Host{
		t:     t,
		audio: player,
		logf:  logf,
		state: protocol.NewGameState(pin),
	}
}

// OnChange registers fn to be called with a copy of the state after every
// change. It runs on whichever goroutine made the change.
func (h *Host) OnChange(fn func(protocol.GameState)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onChange = fn
}

// State returns a copy of the canonical state.
func (h *Host) State() protocol.GameState {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state.Clone()
}

// Run consumes relay events until ctx is cancelled or the connection drops.
// Background music plays for as long as the room is open.
func (h *Host) Run(ctx context.Context) error {
	h.audio.SetMusic(true)
	defer h.audio.SetMusic(false)

	var tick <-chan time.Time
	if h.SyncInterval > 0 {
		ticker := time.NewTicker(h.SyncInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	events := h.t.Events()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrDisconnected
			}
			h.apply(ev)
		case <-tick:
			h.Sync()
		}
	}
}

func (h *Host) apply(ev protocol.Event) {
	h.mu.Lock()
	prev := h.state
	next, out := protocol.HostReduce(prev, ev)
	h.state = next
	fn := h.onChange
	h.mu.Unlock()

	if join, ok := ev.(protocol.PlayerJoin); ok && len(next.Players) > len(prev.Players) {
		h.logf("HOST: %s joined room %s", join.Player.Name, next.PIN)
		h.audio.Play(audio.Slice)
	}

	for _, o := range out {
		h.t.Send(o)
	}

	if fn != nil && !next.Equal(prev) {
		fn(next.Clone())
	}
}

// Start opens the round for every student in the room. The phase event is
// followed by a full snapshot.
func (h *Host) Start(now time.Time) error {
	h.mu.Lock()
	next, ev, err := protocol.Start(h.state, now)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.state = next
	fn := h.onChange
	h.mu.Unlock()

	h.logf("HOST: Started room %s with %d players", next.PIN, len(next.Players))
	h.t.Send(ev)
	h.t.Send(protocol.SyncState{State: next.Clone()})

	if fn != nil {
		fn(next.Clone())
	}
	return nil
}

// End closes the round and shows the podium. The snapshot that follows
// the phase event carries the final standings.
func (h *Host) End() error {
	h.mu.Lock()
	next, ev, err := protocol.End(h.state)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.state = next
	fn := h.onChange
	h.mu.Unlock()

	h.logf("HOST: Ended room %s", next.PIN)
	h.t.Send(ev)
	h.t.Send(protocol.SyncState{State: next.Clone()})
	h.audio.Play(audio.Victory)

	if fn != nil {
		fn(next.Clone())
	}
	return nil
}

// Sync broadcasts the current snapshot.
func (h *Host) Sync() {
	h.t.Send(protocol.SyncState{State: h.State()})
}
