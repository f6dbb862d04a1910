/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"context"
	"sync"

	"github.com/Seednode/slicebox/audio"
	"github.com/Seednode/slicebox/ninja"
	"github.com/Seednode/slicebox/protocol"
)

// Student mirrors the room state and plays its own round locally. The round
// is only touched on the loop goroutine; everything else posts to it.
type Student struct {
	Round *ninja.Round
	Loop  *ninja.Loop

	t      Transport
	audio  audio.Player
	logf   func(format string, args ...any)
	render func()

	mu       sync.Mutex
	me       protocol.Player
	state    protocol.GameState
	onChange func(protocol.GameState)
}

// NewStudent returns a student for the room pin with a width×height
// playfield. player and logf may be nil.
func NewStudent(t Transport, pin string, width, height float64, player audio.Player, logf func(format string, args ...any)) *Student {
	if player == nil {
		player = audio.Nop{}
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	s := &Student{
		t:     t,
		audio: player,
		logf:  logf,
		state: protocol.NewGameState(pin),
	}
	s.Round = ninja.NewRound(ninja.StudentPolicy(s.report), width, height, nil, player)
	s.Loop = ninja.NewLoop(ninja.FrameRate, s.frame)

	return s
}

// OnChange registers fn to be called with a copy of the mirror after every
// change. It runs on the goroutine that called Run.
func (s *Student) OnChange(fn func(protocol.GameState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}

// OnFrame registers fn to run on the loop goroutine after every frame and
// every round transition.
func (s *Student) OnFrame(fn func()) {
	s.Loop.Do(func() { s.render = fn })
}

// Join announces this player to the room. An empty id gets a fresh one.
func (s *Student) Join(id, name string, avatarID int) protocol.Player {
	if id == "" {
		id = protocol.NewPlayerID()
	}

	me := protocol.Player{
		ID:       id,
		Name:     name,
		Score:    0,
		Lives:    protocol.StartLives,
		AvatarID: avatarID,
	}

	s.mu.Lock()
	s.me = me
	s.mu.Unlock()

	s.logf("STUDENT: Joining room %s as %s", s.State().PIN, name)
	s.t.Send(protocol.PlayerJoin{Player: me})

	return me
}

// Me returns the player announced by Join.
func (s *Student) Me() protocol.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.me
}

// State returns a copy of the mirrored room state.
func (s *Student) State() protocol.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// PointerMoved forwards a blade position to the round.
func (s *Student) PointerMoved(p ninja.Point) {
	s.Loop.Do(func() { s.Round.PointerMoved(p) })
}

// Run drives the frame loop and applies relay events until ctx is
// cancelled or the connection drops.
func (s *Student) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = s.Loop.Run(ctx)
	}()

	events := s.t.Events()

	for {
		select {
		case <-ctx.Done():
			<-loopDone
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				cancel()
				<-loopDone
				return ErrDisconnected
			}
			s.apply(ev)
		}
	}
}

func (s *Student) apply(ev protocol.Event) {
	s.mu.Lock()
	prev := s.state
	next := protocol.StudentReduce(prev, ev)
	s.state = next
	fn := s.onChange
	s.mu.Unlock()

	if prev.Phase != protocol.Playing && next.Phase == protocol.Playing {
		s.logf("STUDENT: Round started in room %s", next.PIN)
		s.Loop.Do(func() {
			s.Round.Start()
			s.Loop.Resume()
			s.draw()
		})
	}

	if prev.Phase != protocol.Finished && next.Phase == protocol.Finished {
		s.logf("STUDENT: Round ended in room %s", next.PIN)
		s.Loop.Do(func() {
			s.Round.Finish()
			s.Loop.Pause()
			s.audio.Play(audio.Victory)
			s.draw()
		})
	}

	if fn != nil && !next.Equal(prev) {
		fn(next.Clone())
	}
}

func (s *Student) frame() bool {
	alive := s.Round.Tick()
	s.draw()
	return alive
}

func (s *Student) draw() {
	if s.render != nil {
		s.render()
	}
}

// report runs inside Tick whenever score or lives change.
func (s *Student) report(score, lives int) {
	s.mu.Lock()
	id := s.me.ID
	s.mu.Unlock()

	if id == "" {
		return
	}
	s.t.Send(protocol.PlayerUpdate{ID: id, Score: score, Lives: lives})
}
