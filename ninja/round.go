/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ninja

import (
	"math/rand/v2"

	"github.com/Seednode/slicebox/audio"
)

// RoundState is a player's local round phase.
type RoundState int

const (
	Menu RoundState = iota
	Playing
	GameOver
)

func (s RoundState) String() string {
	switch s {
	case Menu:
		return "MENU"
	case Playing:
		return "PLAYING"
	case GameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// Round owns one player's score, lives and simulation. In the student client
// GameOver doubles as "out of lives while the room is still playing".
type Round struct {
	Sim *Sim

	audio     audio.Player
	state     RoundState
	score     int
	lives     int
	highScore int
}

// NewRound returns a round in the Menu state. A nil player is silent.
func NewRound(p Policy, width, height float64, rng *rand.Rand, player audio.Player) *Round {
	if player == nil {
		player = audio.Nop{}
	}
	return &Round{
		Sim:   NewSim(p, width, height, rng),
		audio: player,
		state: Menu,
		lives: p.StartLives,
	}
}

func (r *Round) State() RoundState { return r.state }
func (r *Round) Score() int        { return r.score }
func (r *Round) Lives() int        { return r.lives }
func (r *Round) HighScore() int    { return r.highScore }

// Active reports whether frames should keep being scheduled.
func (r *Round) Active() bool { return r.state == Playing }

// Out reports whether this player has no lives left.
func (r *Round) Out() bool { return r.lives <= 0 }

// Start enters Playing from any state, resetting score, lives and buffers.
func (r *Round) Start() {
	r.score = 0
	r.lives = r.Sim.Policy.StartLives
	r.Sim.Reset()
	r.state = Playing

	r.audio.Play(audio.Start)
	r.audio.SetMusic(true)
}

// Finish ends the round early, e.g. when the host ends the game.
func (r *Round) Finish() {
	if r.state != Playing {
		return
	}
	r.end()
}

// PointerMoved extends the blade trail. Ignored outside Playing.
func (r *Round) PointerMoved(p Point) {
	if r.state != Playing {
		return
	}
	r.Sim.Path.Record(p)
}

// Tick runs one frame: physics, slicing, bookkeeping. It does nothing unless
// the round is Playing and returns whether the round is still Playing.
func (r *Round) Tick() bool {
	if r.state != Playing {
		return false
	}

	s := r.Sim
	s.Advance()

	hits := DetectSlices(s.Path, s.Entities, s.Policy.MinSpeed)
	for _, e := range hits {
		e.Scale = 0
		if e.Category == Bad {
			r.audio.Play(audio.Slice)
			r.audio.Play(audio.Explosion)
			s.Burst(e.X, e.Y, s.Policy.BadColor)
			r.score += s.Policy.Reward
		} else {
			r.audio.Play(audio.Wrong)
			s.Burst(e.X, e.Y, s.Policy.GoodColor)
			if r.lives > 0 {
				r.lives--
			}
		}
		s.Policy.emit(r.score, r.lives)
	}
	s.sweep()

	if r.lives <= 0 {
		r.end()
	}
	return r.state == Playing
}

func (r *Round) end() {
	r.state = GameOver
	r.audio.SetMusic(false)
	if r.score > r.highScore {
		r.highScore = r.score
	}
}
