/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package protocol defines the room-wide shared state, the events exchanged
// over the relay, and the reducers the host and students apply to them.
package protocol

import "slices"

// Phase is the room-wide game phase. It only ever moves forward:
// LOBBY → PLAYING → FINISHED.
type Phase string

const (
	Lobby    Phase = "LOBBY"
	Playing  Phase = "PLAYING"
	Finished Phase = "FINISHED"
)

func (p Phase) rank() int {
	switch p {
	case Lobby:
		return 0
	case Playing:
		return 1
	case Finished:
		return 2
	default:
		return -1
	}
}

// Advance returns to if it is later than p, otherwise p.
func (p Phase) Advance(to Phase) Phase {
	if to.rank() > p.rank() {
		return to
	}
	return p
}

// StartLives is how many lives a player joins with.
const StartLives = 3

// Player is one participant in a room.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Lives    int    `json:"lives"`
	AvatarID int    `json:"avatarId"`
}

// GameState is the shared room view. The host owns the canonical copy;
// students hold a mirror replaced wholesale by snapshots.
type GameState struct {
	PIN     string   `json:"pin"`
	Phase   Phase    `json:"phase"`
	Players []Player `json:"players"`
	// StartTime is in Unix milliseconds, nil until the round starts.
	StartTime *int64 `json:"startTime"`
}

// NewGameState returns an empty lobby for pin.
func NewGameState(pin string) GameState {
	return GameState{
		PIN:     pin,
		Phase:   Lobby,
		Players: []Player{},
	}
}

// Clone returns a deep copy, so reducers never share memory with their
// input.
func (s GameState) Clone() GameState {
	out := s
	out.Players = slices.Clone(s.Players)
	if out.Players == nil {
		out.Players = []Player{}
	}
	if s.StartTime != nil {
		t := *s.StartTime
		out.StartTime = &t
	}
	return out
}

// Player looks up a player by id.
func (s GameState) Player(id string) (Player, bool) {
	i := slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

// Equal compares two states by value.
func (s GameState) Equal(o GameState) bool {
	if s.PIN != o.PIN || s.Phase != o.Phase {
		return false
	}
	if (s.StartTime == nil) != (o.StartTime == nil) {
		return false
	}
	if s.StartTime != nil && *s.StartTime != *o.StartTime {
		return false
	}
	return slices.Equal(s.Players, o.Players)
}
