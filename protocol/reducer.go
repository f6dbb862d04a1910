/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package protocol

import (
	"errors"
	"time"
)

var (
	ErrNoPlayers = errors.New("cannot start a game with no players")
	ErrPhase     = errors.New("invalid phase transition")
)

// HostReduce applies an event delivered to the host and returns the new
// canonical state plus any events the host must broadcast in response.
//
// Joins are idempotent and always answered with a full snapshot, so a
// player rejoining under a known id still catches up. Updates overwrite
// the player's score and lives, last write wins, and are not rebroadcast:
// students see other standings only through the next snapshot.
// Host-originated events echoed back by the relay are ignored.
func HostReduce(s GameState, ev Event) (GameState, []Event) {
	switch e := ev.(type) {
	case PlayerJoin:
		if e.Player.ID == "" {
			return s, nil
		}
		if _, ok := s.Player(e.Player.ID); ok {
			return s, []Event{SyncState{State: s.Clone()}}
		}
		next := s.Clone()
		next.Players = append(next.Players, e.Player)
		return next, []Event{SyncState{State: next.Clone()}}

	case PlayerUpdate:
		if _, ok := s.Player(e.ID); !ok {
			return s, nil
		}
		next := s.Clone()
		for i := range next.Players {
			if next.Players[i].ID == e.ID {
				next.Players[i].Score = e.Score
				next.Players[i].Lives = e.Lives
			}
		}
		return next, nil
	}

	return s, nil
}

// StudentReduce applies an event delivered to a student. Snapshots replace
// the mirror wholesale, except that the phase never moves backwards: a
// stale snapshot arriving after HOST_START keeps PLAYING and its start time.
// HOST_END only ends a round the student saw start; a student that joined
// after the round ended reaches FINISHED through the host's snapshot.
func StudentReduce(s GameState, ev Event) GameState {
	switch e := ev.(type) {
	case SyncState:
		next := e.State.Clone()
		if phase := s.Phase.Advance(next.Phase); phase != next.Phase {
			next.Phase = phase
			next.StartTime = s.Clone().StartTime
		}
		return next

	case HostStart:
		if s.Phase.rank() >= Playing.rank() {
			return s
		}
		next := s.Clone()
		next.Phase = Playing
		t := e.StartTime
		next.StartTime = &t
		return next

	case HostEnd:
		if s.Phase != Playing {
			return s
		}
		next := s.Clone()
		next.Phase = Finished
		return next
	}

	return s
}

// Start is the host's LOBBY → PLAYING transition.
func Start(s GameState, now time.Time) (GameState, Event, error) {
	if s.Phase != Lobby {
		return s, nil, ErrPhase
	}
	if len(s.Players) == 0 {
		return s, nil, ErrNoPlayers
	}

	next := s.Clone()
	next.Phase = Playing
	ms := now.UnixMilli()
	next.StartTime = &ms

	return next, HostStart{StartTime: ms}, nil
}

// End is the host's PLAYING → FINISHED transition.
func End(s GameState) (GameState, Event, error) {
	if s.Phase != Playing {
		return s, nil, ErrPhase
	}

	next := s.Clone()
	next.Phase = Finished

	return next, HostEnd{}, nil
}
