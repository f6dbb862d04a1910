/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrEmptyFrame   = errors.New("empty frame")
)

// Envelope is the wire shape of every event: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode serializes ev into an envelope.
func Encode(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, errors.New("encoding nil event")
	}

	var payload any
	switch e := ev.(type) {
	case PlayerJoin:
		payload = e.Player
	case SyncState:
		payload = e.State.Clone()
	default:
		payload = e
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", ev.Type(), err)
	}

	return json.Marshal(Envelope{Type: ev.Type(), Payload: pb})
}

// Decode parses an envelope back into an Event.
func Decode(b []byte) (Event, error) {
	if len(b) == 0 {
		return nil, ErrEmptyFrame
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case TypePlayerJoin:
		p, err := decodePayload[Player](env)
		if err != nil {
			return nil, err
		}
		if p.ID == "" {
			return nil, fmt.Errorf("%s without player id", env.Type)
		}
		return PlayerJoin{Player: p}, nil
	case TypePlayerUpdate:
		u, err := decodePayload[PlayerUpdate](env)
		if err != nil {
			return nil, err
		}
		if u.ID == "" {
			return nil, fmt.Errorf("%s without player id", env.Type)
		}
		return u, nil
	case TypeSyncState:
		s, err := decodePayload[GameState](env)
		if err != nil {
			return nil, err
		}
		return SyncState{State: s.Clone()}, nil
	case TypeHostStart:
		return decodePayload[HostStart](env)
	case TypeHostEnd:
		return HostEnd{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEvent, env.Type)
	}
}

func decodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.Type)
	}
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("decoding %s payload: %w", env.Type, err)
	}
	return out, nil
}
