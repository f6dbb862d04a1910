/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package audio synthesizes the game's sound effects and background music.
package audio

import (
	"fmt"
)

// Effect names a one-shot sound.
type Effect string

const (
	Slice     Effect = "slice"
	Explosion Effect = "explosion"
	Wrong     Effect = "wrong"
	Start     Effect = "start"
	Victory   Effect = "victory"
)

// Effects lists every known effect.
func Effects() []Effect {
	return []Effect{Slice, Explosion, Wrong, Start, Victory}
}

// ParseEffect validates an effect name.
func ParseEffect(name string) (Effect, error) {
	for _, e := range Effects() {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown sound effect %q", name)
}

// Player is the fire-and-forget sound sink the game talks to.
type Player interface {
	Play(e Effect)
	SetMusic(on bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Play(Effect)   {}
func (Nop) SetMusic(bool) {}
