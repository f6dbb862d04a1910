/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package device plays synthesized audio on the local sound card.
package device

import (
	"sync"
	"time"

	"github.com/Seednode/slicebox/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker is an audio.Player backed by the system speaker. Every method is
// safe to call from the game loop; none of them wait for playback.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
}

// NewSpeaker initializes the speaker. On failure the caller should fall back
// to audio.Nop; the game runs fine without sound.
func NewSpeaker() (*Speaker, error) {
	err := speaker.Init(audio.SampleRate, audio.SampleRate.N(100*time.Millisecond))
	if err != nil {
		return nil, err
	}

	s := &Speaker{
		mixer: &beep.Mixer{},
		music: &beep.Ctrl{Streamer: audio.NewMusic(audio.SampleRate), Paused: true},
	}
	s.mixer.Add(s.music)
	speaker.Play(s.mixer)
	s.initialized = true

	return s, nil
}

func (s *Speaker) Play(e audio.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Lock()
	s.mixer.Add(audio.Synth(e, audio.SampleRate))
	speaker.Unlock()
}

func (s *Speaker) SetMusic(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Lock()
	s.music.Paused = !on
	speaker.Unlock()
}

// Close silences everything and releases the audio device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Lock()
	s.music.Paused = true
	s.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	s.initialized = false
}
