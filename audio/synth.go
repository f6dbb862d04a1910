/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is used for everything this package renders.
const SampleRate = beep.SampleRate(44100)

// WaveType is an oscillator shape.
type WaveType int

const (
	Sine WaveType = iota
	Triangle
	Saw
)

// Ramp describes how a value moves from From to To.
type Ramp struct {
	From, To    float64
	Exponential bool
	// Over is how long the ramp takes; the value holds at To afterwards.
	// Zero means the whole sound.
	Over time.Duration
}

func (r Ramp) at(t float64) float64 {
	if t >= 1 {
		return r.To
	}
	if r.Exponential && r.From > 0 && r.To > 0 {
		return r.From * math.Pow(r.To/r.From, t)
	}
	return r.From + (r.To-r.From)*t
}

// sweep is an oscillator whose pitch and gain follow ramps.
type sweep struct {
	wave     WaveType
	freq     Ramp
	gain     Ramp
	phase    float64
	position int
	total    int
	freqLen  int
	gainLen  int
	rate     beep.SampleRate
}

// NewSweep returns a finite streamer playing wave for d.
func NewSweep(wave WaveType, freq, gain Ramp, d time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	length := func(r Ramp) int {
		if r.Over <= 0 {
			return total
		}
		return rate.N(r.Over)
	}
	return &sweep{
		wave:    wave,
		freq:    freq,
		gain:    gain,
		total:   total,
		freqLen: length(freq),
		gainLen: length(gain),
		rate:    rate,
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}

		var val float64
		switch s.wave {
		case Sine:
			val = math.Sin(2 * math.Pi * s.phase)
		case Triangle:
			val = 4*math.Abs(s.phase-0.5) - 1
		case Saw:
			val = 2 * (s.phase - 0.5)
		}
		val *= s.gain.at(float64(s.position) / float64(s.gainLen))

		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq.at(float64(s.position)/float64(s.freqLen)) / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// fade scales a streamer by a linear gain ramp over total samples.
type fade struct {
	streamer beep.Streamer
	gain     Ramp
	position int
	total    int
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := range n {
		g := f.gain.at(float64(f.position) / float64(f.total))
		samples[i][0] *= g
		samples[i][1] *= g
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// tone is a constant sine held for d with a linear fade from gain to silence.
func tone(freq, gain float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return beep.Silence(rate.N(d))
	}
	n := rate.N(d)
	return &fade{
		streamer: beep.Take(n, sine),
		gain:     Ramp{From: gain, To: 0},
		total:    n,
	}
}

// Synth builds the streamer for e.
func Synth(e Effect, rate beep.SampleRate) beep.Streamer {
	switch e {
	case Slice:
		// blade whoosh
		return NewSweep(Triangle,
			Ramp{From: 800, To: 100, Exponential: true},
			Ramp{From: 0.2, To: 0},
			150*time.Millisecond, rate)
	case Explosion:
		// soft pop that chirps upward
		return NewSweep(Sine,
			Ramp{From: 400, To: 1200, Exponential: true, Over: 100 * time.Millisecond},
			Ramp{From: 0.3, To: 0.01, Exponential: true},
			300*time.Millisecond, rate)
	case Wrong:
		// dull thud
		return NewSweep(Saw,
			Ramp{From: 100, To: 50},
			Ramp{From: 0.5, To: 0},
			300*time.Millisecond, rate)
	case Start:
		return beep.Seq(
			tone(523.25, 0.2, 90*time.Millisecond, rate),
			tone(659.25, 0.2, 90*time.Millisecond, rate),
			tone(783.99, 0.25, 180*time.Millisecond, rate),
		)
	case Victory:
		return &chord{voices: []beep.Streamer{
			tone(523.25, 0.2, 2*time.Second, rate),
			tone(783.99, 0.2, 2*time.Second, rate),
		}}
	default:
		return beep.Silence(0)
	}
}

// chord sums voices until every one of them has drained.
type chord struct {
	voices []beep.Streamer
	tmp    [][2]float64
}

func (c *chord) Stream(samples [][2]float64) (n int, ok bool) {
	if len(c.tmp) < len(samples) {
		c.tmp = make([][2]float64, len(samples))
	}
	for i := range samples {
		samples[i] = [2]float64{}
	}

	live := c.voices[:0]
	for _, v := range c.voices {
		m, vok := v.Stream(c.tmp[:len(samples)])
		for i := range m {
			samples[i][0] += c.tmp[i][0]
			samples[i][1] += c.tmp[i][1]
		}
		if m > n {
			n = m
		}
		if vok {
			live = append(live, v)
		}
	}
	c.voices = live

	return n, n > 0
}

func (c *chord) Err() error { return nil }

// pad is the endless background drone used for music.
type pad struct {
	phases [3]float64
	freqs  [3]float64
	lfo    float64
	rate   beep.SampleRate
}

// NewMusic returns an endless, quiet background chord.
func NewMusic(rate beep.SampleRate) beep.Streamer {
	return volume(&pad{
		freqs: [3]float64{220, 277.18, 329.63},
		rate:  rate,
	}, 0.3)
}

func (p *pad) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var val float64
		for j := range p.phases {
			val += math.Sin(2 * math.Pi * p.phases[j])
			p.phases[j] += p.freqs[j] / float64(p.rate)
			p.phases[j] -= math.Floor(p.phases[j])
		}
		swell := 0.6 + 0.4*math.Sin(2*math.Pi*p.lfo)
		p.lfo += 0.125 / float64(p.rate)
		p.lfo -= math.Floor(p.lfo)

		val = val / 3 * swell * 0.3
		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (p *pad) Err() error { return nil }

// volume applies a linear gain; 0 is silent since log2(0) is -Inf.
func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
