/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ninja

import (
	"math/rand/v2"
	"strconv"
	"unicode/utf8"
)

// Category decides what slicing a word does.
type Category string

const (
	Bad  Category = "BAD"
	Good Category = "GOOD"
)

// Point is a position in simulation pixels.
type Point struct {
	X, Y float64
}

// WordEntity is a single falling/thrown target.
type WordEntity struct {
	ID            string
	Text          string
	Category      Category
	X, Y          float64
	VX, VY        float64
	Rotation      float64
	RotationSpeed float64
	Radius        float64
	Sliced        bool
	// Scale drops to 0 when the entity should be filtered out.
	Scale float64
}

// Particle is a short-lived spark from a slice.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	Color  string
	Size   float64
}

// Sim is the simulation context for one player: everything a frame reads
// or writes. It is not safe for concurrent use; a Loop owns it.
type Sim struct {
	Policy     Policy
	Width      float64
	Height     float64
	Entities   []*WordEntity
	Particles  []Particle
	Path       *Path
	Frame      int
	Difficulty float64

	rng    *rand.Rand
	nextID uint64
}

// NewSim returns an empty simulation for a width×height playfield. A nil
// rng gets a randomly seeded one.
func NewSim(p Policy, width, height float64, rng *rand.Rand) *Sim {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Sim{
		Policy: p,
		Width:  width,
		Height: height,
		rng:    rng,
	}
	s.Reset()
	return s
}

// Reset clears all buffers and rewinds the difficulty curve.
func (s *Sim) Reset() {
	s.Entities = s.Entities[:0]
	s.Particles = s.Particles[:0]
	s.Path = NewPath(s.Policy.TrailLength)
	s.Frame = 0
	s.Difficulty = s.Policy.StartDifficulty
}

// Resize changes the playfield; entities keep their positions.
func (s *Sim) Resize(width, height float64) {
	s.Width = width
	s.Height = height
}

// Advance moves every entity and particle forward one frame, drops the ones
// that left the playfield or burned out, and spawns on the cadence.
func (s *Sim) Advance() {
	g := s.Policy.Gravity

	live := s.Entities[:0]
	for _, e := range s.Entities {
		e.X += e.VX
		e.Y += e.VY
		e.VY += g
		e.Rotation += e.RotationSpeed
		if e.Y >= s.Height+s.Policy.Margin {
			continue
		}
		live = append(live, e)
	}
	clearTail(s.Entities, len(live))
	s.Entities = live

	parts := s.Particles[:0]
	for _, p := range s.Particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += g * 0.5
		p.Life -= s.Policy.ParticleDecay
		if p.Life <= 0 {
			continue
		}
		parts = append(parts, p)
	}
	s.Particles = parts

	s.Frame++
	if s.Frame%s.Policy.spawnInterval(s.Difficulty) == 0 {
		s.Spawn()
	}
	if s.Policy.DifficultyEvery > 0 && s.Frame%s.Policy.DifficultyEvery == 0 {
		s.Difficulty += s.Policy.DifficultyStep
	}
}

// Spawn launches a random word from below the bottom edge.
func (s *Sim) Spawn() *WordEntity {
	p := s.Policy

	cat := Good
	words := p.GoodWords
	if s.rng.Float64() < p.BadWeight {
		cat = Bad
		words = p.BadWords
	}
	if len(words) == 0 {
		return nil
	}
	text := words[s.rng.IntN(len(words))]

	x := s.rng.Float64()*(s.Width-100) + 50
	targetX := s.Width * (0.2 + s.rng.Float64()*0.6)

	e := s.SpawnAt(cat, text, x, targetX, s.rng.Float64())
	e.RotationSpeed = (s.rng.Float64() - 0.5) * p.SpinJitter
	return e
}

// SpawnAt launches text from x toward targetX. jitter in [0,1) scales the
// random part of the upward thrust.
func (s *Sim) SpawnAt(cat Category, text string, x, targetX, jitter float64) *WordEntity {
	p := s.Policy
	radius := p.RadiusBase + p.RadiusPerRune*float64(utf8.RuneCountInString(text))

	s.nextID++
	e := &WordEntity{
		ID:       strconv.FormatUint(s.nextID, 10),
		Text:     text,
		Category: cat,
		X:        x,
		Y:        s.Height + radius,
		VX:       (targetX - x) / p.DriftDivisor,
		VY:       -(p.LaunchBase + jitter*p.LaunchJitter + s.Difficulty*p.DifficultyBoost),
		Radius:   radius,
		Scale:    1,
	}
	s.Entities = append(s.Entities, e)
	return e
}

// Burst sprays ParticleCount particles from x,y.
func (s *Sim) Burst(x, y float64, color string) {
	p := s.Policy
	for range p.ParticleCount {
		s.Particles = append(s.Particles, Particle{
			X:     x,
			Y:     y,
			VX:    (s.rng.Float64() - 0.5) * p.ParticleSpeed,
			VY:    (s.rng.Float64() - 0.5) * p.ParticleSpeed,
			Life:  1,
			Color: color,
			Size:  s.rng.Float64()*p.ParticleSize + 2,
		})
	}
}

// sweep filters out entities whose scale hit zero.
func (s *Sim) sweep() {
	live := s.Entities[:0]
	for _, e := range s.Entities {
		if e.Scale <= 0 {
			continue
		}
		live = append(live, e)
	}
	clearTail(s.Entities, len(live))
	s.Entities = live
}

func clearTail(es []*WordEntity, n int) {
	for i := n; i < len(es); i++ {
		es[i] = nil
	}
}
