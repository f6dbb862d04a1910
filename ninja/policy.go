/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package ninja implements the word-slicing minigame: falling/thrown word
// targets under gravity, the blade trail used to slice them, and the round
// state machine that keeps score and lives. The same engine drives the
// single-player arcade and the multiplayer student client; the differences
// live in a Policy.
package ninja

// BadWords are the targets a player is supposed to slice.
var BadWords = []string{
	"Blaming", "Yelling", "Criticizing", "Toxic", "Raging", "Stubborn",
	"Ignoring", "Mocking", "Insulting", "Violence", "Grudges", "Jealousy",
	"Selfish",
}

// GoodWords cost a life when sliced.
var GoodWords = []string{
	"Listening", "Empathy", "Apologizing", "Teamwork", "Calm", "Respect",
	"Sharing", "Forgiving", "Patience", "Mediating", "Compassion",
}

// Policy holds the tunables that differ between game modes.
type Policy struct {
	Gravity float64
	// Entities are dropped once they fall this far below the bottom edge.
	Margin float64

	// BadWeight is the probability that a spawned word is BAD.
	BadWeight float64
	BadWords  []string
	GoodWords []string

	Reward     int
	StartLives int

	TrailLength int
	// MinSpeed is the distance between the two most recent trail points
	// that must be exceeded before anything can be sliced.
	MinSpeed float64

	// A word spawns whenever frame % max(SpawnFloor, SpawnBase-floor(SpawnScale*difficulty)) == 0.
	SpawnBase       int
	SpawnFloor      int
	SpawnScale      float64
	StartDifficulty float64
	DifficultyEvery int
	DifficultyStep  float64

	RadiusBase    float64
	RadiusPerRune float64

	DriftDivisor    float64
	LaunchBase      float64
	LaunchJitter    float64
	DifficultyBoost float64
	SpinJitter      float64

	ParticleCount int
	ParticleSpeed float64
	ParticleSize  float64
	ParticleDecay float64
	BadColor      string
	GoodColor     string

	// Emit, when set, is called after every score or lives change. It must
	// not block: the student client uses it to queue a network update.
	Emit func(score, lives int)
}

// ArcadePolicy is the single-player mode: harder launches, more BAD words,
// and no network emission.
func ArcadePolicy() Policy {
	return Policy{
		Gravity:         0.15,
		Margin:          100,
		BadWeight:       0.7,
		BadWords:        BadWords,
		GoodWords:       GoodWords,
		Reward:          10,
		StartLives:      3,
		TrailLength:     20,
		MinSpeed:        5,
		SpawnBase:       60,
		SpawnFloor:      20,
		SpawnScale:      2,
		StartDifficulty: 1,
		DifficultyEvery: 300,
		DifficultyStep:  0.5,
		RadiusBase:      40,
		RadiusPerRune:   5,
		DriftDivisor:    100,
		LaunchBase:      12,
		LaunchJitter:    5,
		DifficultyBoost: 1,
		SpinJitter:      0.2,
		ParticleCount:   15,
		ParticleSpeed:   10,
		ParticleSize:    5,
		ParticleDecay:   0.02,
		BadColor:        "#ff0055",
		GoodColor:       "#00b894",
	}
}

// StudentPolicy is the classroom mode: floatier arcs, a slower cadence that
// speeds up with elapsed time, and uniform-looking targets.
func StudentPolicy(emit func(score, lives int)) Policy {
	return Policy{
		Gravity:         0.15,
		Margin:          100,
		BadWeight:       0.6,
		BadWords:        BadWords,
		GoodWords:       GoodWords,
		Reward:          10,
		StartLives:      3,
		TrailLength:     15,
		MinSpeed:        5,
		SpawnBase:       70,
		SpawnFloor:      30,
		SpawnScale:      1,
		StartDifficulty: 0,
		DifficultyEvery: 300,
		DifficultyStep:  1,
		RadiusBase:      35,
		RadiusPerRune:   4,
		DriftDivisor:    100,
		LaunchBase:      11,
		LaunchJitter:    4,
		DifficultyBoost: 0.2,
		SpinJitter:      0.1,
		ParticleCount:   12,
		ParticleSpeed:   8,
		ParticleSize:    6,
		ParticleDecay:   0.03,
		BadColor:        "#f39c12",
		GoodColor:       "#e74c3c",
		Emit:            emit,
	}
}

func (p Policy) spawnInterval(difficulty float64) int {
	interval := p.SpawnBase - int(p.SpawnScale*difficulty)
	if interval < p.SpawnFloor {
		interval = p.SpawnFloor
	}
	if interval < 1 {
		interval = 1
	}
	return interval
}

func (p Policy) emit(score, lives int) {
	if p.Emit != nil {
		p.Emit(score, lives)
	}
}
