package ninja

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSpawnToxicLaunchesUpwardTowardTarget(t *testing.T) {
	s := NewSim(StudentPolicy(nil), 800, 600, seeded())
	s.Difficulty = 1

	e := s.SpawnAt(Bad, "Toxic", 100, 500, 0.5)
	if e.Radius != 55 {
		t.Fatalf("radius = %v, want 55", e.Radius)
	}
	if e.VY >= 0 {
		t.Fatalf("expected upward launch, got vy=%v", e.VY)
	}
	if e.VX <= 0 {
		t.Fatalf("expected drift toward target on the right, got vx=%v", e.VX)
	}
	if e.Y != 600+e.Radius {
		t.Fatalf("expected spawn just below the bottom edge, got y=%v", e.Y)
	}

	left := s.SpawnAt(Bad, "Toxic", 700, 200, 0.5)
	if left.VX >= 0 {
		t.Fatalf("expected drift toward target on the left, got vx=%v", left.VX)
	}
}

func TestSpawnDifficultyBoostsLaunch(t *testing.T) {
	s := NewSim(ArcadePolicy(), 800, 600, seeded())
	s.Difficulty = 1
	slow := s.SpawnAt(Bad, "Toxic", 400, 400, 0)
	s.Difficulty = 5
	fast := s.SpawnAt(Bad, "Toxic", 400, 400, 0)
	if fast.VY >= slow.VY {
		t.Fatalf("expected higher difficulty to launch faster: %v vs %v", fast.VY, slow.VY)
	}
}

func TestSpawnRandomWordsStayInBounds(t *testing.T) {
	p := StudentPolicy(nil)
	s := NewSim(p, 800, 600, seeded())

	bad := 0
	const n = 2000
	for range n {
		e := s.Spawn()
		if e.X < 50 || e.X >= 750 {
			t.Fatalf("spawn x out of range: %v", e.X)
		}
		if e.VY >= 0 {
			t.Fatalf("expected upward launch, got vy=%v", e.VY)
		}
		if e.Radius <= 0 {
			t.Fatalf("expected positive radius, got %v", e.Radius)
		}
		switch e.Category {
		case Bad:
			bad++
			if !slices.Contains(p.BadWords, e.Text) {
				t.Fatalf("bad entity with unknown word %q", e.Text)
			}
		case Good:
			if !slices.Contains(p.GoodWords, e.Text) {
				t.Fatalf("good entity with unknown word %q", e.Text)
			}
		}
	}

	ratio := float64(bad) / n
	if ratio < 0.5 || ratio > 0.7 {
		t.Fatalf("bad ratio = %.2f, want about %.2f", ratio, p.BadWeight)
	}
}

func TestAdvanceIntegratesUnderGravity(t *testing.T) {
	s := NewSim(ArcadePolicy(), 800, 600, seeded())
	e := s.SpawnAt(Bad, "Toxic", 400, 400, 0)
	e.X, e.Y, e.VX, e.VY, e.RotationSpeed = 100, 100, 2, -3, 0.1

	s.Advance()

	if e.X != 102 || e.Y != 97 {
		t.Fatalf("position = (%v, %v), want (102, 97)", e.X, e.Y)
	}
	if e.VY != -3+s.Policy.Gravity {
		t.Fatalf("vy = %v, want %v", e.VY, -3+s.Policy.Gravity)
	}
	if e.Rotation != 0.1 {
		t.Fatalf("rotation = %v, want 0.1", e.Rotation)
	}
}

func TestAdvanceDropsMissedEntities(t *testing.T) {
	s := NewSim(ArcadePolicy(), 800, 600, seeded())
	e := s.SpawnAt(Bad, "Toxic", 400, 400, 0)
	e.Y, e.VY = 600+s.Policy.Margin-1, 5

	s.Advance()

	if len(s.Entities) != 0 {
		t.Fatalf("expected entity below the bottom bound to be dropped, have %d", len(s.Entities))
	}
}

func TestParticlesBurnOut(t *testing.T) {
	p := ArcadePolicy()
	s := NewSim(p, 800, 600, seeded())
	s.Burst(100, 100, p.BadColor)
	if len(s.Particles) != p.ParticleCount {
		t.Fatalf("burst size = %d, want %d", len(s.Particles), p.ParticleCount)
	}

	prev := s.Particles[0].Life
	s.Advance()
	if s.Particles[0].Life >= prev {
		t.Fatalf("expected particle life to decrease")
	}

	for range int(1/p.ParticleDecay) + 1 {
		s.Advance()
	}
	if len(s.Particles) != 0 {
		t.Fatalf("expected all particles to burn out, have %d", len(s.Particles))
	}
}

func TestSpawnCadence(t *testing.T) {
	p := StudentPolicy(nil)
	s := NewSim(p, 800, 600, seeded())

	for range p.SpawnBase - 1 {
		s.Advance()
	}
	if len(s.Entities) != 0 {
		t.Fatalf("expected no spawn before frame %d, have %d", p.SpawnBase, len(s.Entities))
	}
	s.Advance()
	if len(s.Entities) != 1 {
		t.Fatalf("expected one spawn at frame %d, have %d", p.SpawnBase, len(s.Entities))
	}
}

func TestDifficultyRampsAndIntervalFloors(t *testing.T) {
	p := ArcadePolicy()
	s := NewSim(p, 800, 600, seeded())

	for range p.DifficultyEvery {
		s.Advance()
	}
	if s.Difficulty != p.StartDifficulty+p.DifficultyStep {
		t.Fatalf("difficulty = %v, want %v", s.Difficulty, p.StartDifficulty+p.DifficultyStep)
	}

	if got := p.spawnInterval(1000); got != p.SpawnFloor {
		t.Fatalf("interval at high difficulty = %d, want floor %d", got, p.SpawnFloor)
	}
	if got := p.spawnInterval(1); got != p.SpawnBase-2 {
		t.Fatalf("interval at difficulty 1 = %d, want %d", got, p.SpawnBase-2)
	}
}
