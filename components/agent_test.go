package components

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/evosoup/neural"
)

var testWorld = World{Width: 800, Height: 600, Margin: 25}

var testShape = BrainShape{Inputs: 10, LayerWidth: 20, HiddenLayers: 3, Outputs: 3}

func TestNewAgent(t *testing.T) {
	rng := neural.NewRand(42)
	a := NewAgent(7, rng, testWorld, testShape, 1000)

	if a.ID != 7 {
		t.Errorf("ID = %d, want 7", a.ID)
	}
	if a.Energy != 1000 || a.IsCharging || a.Generation != 0 {
		t.Errorf("unexpected initial state: %+v", a)
	}
	if a.X < 0 || a.X >= 800 || a.Y < 0 || a.Y >= 600 {
		t.Errorf("position (%v,%v) outside world", a.X, a.Y)
	}
	if a.Facing < 0 || a.Facing >= 2*math.Pi {
		t.Errorf("facing %v outside [0, 2π)", a.Facing)
	}
	if a.Network.InputWidth() != 10 || len(a.Network.Layers) != 5 {
		t.Errorf("network shape = %v", a.Network.Shape())
	}
}

func TestIsAliveBoundary(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float32
		energy uint32
		want   bool
	}{
		{"center", 400, 300, 10, true},
		{"left margin", -25, 300, 10, true},
		{"beyond left", -26, 300, 10, false},
		{"right margin", 825, 300, 10, true},
		{"beyond right", 826, 300, 10, false},
		{"top margin", 400, -25, 10, true},
		{"beyond top", 400, -26, 10, false},
		{"bottom margin", 400, 625, 10, true},
		{"beyond bottom", 400, 626, 10, false},
		{"corner margin", 825, 625, 10, true},
		{"no energy", 400, 300, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Agent{X: tt.x, Y: tt.y, Energy: tt.energy}
			if got := a.IsAlive(testWorld); got != tt.want {
				t.Errorf("IsAlive at (%v,%v) energy %d = %v, want %v", tt.x, tt.y, tt.energy, got, tt.want)
			}
		})
	}
}

func TestFromParents(t *testing.T) {
	rng := neural.NewRand(42)
	first := NewAgent(1, rng, testWorld, testShape, 1000)
	second := NewAgent(2, rng, testWorld, testShape, 1000)
	first.X, first.Y, first.Energy, first.Generation = 100, 100, 300, 2
	second.X, second.Y, second.Energy, second.Generation = 200, 300, 100, 5

	child, err := FromParents(9, rng, first, second, 1000)
	if err != nil {
		t.Fatalf("FromParents: %v", err)
	}

	// weight 0.75 toward first
	if child.X != 125 || child.Y != 150 {
		t.Errorf("child at (%v,%v), want (125,150)", child.X, child.Y)
	}
	if child.ID != 9 || child.Energy != 1000 || child.IsCharging {
		t.Errorf("unexpected child state: %+v", child)
	}
	if child.Generation != 6 {
		t.Errorf("generation = %d, want 6", child.Generation)
	}
	if !child.Network.SameShape(first.Network) {
		t.Errorf("child shape %v", child.Network.Shape())
	}
	if child.Network == first.Network || child.Network == second.Network {
		t.Error("child reuses a parent network")
	}
}

func TestFromParentsMidpointWithoutEnergy(t *testing.T) {
	rng := neural.NewRand(1)
	first := NewAgent(1, rng, testWorld, testShape, 0)
	second := NewAgent(2, rng, testWorld, testShape, 0)
	first.X, first.Y = 0, 0
	second.X, second.Y = 10, 20

	child, err := FromParents(3, rng, first, second, 1000)
	if err != nil {
		t.Fatalf("FromParents: %v", err)
	}
	if child.X != 5 || child.Y != 10 {
		t.Errorf("child at (%v,%v), want midpoint (5,10)", child.X, child.Y)
	}
}

func TestFromParentsTopologyMismatch(t *testing.T) {
	rng := neural.NewRand(42)
	first := NewAgent(1, rng, testWorld, testShape, 1000)
	other := testShape
	other.LayerWidth = 8
	second := NewAgent(2, rng, testWorld, other, 1000)

	if _, err := FromParents(3, rng, first, second, 1000); !errors.Is(err, neural.ErrTopologyMismatch) {
		t.Errorf("error = %v, want ErrTopologyMismatch", err)
	}
}

func TestInRange(t *testing.T) {
	a := &Agent{X: 0, Y: 0}
	if !a.InRange(30, 39, 2500) {
		t.Error("point at distance ~49.2 should be in range")
	}
	if a.InRange(30, 40, 2500) {
		t.Error("point at distance exactly 50 should not be in range")
	}
}

func TestEnergyNodeDrain(t *testing.T) {
	n := EnergyNode{Remaining: 3}
	if got := n.Drain(2); got != 2 || n.Remaining != 1 {
		t.Errorf("Drain(2) = %d, remaining %d", got, n.Remaining)
	}
	if got := n.Drain(5); got != 1 || !n.Exhausted() {
		t.Errorf("Drain(5) = %d, remaining %d", got, n.Remaining)
	}
	if got := n.Drain(1); got != 0 {
		t.Errorf("Drain on empty node = %d", got)
	}
}
