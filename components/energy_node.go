package components

import "github.com/pthm-cable/evosoup/neural"

// EnergyNode is a depletable energy source at a fixed position.
type EnergyNode struct {
	X, Y      float32
	Remaining uint32
}

// NewEnergyNode places a node at a uniform random position in the world.
func NewEnergyNode(rng neural.RNG, world World, charge uint32) EnergyNode {
	x, y := world.RandomPoint(rng)
	return EnergyNode{X: x, Y: y, Remaining: charge}
}

// Drain removes up to amount from the node and returns what was removed.
func (n *EnergyNode) Drain(amount uint32) uint32 {
	if amount > n.Remaining {
		amount = n.Remaining
	}
	n.Remaining -= amount
	return amount
}

// Exhausted reports whether the node has nothing left.
func (n *EnergyNode) Exhausted() bool {
	return n.Remaining == 0
}
