// Package components defines the agents, energy nodes and world bounds the
// simulation operates on.
package components

import "github.com/pthm-cable/evosoup/neural"

// Agent binds a network to an embodied actor.
type Agent struct {
	ID         uint32
	Network    *neural.Network
	X, Y       float32
	Facing     float32 // radians
	Energy     uint32
	IsCharging bool

	Age        uint32 // ticks survived
	Generation uint32 // 0 for fresh agents, parents' max + 1 for children
}

// NewAgent creates an agent with a fresh random network at a random position
// and heading. The caller guarantees id is unique within its simulation.
func NewAgent(id uint32, rng neural.RNG, world World, shape BrainShape, energy uint32) *Agent {
	network := neural.NewRandomNetwork(rng, shape.Inputs, shape.LayerWidth, shape.HiddenLayers, shape.Outputs, shape.Mode)
	x, y := world.RandomPoint(rng)
	return &Agent{
		ID:      id,
		Network: network,
		X:       x,
		Y:       y,
		Facing:  RandomHeading(rng),
		Energy:  energy,
	}
}

// FromParents breeds a child from two parents. The position is the
// energy-weighted mean of the parents' positions, which lies between their
// midpoint and the higher-energy parent.
func FromParents(id uint32, rng neural.RNG, first, second *Agent, energy uint32) (*Agent, error) {
	network, err := neural.Merge(rng, first.Network, second.Network)
	if err != nil {
		return nil, err
	}
	x, y := interpolate(first, second)
	return &Agent{
		ID:         id,
		Network:    network,
		X:          x,
		Y:          y,
		Facing:     RandomHeading(rng),
		Energy:     energy,
		Generation: max(first.Generation, second.Generation) + 1,
	}, nil
}

func interpolate(first, second *Agent) (x, y float32) {
	total := float32(first.Energy) + float32(second.Energy)
	if total == 0 {
		return (first.X + second.X) / 2, (first.Y + second.Y) / 2
	}
	w := float32(first.Energy) / total
	return second.X + (first.X-second.X)*w, second.Y + (first.Y-second.Y)*w
}

// Run evaluates the agent's network on a sensor vector.
func (a *Agent) Run(values []float32) error {
	return a.Network.Run(values)
}

// DistanceSq returns the squared distance to another agent.
func (a *Agent) DistanceSq(other *Agent) float32 {
	return DistanceSq(a.X, a.Y, other.X, other.Y)
}

// InRange reports whether (x, y) is strictly closer than sqrt(radiusSq).
func (a *Agent) InRange(x, y, radiusSq float32) bool {
	return DistanceSq(a.X, a.Y, x, y) < radiusSq
}

// IsAlive reports whether the agent has energy left and is inside the world margin.
func (a *Agent) IsAlive(world World) bool {
	return a.Energy > 0 && world.Contains(a.X, a.Y)
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}
