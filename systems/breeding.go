package systems

import (
	"math"

	"github.com/pthm-cable/evosoup/components"
)

// DeathCause records why an agent was removed.
type DeathCause uint8

const (
	DeathStarved DeathCause = iota
	DeathOutOfBounds
)

// String returns a short label for logs and CSV output.
func (c DeathCause) String() string {
	switch c {
	case DeathStarved:
		return "starved"
	case DeathOutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// Death describes a removed agent.
type Death struct {
	Agent *components.Agent
	Cause DeathCause
}

// Cull removes agents that fail the liveness check, preserving the order of
// survivors. Removed agents are appended to deaths, which is returned.
func Cull(agents []*components.Agent, world components.World, deaths []Death) ([]*components.Agent, []Death) {
	kept := agents[:0]
	for _, a := range agents {
		switch {
		case a.Energy == 0:
			deaths = append(deaths, Death{Agent: a, Cause: DeathStarved})
		case !world.Contains(a.X, a.Y):
			deaths = append(deaths, Death{Agent: a, Cause: DeathOutOfBounds})
		default:
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(agents); i++ {
		agents[i] = nil
	}
	return kept, deaths
}

// Strongest returns the index of the agent with the most energy; the first
// one encountered wins ties. Returns -1 for an empty population.
func Strongest(agents []*components.Agent) int {
	best := -1
	for i, a := range agents {
		if best < 0 || a.Energy > agents[best].Energy {
			best = i
		}
	}
	return best
}

// Nearest returns the index of the agent closest to agents[from], excluding
// from itself; the first one encountered wins ties. Returns -1 when no other
// agent exists.
func Nearest(agents []*components.Agent, from int) int {
	best := -1
	bestDist := float32(math.Inf(1))
	origin := agents[from]
	for i, a := range agents {
		if i == from {
			continue
		}
		d := origin.DistanceSq(a)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// SelectParents picks the highest-energy agent and its nearest neighbour.
// ok is false when fewer than two agents exist.
func SelectParents(agents []*components.Agent) (first, second *components.Agent, ok bool) {
	i := Strongest(agents)
	if i < 0 {
		return nil, nil, false
	}
	j := Nearest(agents, i)
	if j < 0 {
		return nil, nil, false
	}
	return agents[i], agents[j], true
}
