package game

import (
	"fmt"

	"github.com/pthm-cable/evosoup/components"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/systems"
)

// populate creates the initial agents and energy nodes.
func (s *Simulation) populate(rng neural.RNG) {
	for range s.cfg.Population.Initial {
		s.spawnFresh(rng)
	}
	for range s.cfg.Resources.Initial {
		s.spawnNode(rng)
	}
}

// spawnFresh appends an agent with a random network, position and heading.
func (s *Simulation) spawnFresh(rng neural.RNG) *components.Agent {
	a := components.NewAgent(s.NextID, rng, s.cfg.Derived.World, s.cfg.Derived.Brain, s.cfg.Energy.Initial)
	s.NextID++
	s.Agents = append(s.Agents, a)
	s.lifetime.RegisterFresh(a.ID, s.report.Tick, a.Energy)
	return a
}

func (s *Simulation) spawnNode(rng neural.RNG) {
	s.Resources = append(s.Resources, components.NewEnergyNode(rng, s.cfg.Derived.World, s.cfg.Resources.InitialCharge))
}

// cull removes dead agents, recording them in the tick report.
func (s *Simulation) cull() {
	s.Agents, s.report.Deaths = systems.Cull(s.Agents, s.cfg.Derived.World, s.report.Deaths)
}

// reproduce adds at most one agent while the population is below target.
// With two or fewer agents left, the newcomer is fresh; otherwise the
// strongest agent breeds with its nearest neighbour.
func (s *Simulation) reproduce(rng neural.RNG) error {
	if len(s.Agents) >= s.cfg.Population.Target {
		return nil
	}

	if len(s.Agents) <= 2 {
		s.birth = Birth{Agent: s.spawnFresh(rng)}
		s.report.Born = &s.birth
		return nil
	}

	first, second, _ := systems.SelectParents(s.Agents)
	id := s.NextID
	child, err := components.FromParents(id, rng, first, second, s.cfg.Energy.Initial)
	if err != nil {
		return fmt.Errorf("breeding agent %d from %d and %d: %w", id, first.ID, second.ID, err)
	}
	s.NextID++
	s.Agents = append(s.Agents, child)
	s.Generation = max(s.Generation, child.Generation)
	s.lifetime.RegisterChild(child.ID, s.report.Tick, child.Generation, child.Energy, first.ID, second.ID)

	s.birth = Birth{Agent: child, First: first, Second: second}
	s.report.Born = &s.birth
	return nil
}

// upkeepResources decays nodes, drops exhausted ones and tops the list up by one.
func (s *Simulation) upkeepResources(rng neural.RNG) {
	rc := s.cfg.Resources
	s.report.NodesDecayed = systems.DecayNodes(s.Resources, rc.DecayPerTick)

	before := len(s.Resources)
	s.Resources = systems.CompactNodes(s.Resources)
	s.report.NodesRemoved = before - len(s.Resources)

	if len(s.Resources) < rc.Target {
		s.spawnNode(rng)
		s.report.NodesSpawned = 1
	}
}
