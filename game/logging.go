package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/evosoup/systems"
)

// logBirth logs a spawned or bred agent at debug level.
func (s *Simulation) logBirth(b *Birth) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	a := b.Agent
	if b.Fresh() {
		s.logger.Debug("spawn",
			"tick", s.Tick,
			"agent", a.ID,
			"x", a.X,
			"y", a.Y,
		)
		return
	}
	s.logger.Debug("birth",
		"tick", s.Tick,
		"agent", a.ID,
		"generation", a.Generation,
		"first_parent", b.First.ID,
		"second_parent", b.Second.ID,
		"x", a.X,
		"y", a.Y,
	)
}

// logDeath logs a removed agent at debug level.
func (s *Simulation) logDeath(d systems.Death) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.logger.Debug("death",
		"tick", s.Tick,
		"agent", d.Agent.ID,
		"cause", d.Cause.String(),
		"age", d.Agent.Age,
		"generation", d.Agent.Generation,
		"x", d.Agent.X,
		"y", d.Agent.Y,
	)
}

// logWorldState logs a summary of the current world.
func (s *Simulation) logWorldState() {
	var agentEnergy, nodeEnergy uint64
	var charging int
	var minEnergy, maxEnergy uint32
	for i, a := range s.Agents {
		agentEnergy += uint64(a.Energy)
		if a.IsCharging {
			charging++
		}
		if i == 0 || a.Energy < minEnergy {
			minEnergy = a.Energy
		}
		maxEnergy = max(maxEnergy, a.Energy)
	}
	for _, n := range s.Resources {
		nodeEnergy += uint64(n.Remaining)
	}

	s.logger.Info("world",
		"tick", s.Tick,
		"agents", len(s.Agents),
		"charging", charging,
		"agent_energy", agentEnergy,
		"min_energy", minEnergy,
		"max_energy", maxEnergy,
		"resources", len(s.Resources),
		"node_energy", nodeEnergy,
		"generation", s.Generation,
		"next_id", s.NextID,
	)
}
