package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/evosoup/systems"
)

// Sample is the population state observed at the end of a window.
type Sample struct {
	Population  int
	Resources   int
	Charging    int
	Energies    []float64
	Generations []float64
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	runID       string
	windowTicks uint64

	windowStartTick uint64

	// Event counters for current window
	births            int
	freshSpawns       int
	deathsStarved     int
	deathsOutOfBounds int
	energyTransferred uint64
	nodesRemoved      int
	nodesSpawned      int
	lifespans         []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(runID string, windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		runID:       runID,
		windowTicks: uint64(windowTicks),
	}
}

// RecordBirth records a new agent; fresh marks a random spawn rather than a
// bred child.
func (c *Collector) RecordBirth(fresh bool) {
	c.births++
	if fresh {
		c.freshSpawns++
	}
}

// RecordDeath records a removed agent and its age in ticks.
func (c *Collector) RecordDeath(cause systems.DeathCause, age uint32) {
	switch cause {
	case systems.DeathStarved:
		c.deathsStarved++
	case systems.DeathOutOfBounds:
		c.deathsOutOfBounds++
	}
	c.lifespans = append(c.lifespans, float64(age))
}

// RecordTransfer records energy moved from nodes to agents.
func (c *Collector) RecordTransfer(amount uint64) {
	c.energyTransferred += amount
}

// RecordNodes records node turnover for one tick.
func (c *Collector) RecordNodes(removed, spawned int) {
	c.nodesRemoved += removed
	c.nodesSpawned += spawned
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, sample Sample) WindowStats {
	energy := ComputeEnergyStats(sample.Energies)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: sample.Population,
		Resources:  sample.Resources,
		Charging:   sample.Charging,

		Births:            c.births,
		FreshSpawns:       c.freshSpawns,
		DeathsStarved:     c.deathsStarved,
		DeathsOutOfBounds: c.deathsOutOfBounds,
		EnergyTransferred: c.energyTransferred,
		NodesRemoved:      c.nodesRemoved,
		NodesSpawned:      c.nodesSpawned,

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,
	}

	if len(sample.Generations) > 0 {
		stats.MaxGeneration = uint32(floats.Max(sample.Generations))
		stats.MeanGeneration = floats.Sum(sample.Generations) / float64(len(sample.Generations))
	}
	if len(c.lifespans) > 0 {
		stats.MeanLifespan = floats.Sum(c.lifespans) / float64(len(c.lifespans))
		stats.MaxLifespan = floats.Max(c.lifespans)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.freshSpawns = 0
	c.deathsStarved = 0
	c.deathsOutOfBounds = 0
	c.energyTransferred = 0
	c.nodesRemoved = 0
	c.nodesSpawned = 0
	c.lifespans = c.lifespans[:0]

	return stats
}

// Reset discards the current window, starting a new one at tick.
func (c *Collector) Reset(tick uint64) {
	c.Flush(tick, Sample{})
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}

// RunID returns the identifier stamped into every window.
func (c *Collector) RunID() string {
	return c.runID
}
