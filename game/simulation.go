// Package game runs the simulation: agents sense energy nodes, evaluate their
// networks, move, charge or starve, and are replaced by offspring of the
// strongest survivors.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/evosoup/components"
	"github.com/pthm-cable/evosoup/config"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/systems"
	"github.com/pthm-cable/evosoup/telemetry"
)

// Birth describes the agent added during a tick.
type Birth struct {
	Agent *components.Agent
	// Parents; both nil for a fresh random agent.
	First, Second *components.Agent
}

// Fresh reports whether the agent was spawned at random rather than bred.
func (b *Birth) Fresh() bool {
	return b.First == nil
}

// TickReport summarises one tick. It is only valid until the next call to Step.
type TickReport struct {
	Tick              uint64
	Born              *Birth // nil when no agent was added
	Deaths            []systems.Death
	Charging          int
	EnergyTransferred uint64
	NodesDecayed      int // nodes emptied by decay this tick
	NodesRemoved      int // every exhausted node removed this tick
	NodesSpawned      int
}

func (r *TickReport) reset(tick uint64) {
	*r = TickReport{Tick: tick, Deaths: r.Deaths[:0]}
}

// Simulation holds the complete world state.
// It is not safe for concurrent use; the parallel worker pool is internal.
type Simulation struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	// Agents in population order: oldest first, IDs strictly increasing.
	Agents []*components.Agent
	// Resources in creation order.
	Resources []components.EnergyNode
	// NextID is the ID the next agent receives.
	NextID uint32
	// Tick counts completed updates since creation or the last Reset.
	Tick uint64
	// Generation is the deepest lineage bred so far.
	Generation uint32

	sensor   *systems.Sensor
	inputs   []float32
	parallel *parallelState

	report TickReport
	birth  Birth

	// Telemetry
	runID        string
	collector    *telemetry.Collector
	lifetime     *telemetry.LifetimeTracker
	bookmarks    *telemetry.BookmarkDetector
	perf         *telemetry.PerfCollector
	output       *telemetry.OutputManager
	deathRecords []telemetry.DeathRecord
}

// New creates a simulation from cfg and populates it using rng.
func New(cfg *config.Config, rng neural.RNG) (*Simulation, error) {
	return NewWithOptions(cfg, rng, Options{})
}

// NewWithOptions creates a simulation with explicit logging and output options.
func NewWithOptions(cfg *config.Config, rng neural.RNG, opts Options) (*Simulation, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = telemetry.NewRunID()
	}
	output, err := telemetry.NewOutputManager(opts.OutputDir, runID)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	s := &Simulation{
		cfg:       cfg,
		opts:      opts,
		logger:    opts.logger(),
		sensor:    systems.NewSensor(cfg.Derived.Sensors),
		inputs:    make([]float32, cfg.Neural.Inputs),
		runID:     runID,
		collector: telemetry.NewCollector(runID, cfg.Telemetry.WindowTicks),
		lifetime:  telemetry.NewLifetimeTracker(),
		bookmarks: telemetry.NewBookmarkDetector(10),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.WindowTicks),
		output:    output,
	}
	if cfg.Sim.Parallel {
		s.parallel = newParallelState(cfg.Derived.Sensors, cfg.Neural.Inputs)
	}

	s.populate(rng)
	s.logger.Info("simulation created",
		"run_id", runID,
		"agents", len(s.Agents),
		"resources", len(s.Resources),
		"eval_mode", cfg.Derived.Brain.Mode.String(),
		"parallel", cfg.Sim.Parallel,
	)
	return s, nil
}

// Update advances the simulation by one tick.
func (s *Simulation) Update(rng neural.RNG) error {
	_, err := s.Step(rng)
	return err
}

// Step advances the simulation by one tick and reports what happened:
//
//  1. every agent senses, evaluates its network, turns and moves
//  2. in population order, each agent drains the first eligible node or pays upkeep
//  3. dead and out-of-bounds agents are removed
//  4. below the population target, one agent is spawned or bred
//  5. nodes decay, exhausted nodes are removed and one may respawn
//
// An error aborts the tick and leaves the state partially updated.
func (s *Simulation) Step(rng neural.RNG) (*TickReport, error) {
	tick := s.Tick + 1
	s.report.reset(tick)
	s.perf.StartTick()
	defer s.perf.EndTick()

	s.perf.StartPhase(telemetry.PhaseThink)
	if err := s.think(); err != nil {
		return nil, fmt.Errorf("tick %d: %w", tick, err)
	}

	s.perf.StartPhase(telemetry.PhaseContention)
	s.contend()

	s.perf.StartPhase(telemetry.PhaseLiveness)
	s.cull()

	s.perf.StartPhase(telemetry.PhaseReproduction)
	if err := s.reproduce(rng); err != nil {
		return nil, fmt.Errorf("tick %d: %w", tick, err)
	}

	s.perf.StartPhase(telemetry.PhaseResources)
	s.upkeepResources(rng)

	s.Tick = tick

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.recordTelemetry()

	return &s.report, nil
}

// think runs step 1 for every agent, on the worker pool when enabled.
func (s *Simulation) think() error {
	if s.parallel != nil && len(s.Agents) >= s.cfg.Sim.ParallelThreshold {
		return s.thinkParallel()
	}
	return s.thinkRange(0, len(s.Agents), s.sensor, s.inputs)
}

// thinkRange senses, evaluates and actuates agents[start:end]. It reads only
// node positions and writes only the agents in range.
func (s *Simulation) thinkRange(start, end int, sensor *systems.Sensor, inputs []float32) error {
	motion := s.cfg.Derived.Motion
	for _, a := range s.Agents[start:end] {
		sensor.Sense(inputs, a, s.Resources)
		if err := a.Run(inputs); err != nil {
			return fmt.Errorf("agent %d: %w", a.ID, err)
		}
		systems.Actuate(a, motion)
		a.Age++
	}
	return nil
}

// contend resolves node contention sequentially in population order.
func (s *Simulation) contend() {
	params := s.cfg.Derived.Feeding
	for _, a := range s.Agents {
		res := systems.Feed(a, s.Resources, params)
		if res.Node >= 0 {
			s.report.Charging++
			s.report.EnergyTransferred += uint64(res.Transferred)
			s.lifetime.RecordCharge(a.ID, res.Transferred)
		}
		s.lifetime.UpdateEnergy(a.ID, a.Energy)
	}
}

// Reset discards all state and repopulates from the same config.
func (s *Simulation) Reset(rng neural.RNG) {
	clear(s.Agents)
	s.Agents = s.Agents[:0]
	s.Resources = s.Resources[:0]
	s.NextID = 0
	s.Tick = 0
	s.Generation = 0
	s.report.reset(0)

	if err := s.flushDeaths(); err != nil {
		s.logger.Error("failed to write deaths", "error", err)
	}
	s.lifetime.Clear()
	s.collector.Reset(0)
	s.bookmarks = telemetry.NewBookmarkDetector(10)

	s.populate(rng)
	s.logger.Info("simulation reset", "run_id", s.runID, "agents", len(s.Agents))
}

// Close stops the worker pool and flushes output files.
func (s *Simulation) Close() error {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
	return errors.Join(s.flushDeaths(), s.output.Close())
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// RunID returns the identifier stamped into telemetry output.
func (s *Simulation) RunID() string {
	return s.runID
}

// Perf returns timing statistics over the recent ticks.
func (s *Simulation) Perf() telemetry.PerfStats {
	return s.perf.Stats()
}

// RecordFrame marks a rendered frame for FPS tracking.
func (s *Simulation) RecordFrame() {
	s.perf.RecordFrame()
}
