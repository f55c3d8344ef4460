package game

import (
	"github.com/pthm-cable/evosoup/telemetry"
)

// recordTelemetry feeds the tick report to the collector and flushes the
// window when due.
func (s *Simulation) recordTelemetry() {
	r := &s.report

	if r.Born != nil {
		s.collector.RecordBirth(r.Born.Fresh())
		s.logBirth(r.Born)
	}
	for _, d := range r.Deaths {
		lifetime := s.lifetime.Remove(d.Agent.ID)
		s.collector.RecordDeath(d.Cause, d.Agent.Age)
		if s.output != nil {
			s.deathRecords = append(s.deathRecords, telemetry.NewDeathRecord(s.runID, r.Tick, d, lifetime))
		}
		s.logDeath(d)
	}
	s.collector.RecordTransfer(r.EnergyTransferred)
	s.collector.RecordNodes(r.NodesRemoved, r.NodesSpawned)

	if s.collector.ShouldFlush(s.Tick) {
		s.flushTelemetry()
	}
}

// flushTelemetry closes the current stats window and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	stats := s.collector.Flush(s.Tick, s.sample())
	perfStats := s.perf.Stats()

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats(s.logger)
		s.logger.Info("perf", "tick", s.Tick, "perf", perfStats)
		s.logWorldState()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			s.logger.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
		if err := s.flushDeaths(); err != nil {
			s.logger.Error("failed to write deaths", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample collects the population state for the end of a window.
func (s *Simulation) sample() telemetry.Sample {
	smp := telemetry.Sample{
		Population:  len(s.Agents),
		Resources:   len(s.Resources),
		Energies:    make([]float64, 0, len(s.Agents)),
		Generations: make([]float64, 0, len(s.Agents)),
	}
	for _, a := range s.Agents {
		if a.IsCharging {
			smp.Charging++
		}
		smp.Energies = append(smp.Energies, float64(a.Energy))
		smp.Generations = append(smp.Generations, float64(a.Generation))
	}
	return smp
}

// flushDeaths writes buffered death records.
func (s *Simulation) flushDeaths() error {
	if len(s.deathRecords) == 0 {
		return nil
	}
	err := s.output.WriteDeaths(s.deathRecords)
	clear(s.deathRecords)
	s.deathRecords = s.deathRecords[:0]
	return err
}
