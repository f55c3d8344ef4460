// Package telemetry provides population health tracking, bookmarking and CSV output.
package telemetry

import "github.com/pthm-cable/evosoup/systems"

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	RunID         string  `csv:"run_id"`
	Tick          uint64  `csv:"tick"`
	AgentID       uint32  `csv:"agent_id"`
	Cause         string  `csv:"cause"`
	Generation    uint32  `csv:"generation"`
	Age           uint32  `csv:"age"`
	Fresh         bool    `csv:"fresh"`
	Children      int     `csv:"children"`
	PeakEnergy    uint32  `csv:"peak_energy"`
	TotalCharged  uint64  `csv:"total_charged"`
	TicksCharging uint32  `csv:"ticks_charging"`
	FinalX        float32 `csv:"final_x"`
	FinalY        float32 `csv:"final_y"`
}

// NewDeathRecord builds a death row from the removed agent and its lifetime
// stats, which may be nil for agents that were never registered.
func NewDeathRecord(runID string, tick uint64, death systems.Death, lifetime *LifetimeStats) DeathRecord {
	a := death.Agent
	rec := DeathRecord{
		RunID:      runID,
		Tick:       tick,
		AgentID:    a.ID,
		Cause:      death.Cause.String(),
		Generation: a.Generation,
		Age:        a.Age,
		FinalX:     a.X,
		FinalY:     a.Y,
	}
	if lifetime != nil {
		rec.Fresh = lifetime.Fresh
		rec.Children = lifetime.Children
		rec.PeakEnergy = lifetime.PeakEnergy
		rec.TotalCharged = lifetime.TotalCharged
		rec.TicksCharging = lifetime.TicksCharging
	}
	return rec
}

