package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseThink)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseContention)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseThink] <= 0 {
		t.Error("expected think phase to be tracked")
	}
	if stats.PhaseAvg[PhaseContention] <= 0 {
		t.Error("expected contention phase to be tracked")
	}
	if stats.PhaseAvg[PhaseReproduction] != 0 {
		t.Error("reproduction phase never ran")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLiveness)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseResources)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseThink)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseThink] <= stats.PhasePct[PhaseResources] {
		t.Errorf("expected think (%v%%) > resources (%v%%)",
			stats.PhasePct[PhaseThink], stats.PhasePct[PhaseResources])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero stats for empty collector")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseThink.String() != "think" || PhaseTelemetry.String() != "telemetry" {
		t.Error("unexpected phase names")
	}
	if Phase(200).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}
