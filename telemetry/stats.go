package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Counts at window end
	Population int `csv:"population"`
	Resources  int `csv:"resources"`
	Charging   int `csv:"charging"`

	// Events during window
	Births            int    `csv:"births"`
	FreshSpawns       int    `csv:"fresh_spawns"`
	DeathsStarved     int    `csv:"deaths_starved"`
	DeathsOutOfBounds int    `csv:"deaths_out_of_bounds"`
	EnergyTransferred uint64 `csv:"energy_transferred"`
	NodesRemoved      int    `csv:"nodes_removed"`
	NodesSpawned      int    `csv:"nodes_spawned"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage
	MaxGeneration  uint32  `csv:"max_generation"`
	MeanGeneration float64 `csv:"mean_generation"`

	// Lifespan of agents that died during the window, in ticks
	MeanLifespan float64 `csv:"mean_lifespan"`
	MaxLifespan  float64 `csv:"max_lifespan"`
}

// Deaths returns the number of deaths in the window.
func (s WindowStats) Deaths() int {
	return s.DeathsStarved + s.DeathsOutOfBounds
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// EnergyStats summarises an energy distribution.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeEnergyStats calculates mean, sample standard deviation and
// percentiles. Fewer than two values give a zero deviation.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	var es EnergyStats
	if n == 1 {
		es.Mean = values[0]
	} else {
		es.Mean, es.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	es.P10 = Percentile(sorted, 0.10)
	es.P50 = Percentile(sorted, 0.50)
	es.P90 = Percentile(sorted, 0.90)
	return es
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("resources", s.Resources),
		slog.Int("charging", s.Charging),
		slog.Int("births", s.Births),
		slog.Int("fresh_spawns", s.FreshSpawns),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_out_of_bounds", s.DeathsOutOfBounds),
		slog.Uint64("energy_transferred", s.EnergyTransferred),
		slog.Int("nodes_removed", s.NodesRemoved),
		slog.Int("nodes_spawned", s.NodesSpawned),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Any("max_generation", s.MaxGeneration),
		slog.Float64("mean_generation", s.MeanGeneration),
		slog.Float64("mean_lifespan", s.MeanLifespan),
		slog.Float64("max_lifespan", s.MaxLifespan),
	)
}

// LogStats logs the window stats using the given logger.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats", "run_id", s.RunID, "window", s)
}
