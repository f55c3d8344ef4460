package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evosoup/config"
	"github.com/pthm-cable/evosoup/game"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastSpan    float64 // mean lifespan from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastLifespan returns the mean lifespan from the most recent evaluation.
func (fe *FitnessEvaluator) LastLifespan() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSpan
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	survivors   []float64               // ages of agents alive at the end
	err         error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	lifespan float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean lifespan, so longer-lived agents win.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.configFor(x)
	if err != nil {
		slog.Warn("rejecting parameters", "error", err)
		return math.Inf(1)
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(cfg.Clone(), s)
			if result.err != nil {
				slog.Warn("evaluation run failed", "seed", s, "error", result.err)
				results[idx] = seedResult{fitness: math.Inf(1)}
				return
			}
			span := meanLifespan(result)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:  computeFitness(span, quality),
				quality:  quality,
				lifespan: span,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSpan float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalSpan += r.lifespan
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSpan = totalSpan / n
	fe.mu.Unlock()

	return totalFitness / n
}

// configFor clones the base config and applies x.
func (fe *FitnessEvaluator) configFor(x []float64) (*config.Config, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("applying parameters: %w", err)
	}
	return cfg, nil
}

// runSimulation executes a single headless simulation run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	rng := neural.NewRand(seed)
	sim, err := game.NewWithOptions(cfg, rng, game.Options{
		Logger: slog.New(slog.DiscardHandler),
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer sim.Close()

	for sim.Tick < fe.maxTicks {
		if err := sim.Update(rng); err != nil {
			result.err = fmt.Errorf("tick %d: %w", sim.Tick, err)
			return result
		}
	}

	for _, a := range sim.Agents {
		result.survivors = append(result.survivors, float64(a.Age))
	}
	return result
}

// meanLifespan averages the windowed death lifespans, weighted by deaths,
// together with the ages of agents still alive at the end. Survivor ages
// undercount their lifespans, which only penalizes configs where nothing dies.
func meanLifespan(r *runResult) float64 {
	var values, weights []float64
	for _, w := range r.windowStats {
		if d := w.Deaths(); d > 0 {
			values = append(values, w.MeanLifespan)
			weights = append(weights, float64(d))
		}
	}
	for _, age := range r.survivors {
		values = append(values, age)
		weights = append(weights, 1)
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(lifespan × (1.0 + 0.2 × quality))
// Lifespan dominates; quality adds up to 20% bonus.
func computeFitness(lifespan, quality float64) float64 {
	return -(lifespan * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightBred      = 0.4
	qualityWeightCharging  = 0.4
	qualityWeightStability = 0.2

	qualityWarmupWindows = 1 // skip first N windows
)

// computeQuality scores a run in [0, 1] by how much of the population is
// bred rather than freshly spawned, how much of it is charging, and how
// steady the population stays.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var bred, births float64
	charging := make([]float64, 0, len(valid))
	population := make([]float64, 0, len(valid))

	for _, w := range valid {
		births += float64(w.Births)
		bred += float64(w.Births - w.FreshSpawns)
		if w.Population > 0 {
			charging = append(charging, float64(w.Charging)/float64(w.Population))
		}
		population = append(population, float64(w.Population))
	}

	bredScore := 0.0
	if births > 0 {
		bredScore = bred / births
	}

	chargingScore := 0.0
	if len(charging) > 0 {
		chargingScore = stat.Mean(charging, nil)
	}

	stabilityScore := 0.0
	if len(population) >= 2 {
		c := cv(population)
		stabilityScore = math.Exp(-c * c)
	}

	quality := qualityWeightBred*bredScore +
		qualityWeightCharging*chargingScore +
		qualityWeightStability*stabilityScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
