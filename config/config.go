// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/evosoup/components"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// Values are fixed for the lifetime of a simulation.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Resources  ResourcesConfig  `yaml:"resources"`
	Energy     EnergyConfig     `yaml:"energy"`
	Movement   MovementConfig   `yaml:"movement"`
	Neural     NeuralConfig     `yaml:"neural"`
	Sim        SimConfig        `yaml:"sim"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the world rectangle and sensing scale.
type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Margin        float64 `yaml:"margin"`         // out-of-bounds band around the rectangle
	DistanceScale float64 `yaml:"distance_scale"` // squared distance that senses as 0
}

// PopulationConfig holds agent population sizes.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Target  int `yaml:"target"` // one agent is bred per tick while below this
}

// ResourcesConfig holds energy node parameters.
type ResourcesConfig struct {
	Initial         int     `yaml:"initial"`
	Target          int     `yaml:"target"` // one node is spawned per tick while below this
	InitialCharge   uint32  `yaml:"initial_charge"`
	CaptureRadius   float64 `yaml:"capture_radius"`
	TransferPerTick uint32  `yaml:"transfer_per_tick"`
	DecayPerTick    uint32  `yaml:"decay_per_tick"`
}

// EnergyConfig holds agent energy parameters.
type EnergyConfig struct {
	Initial       uint32 `yaml:"initial"`
	UpkeepPerTick uint32 `yaml:"upkeep_per_tick"`
}

// MovementConfig holds actuation constants.
type MovementConfig struct {
	Speed       float64 `yaml:"speed"`
	TurnDamping float64 `yaml:"turn_damping"`
}

// NeuralConfig holds network topology.
type NeuralConfig struct {
	Inputs       int    `yaml:"inputs"`
	LayerWidth   int    `yaml:"layer_width"`
	HiddenLayers int    `yaml:"hidden_layers"`
	Outputs      int    `yaml:"outputs"`
	EvalMode     string `yaml:"eval_mode"` // raw | clamped
}

// SimConfig holds execution settings.
type SimConfig struct {
	Parallel          bool `yaml:"parallel"`
	ParallelThreshold int  `yaml:"parallel_threshold"` // minimum population to use workers
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	World           components.World
	Brain           components.BrainShape
	Sensors         systems.SensorParams
	Motion          systems.MotionParams
	Feeding         systems.FeedingParams
	CaptureRadiusSq float32
	PairSlots       int
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Defaults returns the embedded defaults with derived values computed.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it after modifying fields programmatically.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate reports every inconsistent value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.Width > 0 && c.World.Height > 0, "world: size must be positive, got %vx%v", c.World.Width, c.World.Height)
	check(c.World.Margin >= 0, "world: margin must not be negative, got %v", c.World.Margin)
	check(c.World.DistanceScale > 0, "world: distance_scale must be positive, got %v", c.World.DistanceScale)
	check(c.Population.Initial >= 0, "population: initial must not be negative, got %d", c.Population.Initial)
	check(c.Population.Target > 0, "population: target must be positive, got %d", c.Population.Target)
	check(c.Resources.Initial >= 0, "resources: initial must not be negative, got %d", c.Resources.Initial)
	check(c.Resources.Target > 0, "resources: target must be positive, got %d", c.Resources.Target)
	check(c.Resources.CaptureRadius > 0, "resources: capture_radius must be positive, got %v", c.Resources.CaptureRadius)
	check(c.Neural.Inputs >= systems.SelfSlots, "neural: inputs must be at least %d, got %d", systems.SelfSlots, c.Neural.Inputs)
	check(c.Neural.LayerWidth > 0, "neural: layer_width must be positive, got %d", c.Neural.LayerWidth)
	check(c.Neural.HiddenLayers >= 0, "neural: hidden_layers must not be negative, got %d", c.Neural.HiddenLayers)
	check(c.Neural.Outputs >= systems.MinOutputs, "neural: outputs must be at least %d, got %d", systems.MinOutputs, c.Neural.Outputs)
	if _, err := neural.ParseEvalMode(c.Neural.EvalMode); err != nil {
		errs = append(errs, fmt.Errorf("neural: %w", err))
	}
	check(c.Telemetry.WindowTicks > 0, "telemetry: window_ticks must be positive, got %d", c.Telemetry.WindowTicks)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	mode, err := neural.ParseEvalMode(c.Neural.EvalMode)
	if err != nil {
		return fmt.Errorf("neural: %w", err)
	}

	world := components.World{
		Width:  float32(c.World.Width),
		Height: float32(c.World.Height),
		Margin: float32(c.World.Margin),
	}
	radius := float32(c.Resources.CaptureRadius)

	c.Derived = DerivedConfig{
		World: world,
		Brain: components.BrainShape{
			Inputs:       c.Neural.Inputs,
			LayerWidth:   c.Neural.LayerWidth,
			HiddenLayers: c.Neural.HiddenLayers,
			Outputs:      c.Neural.Outputs,
			Mode:         mode,
		},
		Sensors: systems.SensorParams{
			World:         world,
			DistanceScale: float32(c.World.DistanceScale),
		},
		Motion: systems.MotionParams{
			Speed:       float32(c.Movement.Speed),
			TurnDamping: float32(c.Movement.TurnDamping),
		},
		Feeding: systems.FeedingParams{
			CaptureRadiusSq: radius * radius,
			TransferPerTick: c.Resources.TransferPerTick,
			UpkeepPerTick:   c.Energy.UpkeepPerTick,
		},
		CaptureRadiusSq: radius * radius,
		PairSlots:       systems.PairSlots(c.Neural.Inputs),
	}
	return nil
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
