package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/evosoup/neural"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Population.Initial != 15 || cfg.Resources.Initial != 15 {
		t.Errorf("population/resources = %d/%d, want 15/15", cfg.Population.Initial, cfg.Resources.Initial)
	}
	if cfg.Energy.Initial != 1000 {
		t.Errorf("energy.initial = %d, want 1000", cfg.Energy.Initial)
	}

	d := cfg.Derived
	if d.World.Width != 800 || d.World.Height != 600 || d.World.Margin != 25 {
		t.Errorf("derived world = %+v", d.World)
	}
	if d.CaptureRadiusSq != 2500 {
		t.Errorf("capture radius squared = %v, want 2500", d.CaptureRadiusSq)
	}
	if d.PairSlots != 3 {
		t.Errorf("pair slots = %d, want 3", d.PairSlots)
	}
	if d.Brain.Inputs != 10 || d.Brain.LayerWidth != 20 || d.Brain.HiddenLayers != 3 || d.Brain.Outputs != 3 {
		t.Errorf("brain shape = %+v", d.Brain)
	}
	if d.Brain.Mode != neural.EvalRaw {
		t.Errorf("eval mode = %v, want raw", d.Brain.Mode)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := `
population:
  initial: 40
neural:
  inputs: 14
  eval_mode: clamped
`
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Population.Initial != 40 {
		t.Errorf("population.initial = %d, want 40", cfg.Population.Initial)
	}
	// Untouched fields keep their defaults.
	if cfg.Population.Target != 15 {
		t.Errorf("population.target = %d, want 15", cfg.Population.Target)
	}
	if cfg.Derived.PairSlots != 5 {
		t.Errorf("pair slots = %d, want 5", cfg.Derived.PairSlots)
	}
	if cfg.Derived.Brain.Mode != neural.EvalClampedContribution {
		t.Errorf("eval mode = %v, want clamped", cfg.Derived.Brain.Mode)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("missing file: err = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("world: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("bad yaml: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"narrow inputs", func(c *Config) { c.Neural.Inputs = 3 }, "inputs must be at least 4"},
		{"zero layer width", func(c *Config) { c.Neural.LayerWidth = 0 }, "layer_width"},
		{"one output", func(c *Config) { c.Neural.Outputs = 1 }, "outputs must be at least"},
		{"zero world", func(c *Config) { c.World.Width = 0 }, "world: size"},
		{"zero population target", func(c *Config) { c.Population.Target = 0 }, "population: target"},
		{"zero resource target", func(c *Config) { c.Resources.Target = 0 }, "resources: target"},
		{"unknown eval mode", func(c *Config) { c.Neural.EvalMode = "tanh" }, "neural:"},
		{"zero window", func(c *Config) { c.Telemetry.WindowTicks = 0 }, "window_ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Finalize()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Neural.Inputs = 1
	cfg.Resources.CaptureRadius = 0
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "inputs") || !strings.Contains(msg, "capture_radius") {
		t.Errorf("joined error missing a field: %q", msg)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	clone := cfg.Clone()
	clone.Movement.Speed = 3
	if err := clone.Finalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.Movement.Speed != 1 || cfg.Derived.Motion.Speed != 1 {
		t.Errorf("original changed: speed %v, derived %v", cfg.Movement.Speed, cfg.Derived.Motion.Speed)
	}
	if clone.Derived.Motion.Speed != 3 {
		t.Errorf("clone derived speed = %v, want 3", clone.Derived.Motion.Speed)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resources.TransferPerTick = 4
	cfg.Sim.Parallel = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Resources.TransferPerTick != 4 || !loaded.Sim.Parallel {
		t.Errorf("round trip lost values: %+v %+v", loaded.Resources, loaded.Sim)
	}
	if loaded.Derived.Feeding.TransferPerTick != 4 {
		t.Errorf("derived transfer = %d, want 4", loaded.Derived.Feeding.TransferPerTick)
	}
}
