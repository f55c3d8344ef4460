package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/evosoup/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	runID := NewRunID()
	if _, err := uuid.Parse(runID); err != nil {
		t.Fatalf("run id %q: %v", runID, err)
	}

	om, err := NewOutputManager(dir, runID)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{RunID: runID, WindowEndTick: uint64(i * 100), Population: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteDeaths([]DeathRecord{{RunID: runID, AgentID: 4, Cause: "starved"}, {RunID: runID, AgentID: 9, Cause: "out_of_bounds"}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteDeaths(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 300); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var rows []WindowStats
	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("telemetry rows = %d, want 3 (one header)", len(rows))
	}
	if rows[2].WindowEndTick != 300 || rows[2].Population != 3 || rows[2].RunID != runID {
		t.Errorf("last row = %+v", rows[2])
	}

	data, err := os.ReadFile(filepath.Join(dir, "deaths.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "run_id,tick,agent_id,cause") {
		t.Errorf("deaths.csv = %q", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}
