package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/evosoup/components"
)

const inputWidth = 10

var testParams = SensorParams{
	World:         components.World{Width: 800, Height: 600, Margin: 25},
	DistanceScale: 320000,
}

func TestSensePosition(t *testing.T) {
	tests := []struct {
		x, y  float32
		wantX float32
		wantY float32
	}{
		{-25, -25, -1, -1},
		{825, -25, 1, -1},
		{-25, 625, -1, 1},
		{825, 625, 1, 1},
		{400, 300, 0, 0},
	}

	for _, tt := range tests {
		agent := &components.Agent{X: tt.x, Y: tt.y}
		got := SenseInputs(inputWidth, agent, nil, testParams)
		if got[SlotX] != tt.wantX || got[SlotY] != tt.wantY {
			t.Errorf("agent at (%v,%v): slots = (%v,%v), want (%v,%v)",
				tt.x, tt.y, got[SlotX], got[SlotY], tt.wantX, tt.wantY)
		}
	}
}

func TestSenseChargingAndFacing(t *testing.T) {
	agent := &components.Agent{X: 400, Y: 300, IsCharging: true, Facing: math.Pi / 2}
	got := SenseInputs(inputWidth, agent, nil, testParams)
	if got[SlotCharging] != 1 {
		t.Errorf("charging slot = %v, want 1", got[SlotCharging])
	}
	if math.Abs(float64(got[SlotFacing])-0.5) > 1e-6 {
		t.Errorf("facing slot = %v, want 0.5", got[SlotFacing])
	}

	agent.IsCharging = false
	agent.Facing = 3 * math.Pi / 2 // wraps to -π/2
	got = SenseInputs(inputWidth, agent, nil, testParams)
	if got[SlotCharging] != -1 {
		t.Errorf("charging slot = %v, want -1", got[SlotCharging])
	}
	if math.Abs(float64(got[SlotFacing])+0.5) > 1e-6 {
		t.Errorf("facing slot = %v, want -0.5", got[SlotFacing])
	}
}

func TestSenseEnergyNodeBearing(t *testing.T) {
	agent := &components.Agent{X: 300, Y: 300, Facing: 0}
	bearingSlot := SelfSlots
	distSlot := SelfSlots + 1

	tests := []struct {
		name        string
		node        components.EnergyNode
		wantBearing float32
	}{
		{"ahead", components.EnergyNode{X: 600, Y: 300}, 0},
		{"below", components.EnergyNode{X: 300, Y: 600}, 0.5},
		{"above", components.EnergyNode{X: 300, Y: 0}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SenseInputs(inputWidth, agent, []components.EnergyNode{tt.node}, testParams)
			if got[bearingSlot] != tt.wantBearing {
				t.Errorf("bearing = %v, want %v", got[bearingSlot], tt.wantBearing)
			}
			if got[distSlot] != -0.71875 {
				t.Errorf("distance = %v, want -0.71875", got[distSlot])
			}
		})
	}

	behind := SenseInputs(inputWidth, agent, []components.EnergyNode{{X: 0, Y: 300}}, testParams)
	if b := behind[bearingSlot]; b != 1 && b != -1 {
		t.Errorf("bearing behind = %v, want ±1", b)
	}
}

func TestSenseNearestFirst(t *testing.T) {
	agent := &components.Agent{X: 300, Y: 300, Facing: 0}
	// Deliberately out of distance order.
	nodes := []components.EnergyNode{
		{X: 300, Y: 800},
		{X: 300, Y: 600},
		{X: 300, Y: 700},
	}

	got := SenseInputs(inputWidth, agent, nodes, testParams)
	want := []float32{0.5, -0.71875, 0.5, -0.5, 0.5, -0.21875}
	for i, w := range want {
		if got[SelfSlots+i] != w {
			t.Errorf("slot %d = %v, want %v", SelfSlots+i, got[SelfSlots+i], w)
		}
	}
}

func TestSenseFewerNodesThanSlots(t *testing.T) {
	agent := &components.Agent{X: 300, Y: 300}
	got := SenseInputs(inputWidth, agent, []components.EnergyNode{{X: 600, Y: 300}}, testParams)
	for slot := SelfSlots + 2; slot < inputWidth; slot++ {
		if got[slot] != 0 {
			t.Errorf("slot %d = %v, want 0", slot, got[slot])
		}
	}
}

func TestSenseOnlyNearestFit(t *testing.T) {
	agent := &components.Agent{X: 0, Y: 0}
	nodes := make([]components.EnergyNode, 6)
	for i := range nodes {
		nodes[i] = components.EnergyNode{X: float32(100 * (6 - i)), Y: 0}
	}

	got := SenseInputs(inputWidth, agent, nodes, testParams)
	// nearest three: 100, 200, 300
	for p, d := range []float32{100, 200, 300} {
		want := d*d/testParams.DistanceScale - 1
		if got[SelfSlots+2*p+1] != want {
			t.Errorf("pair %d distance = %v, want %v", p, got[SelfSlots+2*p+1], want)
		}
	}
}

func TestSenseIsPure(t *testing.T) {
	agent := &components.Agent{X: 123, Y: 456, Facing: 1.5, Energy: 77}
	nodes := []components.EnergyNode{{X: 10, Y: 10, Remaining: 5}, {X: 700, Y: 20, Remaining: 9}}
	snapshotAgent := *agent
	snapshotNodes := append([]components.EnergyNode(nil), nodes...)

	sensor := NewSensor(testParams)
	first := make([]float32, inputWidth)
	second := make([]float32, inputWidth)
	sensor.Sense(first, agent, nodes)
	sensor.Sense(second, agent, nodes)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d: %v then %v", i, first[i], second[i])
		}
	}
	if *agent != snapshotAgent {
		t.Error("Sense modified the agent")
	}
	for i := range nodes {
		if nodes[i] != snapshotNodes[i] {
			t.Errorf("Sense modified node %d", i)
		}
	}
}

func TestPairSlots(t *testing.T) {
	tests := []struct{ width, want int }{
		{0, 0}, {4, 0}, {5, 0}, {6, 1}, {10, 3}, {11, 3},
	}
	for _, tt := range tests {
		if got := PairSlots(tt.width); got != tt.want {
			t.Errorf("PairSlots(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}
