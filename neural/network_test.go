package neural

import (
	"errors"
	"math"
	"testing"
)

func TestNewRandomNetworkShape(t *testing.T) {
	rng := NewRand(42)
	nn := NewRandomNetwork(rng, 10, 20, 3, 3, EvalRaw)

	want := []int{10, 20, 20, 20, 3}
	got := nn.Shape()
	if len(got) != len(want) {
		t.Fatalf("layer count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("layer %d width = %d, want %d", i, got[i], want[i])
		}
	}

	for i, node := range nn.Layers[0].Nodes {
		if len(node.Links) != 0 {
			t.Errorf("input node %d has %d links, want 0", i, len(node.Links))
		}
	}

	for li := 1; li < len(nn.Layers); li++ {
		prevWidth := nn.Layers[li-1].Width()
		for n, node := range nn.Layers[li].Nodes {
			if len(node.Links) != prevWidth {
				t.Fatalf("layer %d node %d has %d links, want %d", li, n, len(node.Links), prevWidth)
			}
			for k, link := range node.Links {
				if link.Target != k {
					t.Errorf("layer %d node %d link %d targets %d", li, n, k, link.Target)
				}
				if link.Factor < -1 || link.Factor >= 1 {
					t.Errorf("layer %d node %d link %d weight %f out of [-1,1)", li, n, k, link.Factor)
				}
			}
		}
	}

	if nn.LinkCount() != 10*20+20*20+20*20+20*3 {
		t.Errorf("LinkCount = %d", nn.LinkCount())
	}
}

func TestNewLinkedLayerZeroWeights(t *testing.T) {
	prev := NewInputLayer(4)
	layer := NewLinkedLayer(3, &prev)

	if layer.Width() != 3 {
		t.Fatalf("width = %d, want 3", layer.Width())
	}
	for n, node := range layer.Nodes {
		if len(node.Links) != 4 {
			t.Fatalf("node %d has %d links, want 4", n, len(node.Links))
		}
		for k, link := range node.Links {
			if link.Factor != 0 || link.Target != k {
				t.Errorf("node %d link %d = %+v, want {0 %d}", n, k, link, k)
			}
		}
	}
}

// handNetwork builds 2 -> 2 -> 1 with known weights.
func handNetwork(mode EvalMode) *Network {
	input := NewInputLayer(2)
	hidden := NewLinkedLayer(2, &input)
	hidden.Nodes[0].Links[0].Factor = 0.5
	hidden.Nodes[0].Links[1].Factor = -1
	hidden.Nodes[1].Links[0].Factor = 2
	hidden.Nodes[1].Links[1].Factor = 0.25
	output := NewLinkedLayer(1, &hidden)
	output.Nodes[0].Links[0].Factor = 1
	output.Nodes[0].Links[1].Factor = 0.5
	return &Network{Layers: []Layer{input, hidden, output}, Mode: mode}
}

func TestRunRawSum(t *testing.T) {
	nn := handNetwork(EvalRaw)
	if err := nn.Run([]float32{1, 2}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// hidden0 = 0.5*1 - 1*2 = -1.5, hidden1 = 2*1 + 0.25*2 = 2.5
	if got := nn.Layers[1].Nodes[0].Value; got != -1.5 {
		t.Errorf("hidden0 = %v, want -1.5", got)
	}
	if got := nn.Layers[1].Nodes[1].Value; got != 2.5 {
		t.Errorf("hidden1 = %v, want 2.5", got)
	}
	// out = -1.5 + 0.5*2.5 = -0.25
	if got := nn.Output(0); got != -0.25 {
		t.Errorf("output = %v, want -0.25", got)
	}
}

func TestRunClampedContribution(t *testing.T) {
	nn := handNetwork(EvalClampedContribution)
	if err := nn.Run([]float32{1, 2}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// hidden0 = 0.5 + clamp(-2) = -0.5, hidden1 = clamp(2) + 0.5 = 1.5
	if got := nn.Layers[1].Nodes[0].Value; got != -0.5 {
		t.Errorf("hidden0 = %v, want -0.5", got)
	}
	if got := nn.Layers[1].Nodes[1].Value; got != 1.5 {
		t.Errorf("hidden1 = %v, want 1.5", got)
	}
	// out = -0.5 + clamp(0.75) = 0.25
	if got := nn.Output(0); got != 0.25 {
		t.Errorf("output = %v, want 0.25", got)
	}
}

func TestRunShapeMismatch(t *testing.T) {
	nn := handNetwork(EvalRaw)
	nn.Layers[0].Nodes[0].Value = 7

	for _, values := range [][]float32{nil, {1}, {1, 2, 3}} {
		err := nn.Run(values)
		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("Run(%v) error = %v, want ErrShapeMismatch", values, err)
		}
	}
	if nn.Layers[0].Nodes[0].Value != 7 {
		t.Error("failed Run modified input layer")
	}
}

func TestRunFinite(t *testing.T) {
	rng := NewRand(7)
	for trial := 0; trial < 20; trial++ {
		nn := NewRandomNetwork(rng, 10, 20, 3, 3, EvalRaw)
		inputs := make([]float32, 10)
		for i := range inputs {
			inputs[i] = rng.UniformFloat(-1, 1)
		}
		if err := nn.Run(inputs); err != nil {
			t.Fatalf("Run: %v", err)
		}
		for i, v := range nn.Outputs() {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Errorf("trial %d output %d = %v, want finite", trial, i, v)
			}
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	nn := NewRandomNetwork(NewRand(42), 10, 20, 3, 3, EvalRaw)
	inputs := make([]float32, 10)
	for i := range inputs {
		inputs[i] = float32(i) / 10
	}

	if err := nn.Run(inputs); err != nil {
		t.Fatalf("Run: %v", err)
	}
	first := nn.Outputs()
	if err := nn.Run(inputs); err != nil {
		t.Fatalf("Run: %v", err)
	}
	second := nn.Outputs()

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("output %d: %v then %v", i, first[i], second[i])
		}
	}
}

func TestClone(t *testing.T) {
	nn := NewRandomNetwork(NewRand(42), 4, 5, 2, 2, EvalClampedContribution)
	clone := nn.Clone()

	if !clone.SameShape(nn) || clone.Mode != nn.Mode {
		t.Fatal("clone differs in shape or mode")
	}
	if clone.Layers[1].Nodes[0].Links[0] != nn.Layers[1].Nodes[0].Links[0] {
		t.Error("clone has different weights")
	}

	clone.Layers[1].Nodes[0].Links[0].Factor = 999
	if nn.Layers[1].Nodes[0].Links[0].Factor == 999 {
		t.Error("clone is not independent")
	}
}

func TestParseEvalMode(t *testing.T) {
	tests := []struct {
		in      string
		want    EvalMode
		wantErr bool
	}{
		{"", EvalRaw, false},
		{"raw", EvalRaw, false},
		{"Clamped", EvalClampedContribution, false},
		{"clamped-contribution", EvalClampedContribution, false},
		{"sigmoid", EvalRaw, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEvalMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEvalMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRandUniformBounds(t *testing.T) {
	rng := NewRand(1)
	for i := 0; i < 10000; i++ {
		f := rng.UniformFloat(-1, 1)
		if f < -1 || f >= 1 {
			t.Fatalf("UniformFloat = %v, out of [-1,1)", f)
		}
		n := rng.UniformInt(0, 100)
		if n < 0 || n >= 100 {
			t.Fatalf("UniformInt = %d, out of [0,100)", n)
		}
	}
	if got := rng.UniformFloat(0.3, 0.3); got != 0.3 {
		t.Errorf("empty range = %v, want lo", got)
	}
}

func BenchmarkRun(b *testing.B) {
	nn := NewRandomNetwork(NewRand(42), 10, 20, 3, 3, EvalRaw)
	inputs := make([]float32, 10)
	for i := range inputs {
		inputs[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = nn.Run(inputs)
	}
}
