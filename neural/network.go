// Package neural provides the layered feed-forward networks that drive agents.
package neural

import (
	"fmt"
	"strings"
)

// EvalMode selects how link contributions are combined during Run.
type EvalMode uint8

const (
	// EvalRaw sums factor*value over all links with no clamping.
	EvalRaw EvalMode = iota
	// EvalClampedContribution clamps each factor*value to [-1, 1] before summing.
	EvalClampedContribution
)

// String returns the config name of the mode.
func (m EvalMode) String() string {
	switch m {
	case EvalRaw:
		return "raw"
	case EvalClampedContribution:
		return "clamped"
	default:
		return fmt.Sprintf("EvalMode(%d)", uint8(m))
	}
}

// ParseEvalMode converts a config name into an EvalMode.
func ParseEvalMode(s string) (EvalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return EvalRaw, nil
	case "clamped", "clamped-contribution":
		return EvalClampedContribution, nil
	default:
		return EvalRaw, fmt.Errorf("unknown eval mode %q", s)
	}
}

// Network is an ordered sequence of layers, input first, output last.
// Every node of Layers[i] (i > 0) has exactly Layers[i-1].Width() links.
// Topology never changes after construction.
type Network struct {
	Layers []Layer
	Mode   EvalMode
}

// NewRandomNetwork builds a network with a bare input layer, hiddenLayers
// layers of layerWidth nodes and an output layer, all weights drawn from [-1, 1).
func NewRandomNetwork(rng RNG, inputs, layerWidth, hiddenLayers, outputs int, mode EvalMode) *Network {
	nn := &Network{
		Layers: make([]Layer, 0, hiddenLayers+2),
		Mode:   mode,
	}
	nn.Layers = append(nn.Layers, NewInputLayer(inputs))
	for i := 0; i < hiddenLayers; i++ {
		nn.Layers = append(nn.Layers, NewRandomLayer(rng, layerWidth, &nn.Layers[i]))
	}
	nn.Layers = append(nn.Layers, NewRandomLayer(rng, outputs, &nn.Layers[len(nn.Layers)-1]))
	return nn
}

// Run copies values into the input layer and evaluates every later layer in
// order. Each layer reads only the fully updated layer before it.
func (nn *Network) Run(values []float32) error {
	if len(nn.Layers) == 0 {
		return fmt.Errorf("run with %d inputs on empty network: %w", len(values), ErrShapeMismatch)
	}
	input := &nn.Layers[0]
	if len(values) != input.Width() {
		return fmt.Errorf("run with %d inputs, input layer has %d: %w", len(values), input.Width(), ErrShapeMismatch)
	}
	for i := range input.Nodes {
		input.Nodes[i].Value = values[i]
	}

	for li := 1; li < len(nn.Layers); li++ {
		prev := nn.Layers[li-1].Nodes
		nodes := nn.Layers[li].Nodes
		for n := range nodes {
			var sum float32
			if nn.Mode == EvalClampedContribution {
				for _, link := range nodes[n].Links {
					sum += clamp(link.Factor*prev[link.Target].Value, -1, 1)
				}
			} else {
				for _, link := range nodes[n].Links {
					sum += link.Factor * prev[link.Target].Value
				}
			}
			nodes[n].Value = sum
		}
	}
	return nil
}

// Output returns the value of output node i after Run.
func (nn *Network) Output(i int) float32 {
	return nn.Layers[len(nn.Layers)-1].Nodes[i].Value
}

// Outputs copies the output layer values.
func (nn *Network) Outputs() []float32 {
	return nn.Layers[len(nn.Layers)-1].Values()
}

// InputWidth returns the width of the input layer.
func (nn *Network) InputWidth() int {
	if len(nn.Layers) == 0 {
		return 0
	}
	return nn.Layers[0].Width()
}

// Shape returns the width of every layer, input first.
func (nn *Network) Shape() []int {
	shape := make([]int, len(nn.Layers))
	for i := range nn.Layers {
		shape[i] = nn.Layers[i].Width()
	}
	return shape
}

// SameShape reports whether two networks have identical layer count and widths.
func (nn *Network) SameShape(other *Network) bool {
	if len(nn.Layers) != len(other.Layers) {
		return false
	}
	for i := range nn.Layers {
		if nn.Layers[i].Width() != other.Layers[i].Width() {
			return false
		}
	}
	return true
}

// LinkCount returns the total number of links in the network.
func (nn *Network) LinkCount() int {
	count := 0
	for i := 1; i < len(nn.Layers); i++ {
		count += nn.Layers[i].Width() * nn.Layers[i-1].Width()
	}
	return count
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	clone := &Network{
		Layers: make([]Layer, len(nn.Layers)),
		Mode:   nn.Mode,
	}
	for li := range nn.Layers {
		src := nn.Layers[li].Nodes
		dst := make([]Node, len(src))
		for n := range src {
			dst[n].Value = src[n].Value
			if src[n].Links != nil {
				dst[n].Links = append([]Link(nil), src[n].Links...)
			}
		}
		clone.Layers[li].Nodes = dst
	}
	return clone
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
