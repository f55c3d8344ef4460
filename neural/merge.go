package neural

import "fmt"

// MutationOdds is the denominator of the per-link mutation chance: one link
// in MutationOdds receives a fresh random weight instead of a crossover blend.
const MutationOdds = 100

// mutationRoll is the UniformInt(0, MutationOdds) outcome that selects mutation.
const mutationRoll = 50

// Merge produces an independent child network with the parents' topology.
// For every link position one draw decides between mutation (fresh weight in
// [-1, 1)) and blend crossover: equal parent weights are copied exactly,
// otherwise the child weight is drawn from [min(a,b), max(a,b)].
// The child inherits first's evaluation mode.
func Merge(rng RNG, first, second *Network) (*Network, error) {
	if len(first.Layers) == 0 || !first.SameShape(second) {
		return nil, fmt.Errorf("merge %v with %v: %w", first.Shape(), second.Shape(), ErrTopologyMismatch)
	}

	child := &Network{
		Layers: make([]Layer, 0, len(first.Layers)),
		Mode:   first.Mode,
	}
	child.Layers = append(child.Layers, NewInputLayer(first.Layers[0].Width()))

	for li := 1; li < len(first.Layers); li++ {
		layer := NewLinkedLayer(first.Layers[li].Width(), &child.Layers[li-1])
		a := first.Layers[li].Nodes
		b := second.Layers[li].Nodes
		for n := range layer.Nodes {
			links := layer.Nodes[n].Links
			for k := range links {
				links[k].Factor = crossover(rng, a[n].Links[k].Factor, b[n].Links[k].Factor)
			}
		}
		child.Layers = append(child.Layers, layer)
	}
	return child, nil
}

func crossover(rng RNG, a, b float32) float32 {
	if rng.UniformInt(0, MutationOdds) == mutationRoll {
		return rng.UniformFloat(-1, 1)
	}
	if a == b {
		return a
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return rng.UniformFloat(lo, hi)
}
