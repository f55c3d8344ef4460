package neural

// Link is a weighted edge to a node in the immediately preceding layer.
// Target indexes into that layer's Nodes.
type Link struct {
	Factor float32
	Target int
}

// Node accumulates a value from its incoming links.
// Value is scratch state written by Run.
type Node struct {
	Value float32
	Links []Link
}

// Layer is an ordered, fixed-width set of nodes.
type Layer struct {
	Nodes []Node
}

// NewInputLayer creates a layer of bare nodes with no links.
func NewInputLayer(width int) Layer {
	return Layer{Nodes: make([]Node, width)}
}

// NewLinkedLayer creates a layer whose nodes link to every node of prev
// with weight 0. Link k of each node targets node k of prev.
func NewLinkedLayer(width int, prev *Layer) Layer {
	return newLayer(width, prev, func() float32 { return 0 })
}

// NewRandomLayer creates a layer whose nodes link to every node of prev
// with independent weights drawn from [-1, 1).
func NewRandomLayer(rng RNG, width int, prev *Layer) Layer {
	return newLayer(width, prev, func() float32 { return rng.UniformFloat(-1, 1) })
}

func newLayer(width int, prev *Layer, weight func() float32) Layer {
	prevWidth := prev.Width()
	layer := Layer{Nodes: make([]Node, width)}
	for i := range layer.Nodes {
		links := make([]Link, prevWidth)
		for k := range links {
			links[k] = Link{Factor: weight(), Target: k}
		}
		layer.Nodes[i].Links = links
	}
	return layer
}

// Width returns the number of nodes in the layer.
func (l *Layer) Width() int {
	return len(l.Nodes)
}

// Values copies the node values into a new slice.
func (l *Layer) Values() []float32 {
	out := make([]float32, len(l.Nodes))
	for i := range l.Nodes {
		out[i] = l.Nodes[i].Value
	}
	return out
}
