package components

import (
	"math"

	"github.com/pthm-cable/evosoup/neural"
)

// World describes the rectangle agents live in.
// Margin is the band outside the rectangle an agent may stray into
// before it is considered out of bounds.
type World struct {
	Width  float32
	Height float32
	Margin float32
}

// Contains reports whether (x, y) lies within the rectangle grown by Margin.
// Points exactly on the grown edge are inside.
func (w World) Contains(x, y float32) bool {
	return x >= -w.Margin && x <= w.Width+w.Margin &&
		y >= -w.Margin && y <= w.Height+w.Margin
}

// RandomPoint draws a uniform position inside the rectangle.
func (w World) RandomPoint(rng neural.RNG) (x, y float32) {
	x = rng.UniformFloat(0, w.Width)
	y = rng.UniformFloat(0, w.Height)
	return x, y
}

// BrainShape describes the network topology every agent is built with.
type BrainShape struct {
	Inputs       int
	LayerWidth   int
	HiddenLayers int
	Outputs      int
	Mode         neural.EvalMode
}

// RandomHeading draws a heading in [0, 2π).
func RandomHeading(rng neural.RNG) float32 {
	return rng.UniformFloat(0, 2*math.Pi)
}
