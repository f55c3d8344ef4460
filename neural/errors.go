package neural

import "errors"

var (
	// ErrShapeMismatch is returned when an input vector does not match the
	// width of a network's input layer.
	ErrShapeMismatch = errors.New("neural: input shape mismatch")

	// ErrTopologyMismatch is returned when two networks passed to Merge do
	// not share layer count and per-layer widths.
	ErrTopologyMismatch = errors.New("neural: topology mismatch")
)
