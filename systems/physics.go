package systems

import (
	"math"

	"github.com/pthm-cable/evosoup/components"
)

// Output slots read from the last network layer.
const (
	OutputTurn = 0
	OutputStep = 1
	// MinOutputs is the smallest output width the actuators can read.
	MinOutputs = 2
)

// MotionParams holds movement constants.
type MotionParams struct {
	Speed       float32 // distance per unit step
	TurnDamping float32 // heading change per unit turn output
}

// Steer applies the turn and step outputs to the agent:
// facing changes by clamp(turn, -1, 1)*TurnDamping, then the agent moves
// clamp(step, -1, 1)*Speed along its new facing.
func Steer(agent *components.Agent, turn, step float32, params MotionParams) {
	agent.Facing = normalizeHeading(agent.Facing + clampFloat(turn, -1, 1)*params.TurnDamping)
	distance := clampFloat(step, -1, 1) * params.Speed
	sin, cos := math.Sincos(float64(agent.Facing))
	agent.X += float32(cos) * distance
	agent.Y += float32(sin) * distance
}

// Actuate reads the output layer of an evaluated network and steers the agent.
func Actuate(agent *components.Agent, params MotionParams) {
	Steer(agent, agent.Network.Output(OutputTurn), agent.Network.Output(OutputStep), params)
}
