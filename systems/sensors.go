package systems

import (
	"math"
	"sort"

	"github.com/pthm-cable/evosoup/components"
)

// Self-state slots at the front of every sensor vector.
const (
	SlotX = iota
	SlotY
	SlotCharging
	SlotFacing
	// SelfSlots is the number of self-state slots; node pairs follow.
	SelfSlots
)

// SensorParams holds the constants used to encode a sensor vector.
type SensorParams struct {
	World         components.World
	DistanceScale float32 // squared distance that encodes as 0
}

// PairSlots returns how many (bearing, distance) pairs fit in width.
func PairSlots(width int) int {
	if width <= SelfSlots {
		return 0
	}
	return (width - SelfSlots) / 2
}

type nodeDistance struct {
	index  int
	distSq float32
}

// Sensor encodes sensor vectors, reusing its sort buffer between calls.
// A Sensor must not be shared between goroutines.
type Sensor struct {
	Params SensorParams
	order  []nodeDistance
}

// NewSensor creates a sensor for the given parameters.
func NewSensor(params SensorParams) *Sensor {
	return &Sensor{Params: params, order: make([]nodeDistance, 0, 32)}
}

// SenseInputs encodes one agent's view of the world into a new vector of the
// given width. It does not modify the agent or the nodes.
func SenseInputs(width int, agent *components.Agent, nodes []components.EnergyNode, params SensorParams) []float32 {
	dst := make([]float32, width)
	NewSensor(params).Sense(dst, agent, nodes)
	return dst
}

// Sense fills dst with the agent's sensor vector:
//
//	[0] x rescaled from [-margin, width+margin] to [-1, 1]
//	[1] y rescaled the same way
//	[2] +1 charging, -1 otherwise
//	[3] facing wrapped to [-π, π] divided by π
//	[4..] (bearing, distance) pairs for the nearest nodes, nearest first
//
// Pairs without a node are left at 0.
func (s *Sensor) Sense(dst []float32, agent *components.Agent, nodes []components.EnergyNode) {
	for i := range dst {
		dst[i] = 0
	}
	w := s.Params.World

	put := func(slot int, v float32) {
		if slot < len(dst) {
			dst[slot] = v
		}
	}
	put(SlotX, (agent.X+w.Margin)/((w.Width+2*w.Margin)/2)-1)
	put(SlotY, (agent.Y+w.Margin)/((w.Height+2*w.Margin)/2)-1)
	if agent.IsCharging {
		put(SlotCharging, 1)
	} else {
		put(SlotCharging, -1)
	}
	put(SlotFacing, float32(float64(normalizeAngle(agent.Facing))/math.Pi))

	pairs := PairSlots(len(dst))
	if pairs == 0 || len(nodes) == 0 {
		return
	}

	s.order = s.order[:0]
	for i := range nodes {
		s.order = append(s.order, nodeDistance{
			index:  i,
			distSq: components.DistanceSq(agent.X, agent.Y, nodes[i].X, nodes[i].Y),
		})
	}
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.order[i].distSq < s.order[j].distSq
	})

	if pairs > len(s.order) {
		pairs = len(s.order)
	}
	for p := 0; p < pairs; p++ {
		nd := s.order[p]
		node := &nodes[nd.index]
		slot := SelfSlots + 2*p
		dst[slot] = bearing(agent, node.X, node.Y)
		dst[slot+1] = nd.distSq/s.Params.DistanceScale - 1
	}
}

// bearing returns the angle to (x, y) relative to the agent's facing, in [-1, 1].
func bearing(agent *components.Agent, x, y float32) float32 {
	angle := math.Atan2(float64(y-agent.Y), float64(x-agent.X)) - float64(agent.Facing)
	if angle > math.Pi || angle < -math.Pi {
		angle = math.Remainder(angle, 2*math.Pi)
	}
	return float32(angle / math.Pi)
}
