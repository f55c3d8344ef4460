package game

import (
	"sort"

	"github.com/pthm-cable/evosoup/components"
)

// AgentView is the observable state of one agent.
type AgentView struct {
	ID         uint32  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Facing     float32 `json:"facing"`
	IsCharging bool    `json:"is_charging"`
	Energy     uint32  `json:"energy"`
	Age        uint32  `json:"age"`
	Generation uint32  `json:"generation"`
}

// NodeView is the observable state of one energy node.
type NodeView struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Remaining uint32  `json:"remaining"`
}

// Observation is a read-only copy of the world after a tick.
type Observation struct {
	RunID      string      `json:"run_id"`
	Tick       uint64      `json:"tick"`
	Generation uint32      `json:"generation"`
	Width      float32     `json:"width"`
	Height     float32     `json:"height"`
	Margin     float32     `json:"margin"`
	Agents     []AgentView `json:"agents"`
	Resources  []NodeView  `json:"resources"`
}

// Observe copies the public state. Mutating the result never affects the
// simulation.
func (s *Simulation) Observe() Observation {
	world := s.cfg.Derived.World
	obs := Observation{
		RunID:      s.runID,
		Tick:       s.Tick,
		Generation: s.Generation,
		Width:      world.Width,
		Height:     world.Height,
		Margin:     world.Margin,
		Agents:     make([]AgentView, len(s.Agents)),
		Resources:  make([]NodeView, len(s.Resources)),
	}
	for i, a := range s.Agents {
		obs.Agents[i] = AgentView{
			ID:         a.ID,
			X:          a.X,
			Y:          a.Y,
			Facing:     a.Facing,
			IsCharging: a.IsCharging,
			Energy:     a.Energy,
			Age:        a.Age,
			Generation: a.Generation,
		}
	}
	for i, n := range s.Resources {
		obs.Resources[i] = NodeView{X: n.X, Y: n.Y, Remaining: n.Remaining}
	}
	return obs
}

// Nearest returns the index of the agent closest to (x, y) within radius,
// or -1 when none is.
func (o *Observation) Nearest(x, y, radius float32) int {
	best := -1
	bestDist := radius * radius
	for i, a := range o.Agents {
		dx, dy := a.X-x, a.Y-y
		if d := dx*dx + dy*dy; d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// NearestNodes returns the indices of up to k resources closest to (x, y),
// nearest first, ties in creation order. This is the order the sensor
// vector reports them in.
func (o *Observation) NearestNodes(x, y float32, k int) []int {
	idx := make([]int, len(o.Resources))
	for i := range idx {
		idx[i] = i
	}
	distSq := func(i int) float32 {
		return components.DistanceSq(x, y, o.Resources[i].X, o.Resources[i].Y)
	}
	sort.SliceStable(idx, func(a, b int) bool { return distSq(idx[a]) < distSq(idx[b]) })
	if k < len(idx) {
		idx = idx[:max(k, 0)]
	}
	return idx
}

// AgentByID returns the live agent with the given ID, or nil once it has died.
// Agents are kept in ID order, so this is a binary search.
func (s *Simulation) AgentByID(id uint32) *components.Agent {
	i := sort.Search(len(s.Agents), func(i int) bool { return s.Agents[i].ID >= id })
	if i < len(s.Agents) && s.Agents[i].ID == id {
		return s.Agents[i]
	}
	return nil
}
