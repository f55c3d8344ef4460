package systems

import "github.com/pthm-cable/evosoup/components"

// FeedingParams holds the energy economics of one tick.
type FeedingParams struct {
	CaptureRadiusSq float32 // strict squared-distance threshold
	TransferPerTick uint32  // max energy moved from a node to an agent
	UpkeepPerTick   uint32  // energy lost when not charging
}

// FeedResult describes the outcome of one agent's feeding step.
type FeedResult struct {
	Node        int    // index of the node drained, -1 when none
	Transferred uint32 // energy moved into the agent
	Exhausted   bool   // the node reached zero this step
}

// FindCharger returns the index of the first node, in slice order, that has
// energy left and lies within the capture radius. Returns -1 when none does.
// First match wins, not nearest.
func FindCharger(agent *components.Agent, nodes []components.EnergyNode, radiusSq float32) int {
	for i := range nodes {
		if nodes[i].Remaining > 0 && agent.InRange(nodes[i].X, nodes[i].Y, radiusSq) {
			return i
		}
	}
	return -1
}

// Feed resolves one agent's claim on the energy nodes. A matched node
// transfers up to TransferPerTick and the agent is marked charging; otherwise
// the agent pays upkeep, floored at zero.
func Feed(agent *components.Agent, nodes []components.EnergyNode, params FeedingParams) FeedResult {
	idx := FindCharger(agent, nodes, params.CaptureRadiusSq)
	if idx < 0 {
		agent.IsCharging = false
		agent.Energy -= min(params.UpkeepPerTick, agent.Energy)
		return FeedResult{Node: -1}
	}

	node := &nodes[idx]
	got := node.Drain(params.TransferPerTick)
	agent.Energy += got
	agent.IsCharging = true
	return FeedResult{Node: idx, Transferred: got, Exhausted: node.Exhausted()}
}

// DecayNodes removes decay from every node, floored at zero.
// Returns the number of nodes that reached zero during this call.
func DecayNodes(nodes []components.EnergyNode, decay uint32) int {
	emptied := 0
	for i := range nodes {
		if nodes[i].Remaining == 0 {
			continue
		}
		nodes[i].Drain(decay)
		if nodes[i].Exhausted() {
			emptied++
		}
	}
	return emptied
}

// CompactNodes removes exhausted nodes in place, keeping the order of the rest.
func CompactNodes(nodes []components.EnergyNode) []components.EnergyNode {
	kept := nodes[:0]
	for _, n := range nodes {
		if !n.Exhausted() {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(nodes); i++ {
		nodes[i] = components.EnergyNode{}
	}
	return kept
}
