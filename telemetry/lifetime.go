package telemetry

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  uint64
	Generation uint32

	// Parents, both zero with Fresh set for random spawns
	Fresh          bool
	FirstParentID  uint32
	SecondParentID uint32

	// Reproduction
	Children int

	// Energy
	PeakEnergy    uint32
	TotalCharged  uint64
	TicksCharging uint32
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// RegisterFresh creates lifetime stats for a randomly spawned agent.
func (lt *LifetimeTracker) RegisterFresh(agentID uint32, birthTick uint64, energy uint32) {
	lt.stats[agentID] = &LifetimeStats{
		BirthTick:  birthTick,
		Fresh:      true,
		PeakEnergy: energy,
	}
}

// RegisterChild creates lifetime stats for a bred agent and credits both parents.
func (lt *LifetimeTracker) RegisterChild(agentID uint32, birthTick uint64, generation uint32, energy uint32, firstID, secondID uint32) {
	lt.stats[agentID] = &LifetimeStats{
		BirthTick:      birthTick,
		Generation:     generation,
		FirstParentID:  firstID,
		SecondParentID: secondID,
		PeakEnergy:     energy,
	}
	lt.RecordChild(firstID)
	lt.RecordChild(secondID)
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(agentID uint32) *LifetimeStats {
	return lt.stats[agentID]
}

// Remove removes an agent's stats and returns them.
func (lt *LifetimeTracker) Remove(agentID uint32) *LifetimeStats {
	stats := lt.stats[agentID]
	delete(lt.stats, agentID)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordCharge adds one tick of charging to the agent's totals.
func (lt *LifetimeTracker) RecordCharge(agentID uint32, amount uint32) {
	if s := lt.stats[agentID]; s != nil {
		s.TotalCharged += uint64(amount)
		s.TicksCharging++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(agentID uint32, energy uint32) {
	if s := lt.stats[agentID]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Clear drops every tracked agent.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
