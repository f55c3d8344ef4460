package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHeadings      OverlayID = "headings"
	OverlayMargin        OverlayID = "margin"
	OverlayCaptureRadius OverlayID = "capture_radius"
	OverlayNodeCharge    OverlayID = "node_charge"
	OverlaySensedNodes   OverlayID = "sensed_nodes"
	OverlaySensedAll     OverlayID = "sensed_all"
	OverlayPerf          OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // 0 = no key
	KeyLabel  string // e.g. "H"
	Category  string // "world", "sensing" or "debug"
	Default   bool
	Exclusive []OverlayID // disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayHeadings, Name: "Headings", Key: rl.KeyH, KeyLabel: "H", Category: "world", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayMargin, Name: "World Margin", Key: rl.KeyM, KeyLabel: "M", Category: "world", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayNodeCharge, Name: "Node Charge", Key: rl.KeyE, KeyLabel: "E", Category: "world"})
	r.Register(OverlayDescriptor{ID: OverlayCaptureRadius, Name: "Capture Radius", Key: rl.KeyC, KeyLabel: "C", Category: "sensing"})
	r.Register(OverlayDescriptor{
		ID:        OverlaySensedNodes,
		Name:      "Sensed Nodes (selected)",
		Key:       rl.KeyN,
		KeyLabel:  "N",
		Category:  "sensing",
		Default:   true,
		Exclusive: []OverlayID{OverlaySensedAll},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlaySensedAll,
		Name:      "Sensed Nodes (all)",
		Key:       rl.KeyA,
		KeyLabel:  "A",
		Category:  "sensing",
		Exclusive: []OverlayID{OverlaySensedNodes},
	})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Tick Phases", Key: rl.KeyF, KeyLabel: "F", Category: "debug"})
}

// Register adds an overlay to the registry in its default state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
