package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/components"
	"github.com/pthm-cable/evosoup/systems"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Agent     *components.Agent
	Inputs    []float32 // sensor vector for the current world state
	MaxEnergy float32   // energy bar scale
}

// Inspector renders the selected agent's state and network.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width, height int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2
	x := ins.x + padding
	y := ins.y + padding

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height)

	a := data.Agent
	if a == nil {
		rl.DrawText("Agent died", x, y, 18, rl.Gray)
		return
	}

	header := fmt.Sprintf("Agent #%d", a.ID)
	headerColor := rl.Color{R: 200, G: 60, B: 60, A: 255}
	if a.IsCharging {
		header += " (charging)"
		headerColor = rl.Color{R: 255, G: 90, B: 90, A: 255}
	}
	rl.DrawText(header, x, y, 18, headerColor)
	y += r.Theme.LineHeight + 6

	y = r.DrawSectionHeader(x, y, "Stats")
	y = r.DrawEnergyBar(x, y, "Energy", float32(a.Energy), max(data.MaxEnergy, float32(a.Energy)), contentWidth)
	y = r.DrawLabelValue(x, y, "Age", fmt.Sprintf("%d ticks", a.Age))
	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", a.Generation))
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.1f, %.1f)", a.X, a.Y))
	y = r.DrawLabelValue(x, y, "Facing", fmt.Sprintf("%.0f deg", float64(a.Facing)*180/math.Pi))
	y += 6

	if len(data.Inputs) > systems.SelfSlots {
		y = r.DrawSectionHeader(x, y, "Nearest Nodes")
		for p := 0; p < systems.PairSlots(len(data.Inputs)); p++ {
			slot := systems.SelfSlots + 2*p
			y = r.DrawCenteredBar(x, y, fmt.Sprintf("#%d bear", p+1), data.Inputs[slot], 1, contentWidth)
			y = r.DrawCenteredBar(x, y, fmt.Sprintf("#%d dist", p+1), data.Inputs[slot+1], 1, contentWidth)
		}
		y += 6
	}

	if a.Network != nil {
		y = r.DrawSectionHeader(x, y, fmt.Sprintf("Network %v", a.Network.Shape()))
		// Leave room on the left for input labels.
		const labelRoom = 70
		DrawNetworkDiagram(x+labelRoom, y, contentWidth-labelRoom, ins.y+ins.height-y-padding, a.Network)
	}
}
