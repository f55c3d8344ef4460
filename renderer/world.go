// Package renderer draws the simulation with raylib and runs the
// interactive viewer loop.
package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/camera"
	"github.com/pthm-cable/evosoup/game"
	"github.com/pthm-cable/evosoup/ui"
)

const (
	agentRadius   = 5
	headingLength = 12
	nodeMinRadius = 3
	nodeMaxRadius = 8
)

var (
	colorBackground   = rl.Color{R: 10, G: 12, B: 16, A: 255}
	colorMarginBand   = rl.Color{R: 40, G: 20, B: 20, A: 255}
	colorWorld        = rl.Black
	colorWorldBorder  = rl.Color{R: 70, G: 70, B: 80, A: 255}
	colorAgent        = rl.Color{R: 140, G: 30, B: 30, A: 255}
	colorAgentCharged = rl.Color{R: 255, G: 60, B: 60, A: 255}
	colorHeading      = rl.Color{R: 230, G: 230, B: 230, A: 200}
	colorNode         = rl.Color{R: 40, G: 200, B: 70, A: 255}
	colorCapture      = rl.Color{R: 40, G: 200, B: 70, A: 60}
	colorSensed       = rl.Color{R: 240, G: 220, B: 90, A: 140}
	colorSelection    = rl.Color{R: 255, G: 255, B: 255, A: 220}
)

// WorldRenderer draws observations through a camera.
type WorldRenderer struct {
	cam           *camera.Camera
	overlays      *ui.OverlayRegistry
	pairs         int
	captureRadius float32
	initialCharge float32
}

// WorldParams holds the values the world renderer needs from the config.
type WorldParams struct {
	PairSlots     int
	CaptureRadius float32
	InitialCharge float32
}

// NewWorldRenderer creates a renderer for the given camera and overlays.
func NewWorldRenderer(cam *camera.Camera, overlays *ui.OverlayRegistry, params WorldParams) *WorldRenderer {
	return &WorldRenderer{
		cam:           cam,
		overlays:      overlays,
		pairs:         params.PairSlots,
		captureRadius: params.CaptureRadius,
		initialCharge: params.InitialCharge,
	}
}

// Draw renders the world rectangle, energy nodes and agents. selected is
// the index of the highlighted agent in obs.Agents, or -1.
func (w *WorldRenderer) Draw(obs *game.Observation, selected int) {
	rl.ClearBackground(colorBackground)
	w.drawBounds(obs)

	for _, n := range obs.Resources {
		w.drawNode(n)
	}

	switch {
	case w.overlays.IsEnabled(ui.OverlaySensedAll):
		for i := range obs.Agents {
			w.drawSensedLinks(obs, &obs.Agents[i])
		}
	case w.overlays.IsEnabled(ui.OverlaySensedNodes) && selected >= 0:
		w.drawSensedLinks(obs, &obs.Agents[selected])
	}

	for i := range obs.Agents {
		w.drawAgent(&obs.Agents[i], i == selected)
	}
}

func (w *WorldRenderer) drawBounds(obs *game.Observation) {
	c := w.cam
	if w.overlays.IsEnabled(ui.OverlayMargin) {
		mx, my := c.WorldToScreen(-obs.Margin, -obs.Margin)
		rl.DrawRectangleV(
			rl.Vector2{X: mx, Y: my},
			rl.Vector2{X: c.Scale(obs.Width + 2*obs.Margin), Y: c.Scale(obs.Height + 2*obs.Margin)},
			colorMarginBand,
		)
	}
	x, y := c.WorldToScreen(0, 0)
	rect := rl.Rectangle{X: x, Y: y, Width: c.Scale(obs.Width), Height: c.Scale(obs.Height)}
	rl.DrawRectangleRec(rect, colorWorld)
	rl.DrawRectangleLinesEx(rect, 1, colorWorldBorder)
}

func (w *WorldRenderer) drawNode(n game.NodeView) {
	if !w.cam.IsVisible(n.X, n.Y, max(w.captureRadius, nodeMaxRadius)) {
		return
	}
	sx, sy := w.cam.WorldToScreen(n.X, n.Y)
	pos := rl.Vector2{X: sx, Y: sy}

	if w.overlays.IsEnabled(ui.OverlayCaptureRadius) {
		rl.DrawCircleLinesV(pos, w.cam.Scale(w.captureRadius), colorCapture)
	}

	fill := float32(1)
	if w.initialCharge > 0 {
		fill = min(float32(n.Remaining)/w.initialCharge, 1)
	}
	radius := nodeMinRadius + (nodeMaxRadius-nodeMinRadius)*float32(math.Sqrt(float64(fill)))
	rl.DrawCircleV(pos, w.cam.Scale(radius), colorNode)

	if w.overlays.IsEnabled(ui.OverlayNodeCharge) {
		rl.DrawText(fmt.Sprintf("%d", n.Remaining), int32(sx)+6, int32(sy)-6, 10, rl.LightGray)
	}
}

func (w *WorldRenderer) drawAgent(a *game.AgentView, selected bool) {
	if !w.cam.IsVisible(a.X, a.Y, headingLength) {
		return
	}
	sx, sy := w.cam.WorldToScreen(a.X, a.Y)
	pos := rl.Vector2{X: sx, Y: sy}

	color := colorAgent
	if a.IsCharging {
		color = colorAgentCharged
	}
	rl.DrawCircleV(pos, w.cam.Scale(agentRadius), color)

	if w.overlays.IsEnabled(ui.OverlayHeadings) {
		sin, cos := math.Sincos(float64(a.Facing))
		tip := rl.Vector2{
			X: sx + w.cam.Scale(headingLength)*float32(cos),
			Y: sy + w.cam.Scale(headingLength)*float32(sin),
		}
		rl.DrawLineV(pos, tip, colorHeading)
	}

	if selected {
		rl.DrawCircleLinesV(pos, w.cam.Scale(agentRadius+4), colorSelection)
	}
}

// drawSensedLinks connects an agent to the nodes its sensor vector reports.
func (w *WorldRenderer) drawSensedLinks(obs *game.Observation, a *game.AgentView) {
	if w.pairs == 0 {
		return
	}
	for _, idx := range obs.NearestNodes(a.X, a.Y, w.pairs) {
		n := obs.Resources[idx]
		ax, ay := w.cam.WorldToScreen(a.X, a.Y)
		nx, ny := w.cam.WorldToScreen(n.X, n.Y)
		rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: nx, Y: ny}, colorSensed)
	}
}
