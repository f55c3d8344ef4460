package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	buttonWidth  = 90
	buttonHeight = 26
	buttonGap    = 8
)

// ControlsPanel renders the raygui buttons and the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches overlay list visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Buttons draws the simulation buttons and returns what was clicked.
func (c *ControlsPanel) Buttons(paused bool) Actions {
	var a Actions
	x := float32(c.x)
	y := float32(c.y)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}, "Reset") {
		a.Reset = true
	}
	x += buttonWidth + buttonGap
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}, toggleText(paused, "Resume", "Pause")) {
		a.TogglePause = true
	}
	x += buttonWidth + buttonGap
	if paused {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}, "Step") {
			a.Step = true
		}
		x += buttonWidth + buttonGap
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonHeight, Height: buttonHeight}, "-") {
		a.Slower = true
	}
	x += buttonHeight + buttonGap
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonHeight, Height: buttonHeight}, "+") {
		a.Faster = true
	}
	x += buttonHeight + buttonGap
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}, "Fit View") {
		a.FitCamera = true
	}
	return a
}

// Overlays draws the overlay toggle list below the buttons.
func (c *ControlsPanel) Overlays(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	top := c.y + buttonHeight + buttonGap
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, top, c.width, panelHeight)

	y := top + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// KeyActions reads the keyboard shortcuts for the simulation controls.
// Space resets the world.
func KeyActions() Actions {
	return Actions{
		Reset:       rl.IsKeyPressed(rl.KeySpace),
		TogglePause: rl.IsKeyPressed(rl.KeyP),
		Step:        rl.IsKeyPressed(rl.KeyS),
		Faster:      rl.IsKeyPressed(rl.KeyPeriod),
		Slower:      rl.IsKeyPressed(rl.KeyComma),
		FitCamera:   rl.IsKeyPressed(rl.KeyHome),
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "world":
		return "World"
	case "sensing":
		return "Sensing"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
