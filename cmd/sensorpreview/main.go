// Sensor preview tool - interactive visualization of the node-pair inputs
// an agent would sense at every point of the world.
//
// Usage: go run ./cmd/sensorpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/components"
	"github.com/pthm-cable/evosoup/config"
	"github.com/pthm-cable/evosoup/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// Channel selects which input of the first node pair is shown.
type Channel int

const (
	ChannelBearing Channel = iota
	ChannelDistance
)

func (c Channel) String() string {
	if c == ChannelBearing {
		return "Bearing"
	}
	return "Distance"
}

// PreviewParams holds the slider state.
type PreviewParams struct {
	Facing        float32 // radians
	DistanceScale float32
	NodeX, NodeY  float32 // fraction of the world rectangle
	Channel       Channel
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	world := cfg.Derived.World
	defaults := PreviewParams{
		DistanceScale: float32(cfg.World.DistanceScale),
		NodeX:         0.5,
		NodeY:         0.5,
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Sensor Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	grid := make([]float32, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	needsRegen := true

	for !rl.WindowShouldClose() {
		// Click inside the preview to move the node
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			m := rl.GetMousePosition()
			if m.X >= 10 && m.X < 10+previewSize && m.Y >= 10 && m.Y < 10+previewSize {
				params.NodeX = (m.X - 10) / previewSize
				params.NodeY = (m.Y - 10) / previewSize
				needsRegen = true
			}
		}

		if needsRegen {
			sampleField(grid, gridSize, world, params)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		nx := 10 + params.NodeX*previewSize
		ny := 10 + params.NodeY*previewSize
		rl.DrawCircleV(rl.Vector2{X: nx, Y: ny}, 5, rl.Green)
		rl.DrawCircleLinesV(rl.Vector2{X: nx, Y: ny}, float32(cfg.Resources.CaptureRadius)*previewSize/world.Width, rl.DarkGreen)

		minVal, maxVal := grid[0], grid[0]
		for _, v := range grid {
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("%s  Min: %.3f  Max: %.3f", params.Channel, minVal, maxVal), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("World: %.0fx%.0f  Margin: %.0f", world.Width, world.Height, world.Margin), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText("Click the preview to move the node", 15, statsY+40, 14, rl.Gray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Sensor Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Facing slider
		rl.DrawText("Facing (agent heading, radians)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFacing := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"-pi", "pi",
			params.Facing, -math.Pi, math.Pi,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Facing), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newFacing != params.Facing {
			params.Facing = newFacing
			needsRegen = true
		}
		panelY += 35

		// Distance scale slider
		rl.DrawText("Distance scale (squared distance sensed as 0)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1e4", "1e6",
			params.DistanceScale, 1e4, 1e6,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.DistanceScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.DistanceScale {
			params.DistanceScale = newScale
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Show "+(params.Channel^1).String()) {
			params.Channel ^= 1
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := yamlSnippet(params)
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

func yamlSnippet(p PreviewParams) string {
	return fmt.Sprintf("world:\n  distance_scale: %.0f", p.DistanceScale)
}

// sampleField fills grid with the selected input of the first node pair for
// an agent placed at the centre of each cell, facing p.Facing.
func sampleField(grid []float32, size int, world components.World, p PreviewParams) {
	sensor := systems.NewSensor(systems.SensorParams{World: world, DistanceScale: p.DistanceScale})
	nodes := []components.EnergyNode{{X: p.NodeX * world.Width, Y: p.NodeY * world.Height}}
	inputs := make([]float32, systems.SelfSlots+2)
	agent := components.Agent{Facing: p.Facing}

	slot := systems.SelfSlots
	if p.Channel == ChannelDistance {
		slot++
	}
	for y := 0; y < size; y++ {
		agent.Y = (float32(y) + 0.5) / float32(size) * world.Height
		for x := 0; x < size; x++ {
			agent.X = (float32(x) + 0.5) / float32(size) * world.Width
			sensor.Sense(inputs, &agent, nodes)
			grid[y*size+x] = inputs[slot]
		}
	}
}

// updateTexture maps [-1, 1] to blue through black to yellow. Values past 1
// saturate.
func updateTexture(texture rl.Texture2D, grid []float32) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		v = min(max(v, -1), 1)
		if v < 0 {
			t := -v
			pixels[i] = color.RGBA{R: uint8(20 * t), G: uint8(90 * t), B: uint8(230 * t), A: 255}
		} else {
			pixels[i] = color.RGBA{R: uint8(250 * v), G: uint8(210 * v), B: uint8(40 * v), A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
