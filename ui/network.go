package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/systems"
)

// OutputLabels names the output slots the actuators read.
var OutputLabels = []string{"Turn", "Step"}

// Colors for activation visualization.
var (
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// minEdgeWeight hides links too weak to read at diagram scale.
const minEdgeWeight = 0.25

// InputLabels names every slot of a sensor vector of the given width.
func InputLabels(width int) []string {
	labels := make([]string, 0, width)
	for _, name := range []string{"X", "Y", "Charging", "Facing"} {
		if len(labels) < width {
			labels = append(labels, name)
		}
	}
	for p := 0; p < systems.PairSlots(width); p++ {
		labels = append(labels, fmt.Sprintf("Node%d Bear", p+1), fmt.Sprintf("Node%d Dist", p+1))
	}
	for len(labels) < width {
		labels = append(labels, "-")
	}
	return labels
}

// DrawNetworkDiagram renders every layer of nn as a column, with node values
// from its last evaluation.
func DrawNetworkDiagram(x, y, width, height int32, nn *neural.Network) {
	if nn == nil || len(nn.Layers) == 0 {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	columns := int32(len(nn.Layers))
	colWidth := width / columns
	nodeRadius := float32(4)
	usable := float32(height - 20)

	positions := make([][]rl.Vector2, len(nn.Layers))
	for li := range nn.Layers {
		count := nn.Layers[li].Width()
		spacing := usable / float32(max(count, 1))
		offset := (usable - float32(count)*spacing) / 2
		colX := float32(x) + float32(int32(li)*colWidth) + float32(colWidth)/2
		positions[li] = make([]rl.Vector2, count)
		for n := 0; n < count; n++ {
			positions[li][n] = rl.Vector2{
				X: colX,
				Y: float32(y) + 10 + offset + (float32(n)+0.5)*spacing,
			}
		}
	}

	// Edges first so nodes draw on top.
	for li := 1; li < len(nn.Layers); li++ {
		for n, node := range nn.Layers[li].Nodes {
			for _, link := range node.Links {
				if absFloat(link.Factor) < minEdgeWeight {
					continue
				}
				drawEdge(positions[li-1][link.Target], positions[li][n], link.Factor)
			}
		}
	}

	last := len(nn.Layers) - 1
	inputLabels := InputLabels(nn.Layers[0].Width())
	for li := range nn.Layers {
		for n, node := range nn.Layers[li].Nodes {
			pos := positions[li][n]
			radius := nodeRadius
			if li == last {
				radius += 2
			}
			drawNode(pos, radius, node.Value)

			switch {
			case li == 0 && n < len(inputLabels):
				labelWidth := rl.MeasureText(inputLabels[n], 10)
				rl.DrawText(inputLabels[n], int32(pos.X-radius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
			case li == last && n < len(OutputLabels):
				rl.DrawText(OutputLabels[n], int32(pos.X+radius+6), int32(pos.Y)-5, 10, ColorLabelDim)
			}
		}
	}
}

// drawNode renders a single node.
func drawNode(pos rl.Vector2, radius, activation float32) {
	rl.DrawCircleV(pos, radius, activationColor(activation))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a link; thickness and alpha follow the weight.
func drawEdge(from, to rl.Vector2, weight float32) {
	thickness := min(max(absFloat(weight)*1.5, 0.5), 3)

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(min(40+int(absFloat(weight)*80), 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// activationColor returns a color based on activation value.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float32) rl.Color {
	t := min(absFloat(activation), 1)
	if activation > 0 {
		return rl.Color{
			R: uint8(60 + t*195),
			G: uint8(60 - t*30),
			B: uint8(60 - t*30),
			A: 255,
		}
	}
	return rl.Color{
		R: uint8(60 - t*30),
		G: uint8(60 - t*30),
		B: uint8(60 + t*195),
		A: 255,
	}
}

func absFloat(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
