// Package systems holds the per-tick rules that act on agents and energy nodes.
package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	if angle > math.Pi || angle < -math.Pi {
		angle = float32(math.Remainder(float64(angle), 2*math.Pi))
	}
	return angle
}

// normalizeHeading wraps a heading to [0, 2*Pi).
func normalizeHeading(h float32) float32 {
	const twoPi = 2 * math.Pi
	if h < 0 || h >= twoPi {
		h = float32(math.Mod(float64(h), twoPi))
		if h < 0 {
			h += twoPi
		}
		if h >= twoPi {
			h = 0
		}
	}
	return h
}
