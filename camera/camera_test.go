package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)

	// Should be centered on world
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStopsAtMargin(t *testing.T) {
	cam := New(800, 600, 800, 600, 25)

	cam.Pan(-10000, 0)
	if cam.X != -25 {
		t.Errorf("expected X clamped to -25, got %f", cam.X)
	}

	cam.Pan(0, 10000)
	if cam.Y != 625 {
		t.Errorf("expected Y clamped to 625, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)

	// MinZoom should be min(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(20.0) // Above max
	if cam.Zoom != 8.0 {
		t.Errorf("expected zoom clamped to 8.0, got %f", cam.Zoom)
	}
}

func TestFitShowsMargin(t *testing.T) {
	cam := New(800, 600, 800, 600, 25)

	// Limiting dimension is height: 600 / 650
	want := float32(600.0 / 650.0)
	if math.Abs(float64(cam.MinZoom-want)) > 0.001 {
		t.Errorf("expected MinZoom %f, got %f", want, cam.MinZoom)
	}

	cam.Fit()
	corners := []struct{ x, y float32 }{{-25, -25}, {825, -25}, {-25, 625}, {825, 625}}
	for _, c := range corners {
		sx, sy := cam.WorldToScreen(c.x, c.y)
		if sx < -0.01 || sx > 800.01 || sy < -0.01 || sy > 600.01 {
			t.Errorf("corner (%v, %v) off screen at (%f, %f)", c.x, c.y, sx, sy)
		}
	}
}

func TestSmallWorldNeverZoomsBelowOne(t *testing.T) {
	cam := New(800, 600, 200, 100, 10)
	if cam.MinZoom != 1 {
		t.Errorf("expected MinZoom 1, got %f", cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)

	// Visible range in world coords: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestFollow(t *testing.T) {
	cam := New(800, 600, 800, 600, 25)
	cam.Follow(100, 200)
	if cam.X != 100 || cam.Y != 200 {
		t.Errorf("expected (100, 200), got (%f, %f)", cam.X, cam.Y)
	}
	cam.Follow(2000, -2000)
	if cam.X != 825 || cam.Y != -25 {
		t.Errorf("expected clamp to (825, -25), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, 0)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
