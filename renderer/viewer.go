package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/camera"
	"github.com/pthm-cable/evosoup/game"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/systems"
	"github.com/pthm-cable/evosoup/ui"
)

const (
	maxStepsPerFrame = 20
	selectRadius     = 15 // screen pixels
	inspectorWidth   = 340
	controlsHeight   = 40
)

// ViewerOptions configures the interactive loop.
type ViewerOptions struct {
	Title         string
	MaxTicks      uint64 // 0 = unlimited
	StepsPerFrame int
	// Publish receives the observation after every frame's ticks.
	Publish func(game.Observation)
	// Observers reports connected observer clients for the HUD; nil hides it.
	Observers func() int
}

// Viewer drives a simulation from the raylib window loop.
// The window must be open before NewViewer is called.
type Viewer struct {
	sim  *game.Simulation
	rng  neural.RNG
	opts ViewerOptions

	cam       *camera.Camera
	world     *WorldRenderer
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector
	controls  *ui.ControlsPanel

	screenW, screenH float32
	paused           bool
	follow           bool
	steps            int
	pending          ui.Actions // button clicks from the last Draw

	selectedID   uint32
	hasSelection bool

	obs    game.Observation
	sensor *systems.Sensor
	inputs []float32
}

// NewViewer creates a viewer sized to the current window.
func NewViewer(sim *game.Simulation, rng neural.RNG, opts ViewerOptions) *Viewer {
	cfg := sim.Config()
	d := cfg.Derived
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 1
	}
	if opts.Title == "" {
		opts.Title = "Evolving Soup"
	}

	cam := camera.New(w, h, d.World.Width, d.World.Height, d.World.Margin)
	overlays := ui.NewOverlayRegistry()

	v := &Viewer{
		sim:      sim,
		rng:      rng,
		opts:     opts,
		cam:      cam,
		overlays: overlays,
		world: NewWorldRenderer(cam, overlays, WorldParams{
			PairSlots:     d.PairSlots,
			CaptureRadius: float32(cfg.Resources.CaptureRadius),
			InitialCharge: float32(cfg.Resources.InitialCharge),
		}),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(int32(w)-260, 110),
		inspector: ui.NewInspector(int32(w)-inspectorWidth-10, controlsHeight+10, inspectorWidth, int32(h)-controlsHeight-50),
		controls:  ui.NewControlsPanel(10, int32(h)-controlsHeight-30, 330),
		screenW:   w,
		screenH:   h,
		steps:     opts.StepsPerFrame,
		sensor:    systems.NewSensor(d.Sensors),
		inputs:    make([]float32, d.Brain.Inputs),
	}
	v.obs = sim.Observe()
	return v
}

// Run loops until the window closes or the tick limit is reached.
func (v *Viewer) Run() error {
	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			return err
		}
		v.Draw()

		if v.opts.MaxTicks > 0 && v.sim.Tick >= v.opts.MaxTicks {
			break
		}
	}
	return nil
}

// Update handles input and advances the simulation.
func (v *Viewer) Update() error {
	v.handleResize()
	actions := ui.KeyActions().Merge(v.pending)
	v.pending = ui.Actions{}
	v.apply(actions)
	v.overlays.HandleKeys()
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		v.follow = !v.follow
	}
	v.handleCameraInput()
	v.handleSelection()

	steps := v.steps
	if v.paused {
		steps = 0
		if actions.Step {
			steps = 1
		}
	}
	for range steps {
		if err := v.sim.Update(v.rng); err != nil {
			return err
		}
		if v.opts.MaxTicks > 0 && v.sim.Tick >= v.opts.MaxTicks {
			break
		}
	}

	v.obs = v.sim.Observe()
	if v.opts.Publish != nil && steps > 0 {
		v.opts.Publish(v.obs)
	}

	if v.follow {
		if i := v.selectedIndex(); i >= 0 {
			v.cam.Follow(v.obs.Agents[i].X, v.obs.Agents[i].Y)
		}
	}
	return nil
}

func (v *Viewer) apply(a ui.Actions) {
	if a.Reset {
		v.sim.Reset(v.rng)
		v.hasSelection = false
		v.follow = false
	}
	if a.TogglePause {
		v.paused = !v.paused
	}
	if a.Faster && v.steps < maxStepsPerFrame {
		v.steps++
	}
	if a.Slower && v.steps > 1 {
		v.steps--
	}
	if a.FitCamera {
		v.cam.Fit()
	}
}

// Draw renders the frame.
func (v *Viewer) Draw() {
	v.sim.RecordFrame()

	rl.BeginDrawing()

	selected := v.selectedIndex()
	v.world.Draw(&v.obs, selected)

	charging := 0
	for _, a := range v.obs.Agents {
		if a.IsCharging {
			charging++
		}
	}
	observers := -1
	if v.opts.Observers != nil {
		observers = v.opts.Observers()
	}
	v.hud.Draw(ui.HUDData{
		Title:      v.opts.Title,
		RunID:      v.obs.RunID,
		Tick:       v.obs.Tick,
		Agents:     len(v.obs.Agents),
		Charging:   charging,
		Resources:  len(v.obs.Resources),
		Generation: v.obs.Generation,
		Speed:      v.steps,
		FPS:        rl.GetFPS(),
		Paused:     v.paused,
		Observers:  observers,
	})

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.sim.Perf())
	}

	if v.hasSelection {
		agent := v.sim.AgentByID(v.selectedID)
		var inputs []float32
		if agent != nil {
			v.sensor.Sense(v.inputs, agent, v.sim.Resources)
			inputs = v.inputs
		}
		v.inspector.Draw(ui.InspectorData{
			Agent:     agent,
			Inputs:    inputs,
			MaxEnergy: float32(v.sim.Config().Energy.Initial),
		})
	}

	v.pending = v.controls.Buttons(v.paused)
	v.controls.Overlays(v.overlays)
	v.hud.DrawControls(int32(v.screenH), "[Space] reset  [P] pause  [S] step  [</>] speed  [Tab] overlays  [L] follow  [Home] fit")

	rl.EndDrawing()
}

// Tick returns the number of completed ticks.
func (v *Viewer) Tick() uint64 {
	return v.sim.Tick
}

// selectedIndex returns the selected agent's index in the current
// observation, or -1.
func (v *Viewer) selectedIndex() int {
	if !v.hasSelection {
		return -1
	}
	for i, a := range v.obs.Agents {
		if a.ID == v.selectedID {
			return i
		}
	}
	return -1
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	v.cam.Resize(w, h)
	v.perfPanel.SetPosition(int32(w)-260, 110)
	v.inspector.SetPosition(int32(w)-inspectorWidth-10, controlsHeight+10)
	v.controls.SetPosition(10, int32(h)-controlsHeight-30)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed is in screen pixels, so it feels the same at every zoom.
	const panSpeed = float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
		v.follow = false
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
		v.follow = false
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
		v.follow = false
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
		v.follow = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1.0 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
}

// handleSelection selects the agent under a left click, or clears the
// selection when the click hits empty space.
func (v *Viewer) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if v.overUI(mouse) {
		return
	}

	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	i := v.obs.Nearest(wx, wy, selectRadius/v.cam.Zoom)
	if i < 0 {
		v.hasSelection = false
		v.follow = false
		return
	}
	v.selectedID = v.obs.Agents[i].ID
	v.hasSelection = true
}

// overUI reports whether a screen point falls on a panel that consumes clicks.
func (v *Viewer) overUI(p rl.Vector2) bool {
	if p.Y >= v.screenH-controlsHeight-30 && p.X <= 560 {
		return true
	}
	return v.hasSelection && p.X >= v.screenW-inspectorWidth-10
}
