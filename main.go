package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evosoup/config"
	"github.com/pthm-cable/evosoup/game"
	"github.com/pthm-cable/evosoup/neural"
	"github.com/pthm-cable/evosoup/observer"
	"github.com/pthm-cable/evosoup/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per rendered frame")
	observeAddr := flag.String("observe", "", "Serve observations over WebSocket on this address (e.g. 127.0.0.1:8080)")
	observeRemote := flag.Bool("observe-remote", false, "Accept non-loopback observer clients")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	// JSON to stdout for structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := neural.NewRand(rngSeed)

	sim, err := game.NewWithOptions(cfg, rng, game.Options{
		Logger:    logger,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var obs *observerLink
	if *observeAddr != "" {
		obs = startObserver(ctx, *observeAddr, *observeRemote, logger)
	}

	if *headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"run_id", sim.RunID(),
			"max_ticks", *maxTicks,
			"parallel", cfg.Sim.Parallel,
		)
		err = runHeadless(ctx, sim, rng, *maxTicks, obs)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Evolving Soup")
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		opts := renderer.ViewerOptions{
			MaxTicks:      *maxTicks,
			StepsPerFrame: *stepsPerUpdate,
		}
		if obs != nil {
			opts.Publish = obs.publish
			opts.Observers = obs.server.Clients
		}
		err = renderer.NewViewer(sim, rng, opts).Run()
		rl.CloseWindow()
	}

	obs.shutdown()
	if cerr := sim.Close(); cerr != nil {
		slog.Error("failed to close simulation", "error", cerr)
	}
	if err != nil {
		slog.Error("simulation failed", "tick", sim.Tick, "error", err)
		os.Exit(1)
	}
	slog.Info("simulation finished", "tick", sim.Tick, "agents", len(sim.Agents), "generation", sim.Generation)
}

func runHeadless(ctx context.Context, sim *game.Simulation, rng neural.RNG, maxTicks uint64, obs *observerLink) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", sim.Tick)
			return nil
		default:
		}

		if err := sim.Update(rng); err != nil {
			return err
		}
		if obs != nil {
			obs.publish(sim.Observe())
		}

		if maxTicks > 0 && sim.Tick >= maxTicks {
			slog.Info("max ticks reached", "tick", sim.Tick)
			return nil
		}
	}
}

// observerLink hands observations from the driving loop to the observer
// server without blocking it.
type observerLink struct {
	server *observer.Server
	http   *http.Server
	out    chan game.Observation
}

func startObserver(ctx context.Context, addr string, remote bool, logger *slog.Logger) *observerLink {
	srv := observer.NewServer(logger)
	srv.AllowRemote = remote

	link := &observerLink{
		server: srv,
		http:   &http.Server{Addr: addr, Handler: srv.Mux()},
		out:    make(chan game.Observation, 1),
	}
	go srv.Run(ctx, link.out)
	go func() {
		if err := link.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("observer server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving observations", "addr", addr, "ws", "/ws", "latest", "/observation")
	return link
}

// publish drops the observation when the server is still busy with the
// previous one.
func (l *observerLink) publish(o game.Observation) {
	select {
	case l.out <- o:
	default:
	}
}

func (l *observerLink) shutdown() {
	if l == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.http.Shutdown(ctx); err != nil {
		slog.Error("observer shutdown", "error", err)
	}
}
