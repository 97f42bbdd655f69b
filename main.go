package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/game"
	"github.com/pthm-cable/spirittrails/quality"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output governor samples and frame timings via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	watch := flag.Bool("watch", false, "Reload runtime tunables when the config file changes")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var watcher *config.Watcher
	if *watch && *configPath != "" {
		w, err := config.Watch(*configPath)
		if err != nil {
			slog.Error("failed to watch config", "error", err)
			os.Exit(1)
		}
		defer w.Close()
		watcher = w
	}

	hints := quality.DeviceHints{PixelRatio: cfg.Device.PixelRatio, Cores: cfg.Device.Cores}
	if hints.Cores == 0 {
		hints.Cores = runtime.NumCPU()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Headless:  *headless,
		OutputDir: *outputDir,
		Hints:     hints,
		Watcher:   watcher,
		Logger:    logger,
		LogStats:  *logStats,
	}

	if *headless {
		// Headless mode - scene simulation only, no raylib needed
		g, err := game.NewGameWithOptions(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run", "seed", rngSeed, "max_frames", *maxFrames)
		for *maxFrames == 0 || g.Frame() < *maxFrames {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("frame failed", "error", err)
				return
			}
		}
		slog.Info("max frames reached", "frame", g.Frame())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	opts.Multisample = rl.IsWindowState(rl.FlagMsaa4xHint)
	if hints.PixelRatio == 0 {
		opts.Hints.PixelRatio = float64(rl.GetWindowScaleDPI().X)
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("frame failed", "error", err)
			break
		}
		g.Draw()

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			break
		}
	}
}
