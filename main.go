// Command loam streams marching cubes terrain around a moving reference
// point. With -script it runs a terrain script and prints the result as
// JSON; otherwise it flies the reference along +x. With -listen it also
// serves meshes to a local viewer until interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/config"
)

func main() {
	cfg := config.Default()

	configPath := flag.String("config", "", "YAML configuration file")
	scriptPath := flag.String("script", "", "terrain script to run instead of flying")
	ticks := flag.Int("ticks", 64, "ticks to fly when no script is given")
	verbose := flag.Bool("v", false, "debug logging")
	flag.StringVar(&cfg.Viewer.Listen, "listen", cfg.Viewer.Listen, "loopback address for the mesh viewer")
	flag.StringVar(&cfg.Kernel.Backend, "kernel", cfg.Kernel.Backend, "marching cubes backend: cpu, pool or gpu")
	flag.IntVar(&cfg.Kernel.Workers, "workers", cfg.Kernel.Workers, "worker count, 0 for one per CPU")
	flag.Int64Var(&cfg.Noise.Seed, "seed", cfg.Noise.Seed, "noise seed")
	flag.Parse()

	if *verbose {
		cfg.LogLevel = "debug"
	}
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			boot.Error("load config", "error", err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		boot.Error("invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	log.Info("starting", "config", cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("startup", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	app.startup(ctx)

	serveErr := make(chan error, 1)
	if v := app.Viewer(); v != nil {
		go func() { serveErr <- v.ListenAndServe(ctx, cfg.Viewer.Listen) }()
	}

	if err := run(ctx, app, log, *scriptPath, *ticks); err != nil {
		log.Error("run", "error", err)
		app.Close()
		os.Exit(1)
	}

	if app.Viewer() != nil {
		log.Info("serving meshes until interrupted", "addr", cfg.Viewer.Listen)
		if err := <-serveErr; err != nil {
			log.Error("viewer", "error", err)
			app.Close()
			os.Exit(1)
		}
	}
}

func run(ctx context.Context, app *App, log *slog.Logger, scriptPath string, ticks int) error {
	if scriptPath == "" {
		w, _ := app.Terrain().ChunkSize()
		err := app.Fly(ctx, ticks, mgl32.Vec3{float32(w) / 8, 0, 0})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	res := app.Evaluate(string(src))
	for _, w := range res.Warnings {
		log.Warn("script", "warning", w.Message)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			log.Error("script", "line", e.Line, "message", e.Message)
		}
		return errors.New("script failed")
	}

	// Meshes are for the viewer; stdout gets the summary.
	summary := res
	summary.Meshes = nil
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
