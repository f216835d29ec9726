// Command voxelgen generates the configured chunk grid and writes every
// chunk's per-material meshes as OBJ files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"voxel-terrain/internal/config"
	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/terrain"
)

type options struct {
	configPath   string
	outDir       string
	compress     bool
	workers      int
	seed         int64
	dryRun       bool
	previewPath  string
	previewScale int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to terrain.yaml (defaults when empty)")
	flag.StringVar(&opts.outDir, "out", "out", "output directory for OBJ files")
	flag.BoolVar(&opts.compress, "zstd", false, "zstd-compress OBJ output")
	flag.IntVar(&opts.workers, "workers", 0, "chunk build workers (0 = config or NumCPU)")
	flag.Int64Var(&opts.seed, "seed", 0, "override terrain seed (0 keeps config)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "generate without writing meshes")
	flag.StringVar(&opts.previewPath, "preview", "", "write a top-down surface PNG to this path")
	flag.IntVar(&opts.previewScale, "preview-scale", 4, "pixels per column in the preview")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "voxelgen: %v\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, opts); err != nil {
		log.Error("voxelgen failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Runtime.Workers = opts.workers
	}
	if opts.seed != 0 {
		cfg.Terrain.Seed = opts.seed
	}

	tOpts := []terrain.Option{terrain.WithLogger(log)}
	var sink *objSink
	if !opts.dryRun {
		sink, err = newObjSink(opts.outDir, opts.compress, log)
		if err != nil {
			return err
		}
		tOpts = append(tOpts, terrain.WithSink(sink))
	}

	t, err := terrain.New(cfg, tOpts...)
	if err != nil {
		return err
	}

	if z, ok := t.SurfaceZ(0, 0); ok {
		log.Info("surface at origin", "z", z)
	}

	stats, err := t.GenerateGrid(ctx)
	if err != nil {
		return fmt.Errorf("generate grid: %w", err)
	}

	if sink != nil {
		files, werr := sink.Result()
		if werr != nil {
			return fmt.Errorf("write meshes: %w", werr)
		}
		log.Info("meshes written", "dir", opts.outDir, "files", files, "zstd", opts.compress)
	}
	if opts.previewPath != "" {
		if err := writePreview(opts.previewPath, t, opts.previewScale); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		log.Info("preview written", "path", opts.previewPath)
	}

	log.Info("done",
		"built", stats.Built,
		"meshed", stats.Meshed,
		"triangles", stats.Triangles,
		"elapsed", stats.Elapsed,
		"profile", profiling.TopN(5),
	)
	return nil
}
