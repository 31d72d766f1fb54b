// Command capmesh meshes a board description and routes its connections.
//
//	capmesh -input board.json [-config tuning.json] [-cache cache.db] [-out result.json] [-v]
//
// The result (mesh leaves, edges and one capacity path per connection) is
// written as JSON to -out, or to stdout when -out is empty.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/capmesh/cache"
	"github.com/katalvlaran/capmesh/config"
	"github.com/katalvlaran/capmesh/router"
)

// maxInputSize bounds the board file.
const maxInputSize = 16 << 20

func main() {
	var (
		inputPath  = flag.String("input", "", "Path to the board JSON (required)")
		configPath = flag.String("config", "", "Path to a tuning JSON file")
		cachePath  = flag.String("cache", "", "SQLite result cache; empty keeps results in memory")
		outPath    = flag.String("out", "", "Write the result here instead of stdout")
		timeout    = flag.Duration("timeout", 0, "Abort routing after this long (0 disables)")
		verbose    = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := zap.NewProductionConfig()
	if *verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "capmesh: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *inputPath == "" {
		logger.Fatal("-input is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if err := run(ctx, logger, *inputPath, *configPath, *cachePath, *outPath); err != nil {
		logger.Fatal("route failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, inputPath, configPath, cachePath, outPath string) error {
	tuning := config.Default()
	if configPath != "" {
		t, err := config.Load(configPath)
		if err != nil {
			return err
		}
		tuning = t
	}

	in, err := readInput(inputPath)
	if err != nil {
		return err
	}

	var provider cache.Provider = cache.NewMemory()
	if cachePath != "" {
		db, err := cache.OpenSQLite(cachePath, cache.WithLogger(logger))
		if err != nil {
			return err
		}
		defer db.Close()
		provider = db
	}

	r, err := router.New(
		router.WithTuning(tuning),
		router.WithCache(provider),
		router.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := r.Route(ctx, in)
	if err != nil {
		return err
	}
	logger.Info("done",
		zap.String("run_id", res.RunID),
		zap.Bool("cached", res.Cached),
		zap.Duration("elapsed", time.Since(start)))

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readInput(path string) (router.Input, error) {
	var in router.Input
	f, err := os.Open(path)
	if err != nil {
		return in, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(io.LimitReader(f, maxInputSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("parse input %s: %w", path, err)
	}
	return in, nil
}
