package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/limaJavier/courseplan/pkg/config"
	"github.com/limaJavier/courseplan/pkg/loader"
	"github.com/limaJavier/courseplan/pkg/logger"
	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/limaJavier/courseplan/pkg/report"
	"github.com/limaJavier/courseplan/pkg/scheduler"
	"github.com/viant/afs"
	"go.uber.org/zap"
)

var writers = map[string]func(context.Context, afs.Service, string, report.Report) error{
	"csv":  report.WriteCSV,
	"xlsx": report.WriteXLSX,
}

func main() {
	// Define arguments
	configPtr := flag.String("config", "", "Path to a YAML configuration file; if empty, ./config.yaml is used when present")
	dirPtr := flag.String("dir", "", "Directory (or URL) holding the input CSV files, overrides input.dir")
	bundlePtr := flag.String("bundle", "", "Single JSON or YAML input file (or URL), overrides input.bundle and takes precedence over the CSV directory")
	outPtr := flag.String("out", "", "Directory (or URL) where the reports will be written, overrides output.dir")
	layersPtr := flag.Int("layers", -1, "Highest layer the chain pass may use, overrides scheduler.max_layers")
	debugPtr := flag.Bool("debug", false, "Log every placement and dump the module state")
	flag.Parse()

	// Load configuration and apply overrides
	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if *dirPtr != "" {
		cfg.Input.Dir = *dirPtr
	}
	if *bundlePtr != "" {
		cfg.Input.Bundle = *bundlePtr
	}
	if *outPtr != "" {
		cfg.Output.Dir = *outPtr
	}
	if *layersPtr >= 0 {
		cfg.Scheduler.MaxLayers = *layersPtr
	}
	if *debugPtr {
		cfg.Log.Level = "debug"
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := run(context.Background(), cfg, appLogger, *debugPtr); err != nil {
		appLogger.Error("an error occurred during scheduling", zap.Error(err))
		appLogger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *zap.Logger, debug bool) error {
	fs := afs.New()

	// Extract input
	var rawInput model.RawInput
	var err error
	if cfg.Input.Bundle != "" {
		rawInput, err = loader.LoadBundle(ctx, fs, cfg.Input.Bundle)
	} else {
		rawInput, err = loader.LoadCSV(ctx, fs, cfg.Input.Dir, cfg.Input.Files)
	}
	if err != nil {
		return err
	}

	input, err := model.Build(rawInput, cfg.Scheduler.ModuleCapacity)
	if err != nil {
		return err
	}
	appLogger.Info("input loaded",
		zap.Int("teachers", len(input.Teachers)),
		zap.Int("courses", len(input.Courses)),
		zap.Int("celebrities", len(input.Fixed)),
	)

	// Build schedule
	engine, err := scheduler.New(input, scheduler.WithMaxLayers(cfg.Scheduler.MaxLayers), scheduler.WithLogger(appLogger))
	if err != nil {
		return err
	}

	outcome, err := engine.Run(input.Fixed)
	if err != nil {
		return err
	}

	// Verify schedule correctness
	if err := engine.Verify(); err != nil {
		return err
	}

	bound, err := engine.CoverageBound()
	if err != nil {
		return err
	}

	result := report.Build(engine.Teachers(), engine.Courses(), engine.Modules())
	appLogger.Info("schedule built",
		zap.String("run", outcome.RunId),
		zap.Int("fixed", outcome.Fixed),
		zap.Int("chained", outcome.Chained),
		zap.Int("filled", outcome.Filled),
		zap.Int("layer", outcome.LayerReached),
		zap.Int("unassigned", len(result.Summary.Unassigned)),
		zap.Int("coverage_bound", bound),
	)

	// Write the reports in every configured format
	for _, format := range cfg.Output.Formats {
		if err := writers[format](ctx, fs, cfg.Output.Dir, result); err != nil {
			return err
		}
		appLogger.Info("report written", zap.String("format", format), zap.String("dir", cfg.Output.Dir))
	}

	if debug {
		report.PrintModules(os.Stdout, engine.Modules(), engine.Courses())
	}
	report.PrintSummary(os.Stdout, result)
	return nil
}
