package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"prefecture-growth/internal/growth"
	"prefecture-growth/internal/store"
)

const dbTimeout = 12 * time.Second

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		exitWith(err.Error())
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		exitWith(err.Error())
	}
	defer logger.Sync()

	if err := run(cfg, logger, os.Stdout); err != nil {
		exitWith(err.Error())
	}
}

func exitWith(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	os.Exit(1)
}

func run(cfg Config, logger *zap.Logger, out io.Writer) error {
	opts := cfg.growthOptions()
	report, err := loadReport(cfg.Input, opts, logger)
	if err != nil {
		return err
	}

	printRanking(out, report, opts, cfg.Output.Top)

	if cfg.Output.JSON != "" {
		if err := writeJSON(cfg.Output.JSON, summarize(report, cfg.Input, opts)); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nJSON written to %s\n", cfg.Output.JSON)
	}

	if cfg.Database.Enabled {
		runID, err := storeReport(cfg, report, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStored ranking run (run_id=%s)\n", runID)
	}
	return nil
}

func loadReport(path string, opts growth.Options, logger *zap.Logger) (*growth.Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CSV: %w", err)
	}
	defer file.Close()

	report, err := growth.Run(file, opts, growth.WithLogger(logger.Named("growth")))
	if err != nil {
		return nil, fmt.Errorf("unable to rank %s: %w", path, err)
	}
	logger.Debug("ranking complete",
		zap.String("input", path),
		zap.Int("lines", report.Stats.Lines),
		zap.Int("regions", report.Stats.Regions))
	return report, nil
}

func storeReport(cfg Config, report *growth.Report, logger *zap.Logger) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	s, err := store.Open(ctx, cfg.storeConfig())
	if err != nil {
		return "", err
	}
	defer s.Close()

	runID, err := s.SaveRun(ctx, store.Run{
		Tag:     cfg.Database.Tag,
		Source:  cfg.Input,
		Options: cfg.growthOptions(),
		Report:  report,
	})
	if err != nil {
		return "", fmt.Errorf("unable to store ranking run: %w", err)
	}
	logger.Info("stored ranking run",
		zap.String("driver", cfg.Database.Driver),
		zap.Stringer("run_id", runID),
		zap.Int("rankings", len(report.Entries)))
	return runID.String(), nil
}
