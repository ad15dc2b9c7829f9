package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tscheck/internal/config"
	"tscheck/internal/exporter"
	"tscheck/internal/infrastructure"
	"tscheck/internal/ingest"
	"tscheck/internal/quality"
	"tscheck/internal/series"
)

func main() {
	input := flag.String("input", "", "path to a csv or xlsx file (required)")
	frequency := flag.String("frequency", "", "expected frequency: calendar-day | business-day | auto")
	iqrMultiplier := flag.Float64("iqr-multiplier", 0, "IQR fence multiplier for outlier detection")
	jumpThreshold := flag.Float64("jump-threshold", 0, "fractional change flagged as a price jump")
	trendWindow := flag.Int("trend-window", 0, "moving average window for trend estimation")
	format := flag.String("format", "text", "output format: text | csv | json | series-csv")
	out := flag.String("out", "", "write the report to a file instead of stdout")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -input <file.csv|file.xlsx> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	// Keep stdout clean for the report itself.
	cfg.Logging.Output = "stderr"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	reportFormat, err := exporter.ParseFormat(*format)
	if err != nil {
		logger.Error("invalid format", slog.String("error", err.Error()))
		os.Exit(2)
	}

	analysisCfg := cfg.Analysis
	if *frequency != "" {
		analysisCfg.Frequency = *frequency
	}
	if *iqrMultiplier > 0 {
		analysisCfg.IQRMultiplier = *iqrMultiplier
	}
	if *jumpThreshold > 0 {
		analysisCfg.JumpThreshold = *jumpThreshold
	}
	if *trendWindow > 0 {
		analysisCfg.TrendWindow = *trendWindow
	}

	if err := run(*input, *out, reportFormat, analysisCfg, logger); err != nil {
		logger.Error("analysis failed",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(input, out string, format exporter.Format, cfg config.AnalysisConfig, logger *slog.Logger) error {
	table, err := ingest.Load(input, logger)
	if err != nil {
		return err
	}

	s, err := series.Normalize(table, logger)
	if err != nil {
		return err
	}

	report, err := quality.Analyze(context.Background(), s, quality.Config{
		Frequency:      cfg.Frequency,
		IQRMultiplier:  cfg.IQRMultiplier,
		JumpThreshold:  cfg.JumpThreshold,
		TrendWindow:    cfg.TrendWindow,
		MaxConcurrency: cfg.MaxConcurrency,
	}, logger)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == exporter.FormatSeriesCSV {
		if err := exporter.WriteSeriesCSV(w, s, exporter.CSVOptions{}); err != nil {
			return err
		}
	} else if err := exporter.Write(w, format, report); err != nil {
		return err
	}

	logger.Info("analysis complete",
		slog.String("input", input),
		slog.Int("rows", report.Summary.RowCount),
		slog.Int("findings", len(report.Findings)))
	return nil
}
