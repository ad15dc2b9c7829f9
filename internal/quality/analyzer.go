package quality

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"tscheck/internal/errors"
	"tscheck/internal/series"
)

// Analyze runs the full detection suite over a normalized series and merges
// the results into one report.
//
// Duplicate and gap detection are whole-series passes and run inline. The
// per-column passes (outliers, jumps, distribution, consistency, trend) are
// independent and run concurrently, bounded by cfg.MaxConcurrency; each
// allocates its own finding slice, merged afterward. A column with too few
// non-null values for the outlier pass degrades to a noted skip instead of
// failing the run.
//
// The context is checked between phases; detectors themselves are pure.
func Analyze(ctx context.Context, s *series.Series, cfg Config, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewAppValidationError(err.Error())
	}
	if s == nil || s.Len() == 0 {
		return nil, errors.NewEmptyInputError("series contains no observations")
	}

	logger.InfoContext(ctx, "starting quality analysis",
		slog.Int("rows", s.Len()),
		slog.Int("columns", len(s.Columns)),
		slog.String("frequency", cfg.Frequency))

	findings := DetectDuplicates(s)
	findings = append(findings, DetectGaps(s, cfg.Frequency)...)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	report := &Report{
		Summary: SeriesSummary{
			RowCount:  s.Len(),
			StartDate: s.Start(),
			EndDate:   s.End(),
			Columns:   s.Columns,
		},
		Distribution: make(map[string]ColumnDistribution, len(s.Columns)),
		Consistency:  make(map[string]ColumnConsistency, len(s.Columns)),
		Trend:        make(map[string]ColumnTrend, len(s.Columns)),
	}

	// Per-column passes: all inputs are read-only, so the only lock guards
	// the merged output.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)

	for _, column := range s.Columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			columnFindings, err := DetectOutliers(s, column, cfg.IQRMultiplier)
			var skip *ColumnSkip
			if err != nil {
				if !errors.IsInsufficientDataError(err) {
					return err
				}
				logger.WarnContext(gctx, "outlier pass skipped",
					slog.String("column", column),
					slog.String("reason", err.Error()))
				skip = &ColumnSkip{Column: column, Check: "outlier", Reason: err.Error()}
			}
			columnFindings = append(columnFindings, DetectJumps(s, column, cfg.JumpThreshold)...)

			dist := Distribution(s, column)
			cons := Consistency(s, column)
			trend := Trend(s, column, cfg.TrendWindow)

			mu.Lock()
			defer mu.Unlock()
			findings = append(findings, columnFindings...)
			if skip != nil {
				report.Skips = append(report.Skips, *skip)
			}
			report.Distribution[column] = dist
			report.Consistency[column] = cons
			report.Trend[column] = trend
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortFindings(findings)
	report.Findings = findings
	sort.Slice(report.Skips, func(i, j int) bool {
		return report.Skips[i].Column < report.Skips[j].Column
	})

	report.Counts = make(map[FindingKind]int, len(Kinds()))
	for _, kind := range Kinds() {
		report.Counts[kind] = 0
	}
	for _, f := range findings {
		report.Counts[f.Kind]++
	}

	logger.InfoContext(ctx, "quality analysis completed",
		slog.Int("findings", len(findings)),
		slog.Int("duplicate_dates", report.Counts[KindDuplicateDate]),
		slog.Int("missing_dates", report.Counts[KindMissingDate]),
		slog.Int("outliers", report.Counts[KindOutlier]),
		slog.Int("price_jumps", report.Counts[KindPriceJump]),
		slog.Int("skipped_columns", len(report.Skips)))

	return report, nil
}

// sortFindings orders findings by (date, kind, column) for a deterministic
// report.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if !findings[i].Date.Equal(findings[j].Date) {
			return findings[i].Date.Before(findings[j].Date)
		}
		if kindSortRank[findings[i].Kind] != kindSortRank[findings[j].Kind] {
			return kindSortRank[findings[i].Kind] < kindSortRank[findings[j].Kind]
		}
		return findings[i].Column < findings[j].Column
	})
}

// Annotate derives the chart-ready sequence for one column: every
// observation's (date, value) plus whether a finding flags that timestamp
// for this column. Whole-series findings (duplicates, gaps) flag the
// timestamp for every column; gap findings have no observation to annotate
// and are therefore not represented as points.
func Annotate(s *series.Series, column string, findings []Finding) []AnnotatedPoint {
	type flagKey struct {
		date   int64
		column string
	}
	flags := make(map[flagKey][]FindingKind)
	for _, f := range findings {
		if f.Kind == KindMissingDate {
			continue
		}
		flags[flagKey{f.Date.Unix(), f.Column}] = append(flags[flagKey{f.Date.Unix(), f.Column}], f.Kind)
	}

	values := s.Column(column)
	points := make([]AnnotatedPoint, len(values))
	for i, obs := range s.Observations {
		kinds := append([]FindingKind(nil), flags[flagKey{obs.Date.Unix(), column}]...)
		kinds = append(kinds, flags[flagKey{obs.Date.Unix(), ""}]...)
		points[i] = AnnotatedPoint{
			Date:    obs.Date,
			Value:   optionalFloat(values[i]),
			Flagged: len(kinds) > 0,
			Kinds:   kinds,
		}
	}
	return points
}
