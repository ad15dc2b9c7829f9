package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tscheck/internal/config"
	"tscheck/internal/errors"
	"tscheck/internal/exporter"
	"tscheck/internal/infrastructure"
	"tscheck/internal/ingest"
	"tscheck/internal/quality"
	"tscheck/internal/series"
	"tscheck/pkg/contracts/events"
)

// EventBroadcaster publishes analysis lifecycle events to connected clients.
// The WebSocket hub implements it; a nil broadcaster disables notifications.
type EventBroadcaster interface {
	BroadcastEvent(msgType events.MessageType, event events.AnalysisEvent)
}

// Analysis is one stored analysis run: the report plus the normalized series
// it was computed from.
type Analysis struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	CreatedAt time.Time       `json:"created_at"`
	Config    quality.Config  `json:"config"`
	Report    *quality.Report `json:"report"`

	// Series backs the annotated-series and series-export endpoints; it is
	// not part of the report payload.
	Series *series.Series `json:"-"`
}

// AnalysisService runs analyses and stores their reports in memory.
type AnalysisService struct {
	cfg         *config.Config
	logger      *slog.Logger
	broadcaster EventBroadcaster
	metrics     *infrastructure.AnalysisMetrics

	mu       sync.RWMutex
	analyses map[string]*Analysis
}

// NewAnalysisService creates the service. broadcaster and metrics may be nil.
func NewAnalysisService(cfg *config.Config, logger *slog.Logger, broadcaster EventBroadcaster, metrics *infrastructure.AnalysisMetrics) *AnalysisService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:         cfg,
		logger:      infrastructure.WithComponent(logger, "analysis_service"),
		broadcaster: broadcaster,
		metrics:     metrics,
		analyses:    make(map[string]*Analysis),
	}
}

// Analyze ingests the uploaded file, runs the detection suite and stores the
// resulting report. Request overrides with zero values fall back to the
// configured defaults.
func (s *AnalysisService) Analyze(ctx context.Context, r io.Reader, filename string, overrides quality.Config) (*Analysis, error) {
	id := uuid.New().String()
	started := time.Now()

	cfg := s.effectiveConfig(overrides)

	s.logger.InfoContext(ctx, "analysis started",
		slog.String("analysis_id", id),
		slog.String("filename", filename),
		slog.String("frequency", cfg.Frequency))

	s.notify(events.MessageTypeAnalysisStarted, events.AnalysisEvent{
		AnalysisID: id,
		Filename:   filename,
		Status:     "running",
		StartedAt:  started,
		UpdatedAt:  started,
	})
	if s.metrics != nil {
		s.metrics.ActiveAnalyses.Add(ctx, 1)
		defer s.metrics.ActiveAnalyses.Add(ctx, -1)
	}

	analysis, err := s.run(ctx, r, filename, cfg)

	rows := 0
	findingsByKind := map[string]int(nil)
	if analysis != nil {
		rows = analysis.Report.Summary.RowCount
		findingsByKind = make(map[string]int, len(analysis.Report.Counts))
		for kind, count := range analysis.Report.Counts {
			findingsByKind[string(kind)] = count
		}
	}
	infrastructure.RecordAnalysisRun(ctx, s.metrics, time.Since(started), rows, findingsByKind, err)

	if err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "analysis failed",
			slog.String("analysis_id", id),
			slog.String("filename", filename))
		s.notify(events.MessageTypeAnalysisFailed, events.AnalysisEvent{
			AnalysisID: id,
			Filename:   filename,
			Status:     "failed",
			Error:      err.Error(),
			StartedAt:  started,
			UpdatedAt:  time.Now(),
		})
		return nil, err
	}

	analysis.ID = id
	analysis.CreatedAt = started

	s.mu.Lock()
	s.analyses[id] = analysis
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("analysis_id", id),
		slog.Int("rows", rows),
		slog.Int("findings", len(analysis.Report.Findings)),
		slog.Duration("duration", time.Since(started)))

	s.notify(events.MessageTypeAnalysisCompleted, events.AnalysisEvent{
		AnalysisID: id,
		Filename:   filename,
		Status:     "completed",
		RowCount:   rows,
		Findings:   len(analysis.Report.Findings),
		StartedAt:  started,
		UpdatedAt:  time.Now(),
	})

	return analysis, nil
}

// run performs the ingest, normalize and detect phases.
func (s *AnalysisService) run(ctx context.Context, r io.Reader, filename string, cfg quality.Config) (*Analysis, error) {
	table, err := ingest.LoadReader(r, filename, s.logger)
	if err != nil {
		return nil, err
	}

	normalized, err := series.Normalize(table, s.logger)
	if err != nil {
		return nil, err
	}

	report, err := quality.Analyze(ctx, normalized, cfg, s.logger)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Filename: filename,
		Config:   cfg,
		Report:   report,
		Series:   normalized,
	}, nil
}

// effectiveConfig merges request overrides onto the configured defaults.
func (s *AnalysisService) effectiveConfig(overrides quality.Config) quality.Config {
	cfg := quality.Config{
		Frequency:      s.cfg.Analysis.Frequency,
		IQRMultiplier:  s.cfg.Analysis.IQRMultiplier,
		JumpThreshold:  s.cfg.Analysis.JumpThreshold,
		TrendWindow:    s.cfg.Analysis.TrendWindow,
		MaxConcurrency: s.cfg.Analysis.MaxConcurrency,
	}
	if overrides.Frequency != "" {
		cfg.Frequency = overrides.Frequency
	}
	if overrides.IQRMultiplier != 0 {
		cfg.IQRMultiplier = overrides.IQRMultiplier
	}
	if overrides.JumpThreshold != 0 {
		cfg.JumpThreshold = overrides.JumpThreshold
	}
	if overrides.TrendWindow != 0 {
		cfg.TrendWindow = overrides.TrendWindow
	}
	return cfg
}

// Get returns the stored analysis for id.
func (s *AnalysisService) Get(id string) (*Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	analysis, ok := s.analyses[id]
	if !ok {
		return nil, errors.NewNotFoundError("analysis " + id)
	}
	return analysis, nil
}

// List returns all stored analyses, newest first.
func (s *AnalysisService) List() []*Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Findings returns an analysis's findings filtered by kind and/or column.
// Empty filter values match everything.
func (s *AnalysisService) Findings(id string, kind quality.FindingKind, column string) ([]quality.Finding, error) {
	analysis, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return analysis.Report.FindingsFor(kind, column), nil
}

// AnnotatedSeries returns the chart-ready point sequence for one column.
func (s *AnalysisService) AnnotatedSeries(id, column string) ([]quality.AnnotatedPoint, error) {
	analysis, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !analysis.Series.HasColumn(column) {
		return nil, errors.NewNotFoundError("column " + column)
	}
	return quality.Annotate(analysis.Series, column, analysis.Report.Findings), nil
}

// Export writes an analysis's report to w in the requested format. The
// series-csv format writes the normalized series instead of the report.
func (s *AnalysisService) Export(w io.Writer, id string, format exporter.Format) error {
	analysis, err := s.Get(id)
	if err != nil {
		return err
	}
	if format == exporter.FormatSeriesCSV {
		return exporter.WriteSeriesCSV(w, analysis.Series, exporter.CSVOptions{})
	}
	return exporter.Write(w, format, analysis.Report)
}

func (s *AnalysisService) notify(msgType events.MessageType, event events.AnalysisEvent) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastEvent(msgType, event)
}
