package quality

import (
	"fmt"
	"time"

	"tscheck/internal/config"
)

// FindingKind identifies the detector that produced a finding.
type FindingKind string

const (
	// KindDuplicateDate marks a timestamp that occurs more than once.
	KindDuplicateDate FindingKind = "duplicate_date"
	// KindMissingDate marks an expected timestamp absent from the series.
	KindMissingDate FindingKind = "missing_date"
	// KindOutlier marks a value outside the IQR fence for its column.
	KindOutlier FindingKind = "outlier"
	// KindPriceJump marks an abnormal period-over-period percentage change.
	KindPriceJump FindingKind = "price_jump"
)

// Kinds lists every finding kind in report order.
func Kinds() []FindingKind {
	return []FindingKind{KindDuplicateDate, KindMissingDate, KindOutlier, KindPriceJump}
}

// Finding is one discrete, typed quality defect detected at a specific
// timestamp. Immutable, produced by exactly one detector.
type Finding struct {
	Kind      FindingKind `json:"kind"`
	Column    string      `json:"column,omitempty"`
	Date      time.Time   `json:"date"`
	Magnitude float64     `json:"magnitude"`
	Detail    string      `json:"detail"`
}

// SeriesSummary describes the analyzed series for the report header.
type SeriesSummary struct {
	RowCount  int       `json:"row_count"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Columns   []string  `json:"columns"`
}

// ColumnSkip notes a per-column statistical pass that was skipped instead of
// failing the run, e.g. too few non-null values for quartile estimation.
type ColumnSkip struct {
	Column string `json:"column"`
	Check  string `json:"check"`
	Reason string `json:"reason"`
}

// ColumnDistribution summarizes the value distribution of one column over
// its non-null values. Skewness and Kurtosis are nil when undefined (fewer
// than two values or zero variance).
type ColumnDistribution struct {
	Count     int      `json:"count"`
	NullCount int      `json:"null_count"`
	Mean      float64  `json:"mean"`
	Median    float64  `json:"median"`
	StdDev    float64  `json:"std_dev"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Skewness  *float64 `json:"skewness,omitempty"`
	Kurtosis  *float64 `json:"kurtosis,omitempty"`
}

// ColumnConsistency carries the informational per-column sanity counts.
// These are reported, not emitted as findings.
type ColumnConsistency struct {
	ZeroCount     int     `json:"zero_count"`
	NegativeCount int     `json:"negative_count"`
	NullCount     int     `json:"null_count"`
	NullRatio     float64 `json:"null_ratio"`
	Constant      bool    `json:"constant"`
}

// TrendDirection is the coarse direction of a column's moving average.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendFlat    TrendDirection = "flat"
	TrendUnknown TrendDirection = "unknown"
)

// ColumnTrend is the moving-average trend summary for one column. The MA
// sequence aligns 1:1 with the series timestamps; entries whose window
// contains any null are nil.
type ColumnTrend struct {
	Window        int            `json:"window"`
	MovingAverage []*float64     `json:"moving_average"`
	FirstMA       *float64       `json:"first_ma,omitempty"`
	LastMA        *float64       `json:"last_ma,omitempty"`
	Direction     TrendDirection `json:"direction"`
}

// Report is the immutable result of one analysis run. Findings are sorted
// by (date, kind); Counts carries the per-kind totals including zeroes.
type Report struct {
	Summary      SeriesSummary                 `json:"summary"`
	Findings     []Finding                     `json:"findings"`
	Counts       map[FindingKind]int           `json:"counts"`
	Skips        []ColumnSkip                  `json:"skips,omitempty"`
	Distribution map[string]ColumnDistribution `json:"distribution"`
	Consistency  map[string]ColumnConsistency  `json:"consistency"`
	Trend        map[string]ColumnTrend        `json:"trend"`
}

// FindingsFor returns the report's findings filtered by kind and/or column.
// Empty filter values match everything.
func (r *Report) FindingsFor(kind FindingKind, column string) []Finding {
	filtered := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if kind != "" && f.Kind != kind {
			continue
		}
		if column != "" && f.Column != column {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

// AnnotatedPoint is one chart-ready point: the normalized value at a
// timestamp plus whether any finding flags it. Value is nil for null
// observations. The chart layer performs no analysis of its own.
type AnnotatedPoint struct {
	Date    time.Time     `json:"date"`
	Value   *float64      `json:"value"`
	Flagged bool          `json:"flagged"`
	Kinds   []FindingKind `json:"kinds,omitempty"`
}

// Config carries the detection thresholds for one analysis run.
type Config struct {
	// Frequency is the expected step between observations: calendar-day,
	// business-day, or auto to infer it from the data.
	Frequency string `json:"frequency"`
	// IQRMultiplier widens the outlier fence: [Q1 - k*IQR, Q3 + k*IQR].
	IQRMultiplier float64 `json:"iqr_multiplier"`
	// JumpThreshold is the fractional change above which a period-over-period
	// move is flagged. Strictly greater-than; equality is not flagged.
	JumpThreshold float64 `json:"jump_threshold"`
	// TrendWindow is the moving-average window for the trend summary.
	TrendWindow int `json:"trend_window"`
	// MaxConcurrency bounds the number of per-column passes running at once.
	MaxConcurrency int `json:"-"`
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		Frequency:      config.FrequencyAuto,
		IQRMultiplier:  1.5,
		JumpThreshold:  0.05,
		TrendWindow:    30,
		MaxConcurrency: 4,
	}
}

// Validate checks the configuration, filling zero values with defaults.
func (c *Config) Validate() error {
	if c.Frequency == "" {
		c.Frequency = config.FrequencyAuto
	}
	switch c.Frequency {
	case config.FrequencyCalendarDay, config.FrequencyBusinessDay, config.FrequencyAuto:
	default:
		return fmt.Errorf("invalid frequency: %q", c.Frequency)
	}

	if c.IQRMultiplier == 0 {
		c.IQRMultiplier = 1.5
	}
	if c.IQRMultiplier < 0 {
		return fmt.Errorf("iqr multiplier must be positive, got %v", c.IQRMultiplier)
	}

	if c.JumpThreshold == 0 {
		c.JumpThreshold = 0.05
	}
	if c.JumpThreshold < 0 {
		return fmt.Errorf("jump threshold must be positive, got %v", c.JumpThreshold)
	}

	if c.TrendWindow == 0 {
		c.TrendWindow = 30
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("trend window must be at least 2, got %d", c.TrendWindow)
	}

	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}

	return nil
}

// kindSortRank orders findings of equal timestamp deterministically.
var kindSortRank = map[FindingKind]int{
	KindDuplicateDate: 0,
	KindMissingDate:   1,
	KindOutlier:       2,
	KindPriceJump:     3,
}
