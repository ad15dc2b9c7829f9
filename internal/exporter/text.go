package exporter

import (
	"fmt"
	"io"
	"strings"

	"tscheck/internal/quality"
)

const dateLayout = "2006-01-02"

// WriteText renders the human-readable quality report.
func WriteText(w io.Writer, report *quality.Report) error {
	var b strings.Builder

	b.WriteString("TIME SERIES QUALITY REPORT\n")
	b.WriteString("==========================\n\n")

	b.WriteString(fmt.Sprintf("Rows:     %d\n", report.Summary.RowCount))
	b.WriteString(fmt.Sprintf("Range:    %s to %s\n",
		report.Summary.StartDate.Format(dateLayout),
		report.Summary.EndDate.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Columns:  %s\n\n", strings.Join(report.Summary.Columns, ", ")))

	b.WriteString(fmt.Sprintf("FINDINGS (%d)\n", len(report.Findings)))
	for _, kind := range quality.Kinds() {
		b.WriteString(fmt.Sprintf("  %-16s %d\n", kind, report.Counts[kind]))
	}
	b.WriteString("\n")

	for _, f := range report.Findings {
		column := f.Column
		if column == "" {
			column = "-"
		}
		b.WriteString(fmt.Sprintf("  %s  %-16s %-12s %s\n",
			f.Date.Format(dateLayout), f.Kind, column, f.Detail))
	}
	if len(report.Findings) > 0 {
		b.WriteString("\n")
	}

	if len(report.Skips) > 0 {
		b.WriteString("SKIPPED CHECKS\n")
		for _, skip := range report.Skips {
			b.WriteString(fmt.Sprintf("  %s/%s: %s\n", skip.Column, skip.Check, skip.Reason))
		}
		b.WriteString("\n")
	}

	b.WriteString("COLUMN STATISTICS\n")
	for _, column := range report.Summary.Columns {
		dist, ok := report.Distribution[column]
		if !ok {
			continue
		}
		cons := report.Consistency[column]
		trend := report.Trend[column]

		b.WriteString(fmt.Sprintf("  %s\n", column))
		b.WriteString(fmt.Sprintf("    count=%d nulls=%d mean=%s median=%s std=%s min=%s max=%s\n",
			dist.Count, dist.NullCount,
			formatFloat(dist.Mean), formatFloat(dist.Median), formatFloat(dist.StdDev),
			formatFloat(dist.Min), formatFloat(dist.Max)))
		b.WriteString(fmt.Sprintf("    skewness=%s kurtosis=%s\n",
			formatOptional(dist.Skewness), formatOptional(dist.Kurtosis)))
		b.WriteString(fmt.Sprintf("    zeroes=%d negatives=%d null_ratio=%.2f constant=%t\n",
			cons.ZeroCount, cons.NegativeCount, cons.NullRatio, cons.Constant))
		b.WriteString(fmt.Sprintf("    trend=%s (window %d)\n", trend.Direction, trend.Window))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
