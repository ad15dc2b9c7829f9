// Package api contains the API contract definitions for the analysis server.
// Version v1 is the current stable API version.
package api

// AnalysisRequest carries the configuration fields of an analysis upload.
// The file itself arrives as the multipart "file" part.
type AnalysisRequest struct {
	Frequency     string  `json:"frequency" form:"frequency" validate:"omitempty,frequency"`
	IQRMultiplier float64 `json:"iqr_multiplier" form:"iqr_multiplier" validate:"omitempty,gt=0"`
	JumpThreshold float64 `json:"jump_threshold" form:"jump_threshold" validate:"omitempty,gt=0"`
	TrendWindow   int     `json:"trend_window" form:"trend_window" validate:"omitempty,min=2"`
}

// FindingsQuery filters a report's finding list.
type FindingsQuery struct {
	Kind   string `json:"kind" query:"kind" validate:"omitempty,oneof=duplicate_date missing_date outlier price_jump"`
	Column string `json:"column" query:"column"`
}

// ExportQuery selects a report download format.
type ExportQuery struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=text csv json series-csv"`
}
