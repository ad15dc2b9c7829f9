package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "tscheck/internal/errors"
	"tscheck/internal/exporter"
	"tscheck/internal/infrastructure"
	"tscheck/internal/middleware"
	"tscheck/internal/quality"
	"tscheck/internal/services"
	api "tscheck/pkg/contracts/api/v1"
)

const defaultMaxUpload = 32 << 20

// AnalysisHandler handles analysis HTTP requests with RFC 7807 compliance.
type AnalysisHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	maxUpload    int64
}

// NewAnalysisHandler creates a new analysis handler. maxUpload bounds the
// accepted multipart body size; zero or negative selects the default.
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *AnalysisHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &AnalysisHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "analysis_handler"),
		errorHandler: errorHandler,
		validate:     middleware.NewValidator(),
		maxUpload:    maxUpload,
	}
}

// Routes returns the analysis routes following chi patterns.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/findings", h.Findings)
		r.Get("/series/{column}", h.Series)
		r.Get("/export", h.Export)
	})

	return r
}

// Create handles POST /api/analysis. The request is a multipart form with a
// "file" part (CSV or XLSX) and optional configuration fields.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file",
			"request must be multipart/form-data with a file part"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file",
			"a csv or xlsx file is required"))
		return
	}
	defer file.Close()

	req, err := h.parseRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	h.logger.InfoContext(r.Context(), "analysis requested",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	analysis, err := h.service.Analyze(r.Context(), file, header.Filename, quality.Config{
		Frequency:     req.Frequency,
		IQRMultiplier: req.IQRMultiplier,
		JumpThreshold: req.JumpThreshold,
		TrendWindow:   req.TrendWindow,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("filename", header.Filename),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, analysis)
}

// List handles GET /api/analysis.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	analyses := h.service.List()
	render.JSON(w, r, map[string]interface{}{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// Get handles GET /api/analysis/{id}.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, analysis)
}

// Findings handles GET /api/analysis/{id}/findings with optional kind and
// column query filters.
func (h *AnalysisHandler) Findings(w http.ResponseWriter, r *http.Request) {
	q := api.FindingsQuery{
		Kind:   r.URL.Query().Get("kind"),
		Column: r.URL.Query().Get("column"),
	}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	findings, err := h.service.Findings(chi.URLParam(r, "id"), quality.FindingKind(q.Kind), q.Column)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"findings": findings,
		"count":    len(findings),
	})
}

// Series handles GET /api/analysis/{id}/series/{column}, returning the
// normalized column annotated with its findings.
func (h *AnalysisHandler) Series(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	points, err := h.service.AnnotatedSeries(chi.URLParam(r, "id"), column)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"column": column,
		"points": points,
		"count":  len(points),
	})
}

// Export handles GET /api/analysis/{id}/export?format= as a file download.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.service.Get(id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.Filename(id, format)+`"`)
	if err := h.service.Export(w, id, format); err != nil {
		// Headers are already sent. Log and give up on the response.
		h.logger.ErrorContext(r.Context(), "export write failed",
			slog.String("error", err.Error()),
			slog.String("analysis_id", id),
		)
	}
}

// parseRequest reads configuration overrides from the multipart form fields.
func (h *AnalysisHandler) parseRequest(r *http.Request) (api.AnalysisRequest, error) {
	req := api.AnalysisRequest{Frequency: r.FormValue("frequency")}

	if v := r.FormValue("iqr_multiplier"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, apierrors.ErrValidation("iqr_multiplier", "must be a number")
		}
		req.IQRMultiplier = f
	}
	if v := r.FormValue("jump_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, apierrors.ErrValidation("jump_threshold", "must be a number")
		}
		req.JumpThreshold = f
	}
	if v := r.FormValue("trend_window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, apierrors.ErrValidation("trend_window", "must be an integer")
		}
		req.TrendWindow = n
	}
	return req, nil
}

// validationProblem maps validator errors onto a 400 APIError with the
// offending field named in the details.
func validationProblem(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return apierrors.ErrValidation(errs[0].Field(), "failed "+errs[0].Tag()+" validation")
	}
	return apierrors.NewAppValidationError(err.Error())
}
