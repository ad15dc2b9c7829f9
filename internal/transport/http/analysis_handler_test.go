package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/internal/config"
	apierrors "tscheck/internal/errors"
	"tscheck/internal/services"
)

const sampleCSV = `Date,Close
2024-01-01,100
2024-01-01,101
2024-01-02,102
2024-01-04,200
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) (chi.Router, *services.AnalysisService) {
	t.Helper()

	logger := testLogger()
	service := services.NewAnalysisService(config.Default(), logger, nil, nil)
	handler := NewAnalysisHandler(service, logger, apierrors.NewErrorHandler(logger, false), 0)

	r := chi.NewRouter()
	r.Mount("/api/analysis", handler.Routes())
	return r, service
}

// uploadRequest builds a multipart POST with the given file content and
// extra form fields.
func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func createAnalysis(t *testing.T, router chi.Router) string {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "prices.csv", sampleCSV, map[string]string{
		"frequency": config.FrequencyCalendarDay,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestCreateAnalysis(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "prices.csv", sampleCSV, map[string]string{
		"frequency": config.FrequencyCalendarDay,
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Report   struct {
			Counts map[string]int `json:"counts"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "prices.csv", resp.Filename)
	assert.Equal(t, 1, resp.Report.Counts["duplicate_date"])
	assert.Equal(t, 1, resp.Report.Counts["missing_date"])
}

func TestCreateAnalysis_MissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "", "", map[string]string{"frequency": "auto"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestCreateAnalysis_InvalidFrequency(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "prices.csv", sampleCSV, map[string]string{
		"frequency": "hourly",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "frequency")
}

func TestCreateAnalysis_NonNumericOverride(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "prices.csv", sampleCSV, map[string]string{
		"iqr_multiplier": "lots",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "iqr_multiplier")
}

func TestCreateAnalysis_EmptyFile(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "empty.csv", "", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetAnalysis(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/"+id, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestListAnalyses(t *testing.T) {
	router, _ := newTestRouter(t)
	createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestFindings_FilterByKind(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/findings?kind=duplicate_date", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count    int `json:"count"`
		Findings []struct {
			Kind string `json:"kind"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "duplicate_date", resp.Findings[0].Kind)
}

func TestFindings_InvalidKind(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/findings?kind=weird", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "kind")
}

func TestSeries_AnnotatedColumn(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/series/Close", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Column string `json:"column"`
		Count  int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Close", resp.Column)
	assert.Equal(t, 4, resp.Count)
}

func TestSeries_UnknownColumn(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/series/Volume", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_TextDownload(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/export?format=text", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "FINDINGS")
}

func TestExport_SeriesCSVDownload(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/export?format=series-csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "date,Close"), "series header first: %q", body)
	assert.Contains(t, body, "2024-01-04")
	// Normalized rows, not the findings table.
	assert.NotContains(t, body, "duplicate")
}

func TestExport_UnknownFormat(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createAnalysis(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/"+id+"/export?format=pdf", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_UnknownID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/analysis/nope/export?format=csv", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
