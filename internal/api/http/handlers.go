package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"energy-audit/internal/analytics/application"
	"energy-audit/internal/analytics/domain/view"
	dataset "energy-audit/internal/dataset/domain"
	"energy-audit/internal/dataset/interfaces/excel"
	"energy-audit/internal/model"
	"energy-audit/internal/observability/metrics"
	"energy-audit/internal/report"
)

// maxUploadBytes bounds the spreadsheet upload size.
const maxUploadBytes = 32 << 20

// DatasetHandler accepts a spreadsheet upload and installs the normalized
// dataset as the current session dataset.
type DatasetHandler struct {
	session *Session
	service *application.Service
}

// NewDatasetHandler constructs a DatasetHandler.
func NewDatasetHandler(session *Session, service *application.Service) *DatasetHandler {
	return &DatasetHandler{session: session, service: service}
}

// ServeHTTP handles POST /api/v1/datasets.
func (h *DatasetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.ObserveUpload(metrics.ResultError, time.Since(start))
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := excel.DecodeWorkbook(file)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultError, time.Since(start))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ds, err := dataset.Normalize(table)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultError, time.Since(start))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.session.Replace(ds)
	h.service.RecordUpload(r.Context(), ds, header.Filename)
	metrics.ObserveUpload(metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"rows":     ds.Len(),
		"mapping":  ds.Mapping(),
		"features": ds.FeatureNames(),
	})
}

// ViewsHandler serves the analytic views as plot-ready JSON.
type ViewsHandler struct {
	session *Session
}

// NewViewsHandler constructs a ViewsHandler.
func NewViewsHandler(session *Session) *ViewsHandler {
	return &ViewsHandler{session: session}
}

// ServeHTTP handles GET /api/v1/views/{loadcurve,chronogram,heatmap,distribution}.
// The load curve takes ?mode=total for the summed variant.
func (h *ViewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/views/")
	ds, ok := h.session.Dataset()
	if !ok {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	var (
		payload any
		err     error
	)
	switch name {
	case "loadcurve":
		if r.URL.Query().Get("mode") == "total" {
			payload, err = view.TotalLoadCurve(ds)
		} else {
			payload, err = view.LoadCurve(ds)
		}
	case "chronogram":
		payload, err = view.Chronogram(ds)
	case "heatmap":
		payload, err = view.HeatMap(ds)
	case "distribution":
		payload, err = view.Distribution(ds)
	default:
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}
	if err != nil {
		metrics.ObserveView(name, metrics.ResultError)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.ObserveView(name, metrics.ResultSuccess)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// FitHandler runs a regression over the current dataset.
type FitHandler struct {
	session *Session
	service *application.Service
}

// NewFitHandler constructs a FitHandler.
func NewFitHandler(session *Session, service *application.Service) *FitHandler {
	return &FitHandler{session: session, service: service}
}

type fitRequest struct {
	Features []string `json:"features"`
	Variant  string   `json:"variant"`
}

type fitResponse struct {
	Result  *model.Result `json:"result"`
	Summary string        `json:"summary"`
}

// ServeHTTP handles POST /api/v1/model/fit.
func (h *FitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ds, ok := h.session.Dataset()
	if !ok {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	variant := model.Variant(req.Variant)
	if variant == "" {
		variant = model.SimpleLinearFit
	}

	fitted, result, err := h.service.FitModel(r.Context(), ds, req.Features, variant)
	if err != nil {
		if errors.Is(err, model.ErrModelFit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "model fit failed", http.StatusInternalServerError)
		return
	}
	h.session.SetFit(fitted, result)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(fitResponse{Result: result, Summary: result.Summary()})
}

// ReportHandler renders a PDF report over the current session.
type ReportHandler struct {
	session *Session
	service *application.Service
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(session *Session, service *application.Service) *ReportHandler {
	return &ReportHandler{session: session, service: service}
}

type reportRequest struct {
	Variant string `json:"variant"`
}

// ServeHTTP handles POST /api/v1/reports.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ds, ok := h.session.Dataset()
	if !ok {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	var req reportRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	variant := report.Variant(req.Variant)
	if variant == "" {
		variant = report.TextSummaryReport
	}

	fit, _ := h.session.Fit()
	data, err := h.service.GenerateReport(r.Context(), ds, variant, fit)
	if err != nil {
		if errors.Is(err, view.ErrEmptyDataset) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="energy-audit-report.pdf"`)
	_, _ = w.Write(data)
}

// ExportDatasetHandler serves the normalized dataset back as a workbook.
type ExportDatasetHandler struct {
	session *Session
}

// NewExportDatasetHandler constructs an ExportDatasetHandler.
func NewExportDatasetHandler(session *Session) *ExportDatasetHandler {
	return &ExportDatasetHandler{session: session}
}

// ServeHTTP handles GET /api/v1/exports/dataset.xlsx.
func (h *ExportDatasetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ds, ok := h.session.Dataset()
	if !ok {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	data, err := excel.EncodeDataset(ds)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.xlsx"`)
	_, _ = w.Write(data)
}
