package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"energy-audit/internal/analytics/application"
	weather "energy-audit/internal/weather/domain"
)

type fixedResolver struct {
	temps map[string]float64
}

func (f *fixedResolver) Resolve(_ context.Context, dates []time.Time, _ weather.Location) ([]weather.Observation, error) {
	var observations []weather.Observation
	for _, date := range dates {
		obs := weather.Observation{Date: date}
		if temp, ok := f.temps[date.Format("2006-01-02")]; ok {
			value := temp
			obs.Temperature = &value
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

func newTestService(t *testing.T) *application.Service {
	t.Helper()
	resolver := &fixedResolver{temps: map[string]float64{
		"2024-01-01": 1,
		"2024-01-02": 2,
		"2024-01-03": 3,
	}}
	service, err := application.NewService(resolver, weather.Location{Latitude: 48.8566, Longitude: 2.3522}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func buildUpload(t *testing.T, rows [][]any) (*bytes.Buffer, string) {
	t.Helper()

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var xlsx bytes.Buffer
	if err := workbook.Write(&xlsx); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "consumption.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(xlsx.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func sampleRows() [][]any {
	return [][]any{
		{"Date", "Compteur", "Conso (kWh)"},
		{"2024-01-01 08:00:00", "M1", 5.0},
		{"2024-01-02 08:00:00", "M1", 10.0},
		{"2024-01-03 08:00:00", "M1", 15.0},
	}
}

func uploadDataset(t *testing.T, session *Session, service *application.Service) {
	t.Helper()
	body, contentType := buildUpload(t, sampleRows())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	NewDatasetHandler(session, service).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDatasetUploadResolvesMapping(t *testing.T) {
	session := NewSession()
	service := newTestService(t)

	body, contentType := buildUpload(t, sampleRows())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	NewDatasetHandler(session, service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Rows    int `json:"rows"`
		Mapping struct {
			Timestamp string `json:"timestamp"`
			Meter     string `json:"meter"`
			Value     string `json:"value"`
		} `json:"mapping"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rows != 3 {
		t.Fatalf("expected 3 rows, got %d", resp.Rows)
	}
	if resp.Mapping.Value != "Conso (kWh)" {
		t.Fatalf("value column not resolved by substring: %q", resp.Mapping.Value)
	}
	if _, ok := session.Dataset(); !ok {
		t.Fatal("session should hold the uploaded dataset")
	}
}

func TestDatasetUploadRejectsUnmappableSchema(t *testing.T) {
	session := NewSession()
	service := newTestService(t)

	body, contentType := buildUpload(t, [][]any{
		{"When", "Device", "Reading"},
		{"2024-01-01", "M1", 5.0},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	NewDatasetHandler(session, service).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, ok := session.Dataset(); ok {
		t.Fatal("rejected upload must not replace the session dataset")
	}
}

func TestViewsRequireDataset(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/loadcurve", nil)
	NewViewsHandler(NewSession()).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a dataset, got %d", rec.Code)
	}
}

func TestViewsServeJSON(t *testing.T) {
	session := NewSession()
	service := newTestService(t)
	uploadDataset(t, session, service)
	handler := NewViewsHandler(session)

	for _, name := range []string{"loadcurve", "chronogram", "heatmap", "distribution"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/views/"+name, nil)
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status %d: %s", name, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s content type %q", name, ct)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/loadcurve?mode=total", nil)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("total mode status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total"`) {
		t.Fatalf("total curve should carry the summed series: %s", rec.Body.String())
	}
}

func TestFitThenReportFlow(t *testing.T) {
	session := NewSession()
	service := newTestService(t)
	uploadDataset(t, session, service)

	fitBody := strings.NewReader(`{"features": ["temperature"], "variant": "simple"}`)
	fitReq := httptest.NewRequest(http.MethodPost, "/api/v1/model/fit", fitBody)
	fitRec := httptest.NewRecorder()
	NewFitHandler(session, service).ServeHTTP(fitRec, fitReq)
	if fitRec.Code != http.StatusOK {
		t.Fatalf("fit status %d: %s", fitRec.Code, fitRec.Body.String())
	}
	var fitResp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(fitRec.Body.Bytes(), &fitResp); err != nil {
		t.Fatalf("decode fit response: %v", err)
	}
	if !strings.HasPrefix(fitResp.Summary, "R2: 1.000") {
		t.Fatalf("unexpected summary: %q", fitResp.Summary)
	}
	if _, ok := session.Fit(); !ok {
		t.Fatal("session should hold the fit result")
	}

	reportReq := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"variant": "figures"}`))
	reportRec := httptest.NewRecorder()
	NewReportHandler(session, service).ServeHTTP(reportRec, reportReq)
	if reportRec.Code != http.StatusOK {
		t.Fatalf("report status %d: %s", reportRec.Code, reportRec.Body.String())
	}
	if !bytes.HasPrefix(reportRec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("report response is not a PDF")
	}
}

func TestFitRejectsUnknownFeature(t *testing.T) {
	session := NewSession()
	service := newTestService(t)
	uploadDataset(t, session, service)

	body := strings.NewReader(`{"features": ["humidity"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/model/fit", body)
	rec := httptest.NewRecorder()
	NewFitHandler(session, service).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown feature, got %d", rec.Code)
	}
}

func TestExportRoundTrip(t *testing.T) {
	session := NewSession()
	service := newTestService(t)
	uploadDataset(t, session, service)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/dataset.xlsx", nil)
	NewExportDatasetHandler(session).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d", rec.Code)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("exported bytes are not a workbook: %v", err)
	}
	rows, err := workbook.GetRows(workbook.GetSheetList()[0])
	if err != nil {
		t.Fatalf("read exported rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	header := fmt.Sprintf("%v", rows[0])
	if !strings.Contains(header, "Date") || !strings.Contains(header, "Compteur") {
		t.Fatalf("unexpected export header: %v", rows[0])
	}
}
