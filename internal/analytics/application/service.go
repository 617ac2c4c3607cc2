package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"energy-audit/internal/analytics/domain/view"
	"energy-audit/internal/audit"
	"energy-audit/internal/auth"
	dataset "energy-audit/internal/dataset/domain"
	"energy-audit/internal/model"
	"energy-audit/internal/observability/metrics"
	"energy-audit/internal/report"
	"energy-audit/internal/report/charts"
	weather "energy-audit/internal/weather/domain"
)

// Service orchestrates the analytics pipeline. It owns no session state:
// every call receives the dataset explicitly and returns new values.
type Service struct {
	resolver weather.Resolver
	location weather.Location
	auditLog audit.Logger
	logger   *log.Logger
}

// NewService constructs the analysis service. The audit logger may be nil
// when no database is configured.
func NewService(resolver weather.Resolver, location weather.Location, auditLog audit.Logger, logger *log.Logger) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("application: nil weather resolver")
	}
	return &Service{
		resolver: resolver,
		location: location,
		auditLog: auditLog,
		logger:   logger,
	}, nil
}

// RecordUpload audits a freshly normalized dataset.
func (s *Service) RecordUpload(ctx context.Context, ds *dataset.Dataset, filename string) {
	meta, _ := json.Marshal(map[string]any{
		"filename": filename,
		"mapping":  ds.Mapping(),
		"features": ds.FeatureNames(),
	})
	s.logAudit(ctx, audit.ActionDatasetUploaded, ds.Len(), meta)
}

// FitModel fits the requested variant against the dataset. When the
// temperature covariate is requested but the dataset does not carry it,
// the dataset is enriched from the weather resolver first; lookup
// degradation never fails the fit, it only leaves temperatures absent.
// The possibly-enriched dataset is returned with the result so callers
// can keep working on it.
func (s *Service) FitModel(ctx context.Context, ds *dataset.Dataset, features []string, variant model.Variant) (*dataset.Dataset, *model.Result, error) {
	if needsTemperature(ds, features) {
		enriched, err := s.enrichWithWeather(ctx, ds)
		if err != nil {
			return nil, nil, err
		}
		ds = enriched
	}

	start := time.Now()
	result, err := model.Fit(ds, features, variant)
	if err != nil {
		metrics.ObserveFit(string(variant), metrics.ResultError, time.Since(start))
		return nil, nil, err
	}
	metrics.ObserveFit(string(variant), metrics.ResultSuccess, time.Since(start))

	meta, _ := json.Marshal(map[string]any{
		"variant":   variant,
		"features":  features,
		"r_squared": result.RSquared,
	})
	s.logAudit(ctx, audit.ActionModelFitted, ds.Len(), meta)
	return ds, result, nil
}

// GenerateReport renders the requested report variant. A non-nil fit
// result contributes its summary and, in the figure variant, the
// actual-vs-predicted page.
func (s *Service) GenerateReport(ctx context.Context, ds *dataset.Dataset, variant report.Variant, fit *model.Result) ([]byte, error) {
	start := time.Now()
	data, err := s.buildReport(ds, variant, fit)
	if err != nil {
		metrics.ObserveReport(string(variant), metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveReport(string(variant), metrics.ResultSuccess, time.Since(start))

	meta, _ := json.Marshal(map[string]any{"variant": variant, "bytes": len(data)})
	s.logAudit(ctx, audit.ActionReportGenerated, ds.Len(), meta)
	return data, nil
}

func (s *Service) buildReport(ds *dataset.Dataset, variant report.Variant, fit *model.Result) ([]byte, error) {
	summary := ""
	if fit != nil {
		summary = fit.Summary()
	}

	switch variant {
	case report.TextSummaryReport:
		return report.BuildTextSummary(ds, summary)
	case report.FigureEmbeddingReport:
		figures, heat, err := s.renderFigures(ds, fit)
		if err != nil {
			return nil, err
		}
		return report.BuildFigureReport(ds, figures, heat, summary)
	default:
		return nil, errors.New("application: unknown report variant")
	}
}

func (s *Service) renderFigures(ds *dataset.Dataset, fit *model.Result) ([]report.Figure, *view.HeatMapView, error) {
	curve, err := view.LoadCurve(ds)
	if err != nil {
		return nil, nil, err
	}
	curvePNG, err := charts.RenderCurve(curve)
	if err != nil {
		return nil, nil, err
	}

	chrono, err := view.Chronogram(ds)
	if err != nil {
		return nil, nil, err
	}
	chronoPNG, err := charts.RenderChronogram(chrono)
	if err != nil {
		return nil, nil, err
	}

	hist, err := view.Distribution(ds)
	if err != nil {
		return nil, nil, err
	}
	histPNG, err := charts.RenderHistogram(hist)
	if err != nil {
		return nil, nil, err
	}

	heat, err := view.HeatMap(ds)
	if err != nil {
		return nil, nil, err
	}

	figures := []report.Figure{
		{Title: curve.Title, PNG: curvePNG},
		{Title: chrono.Title, PNG: chronoPNG},
		{Title: hist.Title, PNG: histPNG},
	}
	if fit != nil {
		scatterPNG, err := charts.RenderFitScatter(fit.Actual, fit.Predicted)
		if err != nil {
			return nil, nil, err
		}
		figures = append(figures, report.Figure{Title: "Model fit", PNG: scatterPNG})
	}
	return figures, heat, nil
}

func (s *Service) enrichWithWeather(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	dates := ds.DistinctDates()
	observations, err := s.resolver.Resolve(ctx, dates, s.location)
	if err != nil {
		// degraded weather is missing data, not a failed fit
		if s.logger != nil {
			s.logger.Printf("weather resolve degraded: %v", err)
		}
		observations = nil
	}
	for _, obs := range observations {
		metrics.ObserveWeatherLookup(obs.Temperature != nil)
	}
	return weather.Enrich(ds, observations)
}

func (s *Service) logAudit(ctx context.Context, action string, rows int, meta json.RawMessage) {
	if s.auditLog == nil {
		return
	}
	entry := audit.Entry{
		Actor:       auth.SubjectFromContext(ctx),
		Role:        string(auth.RoleFromContext(ctx)),
		Action:      action,
		DatasetRows: rows,
		Metadata:    meta,
	}
	if err := s.auditLog.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Printf("audit log error: %v", err)
	}
}

func needsTemperature(ds *dataset.Dataset, features []string) bool {
	for _, feature := range features {
		if feature != weather.TemperatureFeature {
			continue
		}
		if _, ok := ds.Feature(weather.TemperatureFeature); !ok {
			return true
		}
	}
	return false
}
