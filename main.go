package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"energy-audit/internal/analytics/application"
	apihttp "energy-audit/internal/api/http"
	"energy-audit/internal/audit"
	"energy-audit/internal/auth"
	"energy-audit/internal/observability/metrics"
	"energy-audit/internal/weather/infrastructure/meteo"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := application.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	var auditLog audit.Logger
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		auditLog = audit.NewRepository(db)
	} else {
		logger.Printf("no database configured, audit trail disabled")
	}

	resolver, err := meteo.NewClient(cfg.Weather.BaseURL, logger)
	if err != nil {
		logger.Fatalf("weather client error: %v", err)
	}

	service, err := application.NewService(resolver, cfg.Weather.Location, auditLog, logger)
	if err != nil {
		logger.Fatalf("service error: %v", err)
	}

	session := apihttp.NewSession()

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/datasets", apihttp.NewDatasetHandler(session, service))
	mux.Handle("/api/v1/views/", apihttp.NewViewsHandler(session))
	mux.Handle("/api/v1/model/fit", apihttp.NewFitHandler(session, service))
	mux.Handle("/api/v1/reports", apihttp.NewReportHandler(session, service))
	mux.Handle("/api/v1/exports/dataset.xlsx", apihttp.NewExportDatasetHandler(session))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
