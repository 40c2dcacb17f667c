// Package api serves the report endpoints the terminal client downloads from.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/export"
	"github.com/csheth/indicure/internal/report"
	"github.com/csheth/indicure/internal/reportpdf"
	"github.com/csheth/indicure/internal/workflow"
)

// RenderFunc turns a report into PDF bytes.
type RenderFunc func(*report.Report) ([]byte, error)

type Server struct {
	log     *zap.Logger
	origins map[string]bool
	render  RenderFunc
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithAllowedOrigins sets the origins answered with CORS headers.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				s.origins[origin] = true
			}
		}
	}
}

func WithRenderer(render RenderFunc) Option {
	return func(s *Server) {
		if render != nil {
			s.render = render
		}
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		log:     zap.NewNop(),
		origins: map[string]bool{},
		render:  reportpdf.Build,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes every endpoint behind CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET "+export.Endpoint, s.handleReportPDF)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /export/pdf", s.handleExportPDF)
	return s.logRequests(s.cors(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cfg, err := parseRunConfig(valueOr(q.Get("mode"), string(workflow.ModeGeneral)), valueOr(q.Get("geo"), string(workflow.GeographyIndia)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writePDF(w, report.Build(cfg), export.FileName(cfg))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyze(w, r)
	if !ok {
		return
	}
	s.writePDF(w, report.BuildForQuery(req.runConfig(), req.Query), "indicure_ranolazine_report.pdf")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyze(w, r)
	if !ok {
		return
	}
	rep := report.BuildForQuery(req.runConfig(), req.Query)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Normalized:       rep.Normalized,
		Trace:            report.Trace(),
		ExecutiveSummary: rep.ExecutiveSummary,
		Evidence:         rep.Evidence,
		UnmetNeed:        rep.UnmetNeed,
		RiskFeasibility:  rep.RiskFeasibility,
		Recommendation:   rep.Recommendation,
		References:       rep.References,
	})
}

func (s *Server) decodeAnalyze(w http.ResponseWriter, r *http.Request) (AnalyzeRequest, bool) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid JSON body: %v", err))
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) writePDF(w http.ResponseWriter, rep *report.Report, filename string) {
	data, err := s.render(rep)
	if err != nil {
		s.log.Error("render pdf", zap.String("mode", string(rep.Mode)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not render report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.origins[origin] {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "*")
			h.Set("Access-Control-Expose-Headers", "Content-Disposition")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
