package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
	"github.com/kirillkom/contract-risk-analyzer/internal/observability/metrics"
)

const serviceName = "api"

// maxUploadBytes caps multipart uploads; contracts larger than this are not
// worth synchronous processing.
const maxUploadBytes = 20 << 20

const (
	maxInFlightRequests = 32
	inFlightWait        = 200 * time.Millisecond
)

type Router struct {
	analyzer   ports.ContractAnalyzer
	simplifier ports.ClauseSimplifyService
	searcher   ports.WebSearcher
	metrics    *metrics.HTTPServerMetrics
	logger     *slog.Logger

	rateLimitRPS   float64
	rateLimitBurst int
}

func NewRouter(
	analyzer ports.ContractAnalyzer,
	simplifier ports.ClauseSimplifyService,
	searcher ports.WebSearcher,
	m *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	rateLimitRPS float64,
	rateLimitBurst int,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		analyzer:       analyzer,
		simplifier:     simplifier,
		searcher:       searcher,
		metrics:        m,
		logger:         logger,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/analyze", rt.analyze)
	mux.HandleFunc("/simplify", rt.simplify)
	mux.HandleFunc("/search", rt.search)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, maxInFlightRequests, inFlightWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyze accepts one multipart upload and answers with the rendered report
// as a binary download.
func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	start := time.Now()
	report, err := rt.analyzer.Analyze(r.Context(), fileHeader.Filename, file)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		rt.logger.Error("analysis failed",
			"request_id", requestIDFromContext(r.Context()),
			"filename", fileHeader.Filename,
			"status", status,
			"error", err,
		)
		rt.recordAnalysis("", "error", 0, false, 0)
		writeJSON(w, status, map[string]string{"error": publicErrorMessage(err, status)})
		return
	}

	rt.recordAnalysis(string(report.SourceFormat), "ok", len(report.Rows), report.ClassifierFallback, time.Since(start))

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Data)
}

func (rt *Router) simplify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Clause string `json:"clause"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"simplified": rt.simplifier.Simplify(r.Context(), req.Clause),
	})
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	answer, err := rt.searcher.Search(r.Context(), req.Query)
	if err != nil {
		rt.logger.Error("legal search failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "search is temporarily unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (rt *Router) recordAnalysis(format, status string, rows int, usedFallback bool, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordAnalysis(serviceName, format, status, rows, usedFallback, duration)
}

// publicErrorMessage keeps internal error chains out of 5xx responses while
// passing validation errors through verbatim.
func publicErrorMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "analysis failed"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
