package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nlq-gateway/internal/common/config"
	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/nlq/orchestrator"
)

// Pipeline runs a natural language query through classification, synthesis,
// execution, and rendering.
type Pipeline interface {
	ProcessResult(ctx context.Context, query string) orchestrator.Result
}

// InvoiceResponder answers accounts payable and receivable queries.
type InvoiceResponder interface {
	RespondAP(ctx context.Context, query string) string
	RespondAR(ctx context.Context, query string) string
}

// Renderer produces the conversational summary for structured results.
type Renderer interface {
	Summarize(ctx context.Context, query, resultsText string) string
}

// Server is the HTTP layer over the query pipeline.
type Server struct {
	cfg      config.ServerConfig
	appName  string
	pipeline Pipeline
	invoices InvoiceResponder
	renderer Renderer
	logger   logger.Logger
}

func New(cfg config.ServerConfig, appName string, pipeline Pipeline, invoices InvoiceResponder, renderer Renderer, log logger.Logger) *Server {
	return &Server{
		cfg:      cfg,
		appName:  appName,
		pipeline: pipeline,
		invoices: invoices,
		renderer: renderer,
		logger:   log,
	}
}

// Routes builds the HTTP handler with CORS applied to every route.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process-nlq", s.handleProcessNLQ)
	mux.HandleFunc("/api/dashboard/chat-history", s.handleChatHistory)
	mux.HandleFunc("/api/dashboard/chat-metrics", s.handleChatMetrics)
	mux.HandleFunc("/health", s.handleHealth)
	return corsMiddleware(mux)
}

// HTTPServer builds the configured http.Server for the API listener.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.appName,
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
