package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	commonerrors "nlq-gateway/internal/common/errors"
	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/common/validation"
	"nlq-gateway/internal/nlq/classifier"
	"nlq-gateway/internal/nlq/orchestrator"
)

type processRequest struct {
	Query string `json:"query"`
}

type processResponse struct {
	Query   string              `json:"query"`
	SQL     string              `json:"sql"`
	Results []map[string]string `json:"results"`
	Summary string              `json:"summary,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func emptyResults() []map[string]string {
	return []map[string]string{}
}

func (s *Server) handleProcessNLQ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()
	log := s.logger.With(map[string]interface{}{"request_id": requestID})
	w.Header().Set("X-Request-ID", requestID)

	body, err := io.ReadAll(r.Body)
	if err == nil {
		err = validation.ValidateProcessQuery(body)
	}
	if err != nil {
		stdErr := commonerrors.NewRequestInvalidError(err.Error())
		log.Warn("Rejected request", map[string]interface{}{
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
		writeJSON(w, http.StatusBadRequest, processResponse{
			Error:   "Missing query parameter",
			Results: emptyResults(),
		})
		return
	}

	var req processRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, processResponse{
			Error:   "Missing query parameter",
			Results: emptyResults(),
		})
		return
	}

	log.Info("Processing query", map[string]interface{}{"query": req.Query})

	result := s.pipeline.ProcessResult(r.Context(), req.Query)

	if result.ShortCircuit != "" {
		s.respondShortCircuit(w, r, req.Query, result.ShortCircuit, log)
		return
	}

	if result.IsError() {
		code := commonerrors.ErrorCode(codePrefix(result.Err))
		log.Error("Pipeline failed", map[string]interface{}{
			"error":     result.Err.Error(),
			"code":      string(code),
			"category":  commonerrors.GetErrorCategory(code),
			"retryable": commonerrors.IsRetryableErrorCode(code),
		})
		writeJSON(w, http.StatusInternalServerError, processResponse{
			Error:   result.String(),
			Query:   req.Query,
			Results: emptyResults(),
		})
		return
	}

	// Prefix-labeled answers are already narrative summaries.
	if result.Label != "" {
		writeJSON(w, http.StatusOK, processResponse{
			Query:   req.Query,
			Results: emptyResults(),
			Summary: result.Answer,
			Message: result.String(),
		})
		return
	}

	if result.Prov.Kind == orchestrator.SourceStructured {
		summary := s.renderer.Summarize(r.Context(), req.Query, result.Answer)
		writeJSON(w, http.StatusOK, processResponse{
			Query:   req.Query,
			SQL:     "Generated SQL query",
			Results: formatResults(result.Answer),
			Summary: summary,
			Message: result.String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		Query:   req.Query,
		Results: emptyResults(),
		Message: result.String(),
	})
}

func (s *Server) respondShortCircuit(w http.ResponseWriter, r *http.Request, query string, category classifier.Category, log logger.Logger) {
	resp := processResponse{
		Query:   query,
		Message: string(category),
		Results: emptyResults(),
	}

	switch category {
	case classifier.CategoryInvoiceSuite:
		resp.Summary = s.invoices.RespondAP(r.Context(), query)
	case classifier.CategoryARSuite:
		resp.Summary = s.invoices.RespondAR(r.Context(), query)
	case classifier.CategoryFinancialDashboard:
		resp.Summary = "Processing your financial report..."
	case classifier.CategoryMedicalDashboard:
		resp.Summary = "Processing your medical report..."
	}

	log.Info("Short-circuit response", map[string]interface{}{"category": string(category)})
	writeJSON(w, http.StatusOK, resp)
}

// codePrefix extracts the sentinel error code from a wrapped pipeline error.
func codePrefix(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ":"); idx > 0 {
		return msg[:idx]
	}
	return "UNKNOWN"
}

// formatResults reshapes the deterministic answer into row objects. Pipe
// separated lines become column_N keyed rows, anything else a single value.
func formatResults(resultsText string) []map[string]string {
	text := strings.TrimSpace(resultsText)
	if !strings.Contains(text, "\n") {
		return []map[string]string{{"value": text}}
	}

	var rows []map[string]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "|") {
			row := map[string]string{}
			for i, part := range strings.Split(line, "|") {
				row["column_"+strconv.Itoa(i)] = strings.TrimSpace(part)
			}
			rows = append(rows, row)
		} else {
			rows = append(rows, map[string]string{"value": line})
		}
	}
	return rows
}
