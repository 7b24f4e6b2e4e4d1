package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlq-gateway/internal/common/config"
	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/nlq/classifier"
	"nlq-gateway/internal/nlq/orchestrator"
)

// TestLogger implements the logger.Logger interface for tests
type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, fields)
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) WithFields(fields map[string]interface{}) logger.Logger { return l }

func (l *TestLogger) WithError(err error) logger.Logger { return l }

func (l *TestLogger) With(fields map[string]interface{}) logger.Logger { return l }

type fakePipeline struct {
	result orchestrator.Result
	calls  int
}

func (f *fakePipeline) ProcessResult(_ context.Context, _ string) orchestrator.Result {
	f.calls++
	return f.result
}

type fakeInvoices struct {
	apAnswer string
	arAnswer string
	apCalls  int
	arCalls  int
}

func (f *fakeInvoices) RespondAP(_ context.Context, _ string) string {
	f.apCalls++
	return f.apAnswer
}

func (f *fakeInvoices) RespondAR(_ context.Context, _ string) string {
	f.arCalls++
	return f.arAnswer
}

type fakeRenderer struct {
	summary string
	calls   int
}

func (f *fakeRenderer) Summarize(_ context.Context, _, _ string) string {
	f.calls++
	return f.summary
}

func newTestServer(t *testing.T, pipeline Pipeline, invoices InvoiceResponder, renderer Renderer) *Server {
	return New(config.ServerConfig{Port: 8080}, "nlq-gateway", pipeline, invoices, renderer, &TestLogger{t: t})
}

func postQuery(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/process-nlq", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestProcessNLQ_MissingQuery(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})
	handler := srv.Routes()

	for _, body := range []string{`{}`, `not json`, `{"query": ""}`} {
		rec := postQuery(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		payload := decode(t, rec)
		assert.Equal(t, "Missing query parameter", payload["error"])
		assert.Equal(t, "", payload["query"])
		assert.Equal(t, []interface{}{}, payload["results"])
	}
}

func TestProcessNLQ_Structured(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{
		Answer: "15000",
		Prov:   orchestrator.Provenance{Kind: orchestrator.SourceStructured, Table: "financial_transactions"},
		SQL:    "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS",
	}}
	renderer := &fakeRenderer{summary: "Your total revenue is $15,000.00."}
	srv := newTestServer(t, pipeline, &fakeInvoices{}, renderer)

	rec := postQuery(t, srv.Routes(), `{"query": "total revenue in 2025"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	assert.Equal(t, "total revenue in 2025", payload["query"])
	assert.Equal(t, "Generated SQL query", payload["sql"])
	assert.Equal(t, "Your total revenue is $15,000.00.", payload["summary"])
	assert.Equal(t, "15000 (Source: Structured - financial_transactions)", payload["message"])
	assert.Equal(t, []interface{}{map[string]interface{}{"value": "15000"}}, payload["results"])
	assert.Equal(t, 1, renderer.calls)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProcessNLQ_StructuredMultiRow(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{
		Answer: "2025 | 3000.00\n2026 | 4000.50",
		Prov:   orchestrator.Provenance{Kind: orchestrator.SourceStructured, Table: "financial_transactions"},
	}}
	srv := newTestServer(t, pipeline, &fakeInvoices{}, &fakeRenderer{summary: "ok"})

	rec := postQuery(t, srv.Routes(), `{"query": "revenue by year"}`)

	payload := decode(t, rec)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"column_0": "2025", "column_1": "3000.00"},
		map[string]interface{}{"column_0": "2026", "column_1": "4000.50"},
	}, payload["results"])
}

func TestProcessNLQ_UnstructuredSummary(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{
		Answer: "- Revenue grew 12%",
		Label:  "Summary",
		Prov: orchestrator.Provenance{
			Kind:       orchestrator.SourceUnstructured,
			ReportType: "financial_reports",
		},
	}}
	renderer := &fakeRenderer{}
	srv := newTestServer(t, pipeline, &fakeInvoices{}, renderer)

	rec := postQuery(t, srv.Routes(), `{"query": "summarize the Q2 financial report"}`)

	payload := decode(t, rec)
	assert.Equal(t, "- Revenue grew 12%", payload["summary"])
	assert.Equal(t, "Summary (Source: Unstructured - financial_reports): - Revenue grew 12%", payload["message"])
	assert.Equal(t, "", payload["sql"])
	assert.Zero(t, renderer.calls)
}

func TestProcessNLQ_PipelineError(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{Err: errors.New("SYNTHESIS_FAILED: boom")}}
	srv := newTestServer(t, pipeline, &fakeInvoices{}, &fakeRenderer{})

	rec := postQuery(t, srv.Routes(), `{"query": "total revenue"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decode(t, rec)
	assert.Equal(t, "Error: SYNTHESIS_FAILED: boom (Source: N/A)", payload["error"])
	assert.Equal(t, "total revenue", payload["query"])
}

func TestProcessNLQ_InvoiceShortCircuit(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{ShortCircuit: classifier.CategoryInvoiceSuite}}
	invoices := &fakeInvoices{apAnswer: "**All Invoices**: 2 totaling **$18,140.50**"}
	srv := newTestServer(t, pipeline, invoices, &fakeRenderer{})

	rec := postQuery(t, srv.Routes(), `{"query": "show my invoices"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	assert.Equal(t, "genai_invoice_suite", payload["message"])
	assert.Equal(t, "**All Invoices**: 2 totaling **$18,140.50**", payload["summary"])
	assert.Equal(t, "", payload["sql"])
	assert.Equal(t, []interface{}{}, payload["results"])
	assert.Equal(t, 1, invoices.apCalls)
	assert.Zero(t, invoices.arCalls)
}

func TestProcessNLQ_ARShortCircuit(t *testing.T) {
	pipeline := &fakePipeline{result: orchestrator.Result{ShortCircuit: classifier.CategoryARSuite}}
	invoices := &fakeInvoices{arAnswer: "**Overdue**: 1 totaling **$18,900.00**"}
	srv := newTestServer(t, pipeline, invoices, &fakeRenderer{})

	rec := postQuery(t, srv.Routes(), `{"query": "show overdue receivables"}`)

	payload := decode(t, rec)
	assert.Equal(t, "genai_ar_suite", payload["message"])
	assert.Equal(t, "**Overdue**: 1 totaling **$18,900.00**", payload["summary"])
	assert.Equal(t, 1, invoices.arCalls)
}

func TestProcessNLQ_DashboardShortCircuits(t *testing.T) {
	tests := []struct {
		category classifier.Category
		summary  string
	}{
		{classifier.CategoryFinancialDashboard, "Processing your financial report..."},
		{classifier.CategoryMedicalDashboard, "Processing your medical report..."},
	}

	for _, tt := range tests {
		pipeline := &fakePipeline{result: orchestrator.Result{ShortCircuit: tt.category}}
		srv := newTestServer(t, pipeline, &fakeInvoices{}, &fakeRenderer{})

		rec := postQuery(t, srv.Routes(), `{"query": "open the dashboard"}`)

		payload := decode(t, rec)
		assert.Equal(t, string(tt.category), payload["message"])
		assert.Equal(t, tt.summary, payload["summary"])
	}
}

func TestProcessNLQ_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/api/process-nlq", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "nlq-gateway", payload["service"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodOptions, "/api/process-nlq", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChatHistory(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/chat-history?limit=5", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	chats, ok := payload["chats"].([]interface{})
	require.True(t, ok)
	assert.Len(t, chats, 5)

	first := chats[0].(map[string]interface{})
	assert.NotEmpty(t, first["user"])
	assert.NotEmpty(t, first["query"])
	assert.Contains(t, []interface{}{"positive", "negative", "neutral"}, first["sentiment"])
}

func TestChatHistoryNegativeLimit(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/chat-history?limit=-1", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	chats, ok := payload["chats"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, chats)
}

func TestChatMetrics(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{}, &fakeInvoices{}, &fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/chat-metrics", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	assert.Equal(t, 1.2, payload["avgResponseTime"])

	percentages, ok := payload["sentimentPercentages"].(map[string]interface{})
	require.True(t, ok)
	total := percentages["positive"].(float64) + percentages["neutral"].(float64) + percentages["negative"].(float64)
	assert.InDelta(t, 100.0, total, 0.5)
}
