// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlq-gateway/internal/common/config"
	"nlq-gateway/internal/common/database"
	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/completion"
	"nlq-gateway/internal/invoice"
	"nlq-gateway/internal/nlq/orchestrator"
	"nlq-gateway/internal/nlq/renderer"
	"nlq-gateway/internal/nlq/synthesizer"
	"nlq-gateway/internal/server"
)

// completionStub replays canned model output per purpose and records the
// requests it saw.
type completionStub struct {
	byPurpose map[string]string
	requests  []completion.Request
}

func (c *completionStub) Complete(_ context.Context, req completion.Request) (string, error) {
	c.requests = append(c.requests, req)
	if answer, ok := c.byPurpose[req.Purpose]; ok {
		return answer, nil
	}
	return "ok", nil
}

// stubExecutor returns canned warehouse rows keyed by a SQL substring.
type stubExecutor struct {
	rowsFor map[string][][]interface{}
	queries []string
}

func (e *stubExecutor) Execute(_ context.Context, sqlText string) ([][]interface{}, error) {
	e.queries = append(e.queries, sqlText)
	for marker, rows := range e.rowsFor {
		if strings.Contains(strings.ToUpper(sqlText), strings.ToUpper(marker)) {
			return rows, nil
		}
	}
	return nil, nil
}

type gateway struct {
	handler   http.Handler
	completer *completionStub
	executor  *stubExecutor
}

func newGateway(t *testing.T, completer *completionStub, executor *stubExecutor, invoiceURL string) *gateway {
	log := logger.NewNoOpLogger()

	synth := synthesizer.New(completer, log)
	summarizer := renderer.NewSummarizer(completer, log)
	pipeline := orchestrator.New(synth, executor, summarizer, log)

	mr := miniredis.RunT(t)
	redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })
	pipeline.WithCache(redisClient, 15*time.Minute)

	invoiceClient := invoice.NewClient(invoiceURL, 5*time.Second, log)
	responder := invoice.NewResponder(invoiceClient, completer, log)

	conversational := server.NewConversational(completer, log)
	srv := server.New(config.ServerConfig{Port: 8080}, "nlq-gateway", pipeline, responder, conversational, log)

	return &gateway{handler: srv.Routes(), completer: completer, executor: executor}
}

func (g *gateway) process(t *testing.T, query string) (int, map[string]interface{}) {
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/process-nlq", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec.Code, payload
}

func TestEndToEnd_StructuredQuery(t *testing.T) {
	completer := &completionStub{byPurpose: map[string]string{
		"sql":                    "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS",
		"conversational_summary": "Your 2025 revenue totals $15,000.00.",
	}}
	executor := &stubExecutor{rowsFor: map[string][][]interface{}{
		"FINANCIAL_TRANSACTIONS": {{float64(15000)}},
	}}
	gw := newGateway(t, completer, executor, "http://unused")

	code, payload := gw.process(t, "What is my total revenue in 2025?")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Generated SQL query", payload["sql"])
	assert.Equal(t, "Your 2025 revenue totals $15,000.00.", payload["summary"])
	assert.Equal(t, "15000 (Source: Structured - financial_transactions)", payload["message"])
	assert.Equal(t, []interface{}{map[string]interface{}{"value": "15000"}}, payload["results"])

	// the executed statement carries the injected year filter
	require.Len(t, executor.queries, 1)
	assert.Contains(t, executor.queries[0], "YEAR(transaction_date) = 2025")
}

func TestEndToEnd_RejectedSQLNeverExecutes(t *testing.T) {
	completer := &completionStub{byPurpose: map[string]string{
		"sql": "DROP TABLE FINANCIAL_TRANSACTIONS",
	}}
	executor := &stubExecutor{}
	gw := newGateway(t, completer, executor, "http://unused")

	code, payload := gw.process(t, "What is my total revenue?")

	assert.Equal(t, http.StatusInternalServerError, code)
	errText, _ := payload["error"].(string)
	assert.Contains(t, errText, "(Source: N/A)")
	assert.Empty(t, executor.queries)
}

func TestEndToEnd_QuarterReportSummary(t *testing.T) {
	completer := &completionStub{byPurpose: map[string]string{
		"summary": "- Revenue grew 12%\n- Margins held steady",
	}}
	executor := &stubExecutor{rowsFor: map[string][][]interface{}{
		"FINANCIAL_REPORTS": {{"Q2 revenue was strong."}},
	}}
	gw := newGateway(t, completer, executor, "http://unused")

	code, payload := gw.process(t, "Give me the Q2 highlights")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "- Revenue grew 12%\n- Margins held steady", payload["summary"])
	assert.Equal(t, "Summary (Source: Unstructured - financial_reports): - Revenue grew 12%\n- Margins held steady", payload["message"])
	assert.Equal(t, "", payload["sql"])
}

func TestEndToEnd_ConsolidatedSummaryCached(t *testing.T) {
	completer := &completionStub{byPurpose: map[string]string{
		"summary": "- Full year trend is positive",
	}}
	executor := &stubExecutor{rowsFor: map[string][][]interface{}{
		"FINANCIAL_REPORTS": {{"Q1 text"}, {"Q2 text"}, {"Q3 text"}, {"Q4 text"}},
	}}
	gw := newGateway(t, completer, executor, "http://unused")

	code, payload := gw.process(t, "Give me the consolidated highlights across all reports")
	require.Equal(t, http.StatusOK, code)
	summary, _ := payload["summary"].(string)
	assert.Equal(t, "- Full year trend is positive", summary)

	firstQueries := len(executor.queries)
	require.Equal(t, 1, firstQueries)

	// repeat served from cache, no second warehouse trip
	code, payload = gw.process(t, "give me the CONSOLIDATED highlights across all reports")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "- Full year trend is positive", payload["summary"])
	assert.Len(t, executor.queries, firstQueries)
}

func TestEndToEnd_InvoiceSuite(t *testing.T) {
	invoiceService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/genai-invoices", r.URL.Path)
		require.Equal(t, "payable", r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode(invoice.Data{
			Invoices: []invoice.Invoice{
				{ID: "INV-24-5848", Vendor: "Tech Solutions", Amount: 15800, DueDate: "2025-07-01"},
			},
			Summary: invoice.Summary{Count: 1, Total: 15800},
		})
	}))
	defer invoiceService.Close()

	completer := &completionStub{byPurpose: map[string]string{
		"invoice_ap_view": "**All Invoices**: 1 totaling **$15,800.00**",
	}}
	gw := newGateway(t, completer, &stubExecutor{}, invoiceService.URL)

	code, payload := gw.process(t, "Show my invoices in the GenAI suite")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "genai_invoice_suite", payload["message"])
	assert.Equal(t, "**All Invoices**: 1 totaling **$15,800.00**", payload["summary"])
	assert.Empty(t, gw.executor.queries)
}

func TestEndToEnd_DashboardShortCircuit(t *testing.T) {
	gw := newGateway(t, &completionStub{}, &stubExecutor{}, "http://unused")

	code, payload := gw.process(t, "Open the financial dashboard")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "powerbi_financial_dashboard", payload["message"])
	assert.Equal(t, "Processing your financial report...", payload["summary"])
	assert.Empty(t, gw.completer.requests)
}
