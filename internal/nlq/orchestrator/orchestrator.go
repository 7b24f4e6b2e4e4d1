// internal/nlq/orchestrator/orchestrator.go

// Package orchestrator runs the end to end pipeline for one natural
// language query: classify, synthesize, validate, execute, render. Process
// never returns an error; failures become an error-tagged answer string so
// the HTTP layer always has something to send.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nlq-gateway/internal/common/metrics"
	"nlq-gateway/internal/nlq/classifier"
	"nlq-gateway/internal/nlq/renderer"
	"nlq-gateway/internal/nlq/safety"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Synthesizer produces a validated SQL statement for a query.
type Synthesizer interface {
	ToSQL(ctx context.Context, query string) (string, error)
}

// Executor runs a statement against the warehouse.
type Executor interface {
	Execute(ctx context.Context, sqlText string) ([][]interface{}, error)
}

// Summarizer condenses report content for a question.
type Summarizer interface {
	Summarize(ctx context.Context, content, question string) (string, error)
}

// SummaryCache stores consolidated summaries. Implementations must be safe
// for concurrent use; a nil cache disables caching.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	synth      Synthesizer
	executor   Executor
	summarizer Summarizer
	cache      SummaryCache
	cacheTTL   time.Duration
	logger     Logger
}

func New(synth Synthesizer, executor Executor, summarizer Summarizer, log Logger) *Orchestrator {
	return &Orchestrator{
		synth:      synth,
		executor:   executor,
		summarizer: summarizer,
		logger:     log,
	}
}

// WithCache enables read-through caching of consolidated summaries.
func (o *Orchestrator) WithCache(cache SummaryCache, ttl time.Duration) *Orchestrator {
	o.cache = cache
	o.cacheTTL = ttl
	return o
}

// Process answers one natural language query. The returned string is the
// wire format: a short-circuit tag, a provenance-tagged answer, or an
// "Error: ... (Source: N/A)" sentence. It never panics and never returns
// an error.
func (o *Orchestrator) Process(ctx context.Context, query string) string {
	return o.ProcessResult(ctx, query).String()
}

// ProcessResult is Process with the structured result exposed for callers
// that need provenance or the executed SQL.
func (o *Orchestrator) ProcessResult(ctx context.Context, query string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			res = Result{Err: fmt.Errorf("%v", r)}
		}
	}()

	start := time.Now()
	category := classifier.Classify(query)

	o.logger.Info("query classified", map[string]interface{}{
		"category": string(category),
	})

	switch {
	case category.IsShortCircuit():
		res = Result{ShortCircuit: category}
	case category == classifier.CategoryPDF:
		res = o.processPDF(ctx, query)
	case category == classifier.CategoryUnstructured:
		res = o.processUnstructured(ctx, query)
	default:
		res = o.processStructured(ctx, query)
	}

	metrics.QueriesProcessed.WithLabelValues(string(category)).Inc()
	metrics.PipelineDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())
	if res.IsError() {
		metrics.QueriesFailed.WithLabelValues(string(category), errorCode(res.Err)).Inc()
		o.logger.Error("pipeline failed", map[string]interface{}{
			"category": string(category),
			"error":    res.Err.Error(),
		})
	}

	return res
}

// processStructured synthesizes SQL, executes it, and renders the rows
// deterministically.
func (o *Orchestrator) processStructured(ctx context.Context, query string) Result {
	prov := Provenance{Kind: SourceStructured, Table: structuredTable(query)}

	sqlText, err := o.synth.ToSQL(ctx, query)
	if err != nil {
		return Result{Err: err}
	}

	rows, err := o.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{Err: err, SQL: sqlText}
	}

	if len(rows) == 0 {
		return Result{
			Answer: fmt.Sprintf("No results found for: %s", query),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	return Result{
		Answer: renderer.Deterministic(rows, query),
		Prov:   prov,
		SQL:    sqlText,
	}
}

// processPDF retrieves parsed document content and asks the summarizer to
// answer the question from it. Medical document lookups are templated
// locally; financial ones go through synthesis.
func (o *Orchestrator) processPDF(ctx context.Context, query string) Result {
	prov := Provenance{Kind: SourcePDF}

	var sqlText string
	if classifier.IsMedical(query) {
		sqlText = medicalPDFSQL(query)
		if err := safety.Validate(sqlText); err != nil {
			return Result{Err: err}
		}
	} else {
		var err error
		sqlText, err = o.synth.ToSQL(ctx, query)
		if err != nil {
			return Result{Err: err}
		}
	}

	rows, err := o.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{Err: err, SQL: sqlText}
	}

	if len(rows) == 0 {
		return Result{
			Answer: fmt.Sprintf("No PDF content found for: %s", query),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	content := documentContent(rows[0])
	analysis, err := o.summarizer.Summarize(ctx, content,
		fmt.Sprintf("Answer this question based on the PDF content: %s", query))
	if err != nil {
		return Result{Err: err, SQL: sqlText}
	}

	return Result{
		Answer: analysis,
		Label:  "Analysis",
		Prov:   prov,
		SQL:    sqlText,
	}
}

// processUnstructured answers report questions, either consolidated across
// a year or scoped to one quarter. Warehouse failures here downgrade to a
// tagged error sentence instead of the N/A error path, so the caller can
// still see which report surface was involved.
func (o *Orchestrator) processUnstructured(ctx context.Context, query string) Result {
	medical := classifier.IsMedical(query)
	year := classifier.ExtractYear(query)

	reportType := "financial_reports"
	if medical {
		reportType = "medical_reports"
	}

	if classifier.WantsConsolidation(query) {
		return o.processConsolidated(ctx, query, medical, year, reportType)
	}

	quarterKey, hasQuarter := classifier.QuarterKey(query)
	if !hasQuarter {
		quarterKey = "q1"
	}
	quarterDate := classifier.QuarterDates(year)[quarterKey]
	prov := Provenance{Kind: SourceUnstructured, ReportType: reportType}

	sqlText := quarterReportSQL(medical, quarterKey, quarterDate, year)
	if err := safety.Validate(sqlText); err != nil {
		return Result{Err: err}
	}

	rows, err := o.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{
			Answer: fmt.Sprintf("Error retrieving report data: %v", err),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return Result{
			Answer: fmt.Sprintf("No report data found for %s", strings.ToUpper(quarterKey)),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	content := stringValue(rows[0][0])
	summary, err := o.summarizer.Summarize(ctx, content, query)
	if err != nil {
		return Result{Err: err, SQL: sqlText}
	}

	return Result{
		Answer: summary,
		Label:  "Summary",
		Prov:   prov,
		SQL:    sqlText,
	}
}

func (o *Orchestrator) processConsolidated(ctx context.Context, query string, medical bool, year int, reportType string) Result {
	prov := Provenance{Kind: SourceUnstructured, ReportType: reportType, Consolidated: true, Year: year}

	cacheKey := consolidatedCacheKey(reportType, year, query)
	if cached, ok := o.cacheGet(ctx, cacheKey); ok {
		return Result{Answer: cached, Label: "Summary", Prov: prov}
	}

	sqlText := consolidatedReportSQL(medical, year)
	if err := safety.Validate(sqlText); err != nil {
		return Result{Err: err}
	}

	rows, err := o.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{
			Answer: fmt.Sprintf("Error retrieving consolidated report data: %v", err),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	var contents []string
	for _, row := range rows {
		if len(row) > 0 && row[0] != nil {
			contents = append(contents, stringValue(row[0]))
		}
	}

	if len(contents) == 0 {
		return Result{
			Answer: fmt.Sprintf("No report data found for year %d", year),
			Prov:   prov,
			SQL:    sqlText,
		}
	}

	combined := strings.Join(contents, "\n\n")
	prompt := fmt.Sprintf("Consolidate highlights across all %d quarterly reports for: %s. Focus on totals/trends and provide clear actionable insights. Avoid per-quarter repetition.", year, query)

	summary, err := o.summarizer.Summarize(ctx, combined, prompt)
	if err != nil {
		return Result{Err: err, SQL: sqlText}
	}

	o.cacheSet(ctx, cacheKey, summary)

	return Result{
		Answer: summary,
		Label:  "Summary",
		Prov:   prov,
		SQL:    sqlText,
	}
}

func (o *Orchestrator) cacheGet(ctx context.Context, key string) (string, bool) {
	if o.cache == nil {
		return "", false
	}
	val, err := o.cache.Get(ctx, key)
	if err != nil || val == "" {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return val, true
}

func (o *Orchestrator) cacheSet(ctx context.Context, key, value string) {
	if o.cache == nil {
		return
	}
	// Cache failures must never fail the query.
	if err := o.cache.Set(ctx, key, value, o.cacheTTL); err != nil {
		o.logger.Warn("summary cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func consolidatedCacheKey(reportType string, year int, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return "nlq:consolidated:" + reportType + ":" + strconv.Itoa(year) + ":" + normalized
}

func structuredTable(query string) string {
	if classifier.IsMedical(query) {
		return "medical_records"
	}
	return "financial_transactions"
}

// documentContent picks the content cell from a document row: single
// column is content, two columns are filename then content, anything else
// takes the last column.
func documentContent(row []interface{}) string {
	var cell interface{}
	switch len(row) {
	case 0:
		return "No content found"
	case 1:
		cell = row[0]
	case 2:
		cell = row[1]
	default:
		cell = row[len(row)-1]
	}
	if cell == nil {
		return "No content found"
	}
	return stringValue(cell)
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func errorCode(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ":"); idx > 0 {
		return msg[:idx]
	}
	return "UNKNOWN"
}
