// internal/nlq/orchestrator/result.go
package orchestrator

import (
	"fmt"

	"nlq-gateway/internal/nlq/classifier"
)

// SourceKind identifies which data surface produced an answer.
type SourceKind string

const (
	SourceStructured   SourceKind = "structured"
	SourceUnstructured SourceKind = "unstructured"
	SourcePDF          SourceKind = "pdf"
)

// Provenance describes where an answer came from, for the wire tag.
type Provenance struct {
	Kind         SourceKind
	Table        string // structured: table the answer was computed from
	ReportType   string // unstructured: financial_reports or medical_reports
	Consolidated bool
	Year         int
}

// Tag renders the provenance as the legacy source tag.
func (p Provenance) Tag() string {
	switch p.Kind {
	case SourceStructured:
		return "Structured - " + p.Table
	case SourceUnstructured:
		tag := "Unstructured - " + p.ReportType
		if p.Consolidated {
			tag += fmt.Sprintf(", Consolidated %d", p.Year)
		}
		return tag
	case SourcePDF:
		return "PDF Documents"
	}
	return "N/A"
}

// Result is the internal outcome of one pipeline run. The HTTP layer works
// with the structured fields; String renders the legacy wire format.
type Result struct {
	// ShortCircuit is set when a collaborator surface answers the query
	// and the analytic pipeline never runs.
	ShortCircuit classifier.Category

	// Answer is the rendered content. Label carries the "Summary" or
	// "Analysis" prefix for prefix-tagged answers; suffix-tagged answers
	// leave it empty.
	Answer string
	Label  string
	Prov   Provenance

	// SQL is the executed statement, when one was produced.
	SQL string

	Err error
}

// String renders the answer in the wire format consumed by clients:
// short-circuit tags verbatim, errors as "Error: ... (Source: N/A)",
// labeled answers as "<Label> (Source: <tag>): <answer>", and plain
// answers as "<answer> (Source: <tag>)".
func (r Result) String() string {
	if r.ShortCircuit != "" {
		return string(r.ShortCircuit)
	}
	if r.Err != nil {
		return fmt.Sprintf("Error: %v (Source: N/A)", r.Err)
	}
	if r.Label != "" {
		return fmt.Sprintf("%s (Source: %s): %s", r.Label, r.Prov.Tag(), r.Answer)
	}
	return fmt.Sprintf("%s (Source: %s)", r.Answer, r.Prov.Tag())
}

// IsError reports whether the pipeline failed.
func (r Result) IsError() bool {
	return r.Err != nil
}
