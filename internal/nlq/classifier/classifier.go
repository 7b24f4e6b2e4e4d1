// internal/nlq/classifier/classifier.go
package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is the routing decision for a natural language query.
type Category string

const (
	CategoryStructured         Category = "structured"
	CategoryUnstructured       Category = "unstructured"
	CategoryPDF                Category = "pdf"
	CategoryInvoiceSuite       Category = "genai_invoice_suite"
	CategoryARSuite            Category = "genai_ar_suite"
	CategoryFinancialDashboard Category = "powerbi_financial_dashboard"
	CategoryMedicalDashboard   Category = "powerbi_medical_dashboard"
)

// IsShortCircuit reports whether the category bypasses the analytic
// pipeline and is answered by a collaborator surface instead.
func (c Category) IsShortCircuit() bool {
	switch c {
	case CategoryInvoiceSuite, CategoryARSuite, CategoryFinancialDashboard, CategoryMedicalDashboard:
		return true
	}
	return false
}

// DefaultYear is assumed when a query names no year.
const DefaultYear = 2025

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// rule is one row of the classification decision table.
type rule struct {
	category Category
	match    func(q string) bool
}

func anyOf(keywords []string) func(string) bool {
	return func(q string) bool {
		return containsAny(q, keywords)
	}
}

// rules are evaluated in order and the first match wins. Approval
// workflows are payable-specific, so AP outranks AR, and both outrank
// the generic invoice bucket. Dashboard phrases are checked before the
// analytic split so "open the financial dashboard" never reaches SQL
// synthesis. Report language is checked before aggregation language:
// "financials summary Q1" is a report request even though it mentions
// financials.
var rules = []rule{
	{CategoryInvoiceSuite, func(q string) bool {
		return containsAny(q, apStrongIndicators) || containsAny(q, apVendorIndicators)
	}},
	{CategoryARSuite, func(q string) bool {
		return containsAny(q, arStrongIndicators) || containsAny(q, arCustomerIndicators) || containsAny(q, statusActionIndicators)
	}},
	{CategoryInvoiceSuite, anyOf(generalInvoiceIndicators)},
	{CategoryFinancialDashboard, anyOf(financialDashboardIndicators)},
	{CategoryMedicalDashboard, anyOf(medicalDashboardIndicators)},
	{CategoryFinancialDashboard, anyOf(genericDashboardIndicators)},
	{CategoryPDF, anyOf(pdfIndicators)},
	{CategoryUnstructured, func(q string) bool {
		return containsAny(q, unstructuredKeywords) || hasQuarterToken(q)
	}},
	{CategoryStructured, anyOf(structuredIndicators)},
}

// Classify routes a query to exactly one category. Queries that match
// nothing default to structured.
func Classify(query string) Category {
	q := strings.ToLower(query)
	for _, r := range rules {
		if r.match(q) {
			return r.category
		}
	}
	return CategoryStructured
}

// IsMedical reports whether the query concerns the medical domain.
func IsMedical(query string) bool {
	return containsAny(strings.ToLower(query), medicalKeywords)
}

// WantsConsolidation reports whether a report query asks for the whole
// year rather than a single quarter. Any quarter token wins over the
// consolidation vocabulary.
func WantsConsolidation(query string) bool {
	q := strings.ToLower(query)
	return containsAny(q, consolidationKeywords) && !hasQuarterToken(q)
}

// ExtractYear returns the first four-digit 20xx token in the query, or
// DefaultYear when none is present.
func ExtractYear(query string) int {
	m := yearPattern.FindString(query)
	if m == "" {
		return DefaultYear
	}
	year, _ := strconv.Atoi(m)
	return year
}

// QuarterDates maps quarter tokens to their report dates for a year.
func QuarterDates(year int) map[string]string {
	y := strconv.Itoa(year)
	return map[string]string{
		"q1": y + "-03-31",
		"q2": y + "-06-30",
		"q3": y + "-09-30",
		"q4": y + "-12-31",
	}
}

// QuarterKey returns the first quarter token mentioned in the query.
func QuarterKey(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, key := range []string{"q1", "q2", "q3", "q4"} {
		if strings.Contains(q, key) {
			return key, true
		}
	}
	return "", false
}

func hasQuarterToken(lower string) bool {
	_, ok := QuarterKey(lower)
	return ok
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
