// internal/nlq/orchestrator/reports.go
package orchestrator

import (
	"fmt"
	"strings"
)

// Report retrieval statements are templated locally rather than generated.
// They still pass through the safety gate before execution.

func consolidatedReportSQL(medical bool, year int) string {
	if medical {
		// Medical report dates live inside parsed PDF content, so the
		// year cannot be filtered server-side.
		return strings.TrimSpace(`
SELECT report_data:content::string AS content
FROM medical_reports
WHERE report_data:content::string IS NOT NULL
ORDER BY report_data:report_date::string`)
	}
	return strings.TrimSpace(fmt.Sprintf(`
SELECT report_data:content::string AS content
FROM financial_reports
WHERE YEAR(TO_DATE(report_data:report_date::string)) = %d
ORDER BY TO_DATE(report_data:report_date::string)`, year))
}

func quarterReportSQL(medical bool, quarterKey string, quarterDate string, year int) string {
	if medical {
		quarterText := strings.ToUpper(quarterKey)
		return strings.TrimSpace(fmt.Sprintf(`
SELECT report_data:content::string
FROM medical_reports
WHERE (report_data:content::string ILIKE '%%%s%%'
   OR report_data:content::string ILIKE '%%%s %d%%'
   OR report_data:file_name::string ILIKE '%%%s_%%%d%%')
AND report_data:content::string IS NOT NULL`,
			quarterText, quarterText, year, quarterKey, year))
	}
	return fmt.Sprintf("SELECT report_data:content::string FROM financial_reports WHERE report_data:report_date::date = '%s'", quarterDate)
}

// medicalPDFSQL templates the document lookup for medical PDF questions.
// Annual or summary wording narrows to the annual summary document.
func medicalPDFSQL(query string) string {
	q := strings.ToLower(query)
	if strings.Contains(q, "annual") || strings.Contains(q, "summary") {
		return strings.TrimSpace(`
SELECT report_data:content::string as content
FROM medical_reports
WHERE report_data:content::string ILIKE '%ANNUAL%'
   AND report_data:content::string ILIKE '%SUMMARY%'
LIMIT 1`)
	}
	return strings.TrimSpace(`
SELECT report_data:content::string as content
FROM medical_reports
WHERE report_data:content::string IS NOT NULL
LIMIT 5`)
}
