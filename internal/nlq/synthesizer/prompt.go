// internal/nlq/synthesizer/prompt.go
package synthesizer

import "fmt"

// The exemplar queries anchor the generator to the warehouse schema and to
// patterns the safety gate and year injector expect.
const promptTemplate = `You are a SQL expert for Snowflake. Convert this natural language query to a valid Snowflake SQL query.

Data sources available:
- FINANCIAL_TRANSACTIONS: columns transaction_id (INTEGER), transaction_date (DATE), amount (DECIMAL(10,2)), category (VARCHAR), description (VARCHAR)
- FINANCIAL_REPORTS: column report_data (VARIANT with report_id, report_date, content, file_name, source_type) - includes both quarterly reports AND extracted PDF content
- MEDICAL_RECORDS: columns patient_id (INTEGER), visit_date (DATE), diagnosis (VARCHAR), treatment_cost (DECIMAL(10,2)), notes (VARCHAR)
- MEDICAL_REPORTS: column report_data (VARIANT with report_id, report_date, content) - includes both medical reports AND extracted PDF/JSON content

For structured calculations, use FINANCIAL_TRANSACTIONS (IGNORE company names in queries - data doesn't filter by company):
- Revenue growth: SELECT YEAR(transaction_date) as year, SUM(amount) as revenue FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 GROUP BY YEAR(transaction_date) ORDER BY year
- Total revenue 2025: SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND YEAR(transaction_date) = 2025
- Total expenses 2025: SELECT SUM(ABS(amount)) FROM FINANCIAL_TRANSACTIONS WHERE amount < 0 AND YEAR(transaction_date) = 2025
- Investment total: SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE category = 'Investment' AND YEAR(transaction_date) = 2025
- Services revenue: SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND (description ILIKE '%%service%%' OR description ILIKE '%%consulting%%')
- Products sold revenue: SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND (description ILIKE '%%product%%' OR category ILIKE '%%product%%')
- Services in 2025: SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND YEAR(transaction_date) = 2025 AND (description ILIKE '%%service%%' OR description ILIKE '%%consulting%%')
- Revenue by category: SELECT category, SUM(amount) as total FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 GROUP BY category ORDER BY total DESC

CRITICAL: NEVER filter by company names like "Global Revenue Corp" - use ALL transaction data regardless of company mentions.

For broad searches (services, products, consulting), use ILIKE with wildcards and check both description and category columns.

For medical structured queries, use MEDICAL_RECORDS:
- Patient cost summary: SELECT patient_id, SUM(treatment_cost) as total_cost FROM MEDICAL_RECORDS WHERE YEAR(visit_date) = 2025 GROUP BY patient_id ORDER BY total_cost DESC
- Diagnosis trends: SELECT diagnosis, COUNT(*) as count FROM MEDICAL_RECORDS WHERE YEAR(visit_date) = 2025 GROUP BY diagnosis ORDER BY count DESC
- Monthly medical costs: SELECT MONTH(visit_date) as month, SUM(treatment_cost) as monthly_cost FROM MEDICAL_RECORDS WHERE YEAR(visit_date) = 2025 GROUP BY MONTH(visit_date) ORDER BY month
- Patient visits by diagnosis: SELECT diagnosis, patient_id, visit_date, treatment_cost FROM MEDICAL_RECORDS WHERE diagnosis ILIKE '%%keyword%%' AND YEAR(visit_date) = 2025

For medical PDF/JSON document queries, use MEDICAL_REPORTS:
- Medical report content: SELECT report_data:content::string FROM MEDICAL_REPORTS WHERE report_data:report_id::string = 'specific_id'
- All medical reports: SELECT report_data:report_id::string, report_data:content::string FROM MEDICAL_REPORTS
- Report by date: SELECT report_data:content::string FROM MEDICAL_REPORTS WHERE report_data:report_date::string LIKE '%%2025%%'

For PDF document queries (annual report, invoice data, document content), use FINANCIAL_REPORTS with source_type = 'PDF':
- Annual report content: SELECT report_data:content::string FROM FINANCIAL_REPORTS WHERE report_data:source_type::string = 'PDF' AND report_data:file_name::string LIKE '%%annual%%'
- Q4 invoice content: SELECT report_data:content::string FROM FINANCIAL_REPORTS WHERE report_data:source_type::string = 'PDF' AND report_data:file_name::string LIKE '%%invoice%%'
- All PDF documents: SELECT report_data:file_name::string, report_data:content::string FROM FINANCIAL_REPORTS WHERE report_data:source_type::string = 'PDF'
- Document search: SELECT report_data:content::string FROM FINANCIAL_REPORTS WHERE report_data:source_type::string = 'PDF' AND report_data:file_name::string LIKE '%%keyword%%'

IMPORTANT: For PDF content queries, ALWAYS use FINANCIAL_REPORTS with source_type = 'PDF' to get actual document content, not just filenames.

For report summaries, use FINANCIAL_REPORTS or MEDICAL_REPORTS respectively.

Query: %s
Return only the SQL query, no explanations, and do not include markdown formatting`

func buildPrompt(query string) string {
	return fmt.Sprintf(promptTemplate, query)
}
