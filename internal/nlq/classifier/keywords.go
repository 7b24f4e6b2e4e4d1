// internal/nlq/classifier/keywords.go
package classifier

// Keyword vocabularies are matched as lowercase substrings.

// Payable approval workflows and the vendors that invoice us.
var apStrongIndicators = []string{
	"approve invoice", "approve the invoice", "pending approval",
	"awaiting approval", "reject invoice", "reject the invoice",
	"accounts payable", "ap automation", "vendor invoice",
	"invoice processing", "invoice automation", "ap dashboard",
}

var apVendorIndicators = []string{
	"tech solutions", "global tech", "office supplies co",
	"cloud services inc", "consulting partners",
}

// Receivable vocabulary and the customers we invoice.
var arStrongIndicators = []string{
	"accounts receivable", "ar automation", "customer invoice",
	"receivable", "receivables", "collection", "customer payment",
	"ar dashboard", "invoice sent to", "invoice to",
}

var arCustomerIndicators = []string{
	"manufacturing plus", "techcorp", "global retailers", "service dynamics",
}

// Status mutations route to the receivable surface.
var statusActionIndicators = []string{
	"change status", "update status", "mark as", "set status",
	"change the status", "update the status", "mark it as", "set it to",
}

// Generic invoice mentions default to payable.
var generalInvoiceIndicators = []string{
	"invoice", "invoices", "which invoices", "show invoices", "invoice status",
}

var financialDashboardIndicators = []string{
	"financial dashboard", "finance dashboard", "financial analytics",
	"finance report", "financial report", "show financial", "open financial",
}

var medicalDashboardIndicators = []string{
	"medical dashboard", "medical analytics", "medical report",
	"show medical", "open medical", "healthcare dashboard",
}

var genericDashboardIndicators = []string{
	"power bi", "powerbi",
}

var pdfIndicators = []string{
	"annual report", "pdf", "document", "invoice", "q4 invoice",
	"uploaded", "file", "files", "annual medical summary", "medical report content",
	"show me the medical report", "content of medical report",
}

var structuredIndicators = []string{
	"total", "sum", "maximum", "minimum", "max", "min", "count",
	"which month", "what month", "expense", "revenue", "amount",
	"transaction", "calculate", "find", "show me", "financials",
	"performance", "sold", "services", "products", "consulting",
	"patient", "diagnosis", "treatment", "cost", "medical", "visit",
	"diagnosis trends", "patient cost", "treatment cost", "medical cost",
}

var unstructuredKeywords = []string{
	"summary", "report", "update", "highlight", "highlights", "overview",
	"annual", "ytd", "medical report", "medical summary",
}

var medicalKeywords = []string{
	"patient", "diagnosis", "treatment", "medical", "visit",
	"medical cost", "treatment cost", "patient cost", "diagnosis trends",
	"medical record", "medical report", "medical summary",
}

var consolidationKeywords = []string{
	"all", "overall", "full year", "annual", "ytd", "entire",
	"consolidated", "highlights", "overview", "reports", "year",
}
