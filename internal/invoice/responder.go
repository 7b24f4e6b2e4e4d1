package invoice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nlq-gateway/internal/completion"
)

const (
	actionTemperature = 0.7
	actionMaxTokens   = 250
	viewTemperature   = 0.7
	viewMaxTokens     = 150
)

const apFallback = "**Invoice Information**\n\nTo view your invoice details including IDs, amounts, statuses, and vendor information, please access the GenAI Suite dashboard below."

const arFallback = "**Accounts Receivable Information**\n\nTo view your AR invoice details including IDs, amounts, statuses, and customer information, please access the GenAI Suite dashboard below."

// Responder answers accounts payable and receivable queries with live
// invoice data. Every failure degrades to a static dashboard pointer, never
// to an error.
type Responder struct {
	client    *Client
	completer completion.Completer
	logger    Logger
	now       func() time.Time
}

func NewResponder(client *Client, completer completion.Completer, logger Logger) *Responder {
	return &Responder{
		client:    client,
		completer: completer,
		logger:    logger,
		now:       time.Now,
	}
}

// RespondAP handles an accounts payable query end to end.
func (r *Responder) RespondAP(ctx context.Context, query string) string {
	filters := ExtractAPFilters(query)

	data, err := r.client.Fetch(ctx, Query{
		Type:   "payable",
		Status: filters.Status,
		Vendor: filters.Vendor,
	})
	if err != nil {
		r.logger.Error("Failed to fetch payable invoice data", map[string]interface{}{"error": err.Error()})
		return apFallback
	}

	var details strings.Builder
	for _, inv := range data.Invoices {
		fmt.Fprintf(&details, "• %s - Invoice ID: %s - Amount: $%s - Due: %s\n",
			inv.Vendor, inv.ID, formatAmount(inv.Amount), inv.DueDate)
	}

	var req completion.Request
	if IsAPAction(query) {
		req = r.apActionRequest(query, details.String())
	} else {
		req = r.apViewRequest(query, details.String(), data.Summary)
	}

	answer, err := r.completer.Complete(ctx, req)
	if err != nil {
		r.logger.Error("Failed to generate payable invoice response", map[string]interface{}{"error": err.Error()})
		return apFallback
	}
	return strings.TrimSpace(answer)
}

// RespondAR handles an accounts receivable query end to end.
func (r *Responder) RespondAR(ctx context.Context, query string) string {
	filters := ExtractARFilters(query)

	data, err := r.client.Fetch(ctx, Query{
		Type:     "receivable",
		Status:   filters.Status,
		Customer: filters.Customer,
	})
	if err != nil {
		r.logger.Error("Failed to fetch receivable invoice data", map[string]interface{}{"error": err.Error()})
		return arFallback
	}

	invoices := data.Invoices
	if filters.IsAction && filters.Customer == "" {
		invoices = PrioritizeForAction(invoices)
	}

	var details strings.Builder
	for _, inv := range invoices {
		fmt.Fprintf(&details, "• %s - Invoice ID: %s - Amount: $%s - Due: %s - Status: %s\n",
			inv.Customer, inv.ID, formatAmount(inv.Amount), inv.DueDate, inv.Status)
	}

	var req completion.Request
	if filters.IsAction {
		req = r.arActionRequest(query, details.String())
	} else {
		req = r.arViewRequest(query, details.String(), data.Summary)
	}

	answer, err := r.completer.Complete(ctx, req)
	if err != nil {
		r.logger.Error("Failed to generate receivable invoice response", map[string]interface{}{"error": err.Error()})
		return arFallback
	}
	return strings.TrimSpace(answer)
}

func (r *Responder) apActionRequest(query, details string) completion.Request {
	today := r.now().Format("2006-01-02")
	system := fmt.Sprintf(`You are an AI assistant for accounts payable. For approval requests, provide a detailed success confirmation.

FORMAT FOR APPROVAL CONFIRMATION:
Show approval success details professionally with all relevant information.

EXAMPLE:
**Invoice Approved Successfully ✓**

**Invoice ID**: INV-24-5848 (Tech Solutions Ltd.)
**Status Changed**: Pending Approval → APPROVED
**Invoice Amount**: $15,800.00
**Approval Method**: Manager Approval
**Approval Date**: %s

**Payment Update**: Invoice has been queued for payment processing. Payment will be processed within 2-3 business days. Vendor notification email sent automatically.

View complete details in GenAI Suite dashboard below.`, today)

	user := fmt.Sprintf("User asked: '%s'\n\nInvoice:\n%s\n\nGenerate a detailed approval success confirmation showing invoice ID, vendor, status change, invoice amount, approval method (Manager Approval), approval date (%s), and payment update message. Make it look professional and complete.", query, details, today)

	return completion.Request{
		Purpose:     "invoice_ap_action",
		System:      system,
		User:        user,
		Temperature: actionTemperature,
		MaxTokens:   actionMaxTokens,
	}
}

func (r *Responder) apViewRequest(query, details string, summary Summary) completion.Request {
	system := `You are an AI assistant for invoice information. Provide CONCISE responses.

FORMAT:
**Status**: **Count** totaling **$Amount**
• **Vendor** - **Invoice ID** - **$Amount** - Due: Date

View details in GenAI Suite dashboard below.`

	user := fmt.Sprintf("User asked: '%s'\n\nInvoice Data:\n%s\n\nTotal: %d invoices, $%s\n\nProvide a concise response (3-4 lines) with bullet points and bold for key info.",
		query, details, summary.Count, formatAmount(summary.Total))

	return completion.Request{
		Purpose:     "invoice_ap_view",
		System:      system,
		User:        user,
		Temperature: viewTemperature,
		MaxTokens:   viewMaxTokens,
	}
}

func (r *Responder) arActionRequest(query, details string) completion.Request {
	today := r.now().Format("2006-01-02")
	system := fmt.Sprintf(`You are an AI assistant for accounts receivable. For status change requests, provide a detailed success confirmation.

FORMAT FOR STATUS CHANGE CONFIRMATION:
Show payment success details professionally with all relevant information.

EXAMPLE:
**Payment Status Updated Successfully ✓**

**Invoice ID**: INV-AR-24-2848 (Manufacturing Plus)
**Status Changed**: Overdue → PAID
**Payment Amount**: $18,900.00
**Payment Method**: Wire Transfer
**Payment Date**: %s

**Account Update**: Manufacturing Plus account balance is now $0.00. Customer maintains excellent payment rating. Automatic thank you email sent to customer contact.

View complete details in GenAI Suite dashboard below.`, today)

	user := fmt.Sprintf("User asked: '%s'\n\nInvoice:\n%s\n\nGenerate a detailed payment success confirmation showing invoice ID, customer, status change, payment amount, payment method (Wire Transfer), payment date (%s), and account update message. Make it look professional and complete.", query, details, today)

	return completion.Request{
		Purpose:     "invoice_ar_action",
		System:      system,
		User:        user,
		Temperature: actionTemperature,
		MaxTokens:   actionMaxTokens,
	}
}

func (r *Responder) arViewRequest(query, details string, summary Summary) completion.Request {
	system := `You are an AI assistant for accounts receivable information. Provide CONCISE responses.

FORMAT:
**Status**: **Count** totaling **$Amount**
• **Customer** - **Invoice ID** - **$Amount** - Due: Date

View details in GenAI Suite dashboard below.`

	user := fmt.Sprintf("User asked: '%s'\n\nAR Invoice Data:\n%s\n\nTotal: %d invoices, $%s\n\nProvide a concise response (3-4 lines) with bullet points and bold for key info.",
		query, details, summary.Count, formatAmount(summary.Total))

	return completion.Request{
		Purpose:     "invoice_ar_view",
		System:      system,
		User:        user,
		Temperature: viewTemperature,
		MaxTokens:   viewMaxTokens,
	}
}

// formatAmount renders an amount with thousands separators and two decimals,
// e.g. 15800 becomes "15,800.00".
func formatAmount(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var grouped strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		grouped.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(intPart[i : i+3])
	}

	out := grouped.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
