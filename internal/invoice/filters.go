package invoice

import "strings"

// APFilters are the status and vendor filters extracted from an accounts
// payable query. Empty fields mean no filter.
type APFilters struct {
	Status string
	Vendor string
}

// ARFilters are the status and customer filters extracted from an accounts
// receivable query, plus whether the query asks for a status change.
type ARFilters struct {
	Status   string
	Customer string
	IsAction bool
}

var apActionWords = []string{"approve", "reject", "update", "change status", "modify"}

// IsAPAction reports whether an accounts payable query asks to act on an
// invoice rather than view it.
func IsAPAction(query string) bool {
	lower := strings.ToLower(query)
	for _, word := range apActionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ExtractAPFilters maps query phrasing onto the invoice service's payable
// status values and vendor display names.
func ExtractAPFilters(query string) APFilters {
	lower := strings.ToLower(query)
	var f APFilters

	switch {
	case strings.Contains(lower, "pending approval"), strings.Contains(lower, "awaiting approval"):
		f.Status = "pending approval"
	case strings.Contains(lower, "exception"):
		f.Status = "exception"
	case strings.Contains(lower, "posted"):
		f.Status = "posted"
	case strings.Contains(lower, "validating"):
		f.Status = "validating"
	}

	switch {
	case strings.Contains(lower, "tech solutions"):
		f.Vendor = "Tech Solutions"
	case strings.Contains(lower, "global tech"):
		f.Vendor = "Global Tech"
	case strings.Contains(lower, "office supplies"):
		f.Vendor = "Office Supplies"
	case strings.Contains(lower, "cloud services"):
		f.Vendor = "Cloud Services"
	case strings.Contains(lower, "consulting partners"):
		f.Vendor = "Consulting Partners"
	}

	return f
}

// ExtractARFilters maps query phrasing onto receivable status values and
// customer display names. A status word inside an action request ("mark as
// paid") is the target state, not a filter, so statuses only apply to
// viewing queries.
func ExtractARFilters(query string) ARFilters {
	lower := strings.ToLower(query)
	var f ARFilters

	f.IsAction = (strings.Contains(lower, "change") && strings.Contains(lower, "status")) ||
		(strings.Contains(lower, "update") && strings.Contains(lower, "status")) ||
		strings.Contains(lower, "mark as") ||
		(strings.Contains(lower, "set") && strings.Contains(lower, "status"))

	if !f.IsAction {
		switch {
		case strings.Contains(lower, "overdue"):
			f.Status = "overdue"
		case strings.Contains(lower, "disputed"):
			f.Status = "disputed"
		case strings.Contains(lower, "paid"):
			f.Status = "paid"
		case strings.Contains(lower, "pending"):
			f.Status = "pending"
		}
	}

	switch {
	case strings.Contains(lower, "manufacturing plus"):
		f.Customer = "Manufacturing Plus"
	case strings.Contains(lower, "techcorp"), strings.Contains(lower, "tech corp"):
		f.Customer = "TechCorp"
	case strings.Contains(lower, "global retailers"):
		f.Customer = "Global Retailers"
	case strings.Contains(lower, "service dynamics"):
		f.Customer = "Service Dynamics"
	}

	return f
}

var arStatusPriority = map[string]int{
	"overdue":  0,
	"pending":  1,
	"disputed": 2,
	"paid":     3,
}

// PrioritizeForAction picks the single most actionable receivable invoice,
// preferring overdue, then pending, then disputed, then paid.
func PrioritizeForAction(invoices []Invoice) []Invoice {
	if len(invoices) == 0 {
		return invoices
	}
	best := invoices[0]
	bestRank := rankStatus(best.Status)
	for _, inv := range invoices[1:] {
		if r := rankStatus(inv.Status); r < bestRank {
			best = inv
			bestRank = r
		}
	}
	return []Invoice{best}
}

func rankStatus(status string) int {
	if rank, ok := arStatusPriority[strings.ToLower(status)]; ok {
		return rank
	}
	return 4
}
