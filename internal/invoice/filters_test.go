package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  APFilters
	}{
		{
			name:  "pending approval status",
			query: "Show me invoices pending approval",
			want:  APFilters{Status: "pending approval"},
		},
		{
			name:  "awaiting approval maps to pending approval",
			query: "Which invoices are awaiting approval?",
			want:  APFilters{Status: "pending approval"},
		},
		{
			name:  "exception status",
			query: "List invoices with an exception",
			want:  APFilters{Status: "exception"},
		},
		{
			name:  "posted status",
			query: "posted invoices please",
			want:  APFilters{Status: "posted"},
		},
		{
			name:  "vendor filter",
			query: "Show invoices from Tech Solutions",
			want:  APFilters{Vendor: "Tech Solutions"},
		},
		{
			name:  "status and vendor combined",
			query: "validating invoices from cloud services",
			want:  APFilters{Status: "validating", Vendor: "Cloud Services"},
		},
		{
			name:  "no filters",
			query: "Show me my invoices",
			want:  APFilters{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAPFilters(tt.query))
		})
	}
}

func TestIsAPAction(t *testing.T) {
	assert.True(t, IsAPAction("Approve invoice INV-24-5848"))
	assert.True(t, IsAPAction("please reject this invoice"))
	assert.True(t, IsAPAction("change status of the Tech Solutions invoice"))
	assert.False(t, IsAPAction("Show me pending invoices"))
}

func TestExtractARFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ARFilters
	}{
		{
			name:  "overdue status",
			query: "Show overdue invoices",
			want:  ARFilters{Status: "overdue"},
		},
		{
			name:  "customer filter",
			query: "invoices for Manufacturing Plus",
			want:  ARFilters{Customer: "Manufacturing Plus"},
		},
		{
			name:  "tech corp spelling variant",
			query: "what does tech corp owe us",
			want:  ARFilters{Customer: "TechCorp"},
		},
		{
			name:  "mark as paid is an action, paid not used as filter",
			query: "mark the TechCorp invoice as paid",
			want:  ARFilters{Customer: "TechCorp", IsAction: true},
		},
		{
			name:  "change status is an action",
			query: "change the status of the overdue invoice",
			want:  ARFilters{IsAction: true},
		},
		{
			name:  "paid as viewing filter",
			query: "show me paid invoices",
			want:  ARFilters{Status: "paid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractARFilters(tt.query))
		})
	}
}

func TestPrioritizeForAction(t *testing.T) {
	invoices := []Invoice{
		{ID: "INV-1", Status: "paid"},
		{ID: "INV-2", Status: "pending"},
		{ID: "INV-3", Status: "overdue"},
		{ID: "INV-4", Status: "disputed"},
	}

	got := PrioritizeForAction(invoices)
	assert.Len(t, got, 1)
	assert.Equal(t, "INV-3", got[0].ID)

	assert.Empty(t, PrioritizeForAction(nil))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{15800, "15,800.00"},
		{1234567.891, "1,234,567.89"},
		{999.5, "999.50"},
		{0, "0.00"},
		{-18900, "-18,900.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.amount))
	}
}
