// internal/nlq/synthesizer/synthesizer_test.go
package synthesizer

import (
	"context"
	"errors"
	"testing"

	"nlq-gateway/internal/completion"
	"nlq-gateway/internal/nlq/safety"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger implements the Logger interface for tests
type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return l
}

type fakeCompleter struct {
	response string
	err      error
	lastReq  completion.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req completion.Request) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func TestToSQL_StripsFencesAndValidates(t *testing.T) {
	fake := &fakeCompleter{
		response: "```sql\nSELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND YEAR(transaction_date) = 2025\n```",
	}
	s := New(fake, &TestLogger{t: t})

	sqlText, err := s.ToSQL(context.Background(), "What is the total revenue in 2025?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0 AND YEAR(transaction_date) = 2025", sqlText)

	assert.Equal(t, "sql", fake.lastReq.Purpose)
	assert.Equal(t, 0.0, fake.lastReq.Temperature)
	assert.Equal(t, 2000, fake.lastReq.MaxTokens)
	assert.Contains(t, fake.lastReq.User, "What is the total revenue in 2025?")
}

func TestToSQL_InjectsYearIntoExistingWhere(t *testing.T) {
	fake := &fakeCompleter{
		response: "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0",
	}
	s := New(fake, &TestLogger{t: t})

	sqlText, err := s.ToSQL(context.Background(), "total revenue in 2024")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2024 AND amount > 0",
		sqlText)
}

func TestToSQL_CompletionError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	s := New(fake, &TestLogger{t: t})

	_, err := s.ToSQL(context.Background(), "total revenue")
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestToSQL_EmptyCompletion(t *testing.T) {
	fake := &fakeCompleter{response: "```sql\n```"}
	s := New(fake, &TestLogger{t: t})

	_, err := s.ToSQL(context.Background(), "total revenue")
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestToSQL_RejectsUnsafeSQL(t *testing.T) {
	fake := &fakeCompleter{response: "DROP TABLE FINANCIAL_TRANSACTIONS"}
	s := New(fake, &TestLogger{t: t})

	_, err := s.ToSQL(context.Background(), "drop everything")
	assert.True(t, errors.Is(err, safety.ErrSecurityValidation))
}

func TestInjectYearFilter(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		year         int
		expected     string
		wantInjected bool
	}{
		{
			name:         "existing where gains predicate in front",
			sql:          "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE amount > 0",
			year:         2025,
			expected:     "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025 AND amount > 0",
			wantInjected: true,
		},
		{
			name:         "lowercase where handled",
			sql:          "select sum(amount) from financial_transactions where amount > 0",
			year:         2025,
			expected:     "select sum(amount) from financial_transactions WHERE YEAR(transaction_date) = 2025 AND amount > 0",
			wantInjected: true,
		},
		{
			name:         "no where with group by",
			sql:          "SELECT category, SUM(amount) FROM FINANCIAL_TRANSACTIONS GROUP BY category",
			year:         2025,
			expected:     "SELECT category, SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025 GROUP BY category",
			wantInjected: true,
		},
		{
			name:         "no where with order by",
			sql:          "SELECT amount FROM FINANCIAL_TRANSACTIONS ORDER BY amount DESC",
			year:         2025,
			expected:     "SELECT amount FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025 ORDER BY amount DESC",
			wantInjected: true,
		},
		{
			name:         "bare statement gets trailing where",
			sql:          "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS;",
			year:         2025,
			expected:     "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025",
			wantInjected: true,
		},
		{
			name:         "medical table uses visit_date",
			sql:          "SELECT COUNT(*) FROM MEDICAL_RECORDS GROUP BY diagnosis",
			year:         2023,
			expected:     "SELECT COUNT(*) FROM MEDICAL_RECORDS WHERE YEAR(visit_date) = 2023 GROUP BY diagnosis",
			wantInjected: true,
		},
		{
			name:         "existing year filter left alone",
			sql:          "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025",
			year:         2025,
			expected:     "SELECT SUM(amount) FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025",
			wantInjected: false,
		},
		{
			name:         "date column reference counts as filter",
			sql:          "SELECT amount FROM FINANCIAL_TRANSACTIONS WHERE transaction_date > '2025-01-01'",
			year:         2025,
			expected:     "SELECT amount FROM FINANCIAL_TRANSACTIONS WHERE transaction_date > '2025-01-01'",
			wantInjected: false,
		},
		{
			name:         "report tables exempt",
			sql:          "SELECT report_data:content::string FROM FINANCIAL_REPORTS",
			year:         2025,
			expected:     "SELECT report_data:content::string FROM FINANCIAL_REPORTS",
			wantInjected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, injected := InjectYearFilter(tt.sql, tt.year)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantInjected, injected)
		})
	}
}

func TestCheckInjection(t *testing.T) {
	assert.NoError(t, checkInjection("SELECT 1 FROM FINANCIAL_TRANSACTIONS WHERE YEAR(transaction_date) = 2025"))
	assert.Error(t, checkInjection("SELECT 1 FROM FINANCIAL_TRANSACTIONS WHERE"))
	assert.Error(t, checkInjection("SELECT 1 WHERE YEAR(x) = 2025 AND AND y = 1"))
	assert.Error(t, checkInjection("SELECT 1 WHERE GROUP BY x"))
}
