// internal/nlq/safety/gate.go

// Package safety is the last line of defense between generated SQL and the
// warehouse. Every statement must pass Validate before execution, including
// the locally templated report lookups.
package safety

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrSecurityValidation = errors.New("SECURITY_VALIDATION_FAILED")

// deniedOperations are rejected as whole words anywhere in the statement.
var deniedOperations = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE",
	"EXEC", "EXECUTE",
}

// AllowedTables is the warehouse surface the gateway may read from.
var AllowedTables = []string{
	"FINANCIAL_TRANSACTIONS", "FINANCIAL_REPORTS", "MEDICAL_RECORDS", "MEDICAL_REPORTS",
}

var deniedPatterns = compileDenied()

func compileDenied() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(deniedOperations))
	for _, op := range deniedOperations {
		out[op] = regexp.MustCompile(`\b` + op + `\b`)
	}
	return out
}

// Validate applies the gate rules in order: the statement must start with
// SELECT, must not contain a denied operation, and must touch at least one
// whitelisted table. The first violated rule is reported.
func Validate(sqlText string) error {
	sqlUpper := strings.ToUpper(strings.TrimSpace(sqlText))

	if !strings.HasPrefix(sqlUpper, "SELECT") {
		return fmt.Errorf("%w: only SELECT queries are allowed", ErrSecurityValidation)
	}

	for _, op := range deniedOperations {
		if deniedPatterns[op].MatchString(sqlUpper) {
			return fmt.Errorf("%w: %s operations are not allowed", ErrSecurityValidation, op)
		}
	}

	for _, table := range AllowedTables {
		if strings.Contains(sqlUpper, table) {
			return nil
		}
	}

	return fmt.Errorf("%w: query must use whitelisted tables: %s",
		ErrSecurityValidation, strings.Join(AllowedTables, ", "))
}
