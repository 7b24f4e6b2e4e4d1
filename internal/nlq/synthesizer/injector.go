// internal/nlq/synthesizer/injector.go
package synthesizer

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wherePattern   = regexp.MustCompile(`(?i)\swhere\s`)
	groupByPattern = regexp.MustCompile(`(?i)\sgroup by`)
	orderByPattern = regexp.MustCompile(`(?i)\sorder by`)

	danglingWhere = regexp.MustCompile(`(?i)\bwhere\s*$`)
	doubledAnd    = regexp.MustCompile(`(?i)\band\s+and\b`)
	emptyWhere    = regexp.MustCompile(`(?i)\bwhere\s+(group|order)\s+by\b`)
)

// InjectYearFilter adds a YEAR(date_column) = year predicate to statements
// touching the date-partitioned tables when the generator omitted any date
// filtering. The predicate is ANDed in front of an existing WHERE clause,
// or a new WHERE is spliced before GROUP BY / ORDER BY / the end of the
// statement. Returns the (possibly rewritten) SQL and whether it changed.
func InjectYearFilter(sqlText string, year int) (string, bool) {
	sqlUpper := strings.ToUpper(sqlText)

	onTransactions := strings.Contains(sqlUpper, "FINANCIAL_TRANSACTIONS")
	onRecords := strings.Contains(sqlUpper, "MEDICAL_RECORDS")
	if !onTransactions && !onRecords {
		return sqlText, false
	}

	// Any of these means the generator already scoped the statement by date.
	existingFilters := []string{
		"YEAR(",
		fmt.Sprintf("= %d", year),
		"TRANSACTION_DATE",
		"VISIT_DATE",
	}
	for _, f := range existingFilters {
		if strings.Contains(sqlUpper, f) {
			return sqlText, false
		}
	}

	dateColumn := "transaction_date"
	if !onTransactions {
		dateColumn = "visit_date"
	}
	predicate := fmt.Sprintf("YEAR(%s) = %d", dateColumn, year)

	if loc := wherePattern.FindStringIndex(sqlText); loc != nil {
		return sqlText[:loc[0]] + " WHERE " + predicate + " AND " + sqlText[loc[1]:], true
	}

	if loc := groupByPattern.FindStringIndex(sqlText); loc != nil {
		return sqlText[:loc[0]] + " WHERE " + predicate + " GROUP BY" + sqlText[loc[1]:], true
	}

	if loc := orderByPattern.FindStringIndex(sqlText); loc != nil {
		return sqlText[:loc[0]] + " WHERE " + predicate + " ORDER BY" + sqlText[loc[1]:], true
	}

	return strings.TrimRight(sqlText, "; \t\n") + " WHERE " + predicate, true
}

// checkInjection rejects statements the splice left syntactically broken.
func checkInjection(sqlText string) error {
	switch {
	case danglingWhere.MatchString(sqlText):
		return fmt.Errorf("year filter injection left a dangling WHERE")
	case doubledAnd.MatchString(sqlText):
		return fmt.Errorf("year filter injection produced a doubled AND")
	case emptyWhere.MatchString(sqlText):
		return fmt.Errorf("year filter injection produced an empty WHERE clause")
	}
	return nil
}
