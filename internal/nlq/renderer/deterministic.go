// internal/nlq/renderer/deterministic.go
package renderer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// aggregationWords mark queries whose single-cell result must be returned
// verbatim, with no model in the loop.
var aggregationWords = []string{
	"total", "sum", "count", "maximum", "minimum", "max", "min",
}

// Deterministic renders structured query results without any model
// involvement. A single-cell aggregate becomes the exact number, small
// result sets become pipe-joined rows, large ones a count with a preview.
func Deterministic(rows [][]interface{}, query string) string {
	if len(rows) == 0 {
		return "No results found"
	}

	queryLower := strings.ToLower(query)
	isAggregation := false
	for _, w := range aggregationWords {
		if strings.Contains(queryLower, w) {
			isAggregation = true
			break
		}
	}

	if isAggregation && len(rows) == 1 && len(rows[0]) == 1 {
		return formatScalar(rows[0][0])
	}

	if len(rows) <= 5 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, val := range row {
				if val == nil {
					cells = append(cells, "NULL")
				} else {
					cells = append(cells, formatValue(val))
				}
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
		return strings.Join(lines, "\n")
	}

	preview := make([]string, 0, 3)
	for _, row := range rows[:3] {
		cells := make([]string, 0, len(row))
		for _, val := range row {
			if val == nil {
				cells = append(cells, "NULL")
			} else {
				cells = append(cells, formatValue(val))
			}
		}
		lines := strings.Join(cells, " | ")
		preview = append(preview, "("+lines+")")
	}
	return fmt.Sprintf("Found %d results. First few: [%s]", len(rows), strings.Join(preview, ", "))
}

// formatScalar renders a single aggregate cell. Integral numbers lose the
// decimal point, everything else gets two decimals. NULL aggregates read
// as zero.
func formatScalar(value interface{}) string {
	if value == nil {
		return "0"
	}

	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case float32:
		return formatScalar(float64(v))
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case string:
		// Drivers often hand numerics back as text.
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return formatScalar(f)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case float64:
		// Float columns keep a decimal point even when integral, so a
		// 3000.0 cell reads "3000.0" rather than "3000".
		if v == math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
