// internal/nlq/synthesizer/synthesizer.go
package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlq-gateway/internal/completion"
	"nlq-gateway/internal/nlq/classifier"
	"nlq-gateway/internal/nlq/safety"
)

var ErrSynthesisFailed = errors.New("SYNTHESIS_FAILED")

const (
	sqlTemperature = 0.0
	sqlMaxTokens   = 2000

	systemPrompt = "You are a helpful SQL generator for Snowflake."
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Synthesizer turns natural language into a validated warehouse statement.
type Synthesizer struct {
	completer completion.Completer
	logger    Logger
}

func New(completer completion.Completer, log Logger) *Synthesizer {
	return &Synthesizer{
		completer: completer,
		logger:    log,
	}
}

// ToSQL generates SQL for the query, strips markdown fences, injects the
// mandatory year filter, and runs the result through the safety gate.
// The returned statement is safe to execute as-is.
func (s *Synthesizer) ToSQL(ctx context.Context, query string) (string, error) {
	raw, err := s.completer.Complete(ctx, completion.Request{
		Purpose:     "sql",
		System:      systemPrompt,
		User:        buildPrompt(query),
		Temperature: sqlTemperature,
		MaxTokens:   sqlMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	sqlText := stripFences(raw)
	if sqlText == "" {
		return "", fmt.Errorf("%w: completion produced no SQL", ErrSynthesisFailed)
	}

	year := classifier.ExtractYear(query)
	sqlText, injected := InjectYearFilter(sqlText, year)
	if injected {
		if err := checkInjection(sqlText); err != nil {
			return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
		}
	}

	if err := safety.Validate(sqlText); err != nil {
		return "", err
	}

	s.logger.Info("sql synthesized", map[string]interface{}{
		"year":     year,
		"injected": injected,
	})

	return sqlText, nil
}

func stripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
