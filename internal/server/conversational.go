package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nlq-gateway/internal/common/logger"
	"nlq-gateway/internal/completion"
)

const (
	conversationalTemperature = 0.7
	conversationalMaxTokens   = 200
)

const conversationalSystemPrompt = "You are a professional AI assistant helping with financial and medical data analysis. Generate natural, conversational responses that are well-structured and visually appealing. Use bullet points, numbered lists, and clear formatting when presenting data. Always be helpful, concise, and provide insights. Format currency properly for financial data and medical costs. Be conversational but professional. Structure your responses with:\n\n• Key findings as bullet points\n• Clear insights and analysis\n• Easy-to-scan formatting\n• Professional but friendly tone\n\nMake the data easy to understand and visually appealing."

// Conversational turns a deterministic result string into a friendly
// explanation. The underlying numbers are never altered: on any completion
// failure it falls back to a locally formatted sentence.
type Conversational struct {
	completer completion.Completer
	logger    logger.Logger
}

func NewConversational(completer completion.Completer, log logger.Logger) *Conversational {
	return &Conversational{completer: completer, logger: log}
}

func (c *Conversational) Summarize(ctx context.Context, query, resultsText string) string {
	user := fmt.Sprintf("User asked: '%s'\n\nData found: %s\n\nPlease provide a natural, conversational response explaining this result. Keep it concise but informative, and make it sound like you're having a friendly conversation about the data.",
		query, resultsContext(resultsText))

	answer, err := c.completer.Complete(ctx, completion.Request{
		Purpose:     "conversational_summary",
		System:      conversationalSystemPrompt,
		User:        user,
		Temperature: conversationalTemperature,
		MaxTokens:   conversationalMaxTokens,
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			c.logger.Error("Conversational rendering failed", map[string]interface{}{"error": err.Error()})
		}
		return fallbackSummary(resultsText)
	}
	return strings.TrimSpace(answer)
}

// resultsContext reshapes the deterministic result for the prompt. Pipe
// separated year rows become labeled dollar lines so the model cannot
// confuse label and amount columns.
func resultsContext(resultsText string) string {
	if !strings.Contains(resultsText, "\n") {
		if value, ok := parseNumber(resultsText); ok {
			return "Result: " + dollarFormat(value)
		}
		return "Result: " + resultsText
	}

	lines := strings.Split(strings.TrimSpace(resultsText), "\n")
	if len(lines) > 1 && strings.Contains(resultsText, "|") {
		var formatted strings.Builder
		for _, line := range lines {
			if !strings.Contains(line, "|") {
				continue
			}
			parts := strings.SplitN(line, "|", 2)
			label := strings.TrimSpace(parts[0])
			amount := strings.TrimSpace(parts[1])
			if len(label) == 4 && isDigits(label) {
				fmt.Fprintf(&formatted, "Year %s: $%s\n", label, amount)
			} else {
				fmt.Fprintf(&formatted, "%s: $%s\n", label, amount)
			}
		}
		return "Multi-year data:\n" + formatted.String()
	}
	return "Results: " + resultsText
}

func fallbackSummary(resultsText string) string {
	if value, ok := parseNumber(resultsText); ok {
		return fmt.Sprintf("Based on your query, the result is %s.", dollarFormat(value))
	}
	return fmt.Sprintf("Based on your query, the result is %s.", resultsText)
}

func parseNumber(s string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	return value, err == nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// dollarFormat renders a value as $X,XXX.XX with the sign outside the
// dollar sign.
func dollarFormat(value float64) string {
	neg := value < 0
	if neg {
		value = -value
	}
	s := strconv.FormatFloat(value, 'f', 2, 64)
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

	out := "$" + grouped.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
