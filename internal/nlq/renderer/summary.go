// internal/nlq/renderer/summary.go
package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlq-gateway/internal/completion"
)

var ErrRenderingFailed = errors.New("RENDERING_FAILED")

const (
	summaryTemperature = 0.2
	summaryMaxTokens   = 1500
	maxBulletPoints    = 4

	summarySystemPrompt = "You are a concise financial analyst. Provide only the 3-4 most important insights. Keep each point short and digestible. Use simple bullet points. Be extremely concise - each point should be maximum 15 words."
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Summarizer condenses report content into a short bullet list.
type Summarizer struct {
	completer completion.Completer
	logger    Logger
}

func NewSummarizer(completer completion.Completer, log Logger) *Summarizer {
	return &Summarizer{
		completer: completer,
		logger:    log,
	}
}

// Summarize asks the model for the key insights in content relevant to the
// question, then normalizes the output to at most four dashed bullets.
func (s *Summarizer) Summarize(ctx context.Context, content, question string) (string, error) {
	user := fmt.Sprintf("Question: %s\n\nData: %s\n\nGive me ONLY the 3-4 most critical insights. Each point must be very short (max 15 words). Focus on the most important numbers and trends only. Be extremely concise and presentable.",
		question, content)

	raw, err := s.completer.Complete(ctx, completion.Request{
		Purpose:     "summary",
		System:      summarySystemPrompt,
		User:        user,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderingFailed, err)
	}

	return formatBullets(raw), nil
}

// formatBullets trims blank lines, caps the list at four points, and makes
// sure every line carries a dash prefix.
func formatBullets(text string) string {
	var formatted []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(formatted) >= maxBulletPoints {
			continue
		}
		if !strings.HasPrefix(line, "-") {
			line = "- " + line
		}
		formatted = append(formatted, line)
	}
	return strings.Join(formatted, "\n")
}
