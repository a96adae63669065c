package llm

import (
	"context"
	"fmt"

	"github.com/tahs-labs/historiographer/domain"
)

// MockGenerator is a canned-response generator for local development.
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateReply echoes a short acknowledgment of the last user message.
func (m *MockGenerator) GenerateReply(ctx context.Context, history []domain.Message) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	last := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			last = history[i].Content
			break
		}
	}
	if last == "" {
		return "Thank you for being here. What would you like to share first?", nil
	}
	return fmt.Sprintf("Thank you for sharing that. Could you tell me more about %q?", truncate(last, 40)), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
