// Package llm provides the reply generator backed by Groq's
// OpenAI-compatible chat completion API.
package llm

import (
	"context"

	"github.com/tahs-labs/historiographer/domain"
)

// Generator produces the next assistant reply for an ordered message
// history. Implementations must honor the deadline on ctx; the caller
// bounds every call with the turn deadline.
type Generator interface {
	GenerateReply(ctx context.Context, history []domain.Message) (string, error)
}

// Ensure implementations satisfy the interface.
var (
	_ Generator = (*Client)(nil)
	_ Generator = (*MockGenerator)(nil)
)
