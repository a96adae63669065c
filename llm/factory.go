package llm

import (
	"log"
	"os"
)

const (
	// EnvBotMode is the environment variable name for mode selection.
	EnvBotMode = "BOT_MODE"
	// ModeMock indicates the mock generator should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates a reply generator based on the BOT_MODE environment
// variable. If BOT_MODE=MOCK, returns a MockGenerator; otherwise returns a
// real client.
func NewGenerator(baseURL, apiKey, model string, temperature float64) Generator {
	if os.Getenv(EnvBotMode) == ModeMock {
		log.Println("BOT_MODE=MOCK detected, using mock reply generator")
		return NewMockGenerator()
	}
	return NewClient(baseURL, apiKey, model, temperature)
}
