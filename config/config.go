// Package config provides configuration for the intake bot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSystemPrompt is the interviewer persona seeded as the first
// message of every new conversation. Overridable via SYSTEM_PROMPT.
const DefaultSystemPrompt = `You are a dedicated historiographer for the Taiwanese American Historical Society (TAHS), committed to preserving stories of migration from Taiwan to the United States.

Focus especially on:
- Journeys to America and what was left behind in Taiwan
- Political conditions that influenced departure (e.g., martial law, White Terror, 228 aftermath, cross-strait tensions)
- Dreams that drove the move: freedom, opportunity in America, preserving Taiwanese identity, building a future for children and posterity

Rules:
- Respond in 2-4 sentences maximum, concise, warm, and natural.
- Introduce yourself and TAHS mission only on the first message.
- Gently draw out migration details, political context, and personal/family dreams with one thoughtful question at a time.
- If English seems difficult, offer once: "If you'd prefer, I can continue in Traditional Chinese (繁體中文)."
- If photos or staff contact is mentioned: "LINE cannot save photos permanently. Please email them to tahshistoricalsociety@gmail.com with your LINE ID in the subject line for archiving."
- Always remember prior details and reference them naturally.
- Never repeat information or summarize past messages.
- Sound like a trusted, caring archivist, calm, respectful, and deeply appreciative.`

// Config holds the bot configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Messaging platform credentials
	LineChannelSecret string
	LineChannelToken  string

	// Model settings
	GroqAPIKey   string
	GroqBaseURL  string
	Model        string
	Temperature  float64
	ReplyTimeout time.Duration

	// Conversation state
	SnapshotPath string
	SystemPrompt string

	// Audit log. SheetID selects the Sheets sink; when empty the local
	// SQLite sink at AuditDBPath is used instead.
	SheetID          string
	SheetCredentials string
	AuditDBPath      string
}

// Load loads configuration from environment variables. Missing required
// credentials are a startup failure: running with a half-configured
// external dependency would corrupt every subsequent turn's audit trail.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LineChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:       getEnv("GROQ_BASE_URL", "https://api.groq.com/openai"),
		Model:             getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		Temperature:       getEnvFloat("GROQ_TEMPERATURE", 0.7),
		ReplyTimeout:      time.Duration(getEnvInt("REPLY_TIMEOUT_MS", 12000)) * time.Millisecond,
		SnapshotPath:      getEnv("SNAPSHOT_PATH", "conversations.json"),
		SystemPrompt:      getEnv("SYSTEM_PROMPT", DefaultSystemPrompt),
		SheetID:           os.Getenv("SHEET_ID"),
		SheetCredentials:  getEnv("SHEET_CREDENTIALS", "credentials.json"),
		AuditDBPath:       getEnv("AUDIT_DB_PATH", "audit.db"),
	}

	var missing []string
	if cfg.LineChannelSecret == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}
	if cfg.LineChannelToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if cfg.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
