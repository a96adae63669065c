// Package domain defines the core domain models for the intake bot.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Display name sentinels for profile resolution.
const (
	// DisplayNamePending marks a profile whose platform lookup has not run yet.
	DisplayNamePending = "Fetching..."
	// DisplayNameUnknown marks a profile whose platform lookup failed; the
	// lookup is not retried once this is set.
	DisplayNameUnknown = "Unknown"
)

// Message is a single turn in a conversation. Messages are immutable once
// appended; their order is the prompt context sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message history for one platform user.
// The first entry, when present, is always the system instructions.
type Conversation struct {
	UserID   string    `json:"user_id"`
	Messages []Message `json:"messages"`
}

// UserProfile holds per-user metadata gathered across an interview.
// Everything except TotalMessages is written at most once.
type UserProfile struct {
	FirstInteraction   time.Time `json:"first_interaction"`
	TotalMessages      int       `json:"total_messages"`
	LanguagePreference string    `json:"language_preference,omitempty"`
	DisplayName        string    `json:"display_name"`
	Username           string    `json:"username,omitempty"`
	PictureURL         string    `json:"picture_url,omitempty"`
}

// ProfileInfo is the result of a platform profile lookup.
type ProfileInfo struct {
	DisplayName string
	Username    string
	PictureURL  string
	Language    string
}
