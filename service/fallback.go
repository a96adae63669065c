package service

import "strings"

// ReplySource says where a turn's reply text came from.
type ReplySource string

const (
	// ReplySourceModel is a genuine generated reply.
	ReplySourceModel ReplySource = "model"
	// ReplySourceTimeout is the fixed reply substituted when the model
	// call exceeds the turn deadline.
	ReplySourceTimeout ReplySource = "timeout_fallback"
	// ReplySourceError is the fixed reply substituted on any other
	// generator failure.
	ReplySourceError ReplySource = "error_fallback"
)

// ReplyOutcome is the result of the generate step.
type ReplyOutcome struct {
	Text   string
	Source ReplySource
}

const (
	timeoutFallbackEN = "Thank you for waiting — I'm here. Please continue your story."
	timeoutFallbackZH = "謝謝您耐心等待,我在這裡。請繼續您的故事。"
	errorFallbackEN   = "I'm listening. Please share when you're ready."
	errorFallbackZH   = "我在聽。請您準備好時再分享。"
)

// fallbackText picks the fixed reply for a failed generate step,
// localized to the user's language preference.
func fallbackText(source ReplySource, language string) string {
	zh := strings.HasPrefix(language, "zh")
	switch source {
	case ReplySourceTimeout:
		if zh {
			return timeoutFallbackZH
		}
		return timeoutFallbackEN
	default:
		if zh {
			return errorFallbackZH
		}
		return errorFallbackEN
	}
}
