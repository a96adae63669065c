package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tahs-labs/historiographer/audit"
	"github.com/tahs-labs/historiographer/domain"
)

// HandleMessage executes one turn for one inbound message and returns the
// reply text for transmission. It never fails from the caller's point of
// view: generator failures are replaced by fixed fallback replies, and
// audit/persistence failures are logged and swallowed.
func (s *Service) HandleMessage(ctx context.Context, userID, text string) string {
	// Serialize turns per user so concurrent messages cannot interleave
	// their appends.
	unlock := s.store.LockUser(userID)
	defer unlock()

	turnID := "turn_" + uuid.New().String()[:8]
	log.Printf("[%s] message from %s", turnID, userID)

	s.store.GetOrCreate(userID)

	if err := s.store.ResolveProfileOnce(ctx, userID, s.profiles); err != nil {
		log.Printf("WARN: [%s] profile resolution failed: %v", turnID, err)
	}
	profile, _ := s.store.Profile(userID)

	// The user turn is recorded before generation so the model sees it as
	// context.
	s.store.AppendUserTurn(userID, text)
	history := s.store.History(userID)

	outcome := s.generate(ctx, turnID, history, profile.LanguagePreference)

	// Fallback replies are recorded too; the log reflects what the user
	// actually received.
	s.store.AppendAssistantTurn(userID, outcome.Text)

	go s.recordAudit(userID, text, outcome.Text, profile)

	// Write-through: flushed on every turn, including fallback turns, so a
	// crash right after a failed turn still shows that the failure happened.
	if err := s.store.Save(); err != nil {
		log.Printf("ERROR: [%s] failed to persist conversations: %v", turnID, err)
	}

	return outcome.Text
}

// generate invokes the reply generator under the turn deadline and maps
// failures to the matching fallback reply.
func (s *Service) generate(ctx context.Context, turnID string, history []domain.Message, language string) ReplyOutcome {
	genCtx, cancel := context.WithTimeout(ctx, s.config.ReplyTimeout)
	defer cancel()

	text, err := s.generator.GenerateReply(genCtx, history)
	if err == nil {
		return ReplyOutcome{Text: text, Source: ReplySourceModel}
	}

	source := ReplySourceError
	if errors.Is(err, context.DeadlineExceeded) {
		source = ReplySourceTimeout
		log.Printf("WARN: [%s] reply generation timed out after %s", turnID, s.config.ReplyTimeout)
	} else {
		log.Printf("ERROR: [%s] reply generation failed: %v", turnID, err)
	}
	return ReplyOutcome{Text: fallbackText(source, language), Source: source}
}

// recordAudit appends the user row and the reply row. Failures are logged
// and never retried; the audit log must not delay or block replies.
func (s *Service) recordAudit(userID, userText, replyText string, profile domain.UserProfile) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	rows := []audit.Row{
		{
			Timestamp:   now,
			UserID:      userID,
			Speaker:     audit.SpeakerUser,
			Text:        userText,
			DisplayName: profile.DisplayName,
			Language:    profile.LanguagePreference,
		},
		{
			Timestamp:   now,
			UserID:      userID,
			Speaker:     audit.SpeakerBot,
			Text:        replyText,
			Tag:         audit.TagInterview,
			DisplayName: profile.DisplayName,
			Language:    profile.LanguagePreference,
		},
	}
	for _, row := range rows {
		if err := s.auditLog.AppendRow(ctx, row); err != nil {
			log.Printf("ERROR: failed to append audit row for %s: %v", userID, err)
		}
	}
}
