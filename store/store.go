// Package store owns the in-memory conversation state and its durable
// snapshot. All mutation goes through the Store; callers never hold
// references to its conversations across requests.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tahs-labs/historiographer/domain"
)

// ProfileFetcher resolves platform profile metadata for a user.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (*domain.ProfileInfo, error)
}

// Store maps platform user IDs to their conversation history and profile.
// It is safe for concurrent use; structural mutation (inserting a new user)
// is guarded by mu, and LockUser serializes whole turns per user.
type Store struct {
	path         string
	systemPrompt string

	mu            sync.Mutex
	conversations map[string]*domain.Conversation
	profiles      map[string]*domain.UserProfile
	userLocks     map[string]*sync.Mutex

	// saveMu serializes snapshot writes so concurrent turns for different
	// users cannot interleave file renames.
	saveMu sync.Mutex
}

// Open loads the snapshot at path if one exists and returns a ready store.
// A missing file yields an empty store; a corrupt file is logged and also
// yields an empty store. The service must start even with no prior state.
func Open(path, systemPrompt string) *Store {
	s := &Store{
		path:          path,
		systemPrompt:  systemPrompt,
		conversations: make(map[string]*domain.Conversation),
		profiles:      make(map[string]*domain.UserProfile),
		userLocks:     make(map[string]*sync.Mutex),
	}

	snap, err := loadSnapshot(path)
	if err != nil {
		log.Printf("WARN: failed to load snapshot from %s, starting empty: %v", path, err)
		return s
	}
	if snap != nil {
		s.restore(snap)
	}
	return s
}

// LockUser acquires the per-user turn lock and returns its release func.
// The orchestrator holds it for a whole turn so two concurrent messages
// from the same user cannot interleave their appends.
func (s *Store) LockUser(userID string) func() {
	s.mu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// GetOrCreate returns the conversation and profile for userID, creating
// both on first contact. A new conversation starts with the system
// instructions as its sole entry; the check-then-create is under the store
// lock, so calling twice never seeds the system message twice.
func (s *Store) GetOrCreate(userID string) (*domain.Conversation, *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		conv = &domain.Conversation{
			UserID: userID,
			Messages: []domain.Message{
				{Role: domain.RoleSystem, Content: s.systemPrompt},
			},
		}
		s.conversations[userID] = conv
	}

	profile, ok := s.profiles[userID]
	if !ok {
		profile = &domain.UserProfile{
			FirstInteraction: time.Now(),
			DisplayName:      domain.DisplayNamePending,
		}
		s.profiles[userID] = profile
	}

	return conv, profile
}

// AppendUserTurn records an inbound user message and bumps the profile's
// message counter. Must run before the reply is generated so the model
// sees this turn as context.
func (s *Store) AppendUserTurn(userID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		return
	}
	conv.Messages = append(conv.Messages, domain.Message{Role: domain.RoleUser, Content: text})
	if profile, ok := s.profiles[userID]; ok {
		profile.TotalMessages++
	}
}

// AppendAssistantTurn records an outbound reply. Fallback replies go
// through here too; the conversation log reflects what the user was sent,
// not what the model produced.
func (s *Store) AppendAssistantTurn(userID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		return
	}
	conv.Messages = append(conv.Messages, domain.Message{Role: domain.RoleAssistant, Content: text})
}

// ResolveProfileOnce runs the platform profile lookup the first time it is
// called for a user and caches the result for the process lifetime. A
// failed lookup stores the Unknown sentinel so the failing call is not
// repeated on every subsequent turn.
func (s *Store) ResolveProfileOnce(ctx context.Context, userID string, fetcher ProfileFetcher) error {
	s.mu.Lock()
	profile, ok := s.profiles[userID]
	if !ok || profile.DisplayName != domain.DisplayNamePending {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	info, err := fetcher.FetchProfile(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		profile.DisplayName = domain.DisplayNameUnknown
		return fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}
	profile.DisplayName = info.DisplayName
	profile.Username = info.Username
	profile.PictureURL = info.PictureURL
	if info.Language != "" {
		profile.LanguagePreference = info.Language
	}
	return nil
}

// History returns a copy of the ordered message history for userID.
func (s *Store) History(userID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		return nil
	}
	out := make([]domain.Message, len(conv.Messages))
	copy(out, conv.Messages)
	return out
}

// Profile returns a copy of the profile for userID and whether it exists.
func (s *Store) Profile(userID string) (domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, false
	}
	return *profile, true
}

// Count returns the number of tracked conversations.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// Save writes the full store to the snapshot path, temp-file-then-rename
// so a crash mid-write never leaves a half-written snapshot behind.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := s.snapshot()
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := writeSnapshot(s.path, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
