package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/tahs-labs/historiographer/domain"
)

// Snapshot wire format: a single document with two top-level maps. Message
// types on disk are "system"/"human"/"ai" (the layout the original service
// persisted), mapped to and from domain roles here.
const (
	snapshotTypeSystem = "system"
	snapshotTypeHuman  = "human"
	snapshotTypeAI     = "ai"
)

type snapshotMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type snapshotProfile struct {
	FirstInteraction   time.Time `json:"firstInteraction"`
	TotalMessages      int       `json:"totalMessages"`
	LanguagePreference string    `json:"languagePreference,omitempty"`
	DisplayName        string    `json:"displayName"`
	Username           string    `json:"username,omitempty"`
	PictureURL         string    `json:"pictureUrl,omitempty"`
}

type snapshot struct {
	Conversations map[string][]snapshotMessage `json:"conversations"`
	Profiles      map[string]snapshotProfile   `json:"profiles"`
}

// loadSnapshot reads and decodes the snapshot file. A missing file is not
// an error; it returns (nil, nil) and the caller starts empty.
func loadSnapshot(path string) (*snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// writeSnapshot writes data to a temp file next to path and renames it
// into place, so readers never observe a partial snapshot.
func writeSnapshot(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// snapshot encodes the current state. Caller must hold mu.
func (s *Store) snapshot() ([]byte, error) {
	snap := snapshot{
		Conversations: make(map[string][]snapshotMessage, len(s.conversations)),
		Profiles:      make(map[string]snapshotProfile, len(s.profiles)),
	}
	for userID, conv := range s.conversations {
		msgs := make([]snapshotMessage, 0, len(conv.Messages))
		for _, m := range conv.Messages {
			msgs = append(msgs, snapshotMessage{Type: roleToType(m.Role), Content: m.Content})
		}
		snap.Conversations[userID] = msgs
	}
	for userID, p := range s.profiles {
		snap.Profiles[userID] = snapshotProfile{
			FirstInteraction:   p.FirstInteraction,
			TotalMessages:      p.TotalMessages,
			LanguagePreference: p.LanguagePreference,
			DisplayName:        p.DisplayName,
			Username:           p.Username,
			PictureURL:         p.PictureURL,
		}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// restore rebuilds the in-memory maps from a decoded snapshot.
func (s *Store) restore(snap *snapshot) {
	for userID, msgs := range snap.Conversations {
		conv := &domain.Conversation{UserID: userID}
		for _, m := range msgs {
			role, ok := typeToRole(m.Type)
			if !ok {
				log.Printf("WARN: skipping message with unknown type %q for user %s", m.Type, userID)
				continue
			}
			conv.Messages = append(conv.Messages, domain.Message{Role: role, Content: m.Content})
		}
		s.conversations[userID] = conv
	}
	for userID, p := range snap.Profiles {
		s.profiles[userID] = &domain.UserProfile{
			FirstInteraction:   p.FirstInteraction,
			TotalMessages:      p.TotalMessages,
			LanguagePreference: p.LanguagePreference,
			DisplayName:        p.DisplayName,
			Username:           p.Username,
			PictureURL:         p.PictureURL,
		}
	}
}

func roleToType(r domain.Role) string {
	switch r {
	case domain.RoleSystem:
		return snapshotTypeSystem
	case domain.RoleAssistant:
		return snapshotTypeAI
	default:
		return snapshotTypeHuman
	}
}

func typeToRole(t string) (domain.Role, bool) {
	switch t {
	case snapshotTypeSystem:
		return domain.RoleSystem, true
	case snapshotTypeHuman:
		return domain.RoleUser, true
	case snapshotTypeAI:
		return domain.RoleAssistant, true
	default:
		return "", false
	}
}
