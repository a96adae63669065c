package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// The on-disk layout is shared with earlier deployments, so the message
// type names are pinned: system messages stay "system", user turns are
// written as "human" and replies as "ai".
func TestSnapshotWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	s := Open(path, testPrompt)
	s.GetOrCreate("u1")
	s.AppendUserTurn("u1", "hello")
	s.AppendAssistantTurn("u1", "welcome")

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}

	var raw struct {
		Conversations map[string][]struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		} `json:"conversations"`
		Profiles map[string]struct {
			DisplayName   string `json:"displayName"`
			TotalMessages int    `json:"totalMessages"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}

	msgs := raw.Conversations["u1"]
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Type != "system" || msgs[1].Type != "human" || msgs[2].Type != "ai" {
		t.Fatalf("unexpected message types: %q %q %q", msgs[0].Type, msgs[1].Type, msgs[2].Type)
	}

	profile, ok := raw.Profiles["u1"]
	if !ok {
		t.Fatalf("profile missing from snapshot")
	}
	if profile.TotalMessages != 1 {
		t.Fatalf("expected totalMessages 1, got %d", profile.TotalMessages)
	}
}

func TestRestoreSkipsUnknownMessageTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	doc := `{
  "conversations": {
    "u1": [
      {"type": "system", "content": "prompt"},
      {"type": "tool", "content": "transient"},
      {"type": "human", "content": "hello"}
    ]
  },
  "profiles": {}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	s := Open(path, testPrompt)
	history := s.History("u1")
	if len(history) != 2 {
		t.Fatalf("expected unknown type skipped, got %d messages", len(history))
	}
}

func TestWriteSnapshotLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conversations.json")
	if err := writeSnapshot(path, []byte(`{}`)); err != nil {
		t.Fatalf("writeSnapshot failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "conversations.json" {
		t.Fatalf("unexpected directory contents: %+v", entries)
	}
}
