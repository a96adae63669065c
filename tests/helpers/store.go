package helpers

import (
	"path/filepath"
	"testing"

	"github.com/tahs-labs/historiographer/store"
)

// NewTestStore returns an empty store backed by a throwaway snapshot file.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	return store.Open(path, "You are a test archivist.")
}
