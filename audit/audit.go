// Package audit appends every exchange to an external interview log.
// Writes are fire-and-forget from the orchestrator's perspective: failures
// are logged at the call site and never surfaced to the user.
package audit

import (
	"context"
	"time"
)

// Speaker values recorded in the log.
const (
	SpeakerUser = "User"
	SpeakerBot  = "Bot"
)

// TagInterview marks bot rows belonging to an interview session.
const TagInterview = "TAHS Interview"

// Row is a single audit log entry.
type Row struct {
	Timestamp   time.Time
	UserID      string
	Speaker     string
	Text        string
	Tag         string
	DisplayName string
	Language    string
}

// Log is an append-only audit sink.
type Log interface {
	AppendRow(ctx context.Context, row Row) error
}

// NopLog discards all rows. Used when no audit sink is configured.
type NopLog struct{}

// AppendRow discards the row.
func (NopLog) AppendRow(ctx context.Context, row Row) error { return nil }

// Timestamp layout used across sinks, matching the original sheet format.
const timestampLayout = "2006-01-02 15:04:05"
