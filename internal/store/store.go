// Package store provides the opt-in transcript log.
//
// Transcripts are observability, not conversation state: the chat path
// only appends, never reads, and a logging failure never fails a request.
package store

import (
	"context"
	"time"
)

// TranscriptEntry is one answered chat turn.
type TranscriptEntry struct {
	VisitorID string
	Channel   string // "http" or "ws"
	UserText  string
	ReplyText string
	Intent    string
	Language  string
	Source    string // "pattern" or "model"
	CreatedAt time.Time
}

// Repository defines the interface for persisting transcript entries.
type Repository interface {
	// AppendTranscript records one answered turn.
	AppendTranscript(ctx context.Context, entry *TranscriptEntry) error

	// DeleteTranscriptsBefore removes entries created before the cutoff
	// and returns how many were deleted.
	DeleteTranscriptsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
