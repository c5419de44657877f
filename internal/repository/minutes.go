package repository

import (
	"context"

	"minutesapi/internal/model"
)

// MinutesRepository persists completed processing runs. Records are
// append-only: created once per successful run, keyed under the owning user,
// never mutated afterwards.
type MinutesRepository interface {
	// Create inserts one record. CreatedAt is assigned by the database;
	// the returned record carries it.
	Create(ctx context.Context, rec *model.MeetingRecord) (*model.MeetingRecord, error)

	// ListByOwner returns every record for the owner, newest first.
	// No records is not an error: an empty slice comes back.
	ListByOwner(ctx context.Context, ownerID string) ([]model.MeetingRecord, error)
}

// TranscriptionRepository persists per-user transcription records. The
// corrected transcript stored here is the hand-off between the transcription
// and summarization calls, scoped to the owner rather than the process.
type TranscriptionRepository interface {
	Create(ctx context.Context, tr *model.Transcription) (*model.Transcription, error)

	// FindLatest returns the owner's most recent transcription for the
	// given original file name.
	FindLatest(ctx context.Context, ownerID, filename string) (*model.Transcription, error)
}

// UserRepository reads the user directory for credential verification.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
