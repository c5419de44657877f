package postgres

import (
	"context"
	"database/sql"

	"minutesapi/internal/model"
	"minutesapi/internal/repository"
)

// TranscriptionPostgres is a PostgreSQL implementation of
// repository.TranscriptionRepository.
type TranscriptionPostgres struct {
	db *sql.DB
}

// NewTranscriptionPostgres creates a new TranscriptionPostgres repository.
func NewTranscriptionPostgres(db *sql.DB) *TranscriptionPostgres {
	return &TranscriptionPostgres{db: db}
}

var _ repository.TranscriptionRepository = (*TranscriptionPostgres)(nil)

// Create inserts one transcription record and returns the stored row.
func (r *TranscriptionPostgres) Create(ctx context.Context, tr *model.Transcription) (*model.Transcription, error) {
	const q = `
		INSERT INTO transcriptions (id, owner_id, filename, transcript, storage_uri, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, filename, transcript, storage_uri, status, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		tr.ID,
		tr.OwnerID,
		tr.Filename,
		tr.Text,
		tr.StorageURI,
		tr.Status,
	)
	var out model.Transcription
	if err := row.Scan(
		&out.ID,
		&out.OwnerID,
		&out.Filename,
		&out.Text,
		&out.StorageURI,
		&out.Status,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindLatest fetches the owner's most recent transcription for the file.
func (r *TranscriptionPostgres) FindLatest(ctx context.Context, ownerID, filename string) (*model.Transcription, error) {
	const q = `
		SELECT id, owner_id, filename, transcript, storage_uri, status, created_at
		FROM transcriptions
		WHERE owner_id = $1 AND filename = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, ownerID, filename)
	var tr model.Transcription
	if err := row.Scan(
		&tr.ID,
		&tr.OwnerID,
		&tr.Filename,
		&tr.Text,
		&tr.StorageURI,
		&tr.Status,
		&tr.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &tr, nil
}
