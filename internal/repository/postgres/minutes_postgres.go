package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"minutesapi/internal/model"
	"minutesapi/internal/repository"
)

// MinutesPostgres is a PostgreSQL implementation of repository.MinutesRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type MinutesPostgres struct {
	db *sql.DB
}

// NewMinutesPostgres creates a new MinutesPostgres repository.
func NewMinutesPostgres(db *sql.DB) *MinutesPostgres {
	return &MinutesPostgres{db: db}
}

var _ repository.MinutesRepository = (*MinutesPostgres)(nil)

// Create inserts one meeting record. created_at defaults to now() on the
// database server and is returned with the stored row. A record with any
// missing link never reaches the table: the complete link set is a write
// precondition, enforced here as well as in the service.
func (r *MinutesPostgres) Create(ctx context.Context, rec *model.MeetingRecord) (*model.MeetingRecord, error) {
	if rec.FormalLink == nil || rec.SimpleLink == nil || rec.DetailedLink == nil {
		return nil, fmt.Errorf("incomplete link set for record %s", rec.ID)
	}

	const q = `
		INSERT INTO minutes (id, owner_id, audio_file_name, formal_link, simple_link, detailed_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, audio_file_name, formal_link, simple_link, detailed_link, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.OwnerID,
		rec.AudioFileName,
		rec.FormalLink,
		rec.SimpleLink,
		rec.DetailedLink,
	)
	return scanMeetingRecord(row)
}

// ListByOwner returns all records for the owner, newest first. An owner with
// no records yields an empty slice.
func (r *MinutesPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.MeetingRecord, error) {
	const q = `
		SELECT id, owner_id, audio_file_name, formal_link, simple_link, detailed_link, created_at
		FROM minutes
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.MeetingRecord, 0)
	for rows.Next() {
		rec, err := scanMeetingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeetingRecord(row rowScanner) (*model.MeetingRecord, error) {
	var rec model.MeetingRecord
	var formal, simple, detailed sql.NullString
	if err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.AudioFileName,
		&formal,
		&simple,
		&detailed,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if formal.Valid {
		rec.FormalLink = &formal.String
	}
	if simple.Valid {
		rec.SimpleLink = &simple.String
	}
	if detailed.Valid {
		rec.DetailedLink = &detailed.String
	}
	return &rec, nil
}
