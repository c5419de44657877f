package model

import "time"

// Transcription is the per-user record of one transcribed audio upload.
// Created after the recognition job finishes; the corrected transcript is the
// input to a later summarization run for the same owner and file.
type Transcription struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Filename   string    `json:"filename"`
	Text       string    `json:"text"`
	StorageURI string    `json:"storage_uri"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Transcription statuses.
const (
	StatusTranscribed      = "transcription complete"
	StatusNoSpeechDetected = "no speech detected"
)

// MeetingRecord is one completed processing run: the original audio file name
// plus one share link per template. A record is written only after every
// template link has been obtained; links read back from storage are nullable.
type MeetingRecord struct {
	ID            string    `json:"summaryId"`
	OwnerID       string    `json:"-"`
	AudioFileName string    `json:"audioFileName"`
	FormalLink    *string   `json:"formal_template"`
	SimpleLink    *string   `json:"simple_template"`
	DetailedLink  *string   `json:"detailed_template"`
	CreatedAt     time.Time `json:"createdAt"`
}
