package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"minutesapi/internal/correction"
	"minutesapi/internal/document"
	"minutesapi/internal/logger"
	"minutesapi/internal/model"
	"minutesapi/internal/publish"
	"minutesapi/internal/repository"
	"minutesapi/internal/speech"
	"minutesapi/internal/storage"
	"minutesapi/internal/summarize"
)

var (
	// ErrInvalidInput is returned when a required field is missing. No side
	// effects have occurred when callers see it.
	ErrInvalidInput = errors.New("missing required input")
	// ErrTranscriptNotFound is returned by Summarize when the owner has no
	// transcription for the named audio file.
	ErrTranscriptNotFound = errors.New("no transcript found for this user and file")
)

// TranscribeResult is the outcome of one ingestion + transcription call.
type TranscribeResult struct {
	Transcription string `json:"transcription"`
	AudioFileName string `json:"audioFileName"`
	NoSpeech      bool   `json:"-"`
}

// TemplateLink pairs a template name with its published share link.
type TemplateLink struct {
	Template string `json:"template"`
	Link     string `json:"link"`
}

// SummarizeResult is the outcome of one complete summarization run.
type SummarizeResult struct {
	RecordID string         `json:"tableRecordId"`
	Results  []TemplateLink `json:"results"`
}

// MinutesService drives the meeting-minutes pipeline: audio ingestion,
// transcription, correction, multi-template summarization, document
// generation, publication, and recording.
type MinutesService interface {
	// Transcribe ingests the audio payload, runs the recognition job, applies
	// vocabulary corrections, and persists a per-user transcription record.
	Transcribe(ctx context.Context, r io.Reader, originalFilename, ownerID string, size int64) (*TranscribeResult, error)

	// Summarize loads the owner's latest transcript for the file, generates
	// one summary per template, publishes one document per summary, and
	// writes exactly one complete meeting record. Any stage failure aborts
	// the run with no record written.
	Summarize(ctx context.Context, ownerID, audioFileName string) (*SummarizeResult, error)

	// ListMinutes returns every recorded run for the owner, newest first.
	ListMinutes(ctx context.Context, ownerID string) ([]model.MeetingRecord, error)
}

type minutesService struct {
	store       storage.Storage
	recognizer  speech.Recognizer
	filter      *correction.Filter
	orch        *summarize.Orchestrator
	templates   []summarize.TemplateSpec
	publisher   publish.Publisher
	transcripts repository.TranscriptionRepository
	minutes     repository.MinutesRepository
	log         *logger.Logger
}

// NewMinutesService wires the pipeline stages together.
func NewMinutesService(
	store storage.Storage,
	recognizer speech.Recognizer,
	filter *correction.Filter,
	engine summarize.Engine,
	templates []summarize.TemplateSpec,
	publisher publish.Publisher,
	transcripts repository.TranscriptionRepository,
	minutes repository.MinutesRepository,
	log *logger.Logger,
) MinutesService {
	return &minutesService{
		store:       store,
		recognizer:  recognizer,
		filter:      filter,
		orch:        summarize.NewOrchestrator(engine, templates),
		templates:   templates,
		publisher:   publisher,
		transcripts: transcripts,
		minutes:     minutes,
		log:         log,
	}
}

func (s *minutesService) Transcribe(ctx context.Context, r io.Reader, originalFilename, ownerID string, size int64) (*TranscribeResult, error) {
	if r == nil || originalFilename == "" || ownerID == "" {
		return nil, ErrInvalidInput
	}

	// Timestamp-based keys are not idempotent: a retried upload creates a
	// second object. Accepted limitation of the key scheme.
	key := fmt.Sprintf("audio/%d-%s", time.Now().UnixMilli(), sanitizeName(originalFilename))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: "audio/mpeg",
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	uri := s.store.URI(key)

	s.log.WithField("uri", uri).Info("audio ingested, starting recognition")

	status := model.StatusTranscribed
	var corrected string
	noSpeech := false

	words, err := s.recognizer.Recognize(ctx, uri)
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		// Valid empty outcome, distinct from a failed job.
		status = model.StatusNoSpeechDetected
		noSpeech = true
	case err != nil:
		return nil, fmt.Errorf("transcribe audio: %w", err)
	default:
		corrected = s.filter.Apply(speech.AssembleTranscript(words))
	}

	tr := &model.Transcription{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Filename:   originalFilename,
		Text:       corrected,
		StorageURI: uri,
		Status:     status,
	}
	if _, err := s.transcripts.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("persist transcription: %w", err)
	}

	return &TranscribeResult{
		Transcription: corrected,
		AudioFileName: originalFilename,
		NoSpeech:      noSpeech,
	}, nil
}

func (s *minutesService) Summarize(ctx context.Context, ownerID, audioFileName string) (*SummarizeResult, error) {
	if ownerID == "" || audioFileName == "" {
		return nil, ErrInvalidInput
	}

	tr, err := s.transcripts.FindLatest(ctx, ownerID, audioFileName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	// Fan out generation; all summaries are collected before any document
	// is rendered.
	summaries, err := s.orch.Run(ctx, tr.Text)
	if err != nil {
		return nil, err
	}

	// Render and publish per template. Branches are independent; a single
	// failure cancels the siblings and aborts the run. Documents already
	// published by other branches are not retracted.
	baseName := strings.TrimSuffix(audioFileName, filepath.Ext(audioFileName))
	links := make([]string, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	for i, sum := range summaries {
		g.Go(func() error {
			buf, err := document.Render(sum.Template.Name, sum.Text)
			if err != nil {
				return fmt.Errorf("render %s: %w", sum.Template.Name, err)
			}

			filename := fmt.Sprintf("%s-%s-%d.docx", baseName, sum.Template.Name, time.Now().UnixMilli())
			link, err := s.publisher.Publish(gctx, filename, buf)
			if err != nil {
				return fmt.Errorf("publish %s: %w", sum.Template.Name, err)
			}

			links[i] = link
			s.log.WithField("template", sum.Template.Name).Info("document published")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := &model.MeetingRecord{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		AudioFileName: audioFileName,
	}
	results := make([]TemplateLink, 0, len(summaries))
	for i, sum := range summaries {
		// The record is written only with the complete link set.
		if links[i] == "" {
			return nil, fmt.Errorf("missing link for %s", sum.Template.Name)
		}
		if err := setLink(rec, sum.Template.DBField, links[i]); err != nil {
			return nil, err
		}
		results = append(results, TemplateLink{Template: sum.Template.Name, Link: links[i]})
	}

	stored, err := s.minutes.Create(ctx, rec)
	if err != nil {
		// Published documents exist without a discoverable record here;
		// accepted gap, surfaced to the caller.
		return nil, fmt.Errorf("persist meeting record: %w", err)
	}

	return &SummarizeResult{RecordID: stored.ID, Results: results}, nil
}

func (s *minutesService) ListMinutes(ctx context.Context, ownerID string) ([]model.MeetingRecord, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.minutes.ListByOwner(ctx, ownerID)
}

// setLink maps a template's db field onto the record's link column.
func setLink(rec *model.MeetingRecord, dbField, link string) error {
	switch dbField {
	case "formal_template":
		rec.FormalLink = &link
	case "simple_template":
		rec.SimpleLink = &link
	case "detailed_template":
		rec.DetailedLink = &link
	default:
		return fmt.Errorf("unknown template field %q", dbField)
	}
	return nil
}

// sanitizeName keeps storage keys to one path segment.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
