package speech

import "context"

// Recognizer submits a stored audio object to a speech recognition backend
// and returns the time-ordered, speaker-tagged word sequence.
//
// Recognize blocks until the underlying job completes, the configured
// operation timeout elapses, or ctx is cancelled. It returns ErrNoSpeech when
// the job finished but produced no words.
type Recognizer interface {
	Recognize(ctx context.Context, uri string) ([]Word, error)
}
