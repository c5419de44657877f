package speech

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSpeech reports that the recognition job finished without producing any
// words. An empty transcript is a valid outcome, distinct from a failed job;
// callers decide how to surface it.
var ErrNoSpeech = errors.New("no speech detected in audio")

// Word is a single recognized word with its diarization speaker tag.
type Word struct {
	Text       string
	SpeakerTag int
}

// AssembleTranscript renders time-ordered words into a speaker-labeled
// transcript. A new segment header is emitted whenever the speaker tag changes
// from the previous word; words within a segment are joined by single spaces.
func AssembleTranscript(words []Word) string {
	var b strings.Builder
	// Start below any possible tag so the first word always opens a segment,
	// including undiarized output where every tag is 0.
	currentSpeaker := -1

	for _, w := range words {
		if w.SpeakerTag != currentSpeaker {
			currentSpeaker = w.SpeakerTag
			fmt.Fprintf(&b, "\n\nSpeaker %d:\n", currentSpeaker)
		} else {
			b.WriteString(" ")
		}
		b.WriteString(w.Text)
	}

	return strings.TrimSpace(b.String())
}
