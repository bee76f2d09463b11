package ports

import "context"

type RecognitionStatus int

const (
	// StatusText: the backend produced a transcription, possibly empty.
	StatusText RecognitionStatus = iota
	// StatusNoSpeech: the backend understood the audio but recognized nothing.
	StatusNoSpeech
	// StatusUnavailable: the backend could not be reached or refused the request.
	StatusUnavailable
)

type Recognition struct {
	Status RecognitionStatus
	Text   string
}

// STTService turns a canonical WAV clip into text. Soft outcomes
// (NoSpeech, Unavailable) come back in Recognition; only internal faults
// are returned as errors.
type STTService interface {
	Recognize(ctx context.Context, wav []byte) (Recognition, error)
}
