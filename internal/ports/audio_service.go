package ports

import "context"

// Upload carries one multipart upload into the pipeline.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
	Name        string
}

// TranscriptionResult is the terminal state of one pipeline run.
// Transcription is nil when recognition was attempted but produced nothing.
type TranscriptionResult struct {
	FileID        string
	Status        string
	Transcription *string
}

type TranscriptionEvent struct {
	FileID        string  `json:"fileId"`
	Status        string  `json:"status"`
	Transcription *string `json:"transcription"`
}

// AudioPipeline orchestrates store → metadata → normalize → recognize →
// complete as one synchronous request/response cycle.
type AudioPipeline interface {
	HandleUpload(ctx context.Context, up Upload) (*TranscriptionResult, error)
	Transcribe(ctx context.Context, fileID string) (*TranscriptionResult, error)
	Events() <-chan TranscriptionEvent
}
