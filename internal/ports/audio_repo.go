package ports

import (
	"context"

	"github.com/software-students-fall2024/5-final-y2k/internal/models"
)

// MatchResult describes what Complete actually did to the metadata record.
// None of the three is an error for the caller; they are logged for
// observability.
type MatchResult int

const (
	MatchUpdated MatchResult = iota
	MatchUnchanged
	MatchNone
)

func (m MatchResult) String() string {
	switch m {
	case MatchUpdated:
		return "updated"
	case MatchUnchanged:
		return "unchanged"
	case MatchNone:
		return "no_match"
	}
	return "unknown"
}

type AudioRepository interface {
	// Create inserts the metadata record for a freshly stored object.
	// transcription starts as the empty string, meaning "not yet processed".
	Create(ctx context.Context, fileID, name string) error

	// Complete sets transcription, processed_time and status together.
	// A nil transcription records "processing attempted, nothing recognized".
	Complete(ctx context.Context, fileID string, transcription *string) (MatchResult, error)

	GetByFileID(ctx context.Context, fileID string) (*models.AudioMetadata, error)
	List(ctx context.Context) ([]models.AudioMetadata, error)
}
