package domain

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/software-students-fall2024/5-final-y2k/internal/domain/stations"
	"github.com/software-students-fall2024/5-final-y2k/internal/models"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

// AudioService runs the upload-convert-transcribe pipeline. It holds no
// persistent state of its own; every run is identified by the object ID it
// receives and all sharing goes through the external stores.
type AudioService struct {
	store      ports.ObjectStore
	repo       ports.AudioRepository
	normalizer ports.AudioNormalizer
	s3         *stations.S3WAVtoText

	events chan ports.TranscriptionEvent
}

func NewAudioService(
	store ports.ObjectStore,
	repo ports.AudioRepository,
	normalizer ports.AudioNormalizer,
	stt ports.STTService,
) *AudioService {
	return &AudioService{
		store:      store,
		repo:       repo,
		normalizer: normalizer,
		s3:         stations.NewS3WAVtoText(stt),
		events:     make(chan ports.TranscriptionEvent, 100),
	}
}

func (s *AudioService) Events() <-chan ports.TranscriptionEvent { return s.events }

// HandleUpload stores the clip, creates its metadata record and runs
// transcription in the same request/response cycle.
func (s *AudioService) HandleUpload(ctx context.Context, up ports.Upload) (*ports.TranscriptionResult, error) {
	if len(up.Data) == 0 || up.Name == "" {
		return nil, shared.ErrValidation
	}

	start := time.Now()

	id, err := s.store.Store(ctx, up.Data, up.Filename, up.ContentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, id.String(), up.Name); err != nil {
		return nil, err
	}

	log.Printf("[UPLOAD][OK] file=%s name=%q bytes=%d dur=%s",
		id, up.Name, len(up.Data), time.Since(start))

	return s.Transcribe(ctx, id.String())
}

// Transcribe fetches the stored clip, normalizes it to WAV, runs speech
// recognition and completes the metadata record. The steps run strictly in
// sequence; each external call is attempted exactly once.
func (s *AudioService) Transcribe(ctx context.Context, fileID string) (*ports.TranscriptionResult, error) {
	id, err := uuid.Parse(fileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidID, fileID)
	}

	start := time.Now()
	log.Printf("[TRANSCRIBE][START] file=%s", id)

	data, contentType, err := s.store.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	wav, err := s.normalizer.Normalize(ctx, data, mimeSubtype(contentType))
	if err != nil {
		return nil, err
	}

	rec, err := s.s3.Run(ctx, wav)
	if err != nil {
		return nil, err
	}

	// soft outcomes store NULL: "transcription attempted, nothing recognized"
	var transcription *string
	if rec.Status == ports.StatusText {
		transcription = &rec.Text
	}

	match, err := s.repo.Complete(ctx, id.String(), transcription)
	if err != nil {
		return nil, err
	}
	log.Printf("[TRANSCRIBE][DONE] file=%s match=%s dur=%s", id, match, time.Since(start))

	s.emit(ports.TranscriptionEvent{
		FileID:        id.String(),
		Status:        models.StatusCompleted,
		Transcription: transcription,
	})

	return &ports.TranscriptionResult{
		FileID:        id.String(),
		Status:        models.StatusCompleted,
		Transcription: transcription,
	}, nil
}

func (s *AudioService) emit(ev ports.TranscriptionEvent) {
	select {
	case s.events <- ev:
	default:
		log.Printf("[EVENTS][DROP] file=%s", ev.FileID)
	}
}

// mimeSubtype returns the part of a content type after the slash, the
// declared source encoding.
func mimeSubtype(contentType string) string {
	if i := strings.LastIndex(contentType, "/"); i >= 0 {
		return contentType[i+1:]
	}
	return contentType
}
