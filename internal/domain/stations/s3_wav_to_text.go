package stations

import (
	"context"
	"log"

	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
)

type S3WAVtoText struct {
	stt ports.STTService
}

func NewS3WAVtoText(stt ports.STTService) *S3WAVtoText {
	return &S3WAVtoText{stt: stt}
}

// Run performs one recognition attempt. Every external call in the pipeline
// happens exactly once per request, so soft outcomes are passed through
// rather than retried.
func (s *S3WAVtoText) Run(ctx context.Context, wav []byte) (ports.Recognition, error) {
	log.Printf("[S3][START] wav_bytes=%d", len(wav))

	rec, err := s.stt.Recognize(ctx, wav)
	if err != nil {
		log.Printf("[S3][ERR] err=%v", err)
		return ports.Recognition{}, err
	}

	switch rec.Status {
	case ports.StatusText:
		log.Printf("[S3][OK] text=%q", trim(rec.Text, 180))
	case ports.StatusNoSpeech:
		log.Printf("[S3][NO-SPEECH]")
	case ports.StatusUnavailable:
		log.Printf("[S3][UNAVAILABLE]")
	}

	return rec, nil
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
