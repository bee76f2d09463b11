package stations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

const maxS1ErrPreview = 180

// ffmpeg demuxer names where they differ from the MIME subtype
var demuxerNames = map[string]string{
	"mpeg":  "mp3",
	"mp4":   "m4a",
	"x-wav": "wav",
	"wave":  "wav",
	"webm":  "matroska",
}

type S1DecodePCM struct{}

func NewS1DecodePCM() *S1DecodePCM {
	return &S1DecodePCM{}
}

// Run decodes the uploaded bytes, treated as the declared format, into
// s16le mono 16kHz PCM.
func (s *S1DecodePCM) Run(ctx context.Context, data []byte, subtype string) ([]byte, error) {
	start := time.Now()
	log.Printf("[S1][START] format=%s bytes=%d", subtype, len(data))

	format := subtype
	if mapped, ok := demuxerNames[subtype]; ok {
		format = mapped
	}

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-loglevel", "error",
		"-f", format,
		"-i", "pipe:0",
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "s16le",
		"pipe:1",
	)

	cmd.Stdin = bytes.NewReader(data)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("[S1] stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("[S1] ffmpeg start: %w", err)
	}

	pcm, readErr := io.ReadAll(stdout)
	waitErr := cmd.Wait()

	if readErr != nil {
		return nil, fmt.Errorf("[S1] read pcm: %w", readErr)
	}

	if waitErr != nil || len(pcm) == 0 {
		log.Printf("[S1][FAIL] format=%s err=%v stderr=%s",
			subtype, waitErr, trim(errBuf.String(), maxS1ErrPreview))
		return nil, fmt.Errorf("%w: format %q: %s",
			shared.ErrDecode, subtype, trim(errBuf.String(), maxS1ErrPreview))
	}

	log.Printf(
		"[S1][OK] bytes=%d approx_sec=%.1f dur=%s",
		len(pcm),
		float64(len(pcm))/2/16000,
		time.Since(start),
	)

	return pcm, nil
}
