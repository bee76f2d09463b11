package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/software-students-fall2024/5-final-y2k/internal/configuration"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

type SpeechKitService struct {
	apiKey string
	url    string
	client *http.Client
}

func NewSpeechKitService(cfg configuration.SpeechKitConfig) ports.STTService {
	return &SpeechKitService{
		apiKey: cfg.APIKey,
		url:    cfg.URL,
		client: http.DefaultClient,
	}
}

type speechKitResponse struct {
	Result string `json:"result"`
	Error  string `json:"error_message"`
}

func (s *SpeechKitService) Recognize(ctx context.Context, wav []byte) (ports.Recognition, error) {

	url := s.url + "?lang=en-US&format=lpcm&sampleRateHertz=16000"

	// the backend wants raw lpcm, not the RIFF container
	body := wav
	if len(body) > 44 && bytes.HasPrefix(body, []byte("RIFF")) {
		body = body[44:]
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return ports.Recognition{}, fmt.Errorf("%w: build request: %v", shared.ErrRecognition, err)
	}

	req.Header.Set("Authorization", "Api-Key "+s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		// backend unreachable is a soft outcome, the pipeline still completes
		log.Printf("[stt][unavailable] %v", err)
		return ports.Recognition{Status: ports.StatusUnavailable}, nil
	}
	defer resp.Body.Close()

	rawResp, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != 200 {
		log.Printf("[stt][unavailable] http %d: %s", resp.StatusCode, trim(string(rawResp), 180))
		return ports.Recognition{Status: ports.StatusUnavailable}, nil
	}

	var parsed speechKitResponse
	if err := json.Unmarshal(rawResp, &parsed); err != nil {
		return ports.Recognition{}, fmt.Errorf("%w: malformed response: %v", shared.ErrRecognition, err)
	}

	if parsed.Error != "" {
		return ports.Recognition{}, fmt.Errorf("%w: %s", shared.ErrRecognition, parsed.Error)
	}

	if parsed.Result == "" {
		return ports.Recognition{Status: ports.StatusNoSpeech}, nil
	}

	return ports.Recognition{Status: ports.StatusText, Text: parsed.Result}, nil
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
