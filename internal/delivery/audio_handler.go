package delivery

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/software-students-fall2024/5-final-y2k/internal/models"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

const maxUploadBytes = 32 << 20

type AudioHandler struct {
	pipeline ports.AudioPipeline
	store    ports.ObjectStore
	repo     ports.AudioRepository
	log      *logger.ZapLogger
}

func NewAudioHandler(
	pipeline ports.AudioPipeline,
	store ports.ObjectStore,
	repo ports.AudioRepository,
	log *logger.ZapLogger,
) *AudioHandler {
	return &AudioHandler{
		pipeline: pipeline,
		store:    store,
		repo:     repo,
		log:      log,
	}
}

// POST /api/upload-audio
func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Audio file and name are required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Audio file and name are required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Audio file and name are required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Audio file and name are required")
		return
	}

	res, err := h.pipeline.HandleUpload(r.Context(), ports.Upload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Name:        name,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			writeError(w, http.StatusBadRequest, "Audio file and name are required")
		case errors.Is(err, shared.ErrStorage):
			writeError(w, http.StatusInternalServerError, "Failed to store the audio file in object storage")
		case errors.Is(err, shared.ErrPersistence):
			writeError(w, http.StatusInternalServerError, "Failed to store the metadata in the database")
		default:
			h.writeTranscribeError(w, err)
		}
		return
	}

	username, _ := UsernameFromContext(r.Context())
	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "audio uploaded and transcribed",
		Fields:  map[string]any{"fileID": res.FileID, "name": name, "user": username},
	})

	h.writeResult(w, res)
}

// POST /api/transcribe/{file_id}
func (h *AudioHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "file_id is required")
		return
	}

	res, err := h.pipeline.Transcribe(r.Context(), fileID)
	if err != nil {
		h.writeTranscribeError(w, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "transcription completed",
		Fields:  map[string]any{"fileID": res.FileID},
	})

	h.writeResult(w, res)
}

// GET /api/audio/{file_id} — the stored bytes, exactly as uploaded
func (h *AudioHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "file_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file_id format")
		return
	}

	data, contentType, err := h.store.Fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found in storage")
			return
		}
		writeError(w, http.StatusInternalServerError, "Object storage operation failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

type recordingResponse struct {
	FileID        string  `json:"file_id"`
	Name          string  `json:"name"`
	UploadTime    string  `json:"upload_time"`
	Transcription *string `json:"transcription"`
	Status        *string `json:"status"`
}

func toRecordingResponse(m models.AudioMetadata) recordingResponse {
	return recordingResponse{
		FileID:        m.FileID,
		Name:          m.Name,
		UploadTime:    m.UploadTime.Format(time.RFC3339),
		Transcription: m.Transcription,
		Status:        m.Status,
	}
}

// GET /api/recordings
func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database operation failed")
		return
	}

	out := make([]recordingResponse, 0, len(records))
	for _, m := range records {
		out = append(out, toRecordingResponse(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{"recordings": out})
}

// GET /api/recordings/{file_id} — one metadata record
func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "file_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file_id format")
		return
	}

	m, err := h.repo.GetByFileID(r.Context(), id.String())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database operation failed")
		return
	}

	writeJSON(w, http.StatusOK, toRecordingResponse(*m))
}

func (h *AudioHandler) writeResult(w http.ResponseWriter, res *ports.TranscriptionResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Prediction completed successfully",
		"file_id":       res.FileID,
		"status":        res.Status,
		"transcription": res.Transcription,
	})
}

func (h *AudioHandler) writeTranscribeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid file_id format")
	case errors.Is(err, shared.ErrNotFound):
		writeError(w, http.StatusNotFound, "File not found in storage")
	case errors.Is(err, shared.ErrDecode), errors.Is(err, shared.ErrRecognition):
		writeError(w, http.StatusInternalServerError, "Failed to process the audio file")
	default:
		// ErrCompletion and anything else unexpected land here
		writeError(w, http.StatusInternalServerError, "Database operation failed")
	}
}
