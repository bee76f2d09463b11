package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/software-students-fall2024/5-final-y2k/internal/models"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type storedObject struct {
	data        []byte
	contentType string
}

type fakeStore struct {
	objects    map[uuid.UUID]storedObject
	storeErr   error
	fetchErr   error
	fetchCalls int
	lastID     uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[uuid.UUID]storedObject)}
}

func (f *fakeStore) Store(ctx context.Context, data []byte, filename, contentType string) (uuid.UUID, error) {
	if f.storeErr != nil {
		return uuid.Nil, f.storeErr
	}
	id := uuid.New()
	f.objects[id] = storedObject{data: data, contentType: contentType}
	f.lastID = id
	return id, nil
}

func (f *fakeStore) Fetch(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	obj, ok := f.objects[id]
	if !ok {
		return nil, "", shared.ErrNotFound
	}
	return obj.data, obj.contentType, nil
}

type fakeRepo struct {
	created       map[string]string
	completed     map[string]*string
	createErr     error
	completeErr   error
	completeRes   ports.MatchResult
	completeCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		created:   make(map[string]string),
		completed: make(map[string]*string),
	}
}

func (f *fakeRepo) Create(ctx context.Context, fileID, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created[fileID] = name
	return nil
}

func (f *fakeRepo) Complete(ctx context.Context, fileID string, transcription *string) (ports.MatchResult, error) {
	f.completeCalls++
	if f.completeErr != nil {
		return ports.MatchNone, f.completeErr
	}
	f.completed[fileID] = transcription
	return f.completeRes, nil
}

func (f *fakeRepo) GetByFileID(ctx context.Context, fileID string) (*models.AudioMetadata, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]models.AudioMetadata, error) {
	return nil, nil
}

type fakeNormalizer struct {
	out        []byte
	err        error
	gotSubtype string
}

func (f *fakeNormalizer) Normalize(ctx context.Context, data []byte, subtype string) ([]byte, error) {
	f.gotSubtype = subtype
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeSTT struct {
	rec ports.Recognition
	err error
}

func (f *fakeSTT) Recognize(ctx context.Context, wav []byte) (ports.Recognition, error) {
	return f.rec, f.err
}

// ---- helpers ----

func newService(store *fakeStore, repo *fakeRepo, norm *fakeNormalizer, stt *fakeSTT) *AudioService {
	return NewAudioService(store, repo, norm, stt)
}

func validUpload() ports.Upload {
	return ports.Upload{
		Data:        []byte("<valid wav bytes>"),
		Filename:    "clip1.wav",
		ContentType: "audio/wav",
		Name:        "clip1",
	}
}

// ---- tests ----

func TestHandleUpload_HappyPath(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	norm := &fakeNormalizer{out: []byte("RIFFwav")}
	stt := &fakeSTT{rec: ports.Recognition{Status: ports.StatusText, Text: "hello world"}}

	svc := newService(store, repo, norm, stt)

	res, err := svc.HandleUpload(context.Background(), validUpload())
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Status)
	require.NotNil(t, res.Transcription)
	assert.Equal(t, "hello world", *res.Transcription)

	// bytes stored under the returned id are identical to the upload
	data, contentType, err := store.Fetch(context.Background(), uuid.MustParse(res.FileID))
	require.NoError(t, err)
	assert.Equal(t, []byte("<valid wav bytes>"), data)
	assert.Equal(t, "audio/wav", contentType)

	// exactly one metadata record, created then completed once
	assert.Equal(t, map[string]string{res.FileID: "clip1"}, repo.created)
	assert.Equal(t, 1, repo.completeCalls)
	require.Contains(t, repo.completed, res.FileID)
	assert.Equal(t, "hello world", *repo.completed[res.FileID])

	// normalizer got the mime subtype
	assert.Equal(t, "wav", norm.gotSubtype)
}

func TestHandleUpload_EmitsEvent(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{rec: ports.Recognition{Status: ports.StatusText, Text: "hi"}})

	res, err := svc.HandleUpload(context.Background(), validUpload())
	require.NoError(t, err)

	select {
	case ev := <-svc.Events():
		assert.Equal(t, res.FileID, ev.FileID)
		assert.Equal(t, "completed", ev.Status)
	default:
		t.Fatal("expected a transcription event")
	}
}

func TestHandleUpload_Validation(t *testing.T) {
	tests := []struct {
		name string
		up   ports.Upload
	}{
		{"missing audio", ports.Upload{Name: "clip1"}},
		{"missing name", ports.Upload{Data: []byte("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			repo := newFakeRepo()
			svc := newService(store, repo, &fakeNormalizer{}, &fakeSTT{})

			_, err := svc.HandleUpload(context.Background(), tt.up)
			assert.ErrorIs(t, err, shared.ErrValidation)

			// no partial side effects
			assert.Empty(t, store.objects)
			assert.Empty(t, repo.created)
		})
	}
}

func TestHandleUpload_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.storeErr = shared.ErrStorage
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{}, &fakeSTT{})

	_, err := svc.HandleUpload(context.Background(), validUpload())
	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.Empty(t, repo.created)
}

func TestHandleUpload_MetadataFailure(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	repo.createErr = shared.ErrPersistence
	svc := newService(store, repo, &fakeNormalizer{}, &fakeSTT{})

	_, err := svc.HandleUpload(context.Background(), validUpload())
	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.Equal(t, 0, repo.completeCalls)
}

func TestTranscribe_InvalidID(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{}, &fakeSTT{})

	_, err := svc.Transcribe(context.Background(), "not-a-valid-id")
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	// no store or metadata operations happened
	assert.Equal(t, 0, store.fetchCalls)
	assert.Equal(t, 0, repo.completeCalls)
}

func TestTranscribe_NotFound(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{}, &fakeSTT{})

	_, err := svc.Transcribe(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, 0, repo.completeCalls)
}

func TestTranscribe_NoSpeechStillCompletes(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{rec: ports.Recognition{Status: ports.StatusNoSpeech}})

	res, err := svc.HandleUpload(context.Background(), validUpload())
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Status)
	assert.Nil(t, res.Transcription)

	require.Contains(t, repo.completed, res.FileID)
	assert.Nil(t, repo.completed[res.FileID])
}

func TestTranscribe_EngineUnavailableStillCompletes(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{rec: ports.Recognition{Status: ports.StatusUnavailable}})

	res, err := svc.HandleUpload(context.Background(), validUpload())
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Status)
	assert.Nil(t, res.Transcription)
	assert.Equal(t, 1, repo.completeCalls)
}

func TestTranscribe_DecodeFailure(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{err: shared.ErrDecode}, &fakeSTT{})

	_, err := svc.HandleUpload(context.Background(), validUpload())
	assert.ErrorIs(t, err, shared.ErrDecode)
	assert.Equal(t, 0, repo.completeCalls)
}

func TestTranscribe_RecognitionFailure(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{err: shared.ErrRecognition})

	_, err := svc.HandleUpload(context.Background(), validUpload())
	assert.ErrorIs(t, err, shared.ErrRecognition)
	assert.Equal(t, 0, repo.completeCalls)
}

func TestTranscribe_CompleteFailure(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	repo.completeErr = shared.ErrCompletion
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{rec: ports.Recognition{Status: ports.StatusText, Text: "x"}})

	_, err := svc.HandleUpload(context.Background(), validUpload())
	assert.ErrorIs(t, err, shared.ErrCompletion)
}

func TestTranscribe_NoMatchIsNotAnError(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	repo.completeRes = ports.MatchNone
	svc := newService(store, repo, &fakeNormalizer{out: []byte("wav")},
		&fakeSTT{rec: ports.Recognition{Status: ports.StatusText, Text: "x"}})

	res, err := svc.HandleUpload(context.Background(), validUpload())
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
}

func TestMimeSubtype(t *testing.T) {
	assert.Equal(t, "wav", mimeSubtype("audio/wav"))
	assert.Equal(t, "mpeg", mimeSubtype("audio/mpeg"))
	assert.Equal(t, "octet-stream", mimeSubtype("application/octet-stream"))
	assert.Equal(t, "wav", mimeSubtype("wav"))
}
