package infra

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeDB struct {
	execTag pgconn.CommandTag
	execErr error
	rowScan func(dest ...any) error

	execSQL  []string
	execArgs [][]any
	rowSQL   []string
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.rowSQL = append(f.rowSQL, sql)
	return fakeRow{scan: f.rowScan}
}

func newRepoWithFake() (*PostgresAudioRepo, *fakeDB) {
	db := &fakeDB{}
	return &PostgresAudioRepo{db: db}, db
}

var (
	guardedUpdate = regexp.MustCompile(
		`UPDATE audio_metadata[\s\S]*IS DISTINCT FROM \$2[\s\S]*IS DISTINCT FROM 'completed'`)
	existsQuery = regexp.MustCompile(`SELECT EXISTS`)
)

// ---- tests ----

func TestComplete_FirstCallUpdates(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execTag = pgconn.NewCommandTag("UPDATE 1")

	text := "hello"
	match, err := repo.Complete(context.Background(), "f1", &text)
	require.NoError(t, err)
	assert.Equal(t, ports.MatchUpdated, match)

	// the write carries the identical-values guard and nothing else runs
	require.Len(t, db.execSQL, 1)
	assert.Regexp(t, guardedUpdate, db.execSQL[0])
	assert.Equal(t, []any{"f1", &text}, db.execArgs[0])
	assert.Empty(t, db.rowSQL)
}

func TestComplete_IdenticalRepeatLeavesRowUntouched(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execTag = pgconn.NewCommandTag("UPDATE 0")
	db.rowScan = func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}

	text := "hello"
	match, err := repo.Complete(context.Background(), "f1", &text)
	require.NoError(t, err)
	assert.Equal(t, ports.MatchUnchanged, match)

	// the only statements issued were the guarded UPDATE (which matched
	// nothing) and the read-only EXISTS check, so processed_time stays put
	require.Len(t, db.execSQL, 1)
	assert.Regexp(t, guardedUpdate, db.execSQL[0])
	require.Len(t, db.rowSQL, 1)
	assert.Regexp(t, existsQuery, db.rowSQL[0])
}

func TestComplete_MissingRow(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execTag = pgconn.NewCommandTag("UPDATE 0")
	db.rowScan = func(dest ...any) error {
		*(dest[0].(*bool)) = false
		return nil
	}

	match, err := repo.Complete(context.Background(), "gone", nil)
	require.NoError(t, err)
	assert.Equal(t, ports.MatchNone, match)
}

func TestComplete_NilTranscription(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execTag = pgconn.NewCommandTag("UPDATE 1")

	match, err := repo.Complete(context.Background(), "f1", nil)
	require.NoError(t, err)
	assert.Equal(t, ports.MatchUpdated, match)
	assert.Equal(t, []any{"f1", (*string)(nil)}, db.execArgs[0])
}

func TestComplete_ExecError(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execErr = errors.New("connection reset")

	_, err := repo.Complete(context.Background(), "f1", nil)
	assert.ErrorIs(t, err, shared.ErrCompletion)
}

func TestComplete_ExistsCheckError(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execTag = pgconn.NewCommandTag("UPDATE 0")
	db.rowScan = func(dest ...any) error {
		return errors.New("connection reset")
	}

	_, err := repo.Complete(context.Background(), "f1", nil)
	assert.ErrorIs(t, err, shared.ErrCompletion)
}

func TestCreate_InsertError(t *testing.T) {
	repo, db := newRepoWithFake()
	db.execErr = errors.New("db is down")

	err := repo.Create(context.Background(), "f1", "clip1")
	assert.ErrorIs(t, err, shared.ErrPersistence)
}

func TestGetByFileID(t *testing.T) {
	repo, db := newRepoWithFake()

	uploaded := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	text := "hello"
	status := "completed"
	db.rowScan = func(dest ...any) error {
		*(dest[0].(*int)) = 7
		*(dest[1].(*string)) = "f1"
		*(dest[2].(*string)) = "clip1"
		*(dest[3].(*time.Time)) = uploaded
		*(dest[4].(**string)) = &text
		*(dest[5].(**time.Time)) = &uploaded
		*(dest[6].(**string)) = &status
		return nil
	}

	m, err := repo.GetByFileID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", m.FileID)
	assert.Equal(t, "clip1", m.Name)
	require.NotNil(t, m.Transcription)
	assert.Equal(t, "hello", *m.Transcription)
}

func TestGetByFileID_NotFound(t *testing.T) {
	repo, db := newRepoWithFake()
	db.rowScan = func(dest ...any) error { return pgx.ErrNoRows }

	_, err := repo.GetByFileID(context.Background(), "gone")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
