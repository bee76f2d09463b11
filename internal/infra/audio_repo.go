package infra

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/software-students-fall2024/5-final-y2k/internal/models"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
	"github.com/software-students-fall2024/5-final-y2k/internal/shared"
)

// querier is the slice of pgxpool.Pool the repo actually uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresAudioRepo struct {
	db querier
}

func NewPostgresAudioRepo(pool *pgxpool.Pool) ports.AudioRepository {
	return &PostgresAudioRepo{db: pool}
}

func (r *PostgresAudioRepo) Create(ctx context.Context, fileID, name string) error {
	query := `
		INSERT INTO audio_metadata (file_id, name, transcription)
		VALUES ($1, $2, '')
	`
	if _, err := r.db.Exec(ctx, query, fileID, name); err != nil {
		return fmt.Errorf("%w: insert metadata: %v", shared.ErrPersistence, err)
	}
	return nil
}

// Complete sets transcription, processed_time and status in one UPDATE.
// The guard keeps a repeat call with identical values from touching the row,
// so processed_time never drifts on re-runs.
func (r *PostgresAudioRepo) Complete(ctx context.Context, fileID string, transcription *string) (ports.MatchResult, error) {
	query := `
		UPDATE audio_metadata
		SET transcription = $2, processed_time = now(), status = 'completed'
		WHERE file_id = $1
		  AND (transcription IS DISTINCT FROM $2 OR status IS DISTINCT FROM 'completed')
	`
	tag, err := r.db.Exec(ctx, query, fileID, transcription)
	if err != nil {
		return ports.MatchNone, fmt.Errorf("%w: complete metadata: %v", shared.ErrCompletion, err)
	}

	if tag.RowsAffected() > 0 {
		return ports.MatchUpdated, nil
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM audio_metadata WHERE file_id = $1)`,
		fileID,
	).Scan(&exists)
	if err != nil {
		return ports.MatchNone, fmt.Errorf("%w: check metadata: %v", shared.ErrCompletion, err)
	}

	if !exists {
		log.Printf("[db][complete] file=%s no metadata record matched", fileID)
		return ports.MatchNone, nil
	}

	log.Printf("[db][complete] file=%s matched but unchanged", fileID)
	return ports.MatchUnchanged, nil
}

func (r *PostgresAudioRepo) GetByFileID(ctx context.Context, fileID string) (*models.AudioMetadata, error) {
	query := `
		SELECT id, file_id, name, upload_time, transcription, processed_time, status
		FROM audio_metadata
		WHERE file_id = $1
	`

	var m models.AudioMetadata

	err := r.db.QueryRow(ctx, query, fileID).Scan(
		&m.ID,
		&m.FileID,
		&m.Name,
		&m.UploadTime,
		&m.Transcription,
		&m.ProcessedTime,
		&m.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get metadata: %v", shared.ErrPersistence, err)
	}

	return &m, nil
}

func (r *PostgresAudioRepo) List(ctx context.Context) ([]models.AudioMetadata, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, file_id, name, upload_time, transcription, processed_time, status
		FROM audio_metadata
		ORDER BY upload_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list metadata: %v", shared.ErrPersistence, err)
	}
	defer rows.Close()

	var out []models.AudioMetadata
	for rows.Next() {
		var m models.AudioMetadata
		if err := rows.Scan(
			&m.ID,
			&m.FileID,
			&m.Name,
			&m.UploadTime,
			&m.Transcription,
			&m.ProcessedTime,
			&m.Status,
		); err != nil {
			return nil, fmt.Errorf("%w: scan metadata: %v", shared.ErrPersistence, err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
