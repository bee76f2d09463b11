package models

import "time"

const StatusCompleted = "completed"

type AudioMetadata struct {
	ID            int        `db:"id"`
	FileID        string     `db:"file_id"` // object store key, string form of the UUID
	Name          string     `db:"name"`
	UploadTime    time.Time  `db:"upload_time"`
	Transcription *string    `db:"transcription"` // "" until processed, NULL when processing produced no result
	ProcessedTime *time.Time `db:"processed_time"`
	Status        *string    `db:"status"` // NULL until processed, then "completed"
}
