package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"koe/internal/models"
)

// TranscriptRepository is the data access layer for stored transcripts
type TranscriptRepository struct {
	db *DB
}

// NewTranscriptRepository creates a new TranscriptRepository
func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create stores a transcript
func (r *TranscriptRepository) Create(ctx context.Context, t *models.Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.SegmentsJSON == "" {
		t.SegmentsJSON = "[]"
	}
	t.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, job_id, text, segments, audio_seconds, elapsed_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.JobID, t.Text, t.SegmentsJSON, t.AudioSeconds, t.ElapsedSeconds, t.CreatedAt,
	)
	return err
}

// GetByJobID returns the transcript for a job, or nil if none is stored.
func (r *TranscriptRepository) GetByJobID(ctx context.Context, jobID string) (*models.Transcript, error) {
	var t models.Transcript
	err := r.db.QueryRowContext(ctx, `
		SELECT id, job_id, text, segments, audio_seconds, elapsed_seconds, created_at
		FROM transcripts WHERE job_id = ?`, jobID).
		Scan(&t.ID, &t.JobID, &t.Text, &t.SegmentsJSON, &t.AudioSeconds, &t.ElapsedSeconds, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
