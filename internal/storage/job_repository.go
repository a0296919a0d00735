package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"koe/internal/models"
)

// JobRepository is the data access layer for transcription jobs
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job. ID, status and timestamps are filled in when
// not already set.
func (r *JobRepository) Create(ctx context.Context, job *models.TranscriptionJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.JobStatusQueued
	}
	job.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transcription_jobs
			(id, audio_path, filename, status, priority, progress, retry_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.AudioPath, job.Filename, job.Status, job.Priority,
		job.Progress, job.RetryCount, job.Error, job.CreatedAt,
	)
	return err
}

// GetByID returns the job with the given ID, or nil if it does not exist.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.TranscriptionJob, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, audio_path, filename, status, priority, progress, retry_count, error,
		       created_at, started_at, completed_at
		FROM transcription_jobs WHERE id = ?`, id)
	return scanJob(row)
}

// GetNextQueued returns the next queued job in priority order, or nil when
// the queue is empty.
func (r *JobRepository) GetNextQueued(ctx context.Context) (*models.TranscriptionJob, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, audio_path, filename, status, priority, progress, retry_count, error,
		       created_at, started_at, completed_at
		FROM transcription_jobs
		WHERE status = ?
		ORDER BY priority ASC, created_at ASC
		LIMIT 1`, models.JobStatusQueued)
	return scanJob(row)
}

// Start marks the job as running
func (r *JobRepository) Start(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transcription_jobs SET status = ?, started_at = ? WHERE id = ?`,
		models.JobStatusRunning, time.Now(), id)
	return err
}

// UpdateProgress updates the job's progress percentage
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transcription_jobs SET progress = ? WHERE id = ?`, progress, id)
	return err
}

// Complete marks the job as completed
func (r *JobRepository) Complete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transcription_jobs SET status = ?, progress = 100, completed_at = ? WHERE id = ?`,
		models.JobStatusCompleted, time.Now(), id)
	return err
}

// Fail marks the job as failed with an error message
func (r *JobRepository) Fail(ctx context.Context, id string, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transcription_jobs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		models.JobStatusFailed, errorMsg, time.Now(), id)
	return err
}

// Retry puts the job back on the queue and increments its retry count
func (r *JobRepository) Retry(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transcription_jobs
		SET status = ?, retry_count = retry_count + 1, started_at = NULL
		WHERE id = ?`,
		models.JobStatusQueued, id)
	return err
}

// ListRecent returns the most recently created jobs
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, audio_path, filename, status, priority, progress, retry_count, error,
		       created_at, started_at, completed_at
		FROM transcription_jobs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.TranscriptionJob
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Delete removes a job
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transcription_jobs WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*models.TranscriptionJob, error) {
	job, err := scanJobRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

func scanJobRow(row rowScanner) (*models.TranscriptionJob, error) {
	var job models.TranscriptionJob
	var startedAt, completedAt sql.NullTime
	err := row.Scan(
		&job.ID, &job.AudioPath, &job.Filename, &job.Status, &job.Priority,
		&job.Progress, &job.RetryCount, &job.Error,
		&job.CreatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}
