package models

import "time"

// TranscriptionJob is an asynchronous transcription task
type TranscriptionJob struct {
	ID          string     `json:"id"`
	AudioPath   string     `json:"audio_path"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	Progress    int        `json:"progress"`
	RetryCount  int        `json:"retry_count"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Job statuses
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job priorities
const (
	JobPriorityImmediate = 0 // process next
	JobPriorityNormal    = 5
	JobPriorityBatch     = 9
)

// Transcript is a stored transcription result
type Transcript struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	Text           string    `json:"text"`
	SegmentsJSON   string    `json:"-"` // segments serialized as JSON
	AudioSeconds   float64   `json:"audio_seconds"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}
