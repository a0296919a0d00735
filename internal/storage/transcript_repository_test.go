package storage

import (
	"context"
	"testing"

	"koe/internal/models"
)

func TestTranscriptCreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	jobRepo := NewJobRepository(db)
	repo := NewTranscriptRepository(db)

	job := &models.TranscriptionJob{AudioPath: "a.wav"}
	if err := jobRepo.Create(ctx, job); err != nil {
		t.Fatalf("Create job failed: %v", err)
	}

	transcript := &models.Transcript{
		JobID:          job.ID,
		Text:           "hello world",
		SegmentsJSON:   `[{"text":"hello world","start_time":0,"end_time":1.5}]`,
		AudioSeconds:   1.5,
		ElapsedSeconds: 0.3,
	}
	if err := repo.Create(ctx, transcript); err != nil {
		t.Fatalf("Create transcript failed: %v", err)
	}
	if transcript.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	got, err := repo.GetByJobID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByJobID failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetByJobID returned nil")
	}
	if got.Text != transcript.Text {
		t.Errorf("Text = %q, want %q", got.Text, transcript.Text)
	}
	if got.SegmentsJSON != transcript.SegmentsJSON {
		t.Errorf("SegmentsJSON = %q, want %q", got.SegmentsJSON, transcript.SegmentsJSON)
	}
	if got.AudioSeconds != 1.5 || got.ElapsedSeconds != 0.3 {
		t.Errorf("timings = %f/%f, want 1.5/0.3", got.AudioSeconds, got.ElapsedSeconds)
	}
}

func TestTranscriptGetByJobIDMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewTranscriptRepository(openTestDB(t))

	got, err := repo.GetByJobID(ctx, "no-such-job")
	if err != nil {
		t.Fatalf("GetByJobID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing transcript, got %+v", got)
	}
}

func TestTranscriptDefaultsEmptySegments(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	jobRepo := NewJobRepository(db)
	repo := NewTranscriptRepository(db)

	job := &models.TranscriptionJob{AudioPath: "a.wav"}
	if err := jobRepo.Create(ctx, job); err != nil {
		t.Fatalf("Create job failed: %v", err)
	}

	transcript := &models.Transcript{JobID: job.ID, Text: "no segments"}
	if err := repo.Create(ctx, transcript); err != nil {
		t.Fatalf("Create transcript failed: %v", err)
	}

	got, err := repo.GetByJobID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByJobID failed: %v", err)
	}
	if got.SegmentsJSON != "[]" {
		t.Errorf("SegmentsJSON = %q, want []", got.SegmentsJSON)
	}
}
