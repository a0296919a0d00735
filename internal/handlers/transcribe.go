package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"koe/internal/asr"
	"koe/internal/models"
	"koe/internal/storage"
	"koe/internal/worker"
)

// TranscribeHandler handles transcription HTTP requests
type TranscribeHandler struct {
	recognizer     *asr.Recognizer
	worker         *worker.Worker
	jobRepo        *storage.JobRepository
	transcriptRepo *storage.TranscriptRepository
	uploadDir      string
}

// NewTranscribeHandler creates a new TranscribeHandler
func NewTranscribeHandler(
	recognizer *asr.Recognizer,
	w *worker.Worker,
	jobRepo *storage.JobRepository,
	transcriptRepo *storage.TranscriptRepository,
	uploadDir string,
) *TranscribeHandler {
	return &TranscribeHandler{
		recognizer:     recognizer,
		worker:         w,
		jobRepo:        jobRepo,
		transcriptRepo: transcriptRepo,
		uploadDir:      uploadDir,
	}
}

// Transcribe handles synchronous transcription of an uploaded WAVE file
// POST /api/transcribe
func (h *TranscribeHandler) Transcribe(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field is required"})
	}

	path, err := h.saveUpload(fh, os.TempDir())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer os.Remove(path)

	start := time.Now()
	result, err := h.recognizer.TranscribeFile(path)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"text":            result.Text,
		"segments":        result.Segments,
		"audio_seconds":   result.AudioDuration,
		"elapsed_seconds": time.Since(start).Seconds(),
	})
}

// SubmitJob accepts a WAVE upload and queues it for background transcription
// POST /api/jobs
func (h *TranscribeHandler) SubmitJob(c echo.Context) error {
	ctx := c.Request().Context()

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field is required"})
	}

	priority := models.JobPriorityNormal
	if c.FormValue("priority") == "immediate" {
		priority = models.JobPriorityImmediate
	}

	path, err := h.saveUpload(fh, h.uploadDir)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	job, err := h.worker.SubmitJob(ctx, path, fh.Filename, priority)
	if err != nil {
		os.Remove(path)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "Transcription job queued",
	})
}

// GetJob returns job status and progress
// GET /api/jobs/:id
func (h *TranscribeHandler) GetJob(c echo.Context) error {
	ctx := c.Request().Context()

	job, err := h.jobRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	return c.JSON(http.StatusOK, job)
}

// ListJobs returns the most recent jobs
// GET /api/jobs
func (h *TranscribeHandler) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()

	jobs, err := h.jobRepo.ListRecent(ctx, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"jobs": jobs})
}

// GetTranscript returns the stored transcript for a completed job
// GET /api/jobs/:id/transcript
func (h *TranscribeHandler) GetTranscript(c echo.Context) error {
	ctx := c.Request().Context()
	jobID := c.Param("id")

	job, err := h.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if job.Status != models.JobStatusCompleted {
		return c.JSON(http.StatusConflict, map[string]string{
			"error":  "job is not completed",
			"status": job.Status,
		})
	}

	transcript, err := h.transcriptRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if transcript == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "transcript not found"})
	}

	var segments []asr.Segment
	if err := json.Unmarshal([]byte(transcript.SegmentsJSON), &segments); err != nil {
		segments = nil
	}

	return c.JSON(http.StatusOK, map[string]any{
		"job_id":          transcript.JobID,
		"text":            transcript.Text,
		"segments":        segments,
		"audio_seconds":   transcript.AudioSeconds,
		"elapsed_seconds": transcript.ElapsedSeconds,
		"created_at":      transcript.CreatedAt,
	})
}

// saveUpload copies an uploaded file into dir under a unique name
func (h *TranscribeHandler) saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.New().String()+filepath.Ext(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
