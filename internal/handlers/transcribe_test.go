package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"koe/internal/models"
	"koe/internal/storage"
	"koe/internal/worker"
)

type testEnv struct {
	handler        *TranscribeHandler
	jobRepo        *storage.JobRepository
	transcriptRepo *storage.TranscriptRepository
}

// newTestEnv wires a handler against a temp database. The recognizer is nil:
// these tests cover the job/transcript endpoints, which never touch it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	jobRepo := storage.NewJobRepository(db)
	transcriptRepo := storage.NewTranscriptRepository(db)
	w := worker.NewWorker(jobRepo, func(ctx context.Context, job *models.TranscriptionJob) error {
		return nil
	})

	return &testEnv{
		handler:        NewTranscribeHandler(nil, w, jobRepo, transcriptRepo, filepath.Join(dir, "uploads")),
		jobRepo:        jobRepo,
		transcriptRepo: transcriptRepo,
	}
}

// multipartUpload builds a multipart body with a single "file" field
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestSubmitJob(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()

	body, contentType := multipartUpload(t, "audio.wav", []byte("fake wav bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := env.handler.SubmitJob(c); err != nil {
		t.Fatalf("SubmitJob failed: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["job_id"] == "" {
		t.Fatal("response has no job_id")
	}
	if resp["status"] != models.JobStatusQueued {
		t.Errorf("status = %s, want queued", resp["status"])
	}

	job, err := env.jobRepo.GetByID(context.Background(), resp["job_id"])
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job == nil {
		t.Fatal("job not stored")
	}
	if job.Filename != "audio.wav" {
		t.Errorf("Filename = %s, want audio.wav", job.Filename)
	}
}

func TestSubmitJobWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := env.handler.SubmitJob(c); err != nil {
		t.Fatalf("SubmitJob failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	ctx := context.Background()

	job := &models.TranscriptionJob{AudioPath: "a.wav", Filename: "a.wav"}
	if err := env.jobRepo.Create(ctx, job); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/jobs/:id")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)

	if err := env.handler.GetJob(c); err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got models.TranscriptionJob
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if got.ID != job.ID {
		t.Errorf("ID = %s, want %s", got.ID, job.ID)
	}
}

func TestGetJobNotFound(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/jobs/:id")
	c.SetParamNames("id")
	c.SetParamValues("no-such-job")

	if err := env.handler.GetJob(c); err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetTranscript(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	ctx := context.Background()

	job := &models.TranscriptionJob{AudioPath: "a.wav"}
	if err := env.jobRepo.Create(ctx, job); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Not completed yet
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/jobs/:id/transcript")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)

	if err := env.handler.GetTranscript(c); err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	// Complete the job and store a transcript
	if err := env.jobRepo.Complete(ctx, job.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	transcript := &models.Transcript{
		JobID:        job.ID,
		Text:         "hello",
		SegmentsJSON: `[{"text":"hello","start_time":0,"end_time":1}]`,
	}
	if err := env.transcriptRepo.Create(ctx, transcript); err != nil {
		t.Fatalf("Create transcript failed: %v", err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetPath("/api/jobs/:id/transcript")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)

	if err := env.handler.GetTranscript(c); err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["text"] != "hello" {
		t.Errorf("text = %v, want hello", resp["text"])
	}
	segments, ok := resp["segments"].([]any)
	if !ok || len(segments) != 1 {
		t.Errorf("segments = %v, want one segment", resp["segments"])
	}
}
