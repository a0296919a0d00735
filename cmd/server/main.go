package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"koe/internal/asr"
	"koe/internal/handlers"
	"koe/internal/models"
	"koe/internal/storage"
	"koe/internal/version"
	"koe/internal/worker"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	port := getenv("PORT", "8080")
	modelDir := getenv("KOE_MODEL_DIR", "models/sherpa-onnx-zipformer-ja-reazonspeech-2024-08-01")
	dbPath := getenv("KOE_DB_PATH", "data/koe.db")
	uploadDir := getenv("KOE_UPLOAD_DIR", "data/uploads")

	numThreads := 2
	if v := os.Getenv("KOE_NUM_THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("Invalid KOE_NUM_THREADS: %q", v)
		}
		numThreads = n
	}

	// Recognizer
	config, err := asr.NewConfigFromDir(modelDir)
	if err != nil {
		log.Fatalf("Failed to load model config: %v", err)
	}
	config.NumThreads = numThreads

	recognizer, err := asr.NewRecognizer(config)
	if err != nil {
		log.Fatalf("Failed to create recognizer: %v", err)
	}
	defer recognizer.Close()

	// Storage
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	jobRepo := storage.NewJobRepository(db)
	transcriptRepo := storage.NewTranscriptRepository(db)

	// Background worker
	w := worker.NewWorker(jobRepo, func(ctx context.Context, job *models.TranscriptionJob) error {
		_ = jobRepo.UpdateProgress(ctx, job.ID, 10)

		start := time.Now()
		result, err := recognizer.TranscribeFile(job.AudioPath)
		if err != nil {
			return err
		}
		_ = jobRepo.UpdateProgress(ctx, job.ID, 90)

		segments, err := json.Marshal(result.Segments)
		if err != nil {
			return err
		}
		return transcriptRepo.Create(ctx, &models.Transcript{
			JobID:          job.ID,
			Text:           result.Text,
			SegmentsJSON:   string(segments),
			AudioSeconds:   result.AudioDuration,
			ElapsedSeconds: time.Since(start).Seconds(),
		})
	})
	w.Start(context.Background())
	defer w.Stop()

	// HTTP server
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h := handlers.NewTranscribeHandler(recognizer, w, jobRepo, transcriptRepo, uploadDir)
	e.POST("/api/transcribe", h.Transcribe)
	e.POST("/api/jobs", h.SubmitJob)
	e.GET("/api/jobs", h.ListJobs)
	e.GET("/api/jobs/:id", h.GetJob)
	e.GET("/api/jobs/:id/transcript", h.GetTranscript)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	})

	log.Printf("Starting koe v%s on port %s (model: %s)", version.Version, port, modelDir)
	if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
