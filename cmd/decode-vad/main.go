// Decode a long WAVE file by first splitting it into speech segments with
// silero VAD, then transcribing each segment separately. Segment audio can
// optionally be dumped as individual WAV files.
//
// Usage:
//   go run ./cmd/decode-vad -model-dir models/... -vad-model models/silero_vad.onnx -i audio.wav

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"koe/internal/asr"
)

func main() {
	var (
		inputFile    = flag.String("i", "", "Input audio file (WAV format, mono 16-bit)")
		modelDir     = flag.String("model-dir", "models/sherpa-onnx-zipformer-ja-reazonspeech-2024-08-01", "Transducer model directory")
		numThreads   = flag.Int("threads", 2, "Number of threads for inference")
		vadModel     = flag.String("vad-model", "models/silero_vad.onnx", "Path to silero_vad.onnx")
		vadThreshold = flag.Float64("vad-threshold", 0.5, "VAD speech threshold (0-1)")
		minSilence   = flag.Float64("min-silence", 0.5, "Minimum silence duration to split, in seconds")
		dumpDir      = flag.String("dump-dir", "", "Directory to write per-segment WAV files (optional)")
	)

	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: Input file is required (-i)\n\n")
		flag.Usage()
		os.Exit(1)
	}
	if _, err := os.Stat(*inputFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: Input file not found: %s\n", *inputFile)
		os.Exit(1)
	}

	wave, err := asr.ReadWave(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read audio file: %v\n", err)
		os.Exit(1)
	}

	config, err := asr.NewConfigFromDir(*modelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load model config: %v\n", err)
		os.Exit(1)
	}
	config.NumThreads = *numThreads

	recognizer, err := asr.NewRecognizer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create recognizer: %v\n", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	vadConfig := asr.DefaultVADConfig(*vadModel)
	vadConfig.Threshold = float32(*vadThreshold)
	vadConfig.MinSilenceDuration = float32(*minSilence)

	fmt.Printf("Audio duration: %.1fs\n", wave.Duration())
	fmt.Println("Detecting speech...")

	startTime := time.Now()
	segments, err := asr.DetectSpeech(wave.Samples, wave.SampleRate, vadConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: VAD failed: %v\n", err)
		os.Exit(1)
	}

	if *dumpDir != "" {
		if err := os.MkdirAll(*dumpDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to create dump directory: %v\n", err)
			os.Exit(1)
		}
	}

	var speechSeconds float64
	var allText string
	for i, seg := range segments {
		speechSeconds += seg.EndTime - seg.StartTime

		result, err := recognizer.Transcribe(seg.Samples, wave.SampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Transcription failed: %v\n", err)
			os.Exit(1)
		}
		if result.Text != "" {
			fmt.Printf("[%.2f-%.2f] %s\n", seg.StartTime, seg.EndTime, result.Text)
			allText += result.Text
		}

		if *dumpDir != "" {
			segPath := filepath.Join(*dumpDir, fmt.Sprintf("segment_%03d.wav", i))
			if err := asr.WriteWave(segPath, seg.Samples, wave.SampleRate); err != nil {
				fmt.Fprintf(os.Stderr, "Error: Failed to write segment: %v\n", err)
				os.Exit(1)
			}
		}
	}

	elapsed := time.Since(startTime).Seconds()
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Segments: %d\n", len(segments))
	fmt.Printf("Speech: %.1fs of %.1fs\n", speechSeconds, wave.Duration())
	fmt.Printf("Processing time: %.1fs\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("Real-time factor: %.2fx\n", wave.Duration()/elapsed)
	}
	fmt.Printf("\n=== Full Transcript ===\n%s\n", allText)
}
