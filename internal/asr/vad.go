package asr

import (
	"fmt"
	"os"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// VADConfig holds configuration for Voice Activity Detection
type VADConfig struct {
	ModelPath          string  // Path to silero_vad.onnx
	Threshold          float32 // Speech detection threshold (0-1, default 0.5)
	MinSpeechDuration  float32 // Minimum speech duration in seconds (default 0.25)
	MinSilenceDuration float32 // Minimum silence duration to split (default 0.5)
	WindowSize         int     // Samples fed to the VAD per step (default 512)
}

// DefaultVADConfig returns default VAD configuration
func DefaultVADConfig(modelPath string) *VADConfig {
	return &VADConfig{
		ModelPath:          modelPath,
		Threshold:          0.5,
		MinSpeechDuration:  0.25,
		MinSilenceDuration: 0.5,
		WindowSize:         512,
	}
}

// SpeechSegment is a VAD-detected region of speech.
type SpeechSegment struct {
	Samples   []float32
	StartTime float64 // in seconds
	EndTime   float64 // in seconds
}

// DetectSpeech runs silero VAD over the samples and returns the detected
// speech segments in time order.
func DetectSpeech(samples []float32, sampleRate int, config *VADConfig) ([]SpeechSegment, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("VAD model not found: %s", config.ModelPath)
	}

	vadModelConfig := sherpa.VadModelConfig{
		SileroVad: sherpa.SileroVadModelConfig{
			Model:              config.ModelPath,
			Threshold:          config.Threshold,
			MinSilenceDuration: config.MinSilenceDuration,
			MinSpeechDuration:  config.MinSpeechDuration,
			WindowSize:         config.WindowSize,
		},
		SampleRate: sampleRate,
		NumThreads: 1,
		Debug:      0,
	}

	vad := sherpa.NewVoiceActivityDetector(&vadModelConfig, 30) // 30 seconds buffer
	if vad == nil {
		return nil, fmt.Errorf("failed to create VAD")
	}
	defer sherpa.DeleteVoiceActivityDetector(vad)

	var segments []SpeechSegment
	window := config.WindowSize
	for offset := 0; offset < len(samples); offset += window {
		end := offset + window
		if end > len(samples) {
			end = len(samples)
		}
		vad.AcceptWaveform(samples[offset:end])
		segments = drainVAD(vad, sampleRate, segments)
	}

	vad.Flush()
	segments = drainVAD(vad, sampleRate, segments)

	return segments, nil
}

// drainVAD pops all completed segments off the detector.
func drainVAD(vad *sherpa.VoiceActivityDetector, sampleRate int, segments []SpeechSegment) []SpeechSegment {
	for !vad.IsEmpty() {
		segment := vad.Front()
		vad.Pop()

		start := float64(segment.Start) / float64(sampleRate)
		segments = append(segments, SpeechSegment{
			Samples:   segment.Samples,
			StartTime: start,
			EndTime:   start + float64(len(segment.Samples))/float64(sampleRate),
		})
	}
	return segments
}
