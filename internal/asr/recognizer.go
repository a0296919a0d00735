package asr

import (
	"fmt"
	"time"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// Recognizer handles offline speech recognition using Sherpa-ONNX
type Recognizer struct {
	config     *Config
	recognizer *sherpa.OfflineRecognizer
}

// FileResult pairs an input file with its transcription result.
type FileResult struct {
	Path   string  `json:"path"`
	Result *Result `json:"result"`
}

// NewRecognizer creates a new ASR recognizer with the given configuration.
// The model family is picked from the configured paths (transducer,
// paraformer, NeMo CTC, SenseVoice or Whisper).
func NewRecognizer(config *Config) (*Recognizer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	modelType, err := config.ModelType()
	if err != nil {
		return nil, err
	}

	debug := 0
	if config.Debug {
		debug = 1
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: config.SampleRate,
			FeatureDim: config.FeatureDim,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Tokens:     config.TokensPath,
			NumThreads: config.NumThreads,
			Debug:      debug,
		},
		DecodingMethod: config.DecodingMethod,
		MaxActivePaths: config.MaxActivePaths,
	}

	switch modelType {
	case ModelTransducer:
		sherpaConfig.ModelConfig.Transducer = sherpa.OfflineTransducerModelConfig{
			Encoder: config.EncoderPath,
			Decoder: config.DecoderPath,
			Joiner:  config.JoinerPath,
		}
	case ModelParaformer:
		sherpaConfig.ModelConfig.Paraformer = sherpa.OfflineParaformerModelConfig{
			Model: config.ParaformerPath,
		}
	case ModelNemoCTC:
		sherpaConfig.ModelConfig.NemoCTC = sherpa.OfflineNemoEncDecCtcModelConfig{
			Model: config.NemoCTCPath,
		}
	case ModelSenseVoice:
		sherpaConfig.ModelConfig.SenseVoice = sherpa.OfflineSenseVoiceModelConfig{
			Model:                       config.SenseVoicePath,
			Language:                    config.SenseVoiceLanguage,
			UseInverseTextNormalization: 1,
		}
	case ModelWhisper:
		sherpaConfig.ModelConfig.Whisper = sherpa.OfflineWhisperModelConfig{
			Encoder:  config.WhisperEncoderPath,
			Decoder:  config.WhisperDecoderPath,
			Language: config.WhisperLanguage,
			Task:     config.WhisperTask,
		}
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create offline recognizer (%s)", modelType)
	}

	return &Recognizer{
		config:     config,
		recognizer: recognizer,
	}, nil
}

// Config returns the configuration the recognizer was created with.
func (r *Recognizer) Config() *Config {
	return r.config
}

// DecodeFiles decodes a batch of WAVE files. All files are read and fed
// into their own streams first, then decoded, so the per-file results come
// back in input order. Stats covers the whole batch.
func (r *Recognizer) DecodeFiles(paths []string) ([]FileResult, *Stats, error) {
	start := time.Now()

	streams := make([]*sherpa.OfflineStream, 0, len(paths))
	defer func() {
		for _, s := range streams {
			sherpa.DeleteOfflineStream(s)
		}
	}()

	durations := make([]float64, len(paths))
	var totalDuration float64
	for i, path := range paths {
		wave, err := ReadWave(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		durations[i] = wave.Duration()
		totalDuration += wave.Duration()

		stream := sherpa.NewOfflineStream(r.recognizer)
		if stream == nil {
			return nil, nil, fmt.Errorf("failed to create stream for %s", path)
		}
		streams = append(streams, stream)
		stream.AcceptWaveform(wave.SampleRate, wave.Samples)
	}

	for _, stream := range streams {
		r.recognizer.Decode(stream)
	}

	results := make([]FileResult, len(paths))
	for i, stream := range streams {
		results[i] = FileResult{
			Path:   paths[i],
			Result: resultFromStream(stream, durations[i]),
		}
	}

	stats := &Stats{
		NumThreads:     r.config.NumThreads,
		DecodingMethod: r.config.DecodingMethod,
		AudioSeconds:   totalDuration,
		ElapsedSeconds: time.Since(start).Seconds(),
	}
	return results, stats, nil
}

// TranscribeFile transcribes a single WAVE file.
func (r *Recognizer) TranscribeFile(path string) (*Result, error) {
	wave, err := ReadWave(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return r.Transcribe(wave.Samples, wave.SampleRate)
}

// Transcribe transcribes raw audio samples. The samples may have any
// sample rate; the feature extractor resamples as needed.
func (r *Recognizer) Transcribe(samples []float32, sampleRate int) (*Result, error) {
	stream := sherpa.NewOfflineStream(r.recognizer)
	if stream == nil {
		return nil, fmt.Errorf("failed to create stream")
	}
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, samples)
	r.recognizer.Decode(stream)

	duration := 0.0
	if sampleRate > 0 {
		duration = float64(len(samples)) / float64(sampleRate)
	}
	return resultFromStream(stream, duration), nil
}

// Close releases resources used by the recognizer
func (r *Recognizer) Close() error {
	if r.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(r.recognizer)
		r.recognizer = nil
	}
	return nil
}

// resultFromStream collects the decoded text and token timestamps from a
// finished stream.
func resultFromStream(stream *sherpa.OfflineStream, audioDuration float64) *Result {
	raw := stream.GetResult()
	if raw == nil {
		return &Result{AudioDuration: audioDuration}
	}

	tokens := extractTokens(raw)
	return &Result{
		Text:          raw.Text,
		Tokens:        tokens,
		Segments:      tokensToSegments(tokens),
		AudioDuration: audioDuration,
	}
}

// extractTokens pairs the recognized tokens with their timestamps. Models
// that report no timestamps produce tokens with zero start times.
func extractTokens(raw *sherpa.OfflineRecognizerResult) []Token {
	if raw == nil || len(raw.Tokens) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(raw.Tokens))
	for i, text := range raw.Tokens {
		if text == "" {
			continue
		}

		var startTime, duration float32
		if i < len(raw.Timestamps) {
			startTime = raw.Timestamps[i]
		}
		if i < len(raw.Durations) {
			duration = raw.Durations[i]
		}

		tokens = append(tokens, Token{
			Text:      text,
			StartTime: startTime,
			Duration:  duration,
		})
	}

	return tokens
}
