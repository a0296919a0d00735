package asr

import (
	"fmt"
	"os"
	"path/filepath"
)

// Decoding methods accepted by the offline recognizer.
const (
	DecodingGreedySearch       = "greedy_search"
	DecodingModifiedBeamSearch = "modified_beam_search"
)

// ModelType identifies which model family a Config selects.
type ModelType string

const (
	ModelTransducer ModelType = "transducer"
	ModelParaformer ModelType = "paraformer"
	ModelNemoCTC    ModelType = "nemo_ctc"
	ModelSenseVoice ModelType = "sense_voice"
	ModelWhisper    ModelType = "whisper"
)

// Config holds the configuration for the ASR recognizer.
// Exactly one model family must be configured.
type Config struct {
	TokensPath string // Path to tokens.txt

	// Transducer model (encoder/decoder/joiner triple)
	EncoderPath string
	DecoderPath string
	JoinerPath  string

	// Paraformer model
	ParaformerPath string

	// NeMo CTC model
	NemoCTCPath string

	// SenseVoice model
	SenseVoicePath     string
	SenseVoiceLanguage string // zh, en, ja, ko, yue, auto

	// Whisper model
	WhisperEncoderPath string
	WhisperDecoderPath string
	WhisperLanguage    string // empty = auto-detect
	WhisperTask        string // transcribe or translate

	NumThreads     int    // Number of threads for inference
	DecodingMethod string // greedy_search or modified_beam_search
	MaxActivePaths int    // Beam size for modified_beam_search
	Debug          bool   // Show debug messages from the inference library

	SampleRate int // Sample rate expected by the feature extractor
	FeatureDim int // Feature dimension expected by the model
}

// DefaultConfig returns a configuration with the usual feature-extractor
// settings. A model family still has to be filled in.
func DefaultConfig() *Config {
	return &Config{
		SenseVoiceLanguage: "auto",
		WhisperTask:        "transcribe",
		NumThreads:         1,
		DecodingMethod:     DecodingGreedySearch,
		MaxActivePaths:     4,
		SampleRate:         16000,
		FeatureDim:         80,
	}
}

// ModelType reports the model family the config selects. Supplying paths
// from more than one family (or from none) is an error.
func (c *Config) ModelType() (ModelType, error) {
	var selected []ModelType
	if c.EncoderPath != "" || c.DecoderPath != "" || c.JoinerPath != "" {
		selected = append(selected, ModelTransducer)
	}
	if c.ParaformerPath != "" {
		selected = append(selected, ModelParaformer)
	}
	if c.NemoCTCPath != "" {
		selected = append(selected, ModelNemoCTC)
	}
	if c.SenseVoicePath != "" {
		selected = append(selected, ModelSenseVoice)
	}
	if c.WhisperEncoderPath != "" || c.WhisperDecoderPath != "" {
		selected = append(selected, ModelWhisper)
	}

	switch len(selected) {
	case 0:
		return "", fmt.Errorf("no model specified: provide transducer, paraformer, nemo-ctc, sense-voice or whisper model paths")
	case 1:
		return selected[0], nil
	default:
		return "", fmt.Errorf("conflicting model families %v: specify exactly one", selected)
	}
}

// Validate checks that the configuration is usable: a single model family,
// a positive thread count, a known decoding method, and all required model
// files present on disk.
func (c *Config) Validate() error {
	if c.NumThreads <= 0 {
		return fmt.Errorf("num-threads must be positive, got %d", c.NumThreads)
	}

	switch c.DecodingMethod {
	case DecodingGreedySearch, DecodingModifiedBeamSearch:
	default:
		return fmt.Errorf("unknown decoding method %q (valid: %s, %s)",
			c.DecodingMethod, DecodingGreedySearch, DecodingModifiedBeamSearch)
	}

	modelType, err := c.ModelType()
	if err != nil {
		return err
	}

	files := map[string]string{
		"tokens": c.TokensPath,
	}
	switch modelType {
	case ModelTransducer:
		files["encoder"] = c.EncoderPath
		files["decoder"] = c.DecoderPath
		files["joiner"] = c.JoinerPath
	case ModelParaformer:
		files["paraformer"] = c.ParaformerPath
	case ModelNemoCTC:
		files["nemo-ctc"] = c.NemoCTCPath
	case ModelSenseVoice:
		files["sense-voice"] = c.SenseVoicePath
	case ModelWhisper:
		files["whisper-encoder"] = c.WhisperEncoderPath
		files["whisper-decoder"] = c.WhisperDecoderPath
	}

	for name, path := range files {
		if path == "" {
			return fmt.Errorf("%s file is required for a %s model", name, modelType)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return nil
}

// NewConfigFromDir builds a transducer configuration from a model directory.
// It automatically detects the model files, preferring int8 quantized versions.
func NewConfigFromDir(modelDir string) (*Config, error) {
	config := DefaultConfig()
	config.NumThreads = 2

	encoderPath := findModelFile(modelDir, []string{
		"encoder-epoch-99-avg-1.int8.onnx",
		"encoder.int8.onnx",
		"encoder-epoch-99-avg-1.onnx",
		"encoder.onnx",
	})
	if encoderPath == "" {
		return nil, fmt.Errorf("encoder model not found in %s", modelDir)
	}
	config.EncoderPath = encoderPath

	decoderPath := findModelFile(modelDir, []string{
		"decoder-epoch-99-avg-1.onnx",
		"decoder.onnx",
	})
	if decoderPath == "" {
		return nil, fmt.Errorf("decoder model not found in %s", modelDir)
	}
	config.DecoderPath = decoderPath

	joinerPath := findModelFile(modelDir, []string{
		"joiner-epoch-99-avg-1.int8.onnx",
		"joiner.int8.onnx",
		"joiner-epoch-99-avg-1.onnx",
		"joiner.onnx",
	})
	if joinerPath == "" {
		return nil, fmt.Errorf("joiner model not found in %s", modelDir)
	}
	config.JoinerPath = joinerPath

	tokensPath := findModelFile(modelDir, []string{"tokens.txt"})
	if tokensPath == "" {
		return nil, fmt.Errorf("tokens.txt not found in %s", modelDir)
	}
	config.TokensPath = tokensPath

	return config, nil
}

// findModelFile searches for a model file in the given directory
// Returns the first matching file path or empty string if not found
func findModelFile(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
