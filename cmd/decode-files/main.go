package main

import (
	"flag"
	"fmt"
	"os"

	"koe/internal/asr"
)

func main() {
	// Define flags
	var (
		tokens         = flag.String("tokens", "", "Path to tokens.txt")
		encoder        = flag.String("encoder", "", "Path to the transducer encoder model")
		decoder        = flag.String("decoder", "", "Path to the transducer decoder model")
		joiner         = flag.String("joiner", "", "Path to the transducer joiner model")
		paraformer     = flag.String("paraformer", "", "Path to the paraformer model")
		nemoCTC        = flag.String("nemo-ctc", "", "Path to the NeMo CTC model")
		senseVoice     = flag.String("sense-voice", "", "Path to the SenseVoice model")
		senseVoiceLang = flag.String("sense-voice-language", "auto", "SenseVoice language: zh, en, ja, ko, yue, auto")
		whisperEncoder = flag.String("whisper-encoder", "", "Path to the Whisper encoder model")
		whisperDecoder = flag.String("whisper-decoder", "", "Path to the Whisper decoder model")
		whisperLang    = flag.String("whisper-language", "", "Whisper language (empty = auto-detect)")
		whisperTask    = flag.String("whisper-task", "transcribe", "Whisper task: transcribe or translate")
		modelDir       = flag.String("model-dir", "", "Transducer model directory (auto-detects encoder/decoder/joiner/tokens)")
		numThreads     = flag.Int("num-threads", 1, "Number of threads for neural network computation")
		decodingMethod = flag.String("decoding-method", "greedy_search", "Decoding method: greedy_search or modified_beam_search")
		maxActivePaths = flag.Int("max-active-paths", 4, "Beam size for modified_beam_search")
		debug          = flag.Bool("debug", false, "Show debug messages from the inference library")
		sampleRate     = flag.Int("sample-rate", 16000, "Sample rate of the feature extractor. Must match the one expected by the model. Input files may have a different sample rate")
		featureDim     = flag.Int("feature-dim", 80, "Feature dimension. Must match the one expected by the model")
		format         = flag.String("format", "text", "Output format: text, json, srt")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] wave1.wav [wave2.wav ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decode WAVE files with a non-streaming model.\n")
		fmt.Fprintf(os.Stderr, "Each file must be single channel, 16-bit PCM. The sample rate may differ from 16 kHz.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # paraformer\n")
		fmt.Fprintf(os.Stderr, "  %s -tokens tokens.txt -paraformer paraformer.onnx -num-threads 2 0.wav 1.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # transducer\n")
		fmt.Fprintf(os.Stderr, "  %s -tokens tokens.txt -encoder encoder.onnx -decoder decoder.onnx -joiner joiner.onnx 0.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # transducer from a model directory\n")
		fmt.Fprintf(os.Stderr, "  %s -model-dir models/sherpa-onnx-zipformer-ja-reazonspeech-2024-08-01 0.wav\n", os.Args[0])
	}

	flag.Parse()

	// Validate input
	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one input WAVE file is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: input file not found: %s\n", f)
			os.Exit(1)
		}
	}

	// Validate format
	if *format != "text" && *format != "json" && *format != "srt" {
		fmt.Fprintf(os.Stderr, "Error: Invalid format '%s'. Must be: text, json, or srt\n", *format)
		os.Exit(1)
	}

	// Create configuration
	var config *asr.Config
	if *modelDir != "" {
		c, err := asr.NewConfigFromDir(*modelDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load model config: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nHint: Download a pre-trained model first, e.g.:\n")
			fmt.Fprintf(os.Stderr, "  curl -SL -O https://github.com/k2-fsa/sherpa-onnx/releases/download/asr-models/sherpa-onnx-zipformer-ja-reazonspeech-2024-08-01.tar.bz2\n")
			fmt.Fprintf(os.Stderr, "  tar xvf sherpa-onnx-zipformer-ja-reazonspeech-2024-08-01.tar.bz2 -C models/\n")
			os.Exit(1)
		}
		config = c
	} else {
		config = asr.DefaultConfig()
		config.TokensPath = *tokens
		config.EncoderPath = *encoder
		config.DecoderPath = *decoder
		config.JoinerPath = *joiner
		config.ParaformerPath = *paraformer
		config.NemoCTCPath = *nemoCTC
		config.SenseVoicePath = *senseVoice
		config.WhisperEncoderPath = *whisperEncoder
		config.WhisperDecoderPath = *whisperDecoder
	}
	config.SenseVoiceLanguage = *senseVoiceLang
	config.WhisperLanguage = *whisperLang
	config.WhisperTask = *whisperTask
	config.NumThreads = *numThreads
	config.DecodingMethod = *decodingMethod
	config.MaxActivePaths = *maxActivePaths
	config.Debug = *debug
	config.SampleRate = *sampleRate
	config.FeatureDim = *featureDim

	// Create recognizer
	recognizer, err := asr.NewRecognizer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create recognizer: %v\n", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	fmt.Println("Started!")

	results, stats, err := recognizer.DecodeFiles(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Decoding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done!")

	for _, fr := range results {
		var output string
		switch *format {
		case "json":
			output, err = fr.Result.FormatAsJSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: Failed to format JSON: %v\n", err)
				os.Exit(1)
			}
		case "srt":
			output = fr.Result.FormatAsSRT()
		default: // text
			output = fr.Result.FormatAsText()
		}
		fmt.Printf("%s\n%s\n", fr.Path, output)
		fmt.Println("----------")
	}

	fmt.Print(stats.Summary())
}
