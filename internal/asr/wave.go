package asr

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Wave holds audio decoded from a WAVE file.
type Wave struct {
	Samples    []float32 // normalized to [-1, 1]
	SampleRate int       // native sample rate of the file
}

// Duration returns the audio length in seconds.
func (w *Wave) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// ReadWave reads a single-channel 16-bit PCM WAVE file and returns the
// samples normalized to [-1, 1] together with the file's sample rate.
// The sample rate does not need to be 16 kHz.
func ReadWave(path string) (*Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// Read and validate RIFF header (12 bytes)
	riffHeader := make([]byte, 12)
	if _, err := io.ReadFull(f, riffHeader); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	// Parse chunks to find fmt and data
	var audioFormat, numChannels, sampleRate, bitsPerSample int
	var data []byte
	var foundFmt, foundData bool

	for !foundData {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch chunkID {
		case "fmt ":
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, fmtData); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if len(fmtData) >= 16 {
				audioFormat = int(binary.LittleEndian.Uint16(fmtData[0:2]))
				numChannels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
				sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
				bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			}
			foundFmt = true

		case "data":
			data = make([]byte, chunkSize)
			n, err := io.ReadFull(f, data)
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("failed to read data chunk: %w", err)
			}
			data = data[:n]
			foundData = true

		default:
			// Skip unknown chunks (LIST, INFO, etc.)
			if _, err := f.Seek(chunkSize, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("failed to skip chunk %s: %w", chunkID, err)
			}
		}

		// WAV chunks are word-aligned (padded to even byte boundary)
		if chunkSize%2 != 0 && chunkID != "data" {
			f.Seek(1, io.SeekCurrent)
		}
	}

	if !foundFmt {
		return nil, fmt.Errorf("fmt chunk not found")
	}
	if !foundData {
		return nil, fmt.Errorf("data chunk not found")
	}
	if audioFormat != 1 {
		return nil, fmt.Errorf("unsupported WAV format code %d, only uncompressed PCM is supported", audioFormat)
	}
	if numChannels != 1 {
		return nil, fmt.Errorf("only single channel WAV files are supported, got %d channels", numChannels)
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("only 16-bit WAV files are supported, got %d-bit", bitsPerSample)
	}

	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(sample) / 32768.0
	}

	return &Wave{Samples: samples, SampleRate: sampleRate}, nil
}

// WriteWave writes samples as a single-channel 16-bit PCM WAVE file.
// Samples outside [-1, 1] are clipped.
func WriteWave(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		buf.Data[i] = v
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close wav encoder: %w", err)
	}
	return nil
}
