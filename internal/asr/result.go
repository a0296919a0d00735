package asr

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Token is a recognized token with its timestamp
type Token struct {
	Text      string  `json:"text"`
	StartTime float32 `json:"start_time"`         // in seconds
	Duration  float32 `json:"duration,omitempty"` // in seconds, 0 if the model does not report it
}

// Segment represents a timestamped text segment in the transcription
type Segment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"` // in seconds
	EndTime   float64 `json:"end_time"`   // in seconds
}

// Result represents the complete transcription result for one input
type Result struct {
	Text          string    `json:"text"`               // full transcription text
	Tokens        []Token   `json:"tokens,omitempty"`   // tokens with timestamps (if available)
	Segments      []Segment `json:"segments,omitempty"` // timestamped segments (if available)
	AudioDuration float64   `json:"audio_duration"`     // audio length in seconds
}

// FormatAsText returns the transcription as plain text
func (r *Result) FormatAsText() string {
	return r.Text
}

// FormatAsJSON returns the transcription as formatted JSON
func (r *Result) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatAsSRT returns the transcription as SRT subtitle format
func (r *Result) FormatAsSRT() string {
	if len(r.Segments) == 0 {
		// If no segments available, create a single segment
		return formatSRTSegment(1, 0, r.AudioDuration, r.Text)
	}

	var srt strings.Builder
	for i, seg := range r.Segments {
		srt.WriteString(formatSRTSegment(i+1, seg.StartTime, seg.EndTime, seg.Text))
		if i < len(r.Segments)-1 {
			srt.WriteString("\n")
		}
	}
	return srt.String()
}

// formatSRTSegment formats a single SRT subtitle entry
func formatSRTSegment(index int, startSec, endSec float64, text string) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n",
		index,
		formatSRTTime(startSec),
		formatSRTTime(endSec),
		text,
	)
}

// formatSRTTime converts seconds to SRT time format (HH:MM:SS,mmm)
func formatSRTTime(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// segmentGap is the silence between tokens that starts a new segment.
const segmentGap = 0.8

// tokensToSegments groups consecutive tokens into segments, splitting
// whenever the gap between one token's end and the next token's start
// exceeds segmentGap seconds. Tokens without timestamps collapse into a
// single segment.
func tokensToSegments(tokens []Token) []Segment {
	if len(tokens) == 0 {
		return nil
	}

	var segments []Segment
	var text strings.Builder
	segStart := float64(tokens[0].StartTime)
	prevEnd := float64(tokens[0].StartTime)

	for _, tok := range tokens {
		start := float64(tok.StartTime)
		if text.Len() > 0 && start-prevEnd > segmentGap {
			segments = append(segments, Segment{
				Text:      text.String(),
				StartTime: segStart,
				EndTime:   prevEnd,
			})
			text.Reset()
			segStart = start
		}
		text.WriteString(tok.Text)
		end := start + float64(tok.Duration)
		if end > prevEnd {
			prevEnd = end
		}
	}

	if text.Len() > 0 {
		segments = append(segments, Segment{
			Text:      text.String(),
			StartTime: segStart,
			EndTime:   prevEnd,
		})
	}

	return segments
}
