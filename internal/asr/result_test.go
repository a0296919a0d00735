package asr

import (
	"encoding/json"
	"testing"
)

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.5, "01:01:01,500"},
	}

	for _, tt := range tests {
		if got := formatSRTTime(tt.seconds); got != tt.want {
			t.Errorf("formatSRTTime(%f) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatAsSRT(t *testing.T) {
	result := &Result{
		Text: "hello world",
		Segments: []Segment{
			{Text: "hello", StartTime: 0, EndTime: 1.2},
			{Text: "world", StartTime: 2.0, EndTime: 3.5},
		},
	}

	want := "1\n00:00:00,000 --> 00:00:01,200\nhello\n" +
		"\n2\n00:00:02,000 --> 00:00:03,500\nworld\n"
	if got := result.FormatAsSRT(); got != want {
		t.Errorf("FormatAsSRT() = %q, want %q", got, want)
	}
}

func TestFormatAsSRTWithoutSegments(t *testing.T) {
	result := &Result{Text: "no timestamps here", AudioDuration: 2.5}

	want := "1\n00:00:00,000 --> 00:00:02,500\nno timestamps here\n"
	if got := result.FormatAsSRT(); got != want {
		t.Errorf("FormatAsSRT() = %q, want %q", got, want)
	}
}

func TestFormatAsJSON(t *testing.T) {
	result := &Result{
		Text:          "hello",
		Tokens:        []Token{{Text: "hello", StartTime: 0.1, Duration: 0.4}},
		AudioDuration: 1.0,
	}

	out, err := result.FormatAsJSON()
	if err != nil {
		t.Fatalf("FormatAsJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["text"] != "hello" {
		t.Errorf("text = %v, want hello", decoded["text"])
	}
	if decoded["audio_duration"] != 1.0 {
		t.Errorf("audio_duration = %v, want 1.0", decoded["audio_duration"])
	}
}

func TestTokensToSegments(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		want   []Segment
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   nil,
		},
		{
			name: "single segment",
			tokens: []Token{
				{Text: "hel", StartTime: 0.0, Duration: 0.2},
				{Text: "lo", StartTime: 0.2, Duration: 0.2},
			},
			want: []Segment{
				{Text: "hello", StartTime: 0.0, EndTime: 0.4},
			},
		},
		{
			name: "split on long gap",
			tokens: []Token{
				{Text: "one", StartTime: 0.0, Duration: 0.3},
				{Text: "two", StartTime: 2.0, Duration: 0.3},
			},
			want: []Segment{
				{Text: "one", StartTime: 0.0, EndTime: 0.3},
				{Text: "two", StartTime: 2.0, EndTime: 2.3},
			},
		},
		{
			name: "short gap stays together",
			tokens: []Token{
				{Text: "a", StartTime: 0.0, Duration: 0.1},
				{Text: "b", StartTime: 0.5, Duration: 0.1},
			},
			want: []Segment{
				{Text: "ab", StartTime: 0.0, EndTime: 0.6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokensToSegments(tt.tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Text != tt.want[i].Text {
					t.Errorf("segment %d text = %q, want %q", i, got[i].Text, tt.want[i].Text)
				}
				if diff := got[i].StartTime - tt.want[i].StartTime; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("segment %d start = %f, want %f", i, got[i].StartTime, tt.want[i].StartTime)
				}
				if diff := got[i].EndTime - tt.want[i].EndTime; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("segment %d end = %f, want %f", i, got[i].EndTime, tt.want[i].EndTime)
				}
			}
		})
	}
}
